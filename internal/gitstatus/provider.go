package gitstatus

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// ProviderKind selects a StatusProvider implementation.
type ProviderKind string

const (
	// ProviderKindCLI queries repositories through the git binary.
	ProviderKindCLI ProviderKind = "cli"
	// ProviderKindLibrary queries repositories in-process through go-git.
	ProviderKindLibrary ProviderKind = "library"
)

const unsupportedProviderErrorTemplateConstant = "unsupported status provider %q (expected one of: %s)"

const providerKindSeparatorConstant = ", "

// SupportedProviderKinds lists the accepted provider names in display order.
func SupportedProviderKinds() []ProviderKind {
	return []ProviderKind{ProviderKindCLI, ProviderKindLibrary}
}

// ParseProviderKind normalizes a configured provider name. An empty value selects the CLI provider.
func ParseProviderKind(value string) (ProviderKind, error) {
	normalizedValue := ProviderKind(strings.ToLower(strings.TrimSpace(value)))
	if len(normalizedValue) == 0 {
		return ProviderKindCLI, nil
	}
	if lo.Contains(SupportedProviderKinds(), normalizedValue) {
		return normalizedValue, nil
	}
	supportedNames := lo.Map(SupportedProviderKinds(), func(kind ProviderKind, _ int) string {
		return string(kind)
	})
	return "", fmt.Errorf(unsupportedProviderErrorTemplateConstant, value, strings.Join(supportedNames, providerKindSeparatorConstant))
}
