package status

import (
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/temirov/vcstat/internal/gitstatus"
	"github.com/temirov/vcstat/internal/repos/discovery"
	"github.com/temirov/vcstat/internal/report"
)

const (
	configurationKeySeparatorConstant      = "."
	rootsConfigurationKeyConstant          = "roots"
	markersConfigurationKeyConstant        = "markers"
	followSymlinksConfigurationKeyConstant = "follow_symlinks"
	providerConfigurationKeyConstant       = "provider"
	concurrencyConfigurationKeyConstant    = "concurrency"
	queryTimeoutConfigurationKeyConstant   = "query_timeout"
	colorConfigurationKeyConstant          = "color"
)

// CommandConfiguration captures persistent settings for the status command.
type CommandConfiguration struct {
	Roots          []string      `mapstructure:"roots"`
	Markers        []string      `mapstructure:"markers"`
	FollowSymlinks bool          `mapstructure:"follow_symlinks"`
	Provider       string        `mapstructure:"provider"`
	Concurrency    int           `mapstructure:"concurrency"`
	QueryTimeout   time.Duration `mapstructure:"query_timeout"`
	Color          string        `mapstructure:"color"`
}

// DefaultCommandConfiguration returns baseline configuration values for the status command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Roots:          nil,
		Markers:        []string{discovery.GitMarkerNameConstant},
		FollowSymlinks: true,
		Provider:       string(gitstatus.ProviderKindCLI),
		Concurrency:    DefaultConcurrencyConstant,
		QueryTimeout:   DefaultQueryTimeoutConstant,
		Color:          string(report.ColorModeAuto),
	}
}

// DefaultConfigurationValues exposes the defaults as viper keys nested under prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	qualify := func(key string) string {
		if len(prefix) == 0 {
			return key
		}
		return prefix + configurationKeySeparatorConstant + key
	}
	return map[string]any{
		qualify(rootsConfigurationKeyConstant):          []string{},
		qualify(markersConfigurationKeyConstant):        defaults.Markers,
		qualify(followSymlinksConfigurationKeyConstant): defaults.FollowSymlinks,
		qualify(providerConfigurationKeyConstant):       defaults.Provider,
		qualify(concurrencyConfigurationKeyConstant):    defaults.Concurrency,
		qualify(queryTimeoutConfigurationKeyConstant):   defaults.QueryTimeout.String(),
		qualify(colorConfigurationKeyConstant):          defaults.Color,
	}
}

// Sanitize trims whitespace and replaces unset or out-of-range values with defaults.
// Enumerated values are lower-cased but validated only when the command runs.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	defaults := DefaultCommandConfiguration()
	sanitized := configuration

	sanitized.Roots = trimEntries(configuration.Roots)
	sanitized.Markers = trimEntries(configuration.Markers)
	if len(sanitized.Markers) == 0 {
		sanitized.Markers = defaults.Markers
	}

	sanitized.Provider = strings.ToLower(strings.TrimSpace(configuration.Provider))
	if len(sanitized.Provider) == 0 {
		sanitized.Provider = defaults.Provider
	}

	sanitized.Color = strings.ToLower(strings.TrimSpace(configuration.Color))
	if len(sanitized.Color) == 0 {
		sanitized.Color = defaults.Color
	}

	if sanitized.Concurrency <= 0 {
		sanitized.Concurrency = defaults.Concurrency
	}
	if sanitized.QueryTimeout <= 0 {
		sanitized.QueryTimeout = defaults.QueryTimeout
	}

	return sanitized
}

func trimEntries(raw []string) []string {
	return lo.FilterMap(raw, func(entry string, _ int) (string, bool) {
		trimmedEntry := strings.TrimSpace(entry)
		return trimmedEntry, len(trimmedEntry) > 0
	})
}
