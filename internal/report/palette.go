package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/samber/lo"
)

// ColorMode selects whether styled output is emitted.
type ColorMode string

const (
	// ColorModeAuto colours output only when the destination supports it.
	ColorModeAuto ColorMode = "auto"
	// ColorModeAlways forces ANSI colours.
	ColorModeAlways ColorMode = "always"
	// ColorModeNever disables colours.
	ColorModeNever ColorMode = "never"
)

const (
	unsupportedColorModeErrorTemplateConstant = "unsupported color mode %q (expected one of: %s)"
	colorModeSeparatorConstant                = ", "
	repositoryNameColorConstant               = "7"
	dirtyStatusColorConstant                  = "1"
	cleanStatusColorConstant                  = "2"
	branchColorConstant                       = "3"
	untrackedMarkerColorConstant              = "6"
)

// SupportedColorModes lists the accepted colour modes in display order.
func SupportedColorModes() []ColorMode {
	return []ColorMode{ColorModeAuto, ColorModeAlways, ColorModeNever}
}

// ParseColorMode normalizes a configured colour mode. An empty value selects auto.
func ParseColorMode(value string) (ColorMode, error) {
	normalizedValue := ColorMode(strings.ToLower(strings.TrimSpace(value)))
	if len(normalizedValue) == 0 {
		return ColorModeAuto, nil
	}
	if lo.Contains(SupportedColorModes(), normalizedValue) {
		return normalizedValue, nil
	}
	supportedNames := lo.Map(SupportedColorModes(), func(mode ColorMode, _ int) string {
		return string(mode)
	})
	return "", fmt.Errorf(unsupportedColorModeErrorTemplateConstant, value, strings.Join(supportedNames, colorModeSeparatorConstant))
}

// Palette holds the styles used by Formatter. It is immutable once built.
type Palette struct {
	repositoryName  lipgloss.Style
	dirtyStatus     lipgloss.Style
	cleanStatus     lipgloss.Style
	branch          lipgloss.Style
	untrackedMarker lipgloss.Style
	groupHeader     lipgloss.Style
}

// NewPalette builds a palette for output written to destination. Auto mode inspects the
// destination and the environment; always and never force an ANSI or plain profile.
func NewPalette(mode ColorMode, destination io.Writer) Palette {
	renderer := lipgloss.NewRenderer(destination)
	switch mode {
	case ColorModeAlways:
		renderer.SetColorProfile(termenv.ANSI)
	case ColorModeNever:
		renderer.SetColorProfile(termenv.Ascii)
	}

	return Palette{
		repositoryName:  renderer.NewStyle().Bold(true).Foreground(lipgloss.Color(repositoryNameColorConstant)),
		dirtyStatus:     renderer.NewStyle().Foreground(lipgloss.Color(dirtyStatusColorConstant)),
		cleanStatus:     renderer.NewStyle().Foreground(lipgloss.Color(cleanStatusColorConstant)),
		branch:          renderer.NewStyle().Foreground(lipgloss.Color(branchColorConstant)),
		untrackedMarker: renderer.NewStyle().Foreground(lipgloss.Color(untrackedMarkerColorConstant)),
		groupHeader:     renderer.NewStyle().Bold(true),
	}
}

// PlainPalette renders without any escape sequences.
func PlainPalette() Palette {
	return NewPalette(ColorModeNever, io.Discard)
}
