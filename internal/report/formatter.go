package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/temirov/vcstat/internal/repos/shared"
)

// BaseMode is the effective base filter of a run.
type BaseMode string

const (
	// BaseModeAll shows clean and dirty repositories.
	BaseModeAll BaseMode = "all"
	// BaseModeDirtyOnly shows dirty repositories only.
	BaseModeDirtyOnly BaseMode = "dirty-only"
)

const (
	dirtyStatusWordConstant         = "dirty"
	cleanStatusWordConstant         = "clean"
	detachedBranchLabelConstant     = "(detached)"
	statusWordTemplateConstant      = "(%s)"
	untrackedMarkerTemplateConstant = "[%d untracked]"
	groupHeaderTemplateConstant     = "Git Repos %s"
	detailIndentConstant            = "    "
	fieldSeparatorConstant          = " "
	newlineConstant                 = "\n"
)

// Layout carries the per-run rendering options.
type Layout struct {
	Detail            bool
	BaseMode          BaseMode
	AnnotateUntracked bool
}

// Entry is one repository prepared for rendering.
type Entry struct {
	Handle  shared.RepositoryHandle
	Status  shared.RepositoryStatus
	Padding int
}

// Formatter renders entries and group headers with a fixed palette.
type Formatter struct {
	palette Palette
}

// NewFormatter constructs a Formatter bound to palette.
func NewFormatter(palette Palette) Formatter {
	return Formatter{palette: palette}
}

// Render returns the newline-terminated text for one entry.
//
// Summary form is a single line. Detail form appends each short-status line indented by four
// spaces and then a blank line; when short status is empty the blank line is kept only in
// the all base mode.
func (formatter Formatter) Render(entry Entry, layout Layout) string {
	var builder strings.Builder
	builder.WriteString(formatter.summaryLine(entry, layout))
	builder.WriteString(newlineConstant)

	if !layout.Detail {
		return builder.String()
	}

	for _, shortStatusLine := range entry.Status.ShortStatus {
		builder.WriteString(detailIndentConstant)
		builder.WriteString(shortStatusLine)
		builder.WriteString(newlineConstant)
	}
	if len(entry.Status.ShortStatus) > 0 || layout.BaseMode == BaseModeAll {
		builder.WriteString(newlineConstant)
	}
	return builder.String()
}

// RenderGroupHeader returns the newline-terminated header line for a root.
func (formatter Formatter) RenderGroupHeader(root string) string {
	return formatter.palette.groupHeader.Render(fmt.Sprintf(groupHeaderTemplateConstant, root)) + newlineConstant
}

func (formatter Formatter) summaryLine(entry Entry, layout Layout) string {
	statusWord := cleanStatusWordConstant
	statusStyle := formatter.palette.cleanStatus
	if entry.Status.Dirty {
		statusWord = dirtyStatusWordConstant
		statusStyle = formatter.palette.dirtyStatus
	}

	branchLabel := entry.Status.Branch
	if entry.Status.Detached() {
		branchLabel = detachedBranchLabelConstant
	}

	fields := []string{
		strings.Repeat(fieldSeparatorConstant, max(0, entry.Padding)) + formatter.palette.repositoryName.Render(entry.Handle.Name()),
		fmt.Sprintf(statusWordTemplateConstant, statusStyle.Render(statusWord)),
		formatter.palette.branch.Render(branchLabel),
	}
	if layout.AnnotateUntracked && entry.Status.UntrackedCount() > 0 {
		fields = append(fields, formatter.palette.untrackedMarker.Render(fmt.Sprintf(untrackedMarkerTemplateConstant, entry.Status.UntrackedCount())))
	}
	return strings.Join(fields, fieldSeparatorConstant)
}

// DisplayWidth measures a display name in terminal cells.
func DisplayWidth(name string) int {
	return lipgloss.Width(name)
}
