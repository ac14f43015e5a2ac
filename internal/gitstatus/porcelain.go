package gitstatus

import (
	"strconv"
	"strings"
)

const (
	porcelainUntrackedPrefixConstant = "??"
	porcelainIgnoredPrefixConstant   = "!!"
	porcelainPathOffsetConstant      = 3
	porcelainRenameSeparatorConstant = " -> "
	porcelainQuoteConstant           = `"`
	lineFeedConstant                 = "\n"
	carriageReturnConstant           = "\r"
)

// PorcelainSummary is the parsed form of `git status --porcelain=v1` output.
type PorcelainSummary struct {
	Lines          []string
	TrackedChanges []string
	UntrackedFiles []string
}

// Dirty reports whether any tracked file carries staged or unstaged changes.
func (summary PorcelainSummary) Dirty() bool {
	return len(summary.TrackedChanges) > 0
}

// ParsePorcelainStatus splits porcelain v1 output into tracked changes and untracked paths.
// Lines keep their leading status columns intact; ignored entries are dropped.
func ParsePorcelainStatus(output string) PorcelainSummary {
	summary := PorcelainSummary{}
	for _, line := range SplitStatusLines(output) {
		if strings.HasPrefix(line, porcelainIgnoredPrefixConstant) {
			continue
		}
		summary.Lines = append(summary.Lines, line)
		if strings.HasPrefix(line, porcelainUntrackedPrefixConstant) {
			summary.UntrackedFiles = append(summary.UntrackedFiles, porcelainPath(line))
			continue
		}
		summary.TrackedChanges = append(summary.TrackedChanges, porcelainPath(line))
	}
	return summary
}

// SplitStatusLines returns the non-empty lines of git output without trimming leading columns.
func SplitStatusLines(output string) []string {
	var lines []string
	for _, rawLine := range strings.Split(output, lineFeedConstant) {
		line := strings.TrimSuffix(rawLine, carriageReturnConstant)
		if len(strings.TrimSpace(line)) == 0 {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func porcelainPath(line string) string {
	if len(line) <= porcelainPathOffsetConstant {
		return ""
	}
	path := line[porcelainPathOffsetConstant:]
	if separatorIndex := strings.Index(path, porcelainRenameSeparatorConstant); separatorIndex >= 0 {
		path = path[separatorIndex+len(porcelainRenameSeparatorConstant):]
	}
	return unquotePath(path)
}

func unquotePath(path string) string {
	if !strings.HasPrefix(path, porcelainQuoteConstant) || !strings.HasSuffix(path, porcelainQuoteConstant) {
		return path
	}
	unquotedPath, unquoteError := strconv.Unquote(path)
	if unquoteError != nil {
		return path
	}
	return unquotedPath
}
