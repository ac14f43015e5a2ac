package report

import (
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/temirov/vcstat/internal/repos/shared"
)

// Row pairs a repository with the status captured for it.
type Row struct {
	Handle shared.RepositoryHandle
	Status shared.RepositoryStatus
}

// Group is the rendered unit for one root argument.
type Group struct {
	Root    string
	Entries []Entry
	Longest int
}

// NewGroup pads and orders rows for display. Padding aligns every display name to the
// widest name among rows; ordering is case-insensitive by name with the path as tiebreak.
func NewGroup(root string, rows []Row) Group {
	longest := lo.Max(lo.Map(rows, func(row Row, _ int) int {
		return DisplayWidth(row.Handle.Name())
	}))

	entries := lo.Map(rows, func(row Row, _ int) Entry {
		return Entry{
			Handle:  row.Handle,
			Status:  row.Status,
			Padding: max(0, longest-DisplayWidth(row.Handle.Name())),
		}
	})

	sort.SliceStable(entries, func(left int, right int) bool {
		leftName := strings.ToLower(entries[left].Handle.Name())
		rightName := strings.ToLower(entries[right].Handle.Name())
		if leftName != rightName {
			return leftName < rightName
		}
		return entries[left].Handle.Path() < entries[right].Handle.Path()
	})

	return Group{Root: root, Entries: entries, Longest: longest}
}

// Render returns the header line followed by every entry.
func (group Group) Render(formatter Formatter, layout Layout) string {
	var builder strings.Builder
	builder.WriteString(formatter.RenderGroupHeader(group.Root))
	for _, entry := range group.Entries {
		builder.WriteString(formatter.Render(entry, layout))
	}
	return builder.String()
}
