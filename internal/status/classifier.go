package status

import (
	"github.com/temirov/vcstat/internal/repos/shared"
	"github.com/temirov/vcstat/internal/report"
)

// Filter decides which repositories are reported.
//
// DirtyOnly restricts the base set to dirty repositories and wins over ShowAll. Untracked is
// independent of the base set: it also admits clean repositories with untracked files and
// turns on the untracked-count annotation.
type Filter struct {
	DirtyOnly bool
	ShowAll   bool
	Untracked bool
}

// BaseMode reports the effective base filter.
func (filter Filter) BaseMode() report.BaseMode {
	if filter.DirtyOnly {
		return report.BaseModeDirtyOnly
	}
	return report.BaseModeAll
}

// Included reports whether a repository with the given status is reported.
func (filter Filter) Included(repositoryStatus shared.RepositoryStatus) bool {
	if filter.BaseMode() == report.BaseModeAll {
		return true
	}
	if repositoryStatus.Dirty {
		return true
	}
	return filter.Untracked && repositoryStatus.UntrackedCount() > 0
}

// Layout derives the rendering options for this filter.
func (filter Filter) Layout(detail bool) report.Layout {
	return report.Layout{
		Detail:            detail,
		BaseMode:          filter.BaseMode(),
		AnnotateUntracked: filter.Untracked,
	}
}
