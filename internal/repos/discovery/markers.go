package discovery

import (
	"path/filepath"
	"strings"

	"github.com/samber/lo"

	"github.com/temirov/vcstat/internal/repos/shared"
)

// GitMarkerNameConstant is the metadata directory that identifies a git repository root.
const GitMarkerNameConstant = ".git"

// MarkerSet lists metadata directory names that identify a repository root.
type MarkerSet struct {
	names []string
}

// NewMarkerSet builds a MarkerSet from the provided names, ignoring blanks and duplicates.
// An empty input yields the git marker.
func NewMarkerSet(names ...string) MarkerSet {
	trimmedNames := lo.Map(names, func(name string, _ int) string {
		return strings.TrimSpace(name)
	})
	validNames := lo.Uniq(lo.Filter(trimmedNames, func(name string, _ int) bool {
		return len(name) > 0 && !strings.ContainsRune(name, filepath.Separator)
	}))
	if len(validNames) == 0 {
		return DefaultMarkerSet()
	}
	return MarkerSet{names: validNames}
}

// DefaultMarkerSet recognizes git repositories only.
func DefaultMarkerSet() MarkerSet {
	return MarkerSet{names: []string{GitMarkerNameConstant}}
}

// Names returns a copy of the configured marker names.
func (set MarkerSet) Names() []string {
	if len(set.names) == 0 {
		return []string{GitMarkerNameConstant}
	}
	return append([]string{}, set.names...)
}

// IsMarker reports whether the entry name is one of the markers.
func (set MarkerSet) IsMarker(entryName string) bool {
	return lo.Contains(set.Names(), entryName)
}

// IsRepositoryRoot reports whether the directory directly contains a marker subdirectory.
func (set MarkerSet) IsRepositoryRoot(fileSystem shared.FileSystem, directoryPath string) bool {
	for _, markerName := range set.Names() {
		markerInfo, statError := fileSystem.Stat(filepath.Join(directoryPath, markerName))
		if statError != nil {
			continue
		}
		if markerInfo.IsDir() {
			return true
		}
	}
	return false
}
