package discovery

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/temirov/vcstat/internal/repos/filesystem"
	"github.com/temirov/vcstat/internal/repos/shared"
)

const (
	skippedSubtreeMessageConstant  = "skipping unreadable path"
	skippedRootMessageConstant     = "skipping unresolvable root"
	skippedSymlinkMessageConstant  = "skipping symbolic link"
	repositoryFoundMessageConstant = "repository root found"
	logFieldPathConstant           = "path"
	logFieldRootConstant           = "root"
	logFieldMarkersConstant        = "markers"
)

// LocatorConfiguration enumerates the collaborators and options of FilesystemRepositoryLocator.
type LocatorConfiguration struct {
	Markers        MarkerSet
	FollowSymlinks bool
	FileSystem     shared.FileSystem
	Logger         *zap.Logger
}

// FilesystemRepositoryLocator locates repository roots on disk.
type FilesystemRepositoryLocator struct {
	markers        MarkerSet
	followSymlinks bool
	fileSystem     shared.FileSystem
	logger         *zap.Logger
}

type walkState struct {
	visitedDirectories map[string]struct{}
	seenRepositories   map[string]struct{}
	repositories       []shared.RepositoryHandle
}

// NewFilesystemRepositoryLocator constructs a locator backed by filepath.WalkDir.
func NewFilesystemRepositoryLocator(configuration LocatorConfiguration) *FilesystemRepositoryLocator {
	fileSystem := configuration.FileSystem
	if fileSystem == nil {
		fileSystem = filesystem.OSFileSystem{}
	}
	logger := configuration.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	markers := configuration.Markers
	if len(markers.names) == 0 {
		markers = DefaultMarkerSet()
	}
	return &FilesystemRepositoryLocator{
		markers:        markers,
		followSymlinks: configuration.FollowSymlinks,
		fileSystem:     fileSystem,
		logger:         logger,
	}
}

// Locate walks root and returns every repository root beneath it, including root itself.
// Subtrees of a repository root are not searched. Unreadable subtrees are skipped.
func (locator *FilesystemRepositoryLocator) Locate(executionContext context.Context, root string) ([]shared.RepositoryHandle, error) {
	if executionContext == nil {
		executionContext = context.Background()
	}

	absoluteRoot, absError := locator.fileSystem.Abs(root)
	if absError != nil {
		locator.logger.Debug(skippedRootMessageConstant, zap.String(logFieldRootConstant, root), zap.Error(absError))
		return nil, nil
	}

	state := &walkState{
		visitedDirectories: make(map[string]struct{}),
		seenRepositories:   make(map[string]struct{}),
	}

	if walkError := locator.walk(executionContext, state, absoluteRoot); walkError != nil {
		return nil, walkError
	}

	sort.Slice(state.repositories, func(left int, right int) bool {
		return state.repositories[left].Path() < state.repositories[right].Path()
	})
	return state.repositories, nil
}

// walk traverses the physical directory behind displayRoot while reporting paths under displayRoot.
func (locator *FilesystemRepositoryLocator) walk(executionContext context.Context, state *walkState, displayRoot string) error {
	physicalRoot, resolveError := locator.fileSystem.EvalSymlinks(displayRoot)
	if resolveError != nil {
		locator.logger.Debug(skippedRootMessageConstant, zap.String(logFieldRootConstant, displayRoot), zap.Error(resolveError))
		return nil
	}
	if _, visited := state.visitedDirectories[physicalRoot]; visited {
		return nil
	}
	state.visitedDirectories[physicalRoot] = struct{}{}

	return filepath.WalkDir(physicalRoot, func(physicalPath string, directoryEntry fs.DirEntry, walkError error) error {
		if contextError := executionContext.Err(); contextError != nil {
			return contextError
		}

		displayPath := translatePath(physicalRoot, displayRoot, physicalPath)

		if walkError != nil {
			locator.logger.Debug(skippedSubtreeMessageConstant, zap.String(logFieldPathConstant, displayPath), zap.Error(walkError))
			return nil
		}

		if directoryEntry.Type()&fs.ModeSymlink != 0 {
			return locator.followSymlink(executionContext, state, physicalPath, displayPath)
		}

		if !directoryEntry.IsDir() {
			return nil
		}

		if locator.markers.IsMarker(directoryEntry.Name()) {
			return fs.SkipDir
		}

		if !locator.markers.IsRepositoryRoot(locator.fileSystem, physicalPath) {
			return nil
		}

		locator.record(state, physicalPath, displayPath)
		return fs.SkipDir
	})
}

func (locator *FilesystemRepositoryLocator) followSymlink(executionContext context.Context, state *walkState, physicalPath string, displayPath string) error {
	if !locator.followSymlinks {
		return nil
	}

	targetInfo, statError := locator.fileSystem.Stat(physicalPath)
	if statError != nil || !targetInfo.IsDir() {
		locator.logger.Debug(skippedSymlinkMessageConstant, zap.String(logFieldPathConstant, displayPath), zap.Error(statError))
		return nil
	}

	return locator.walk(executionContext, state, displayPath)
}

func (locator *FilesystemRepositoryLocator) record(state *walkState, physicalPath string, displayPath string) {
	identity := physicalPath
	if resolvedPath, resolveError := locator.fileSystem.EvalSymlinks(physicalPath); resolveError == nil {
		identity = resolvedPath
	}
	if _, alreadySeen := state.seenRepositories[identity]; alreadySeen {
		return
	}

	handle, handleError := shared.NewRepositoryHandle(displayPath)
	if handleError != nil {
		locator.logger.Debug(skippedSubtreeMessageConstant, zap.String(logFieldPathConstant, displayPath), zap.Error(handleError))
		return
	}

	state.seenRepositories[identity] = struct{}{}
	state.repositories = append(state.repositories, handle)
	locator.logger.Debug(
		repositoryFoundMessageConstant,
		zap.String(logFieldPathConstant, handle.Path()),
		zap.Strings(logFieldMarkersConstant, locator.markers.Names()),
	)
}

func translatePath(physicalRoot string, displayRoot string, physicalPath string) string {
	relativePath, relativeError := filepath.Rel(physicalRoot, physicalPath)
	if relativeError != nil {
		return physicalPath
	}
	return filepath.Join(displayRoot, relativePath)
}
