package shared

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/temirov/vcstat/internal/execshell"
)

const (
	repositoryPathRequiredMessageConstant = "repository path must be provided"
	repositoryPathInvalidMessageConstant  = "repository path must not contain line breaks"
	lineBreakCharactersConstant           = "\r\n"
)

// ErrRepositoryPathRequired indicates an empty repository path.
var ErrRepositoryPathRequired = errors.New(repositoryPathRequiredMessageConstant)

// ErrRepositoryPathInvalid indicates a repository path containing control characters.
var ErrRepositoryPathInvalid = errors.New(repositoryPathInvalidMessageConstant)

// RepositoryHandle identifies one discovered repository root.
type RepositoryHandle struct {
	path string
	name string
}

// NewRepositoryHandle builds a handle from a repository root path. The path is cleaned but not resolved.
func NewRepositoryHandle(repositoryPath string) (RepositoryHandle, error) {
	if strings.ContainsAny(repositoryPath, lineBreakCharactersConstant) {
		return RepositoryHandle{}, ErrRepositoryPathInvalid
	}
	trimmedPath := strings.TrimSpace(repositoryPath)
	if len(trimmedPath) == 0 {
		return RepositoryHandle{}, ErrRepositoryPathRequired
	}
	cleanedPath := filepath.Clean(trimmedPath)
	return RepositoryHandle{path: cleanedPath, name: filepath.Base(cleanedPath)}, nil
}

// Path returns the repository root path.
func (handle RepositoryHandle) Path() string {
	return handle.path
}

// Name returns the display name, the final path segment.
func (handle RepositoryHandle) Name() string {
	return handle.name
}

// String implements fmt.Stringer.
func (handle RepositoryHandle) String() string {
	return handle.path
}

// RepositoryStatus is a snapshot of repository state captured once per run.
type RepositoryStatus struct {
	Dirty          bool
	Branch         string
	UntrackedFiles []string
	ShortStatus    []string
}

// UntrackedCount reports how many untracked files were observed.
func (status RepositoryStatus) UntrackedCount() int {
	return len(status.UntrackedFiles)
}

// Detached reports whether no branch name was resolved.
func (status RepositoryStatus) Detached() bool {
	return len(status.Branch) == 0
}

// FileSystem exposes the filesystem operations used during discovery.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	Abs(path string) (string, error)
	EvalSymlinks(path string) (string, error)
}

// GitExecutor exposes the subset of shell execution used by git-backed providers.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// RepositoryLocator finds repository roots beneath a single directory.
type RepositoryLocator interface {
	Locate(executionContext context.Context, root string) ([]RepositoryHandle, error)
}

// StatusProvider answers read-only questions about a single repository.
type StatusProvider interface {
	IsDirty(executionContext context.Context, repositoryPath string) (bool, error)
	CurrentBranch(executionContext context.Context, repositoryPath string) (string, error)
	UntrackedFiles(executionContext context.Context, repositoryPath string) ([]string, error)
	ShortStatus(executionContext context.Context, repositoryPath string) ([]string, error)
}

// SnapshotProvider is implemented by providers able to capture every status field in one pass.
type SnapshotProvider interface {
	Snapshot(executionContext context.Context, repositoryPath string) (RepositoryStatus, error)
}
