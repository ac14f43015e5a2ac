package gitstatus

import (
	"context"
	"errors"
	"fmt"
	"sort"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/samber/lo"

	"github.com/temirov/vcstat/internal/repos/shared"
)

const (
	openRepositoryErrorTemplateConstant = "open repository: %w"
	openWorktreeErrorTemplateConstant   = "open worktree: %w"
	readWorktreeErrorTemplateConstant   = "read worktree status: %w"
	resolveHeadErrorTemplateConstant    = "resolve HEAD: %w"
	shortStatusLineTemplateConstant     = "%c%c %s"
)

// LibraryProvider answers status questions in-process through go-git.
type LibraryProvider struct{}

// NewLibraryProvider constructs a go-git backed provider.
func NewLibraryProvider() *LibraryProvider {
	return &LibraryProvider{}
}

// Snapshot opens the repository once and captures every status field.
func (provider *LibraryProvider) Snapshot(executionContext context.Context, repositoryPath string) (shared.RepositoryStatus, error) {
	repository, openError := provider.open(executionContext, repositoryPath)
	if openError != nil {
		return shared.RepositoryStatus{}, openError
	}
	worktreeStatus, statusError := provider.worktreeStatus(repository)
	if statusError != nil {
		return shared.RepositoryStatus{}, statusError
	}
	branchName, branchError := provider.branch(repository)
	if branchError != nil {
		return shared.RepositoryStatus{}, branchError
	}
	return shared.RepositoryStatus{
		Dirty:          hasTrackedChanges(worktreeStatus),
		Branch:         branchName,
		UntrackedFiles: untrackedPaths(worktreeStatus),
		ShortStatus:    shortStatusLines(worktreeStatus),
	}, nil
}

// IsDirty reports whether tracked files carry staged or unstaged changes.
func (provider *LibraryProvider) IsDirty(executionContext context.Context, repositoryPath string) (bool, error) {
	worktreeStatus, statusError := provider.openStatus(executionContext, repositoryPath)
	if statusError != nil {
		return false, statusError
	}
	return hasTrackedChanges(worktreeStatus), nil
}

// CurrentBranch returns the checked out branch, the unborn branch name for an empty repository,
// or an empty string for a detached HEAD.
func (provider *LibraryProvider) CurrentBranch(executionContext context.Context, repositoryPath string) (string, error) {
	repository, openError := provider.open(executionContext, repositoryPath)
	if openError != nil {
		return "", openError
	}
	return provider.branch(repository)
}

// UntrackedFiles lists untracked paths relative to the repository root in lexical order.
func (provider *LibraryProvider) UntrackedFiles(executionContext context.Context, repositoryPath string) ([]string, error) {
	worktreeStatus, statusError := provider.openStatus(executionContext, repositoryPath)
	if statusError != nil {
		return nil, statusError
	}
	return untrackedPaths(worktreeStatus), nil
}

// ShortStatus renders the worktree status as `XY path` lines in lexical path order.
func (provider *LibraryProvider) ShortStatus(executionContext context.Context, repositoryPath string) ([]string, error) {
	worktreeStatus, statusError := provider.openStatus(executionContext, repositoryPath)
	if statusError != nil {
		return nil, statusError
	}
	return shortStatusLines(worktreeStatus), nil
}

func (provider *LibraryProvider) open(executionContext context.Context, repositoryPath string) (*git.Repository, error) {
	if contextError := executionContext.Err(); contextError != nil {
		return nil, contextError
	}
	repository, openError := git.PlainOpen(repositoryPath)
	if openError != nil {
		return nil, fmt.Errorf(openRepositoryErrorTemplateConstant, openError)
	}
	return repository, nil
}

func (provider *LibraryProvider) openStatus(executionContext context.Context, repositoryPath string) (git.Status, error) {
	repository, openError := provider.open(executionContext, repositoryPath)
	if openError != nil {
		return nil, openError
	}
	return provider.worktreeStatus(repository)
}

func (provider *LibraryProvider) worktreeStatus(repository *git.Repository) (git.Status, error) {
	worktree, worktreeError := repository.Worktree()
	if worktreeError != nil {
		return nil, fmt.Errorf(openWorktreeErrorTemplateConstant, worktreeError)
	}
	worktreeStatus, statusError := worktree.Status()
	if statusError != nil {
		return nil, fmt.Errorf(readWorktreeErrorTemplateConstant, statusError)
	}
	return worktreeStatus, nil
}

func (provider *LibraryProvider) branch(repository *git.Repository) (string, error) {
	headReference, headError := repository.Head()
	if errors.Is(headError, plumbing.ErrReferenceNotFound) {
		symbolicHead, symbolicError := repository.Reference(plumbing.HEAD, false)
		if symbolicError != nil {
			return "", fmt.Errorf(resolveHeadErrorTemplateConstant, symbolicError)
		}
		if symbolicHead.Type() == plumbing.SymbolicReference && symbolicHead.Target().IsBranch() {
			return symbolicHead.Target().Short(), nil
		}
		return "", nil
	}
	if headError != nil {
		return "", fmt.Errorf(resolveHeadErrorTemplateConstant, headError)
	}
	if !headReference.Name().IsBranch() {
		return "", nil
	}
	return headReference.Name().Short(), nil
}

func isUntracked(fileStatus *git.FileStatus) bool {
	return fileStatus.Staging == git.Untracked && fileStatus.Worktree == git.Untracked
}

func hasTrackedChanges(worktreeStatus git.Status) bool {
	return lo.SomeBy(lo.Values(worktreeStatus), func(fileStatus *git.FileStatus) bool {
		if isUntracked(fileStatus) {
			return false
		}
		return fileStatus.Staging != git.Unmodified || fileStatus.Worktree != git.Unmodified
	})
}

func untrackedPaths(worktreeStatus git.Status) []string {
	paths := lo.Keys(lo.PickBy(worktreeStatus, func(_ string, fileStatus *git.FileStatus) bool {
		return isUntracked(fileStatus)
	}))
	sort.Strings(paths)
	return paths
}

func shortStatusLines(worktreeStatus git.Status) []string {
	paths := lo.Keys(lo.PickBy(worktreeStatus, func(_ string, fileStatus *git.FileStatus) bool {
		return fileStatus.Staging != git.Unmodified || fileStatus.Worktree != git.Unmodified
	}))
	sort.Strings(paths)
	return lo.Map(paths, func(path string, _ int) string {
		fileStatus := worktreeStatus[path]
		return fmt.Sprintf(shortStatusLineTemplateConstant, fileStatus.Staging, fileStatus.Worktree, path)
	})
}
