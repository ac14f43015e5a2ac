package gitstatus

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/temirov/vcstat/internal/execshell"
	"github.com/temirov/vcstat/internal/repos/shared"
)

const (
	gitStatusSubcommandConstant              = "status"
	gitPorcelainFormatFlagConstant           = "--porcelain=v1"
	gitShortFormatFlagConstant               = "--short"
	gitUntrackedFilesFlagConstant            = "--untracked-files=all"
	gitSymbolicRefSubcommandConstant         = "symbolic-ref"
	gitQuietFlagConstant                     = "--quiet"
	gitShortReferenceFlagConstant            = "--short"
	gitHeadReferenceConstant                 = "HEAD"
	gitOptionalLocksEnvironmentConstant      = "GIT_OPTIONAL_LOCKS"
	gitTerminalPromptEnvironmentConstant     = "GIT_TERMINAL_PROMPT"
	gitCeilingDirectoriesEnvironmentConstant = "GIT_CEILING_DIRECTORIES"
	disabledEnvironmentValueConstant         = "0"
	detachedHeadExitCodeConstant             = 1
	gitExecutorNotConfiguredMessage          = "git executor not configured"
	statusQueryErrorTemplateConstant         = "read working tree status: %w"
	shortStatusQueryErrorTemplateConstant    = "read short status: %w"
	currentBranchQueryErrorTemplateConstant  = "resolve current branch: %w"
)

// ErrGitExecutorNotConfigured indicates that CLIProvider was constructed without an executor.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorNotConfiguredMessage)

// CLIProvider answers status questions by invoking the git binary.
type CLIProvider struct {
	executor shared.GitExecutor
}

// NewCLIProvider constructs a CLIProvider backed by the provided executor.
func NewCLIProvider(executor shared.GitExecutor) (*CLIProvider, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &CLIProvider{executor: executor}, nil
}

// Snapshot captures every status field with one porcelain status call and one branch lookup.
func (provider *CLIProvider) Snapshot(executionContext context.Context, repositoryPath string) (shared.RepositoryStatus, error) {
	summary, statusError := provider.porcelainSummary(executionContext, repositoryPath)
	if statusError != nil {
		return shared.RepositoryStatus{}, statusError
	}
	branchName, branchError := provider.CurrentBranch(executionContext, repositoryPath)
	if branchError != nil {
		return shared.RepositoryStatus{}, branchError
	}
	return shared.RepositoryStatus{
		Dirty:          summary.Dirty(),
		Branch:         branchName,
		UntrackedFiles: summary.UntrackedFiles,
		ShortStatus:    summary.Lines,
	}, nil
}

// IsDirty reports whether tracked files carry staged or unstaged changes.
func (provider *CLIProvider) IsDirty(executionContext context.Context, repositoryPath string) (bool, error) {
	summary, statusError := provider.porcelainSummary(executionContext, repositoryPath)
	if statusError != nil {
		return false, statusError
	}
	return summary.Dirty(), nil
}

// CurrentBranch returns the checked out branch name, or an empty string for a detached HEAD.
func (provider *CLIProvider) CurrentBranch(executionContext context.Context, repositoryPath string) (string, error) {
	executionResult, executionError := provider.executor.ExecuteGit(executionContext, provider.details(repositoryPath,
		gitSymbolicRefSubcommandConstant, gitQuietFlagConstant, gitShortReferenceFlagConstant, gitHeadReferenceConstant))
	if executionError != nil {
		var commandFailure execshell.CommandFailedError
		if errors.As(executionError, &commandFailure) && commandFailure.Result.ExitCode == detachedHeadExitCodeConstant {
			return "", nil
		}
		return "", fmt.Errorf(currentBranchQueryErrorTemplateConstant, executionError)
	}
	return strings.TrimSpace(executionResult.StandardOutput), nil
}

// UntrackedFiles lists untracked paths relative to the repository root, including those inside untracked directories.
func (provider *CLIProvider) UntrackedFiles(executionContext context.Context, repositoryPath string) ([]string, error) {
	summary, statusError := provider.porcelainSummary(executionContext, repositoryPath)
	if statusError != nil {
		return nil, statusError
	}
	return summary.UntrackedFiles, nil
}

// ShortStatus returns the `git status --short` lines in git's order.
func (provider *CLIProvider) ShortStatus(executionContext context.Context, repositoryPath string) ([]string, error) {
	executionResult, executionError := provider.executor.ExecuteGit(executionContext, provider.details(repositoryPath,
		gitStatusSubcommandConstant, gitShortFormatFlagConstant, gitUntrackedFilesFlagConstant))
	if executionError != nil {
		return nil, fmt.Errorf(shortStatusQueryErrorTemplateConstant, executionError)
	}
	return SplitStatusLines(executionResult.StandardOutput), nil
}

func (provider *CLIProvider) porcelainSummary(executionContext context.Context, repositoryPath string) (PorcelainSummary, error) {
	executionResult, executionError := provider.executor.ExecuteGit(executionContext, provider.details(repositoryPath,
		gitStatusSubcommandConstant, gitPorcelainFormatFlagConstant, gitUntrackedFilesFlagConstant))
	if executionError != nil {
		return PorcelainSummary{}, fmt.Errorf(statusQueryErrorTemplateConstant, executionError)
	}
	return ParsePorcelainStatus(executionResult.StandardOutput), nil
}

// details pins the working directory and keeps git from taking the index lock or prompting.
// The ceiling at the parent directory stops git from falling back to an enclosing repository
// when the repository's own .git is unreadable.
func (provider *CLIProvider) details(repositoryPath string, arguments ...string) execshell.CommandDetails {
	ceilingDirectory := filepath.Dir(repositoryPath)
	if absolutePath, absoluteError := filepath.Abs(repositoryPath); absoluteError == nil {
		ceilingDirectory = filepath.Dir(absolutePath)
	}
	return execshell.CommandDetails{
		Arguments:        arguments,
		WorkingDirectory: repositoryPath,
		EnvironmentVariables: map[string]string{
			gitOptionalLocksEnvironmentConstant:      disabledEnvironmentValueConstant,
			gitTerminalPromptEnvironmentConstant:     disabledEnvironmentValueConstant,
			gitCeilingDirectoriesEnvironmentConstant: ceilingDirectory,
		},
	}
}
