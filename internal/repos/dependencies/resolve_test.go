package dependencies_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/vcstat/internal/execshell"
	"github.com/temirov/vcstat/internal/gitstatus"
	"github.com/temirov/vcstat/internal/repos/dependencies"
	"github.com/temirov/vcstat/internal/repos/discovery"
	"github.com/temirov/vcstat/internal/repos/filesystem"
	"github.com/temirov/vcstat/internal/repos/shared"
)

type stubGitExecutor struct{}

func (stubGitExecutor) ExecuteGit(context.Context, execshell.CommandDetails) (execshell.ExecutionResult, error) {
	return execshell.ExecutionResult{}, nil
}

type stubLocator struct{}

func (stubLocator) Locate(context.Context, string) ([]shared.RepositoryHandle, error) {
	return nil, nil
}

func TestResolveFileSystemDefaultsToOperatingSystem(testInstance *testing.T) {
	require.IsType(testInstance, filesystem.OSFileSystem{}, dependencies.ResolveFileSystem(nil))
}

func TestResolveRepositoryLocatorPrefersExisting(testInstance *testing.T) {
	existing := stubLocator{}
	require.Equal(testInstance, existing, dependencies.ResolveRepositoryLocator(existing, discovery.LocatorConfiguration{}))
	require.IsType(testInstance, &discovery.FilesystemRepositoryLocator{}, dependencies.ResolveRepositoryLocator(nil, discovery.LocatorConfiguration{}))
}

func TestResolveGitExecutor(testInstance *testing.T) {
	existing := stubGitExecutor{}
	resolvedExisting, existingError := dependencies.ResolveGitExecutor(existing, zap.NewNop(), false)
	require.NoError(testInstance, existingError)
	require.Equal(testInstance, existing, resolvedExisting)

	for _, humanReadable := range []bool{false, true} {
		resolved, resolveError := dependencies.ResolveGitExecutor(nil, zap.NewNop(), humanReadable)
		require.NoError(testInstance, resolveError)
		require.IsType(testInstance, &execshell.ShellExecutor{}, resolved)
	}

	_, missingLoggerError := dependencies.ResolveGitExecutor(nil, nil, false)
	require.ErrorIs(testInstance, missingLoggerError, execshell.ErrLoggerNotConfigured)
}

func TestResolveStatusProvider(testInstance *testing.T) {
	executorRequests := 0
	resolveExecutor := func() (shared.GitExecutor, error) {
		executorRequests++
		return stubGitExecutor{}, nil
	}

	libraryProvider, libraryError := dependencies.ResolveStatusProvider(nil, gitstatus.ProviderKindLibrary, resolveExecutor)
	require.NoError(testInstance, libraryError)
	require.IsType(testInstance, &gitstatus.LibraryProvider{}, libraryProvider)
	require.Zero(testInstance, executorRequests)

	cliProvider, cliError := dependencies.ResolveStatusProvider(nil, gitstatus.ProviderKindCLI, resolveExecutor)
	require.NoError(testInstance, cliError)
	require.IsType(testInstance, &gitstatus.CLIProvider{}, cliProvider)
	require.Equal(testInstance, 1, executorRequests)

	executorFailure := errors.New("executor unavailable")
	_, failureError := dependencies.ResolveStatusProvider(nil, gitstatus.ProviderKindCLI, func() (shared.GitExecutor, error) {
		return nil, executorFailure
	})
	require.ErrorIs(testInstance, failureError, executorFailure)
}
