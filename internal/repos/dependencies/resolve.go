package dependencies

import (
	"go.uber.org/zap"

	"github.com/temirov/vcstat/internal/execshell"
	"github.com/temirov/vcstat/internal/gitstatus"
	"github.com/temirov/vcstat/internal/repos/discovery"
	"github.com/temirov/vcstat/internal/repos/filesystem"
	"github.com/temirov/vcstat/internal/repos/shared"
	"github.com/temirov/vcstat/internal/ui"
)

// ResolveFileSystem returns the provided filesystem or an OS-backed default.
func ResolveFileSystem(existing shared.FileSystem) shared.FileSystem {
	if existing != nil {
		return existing
	}
	return filesystem.OSFileSystem{}
}

// ResolveRepositoryLocator returns the provided locator or a filesystem-backed default.
func ResolveRepositoryLocator(existing shared.RepositoryLocator, configuration discovery.LocatorConfiguration) shared.RepositoryLocator {
	if existing != nil {
		return existing
	}
	configuration.FileSystem = ResolveFileSystem(configuration.FileSystem)
	return discovery.NewFilesystemRepositoryLocator(configuration)
}

// ResolveGitExecutor returns the provided executor or constructs a shell-backed default.
// Human-readable logging routes command events through the console event logger.
func ResolveGitExecutor(existing shared.GitExecutor, logger *zap.Logger, humanReadableLogging bool) (shared.GitExecutor, error) {
	if existing != nil {
		return existing, nil
	}

	var observers []execshell.CommandEventObserver
	if humanReadableLogging {
		observers = append(observers, ui.NewConsoleCommandEventLogger(logger))
	}

	commandRunner := execshell.NewOSCommandRunner()
	shellExecutor, creationError := execshell.NewShellExecutor(logger, commandRunner, observers...)
	if creationError != nil {
		return nil, creationError
	}
	return shellExecutor, nil
}

// ResolveStatusProvider returns the provided status provider or constructs one for the requested kind.
// The git executor is consulted only for the CLI provider.
func ResolveStatusProvider(existing shared.StatusProvider, kind gitstatus.ProviderKind, resolveExecutor func() (shared.GitExecutor, error)) (shared.StatusProvider, error) {
	if existing != nil {
		return existing, nil
	}
	if kind == gitstatus.ProviderKindLibrary {
		return gitstatus.NewLibraryProvider(), nil
	}
	gitExecutor, executorError := resolveExecutor()
	if executorError != nil {
		return nil, executorError
	}
	cliProvider, creationError := gitstatus.NewCLIProvider(gitExecutor)
	if creationError != nil {
		return nil, creationError
	}
	return cliProvider, nil
}
