package discovery_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/temirov/vcstat/internal/repos/discovery"
	"github.com/temirov/vcstat/internal/repos/shared"
)

const (
	developerDirectoryName             = "Dev"
	engineeringGroupDirectoryName      = "Group1"
	applicationRepositoryDirectoryName = "Repo1"
	serviceRepositoryDirectoryName     = "Repo2"
	toolsRepositoryDirectoryName       = "Repo3"
	nestedRepositoryDirectoryName      = "vendored"
	gitMetadataDirectoryName           = ".git"
	mercurialMetadataDirectoryName     = ".hg"
	singleRootSubtestTitle             = "discoversRepositoriesFromSingleRoot"
	developerRootSubtestTitle          = "discoversRepositoriesFromNestedRoot"
	repositoryRootSubtestTitle         = "discoversRootThatIsRepository"
	repositoryDirectoryPermissions     = 0o755
	lockedDirectoryPermissions         = 0o000
)

type repositoryDefinition struct {
	directorySegments []string
	markerName        string
}

func (definition repositoryDefinition) repositoryPath(rootDirectory string) string {
	segments := append([]string{rootDirectory}, definition.directorySegments...)
	return filepath.Join(segments...)
}

func (definition repositoryDefinition) markerPath(rootDirectory string) string {
	markerName := definition.markerName
	if len(markerName) == 0 {
		markerName = gitMetadataDirectoryName
	}
	return filepath.Join(definition.repositoryPath(rootDirectory), markerName)
}

func createRepositories(testInstance *testing.T, rootDirectory string, definitions []repositoryDefinition) {
	testInstance.Helper()
	for _, definition := range definitions {
		creationError := os.MkdirAll(definition.markerPath(rootDirectory), repositoryDirectoryPermissions)
		require.NoError(testInstance, creationError)
	}
}

func handlePaths(handles []shared.RepositoryHandle) []string {
	paths := make([]string, 0, len(handles))
	for _, handle := range handles {
		paths = append(paths, handle.Path())
	}
	sort.Strings(paths)
	return paths
}

func newLocator(markers ...string) *discovery.FilesystemRepositoryLocator {
	return discovery.NewFilesystemRepositoryLocator(discovery.LocatorConfiguration{
		Markers:        discovery.NewMarkerSet(markers...),
		FollowSymlinks: true,
	})
}

type locatorTestScenario struct {
	title                  string
	rootDirectoryResolver  func(string) string
	expectedRepositoryPick func([]repositoryDefinition) []repositoryDefinition
}

func TestFilesystemRepositoryLocatorDiscoversNestedLayouts(testInstance *testing.T) {
	repositoryDefinitions := []repositoryDefinition{
		{directorySegments: []string{developerDirectoryName, engineeringGroupDirectoryName, applicationRepositoryDirectoryName}},
		{directorySegments: []string{developerDirectoryName, engineeringGroupDirectoryName, serviceRepositoryDirectoryName}},
		{directorySegments: []string{developerDirectoryName, toolsRepositoryDirectoryName}},
	}

	testScenarios := []locatorTestScenario{
		{
			title:                  singleRootSubtestTitle,
			rootDirectoryResolver:  func(rootDirectory string) string { return rootDirectory },
			expectedRepositoryPick: func(definitions []repositoryDefinition) []repositoryDefinition { return definitions },
		},
		{
			title: developerRootSubtestTitle,
			rootDirectoryResolver: func(rootDirectory string) string {
				return filepath.Join(rootDirectory, developerDirectoryName, engineeringGroupDirectoryName)
			},
			expectedRepositoryPick: func(definitions []repositoryDefinition) []repositoryDefinition { return definitions[:2] },
		},
		{
			title: repositoryRootSubtestTitle,
			rootDirectoryResolver: func(rootDirectory string) string {
				return filepath.Join(rootDirectory, developerDirectoryName, toolsRepositoryDirectoryName)
			},
			expectedRepositoryPick: func(definitions []repositoryDefinition) []repositoryDefinition { return definitions[2:] },
		},
	}

	for _, testScenario := range testScenarios {
		testInstance.Run(testScenario.title, func(testInstance *testing.T) {
			temporaryRootDirectory := testInstance.TempDir()
			createRepositories(testInstance, temporaryRootDirectory, repositoryDefinitions)

			handles, locateError := newLocator().Locate(context.Background(), testScenario.rootDirectoryResolver(temporaryRootDirectory))
			require.NoError(testInstance, locateError)

			expectedPaths := make([]string, 0, len(repositoryDefinitions))
			for _, definition := range testScenario.expectedRepositoryPick(repositoryDefinitions) {
				expectedPaths = append(expectedPaths, definition.repositoryPath(temporaryRootDirectory))
			}
			sort.Strings(expectedPaths)
			require.Equal(testInstance, expectedPaths, handlePaths(handles))
		})
	}
}

func TestFilesystemRepositoryLocatorSingleMarkerYieldsParent(testInstance *testing.T) {
	temporaryRootDirectory := testInstance.TempDir()
	definition := repositoryDefinition{directorySegments: []string{"a", "b", "c"}}
	createRepositories(testInstance, temporaryRootDirectory, []repositoryDefinition{definition})

	handles, locateError := newLocator().Locate(context.Background(), temporaryRootDirectory)
	require.NoError(testInstance, locateError)
	require.Len(testInstance, handles, 1)
	require.Equal(testInstance, filepath.Dir(definition.markerPath(temporaryRootDirectory)), handles[0].Path())
	require.Equal(testInstance, "c", handles[0].Name())
}

func TestFilesystemRepositoryLocatorDoesNotDescendIntoRepositories(testInstance *testing.T) {
	temporaryRootDirectory := testInstance.TempDir()
	outer := repositoryDefinition{directorySegments: []string{applicationRepositoryDirectoryName}}
	inner := repositoryDefinition{directorySegments: []string{applicationRepositoryDirectoryName, "third_party", nestedRepositoryDirectoryName}}
	createRepositories(testInstance, temporaryRootDirectory, []repositoryDefinition{outer, inner})

	handles, locateError := newLocator().Locate(context.Background(), temporaryRootDirectory)
	require.NoError(testInstance, locateError)
	require.Equal(testInstance, []string{outer.repositoryPath(temporaryRootDirectory)}, handlePaths(handles))
}

func TestFilesystemRepositoryLocatorIgnoresMarkerFiles(testInstance *testing.T) {
	temporaryRootDirectory := testInstance.TempDir()
	worktreeDirectory := filepath.Join(temporaryRootDirectory, "worktree")
	require.NoError(testInstance, os.MkdirAll(worktreeDirectory, repositoryDirectoryPermissions))
	require.NoError(testInstance, os.WriteFile(filepath.Join(worktreeDirectory, gitMetadataDirectoryName), []byte("gitdir: /elsewhere\n"), 0o600))

	handles, locateError := newLocator().Locate(context.Background(), temporaryRootDirectory)
	require.NoError(testInstance, locateError)
	require.Empty(testInstance, handles)
}

func TestFilesystemRepositoryLocatorHonorsConfiguredMarkers(testInstance *testing.T) {
	temporaryRootDirectory := testInstance.TempDir()
	gitRepository := repositoryDefinition{directorySegments: []string{"git-project"}}
	mercurialRepository := repositoryDefinition{directorySegments: []string{"hg-project"}, markerName: mercurialMetadataDirectoryName}
	createRepositories(testInstance, temporaryRootDirectory, []repositoryDefinition{gitRepository, mercurialRepository})

	gitOnly, gitError := newLocator().Locate(context.Background(), temporaryRootDirectory)
	require.NoError(testInstance, gitError)
	require.Equal(testInstance, []string{gitRepository.repositoryPath(temporaryRootDirectory)}, handlePaths(gitOnly))

	both, bothError := newLocator(gitMetadataDirectoryName, mercurialMetadataDirectoryName).Locate(context.Background(), temporaryRootDirectory)
	require.NoError(testInstance, bothError)
	require.Equal(testInstance, []string{
		gitRepository.repositoryPath(temporaryRootDirectory),
		mercurialRepository.repositoryPath(temporaryRootDirectory),
	}, handlePaths(both))
}

func TestFilesystemRepositoryLocatorMissingRootYieldsNothing(testInstance *testing.T) {
	handles, locateError := newLocator().Locate(context.Background(), filepath.Join(testInstance.TempDir(), "absent"))
	require.NoError(testInstance, locateError)
	require.Empty(testInstance, handles)
}

func TestFilesystemRepositoryLocatorSkipsUnreadableSubtrees(testInstance *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		testInstance.Skip("permission bits are not enforced for this user")
	}

	temporaryRootDirectory := testInstance.TempDir()
	readable := repositoryDefinition{directorySegments: []string{"open", applicationRepositoryDirectoryName}}
	hidden := repositoryDefinition{directorySegments: []string{"locked", serviceRepositoryDirectoryName}}
	createRepositories(testInstance, temporaryRootDirectory, []repositoryDefinition{readable, hidden})

	lockedDirectory := filepath.Join(temporaryRootDirectory, "locked")
	require.NoError(testInstance, os.Chmod(lockedDirectory, lockedDirectoryPermissions))
	testInstance.Cleanup(func() {
		_ = os.Chmod(lockedDirectory, repositoryDirectoryPermissions)
	})

	handles, locateError := newLocator().Locate(context.Background(), temporaryRootDirectory)
	require.NoError(testInstance, locateError)
	require.Equal(testInstance, []string{readable.repositoryPath(temporaryRootDirectory)}, handlePaths(handles))
}

func TestFilesystemRepositoryLocatorFollowsSymlinkedDirectories(testInstance *testing.T) {
	if runtime.GOOS == "windows" {
		testInstance.Skip("symbolic links require elevated privileges on windows")
	}

	temporaryRootDirectory := testInstance.TempDir()
	externalDirectory := testInstance.TempDir()
	linked := repositoryDefinition{directorySegments: []string{toolsRepositoryDirectoryName}}
	createRepositories(testInstance, externalDirectory, []repositoryDefinition{linked})

	scanRoot := filepath.Join(temporaryRootDirectory, "scan")
	require.NoError(testInstance, os.MkdirAll(scanRoot, repositoryDirectoryPermissions))
	require.NoError(testInstance, os.Symlink(externalDirectory, filepath.Join(scanRoot, "external")))
	require.NoError(testInstance, os.Symlink(scanRoot, filepath.Join(scanRoot, "loop")))

	followed, followError := newLocator().Locate(context.Background(), scanRoot)
	require.NoError(testInstance, followError)
	require.Equal(testInstance, []string{filepath.Join(scanRoot, "external", toolsRepositoryDirectoryName)}, handlePaths(followed))

	notFollowing := discovery.NewFilesystemRepositoryLocator(discovery.LocatorConfiguration{})
	skipped, skipError := notFollowing.Locate(context.Background(), scanRoot)
	require.NoError(testInstance, skipError)
	require.Empty(testInstance, skipped)
}

func TestFilesystemRepositoryLocatorTerminatesOnAncestorSymlinkCycle(testInstance *testing.T) {
	if runtime.GOOS == "windows" {
		testInstance.Skip("symbolic links require elevated privileges on windows")
	}

	temporaryRootDirectory := testInstance.TempDir()
	upper := repositoryDefinition{directorySegments: []string{"a", applicationRepositoryDirectoryName}}
	lower := repositoryDefinition{directorySegments: []string{"a", "b", serviceRepositoryDirectoryName}}
	createRepositories(testInstance, temporaryRootDirectory, []repositoryDefinition{upper, lower})
	require.NoError(testInstance, os.Symlink(
		filepath.Join(temporaryRootDirectory, "a"),
		filepath.Join(temporaryRootDirectory, "a", "b", "link"),
	))

	boundedContext, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	handles, locateError := newLocator().Locate(boundedContext, temporaryRootDirectory)
	require.NoError(testInstance, locateError)
	require.Equal(testInstance, []string{
		upper.repositoryPath(temporaryRootDirectory),
		lower.repositoryPath(temporaryRootDirectory),
	}, handlePaths(handles))
}

func TestFilesystemRepositoryLocatorStopsOnCancellation(testInstance *testing.T) {
	temporaryRootDirectory := testInstance.TempDir()
	createRepositories(testInstance, temporaryRootDirectory, []repositoryDefinition{{directorySegments: []string{applicationRepositoryDirectoryName}}})

	cancelledContext, cancel := context.WithCancel(context.Background())
	cancel()

	handles, locateError := newLocator().Locate(cancelledContext, temporaryRootDirectory)
	require.ErrorIs(testInstance, locateError, context.Canceled)
	require.Empty(testInstance, handles)
}

func TestMarkerSetNormalizesNames(testInstance *testing.T) {
	markerSet := discovery.NewMarkerSet(" .git ", "", ".hg", ".git", "nested/.svn")
	require.Equal(testInstance, []string{gitMetadataDirectoryName, mercurialMetadataDirectoryName}, markerSet.Names())
	require.True(testInstance, markerSet.IsMarker(mercurialMetadataDirectoryName))
	require.False(testInstance, markerSet.IsMarker(".svn"))

	require.Equal(testInstance, []string{gitMetadataDirectoryName}, discovery.NewMarkerSet().Names())
	require.Equal(testInstance, []string{gitMetadataDirectoryName}, discovery.MarkerSet{}.Names())
}
