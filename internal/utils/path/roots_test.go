package pathutils_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	pathutils "github.com/temirov/vcstat/internal/utils/path"
)

const testHomeDirectoryConstant = "/home/tester"

func newTestExpander() *pathutils.HomeExpander {
	return pathutils.NewHomeExpanderWithProvider(func() (string, error) {
		return testHomeDirectoryConstant, nil
	})
}

func TestHomeExpanderExpand(testInstance *testing.T) {
	testCases := []struct {
		name         string
		input        string
		expectedPath string
	}{
		{name: "bare_tilde", input: "~", expectedPath: testHomeDirectoryConstant},
		{name: "tilde_prefix", input: "~/src", expectedPath: filepath.Join(testHomeDirectoryConstant, "src")},
		{name: "other_user_unchanged", input: "~other/src", expectedPath: "~other/src"},
		{name: "absolute_unchanged", input: "/srv/repos", expectedPath: "/srv/repos"},
		{name: "empty_unchanged", input: "", expectedPath: ""},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedPath, newTestExpander().Expand(testCase.input))
		})
	}
}

func TestHomeExpanderWithoutHomeDirectory(testInstance *testing.T) {
	expander := pathutils.NewHomeExpanderWithProvider(func() (string, error) {
		return "", errors.New("no home")
	})
	require.Equal(testInstance, "~/src", expander.Expand("~/src"))
}

func TestRootResolverResolve(testInstance *testing.T) {
	testCases := []struct {
		name            string
		arguments       []string
		configuredRoots []string
		expectedRoots   []string
	}{
		{
			name:          "defaults_to_current_directory",
			expectedRoots: []string{"."},
		},
		{
			name:            "arguments_take_precedence",
			arguments:       []string{"/a", "/b"},
			configuredRoots: []string{"/configured"},
			expectedRoots:   []string{"/a", "/b"},
		},
		{
			name:            "configured_roots_expand_tilde",
			configuredRoots: []string{" ~/src ", "", "/opt/work"},
			expectedRoots:   []string{filepath.Join(testHomeDirectoryConstant, "src"), "/opt/work"},
		},
		{
			name:          "duplicates_kept_once_in_order",
			arguments:     []string{"/b", "/a", "/b"},
			expectedRoots: []string{"/b", "/a"},
		},
		{
			name:            "blank_arguments_fall_back_to_configuration",
			arguments:       []string{"  "},
			configuredRoots: []string{"/configured"},
			expectedRoots:   []string{"/configured"},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			resolver := pathutils.NewRootResolver(newTestExpander())
			require.Equal(testInstance, testCase.expectedRoots, resolver.Resolve(testCase.arguments, testCase.configuredRoots))
		})
	}
}
