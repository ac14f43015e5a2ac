package gitstatus_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/vcstat/internal/gitstatus"
)

func TestParsePorcelainStatus(testInstance *testing.T) {
	testCases := []struct {
		name              string
		output            string
		expectedDirty     bool
		expectedUntracked []string
		expectedLines     []string
	}{
		{
			name:          "clean",
			output:        "",
			expectedDirty: false,
		},
		{
			name:              "untracked_only",
			output:            "?? notes.txt\n?? build/output.log\n",
			expectedDirty:     false,
			expectedUntracked: []string{"notes.txt", "build/output.log"},
			expectedLines:     []string{"?? notes.txt", "?? build/output.log"},
		},
		{
			name:          "unstaged_modification_keeps_leading_column",
			output:        " M main.go\n",
			expectedDirty: true,
			expectedLines: []string{" M main.go"},
		},
		{
			name:              "mixed_with_rename_and_quoted_path",
			output:            "R  old.go -> new.go\nA  \"with space.txt\"\n?? \"caf\\303\\251.md\"\n",
			expectedDirty:     true,
			expectedUntracked: []string{"café.md"},
			expectedLines:     []string{"R  old.go -> new.go", "A  \"with space.txt\"", "?? \"caf\\303\\251.md\""},
		},
		{
			name:          "ignored_entries_dropped",
			output:        "!! vendor/\r\n",
			expectedDirty: false,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			summary := gitstatus.ParsePorcelainStatus(testCase.output)
			require.Equal(testInstance, testCase.expectedDirty, summary.Dirty())
			require.Equal(testInstance, testCase.expectedUntracked, summary.UntrackedFiles)
			require.Equal(testInstance, testCase.expectedLines, summary.Lines)
		})
	}
}

func TestParsePorcelainStatusResolvesRenameTargets(testInstance *testing.T) {
	summary := gitstatus.ParsePorcelainStatus("R  old.go -> new.go\n")
	require.Equal(testInstance, []string{"new.go"}, summary.TrackedChanges)
}

func TestParseProviderKind(testInstance *testing.T) {
	testCases := []struct {
		name         string
		value        string
		expectedKind gitstatus.ProviderKind
		expectError  bool
	}{
		{name: "empty_defaults_to_cli", value: "", expectedKind: gitstatus.ProviderKindCLI},
		{name: "cli", value: "cli", expectedKind: gitstatus.ProviderKindCLI},
		{name: "library_case_insensitive", value: " Library ", expectedKind: gitstatus.ProviderKindLibrary},
		{name: "unsupported", value: "hg", expectError: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			kind, parseError := gitstatus.ParseProviderKind(testCase.value)
			if testCase.expectError {
				require.Error(testInstance, parseError)
				require.Contains(testInstance, parseError.Error(), "cli, library")
				return
			}
			require.NoError(testInstance, parseError)
			require.Equal(testInstance, testCase.expectedKind, kind)
		})
	}
}
