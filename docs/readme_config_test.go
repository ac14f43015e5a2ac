package docs_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/temirov/vcstat/cmd/cli"
	"github.com/temirov/vcstat/internal/gitstatus"
	"github.com/temirov/vcstat/internal/report"
	"github.com/temirov/vcstat/internal/status"
	"github.com/temirov/vcstat/internal/utils"
)

const (
	readmeFileNameConstant           = "README.md"
	yamlFenceStartConstant           = "```yaml"
	yamlFenceEndConstant             = "```"
	configHeaderMarkerConstant       = "# config.yaml"
	readmeSnippetTemporaryPattern    = "readme-config-*.yaml"
	parentDirectoryReferenceConstant = ".."
	missingHeaderMessageConstant     = "README example missing config header marker"
	missingStartFenceMessageConstant = "README example missing yaml fence start"
	missingEndFenceMessageConstant   = "README example missing yaml fence end"
	unexpectedKeyMessageTemplate     = "unexpected configuration key %s"
	statusSectionKeyConstant         = "status"
	commonSectionKeyConstant         = "common"
	testEnvironmentPrefixConstant    = "VCSTATREADMETEST"
)

func readReadmeConfiguration(testInstance *testing.T) string {
	testInstance.Helper()

	workingDirectory, workingDirectoryError := os.Getwd()
	require.NoError(testInstance, workingDirectoryError)

	readmePath := filepath.Join(workingDirectory, parentDirectoryReferenceConstant, readmeFileNameConstant)
	contentBytes, readError := os.ReadFile(readmePath)
	require.NoError(testInstance, readError)

	contentText := string(contentBytes)
	headerIndex := strings.Index(contentText, configHeaderMarkerConstant)
	require.NotEqual(testInstance, -1, headerIndex, missingHeaderMessageConstant)

	fenceStartIndex := strings.LastIndex(contentText[:headerIndex], yamlFenceStartConstant)
	require.NotEqual(testInstance, -1, fenceStartIndex, missingStartFenceMessageConstant)

	remainingText := contentText[headerIndex:]
	fenceEndRelativeIndex := strings.Index(remainingText, yamlFenceEndConstant)
	require.NotEqual(testInstance, -1, fenceEndRelativeIndex, missingEndFenceMessageConstant)
	fenceEndIndex := headerIndex + fenceEndRelativeIndex

	return strings.TrimSpace(contentText[fenceStartIndex+len(yamlFenceStartConstant) : fenceEndIndex])
}

func TestReadmeConfigurationUsesKnownKeys(testInstance *testing.T) {
	snippetContent := readReadmeConfiguration(testInstance)

	var sections map[string]map[string]any
	require.NoError(testInstance, yaml.Unmarshal([]byte(snippetContent), &sections))
	require.ElementsMatch(testInstance, []string{commonSectionKeyConstant, statusSectionKeyConstant}, lo.Keys(sections))

	knownStatusKeys := lo.Keys(status.DefaultConfigurationValues(""))
	for statusKey := range sections[statusSectionKeyConstant] {
		require.Truef(testInstance, lo.Contains(knownStatusKeys, statusKey), unexpectedKeyMessageTemplate, statusKey)
	}
}

func TestReadmeConfigurationLoads(testInstance *testing.T) {
	snippetContent := readReadmeConfiguration(testInstance)

	temporaryFile, temporaryFileError := os.CreateTemp(testInstance.TempDir(), readmeSnippetTemporaryPattern)
	require.NoError(testInstance, temporaryFileError)
	_, writeError := temporaryFile.WriteString(snippetContent)
	require.NoError(testInstance, writeError)
	require.NoError(testInstance, temporaryFile.Close())

	loader := utils.NewConfigurationLoader("config", "yaml", testEnvironmentPrefixConstant, nil)
	var configuration cli.ApplicationConfiguration
	_, loadError := loader.LoadConfiguration(temporaryFile.Name(), nil, &configuration)
	require.NoError(testInstance, loadError)

	sanitized := configuration.Status.Sanitize()
	require.Len(testInstance, sanitized.Roots, 2)

	_, providerError := gitstatus.ParseProviderKind(sanitized.Provider)
	require.NoError(testInstance, providerError)
	_, colorError := report.ParseColorMode(sanitized.Color)
	require.NoError(testInstance, colorError)
	require.Contains(testInstance, utils.SupportedLogLevels(), configuration.Common.LogLevel)
	require.Contains(testInstance, utils.SupportedLogFormats(), configuration.Common.LogFormat)
}
