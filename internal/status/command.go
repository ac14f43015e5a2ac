package status

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/vcstat/internal/gitstatus"
	"github.com/temirov/vcstat/internal/repos/dependencies"
	"github.com/temirov/vcstat/internal/repos/discovery"
	"github.com/temirov/vcstat/internal/repos/shared"
	"github.com/temirov/vcstat/internal/report"
	flagutils "github.com/temirov/vcstat/internal/utils/flags"
	pathutils "github.com/temirov/vcstat/internal/utils/path"
)

const (
	commandUseConstant                 = "vcstat [root ...]"
	commandShortDescriptionConstant    = "Summarize the state of repositories beneath one or more roots"
	commandLongDescriptionConstant     = "vcstat walks each root, finds every repository beneath it, and prints one aligned line per repository with its state and current branch. Roots default to the current directory."
	detailFlagNameConstant             = "status"
	detailFlagShorthandConstant        = "s"
	detailFlagDescriptionConstant      = "Print the short status of each repository below its summary line"
	dirtyOnlyFlagNameConstant          = "dirty-only"
	dirtyOnlyFlagShorthandConstant     = "d"
	dirtyOnlyFlagDescriptionConstant   = "Report only repositories with tracked changes (overrides --all)"
	showAllFlagNameConstant            = "all"
	showAllFlagShorthandConstant       = "a"
	showAllFlagDescriptionConstant     = "Report every repository"
	untrackedFlagNameConstant          = "untracked"
	untrackedFlagShorthandConstant     = "u"
	untrackedFlagDescriptionConstant   = "Also report clean repositories with untracked files and show untracked counts"
	providerFlagNameConstant           = "provider"
	providerFlagDescriptionConstant    = "Status provider: the git executable or the built-in library."
	concurrencyFlagNameConstant        = "concurrency"
	concurrencyFlagDescriptionConstant = "Number of repositories queried at once"
	timeoutFlagNameConstant            = "timeout"
	timeoutFlagDescriptionConstant     = "Maximum time spent reading a single repository"
	colorFlagNameConstant              = "color"
	colorFlagDescriptionConstant       = "Colour output."
	markerFlagNameConstant             = "marker"
	markerFlagDescriptionConstant      = "Directory name that marks a repository root (repeatable)"
	invalidOptionErrorTemplateConstant = "invalid --%s: %w"
	runStartedMessageConstant          = "status run started"
	logFieldRootsConstant              = "roots"
	logFieldProviderConstant           = "provider"
	logFieldConcurrencyConstant        = "concurrency"
	logFieldBaseModeConstant           = "base_mode"
)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the status command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CommandConfiguration
	RepositoryLocator            shared.RepositoryLocator
	StatusProvider               shared.StatusProvider
	GitExecutor                  shared.GitExecutor
	HomeExpander                 *pathutils.HomeExpander
}

type commandSettings struct {
	options       Options
	configuration CommandConfiguration
	providerKind  gitstatus.ProviderKind
	colorMode     report.ColorMode
}

// Build constructs the status command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.ArbitraryArgs,
		RunE:  builder.run,
	}

	defaults := DefaultCommandConfiguration()
	providerChoices := lo.Map(gitstatus.SupportedProviderKinds(), func(kind gitstatus.ProviderKind, _ int) string {
		return string(kind)
	})
	colorChoices := lo.Map(report.SupportedColorModes(), func(mode report.ColorMode, _ int) string {
		return string(mode)
	})

	command.Flags().BoolP(detailFlagNameConstant, detailFlagShorthandConstant, false, detailFlagDescriptionConstant)
	command.Flags().BoolP(dirtyOnlyFlagNameConstant, dirtyOnlyFlagShorthandConstant, false, dirtyOnlyFlagDescriptionConstant)
	command.Flags().BoolP(showAllFlagNameConstant, showAllFlagShorthandConstant, false, showAllFlagDescriptionConstant)
	command.Flags().BoolP(untrackedFlagNameConstant, untrackedFlagShorthandConstant, false, untrackedFlagDescriptionConstant)
	command.Flags().String(providerFlagNameConstant, defaults.Provider, flagutils.FormatChoiceUsage(defaults.Provider, providerChoices, providerFlagDescriptionConstant))
	command.Flags().Int(concurrencyFlagNameConstant, defaults.Concurrency, concurrencyFlagDescriptionConstant)
	command.Flags().Duration(timeoutFlagNameConstant, defaults.QueryTimeout, timeoutFlagDescriptionConstant)
	command.Flags().String(colorFlagNameConstant, defaults.Color, flagutils.FormatChoiceUsage(defaults.Color, colorChoices, colorFlagDescriptionConstant))
	command.Flags().StringArray(markerFlagNameConstant, nil, markerFlagDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	settings, settingsError := builder.parseSettings(command, arguments)
	if settingsError != nil {
		return settingsError
	}
	configuration := settings.configuration

	logger := builder.resolveLogger()
	humanReadableLogging := false
	if builder.HumanReadableLoggingProvider != nil {
		humanReadableLogging = builder.HumanReadableLoggingProvider()
	}

	locator := dependencies.ResolveRepositoryLocator(builder.RepositoryLocator, discovery.LocatorConfiguration{
		Markers:        discovery.NewMarkerSet(configuration.Markers...),
		FollowSymlinks: configuration.FollowSymlinks,
		Logger:         logger,
	})

	statusProvider, providerError := dependencies.ResolveStatusProvider(builder.StatusProvider, settings.providerKind, func() (shared.GitExecutor, error) {
		return dependencies.ResolveGitExecutor(builder.GitExecutor, logger, humanReadableLogging)
	})
	if providerError != nil {
		return providerError
	}

	collector, collectorError := NewCollector(statusProvider, CollectorConfiguration{
		Concurrency:  configuration.Concurrency,
		QueryTimeout: configuration.QueryTimeout,
		Logger:       logger,
	})
	if collectorError != nil {
		return collectorError
	}

	service, serviceError := NewService(ServiceDependencies{
		Locator:   locator,
		Collector: collector,
		Formatter: report.NewFormatter(report.NewPalette(settings.colorMode, command.OutOrStdout())),
		Output:    command.OutOrStdout(),
		Warnings:  shared.NewWriterReporter(command.ErrOrStderr()),
		Logger:    logger,
	})
	if serviceError != nil {
		return serviceError
	}

	logger.Debug(
		runStartedMessageConstant,
		zap.Strings(logFieldRootsConstant, settings.options.Roots),
		zap.String(logFieldProviderConstant, string(settings.providerKind)),
		zap.Int(logFieldConcurrencyConstant, configuration.Concurrency),
		zap.String(logFieldBaseModeConstant, string(Filter{DirtyOnly: settings.options.DirtyOnly}.BaseMode())),
	)

	return service.Run(command.Context(), settings.options)
}

// parseSettings merges configuration with flags. Flags override configuration only when set explicitly.
func (builder *CommandBuilder) parseSettings(command *cobra.Command, arguments []string) (commandSettings, error) {
	configuration := builder.resolveConfiguration()
	flagSet := command.Flags()

	detail, _ := flagSet.GetBool(detailFlagNameConstant)
	dirtyOnly, _ := flagSet.GetBool(dirtyOnlyFlagNameConstant)
	showAll, _ := flagSet.GetBool(showAllFlagNameConstant)
	untracked, _ := flagSet.GetBool(untrackedFlagNameConstant)

	if flagSet.Changed(providerFlagNameConstant) {
		configuration.Provider, _ = flagSet.GetString(providerFlagNameConstant)
	}
	if flagSet.Changed(colorFlagNameConstant) {
		configuration.Color, _ = flagSet.GetString(colorFlagNameConstant)
	}
	if flagSet.Changed(concurrencyFlagNameConstant) {
		configuration.Concurrency, _ = flagSet.GetInt(concurrencyFlagNameConstant)
	}
	if flagSet.Changed(timeoutFlagNameConstant) {
		configuration.QueryTimeout, _ = flagSet.GetDuration(timeoutFlagNameConstant)
	}
	if flagSet.Changed(markerFlagNameConstant) {
		configuration.Markers, _ = flagSet.GetStringArray(markerFlagNameConstant)
	}
	configuration = configuration.Sanitize()

	providerKind, providerError := gitstatus.ParseProviderKind(configuration.Provider)
	if providerError != nil {
		return commandSettings{}, fmt.Errorf(invalidOptionErrorTemplateConstant, providerFlagNameConstant, providerError)
	}
	colorMode, colorError := report.ParseColorMode(configuration.Color)
	if colorError != nil {
		return commandSettings{}, fmt.Errorf(invalidOptionErrorTemplateConstant, colorFlagNameConstant, colorError)
	}

	roots := pathutils.NewRootResolver(builder.HomeExpander).Resolve(arguments, configuration.Roots)

	return commandSettings{
		options: Options{
			Roots:     roots,
			Detail:    detail,
			DirtyOnly: dirtyOnly,
			ShowAll:   showAll,
			Untracked: untracked,
		},
		configuration: configuration,
		providerKind:  providerKind,
		colorMode:     colorMode,
	}, nil
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
