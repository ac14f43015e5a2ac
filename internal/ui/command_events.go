package ui

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/temirov/vcstat/internal/execshell"
)

const (
	gitSymbolicRefArgumentConstant = "symbolic-ref"
	detachedHeadExitCodeConstant   = 1
)

// ConsoleCommandEventLogger renders git query lifecycle events as human-readable console log lines.
type ConsoleCommandEventLogger struct {
	logger    *zap.Logger
	formatter execshell.CommandMessageFormatter
}

// NewConsoleCommandEventLogger constructs a console event logger backed by the provided zap logger.
func NewConsoleCommandEventLogger(logger *zap.Logger) *ConsoleCommandEventLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleCommandEventLogger{logger: logger, formatter: execshell.CommandMessageFormatter{}}
}

// CommandStarted implements execshell.CommandEventObserver.
func (eventLogger *ConsoleCommandEventLogger) CommandStarted(command execshell.ShellCommand) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Info(eventLogger.formatter.BuildStartedMessage(command))
}

// CommandCompleted implements execshell.CommandEventObserver. A detached HEAD reported by
// symbolic-ref is an expected outcome and is logged at info level.
func (eventLogger *ConsoleCommandEventLogger) CommandCompleted(command execshell.ShellCommand, result execshell.ExecutionResult) {
	if eventLogger == nil {
		return
	}
	if result.ExitCode == 0 {
		eventLogger.logger.Info(eventLogger.formatter.BuildSuccessMessage(command))
		return
	}
	if isDetachedHeadResult(command, result) {
		eventLogger.logger.Info(eventLogger.formatter.BuildFailureMessage(command, result))
		return
	}
	eventLogger.logger.Warn(eventLogger.formatter.BuildFailureMessage(command, result))
}

// CommandExecutionFailed implements execshell.CommandEventObserver. Failures are surfaced to the user
// by the caller, so they stay below the default error level; cancellations and timeouts are debug only.
func (eventLogger *ConsoleCommandEventLogger) CommandExecutionFailed(command execshell.ShellCommand, failure error) {
	if eventLogger == nil {
		return
	}
	message := eventLogger.formatter.BuildExecutionFailureMessage(command, failure)
	if errors.Is(failure, context.DeadlineExceeded) || errors.Is(failure, context.Canceled) {
		eventLogger.logger.Debug(message)
		return
	}
	eventLogger.logger.Warn(message)
}

func isDetachedHeadResult(command execshell.ShellCommand, result execshell.ExecutionResult) bool {
	if command.Name != execshell.CommandGit || len(command.Details.Arguments) == 0 {
		return false
	}
	return command.Details.Arguments[0] == gitSymbolicRefArgumentConstant && result.ExitCode == detachedHeadExitCodeConstant
}
