package execshell

// CommandEventObserver receives lifecycle notifications for shell command execution.
type CommandEventObserver interface {
	// CommandStarted notifies observers that command execution is beginning.
	CommandStarted(command ShellCommand)
	// CommandCompleted notifies observers that command execution finished and supplies the result.
	CommandCompleted(command ShellCommand, result ExecutionResult)
	// CommandExecutionFailed reports unexpected failures prior to receiving an execution result.
	CommandExecutionFailed(command ShellCommand, failure error)
}

// compositeCommandEventObserver fans events out to every non-nil observer in order.
type compositeCommandEventObserver struct {
	observers []CommandEventObserver
}

func newCompositeCommandEventObserver(observers []CommandEventObserver) CommandEventObserver {
	activeObservers := make([]CommandEventObserver, 0, len(observers))
	for _, candidate := range observers {
		if candidate != nil {
			activeObservers = append(activeObservers, candidate)
		}
	}
	if len(activeObservers) == 0 {
		return noopCommandEventObserver{}
	}
	return compositeCommandEventObserver{observers: activeObservers}
}

func (composite compositeCommandEventObserver) CommandStarted(command ShellCommand) {
	for _, observer := range composite.observers {
		observer.CommandStarted(command)
	}
}

func (composite compositeCommandEventObserver) CommandCompleted(command ShellCommand, result ExecutionResult) {
	for _, observer := range composite.observers {
		observer.CommandCompleted(command, result)
	}
}

func (composite compositeCommandEventObserver) CommandExecutionFailed(command ShellCommand, failure error) {
	for _, observer := range composite.observers {
		observer.CommandExecutionFailed(command, failure)
	}
}

// noopCommandEventObserver discards all command events.
type noopCommandEventObserver struct{}

func (noopCommandEventObserver) CommandStarted(ShellCommand) {}

func (noopCommandEventObserver) CommandCompleted(ShellCommand, ExecutionResult) {}

func (noopCommandEventObserver) CommandExecutionFailed(ShellCommand, error) {}
