package execshell

// CommandEventObserver is notified as npm, yarn, and ncu invocations move
// through their lifecycle. Observers must not block; the executor calls them
// synchronously on its own goroutine.
type CommandEventObserver interface {
	// CommandStarted fires immediately before the process is spawned.
	CommandStarted(command ShellCommand)
	// CommandCompleted fires once the process exits, regardless of exit code.
	CommandCompleted(command ShellCommand, result ExecutionResult)
	// CommandExecutionFailed fires when the process never produced a result.
	CommandExecutionFailed(command ShellCommand, failure error)
}

// silentCommandEventObserver swallows every event; it stands in whenever no
// observer was attached so the executor never nil-checks.
type silentCommandEventObserver struct{}

func (silentCommandEventObserver) CommandStarted(ShellCommand) {}

func (silentCommandEventObserver) CommandCompleted(ShellCommand, ExecutionResult) {}

func (silentCommandEventObserver) CommandExecutionFailed(ShellCommand, error) {}
