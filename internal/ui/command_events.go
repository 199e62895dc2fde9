package ui

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/depdoctor/depdoctor/internal/execshell"
)

const (
	eventStartedTemplateConstant       = "Executing %s"
	eventFinishedTemplateConstant      = "Finished %s"
	eventExitCodeTemplateConstant      = "%s exited with code %d"
	eventSpawnFailureTemplateConstant  = "%s could not run: %s"
	eventLocationTemplateConstant      = "%s (in %s)"
	eventStandardErrorTemplateConstant = "%s: %s"
	eventArgumentSeparatorConstant     = " "
	eventUnknownFailureReasonConstant  = "unknown error"
)

// ConsoleCommandEventLogger narrates command lifecycle events through a zap
// logger. Routine events log at debug so they surface only when tracing is
// requested; failures keep their warning and error levels.
type ConsoleCommandEventLogger struct {
	logger *zap.Logger
}

// NewConsoleCommandEventLogger constructs a console event logger backed by the provided zap logger.
func NewConsoleCommandEventLogger(logger *zap.Logger) *ConsoleCommandEventLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleCommandEventLogger{logger: logger}
}

// CommandStarted implements execshell.CommandEventObserver by narrating the invocation about to run.
func (eventLogger *ConsoleCommandEventLogger) CommandStarted(command execshell.ShellCommand) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Debug(fmt.Sprintf(eventStartedTemplateConstant, describeInvocation(command)))
}

// CommandCompleted implements execshell.CommandEventObserver. Zero exit codes
// narrate at debug; nonzero exit codes warn and append trimmed stderr when present.
func (eventLogger *ConsoleCommandEventLogger) CommandCompleted(command execshell.ShellCommand, result execshell.ExecutionResult) {
	if eventLogger == nil {
		return
	}
	if result.ExitCode == 0 {
		eventLogger.logger.Debug(fmt.Sprintf(eventFinishedTemplateConstant, describeInvocation(command)))
		return
	}
	failureMessage := fmt.Sprintf(eventExitCodeTemplateConstant, describeInvocation(command), result.ExitCode)
	if trimmedStandardError := strings.TrimSpace(result.StandardError); len(trimmedStandardError) > 0 {
		failureMessage = fmt.Sprintf(eventStandardErrorTemplateConstant, failureMessage, trimmedStandardError)
	}
	eventLogger.logger.Warn(failureMessage)
}

// CommandExecutionFailed implements execshell.CommandEventObserver by reporting spawn failures.
func (eventLogger *ConsoleCommandEventLogger) CommandExecutionFailed(command execshell.ShellCommand, failure error) {
	if eventLogger == nil {
		return
	}
	failureReason := eventUnknownFailureReasonConstant
	if failure != nil {
		failureReason = failure.Error()
	}
	eventLogger.logger.Error(fmt.Sprintf(eventSpawnFailureTemplateConstant, describeInvocation(command), failureReason))
}

// describeInvocation renders the full invocation, arguments and working
// directory included. The executor's own log messages summarize commands;
// console narration always shows exactly what ran and where.
func describeInvocation(command execshell.ShellCommand) string {
	invocationParts := append([]string{string(command.Name)}, command.Details.Arguments...)
	invocation := strings.Join(invocationParts, eventArgumentSeparatorConstant)
	workingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(workingDirectory) == 0 {
		return invocation
	}
	return fmt.Sprintf(eventLocationTemplateConstant, invocation, workingDirectory)
}
