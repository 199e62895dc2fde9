package execshell

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	npmCommandNameConstant            = "npm"
	yarnCommandNameConstant           = "yarn"
	versionCheckerCommandNameConstant = "ncu"

	loggerNotConfiguredMessageConstant        = "shell executor requires a configured logger"
	commandRunnerNotConfiguredMessageConstant = "shell executor requires a configured command runner"

	commandFailedErrorTemplateConstant           = "%s exited with code %d"
	commandFailedErrorWithStderrTemplateConstant = "%s exited with code %d: %s"
	commandExecutionErrorTemplateConstant        = "unable to execute %s: %v"
	commandLogFieldNameConstant                  = "command"
	argumentsLogFieldNameConstant                = "arguments"
	workingDirectoryLogFieldNameConstant         = "working_directory"
	exitCodeLogFieldNameConstant                 = "exit_code"
	standardErrorLogFieldNameConstant            = "standard_error"
)

// Initialization validation errors surfaced by NewShellExecutor.
var (
	ErrLoggerNotConfigured        = errors.New(loggerNotConfiguredMessageConstant)
	ErrCommandRunnerNotConfigured = errors.New(commandRunnerNotConfiguredMessageConstant)
)

// CommandName identifies a supported executable.
type CommandName string

// Supported tool enumerations.
const (
	CommandNpm            CommandName = CommandName(npmCommandNameConstant)
	CommandYarn           CommandName = CommandName(yarnCommandNameConstant)
	CommandVersionChecker CommandName = CommandName(versionCheckerCommandNameConstant)
)

// CommandDetails describes a tool invocation.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
	StandardInput        []byte
}

// ShellCommand combines a CommandName with specific invocation details.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// ExecutionResult captures the observable results of executing a command.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// CommandRunner represents the ability to run shell commands.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

// CommandFailedError reports a command that ran to completion with a non-zero exit code.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

// Error describes the failed command including trimmed standard error output when present.
func (failure CommandFailedError) Error() string {
	trimmedStandardError := strings.TrimSpace(failure.Result.StandardError)
	if len(trimmedStandardError) == 0 {
		return fmt.Sprintf(commandFailedErrorTemplateConstant, failure.Command.Name, failure.Result.ExitCode)
	}
	return fmt.Sprintf(commandFailedErrorWithStderrTemplateConstant, failure.Command.Name, failure.Result.ExitCode, trimmedStandardError)
}

// CommandExecutionError reports a command that could not be spawned or observed.
type CommandExecutionError struct {
	Command ShellCommand
	Cause   error
}

// Error describes the execution failure.
func (failure CommandExecutionError) Error() string {
	return fmt.Sprintf(commandExecutionErrorTemplateConstant, failure.Command.Name, failure.Cause)
}

// Unwrap exposes the underlying cause for errors.Is and errors.As checks.
func (failure CommandExecutionError) Unwrap() error {
	return failure.Cause
}

// ShellExecutor runs package manager tooling with structured logging and lifecycle notifications.
type ShellExecutor struct {
	logger               *zap.Logger
	commandRunner        CommandRunner
	messageFormatter     CommandMessageFormatter
	eventObserver        CommandEventObserver
	humanReadableLogging bool
}

// NewShellExecutor validates dependencies and constructs a ShellExecutor.
// The optional humanReadableLogging toggle switches log entries from structured fields to formatted sentences.
func NewShellExecutor(logger *zap.Logger, commandRunner CommandRunner, humanReadableLogging ...bool) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if commandRunner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}

	humanReadable := false
	if len(humanReadableLogging) > 0 {
		humanReadable = humanReadableLogging[0]
	}

	return &ShellExecutor{
		logger:               logger,
		commandRunner:        commandRunner,
		messageFormatter:     CommandMessageFormatter{},
		eventObserver:        silentCommandEventObserver{},
		humanReadableLogging: humanReadable,
	}, nil
}

// WithCommandEventObserver attaches an observer receiving command lifecycle notifications.
func (executor *ShellExecutor) WithCommandEventObserver(observer CommandEventObserver) *ShellExecutor {
	if executor == nil {
		return executor
	}
	if observer == nil {
		executor.eventObserver = silentCommandEventObserver{}
		return executor
	}
	executor.eventObserver = observer
	return executor
}

// ExecuteNpm runs npm with the provided details.
func (executor *ShellExecutor) ExecuteNpm(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.Execute(executionContext, ShellCommand{Name: CommandNpm, Details: details})
}

// ExecuteYarn runs yarn with the provided details.
func (executor *ShellExecutor) ExecuteYarn(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.Execute(executionContext, ShellCommand{Name: CommandYarn, Details: details})
}

// ExecuteVersionChecker runs npm-check-updates with the provided details.
func (executor *ShellExecutor) ExecuteVersionChecker(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.Execute(executionContext, ShellCommand{Name: CommandVersionChecker, Details: details})
}

// Execute runs the supplied command, logging lifecycle events and translating failures into typed errors.
func (executor *ShellExecutor) Execute(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	if executor == nil || executor.commandRunner == nil {
		return ExecutionResult{}, ErrCommandRunnerNotConfigured
	}

	executor.logCommandStarted(command)
	executor.eventObserver.CommandStarted(command)

	executionResult, runError := executor.commandRunner.Run(executionContext, command)
	if runError != nil {
		executor.logExecutionFailure(command, runError)
		executor.eventObserver.CommandExecutionFailed(command, runError)
		return ExecutionResult{}, CommandExecutionError{Command: command, Cause: runError}
	}

	executor.eventObserver.CommandCompleted(command, executionResult)

	if executionResult.ExitCode != 0 {
		executor.logCommandFailure(command, executionResult)
		return executionResult, CommandFailedError{Command: command, Result: executionResult}
	}

	executor.logCommandSuccess(command, executionResult)
	return executionResult, nil
}

func (executor *ShellExecutor) logCommandStarted(command ShellCommand) {
	if !executor.messageFormatter.shouldLogStartMessage(command) {
		return
	}

	startedMessage := executor.messageFormatter.BuildStartedMessage(command)
	if executor.humanReadableLogging {
		executor.logger.Info(startedMessage)
		return
	}
	executor.logger.Info(startedMessage, executor.commandFields(command)...)
}

func (executor *ShellExecutor) logCommandSuccess(command ShellCommand, result ExecutionResult) {
	successMessage := executor.messageFormatter.BuildSuccessMessage(command, result)
	if executor.humanReadableLogging {
		executor.logger.Info(successMessage)
		return
	}
	executor.logger.Info(successMessage, append(executor.commandFields(command), zap.Int(exitCodeLogFieldNameConstant, result.ExitCode))...)
}

func (executor *ShellExecutor) logCommandFailure(command ShellCommand, result ExecutionResult) {
	failureMessage := executor.messageFormatter.BuildFailureMessage(command, result)
	if executor.humanReadableLogging {
		executor.logger.Warn(failureMessage)
		return
	}
	executor.logger.Warn(failureMessage,
		append(executor.commandFields(command),
			zap.Int(exitCodeLogFieldNameConstant, result.ExitCode),
			zap.String(standardErrorLogFieldNameConstant, strings.TrimSpace(result.StandardError)),
		)...,
	)
}

func (executor *ShellExecutor) logExecutionFailure(command ShellCommand, failure error) {
	failureMessage := executor.messageFormatter.BuildExecutionFailureMessage(command, failure)
	if executor.humanReadableLogging {
		executor.logger.Error(failureMessage)
		return
	}
	executor.logger.Error(failureMessage, append(executor.commandFields(command), zap.Error(failure))...)
}

func (executor *ShellExecutor) commandFields(command ShellCommand) []zap.Field {
	return []zap.Field{
		zap.String(commandLogFieldNameConstant, string(command.Name)),
		zap.Strings(argumentsLogFieldNameConstant, command.Details.Arguments),
		zap.String(workingDirectoryLogFieldNameConstant, command.Details.WorkingDirectory),
	}
}
