package execshell_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/depdoctor/depdoctor/internal/execshell"
)

const (
	stubStandardErrorConstant  = "registry unreachable"
	versionProbeOutputConstant = "1.22.19\n"
)

// scriptedCommandRunner returns a canned result and remembers every command it
// was asked to run.
type scriptedCommandRunner struct {
	result   execshell.ExecutionResult
	failure  error
	commands []execshell.ShellCommand
}

func (runner *scriptedCommandRunner) Run(_ context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error) {
	runner.commands = append(runner.commands, command)
	return runner.result, runner.failure
}

type countingEventObserver struct {
	started       int
	completed     int
	spawnFailures int
}

func (counter *countingEventObserver) CommandStarted(execshell.ShellCommand) {
	counter.started++
}

func (counter *countingEventObserver) CommandCompleted(execshell.ShellCommand, execshell.ExecutionResult) {
	counter.completed++
}

func (counter *countingEventObserver) CommandExecutionFailed(execshell.ShellCommand, error) {
	counter.spawnFailures++
}

func TestNewShellExecutorValidatesDependencies(testInstance *testing.T) {
	testCases := []struct {
		name          string
		logger        *zap.Logger
		runner        execshell.CommandRunner
		expectedError error
	}{
		{name: "missing_logger", runner: &scriptedCommandRunner{}, expectedError: execshell.ErrLoggerNotConfigured},
		{name: "missing_runner", logger: zap.NewNop(), expectedError: execshell.ErrCommandRunnerNotConfigured},
		{name: "complete_dependencies", logger: zap.NewNop(), runner: &scriptedCommandRunner{}},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor, creationError := execshell.NewShellExecutor(testCase.logger, testCase.runner)
			if testCase.expectedError != nil {
				require.ErrorIs(testInstance, creationError, testCase.expectedError)
				require.Nil(testInstance, executor)
				return
			}
			require.NoError(testInstance, creationError)
			require.NotNil(testInstance, executor)
		})
	}
}

func TestShellExecutorExecuteOutcomes(testInstance *testing.T) {
	auditDetails := execshell.CommandDetails{Arguments: []string{"audit", "--json"}, WorkingDirectory: "."}

	testInstance.Run("zero_exit_returns_result_and_logs_lifecycle", func(testInstance *testing.T) {
		observedCore, observedLogs := observer.New(zap.DebugLevel)
		runner := &scriptedCommandRunner{result: execshell.ExecutionResult{StandardOutput: "{}"}}
		executor, creationError := execshell.NewShellExecutor(zap.New(observedCore), runner)
		require.NoError(testInstance, creationError)

		executionResult, executionError := executor.ExecuteNpm(context.Background(), auditDetails)

		require.NoError(testInstance, executionError)
		require.Equal(testInstance, "{}", executionResult.StandardOutput)
		require.Len(testInstance, observedLogs.All(), 2)
	})

	testInstance.Run("nonzero_exit_returns_typed_failure_with_result", func(testInstance *testing.T) {
		observedCore, observedLogs := observer.New(zap.DebugLevel)
		runner := &scriptedCommandRunner{result: execshell.ExecutionResult{StandardError: stubStandardErrorConstant, ExitCode: 1}}
		executor, creationError := execshell.NewShellExecutor(zap.New(observedCore), runner)
		require.NoError(testInstance, creationError)

		executionResult, executionError := executor.ExecuteNpm(context.Background(), auditDetails)

		var commandFailure execshell.CommandFailedError
		require.ErrorAs(testInstance, executionError, &commandFailure)
		require.Equal(testInstance, 1, commandFailure.Result.ExitCode)
		require.Equal(testInstance, 1, executionResult.ExitCode)
		require.Contains(testInstance, executionError.Error(), stubStandardErrorConstant)
		require.Len(testInstance, observedLogs.All(), 2)
	})

	testInstance.Run("spawn_failure_returns_execution_error", func(testInstance *testing.T) {
		observedCore, observedLogs := observer.New(zap.DebugLevel)
		spawnFailure := errors.New("npm not installed")
		runner := &scriptedCommandRunner{failure: spawnFailure}
		executor, creationError := execshell.NewShellExecutor(zap.New(observedCore), runner)
		require.NoError(testInstance, creationError)

		_, executionError := executor.ExecuteNpm(context.Background(), auditDetails)

		var executionFailure execshell.CommandExecutionError
		require.ErrorAs(testInstance, executionError, &executionFailure)
		require.ErrorIs(testInstance, executionError, spawnFailure)
		require.Len(testInstance, observedLogs.All(), 2)
	})
}

func TestShellExecutorVersionProbeLogsOnlyOutcome(testInstance *testing.T) {
	observedCore, observedLogs := observer.New(zap.DebugLevel)
	runner := &scriptedCommandRunner{result: execshell.ExecutionResult{StandardOutput: versionProbeOutputConstant}}
	executor, creationError := execshell.NewShellExecutor(zap.New(observedCore), runner)
	require.NoError(testInstance, creationError)

	probeDetails := execshell.CommandDetails{Arguments: []string{"--version"}, WorkingDirectory: "."}
	executionResult, executionError := executor.ExecuteYarn(context.Background(), probeDetails)

	require.NoError(testInstance, executionError)
	require.Equal(testInstance, versionProbeOutputConstant, executionResult.StandardOutput)

	logEntries := observedLogs.All()
	require.Len(testInstance, logEntries, 1)
	require.Contains(testInstance, logEntries[0].Message, "1.22.19")
}

func TestShellExecutorWrappersStampCommandNames(testInstance *testing.T) {
	testCases := []struct {
		name         string
		execute      func(executor *execshell.ShellExecutor, details execshell.CommandDetails) (execshell.ExecutionResult, error)
		expectedName execshell.CommandName
	}{
		{
			name: "npm",
			execute: func(executor *execshell.ShellExecutor, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
				return executor.ExecuteNpm(context.Background(), details)
			},
			expectedName: execshell.CommandNpm,
		},
		{
			name: "yarn",
			execute: func(executor *execshell.ShellExecutor, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
				return executor.ExecuteYarn(context.Background(), details)
			},
			expectedName: execshell.CommandYarn,
		},
		{
			name: "ncu",
			execute: func(executor *execshell.ShellExecutor, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
				return executor.ExecuteVersionChecker(context.Background(), details)
			},
			expectedName: execshell.CommandVersionChecker,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			runner := &scriptedCommandRunner{}
			executor, creationError := execshell.NewShellExecutor(zap.NewNop(), runner)
			require.NoError(testInstance, creationError)

			_, executionError := testCase.execute(executor, execshell.CommandDetails{Arguments: []string{"--help"}})

			require.NoError(testInstance, executionError)
			require.Len(testInstance, runner.commands, 1)
			require.Equal(testInstance, testCase.expectedName, runner.commands[0].Name)
		})
	}
}

func TestShellExecutorNotifiesEventObserver(testInstance *testing.T) {
	testCases := []struct {
		name              string
		runner            *scriptedCommandRunner
		expectedStarted   int
		expectedCompleted int
		expectedSpawnFail int
	}{
		{
			name:              "completed_clean",
			runner:            &scriptedCommandRunner{},
			expectedStarted:   1,
			expectedCompleted: 1,
		},
		{
			name:              "completed_nonzero_exit",
			runner:            &scriptedCommandRunner{result: execshell.ExecutionResult{ExitCode: 2}},
			expectedStarted:   1,
			expectedCompleted: 1,
		},
		{
			name:              "spawn_failure",
			runner:            &scriptedCommandRunner{failure: errors.New("missing binary")},
			expectedStarted:   1,
			expectedSpawnFail: 1,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			eventCounter := &countingEventObserver{}
			executor, creationError := execshell.NewShellExecutor(zap.NewNop(), testCase.runner)
			require.NoError(testInstance, creationError)
			executor.WithCommandEventObserver(eventCounter)

			_, _ = executor.ExecuteNpm(context.Background(), execshell.CommandDetails{Arguments: []string{"audit"}})

			require.Equal(testInstance, testCase.expectedStarted, eventCounter.started)
			require.Equal(testInstance, testCase.expectedCompleted, eventCounter.completed)
			require.Equal(testInstance, testCase.expectedSpawnFail, eventCounter.spawnFailures)
		})
	}
}

func TestShellExecutorStructuredLoggingCarriesCommandFields(testInstance *testing.T) {
	observedCore, observedLogs := observer.New(zap.DebugLevel)
	runner := &scriptedCommandRunner{}
	executor, creationError := execshell.NewShellExecutor(zap.New(observedCore), runner)
	require.NoError(testInstance, creationError)

	_, executionError := executor.ExecuteNpm(context.Background(), execshell.CommandDetails{Arguments: []string{"audit"}})
	require.NoError(testInstance, executionError)

	logEntries := observedLogs.All()
	require.Len(testInstance, logEntries, 2)
	require.NotEmpty(testInstance, logEntries[0].Context)
}

func TestShellExecutorHumanReadableLoggingDropsStructuredFields(testInstance *testing.T) {
	observedCore, observedLogs := observer.New(zap.DebugLevel)
	runner := &scriptedCommandRunner{}
	executor, creationError := execshell.NewShellExecutor(zap.New(observedCore), runner, true)
	require.NoError(testInstance, creationError)

	_, executionError := executor.ExecuteNpm(context.Background(), execshell.CommandDetails{Arguments: []string{"audit"}})
	require.NoError(testInstance, executionError)

	logEntries := observedLogs.All()
	require.Len(testInstance, logEntries, 2)
	for _, logEntry := range logEntries {
		require.Empty(testInstance, logEntry.Context)
	}
}
