package yarncli_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/depdoctor/depdoctor/internal/execshell"
	"github.com/depdoctor/depdoctor/internal/yarncli"
)

const yarnProjectDirectoryConstant = "/workspace/project"

type stubYarnCommandExecutor struct {
	executeFunc     func(context.Context, execshell.CommandDetails) (execshell.ExecutionResult, error)
	recordedDetails []execshell.CommandDetails
}

func (executor *stubYarnCommandExecutor) ExecuteYarn(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.recordedDetails = append(executor.recordedDetails, details)
	if executor.executeFunc != nil {
		return executor.executeFunc(executionContext, details)
	}
	return execshell.ExecutionResult{}, nil
}

func failedYarnExit(exitCode int, standardOutput string, standardError string) error {
	return execshell.CommandFailedError{
		Command: execshell.ShellCommand{Name: execshell.CommandYarn},
		Result:  execshell.ExecutionResult{StandardOutput: standardOutput, StandardError: standardError, ExitCode: exitCode},
	}
}

func TestNewClientValidation(testInstance *testing.T) {
	testInstance.Run("nil_executor", func(testInstance *testing.T) {
		client, creationError := yarncli.NewClient(nil)
		require.Error(testInstance, creationError)
		require.ErrorIs(testInstance, creationError, yarncli.ErrExecutorNotConfigured)
		require.Nil(testInstance, client)
	})
}

func TestAuditArgumentSelection(testInstance *testing.T) {
	testCases := []struct {
		name              string
		options           yarncli.AuditOptions
		expectedArguments []string
	}{
		{
			name:              "classic_variant",
			options:           yarncli.AuditOptions{Variant: yarncli.AuditVariantClassic},
			expectedArguments: []string{"audit"},
		},
		{
			name:              "classic_variant_production_only",
			options:           yarncli.AuditOptions{Variant: yarncli.AuditVariantClassic, ProductionOnly: true},
			expectedArguments: []string{"audit", "--groups", "dependencies"},
		},
		{
			name:              "berry_variant",
			options:           yarncli.AuditOptions{Variant: yarncli.AuditVariantBerry},
			expectedArguments: []string{"npm", "audit"},
		},
		{
			name:              "berry_variant_production_only",
			options:           yarncli.AuditOptions{Variant: yarncli.AuditVariantBerry, ProductionOnly: true},
			expectedArguments: []string{"npm", "audit", "--environment", "production"},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := &stubYarnCommandExecutor{}
			client, creationError := yarncli.NewClient(executor)
			require.NoError(testInstance, creationError)

			_, auditError := client.Audit(context.Background(), yarnProjectDirectoryConstant, testCase.options)
			require.NoError(testInstance, auditError)
			require.Len(testInstance, executor.recordedDetails, 1)
			require.Equal(testInstance, testCase.expectedArguments, executor.recordedDetails[0].Arguments)
			require.Equal(testInstance, yarnProjectDirectoryConstant, executor.recordedDetails[0].WorkingDirectory)
		})
	}
}

func TestAuditOutcomes(testInstance *testing.T) {
	testCases := []struct {
		name            string
		executor        *stubYarnCommandExecutor
		expectedOutcome yarncli.AuditOutcome
		expectError     bool
		errorType       any
	}{
		{
			name: "zero_exit_is_clean",
			executor: &stubYarnCommandExecutor{executeFunc: func(context.Context, execshell.CommandDetails) (execshell.ExecutionResult, error) {
				return execshell.ExecutionResult{StandardOutput: "0 vulnerabilities found - Packages audited: 212\n"}, nil
			}},
			expectedOutcome: yarncli.AuditOutcome{Clean: true, Output: "0 vulnerabilities found - Packages audited: 212\n"},
		},
		{
			name: "nonzero_exit_with_clean_marker_on_stdout",
			executor: &stubYarnCommandExecutor{executeFunc: func(context.Context, execshell.CommandDetails) (execshell.ExecutionResult, error) {
				return execshell.ExecutionResult{}, failedYarnExit(1, "No known vulnerabilities found\n", "")
			}},
			expectedOutcome: yarncli.AuditOutcome{Clean: true, Output: "No known vulnerabilities found\n"},
		},
		{
			name: "nonzero_exit_with_clean_marker_on_stderr",
			executor: &stubYarnCommandExecutor{executeFunc: func(context.Context, execshell.CommandDetails) (execshell.ExecutionResult, error) {
				return execshell.ExecutionResult{}, failedYarnExit(1, "", "warning: No known vulnerabilities found\n")
			}},
			expectedOutcome: yarncli.AuditOutcome{Clean: true, Output: "warning: No known vulnerabilities found\n"},
		},
		{
			name: "nonzero_exit_without_marker_fails",
			executor: &stubYarnCommandExecutor{executeFunc: func(context.Context, execshell.CommandDetails) (execshell.ExecutionResult, error) {
				return execshell.ExecutionResult{}, failedYarnExit(12, "high severity vulnerability in lodash\n", "")
			}},
			expectError: true,
			errorType:   yarncli.AuditFailedError{},
		},
		{
			name: "spawn_failure_surfaces_operation_error",
			executor: &stubYarnCommandExecutor{executeFunc: func(context.Context, execshell.CommandDetails) (execshell.ExecutionResult, error) {
				return execshell.ExecutionResult{}, execshell.CommandExecutionError{Command: execshell.ShellCommand{Name: execshell.CommandYarn}, Cause: errors.New("yarn not installed")}
			}},
			expectError: true,
			errorType:   yarncli.OperationError{},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			client, creationError := yarncli.NewClient(testCase.executor)
			require.NoError(testInstance, creationError)

			outcome, auditError := client.Audit(context.Background(), yarnProjectDirectoryConstant, yarncli.AuditOptions{Variant: yarncli.AuditVariantClassic})
			if testCase.expectError {
				require.Error(testInstance, auditError)
				require.IsType(testInstance, testCase.errorType, auditError)
				return
			}
			require.NoError(testInstance, auditError)
			require.Equal(testInstance, testCase.expectedOutcome, outcome)
		})
	}
}

func TestAuditFailedErrorCarriesOutput(testInstance *testing.T) {
	executor := &stubYarnCommandExecutor{executeFunc: func(context.Context, execshell.CommandDetails) (execshell.ExecutionResult, error) {
		return execshell.ExecutionResult{}, failedYarnExit(8, "high severity vulnerability in lodash\n", "")
	}}
	client, creationError := yarncli.NewClient(executor)
	require.NoError(testInstance, creationError)

	_, auditError := client.Audit(context.Background(), yarnProjectDirectoryConstant, yarncli.AuditOptions{})
	require.Error(testInstance, auditError)

	auditFailure := yarncli.AuditFailedError{}
	require.True(testInstance, errors.As(auditError, &auditFailure))
	require.Equal(testInstance, 8, auditFailure.ExitCode)
	require.Contains(testInstance, auditFailure.Output, "lodash")
	require.Contains(testInstance, auditFailure.Error(), "exited with code 8")
}
