// Package yarncli wraps yarn audit invocations behind typed operations and errors.
package yarncli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/depdoctor/depdoctor/internal/execshell"
)

const (
	auditSubcommandConstant        = "audit"
	npmNamespaceSubcommandConstant = "npm"
	groupsFlagConstant             = "--groups"
	dependenciesGroupConstant      = "dependencies"
	environmentFlagConstant        = "--environment"
	productionEnvironmentConstant  = "production"

	executorNotConfiguredMessageConstant    = "yarn executor not configured"
	operationErrorTemplateConstant          = "yarn %s failed"
	operationErrorWithCauseTemplateConstant = "yarn %s failed: %s"
	auditFailedErrorTemplateConstant        = "yarn audit exited with code %d"

	auditOperationNameConstant = OperationName("audit")
)

// Substrings yarn prints when an audit finds nothing, regardless of exit code.
var cleanOutputMarkers = []string{
	"No known vulnerabilities found",
	"0 vulnerabilities found",
}

// OperationName describes a named yarn workflow supported by the client.
type OperationName string

// AuditVariant selects the audit invocation form for the yarn generation in use.
type AuditVariant string

// Audit invocation forms.
const (
	// AuditVariantClassic audits with yarn audit (yarn 1.x).
	AuditVariantClassic AuditVariant = AuditVariant("classic")
	// AuditVariantBerry audits with yarn npm audit (yarn 2+).
	AuditVariantBerry AuditVariant = AuditVariant("berry")
)

// ErrExecutorNotConfigured indicates the client was constructed without an executor.
var ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)

// OperationError wraps execution issues for yarn operations.
type OperationError struct {
	Operation OperationName
	Cause     error
}

// Error describes the operation failure.
func (operationError OperationError) Error() string {
	if operationError.Cause == nil {
		return fmt.Sprintf(operationErrorTemplateConstant, operationError.Operation)
	}
	return fmt.Sprintf(operationErrorWithCauseTemplateConstant, operationError.Operation, operationError.Cause)
}

// Unwrap exposes the underlying cause.
func (operationError OperationError) Unwrap() error {
	return operationError.Cause
}

// AuditFailedError reports a yarn audit that exited nonzero without signaling a
// clean result. Callers decide whether an npm-style fallback applies.
type AuditFailedError struct {
	ExitCode int
	Output   string
}

// Error describes the failed audit.
func (auditFailure AuditFailedError) Error() string {
	return fmt.Sprintf(auditFailedErrorTemplateConstant, auditFailure.ExitCode)
}

// AuditOutcome captures the result of a yarn audit run.
type AuditOutcome struct {
	Clean  bool
	Output string
}

// AuditOptions configures Audit invocations.
type AuditOptions struct {
	Variant        AuditVariant
	ProductionOnly bool
}

// YarnCommandExecutor is the minimal interface required from execshell.ShellExecutor.
type YarnCommandExecutor interface {
	ExecuteYarn(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Client coordinates yarn invocations through execshell.
type Client struct {
	executor YarnCommandExecutor
}

// NewClient constructs a yarn client.
func NewClient(executor YarnCommandExecutor) (*Client, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &Client{executor: executor}, nil
}

// Audit runs the audit form matching the requested variant in the provided
// directory. yarn exits nonzero when vulnerabilities exist, so a nonzero exit
// whose output carries a clean marker still counts as a clean audit; a nonzero
// exit without one surfaces as AuditFailedError.
func (client *Client) Audit(executionContext context.Context, projectDirectory string, options AuditOptions) (AuditOutcome, error) {
	commandDetails := execshell.CommandDetails{
		Arguments:        auditArguments(options),
		WorkingDirectory: projectDirectory,
	}

	executionResult, executionError := client.executor.ExecuteYarn(executionContext, commandDetails)
	if executionError == nil {
		return AuditOutcome{Clean: true, Output: executionResult.StandardOutput}, nil
	}

	var commandFailure execshell.CommandFailedError
	if !errors.As(executionError, &commandFailure) {
		return AuditOutcome{}, OperationError{Operation: auditOperationNameConstant, Cause: executionError}
	}

	failedResult := commandFailure.Result
	if containsCleanMarker(failedResult.StandardOutput) || containsCleanMarker(failedResult.StandardError) {
		return AuditOutcome{Clean: true, Output: combinedOutput(failedResult)}, nil
	}

	return AuditOutcome{}, AuditFailedError{ExitCode: failedResult.ExitCode, Output: combinedOutput(failedResult)}
}

func auditArguments(options AuditOptions) []string {
	if options.Variant == AuditVariantBerry {
		arguments := []string{npmNamespaceSubcommandConstant, auditSubcommandConstant}
		if options.ProductionOnly {
			arguments = append(arguments, environmentFlagConstant, productionEnvironmentConstant)
		}
		return arguments
	}

	arguments := []string{auditSubcommandConstant}
	if options.ProductionOnly {
		arguments = append(arguments, groupsFlagConstant, dependenciesGroupConstant)
	}
	return arguments
}

func containsCleanMarker(output string) bool {
	for _, cleanMarker := range cleanOutputMarkers {
		if strings.Contains(output, cleanMarker) {
			return true
		}
	}
	return false
}

func combinedOutput(result execshell.ExecutionResult) string {
	trimmedOutput := strings.TrimSpace(result.StandardOutput)
	if len(trimmedOutput) > 0 {
		return result.StandardOutput
	}
	return result.StandardError
}
