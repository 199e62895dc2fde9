// Package npmcli wraps npm invocations behind typed operations and errors.
package npmcli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/depdoctor/depdoctor/internal/execshell"
)

const (
	auditSubcommandConstant     = "audit"
	outdatedSubcommandConstant  = "outdated"
	jsonFlagConstant            = "--json"
	omitDevelopmentFlagConstant = "--omit=dev"

	executorNotConfiguredMessageConstant    = "npm executor not configured"
	operationErrorTemplateConstant          = "npm %s failed"
	operationErrorWithCauseTemplateConstant = "npm %s failed: %s"
	responseDecodingErrorTemplateConstant   = "npm %s produced unreadable output: %s"
	toolReportedErrorTemplateConstant       = "npm reported %s: %s"

	auditOperationNameConstant    = OperationName("audit")
	outdatedOperationNameConstant = OperationName("outdated")
)

// OperationName describes a named npm workflow supported by the client.
type OperationName string

// ErrExecutorNotConfigured indicates the client was constructed without an executor.
var ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)

// OperationError wraps execution issues for npm operations.
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

// ResponseDecodingError indicates npm emitted output the client could not parse.
type ResponseDecodingError struct {
	Operation OperationName
	Cause     error
}

// Error describes the decoding failure.
func (decodingError ResponseDecodingError) Error() string {
	return fmt.Sprintf(responseDecodingErrorTemplateConstant, decodingError.Operation, decodingError.Cause)
}

// Unwrap exposes the underlying JSON error.
func (decodingError ResponseDecodingError) Unwrap() error {
	return decodingError.Cause
}

// ToolReportedError carries a structured error npm embedded in its JSON output,
// such as ENOLOCK when a lockfile is required but missing.
type ToolReportedError struct {
	Code    string
	Summary string
}

// Error describes npm's reported failure.
func (reportedError ToolReportedError) Error() string {
	return fmt.Sprintf(toolReportedErrorTemplateConstant, reportedError.Code, reportedError.Summary)
}

// FixAvailability reports whether npm offers a fix for a vulnerability. npm
// emits either a boolean or an object describing the fix; both decode here
// without error, and the object form always means a fix exists.
type FixAvailability bool

// UnmarshalJSON accepts the boolean and object forms npm emits.
func (availability *FixAvailability) UnmarshalJSON(data []byte) error {
	trimmedData := bytes.TrimSpace(data)

	var booleanForm bool
	if unmarshalError := json.Unmarshal(trimmedData, &booleanForm); unmarshalError == nil {
		*availability = FixAvailability(booleanForm)
		return nil
	}

	*availability = FixAvailability(bytes.HasPrefix(trimmedData, []byte("{")))
	return nil
}

// Vulnerability describes one vulnerable package from an npm audit report.
type Vulnerability struct {
	Name         string          `json:"name"`
	Severity     string          `json:"severity"`
	Range        string          `json:"range"`
	FixAvailable FixAvailability `json:"fixAvailable"`
	URL          string          `json:"url"`
}

// VulnerabilityCounts aggregates finding totals by severity.
type VulnerabilityCounts struct {
	Info     int `json:"info"`
	Low      int `json:"low"`
	Moderate int `json:"moderate"`
	High     int `json:"high"`
	Critical int `json:"critical"`
	Total    int `json:"total"`
}

// AuditMetadata carries the aggregate section of an npm audit report.
type AuditMetadata struct {
	Vulnerabilities VulnerabilityCounts `json:"vulnerabilities"`
}

// AuditReport is the parsed result of npm audit --json.
type AuditReport struct {
	Vulnerabilities map[string]Vulnerability `json:"vulnerabilities"`
	Metadata        AuditMetadata            `json:"metadata"`
}

// OutdatedPackage describes one row of npm outdated --json output.
type OutdatedPackage struct {
	Current   string `json:"current"`
	Wanted    string `json:"wanted"`
	Latest    string `json:"latest"`
	Dependent string `json:"dependent"`
	Location  string `json:"location"`
}

type npmErrorEnvelope struct {
	Error *struct {
		Code    string `json:"code"`
		Summary string `json:"summary"`
	} `json:"error"`
}

// NpmCommandExecutor is the minimal interface required from execshell.ShellExecutor.
type NpmCommandExecutor interface {
	ExecuteNpm(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Client coordinates npm invocations through execshell.
type Client struct {
	executor NpmCommandExecutor
}

// NewClient constructs an npm client.
func NewClient(executor NpmCommandExecutor) (*Client, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &Client{executor: executor}, nil
}

// AuditOptions configures Audit invocations.
type AuditOptions struct {
	ProductionOnly bool
}

// Audit runs npm audit --json in the provided directory. npm exits nonzero when
// vulnerabilities exist, so a failed exit with parseable stdout still yields a
// report rather than an error.
func (client *Client) Audit(executionContext context.Context, projectDirectory string, options AuditOptions) (AuditReport, error) {
	arguments := []string{auditSubcommandConstant, jsonFlagConstant}
	if options.ProductionOnly {
		arguments = append(arguments, omitDevelopmentFlagConstant)
	}

	standardOutput, outputError := client.runRecoveringOutput(executionContext, auditOperationNameConstant, arguments, projectDirectory)
	if outputError != nil {
		return AuditReport{}, outputError
	}

	if reportedError := decodeReportedError(standardOutput); reportedError != nil {
		return AuditReport{}, OperationError{Operation: auditOperationNameConstant, Cause: *reportedError}
	}

	var auditReport AuditReport
	if unmarshalError := json.Unmarshal([]byte(standardOutput), &auditReport); unmarshalError != nil {
		return AuditReport{}, ResponseDecodingError{Operation: auditOperationNameConstant, Cause: unmarshalError}
	}
	return auditReport, nil
}

// Outdated runs npm outdated --json in the provided directory. npm exits
// nonzero when any package is outdated, so that exit is treated as findings,
// not failure. An empty report means every dependency is current.
func (client *Client) Outdated(executionContext context.Context, projectDirectory string) (map[string]OutdatedPackage, error) {
	arguments := []string{outdatedSubcommandConstant, jsonFlagConstant}

	standardOutput, outputError := client.runRecoveringOutput(executionContext, outdatedOperationNameConstant, arguments, projectDirectory)
	if outputError != nil {
		return nil, outputError
	}

	if len(strings.TrimSpace(standardOutput)) == 0 {
		return map[string]OutdatedPackage{}, nil
	}

	if reportedError := decodeReportedError(standardOutput); reportedError != nil {
		return nil, OperationError{Operation: outdatedOperationNameConstant, Cause: *reportedError}
	}

	outdatedPackages := map[string]OutdatedPackage{}
	if unmarshalError := json.Unmarshal([]byte(standardOutput), &outdatedPackages); unmarshalError != nil {
		return nil, ResponseDecodingError{Operation: outdatedOperationNameConstant, Cause: unmarshalError}
	}
	return outdatedPackages, nil
}

func (client *Client) runRecoveringOutput(executionContext context.Context, operation OperationName, arguments []string, projectDirectory string) (string, error) {
	commandDetails := execshell.CommandDetails{Arguments: arguments, WorkingDirectory: projectDirectory}

	executionResult, executionError := client.executor.ExecuteNpm(executionContext, commandDetails)
	if executionError != nil {
		var commandFailure execshell.CommandFailedError
		if !errors.As(executionError, &commandFailure) {
			return "", OperationError{Operation: operation, Cause: executionError}
		}
		executionResult = commandFailure.Result
	}
	return executionResult.StandardOutput, nil
}

func decodeReportedError(standardOutput string) *ToolReportedError {
	var envelope npmErrorEnvelope
	if unmarshalError := json.Unmarshal([]byte(standardOutput), &envelope); unmarshalError != nil {
		return nil
	}
	if envelope.Error == nil {
		return nil
	}
	return &ToolReportedError{Code: envelope.Error.Code, Summary: envelope.Error.Summary}
}
