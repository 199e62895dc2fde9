package checker

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

const (
	versionCheckerToolNameConstant        = "ncu"
	toolUnavailableTemplateConstant       = "%s is not installed or not on PATH (install with: npm install -g npm-check-updates)"
	operationErrorTemplateConstant        = "%s failed: %v"
	responseDecodingErrorTemplateConstant = "%s returned output that could not be decoded: %v"
	semverComparisonPrefixConstant        = "v"
	previewUpgradesOperationNameConstant  = "upgrade preview"
	applyUpgradesOperationNameConstant    = "upgrade"
)

// UpgradeKind classifies the semver jump an upgrade represents.
type UpgradeKind string

// Supported upgrade kinds.
const (
	UpgradeKindMajor   UpgradeKind = "major"
	UpgradeKindMinor   UpgradeKind = "minor"
	UpgradeKindPatch   UpgradeKind = "patch"
	UpgradeKindNone    UpgradeKind = "none"
	UpgradeKindUnknown UpgradeKind = "unknown"
)

// ClassifyUpgrade reports the semver jump from the installed version to the
// latest published one. Versions that do not parse classify as unknown.
func ClassifyUpgrade(currentVersion string, latestVersion string) UpgradeKind {
	canonicalCurrent := canonicalSemver(currentVersion)
	canonicalLatest := canonicalSemver(latestVersion)
	if !semver.IsValid(canonicalCurrent) || !semver.IsValid(canonicalLatest) {
		return UpgradeKindUnknown
	}

	if semver.Major(canonicalCurrent) != semver.Major(canonicalLatest) {
		return UpgradeKindMajor
	}
	if semver.MajorMinor(canonicalCurrent) != semver.MajorMinor(canonicalLatest) {
		return UpgradeKindMinor
	}
	if semver.Compare(canonicalCurrent, canonicalLatest) != 0 {
		return UpgradeKindPatch
	}
	return UpgradeKindNone
}

func canonicalSemver(version string) string {
	trimmedVersion := strings.TrimSpace(version)
	if len(trimmedVersion) == 0 {
		return ""
	}
	return semverComparisonPrefixConstant + strings.TrimPrefix(trimmedVersion, semverComparisonPrefixConstant)
}

// OutdatedFinding is one row of the check report.
type OutdatedFinding struct {
	Name     string      `json:"name"`
	Current  string      `json:"current"`
	Wanted   string      `json:"wanted"`
	Latest   string      `json:"latest"`
	Location string      `json:"location,omitempty"`
	Kind     UpgradeKind `json:"kind"`
}

// CheckReport is the document emitted when JSON output is requested.
type CheckReport struct {
	Directory string            `json:"directory"`
	Outdated  []OutdatedFinding `json:"outdated"`
}

// CheckOptions captures the configurable parameters for the check command.
type CheckOptions struct {
	ProjectDirectory string
	JSONOutput       bool
}

// UpdateOptions captures the configurable parameters for the update command.
type UpdateOptions struct {
	ProjectDirectory string
	DryRun           bool
}

// ToolUnavailableError reports that the external version checker cannot be run.
type ToolUnavailableError struct {
	Tool  string
	Cause error
}

// Error names the missing tool and how to install it.
func (toolError ToolUnavailableError) Error() string {
	return fmt.Sprintf(toolUnavailableTemplateConstant, toolError.Tool)
}

// Unwrap exposes the underlying cause for errors.Is and errors.As checks.
func (toolError ToolUnavailableError) Unwrap() error {
	return toolError.Cause
}

// OperationError wraps a failed checker operation.
type OperationError struct {
	Operation string
	Cause     error
}

// Error describes the failed operation.
func (operationError OperationError) Error() string {
	return fmt.Sprintf(operationErrorTemplateConstant, operationError.Operation, operationError.Cause)
}

// Unwrap exposes the underlying cause for errors.Is and errors.As checks.
func (operationError OperationError) Unwrap() error {
	return operationError.Cause
}

// ResponseDecodingError indicates tool output that could not be parsed.
type ResponseDecodingError struct {
	Operation string
	Cause     error
}

// Error describes the decoding failure.
func (decodingError ResponseDecodingError) Error() string {
	return fmt.Sprintf(responseDecodingErrorTemplateConstant, decodingError.Operation, decodingError.Cause)
}

// Unwrap exposes the underlying cause for errors.Is and errors.As checks.
func (decodingError ResponseDecodingError) Unwrap() error {
	return decodingError.Cause
}
