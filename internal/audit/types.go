package audit

import (
	"fmt"
	"strings"
	"time"

	"github.com/depdoctor/depdoctor/internal/npmcli"
)

// RootProjectLabelConstant labels the workspace root target in reports.
const RootProjectLabelConstant = "root project"

// Severity levels recognized in npm audit reports, least to most severe.
const (
	SeverityInfo     = "info"
	SeverityLow      = "low"
	SeverityModerate = "moderate"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

var severityRanks = map[string]int{
	SeverityInfo:     0,
	SeverityLow:      1,
	SeverityModerate: 2,
	SeverityHigh:     3,
	SeverityCritical: 4,
}

// SeverityChoices lists the severity floors accepted on the command line.
var SeverityChoices = []string{SeverityLow, SeverityModerate, SeverityHigh, SeverityCritical}

// InvalidSeverityError reports a severity floor outside the recognized set.
type InvalidSeverityError struct {
	Value string
}

// Error describes the invalid severity value.
func (severityError InvalidSeverityError) Error() string {
	return fmt.Sprintf("unknown severity %q (expected one of %s)", severityError.Value, strings.Join(SeverityChoices, ", "))
}

// NormalizeSeverityFloor lowercases and validates a severity floor. An empty
// value disables filtering and normalizes to the empty string.
func NormalizeSeverityFloor(value string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if len(normalized) == 0 {
		return "", nil
	}
	if _, recognized := severityRanks[normalized]; !recognized {
		return "", InvalidSeverityError{Value: value}
	}
	return normalized, nil
}

func meetsSeverityFloor(severity string, severityFloor string) bool {
	if len(severityFloor) == 0 {
		return true
	}
	return severityRank(severity) >= severityRank(severityFloor)
}

func severityRank(severity string) int {
	rank, recognized := severityRanks[strings.ToLower(strings.TrimSpace(severity))]
	if !recognized {
		return 0
	}
	return rank
}

// CommandOptions captures the configurable parameters for the security command.
type CommandOptions struct {
	ProjectDirectory string
	SeverityFloor    string
	JSONOutput       bool
	ProductionOnly   bool
}

// Clock abstracts time-dependent functionality for deterministic testing.
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock using the standard library.
type SystemClock struct{}

// Now returns the current system time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// BackendName identifies the audit backend that produced a target result.
type BackendName string

// Audit backends reported per target.
const (
	BackendNpm         BackendName = "npm"
	BackendYarn        BackendName = "yarn"
	BackendNpmFallback BackendName = "npm-fallback"
)

// TargetStatus summarizes one audited directory's outcome.
type TargetStatus string

// Supported target statuses.
const (
	TargetStatusClean    TargetStatus = "clean"
	TargetStatusFindings TargetStatus = "findings"
	TargetStatusFailed   TargetStatus = "failed"
)

// TargetReport captures the audit outcome for a single directory.
type TargetReport struct {
	Label      string              `json:"label"`
	Directory  string              `json:"directory"`
	Backend    BackendName         `json:"backend"`
	Status     TargetStatus        `json:"status"`
	Report     *npmcli.AuditReport `json:"report,omitempty"`
	Output     string              `json:"output,omitempty"`
	Diagnostic string              `json:"diagnostic,omitempty"`
}

// RunReport is the document emitted when JSON output is requested.
type RunReport struct {
	Directory      string         `json:"directory"`
	PackageManager string         `json:"packageManager"`
	Targets        []TargetReport `json:"targets"`
}
