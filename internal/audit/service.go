package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/depdoctor/depdoctor/internal/detect"
	"github.com/depdoctor/depdoctor/internal/manifest"
	"github.com/depdoctor/depdoctor/internal/npmcli"
	"github.com/depdoctor/depdoctor/internal/ui"
	"github.com/depdoctor/depdoctor/internal/workspace"
	"github.com/depdoctor/depdoctor/internal/yarncli"
)

const (
	detectedManagerTemplateConstant        = "Detected package manager: %s"
	targetHeaderTemplateConstant           = "%s (%s)"
	cleanNoticeConstant                    = "No known vulnerabilities found"
	fallbackNoticeConstant                 = "yarn audit failed, retrying with npm audit"
	rootFallbackSuppressedTemplateConstant = "yarn audit failed: %v (npm fallback skipped for workspace roots)"
	npmAuditFailedTemplateConstant         = "npm audit failed: %v"
	vulnerabilityCountsTemplateConstant    = "%d %s found"
	severityBreakdownTemplateConstant      = " (%s)"
	hiddenFindingsTemplateConstant         = "  %d hidden below the %s severity floor"
	findingRowTemplateConstant             = "  %s %-24s %-16s %s"
	summaryHeaderConstant                  = "Summary"
	summaryCleanTemplateConstant           = "  %s: clean"
	summaryFindingsTemplateConstant        = "  %s: %d %s"
	summaryFailedTemplateConstant          = "  %s: audit failed"
	fixAvailableNoteConstant               = "fix available"
	noFixNoteConstant                      = "no fix available"
	vulnerabilitySingularNounConstant      = "vulnerability"
	vulnerabilityPluralNounConstant        = "vulnerabilities"
	severityColumnWidthConstant            = 8
	jsonIndentConstant                     = "  "
	manifestUnparsableWarnMessageConstant  = "Manifest unparsable, auditing root without workspaces"
	targetAuditedDebugMessageConstant      = "Audited target"
	fallbackDebugMessageConstant           = "Yarn audit failed, dispatching npm fallback"
	targetLogFieldConstant                 = "target"
	statusLogFieldConstant                 = "status"
	durationLogFieldConstant               = "duration"
	pathLogFieldConstant                   = "path"
)

// Service audits a project and its workspace members for vulnerable dependencies.
type Service struct {
	logger         *zap.Logger
	manifestReader ManifestReader
	detector       ManagerDetector
	memberResolver MemberResolver
	npmAuditor     NpmAuditor
	yarnAuditor    YarnAuditor
	renderer       *ui.Renderer
	outputWriter   io.Writer
	clock          Clock
}

// NewService constructs a Service using the provided dependencies.
func NewService(logger *zap.Logger, manifestReader ManifestReader, detector ManagerDetector, memberResolver MemberResolver, npmAuditor NpmAuditor, yarnAuditor YarnAuditor, renderer *ui.Renderer, outputWriter io.Writer, clock Clock) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &Service{
		logger:         logger,
		manifestReader: manifestReader,
		detector:       detector,
		memberResolver: memberResolver,
		npmAuditor:     npmAuditor,
		yarnAuditor:    yarnAuditor,
		renderer:       renderer,
		outputWriter:   outputWriter,
		clock:          clock,
	}
}

// Run audits the root project and every resolvable workspace member. Individual
// target failures are reported and never abort the remaining targets.
func (service *Service) Run(executionContext context.Context, options CommandOptions) error {
	workspaceInfo, manifestError := service.loadWorkspaceInfo(options.ProjectDirectory)
	if manifestError != nil {
		return manifestError
	}

	managerInfo := service.detector.Detect(executionContext, options.ProjectDirectory)

	targets := []workspace.Target{{Directory: options.ProjectDirectory, Label: RootProjectLabelConstant}}
	if workspaceInfo.HasWorkspaces {
		targets = append(targets, service.memberResolver.ResolveMembers(options.ProjectDirectory, workspaceInfo.Patterns)...)
	}

	if !options.JSONOutput {
		service.renderer.Line(fmt.Sprintf(detectedManagerTemplateConstant, managerInfo.DisplayName))
	}

	targetReports := make([]TargetReport, 0, len(targets))
	for targetIndex, target := range targets {
		targetIsRoot := targetIndex == 0
		auditStartTime := service.clock.Now()

		targetReport := service.auditTarget(executionContext, target, managerInfo, targetIsRoot, workspaceInfo.HasWorkspaces, options)

		service.logger.Debug(targetAuditedDebugMessageConstant,
			zap.String(targetLogFieldConstant, target.Label),
			zap.String(statusLogFieldConstant, string(targetReport.Status)),
			zap.Duration(durationLogFieldConstant, service.clock.Now().Sub(auditStartTime)),
		)

		targetReports = append(targetReports, targetReport)
	}

	if options.JSONOutput {
		return service.writeJSONReport(options.ProjectDirectory, managerInfo, targetReports)
	}

	service.renderSummary(targetReports)
	return nil
}

// loadWorkspaceInfo reads the root manifest. A missing manifest aborts the run,
// while an unparsable one only forfeits workspace resolution.
func (service *Service) loadWorkspaceInfo(projectDirectory string) (manifest.WorkspaceInfo, error) {
	rootManifest, readError := service.manifestReader.Read(projectDirectory)
	if readError != nil {
		parseFailure := manifest.ParseError{}
		if errors.As(readError, &parseFailure) {
			service.logger.Warn(manifestUnparsableWarnMessageConstant,
				zap.String(pathLogFieldConstant, parseFailure.Path),
				zap.Error(parseFailure.Unwrap()),
			)
			return manifest.WorkspaceInfo{}, nil
		}
		return manifest.WorkspaceInfo{}, readError
	}

	return rootManifest.WorkspaceInfo(), nil
}

func (service *Service) auditTarget(executionContext context.Context, target workspace.Target, managerInfo detect.PackageManagerInfo, targetIsRoot bool, workspaceEnabled bool, options CommandOptions) TargetReport {
	if !options.JSONOutput {
		service.renderer.Blank()
		service.renderer.Header(fmt.Sprintf(targetHeaderTemplateConstant, target.Label, target.Directory))
	}

	if managerInfo.Manager == detect.ManagerYarn {
		return service.auditWithYarn(executionContext, target, managerInfo, targetIsRoot, workspaceEnabled, options)
	}
	return service.auditWithNpm(executionContext, target, BackendNpm, options)
}

func (service *Service) auditWithYarn(executionContext context.Context, target workspace.Target, managerInfo detect.PackageManagerInfo, targetIsRoot bool, workspaceEnabled bool, options CommandOptions) TargetReport {
	auditOptions := yarncli.AuditOptions{
		Variant:        yarnVariantForFamily(managerInfo.Family),
		ProductionOnly: options.ProductionOnly,
	}

	outcome, auditError := service.yarnAuditor.Audit(executionContext, target.Directory, auditOptions)
	if auditError == nil {
		if !options.JSONOutput {
			service.renderer.Success(cleanNoticeConstant)
		}
		return TargetReport{
			Label:     target.Label,
			Directory: target.Directory,
			Backend:   BackendYarn,
			Status:    TargetStatusClean,
			Output:    outcome.Output,
		}
	}

	// npm audit cannot see yarn workspace members, so a workspace root never falls back.
	if targetIsRoot && workspaceEnabled {
		diagnostic := fmt.Sprintf(rootFallbackSuppressedTemplateConstant, auditError)
		if !options.JSONOutput {
			service.renderer.Error(diagnostic)
		}
		return TargetReport{
			Label:      target.Label,
			Directory:  target.Directory,
			Backend:    BackendYarn,
			Status:     TargetStatusFailed,
			Diagnostic: diagnostic,
		}
	}

	if !options.JSONOutput {
		service.renderer.Muted(fallbackNoticeConstant)
	}
	service.logger.Debug(fallbackDebugMessageConstant,
		zap.String(targetLogFieldConstant, target.Label),
		zap.Error(auditError),
	)

	return service.auditWithNpm(executionContext, target, BackendNpmFallback, options)
}

func (service *Service) auditWithNpm(executionContext context.Context, target workspace.Target, backend BackendName, options CommandOptions) TargetReport {
	auditReport, auditError := service.npmAuditor.Audit(executionContext, target.Directory, npmcli.AuditOptions{ProductionOnly: options.ProductionOnly})
	if auditError != nil {
		diagnostic := fmt.Sprintf(npmAuditFailedTemplateConstant, auditError)
		if !options.JSONOutput {
			service.renderer.Error(diagnostic)
		}
		return TargetReport{
			Label:      target.Label,
			Directory:  target.Directory,
			Backend:    backend,
			Status:     TargetStatusFailed,
			Diagnostic: diagnostic,
		}
	}

	status := TargetStatusClean
	if auditReport.Metadata.Vulnerabilities.Total > 0 || len(auditReport.Vulnerabilities) > 0 {
		status = TargetStatusFindings
	}

	if !options.JSONOutput {
		service.renderNpmReport(auditReport, status, options.SeverityFloor)
	}

	reportCopy := auditReport
	return TargetReport{
		Label:     target.Label,
		Directory: target.Directory,
		Backend:   backend,
		Status:    status,
		Report:    &reportCopy,
	}
}

func (service *Service) renderNpmReport(auditReport npmcli.AuditReport, status TargetStatus, severityFloor string) {
	if status == TargetStatusClean {
		service.renderer.Success(cleanNoticeConstant)
		return
	}

	service.renderer.Warn(formatVulnerabilityCounts(auditReport.Metadata.Vulnerabilities))

	hiddenFindings := 0
	for _, packageName := range sortedVulnerabilityNames(auditReport.Vulnerabilities) {
		vulnerability := auditReport.Vulnerabilities[packageName]
		if !meetsSeverityFloor(vulnerability.Severity, severityFloor) {
			hiddenFindings++
			continue
		}
		service.renderFindingRow(packageName, vulnerability)
	}

	if hiddenFindings > 0 {
		service.renderer.Muted(fmt.Sprintf(hiddenFindingsTemplateConstant, hiddenFindings, severityFloor))
	}
}

func (service *Service) renderFindingRow(packageName string, vulnerability npmcli.Vulnerability) {
	fixNote := noFixNoteConstant
	if bool(vulnerability.FixAvailable) {
		fixNote = fixAvailableNoteConstant
	}

	paddedSeverity := fmt.Sprintf("%-*s", severityColumnWidthConstant, vulnerability.Severity)
	row := fmt.Sprintf(findingRowTemplateConstant, service.renderer.SeverityLabel(paddedSeverity), packageName, vulnerability.Range, fixNote)
	if len(vulnerability.URL) > 0 {
		row = row + " " + vulnerability.URL
	}

	service.renderer.Line(row)
}

func (service *Service) renderSummary(targetReports []TargetReport) {
	service.renderer.Blank()
	service.renderer.Header(summaryHeaderConstant)

	for _, targetReport := range targetReports {
		switch targetReport.Status {
		case TargetStatusFindings:
			findingTotal := 0
			if targetReport.Report != nil {
				findingTotal = targetReport.Report.Metadata.Vulnerabilities.Total
			}
			service.renderer.Warn(fmt.Sprintf(summaryFindingsTemplateConstant, targetReport.Label, findingTotal, vulnerabilityNoun(findingTotal)))
		case TargetStatusFailed:
			service.renderer.Error(fmt.Sprintf(summaryFailedTemplateConstant, targetReport.Label))
		default:
			service.renderer.Success(fmt.Sprintf(summaryCleanTemplateConstant, targetReport.Label))
		}
	}
}

func (service *Service) writeJSONReport(projectDirectory string, managerInfo detect.PackageManagerInfo, targetReports []TargetReport) error {
	runReport := RunReport{
		Directory:      projectDirectory,
		PackageManager: managerInfo.DisplayName,
		Targets:        targetReports,
	}

	encodedReport, marshalError := json.MarshalIndent(runReport, "", jsonIndentConstant)
	if marshalError != nil {
		return marshalError
	}

	_, writeError := fmt.Fprintln(service.outputWriter, string(encodedReport))
	return writeError
}

func formatVulnerabilityCounts(counts npmcli.VulnerabilityCounts) string {
	severitySegments := make([]string, 0, len(severityRanks))
	appendSegment := func(count int, severity string) {
		if count > 0 {
			severitySegments = append(severitySegments, fmt.Sprintf("%d %s", count, severity))
		}
	}
	appendSegment(counts.Info, SeverityInfo)
	appendSegment(counts.Low, SeverityLow)
	appendSegment(counts.Moderate, SeverityModerate)
	appendSegment(counts.High, SeverityHigh)
	appendSegment(counts.Critical, SeverityCritical)

	countsSummary := fmt.Sprintf(vulnerabilityCountsTemplateConstant, counts.Total, vulnerabilityNoun(counts.Total))
	if len(severitySegments) == 0 {
		return countsSummary
	}
	return countsSummary + fmt.Sprintf(severityBreakdownTemplateConstant, strings.Join(severitySegments, ", "))
}

func vulnerabilityNoun(count int) string {
	if count == 1 {
		return vulnerabilitySingularNounConstant
	}
	return vulnerabilityPluralNounConstant
}

func sortedVulnerabilityNames(vulnerabilities map[string]npmcli.Vulnerability) []string {
	packageNames := make([]string, 0, len(vulnerabilities))
	for packageName := range vulnerabilities {
		packageNames = append(packageNames, packageName)
	}
	sort.Strings(packageNames)
	return packageNames
}

// yarnVariantForFamily picks the audit invocation matching the detected yarn
// line. Unknown versions audit as classic, matching the lockfile generation
// most likely to be present.
func yarnVariantForFamily(family detect.VersionFamily) yarncli.AuditVariant {
	if family == detect.FamilyYarnModern {
		return yarncli.AuditVariantBerry
	}
	return yarncli.AuditVariantClassic
}
