package checker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	"go.uber.org/zap"

	"github.com/depdoctor/depdoctor/internal/manifest"
	"github.com/depdoctor/depdoctor/internal/npmcli"
	"github.com/depdoctor/depdoctor/internal/ui"
)

const (
	upToDateNoticeConstant                = "All dependencies are up to date"
	outdatedCountsTemplateConstant        = "%d outdated %s"
	packageSingularNounConstant           = "package"
	packagePluralNounConstant             = "packages"
	checkRowTemplateConstant              = "  %-24s %-12s %-12s %-12s %s"
	checkHeaderPackageColumnConstant      = "package"
	checkHeaderCurrentColumnConstant      = "current"
	checkHeaderWantedColumnConstant       = "wanted"
	checkHeaderLatestColumnConstant       = "latest"
	checkHeaderChangeColumnConstant       = "change"
	kindColumnWidthConstant               = 8
	emptyColumnPlaceholderConstant        = "-"
	jsonIndentConstant                    = "  "
	manifestUnparsableWarnMessageConstant = "Manifest unparsable, deferring to the package manager tooling"
	pathLogFieldConstant                  = "path"
)

// CheckService reports outdated dependencies for a project.
type CheckService struct {
	logger         *zap.Logger
	manifestReader ManifestReader
	outdatedLister OutdatedLister
	renderer       *ui.Renderer
	outputWriter   io.Writer
}

// NewCheckService constructs a CheckService using the provided dependencies.
func NewCheckService(logger *zap.Logger, manifestReader ManifestReader, outdatedLister OutdatedLister, renderer *ui.Renderer, outputWriter io.Writer) *CheckService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckService{
		logger:         logger,
		manifestReader: manifestReader,
		outdatedLister: outdatedLister,
		renderer:       renderer,
		outputWriter:   outputWriter,
	}
}

// Run lists outdated dependencies and classifies each available upgrade.
func (service *CheckService) Run(executionContext context.Context, options CheckOptions) error {
	if _, manifestError := loadManifestDocument(service.logger, service.manifestReader, options.ProjectDirectory); manifestError != nil {
		return manifestError
	}

	outdatedPackages, listError := service.outdatedLister.Outdated(executionContext, options.ProjectDirectory)
	if listError != nil {
		return listError
	}

	findings := collectFindings(outdatedPackages)

	if options.JSONOutput {
		return service.writeJSONReport(options.ProjectDirectory, findings)
	}

	if len(findings) == 0 {
		service.renderer.Success(upToDateNoticeConstant)
		return nil
	}

	service.renderer.Warn(fmt.Sprintf(outdatedCountsTemplateConstant, len(findings), packageNoun(len(findings))))
	service.renderer.Blank()
	service.renderer.Muted(fmt.Sprintf(checkRowTemplateConstant,
		checkHeaderPackageColumnConstant,
		checkHeaderCurrentColumnConstant,
		checkHeaderWantedColumnConstant,
		checkHeaderLatestColumnConstant,
		checkHeaderChangeColumnConstant,
	))
	for _, finding := range findings {
		service.renderFindingRow(finding)
	}
	return nil
}

func (service *CheckService) renderFindingRow(finding OutdatedFinding) {
	service.renderer.Line(fmt.Sprintf(checkRowTemplateConstant,
		finding.Name,
		orPlaceholder(finding.Current),
		orPlaceholder(finding.Wanted),
		orPlaceholder(finding.Latest),
		service.kindLabel(finding.Kind),
	))
}

func (service *CheckService) kindLabel(kind UpgradeKind) string {
	paddedKind := fmt.Sprintf("%-*s", kindColumnWidthConstant, string(kind))
	switch kind {
	case UpgradeKindMajor:
		return service.renderer.ErrorLabel(paddedKind)
	case UpgradeKindMinor:
		return service.renderer.WarnLabel(paddedKind)
	case UpgradeKindPatch:
		return service.renderer.SuccessLabel(paddedKind)
	default:
		return service.renderer.MutedLabel(paddedKind)
	}
}

func (service *CheckService) writeJSONReport(projectDirectory string, findings []OutdatedFinding) error {
	checkReport := CheckReport{Directory: projectDirectory, Outdated: findings}

	encodedReport, marshalError := json.MarshalIndent(checkReport, "", jsonIndentConstant)
	if marshalError != nil {
		return marshalError
	}

	_, writeError := fmt.Fprintln(service.outputWriter, string(encodedReport))
	return writeError
}

func collectFindings(outdatedPackages map[string]npmcli.OutdatedPackage) []OutdatedFinding {
	packageNames := make([]string, 0, len(outdatedPackages))
	for packageName := range outdatedPackages {
		packageNames = append(packageNames, packageName)
	}
	sort.Strings(packageNames)

	findings := make([]OutdatedFinding, 0, len(packageNames))
	for _, packageName := range packageNames {
		outdatedPackage := outdatedPackages[packageName]
		findings = append(findings, OutdatedFinding{
			Name:     packageName,
			Current:  outdatedPackage.Current,
			Wanted:   outdatedPackage.Wanted,
			Latest:   outdatedPackage.Latest,
			Location: outdatedPackage.Location,
			Kind:     ClassifyUpgrade(outdatedPackage.Current, outdatedPackage.Latest),
		})
	}
	return findings
}

func packageNoun(count int) string {
	if count == 1 {
		return packageSingularNounConstant
	}
	return packagePluralNounConstant
}

func orPlaceholder(value string) string {
	if len(value) == 0 {
		return emptyColumnPlaceholderConstant
	}
	return value
}

// loadManifestDocument reads the project manifest. A missing manifest aborts
// the command, while an unparsable one is left for the external tooling to
// complain about.
func loadManifestDocument(logger *zap.Logger, manifestReader ManifestReader, projectDirectory string) (manifest.Manifest, error) {
	document, readError := manifestReader.Read(projectDirectory)
	if readError == nil {
		return document, nil
	}

	parseFailure := manifest.ParseError{}
	if errors.As(readError, &parseFailure) {
		logger.Warn(manifestUnparsableWarnMessageConstant,
			zap.String(pathLogFieldConstant, parseFailure.Path),
			zap.Error(parseFailure.Unwrap()),
		)
		return manifest.Manifest{}, nil
	}

	return manifest.Manifest{}, readError
}
