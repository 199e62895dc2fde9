package checker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"go.uber.org/zap"

	"github.com/depdoctor/depdoctor/internal/execshell"
	"github.com/depdoctor/depdoctor/internal/manifest"
	"github.com/depdoctor/depdoctor/internal/ui"
)

const (
	upgradeFlagConstant              = "--upgrade"
	jsonUpgradedFlagConstant         = "--jsonUpgraded"
	dryRunNoticeConstant             = "Dry run: package.json left unchanged"
	rangesUpToDateNoticeConstant     = "All dependency ranges already match the latest versions"
	upgradableCountsTemplateConstant = "%d dependency %s can be upgraded"
	upgradedCountsTemplateConstant   = "Upgraded %d dependency %s"
	rangeSingularNounConstant        = "range"
	rangePluralNounConstant          = "ranges"
	rangeChangeRowTemplateConstant   = "  %-24s %s -> %s"
	unknownRangePlaceholderConstant  = "?"
	manifestChangesHeaderConstant    = "package.json changes"
	manifestSnapshotTemplateConstant = "unable to read %s: %w"
	removedLinePrefixConstant        = "- "
	addedLinePrefixConstant          = "+ "
	upgradesAppliedDebugConstant     = "Dependency ranges rewritten"
	upgradeCountLogFieldConstant     = "upgrades"
	projectDirectoryLogFieldConstant = "directory"
)

// UpdateService rewrites dependency ranges in package.json through the
// npm-check-updates tool.
type UpdateService struct {
	logger         *zap.Logger
	manifestReader ManifestReader
	fileReader     FileReader
	versionChecker VersionCheckerRunner
	renderer       *ui.Renderer
}

// NewUpdateService constructs an UpdateService using the provided dependencies.
func NewUpdateService(logger *zap.Logger, manifestReader ManifestReader, fileReader FileReader, versionChecker VersionCheckerRunner, renderer *ui.Renderer) *UpdateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UpdateService{
		logger:         logger,
		manifestReader: manifestReader,
		fileReader:     fileReader,
		versionChecker: versionChecker,
		renderer:       renderer,
	}
}

// Run upgrades the dependency ranges declared in package.json, or previews the
// upgrades without touching the manifest when the dry-run option is set.
func (service *UpdateService) Run(executionContext context.Context, options UpdateOptions) error {
	document, manifestError := loadManifestDocument(service.logger, service.manifestReader, options.ProjectDirectory)
	if manifestError != nil {
		return manifestError
	}

	if options.DryRun {
		return service.previewUpgrades(executionContext, document, options.ProjectDirectory)
	}
	return service.applyUpgrades(executionContext, document, options.ProjectDirectory)
}

func (service *UpdateService) previewUpgrades(executionContext context.Context, document manifest.Manifest, projectDirectory string) error {
	upgradedRanges, runError := service.runVersionChecker(executionContext, projectDirectory, previewUpgradesOperationNameConstant, false)
	if runError != nil {
		return runError
	}

	service.renderer.Muted(dryRunNoticeConstant)
	if len(upgradedRanges) == 0 {
		service.renderer.Success(rangesUpToDateNoticeConstant)
		return nil
	}

	service.renderer.Warn(fmt.Sprintf(upgradableCountsTemplateConstant, len(upgradedRanges), rangeNoun(len(upgradedRanges))))
	service.renderRangeChanges(document, upgradedRanges)
	return nil
}

func (service *UpdateService) applyUpgrades(executionContext context.Context, document manifest.Manifest, projectDirectory string) error {
	manifestPath := filepath.Join(projectDirectory, manifest.ManifestFileName)

	beforeContents, beforeError := service.fileReader.ReadFile(manifestPath)
	if beforeError != nil {
		return fmt.Errorf(manifestSnapshotTemplateConstant, manifestPath, beforeError)
	}

	upgradedRanges, runError := service.runVersionChecker(executionContext, projectDirectory, applyUpgradesOperationNameConstant, true)
	if runError != nil {
		return runError
	}

	if len(upgradedRanges) == 0 {
		service.renderer.Success(rangesUpToDateNoticeConstant)
		return nil
	}

	afterContents, afterError := service.fileReader.ReadFile(manifestPath)
	if afterError != nil {
		return fmt.Errorf(manifestSnapshotTemplateConstant, manifestPath, afterError)
	}

	service.logger.Debug(upgradesAppliedDebugConstant,
		zap.String(projectDirectoryLogFieldConstant, projectDirectory),
		zap.Int(upgradeCountLogFieldConstant, len(upgradedRanges)),
	)

	service.renderer.Success(fmt.Sprintf(upgradedCountsTemplateConstant, len(upgradedRanges), rangeNoun(len(upgradedRanges))))
	service.renderRangeChanges(document, upgradedRanges)

	service.renderer.Blank()
	service.renderer.Header(manifestChangesHeaderConstant)
	service.renderManifestDiff(string(beforeContents), string(afterContents))
	return nil
}

// runVersionChecker invokes ncu and decodes the upgraded-range map it prints.
// Passing applyChanges makes ncu rewrite package.json in place.
func (service *UpdateService) runVersionChecker(executionContext context.Context, projectDirectory string, operationName string, applyChanges bool) (map[string]string, error) {
	arguments := []string{jsonUpgradedFlagConstant}
	if applyChanges {
		arguments = []string{upgradeFlagConstant, jsonUpgradedFlagConstant}
	}

	executionResult, executionError := service.versionChecker.ExecuteVersionChecker(executionContext, execshell.CommandDetails{
		Arguments:        arguments,
		WorkingDirectory: projectDirectory,
	})
	if executionError != nil {
		if errors.Is(executionError, exec.ErrNotFound) {
			return nil, ToolUnavailableError{Tool: versionCheckerToolNameConstant, Cause: executionError}
		}
		return nil, OperationError{Operation: operationName, Cause: executionError}
	}

	trimmedOutput := strings.TrimSpace(executionResult.StandardOutput)
	if len(trimmedOutput) == 0 {
		return map[string]string{}, nil
	}

	upgradedRanges := map[string]string{}
	if unmarshalError := json.Unmarshal([]byte(trimmedOutput), &upgradedRanges); unmarshalError != nil {
		return nil, ResponseDecodingError{Operation: operationName, Cause: unmarshalError}
	}
	return upgradedRanges, nil
}

func (service *UpdateService) renderRangeChanges(document manifest.Manifest, upgradedRanges map[string]string) {
	for _, packageName := range sortedRangeNames(upgradedRanges) {
		previousRange := declaredRange(document, packageName)
		if len(previousRange) == 0 {
			previousRange = unknownRangePlaceholderConstant
		}
		service.renderer.Line(fmt.Sprintf(rangeChangeRowTemplateConstant, packageName, previousRange, upgradedRanges[packageName]))
	}
}

func (service *UpdateService) renderManifestDiff(beforeContents string, afterContents string) {
	differ := diffmatchpatch.New()
	beforeRunes, afterRunes, lineIndex := differ.DiffLinesToChars(beforeContents, afterContents)
	lineDiffs := differ.DiffCharsToLines(differ.DiffMain(beforeRunes, afterRunes, false), lineIndex)

	for _, fragment := range lineDiffs {
		if fragment.Type == diffmatchpatch.DiffEqual {
			continue
		}
		for _, changedLine := range splitDiffLines(fragment.Text) {
			if fragment.Type == diffmatchpatch.DiffDelete {
				service.renderer.Error(removedLinePrefixConstant + changedLine)
				continue
			}
			service.renderer.Success(addedLinePrefixConstant + changedLine)
		}
	}
}

func splitDiffLines(fragmentText string) []string {
	trimmedFragment := strings.TrimRight(fragmentText, "\n")
	if len(trimmedFragment) == 0 {
		return nil
	}
	return strings.Split(trimmedFragment, "\n")
}

func sortedRangeNames(upgradedRanges map[string]string) []string {
	packageNames := make([]string, 0, len(upgradedRanges))
	for packageName := range upgradedRanges {
		packageNames = append(packageNames, packageName)
	}
	sort.Strings(packageNames)
	return packageNames
}

func declaredRange(document manifest.Manifest, packageName string) string {
	if declared, found := document.Dependencies[packageName]; found {
		return declared
	}
	if declared, found := document.DevDependencies[packageName]; found {
		return declared
	}
	return ""
}

func rangeNoun(count int) string {
	if count == 1 {
		return rangeSingularNounConstant
	}
	return rangePluralNounConstant
}
