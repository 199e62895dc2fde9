package inspect

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/depdoctor/depdoctor/internal/manifest"
	"github.com/depdoctor/depdoctor/internal/ui"
)

const (
	projectRowTemplateConstant            = "Project: %s"
	versionRowTemplateConstant            = "Version: %s"
	managerRowTemplateConstant            = "Package manager: %s"
	declaredManagerRowTemplateConstant    = "Declared packageManager: %s"
	dependenciesRowTemplateConstant       = "Dependencies: %d production, %d development"
	lockfileRowTemplateConstant           = "Lockfile: %s"
	lockfileMissingRowConstant            = "Lockfile: none found"
	workspacesRowTemplateConstant         = "Workspaces: %d %s (%s)"
	workspacesNoneRowConstant             = "Workspaces: none declared"
	memberRowTemplateConstant             = "  %s"
	patternSeparatorConstant              = ", "
	unnamedProjectPlaceholderConstant     = "(unnamed)"
	memberSingularNounConstant            = "member"
	memberPluralNounConstant              = "members"
	manifestUnparsableWarnMessageConstant = "Manifest unparsable, reporting defaults"
	pathLogFieldConstant                  = "path"
)

// Options captures the configurable parameters for the info command.
type Options struct {
	ProjectDirectory string
}

// Service reports a project's manager, dependencies, workspaces, and lock artifact.
type Service struct {
	logger            *zap.Logger
	manifestReader    ManifestReader
	detector          ManagerDetector
	memberResolver    MemberResolver
	lockfileInspector LockfileInspector
	renderer          *ui.Renderer
}

// NewService constructs an inspection Service using the provided dependencies.
func NewService(logger *zap.Logger, manifestReader ManifestReader, detector ManagerDetector, memberResolver MemberResolver, lockfileInspector LockfileInspector, renderer *ui.Renderer) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		logger:            logger,
		manifestReader:    manifestReader,
		detector:          detector,
		memberResolver:    memberResolver,
		lockfileInspector: lockfileInspector,
		renderer:          renderer,
	}
}

// Run renders the project summary for the configured directory.
func (service *Service) Run(executionContext context.Context, options Options) error {
	document, manifestError := service.loadDocument(options.ProjectDirectory)
	if manifestError != nil {
		return manifestError
	}

	managerInfo := service.detector.Detect(executionContext, options.ProjectDirectory)

	service.renderer.Line(fmt.Sprintf(projectRowTemplateConstant, projectName(document)))
	if len(document.Version) > 0 {
		service.renderer.Line(fmt.Sprintf(versionRowTemplateConstant, document.Version))
	}
	service.renderer.Line(fmt.Sprintf(managerRowTemplateConstant, managerInfo.DisplayName))
	if len(document.PackageManager) > 0 {
		service.renderer.Line(fmt.Sprintf(declaredManagerRowTemplateConstant, document.PackageManager))
	}
	service.renderer.Line(fmt.Sprintf(dependenciesRowTemplateConstant, len(document.Dependencies), len(document.DevDependencies)))
	service.renderLockfile(options.ProjectDirectory)
	service.renderWorkspaces(options.ProjectDirectory, document)
	return nil
}

func (service *Service) renderLockfile(projectDirectory string) {
	details, found := service.lockfileInspector.Inspect(projectDirectory)
	if !found {
		service.renderer.Muted(lockfileMissingRowConstant)
		return
	}
	service.renderer.Line(fmt.Sprintf(lockfileRowTemplateConstant, details.Describe()))
}

func (service *Service) renderWorkspaces(projectDirectory string, document manifest.Manifest) {
	if !document.Workspaces.Declared {
		service.renderer.Muted(workspacesNoneRowConstant)
		return
	}

	members := service.memberResolver.ResolveMembers(projectDirectory, document.Workspaces.Patterns)
	service.renderer.Line(fmt.Sprintf(workspacesRowTemplateConstant,
		len(members),
		memberNoun(len(members)),
		strings.Join(document.Workspaces.Patterns, patternSeparatorConstant),
	))
	for _, member := range members {
		service.renderer.Line(fmt.Sprintf(memberRowTemplateConstant, member.Label))
	}
}

func (service *Service) loadDocument(projectDirectory string) (manifest.Manifest, error) {
	document, readError := service.manifestReader.Read(projectDirectory)
	if readError == nil {
		return document, nil
	}

	parseFailure := manifest.ParseError{}
	if errors.As(readError, &parseFailure) {
		service.logger.Warn(manifestUnparsableWarnMessageConstant,
			zap.String(pathLogFieldConstant, parseFailure.Path),
			zap.Error(parseFailure.Unwrap()),
		)
		return manifest.Manifest{}, nil
	}

	return manifest.Manifest{}, readError
}

func projectName(document manifest.Manifest) string {
	trimmedName := strings.TrimSpace(document.Name)
	if len(trimmedName) == 0 {
		return unnamedProjectPlaceholderConstant
	}
	return trimmedName
}

func memberNoun(count int) string {
	if count == 1 {
		return memberSingularNounConstant
	}
	return memberPluralNounConstant
}
