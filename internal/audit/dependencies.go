package audit

import (
	"context"

	"github.com/depdoctor/depdoctor/internal/detect"
	"github.com/depdoctor/depdoctor/internal/manifest"
	"github.com/depdoctor/depdoctor/internal/npmcli"
	"github.com/depdoctor/depdoctor/internal/workspace"
	"github.com/depdoctor/depdoctor/internal/yarncli"
)

// ManifestReader loads a project manifest from a directory.
type ManifestReader interface {
	Read(projectDirectory string) (manifest.Manifest, error)
}

// ManagerDetector reports the package manager governing a directory.
type ManagerDetector interface {
	Detect(executionContext context.Context, projectDirectory string) detect.PackageManagerInfo
}

// MemberResolver enumerates workspace member directories beneath a root.
type MemberResolver interface {
	ResolveMembers(rootDirectory string, workspacePatterns []string) []workspace.Target
}

// NpmAuditor runs npm audit against a directory.
type NpmAuditor interface {
	Audit(executionContext context.Context, projectDirectory string, options npmcli.AuditOptions) (npmcli.AuditReport, error)
}

// YarnAuditor runs yarn audit against a directory.
type YarnAuditor interface {
	Audit(executionContext context.Context, projectDirectory string, options yarncli.AuditOptions) (yarncli.AuditOutcome, error)
}
