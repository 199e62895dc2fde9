package inspect

import (
	"context"

	"github.com/depdoctor/depdoctor/internal/detect"
	"github.com/depdoctor/depdoctor/internal/lockfile"
	"github.com/depdoctor/depdoctor/internal/manifest"
	"github.com/depdoctor/depdoctor/internal/workspace"
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

// LockfileInspector classifies the lock artifact present in a directory.
type LockfileInspector interface {
	Inspect(projectDirectory string) (lockfile.Details, bool)
}
