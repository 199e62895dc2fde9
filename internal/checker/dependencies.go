package checker

import (
	"context"

	"github.com/depdoctor/depdoctor/internal/execshell"
	"github.com/depdoctor/depdoctor/internal/manifest"
	"github.com/depdoctor/depdoctor/internal/npmcli"
)

// ManifestReader loads a project manifest from a directory.
type ManifestReader interface {
	Read(projectDirectory string) (manifest.Manifest, error)
}

// OutdatedLister reports outdated packages for a directory.
type OutdatedLister interface {
	Outdated(executionContext context.Context, projectDirectory string) (map[string]npmcli.OutdatedPackage, error)
}

// VersionCheckerRunner executes the external version checking tool.
type VersionCheckerRunner interface {
	ExecuteVersionChecker(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// FileReader abstracts raw file access for manifest snapshots.
type FileReader interface {
	ReadFile(path string) ([]byte, error)
}
