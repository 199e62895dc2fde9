// Package dependencies resolves command collaborators, substituting
// OS-backed defaults for any dependency a builder leaves unset.
package dependencies

import (
	"context"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/depdoctor/depdoctor/internal/detect"
	"github.com/depdoctor/depdoctor/internal/execshell"
	"github.com/depdoctor/depdoctor/internal/filesystem"
	"github.com/depdoctor/depdoctor/internal/lockfile"
	"github.com/depdoctor/depdoctor/internal/manifest"
	"github.com/depdoctor/depdoctor/internal/npmcli"
	"github.com/depdoctor/depdoctor/internal/ui"
	"github.com/depdoctor/depdoctor/internal/utils"
	"github.com/depdoctor/depdoctor/internal/workspace"
	"github.com/depdoctor/depdoctor/internal/yarncli"
)

// CommandExecutor aggregates the package manager invocations CLI commands consume.
type CommandExecutor interface {
	ExecuteNpm(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
	ExecuteYarn(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
	ExecuteVersionChecker(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

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

// OutdatedLister reports outdated packages for a directory.
type OutdatedLister interface {
	Outdated(executionContext context.Context, projectDirectory string) (map[string]npmcli.OutdatedPackage, error)
}

// FileReader abstracts raw file access.
type FileReader interface {
	ReadFile(path string) ([]byte, error)
}

// VersionCheckerRunner invokes the npm-check-updates binary.
type VersionCheckerRunner interface {
	ExecuteVersionChecker(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// YarnAuditor runs yarn audit against a directory.
type YarnAuditor interface {
	Audit(executionContext context.Context, projectDirectory string, options yarncli.AuditOptions) (yarncli.AuditOutcome, error)
}

// LockfileInspector classifies the lock artifact present in a directory.
type LockfileInspector interface {
	Inspect(projectDirectory string) (lockfile.Details, bool)
}

// ResolveCommandExecutor returns the provided executor or constructs a shell-backed
// default that reports command lifecycle events through the console observer.
func ResolveCommandExecutor(existing CommandExecutor, logger *zap.Logger, humanReadableLogging bool) (CommandExecutor, error) {
	if existing != nil {
		return existing, nil
	}

	commandRunner := execshell.NewOSCommandRunner()
	shellExecutor, creationError := execshell.NewShellExecutor(logger, commandRunner, humanReadableLogging)
	if creationError != nil {
		return nil, creationError
	}
	return shellExecutor.WithCommandEventObserver(ui.NewConsoleCommandEventLogger(logger)), nil
}

// ResolveManifestReader returns the provided reader or an OS-backed default.
func ResolveManifestReader(existing ManifestReader) ManifestReader {
	if existing != nil {
		return existing
	}
	return manifest.NewReader(filesystem.OSFileSystem{})
}

// ResolveManagerDetector returns the provided detector or constructs one probing
// the filesystem and the yarn binary through the executor.
func ResolveManagerDetector(existing ManagerDetector, executor CommandExecutor) ManagerDetector {
	if existing != nil {
		return existing
	}
	return detect.NewDetector(filesystem.OSFileSystem{}, executor)
}

// ResolveMemberResolver returns the provided resolver or an OS-backed default.
func ResolveMemberResolver(existing MemberResolver) MemberResolver {
	if existing != nil {
		return existing
	}
	return workspace.NewResolver(filesystem.OSFileSystem{})
}

// ResolveNpmAuditor returns the provided auditor or an npm CLI-backed client.
func ResolveNpmAuditor(existing NpmAuditor, executor CommandExecutor) (NpmAuditor, error) {
	if existing != nil {
		return existing, nil
	}
	return npmcli.NewClient(executor)
}

// ResolveYarnAuditor returns the provided auditor or a yarn CLI-backed client.
func ResolveYarnAuditor(existing YarnAuditor, executor CommandExecutor) (YarnAuditor, error) {
	if existing != nil {
		return existing, nil
	}
	return yarncli.NewClient(executor)
}

// ResolveOutdatedLister returns the provided lister or an npm CLI-backed client.
func ResolveOutdatedLister(existing OutdatedLister, executor CommandExecutor) (OutdatedLister, error) {
	if existing != nil {
		return existing, nil
	}
	return npmcli.NewClient(executor)
}

// ResolveVersionChecker returns the provided runner or the shared command executor.
func ResolveVersionChecker(existing VersionCheckerRunner, executor CommandExecutor) VersionCheckerRunner {
	if existing != nil {
		return existing
	}
	return executor
}

// ResolveFileReader returns the provided reader or an OS-backed default.
func ResolveFileReader(existing FileReader) FileReader {
	if existing != nil {
		return existing
	}
	return filesystem.OSFileSystem{}
}

// ResolveLockfileInspector returns the provided inspector or an OS-backed default.
func ResolveLockfileInspector(existing LockfileInspector) LockfileInspector {
	if existing != nil {
		return existing
	}
	return lockfile.NewInspector(filesystem.OSFileSystem{})
}

// ResolveConsoleRenderer builds a renderer for the writer, enabling color only
// when the writer is a terminal.
func ResolveConsoleRenderer(outputWriter io.Writer) *ui.Renderer {
	useColor := false
	if outputFile, isFile := outputWriter.(*os.File); isFile {
		useColor = ui.ColorEnabled(outputFile)
	}
	return ui.NewRenderer(utils.NewFlushingWriter(outputWriter), ui.DefaultTheme(), useColor)
}
