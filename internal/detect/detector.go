package detect

import (
	"context"
	"io/fs"
	"path/filepath"

	"github.com/depdoctor/depdoctor/internal/execshell"
)

const yarnVersionFlagConstant = "--version"

// FileChecker exposes the lock artifact probe used during detection.
type FileChecker interface {
	Stat(path string) (fs.FileInfo, error)
}

// YarnExecutor exposes the yarn invocation used to query the installed version.
type YarnExecutor interface {
	ExecuteYarn(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Detector derives PackageManagerInfo from lock artifact presence and, for yarn
// projects, an external version query.
type Detector struct {
	fileChecker  FileChecker
	yarnExecutor YarnExecutor
}

// NewDetector constructs a Detector with the provided collaborators.
func NewDetector(fileChecker FileChecker, yarnExecutor YarnExecutor) *Detector {
	return &Detector{fileChecker: fileChecker, yarnExecutor: yarnExecutor}
}

// Detect reports the package manager governing the supplied project directory.
// Lock artifact presence drives the decision in strict priority order: a yarn
// lock wins over an npm lock, and a directory without either is reported as npm
// with a display name marking the fallback guess. A yarn version query that
// fails leaves the manager as yarn with the version unknown.
func (detector *Detector) Detect(executionContext context.Context, projectDirectory string) PackageManagerInfo {
	if detector.lockArtifactExists(projectDirectory, YarnLockFileName) {
		return yarnPackageManagerInfo(detector.queryYarnVersion(executionContext, projectDirectory))
	}
	if detector.lockArtifactExists(projectDirectory, NpmLockFileName) {
		return npmPackageManagerInfo(false)
	}
	return npmPackageManagerInfo(true)
}

func (detector *Detector) lockArtifactExists(projectDirectory string, lockFileName string) bool {
	_, statError := detector.fileChecker.Stat(filepath.Join(projectDirectory, lockFileName))
	return statError == nil
}

func (detector *Detector) queryYarnVersion(executionContext context.Context, projectDirectory string) string {
	commandDetails := execshell.CommandDetails{
		Arguments:        []string{yarnVersionFlagConstant},
		WorkingDirectory: projectDirectory,
	}

	executionResult, executionError := detector.yarnExecutor.ExecuteYarn(executionContext, commandDetails)
	if executionError != nil {
		return ""
	}
	return executionResult.StandardOutput
}
