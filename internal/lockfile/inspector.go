// Package lockfile inspects lock artifacts for reporting. Lock file contents are
// display-only and never feed package manager detection.
package lockfile

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/depdoctor/depdoctor/internal/detect"
)

const (
	yarnClassicHeaderConstant  = "# yarn lockfile v1"
	yarnClassicVersionConstant = "1"

	npmDescriptionTemplateConstant          = "%s (lockfileVersion %s)"
	yarnClassicDescriptionTemplateConstant  = "%s (classic, lockfile v%s)"
	yarnBerryDescriptionTemplateConstant    = "%s (berry, metadata version %s)"
	unrecognizedDescriptionTemplateConstant = "%s (unrecognized format)"
)

// Format enumerates recognized lock artifact formats.
type Format string

// Lock artifact formats.
const (
	FormatNpm         Format = Format("npm")
	FormatYarnClassic Format = Format("yarn-classic")
	FormatYarnBerry   Format = Format("yarn-berry")
	FormatUnknown     Format = Format("unknown")
)

// Details describes a lock artifact found in a project directory.
type Details struct {
	FileName string
	Format   Format
	Version  string
}

// Describe renders the artifact for terminal reports.
func (details Details) Describe() string {
	switch details.Format {
	case FormatNpm:
		if len(details.Version) == 0 {
			return details.FileName
		}
		return fmt.Sprintf(npmDescriptionTemplateConstant, details.FileName, details.Version)
	case FormatYarnClassic:
		return fmt.Sprintf(yarnClassicDescriptionTemplateConstant, details.FileName, details.Version)
	case FormatYarnBerry:
		return fmt.Sprintf(yarnBerryDescriptionTemplateConstant, details.FileName, details.Version)
	default:
		return fmt.Sprintf(unrecognizedDescriptionTemplateConstant, details.FileName)
	}
}

type npmLockfileDocument struct {
	LockfileVersion json.Number `json:"lockfileVersion"`
}

type berryLockfileMetadata struct {
	Version string `yaml:"version"`
}

type berryLockfileDocument struct {
	Metadata berryLockfileMetadata `yaml:"__metadata"`
}

// FileReader abstracts the file access the inspector performs.
type FileReader interface {
	ReadFile(path string) ([]byte, error)
}

// Inspector examines lock artifacts present in project directories.
type Inspector struct {
	fileReader FileReader
}

// NewInspector constructs an Inspector backed by the provided file access.
func NewInspector(fileReader FileReader) *Inspector {
	return &Inspector{fileReader: fileReader}
}

// Inspect reports details for the first readable lock artifact in the supplied
// directory, probing yarn.lock before package-lock.json to mirror detection
// priority. The second return value reports whether any artifact was found.
func (inspector *Inspector) Inspect(projectDirectory string) (Details, bool) {
	if yarnContents, readError := inspector.fileReader.ReadFile(filepath.Join(projectDirectory, detect.YarnLockFileName)); readError == nil {
		return classifyYarnLockfile(yarnContents), true
	}
	if npmContents, readError := inspector.fileReader.ReadFile(filepath.Join(projectDirectory, detect.NpmLockFileName)); readError == nil {
		return classifyNpmLockfile(npmContents), true
	}
	return Details{}, false
}

func classifyYarnLockfile(contents []byte) Details {
	if strings.Contains(string(contents), yarnClassicHeaderConstant) {
		return Details{FileName: detect.YarnLockFileName, Format: FormatYarnClassic, Version: yarnClassicVersionConstant}
	}

	var berryDocument berryLockfileDocument
	if unmarshalError := yaml.Unmarshal(contents, &berryDocument); unmarshalError == nil && len(berryDocument.Metadata.Version) > 0 {
		return Details{FileName: detect.YarnLockFileName, Format: FormatYarnBerry, Version: berryDocument.Metadata.Version}
	}

	return Details{FileName: detect.YarnLockFileName, Format: FormatUnknown}
}

func classifyNpmLockfile(contents []byte) Details {
	var npmDocument npmLockfileDocument
	if unmarshalError := json.Unmarshal(contents, &npmDocument); unmarshalError != nil {
		return Details{FileName: detect.NpmLockFileName, Format: FormatNpm}
	}
	return Details{FileName: detect.NpmLockFileName, Format: FormatNpm, Version: npmDocument.LockfileVersion.String()}
}
