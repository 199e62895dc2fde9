package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
)

const (
	// ManifestFileName names the manifest file probed in every project directory.
	ManifestFileName = "package.json"

	manifestNotFoundTemplateConstant   = "no %s found in %s"
	manifestUnreadableTemplateConstant = "unable to read %s: %w"
	manifestParseTemplateConstant      = "unable to parse %s: %v"
)

// NotFoundError reports a directory without a package.json manifest.
type NotFoundError struct {
	Directory string
}

// Error describes the missing manifest.
func (notFound NotFoundError) Error() string {
	return fmt.Sprintf(manifestNotFoundTemplateConstant, ManifestFileName, notFound.Directory)
}

// ParseError reports a manifest that exists but does not contain valid JSON.
type ParseError struct {
	Path  string
	Cause error
}

// Error describes the malformed manifest.
func (parseFailure ParseError) Error() string {
	return fmt.Sprintf(manifestParseTemplateConstant, parseFailure.Path, parseFailure.Cause)
}

// Unwrap exposes the underlying decoding failure.
func (parseFailure ParseError) Unwrap() error {
	return parseFailure.Cause
}

// FileReader abstracts the file access the reader performs.
type FileReader interface {
	ReadFile(path string) ([]byte, error)
}

// Reader loads manifests from project directories.
type Reader struct {
	fileReader FileReader
}

// NewReader constructs a Reader backed by the provided file access.
func NewReader(fileReader FileReader) *Reader {
	return &Reader{fileReader: fileReader}
}

// Read loads and parses the manifest in the supplied project directory.
func (reader *Reader) Read(projectDirectory string) (Manifest, error) {
	manifestPath := filepath.Join(projectDirectory, ManifestFileName)

	manifestContents, readError := reader.fileReader.ReadFile(manifestPath)
	if readError != nil {
		if errors.Is(readError, fs.ErrNotExist) {
			return Manifest{}, NotFoundError{Directory: projectDirectory}
		}
		return Manifest{}, fmt.Errorf(manifestUnreadableTemplateConstant, manifestPath, readError)
	}

	var parsedManifest Manifest
	if unmarshalError := json.Unmarshal(manifestContents, &parsedManifest); unmarshalError != nil {
		return Manifest{}, ParseError{Path: manifestPath, Cause: unmarshalError}
	}

	return parsedManifest, nil
}
