// Package manifest reads package.json files and exposes the fields the commands rely on.
package manifest

import (
	"bytes"
	"encoding/json"
)

var jsonNullLiteral = []byte("null")

// Manifest represents the subset of package.json fields consumed by depdoctor.
type Manifest struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	PackageManager  string            `json:"packageManager"`
	Private         bool              `json:"private"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
	Workspaces      WorkspacesField   `json:"workspaces"`
}

// WorkspacesField models the workspaces declaration, which appears either as a
// pattern array or as an object carrying a packages array. Any other shape is
// treated as if the field were absent.
type WorkspacesField struct {
	Declared bool
	Patterns []string
}

type workspacesObjectForm struct {
	Packages []string `json:"packages"`
}

// UnmarshalJSON accepts both declaration shapes and silently ignores unrecognized ones.
func (field *WorkspacesField) UnmarshalJSON(data []byte) error {
	field.Declared = false
	field.Patterns = nil

	trimmedData := bytes.TrimSpace(data)
	if bytes.Equal(trimmedData, jsonNullLiteral) {
		return nil
	}

	var patternList []string
	if unmarshalError := json.Unmarshal(trimmedData, &patternList); unmarshalError == nil {
		field.Declared = true
		field.Patterns = patternList
		return nil
	}

	var objectForm workspacesObjectForm
	if unmarshalError := json.Unmarshal(trimmedData, &objectForm); unmarshalError == nil && objectForm.Packages != nil {
		field.Declared = true
		field.Patterns = objectForm.Packages
		return nil
	}

	return nil
}

// WorkspaceInfo summarizes the workspace declaration for downstream resolution.
type WorkspaceInfo struct {
	HasWorkspaces bool
	Patterns      []string
}

// WorkspaceInfo derives the workspace summary from the parsed manifest.
func (parsedManifest Manifest) WorkspaceInfo() WorkspaceInfo {
	if !parsedManifest.Workspaces.Declared {
		return WorkspaceInfo{}
	}

	duplicatedPatterns := make([]string, len(parsedManifest.Workspaces.Patterns))
	copy(duplicatedPatterns, parsedManifest.Workspaces.Patterns)

	return WorkspaceInfo{HasWorkspaces: true, Patterns: duplicatedPatterns}
}
