// Package workspace enumerates monorepo member directories declared by a root manifest.
package workspace

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/depdoctor/depdoctor/internal/manifest"
)

const wildcardSuffixConstant = "/*"

// Target pairs a member directory with the label used when reporting on it.
type Target struct {
	Directory string
	Label     string
}

// DirectoryLister exposes the filesystem operations member resolution performs.
type DirectoryLister interface {
	Stat(path string) (fs.FileInfo, error)
	ReadDir(path string) ([]fs.DirEntry, error)
}

// Resolver expands workspace declarations into member package directories.
type Resolver struct {
	directoryLister DirectoryLister
}

// NewResolver constructs a Resolver backed by the provided filesystem access.
func NewResolver(directoryLister DirectoryLister) *Resolver {
	return &Resolver{directoryLister: directoryLister}
}

// ResolveMembers expands each declared pattern, in declaration order, into the
// member directories beneath the root. A pattern contributes members by
// stripping one trailing "/*" and listing the immediate children of the
// resulting base directory; full glob semantics are never applied, so a
// pattern naming an exact package still enumerates that package's children
// rather than the package itself. Children qualify when they are directories
// holding their own package.json, and their labels are root-relative paths.
func (resolver *Resolver) ResolveMembers(rootDirectory string, workspacePatterns []string) []Target {
	var members []Target
	for _, workspacePattern := range workspacePatterns {
		baseRelativePath := strings.TrimSuffix(workspacePattern, wildcardSuffixConstant)
		baseDirectory := filepath.Join(rootDirectory, baseRelativePath)

		directoryEntries, readError := resolver.directoryLister.ReadDir(baseDirectory)
		if readError != nil {
			continue
		}

		for _, directoryEntry := range directoryEntries {
			if !directoryEntry.IsDir() {
				continue
			}
			memberDirectory := filepath.Join(baseDirectory, directoryEntry.Name())
			if !resolver.containsManifest(memberDirectory) {
				continue
			}
			members = append(members, Target{
				Directory: memberDirectory,
				Label:     filepath.Join(baseRelativePath, directoryEntry.Name()),
			})
		}
	}
	return members
}

func (resolver *Resolver) containsManifest(memberDirectory string) bool {
	_, statError := resolver.directoryLister.Stat(filepath.Join(memberDirectory, manifest.ManifestFileName))
	return statError == nil
}
