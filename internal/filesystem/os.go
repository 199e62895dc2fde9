// Package filesystem provides the operating system implementation of the
// narrow file access interfaces declared by consuming packages.
package filesystem

import (
	"io/fs"
	"os"
	"path/filepath"
)

// OSFileSystem delegates file access to the operating system. The manifest
// reader, lockfile inspector, package manager detector, and workspace
// resolver all accept it through their own consumer-side interfaces.
type OSFileSystem struct{}

// ReadFile returns the contents of the file at filePath.
func (OSFileSystem) ReadFile(filePath string) ([]byte, error) {
	return os.ReadFile(filePath)
}

// ReadDir lists the entries of directoryPath sorted by name.
func (OSFileSystem) ReadDir(directoryPath string) ([]fs.DirEntry, error) {
	return os.ReadDir(directoryPath)
}

// Stat reports metadata for the file or directory at targetPath.
func (OSFileSystem) Stat(targetPath string) (fs.FileInfo, error) {
	return os.Stat(targetPath)
}

// Abs anchors relativePath at the current working directory.
func (OSFileSystem) Abs(relativePath string) (string, error) {
	return filepath.Abs(relativePath)
}
