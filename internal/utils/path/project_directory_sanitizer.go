package pathutils

import (
	"path/filepath"
	"strings"
)

const currentDirectoryFallbackConstant = "."

// ProjectDirectorySanitizer normalizes project directory inputs consistently across commands.
type ProjectDirectorySanitizer struct {
	homeExpander *HomeExpander
}

// NewProjectDirectorySanitizer constructs a ProjectDirectorySanitizer with default behavior.
func NewProjectDirectorySanitizer() *ProjectDirectorySanitizer {
	return NewProjectDirectorySanitizerWithExpander(nil)
}

// NewProjectDirectorySanitizerWithExpander constructs a ProjectDirectorySanitizer using the provided expander.
func NewProjectDirectorySanitizerWithExpander(homeExpander *HomeExpander) *ProjectDirectorySanitizer {
	resolvedExpander := homeExpander
	if resolvedExpander == nil {
		resolvedExpander = NewHomeExpander()
	}

	return &ProjectDirectorySanitizer{homeExpander: resolvedExpander}
}

// Sanitize trims whitespace, expands the user's home directory, and cleans the resulting path.
// Empty input resolves to the current directory.
func (sanitizer *ProjectDirectorySanitizer) Sanitize(candidateDirectory string) string {
	resolvedExpander := sanitizer.resolveExpander()

	trimmedCandidate := strings.TrimSpace(candidateDirectory)
	if len(trimmedCandidate) == 0 {
		trimmedCandidate = currentDirectoryFallbackConstant
	}

	expandedPath := resolvedExpander.Expand(trimmedCandidate)
	return filepath.Clean(expandedPath)
}

func (sanitizer *ProjectDirectorySanitizer) resolveExpander() *HomeExpander {
	if sanitizer == nil || sanitizer.homeExpander == nil {
		return NewHomeExpander()
	}
	return sanitizer.homeExpander
}
