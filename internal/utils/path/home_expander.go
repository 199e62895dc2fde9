package pathutils

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const tildePrefixConstant = "~"

// homeShortcutPrefixes lists the prefixes that mark a path as home-relative.
// The platform separator variant only differs from the slash form on Windows.
var homeShortcutPrefixes = []string{
	tildePrefixConstant + "/",
	tildePrefixConstant + string(os.PathSeparator),
}

// HomeDirectoryProvider resolves the current user's home directory path.
type HomeDirectoryProvider func() (string, error)

// HomeExpander rewrites tilde shortcuts into the user's home directory. The
// home lookup runs once and is reused for every subsequent expansion.
type HomeExpander struct {
	lookupHome HomeDirectoryProvider
	lookupOnce sync.Once
	homePath   string
	homeError  error
}

// NewHomeExpander constructs a HomeExpander backed by os.UserHomeDir.
func NewHomeExpander() *HomeExpander {
	return NewHomeExpanderWithProvider(os.UserHomeDir)
}

// NewHomeExpanderWithProvider constructs a HomeExpander with a custom home
// directory lookup. A nil provider falls back to os.UserHomeDir.
func NewHomeExpanderWithProvider(provider HomeDirectoryProvider) *HomeExpander {
	if provider == nil {
		provider = os.UserHomeDir
	}
	return &HomeExpander{lookupHome: provider}
}

// Expand replaces a leading tilde shortcut with the user's home directory.
// Paths without the shortcut, and paths whose home lookup fails, come back
// unchanged.
func (expander *HomeExpander) Expand(candidatePath string) string {
	if expander == nil || len(candidatePath) == 0 || !strings.HasPrefix(candidatePath, tildePrefixConstant) {
		return candidatePath
	}

	homeDirectory := expander.cachedHomeDirectory()
	if len(homeDirectory) == 0 {
		return candidatePath
	}

	if candidatePath == tildePrefixConstant {
		return homeDirectory
	}

	for _, shortcutPrefix := range homeShortcutPrefixes {
		if strings.HasPrefix(candidatePath, shortcutPrefix) {
			return filepath.Join(homeDirectory, strings.TrimPrefix(candidatePath, shortcutPrefix))
		}
	}

	return candidatePath
}

func (expander *HomeExpander) cachedHomeDirectory() string {
	expander.lookupOnce.Do(func() {
		expander.homePath, expander.homeError = expander.lookupHome()
	})
	if expander.homeError != nil {
		return ""
	}
	return expander.homePath
}
