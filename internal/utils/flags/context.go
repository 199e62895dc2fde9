package flags

import "github.com/spf13/cobra"

const (
	// DefaultDirectoryFlagName is the long name of the shared project directory flag.
	DefaultDirectoryFlagName = "dir"
	// DefaultDirectoryFlagUsage is the help text shown for the project directory flag.
	DefaultDirectoryFlagUsage = "Project directory containing package.json"
	// JSONOutputFlagName is the long name of the machine-readable output toggle.
	JSONOutputFlagName = "json"
	// JSONOutputFlagUsage is the help text shown for the machine-readable output toggle.
	JSONOutputFlagUsage = "Emit machine-readable JSON instead of the rendered report"
	// DryRunFlagName is the long name of the preview toggle.
	DryRunFlagName = "dry-run"
	// DryRunFlagUsage is the help text shown for the preview toggle.
	DryRunFlagUsage = "Preview dependency changes without rewriting package.json"
	// ProductionOnlyFlagName is the long name of the production scope toggle.
	ProductionOnlyFlagName = "production"
	// ProductionOnlyFlagUsage is the help text shown for the production scope toggle.
	ProductionOnlyFlagUsage = "Restrict the operation to production dependencies"
)

// DirectoryFlagDefinition controls whether and how a command registers the
// project directory flag. Empty Name and Usage fall back to the shared
// defaults above.
type DirectoryFlagDefinition struct {
	Name       string
	Usage      string
	Enabled    bool
	Persistent bool
}

// DirectoryFlagValues receives the parsed project directory.
type DirectoryFlagValues struct {
	Directory string
}

// BindDirectoryFlag registers the project directory flag described by the
// definition and returns the holder its value lands in. Persistent
// registrations are mirrored onto the local flag set so lookups through
// Flags() resolve them too.
func BindDirectoryFlag(command *cobra.Command, defaults DirectoryFlagValues, definition DirectoryFlagDefinition) *DirectoryFlagValues {
	values := DirectoryFlagValues{Directory: defaults.Directory}
	if command == nil || !definition.Enabled {
		return &values
	}

	flagName, flagUsage := definition.Name, definition.Usage
	if len(flagName) == 0 {
		flagName = DefaultDirectoryFlagName
	}
	if len(flagUsage) == 0 {
		flagUsage = DefaultDirectoryFlagUsage
	}

	registrationSet := command.Flags()
	if definition.Persistent {
		registrationSet = command.PersistentFlags()
	}
	if registrationSet.Lookup(flagName) == nil {
		registrationSet.StringVar(&values.Directory, flagName, values.Directory, flagUsage)
	}

	if definition.Persistent && command.Flags().Lookup(flagName) == nil {
		if registeredFlag := registrationSet.Lookup(flagName); registeredFlag != nil {
			command.Flags().AddFlag(registeredFlag)
		}
	}
	return &values
}
