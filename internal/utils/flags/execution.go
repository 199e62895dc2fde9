// Package flags centralizes the command line options the depdoctor
// subcommands share. Binding --dir, --dry-run, --json, and --production
// through these helpers keeps their names, help text, and yes/no toggle
// behavior identical across commands.
package flags

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// ExecutionDefaults seeds the toggle values before flag parsing runs.
type ExecutionDefaults struct {
	DryRun         bool
	JSONOutput     bool
	ProductionOnly bool
}

// ExecutionFlagDefinition names one toggle and controls whether a command
// registers it.
type ExecutionFlagDefinition struct {
	Name      string
	Usage     string
	Shorthand string
	Enabled   bool
}

// ExecutionFlagDefinitions lists the toggles a command wants bound.
type ExecutionFlagDefinitions struct {
	DryRun         ExecutionFlagDefinition
	JSONOutput     ExecutionFlagDefinition
	ProductionOnly ExecutionFlagDefinition
}

// ExecutionFlagValues receives the parsed toggle states.
type ExecutionFlagValues struct {
	DryRun         bool
	JSONOutput     bool
	ProductionOnly bool
}

// BindExecutionFlags registers the enabled toggles on the command and returns
// the holder their parsed states land in.
func BindExecutionFlags(command *cobra.Command, defaults ExecutionDefaults, definitions ExecutionFlagDefinitions) *ExecutionFlagValues {
	values := ExecutionFlagValues(defaults)
	if command == nil {
		return &values
	}

	commandFlagSet := command.Flags()
	bindToggleFlag(commandFlagSet, definitions.DryRun, &values.DryRun, defaults.DryRun)
	bindToggleFlag(commandFlagSet, definitions.JSONOutput, &values.JSONOutput, defaults.JSONOutput)
	bindToggleFlag(commandFlagSet, definitions.ProductionOnly, &values.ProductionOnly, defaults.ProductionOnly)
	return &values
}

func bindToggleFlag(flagSet *pflag.FlagSet, definition ExecutionFlagDefinition, target *bool, defaultValue bool) {
	if flagSet == nil || !definition.Enabled || len(definition.Name) == 0 {
		return
	}
	AddToggleFlag(flagSet, target, definition.Name, definition.Shorthand, defaultValue, definition.Usage)
}
