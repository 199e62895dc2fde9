package checker

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/depdoctor/depdoctor/internal/dependencies"
	"github.com/depdoctor/depdoctor/internal/utils"
	flagutils "github.com/depdoctor/depdoctor/internal/utils/flags"
	pathutils "github.com/depdoctor/depdoctor/internal/utils/path"
)

const (
	checkCommandUseConstant              = "check"
	checkCommandShortDescriptionConstant = "List dependencies with newer published versions"
	checkCommandLongDescriptionConstant  = "check runs npm outdated in the project directory and classifies every available upgrade as a major, minor, or patch change."
	defaultProjectDirectoryConstant      = "."
)

var checkerProjectDirectorySanitizer = pathutils.NewProjectDirectorySanitizer()

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CheckCommandBuilder assembles the check cobra command with configurable dependencies.
type CheckCommandBuilder struct {
	LoggerProvider               LoggerProvider
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CheckConfiguration
	CommandExecutor              dependencies.CommandExecutor
	ManifestReader               ManifestReader
	OutdatedLister               OutdatedLister

	directoryFlagValues *flagutils.DirectoryFlagValues
	executionFlagValues *flagutils.ExecutionFlagValues
}

// Build constructs the cobra command for dependency version checks.
func (builder *CheckCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   checkCommandUseConstant,
		Short: checkCommandShortDescriptionConstant,
		Long:  checkCommandLongDescriptionConstant,
		RunE:  builder.run,
	}

	builder.directoryFlagValues = flagutils.BindDirectoryFlag(command,
		flagutils.DirectoryFlagValues{Directory: defaultProjectDirectoryConstant},
		flagutils.DirectoryFlagDefinition{Enabled: true},
	)
	builder.executionFlagValues = flagutils.BindExecutionFlags(command,
		flagutils.ExecutionDefaults{},
		flagutils.ExecutionFlagDefinitions{
			JSONOutput: flagutils.ExecutionFlagDefinition{Name: flagutils.JSONOutputFlagName, Usage: flagutils.JSONOutputFlagUsage, Enabled: true},
		},
	)

	return command, nil
}

func (builder *CheckCommandBuilder) run(command *cobra.Command, arguments []string) error {
	options := builder.parseOptions(command)

	logger := resolveProvidedLogger(builder.LoggerProvider)
	humanReadableLogging := false
	if builder.HumanReadableLoggingProvider != nil {
		humanReadableLogging = builder.HumanReadableLoggingProvider()
	}

	commandExecutor, executorError := dependencies.ResolveCommandExecutor(builder.CommandExecutor, logger, humanReadableLogging)
	if executorError != nil {
		return executorError
	}

	outdatedLister, listerError := dependencies.ResolveOutdatedLister(builder.OutdatedLister, commandExecutor)
	if listerError != nil {
		return listerError
	}

	manifestReader := dependencies.ResolveManifestReader(builder.ManifestReader)
	renderer := dependencies.ResolveConsoleRenderer(command.OutOrStdout())

	service := NewCheckService(logger, manifestReader, outdatedLister, renderer, utils.NewFlushingWriter(command.OutOrStdout()))
	return service.Run(command.Context(), options)
}

func (builder *CheckCommandBuilder) parseOptions(command *cobra.Command) CheckOptions {
	configuration := builder.resolveConfiguration()

	projectDirectory := configuration.Directory
	if builder.directoryFlagValues != nil && flagChanged(command, flagutils.DefaultDirectoryFlagName) {
		projectDirectory = builder.directoryFlagValues.Directory
	}
	projectDirectory = checkerProjectDirectorySanitizer.Sanitize(projectDirectory)

	jsonOutput := configuration.JSON
	if builder.executionFlagValues != nil && flagChanged(command, flagutils.JSONOutputFlagName) {
		jsonOutput = builder.executionFlagValues.JSONOutput
	}

	return CheckOptions{ProjectDirectory: projectDirectory, JSONOutput: jsonOutput}
}

func (builder *CheckCommandBuilder) resolveConfiguration() CheckConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCheckConfiguration()
	}
	return builder.ConfigurationProvider().sanitize()
}

func resolveProvidedLogger(provider LoggerProvider) *zap.Logger {
	if provider == nil {
		return zap.NewNop()
	}
	logger := provider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func flagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}
	return command.Flags().Changed(flagName)
}
