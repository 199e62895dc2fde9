package checker

import (
	"github.com/spf13/cobra"

	"github.com/depdoctor/depdoctor/internal/dependencies"
	flagutils "github.com/depdoctor/depdoctor/internal/utils/flags"
)

const (
	updateCommandUseConstant              = "update"
	updateCommandShortDescriptionConstant = "Upgrade dependency ranges in package.json"
	updateCommandLongDescriptionConstant  = "update rewrites the dependency ranges in package.json to the latest published versions using npm-check-updates, then prints the resulting manifest changes."
)

// UpdateCommandBuilder assembles the update cobra command with configurable dependencies.
type UpdateCommandBuilder struct {
	LoggerProvider               LoggerProvider
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() UpdateConfiguration
	CommandExecutor              dependencies.CommandExecutor
	ManifestReader               ManifestReader
	FileReader                   FileReader
	VersionChecker               VersionCheckerRunner

	directoryFlagValues *flagutils.DirectoryFlagValues
	executionFlagValues *flagutils.ExecutionFlagValues
}

// Build constructs the cobra command for dependency range upgrades.
func (builder *UpdateCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   updateCommandUseConstant,
		Short: updateCommandShortDescriptionConstant,
		Long:  updateCommandLongDescriptionConstant,
		RunE:  builder.run,
	}

	builder.directoryFlagValues = flagutils.BindDirectoryFlag(command,
		flagutils.DirectoryFlagValues{Directory: defaultProjectDirectoryConstant},
		flagutils.DirectoryFlagDefinition{Enabled: true},
	)
	builder.executionFlagValues = flagutils.BindExecutionFlags(command,
		flagutils.ExecutionDefaults{},
		flagutils.ExecutionFlagDefinitions{
			DryRun: flagutils.ExecutionFlagDefinition{Name: flagutils.DryRunFlagName, Usage: flagutils.DryRunFlagUsage, Enabled: true},
		},
	)

	return command, nil
}

func (builder *UpdateCommandBuilder) run(command *cobra.Command, arguments []string) error {
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

	versionChecker := dependencies.ResolveVersionChecker(builder.VersionChecker, commandExecutor)
	manifestReader := dependencies.ResolveManifestReader(builder.ManifestReader)
	fileReader := dependencies.ResolveFileReader(builder.FileReader)
	renderer := dependencies.ResolveConsoleRenderer(command.OutOrStdout())

	service := NewUpdateService(logger, manifestReader, fileReader, versionChecker, renderer)
	return service.Run(command.Context(), options)
}

func (builder *UpdateCommandBuilder) parseOptions(command *cobra.Command) UpdateOptions {
	configuration := builder.resolveConfiguration()

	projectDirectory := configuration.Directory
	if builder.directoryFlagValues != nil && flagChanged(command, flagutils.DefaultDirectoryFlagName) {
		projectDirectory = builder.directoryFlagValues.Directory
	}
	projectDirectory = checkerProjectDirectorySanitizer.Sanitize(projectDirectory)

	dryRun := configuration.DryRun
	if builder.executionFlagValues != nil && flagChanged(command, flagutils.DryRunFlagName) {
		dryRun = builder.executionFlagValues.DryRun
	}

	return UpdateOptions{ProjectDirectory: projectDirectory, DryRun: dryRun}
}

func (builder *UpdateCommandBuilder) resolveConfiguration() UpdateConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultUpdateConfiguration()
	}
	return builder.ConfigurationProvider().sanitize()
}
