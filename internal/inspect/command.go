package inspect

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/depdoctor/depdoctor/internal/dependencies"
	flagutils "github.com/depdoctor/depdoctor/internal/utils/flags"
	pathutils "github.com/depdoctor/depdoctor/internal/utils/path"
)

const (
	commandUseConstant              = "info"
	commandShortDescriptionConstant = "Show project and package manager details"
	commandLongDescriptionConstant  = "info reports the manifest summary, the detected package manager, resolved workspace members, and the lock artifact present in the project directory."
	defaultProjectDirectoryConstant = "."
)

var inspectProjectDirectorySanitizer = pathutils.NewProjectDirectorySanitizer()

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the info cobra command with configurable dependencies.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CommandConfiguration
	CommandExecutor              dependencies.CommandExecutor
	ManifestReader               ManifestReader
	Detector                     ManagerDetector
	MemberResolver               MemberResolver
	LockfileInspector            LockfileInspector

	directoryFlagValues *flagutils.DirectoryFlagValues
}

// Build constructs the cobra command for project inspection.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	builder.directoryFlagValues = flagutils.BindDirectoryFlag(command,
		flagutils.DirectoryFlagValues{Directory: defaultProjectDirectoryConstant},
		flagutils.DirectoryFlagDefinition{Enabled: true},
	)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	options := builder.parseOptions(command)

	logger := builder.resolveLogger()
	humanReadableLogging := false
	if builder.HumanReadableLoggingProvider != nil {
		humanReadableLogging = builder.HumanReadableLoggingProvider()
	}

	commandExecutor, executorError := dependencies.ResolveCommandExecutor(builder.CommandExecutor, logger, humanReadableLogging)
	if executorError != nil {
		return executorError
	}

	manifestReader := dependencies.ResolveManifestReader(builder.ManifestReader)
	managerDetector := dependencies.ResolveManagerDetector(builder.Detector, commandExecutor)
	memberResolver := dependencies.ResolveMemberResolver(builder.MemberResolver)
	lockfileInspector := dependencies.ResolveLockfileInspector(builder.LockfileInspector)
	renderer := dependencies.ResolveConsoleRenderer(command.OutOrStdout())

	service := NewService(logger, manifestReader, managerDetector, memberResolver, lockfileInspector, renderer)
	return service.Run(command.Context(), options)
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command) Options {
	configuration := builder.resolveConfiguration()

	projectDirectory := configuration.Directory
	if builder.directoryFlagValues != nil && command != nil && command.Flags().Changed(flagutils.DefaultDirectoryFlagName) {
		projectDirectory = builder.directoryFlagValues.Directory
	}

	return Options{ProjectDirectory: inspectProjectDirectorySanitizer.Sanitize(projectDirectory)}
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().sanitize()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
