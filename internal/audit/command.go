package audit

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/depdoctor/depdoctor/internal/dependencies"
	flagutils "github.com/depdoctor/depdoctor/internal/utils/flags"
	pathutils "github.com/depdoctor/depdoctor/internal/utils/path"
)

const (
	commandUseConstant              = "security"
	commandShortDescriptionConstant = "Audit dependencies for known vulnerabilities"
	commandLongDescriptionConstant  = "security detects the package manager, audits the root project, and audits every workspace member, falling back from yarn to npm when yarn audit fails."
	severityFlagNameConstant        = "severity"
	severityFlagUsageConstant       = "lowest severity included in the findings list"
	defaultProjectDirectoryConstant = "."
)

var auditProjectDirectorySanitizer = pathutils.NewProjectDirectorySanitizer()

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the security cobra command with configurable dependencies.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CommandConfiguration
	CommandExecutor              dependencies.CommandExecutor
	ManifestReader               ManifestReader
	Detector                     ManagerDetector
	MemberResolver               MemberResolver
	NpmAuditor                   NpmAuditor
	YarnAuditor                  YarnAuditor

	directoryFlagValues *flagutils.DirectoryFlagValues
	executionFlagValues *flagutils.ExecutionFlagValues
	severityFlagValue   string
}

// Build constructs the cobra command for dependency security audits.
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
	builder.executionFlagValues = flagutils.BindExecutionFlags(command,
		flagutils.ExecutionDefaults{},
		flagutils.ExecutionFlagDefinitions{
			JSONOutput:     flagutils.ExecutionFlagDefinition{Name: flagutils.JSONOutputFlagName, Usage: flagutils.JSONOutputFlagUsage, Enabled: true},
			ProductionOnly: flagutils.ExecutionFlagDefinition{Name: flagutils.ProductionOnlyFlagName, Usage: flagutils.ProductionOnlyFlagUsage, Enabled: true},
		},
	)

	severityUsage := flagutils.FormatChoiceUsage("", SeverityChoices, severityFlagUsageConstant)
	command.Flags().StringVar(&builder.severityFlagValue, severityFlagNameConstant, "", severityUsage)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	options, optionsError := builder.parseOptions(command)
	if optionsError != nil {
		return optionsError
	}

	logger := builder.resolveLogger()
	humanReadableLogging := false
	if builder.HumanReadableLoggingProvider != nil {
		humanReadableLogging = builder.HumanReadableLoggingProvider()
	}

	commandExecutor, executorError := dependencies.ResolveCommandExecutor(builder.CommandExecutor, logger, humanReadableLogging)
	if executorError != nil {
		return executorError
	}

	npmAuditor, npmError := dependencies.ResolveNpmAuditor(builder.NpmAuditor, commandExecutor)
	if npmError != nil {
		return npmError
	}

	yarnAuditor, yarnError := dependencies.ResolveYarnAuditor(builder.YarnAuditor, commandExecutor)
	if yarnError != nil {
		return yarnError
	}

	manifestReader := dependencies.ResolveManifestReader(builder.ManifestReader)
	managerDetector := dependencies.ResolveManagerDetector(builder.Detector, commandExecutor)
	memberResolver := dependencies.ResolveMemberResolver(builder.MemberResolver)
	renderer := dependencies.ResolveConsoleRenderer(command.OutOrStdout())

	service := NewService(logger, manifestReader, managerDetector, memberResolver, npmAuditor, yarnAuditor, renderer, command.OutOrStdout(), nil)
	return service.Run(command.Context(), options)
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command) (CommandOptions, error) {
	configuration := builder.resolveConfiguration()

	projectDirectory := configuration.Directory
	if builder.directoryFlagValues != nil && flagChanged(command, flagutils.DefaultDirectoryFlagName) {
		projectDirectory = builder.directoryFlagValues.Directory
	}
	projectDirectory = auditProjectDirectorySanitizer.Sanitize(projectDirectory)

	severityValue := configuration.Severity
	if flagChanged(command, severityFlagNameConstant) {
		severityValue = builder.severityFlagValue
	}
	severityFloor, severityError := NormalizeSeverityFloor(severityValue)
	if severityError != nil {
		return CommandOptions{}, severityError
	}

	jsonOutput := configuration.JSON
	productionOnly := configuration.ProductionOnly
	if builder.executionFlagValues != nil {
		if flagChanged(command, flagutils.JSONOutputFlagName) {
			jsonOutput = builder.executionFlagValues.JSONOutput
		}
		if flagChanged(command, flagutils.ProductionOnlyFlagName) {
			productionOnly = builder.executionFlagValues.ProductionOnly
		}
	}

	return CommandOptions{
		ProjectDirectory: projectDirectory,
		SeverityFloor:    severityFloor,
		JSONOutput:       jsonOutput,
		ProductionOnly:   productionOnly,
	}, nil
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

func flagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}
	return command.Flags().Changed(flagName)
}
