package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/depdoctor/depdoctor/internal/audit"
	"github.com/depdoctor/depdoctor/internal/checker"
	"github.com/depdoctor/depdoctor/internal/inspect"
	"github.com/depdoctor/depdoctor/internal/utils"
	flagutils "github.com/depdoctor/depdoctor/internal/utils/flags"
)

const (
	applicationNameConstant                = "depdoctor"
	rootShortDescriptionConstant           = "Command-line interface for JavaScript dependency maintenance"
	rootLongDescriptionConstant            = "depdoctor detects whether a project uses npm or yarn and keeps its dependencies inspected, upgraded, and audited."
	configFileFlagNameConstant             = "config"
	configFileFlagUsageConstant            = "Optional path to a configuration file (YAML or JSON)."
	logLevelFlagNameConstant               = "log-level"
	logLevelFlagUsageConstant              = "Override the configured log level."
	logFormatFlagNameConstant              = "log-format"
	logFormatFlagUsageConstant             = "Override the configured log format (structured or console)."
	environmentVariablePrefixConstant      = "DEPDOCTOR"
	configurationBaseNameConstant          = "config"
	configurationFileTypeConstant          = "yaml"
	workingDirectorySearchPathConstant     = "."
	commonLogLevelKeyConstant              = "common.log_level"
	commonLogFormatKeyConstant             = "common.log_format"
	commonLogFileKeyConstant               = "common.log_file"
	securitySectionKeyConstant             = "tools.security"
	checkSectionKeyConstant                = "tools.check"
	updateSectionKeyConstant               = "tools.update"
	infoSectionKeyConstant                 = "tools.info"
	configurationLoadedMessageConstant     = "configuration initialized"
	rootInvocationMessageConstant          = "depdoctor invoked"
	rootArgumentsMessageConstant           = "root command arguments"
	commandLogFieldConstant                = "command"
	argumentCountLogFieldConstant          = "argument_count"
	argumentsLogFieldConstant              = "arguments"
	logLevelLogFieldConstant               = "log_level"
	logFormatLogFieldConstant              = "log_format"
	logFileLogFieldConstant                = "log_file"
	configFileLogFieldConstant             = "config_file"
	loadConfigurationErrorTemplateConstant = "unable to load configuration: %w"
	createLoggerErrorTemplateConstant      = "unable to create logger: %w"
	flushLoggerErrorTemplateConstant       = "unable to flush logger: %w"
	loggerMissingMessageConstant           = "logger not initialized"
)

// ApplicationConfiguration is the root of the configuration tree the CLI
// loads from embedded defaults, configuration files, and environment variables.
type ApplicationConfiguration struct {
	Common ApplicationCommonConfiguration `mapstructure:"common"`
	Tools  ApplicationToolsConfiguration  `mapstructure:"tools"`
}

// ApplicationCommonConfiguration holds the logging settings every subcommand shares.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
	LogFile   string `mapstructure:"log_file"`
}

// ApplicationToolsConfiguration groups the per-subcommand settings under the tools key.
type ApplicationToolsConfiguration struct {
	Security audit.CommandConfiguration   `mapstructure:"security"`
	Check    checker.CheckConfiguration   `mapstructure:"check"`
	Update   checker.UpdateConfiguration  `mapstructure:"update"`
	Info     inspect.CommandConfiguration `mapstructure:"info"`
}

// Application wires the cobra root command to the configuration loader and
// the shared zap logger.
type Application struct {
	rootCommand            *cobra.Command
	configurationLoader    *utils.ConfigurationLoader
	loggerFactory          *utils.LoggerFactory
	logger                 *zap.Logger
	commandContextAccessor utils.CommandContextAccessor

	configuration         ApplicationConfiguration
	configurationMetadata utils.LoadedConfiguration
	configurationFilePath string
	logLevelOverride      string
	logFormatOverride     string
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	application := &Application{
		loggerFactory:          utils.NewLoggerFactory(),
		logger:                 zap.NewNop(),
		commandContextAccessor: utils.NewCommandContextAccessor(),
	}

	application.configurationLoader = utils.NewConfigurationLoader(
		configurationBaseNameConstant,
		configurationFileTypeConstant,
		environmentVariablePrefixConstant,
		[]string{workingDirectorySearchPathConstant},
	)
	application.configurationLoader.SetEmbeddedConfiguration(EmbeddedDefaultConfiguration())

	rootCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         rootShortDescriptionConstant,
		Long:          rootLongDescriptionConstant,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runRootCommand(command, arguments)
		},
	}
	rootCommand.SetContext(context.Background())

	persistentFlags := rootCommand.PersistentFlags()
	persistentFlags.StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	persistentFlags.StringVar(&application.logLevelOverride, logLevelFlagNameConstant, "", logLevelFlagUsageConstant)
	persistentFlags.StringVar(&application.logFormatOverride, logFormatFlagNameConstant, "", logFormatFlagUsageConstant)

	application.registerFeatureCommands(rootCommand)
	application.rootCommand = rootCommand
	return application
}

// registerFeatureCommands attaches the security, check, update, and info
// subcommands. Builders receive the logger and configuration through closures
// because both are replaced after flag parsing, inside initializeConfiguration.
func (application *Application) registerFeatureCommands(rootCommand *cobra.Command) {
	loggerProvider := func() *zap.Logger {
		return application.logger
	}

	securityBuilder := audit.CommandBuilder{
		LoggerProvider:               loggerProvider,
		HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
		ConfigurationProvider: func() audit.CommandConfiguration {
			return application.configuration.Tools.Security
		},
	}
	if securityCommand, securityBuildError := securityBuilder.Build(); securityBuildError == nil {
		rootCommand.AddCommand(securityCommand)
	}

	checkBuilder := checker.CheckCommandBuilder{
		LoggerProvider:               loggerProvider,
		HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
		ConfigurationProvider: func() checker.CheckConfiguration {
			return application.configuration.Tools.Check
		},
	}
	if checkCommand, checkBuildError := checkBuilder.Build(); checkBuildError == nil {
		rootCommand.AddCommand(checkCommand)
	}

	updateBuilder := checker.UpdateCommandBuilder{
		LoggerProvider:               loggerProvider,
		HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
		ConfigurationProvider: func() checker.UpdateConfiguration {
			return application.configuration.Tools.Update
		},
	}
	if updateCommand, updateBuildError := updateBuilder.Build(); updateBuildError == nil {
		rootCommand.AddCommand(updateCommand)
	}

	infoBuilder := inspect.CommandBuilder{
		LoggerProvider:               loggerProvider,
		HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
		ConfigurationProvider: func() inspect.CommandConfiguration {
			return application.configuration.Tools.Info
		},
	}
	if infoCommand, infoBuildError := infoBuilder.Build(); infoBuildError == nil {
		rootCommand.AddCommand(infoCommand)
	}
}

// Execute parses os.Args, runs the command hierarchy, and flushes the logger
// before reporting the execution outcome.
func (application *Application) Execute() error {
	application.rootCommand.SetArgs(flagutils.NormalizeToggleArguments(os.Args[1:]))
	executionError := application.rootCommand.Execute()
	if flushError := application.flushLogger(); flushError != nil {
		return fmt.Errorf(flushLoggerErrorTemplateConstant, flushError)
	}
	return executionError
}

// Execute builds a fresh application instance and executes the root command hierarchy.
func Execute() error {
	return NewApplication().Execute()
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(
		application.configurationFilePath,
		defaultConfigurationValues(),
		&application.configuration,
	)
	if loadError != nil {
		return fmt.Errorf(loadConfigurationErrorTemplateConstant, loadError)
	}
	application.configurationMetadata = loadedConfiguration

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelOverride
	}
	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatOverride
	}

	builtLogger, loggerError := application.loggerFactory.CreateLoggerWithRotatingFile(
		utils.LogLevel(application.configuration.Common.LogLevel),
		utils.LogFormat(application.configuration.Common.LogFormat),
		strings.TrimSpace(application.configuration.Common.LogFile),
	)
	if loggerError != nil {
		return fmt.Errorf(createLoggerErrorTemplateConstant, loggerError)
	}
	application.logger = builtLogger

	application.logger.Info(
		configurationLoadedMessageConstant,
		zap.String(logLevelLogFieldConstant, application.configuration.Common.LogLevel),
		zap.String(logFormatLogFieldConstant, application.configuration.Common.LogFormat),
		zap.String(logFileLogFieldConstant, application.configuration.Common.LogFile),
		zap.String(configFileLogFieldConstant, application.configurationMetadata.ConfigFileUsed),
	)

	application.stashConfigurationFilePath(command)
	return nil
}

// defaultConfigurationValues merges the logging defaults with every
// subcommand's contribution so viper always has a complete baseline.
func defaultConfigurationValues() map[string]any {
	mergedDefaults := map[string]any{
		commonLogLevelKeyConstant:  string(utils.LogLevelInfo),
		commonLogFormatKeyConstant: string(utils.LogFormatStructured),
		commonLogFileKeyConstant:   "",
	}
	contributions := []map[string]any{
		audit.DefaultConfigurationValues(securitySectionKeyConstant),
		checker.CheckDefaultConfigurationValues(checkSectionKeyConstant),
		checker.UpdateDefaultConfigurationValues(updateSectionKeyConstant),
		inspect.DefaultConfigurationValues(infoSectionKeyConstant),
	}
	for _, contribution := range contributions {
		for configurationKey, configurationValue := range contribution {
			mergedDefaults[configurationKey] = configurationValue
		}
	}
	return mergedDefaults
}

// stashConfigurationFilePath records the configuration file actually used in
// the command context so subcommands can report it.
func (application *Application) stashConfigurationFilePath(command *cobra.Command) {
	if command == nil {
		return
	}
	updatedContext := application.commandContextAccessor.WithConfigurationFilePath(
		command.Context(),
		application.configurationMetadata.ConfigFileUsed,
	)
	command.SetContext(updatedContext)
	if rootCommand := command.Root(); rootCommand != nil {
		rootCommand.SetContext(updatedContext)
	}
}

// humanReadableLoggingEnabled reports whether console formatting was selected,
// which switches subcommand output from log lines to styled terminal text.
func (application *Application) humanReadableLoggingEnabled() bool {
	return strings.EqualFold(strings.TrimSpace(application.configuration.Common.LogFormat), string(utils.LogFormatConsole))
}

func (application *Application) runRootCommand(command *cobra.Command, arguments []string) error {
	if application.logger == nil {
		return errors.New(loggerMissingMessageConstant)
	}

	application.logger.Info(
		rootInvocationMessageConstant,
		zap.String(commandLogFieldConstant, command.Name()),
		zap.Int(argumentCountLogFieldConstant, len(arguments)),
	)
	application.logger.Debug(rootArgumentsMessageConstant, zap.Strings(argumentsLogFieldConstant, arguments))

	if len(arguments) == 0 {
		return command.Help()
	}
	return nil
}

// flushLogger syncs the active logger, tolerating the errors stderr reports
// when it is a terminal or pipe.
func (application *Application) flushLogger() error {
	if application.logger == nil {
		return nil
	}
	syncError := application.logger.Sync()
	if syncError == nil || errors.Is(syncError, syscall.ENOTSUP) || errors.Is(syncError, syscall.EINVAL) {
		return nil
	}
	return syncError
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	inspectedFlagSets := []*pflag.FlagSet{command.PersistentFlags(), command.InheritedFlags()}
	if rootCommand := command.Root(); rootCommand != nil {
		inspectedFlagSets = append(inspectedFlagSets, rootCommand.PersistentFlags())
	}

	for _, flagSet := range inspectedFlagSets {
		if flagSet != nil && flagSet.Changed(flagName) {
			return true
		}
	}
	return false
}
