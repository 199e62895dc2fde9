package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandLabelTemplateConstant            = "%s%s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	defaultWorkingDirectoryLabelConstant    = "current directory"
)

const (
	auditSubcommandNameConstant    = "audit"
	outdatedSubcommandNameConstant = "outdated"
	yarnNpmSubcommandNameConstant  = "npm"
	versionFlagConstant            = "--version"
	versionShortFlagConstant       = "-v"
	upgradeFlagConstant            = "--upgrade"
	upgradeShortFlagConstant       = "-u"
)

const (
	npmAuditStartTemplateConstant               = "Auditing dependencies with npm in %s"
	npmAuditSuccessTemplateConstant             = "Completed npm audit in %s"
	npmAuditFailureTemplateConstant             = "npm audit in %s exited with code %d%s"
	npmAuditExecutionFailureTemplateConstant    = "Unable to run npm audit in %s: %s"
	npmOutdatedStartTemplateConstant            = "Checking for outdated packages with npm in %s"
	npmOutdatedSuccessTemplateConstant          = "Collected outdated package report for %s"
	npmOutdatedFailureTemplateConstant          = "npm outdated in %s exited with code %d%s"
	npmOutdatedExecutionFailureTemplateConstant = "Unable to check outdated packages in %s: %s"
	npmVersionSuccessTemplateConstant           = "Detected npm %s"
	npmVersionUnknownSuccessMessageConstant     = "Could not determine the npm version"
	npmVersionFailureTemplateConstant           = "Failed to read the npm version (exit code %d%s)"
	npmVersionExecutionFailureTemplateConstant  = "Unable to read the npm version: %s"
	npmVersionStartMessageConstant              = "Reading the npm version"
)

const (
	yarnAuditStartTemplateConstant               = "Auditing dependencies with yarn in %s"
	yarnAuditSuccessTemplateConstant             = "Completed yarn audit in %s"
	yarnAuditFailureTemplateConstant             = "yarn audit in %s exited with code %d%s"
	yarnAuditExecutionFailureTemplateConstant    = "Unable to run yarn audit in %s: %s"
	yarnNpmAuditStartTemplateConstant            = "Auditing dependencies with yarn npm audit in %s"
	yarnNpmAuditSuccessTemplateConstant          = "Completed yarn npm audit in %s"
	yarnNpmAuditFailureTemplateConstant          = "yarn npm audit in %s exited with code %d%s"
	yarnNpmAuditExecutionFailureTemplateConstant = "Unable to run yarn npm audit in %s: %s"
	yarnVersionSuccessTemplateConstant           = "Detected yarn %s"
	yarnVersionUnknownSuccessMessageConstant     = "Could not determine the yarn version"
	yarnVersionFailureTemplateConstant           = "Failed to read the yarn version (exit code %d%s)"
	yarnVersionExecutionFailureTemplateConstant  = "Unable to read the yarn version: %s"
	yarnVersionStartMessageConstant              = "Reading the yarn version"
)

const (
	ncuUpgradeStartTemplateConstant            = "Applying dependency upgrades in %s"
	ncuUpgradeSuccessTemplateConstant          = "Applied dependency upgrades in %s"
	ncuUpgradeFailureTemplateConstant          = "Failed to apply dependency upgrades in %s (exit code %d%s)"
	ncuUpgradeExecutionFailureTemplateConstant = "Unable to apply dependency upgrades in %s: %s"
	ncuPreviewStartTemplateConstant            = "Previewing dependency upgrades in %s"
	ncuPreviewSuccessTemplateConstant          = "Previewed dependency upgrades in %s"
	ncuPreviewFailureTemplateConstant          = "Failed to preview dependency upgrades in %s (exit code %d%s)"
	ncuPreviewExecutionFailureTemplateConstant = "Unable to preview dependency upgrades in %s: %s"
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) shouldLogStartMessage(command ShellCommand) bool {
	return !formatter.isVersionProbeCommand(command)
}

func (formatter CommandMessageFormatter) isVersionProbeCommand(command ShellCommand) bool {
	if command.Name != CommandNpm && command.Name != CommandYarn {
		return false
	}
	if len(command.Details.Arguments) != 1 {
		return false
	}
	probeArgument := strings.TrimSpace(command.Details.Arguments[0])
	return probeArgument == versionFlagConstant || probeArgument == versionShortFlagConstant
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	switch command.Name {
	case CommandNpm:
		return formatter.describeNpmMessage(command, result, failure, stage)
	case CommandYarn:
		return formatter.describeYarnMessage(command, result, failure, stage)
	case CommandVersionChecker:
		return formatter.describeNcuMessage(command, result, failure, stage)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeNpmMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if formatter.isVersionProbeCommand(command) {
		return formatter.describeVersionProbeMessage(command, result, failure, stage)
	}

	if len(command.Details.Arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	subcommand := strings.TrimSpace(command.Details.Arguments[0])
	switch subcommand {
	case auditSubcommandNameConstant:
		return formatter.describeNpmAuditMessage(command, result, failure, stage)
	case outdatedSubcommandNameConstant:
		return formatter.describeNpmOutdatedMessage(command, result, failure, stage)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeNpmAuditMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(npmAuditStartTemplateConstant, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(npmAuditSuccessTemplateConstant, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(npmAuditFailureTemplateConstant, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(npmAuditExecutionFailureTemplateConstant, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeNpmOutdatedMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(npmOutdatedStartTemplateConstant, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(npmOutdatedSuccessTemplateConstant, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(npmOutdatedFailureTemplateConstant, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(npmOutdatedExecutionFailureTemplateConstant, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeYarnMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if formatter.isVersionProbeCommand(command) {
		return formatter.describeVersionProbeMessage(command, result, failure, stage)
	}

	arguments := command.Details.Arguments
	if len(arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	subcommand := strings.TrimSpace(arguments[0])
	if subcommand == auditSubcommandNameConstant {
		return formatter.describeYarnAuditMessage(command, result, failure, stage)
	}
	if subcommand == yarnNpmSubcommandNameConstant && len(arguments) > 1 && strings.TrimSpace(arguments[1]) == auditSubcommandNameConstant {
		return formatter.describeYarnNpmAuditMessage(command, result, failure, stage)
	}

	return formatter.buildGenericMessage(command, result, failure, stage)
}

func (formatter CommandMessageFormatter) describeYarnAuditMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(yarnAuditStartTemplateConstant, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(yarnAuditSuccessTemplateConstant, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(yarnAuditFailureTemplateConstant, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(yarnAuditExecutionFailureTemplateConstant, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeYarnNpmAuditMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(yarnNpmAuditStartTemplateConstant, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(yarnNpmAuditSuccessTemplateConstant, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(yarnNpmAuditFailureTemplateConstant, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(yarnNpmAuditExecutionFailureTemplateConstant, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeVersionProbeMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	isNpmProbe := command.Name == CommandNpm

	switch stage {
	case messageStageStart:
		if isNpmProbe {
			return npmVersionStartMessageConstant
		}
		return yarnVersionStartMessageConstant
	case messageStageSuccess:
		detectedVersion := strings.TrimSpace(result.StandardOutput)
		if len(detectedVersion) == 0 {
			if isNpmProbe {
				return npmVersionUnknownSuccessMessageConstant
			}
			return yarnVersionUnknownSuccessMessageConstant
		}
		if isNpmProbe {
			return fmt.Sprintf(npmVersionSuccessTemplateConstant, detectedVersion)
		}
		return fmt.Sprintf(yarnVersionSuccessTemplateConstant, detectedVersion)
	case messageStageFailure:
		if isNpmProbe {
			return fmt.Sprintf(npmVersionFailureTemplateConstant, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		}
		return fmt.Sprintf(yarnVersionFailureTemplateConstant, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		if isNpmProbe {
			return fmt.Sprintf(npmVersionExecutionFailureTemplateConstant, formatter.describeFailure(failure))
		}
		return fmt.Sprintf(yarnVersionExecutionFailureTemplateConstant, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeNcuMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	arguments := command.Details.Arguments
	appliesUpgrades := containsArgument(arguments, upgradeFlagConstant) || containsArgument(arguments, upgradeShortFlagConstant)

	switch stage {
	case messageStageStart:
		if appliesUpgrades {
			return fmt.Sprintf(ncuUpgradeStartTemplateConstant, workingDirectory)
		}
		return fmt.Sprintf(ncuPreviewStartTemplateConstant, workingDirectory)
	case messageStageSuccess:
		if appliesUpgrades {
			return fmt.Sprintf(ncuUpgradeSuccessTemplateConstant, workingDirectory)
		}
		return fmt.Sprintf(ncuPreviewSuccessTemplateConstant, workingDirectory)
	case messageStageFailure:
		if appliesUpgrades {
			return fmt.Sprintf(ncuUpgradeFailureTemplateConstant, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		}
		return fmt.Sprintf(ncuPreviewFailureTemplateConstant, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		if appliesUpgrades {
			return fmt.Sprintf(ncuUpgradeExecutionFailureTemplateConstant, workingDirectory, formatter.describeFailure(failure))
		}
		return fmt.Sprintf(ncuPreviewExecutionFailureTemplateConstant, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandLabel := string(command.Name)
	if len(command.Details.Arguments) > 0 {
		commandLabel = fmt.Sprintf("%s %s", commandLabel, strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant))
	}
	workingDirectorySuffix := formatter.formatWorkingDirectorySuffix(command)
	return fmt.Sprintf(commandLabelTemplateConstant, commandLabel, workingDirectorySuffix)
}

func (formatter CommandMessageFormatter) formatWorkingDirectorySuffix(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmedWorkingDirectory
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func containsArgument(arguments []string, value string) bool {
	for _, argument := range arguments {
		if strings.TrimSpace(argument) == value {
			return true
		}
	}
	return false
}
