package checker

import "strings"

const (
	directoryConfigurationKeyConstant = "directory"
	jsonConfigurationKeyConstant      = "json"
	dryRunConfigurationKeyConstant    = "dry_run"
	configurationKeySeparatorConstant = "."
)

// CheckConfiguration captures persistent settings for the check command.
type CheckConfiguration struct {
	Directory string `mapstructure:"directory"`
	JSON      bool   `mapstructure:"json"`
}

// DefaultCheckConfiguration returns baseline configuration values for the check command.
func DefaultCheckConfiguration() CheckConfiguration {
	return CheckConfiguration{
		Directory: "",
		JSON:      false,
	}
}

// sanitize trims whitespace on configured values.
func (configuration CheckConfiguration) sanitize() CheckConfiguration {
	sanitized := configuration
	sanitized.Directory = strings.TrimSpace(configuration.Directory)
	return sanitized
}

// CheckDefaultConfigurationValues produces Viper defaults for the check command under the provided root key.
func CheckDefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCheckConfiguration()

	return map[string]any{
		rootKey + configurationKeySeparatorConstant + directoryConfigurationKeyConstant: defaults.Directory,
		rootKey + configurationKeySeparatorConstant + jsonConfigurationKeyConstant:      defaults.JSON,
	}
}

// UpdateConfiguration captures persistent settings for the update command.
type UpdateConfiguration struct {
	Directory string `mapstructure:"directory"`
	DryRun    bool   `mapstructure:"dry_run"`
}

// DefaultUpdateConfiguration returns baseline configuration values for the update command.
func DefaultUpdateConfiguration() UpdateConfiguration {
	return UpdateConfiguration{
		Directory: "",
		DryRun:    false,
	}
}

// sanitize trims whitespace on configured values.
func (configuration UpdateConfiguration) sanitize() UpdateConfiguration {
	sanitized := configuration
	sanitized.Directory = strings.TrimSpace(configuration.Directory)
	return sanitized
}

// UpdateDefaultConfigurationValues produces Viper defaults for the update command under the provided root key.
func UpdateDefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultUpdateConfiguration()

	return map[string]any{
		rootKey + configurationKeySeparatorConstant + directoryConfigurationKeyConstant: defaults.Directory,
		rootKey + configurationKeySeparatorConstant + dryRunConfigurationKeyConstant:    defaults.DryRun,
	}
}
