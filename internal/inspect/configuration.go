package inspect

import "strings"

const (
	directoryConfigurationKeyConstant = "directory"
	configurationKeySeparatorConstant = "."
)

// CommandConfiguration captures persistent settings for the info command.
type CommandConfiguration struct {
	Directory string `mapstructure:"directory"`
}

// DefaultCommandConfiguration returns baseline configuration values for the info command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{Directory: ""}
}

// sanitize trims whitespace on configured values.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.Directory = strings.TrimSpace(configuration.Directory)
	return sanitized
}

// DefaultConfigurationValues produces Viper defaults for the info command under the provided root key.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()

	return map[string]any{
		rootKey + configurationKeySeparatorConstant + directoryConfigurationKeyConstant: defaults.Directory,
	}
}
