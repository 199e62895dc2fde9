package audit

import "strings"

const (
	directoryConfigurationKeyConstant      = "directory"
	severityConfigurationKeyConstant       = "severity"
	jsonConfigurationKeyConstant           = "json"
	productionOnlyConfigurationKeyConstant = "production_only"
	configurationKeySeparatorConstant      = "."
)

// CommandConfiguration captures persistent settings for the security command.
type CommandConfiguration struct {
	Directory      string `mapstructure:"directory"`
	Severity       string `mapstructure:"severity"`
	JSON           bool   `mapstructure:"json"`
	ProductionOnly bool   `mapstructure:"production_only"`
}

// DefaultCommandConfiguration returns baseline configuration values for the security command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Directory:      "",
		Severity:       "",
		JSON:           false,
		ProductionOnly: false,
	}
}

// sanitize trims whitespace and normalizes casing on configured values.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	sanitized := configuration

	sanitized.Directory = strings.TrimSpace(configuration.Directory)
	sanitized.Severity = strings.ToLower(strings.TrimSpace(configuration.Severity))

	return sanitized
}

// DefaultConfigurationValues produces Viper defaults for the security command under the provided root key.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()

	return map[string]any{
		rootKey + configurationKeySeparatorConstant + directoryConfigurationKeyConstant:      defaults.Directory,
		rootKey + configurationKeySeparatorConstant + severityConfigurationKeyConstant:       defaults.Severity,
		rootKey + configurationKeySeparatorConstant + jsonConfigurationKeyConstant:           defaults.JSON,
		rootKey + configurationKeySeparatorConstant + productionOnlyConfigurationKeyConstant: defaults.ProductionOnly,
	}
}
