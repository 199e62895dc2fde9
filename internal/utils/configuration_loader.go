package utils

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	configurationKeyDotConstant        = "."
	configurationKeyUnderscoreConstant = "_"

	configurationReadErrorTemplateConstant      = "unable to read configuration: %w"
	configurationUnmarshalErrorTemplateConstant = "unable to decode configuration: %w"
	embeddedConfigurationErrorTemplateConstant  = "unable to apply embedded configuration: %w"
)

// ConfigurationLoader layers configuration sources through viper. Resolution
// order, lowest to highest: programmatic defaults, embedded configuration, a
// discovered or explicitly named configuration file, then environment
// variables under the loader's prefix (dots become underscores in names).
type ConfigurationLoader struct {
	configurationName string
	configurationType string
	environmentPrefix string
	searchPaths       []string
	embeddedData      []byte
	embeddedType      string
}

// LoadedConfiguration reports which sources contributed to a load.
type LoadedConfiguration struct {
	ConfigFileUsed  string
	EmbeddedApplied bool
}

// NewConfigurationLoader creates a loader for the named configuration file
// type, probing each search path in order when no explicit file is given.
func NewConfigurationLoader(configurationName string, configurationType string, environmentPrefix string, searchPaths []string) *ConfigurationLoader {
	return &ConfigurationLoader{
		configurationName: configurationName,
		configurationType: configurationType,
		environmentPrefix: environmentPrefix,
		searchPaths:       append([]string(nil), searchPaths...),
	}
}

// SetEmbeddedConfiguration registers built-in configuration content that merges
// beneath any user-provided file. The data is copied; passing nil clears it.
func (loader *ConfigurationLoader) SetEmbeddedConfiguration(configurationData []byte, configurationType string) {
	if loader == nil {
		return
	}

	loader.embeddedType = strings.TrimSpace(configurationType)
	loader.embeddedData = nil
	if len(configurationData) > 0 {
		loader.embeddedData = append([]byte(nil), configurationData...)
	}
}

// LoadConfiguration resolves every configured source into targetConfiguration.
// A missing configuration file is not an error; a present but unreadable or
// undecodable one is.
func (loader *ConfigurationLoader) LoadConfiguration(configurationFilePath string, defaultValues map[string]any, targetConfiguration any) (LoadedConfiguration, error) {
	loaderState := viper.New()
	loaderState.SetConfigName(loader.configurationName)
	loaderState.SetConfigType(loader.configurationType)

	embeddedApplied, embeddedError := loader.applyEmbeddedConfiguration(loaderState)
	if embeddedError != nil {
		return LoadedConfiguration{}, embeddedError
	}

	loaderState.SetEnvPrefix(loader.environmentPrefix)
	loaderState.SetEnvKeyReplacer(strings.NewReplacer(configurationKeyDotConstant, configurationKeyUnderscoreConstant))
	loaderState.AutomaticEnv()

	for defaultKey, defaultValue := range defaultValues {
		loaderState.SetDefault(defaultKey, defaultValue)
	}

	for _, searchPath := range loader.searchPaths {
		loaderState.AddConfigPath(searchPath)
	}
	if len(configurationFilePath) > 0 {
		loaderState.SetConfigFile(configurationFilePath)
	}

	if mergeError := loaderState.MergeInConfig(); mergeError != nil {
		if _, fileNotFound := mergeError.(viper.ConfigFileNotFoundError); !fileNotFound {
			return LoadedConfiguration{}, fmt.Errorf(configurationReadErrorTemplateConstant, mergeError)
		}
	}

	if unmarshalError := loaderState.Unmarshal(targetConfiguration); unmarshalError != nil {
		return LoadedConfiguration{}, fmt.Errorf(configurationUnmarshalErrorTemplateConstant, unmarshalError)
	}

	return LoadedConfiguration{
		ConfigFileUsed:  loaderState.ConfigFileUsed(),
		EmbeddedApplied: embeddedApplied,
	}, nil
}

// applyEmbeddedConfiguration merges the registered built-in content, honoring
// its own type when it differs from the file type the loader searches for.
func (loader *ConfigurationLoader) applyEmbeddedConfiguration(loaderState *viper.Viper) (bool, error) {
	if len(loader.embeddedData) == 0 {
		return false, nil
	}

	if len(loader.embeddedType) > 0 {
		loaderState.SetConfigType(loader.embeddedType)
	}
	mergeError := loaderState.MergeConfig(bytes.NewReader(loader.embeddedData))
	loaderState.SetConfigType(loader.configurationType)
	if mergeError != nil {
		return false, fmt.Errorf(embeddedConfigurationErrorTemplateConstant, mergeError)
	}
	return true, nil
}
