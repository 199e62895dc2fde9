package utils

import "context"

type commandContextKey string

const configurationFileContextKey commandContextKey = "configurationFilePath"

// CommandContextAccessor reads and writes the values depdoctor threads through
// cobra command contexts.
type CommandContextAccessor struct{}

// NewCommandContextAccessor returns an accessor ready for use.
func NewCommandContextAccessor() CommandContextAccessor {
	return CommandContextAccessor{}
}

// WithConfigurationFilePath stores the configuration file path on the context so
// subcommands can report which file their settings came from.
func (accessor CommandContextAccessor) WithConfigurationFilePath(parentContext context.Context, configurationFilePath string) context.Context {
	return withContextString(parentContext, configurationFileContextKey, configurationFilePath)
}

// ConfigurationFilePath reads the path stored by WithConfigurationFilePath.
func (accessor CommandContextAccessor) ConfigurationFilePath(executionContext context.Context) (string, bool) {
	return contextString(executionContext, configurationFileContextKey)
}

func withContextString(parentContext context.Context, key commandContextKey, value string) context.Context {
	if parentContext == nil {
		parentContext = context.Background()
	}
	return context.WithValue(parentContext, key, value)
}

func contextString(executionContext context.Context, key commandContextKey) (string, bool) {
	if executionContext == nil {
		return "", false
	}
	storedValue, valueAvailable := executionContext.Value(key).(string)
	return storedValue, valueAvailable
}
