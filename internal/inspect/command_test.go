package inspect_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/depdoctor/depdoctor/internal/detect"
	"github.com/depdoctor/depdoctor/internal/inspect"
	"github.com/depdoctor/depdoctor/internal/manifest"
)

const (
	inspectDirectoryFlagConstant       = "--dir"
	inspectConfiguredDirectoryConstant = "/configured/info-app"
	inspectOverriddenDirectoryConstant = "/flagged/info-app"
)

func buildInfoCommandBuilder(detector *recordingManagerDetector, configuration inspect.CommandConfiguration) *inspect.CommandBuilder {
	return &inspect.CommandBuilder{
		LoggerProvider:        func() *zap.Logger { return zap.NewNop() },
		ConfigurationProvider: func() inspect.CommandConfiguration { return configuration },
		ManifestReader:        stubManifestReader{document: manifest.Manifest{Name: "app"}},
		Detector:              detector,
		MemberResolver:        &stubMemberResolver{},
		LockfileInspector:     stubLockfileInspector{},
	}
}

func executeInfoCommand(testInstance *testing.T, builder *inspect.CommandBuilder, arguments []string) (string, error) {
	testInstance.Helper()

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	command.SetContext(context.Background())
	command.SetArgs(arguments)

	outputBuffer := &strings.Builder{}
	command.SetOut(outputBuffer)
	command.SetErr(outputBuffer)

	executionError := command.Execute()
	return outputBuffer.String(), executionError
}

func TestCommandBuilderBuildConfiguresFlags(testInstance *testing.T) {
	command, buildError := (&inspect.CommandBuilder{}).Build()
	require.NoError(testInstance, buildError)

	require.Equal(testInstance, "info", command.Use)
	require.NotNil(testInstance, command.Flags().Lookup("dir"))
	require.Nil(testInstance, command.Flags().Lookup("json"))
}

func TestInfoCommandDefaultsToCurrentDirectory(testInstance *testing.T) {
	detector := &recordingManagerDetector{info: detect.PackageManagerInfo{DisplayName: "npm"}}
	builder := buildInfoCommandBuilder(detector, inspect.CommandConfiguration{})

	renderedOutput, executionError := executeInfoCommand(testInstance, builder, []string{})
	require.NoError(testInstance, executionError)
	require.Equal(testInstance, []string{"."}, detector.requestedDirectories)
	require.Contains(testInstance, renderedOutput, "Project: app")
}

func TestInfoCommandUsesConfigurationDirectory(testInstance *testing.T) {
	detector := &recordingManagerDetector{info: detect.PackageManagerInfo{DisplayName: "npm"}}
	builder := buildInfoCommandBuilder(detector, inspect.CommandConfiguration{Directory: inspectConfiguredDirectoryConstant})

	_, executionError := executeInfoCommand(testInstance, builder, []string{})
	require.NoError(testInstance, executionError)
	require.Equal(testInstance, []string{inspectConfiguredDirectoryConstant}, detector.requestedDirectories)
}

func TestInfoCommandDirectoryFlagOverridesConfiguration(testInstance *testing.T) {
	detector := &recordingManagerDetector{info: detect.PackageManagerInfo{DisplayName: "npm"}}
	builder := buildInfoCommandBuilder(detector, inspect.CommandConfiguration{Directory: inspectConfiguredDirectoryConstant})

	_, executionError := executeInfoCommand(testInstance, builder, []string{inspectDirectoryFlagConstant, inspectOverriddenDirectoryConstant})
	require.NoError(testInstance, executionError)
	require.Equal(testInstance, []string{inspectOverriddenDirectoryConstant}, detector.requestedDirectories)
}
