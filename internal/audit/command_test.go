package audit_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/depdoctor/depdoctor/internal/audit"
)

const (
	securityDirectoryFlagConstant        = "--dir"
	securityJSONFlagConstant             = "--json"
	securitySeverityFlagConstant         = "--severity"
	securityProductionOffFlagConstant    = "--production=no"
	securityConfiguredDirectoryConstant  = "/configured/app"
	securityOverriddenDirectoryConstant  = "/flagged/app"
	securityUnknownSeverityValueConstant = "catastrophic"
)

func buildSecurityCommandBuilder(npmAuditor *recordingNpmAuditor, yarnAuditor *recordingYarnAuditor, configuration audit.CommandConfiguration) *audit.CommandBuilder {
	return &audit.CommandBuilder{
		LoggerProvider:        func() *zap.Logger { return zap.NewNop() },
		ConfigurationProvider: func() audit.CommandConfiguration { return configuration },
		ManifestReader:        stubManifestReader{document: singleProjectManifest()},
		Detector:              stubManagerDetector{info: npmManagerInfo()},
		MemberResolver:        &stubMemberResolver{},
		NpmAuditor:            npmAuditor,
		YarnAuditor:           yarnAuditor,
	}
}

func executeSecurityCommand(testInstance *testing.T, builder *audit.CommandBuilder, arguments []string) (string, error) {
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
	builder := &audit.CommandBuilder{}
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	require.Equal(testInstance, "security", command.Use)
	require.NotNil(testInstance, command.Flags().Lookup("dir"))
	require.NotNil(testInstance, command.Flags().Lookup("json"))
	require.NotNil(testInstance, command.Flags().Lookup("production"))
	require.NotNil(testInstance, command.Flags().Lookup("severity"))
}

func TestSecurityCommandDefaultsToCurrentDirectory(testInstance *testing.T) {
	npmAuditor := &recordingNpmAuditor{}
	builder := buildSecurityCommandBuilder(npmAuditor, &recordingYarnAuditor{}, audit.CommandConfiguration{})

	renderedOutput, executionError := executeSecurityCommand(testInstance, builder, []string{})
	require.NoError(testInstance, executionError)
	require.Equal(testInstance, []string{"."}, npmAuditor.auditedPaths)
	require.Contains(testInstance, renderedOutput, "Detected package manager: npm")
}

func TestSecurityCommandUsesConfigurationDefaults(testInstance *testing.T) {
	npmAuditor := &recordingNpmAuditor{}
	configuration := audit.CommandConfiguration{
		Directory:      securityConfiguredDirectoryConstant,
		Severity:       "HIGH",
		ProductionOnly: true,
	}
	builder := buildSecurityCommandBuilder(npmAuditor, &recordingYarnAuditor{}, configuration)

	_, executionError := executeSecurityCommand(testInstance, builder, []string{})
	require.NoError(testInstance, executionError)
	require.Equal(testInstance, []string{securityConfiguredDirectoryConstant}, npmAuditor.auditedPaths)
	require.True(testInstance, npmAuditor.recordedOption.ProductionOnly)
}

func TestSecurityCommandFlagsOverrideConfiguration(testInstance *testing.T) {
	npmAuditor := &recordingNpmAuditor{}
	configuration := audit.CommandConfiguration{
		Directory:      securityConfiguredDirectoryConstant,
		ProductionOnly: true,
	}
	builder := buildSecurityCommandBuilder(npmAuditor, &recordingYarnAuditor{}, configuration)

	arguments := []string{
		securityDirectoryFlagConstant, securityOverriddenDirectoryConstant,
		securityJSONFlagConstant,
		securityProductionOffFlagConstant,
	}
	renderedOutput, executionError := executeSecurityCommand(testInstance, builder, arguments)
	require.NoError(testInstance, executionError)
	require.Equal(testInstance, []string{securityOverriddenDirectoryConstant}, npmAuditor.auditedPaths)
	require.False(testInstance, npmAuditor.recordedOption.ProductionOnly)

	var runReport audit.RunReport
	require.NoError(testInstance, json.Unmarshal([]byte(renderedOutput), &runReport))
	require.Equal(testInstance, securityOverriddenDirectoryConstant, runReport.Directory)
}

func TestSecurityCommandRejectsUnknownSeverity(testInstance *testing.T) {
	npmAuditor := &recordingNpmAuditor{}
	builder := buildSecurityCommandBuilder(npmAuditor, &recordingYarnAuditor{}, audit.CommandConfiguration{})

	_, executionError := executeSecurityCommand(testInstance, builder, []string{securitySeverityFlagConstant, securityUnknownSeverityValueConstant})
	require.Error(testInstance, executionError)
	require.IsType(testInstance, audit.InvalidSeverityError{}, executionError)
	require.Empty(testInstance, npmAuditor.auditedPaths)
}
