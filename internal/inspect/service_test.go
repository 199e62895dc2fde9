package inspect_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/depdoctor/depdoctor/internal/detect"
	"github.com/depdoctor/depdoctor/internal/inspect"
	"github.com/depdoctor/depdoctor/internal/lockfile"
	"github.com/depdoctor/depdoctor/internal/manifest"
	"github.com/depdoctor/depdoctor/internal/ui"
	"github.com/depdoctor/depdoctor/internal/workspace"
)

const inspectProjectDirectoryConstant = "/work/info-app"

type stubManifestReader struct {
	document  manifest.Manifest
	readError error
}

func (reader stubManifestReader) Read(projectDirectory string) (manifest.Manifest, error) {
	if reader.readError != nil {
		return manifest.Manifest{}, reader.readError
	}
	return reader.document, nil
}

type recordingManagerDetector struct {
	info                 detect.PackageManagerInfo
	requestedDirectories []string
}

func (detector *recordingManagerDetector) Detect(executionContext context.Context, projectDirectory string) detect.PackageManagerInfo {
	detector.requestedDirectories = append(detector.requestedDirectories, projectDirectory)
	return detector.info
}

type stubMemberResolver struct {
	members []workspace.Target
}

func (resolver *stubMemberResolver) ResolveMembers(rootDirectory string, workspacePatterns []string) []workspace.Target {
	return resolver.members
}

type stubLockfileInspector struct {
	details lockfile.Details
	found   bool
}

func (inspector stubLockfileInspector) Inspect(projectDirectory string) (lockfile.Details, bool) {
	return inspector.details, inspector.found
}

func workspaceProjectManifest() manifest.Manifest {
	return manifest.Manifest{
		Name:            "monorepo",
		Version:         "1.2.0",
		PackageManager:  "yarn@1.22.19",
		Dependencies:    map[string]string{"express": "^4.17.0", "lodash": "^4.17.20"},
		DevDependencies: map[string]string{"jest": "^29.0.0"},
		Workspaces:      manifest.WorkspacesField{Declared: true, Patterns: []string{"packages/*"}},
	}
}

func yarnClassicInfo() detect.PackageManagerInfo {
	return detect.PackageManagerInfo{Manager: detect.ManagerYarn, Version: "1.22.19", Family: detect.FamilyYarnClassic, DisplayName: "yarn 1.22.19 (1.x)"}
}

func newInspectService(reader stubManifestReader, detector *recordingManagerDetector, resolver *stubMemberResolver, inspector stubLockfileInspector) (*inspect.Service, *bytes.Buffer) {
	outputBuffer := &bytes.Buffer{}
	renderer := ui.NewRenderer(outputBuffer, ui.DefaultTheme(), false)
	return inspect.NewService(nil, reader, detector, resolver, inspector, renderer), outputBuffer
}

func TestServiceRunReportsWorkspaceProject(testInstance *testing.T) {
	detector := &recordingManagerDetector{info: yarnClassicInfo()}
	resolver := &stubMemberResolver{members: []workspace.Target{
		{Directory: inspectProjectDirectoryConstant + "/packages/app", Label: "packages/app"},
		{Directory: inspectProjectDirectoryConstant + "/packages/lib", Label: "packages/lib"},
	}}
	inspector := stubLockfileInspector{
		details: lockfile.Details{FileName: "yarn.lock", Format: lockfile.FormatYarnClassic, Version: "1"},
		found:   true,
	}
	service, outputBuffer := newInspectService(stubManifestReader{document: workspaceProjectManifest()}, detector, resolver, inspector)

	runError := service.Run(context.Background(), inspect.Options{ProjectDirectory: inspectProjectDirectoryConstant})
	require.NoError(testInstance, runError)
	require.Equal(testInstance, []string{inspectProjectDirectoryConstant}, detector.requestedDirectories)

	renderedOutput := outputBuffer.String()
	require.Contains(testInstance, renderedOutput, "Project: monorepo")
	require.Contains(testInstance, renderedOutput, "Version: 1.2.0")
	require.Contains(testInstance, renderedOutput, "Package manager: yarn 1.22.19 (1.x)")
	require.Contains(testInstance, renderedOutput, "Declared packageManager: yarn@1.22.19")
	require.Contains(testInstance, renderedOutput, "Dependencies: 2 production, 1 development")
	require.Contains(testInstance, renderedOutput, "Lockfile: yarn.lock (classic, lockfile v1)")
	require.Contains(testInstance, renderedOutput, "Workspaces: 2 members (packages/*)")
	require.Contains(testInstance, renderedOutput, "  packages/app")
	require.Contains(testInstance, renderedOutput, "  packages/lib")
}

func TestServiceRunBehaviors(testInstance *testing.T) {
	testCases := []struct {
		name             string
		document         manifest.Manifest
		manifestError    error
		lockfileDetails  lockfile.Details
		lockfileFound    bool
		expectedError    string
		expectedContains []string
		expectedOmits    []string
	}{
		{
			name:            "plain_npm_project",
			document:        manifest.Manifest{Name: "app", Dependencies: map[string]string{"express": "^4.17.0"}},
			lockfileDetails: lockfile.Details{FileName: "package-lock.json", Format: lockfile.FormatNpm, Version: "3"},
			lockfileFound:   true,
			expectedContains: []string{
				"Project: app",
				"Dependencies: 1 production, 0 development",
				"Lockfile: package-lock.json (lockfileVersion 3)",
				"Workspaces: none declared",
			},
			expectedOmits: []string{"Declared packageManager", "Version:"},
		},
		{
			name:             "missing_lockfile_renders_none",
			document:         manifest.Manifest{Name: "app"},
			expectedContains: []string{"Lockfile: none found"},
		},
		{
			name:          "missing_manifest_aborts",
			manifestError: manifest.NotFoundError{Directory: inspectProjectDirectoryConstant},
			expectedError: fmt.Sprintf("no package.json found in %s", inspectProjectDirectoryConstant),
		},
		{
			name:             "unparsable_manifest_reports_defaults",
			manifestError:    manifest.ParseError{Path: inspectProjectDirectoryConstant + "/package.json", Cause: errors.New("unexpected token")},
			expectedContains: []string{"Project: (unnamed)", "Workspaces: none declared"},
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf("%d_%s", testCaseIndex, testCase.name), func(subtestInstance *testing.T) {
			detector := &recordingManagerDetector{info: detect.PackageManagerInfo{Manager: detect.ManagerNpm, Family: detect.FamilyNpm, DisplayName: "npm"}}
			inspector := stubLockfileInspector{details: testCase.lockfileDetails, found: testCase.lockfileFound}
			service, outputBuffer := newInspectService(
				stubManifestReader{document: testCase.document, readError: testCase.manifestError},
				detector,
				&stubMemberResolver{},
				inspector,
			)

			runError := service.Run(context.Background(), inspect.Options{ProjectDirectory: inspectProjectDirectoryConstant})

			if len(testCase.expectedError) > 0 {
				require.Error(subtestInstance, runError)
				require.Contains(subtestInstance, runError.Error(), testCase.expectedError)
				return
			}
			require.NoError(subtestInstance, runError)

			renderedOutput := outputBuffer.String()
			for _, expectedFragment := range testCase.expectedContains {
				require.Contains(subtestInstance, renderedOutput, expectedFragment)
			}
			for _, omittedFragment := range testCase.expectedOmits {
				require.NotContains(subtestInstance, renderedOutput, omittedFragment)
			}
		})
	}
}
