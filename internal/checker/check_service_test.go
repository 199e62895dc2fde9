package checker_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/depdoctor/depdoctor/internal/checker"
	"github.com/depdoctor/depdoctor/internal/manifest"
	"github.com/depdoctor/depdoctor/internal/npmcli"
	"github.com/depdoctor/depdoctor/internal/ui"
)

const checkProjectDirectoryConstant = "/work/check-app"

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

type recordingOutdatedLister struct {
	outdated             map[string]npmcli.OutdatedPackage
	listError            error
	requestedDirectories []string
}

func (lister *recordingOutdatedLister) Outdated(executionContext context.Context, projectDirectory string) (map[string]npmcli.OutdatedPackage, error) {
	lister.requestedDirectories = append(lister.requestedDirectories, projectDirectory)
	if lister.listError != nil {
		return nil, lister.listError
	}
	return lister.outdated, nil
}

func mixedOutdatedPackages() map[string]npmcli.OutdatedPackage {
	return map[string]npmcli.OutdatedPackage{
		"react":   {Current: "17.0.2", Wanted: "17.0.2", Latest: "18.2.0", Location: "node_modules/react"},
		"express": {Current: "4.17.0", Wanted: "4.18.2", Latest: "4.18.2", Location: "node_modules/express"},
		"lodash":  {Current: "4.17.20", Wanted: "4.17.21", Latest: "4.17.21", Location: "node_modules/lodash"},
	}
}

func newCheckService(reader stubManifestReader, lister *recordingOutdatedLister) (*checker.CheckService, *bytes.Buffer) {
	outputBuffer := &bytes.Buffer{}
	renderer := ui.NewRenderer(outputBuffer, ui.DefaultTheme(), false)
	return checker.NewCheckService(nil, reader, lister, renderer, outputBuffer), outputBuffer
}

func TestCheckServiceRunBehaviors(testInstance *testing.T) {
	testCases := []struct {
		name                string
		manifestError       error
		outdated            map[string]npmcli.OutdatedPackage
		listError           error
		expectedError       string
		expectedListerCalls int
		expectedContains    []string
		expectedOmits       []string
	}{
		{
			name:                "clean_project_reports_up_to_date",
			outdated:            map[string]npmcli.OutdatedPackage{},
			expectedListerCalls: 1,
			expectedContains:    []string{"All dependencies are up to date"},
			expectedOmits:       []string{"outdated"},
		},
		{
			name:                "outdated_packages_render_classified_rows",
			outdated:            mixedOutdatedPackages(),
			expectedListerCalls: 1,
			expectedContains: []string{
				"3 outdated packages",
				"express",
				"minor",
				"lodash",
				"patch",
				"react",
				"major",
			},
		},
		{
			name:                "single_outdated_package_uses_singular_noun",
			outdated:            map[string]npmcli.OutdatedPackage{"react": {Current: "17.0.2", Wanted: "17.0.2", Latest: "18.2.0"}},
			expectedListerCalls: 1,
			expectedContains:    []string{"1 outdated package"},
		},
		{
			name:          "missing_manifest_aborts_without_listing",
			manifestError: manifest.NotFoundError{Directory: checkProjectDirectoryConstant},
			expectedError: fmt.Sprintf("no package.json found in %s", checkProjectDirectoryConstant),
		},
		{
			name:                "unparsable_manifest_still_lists",
			manifestError:       manifest.ParseError{Path: checkProjectDirectoryConstant + "/package.json", Cause: errors.New("unexpected token")},
			outdated:            map[string]npmcli.OutdatedPackage{},
			expectedListerCalls: 1,
			expectedContains:    []string{"All dependencies are up to date"},
		},
		{
			name:                "lister_failure_propagates",
			listError:           errors.New("npm outdated exploded"),
			expectedListerCalls: 1,
			expectedError:       "npm outdated exploded",
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf("%d_%s", testCaseIndex, testCase.name), func(subtestInstance *testing.T) {
			manifestReader := stubManifestReader{document: manifest.Manifest{Name: "app"}, readError: testCase.manifestError}
			outdatedLister := &recordingOutdatedLister{outdated: testCase.outdated, listError: testCase.listError}
			service, outputBuffer := newCheckService(manifestReader, outdatedLister)

			runError := service.Run(context.Background(), checker.CheckOptions{ProjectDirectory: checkProjectDirectoryConstant})

			if len(testCase.expectedError) > 0 {
				require.Error(subtestInstance, runError)
				require.Contains(subtestInstance, runError.Error(), testCase.expectedError)
			} else {
				require.NoError(subtestInstance, runError)
			}

			require.Len(subtestInstance, outdatedLister.requestedDirectories, testCase.expectedListerCalls)

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

func TestCheckServiceRunSortsRowsByPackageName(testInstance *testing.T) {
	manifestReader := stubManifestReader{document: manifest.Manifest{Name: "app"}}
	outdatedLister := &recordingOutdatedLister{outdated: mixedOutdatedPackages()}
	service, outputBuffer := newCheckService(manifestReader, outdatedLister)

	runError := service.Run(context.Background(), checker.CheckOptions{ProjectDirectory: checkProjectDirectoryConstant})
	require.NoError(testInstance, runError)

	renderedOutput := outputBuffer.String()
	expressIndex := strings.Index(renderedOutput, "express")
	lodashIndex := strings.Index(renderedOutput, "lodash")
	reactIndex := strings.Index(renderedOutput, "react")
	require.True(testInstance, expressIndex >= 0 && lodashIndex >= 0 && reactIndex >= 0)
	require.Less(testInstance, expressIndex, lodashIndex)
	require.Less(testInstance, lodashIndex, reactIndex)
}

func TestCheckServiceRunWritesJSONReport(testInstance *testing.T) {
	manifestReader := stubManifestReader{document: manifest.Manifest{Name: "app"}}
	outdatedLister := &recordingOutdatedLister{outdated: mixedOutdatedPackages()}
	service, outputBuffer := newCheckService(manifestReader, outdatedLister)

	runError := service.Run(context.Background(), checker.CheckOptions{ProjectDirectory: checkProjectDirectoryConstant, JSONOutput: true})
	require.NoError(testInstance, runError)

	decodedReport := checker.CheckReport{}
	require.NoError(testInstance, json.Unmarshal(outputBuffer.Bytes(), &decodedReport))

	require.Equal(testInstance, checkProjectDirectoryConstant, decodedReport.Directory)
	require.Len(testInstance, decodedReport.Outdated, 3)
	require.Equal(testInstance, "express", decodedReport.Outdated[0].Name)
	require.Equal(testInstance, checker.UpgradeKindMinor, decodedReport.Outdated[0].Kind)
	require.Equal(testInstance, checker.UpgradeKindPatch, decodedReport.Outdated[1].Kind)
	require.Equal(testInstance, checker.UpgradeKindMajor, decodedReport.Outdated[2].Kind)
	require.NotContains(testInstance, outputBuffer.String(), "outdated packages")
}

func TestClassifyUpgrade(testInstance *testing.T) {
	testCases := []struct {
		name           string
		currentVersion string
		latestVersion  string
		expectedKind   checker.UpgradeKind
	}{
		{name: "major_jump", currentVersion: "17.0.2", latestVersion: "18.2.0", expectedKind: checker.UpgradeKindMajor},
		{name: "minor_jump", currentVersion: "4.17.0", latestVersion: "4.18.2", expectedKind: checker.UpgradeKindMinor},
		{name: "patch_jump", currentVersion: "4.17.20", latestVersion: "4.17.21", expectedKind: checker.UpgradeKindPatch},
		{name: "equal_versions", currentVersion: "1.2.3", latestVersion: "1.2.3", expectedKind: checker.UpgradeKindNone},
		{name: "prerelease_difference", currentVersion: "2.0.0-beta.1", latestVersion: "2.0.0", expectedKind: checker.UpgradeKindPatch},
		{name: "prefixed_versions", currentVersion: "v1.0.0", latestVersion: "v1.1.0", expectedKind: checker.UpgradeKindMinor},
		{name: "empty_current", currentVersion: "", latestVersion: "1.0.0", expectedKind: checker.UpgradeKindUnknown},
		{name: "garbage_latest", currentVersion: "1.0.0", latestVersion: "not-a-version", expectedKind: checker.UpgradeKindUnknown},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf("%d_%s", testCaseIndex, testCase.name), func(subtestInstance *testing.T) {
			classifiedKind := checker.ClassifyUpgrade(testCase.currentVersion, testCase.latestVersion)
			require.Equal(subtestInstance, testCase.expectedKind, classifiedKind)
		})
	}
}
