package lockfile_test

import (
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/depdoctor/depdoctor/internal/lockfile"
)

const inspectorProjectDirectoryConstant = "/workspace/project"

const classicYarnLockContentsConstant = `# THIS IS AN AUTOGENERATED FILE. DO NOT EDIT THIS FILE DIRECTLY.
# yarn lockfile v1

lodash@^4.17.21:
  version "4.17.21"
`

const berryYarnLockContentsConstant = `__metadata:
  version: 6
  cacheKey: 8

"lodash@npm:^4.17.21":
  version: 4.17.21
`

type stubLockfileReader struct {
	files map[string][]byte
}

func (reader *stubLockfileReader) ReadFile(path string) ([]byte, error) {
	contents, exists := reader.files[path]
	if !exists {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return contents, nil
}

func TestInspectorInspect(t *testing.T) {
	t.Parallel()

	yarnLockPath := filepath.Join(inspectorProjectDirectoryConstant, "yarn.lock")
	npmLockPath := filepath.Join(inspectorProjectDirectoryConstant, "package-lock.json")

	testCases := []struct {
		name            string
		files           map[string][]byte
		expectedFound   bool
		expectedDetails lockfile.Details
	}{
		{
			name:            "classic_yarn_lockfile",
			files:           map[string][]byte{yarnLockPath: []byte(classicYarnLockContentsConstant)},
			expectedFound:   true,
			expectedDetails: lockfile.Details{FileName: "yarn.lock", Format: lockfile.FormatYarnClassic, Version: "1"},
		},
		{
			name:            "berry_yarn_lockfile",
			files:           map[string][]byte{yarnLockPath: []byte(berryYarnLockContentsConstant)},
			expectedFound:   true,
			expectedDetails: lockfile.Details{FileName: "yarn.lock", Format: lockfile.FormatYarnBerry, Version: "6"},
		},
		{
			name:            "unrecognized_yarn_lockfile",
			files:           map[string][]byte{yarnLockPath: []byte("scrambled contents")},
			expectedFound:   true,
			expectedDetails: lockfile.Details{FileName: "yarn.lock", Format: lockfile.FormatUnknown},
		},
		{
			name:            "npm_lockfile_with_version",
			files:           map[string][]byte{npmLockPath: []byte(`{"name":"api-server","lockfileVersion":3}`)},
			expectedFound:   true,
			expectedDetails: lockfile.Details{FileName: "package-lock.json", Format: lockfile.FormatNpm, Version: "3"},
		},
		{
			name:            "npm_lockfile_with_malformed_json",
			files:           map[string][]byte{npmLockPath: []byte("{broken")},
			expectedFound:   true,
			expectedDetails: lockfile.Details{FileName: "package-lock.json", Format: lockfile.FormatNpm},
		},
		{
			name: "yarn_lockfile_probed_before_npm_lockfile",
			files: map[string][]byte{
				yarnLockPath: []byte(classicYarnLockContentsConstant),
				npmLockPath:  []byte(`{"lockfileVersion":2}`),
			},
			expectedFound:   true,
			expectedDetails: lockfile.Details{FileName: "yarn.lock", Format: lockfile.FormatYarnClassic, Version: "1"},
		},
		{
			name:          "no_lock_artifacts",
			files:         map[string][]byte{},
			expectedFound: false,
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			inspector := lockfile.NewInspector(&stubLockfileReader{files: testCase.files})
			details, found := inspector.Inspect(inspectorProjectDirectoryConstant)
			require.Equal(t, testCase.expectedFound, found)
			require.Equal(t, testCase.expectedDetails, details)
		})
	}
}

func TestDetailsDescribe(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		details  lockfile.Details
		expected string
	}{
		{
			name:     "npm_with_version",
			details:  lockfile.Details{FileName: "package-lock.json", Format: lockfile.FormatNpm, Version: "3"},
			expected: "package-lock.json (lockfileVersion 3)",
		},
		{
			name:     "npm_without_version",
			details:  lockfile.Details{FileName: "package-lock.json", Format: lockfile.FormatNpm},
			expected: "package-lock.json",
		},
		{
			name:     "yarn_classic",
			details:  lockfile.Details{FileName: "yarn.lock", Format: lockfile.FormatYarnClassic, Version: "1"},
			expected: "yarn.lock (classic, lockfile v1)",
		},
		{
			name:     "yarn_berry",
			details:  lockfile.Details{FileName: "yarn.lock", Format: lockfile.FormatYarnBerry, Version: "6"},
			expected: "yarn.lock (berry, metadata version 6)",
		},
		{
			name:     "unrecognized",
			details:  lockfile.Details{FileName: "yarn.lock", Format: lockfile.FormatUnknown},
			expected: "yarn.lock (unrecognized format)",
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, testCase.expected, testCase.details.Describe())
		})
	}
}
