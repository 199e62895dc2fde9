package cli

import _ "embed"

// The baseline configuration ships inside the binary so a bare depdoctor
// invocation works without any file on disk.
//
//go:embed default_config.yaml
var defaultConfigurationDocument []byte

// EmbeddedDefaultConfiguration returns a copy of the embedded baseline
// configuration together with its viper type identifier.
func EmbeddedDefaultConfiguration() ([]byte, string) {
	return append([]byte(nil), defaultConfigurationDocument...), configurationFileTypeConstant
}
