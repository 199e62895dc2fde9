// Package detect determines which JavaScript package manager governs a project directory.
package detect

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// YarnLockFileName is the lock artifact whose presence marks a yarn project.
	YarnLockFileName = "yarn.lock"
	// NpmLockFileName is the lock artifact whose presence marks an npm project.
	NpmLockFileName = "package-lock.json"

	npmDisplayNameConstant                = "npm"
	npmFallbackDisplayNameConstant        = "npm (default)"
	yarnUnknownVersionDisplayNameConstant = "yarn (version unknown)"
	yarnModernDisplayTemplateConstant     = "yarn %s (2+)"
	yarnClassicDisplayTemplateConstant    = "yarn %s (1.x)"

	versionComponentSeparatorConstant = "."
	modernYarnMajorVersionConstant    = 2
)

// Manager identifies a package manager family.
type Manager string

// Supported package managers.
const (
	ManagerNpm  Manager = Manager("npm")
	ManagerYarn Manager = Manager("yarn")
)

// VersionFamily classifies the behavioral family of a detected manager.
type VersionFamily string

// Version families recognized by the detector.
const (
	FamilyNpm         VersionFamily = VersionFamily("npm")
	FamilyYarnClassic VersionFamily = VersionFamily("yarn1")
	FamilyYarnModern  VersionFamily = VersionFamily("yarn2+")
	FamilyUnknown     VersionFamily = VersionFamily("unknown")
)

// PackageManagerInfo describes the manager governing a project directory.
type PackageManagerInfo struct {
	Manager     Manager
	Version     string
	Family      VersionFamily
	DisplayName string
}

// ClassifyYarnVersion maps a yarn version string onto its behavioral family using
// only the integer component before the first dot. Pre-release suffixes never
// influence the outcome, and unparsable input classifies as unknown.
func ClassifyYarnVersion(version string) VersionFamily {
	trimmedVersion := strings.TrimSpace(version)
	if len(trimmedVersion) == 0 {
		return FamilyUnknown
	}

	leadingComponent := trimmedVersion
	if separatorIndex := strings.Index(trimmedVersion, versionComponentSeparatorConstant); separatorIndex >= 0 {
		leadingComponent = trimmedVersion[:separatorIndex]
	}

	majorVersion, parseError := strconv.Atoi(leadingComponent)
	if parseError != nil || majorVersion < 0 {
		return FamilyUnknown
	}
	if majorVersion >= modernYarnMajorVersionConstant {
		return FamilyYarnModern
	}
	return FamilyYarnClassic
}

func yarnPackageManagerInfo(version string) PackageManagerInfo {
	trimmedVersion := strings.TrimSpace(version)
	versionFamily := ClassifyYarnVersion(trimmedVersion)

	info := PackageManagerInfo{Manager: ManagerYarn, Version: trimmedVersion, Family: versionFamily}
	switch versionFamily {
	case FamilyYarnModern:
		info.DisplayName = fmt.Sprintf(yarnModernDisplayTemplateConstant, trimmedVersion)
	case FamilyYarnClassic:
		info.DisplayName = fmt.Sprintf(yarnClassicDisplayTemplateConstant, trimmedVersion)
	default:
		info.Version = ""
		info.DisplayName = yarnUnknownVersionDisplayNameConstant
	}
	return info
}

func npmPackageManagerInfo(fallbackGuess bool) PackageManagerInfo {
	displayName := npmDisplayNameConstant
	if fallbackGuess {
		displayName = npmFallbackDisplayNameConstant
	}
	return PackageManagerInfo{Manager: ManagerNpm, Family: FamilyNpm, DisplayName: displayName}
}
