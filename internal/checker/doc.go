// Package checker implements the dependency version workflows behind the
// check and update commands.
//
// check runs npm outdated and classifies every available upgrade by the size
// of the semver jump. update rewrites the dependency ranges in package.json
// through the npm-check-updates tool and prints the resulting manifest
// changes, or previews them when dry-run is requested.
package checker
