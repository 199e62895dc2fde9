// Package inspect implements the info command, a read-only summary of a
// project's manifest, detected package manager, workspace members, and lock
// artifact.
package inspect
