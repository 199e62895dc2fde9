// Package cli assembles the depdoctor command tree. It owns the root cobra
// command with its persistent configuration and logging flags, layers
// settings from embedded defaults, configuration files, and environment
// variables, and registers the security, check, update, and info subcommands.
package cli
