// Package audit implements the dependency vulnerability workflow behind the
// security command.
//
// It exposes CommandBuilder for wiring the security Cobra command and Service
// for driving the workflow programmatically. The service reads the root
// manifest, detects the governing package manager, resolves workspace members,
// and audits each directory in turn, preferring yarn audit for yarn projects
// and falling back to npm audit when yarn cannot produce a result.
package audit
