// Package execshell runs the npm, yarn, and npm-check-updates executables
// behind typed commands.
//
// ShellExecutor wraps os/exec with structured logging and lifecycle event
// notifications, while OSCommandRunner performs the actual process spawning.
// Callers depend on the executor interfaces so tests can script tool output
// without touching a real package manager.
package execshell
