// Package ui renders styled terminal reports and formats human-readable
// command lifecycle messages.
//
// Report styling flows through a Theme of lipgloss styles and degrades to
// plain text when the output is not a terminal, so piped output stays clean
// while detailed telemetry continues to flow through structured loggers.
package ui
