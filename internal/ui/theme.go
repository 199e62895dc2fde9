package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Severity labels npm assigns to vulnerability findings.
const (
	severityLowLabelConstant      = "low"
	severityModerateLabelConstant = "moderate"
	severityHighLabelConstant     = "high"
	severityCriticalLabelConstant = "critical"
)

// Theme bundles the styles applied to terminal reports.
type Theme struct {
	Header           lipgloss.Style
	Success          lipgloss.Style
	Warn             lipgloss.Style
	Error            lipgloss.Style
	Muted            lipgloss.Style
	SeverityLow      lipgloss.Style
	SeverityModerate lipgloss.Style
	SeverityHigh     lipgloss.Style
	SeverityCritical lipgloss.Style
}

// DefaultTheme returns the standard depdoctor styling.
func DefaultTheme() Theme {
	return Theme{
		Header:           lipgloss.NewStyle().Bold(true),
		Success:          lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		Warn:             lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		Error:            lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		Muted:            lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		SeverityLow:      lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		SeverityModerate: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		SeverityHigh:     lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		SeverityCritical: lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true),
	}
}

// SeverityStyle maps an npm severity label onto its display style. Unrecognized
// labels render muted.
func (theme Theme) SeverityStyle(severity string) lipgloss.Style {
	switch strings.ToLower(strings.TrimSpace(severity)) {
	case severityCriticalLabelConstant:
		return theme.SeverityCritical
	case severityHighLabelConstant:
		return theme.SeverityHigh
	case severityModerateLabelConstant:
		return theme.SeverityModerate
	case severityLowLabelConstant:
		return theme.SeverityLow
	default:
		return theme.Muted
	}
}
