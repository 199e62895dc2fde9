package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// ColorEnabled reports whether styled output should be written to the file.
func ColorEnabled(file *os.File) bool {
	if file == nil {
		return false
	}
	return isatty.IsTerminal(file.Fd())
}

// Renderer writes styled report lines for terminal users. Styling is dropped
// entirely when color is disabled, keeping piped output clean.
type Renderer struct {
	out      io.Writer
	theme    Theme
	useColor bool
}

// NewRenderer constructs a Renderer targeting the provided writer.
func NewRenderer(out io.Writer, theme Theme, useColor bool) *Renderer {
	return &Renderer{out: out, theme: theme, useColor: useColor}
}

// Header writes a bold section heading.
func (renderer *Renderer) Header(text string) {
	renderer.writeLine(renderer.style(text, renderer.theme.Header))
}

// Blank writes an empty line.
func (renderer *Renderer) Blank() {
	fmt.Fprintln(renderer.out)
}

// Line writes an unstyled line.
func (renderer *Renderer) Line(text string) {
	renderer.writeLine(text)
}

// Success writes a line in the success style.
func (renderer *Renderer) Success(text string) {
	renderer.writeLine(renderer.style(text, renderer.theme.Success))
}

// Warn writes a line in the warning style.
func (renderer *Renderer) Warn(text string) {
	renderer.writeLine(renderer.style(text, renderer.theme.Warn))
}

// Error writes a line in the error style.
func (renderer *Renderer) Error(text string) {
	renderer.writeLine(renderer.style(text, renderer.theme.Error))
}

// Muted writes a line in the muted style.
func (renderer *Renderer) Muted(text string) {
	renderer.writeLine(renderer.style(text, renderer.theme.Muted))
}

// SeverityLabel returns the severity token styled for embedding in report rows.
func (renderer *Renderer) SeverityLabel(severity string) string {
	return renderer.style(severity, renderer.theme.SeverityStyle(severity))
}

// SuccessLabel returns the text styled for success without writing it.
func (renderer *Renderer) SuccessLabel(text string) string {
	return renderer.style(text, renderer.theme.Success)
}

// WarnLabel returns the text styled for warnings without writing it.
func (renderer *Renderer) WarnLabel(text string) string {
	return renderer.style(text, renderer.theme.Warn)
}

// ErrorLabel returns the text styled for errors without writing it.
func (renderer *Renderer) ErrorLabel(text string) string {
	return renderer.style(text, renderer.theme.Error)
}

// MutedLabel returns the text styled as muted without writing it.
func (renderer *Renderer) MutedLabel(text string) string {
	return renderer.style(text, renderer.theme.Muted)
}

// Raw writes pre-formatted multi-line tool output without styling, trimming a
// single trailing newline so surrounding spacing stays consistent.
func (renderer *Renderer) Raw(text string) {
	trimmedText := strings.TrimRight(text, "\n")
	if len(trimmedText) == 0 {
		return
	}
	for _, outputLine := range strings.Split(trimmedText, "\n") {
		renderer.writeLine(outputLine)
	}
}

func (renderer *Renderer) style(text string, style lipgloss.Style) string {
	if !renderer.useColor {
		return text
	}
	return style.Render(text)
}

func (renderer *Renderer) writeLine(text string) {
	fmt.Fprintln(renderer.out, strings.TrimRight(text, "\n"))
}
