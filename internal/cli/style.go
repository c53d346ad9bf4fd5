// style.go defines the lipgloss styles for human-readable output.
// Status markers go through these so every command reports success and
// failure with the same visual language.
package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	styleOK     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	styleFail   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	styleHeader = lipgloss.NewStyle().Bold(true)
	styleDim    = lipgloss.NewStyle().Faint(true)
)

// okMark and failMark are the rendered status glyphs.
func okMark() string   { return styleOK.Render("✓") }
func failMark() string { return styleFail.Render("✗") }

// statusLine prints a marker plus message to stderr. Status chatter stays
// off stdout, which belongs to command (and agent) output.
func statusLine(ok bool, format string, args ...interface{}) {
	mark := okMark()
	if !ok {
		mark = failMark()
	}
	fmt.Fprintf(os.Stderr, "%s %s\n", mark, fmt.Sprintf(format, args...))
}

// header prints a bold section heading to stdout.
func header(s string) {
	fmt.Println(styleHeader.Render(s))
}
