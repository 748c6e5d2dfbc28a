package prompt

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Palette holds the installer's terminal styles.
type Palette struct {
	Title   lipgloss.Style
	Warn    lipgloss.Style
	Success lipgloss.Style
	Hint    lipgloss.Style
}

// Styles is the palette used for all operator-facing output.
var Styles = Palette{
	Title:   lipgloss.NewStyle().Bold(true),
	Warn:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
	Success: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
	Hint:    lipgloss.NewStyle().Foreground(lipgloss.Color("#6e7681")),
}

// Warn prints msg in the warning style.
func Warn(w io.Writer, msg string) {
	fmt.Fprintln(w, Styles.Warn.Render(msg))
}

// Success prints msg in the success style.
func Success(w io.Writer, msg string) {
	fmt.Fprintln(w, Styles.Success.Render(msg))
}

// Title prints msg in the title style.
func Title(w io.Writer, msg string) {
	fmt.Fprintln(w, Styles.Title.Render(msg))
}
