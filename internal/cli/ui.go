package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// statusOut receives status lines. Command results go to the command's
// output instead, so `dashgrid export > layout.json` stays clean.
var statusOut io.Writer = os.Stderr

var (
	colorAccent = lipgloss.Color("36")  // teal: titles, selection
	colorOK     = lipgloss.Color("35")  // green
	colorWarn   = lipgloss.Color("220") // amber: warnings, drag ghost
	colorCmd    = lipgloss.Color("75")  // light blue
	colorValue  = lipgloss.Color("255")
	colorMuted  = lipgloss.Color("245")
	colorFaint  = lipgloss.Color("240")
)

var (
	// StyleTitle renders the dashboard heading above a grid.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	// StyleHighlight marks the selected widget.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorAccent)
	// StyleDim renders legends, help lines and other secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorFaint)
	// StyleValue renders paths and ids.
	StyleValue = lipgloss.NewStyle().Foreground(colorValue)
	// StyleWarning renders warnings and the drag preview.
	StyleWarning = lipgloss.NewStyle().Foreground(colorWarn)

	styleCommand = lipgloss.NewStyle().Foreground(colorCmd)
)

const (
	iconSuccess = "✓"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// marks pairs each status icon with its colour.
var marks = map[string]lipgloss.Style{
	iconSuccess: lipgloss.NewStyle().Foreground(colorOK),
	iconWarning: lipgloss.NewStyle().Foreground(colorWarn),
	iconInfo:    lipgloss.NewStyle().Foreground(colorMuted),
}

func status(icon, msg string) {
	fmt.Fprintln(statusOut, marks[icon].Render(icon)+" "+msg)
}

func printSuccess(format string, args ...any) {
	status(iconSuccess, fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	status(iconWarning, StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	status(iconInfo, fmt.Sprintf(format, args...))
}

// printDetail prints an indented secondary line under the last status.
func printDetail(format string, args ...any) {
	fmt.Fprintln(statusOut, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile reports a written file.
func printFile(path string) {
	fmt.Fprintln(statusOut, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printNextStep suggests the command to run next.
func printNextStep(description, cmd string) {
	fmt.Fprintln(statusOut, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}
