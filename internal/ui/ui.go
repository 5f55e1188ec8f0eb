// Package ui holds the terminal colors and small print helpers of the
// domview CLI.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/domview/internal/status"
	"github.com/fatih/color"
)

// Colors
var (
	Brand  = color.New(color.FgHiBlue, color.Bold)
	Subtle = color.New(color.FgHiBlack)
	Warn   = color.New(color.FgYellow)
	Info   = color.New(color.FgCyan)
	Good   = color.New(color.FgGreen)
	Bad    = color.New(color.FgRed)
	Alert  = color.New(color.FgHiWhite, color.BgRed, color.Bold)
)

// Banner prints the command banner.
func Banner(subtitle string) {
	fmt.Printf("%s — %s\n\n", Brand.Sprint("domview"), subtitle)
}

// ForSeverity returns the color for a status severity.
func ForSeverity(sev status.Severity) *color.Color {
	switch sev {
	case status.Success:
		return Good
	case status.Warning:
		return Warn
	case status.Error:
		return Bad
	default:
		return Info
	}
}

// Status prints a status message in its severity color.
func Status(w io.Writer, msg status.Message) {
	ForSeverity(msg.Severity).Fprintln(w, msg.Text)
}

// Fatal prints a blocking alert line for startup failures.
func Fatal(w io.Writer, format string, args ...any) {
	Alert.Fprintf(w, " %s ", fmt.Sprintf(format, args...))
	fmt.Fprintln(w)
}

// Table prints a simple aligned table.
func Table(w io.Writer, headers []string, rows [][]string) {
	if len(rows) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	headerLine := "  "
	sepLine := "  "
	for i, h := range headers {
		headerLine += fmt.Sprintf("%-*s  ", widths[i], h)
		sepLine += strings.Repeat("─", widths[i]) + "  "
	}
	Subtle.Fprintln(w, headerLine)
	Subtle.Fprintln(w, sepLine)

	for _, row := range rows {
		line := "  "
		for i, cell := range row {
			if i < len(widths) {
				line += fmt.Sprintf("%-*s  ", widths[i], cell)
			}
		}
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
}
