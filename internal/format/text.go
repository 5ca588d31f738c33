// Package format provides shared text formatting utilities for terminal output.
package format

import (
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"
)

// ansiRegex matches ANSI SGR sequences and OSC 8 hyperlink wrappers.
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m|\x1b]8;;[^\x1b]*\x1b\\`)

// Ellipsis is appended to truncated cells.
const Ellipsis = "…"

// StripAnsi removes ANSI escape sequences from a string.
func StripAnsi(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// DisplayWidth returns the visible width of a string in terminal columns.
// Escape sequences are ignored and emoji presentation sequences
// (base + U+FE0F) count as two columns.
func DisplayWidth(s string) int {
	runes := []rune(StripAnsi(s))
	width := 0
	for i := 0; i < len(runes); i++ {
		if i+1 < len(runes) && runes[i+1] == '\uFE0F' {
			width += 2
			i++
			continue
		}
		if runes[i] == '\uFE0F' {
			continue
		}
		width += runewidth.RuneWidth(runes[i])
	}
	return width
}

// Truncate shortens plain text to at most maxWidth columns, ending with
// Ellipsis when anything was cut. Apply colors after truncating.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if DisplayWidth(s) <= maxWidth {
		return s
	}
	return runewidth.Truncate(s, maxWidth, Ellipsis)
}

// PadRight pads s with spaces to width visible columns.
func PadRight(s string, width int) string {
	if w := DisplayWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// PadLeft right-aligns s within width visible columns.
func PadLeft(s string, width int) string {
	if w := DisplayWidth(s); w < width {
		return strings.Repeat(" ", width-w) + s
	}
	return s
}

// SingleLine collapses newlines and runs of whitespace, as found in
// repository descriptions, into single spaces.
func SingleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
