// Package render provides width-aware text helpers for frame composition.
// All widths are terminal cells, not bytes or runes.
package render

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// Sanitize strips control characters and invalid UTF-8 from a string so it
// can be written into a frame without corrupting the terminal. Tabs become
// single spaces, non-breaking spaces become regular spaces.
func Sanitize(s string) string {
	if !needsSanitize(s) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\t':
			b.WriteRune(' ')
		case r == '\u00a0':
			b.WriteRune(' ')
		case r < 0x20 || r == 0x7f:
			// C0 controls and DEL
		case r >= 0x80 && r <= 0x9f:
			// C1 controls
		case r == utf8.RuneError:
			b.WriteRune('?')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func needsSanitize(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 0x20 || c >= 0x7f {
			return true
		}
	}
	return false
}

// Truncate shortens a string to fit maxWidth cells, appending an ellipsis
// when anything was cut.
func Truncate(s string, maxWidth int) string {
	s = Sanitize(s)
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	return runewidth.Truncate(s, maxWidth, "…")
}

// Pad right-pads a string with spaces to the given cell width. Strings
// already at or past the width are returned unchanged.
func Pad(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// TruncateAndPad produces a string of exactly width cells.
func TruncateAndPad(s string, width int) string {
	return Pad(Truncate(s, width), width)
}

// Center pads a string on both sides to the given cell width. Odd leftover
// space goes to the right.
func Center(s string, width int) string {
	s = Truncate(s, width)
	gap := width - runewidth.StringWidth(s)
	if gap <= 0 {
		return s
	}
	left := gap / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", gap-left)
}

// Row joins a left and right segment into a single line of exactly width
// cells, with at least one space between them. The right segment wins space
// when both do not fit.
func Row(left, right string, width int) string {
	right = Truncate(right, width)
	rightWidth := runewidth.StringWidth(right)
	leftSpace := width - rightWidth - 1
	if leftSpace < 0 {
		leftSpace = 0
	}
	left = TruncateAndPad(left, leftSpace)
	return left + " " + right
}

// Separator returns a horizontal line of the given cell width.
func Separator(width int) string {
	return strings.Repeat("─", width)
}

// EmptyLine returns a blank line of the given cell width.
func EmptyLine(width int) string {
	return strings.Repeat(" ", width)
}
