package render

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Box borders follow the plain single-line drawing set. Widths below 2
// cannot carry a border and render as blank lines.

// BoxTop returns the top border with the title embedded right after the
// corner. The title may carry styling; it is measured ANSI-aware and must
// already fit within width-2 cells.
func BoxTop(title string, width int) string {
	if width < 2 {
		return EmptyLine(max(width, 0))
	}
	fill := width - 2 - ansi.StringWidth(title)
	if fill < 0 {
		fill = 0
	}
	return "┌" + title + strings.Repeat("─", fill) + "┐"
}

// BoxRow wraps a content line in side borders. The content must already be
// exactly width-2 cells wide.
func BoxRow(content string, width int) string {
	if width < 2 {
		return EmptyLine(max(width, 0))
	}
	return "│" + content + "│"
}

// BoxBottom returns the bottom border.
func BoxBottom(width int) string {
	if width < 2 {
		return EmptyLine(max(width, 0))
	}
	return "└" + strings.Repeat("─", width-2) + "┘"
}
