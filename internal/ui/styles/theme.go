// Package styles holds the color palette and pre-built lipgloss styles.
package styles

import "github.com/charmbracelet/lipgloss"

// Theme defines the color palette. The screens stick to the basic ANSI
// colors so they follow the terminal scheme; only the brand gradient uses
// fixed hex endpoints.
type Theme struct {
	Accent lipgloss.Color // pane titles
	Input  lipgloss.Color // typed query text

	// Cursor highlight (inverted row)
	CursorFg lipgloss.Color
	CursorBg lipgloss.Color

	FgMuted lipgloss.Color // status bar, secondary text
	Playing lipgloss.Color // current playlist entry
	Error   lipgloss.Color

	// Brand gradient endpoints
	BrandFrom lipgloss.Color
	BrandTo   lipgloss.Color

	styles *Styles
}

// Styles contains pre-built lipgloss styles for common UI patterns.
type Styles struct {
	Title   lipgloss.Style // pane title in the border
	Input   lipgloss.Style // search query text
	Cursor  lipgloss.Style // row under the cursor
	Muted   lipgloss.Style
	Playing lipgloss.Style
	Error   lipgloss.Style
}

var defaultTheme = Theme{
	Accent: lipgloss.Color("5"), // magenta
	Input:  lipgloss.Color("7"), // gray

	CursorFg: lipgloss.Color("0"),
	CursorBg: lipgloss.Color("7"),

	FgMuted: lipgloss.Color("8"),
	Playing: lipgloss.Color("5"),
	Error:   lipgloss.Color("1"),

	BrandFrom: lipgloss.Color("#a78bfa"),
	BrandTo:   lipgloss.Color("#f1a208"),
}

// T returns the default theme.
func T() *Theme {
	return &defaultTheme
}

// S returns the pre-built styles for this theme.
func (t *Theme) S() *Styles {
	if t.styles == nil {
		t.styles = t.buildStyles()
	}
	return t.styles
}

func (t *Theme) buildStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		Input: lipgloss.NewStyle().Foreground(t.Input).Bold(true),
		Cursor: lipgloss.NewStyle().
			Background(t.CursorBg).
			Foreground(t.CursorFg).
			Bold(true),
		Muted:   lipgloss.NewStyle().Foreground(t.FgMuted),
		Playing: lipgloss.NewStyle().Foreground(t.Playing).Bold(true),
		Error:   lipgloss.NewStyle().Foreground(t.Error),
	}
}

// Brand renders the application name with the brand gradient.
func (t *Theme) Brand(name string) string {
	return ApplyBoldGradient(name, t.BrandFrom, t.BrandTo)
}
