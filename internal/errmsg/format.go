// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Catalog operations
	OpCatalogOpen    Op = "open music catalog"
	OpCatalogScan    Op = "scan music directory"
	OpCatalogImport  Op = "import track"
	OpCatalogSearch  Op = "search catalog"
	OpCatalogRefresh Op = "refresh catalog"

	// Configuration
	OpConfigLoad Op = "load configuration"

	// Player operations
	OpPlayerConnect Op = "connect to player"
	OpPlayerCommand Op = "send player command"
	OpPlayerEnqueue Op = "enqueue track"

	// Playlist operations
	OpPlaylistShow Op = "show playlist"
	OpPlaylistAdd  Op = "add album to playlist"

	// UI state
	OpStateLoad Op = "load saved state"
	OpStateSave Op = "save state"

	// Initialization
	OpInitialize Op = "initialize application"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
