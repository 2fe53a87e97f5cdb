package state

import (
	"database/sql"
	"errors"

	dbutil "github.com/lmorel/tremolo/internal/db"
)

// ViewState records where the UI was: the active view, the text typed into
// its search buffer and the cursor position in its list.
type ViewState struct {
	View        string // "artistsearch", "albumsearch", "tracklist" or "playlist"
	SearchQuery string
	Cursor      int
}

func getView(db *sql.DB) (*ViewState, error) {
	row := db.QueryRow(`
		SELECT view, search_query, cursor FROM ui_state WHERE id = 1
	`)

	var state ViewState
	var searchQuery sql.NullString

	err := row.Scan(&state.View, &searchQuery, &state.Cursor)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil //nolint:nilnil // no saved state is valid on first run
	}
	if err != nil {
		return nil, err
	}

	state.SearchQuery = dbutil.NullStringValue(searchQuery)
	return &state, nil
}

func saveView(db *sql.DB, state ViewState) error {
	_, err := db.Exec(`
		INSERT INTO ui_state (id, view, search_query, cursor)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			view = excluded.view,
			search_query = excluded.search_query,
			cursor = excluded.cursor
	`, state.View, state.SearchQuery, state.Cursor)

	return err
}
