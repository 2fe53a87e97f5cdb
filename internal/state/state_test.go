package state

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

// setupTestDB creates an in-memory SQLite database with the schema initialized.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		t.Fatalf("failed to init schema: %v", err)
	}

	return db
}

func TestGetView_Empty(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	view, err := getView(db)
	if err != nil {
		t.Fatalf("getView failed: %v", err)
	}
	if view != nil {
		t.Errorf("expected nil view on empty db, got %+v", view)
	}
}

func TestSaveAndGetView(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	state := ViewState{
		View:        "albumsearch",
		SearchQuery: "pink floyd",
		Cursor:      7,
	}

	if err := saveView(db, state); err != nil {
		t.Fatalf("saveView failed: %v", err)
	}

	retrieved, err := getView(db)
	if err != nil {
		t.Fatalf("getView failed: %v", err)
	}
	if retrieved == nil {
		t.Fatal("expected non-nil view state")
	}

	if retrieved.View != state.View {
		t.Errorf("View = %q, want %q", retrieved.View, state.View)
	}
	if retrieved.SearchQuery != state.SearchQuery {
		t.Errorf("SearchQuery = %q, want %q", retrieved.SearchQuery, state.SearchQuery)
	}
	if retrieved.Cursor != state.Cursor {
		t.Errorf("Cursor = %d, want %d", retrieved.Cursor, state.Cursor)
	}
}

func TestSaveView_Update(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	state1 := ViewState{View: "artistsearch", SearchQuery: "beatles"}
	if err := saveView(db, state1); err != nil {
		t.Fatalf("saveView failed: %v", err)
	}

	state2 := ViewState{View: "playlist", Cursor: 3}
	if err := saveView(db, state2); err != nil {
		t.Fatalf("saveView failed: %v", err)
	}

	retrieved, err := getView(db)
	if err != nil {
		t.Fatalf("getView failed: %v", err)
	}
	if retrieved.View != "playlist" {
		t.Errorf("View = %q, want playlist", retrieved.View)
	}
	if retrieved.SearchQuery != "" {
		t.Errorf("SearchQuery = %q, want empty", retrieved.SearchQuery)
	}
	if retrieved.Cursor != 3 {
		t.Errorf("Cursor = %d, want 3", retrieved.Cursor)
	}

	// Still a single row
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM ui_state`).Scan(&count); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 row, got %d", count)
	}
}

func TestManager_GetView(t *testing.T) {
	db := setupTestDB(t)
	m := &Manager{db: db}
	defer db.Close()

	if err := saveView(db, ViewState{View: "tracklist", Cursor: 12}); err != nil {
		t.Fatalf("saveView failed: %v", err)
	}

	view, err := m.GetView()
	if err != nil {
		t.Fatalf("GetView failed: %v", err)
	}
	if view == nil || view.View != "tracklist" || view.Cursor != 12 {
		t.Errorf("unexpected view state: %+v", view)
	}
}

func TestManager_SaveViewDebounces(t *testing.T) {
	// The debounced flush runs on a timer goroutine; a file-backed database
	// keeps it visible to the polling reads below.
	path := filepath.Join(t.TempDir(), "state.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := initSchema(db); err != nil {
		db.Close()
		t.Fatalf("failed to init schema: %v", err)
	}
	m := &Manager{db: db}
	defer db.Close()

	// Rapid saves: only the last one should ever land
	for i := 0; i < 10; i++ {
		m.SaveView(ViewState{View: "albumsearch", Cursor: i})
	}

	// Nothing written before the debounce window elapses
	view, err := getView(db)
	if err != nil {
		t.Fatalf("getView failed: %v", err)
	}
	if view != nil {
		t.Errorf("expected no write before debounce, got %+v", view)
	}

	deadline := time.After(2 * time.Second)
	for {
		view, err = getView(db)
		if err != nil {
			t.Fatalf("getView failed: %v", err)
		}
		if view != nil {
			break
		}
		select {
		case <-deadline:
			t.Fatal("debounced save never happened")
		case <-time.After(50 * time.Millisecond):
		}
	}

	if view.Cursor != 9 {
		t.Errorf("Cursor = %d, want the last saved value 9", view.Cursor)
	}
}

func TestManager_CloseFlushesPending(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := initSchema(db); err != nil {
		db.Close()
		t.Fatalf("failed to init schema: %v", err)
	}

	m := &Manager{db: db}
	m.SaveView(ViewState{View: "playlist", Cursor: 4})

	// Close before the debounce fires; the pending state must still land
	if err := m.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to reopen db: %v", err)
	}
	defer reopened.Close()

	view, err := getView(reopened)
	if err != nil {
		t.Fatalf("getView failed: %v", err)
	}
	if view == nil || view.View != "playlist" || view.Cursor != 4 {
		t.Errorf("pending state was not flushed: %+v", view)
	}
}

func TestManager_DB(t *testing.T) {
	db := setupTestDB(t)
	m := &Manager{db: db}
	defer db.Close()

	if m.DB() != db {
		t.Error("DB() did not return the underlying handle")
	}
}

func TestGetPlaylist_Empty(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ids, err := getPlaylist(db)
	if err != nil {
		t.Fatalf("getPlaylist failed: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("expected empty playlist, got %v", ids)
	}
}

func TestSaveAndGetPlaylist(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if err := savePlaylist(db, []int64{5, 3, 8}); err != nil {
		t.Fatalf("savePlaylist failed: %v", err)
	}

	ids, err := getPlaylist(db)
	if err != nil {
		t.Fatalf("getPlaylist failed: %v", err)
	}
	if len(ids) != 3 || ids[0] != 5 || ids[1] != 3 || ids[2] != 8 {
		t.Errorf("got %v, want [5 3 8]", ids)
	}

	// A later save replaces the whole list
	if err := savePlaylist(db, []int64{1}); err != nil {
		t.Fatalf("savePlaylist failed: %v", err)
	}
	ids, err = getPlaylist(db)
	if err != nil {
		t.Fatalf("getPlaylist failed: %v", err)
	}
	if len(ids) != 1 || ids[0] != 1 {
		t.Errorf("got %v, want [1]", ids)
	}

	// Saving nil clears it
	if err := savePlaylist(db, nil); err != nil {
		t.Fatalf("savePlaylist failed: %v", err)
	}
	ids, err = getPlaylist(db)
	if err != nil {
		t.Fatalf("getPlaylist failed: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("got %v, want empty", ids)
	}
}

func TestManager_SavePlaylistFlushedOnClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := initSchema(db); err != nil {
		db.Close()
		t.Fatalf("failed to init schema: %v", err)
	}

	m := &Manager{db: db}
	m.SavePlaylist([]int64{7, 9})
	m.SaveView(ViewState{View: "tracklist", Cursor: 2})

	if err := m.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to reopen db: %v", err)
	}
	defer reopened.Close()

	ids, err := getPlaylist(reopened)
	if err != nil {
		t.Fatalf("getPlaylist failed: %v", err)
	}
	if len(ids) != 2 || ids[0] != 7 || ids[1] != 9 {
		t.Errorf("playlist was not flushed: %v", ids)
	}
	view, err := getView(reopened)
	if err != nil {
		t.Fatalf("getView failed: %v", err)
	}
	if view == nil || view.View != "tracklist" {
		t.Errorf("view was not flushed: %+v", view)
	}
}
