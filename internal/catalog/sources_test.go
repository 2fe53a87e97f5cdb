package catalog

import (
	"testing"
)

func TestSources_Empty(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	cat := New(db)

	sources, err := cat.Sources()
	if err != nil {
		t.Fatalf("Sources failed: %v", err)
	}
	if len(sources) != 0 {
		t.Errorf("expected 0 sources, got %d", len(sources))
	}
}

func TestAddSource(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	cat := New(db)

	if err := cat.AddSource("/music"); err != nil {
		t.Fatalf("AddSource failed: %v", err)
	}
	if err := cat.AddSource("/more/music"); err != nil {
		t.Fatalf("AddSource failed: %v", err)
	}

	// Adding the same path again is a no-op
	if err := cat.AddSource("/music"); err != nil {
		t.Fatalf("AddSource duplicate failed: %v", err)
	}

	sources, err := cat.Sources()
	if err != nil {
		t.Fatalf("Sources failed: %v", err)
	}
	if len(sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(sources))
	}
	if sources[0] != "/music" || sources[1] != "/more/music" {
		t.Errorf("unexpected sources: %v", sources)
	}
}

func TestRemoveSource(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	cat := New(db)

	if err := cat.AddSource("/music"); err != nil {
		t.Fatalf("AddSource failed: %v", err)
	}
	_, err := db.Exec(`
		INSERT INTO tracks (path, mtime, artist, album_artist, album, title, track_number, year, added_at, updated_at)
		VALUES
			('/music/a.mp3', 1000, 'A', 'A', 'X', 'One', 1, 2000, 1000, 1000),
			('/musical/b.mp3', 1000, 'B', 'B', 'Y', 'Two', 1, 2000, 1000, 1000)
	`)
	if err != nil {
		t.Fatalf("failed to insert tracks: %v", err)
	}

	if err := cat.RemoveSource("/music"); err != nil {
		t.Fatalf("RemoveSource failed: %v", err)
	}

	sources, err := cat.Sources()
	if err != nil {
		t.Fatalf("Sources failed: %v", err)
	}
	if len(sources) != 0 {
		t.Errorf("expected 0 sources, got %d", len(sources))
	}

	// Only tracks strictly under /music/ go away; /musical/ is a
	// different directory
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM tracks WHERE path = '/music/a.mp3'`).Scan(&count); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("track under removed source survived")
	}
	if err := db.QueryRow(`SELECT COUNT(*) FROM tracks WHERE path = '/musical/b.mp3'`).Scan(&count); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("track outside removed source was deleted")
	}
}
