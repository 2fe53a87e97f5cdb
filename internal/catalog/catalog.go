// Package catalog stores the local music library in SQLite and answers the
// artist, album and track queries behind the search views.
package catalog

import (
	"database/sql"
	"strings"
)

type Artist struct {
	Name string
}

type Album struct {
	Artist string
	Title  string
	Year   int
}

type Track struct {
	ID          int64
	Path        string
	Artist      string
	AlbumArtist string
	Album       string
	Title       string
	TrackNumber int
	Year        int
}

type Catalog struct {
	db *sql.DB
}

func New(db *sql.DB) *Catalog {
	return &Catalog{db: db}
}

// Artists returns album artists matching query, or all of them when query
// is empty, sorted case-insensitively.
func (c *Catalog) Artists(query string) ([]Artist, error) {
	rows, err := c.db.Query(`
		SELECT DISTINCT album_artist FROM tracks
		WHERE ? = '' OR album_artist LIKE ? ESCAPE '\'
		ORDER BY album_artist COLLATE NOCASE
	`, query, likePattern(query))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var artists []Artist
	for rows.Next() {
		var a Artist
		if err := rows.Scan(&a.Name); err != nil {
			return nil, err
		}
		artists = append(artists, a)
	}
	return artists, rows.Err()
}

// Albums returns albums whose title or artist matches query, or every album
// when query is empty. Albums sort by artist, then year with unknown years
// last, then title.
func (c *Catalog) Albums(query string) ([]Album, error) {
	pattern := likePattern(query)
	rows, err := c.db.Query(`
		SELECT album_artist, album, MAX(year) AS year
		FROM tracks
		WHERE ? = '' OR album LIKE ? ESCAPE '\' OR album_artist LIKE ? ESCAPE '\'
		GROUP BY album_artist, album
		ORDER BY album_artist COLLATE NOCASE, (year IS NULL OR year = 0), year, album COLLATE NOCASE
	`, query, pattern, pattern)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAlbums(rows)
}

// ArtistAlbums returns the albums credited to one album artist, oldest
// first with unknown years last.
func (c *Catalog) ArtistAlbums(artist string) ([]Album, error) {
	rows, err := c.db.Query(`
		SELECT album_artist, album, MAX(year) AS year
		FROM tracks
		WHERE album_artist = ?
		GROUP BY album
		ORDER BY (year IS NULL OR year = 0), year, album COLLATE NOCASE
	`, artist)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAlbums(rows)
}

func collectAlbums(rows *sql.Rows) ([]Album, error) {
	var albums []Album
	for rows.Next() {
		var a Album
		var year sql.NullInt64
		if err := rows.Scan(&a.Artist, &a.Title, &year); err != nil {
			return nil, err
		}
		a.Year = int(year.Int64)
		albums = append(albums, a)
	}
	return albums, rows.Err()
}

// AlbumTracks returns an album's tracks in track order.
func (c *Catalog) AlbumTracks(artist, album string) ([]Track, error) {
	rows, err := c.db.Query(`
		SELECT id, path, artist, album_artist, album, title, track_number, year
		FROM tracks
		WHERE album_artist = ? AND album = ?
		ORDER BY track_number, title COLLATE NOCASE
	`, artist, album)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTracks(rows)
}

// SearchTracks returns tracks whose title matches query, or every track
// when query is empty, sorted by title.
func (c *Catalog) SearchTracks(query string) ([]Track, error) {
	rows, err := c.db.Query(`
		SELECT id, path, artist, album_artist, album, title, track_number, year
		FROM tracks
		WHERE ? = '' OR title LIKE ? ESCAPE '\'
		ORDER BY title COLLATE NOCASE
	`, query, likePattern(query))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTracks(rows)
}

// TracksByID resolves tracks by ID, preserving the order of ids. IDs that
// are no longer in the catalog are skipped.
func (c *Catalog) TracksByID(ids []int64) ([]Track, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := c.db.Query(`
		SELECT id, path, artist, album_artist, album, title, track_number, year
		FROM tracks
		WHERE id IN (`+placeholders+`)
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	found, err := collectTracks(rows)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]Track, len(found))
	for _, t := range found {
		byID[t.ID] = t
	}
	tracks := make([]Track, 0, len(ids))
	for _, id := range ids {
		if t, ok := byID[id]; ok {
			tracks = append(tracks, t)
		}
	}
	return tracks, nil
}

func collectTracks(rows *sql.Rows) ([]Track, error) {
	var tracks []Track
	for rows.Next() {
		var t Track
		var trackNum, year sql.NullInt64
		if err := rows.Scan(&t.ID, &t.Path, &t.Artist, &t.AlbumArtist, &t.Album, &t.Title, &trackNum, &year); err != nil {
			return nil, err
		}
		t.TrackNumber = int(trackNum.Int64)
		t.Year = int(year.Int64)
		tracks = append(tracks, t)
	}
	return tracks, rows.Err()
}

func (c *Catalog) TrackCount() (int, error) {
	var count int
	err := c.db.QueryRow(`SELECT COUNT(*) FROM tracks`).Scan(&count)
	return count, err
}

func (c *Catalog) AlbumCount() (int, error) {
	var count int
	err := c.db.QueryRow(`SELECT COUNT(DISTINCT album_artist || album) FROM tracks`).Scan(&count)
	return count, err
}

func (c *Catalog) ArtistCount() (int, error) {
	var count int
	err := c.db.QueryRow(`SELECT COUNT(DISTINCT album_artist) FROM tracks`).Scan(&count)
	return count, err
}

// likePattern wraps query for a substring LIKE match, escaping the LIKE
// metacharacters in it.
func likePattern(query string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(query) + "%"
}
