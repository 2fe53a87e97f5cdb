package catalog

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lmorel/tremolo/internal/db"
)

const numWorkers = 8

// ScanProgress reports the progress of a catalog scan.
type ScanProgress struct {
	Phase   string // "scanning", "processing", "cleaning", "done"
	Current int
	Total   int
	Stats   *ScanStats // only populated when Phase == "done"
}

// ScanStats holds counts for a completed scan.
type ScanStats struct {
	Added   int
	Updated int
	Removed int
}

type fileInfo struct {
	path  string
	mtime int64
}

type scanResult struct {
	path  string
	mtime int64
	tags  *trackTags
	isNew bool
}

// Scan walks the source directories, imports new and modified music files
// and drops tracks whose files disappeared. Progress lands on the given
// channel, which is closed when the scan finishes.
func (c *Catalog) Scan(sources []string, progress chan<- ScanProgress) error {
	defer close(progress)

	progress <- ScanProgress{Phase: "scanning"}
	files := discoverFiles(sources, progress)

	existing, err := c.existingTracks(sources)
	if err != nil {
		return err
	}

	toProcess := make([]fileInfo, 0, len(files))
	isNew := make(map[string]bool)
	for _, f := range files {
		if mtime, ok := existing[f.path]; ok && mtime == f.mtime {
			continue // unchanged
		}
		_, existed := existing[f.path]
		isNew[f.path] = !existed
		toProcess = append(toProcess, f)
	}

	stats := &ScanStats{}
	if len(toProcess) > 0 {
		c.processFiles(toProcess, isNew, stats, progress)
	}

	progress <- ScanProgress{Phase: "cleaning"}
	discovered := make(map[string]bool, len(files))
	for _, f := range files {
		discovered[f.path] = true
	}
	var stale []string
	for path := range existing {
		if !discovered[path] {
			stale = append(stale, path)
		}
	}
	removed, err := c.removeTracks(stale)
	if err != nil {
		return err
	}
	stats.Removed = removed

	progress <- ScanProgress{Phase: "done", Current: len(files), Total: len(files), Stats: stats}
	return nil
}

// discoverFiles walks the source directories and returns every music file
// found. Unreadable entries are skipped so one bad directory cannot abort
// the scan.
func discoverFiles(sources []string, progress chan<- ScanProgress) []fileInfo {
	var files []fileInfo
	for _, src := range sources {
		_ = filepath.WalkDir(src, func(path string, d os.DirEntry, walkErr error) error {
			if walkErr != nil {
				return nil //nolint:nilerr // intentionally skipping errors
			}
			if d.IsDir() || !IsMusicFile(path) {
				return nil
			}
			info, infoErr := d.Info()
			if infoErr != nil {
				return nil //nolint:nilerr // intentionally skipping errors
			}
			files = append(files, fileInfo{path: path, mtime: info.ModTime().Unix()})
			if len(files)%100 == 0 {
				progress <- ScanProgress{Phase: "scanning", Current: len(files)}
			}
			return nil
		})
	}
	return files
}

// processFiles reads tags in parallel and upserts the results. Database
// writes stay on this goroutine; SQLite dislikes concurrent writers.
func (c *Catalog) processFiles(files []fileInfo, isNew map[string]bool, stats *ScanStats, progress chan<- ScanProgress) {
	total := len(files)
	var processed atomic.Int64

	workCh := make(chan fileInfo, total)
	resultCh := make(chan scanResult, total)

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for f := range workCh {
				tags, err := readTags(f.path)
				if err != nil || tags.artist == "" || tags.album == "" {
					processed.Add(1)
					continue
				}
				resultCh <- scanResult{path: f.path, mtime: f.mtime, tags: tags, isNew: isNew[f.path]}
				processed.Add(1)
			}
		}()
	}

	go func() {
		for _, f := range files {
			workCh <- f
		}
		close(workCh)
	}()

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				progress <- ScanProgress{Phase: "processing", Current: int(processed.Load()), Total: total}
			case <-done:
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	for r := range resultCh {
		if err := c.upsertTrack(r.path, r.mtime, r.tags); err != nil {
			continue
		}
		if r.isNew {
			stats.Added++
		} else {
			stats.Updated++
		}
	}

	close(done)
	progress <- ScanProgress{Phase: "processing", Current: total, Total: total}
}

// existingTracks returns path to mtime for tracks under the given sources.
func (c *Catalog) existingTracks(sources []string) (map[string]int64, error) {
	rows, err := c.db.Query(`SELECT path, mtime FROM tracks`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	prefixes := make([]string, len(sources))
	for i, src := range sources {
		prefixes[i] = strings.TrimSuffix(src, "/") + "/"
	}

	tracks := make(map[string]int64)
	for rows.Next() {
		var path string
		var mtime int64
		if err := rows.Scan(&path, &mtime); err != nil {
			return nil, err
		}
		for _, prefix := range prefixes {
			if strings.HasPrefix(path, prefix) {
				tracks[path] = mtime
				break
			}
		}
	}
	return tracks, rows.Err()
}

func (c *Catalog) upsertTrack(path string, mtime int64, t *trackTags) error {
	now := time.Now().Unix()
	_, err := c.db.Exec(`
		INSERT INTO tracks (path, mtime, artist, album_artist, album, title, track_number, year, added_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			mtime = excluded.mtime,
			artist = excluded.artist,
			album_artist = excluded.album_artist,
			album = excluded.album,
			title = excluded.title,
			track_number = excluded.track_number,
			year = excluded.year,
			updated_at = excluded.updated_at
	`, path, mtime, t.artist, t.albumArtist, t.album, t.title, t.trackNumber, t.year, now, now)
	return err
}

// removeTracks deletes the given paths in one transaction and returns how
// many rows went away.
func (c *Catalog) removeTracks(paths []string) (int, error) {
	if len(paths) == 0 {
		return 0, nil
	}
	removed := 0
	err := db.WithTx(c.db, func(tx *sql.Tx) error {
		for _, path := range paths {
			res, err := tx.Exec(`DELETE FROM tracks WHERE path = ?`, path)
			if err != nil {
				return err
			}
			if n, _ := res.RowsAffected(); n > 0 {
				removed += int(n)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}
