// Package state owns the application database under the XDG data directory.
// It persists the imported track catalog, the playlist and the last UI
// position, so the player reopens where it was left.
package state

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite" // SQLite driver
)

const (
	appName      = "tremolo"
	dbFileName   = "tremolo.db"
	saveDebounce = 500 * time.Millisecond
)

type Manager struct {
	db        *sql.DB
	saveMu    sync.Mutex
	saveTimer *time.Timer

	pendingView     *ViewState
	pendingPlaylist []int64
	playlistDirty   bool
}

// Open opens the database at its XDG location, creating it on first run.
func Open() (*Manager, error) {
	dbPath, err := getDBPath()
	if err != nil {
		return nil, err
	}
	return OpenAt(dbPath)
}

// OpenAt opens or creates the database at an explicit path.
func OpenAt(path string) (*Manager, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Manager{db: db}, nil
}

func (m *Manager) Close() error {
	m.saveMu.Lock()
	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}
	m.saveMu.Unlock()

	// Flush pending state
	m.flush()

	return m.db.Close()
}

func (m *Manager) GetView() (*ViewState, error) {
	return getView(m.db)
}

// GetPlaylist returns the saved playlist track IDs in order.
func (m *Manager) GetPlaylist() ([]int64, error) {
	return getPlaylist(m.db)
}

func (m *Manager) DB() *sql.DB {
	return m.db
}

// SaveView schedules a debounced write of the UI position. Rapid cursor
// movement collapses into a single write.
func (m *Manager) SaveView(state ViewState) {
	m.saveMu.Lock()
	defer m.saveMu.Unlock()
	m.pendingView = &state
	m.schedule()
}

// SavePlaylist schedules a debounced write of the playlist track IDs.
func (m *Manager) SavePlaylist(ids []int64) {
	m.saveMu.Lock()
	defer m.saveMu.Unlock()
	m.pendingPlaylist = ids
	m.playlistDirty = true
	m.schedule()
}

// schedule arms the debounce timer. Caller holds saveMu.
func (m *Manager) schedule() {
	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}
	m.saveTimer = time.AfterFunc(saveDebounce, m.flush)
}

func (m *Manager) flush() {
	m.saveMu.Lock()
	pendingView := m.pendingView
	pendingPlaylist := m.pendingPlaylist
	playlistDirty := m.playlistDirty
	m.pendingView = nil
	m.pendingPlaylist = nil
	m.playlistDirty = false
	m.saveMu.Unlock()

	if pendingView != nil {
		_ = saveView(m.db, *pendingView)
	}
	if playlistDirty {
		_ = savePlaylist(m.db, pendingPlaylist)
	}
}

func getDBPath() (string, error) {
	return xdg.DataFile(filepath.Join(appName, dbFileName))
}
