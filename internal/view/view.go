// Package view models the four screens of the player and the query,
// cursor and playlist state behind them. It knows nothing about drawing
// or input; the app layer feeds it and the ui layer reads it.
package view

import (
	"unicode/utf8"

	"github.com/lmorel/tremolo/internal/catalog"
	"github.com/lmorel/tremolo/internal/keymap"
)

// Mode identifies the active screen.
type Mode string

const (
	ArtistSearch Mode = "artistsearch"
	AlbumSearch  Mode = "albumsearch"
	TrackList    Mode = "tracklist"
	Playlist     Mode = "playlist"
)

// Valid reports whether m names a known screen.
func (m Mode) Valid() bool {
	switch m {
	case ArtistSearch, AlbumSearch, TrackList, Playlist:
		return true
	}
	return false
}

// Context returns the binding context the screen answers to. Both search
// screens share the search context.
func (m Mode) Context() keymap.Context {
	switch m {
	case TrackList:
		return keymap.TracklistContext()
	case Playlist:
		return keymap.PlaylistContext()
	default:
		return keymap.SearchContext()
	}
}

// List holds one pane's typed query, its items and a cursor over them.
type List[T any] struct {
	Query  string
	items  []T
	cursor int
}

func (l *List[T]) Items() []T { return l.items }

// SetItems replaces the pane content and rewinds the cursor.
func (l *List[T]) SetItems(items []T) {
	l.items = items
	l.cursor = 0
}

func (l *List[T]) Len() int { return len(l.items) }

func (l *List[T]) Cursor() int { return l.cursor }

// SetCursor clamps pos into the current item range.
func (l *List[T]) SetCursor(pos int) {
	if pos <= 0 || l.Len() == 0 {
		l.cursor = 0
		return
	}
	if pos >= l.Len() {
		pos = l.Len() - 1
	}
	l.cursor = pos
}

func (l *List[T]) CursorUp() {
	if l.cursor > 0 {
		l.cursor--
	}
}

func (l *List[T]) CursorDown() {
	if l.Len() != 0 && l.cursor < l.Len()-1 {
		l.cursor++
	}
}

func (l *List[T]) ResetCursor() { l.cursor = 0 }

// Selected returns the item under the cursor.
func (l *List[T]) Selected() (T, bool) {
	var zero T
	if l.Len() == 0 {
		return zero, false
	}
	return l.items[l.cursor], true
}

func (l *List[T]) InsertRune(r rune) { l.Query += string(r) }

// DeleteRune removes the last rune of the query and reports whether there
// was one to remove.
func (l *List[T]) DeleteRune() bool {
	if l.Query == "" {
		return false
	}
	_, size := utf8.DecodeLastRuneInString(l.Query)
	l.Query = l.Query[:len(l.Query)-size]
	return true
}

// PlaylistView is the play queue pane. Current tracks the playing entry,
// independent of where the cursor sits. -1 means nothing is playing.
type PlaylistView struct {
	List[catalog.Track]
	Current int
}

// State is the full screen state: one pane per mode plus which one is
// active and where Backspace returns to.
type State struct {
	mode Mode
	prev Mode // empty when there is nothing to return to

	Artists  List[catalog.Artist]
	Albums   List[catalog.Album]
	Tracks   List[catalog.Track]
	Playlist PlaylistView
}

// NewState opens on the album search screen.
func NewState() *State {
	return &State{
		mode:     AlbumSearch,
		Playlist: PlaylistView{Current: -1},
	}
}

func (s *State) Mode() Mode { return s.mode }

// SetMode jumps straight to a screen, dropping any pending return point.
func (s *State) SetMode(m Mode) {
	s.mode = m
	s.prev = ""
}

// Descend switches to a screen while remembering the current one, so Back
// can restore it.
func (s *State) Descend(m Mode) {
	s.prev = s.mode
	s.mode = m
}

// Back returns to the remembered screen and reports whether there was one.
func (s *State) Back() bool {
	if s.prev == "" {
		return false
	}
	s.mode = s.prev
	s.prev = ""
	return true
}

// SwitchView cycles through the screens in a fixed order.
func (s *State) SwitchView() {
	switch s.mode {
	case ArtistSearch:
		s.SetMode(AlbumSearch)
	case AlbumSearch:
		s.SetMode(TrackList)
	case TrackList:
		s.SetMode(Playlist)
	default:
		s.SetMode(ArtistSearch)
	}
}

// Context returns the binding context of the active screen.
func (s *State) Context() keymap.Context { return s.mode.Context() }

// CursorUp moves the active pane's cursor one row up.
func (s *State) CursorUp() {
	switch s.mode {
	case ArtistSearch:
		s.Artists.CursorUp()
	case AlbumSearch:
		s.Albums.CursorUp()
	case TrackList:
		s.Tracks.CursorUp()
	case Playlist:
		s.Playlist.CursorUp()
	}
}

// CursorDown moves the active pane's cursor one row down.
func (s *State) CursorDown() {
	switch s.mode {
	case ArtistSearch:
		s.Artists.CursorDown()
	case AlbumSearch:
		s.Albums.CursorDown()
	case TrackList:
		s.Tracks.CursorDown()
	case Playlist:
		s.Playlist.CursorDown()
	}
}

// Len returns the number of items in the active pane.
func (s *State) Len() int {
	switch s.mode {
	case ArtistSearch:
		return s.Artists.Len()
	case AlbumSearch:
		return s.Albums.Len()
	case TrackList:
		return s.Tracks.Len()
	case Playlist:
		return s.Playlist.Len()
	}
	return 0
}

// Cursor returns the active pane's cursor position.
func (s *State) Cursor() int {
	switch s.mode {
	case ArtistSearch:
		return s.Artists.Cursor()
	case AlbumSearch:
		return s.Albums.Cursor()
	case TrackList:
		return s.Tracks.Cursor()
	case Playlist:
		return s.Playlist.Cursor()
	}
	return 0
}

// Query returns the active pane's typed query. Only the search screens
// have one.
func (s *State) Query() string {
	switch s.mode {
	case ArtistSearch:
		return s.Artists.Query
	case AlbumSearch:
		return s.Albums.Query
	}
	return ""
}

// InsertRune appends to the active search query. The track list and the
// playlist do not take typed input.
func (s *State) InsertRune(r rune) {
	switch s.mode {
	case ArtistSearch:
		s.Artists.InsertRune(r)
	case AlbumSearch:
		s.Albums.InsertRune(r)
	}
}

// DeleteRune pops the last typed rune and reports whether it did.
func (s *State) DeleteRune() bool {
	switch s.mode {
	case ArtistSearch:
		return s.Artists.DeleteRune()
	case AlbumSearch:
		return s.Albums.DeleteRune()
	}
	return false
}
