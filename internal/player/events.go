package player

import "time"

// StateChange is emitted when the playback state changes.
type StateChange struct {
	Previous State
	Current  State
}

// TrackChange is emitted when mpv moves to a different playlist entry, or
// when the title of the current entry becomes known. Index is the playlist
// position, -1 when nothing is loaded.
type TrackChange struct {
	Index int
	Title string
	Path  string
}

// PositionChange is emitted as the playback position advances.
type PositionChange struct {
	Position time.Duration
	Duration time.Duration
}

// TrackInfo describes what mpv is currently playing.
type TrackInfo struct {
	Index    int
	Title    string
	Path     string
	Duration time.Duration
}
