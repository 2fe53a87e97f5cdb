// Package keymap resolves decoded terminal events into application actions.
// Bindings are scoped to interaction modes through Context values, sorted by
// a fixed specificity order, and backed by a context-agnostic default table.
package keymap

import "strings"

// Context describes which interaction modes a binding applies to, or which
// single mode the application is currently in. A valid Context has at least
// one facet set; the all-false value is rejected when tables are built.
type Context struct {
	Search    bool
	Tracklist bool
	Playlist  bool
}

// SearchContext returns the context selecting only search mode.
func SearchContext() Context { return Context{Search: true} }

// TracklistContext returns the context selecting only tracklist mode.
func TracklistContext() Context { return Context{Tracklist: true} }

// PlaylistContext returns the context selecting only playlist mode.
func PlaylistContext() Context { return Context{Playlist: true} }

// AllContexts returns the context selecting every mode.
func AllContexts() Context {
	return Context{Search: true, Tracklist: true, Playlist: true}
}

// Valid reports whether at least one facet is set.
func (c Context) Valid() bool {
	return c.Search || c.Tracklist || c.Playlist
}

// Within reports whether every facet set in c is also set in other. A
// runtime context matches a binding's context exactly when it is Within it.
func (c Context) Within(other Context) bool {
	return (!c.Search || other.Search) &&
		(!c.Tracklist || other.Tracklist) &&
		(!c.Playlist || other.Playlist)
}

// Less orders contexts lexicographically over (Search, Tracklist, Playlist)
// with false before true. Binding lists are sorted by this exact order and
// resolution takes the first match, so it is authoritative for tie-breaking
// between overlapping mode sets, not a mere sort convenience.
func (c Context) Less(other Context) bool {
	if c.Search != other.Search {
		return !c.Search
	}
	if c.Tracklist != other.Tracklist {
		return !c.Tracklist
	}
	return !c.Playlist && other.Playlist
}

func (c Context) String() string {
	var parts []string
	if c.Search {
		parts = append(parts, "search")
	}
	if c.Tracklist {
		parts = append(parts, "tracklist")
	}
	if c.Playlist {
		parts = append(parts, "playlist")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}
