package keymap

import (
	"sort"

	"github.com/lmorel/tremolo/internal/input"
)

// ContextedAction pairs an Action with the Context it is bound in; one per
// configuration entry.
type ContextedAction struct {
	Context Context
	Action  Action
}

// BindingTable maps events to their candidate actions, ordered by the fixed
// context order. It is built once from configuration and read-only
// afterwards; changing bindings means building a replacement table.
type BindingTable struct {
	entries map[input.Event][]ContextedAction
}

// NewBindingTable builds a table from raw per-event binding lists. Each list
// is stable-sorted ascending by Context.Less, entries with invalid contexts
// are dropped, adjacent exact duplicates are removed, and events whose list
// empties are pruned.
func NewBindingTable(raw map[input.Event][]ContextedAction) BindingTable {
	entries := make(map[input.Event][]ContextedAction, len(raw))
	for ev, list := range raw {
		sorted := make([]ContextedAction, len(list))
		copy(sorted, list)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Context.Less(sorted[j].Context)
		})
		kept := make([]ContextedAction, 0, len(sorted))
		for _, ca := range sorted {
			if !ca.Context.Valid() {
				continue
			}
			if n := len(kept); n > 0 && kept[n-1] == ca {
				continue
			}
			kept = append(kept, ca)
		}
		if len(kept) == 0 {
			continue
		}
		entries[ev] = kept
	}
	return BindingTable{entries: entries}
}

// Get scans ev's sorted list and returns the action of the first entry whose
// context subsumes current.
func (t BindingTable) Get(current Context, ev input.Event) (Action, bool) {
	for _, ca := range t.entries[ev] {
		if current.Within(ca.Context) {
			return ca.Action, true
		}
	}
	return Action{}, false
}

// Len returns the number of bound events.
func (t BindingTable) Len() int { return len(t.entries) }
