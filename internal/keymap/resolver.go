package keymap

import "github.com/lmorel/tremolo/internal/input"

// Resolver turns raw terminal events into actions. Configured bindings are
// consulted first, scoped to the current context; the default table catches
// everything they leave unbound.
type Resolver struct {
	table BindingTable
}

func NewResolver(table BindingTable) *Resolver {
	return &Resolver{table: table}
}

// Resolve returns the action bound to ev in the given context, or false when
// neither the configured table nor the defaults cover it.
func (r *Resolver) Resolve(current Context, ev input.Event) (Action, bool) {
	if a, ok := r.table.Get(current, ev); ok {
		return a, true
	}
	return DefaultAction(ev)
}
