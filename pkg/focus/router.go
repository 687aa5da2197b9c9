package focus

import (
	"fmt"

	"github.com/go-weft/weft/pkg/errors"
)

// RouteKey delivers a key event to the active focus chain. The primary
// holder sees the event first; if it returns KeyEventIgnored the event
// bubbles toward the chain head, offered to each ancestor exactly once.
// An event no node accepts is reported as dropped and KeyEventIgnored
// is returned. Dropped events are never an error for the caller, only
// a diagnostic.
func (r *Registry) RouteKey(event KeyEvent) KeyEventResult {
	chain := r.chain(r.active)
	if len(chain) == 0 {
		r.reportDropped("focus.Registry.RouteKey", "", fmt.Errorf("key %q: no focus holder", event.Key))
		return KeyEventIgnored
	}
	for i := len(chain) - 1; i >= 0; i-- {
		n := r.nodes[chain[i]]
		if n.onKey == nil {
			continue
		}
		if n.onKey(event) == KeyEventHandled {
			return KeyEventHandled
		}
	}
	r.reportDropped("focus.Registry.RouteKey", r.nodes[chain[0]].label,
		fmt.Errorf("key %q rejected by all %d chain nodes", event.Key, len(chain)))
	return KeyEventIgnored
}

// RoutePointer delivers a pointer event to the chain rooted at the
// component the event entered. Unlike key events, pointer delivery
// does not require focus: the entry node is determined upstream, by
// hit-testing or by an explicit target. Bubbling works as for keys.
func (r *Registry) RoutePointer(at NodeID, event PointerEvent) KeyEventResult {
	if !r.valid(at) || !r.nodes[at].enabled {
		r.reportDropped("focus.Registry.RoutePointer", r.Label(at),
			fmt.Errorf("pointer %s: target %d unavailable", event.Phase, at))
		return KeyEventIgnored
	}
	chain := r.chain(at)
	for i := len(chain) - 1; i >= 0; i-- {
		n := r.nodes[chain[i]]
		if n.onPointer == nil {
			continue
		}
		if n.onPointer(event) == KeyEventHandled {
			return KeyEventHandled
		}
	}
	r.reportDropped("focus.Registry.RoutePointer", r.nodes[chain[0]].label,
		fmt.Errorf("pointer %s rejected by all %d chain nodes", event.Phase, len(chain)))
	return KeyEventIgnored
}

// reportDropped routes an unconsumed event to the error handler.
func (r *Registry) reportDropped(op, component string, err error) {
	errors.Report(&errors.WeftError{
		Op:        op,
		Kind:      errors.KindDropped,
		Component: component,
		Err:       err,
	})
}
