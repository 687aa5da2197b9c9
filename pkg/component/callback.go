package component

import "github.com/go-weft/weft/pkg/property"

// Handler receives a callback invocation with its arguments.
type Handler func(args ...property.Value)

// callback is one named signal on an instance. Aliases tie callbacks
// into a peer group that can span any number of wrapper layers; one
// logical invocation anywhere in the group runs every member's
// handler exactly once. The firing latch breaks the propagation loop.
type callback struct {
	name    string
	owner   *Component
	handler Handler
	peers   []*callback
	firing  bool
}

func (cb *callback) invoke(args []property.Value) {
	if cb.firing {
		return
	}
	cb.firing = true
	defer func() { cb.firing = false }()

	if cb.handler != nil {
		cb.handler(args...)
	}
	for _, p := range cb.peers {
		p.invoke(args)
	}
}

func (cb *callback) peered(other *callback) bool {
	for _, p := range cb.peers {
		if p == other {
			return true
		}
	}
	return false
}
