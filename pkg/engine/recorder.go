package engine

import "github.com/go-weft/weft/pkg/property"

// Recorder observes the runtime's cascades: one Cascade call per queue
// entry, then one Transition call per committed value change it
// caused, in notification order. Implementations must not call back
// into the Runtime.
//
// The trace package provides a SQLite-backed implementation; tests use
// in-memory ones.
type Recorder interface {
	Cascade(seq uint64, kind, detail string)
	Transition(seq uint64, cell string, old, new property.Value)
}
