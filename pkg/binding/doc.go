// Package binding implements the dependency graph that drives reactive
// property evaluation.
//
// A Graph owns a set of typed property cells. Cells are declared during
// construction, wired with binding expressions and two-way links, and
// frozen with Seal. After Seal the graph serves reads and writes with
// lazy, memoized evaluation: reading a dirty cell recomputes its
// expression on demand, reading a clean cell returns the cache.
//
// # Construction
//
// Build the graph, then seal it before use:
//
//	g := binding.New()
//	w, _ := g.Add("width", property.KindFloat, property.Float(100))
//	h, _ := g.Add("height", property.KindFloat, property.Float(0))
//	g.Bind(h, func(in []property.Value) property.Value {
//	    return property.Float(in[0].AsFloat() / 2)
//	}, w)
//	if err := g.Seal(); err != nil {
//	    // cycle or conflict: the graph never goes live
//	}
//
// Seal performs static cycle detection over the binding edges and fails
// fast with a cycle error naming the offending path. A graph that fails
// to seal must be discarded.
//
// # Value layers
//
// Each cell resolves its effective value from three layers, highest
// precedence first:
//
//	state override  (SetOverride / ClearOverride)
//	direct write    (Write)
//	base binding    (expression result, or the declared initial)
//
// A write to a cell driven by a binding is rejected as read-only unless
// the cell participates in a two-way link. Writes issued while an
// expression is evaluating are rejected as re-entrant and dropped.
//
// # Two-way links
//
// Link merges two cells into one canonical storage slot, union-find
// style. Both access paths observe and mutate the same value; a write
// through either path dirties the dependents of both identities and is
// never echoed back to the writer.
//
// # Settling
//
// Watch registers a change observer on a sealed cell. Settle pulls every
// watched cell, firing observers whose effective value transitioned
// since the last notification. Unwatched cells stay lazily dirty until
// someone reads them.
package binding
