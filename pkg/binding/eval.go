package binding

import (
	"fmt"

	"github.com/go-weft/weft/pkg/errors"
	"github.com/go-weft/weft/pkg/property"
)

// maxSettleRounds bounds one cascade. A well-formed graph settles in a
// handful of rounds; hitting the bound means overlay predicates are
// oscillating through their own overrides.
const maxSettleRounds = 64

// evaluate recomputes c's expression against the effective values of
// its sources, resolving dirty upstream cells first. The result is
// cached and the dirty flag cleared. An expression returning a value of
// the wrong kind is reported and the previous cache retained.
func (g *Graph) evaluate(c *cell) {
	g.evalDepth++
	in := make([]property.Value, len(c.sources))
	for i, sid := range c.sources {
		in[i] = g.effective(g.cells[sid])
	}
	v := c.expr(in)
	g.evalDepth--

	c.dirty = false
	if v.Kind() != c.kind {
		errors.Report(&errors.WeftError{
			Op:       "binding.Graph.evaluate",
			Kind:     errors.KindTypeMismatch,
			Property: c.name,
			Err:      fmt.Errorf("binding produced %s, property is %s", v.Kind(), c.kind),
		})
		return
	}
	c.value = v
}

// Watch registers w as a change observer on the cell. The current
// effective value becomes the notification baseline, so registration
// never fires w. The returned function unregisters the watcher.
//
// Watch requires a sealed graph: baselines are only meaningful once
// links are resolved and cycles ruled out.
func (g *Graph) Watch(id CellID, w Watcher) (func(), error) {
	if !g.sealed {
		return nil, g.defErr("binding.Graph.Watch", g.nameOf(id), "graph is not sealed")
	}
	if w == nil {
		return nil, g.defErr("binding.Graph.Watch", g.nameOf(id), "nil watcher")
	}
	c, err := g.canonical("binding.Graph.Watch", id)
	if err != nil {
		return nil, err
	}
	if len(c.watchers) == 0 {
		c.notified = g.effective(c)
	}
	if !c.inWatchOrder {
		c.inWatchOrder = true
		g.watchOrder = append(g.watchOrder, c.self)
	}
	wid := g.nextWatcherID
	g.nextWatcherID++
	c.watchers = append(c.watchers, watcherEntry{id: wid, fn: w})
	return func() {
		for i, e := range c.watchers {
			if e.id == wid {
				c.watchers = append(c.watchers[:i], c.watchers[i+1:]...)
				return
			}
		}
	}, nil
}

// Settle pulls every watched cell and fires watchers whose effective
// value transitioned since their last notification. Watchers may write
// back into the graph (the overlay resolver does); Settle keeps
// scanning until a full round fires nothing.
//
// Cells nobody watches are left lazily dirty; they recompute on their
// next read.
func (g *Graph) Settle() {
	for range maxSettleRounds {
		fired := false
		for _, id := range g.watchOrder {
			c := g.cells[id]
			if len(c.watchers) == 0 {
				continue
			}
			eff := g.effective(c)
			if eff.Equal(c.notified) {
				continue
			}
			old := c.notified
			c.notified = eff
			for _, e := range append([]watcherEntry(nil), c.watchers...) {
				e.fn(old, eff)
			}
			fired = true
		}
		if !fired {
			return
		}
	}
	errors.Report(&errors.WeftError{
		Op:   "binding.Graph.Settle",
		Kind: errors.KindCycle,
		Err:  fmt.Errorf("cascade did not converge after %d rounds", maxSettleRounds),
	})
}
