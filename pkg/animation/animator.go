// Package animation interpolates property transitions over wall-clock
// time.
//
// An Animator sits between the binding graph's committed values and the
// externally observed ones. When a cell carrying an animation directive
// changes, the new value is committed to the graph immediately (so
// downstream bindings settle once), while the Animator presents
// interpolated values through the graph's presentation layer until the
// segment's duration elapses. Renderers reading through Graph.Read
// observe the interpolation; ReadCommitted skips it.
//
// Segments on different cells are independent; they share nothing but
// the tick source. A change to a cell mid-flight redirects its segment,
// restarting from the currently presented value rather than snapping.
package animation

import (
	"fmt"
	"sort"
	"time"

	"github.com/go-weft/weft/pkg/binding"
	"github.com/go-weft/weft/pkg/errors"
	"github.com/go-weft/weft/pkg/property"
)

// Directive declares how a property animates: how long a transition
// takes and the easing applied to its progress. A nil Curve means
// linear.
type Directive struct {
	Duration time.Duration
	Curve    Curve
}

// segment is one in-flight transition on a single cell.
type segment struct {
	start property.Value
	end   property.Value
	t0    time.Time
	dir   Directive
}

// Animator schedules animated transitions for cells of one graph.
// Like the graph it is single-threaded; the engine serializes all
// calls.
type Animator struct {
	graph      *binding.Graph
	directives map[binding.CellID]Directive
	active     map[binding.CellID]*segment
}

// NewAnimator returns an animator presenting through g.
func NewAnimator(g *binding.Graph) *Animator {
	return &Animator{
		graph:      g,
		directives: make(map[binding.CellID]Directive),
		active:     make(map[binding.CellID]*segment),
	}
}

// Animate arms an animation directive on the cell. Every subsequent
// effective-value change of the cell runs as a timed segment instead of
// an instant jump. Directives are legal only on interpolable kinds
// (int, float, color, duration) and only once per cell; the initial
// value at construction never animates.
func (a *Animator) Animate(id binding.CellID, d Directive) error {
	cid := a.graph.Canonical(id)
	if cid == binding.InvalidCell {
		return &errors.WeftError{
			Op:   "animation.Animator.Animate",
			Kind: errors.KindDefinition,
			Err:  fmt.Errorf("unknown cell %d", id),
		}
	}
	kind := a.graph.KindOf(cid)
	if !kind.Interpolable() {
		return &errors.WeftError{
			Op:       "animation.Animator.Animate",
			Kind:     errors.KindTypeMismatch,
			Property: a.graph.Name(id),
			Err:      fmt.Errorf("cannot animate %s property", kind),
		}
	}
	if _, dup := a.directives[cid]; dup {
		return &errors.WeftError{
			Op:       "animation.Animator.Animate",
			Kind:     errors.KindDefinition,
			Property: a.graph.Name(id),
			Err:      fmt.Errorf("property already has an animation directive"),
		}
	}
	if d.Curve == nil {
		d.Curve = Linear
	}
	if _, err := a.graph.Watch(cid, func(old, new property.Value) {
		a.onChange(cid, old, new)
	}); err != nil {
		return err
	}
	a.directives[cid] = d
	return nil
}

// onChange intercepts a committed transition on an animated cell.
func (a *Animator) onChange(id binding.CellID, old, new property.Value) {
	d := a.directives[id]
	if d.Duration <= 0 {
		// Degenerate directive: commit instantly.
		delete(a.active, id)
		a.graph.ClearPresent(id)
		return
	}
	now := clock.Now()
	start := old
	if seg, inFlight := a.active[id]; inFlight {
		// Redirect: the segment restarts from the value currently on
		// screen, never from its original start.
		start = seg.valueAt(now)
	}
	a.active[id] = &segment{start: start, end: new, t0: now, dir: d}
	a.graph.Present(id, start)
}

// Step advances every active segment to now, updating the presented
// values. Segments whose duration has elapsed commit their end value
// and deactivate.
func (a *Animator) Step(now time.Time) {
	if len(a.active) == 0 {
		return
	}
	ids := make([]binding.CellID, 0, len(a.active))
	for id := range a.active {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		seg := a.active[id]
		if now.Sub(seg.t0) >= seg.dir.Duration {
			delete(a.active, id)
			a.graph.ClearPresent(id)
			continue
		}
		a.graph.Present(id, seg.valueAt(now))
	}
}

// Active reports whether any segment is in flight. The engine keeps
// requesting ticks while this is true.
func (a *Animator) Active() bool {
	return len(a.active) > 0
}

// Animating reports whether the given cell has a segment in flight.
func (a *Animator) Animating(id binding.CellID) bool {
	_, ok := a.active[a.graph.Canonical(id)]
	return ok
}

// valueAt computes the segment's interpolated value at the given time.
func (s *segment) valueAt(now time.Time) property.Value {
	if s.dir.Duration <= 0 {
		return s.end
	}
	progress := float64(now.Sub(s.t0)) / float64(s.dir.Duration)
	if progress >= 1 {
		return s.end
	}
	if progress < 0 {
		progress = 0
	}
	return Lerp(s.start, s.end, s.dir.Curve(progress))
}
