package component

import (
	"fmt"

	"github.com/go-weft/weft/pkg/binding"
	"github.com/go-weft/weft/pkg/errors"
	"github.com/go-weft/weft/pkg/property"
)

type resolvedOverride struct {
	target  binding.CellID
	literal property.Value
	expr    binding.Expr
	sources []binding.CellID
}

type resolvedState struct {
	name      string
	sources   []binding.CellID
	pred      Predicate
	overrides []resolvedOverride
}

// resolveStates validates the template's state blocks against the
// built instance tree. Cell ids stay uncanonicalized here; links
// declared by enclosing components may still merge them.
func (c *Component) resolveStates() ([]resolvedState, error) {
	var out []resolvedState
	for _, s := range c.tmpl.states {
		if s.pred == nil {
			return nil, c.defErr("component.Instantiate", s.name, "state has no predicate")
		}
		rs := resolvedState{name: s.name, pred: s.pred}
		for _, src := range s.sources {
			id, err := c.resolve("component.Instantiate", src)
			if err != nil {
				return nil, err
			}
			rs.sources = append(rs.sources, id)
		}
		for _, o := range s.overrides {
			target, err := c.resolve("component.Instantiate", o.Property)
			if err != nil {
				return nil, err
			}
			ro := resolvedOverride{target: target}
			switch {
			case o.Expr != nil && o.Value.IsValid():
				return nil, c.defErr("component.Instantiate", o.Property, "override has both a value and an expression")
			case o.Expr != nil:
				ro.expr = o.Expr
				for _, esrc := range o.Sources {
					id, err := c.resolve("component.Instantiate", esrc)
					if err != nil {
						return nil, err
					}
					ro.sources = append(ro.sources, id)
				}
			case o.Value.IsValid():
				if k := c.env.Graph.KindOf(target); o.Value.Kind() != k {
					return nil, &errors.WeftError{
						Op:        "component.Instantiate",
						Kind:      errors.KindTypeMismatch,
						Component: c.name,
						Property:  o.Property,
						Err:       fmt.Errorf("state %q overrides %s property with %s", s.name, k, o.Value.Kind()),
					}
				}
				ro.literal = o.Value
			default:
				return nil, c.defErr("component.Instantiate", o.Property, "override has neither a value nor an expression")
			}
			rs.overrides = append(rs.overrides, ro)
		}
		out = append(out, rs)
	}
	return out, nil
}

// overlayResolver maintains one instance's merged state-override
// layer. It re-evaluates every predicate in authored order whenever a
// watched source changes, merges the overrides of the active states
// (later state wins per property), and applies only the delta against
// the previously applied layer.
type overlayResolver struct {
	graph  *binding.Graph
	owner  string
	states []resolvedState

	targets []binding.CellID // override targets in authored order, canonical, deduped
	applied map[binding.CellID]property.Value
	merged  map[binding.CellID]property.Value
}

func newOverlayResolver(g *binding.Graph, owner string, states []resolvedState) *overlayResolver {
	return &overlayResolver{
		graph:   g,
		owner:   owner,
		states:  states,
		applied: make(map[binding.CellID]property.Value),
		merged:  make(map[binding.CellID]property.Value),
	}
}

// activate registers the watch set (predicate sources plus override
// expression sources) and applies the construction-time layer.
func (r *overlayResolver) activate() error {
	watched := make(map[binding.CellID]bool)
	var watch []binding.CellID
	add := func(id binding.CellID) {
		id = r.graph.Canonical(id)
		if !watched[id] {
			watched[id] = true
			watch = append(watch, id)
		}
	}
	inTargets := make(map[binding.CellID]bool)
	for _, s := range r.states {
		for _, src := range s.sources {
			add(src)
		}
		for _, o := range s.overrides {
			for _, esrc := range o.sources {
				add(esrc)
			}
			t := r.graph.Canonical(o.target)
			if !inTargets[t] {
				inTargets[t] = true
				r.targets = append(r.targets, t)
			}
		}
	}
	for _, id := range watch {
		if _, err := r.graph.Watch(id, func(_, _ property.Value) { r.resolve() }); err != nil {
			return err
		}
	}
	r.resolve()
	return nil
}

// resolve recomputes the merged layer and applies the delta. All
// override mutations happen within one watcher turn, so no observer
// sees a partially applied overlay.
func (r *overlayResolver) resolve() {
	clear(r.merged)
	for i := range r.states {
		s := &r.states[i]
		in := make([]property.Value, len(s.sources))
		for j, src := range s.sources {
			in[j] = r.graph.ReadCommitted(src)
		}
		if !s.pred(in) {
			continue
		}
		for _, o := range s.overrides {
			target := r.graph.Canonical(o.target)
			v := o.literal
			if o.expr != nil {
				ein := make([]property.Value, len(o.sources))
				for j, esrc := range o.sources {
					ein[j] = r.graph.ReadCommitted(esrc)
				}
				v = o.expr(ein)
				if v.Kind() != r.graph.KindOf(target) {
					errors.Report(&errors.WeftError{
						Op:        "component.Overlay",
						Kind:      errors.KindTypeMismatch,
						Component: r.owner,
						Property:  r.graph.Name(target),
						Err:       fmt.Errorf("state %q override computed %s, property is %s", s.name, v.Kind(), r.graph.KindOf(target)),
					})
					continue
				}
			}
			r.merged[target] = v
		}
	}

	for _, id := range r.targets {
		v, on := r.merged[id]
		prev, was := r.applied[id]
		switch {
		case on && (!was || !prev.Equal(v)):
			if err := r.graph.SetOverride(id, v); err == nil {
				r.applied[id] = v
			}
		case !on && was:
			if err := r.graph.ClearOverride(id); err == nil {
				delete(r.applied, id)
			}
		}
	}
}
