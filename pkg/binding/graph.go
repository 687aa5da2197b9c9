package binding

import (
	"fmt"

	"github.com/go-weft/weft/pkg/errors"
	"github.com/go-weft/weft/pkg/property"
)

// CellID identifies a property cell within a Graph. IDs are dense and
// stable for the life of the graph; they are never reused.
type CellID int

// InvalidCell is returned where no cell applies; it never names a live
// cell.
const InvalidCell CellID = -1

// Expr computes a cell's value from the current values of its source
// cells, in the order the sources were passed to Bind. Expressions must
// be pure: no writes, no retained references to the input slice.
type Expr func(in []property.Value) property.Value

// Watcher observes an effective-value transition on a watched cell.
type Watcher func(old, new property.Value)

// cell is the storage slot behind one property identity. After a
// two-way link merges identities, only the canonical cell of each set
// carries live state; the rest forward through parent.
type cell struct {
	name string
	kind property.Kind
	self CellID

	parent   CellID // union-find parent; == self when canonical
	linked   bool   // canonical only: set participates in a two-way link
	writable bool   // external writes are authorized even over a binding

	value    property.Value // base layer: binding cache or written/initial value
	dirty    bool           // base cache is stale (expr cells only)
	shadowed bool           // a direct write landed on a bound cell

	expr    Expr
	sources []CellID // static source set, canonicalized at Seal

	dependents []CellID // reverse expr edges, built at Seal

	hasOverride bool
	override    property.Value

	presenting bool // an animation is presenting on this cell
	presented  property.Value

	notified     property.Value // last value delivered to watchers
	watchers     []watcherEntry
	inWatchOrder bool
}

type watcherEntry struct {
	id int
	fn Watcher
}

// Graph owns the property cells of one component tree and evaluates
// their bindings. A Graph is not safe for concurrent use; the engine
// serializes all access (one cascade at a time).
type Graph struct {
	cells  []*cell
	sealed bool

	evalDepth int // >0 while an expression is evaluating

	watchOrder    []CellID // canonical ids in first-watch order
	nextWatcherID int
}

// New returns an empty, unsealed graph.
func New() *Graph {
	return &Graph{}
}

// Add declares a new cell with the given diagnostic name, kind, and
// initial value. The initial value's kind must match.
func (g *Graph) Add(name string, kind property.Kind, initial property.Value) (CellID, error) {
	if g.sealed {
		return InvalidCell, g.defErr("binding.Graph.Add", name, "graph is sealed")
	}
	if kind == property.KindInvalid {
		return InvalidCell, g.defErr("binding.Graph.Add", name, "invalid kind")
	}
	if initial.Kind() != kind {
		return InvalidCell, &errors.WeftError{
			Op:       "binding.Graph.Add",
			Kind:     errors.KindTypeMismatch,
			Property: name,
			Err:      fmt.Errorf("initial value is %s, property is %s", initial.Kind(), kind),
		}
	}
	id := CellID(len(g.cells))
	g.cells = append(g.cells, &cell{
		name:   name,
		kind:   kind,
		self:   id,
		parent: id,
		value:  initial,
	})
	return id, nil
}

// Bind attaches a binding expression to target. The source set is
// fixed here and never changes at runtime. Bind fails if the target's
// canonical cell already carries an expression.
func (g *Graph) Bind(target CellID, expr Expr, sources ...CellID) error {
	if g.sealed {
		return g.defErr("binding.Graph.Bind", g.nameOf(target), "graph is sealed")
	}
	if expr == nil {
		return g.defErr("binding.Graph.Bind", g.nameOf(target), "nil expression")
	}
	c, err := g.canonical("binding.Graph.Bind", target)
	if err != nil {
		return err
	}
	if c.expr != nil {
		return &errors.WeftError{
			Op:       "binding.Graph.Bind",
			Kind:     errors.KindLinkConflict,
			Property: c.name,
			Err:      fmt.Errorf("property already has a binding"),
		}
	}
	for _, s := range sources {
		if !g.valid(s) {
			return g.defErr("binding.Graph.Bind", c.name, fmt.Sprintf("unknown source cell %d", s))
		}
	}
	c.expr = expr
	c.sources = append([]CellID(nil), sources...)
	c.dirty = true
	return nil
}

// Link merges the cells a and b into one shared storage slot with two
// access paths. The second cell supplies the initial value of the
// merged slot. Linking is a construction-time operation.
//
// Link fails with a type mismatch when the kinds differ and with a link
// conflict when both sides already carry independent bindings.
func (g *Graph) Link(a, b CellID) error {
	if g.sealed {
		return g.defErr("binding.Graph.Link", g.nameOf(a), "graph is sealed")
	}
	ca, err := g.canonical("binding.Graph.Link", a)
	if err != nil {
		return err
	}
	cb, err := g.canonical("binding.Graph.Link", b)
	if err != nil {
		return err
	}
	if ca == cb {
		return nil // already one slot
	}
	if ca.kind != cb.kind {
		return &errors.WeftError{
			Op:       "binding.Graph.Link",
			Kind:     errors.KindTypeMismatch,
			Property: ca.name,
			Err:      fmt.Errorf("cannot link %s (%s) to %s (%s)", ca.name, ca.kind, cb.name, cb.kind),
		}
	}
	if ca.expr != nil && cb.expr != nil {
		return &errors.WeftError{
			Op:       "binding.Graph.Link",
			Kind:     errors.KindLinkConflict,
			Property: ca.name,
			Err:      fmt.Errorf("both %s and %s have bindings", ca.name, cb.name),
		}
	}

	// The b side becomes canonical and keeps its value; a binding on
	// either side moves to the canonical slot.
	canon := cb
	if ca.expr != nil {
		canon.expr = ca.expr
		canon.sources = ca.sources
		canon.dirty = true
		ca.expr = nil
		ca.sources = nil
	}
	ca.parent = cb.self
	canon.linked = true
	canon.writable = canon.writable || ca.writable
	return nil
}

// AllowWrite authorizes external writes on the cell even while a
// binding drives it: an input-direction property with a default
// binding accepts writes, and the first write shadows the binding.
// AllowWrite is a construction-time operation.
func (g *Graph) AllowWrite(id CellID) error {
	if g.sealed {
		return g.defErr("binding.Graph.AllowWrite", g.nameOf(id), "graph is sealed")
	}
	c, err := g.canonical("binding.Graph.AllowWrite", id)
	if err != nil {
		return err
	}
	c.writable = true
	return nil
}

// find resolves id to its canonical cell id with path compression.
func (g *Graph) find(id CellID) CellID {
	for g.cells[id].parent != id {
		p := g.cells[id].parent
		g.cells[id].parent = g.cells[p].parent
		id = p
	}
	return id
}

// Canonical returns the canonical identity of id. Two-way linked cells
// share one canonical id; unlinked cells are their own canonical.
func (g *Graph) Canonical(id CellID) CellID {
	if !g.valid(id) {
		return InvalidCell
	}
	return g.find(id)
}

// Name returns the diagnostic name the cell was declared with.
func (g *Graph) Name(id CellID) string {
	return g.nameOf(id)
}

// KindOf returns the declared kind of the cell.
func (g *Graph) KindOf(id CellID) property.Kind {
	if !g.valid(id) {
		return property.KindInvalid
	}
	return g.cells[g.find(id)].kind
}

// Len returns the number of declared cells, counting every identity of
// a linked set separately.
func (g *Graph) Len() int {
	return len(g.cells)
}

// Sealed reports whether construction has finished.
func (g *Graph) Sealed() bool {
	return g.sealed
}

// Read returns the cell's externally observed value: the interpolated
// value while an animation is presenting on the cell, otherwise the
// settled effective value. Reading a dirty cell evaluates it.
func (g *Graph) Read(id CellID) property.Value {
	if !g.valid(id) {
		return property.Value{}
	}
	c := g.cells[g.find(id)]
	if c.presenting {
		return c.presented
	}
	return g.effective(c)
}

// ReadCommitted returns the settled effective value, ignoring any
// animation presentation. This is the value a new animation segment
// targets and the value downstream bindings observe.
func (g *Graph) ReadCommitted(id CellID) property.Value {
	if !g.valid(id) {
		return property.Value{}
	}
	return g.effective(g.cells[g.find(id)])
}

// Write stores v as the cell's direct-write value.
//
// Writes are accepted on cells not driven by a binding, on any cell
// under a two-way link, and on cells marked writable with AllowWrite;
// a write to any other bound cell is rejected with a read-only
// violation and changes nothing. A write issued while an expression is
// evaluating is rejected as re-entrant and dropped. A successful write
// dirties all transitive dependents.
func (g *Graph) Write(id CellID, v property.Value) error {
	if !g.sealed {
		return g.defErr("binding.Graph.Write", g.nameOf(id), "graph is not sealed")
	}
	c, err := g.canonical("binding.Graph.Write", id)
	if err != nil {
		return err
	}
	if g.evalDepth > 0 {
		return g.reject(&errors.WeftError{
			Op:       "binding.Graph.Write",
			Kind:     errors.KindReentrant,
			Property: c.name,
			Err:      fmt.Errorf("write during binding evaluation"),
		})
	}
	if v.Kind() != c.kind {
		return g.reject(&errors.WeftError{
			Op:       "binding.Graph.Write",
			Kind:     errors.KindTypeMismatch,
			Property: c.name,
			Err:      fmt.Errorf("cannot write %s to %s property", v.Kind(), c.kind),
		})
	}
	if c.expr != nil && !c.linked && !c.writable {
		return g.reject(&errors.WeftError{
			Op:       "binding.Graph.Write",
			Kind:     errors.KindReadOnly,
			Property: c.name,
			Err:      fmt.Errorf("property is driven by a binding"),
		})
	}
	if c.expr != nil {
		// An authorized write shadows the binding. The written value
		// is the base from here on.
		c.shadowed = true
	}
	c.value = v
	c.dirty = false
	g.dirtyDependents(c)
	return nil
}

// SetOverride installs a state-overlay value on the cell. The override
// shadows both direct writes and the binding until cleared.
func (g *Graph) SetOverride(id CellID, v property.Value) error {
	if !g.sealed {
		return g.defErr("binding.Graph.SetOverride", g.nameOf(id), "graph is not sealed")
	}
	c, err := g.canonical("binding.Graph.SetOverride", id)
	if err != nil {
		return err
	}
	if g.evalDepth > 0 {
		return g.reject(&errors.WeftError{
			Op:       "binding.Graph.SetOverride",
			Kind:     errors.KindReentrant,
			Property: c.name,
			Err:      fmt.Errorf("override during binding evaluation"),
		})
	}
	if v.Kind() != c.kind {
		return g.reject(&errors.WeftError{
			Op:       "binding.Graph.SetOverride",
			Kind:     errors.KindTypeMismatch,
			Property: c.name,
			Err:      fmt.Errorf("cannot override %s property with %s", c.kind, v.Kind()),
		})
	}
	c.hasOverride = true
	c.override = v
	g.dirtyDependents(c)
	return nil
}

// ClearOverride removes the state-overlay value, letting the cell fall
// back to its direct-write or binding layer.
func (g *Graph) ClearOverride(id CellID) error {
	if !g.sealed {
		return g.defErr("binding.Graph.ClearOverride", g.nameOf(id), "graph is not sealed")
	}
	c, err := g.canonical("binding.Graph.ClearOverride", id)
	if err != nil {
		return err
	}
	if !c.hasOverride {
		return nil
	}
	c.hasOverride = false
	c.override = property.Value{}
	g.dirtyDependents(c)
	return nil
}

// Present exposes an animation's interpolated value as the cell's
// externally observed value. It does not touch the committed layers or
// the dependency graph.
func (g *Graph) Present(id CellID, v property.Value) {
	if !g.valid(id) {
		return
	}
	c := g.cells[g.find(id)]
	c.presenting = true
	c.presented = v
}

// ClearPresent removes the animation presentation; Read falls back to
// the committed effective value.
func (g *Graph) ClearPresent(id CellID) {
	if !g.valid(id) {
		return
	}
	c := g.cells[g.find(id)]
	c.presenting = false
	c.presented = property.Value{}
}

// effective resolves the committed layers: override, then base.
func (g *Graph) effective(c *cell) property.Value {
	if c.hasOverride {
		return c.override
	}
	return g.base(c)
}

// base resolves the binding cache or the written/initial value,
// evaluating lazily when the cache is stale.
func (g *Graph) base(c *cell) property.Value {
	if c.expr == nil || c.shadowed {
		return c.value
	}
	if c.dirty && g.sealed {
		g.evaluate(c)
	}
	return c.value
}

// dirtyDependents marks every transitive dependent of c dirty. A cell
// already dirty is not re-visited, so each cell is marked at most once
// per cascade.
func (g *Graph) dirtyDependents(c *cell) {
	for _, did := range c.dependents {
		d := g.cells[did]
		if d.dirty {
			continue
		}
		d.dirty = true
		g.dirtyDependents(d)
	}
}

// canonical validates id and returns its canonical cell.
func (g *Graph) canonical(op string, id CellID) (*cell, error) {
	if !g.valid(id) {
		return nil, g.defErr(op, "", fmt.Sprintf("unknown cell %d", id))
	}
	return g.cells[g.find(id)], nil
}

func (g *Graph) valid(id CellID) bool {
	return id >= 0 && int(id) < len(g.cells)
}

func (g *Graph) nameOf(id CellID) string {
	if !g.valid(id) {
		return ""
	}
	return g.cells[id].name
}

func (g *Graph) defErr(op, prop, msg string) error {
	return &errors.WeftError{
		Op:       op,
		Kind:     errors.KindDefinition,
		Property: prop,
		Err:      fmt.Errorf("%s", msg),
	}
}

// reject reports a runtime rejection to the error signal and returns it.
// No rejected write is ever silently ignored, even when the caller
// discards the error.
func (g *Graph) reject(we *errors.WeftError) error {
	errors.Report(we)
	return we
}
