package component

import (
	"fmt"
	"strings"

	"github.com/go-weft/weft/pkg/animation"
	"github.com/go-weft/weft/pkg/binding"
	"github.com/go-weft/weft/pkg/errors"
	"github.com/go-weft/weft/pkg/focus"
	"github.com/go-weft/weft/pkg/property"
)

// Env carries the shared infrastructure instances are built into. The
// runtime owns one Env; standalone tests assemble their own.
type Env struct {
	Graph    *binding.Graph
	Focus    *focus.Registry
	Animator *animation.Animator

	// Schedule runs a mutation as one full cascade. When nil the
	// mutation runs immediately and the graph settles afterwards.
	Schedule func(fn func())
}

// Component is a live instance of a Template: a named node owning its
// property cells and child instances. Component state lives in the
// Env's graph; the instance itself only holds the wiring.
//
// Construction is two-phase. Instantiate allocates and wires cells,
// bindings, links, callbacks and focus nodes, failing fast on any
// defect. After the graph is sealed, Activate applies the initial
// state overlay, arms animations, and connects the enabled property
// to the focus registry. Nothing is live until both phases succeed.
type Component struct {
	name string
	tmpl *Template
	env  Env

	cells map[string]binding.CellID
	specs map[string]PropSpec

	children   map[string]*Component
	childOrder []string

	callbacks map[string]*callback

	overlay *overlayResolver
	focusID focus.NodeID
}

// Instantiate builds an instance tree from a template. The instance
// name becomes the prefix of every cell name ("login.text",
// "login.input.text"). Any declaration defect aborts the whole build;
// no partially wired instance is returned.
func Instantiate(env Env, name string, tmpl *Template) (*Component, error) {
	if env.Graph == nil || env.Focus == nil {
		return nil, &errors.WeftError{
			Op:        "component.Instantiate",
			Kind:      errors.KindDefinition,
			Component: name,
			Err:       fmt.Errorf("environment is missing the graph or focus registry"),
		}
	}
	if tmpl == nil {
		return nil, &errors.WeftError{
			Op:        "component.Instantiate",
			Kind:      errors.KindDefinition,
			Component: name,
			Err:       fmt.Errorf("nil template"),
		}
	}
	if name == "" || strings.Contains(name, ".") {
		return nil, &errors.WeftError{
			Op:        "component.Instantiate",
			Kind:      errors.KindDefinition,
			Component: name,
			Err:       fmt.Errorf("instance name must be non-empty and dot-free"),
		}
	}
	return build(env, name, tmpl)
}

func build(env Env, path string, tmpl *Template) (*Component, error) {
	c := &Component{
		name:      path,
		tmpl:      tmpl,
		env:       env,
		cells:     make(map[string]binding.CellID),
		specs:     make(map[string]PropSpec),
		children:  make(map[string]*Component),
		callbacks: make(map[string]*callback),
		focusID:   focus.NoNode,
	}

	for _, p := range tmpl.props {
		if p.Name == "" || strings.Contains(p.Name, ".") {
			return nil, c.defErr("component.Instantiate", p.Name, "property name must be non-empty and dot-free")
		}
		if _, dup := c.cells[p.Name]; dup {
			return nil, c.defErr("component.Instantiate", p.Name, "duplicate property")
		}
		id, err := env.Graph.Add(path+"."+p.Name, p.Kind, p.Initial)
		if err != nil {
			return nil, err
		}
		if p.Dir != Out {
			if err := env.Graph.AllowWrite(id); err != nil {
				return nil, err
			}
		}
		c.cells[p.Name] = id
		c.specs[p.Name] = p
	}

	for _, ch := range tmpl.children {
		if ch.name == "" || strings.Contains(ch.name, ".") {
			return nil, c.defErr("component.Instantiate", ch.name, "child name must be non-empty and dot-free")
		}
		if ch.tmpl == nil {
			return nil, c.defErr("component.Instantiate", ch.name, "nil child template")
		}
		if _, dup := c.cells[ch.name]; dup {
			return nil, c.defErr("component.Instantiate", ch.name, "child name collides with a property")
		}
		if _, dup := c.children[ch.name]; dup {
			return nil, c.defErr("component.Instantiate", ch.name, "duplicate child")
		}
		child, err := build(env, path+"."+ch.name, ch.tmpl)
		if err != nil {
			return nil, err
		}
		c.children[ch.name] = child
		c.childOrder = append(c.childOrder, ch.name)
	}

	for _, l := range tmpl.links {
		a, err := c.resolve("component.Instantiate", l.a)
		if err != nil {
			return nil, err
		}
		b, err := c.resolve("component.Instantiate", l.b)
		if err != nil {
			return nil, err
		}
		if err := env.Graph.Link(a, b); err != nil {
			return nil, err
		}
	}

	for _, b := range tmpl.binds {
		if b.expr == nil {
			return nil, c.defErr("component.Instantiate", b.target, "nil binding expression")
		}
		target, err := c.resolve("component.Instantiate", b.target)
		if err != nil {
			return nil, err
		}
		sources := make([]binding.CellID, len(b.sources))
		for i, s := range b.sources {
			sources[i], err = c.resolve("component.Instantiate", s)
			if err != nil {
				return nil, err
			}
		}
		if err := env.Graph.Bind(target, b.expr, sources...); err != nil {
			return nil, err
		}
	}

	for _, name := range tmpl.callbacks {
		if name == "" {
			return nil, c.defErr("component.Instantiate", name, "empty callback name")
		}
		if _, dup := c.callbacks[name]; dup {
			return nil, c.defErr("component.Instantiate", name, "duplicate callback")
		}
		c.callbacks[name] = &callback{name: name, owner: c}
	}

	for _, a := range tmpl.aliases {
		outer, ok := c.callbacks[a.outer]
		if !ok {
			return nil, c.defErr("component.Instantiate", a.outer, "alias refers to an undeclared callback")
		}
		child, ok := c.children[a.child]
		if !ok {
			return nil, c.defErr("component.Instantiate", a.child, "alias refers to an unknown child")
		}
		inner, ok := child.callbacks[a.inner]
		if !ok {
			return nil, c.defErr("component.Instantiate", a.child+"."+a.inner, "alias refers to an undeclared child callback")
		}
		if outer.peered(inner) {
			return nil, c.defErr("component.Instantiate", a.outer, "duplicate callback alias")
		}
		outer.peers = append(outer.peers, inner)
		inner.peers = append(inner.peers, outer)
	}

	resolved, err := c.resolveStates()
	if err != nil {
		return nil, err
	}
	if len(resolved) > 0 {
		c.overlay = newOverlayResolver(env.Graph, path, resolved)
	}

	for _, a := range tmpl.animates {
		id, err := c.resolve("component.Instantiate", a.prop)
		if err != nil {
			return nil, err
		}
		if k := env.Graph.KindOf(id); !k.Interpolable() {
			return nil, &errors.WeftError{
				Op:        "component.Instantiate",
				Kind:      errors.KindTypeMismatch,
				Component: c.name,
				Property:  a.prop,
				Err:       fmt.Errorf("cannot animate %s property", k),
			}
		}
		if a.directive.Duration < 0 {
			return nil, c.defErr("component.Instantiate", a.prop, "negative animation duration")
		}
		if env.Animator == nil {
			return nil, c.defErr("component.Instantiate", a.prop, "environment has no animator")
		}
	}

	if tmpl.forwardFocus != "" {
		if _, ok := c.children[tmpl.forwardFocus]; !ok {
			return nil, c.defErr("component.Instantiate", tmpl.forwardFocus, "forward-focus target is not a child")
		}
	}
	cfg := focus.NodeConfig{Label: path, Forward: focus.NoNode}
	if tmpl.forwardFocus != "" {
		cfg.Forward = c.children[tmpl.forwardFocus].focusID
	}
	if fn := tmpl.onKey; fn != nil {
		cfg.OnKey = func(ev focus.KeyEvent) focus.KeyEventResult { return fn(c, ev) }
	}
	if fn := tmpl.onPointer; fn != nil {
		cfg.OnPointer = func(ev focus.PointerEvent) focus.KeyEventResult { return fn(c, ev) }
	}
	if fn := tmpl.onFocus; fn != nil {
		cfg.OnFocusChange = func(focused bool) { fn(c, focused) }
	}
	c.focusID = env.Focus.Register(cfg)

	return c, nil
}

// Activate finishes wiring once the graph is sealed: children first,
// then the initial state overlay, then animation directives, then the
// enabled-to-focus connection. Overlay application precedes animation
// arming so construction-time overrides never animate.
func (c *Component) Activate() error {
	for _, name := range c.childOrder {
		if err := c.children[name].Activate(); err != nil {
			return err
		}
	}
	if c.overlay != nil {
		if err := c.overlay.activate(); err != nil {
			return err
		}
	}
	for _, a := range c.tmpl.animates {
		id, err := c.resolve("component.Activate", a.prop)
		if err != nil {
			return err
		}
		if err := c.env.Animator.Animate(id, a.directive); err != nil {
			return err
		}
	}
	return c.wireEnabled()
}

// wireEnabled gates the focus node on a bool property named "enabled",
// when the template declares one: disabled instances neither take
// focus nor handle events.
func (c *Component) wireEnabled() error {
	id, ok := c.cells["enabled"]
	if !ok || c.specs["enabled"].Kind != property.KindBool {
		return nil
	}
	c.env.Focus.SetEnabled(c.focusID, c.env.Graph.ReadCommitted(id).AsBool())
	_, err := c.env.Graph.Watch(id, func(old, new property.Value) {
		c.env.Focus.SetEnabled(c.focusID, new.AsBool())
	})
	return err
}

// Name returns the instance path.
func (c *Component) Name() string { return c.name }

// TemplateName returns the type name of the template the instance was
// built from.
func (c *Component) TemplateName() string { return c.tmpl.name }

// Child returns the named child instance, or nil.
func (c *Component) Child(name string) *Component { return c.children[name] }

// Children returns the child names in declaration order.
func (c *Component) Children() []string {
	return append([]string(nil), c.childOrder...)
}

// Props returns the instance's property declarations in declared order.
func (c *Component) Props() []PropSpec {
	return append([]PropSpec(nil), c.tmpl.props...)
}

// FocusNode returns the instance's focus registry handle.
func (c *Component) FocusNode() focus.NodeID { return c.focusID }

// Cell resolves a property path to its cell, for tooling that reads
// the graph directly.
func (c *Component) Cell(path string) (binding.CellID, error) {
	return c.resolve("component.Cell", path)
}

// Get returns the externally observed value of a property path: the
// interpolated value while an animation presents on it, otherwise the
// settled effective value.
func (c *Component) Get(path string) (property.Value, error) {
	id, err := c.resolve("component.Get", path)
	if err != nil {
		return property.Value{}, err
	}
	return c.env.Graph.Read(id), nil
}

// Set writes an input or in-out property as one cascade. Writing an
// output property is a read-only violation, rejected and reported
// without state change. Rejections arising inside the cascade (type
// mismatch, re-entrancy) surface on the error signal.
func (c *Component) Set(prop string, v property.Value) error {
	spec, ok := c.specs[prop]
	if !ok {
		return c.unknownRef("component.Set", prop)
	}
	if spec.Dir == Out {
		we := &errors.WeftError{
			Op:        "component.Set",
			Kind:      errors.KindReadOnly,
			Component: c.name,
			Property:  prop,
			Err:       fmt.Errorf("property is output-only"),
		}
		errors.Report(we)
		return we
	}
	id := c.cells[prop]
	c.run(func() { _ = c.env.Graph.Write(id, v) })
	return nil
}

// Invoke runs the named callback synchronously as one cascade, with
// the handler and any aliased partner each executing exactly once.
func (c *Component) Invoke(name string, args ...property.Value) error {
	cb, ok := c.callbacks[name]
	if !ok {
		return c.unknownRef("component.Invoke", name)
	}
	c.run(func() { cb.invoke(args) })
	return nil
}

// OnCallback binds the handler run when the named callback is invoked.
// A nil handler unbinds.
func (c *Component) OnCallback(name string, fn Handler) error {
	cb, ok := c.callbacks[name]
	if !ok {
		return c.unknownRef("component.OnCallback", name)
	}
	cb.handler = fn
	return nil
}

// Focus grants the focus chain to this instance, following its
// forward-focus declarations to the innermost holder.
func (c *Component) Focus() {
	c.run(func() { c.env.Focus.GrantFocus(c.focusID) })
}

// run executes a mutation as one cascade.
func (c *Component) run(fn func()) {
	if c.env.Schedule != nil {
		c.env.Schedule(fn)
		return
	}
	fn()
	c.env.Graph.Settle()
}

// resolve maps a property path relative to this instance onto its
// cell. Paths descend through children at each dot.
func (c *Component) resolve(op, path string) (binding.CellID, error) {
	if head, rest, found := strings.Cut(path, "."); found {
		child, ok := c.children[head]
		if !ok {
			return binding.InvalidCell, c.unknownRef(op, path)
		}
		id, err := child.resolve(op, rest)
		if err != nil {
			return binding.InvalidCell, c.unknownRef(op, path)
		}
		return id, nil
	}
	id, ok := c.cells[path]
	if !ok {
		return binding.InvalidCell, c.unknownRef(op, path)
	}
	return id, nil
}

// write stores v on one of the instance's own cells, bypassing the
// direction gate. For the instance's own handlers, which already run
// inside a cascade.
func (c *Component) write(prop string, v property.Value) {
	if id, ok := c.cells[prop]; ok {
		_ = c.env.Graph.Write(id, v)
	}
}

// readCommitted returns the settled effective value of an own property.
func (c *Component) readCommitted(prop string) property.Value {
	if id, ok := c.cells[prop]; ok {
		return c.env.Graph.ReadCommitted(id)
	}
	return property.Value{}
}

func (c *Component) boolProp(prop string) bool {
	return c.readCommitted(prop).AsBool()
}

func (c *Component) stringProp(prop string) string {
	return c.readCommitted(prop).AsString()
}

// invokeLocal fires a callback from inside an already running cascade.
func (c *Component) invokeLocal(name string, args ...property.Value) {
	if cb, ok := c.callbacks[name]; ok {
		cb.invoke(args)
	}
}

func (c *Component) defErr(op, prop, msg string) error {
	return &errors.WeftError{
		Op:        op,
		Kind:      errors.KindDefinition,
		Component: c.name,
		Property:  prop,
		Err:       fmt.Errorf("%s", msg),
	}
}

func (c *Component) unknownRef(op, path string) error {
	return &errors.WeftError{
		Op:        op,
		Kind:      errors.KindUnknownRef,
		Component: c.name,
		Property:  path,
		Err:       fmt.Errorf("unknown property path"),
	}
}
