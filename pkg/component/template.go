// Package component turns declarative templates into live instances:
// trees of property cells wired into a binding graph, with conditional
// state overlays, animated transitions, callbacks, and focus behavior.
//
// A Template records declarations through a fluent builder and
// validates nothing; Instantiate performs all checks and fails fast
// before any instance goes live. Instantiating the same template twice
// produces structurally identical but fully independent instances.
package component

import (
	"strings"
	"time"

	"github.com/go-weft/weft/pkg/animation"
	"github.com/go-weft/weft/pkg/binding"
	"github.com/go-weft/weft/pkg/focus"
	"github.com/go-weft/weft/pkg/property"
)

// Direction declares how a property may be driven from outside the
// component.
type Direction int

const (
	// In properties are written by the embedder and read inside.
	In Direction = iota

	// Out properties are computed inside and read by the embedder.
	Out

	// InOut properties are readable and writable from both sides.
	InOut
)

func (d Direction) String() string {
	switch d {
	case In:
		return "in"
	case Out:
		return "out"
	case InOut:
		return "inout"
	default:
		return "unknown"
	}
}

// PropSpec declares one property of a template.
type PropSpec struct {
	Name    string
	Kind    property.Kind
	Dir     Direction
	Initial property.Value
}

// Override is one property override applied while a state is active.
// Exactly one of Value and Expr is set; Expr overrides re-evaluate
// whenever one of their sources changes while the state holds.
type Override struct {
	Property string
	Value    property.Value
	Expr     binding.Expr
	Sources  []string
}

// Set returns a literal state override.
func Set(prop string, v property.Value) Override {
	return Override{Property: prop, Value: v}
}

// SetExpr returns a computed state override over the named sources.
func SetExpr(prop string, expr binding.Expr, sources ...string) Override {
	return Override{Property: prop, Expr: expr, Sources: sources}
}

// Predicate decides whether a state is active, given the current
// values of its declared sources in declaration order.
type Predicate func(in []property.Value) bool

// KeyFunc handles a key event offered to an instance of the template.
type KeyFunc func(c *Component, event focus.KeyEvent) focus.KeyEventResult

// PointerFunc handles a pointer event offered to an instance.
type PointerFunc func(c *Component, event focus.PointerEvent) focus.KeyEventResult

// FocusFunc observes the instance joining or leaving the active focus
// chain.
type FocusFunc func(c *Component, focused bool)

type bindSpec struct {
	target  string
	expr    binding.Expr
	sources []string
}

type linkSpec struct {
	a, b string
}

type stateSpec struct {
	name      string
	sources   []string
	pred      Predicate
	overrides []Override
}

type animateSpec struct {
	prop      string
	directive animation.Directive
}

type aliasSpec struct {
	outer, child, inner string
}

type childSpec struct {
	name string
	tmpl *Template
}

// Template is the declarative description of a component: properties,
// bindings, two-way links, states, animations, callbacks, children and
// focus behavior. Templates are inert; see Instantiate.
type Template struct {
	name string

	props     []PropSpec
	binds     []bindSpec
	links     []linkSpec
	states    []stateSpec
	animates  []animateSpec
	callbacks []string
	aliases   []aliasSpec
	children  []childSpec

	forwardFocus string
	onKey        KeyFunc
	onPointer    PointerFunc
	onFocus      FocusFunc
}

// NewTemplate starts a template with the given type name.
func NewTemplate(name string) *Template {
	return &Template{name: name}
}

// Name returns the template's type name.
func (t *Template) Name() string { return t.name }

// Input declares an externally writable property.
func (t *Template) Input(name string, kind property.Kind, initial property.Value) *Template {
	t.props = append(t.props, PropSpec{Name: name, Kind: kind, Dir: In, Initial: initial})
	return t
}

// Output declares a property computed inside the component and
// read-only from outside.
func (t *Template) Output(name string, kind property.Kind, initial property.Value) *Template {
	t.props = append(t.props, PropSpec{Name: name, Kind: kind, Dir: Out, Initial: initial})
	return t
}

// InOut declares a bidirectional property.
func (t *Template) InOut(name string, kind property.Kind, initial property.Value) *Template {
	t.props = append(t.props, PropSpec{Name: name, Kind: kind, Dir: InOut, Initial: initial})
	return t
}

// Bind attaches a binding expression to a property. Sources are
// property paths relative to this component ("width", "input.text");
// the set is fixed at instantiation.
func (t *Template) Bind(target string, expr binding.Expr, sources ...string) *Template {
	t.binds = append(t.binds, bindSpec{target: target, expr: expr, sources: sources})
	return t
}

// Link declares a two-way link between two property paths. The second
// path supplies the initial value of the merged slot.
func (t *Template) Link(a, b string) *Template {
	t.links = append(t.links, linkSpec{a: a, b: b})
	return t
}

// State appends a conditional override block. States are evaluated in
// the order they were declared; when several are simultaneously
// active, the later one wins per property.
func (t *Template) State(name string, sources []string, pred Predicate, overrides ...Override) *Template {
	t.states = append(t.states, stateSpec{name: name, sources: sources, pred: pred, overrides: overrides})
	return t
}

// Animate arms an animated transition on a property: any committed
// change of its effective value after construction runs through an
// interpolated segment instead of snapping.
func (t *Template) Animate(prop string, duration time.Duration, curve animation.Curve) *Template {
	t.animates = append(t.animates, animateSpec{
		prop:      prop,
		directive: animation.Directive{Duration: duration, Curve: curve},
	})
	return t
}

// Callback declares a named, externally invocable signal.
func (t *Template) Callback(name string) *Template {
	t.callbacks = append(t.callbacks, name)
	return t
}

// AliasCallback forwards a callback of this component to a child's
// callback, bidirectionally: invoking either endpoint runs both
// handlers exactly once.
func (t *Template) AliasCallback(outer, child, inner string) *Template {
	t.aliases = append(t.aliases, aliasSpec{outer: outer, child: child, inner: inner})
	return t
}

// Child embeds another template under the given name. Child
// properties are addressed as "name.property" in binding sources,
// links and states.
func (t *Template) Child(name string, child *Template) *Template {
	t.children = append(t.children, childSpec{name: name, tmpl: child})
	return t
}

// ForwardFocus delegates focus and input handling to the named child:
// granting focus to an instance of this template forwards it down the
// chain, and events bubble back up through it.
func (t *Template) ForwardFocus(child string) *Template {
	t.forwardFocus = child
	return t
}

// OnKey installs the template's key handler.
func (t *Template) OnKey(fn KeyFunc) *Template {
	t.onKey = fn
	return t
}

// OnPointer installs the template's pointer handler.
func (t *Template) OnPointer(fn PointerFunc) *Template {
	t.onPointer = fn
	return t
}

// OnFocusChange installs the template's focus observer.
func (t *Template) OnFocusChange(fn FocusFunc) *Template {
	t.onFocus = fn
	return t
}

// Props returns the template's property declarations in declared order.
func (t *Template) Props() []PropSpec {
	return append([]PropSpec(nil), t.props...)
}

// Callbacks returns the declared callback names in declared order.
func (t *Template) Callbacks() []string {
	return append([]string(nil), t.callbacks...)
}

// ChildNames returns the embedded child names in declared order.
func (t *Template) ChildNames() []string {
	names := make([]string, len(t.children))
	for i, ch := range t.children {
		names[i] = ch.name
	}
	return names
}

// ChildTemplate returns the template embedded under the given child
// name, or nil.
func (t *Template) ChildTemplate(name string) *Template {
	for _, ch := range t.children {
		if ch.name == name {
			return ch.tmpl
		}
	}
	return nil
}

// PropKind resolves a dotted property path against the template tree
// and reports the declared kind. The second result is false when the
// path names no property.
func (t *Template) PropKind(path string) (property.Kind, bool) {
	if head, rest, found := strings.Cut(path, "."); found {
		child := t.ChildTemplate(head)
		if child == nil {
			return property.KindInvalid, false
		}
		return child.PropKind(rest)
	}
	for _, p := range t.props {
		if p.Name == path {
			return p.Kind, true
		}
	}
	return property.KindInvalid, false
}
