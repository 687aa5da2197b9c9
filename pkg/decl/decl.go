// Package decl loads component definitions from YAML files and compiles
// them into templates.
//
// A definition names its component, declares typed properties with
// directions and initial values, and may attach binding expressions,
// conditional states, animated transitions, callbacks, embedded
// children and two-way links. Everything is checked while loading:
// unknown references, type mismatches and malformed expressions surface
// as structured errors before anything is instantiated.
//
// Expressions are small trees written inline in the YAML. A bare string
// is a property reference; string literals always spell {value: ...}:
//
//	when: {not: enabled}
//	bind:
//	  select:
//	    if: {ref: checked}
//	    then: {value: "on"}
//	    else: {value: "off"}
package decl

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/go-weft/weft/pkg/animation"
	"github.com/go-weft/weft/pkg/component"
	"github.com/go-weft/weft/pkg/errors"
	"github.com/go-weft/weft/pkg/property"
	"github.com/go-weft/weft/pkg/theme"
)

// Schema is the definition format version this loader accepts. Files
// declare theirs in the schema field; only the major version is
// compared, so v1 accepts v1.2 but rejects v2.
const Schema = "v1"

// Loader parses definitions and resolves the components they embed.
// Every successfully parsed definition becomes available as a child
// component for the definitions parsed after it.
type Loader struct {
	templates map[string]*component.Template
}

// NewLoader returns a loader with the stock component library
// registered under the given theme. A nil theme means theme.Material.
func NewLoader(th *theme.Theme) *Loader {
	if th == nil {
		th = theme.Material()
	}
	l := &Loader{templates: make(map[string]*component.Template)}
	l.Register(component.CheckBox(th))
	l.Register(component.LineEdit(th))
	l.Register(component.TextInput())
	return l
}

// Register makes tmpl available as a child component under its template
// name, replacing any previous registration.
func (l *Loader) Register(tmpl *component.Template) {
	l.templates[tmpl.Name()] = tmpl
}

// Lookup returns the registered template with the given name.
func (l *Loader) Lookup(name string) (*component.Template, bool) {
	t, ok := l.templates[name]
	return t, ok
}

// LoadFile parses one definition file.
func (l *Loader) LoadFile(path string) (*component.Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &errors.WeftError{
			Op:   "decl.Loader.LoadFile",
			Kind: errors.KindDefinition,
			Err:  err,
		}
	}
	return l.Parse(data)
}

// LoadFiles parses definition files in order, so later files can embed
// the components defined by earlier ones. It returns the template of
// the last file.
func (l *Loader) LoadFiles(paths ...string) (*component.Template, error) {
	var last *component.Template
	for _, path := range paths {
		tmpl, err := l.LoadFile(path)
		if err != nil {
			return nil, err
		}
		last = tmpl
	}
	return last, nil
}

// Parse compiles one definition document into a template and registers
// it with the loader.
func (l *Loader) Parse(data []byte) (*component.Template, error) {
	var f file
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, &errors.WeftError{
			Op:   "decl.Loader.Parse",
			Kind: errors.KindDefinition,
			Err:  err,
		}
	}
	b := &builder{l: l, f: &f, comp: f.Component}
	tmpl, err := b.build()
	if err != nil {
		return nil, err
	}
	l.Register(tmpl)
	return tmpl, nil
}

type builder struct {
	l    *Loader
	f    *file
	comp string
	tmpl *component.Template
}

func (b *builder) build() (*component.Template, error) {
	f := b.f
	if !semver.IsValid(f.Schema) || semver.Major(f.Schema) != Schema {
		return nil, b.defErr("", "unsupported schema %q (this build reads %s)", f.Schema, Schema)
	}
	if f.Component == "" || strings.Contains(f.Component, ".") {
		return nil, b.defErr("", "component name must be non-empty and dot-free")
	}
	if _, taken := b.l.templates[f.Component]; taken {
		return nil, b.defErr("", "component %q is already defined", f.Component)
	}

	b.tmpl = component.NewTemplate(f.Component)

	if err := b.properties(); err != nil {
		return nil, err
	}
	if err := b.children(); err != nil {
		return nil, err
	}
	if err := b.links(); err != nil {
		return nil, err
	}
	if err := b.binds(); err != nil {
		return nil, err
	}
	if err := b.states(); err != nil {
		return nil, err
	}
	if err := b.animations(); err != nil {
		return nil, err
	}
	if err := b.callbacks(); err != nil {
		return nil, err
	}
	if f.ForwardFocus != "" && b.tmpl.ChildTemplate(f.ForwardFocus) == nil {
		return nil, &errors.WeftError{
			Op:        "decl.Loader.Parse",
			Kind:      errors.KindUnknownRef,
			Component: b.comp,
			Property:  f.ForwardFocus,
			Err:       fmt.Errorf("forward-focus names an unknown child%s", didYouMean(f.ForwardFocus, b.tmpl.ChildNames())),
		}
	}
	if f.ForwardFocus != "" {
		b.tmpl.ForwardFocus(f.ForwardFocus)
	}
	return b.tmpl, nil
}

func (b *builder) properties() error {
	seen := make(map[string]bool, len(b.f.Properties))
	for _, p := range b.f.Properties {
		if p.Name == "" || strings.Contains(p.Name, ".") {
			return b.defErr(p.Name, "property name must be non-empty and dot-free")
		}
		if seen[p.Name] {
			return b.defErr(p.Name, "duplicate property")
		}
		seen[p.Name] = true
		kind, ok := property.ParseKind(p.Type)
		if !ok {
			return b.defErr(p.Name, "unknown type %q (known: bool, int, float, string, color, duration)", p.Type)
		}
		dir, err := parseDirection(p.Direction)
		if err != nil {
			return b.defErr(p.Name, "%v", err)
		}
		initial := zeroValue(kind)
		if p.Value != nil {
			v, err := parseScalar(kind, p.Value)
			if err != nil {
				return b.typeErr(p.Name, "%v", err)
			}
			initial = v
		}
		switch dir {
		case component.In:
			if p.Bind != nil {
				return b.defErr(p.Name, "cannot bind an input property")
			}
			b.tmpl.Input(p.Name, kind, initial)
		case component.Out:
			b.tmpl.Output(p.Name, kind, initial)
		case component.InOut:
			b.tmpl.InOut(p.Name, kind, initial)
		}
	}
	return nil
}

func (b *builder) children() error {
	seen := make(map[string]bool, len(b.f.Children))
	for _, ch := range b.f.Children {
		if ch.Name == "" || strings.Contains(ch.Name, ".") {
			return b.defErr(ch.Name, "child name must be non-empty and dot-free")
		}
		_, isProp := b.tmpl.PropKind(ch.Name)
		if seen[ch.Name] || isProp {
			return b.defErr(ch.Name, "child name collides with an existing property or child")
		}
		seen[ch.Name] = true
		tmpl, ok := b.l.templates[ch.Component]
		if !ok {
			return &errors.WeftError{
				Op:        "decl.Loader.Parse",
				Kind:      errors.KindUnknownRef,
				Component: b.comp,
				Property:  ch.Name,
				Err:       fmt.Errorf("unknown component %q%s", ch.Component, didYouMean(ch.Component, b.l.names())),
			}
		}
		b.tmpl.Child(ch.Name, tmpl)
	}
	return nil
}

func (b *builder) links() error {
	for _, pair := range b.f.Links {
		if len(pair) != 2 {
			return b.defErr("", "a link needs exactly two property paths")
		}
		ka, oka := b.tmpl.PropKind(pair[0])
		if !oka {
			return b.refErr(0, pair[0], pair[0])
		}
		kb, okb := b.tmpl.PropKind(pair[1])
		if !okb {
			return b.refErr(0, pair[1], pair[1])
		}
		if ka != kb {
			return b.typeErr(pair[0], "cannot link %s (%s) to %s (%s)", pair[0], ka, pair[1], kb)
		}
		b.tmpl.Link(pair[0], pair[1])
	}
	return nil
}

func (b *builder) binds() error {
	for _, p := range b.f.Properties {
		if p.Bind == nil {
			continue
		}
		kind, _ := b.tmpl.PropKind(p.Name)
		cc := b.newCompiler(p.Name)
		expr, err := cc.compile(p.Bind, kind)
		if err != nil {
			return err
		}
		b.tmpl.Bind(p.Name, expr, cc.paths...)
	}
	return nil
}

func (b *builder) states() error {
	for i, st := range b.f.States {
		name := st.Name
		if name == "" {
			name = fmt.Sprintf("state-%d", i+1)
		}
		if st.When == nil {
			return b.defErr(name, "state needs a when expression")
		}
		if len(st.Set) == 0 {
			return b.defErr(name, "state needs at least one override")
		}
		cc := b.newCompiler(name)
		cond, err := cc.compile(st.When, property.KindBool)
		if err != nil {
			return err
		}
		pred := func(in []property.Value) bool { return cond(in).AsBool() }

		targets := make([]string, 0, len(st.Set))
		for target := range st.Set {
			targets = append(targets, target)
		}
		sort.Strings(targets)

		overrides := make([]component.Override, 0, len(targets))
		for _, target := range targets {
			kind, ok := b.tmpl.PropKind(target)
			if !ok {
				return b.refErr(0, name, target)
			}
			val := st.Set[target]
			if val.Kind == yaml.MappingNode {
				var expr node
				if err := val.Decode(&expr); err != nil {
					return b.defErr(name, "%v", err)
				}
				occ := b.newCompiler(name)
				e, err := occ.compile(&expr, kind)
				if err != nil {
					return err
				}
				overrides = append(overrides, component.SetExpr(target, e, occ.paths...))
				continue
			}
			v, err := parseScalar(kind, &val)
			if err != nil {
				return b.typeErr(target, "%v", err)
			}
			overrides = append(overrides, component.Set(target, v))
		}
		b.tmpl.State(name, cc.paths, pred, overrides...)
	}
	return nil
}

func (b *builder) animations() error {
	for _, p := range b.f.Properties {
		if p.Animate == nil {
			continue
		}
		kind, _ := b.tmpl.PropKind(p.Name)
		if !kind.Interpolable() {
			return b.typeErr(p.Name, "cannot animate %s property", kind)
		}
		if p.Animate.Duration == "" {
			return b.defErr(p.Name, "animate needs a duration")
		}
		d, err := time.ParseDuration(p.Animate.Duration)
		if err != nil {
			return b.defErr(p.Name, "bad duration %q", p.Animate.Duration)
		}
		if d < 0 {
			return b.defErr(p.Name, "negative animation duration")
		}
		curve, ok := animation.CurveByName(p.Animate.Easing)
		if !ok {
			return b.defErr(p.Name, "unknown easing %q (known: linear, ease, ease-in, ease-out, ease-in-out)", p.Animate.Easing)
		}
		b.tmpl.Animate(p.Name, d, curve)
	}
	return nil
}

func (b *builder) callbacks() error {
	seen := make(map[string]bool, len(b.f.Callbacks))
	for _, name := range b.f.Callbacks {
		if name == "" {
			return b.defErr("", "empty callback name")
		}
		if seen[name] {
			return b.defErr(name, "duplicate callback")
		}
		seen[name] = true
		b.tmpl.Callback(name)
	}
	for _, a := range b.f.Aliases {
		if !seen[a.Callback] {
			return b.defErr(a.Callback, "alias refers to an undeclared callback%s", didYouMean(a.Callback, b.f.Callbacks))
		}
		child := b.tmpl.ChildTemplate(a.Child)
		if child == nil {
			return b.defErr(a.Child, "alias refers to an unknown child%s", didYouMean(a.Child, b.tmpl.ChildNames()))
		}
		inner := child.Callbacks()
		if !contains(inner, a.Inner) {
			return &errors.WeftError{
				Op:        "decl.Loader.Parse",
				Kind:      errors.KindUnknownRef,
				Component: b.comp,
				Property:  a.Child + "." + a.Inner,
				Err:       fmt.Errorf("alias refers to an undeclared child callback%s", didYouMean(a.Inner, inner)),
			}
		}
		b.tmpl.AliasCallback(a.Callback, a.Child, a.Inner)
	}
	return nil
}

// names returns the registered component names, sorted.
func (l *Loader) names() []string {
	out := make([]string, 0, len(l.templates))
	for name := range l.templates {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// propPaths enumerates every property path reachable from the template
// under construction, including child properties.
func (b *builder) propPaths() []string {
	var out []string
	templatePaths(b.tmpl, "", &out)
	return out
}

func templatePaths(t *component.Template, prefix string, out *[]string) {
	for _, p := range t.Props() {
		*out = append(*out, prefix+p.Name)
	}
	for _, name := range t.ChildNames() {
		templatePaths(t.ChildTemplate(name), prefix+name+".", out)
	}
}

func contains(list []string, s string) bool {
	for _, e := range list {
		if e == s {
			return true
		}
	}
	return false
}

func (b *builder) defErr(prop, format string, args ...any) error {
	return &errors.WeftError{
		Op:        "decl.Loader.Parse",
		Kind:      errors.KindDefinition,
		Component: b.comp,
		Property:  prop,
		Err:       fmt.Errorf(format, args...),
	}
}

func (b *builder) typeErr(prop, format string, args ...any) error {
	return &errors.WeftError{
		Op:        "decl.Loader.Parse",
		Kind:      errors.KindTypeMismatch,
		Component: b.comp,
		Property:  prop,
		Err:       fmt.Errorf(format, args...),
	}
}

func (b *builder) refErr(line int, prop, path string) error {
	detail := fmt.Sprintf("unknown property %q%s", path, didYouMean(path, b.propPaths()))
	if line > 0 {
		detail = fmt.Sprintf("line %d: %s", line, detail)
	}
	return &errors.WeftError{
		Op:        "decl.Loader.Parse",
		Kind:      errors.KindUnknownRef,
		Component: b.comp,
		Property:  prop,
		Err:       fmt.Errorf("%s", detail),
	}
}
