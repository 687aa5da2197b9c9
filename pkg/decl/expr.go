package decl

import (
	"github.com/go-weft/weft/pkg/binding"
	"github.com/go-weft/weft/pkg/property"
)

// compiler turns expression nodes into binding expressions, assigning
// each referenced property path a stable input slot in first-use order.
// The slot order doubles as the binding's source list.
type compiler struct {
	b     *builder
	prop  string
	paths []string
	index map[string]int
}

func (b *builder) newCompiler(prop string) *compiler {
	return &compiler{b: b, prop: prop, index: make(map[string]int)}
}

func (cc *compiler) slot(path string) int {
	if i, ok := cc.index[path]; ok {
		return i
	}
	i := len(cc.paths)
	cc.paths = append(cc.paths, path)
	cc.index[path] = i
	return i
}

// compile checks n against the expected kind and returns an evaluator
// over the compiler's source slots.
func (cc *compiler) compile(n *node, want property.Kind) (binding.Expr, error) {
	if n == nil {
		return nil, cc.b.defErr(cc.prop, "missing expression")
	}
	switch {
	case n.ref != "":
		kind, ok := cc.b.tmpl.PropKind(n.ref)
		if !ok {
			return nil, cc.b.refErr(n.line, cc.prop, n.ref)
		}
		if kind != want {
			return nil, cc.b.typeErr(cc.prop, "line %d: property %s is %s, expected %s", n.line, n.ref, kind, want)
		}
		i := cc.slot(n.ref)
		return func(in []property.Value) property.Value { return in[i] }, nil

	case n.lit != nil:
		v, err := parseScalar(want, n.lit)
		if err != nil {
			return nil, cc.b.typeErr(cc.prop, "%v", err)
		}
		return func([]property.Value) property.Value { return v }, nil

	case n.not != nil:
		if want != property.KindBool {
			return nil, cc.b.typeErr(cc.prop, "line %d: not yields bool, expected %s", n.line, want)
		}
		inner, err := cc.compile(n.not, property.KindBool)
		if err != nil {
			return nil, err
		}
		return func(in []property.Value) property.Value {
			return property.Bool(!inner(in).AsBool())
		}, nil

	case n.all != nil:
		return cc.junction(n, n.all, "all", want, true)

	case n.any != nil:
		return cc.junction(n, n.any, "any", want, false)

	case n.eq != nil:
		if want != property.KindBool {
			return nil, cc.b.typeErr(cc.prop, "line %d: eq yields bool, expected %s", n.line, want)
		}
		if len(n.eq) != 2 {
			return nil, cc.b.defErr(cc.prop, "line %d: eq needs exactly two operands", n.line)
		}
		opKind := property.KindInvalid
		for _, sub := range n.eq {
			if sub == nil || sub.ref == "" {
				continue
			}
			if k, ok := cc.b.tmpl.PropKind(sub.ref); ok {
				opKind = k
				break
			}
		}
		if opKind == property.KindInvalid {
			return nil, cc.b.defErr(cc.prop, "line %d: eq needs at least one property reference to fix the operand type", n.line)
		}
		left, err := cc.compile(n.eq[0], opKind)
		if err != nil {
			return nil, err
		}
		right, err := cc.compile(n.eq[1], opKind)
		if err != nil {
			return nil, err
		}
		return func(in []property.Value) property.Value {
			return property.Bool(left(in).Equal(right(in)))
		}, nil

	case n.sel != nil:
		cond, err := cc.compile(n.sel.cond, property.KindBool)
		if err != nil {
			return nil, err
		}
		then, err := cc.compile(n.sel.then, want)
		if err != nil {
			return nil, err
		}
		alt, err := cc.compile(n.sel.alt, want)
		if err != nil {
			return nil, err
		}
		return func(in []property.Value) property.Value {
			if cond(in).AsBool() {
				return then(in)
			}
			return alt(in)
		}, nil

	default:
		return nil, cc.b.defErr(cc.prop, "line %d: empty expression", n.line)
	}
}

// junction compiles all/any. Evaluation short-circuits but sources are
// registered for every operand, so dirtiness tracking sees all of them.
func (cc *compiler) junction(n *node, subs []*node, form string, want property.Kind, needAll bool) (binding.Expr, error) {
	if want != property.KindBool {
		return nil, cc.b.typeErr(cc.prop, "line %d: %s yields bool, expected %s", n.line, form, want)
	}
	if len(subs) == 0 {
		return nil, cc.b.defErr(cc.prop, "line %d: %s needs at least one operand", n.line, form)
	}
	exprs := make([]binding.Expr, len(subs))
	for i, sub := range subs {
		e, err := cc.compile(sub, property.KindBool)
		if err != nil {
			return nil, err
		}
		exprs[i] = e
	}
	return func(in []property.Value) property.Value {
		for _, e := range exprs {
			if e(in).AsBool() != needAll {
				return property.Bool(!needAll)
			}
		}
		return property.Bool(needAll)
	}, nil
}
