package binding

import (
	"strings"
	"testing"

	"github.com/go-weft/weft/pkg/errors"
	"github.com/go-weft/weft/pkg/property"
)

func TestSealDetectsTwoCellCycle(t *testing.T) {
	g := New()
	x := mustAdd(t, g, "x", property.KindInt, property.Int(0))
	y := mustAdd(t, g, "y", property.KindInt, property.Int(0))
	inc := func(in []property.Value) property.Value { return property.Int(in[0].AsInt() + 1) }
	if err := g.Bind(x, inc, y); err != nil {
		t.Fatalf("Bind(x): %v", err)
	}
	if err := g.Bind(y, inc, x); err != nil {
		t.Fatalf("Bind(y): %v", err)
	}

	err := g.Seal()
	if err == nil {
		t.Fatal("Seal should detect x <-> y cycle")
	}
	if !errors.IsKind(err, errors.KindCycle) {
		t.Errorf("kind = %v, want KindCycle", errors.KindOf(err))
	}
	if g.Sealed() {
		t.Error("graph must not go live after a cycle")
	}

	// The error names the cycle path.
	msg := err.Error()
	if !strings.Contains(msg, "x") || !strings.Contains(msg, "y") {
		t.Errorf("cycle error %q should name both properties", msg)
	}
}

func TestSealDetectsSelfCycle(t *testing.T) {
	g := New()
	x := mustAdd(t, g, "x", property.KindInt, property.Int(0))
	if err := g.Bind(x, func(in []property.Value) property.Value {
		return property.Int(in[0].AsInt() + 1)
	}, x); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	err := g.Seal()
	if !errors.IsKind(err, errors.KindCycle) {
		t.Errorf("kind = %v, want KindCycle", errors.KindOf(err))
	}
}

func TestSealDetectsLongCycle(t *testing.T) {
	g := New()
	ids := make([]CellID, 5)
	names := []string{"a", "b", "c", "d", "e"}
	for i, n := range names {
		ids[i] = mustAdd(t, g, n, property.KindInt, property.Int(0))
	}
	// a -> b -> c -> d -> e -> a
	pass := func(in []property.Value) property.Value { return in[0] }
	for i := range ids {
		next := ids[(i+1)%len(ids)]
		if err := g.Bind(ids[i], pass, next); err != nil {
			t.Fatalf("Bind(%s): %v", names[i], err)
		}
	}

	err := g.Seal()
	if !errors.IsKind(err, errors.KindCycle) {
		t.Fatalf("kind = %v, want KindCycle", errors.KindOf(err))
	}

	we, ok := err.(*errors.WeftError)
	if !ok {
		t.Fatalf("Seal error is %T, want *WeftError", err)
	}
	ce, ok := we.Err.(*errors.CycleError)
	if !ok {
		t.Fatalf("wrapped error is %T, want *CycleError", we.Err)
	}
	if len(ce.Path) != len(ids)+1 {
		t.Errorf("cycle path %v, want %d entries", ce.Path, len(ids)+1)
	}
	if ce.Path[0] != ce.Path[len(ce.Path)-1] {
		t.Errorf("cycle path %v should close on itself", ce.Path)
	}
}

func TestSealLinkClosingCycle(t *testing.T) {
	// b is bound over a; linking a and b folds the binding onto its own
	// source, a one-cell loop after canonicalization.
	g := New()
	a := mustAdd(t, g, "a", property.KindInt, property.Int(0))
	b := mustAdd(t, g, "b", property.KindInt, property.Int(0))
	if err := g.Bind(b, func(in []property.Value) property.Value {
		return property.Int(in[0].AsInt() + 1)
	}, a); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if err := g.Link(a, b); err != nil {
		t.Fatalf("Link: %v", err)
	}
	err := g.Seal()
	if !errors.IsKind(err, errors.KindCycle) {
		t.Errorf("kind = %v, want KindCycle", errors.KindOf(err))
	}
}

func TestSealAcceptsDAG(t *testing.T) {
	g := New()
	a := mustAdd(t, g, "a", property.KindInt, property.Int(1))
	b := mustAdd(t, g, "b", property.KindInt, property.Int(0))
	c := mustAdd(t, g, "c", property.KindInt, property.Int(0))
	d := mustAdd(t, g, "d", property.KindInt, property.Int(0))
	sum := func(in []property.Value) property.Value {
		var total int64
		for _, v := range in {
			total += v.AsInt()
		}
		return property.Int(total)
	}
	if err := g.Bind(b, sum, a); err != nil {
		t.Fatalf("Bind(b): %v", err)
	}
	if err := g.Bind(c, sum, a, b); err != nil {
		t.Fatalf("Bind(c): %v", err)
	}
	if err := g.Bind(d, sum, b, c); err != nil {
		t.Fatalf("Bind(d): %v", err)
	}
	if err := g.Seal(); err != nil {
		t.Fatalf("Seal on a DAG should succeed: %v", err)
	}
	if got := g.Read(d); !got.Equal(property.Int(3)) {
		t.Errorf("Read(d) = %v, want 3", got)
	}
}
