package binding

import (
	"testing"

	"github.com/go-weft/weft/pkg/errors"
	"github.com/go-weft/weft/pkg/property"
)

func TestLinkSharesOneSlot(t *testing.T) {
	g := New()
	a := mustAdd(t, g, "outer.checked", property.KindBool, property.Bool(false))
	b := mustAdd(t, g, "inner.checked", property.KindBool, property.Bool(true))
	if err := g.Link(a, b); err != nil {
		t.Fatalf("Link: %v", err)
	}
	mustSeal(t, g)

	// The second cell supplies the initial value of the merged slot.
	if got := g.Read(a); !got.AsBool() {
		t.Errorf("Read(a) = %v, want linked initial true", got)
	}

	// Writing either path is visible through the other with a single
	// propagation step.
	if err := g.Write(a, property.Bool(false)); err != nil {
		t.Fatalf("Write(a): %v", err)
	}
	if got := g.Read(b); got.AsBool() {
		t.Error("write through a should be visible through b")
	}
	if err := g.Write(b, property.Bool(true)); err != nil {
		t.Fatalf("Write(b): %v", err)
	}
	if got := g.Read(a); !got.AsBool() {
		t.Error("write through b should be visible through a")
	}

	if g.Canonical(a) != g.Canonical(b) {
		t.Error("linked cells should share a canonical identity")
	}
}

func TestLinkWriteDoesNotEcho(t *testing.T) {
	g := New()
	a := mustAdd(t, g, "a", property.KindInt, property.Int(0))
	b := mustAdd(t, g, "b", property.KindInt, property.Int(0))
	if err := g.Link(a, b); err != nil {
		t.Fatalf("Link: %v", err)
	}
	mustSeal(t, g)

	// A watcher on the shared slot fires once per settle for one write;
	// an echo would re-notify.
	fires := 0
	unwatch, err := g.Watch(b, func(old, new property.Value) { fires++ })
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer unwatch()

	if err := g.Write(a, property.Int(5)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	g.Settle()
	if fires != 1 {
		t.Errorf("watcher fired %d times, want 1", fires)
	}
	g.Settle()
	if fires != 1 {
		t.Errorf("watcher fired %d times after idle settle, want 1", fires)
	}
}

func TestLinkKindMismatch(t *testing.T) {
	g := New()
	a := mustAdd(t, g, "text", property.KindString, property.String(""))
	b := mustAdd(t, g, "count", property.KindInt, property.Int(0))
	err := g.Link(a, b)
	if err == nil {
		t.Fatal("linking string to int should fail")
	}
	if !errors.IsKind(err, errors.KindTypeMismatch) {
		t.Errorf("kind = %v, want KindTypeMismatch", errors.KindOf(err))
	}
}

func TestLinkConflictWhenBothBound(t *testing.T) {
	g := New()
	s := mustAdd(t, g, "src", property.KindInt, property.Int(1))
	a := mustAdd(t, g, "a", property.KindInt, property.Int(0))
	b := mustAdd(t, g, "b", property.KindInt, property.Int(0))
	double := func(in []property.Value) property.Value { return property.Int(in[0].AsInt() * 2) }
	if err := g.Bind(a, double, s); err != nil {
		t.Fatalf("Bind(a): %v", err)
	}
	if err := g.Bind(b, double, s); err != nil {
		t.Fatalf("Bind(b): %v", err)
	}

	err := g.Link(a, b)
	if err == nil {
		t.Fatal("linking two independently bound cells should fail")
	}
	if !errors.IsKind(err, errors.KindLinkConflict) {
		t.Errorf("kind = %v, want KindLinkConflict", errors.KindOf(err))
	}
}

func TestLinkedCellWithBindingAcceptsWrites(t *testing.T) {
	g := New()
	src := mustAdd(t, g, "model", property.KindString, property.String("hello"))
	a := mustAdd(t, g, "outer.text", property.KindString, property.String(""))
	b := mustAdd(t, g, "inner.text", property.KindString, property.String(""))
	if err := g.Bind(a, func(in []property.Value) property.Value {
		return in[0]
	}, src); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if err := g.Link(a, b); err != nil {
		t.Fatalf("Link: %v", err)
	}
	mustSeal(t, g)

	// The binding drives the shared slot until a write lands.
	if got := g.Read(b); !got.Equal(property.String("hello")) {
		t.Errorf("Read(b) = %v, want binding result", got)
	}

	// Writes are authorized on linked cells and shadow the binding.
	if err := g.Write(b, property.String("typed")); err != nil {
		t.Fatalf("Write(b): %v", err)
	}
	if got := g.Read(a); !got.Equal(property.String("typed")) {
		t.Errorf("Read(a) = %v, want written value", got)
	}

	// Upstream changes no longer pierce the written value.
	if err := g.Write(src, property.String("model changed")); err != nil {
		t.Fatalf("Write(src): %v", err)
	}
	if got := g.Read(a); !got.Equal(property.String("typed")) {
		t.Errorf("Read(a) = %v, want written value to persist", got)
	}
}

func TestLinkChain(t *testing.T) {
	g := New()
	a := mustAdd(t, g, "a", property.KindInt, property.Int(1))
	b := mustAdd(t, g, "b", property.KindInt, property.Int(2))
	c := mustAdd(t, g, "c", property.KindInt, property.Int(3))
	if err := g.Link(a, b); err != nil {
		t.Fatalf("Link(a,b): %v", err)
	}
	if err := g.Link(b, c); err != nil {
		t.Fatalf("Link(b,c): %v", err)
	}
	// Linking within one set is a no-op, not an error.
	if err := g.Link(a, c); err != nil {
		t.Fatalf("Link(a,c): %v", err)
	}
	mustSeal(t, g)

	if err := g.Write(a, property.Int(9)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	for _, id := range []CellID{a, b, c} {
		if got := g.Read(id); !got.Equal(property.Int(9)) {
			t.Errorf("Read(%s) = %v, want 9", g.Name(id), got)
		}
	}
}

func TestLinkedDependentsOfBothIdentitiesDirty(t *testing.T) {
	g := New()
	a := mustAdd(t, g, "a", property.KindInt, property.Int(0))
	b := mustAdd(t, g, "b", property.KindInt, property.Int(0))
	da := mustAdd(t, g, "da", property.KindInt, property.Int(0))
	db := mustAdd(t, g, "db", property.KindInt, property.Int(0))
	inc := func(in []property.Value) property.Value { return property.Int(in[0].AsInt() + 1) }
	if err := g.Bind(da, inc, a); err != nil {
		t.Fatalf("Bind(da): %v", err)
	}
	if err := g.Bind(db, inc, b); err != nil {
		t.Fatalf("Bind(db): %v", err)
	}
	if err := g.Link(a, b); err != nil {
		t.Fatalf("Link: %v", err)
	}
	mustSeal(t, g)

	// A write through one path must dirty dependents declared against
	// either identity.
	if err := g.Write(a, property.Int(10)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got := g.Read(da); !got.Equal(property.Int(11)) {
		t.Errorf("Read(da) = %v, want 11", got)
	}
	if got := g.Read(db); !got.Equal(property.Int(11)) {
		t.Errorf("Read(db) = %v, want 11", got)
	}
}
