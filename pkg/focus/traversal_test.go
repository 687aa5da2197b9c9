package focus

import "testing"

func TestMoveFocusCyclesRegistrationOrder(t *testing.T) {
	r := NewRegistry()
	a := r.Register(NodeConfig{Label: "a", Forward: NoNode})
	b := r.Register(NodeConfig{Label: "b", Forward: NoNode})
	c := r.Register(NodeConfig{Label: "c", Forward: NoNode})

	want := []NodeID{a, b, c, a}
	for i, w := range want {
		if !r.MoveFocus(1) {
			t.Fatalf("step %d: MoveFocus(1) = false, want true", i)
		}
		if got := r.ActiveRoot(); got != w {
			t.Errorf("step %d: ActiveRoot() = %d, want %d", i, got, w)
		}
	}
}

func TestMoveFocusBackward(t *testing.T) {
	r := NewRegistry()
	a := r.Register(NodeConfig{Label: "a", Forward: NoNode})
	b := r.Register(NodeConfig{Label: "b", Forward: NoNode})

	r.GrantFocus(b)
	if !r.MoveFocus(-1) {
		t.Fatal("MoveFocus(-1) = false, want true")
	}
	if got := r.ActiveRoot(); got != a {
		t.Errorf("ActiveRoot() = %d, want %d", got, a)
	}
}

func TestMoveFocusFromNothing(t *testing.T) {
	r := NewRegistry()
	a := r.Register(NodeConfig{Label: "a", Forward: NoNode})
	r.Register(NodeConfig{Label: "b", Forward: NoNode})
	c := r.Register(NodeConfig{Label: "c", Forward: NoNode})

	if !r.MoveFocus(-1) {
		t.Fatal("MoveFocus(-1) = false, want true")
	}
	if got := r.ActiveRoot(); got != c {
		t.Errorf("backward from nothing: ActiveRoot() = %d, want last node %d", got, c)
	}

	r.ReleaseFocus()
	if !r.MoveFocus(1) {
		t.Fatal("MoveFocus(1) = false, want true")
	}
	if got := r.ActiveRoot(); got != a {
		t.Errorf("forward from nothing: ActiveRoot() = %d, want first node %d", got, a)
	}
}

func TestMoveFocusSkipsDisabledAndOptedOut(t *testing.T) {
	r := NewRegistry()
	a := r.Register(NodeConfig{Label: "a", Forward: NoNode})
	disabled := r.Register(NodeConfig{Label: "disabled", Forward: NoNode})
	r.SetEnabled(disabled, false)
	r.Register(NodeConfig{Label: "decoration", Forward: NoNode, SkipTraversal: true})
	d := r.Register(NodeConfig{Label: "d", Forward: NoNode})

	r.GrantFocus(a)
	if !r.MoveFocus(1) {
		t.Fatal("MoveFocus(1) = false, want true")
	}
	if got := r.ActiveRoot(); got != d {
		t.Errorf("ActiveRoot() = %d, want %d past disabled and opted-out nodes", got, d)
	}
}

func TestMoveFocusSkipsForwardTargets(t *testing.T) {
	r := NewRegistry()
	inner := r.Register(NodeConfig{Label: "inner", Forward: NoNode})
	outer := r.Register(NodeConfig{Label: "outer", Forward: inner})
	next := r.Register(NodeConfig{Label: "next", Forward: NoNode})

	r.GrantFocus(outer)
	if !r.MoveFocus(1) {
		t.Fatal("MoveFocus(1) = false, want true")
	}
	if got := r.ActiveRoot(); got != next {
		t.Errorf("ActiveRoot() = %d, want %d: chain interiors are not tab stops", got, next)
	}
}

func TestMoveFocusWithNoCandidates(t *testing.T) {
	r := NewRegistry()
	if r.MoveFocus(1) {
		t.Error("MoveFocus on empty registry = true, want false")
	}

	only := r.Register(NodeConfig{Label: "only", Forward: NoNode})
	r.GrantFocus(only)
	if r.MoveFocus(1) {
		t.Error("MoveFocus with a single, already-active candidate = true, want false")
	}
	if got := r.ActiveRoot(); got != only {
		t.Errorf("ActiveRoot() = %d, want unchanged %d", got, only)
	}
}

func TestWrapIndex(t *testing.T) {
	tests := []struct {
		index, count, want int
	}{
		{0, 3, 0},
		{3, 3, 0},
		{4, 3, 1},
		{-1, 3, 2},
		{-4, 3, 2},
	}
	for _, tt := range tests {
		if got := wrapIndex(tt.index, tt.count); got != tt.want {
			t.Errorf("wrapIndex(%d, %d) = %d, want %d", tt.index, tt.count, got, tt.want)
		}
	}
}
