package component

import (
	"testing"
	"time"

	"github.com/go-weft/weft/pkg/errors"
	"github.com/go-weft/weft/pkg/property"
)

func TestStateOverrideAppliesAndRestores(t *testing.T) {
	base := property.ColorValue(property.RGB(240, 240, 240))
	pressed := property.ColorValue(property.RGB(200, 30, 30))
	tmpl := NewTemplate("Chip").
		Input("pressed", property.KindBool, property.Bool(false)).
		Output("background", property.KindColor, base).
		State("pressed", []string{"pressed"},
			func(in []property.Value) bool { return in[0].AsBool() },
			Set("background", pressed))

	env := testEnv()
	c := mount(t, env, "chip", tmpl)

	if got := get(t, c, "background"); !got.Equal(base) {
		t.Fatalf("background = %v, want base %v", got, base)
	}
	if err := c.Set("pressed", property.Bool(true)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := get(t, c, "background"); !got.Equal(pressed) {
		t.Errorf("background = %v while pressed, want %v", got, pressed)
	}
	if err := c.Set("pressed", property.Bool(false)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := get(t, c, "background"); !got.Equal(base) {
		t.Errorf("background = %v after release, want base %v", got, base)
	}
}

func TestLastActiveStateWinsPerProperty(t *testing.T) {
	base := property.ColorValue(property.RGB(240, 240, 240))
	pressedBg := property.ColorValue(property.RGB(200, 30, 30))
	hoverBg := property.ColorValue(property.RGB(30, 200, 30))
	tmpl := NewTemplate("Chip").
		Input("pressed", property.KindBool, property.Bool(false)).
		Input("hover", property.KindBool, property.Bool(false)).
		Output("background", property.KindColor, base).
		Output("elevation", property.KindFloat, property.Float(0)).
		State("pressed", []string{"pressed"},
			func(in []property.Value) bool { return in[0].AsBool() },
			Set("background", pressedBg),
			Set("elevation", property.Float(4))).
		State("hover", []string{"hover"},
			func(in []property.Value) bool { return in[0].AsBool() },
			Set("background", hoverBg))

	env := testEnv()
	c := mount(t, env, "chip", tmpl)

	if err := c.Set("pressed", property.Bool(true)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := c.Set("hover", property.Bool(true)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	// Both states hold: hover was authored later, so it takes the
	// background, while the untouched elevation keeps pressed's value.
	if got := get(t, c, "background"); !got.Equal(hoverBg) {
		t.Errorf("background = %v, want later state's %v", got, hoverBg)
	}
	if got := get(t, c, "elevation").AsFloat(); got != 4 {
		t.Errorf("elevation = %v, want 4 from the earlier state", got)
	}

	if err := c.Set("hover", property.Bool(false)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := get(t, c, "background"); !got.Equal(pressedBg) {
		t.Errorf("background = %v, want %v once hover drops", got, pressedBg)
	}

	if err := c.Set("pressed", property.Bool(false)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := get(t, c, "background"); !got.Equal(base) {
		t.Errorf("background = %v, want base %v", got, base)
	}
	if got := get(t, c, "elevation").AsFloat(); got != 0 {
		t.Errorf("elevation = %v, want base 0", got)
	}
}

func TestOverlaySwitchesStatesWithoutIntermediateValues(t *testing.T) {
	base := property.ColorValue(property.RGB(240, 240, 240))
	onBg := property.ColorValue(property.RGB(10, 10, 200))
	offBg := property.ColorValue(property.RGB(200, 200, 10))
	tmpl := NewTemplate("Lamp").
		Input("on", property.KindBool, property.Bool(true)).
		Output("background", property.KindColor, base).
		State("lit", []string{"on"},
			func(in []property.Value) bool { return in[0].AsBool() },
			Set("background", onBg)).
		State("dark", []string{"on"},
			func(in []property.Value) bool { return !in[0].AsBool() },
			Set("background", offBg))

	env := testEnv()
	c := mount(t, env, "lamp", tmpl)

	type change struct{ old, new property.Value }
	var log []change
	if _, err := env.Graph.Watch(cellOf(t, c, "background"), func(old, new property.Value) {
		log = append(log, change{old, new})
	}); err != nil {
		t.Fatalf("Watch: %v", err)
	}

	if err := c.Set("on", property.Bool(false)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	// Swapping which state holds must replace the override in place:
	// observers see one transition and never the uncovered base value.
	if len(log) != 1 {
		t.Fatalf("observed %d background changes, want 1: %v", len(log), log)
	}
	if !log[0].old.Equal(onBg) || !log[0].new.Equal(offBg) {
		t.Errorf("transition = %v -> %v, want %v -> %v", log[0].old, log[0].new, onBg, offBg)
	}
}

func TestExprOverrideTracksItsSources(t *testing.T) {
	tmpl := NewTemplate("Gauge").
		Input("on", property.KindBool, property.Bool(false)).
		Input("level", property.KindFloat, property.Float(5)).
		Output("size", property.KindFloat, property.Float(1)).
		State("boost", []string{"on"},
			func(in []property.Value) bool { return in[0].AsBool() },
			SetExpr("size", func(in []property.Value) property.Value {
				return property.Float(in[0].AsFloat() * 2)
			}, "level"))

	env := testEnv()
	c := mount(t, env, "g", tmpl)

	if got := get(t, c, "size").AsFloat(); got != 1 {
		t.Fatalf("size = %v, want base 1", got)
	}
	if err := c.Set("on", property.Bool(true)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := get(t, c, "size").AsFloat(); got != 10 {
		t.Errorf("size = %v, want 10", got)
	}
	// The override recomputes while its state holds.
	if err := c.Set("level", property.Float(7)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := get(t, c, "size").AsFloat(); got != 14 {
		t.Errorf("size = %v after source change, want 14", got)
	}
	// And stops tracking once the state drops.
	if err := c.Set("on", property.Bool(false)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := get(t, c, "size").AsFloat(); got != 1 {
		t.Errorf("size = %v, want base 1", got)
	}
	if err := c.Set("level", property.Float(9)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := get(t, c, "size").AsFloat(); got != 1 {
		t.Errorf("size = %v, want 1: inactive states leave no residue", got)
	}
}

func TestConstructionTimeOverrideDoesNotAnimate(t *testing.T) {
	clk := freezeClock(t)
	tmpl := NewTemplate("Panel").
		Input("wide", property.KindBool, property.Bool(true)).
		Output("width", property.KindFloat, property.Float(100)).
		State("wide", []string{"wide"},
			func(in []property.Value) bool { return in[0].AsBool() },
			Set("width", property.Float(300))).
		Animate("width", 100*time.Millisecond, nil)

	env := testEnv()
	c := mount(t, env, "p", tmpl)

	// The overlay is resolved before the directive arms, so the
	// initial override lands without a segment.
	if got := get(t, c, "width").AsFloat(); got != 300 {
		t.Fatalf("width = %v at construction, want 300", got)
	}
	if env.Animator.Active() {
		t.Fatalf("construction-time override started an animation")
	}

	// Later overlay changes animate like any other change.
	if err := c.Set("wide", property.Bool(false)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if !env.Animator.Active() {
		t.Fatalf("runtime override change did not start an animation")
	}
	if got := get(t, c, "width").AsFloat(); got != 300 {
		t.Errorf("width = %v at segment start, want still-presented 300", got)
	}
	clk.advance(150 * time.Millisecond)
	env.Animator.Step(clk.now)
	if got := get(t, c, "width").AsFloat(); got != 100 {
		t.Errorf("width = %v after segment, want 100", got)
	}
}

func TestExprOverrideRuntimeMismatchReportedAndSkipped(t *testing.T) {
	h := captureErrors(t)
	tmpl := NewTemplate("Broken").
		Input("on", property.KindBool, property.Bool(false)).
		Output("size", property.KindFloat, property.Float(1)).
		State("bad", []string{"on"},
			func(in []property.Value) bool { return in[0].AsBool() },
			SetExpr("size", func(in []property.Value) property.Value {
				return property.String("oops")
			}))

	env := testEnv()
	c := mount(t, env, "x", tmpl)

	if len(h.errs) != 0 {
		t.Fatalf("inactive state evaluated its override: %v", h.errs)
	}
	if err := c.Set("on", property.Bool(true)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if ks := h.kinds(); len(ks) != 1 || ks[0] != errors.KindTypeMismatch {
		t.Fatalf("reported kinds = %v, want [typemismatch]", ks)
	}
	if got := h.errs[0].Property; got != "x.size" {
		t.Errorf("reported property = %q, want %q", got, "x.size")
	}
	// The bad override is skipped; the base value stays visible.
	if got := get(t, c, "size").AsFloat(); got != 1 {
		t.Errorf("size = %v, want base 1", got)
	}
}
