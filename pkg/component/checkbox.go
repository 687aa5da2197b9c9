package component

import (
	"fmt"

	"github.com/go-weft/weft/pkg/animation"
	"github.com/go-weft/weft/pkg/errors"
	"github.com/go-weft/weft/pkg/focus"
	"github.com/go-weft/weft/pkg/property"
	"github.com/go-weft/weft/pkg/theme"
)

// CheckBox returns the stock toggle template, styled by the theme's
// checkbox table. Space and pointer presses flip the checked value and
// fire "toggled"; a disabled instance suppresses both and reports the
// dropped interaction.
//
// The disabled state is authored after the checked state, so it wins
// the background when both hold.
func CheckBox(th *theme.Theme) *Template {
	style := th.CheckBoxStyleOf()
	return NewTemplate("CheckBox").
		InOut("checked", property.KindBool, property.Bool(false)).
		Input("enabled", property.KindBool, property.Bool(true)).
		Input("text", property.KindString, property.String("")).
		Output("has-focus", property.KindBool, property.Bool(false)).
		Output("background", property.KindColor, property.ColorValue(style.BackgroundColor)).
		Output("check-color", property.KindColor, property.ColorValue(style.CheckColor)).
		State("checked", []string{"checked"},
			func(in []property.Value) bool { return in[0].AsBool() },
			Set("background", property.ColorValue(style.ActiveColor))).
		State("disabled", []string{"enabled"},
			func(in []property.Value) bool { return !in[0].AsBool() },
			SetExpr("background", func(in []property.Value) property.Value {
				if in[0].AsBool() {
					return property.ColorValue(style.DisabledActiveColor)
				}
				return property.ColorValue(style.BackgroundColor)
			}, "checked"),
			Set("check-color", property.ColorValue(style.DisabledCheckColor))).
		Animate("background", style.ToggleDuration, animation.EaseInOut).
		Callback("toggled").
		OnKey(checkBoxKey).
		OnPointer(checkBoxPointer).
		OnFocusChange(func(c *Component, focused bool) {
			c.write("has-focus", property.Bool(focused))
		})
}

func checkBoxKey(c *Component, ev focus.KeyEvent) focus.KeyEventResult {
	if ev.Key != "Space" {
		return focus.KeyEventIgnored
	}
	toggleNow(c)
	return focus.KeyEventHandled
}

func checkBoxPointer(c *Component, ev focus.PointerEvent) focus.KeyEventResult {
	if ev.Phase != focus.PointerDown {
		return focus.KeyEventIgnored
	}
	c.env.Focus.GrantFocus(c.focusID)
	toggleNow(c)
	return focus.KeyEventHandled
}

// Toggle flips a checkbox instance as one cascade.
func Toggle(c *Component) error {
	if _, ok := c.cells["checked"]; !ok {
		return c.defErr("component.Toggle", "checked", "instance has no checked property")
	}
	c.run(func() { toggleNow(c) })
	return nil
}

// toggleNow flips checked and fires "toggled" from inside a cascade.
// Disabled instances mutate nothing and invoke nothing; the dropped
// toggle is reported.
func toggleNow(c *Component) {
	if !c.boolProp("enabled") {
		errors.Report(&errors.WeftError{
			Op:        "component.Toggle",
			Kind:      errors.KindDropped,
			Component: c.name,
			Property:  "checked",
			Err:       fmt.Errorf("component is disabled"),
		})
		return
	}
	next := property.Bool(!c.boolProp("checked"))
	c.write("checked", next)
	c.invokeLocal("toggled", next)
}
