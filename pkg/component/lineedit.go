package component

import (
	"fmt"

	"github.com/go-weft/weft/pkg/animation"
	"github.com/go-weft/weft/pkg/errors"
	"github.com/go-weft/weft/pkg/focus"
	"github.com/go-weft/weft/pkg/property"
	"github.com/go-weft/weft/pkg/theme"
)

// TextInput returns the primitive editable-text template that LineEdit
// builds on. It owns the text value, cursor and selection anchor, and
// consumes key events while it holds focus.
//
// Key handling is deliberately minimal: single-rune keys insert at the
// selection, Backspace deletes the selection or the rune before the
// cursor, Enter announces the text through "accepted". Everything else
// is ignored and bubbles.
func TextInput() *Template {
	return NewTemplate("TextInput").
		InOut("text", property.KindString, property.String("")).
		Input("enabled", property.KindBool, property.Bool(true)).
		Input("read-only", property.KindBool, property.Bool(false)).
		Output("has-focus", property.KindBool, property.Bool(false)).
		Output("cursor", property.KindInt, property.Int(0)).
		Output("anchor", property.KindInt, property.Int(0)).
		Callback("edited").
		Callback("accepted").
		OnKey(textInputKey).
		OnFocusChange(func(c *Component, focused bool) {
			c.write("has-focus", property.Bool(focused))
		})
}

// LineEdit returns the stock single-line text field template, styled
// by the theme's line edit table. The field wraps a TextInput child:
// the outer text, enabled and read-only properties share identity
// with the child's, focus forwards into the child, and the edited and
// accepted callbacks are aliases of the child's.
func LineEdit(th *theme.Theme) *Template {
	style := th.LineEditStyleOf()
	return NewTemplate("LineEdit").
		InOut("text", property.KindString, property.String("")).
		Input("placeholder", property.KindString, property.String("")).
		Input("enabled", property.KindBool, property.Bool(true)).
		Input("read-only", property.KindBool, property.Bool(false)).
		Output("has-focus", property.KindBool, property.Bool(false)).
		Output("empty", property.KindBool, property.Bool(true)).
		Output("background", property.KindColor, property.ColorValue(style.BackgroundColor)).
		Output("border-color", property.KindColor, property.ColorValue(style.BorderColor)).
		Output("text-color", property.KindColor, property.ColorValue(style.TextColor)).
		Child("input", TextInput()).
		Link("input.text", "text").
		Link("input.enabled", "enabled").
		Link("input.read-only", "read-only").
		Bind("empty", func(in []property.Value) property.Value {
			return property.Bool(in[0].AsString() == "")
		}, "text").
		State("focused", []string{"has-focus"},
			func(in []property.Value) bool { return in[0].AsBool() },
			Set("border-color", property.ColorValue(style.FocusBorderColor))).
		State("disabled", []string{"enabled"},
			func(in []property.Value) bool { return !in[0].AsBool() },
			Set("background", property.ColorValue(style.DisabledBackgroundColor)),
			Set("text-color", property.ColorValue(style.DisabledTextColor)),
			Set("border-color", property.ColorValue(style.BorderColor))).
		Animate("border-color", style.FocusDuration, animation.EaseOut).
		Animate("background", style.FocusDuration, animation.EaseOut).
		Callback("edited").
		Callback("accepted").
		AliasCallback("edited", "input", "edited").
		AliasCallback("accepted", "input", "accepted").
		ForwardFocus("input").
		OnPointer(lineEditPointer).
		OnFocusChange(func(c *Component, focused bool) {
			c.write("has-focus", property.Bool(focused))
		})
}

func textInputKey(c *Component, ev focus.KeyEvent) focus.KeyEventResult {
	switch ev.Key {
	case "Enter":
		c.invokeLocal("accepted", property.String(c.stringProp("text")))
		return focus.KeyEventHandled
	case "Backspace":
		if c.boolProp("read-only") {
			return focus.KeyEventIgnored
		}
		runes := []rune(c.stringProp("text"))
		a, b := selRange(c, len(runes))
		if a == b && a > 0 {
			a--
		}
		editText(c, string(runes[:a])+string(runes[b:]), a)
		return focus.KeyEventHandled
	default:
		if len([]rune(ev.Key)) != 1 || c.boolProp("read-only") {
			return focus.KeyEventIgnored
		}
		runes := []rune(c.stringProp("text"))
		a, b := selRange(c, len(runes))
		editText(c, string(runes[:a])+ev.Key+string(runes[b:]), a+1)
		return focus.KeyEventHandled
	}
}

func lineEditPointer(c *Component, ev focus.PointerEvent) focus.KeyEventResult {
	if ev.Phase != focus.PointerDown {
		return focus.KeyEventIgnored
	}
	c.env.Focus.GrantFocus(c.focusID)
	return focus.KeyEventHandled
}

// editText commits a new text value, collapses the selection to the
// given position, and announces the edit.
func editText(c *Component, text string, cursor int) {
	c.write("text", property.String(text))
	pos := property.Int(int64(cursor))
	c.write("cursor", pos)
	c.write("anchor", pos)
	c.invokeLocal("edited", property.String(text))
}

// selRange returns the selection as an ordered rune range clamped to
// the text length.
func selRange(c *Component, n int) (int, int) {
	a := int(c.readCommitted("anchor").AsInt())
	b := int(c.readCommitted("cursor").AsInt())
	a = min(max(a, 0), n)
	b = min(max(b, 0), n)
	if a > b {
		a, b = b, a
	}
	return a, b
}

// editable locates the instance carrying the text-editing properties:
// the instance itself, or its "input" child for wrapper widgets.
func editable(c *Component) *Component {
	if _, ok := c.cells["cursor"]; ok {
		return c
	}
	if ch := c.children["input"]; ch != nil {
		if _, ok := ch.cells["cursor"]; ok {
			return ch
		}
	}
	return nil
}

// SelectAll extends the selection over the entire text, as one
// cascade.
func SelectAll(c *Component) error {
	in := editable(c)
	if in == nil {
		return c.defErr("component.SelectAll", "", "instance has no editable text")
	}
	in.run(func() {
		n := int64(len([]rune(in.stringProp("text"))))
		in.write("anchor", property.Int(0))
		in.write("cursor", property.Int(n))
	})
	return nil
}

// SelectedText returns the text inside the current selection.
func SelectedText(c *Component) (string, error) {
	in := editable(c)
	if in == nil {
		return "", c.defErr("component.SelectedText", "", "instance has no editable text")
	}
	runes := []rune(in.stringProp("text"))
	a, b := selRange(in, len(runes))
	return string(runes[a:b]), nil
}

// InsertText replaces the current selection with s, as one cascade.
// Disabled and read-only instances are left untouched; the dropped
// edit is reported.
func InsertText(c *Component, s string) error {
	in := editable(c)
	if in == nil {
		return c.defErr("component.InsertText", "", "instance has no editable text")
	}
	in.run(func() {
		if !in.boolProp("enabled") || in.boolProp("read-only") {
			errors.Report(&errors.WeftError{
				Op:        "component.InsertText",
				Kind:      errors.KindDropped,
				Component: in.name,
				Property:  "text",
				Err:       fmt.Errorf("component is disabled or read-only"),
			})
			return
		}
		runes := []rune(in.stringProp("text"))
		a, b := selRange(in, len(runes))
		editText(in, string(runes[:a])+s+string(runes[b:]), a+len([]rune(s)))
	})
	return nil
}
