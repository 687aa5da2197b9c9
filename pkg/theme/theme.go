package theme

import "fmt"

// Theme bundles a palette with optional per-component style overrides.
// Component styles left nil are derived from the palette by the
// corresponding StyleOf accessor.
type Theme struct {
	// Name identifies the theme in definitions and diagnostics.
	Name string

	// Brightness indicates if this is a light or dark theme.
	Brightness Brightness

	// Palette is the color palette styles derive from.
	Palette Palette

	// Component styles. Optional, derived from Palette if nil.
	LineEdit *LineEditStyle
	CheckBox *CheckBoxStyle
}

// LineEditStyleOf returns the line edit style, deriving from Palette
// if not set.
func (t *Theme) LineEditStyleOf() LineEditStyle {
	if t.LineEdit != nil {
		return *t.LineEdit
	}
	return DefaultLineEditStyle(t.Palette)
}

// CheckBoxStyleOf returns the checkbox style, deriving from Palette
// if not set.
func (t *Theme) CheckBoxStyleOf() CheckBoxStyle {
	if t.CheckBox != nil {
		return *t.CheckBox
	}
	return DefaultCheckBoxStyle(t.Palette)
}

// Copy returns a deep copy of the theme. Style overrides are copied
// independently so callers can mutate without affecting the original.
func (t *Theme) Copy() *Theme {
	c := *t
	if t.LineEdit != nil {
		le := *t.LineEdit
		c.LineEdit = &le
	}
	if t.CheckBox != nil {
		cb := *t.CheckBox
		c.CheckBox = &cb
	}
	return &c
}

// Named returns the built-in theme with the given name. Recognized
// names are "material", "material-dark", "fluent" and "cupertino".
// The empty string selects Material.
func Named(name string) (*Theme, error) {
	switch name {
	case "", "material":
		return Material(), nil
	case "material-dark":
		return MaterialDark(), nil
	case "fluent":
		return Fluent(), nil
	case "cupertino":
		return Cupertino(), nil
	default:
		return nil, fmt.Errorf("unknown theme %q", name)
	}
}
