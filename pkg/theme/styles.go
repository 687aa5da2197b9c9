package theme

import (
	"time"

	"github.com/go-weft/weft/pkg/property"
)

// LineEditStyle defines default styling for LineEdit components.
type LineEditStyle struct {
	// TextColor is the input text color.
	TextColor property.Color
	// PlaceholderColor is the placeholder text color.
	PlaceholderColor property.Color
	// BackgroundColor is the field background.
	BackgroundColor property.Color
	// BorderColor is the default border color.
	BorderColor property.Color
	// FocusBorderColor is the border color while the field holds focus.
	FocusBorderColor property.Color
	// DisabledTextColor is the text color when disabled.
	DisabledTextColor property.Color
	// DisabledBackgroundColor is the background when disabled.
	DisabledBackgroundColor property.Color
	// BorderRadius is the default corner radius.
	BorderRadius float64
	// BorderWidth is the default border stroke width.
	BorderWidth float64
	// Height is the default field height.
	Height float64
	// FontSize is the default text font size.
	FontSize float64
	// FocusDuration is how long the border color transition runs when
	// focus changes.
	FocusDuration time.Duration
}

// CheckBoxStyle defines default styling for CheckBox components.
type CheckBoxStyle struct {
	// ActiveColor is the fill color when checked.
	ActiveColor property.Color
	// CheckColor is the checkmark color.
	CheckColor property.Color
	// BorderColor is the outline color when unchecked.
	BorderColor property.Color
	// BackgroundColor is the fill color when unchecked.
	BackgroundColor property.Color
	// DisabledActiveColor is the fill color when checked and disabled.
	DisabledActiveColor property.Color
	// DisabledCheckColor is the checkmark color when disabled.
	DisabledCheckColor property.Color
	// Size is the default checkbox size.
	Size float64
	// BorderRadius is the default corner radius.
	BorderRadius float64
	// ToggleDuration is how long the fill color transition runs when
	// the value changes.
	ToggleDuration time.Duration
}

// DefaultLineEditStyle returns a LineEditStyle derived from a Palette.
func DefaultLineEditStyle(p Palette) LineEditStyle {
	return LineEditStyle{
		TextColor:               p.OnSurface,
		PlaceholderColor:        p.OnSurfaceVariant,
		BackgroundColor:         p.Surface,
		BorderColor:             p.Outline,
		FocusBorderColor:        p.Primary,
		DisabledTextColor:       p.OnSurfaceVariant,
		DisabledBackgroundColor: p.SurfaceVariant,
		BorderRadius:            8,
		BorderWidth:             1,
		Height:                  48,
		FontSize:                16,
		FocusDuration:           150 * time.Millisecond,
	}
}

// DefaultCheckBoxStyle returns a CheckBoxStyle derived from a Palette.
func DefaultCheckBoxStyle(p Palette) CheckBoxStyle {
	return CheckBoxStyle{
		ActiveColor:         p.Primary,
		CheckColor:          p.OnPrimary,
		BorderColor:         p.Outline,
		BackgroundColor:     p.Surface,
		DisabledActiveColor: p.SurfaceVariant,
		DisabledCheckColor:  p.OnSurfaceVariant,
		Size:                20,
		BorderRadius:        4,
		ToggleDuration:      100 * time.Millisecond,
	}
}
