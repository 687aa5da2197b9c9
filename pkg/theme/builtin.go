package theme

import (
	"time"

	"github.com/go-weft/weft/pkg/property"
)

// Material returns the default light theme with the Material 3
// baseline palette.
func Material() *Theme {
	return &Theme{
		Name:       "material",
		Brightness: BrightnessLight,
		Palette: Palette{
			Primary:          property.Color(0xFF6750A4),
			OnPrimary:        property.ColorWhite,
			Surface:          property.Color(0xFFFFFBFE),
			OnSurface:        property.Color(0xFF1C1B1F),
			SurfaceVariant:   property.Color(0xFFE7E0EC),
			OnSurfaceVariant: property.Color(0xFF49454F),
			Outline:          property.Color(0xFF79747E),
			Background:       property.Color(0xFFFFFBFE),
			OnBackground:     property.Color(0xFF1C1B1F),
			Error:            property.Color(0xFFB3261E),
			OnError:          property.ColorWhite,
		},
	}
}

// MaterialDark returns the dark variant of the Material theme.
func MaterialDark() *Theme {
	return &Theme{
		Name:       "material-dark",
		Brightness: BrightnessDark,
		Palette: Palette{
			Primary:          property.Color(0xFFD0BCFF),
			OnPrimary:        property.Color(0xFF381E72),
			Surface:          property.Color(0xFF1C1B1F),
			OnSurface:        property.Color(0xFFE6E1E5),
			SurfaceVariant:   property.Color(0xFF49454F),
			OnSurfaceVariant: property.Color(0xFFCAC4D0),
			Outline:          property.Color(0xFF938F99),
			Background:       property.Color(0xFF1C1B1F),
			OnBackground:     property.Color(0xFFE6E1E5),
			Error:            property.Color(0xFFF2B8B5),
			OnError:          property.Color(0xFF601410),
		},
	}
}

// Fluent returns a light theme with the Fluent accent palette and the
// tighter geometry Fluent controls use.
func Fluent() *Theme {
	t := &Theme{
		Name:       "fluent",
		Brightness: BrightnessLight,
		Palette: Palette{
			Primary:          property.Color(0xFF0078D4),
			OnPrimary:        property.ColorWhite,
			Surface:          property.Color(0xFFF3F3F3),
			OnSurface:        property.Color(0xFF1B1B1B),
			SurfaceVariant:   property.Color(0xFFEBEBEB),
			OnSurfaceVariant: property.Color(0xFF5C5C5C),
			Outline:          property.Color(0xFF8A8A8A),
			Background:       property.Color(0xFFF9F9F9),
			OnBackground:     property.Color(0xFF1B1B1B),
			Error:            property.Color(0xFFC42B1C),
			OnError:          property.ColorWhite,
		},
	}
	le := DefaultLineEditStyle(t.Palette)
	le.BorderRadius = 4
	le.Height = 32
	le.FontSize = 14
	le.FocusDuration = 100 * time.Millisecond
	t.LineEdit = &le

	cb := DefaultCheckBoxStyle(t.Palette)
	cb.Size = 18
	cb.BorderRadius = 3
	t.CheckBox = &cb
	return t
}

// Cupertino returns a light theme with the iOS system palette and
// rounded Cupertino geometry.
func Cupertino() *Theme {
	t := &Theme{
		Name:       "cupertino",
		Brightness: BrightnessLight,
		Palette: Palette{
			Primary:          property.Color(0xFF007AFF),
			OnPrimary:        property.ColorWhite,
			Surface:          property.ColorWhite,
			OnSurface:        property.ColorBlack,
			SurfaceVariant:   property.Color(0xFFF2F2F7),
			OnSurfaceVariant: property.Color(0xFF8E8E93),
			Outline:          property.Color(0xFFC6C6C8),
			Background:       property.Color(0xFFF2F2F7),
			OnBackground:     property.ColorBlack,
			Error:            property.Color(0xFFFF3B30),
			OnError:          property.ColorWhite,
		},
	}
	le := DefaultLineEditStyle(t.Palette)
	le.BorderRadius = 10
	le.Height = 36
	le.FocusDuration = 200 * time.Millisecond
	t.LineEdit = &le

	cb := DefaultCheckBoxStyle(t.Palette)
	cb.BorderRadius = 10
	cb.ToggleDuration = 150 * time.Millisecond
	t.CheckBox = &cb
	return t
}
