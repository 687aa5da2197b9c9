// Package theme supplies the visual defaults consumed by the stock
// component templates. A Theme couples a named color palette with
// per-component style tables; styles not set explicitly are derived
// from the palette on demand.
package theme

import "github.com/go-weft/weft/pkg/property"

// Brightness indicates if a theme is light or dark.
type Brightness int

const (
	// BrightnessLight is a light theme.
	BrightnessLight Brightness = iota

	// BrightnessDark is a dark theme.
	BrightnessDark
)

func (b Brightness) String() string {
	if b == BrightnessDark {
		return "dark"
	}
	return "light"
}

// Palette defines the color roles component styles are derived from.
type Palette struct {
	// Primary is the accent color for interactive elements.
	Primary property.Color
	// OnPrimary is the content color drawn over Primary.
	OnPrimary property.Color
	// Surface is the default component background.
	Surface property.Color
	// OnSurface is the content color drawn over Surface.
	OnSurface property.Color
	// SurfaceVariant is the background for secondary surfaces and
	// disabled fills.
	SurfaceVariant property.Color
	// OnSurfaceVariant is the content color drawn over SurfaceVariant.
	OnSurfaceVariant property.Color
	// Outline is the default border color.
	Outline property.Color
	// Background is the window background.
	Background property.Color
	// OnBackground is the content color drawn over Background.
	OnBackground property.Color
	// Error marks invalid input and failure states.
	Error property.Color
	// OnError is the content color drawn over Error.
	OnError property.Color
}
