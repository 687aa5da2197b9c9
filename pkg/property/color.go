package property

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/image/colornames"
)

// maxByte is the maximum value of a byte, used for color normalization.
const maxByte = 255.0

// Color is stored as ARGB (0xAARRGGBB).
type Color uint32

// RGBA constructs a Color from red, green, blue bytes and alpha (0-1).
func RGBA(r, g, b uint8, a float64) Color {
	return Color(uint32(alpha01ToByte(a))<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// RGBA8 constructs a Color from red, green, blue, alpha bytes (all 0-255).
func RGBA8(r, g, b, a uint8) Color {
	return Color(uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// RGB constructs an opaque Color from red, green, blue bytes.
func RGB(r, g, b uint8) Color {
	return RGBA8(r, g, b, 0xFF)
}

// Channels returns the alpha, red, green and blue bytes.
func (c Color) Channels() (a, r, g, b uint8) {
	return uint8(c >> 24), uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// Alpha returns the alpha component as a value from 0.0 (transparent) to 1.0 (opaque).
func (c Color) Alpha() float64 {
	return float64(uint8(c>>24)) / maxByte
}

// WithAlpha returns a copy of the color with the given alpha (0-1).
func (c Color) WithAlpha(a float64) Color {
	return Color(uint32(alpha01ToByte(a))<<24 | uint32(c)&0x00FFFFFF)
}

// String renders the color as #AARRGGBB.
func (c Color) String() string {
	return fmt.Sprintf("#%08x", uint32(c))
}

// alpha01ToByte converts a 0-1 alpha to 0-255 with proper rounding.
func alpha01ToByte(a float64) uint8 {
	return uint8(math.Round(clamp01(a) * 255))
}

// clamp01 clamps a value to the range [0, 1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Common colors.
const (
	ColorTransparent = Color(0x00000000)
	ColorBlack       = Color(0xFF000000)
	ColorWhite       = Color(0xFFFFFFFF)
	ColorRed         = Color(0xFFFF0000)
	ColorGreen       = Color(0xFF00FF00)
	ColorBlue        = Color(0xFF0000FF)
)

// ParseColor parses a color literal as written in component definitions:
// "#RGB", "#RRGGBB", "#AARRGGBB", or an SVG 1.1 color name such as
// "gainsboro". Names are matched case-insensitively.
func ParseColor(s string) (Color, error) {
	if strings.HasPrefix(s, "#") {
		return parseHexColor(s[1:])
	}
	if rgba, ok := colornames.Map[strings.ToLower(s)]; ok {
		return RGBA8(rgba.R, rgba.G, rgba.B, rgba.A), nil
	}
	return 0, fmt.Errorf("unknown color %q", s)
}

func parseHexColor(hex string) (Color, error) {
	switch len(hex) {
	case 3:
		// #RGB expands each nibble: #f0c -> #ff00cc.
		r, okR := hexNibble(hex[0])
		g, okG := hexNibble(hex[1])
		b, okB := hexNibble(hex[2])
		if !okR || !okG || !okB {
			return 0, fmt.Errorf("invalid hex color %q", "#"+hex)
		}
		return RGB(r<<4|r, g<<4|g, b<<4|b), nil
	case 6:
		v, err := hexUint(hex)
		if err != nil {
			return 0, fmt.Errorf("invalid hex color %q", "#"+hex)
		}
		return Color(0xFF000000 | v), nil
	case 8:
		v, err := hexUint(hex)
		if err != nil {
			return 0, fmt.Errorf("invalid hex color %q", "#"+hex)
		}
		return Color(v), nil
	default:
		return 0, fmt.Errorf("invalid hex color %q: want 3, 6 or 8 digits", "#"+hex)
	}
}

func hexUint(s string) (uint32, error) {
	var v uint32
	for i := 0; i < len(s); i++ {
		n, ok := hexNibble(s[i])
		if !ok {
			return 0, fmt.Errorf("bad digit %q", s[i])
		}
		v = v<<4 | uint32(n)
	}
	return v, nil
}

func hexNibble(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}
