package animation

import (
	"math"
	"time"

	"github.com/go-weft/weft/pkg/property"
)

// LerpFloat64 linearly interpolates between two float64 values.
func LerpFloat64(a, b float64, t float64) float64 {
	return a + (b-a)*t
}

// LerpColor linearly interpolates between two colors channel by
// channel, alpha included.
func LerpColor(a, b property.Color, t float64) property.Color {
	aA, aR, aG, aB := a.Channels()
	bA, bR, bG, bB := b.Channels()

	alpha := uint8(LerpFloat64(float64(aA), float64(bA), t))
	r := uint8(LerpFloat64(float64(aR), float64(bR), t))
	g := uint8(LerpFloat64(float64(aG), float64(bG), t))
	b8 := uint8(LerpFloat64(float64(aB), float64(bB), t))

	return property.RGBA8(r, g, b8, alpha)
}

// Lerp interpolates between two values of the same interpolable kind.
// Ints and durations round to the nearest step. For non-interpolable
// kinds and mismatched kinds Lerp snaps: t < 1 yields a, otherwise b.
func Lerp(a, b property.Value, t float64) property.Value {
	if a.Kind() != b.Kind() {
		if t < 1 {
			return a
		}
		return b
	}
	switch a.Kind() {
	case property.KindFloat:
		return property.Float(LerpFloat64(a.AsFloat(), b.AsFloat(), t))
	case property.KindInt:
		return property.Int(int64(math.Round(LerpFloat64(float64(a.AsInt()), float64(b.AsInt()), t))))
	case property.KindColor:
		return property.ColorValue(LerpColor(a.AsColor(), b.AsColor(), t))
	case property.KindDuration:
		d := LerpFloat64(float64(a.AsDuration()), float64(b.AsDuration()), t)
		return property.DurationValue(time.Duration(math.Round(d)))
	default:
		if t < 1 {
			return a
		}
		return b
	}
}
