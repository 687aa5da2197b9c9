// Package property defines the typed value system shared by the binding
// graph, the state overlay resolver, and the animation scheduler.
//
// A Value is a small immutable tagged union. Properties never convert
// between kinds implicitly: an int property cannot receive a float, and
// a string "3" is never equal to the integer 3. Mismatches are rejected
// at construction time wherever they are statically visible.
package property

import (
	"fmt"
	"math"
	"time"
)

// Kind identifies the type of a property value.
type Kind int

const (
	// KindInvalid is the kind of the zero Value.
	KindInvalid Kind = iota
	// KindBool holds true or false.
	KindBool
	// KindInt holds a 64-bit signed integer.
	KindInt
	// KindFloat holds a 64-bit float.
	KindFloat
	// KindString holds an immutable string.
	KindString
	// KindColor holds a 32-bit ARGB color.
	KindColor
	// KindDuration holds a time.Duration.
	KindDuration
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindColor:
		return "color"
	case KindDuration:
		return "duration"
	default:
		return "invalid"
	}
}

// ParseKind maps a type name as written in component definitions to its
// Kind. The second result is false for unknown names.
func ParseKind(name string) (Kind, bool) {
	switch name {
	case "bool":
		return KindBool, true
	case "int":
		return KindInt, true
	case "float":
		return KindFloat, true
	case "string":
		return KindString, true
	case "color":
		return KindColor, true
	case "duration":
		return KindDuration, true
	default:
		return KindInvalid, false
	}
}

// Interpolable reports whether values of this kind can be animated.
// Discrete kinds (bool, string) snap and cannot carry animation
// directives; declaring one is a construction-time type mismatch.
func (k Kind) Interpolable() bool {
	switch k {
	case KindInt, KindFloat, KindColor, KindDuration:
		return true
	default:
		return false
	}
}

// Value is an immutable typed property value.
//
// The zero Value has KindInvalid and is not a legal cell content; every
// declared property carries an initial Value of its declared kind.
type Value struct {
	kind Kind
	num  uint64
	str  string
}

// Bool returns a KindBool value.
func Bool(b bool) Value {
	var n uint64
	if b {
		n = 1
	}
	return Value{kind: KindBool, num: n}
}

// Int returns a KindInt value.
func Int(i int64) Value {
	return Value{kind: KindInt, num: uint64(i)}
}

// Float returns a KindFloat value.
func Float(f float64) Value {
	return Value{kind: KindFloat, num: math.Float64bits(f)}
}

// String returns a KindString value.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// ColorValue returns a KindColor value.
func ColorValue(c Color) Value {
	return Value{kind: KindColor, num: uint64(c)}
}

// DurationValue returns a KindDuration value.
func DurationValue(d time.Duration) Value {
	return Value{kind: KindDuration, num: uint64(d)}
}

// Kind returns the value's kind.
func (v Value) Kind() Kind {
	return v.kind
}

// IsValid reports whether the value carries a kind.
func (v Value) IsValid() bool {
	return v.kind != KindInvalid
}

// AsBool returns the bool payload. It is only meaningful for KindBool.
func (v Value) AsBool() bool {
	return v.num != 0
}

// AsInt returns the int payload. It is only meaningful for KindInt.
func (v Value) AsInt() int64 {
	return int64(v.num)
}

// AsFloat returns the float payload. It is only meaningful for KindFloat.
func (v Value) AsFloat() float64 {
	return math.Float64frombits(v.num)
}

// AsString returns the string payload. It is only meaningful for KindString.
func (v Value) AsString() string {
	return v.str
}

// AsColor returns the color payload. It is only meaningful for KindColor.
func (v Value) AsColor() Color {
	return Color(v.num)
}

// AsDuration returns the duration payload. It is only meaningful for
// KindDuration.
func (v Value) AsDuration() time.Duration {
	return time.Duration(v.num)
}

// Equal reports whether two values are identical: same kind, same
// payload. Floats compare bitwise, so NaN equals itself and change
// detection stays stable under repeated evaluation.
func (v Value) Equal(o Value) bool {
	return v.kind == o.kind && v.num == o.num && v.str == o.str
}

// String renders the value for diagnostics and traces.
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		if v.AsBool() {
			return "true"
		}
		return "false"
	case KindInt:
		return fmt.Sprintf("%d", v.AsInt())
	case KindFloat:
		return fmt.Sprintf("%g", v.AsFloat())
	case KindString:
		return fmt.Sprintf("%q", v.str)
	case KindColor:
		return v.AsColor().String()
	case KindDuration:
		return v.AsDuration().String()
	default:
		return "<invalid>"
	}
}
