package property

import (
	"math"
	"testing"
	"time"
)

func TestValueRoundTrip(t *testing.T) {
	if v := Bool(true); !v.AsBool() || v.Kind() != KindBool {
		t.Errorf("Bool(true) = %v", v)
	}
	if v := Int(-42); v.AsInt() != -42 || v.Kind() != KindInt {
		t.Errorf("Int(-42) = %v", v)
	}
	if v := Float(2.5); v.AsFloat() != 2.5 || v.Kind() != KindFloat {
		t.Errorf("Float(2.5) = %v", v)
	}
	if v := String("hi"); v.AsString() != "hi" || v.Kind() != KindString {
		t.Errorf("String(hi) = %v", v)
	}
	if v := ColorValue(ColorRed); v.AsColor() != ColorRed || v.Kind() != KindColor {
		t.Errorf("ColorValue(red) = %v", v)
	}
	if v := DurationValue(150 * time.Millisecond); v.AsDuration() != 150*time.Millisecond {
		t.Errorf("DurationValue = %v", v)
	}
}

func TestZeroValueIsInvalid(t *testing.T) {
	var v Value
	if v.IsValid() {
		t.Error("zero Value should be invalid")
	}
	if v.Kind() != KindInvalid {
		t.Errorf("zero Value kind = %v, want KindInvalid", v.Kind())
	}
}

func TestValueEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"same bool", Bool(true), Bool(true), true},
		{"different bool", Bool(true), Bool(false), false},
		{"same int", Int(7), Int(7), true},
		{"different int", Int(7), Int(8), false},
		{"same float", Float(1.5), Float(1.5), true},
		{"nan equals itself", Float(math.NaN()), Float(math.NaN()), true},
		{"same string", String("a"), String("a"), true},
		{"different string", String("a"), String("b"), false},
		{"no cross-kind equality", Int(3), Float(3.0), false},
		{"string never equals int", String("3"), Int(3), false},
		{"same color", ColorValue(ColorBlue), ColorValue(ColorBlue), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("%v.Equal(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestKindInterpolable(t *testing.T) {
	tests := []struct {
		kind Kind
		want bool
	}{
		{KindBool, false},
		{KindInt, true},
		{KindFloat, true},
		{KindString, false},
		{KindColor, true},
		{KindDuration, true},
		{KindInvalid, false},
	}
	for _, tt := range tests {
		if got := tt.kind.Interpolable(); got != tt.want {
			t.Errorf("%v.Interpolable() = %v, want %v", tt.kind, got, tt.want)
		}
	}
}

func TestParseKind(t *testing.T) {
	for _, name := range []string{"bool", "int", "float", "string", "color", "duration"} {
		k, ok := ParseKind(name)
		if !ok {
			t.Errorf("ParseKind(%q) not ok", name)
		}
		if k.String() != name {
			t.Errorf("ParseKind(%q).String() = %q", name, k.String())
		}
	}
	if _, ok := ParseKind("vec2"); ok {
		t.Error("ParseKind(vec2) should not be ok")
	}
}

func TestValueString(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{Bool(true), "true"},
		{Int(42), "42"},
		{Float(0.5), "0.5"},
		{String("x"), `"x"`},
		{ColorValue(ColorRed), "#ffff0000"},
		{DurationValue(200 * time.Millisecond), "200ms"},
		{Value{}, "<invalid>"},
	}
	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
