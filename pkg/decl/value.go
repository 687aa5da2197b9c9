package decl

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/go-weft/weft/pkg/component"
	"github.com/go-weft/weft/pkg/property"
)

// ParseValue interprets a decoded YAML scalar as a value of the given
// kind. Kinds never convert into each other, with one concession to how
// YAML types numbers: an integer scalar may fill a float property.
func ParseValue(kind property.Kind, raw any) (property.Value, error) {
	switch kind {
	case property.KindBool:
		if b, ok := raw.(bool); ok {
			return property.Bool(b), nil
		}
	case property.KindInt:
		switch v := raw.(type) {
		case int:
			return property.Int(int64(v)), nil
		case int64:
			return property.Int(v), nil
		}
	case property.KindFloat:
		switch v := raw.(type) {
		case float64:
			return property.Float(v), nil
		case int:
			return property.Float(float64(v)), nil
		case int64:
			return property.Float(float64(v)), nil
		}
	case property.KindString:
		if s, ok := raw.(string); ok {
			return property.String(s), nil
		}
	case property.KindColor:
		if s, ok := raw.(string); ok {
			c, err := property.ParseColor(s)
			if err != nil {
				return property.Value{}, err
			}
			return property.ColorValue(c), nil
		}
	case property.KindDuration:
		if s, ok := raw.(string); ok {
			d, err := time.ParseDuration(s)
			if err != nil {
				return property.Value{}, fmt.Errorf("bad duration %q", s)
			}
			return property.DurationValue(d), nil
		}
	}
	return property.Value{}, fmt.Errorf("cannot use %v as %s", raw, kind)
}

// parseScalar decodes one YAML scalar node into a value of the given
// kind, prefixing errors with the source line.
func parseScalar(kind property.Kind, n *yaml.Node) (property.Value, error) {
	var raw any
	if err := n.Decode(&raw); err != nil {
		return property.Value{}, fmt.Errorf("line %d: %v", n.Line, err)
	}
	v, err := ParseValue(kind, raw)
	if err != nil {
		return property.Value{}, fmt.Errorf("line %d: %v", n.Line, err)
	}
	return v, nil
}

// zeroValue is the initial value of a property declared without one.
func zeroValue(kind property.Kind) property.Value {
	switch kind {
	case property.KindBool:
		return property.Bool(false)
	case property.KindInt:
		return property.Int(0)
	case property.KindFloat:
		return property.Float(0)
	case property.KindString:
		return property.String("")
	case property.KindColor:
		return property.ColorValue(property.ColorTransparent)
	case property.KindDuration:
		return property.DurationValue(0)
	default:
		return property.Value{}
	}
}

func parseDirection(s string) (component.Direction, error) {
	switch s {
	case "", "in":
		return component.In, nil
	case "out":
		return component.Out, nil
	case "inout":
		return component.InOut, nil
	default:
		return component.In, fmt.Errorf("unknown direction %q (known: in, out, inout)", s)
	}
}
