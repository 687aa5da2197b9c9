package decl

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// file is the YAML document model of one component definition.
type file struct {
	Schema       string        `yaml:"schema"`
	Component    string        `yaml:"component"`
	Properties   []propertyDef `yaml:"properties"`
	Children     []childDef    `yaml:"children"`
	Links        [][]string    `yaml:"links"`
	States       []stateDef    `yaml:"states"`
	Callbacks    []string      `yaml:"callbacks"`
	Aliases      []aliasDef    `yaml:"aliases"`
	ForwardFocus string        `yaml:"forward-focus"`
}

type propertyDef struct {
	Name      string      `yaml:"name"`
	Type      string      `yaml:"type"`
	Direction string      `yaml:"direction"`
	Value     *yaml.Node  `yaml:"value"`
	Bind      *node       `yaml:"bind"`
	Animate   *animateDef `yaml:"animate"`
}

type childDef struct {
	Name      string `yaml:"name"`
	Component string `yaml:"component"`
}

type stateDef struct {
	Name string               `yaml:"name"`
	When *node                `yaml:"when"`
	Set  map[string]yaml.Node `yaml:"set"`
}

type animateDef struct {
	Duration string `yaml:"duration"`
	Easing   string `yaml:"easing"`
}

type aliasDef struct {
	Callback string `yaml:"callback"`
	Child    string `yaml:"child"`
	Inner    string `yaml:"inner"`
}

// node is one expression in a definition: a property reference, a
// literal, or an operator over sub-expressions. A bare string scalar is
// shorthand for {ref: ...}; string literals always spell {value: ...}.
type node struct {
	ref string
	lit *yaml.Node
	not *node
	all []*node
	any []*node
	eq  []*node
	sel *selectDef

	line int
}

type selectDef struct {
	cond *node
	then *node
	alt  *node
}

func (n *node) UnmarshalYAML(value *yaml.Node) error {
	n.line = value.Line
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!str" {
			n.ref = value.Value
			return nil
		}
		n.lit = value
		return nil
	case yaml.MappingNode:
		if len(value.Content) != 2 {
			return fmt.Errorf("line %d: expression needs exactly one of ref, value, not, all, any, eq, select", value.Line)
		}
		key, val := value.Content[0], value.Content[1]
		switch key.Value {
		case "ref":
			if val.Kind != yaml.ScalarNode || val.Tag != "!!str" {
				return fmt.Errorf("line %d: ref needs a property path", val.Line)
			}
			n.ref = val.Value
			return nil
		case "value":
			if val.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: value needs a scalar", val.Line)
			}
			n.lit = val
			return nil
		case "not":
			n.not = new(node)
			return val.Decode(n.not)
		case "all":
			return val.Decode(&n.all)
		case "any":
			return val.Decode(&n.any)
		case "eq":
			return val.Decode(&n.eq)
		case "select":
			return n.decodeSelect(val)
		default:
			return fmt.Errorf("line %d: unknown expression form %q", key.Line, key.Value)
		}
	default:
		return fmt.Errorf("line %d: expression must be a scalar or a single-key mapping", value.Line)
	}
}

func (n *node) decodeSelect(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: select needs a mapping with if, then and else", value.Line)
	}
	sel := &selectDef{}
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, val := value.Content[i], value.Content[i+1]
		target := new(node)
		if err := val.Decode(target); err != nil {
			return err
		}
		switch key.Value {
		case "if":
			sel.cond = target
		case "then":
			sel.then = target
		case "else":
			sel.alt = target
		default:
			return fmt.Errorf("line %d: unknown select field %q", key.Line, key.Value)
		}
	}
	if sel.cond == nil || sel.then == nil || sel.alt == nil {
		return fmt.Errorf("line %d: select needs if, then and else", value.Line)
	}
	n.sel = sel
	return nil
}
