package engine

import (
	"fmt"
	"strings"

	"github.com/go-weft/weft/pkg/component"
)

// PropSnapshot captures one externally readable property: its path
// relative to the root instance, its kind, and its rendered value.
type PropSnapshot struct {
	Path  string `json:"path"`
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

// Snapshot captures the externally observable state of one root
// instance: every output and in-out property of the tree, at the
// value a renderer would present (mid-animation values included).
// A snapshot is consistent until the next cascade runs.
type Snapshot struct {
	Seq   uint64         `json:"seq"`
	Root  string         `json:"root"`
	Props []PropSnapshot `json:"props"`
}

// Snapshot captures the given instance tree. The instance must belong
// to this runtime.
func (rt *Runtime) Snapshot(c *component.Component) Snapshot {
	s := Snapshot{Seq: rt.seq, Root: c.Name()}
	collectProps(c, "", &s.Props)
	return s
}

// Snapshots captures every mounted root, in mount order.
func (rt *Runtime) Snapshots() []Snapshot {
	out := make([]Snapshot, 0, len(rt.rootOrder))
	for _, name := range rt.rootOrder {
		out = append(out, rt.Snapshot(rt.roots[name]))
	}
	return out
}

// collectProps walks the instance tree in declaration order, reading
// presented values through the graph.
func collectProps(c *component.Component, prefix string, out *[]PropSnapshot) {
	for _, spec := range c.Props() {
		if spec.Dir == component.In {
			continue
		}
		path := prefix + spec.Name
		v, err := c.Get(spec.Name)
		if err != nil {
			continue
		}
		*out = append(*out, PropSnapshot{
			Path:  path,
			Kind:  spec.Kind.String(),
			Value: v.String(),
		})
	}
	for _, name := range c.Children() {
		collectProps(c.Child(name), prefix+name+".", out)
	}
}

// String renders the snapshot as stable, line-oriented text. The CLI
// prints it and golden tests compare against it.
func (s Snapshot) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s (cascade %d)\n", s.Root, s.Seq)
	for _, p := range s.Props {
		fmt.Fprintf(&b, "%s %s = %s\n", p.Path, p.Kind, p.Value)
	}
	return b.String()
}
