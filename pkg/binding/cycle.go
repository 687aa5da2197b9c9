package binding

import (
	"github.com/go-weft/weft/pkg/errors"
)

// Seal finishes construction: canonicalizes every binding's source set
// through the link table, builds reverse dependency edges, and runs
// static cycle detection over the binding graph. No read or write is
// served before Seal succeeds, and no cell can be added after.
//
// Seal fails with a cycle error naming the dependency path when binding
// expressions form a loop. A graph that fails to seal must be
// discarded; none of its cells ever goes live.
func (g *Graph) Seal() error {
	if g.sealed {
		return g.defErr("binding.Graph.Seal", "", "graph is already sealed")
	}

	for _, c := range g.cells {
		if c.expr == nil {
			continue
		}
		for i, s := range c.sources {
			c.sources[i] = g.find(s)
		}
	}
	for _, c := range g.cells {
		if c.expr == nil {
			continue
		}
		for _, s := range c.sources {
			g.cells[s].dependents = append(g.cells[s].dependents, c.self)
		}
	}

	if err := g.checkCycles(); err != nil {
		return err
	}
	g.sealed = true
	return nil
}

// DFS colors for cycle detection.
const (
	colorWhite = iota // not visited
	colorGrey         // on the current DFS path
	colorBlack        // fully explored
)

// checkCycles walks binding edges depth-first. Hitting a grey cell
// means the current path loops; the error carries the property names
// along the loop, first repeated last.
func (g *Graph) checkCycles() error {
	color := make([]int, len(g.cells))
	var stack []CellID

	var visit func(id CellID) *errors.CycleError
	visit = func(id CellID) *errors.CycleError {
		color[id] = colorGrey
		stack = append(stack, id)
		c := g.cells[id]
		if c.expr != nil {
			for _, s := range c.sources {
				switch color[s] {
				case colorWhite:
					if ce := visit(s); ce != nil {
						return ce
					}
				case colorGrey:
					start := 0
					for i, sid := range stack {
						if sid == s {
							start = i
							break
						}
					}
					path := make([]string, 0, len(stack)-start+1)
					for _, sid := range stack[start:] {
						path = append(path, g.cells[sid].name)
					}
					path = append(path, g.cells[s].name)
					return &errors.CycleError{Path: path}
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[id] = colorBlack
		return nil
	}

	for i := range g.cells {
		id := CellID(i)
		if g.cells[id].parent != id || color[id] != colorWhite {
			continue
		}
		if ce := visit(id); ce != nil {
			return &errors.WeftError{
				Op:   "binding.Graph.Seal",
				Kind: errors.KindCycle,
				Err:  ce,
			}
		}
	}
	return nil
}
