package layout

import (
	"github.com/matzehuels/jsongraph/pkg/errors"
	"github.com/matzehuels/jsongraph/pkg/jsongraph"
)

// Validate reports whether g is a single rooted tree: exactly one node
// without a parent, every other node with exactly one, and every node
// reachable from the root. Empty graphs are valid.
func Validate(g *jsongraph.Graph) error {
	if g.IsEmpty() {
		return nil
	}

	roots := g.Roots()
	switch len(roots) {
	case 0:
		return errors.New(errors.ErrCodeInvalidGraph, "graph has no root")
	case 1:
	default:
		return errors.New(errors.ErrCodeInvalidGraph, "graph has %d roots, want 1", len(roots))
	}

	for _, n := range g.Nodes() {
		if in := g.InDegree(n.ID); in > 1 {
			return errors.New(errors.ErrCodeInvalidGraph, "node %s has %d parents", n.ID, in)
		}
	}

	seen := make(map[string]bool, g.NodeCount())
	stack := []string{roots[0]}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[id] {
			return errors.New(errors.ErrCodeInvalidGraph, "node %s reached twice", id)
		}
		seen[id] = true
		stack = append(stack, g.Children(id)...)
	}
	if len(seen) != g.NodeCount() {
		return errors.New(errors.ErrCodeInvalidGraph, "%d nodes unreachable from root", g.NodeCount()-len(seen))
	}
	return nil
}
