package search

import "github.com/matzehuels/jsongraph/pkg/jsongraph"

// Delta is the set of highlight changes produced by a successful search.
type Delta struct {
	// Target becomes the only highlighted node.
	Target string `json:"target"`
	// Cleared lists nodes that were highlighted before and will not be after.
	Cleared []string `json:"cleared,omitempty"`
}

// IsZero reports whether d carries no target.
func (d Delta) IsZero() bool { return d.Target == "" }

// NewDelta computes the delta that makes target the single highlight of g.
func NewDelta(g *jsongraph.Graph, target string) Delta {
	d := Delta{Target: target}
	for _, n := range g.Nodes() {
		if n.Highlighted && n.ID != target {
			d.Cleared = append(d.Cleared, n.ID)
		}
	}
	return d
}

// Apply highlights d.Target and clears every other node. After Apply at
// most one node of g is highlighted. A zero delta is a no-op.
func Apply(g *jsongraph.Graph, d Delta) {
	if d.IsZero() || g.IsEmpty() {
		return
	}
	if _, ok := g.Node(d.Target); !ok {
		return
	}
	for _, n := range g.Nodes() {
		n.Highlighted = n.ID == d.Target
	}
}

// ClearHighlight removes any highlight from g.
func ClearHighlight(g *jsongraph.Graph) {
	if g.IsEmpty() {
		return
	}
	for _, n := range g.Nodes() {
		n.Highlighted = false
	}
}
