package graph

import (
	"fmt"

	"github.com/matzehuels/jsongraph/pkg/jsongraph"
	"github.com/matzehuels/jsongraph/pkg/layout"
	"github.com/matzehuels/jsongraph/pkg/render"
)

// Options configures [From].
type Options struct {
	// Directives size the frame and record the direction.
	Directives layout.Directives
	// Palette styles nodes; nil uses render.DefaultPalette.
	Palette *render.Palette
	// OmitStyle leaves Node.Style unset for compact output.
	OmitStyle bool
	// Stats attaches a Stats summary.
	Stats bool
}

// From serializes g. Nodes and edges keep creation order.
func From(g *jsongraph.Graph, opts Options) Document {
	d := opts.Directives.WithDefaults()
	pal := render.DefaultPalette()
	if opts.Palette != nil {
		pal = *opts.Palette
	}

	doc := Document{
		Nodes:     []Node{},
		Edges:     []Edge{},
		Direction: string(d.Direction),
	}
	if g.IsEmpty() {
		return doc
	}
	doc.Nodes = make([]Node, 0, g.NodeCount())
	doc.Edges = make([]Edge, 0, g.EdgeCount())

	pos := make(layout.Positions, g.NodeCount())
	for _, n := range g.Nodes() {
		pos[n.ID] = n.Position
		node := Node{
			ID:          n.ID,
			Type:        nodeType(g, n),
			Data:        NodeData{Label: n.Label},
			Position:    n.Position,
			Kind:        n.Kind.String(),
			Scalar:      n.Scalar.String(),
			Highlighted: n.Highlighted,
		}
		if !opts.OmitStyle {
			s := pal.StyleFor(n)
			s.Width, s.Height = d.NodeWidth, d.NodeHeight
			node.Style = &s
		}
		if n.Highlighted {
			doc.Highlight = n.ID
		}
		doc.Nodes = append(doc.Nodes, node)
	}
	for _, e := range g.Edges() {
		doc.Edges = append(doc.Edges, Edge{
			ID:       e.ID,
			Source:   e.Source,
			Target:   e.Target,
			Animated: e.Container,
			Type:     EdgeTypeSmoothStep,
		})
	}
	doc.Width, doc.Height = pos.Bounds(d)

	if opts.Stats {
		s := jsongraph.ComputeStats(g)
		doc.Stats = &Stats{
			Nodes:      s.Nodes,
			Edges:      s.Edges,
			Containers: s.Containers,
			Values:     s.Values,
			MaxDepth:   s.MaxDepth,
		}
	}
	return doc
}

func nodeType(g *jsongraph.Graph, n *jsongraph.Node) string {
	switch {
	case g.InDegree(n.ID) == 0:
		return NodeTypeInput
	case g.OutDegree(n.ID) == 0:
		return NodeTypeOutput
	}
	return NodeTypeDefault
}

// ToGraph rebuilds a graph from doc, restoring positions and highlight.
// Edges must reference known nodes.
func (doc Document) ToGraph() (*jsongraph.Graph, error) {
	g := jsongraph.New()
	for _, n := range doc.Nodes {
		kind, err := jsongraph.ParseKind(n.Kind)
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", n.ID, err)
		}
		node := jsongraph.Node{
			ID:          n.ID,
			Label:       n.Data.Label,
			Kind:        kind,
			Scalar:      parseScalar(n.Scalar),
			Position:    n.Position,
			Highlighted: n.Highlighted,
		}
		if err := g.AddNode(node); err != nil {
			return nil, fmt.Errorf("node %s: %w", n.ID, err)
		}
	}
	for _, e := range doc.Edges {
		if err := g.AddEdge(e.Source, e.Target); err != nil {
			return nil, fmt.Errorf("edge %s: %w", e.ID, err)
		}
	}
	return g, nil
}

func parseScalar(s string) jsongraph.Scalar {
	for _, sc := range []jsongraph.Scalar{jsongraph.ScalarNull, jsongraph.ScalarBool, jsongraph.ScalarNumber, jsongraph.ScalarString} {
		if sc.String() == s {
			return sc
		}
	}
	return jsongraph.ScalarNone
}
