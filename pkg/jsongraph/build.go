package jsongraph

import (
	"strconv"

	"github.com/matzehuels/jsongraph/pkg/jsonvalue"
)

// Build compiles v into a tree rooted at a node labeled "data".
// Build never fails and has no side effects.
func Build(v jsonvalue.Value) *Graph {
	b := &builder{g: New()}
	b.visit(RootLabel, v, "")
	return b.g
}

// builder carries the id counter for one Build call.
type builder struct {
	g    *Graph
	next int
}

func (b *builder) nextID() string {
	b.next++
	return strconv.Itoa(b.next)
}

func (b *builder) add(n Node, parent string) {
	// ids are fresh and parents already exist, so neither call can fail.
	_ = b.g.AddNode(n)
	if parent != "" {
		_ = b.g.AddEdge(parent, n.ID)
	}
}

func (b *builder) visit(label string, v jsonvalue.Value, parent string) {
	id := b.nextID()

	switch v.Kind() {
	case jsonvalue.KindArray:
		b.add(Node{ID: id, Label: label, Kind: KindArray}, parent)
		for i, elem := range v.Elems() {
			b.visit(strconv.Itoa(i), elem, id)
		}
	case jsonvalue.KindObject:
		b.add(Node{ID: id, Label: label, Kind: KindObject}, parent)
		for _, m := range v.Members() {
			b.visit(m.Key, m.Value, id)
		}
	default:
		scalar := scalarOf(v.Kind())
		b.add(Node{ID: id, Label: label, Kind: KindKey, Scalar: scalar}, parent)
		b.add(Node{ID: b.nextID(), Label: v.String(), Kind: KindPrimitive, Scalar: scalar}, id)
	}
}

func scalarOf(k jsonvalue.Kind) Scalar {
	switch k {
	case jsonvalue.KindNull:
		return ScalarNull
	case jsonvalue.KindBool:
		return ScalarBool
	case jsonvalue.KindNumber:
		return ScalarNumber
	case jsonvalue.KindString:
		return ScalarString
	}
	return ScalarNone
}

// Stats summarizes a graph for logging and CLI output.
type Stats struct {
	Nodes      int
	Edges      int
	Containers int
	Values     int
	MaxDepth   int
}

// ComputeStats walks g once and tallies node kinds and depth.
func ComputeStats(g *Graph) Stats {
	s := Stats{Nodes: g.NodeCount(), Edges: g.EdgeCount()}
	depth := make(map[string]int, g.NodeCount())
	for _, n := range g.Nodes() {
		if p, ok := g.Parent(n.ID); ok {
			depth[n.ID] = depth[p] + 1
		}
		s.MaxDepth = max(s.MaxDepth, depth[n.ID])
		switch {
		case n.Kind.IsContainer():
			s.Containers++
		case n.Kind == KindPrimitive:
			s.Values++
		}
	}
	return s
}
