package jsongraph

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] for an empty id.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when the id is taken.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the source is missing.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the target is missing.
	ErrUnknownTargetNode = errors.New("unknown target node")
)

// RootLabel is the label of the synthetic root node.
const RootLabel = "data"

// Kind classifies a node by the JSON value it came from.
//
// A primitive produces two nodes: a KindKey node carrying the member name
// (or array index) and its single KindPrimitive child carrying the value.
// Consumers that only distinguish object, array and primitive should treat
// KindKey as primitive; [Kind.IsPrimitive] does that.
type Kind int

const (
	KindObject Kind = iota
	KindArray
	KindKey
	KindPrimitive
)

var kindNames = [...]string{
	KindObject:    "object",
	KindArray:     "array",
	KindKey:       "key",
	KindPrimitive: "primitive",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsContainer reports whether k is an object or array.
func (k Kind) IsContainer() bool { return k == KindObject || k == KindArray }

// IsPrimitive reports whether k is a key or primitive node.
func (k Kind) IsPrimitive() bool { return k == KindKey || k == KindPrimitive }

// ParseKind is the inverse of [Kind.String].
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown node kind %q", s)
}

// Scalar is the primitive type carried by key and value nodes.
// Containers carry ScalarNone.
type Scalar int

const (
	ScalarNone Scalar = iota
	ScalarNull
	ScalarBool
	ScalarNumber
	ScalarString
)

var scalarNames = [...]string{
	ScalarNone:   "",
	ScalarNull:   "null",
	ScalarBool:   "bool",
	ScalarNumber: "number",
	ScalarString: "string",
}

func (s Scalar) String() string {
	if s >= 0 && int(s) < len(scalarNames) {
		return scalarNames[s]
	}
	return fmt.Sprintf("Scalar(%d)", int(s))
}

// Position is the top-left corner of a node in layout coordinates.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Node is one vertex of the tree.
type Node struct {
	ID          string
	Label       string
	Kind        Kind
	Scalar      Scalar
	Position    Position
	Highlighted bool
}

// IsLeafKind reports whether the node is a synthesized value node.
func (n Node) IsLeafKind() bool { return n.Kind == KindPrimitive }

// Edge is a directed parent→child link.
type Edge struct {
	ID     string
	Source string
	Target string
	// Container is set when Source is an object or array node.
	Container bool
}

// EdgeID returns the canonical edge id for a source/target pair.
func EdgeID(source, target string) string {
	return "e" + source + "-" + target
}

// Graph holds nodes and edges in creation order with adjacency indices.
//
// The zero value is not usable; use [New] or [Build].
type Graph struct {
	nodes    []*Node
	edges    []Edge
	index    map[string]*Node
	outgoing map[string][]string
	incoming map[string][]string
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		index:    make(map[string]*Node),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
	}
}

// AddNode appends n to the graph.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.index[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	node := &n
	g.nodes = append(g.nodes, node)
	g.index[n.ID] = node
	return nil
}

// AddEdge links source to target. The edge id is derived with [EdgeID].
func (g *Graph) AddEdge(source, target string) error {
	src, ok := g.index[source]
	if !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := g.index[target]; !ok {
		return ErrUnknownTargetNode
	}
	g.edges = append(g.edges, Edge{
		ID:        EdgeID(source, target),
		Source:    source,
		Target:    target,
		Container: src.Kind.IsContainer(),
	})
	g.outgoing[source] = append(g.outgoing[source], target)
	g.incoming[target] = append(g.incoming[target], source)
	return nil
}

// Nodes returns all nodes in creation order.
// The pointers are live: mutating them mutates the graph.
func (g *Graph) Nodes() []*Node { return g.nodes }

// Edges returns all edges in creation order.
func (g *Graph) Edges() []Edge { return g.edges }

// Node returns the node with the given id.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.index[id]
	return n, ok
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// IsEmpty reports whether the graph has no nodes.
func (g *Graph) IsEmpty() bool { return g == nil || len(g.nodes) == 0 }

// Children returns the ids of id's direct children in edge-creation order.
func (g *Graph) Children(id string) []string { return g.outgoing[id] }

// Parents returns the ids of every node with an edge into id.
// A well-formed tree has at most one.
func (g *Graph) Parents(id string) []string { return g.incoming[id] }

// Parent returns the parent of id, or false for the root.
func (g *Graph) Parent(id string) (string, bool) {
	ps := g.incoming[id]
	if len(ps) == 0 {
		return "", false
	}
	return ps[0], true
}

// OutDegree returns the number of outgoing edges of id.
func (g *Graph) OutDegree(id string) int { return len(g.outgoing[id]) }

// InDegree returns the number of incoming edges of id.
func (g *Graph) InDegree(id string) int { return len(g.incoming[id]) }

// Roots returns the ids of nodes with no incoming edge, in creation order.
func (g *Graph) Roots() []string {
	var roots []string
	for _, n := range g.nodes {
		if len(g.incoming[n.ID]) == 0 {
			roots = append(roots, n.ID)
		}
	}
	return roots
}

// Root returns the first node without a parent, or nil for an empty graph.
func (g *Graph) Root() *Node {
	for _, n := range g.nodes {
		if len(g.incoming[n.ID]) == 0 {
			return n
		}
	}
	return nil
}

// Leaves returns the ids of nodes with no outgoing edges, in creation order.
func (g *Graph) Leaves() []string {
	var leaves []string
	for _, n := range g.nodes {
		if len(g.outgoing[n.ID]) == 0 {
			leaves = append(leaves, n.ID)
		}
	}
	return leaves
}

// Depth returns the number of edges between id and its root, or -1 if id
// is unknown. Cycles stop the walk after NodeCount steps.
func (g *Graph) Depth(id string) int {
	if _, ok := g.index[id]; !ok {
		return -1
	}
	depth := 0
	for cur, ok := g.Parent(id); ok; cur, ok = g.Parent(cur) {
		depth++
		if depth > len(g.nodes) {
			break
		}
	}
	return depth
}

// Path returns the label chain from the root down to id, inclusive.
func (g *Graph) Path(id string) []string {
	n, ok := g.index[id]
	if !ok {
		return nil
	}
	labels := []string{n.Label}
	for cur, ok := g.Parent(id); ok; cur, ok = g.Parent(cur) {
		labels = append(labels, g.index[cur].Label)
		if len(labels) > len(g.nodes) {
			break
		}
	}
	for i, j := 0, len(labels)-1; i < j; i, j = i+1, j-1 {
		labels[i], labels[j] = labels[j], labels[i]
	}
	return labels
}

// SetPositions overwrites node positions. Ids missing from positions keep
// their current value.
func (g *Graph) SetPositions(positions map[string]Position) {
	for id, p := range positions {
		if n, ok := g.index[id]; ok {
			n.Position = p
		}
	}
}

// ResetPositions moves every node back to (0,0).
func (g *Graph) ResetPositions() {
	for _, n := range g.nodes {
		n.Position = Position{}
	}
}

// Highlighted returns the highlighted node, if any.
func (g *Graph) Highlighted() (*Node, bool) {
	for _, n := range g.nodes {
		if n.Highlighted {
			return n, true
		}
	}
	return nil, false
}

// Clone returns a deep copy of the graph.
func (g *Graph) Clone() *Graph {
	c := New()
	c.nodes = make([]*Node, len(g.nodes))
	for i, n := range g.nodes {
		cp := *n
		c.nodes[i] = &cp
		c.index[cp.ID] = &cp
	}
	c.edges = append([]Edge(nil), g.edges...)
	for id, ids := range g.outgoing {
		c.outgoing[id] = append([]string(nil), ids...)
	}
	for id, ids := range g.incoming {
		c.incoming[id] = append([]string(nil), ids...)
	}
	return c
}
