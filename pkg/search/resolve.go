package search

import (
	"strings"

	"github.com/matzehuels/jsongraph/pkg/jsongraph"
)

const (
	// DefaultZoom is the zoom level used when focusing a match.
	DefaultZoom = 1.5

	defaultNodeWidth  = 150
	defaultNodeHeight = 50
)

// Options configures [Resolve]. The zero value uses ModePath, the default
// node size and DefaultZoom.
type Options struct {
	Mode       Mode
	NodeWidth  float64
	NodeHeight float64
	Zoom       float64
}

func (o Options) withDefaults() Options {
	if o.NodeWidth <= 0 {
		o.NodeWidth = defaultNodeWidth
	}
	if o.NodeHeight <= 0 {
		o.NodeHeight = defaultNodeHeight
	}
	if o.Zoom <= 0 {
		o.Zoom = DefaultZoom
	}
	return o
}

// Focus is the point a view should center on, at Zoom.
type Focus struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Zoom float64 `json:"zoom"`
}

// Result is the outcome of [Resolve].
type Result struct {
	Query    string
	Segments []string
	// Match is the node found by MatchLabel, before leaf refinement.
	Match *jsongraph.Node
	// Node is the highlight target.
	Node  *jsongraph.Node
	Found bool
	// Path is the label chain from the root to Node.
	Path  []string
	Delta Delta
	Focus Focus
}

// Resolve looks up query in g. It does not mutate g; pass Result.Delta to
// [Apply] to highlight the match.
func Resolve(g *jsongraph.Graph, query string, opts Options) Result {
	opts = opts.withDefaults()
	res := Result{Query: query, Segments: Segments(query)}
	if g.IsEmpty() || len(res.Segments) == 0 {
		return res
	}

	match, ok := MatchLabel(g, res.Segments, opts.Mode)
	if !ok {
		return res
	}
	target := PreferLeaf(g, match)

	res.Match = match
	res.Node = target
	res.Found = true
	res.Path = g.Path(target.ID)
	res.Delta = NewDelta(g, target.ID)
	res.Focus = Focus{
		X:    target.Position.X + opts.NodeWidth/2,
		Y:    target.Position.Y + opts.NodeHeight/2,
		Zoom: opts.Zoom,
	}
	return res
}

// MatchLabel returns the first node in creation order whose label matches
// the final segment, case-insensitively. In ModePath every earlier segment
// must also match the corresponding ancestor, walking upward.
func MatchLabel(g *jsongraph.Graph, segments []string, mode Mode) (*jsongraph.Node, bool) {
	if g.IsEmpty() || len(segments) == 0 {
		return nil, false
	}
	last := segments[len(segments)-1]
	for _, n := range g.Nodes() {
		if !strings.EqualFold(n.Label, last) {
			continue
		}
		if mode == ModeLastSegment || ancestorsMatch(g, n.ID, segments[:len(segments)-1]) {
			return n, true
		}
	}
	return nil, false
}

// ancestorsMatch reports whether the labels above id end with prefix.
func ancestorsMatch(g *jsongraph.Graph, id string, prefix []string) bool {
	cur := id
	for i := len(prefix) - 1; i >= 0; i-- {
		parent, ok := g.Parent(cur)
		if !ok {
			return false
		}
		n, _ := g.Node(parent)
		if !strings.EqualFold(n.Label, prefix[i]) {
			return false
		}
		cur = parent
	}
	return true
}

// PreferLeaf returns n's first direct child that is a value node, or n
// itself when n has no children or none of them is a value node.
func PreferLeaf(g *jsongraph.Graph, n *jsongraph.Node) *jsongraph.Node {
	for _, id := range g.Children(n.ID) {
		child, ok := g.Node(id)
		if ok && child.Kind == jsongraph.KindPrimitive && g.OutDegree(id) == 0 {
			return child
		}
	}
	return n
}
