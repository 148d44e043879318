package layout

import (
	"context"
	"slices"

	"github.com/matzehuels/jsongraph/pkg/jsongraph"
)

// DefaultPasses is the number of down/up sweep pairs run by [Layered].
const DefaultPasses = 4

// Layered is a pure-Go layered layout for trees.
type Layered struct {
	// Passes is the number of barycentric down/up sweep pairs.
	Passes int
}

// NewLayered returns a Layered engine with DefaultPasses.
func NewLayered() *Layered {
	return &Layered{Passes: DefaultPasses}
}

// Name implements [Engine].
func (l *Layered) Name() string { return EngineLayered }

// Layout implements [Engine].
func (l *Layered) Layout(ctx context.Context, g *jsongraph.Graph, d Directives) (Positions, error) {
	if err := checkContext(ctx); err != nil {
		return nil, layoutErr(l.Name(), err)
	}
	if err := Validate(g); err != nil {
		return nil, layoutErr(l.Name(), err)
	}
	if g.IsEmpty() {
		return Positions{}, nil
	}
	d = d.WithDefaults()

	layers := AssignLayers(g)
	layers, err := l.order(ctx, g, layers)
	if err != nil {
		return nil, layoutErr(l.Name(), err)
	}
	return place(g, layers, d), nil
}

// AssignLayers groups node ids by depth. Layer 0 holds the root; within a
// layer nodes appear in breadth-first order.
func AssignLayers(g *jsongraph.Graph) [][]string {
	root := g.Root()
	if root == nil {
		return nil
	}
	var layers [][]string
	current := []string{root.ID}
	for len(current) > 0 {
		layers = append(layers, current)
		var next []string
		for _, id := range current {
			next = append(next, g.Children(id)...)
		}
		current = next
	}
	return layers
}

// order runs barycentric sweeps and keeps the ordering with the fewest
// crossings seen.
func (l *Layered) order(ctx context.Context, g *jsongraph.Graph, layers [][]string) ([][]string, error) {
	best := cloneLayers(layers)
	bestCrossings := CountCrossings(g, best)

	passes := l.Passes
	if passes <= 0 {
		passes = DefaultPasses
	}
	for range passes {
		if bestCrossings == 0 {
			break
		}
		if err := checkContext(ctx); err != nil {
			return nil, err
		}
		for i := 1; i < len(layers); i++ {
			layers[i] = sortByBarycenter(layers[i], layers[i-1], g.Parents)
		}
		for i := len(layers) - 2; i >= 0; i-- {
			layers[i] = sortByBarycenter(layers[i], layers[i+1], g.Children)
		}
		if c := CountCrossings(g, layers); c < bestCrossings {
			best, bestCrossings = cloneLayers(layers), c
		}
	}
	return best, nil
}

// sortByBarycenter reorders layer by the mean position of each node's
// neighbors in fixed. Nodes without neighbors keep their own index.
func sortByBarycenter(layer, fixed []string, neighbors func(string) []string) []string {
	pos := posMap(fixed)
	type entry struct {
		id     string
		center float64
	}
	entries := make([]entry, len(layer))
	for i, id := range layer {
		sum, n := 0.0, 0
		for _, nb := range neighbors(id) {
			if p, ok := pos[nb]; ok {
				sum += float64(p)
				n++
			}
		}
		center := float64(i)
		if n > 0 {
			center = sum / float64(n)
		}
		entries[i] = entry{id, center}
	}
	slices.SortStableFunc(entries, func(a, b entry) int {
		switch {
		case a.center < b.center:
			return -1
		case a.center > b.center:
			return 1
		}
		return 0
	})
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.id
	}
	return out
}

// place assigns coordinates. Each subtree occupies a contiguous run of
// slots on the cross axis; leaves take one slot and parents are centered
// over their first and last child.
func place(g *jsongraph.Graph, layers [][]string, d Directives) Positions {
	crossSize, mainSize := d.NodeWidth, d.NodeHeight
	if d.Direction.Horizontal() {
		crossSize, mainSize = d.NodeHeight, d.NodeWidth
	}
	pitch := crossSize + d.NodeSpacing
	step := mainSize + d.LayerSpacing

	layerOf := make(map[string]int, g.NodeCount())
	rank := make(map[string]int, g.NodeCount())
	for i, layer := range layers {
		for j, id := range layer {
			layerOf[id] = i
			rank[id] = j
		}
	}

	children := func(id string) []string {
		kids := slices.Clone(g.Children(id))
		slices.SortFunc(kids, func(a, b string) int { return rank[a] - rank[b] })
		return kids
	}

	width := make(map[string]int, g.NodeCount())
	var measure func(id string) int
	measure = func(id string) int {
		w := 0
		for _, c := range children(id) {
			w += measure(c)
		}
		w = max(w, 1)
		width[id] = w
		return w
	}
	root := layers[0][0]
	measure(root)

	cross := make(map[string]float64, g.NodeCount())
	var assign func(id string, left int)
	assign = func(id string, left int) {
		kids := children(id)
		if len(kids) == 0 {
			cross[id] = float64(left) * pitch
			return
		}
		next := left
		for _, c := range kids {
			assign(c, next)
			next += width[c]
		}
		cross[id] = (cross[kids[0]] + cross[kids[len(kids)-1]]) / 2
	}
	assign(root, 0)

	last := len(layers) - 1
	pos := make(Positions, g.NodeCount())
	for id, c := range cross {
		layer := layerOf[id]
		if d.Direction == DirectionUp || d.Direction == DirectionLeft {
			layer = last - layer
		}
		m := float64(layer) * step
		if d.Direction.Horizontal() {
			pos[id] = jsongraph.Position{X: m, Y: c}
		} else {
			pos[id] = jsongraph.Position{X: c, Y: m}
		}
	}
	return pos
}

func cloneLayers(layers [][]string) [][]string {
	out := make([][]string, len(layers))
	for i, l := range layers {
		out[i] = slices.Clone(l)
	}
	return out
}
