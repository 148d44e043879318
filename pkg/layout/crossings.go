package layout

import (
	"slices"

	"github.com/matzehuels/jsongraph/pkg/jsongraph"
)

// CountCrossings returns the total number of edge crossings between each
// pair of consecutive layers.
func CountCrossings(g *jsongraph.Graph, layers [][]string) int {
	total := 0
	for i := 0; i+1 < len(layers); i++ {
		total += CountLayerCrossings(g, layers[i], layers[i+1])
	}
	return total
}

// CountLayerCrossings counts crossings between two adjacent layers.
//
// Edges (u1,v1) and (u2,v2) cross iff pos(u1) < pos(u2) and pos(v1) > pos(v2),
// so the count equals the inversions of the target positions once edges are
// sorted by source. A Fenwick tree counts them in O(E log V).
func CountLayerCrossings(g *jsongraph.Graph, upper, lower []string) int {
	if len(upper) == 0 || len(lower) == 0 {
		return 0
	}

	lowerPos := posMap(lower)

	type edge struct{ upper, lower int }
	edges := make([]edge, 0, len(lower))
	for i, id := range upper {
		for _, child := range g.Children(id) {
			if pos, ok := lowerPos[child]; ok {
				edges = append(edges, edge{i, pos})
			}
		}
	}
	if len(edges) < 2 {
		return 0
	}

	slices.SortFunc(edges, func(a, b edge) int {
		if a.upper != b.upper {
			return a.upper - b.upper
		}
		return a.lower - b.lower
	})

	fenwick := make([]int, len(lower)+1)
	crossings, seen := 0, 0
	for _, e := range edges {
		lessOrEqual := 0
		for q := e.lower + 1; q > 0; q -= q & (-q) {
			lessOrEqual += fenwick[q]
		}
		crossings += seen - lessOrEqual

		seen++
		for i := e.lower + 1; i < len(fenwick); i += i & (-i) {
			fenwick[i]++
		}
	}
	return crossings
}

func posMap(ids []string) map[string]int {
	m := make(map[string]int, len(ids))
	for i, id := range ids {
		m[id] = i
	}
	return m
}
