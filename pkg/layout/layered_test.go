package layout

import (
	"context"
	"slices"
	"testing"

	"github.com/matzehuels/jsongraph/pkg/errors"
	"github.com/matzehuels/jsongraph/pkg/jsongraph"
)

func TestLayeredPositions(t *testing.T) {
	g := build(t, `{"a": 1, "b": 2}`)
	// 1 data, 2 a, 3 "1", 4 b, 5 "2"
	pos, err := NewLayered().Layout(context.Background(), g, DefaultDirectives())
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}

	want := Positions{
		"1": {X: 115, Y: 0},
		"2": {X: 0, Y: 150},
		"3": {X: 0, Y: 300},
		"4": {X: 230, Y: 150},
		"5": {X: 230, Y: 300},
	}
	for id, p := range want {
		if pos[id] != p {
			t.Errorf("pos[%s] = %+v, want %+v", id, pos[id], p)
		}
	}
}

func TestLayeredDirections(t *testing.T) {
	g := build(t, `{"a": 1}`)
	ctx := context.Background()

	tests := []struct {
		dir  Direction
		root jsongraph.Position
		leaf jsongraph.Position
	}{
		{DirectionDown, jsongraph.Position{X: 0, Y: 0}, jsongraph.Position{X: 0, Y: 300}},
		{DirectionUp, jsongraph.Position{X: 0, Y: 300}, jsongraph.Position{X: 0, Y: 0}},
		{DirectionRight, jsongraph.Position{X: 0, Y: 0}, jsongraph.Position{X: 500, Y: 0}},
		{DirectionLeft, jsongraph.Position{X: 500, Y: 0}, jsongraph.Position{X: 0, Y: 0}},
	}
	for _, tt := range tests {
		t.Run(string(tt.dir), func(t *testing.T) {
			d := DefaultDirectives()
			d.Direction = tt.dir
			pos, err := NewLayered().Layout(ctx, g, d)
			if err != nil {
				t.Fatal(err)
			}
			if pos["1"] != tt.root || pos["3"] != tt.leaf {
				t.Errorf("root=%+v leaf=%+v", pos["1"], pos["3"])
			}
		})
	}
}

func TestLayeredNoOverlap(t *testing.T) {
	g := build(t, `{"x": [1, [2, 3], {"y": {"z": [4, 5, 6]}}], "w": {}, "v": "s"}`)
	d := DefaultDirectives()
	pos, err := NewLayered().Layout(context.Background(), g, d)
	if err != nil {
		t.Fatal(err)
	}
	if len(pos) != g.NodeCount() {
		t.Fatalf("got %d positions for %d nodes", len(pos), g.NodeCount())
	}

	byRow := map[float64][]float64{}
	for _, n := range g.Nodes() {
		p := pos[n.ID]
		byRow[p.Y] = append(byRow[p.Y], p.X)
		if parent, ok := g.Parent(n.ID); ok && pos[parent].Y >= p.Y {
			t.Errorf("node %s not below parent %s", n.ID, parent)
		}
	}
	for y, xs := range byRow {
		slices.Sort(xs)
		for i := 1; i < len(xs); i++ {
			if xs[i]-xs[i-1] < d.NodeWidth+d.NodeSpacing {
				t.Errorf("row %v: nodes at %v and %v overlap", y, xs[i-1], xs[i])
			}
		}
	}
}

func TestLayeredEmptyAndInvalid(t *testing.T) {
	ctx := context.Background()
	pos, err := NewLayered().Layout(ctx, jsongraph.New(), DefaultDirectives())
	if err != nil || len(pos) != 0 {
		t.Errorf("empty graph: %v, %v", pos, err)
	}

	bad := jsongraph.New()
	_ = bad.AddNode(jsongraph.Node{ID: "1"})
	_ = bad.AddNode(jsongraph.Node{ID: "2"})
	_, err = NewLayered().Layout(ctx, bad, DefaultDirectives())
	if !errors.Is(err, errors.ErrCodeLayout) {
		t.Errorf("invalid graph: code %q, want %q", errors.GetCode(err), errors.ErrCodeLayout)
	}
}

func TestLayeredCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewLayered().Layout(ctx, build(t, `[1]`), DefaultDirectives())
	if !errors.Is(err, errors.ErrCodeLayout) {
		t.Errorf("canceled: %v", err)
	}
}

func TestAssignLayers(t *testing.T) {
	g := build(t, `{"a": [1], "b": 2}`)
	// 1 data, 2 a, 3 "0", 4 "1", 5 b, 6 "2"
	got := AssignLayers(g)
	want := [][]string{{"1"}, {"2", "5"}, {"3", "6"}, {"4"}}
	if len(got) != len(want) {
		t.Fatalf("AssignLayers() = %v", got)
	}
	for i := range want {
		if !slices.Equal(got[i], want[i]) {
			t.Errorf("layer %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestCountLayerCrossings(t *testing.T) {
	g := jsongraph.New()
	for _, id := range []string{"a", "b", "x", "y"} {
		_ = g.AddNode(jsongraph.Node{ID: id})
	}
	_ = g.AddEdge("a", "y")
	_ = g.AddEdge("b", "x")

	if c := CountLayerCrossings(g, []string{"a", "b"}, []string{"x", "y"}); c != 1 {
		t.Errorf("crossed = %d, want 1", c)
	}
	if c := CountLayerCrossings(g, []string{"a", "b"}, []string{"y", "x"}); c != 0 {
		t.Errorf("uncrossed = %d, want 0", c)
	}
	if c := CountLayerCrossings(g, nil, []string{"x"}); c != 0 {
		t.Errorf("empty upper = %d", c)
	}
}

func TestSweepsRemoveCrossings(t *testing.T) {
	g := jsongraph.New()
	for _, id := range []string{"r", "a", "b", "x", "y"} {
		_ = g.AddNode(jsongraph.Node{ID: id, Kind: jsongraph.KindObject})
	}
	_ = g.AddEdge("r", "a")
	_ = g.AddEdge("r", "b")
	_ = g.AddEdge("a", "y")
	_ = g.AddEdge("b", "x")

	layers := [][]string{{"r"}, {"a", "b"}, {"x", "y"}}
	if CountCrossings(g, layers) != 1 {
		t.Fatal("fixture should start with one crossing")
	}
	ordered, err := NewLayered().order(context.Background(), g, layers)
	if err != nil {
		t.Fatal(err)
	}
	if c := CountCrossings(g, ordered); c != 0 {
		t.Errorf("crossings after sweeps = %d, want 0 (%v)", c, ordered)
	}
}
