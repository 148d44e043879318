package jsongraph

import (
	"errors"
	"slices"
	"testing"
)

func TestAddNodeErrors(t *testing.T) {
	g := New()
	if err := g.AddNode(Node{}); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("empty id: got %v", err)
	}
	if err := g.AddNode(Node{ID: "1"}); err != nil {
		t.Fatal(err)
	}
	if err := g.AddNode(Node{ID: "1"}); !errors.Is(err, ErrDuplicateNodeID) {
		t.Errorf("duplicate id: got %v", err)
	}
	if err := g.AddEdge("x", "1"); !errors.Is(err, ErrUnknownSourceNode) {
		t.Errorf("unknown source: got %v", err)
	}
	if err := g.AddEdge("1", "x"); !errors.Is(err, ErrUnknownTargetNode) {
		t.Errorf("unknown target: got %v", err)
	}
}

func TestGraphNavigation(t *testing.T) {
	g := Build(mustParse(t, `{"user": {"address": {"city": "X"}}}`))
	// 1 data, 2 user, 3 address, 4 city, 5 X

	if p, ok := g.Parent("4"); !ok || p != "3" {
		t.Errorf("Parent(4) = %q, %v", p, ok)
	}
	if _, ok := g.Parent("1"); ok {
		t.Error("root should have no parent")
	}
	if d := g.Depth("5"); d != 4 {
		t.Errorf("Depth(5) = %d, want 4", d)
	}
	if d := g.Depth("missing"); d != -1 {
		t.Errorf("Depth(missing) = %d, want -1", d)
	}
	if got := g.Path("4"); !slices.Equal(got, []string{"data", "user", "address", "city"}) {
		t.Errorf("Path(4) = %v", got)
	}
	if got := g.Leaves(); !slices.Equal(got, []string{"5"}) {
		t.Errorf("Leaves() = %v", got)
	}
	if g.Root().Label != "data" {
		t.Errorf("Root() = %v", g.Root())
	}
}

func TestSetPositionsAndClone(t *testing.T) {
	g := Build(mustParse(t, `[1]`))
	g.SetPositions(map[string]Position{"1": {X: 10, Y: 20}, "nope": {X: 1}})

	n, _ := g.Node("1")
	if n.Position != (Position{X: 10, Y: 20}) {
		t.Errorf("Position = %+v", n.Position)
	}

	c := g.Clone()
	cn, _ := c.Node("1")
	cn.Position.X = 99
	cn.Highlighted = true
	if n.Position.X != 10 || n.Highlighted {
		t.Error("Clone shares node storage with original")
	}
	if !slices.Equal(c.Children("1"), g.Children("1")) {
		t.Error("Clone lost adjacency")
	}
	if h, ok := c.Highlighted(); !ok || h.ID != "1" {
		t.Errorf("Highlighted() = %v, %v", h, ok)
	}

	g.ResetPositions()
	if n.Position != (Position{}) {
		t.Errorf("ResetPositions left %+v", n.Position)
	}
}

func TestKindStrings(t *testing.T) {
	for _, k := range []Kind{KindObject, KindArray, KindKey, KindPrimitive} {
		got, err := ParseKind(k.String())
		if err != nil || got != k {
			t.Errorf("ParseKind(%q) = %v, %v", k.String(), got, err)
		}
	}
	if _, err := ParseKind("bogus"); err == nil {
		t.Error("expected error for unknown kind")
	}
	if ScalarString.String() != "string" || ScalarNone.String() != "" {
		t.Error("unexpected scalar names")
	}
}

func TestKindClasses(t *testing.T) {
	tests := []struct {
		kind      Kind
		container bool
		primitive bool
	}{
		{KindObject, true, false},
		{KindArray, true, false},
		{KindKey, false, true},
		{KindPrimitive, false, true},
	}
	for _, tt := range tests {
		if tt.kind.IsContainer() != tt.container || tt.kind.IsPrimitive() != tt.primitive {
			t.Errorf("%v: IsContainer=%v IsPrimitive=%v", tt.kind, tt.kind.IsContainer(), tt.kind.IsPrimitive())
		}
	}
}

func TestIsEmpty(t *testing.T) {
	var nilGraph *Graph
	if !nilGraph.IsEmpty() || !New().IsEmpty() {
		t.Error("nil and new graphs should be empty")
	}
}
