package search

import (
	"slices"
	"testing"

	"github.com/matzehuels/jsongraph/pkg/jsongraph"
	"github.com/matzehuels/jsongraph/pkg/jsonvalue"
)

func build(t *testing.T, s string) *jsongraph.Graph {
	t.Helper()
	v, err := jsonvalue.ParseString(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return jsongraph.Build(v)
}

func highlighted(g *jsongraph.Graph) []string {
	var ids []string
	for _, n := range g.Nodes() {
		if n.Highlighted {
			ids = append(ids, n.ID)
		}
	}
	return ids
}

func TestSegments(t *testing.T) {
	tests := []struct {
		query string
		want  []string
	}{
		{"user.address.city", []string{"user", "address", "city"}},
		{"items[0]", []string{"items", "0"}},
		{"a[0][1].b", []string{"a", "0", "1", "b"}},
		{" user . city ", []string{"user", "city"}},
		{"..x..", []string{"x"}},
		{"", nil},
		{"   ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			if got := Segments(tt.query); !slices.Equal(got, tt.want) {
				t.Errorf("Segments(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", ModePath, false},
		{"path", ModePath, false},
		{"Segment", ModeLastSegment, false},
		{"last", ModeLastSegment, false},
		{"fuzzy", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseMode(%q) = %v, %v", tt.in, got, err)
		}
	}
	if ModeLastSegment.String() != "segment" {
		t.Errorf("String() = %q", ModeLastSegment.String())
	}
}

func TestResolveArrayFallsBackToContainer(t *testing.T) {
	g := build(t, `{"items": [1, 2]}`)
	res := Resolve(g, "items", Options{})

	if !res.Found {
		t.Fatal("expected match")
	}
	if res.Node.ID != "2" || res.Node.Label != "items" {
		t.Errorf("Node = %+v, want items container", *res.Node)
	}
	if res.Match != res.Node {
		t.Error("container match should not be refined")
	}
}

func TestResolveRefinesToLeaf(t *testing.T) {
	g := build(t, `{"user": {"city": "X"}}`)
	// 1 data, 2 user, 3 city, 4 X
	res := Resolve(g, "user.city", Options{})

	if !res.Found {
		t.Fatal("expected match")
	}
	if res.Match.Label != "city" {
		t.Errorf("Match = %q, want city", res.Match.Label)
	}
	if res.Node.Label != "X" || res.Node.ID != "4" {
		t.Errorf("Node = %+v, want leaf X", *res.Node)
	}
	if !slices.Equal(res.Path, []string{"data", "user", "city", "X"}) {
		t.Errorf("Path = %v", res.Path)
	}
}

func TestResolveNotFound(t *testing.T) {
	g := build(t, `{"a": 1, "b": {"c": true}}`)
	Apply(g, NewDelta(g, "2"))
	before := highlighted(g)

	res := Resolve(g, "zzz", Options{})
	if res.Found || res.Node != nil || !res.Delta.IsZero() {
		t.Errorf("expected not found, got %+v", res)
	}
	Apply(g, res.Delta)
	if got := highlighted(g); !slices.Equal(got, before) {
		t.Errorf("highlight changed on miss: %v -> %v", before, got)
	}
}

func TestResolveEmpty(t *testing.T) {
	if Resolve(nil, "a", Options{}).Found {
		t.Error("nil graph should not match")
	}
	if Resolve(jsongraph.New(), "a", Options{}).Found {
		t.Error("empty graph should not match")
	}
	if Resolve(build(t, `{"a": 1}`), " . ", Options{}).Found {
		t.Error("empty query should not match")
	}
}

func TestResolveCanonicalNumber(t *testing.T) {
	g := build(t, `{"count": 1e3, "zero": -0}`)

	res := Resolve(g, "1000", Options{Mode: ModeLastSegment})
	if !res.Found || res.Node.Label != "1000" {
		t.Fatalf("1000: got %+v", res)
	}
	if !slices.Equal(res.Path, []string{"data", "count", "1000"}) {
		t.Errorf("Path = %v", res.Path)
	}
	if res := Resolve(g, "zero.0", Options{}); !res.Found {
		t.Error("zero.0 should match the canonical label of -0")
	}
	if res := Resolve(g, "1e3", Options{Mode: ModeLastSegment}); res.Found {
		t.Error("source literal 1e3 should not match")
	}
}

func TestResolveCaseInsensitive(t *testing.T) {
	g := build(t, `{"Name": "APIWIZ"}`)
	res := Resolve(g, "NAME", Options{})
	if !res.Found || res.Node.Label != "APIWIZ" {
		t.Errorf("Resolve(NAME) = %+v", res)
	}
}

func TestPathModeDistinguishesAncestors(t *testing.T) {
	g := build(t, `{"landmark": "top", "address": {"landmark": "nested"}}`)

	path := Resolve(g, "address.landmark", Options{Mode: ModePath})
	if !path.Found || path.Node.Label != "nested" {
		t.Errorf("path mode = %v", path.Node)
	}

	compat := Resolve(g, "address.landmark", Options{Mode: ModeLastSegment})
	if !compat.Found || compat.Node.Label != "top" {
		t.Errorf("segment mode = %v", compat.Node)
	}

	top := Resolve(g, "landmark", Options{Mode: ModePath})
	if !top.Found || top.Node.Label != "top" {
		t.Errorf("bare landmark = %v", top.Node)
	}

	if Resolve(g, "other.landmark", Options{Mode: ModePath}).Found {
		t.Error("wrong ancestor should not match in path mode")
	}
	if Resolve(g, "a.b.c.data", Options{Mode: ModePath}).Found {
		t.Error("query longer than the ancestor chain should not match")
	}
}

func TestResolveArrayIndex(t *testing.T) {
	g := build(t, `{"tags": ["red", "blue"]}`)
	res := Resolve(g, "tags[1]", Options{})
	if !res.Found || res.Node.Label != "blue" {
		t.Errorf("tags[1] = %+v", res.Node)
	}
}

func TestPreferLeafKeepsNodeWithoutValueChild(t *testing.T) {
	g := build(t, `{"obj": {"k": 1}}`)
	obj, _ := g.Node("2")
	if got := PreferLeaf(g, obj); got != obj {
		t.Errorf("PreferLeaf(obj) = %+v, want obj", *got)
	}
	leaf, _ := g.Node("4")
	if got := PreferLeaf(g, leaf); got != leaf {
		t.Errorf("PreferLeaf(leaf) = %+v, want leaf", *got)
	}
}

func TestMatchLabelFirstInCreationOrder(t *testing.T) {
	g := build(t, `{"x": {"id": 1}, "y": {"id": 2}}`)
	n, ok := MatchLabel(g, []string{"id"}, ModePath)
	if !ok || n.ID != "3" {
		t.Errorf("MatchLabel(id) = %v, %v; want node 3", n, ok)
	}
}

func TestSingleHighlightAndDeterminism(t *testing.T) {
	g := build(t, `{"a": 1, "b": [true, null], "c": {"a": "x"}}`)
	queries := []string{"a", "b", "b.1", "c.a", "missing", "a", "c"}

	for _, q := range queries {
		first := Resolve(g, q, Options{})
		second := Resolve(g, q, Options{})
		if first.Found != second.Found || first.Node != second.Node {
			t.Errorf("Resolve(%q) not deterministic", q)
		}
		Apply(g, first.Delta)
		if n := len(highlighted(g)); n > 1 {
			t.Fatalf("after %q: %d nodes highlighted", q, n)
		}
		if first.Found {
			if got := highlighted(g); len(got) != 1 || got[0] != first.Node.ID {
				t.Errorf("after %q: highlighted %v, want [%s]", q, got, first.Node.ID)
			}
		}
	}
}

func TestNewDeltaCleared(t *testing.T) {
	g := build(t, `{"a": 1, "b": 2}`)
	Apply(g, NewDelta(g, "3"))

	d := NewDelta(g, "5")
	if d.Target != "5" || !slices.Equal(d.Cleared, []string{"3"}) {
		t.Errorf("NewDelta = %+v", d)
	}
	Apply(g, d)
	if got := highlighted(g); !slices.Equal(got, []string{"5"}) {
		t.Errorf("highlighted = %v", got)
	}

	Apply(g, Delta{Target: "missing"})
	if got := highlighted(g); !slices.Equal(got, []string{"5"}) {
		t.Errorf("unknown target changed highlight: %v", got)
	}

	ClearHighlight(g)
	if got := highlighted(g); len(got) != 0 {
		t.Errorf("ClearHighlight left %v", got)
	}
}

func TestFocus(t *testing.T) {
	g := build(t, `{"a": 1}`)
	g.SetPositions(map[string]jsongraph.Position{"3": {X: 100, Y: 200}})

	res := Resolve(g, "a", Options{})
	want := Focus{X: 175, Y: 225, Zoom: DefaultZoom}
	if res.Focus != want {
		t.Errorf("Focus = %+v, want %+v", res.Focus, want)
	}

	res = Resolve(g, "a", Options{NodeWidth: 10, NodeHeight: 10, Zoom: 2})
	if res.Focus != (Focus{X: 105, Y: 205, Zoom: 2}) {
		t.Errorf("Focus with options = %+v", res.Focus)
	}
}
