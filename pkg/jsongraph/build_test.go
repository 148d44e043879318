package jsongraph

import (
	"slices"
	"sync"
	"testing"

	"github.com/matzehuels/jsongraph/pkg/jsonvalue"
)

func mustParse(t *testing.T, s string) jsonvalue.Value {
	t.Helper()
	v, err := jsonvalue.ParseString(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return v
}

func labels(g *Graph) []string {
	var out []string
	for _, n := range g.Nodes() {
		out = append(out, n.Label)
	}
	return out
}

func TestBuildSingleMember(t *testing.T) {
	g := Build(mustParse(t, `{"a": 1}`))

	if g.NodeCount() != 3 || g.EdgeCount() != 2 {
		t.Fatalf("got %d nodes, %d edges; want 3, 2", g.NodeCount(), g.EdgeCount())
	}

	want := []Node{
		{ID: "1", Label: "data", Kind: KindObject},
		{ID: "2", Label: "a", Kind: KindKey, Scalar: ScalarNumber},
		{ID: "3", Label: "1", Kind: KindPrimitive, Scalar: ScalarNumber},
	}
	for i, n := range g.Nodes() {
		if *n != want[i] {
			t.Errorf("node %d = %+v, want %+v", i, *n, want[i])
		}
	}

	wantEdges := []Edge{
		{ID: "e1-2", Source: "1", Target: "2", Container: true},
		{ID: "e2-3", Source: "2", Target: "3"},
	}
	if !slices.Equal(g.Edges(), wantEdges) {
		t.Errorf("edges = %+v, want %+v", g.Edges(), wantEdges)
	}
}

func TestBuildPrimitiveRoot(t *testing.T) {
	tests := []struct {
		input  string
		value  string
		scalar Scalar
	}{
		{`null`, "null", ScalarNull},
		{`true`, "true", ScalarBool},
		{`false`, "false", ScalarBool},
		{`-2.50`, "-2.5", ScalarNumber},
		{`"hi"`, "hi", ScalarString},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			g := Build(mustParse(t, tt.input))
			if got := labels(g); !slices.Equal(got, []string{"data", tt.value}) {
				t.Fatalf("labels = %v", got)
			}
			root, _ := g.Node("1")
			if root.Kind != KindKey || root.Scalar != tt.scalar {
				t.Errorf("root = %+v", *root)
			}
		})
	}
}

func TestBuildEmptyContainers(t *testing.T) {
	g := Build(mustParse(t, `{"list": [], "obj": {}}`))

	if got := labels(g); !slices.Equal(got, []string{"data", "list", "obj"}) {
		t.Fatalf("labels = %v", got)
	}
	for _, id := range []string{"2", "3"} {
		if g.OutDegree(id) != 0 {
			t.Errorf("empty container %s has %d children", id, g.OutDegree(id))
		}
	}
	n, _ := g.Node("2")
	if n.Kind != KindArray {
		t.Errorf("list kind = %v, want array", n.Kind)
	}
}

func TestBuildArrayOrder(t *testing.T) {
	g := Build(mustParse(t, `["a", "b", "c"]`))

	var childLabels []string
	for _, id := range g.Children("1") {
		n, _ := g.Node(id)
		childLabels = append(childLabels, n.Label)
	}
	if !slices.Equal(childLabels, []string{"0", "1", "2"}) {
		t.Errorf("array children = %v, want [0 1 2]", childLabels)
	}
	// Edge creation order matches index order.
	var targets []string
	for _, e := range g.Edges() {
		if e.Source == "1" {
			targets = append(targets, e.Target)
		}
	}
	if !slices.Equal(targets, g.Children("1")) {
		t.Errorf("edge order %v != children %v", targets, g.Children("1"))
	}
}

func TestBuildDuplicateLabels(t *testing.T) {
	g := Build(mustParse(t, `{"x": {"name": 1}, "y": {"name": 1}}`))

	var ids []string
	for _, n := range g.Nodes() {
		if n.Label == "name" {
			ids = append(ids, n.ID)
		}
	}
	if len(ids) != 2 || ids[0] == ids[1] {
		t.Errorf("duplicate labels got ids %v", ids)
	}
}

func TestBuildInvariants(t *testing.T) {
	inputs := []string{
		`{"a": 1}`,
		`[]`,
		`{}`,
		`42`,
		`[[], {}, [null, [true]], {"k": {"k": {"k": "v"}}}]`,
		`{"name": "APIWIZ", "address": {"street": "Main", "landmark": "Park"}, "tags": ["a", "b"]}`,
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			g := Build(mustParse(t, input))

			if g.EdgeCount() != g.NodeCount()-1 {
				t.Errorf("edges = %d, want nodes-1 = %d", g.EdgeCount(), g.NodeCount()-1)
			}
			if roots := g.Roots(); len(roots) != 1 || roots[0] != "1" {
				t.Errorf("roots = %v, want [1]", roots)
			}
			for _, n := range g.Nodes() {
				if n.ID != "1" && g.InDegree(n.ID) != 1 {
					t.Errorf("node %s has in-degree %d", n.ID, g.InDegree(n.ID))
				}
				out := g.OutDegree(n.ID)
				switch n.Kind {
				case KindPrimitive:
					if out != 0 {
						t.Errorf("primitive %s has %d children", n.ID, out)
					}
				case KindKey:
					if out != 1 {
						t.Errorf("key %s has %d children, want 1", n.ID, out)
					}
					for _, id := range g.Children(n.ID) {
						if c, _ := g.Node(id); c.Kind != KindPrimitive {
							t.Errorf("key %s bridges a %v, want primitive", n.ID, c.Kind)
						}
					}
				}
				if out == 0 && n.Kind != KindPrimitive && !n.Kind.IsContainer() {
					t.Errorf("leaf %s has kind %v", n.ID, n.Kind)
				}
				if n.Position != (Position{}) || n.Highlighted {
					t.Errorf("node %s not in initial state", n.ID)
				}
			}
		})
	}
}

func TestBuildNumberLabels(t *testing.T) {
	g := Build(mustParse(t, `{"a": 1.50, "b": 1e3, "c": -0, "d": 1.5e-7}`))

	want := []string{"data", "a", "1.5", "b", "1000", "c", "0", "d", "1.5e-7"}
	if got := labels(g); !slices.Equal(got, want) {
		t.Errorf("labels = %v, want %v", got, want)
	}
}

func TestBuildDeterministicAndIsolated(t *testing.T) {
	v := mustParse(t, `{"a": [1, {"b": null}], "c": "d"}`)
	want := Build(v)

	var wg sync.WaitGroup
	results := make([]*Graph, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = Build(v)
		}()
	}
	wg.Wait()

	for i, g := range results {
		if !slices.Equal(g.Edges(), want.Edges()) {
			t.Errorf("build %d edges differ", i)
		}
		if !slices.Equal(labels(g), labels(want)) {
			t.Errorf("build %d labels differ", i)
		}
	}
}

func TestComputeStats(t *testing.T) {
	g := Build(mustParse(t, `{"a": [1, 2], "b": {}}`))
	s := ComputeStats(g)

	// data, a, 0, 1, 1, 2, b
	want := Stats{Nodes: 7, Edges: 6, Containers: 3, Values: 2, MaxDepth: 3}
	if s != want {
		t.Errorf("ComputeStats() = %+v, want %+v", s, want)
	}
}
