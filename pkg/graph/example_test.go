package graph_test

import (
	"fmt"

	"github.com/matzehuels/jsongraph/pkg/graph"
	"github.com/matzehuels/jsongraph/pkg/jsongraph"
	"github.com/matzehuels/jsongraph/pkg/jsonvalue"
)

func ExampleFrom() {
	v, _ := jsonvalue.ParseString(`{"name": "APIWIZ"}`)
	doc := graph.From(jsongraph.Build(v), graph.Options{OmitStyle: true})

	for _, n := range doc.Nodes {
		fmt.Printf("%s %-7s %s\n", n.ID, n.Type, n.Data.Label)
	}
	for _, e := range doc.Edges {
		fmt.Println(e.ID, e.Animated)
	}
	// Output:
	// 1 input   data
	// 2 default name
	// 3 output  APIWIZ
	// e1-2 true
	// e2-3 false
}
