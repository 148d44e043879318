package search_test

import (
	"fmt"

	"github.com/matzehuels/jsongraph/pkg/jsongraph"
	"github.com/matzehuels/jsongraph/pkg/jsonvalue"
	"github.com/matzehuels/jsongraph/pkg/search"
)

func ExampleResolve() {
	v, _ := jsonvalue.ParseString(`{"name": "APIWIZ", "address": {"city": "Bengaluru"}}`)
	g := jsongraph.Build(v)

	res := search.Resolve(g, "address.city", search.Options{})
	fmt.Println(res.Found, res.Match.Label, res.Node.ID, res.Node.Label)
	fmt.Println(res.Path)

	search.Apply(g, res.Delta)
	if n, ok := g.Highlighted(); ok {
		fmt.Println("highlighted", n.ID)
	}
	// Output:
	// true city 6 Bengaluru
	// [data address city Bengaluru]
	// highlighted 6
}
