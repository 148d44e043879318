// Package layout assigns coordinates to the nodes of a JSON graph.
//
// An [Engine] takes a [jsongraph.Graph] and [Directives] and returns
// [Positions]: the top-left corner of every node. Two engines ship:
//
//   - [Layered]: a pure-Go layered layout. Nodes sit in the layer equal to
//     their depth; each layer is ordered by barycentric sweeps that keep the
//     ordering with the fewest crossings; coordinates center each parent
//     over its children.
//   - [Graphviz]: lays the graph out with Graphviz's dot engine through
//     go-graphviz and reads node centers from the "plain" output.
//
// Engines never mutate the graph. Callers apply the result with
// [jsongraph.Graph.SetPositions].
//
// # Caching
//
// [Cached] wraps any engine with a [cache.Cache]. Keys hash the graph
// structure and the directives, so identical documents reuse positions
// across runs:
//
//	engine := layout.Cached(layout.NewLayered(), fileCache, cache.NewDefaultKeyer(), 24*time.Hour)
//	pos, err := engine.Layout(ctx, g, layout.DefaultDirectives())
//
// # Errors
//
// Every engine failure is returned as an [errors.ErrCodeLayout] error.
// [Validate] rejects graphs that are not a single rooted tree before any
// engine runs.
package layout
