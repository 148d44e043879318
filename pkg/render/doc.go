// Package render draws a JSON graph as a node-link diagram.
//
// Styling follows one palette ([DefaultPalette]): containers and key
// nodes are light blue with a blue border, value nodes are orange with
// dark text, and the highlighted search match is yellow.
//
// # DOT
//
// [ToDOT] emits Graphviz DOT source. With [Options.Pinned] set, every node
// carries its computed position (pos="x,y!") so the drawing matches the
// layout engine exactly; otherwise Graphviz's dot engine places nodes.
//
//	dot := render.ToDOT(g, render.Options{Directives: layout.DefaultDirectives(), Pinned: true})
//	svg, err := render.RenderSVG(ctx, dot, true)
//
// # Formats
//
// [Render] produces SVG or PNG in-process through go-graphviz, so no
// Graphviz binaries are needed on the host.
package render
