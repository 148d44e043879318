// Package graph defines the wire format for laid-out JSON graphs.
//
// The format mirrors what node-link front ends such as React Flow consume,
// so an API response can be handed to a browser canvas unchanged:
//
//	{
//	  "nodes": [
//	    {"id": "1", "type": "input", "data": {"label": "data"},
//	     "position": {"x": 0, "y": 0}, "kind": "object", "style": {...}}
//	  ],
//	  "edges": [
//	    {"id": "e1-2", "source": "1", "target": "2", "animated": true, "type": "smoothstep"}
//	  ]
//	}
//
// Edges leaving a container are animated; edges from a key to its value
// are not. The same document can be written as YAML.
//
// # Conversion
//
//	doc := graph.From(g, graph.Options{Directives: d})
//	data, _ := graph.Marshal(doc)
//	back, _ := graph.Unmarshal(data)
//	g2, _ := back.ToGraph()
//
// [Document.ToGraph] rebuilds a [jsongraph.Graph] with positions and the
// highlight restored.
package graph
