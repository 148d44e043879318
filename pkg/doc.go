// Package pkg provides the core libraries for jsongraph.
//
// # Overview
//
// jsongraph turns a JSON document into a tree of typed nodes, lays it out
// and lets callers search it by dotted path. The data flow:
//
//	JSON text
//	    ↓
//	[jsonvalue] parse (ordered members, exact numbers)
//	    ↓
//	[jsongraph] build (object, array, key and primitive nodes)
//	    ↓
//	[layout] position (layered or graphviz engine, optionally cached)
//	    ↓
//	[search] resolve a query and highlight the match
//	    ↓
//	[graph] JSON/YAML export, [render] DOT/SVG/PNG
//
// [session] ties these together behind a small state machine (idle, has
// graph, highlighted) with generation tokens so stale layouts are dropped.
//
// # Quick Start
//
//	s := session.New(session.Options{Engine: layout.NewLayered()})
//	if _, err := s.Generate(ctx, `{"name": "APIWIZ"}`); err != nil {
//	    return err
//	}
//	res, _ := s.Search(ctx, "name")
//	fmt.Println(res.Found, res.Path) // true [data name APIWIZ]
//
// # Supporting Packages
//
// [errors] defines the error codes shared by the CLI and the HTTP API.
// [cache] stores laid-out positions on disk or in Redis. [config] loads the
// TOML config file and JSONGRAPH_* environment overrides. [observability]
// exposes hooks that internal/metrics turns into Prometheus collectors.
// [buildinfo] carries the version stamped in at link time.
package pkg
