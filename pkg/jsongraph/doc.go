// Package jsongraph compiles a JSON value into a typed node-and-edge tree.
//
// # Overview
//
// [Build] walks a [jsonvalue.Value] in pre-order and emits one node per
// container, one key node per primitive member, and one synthesized value
// node holding the primitive's text:
//
//	{"a": 1}
//
//	data (1, Object)
//	 └─ a (2, Key)
//	     └─ 1 (3, Primitive)
//
// Node ids are decimal strings allocated in creation order starting at "1".
// The counter belongs to a single Build call, so concurrent builds never
// interfere and the same input always yields the same ids. Edge ids have the
// form "e{source}-{target}".
//
// # Kinds
//
//   - [KindObject] and [KindArray]: containers, labeled with the key or array
//     index they appear under ("data" for the root)
//   - [KindKey]: the label node bridging a primitive to its parent
//   - [KindPrimitive]: the value node, always a leaf
//
// Empty containers produce a single node with no children.
//
// # Positions and highlight
//
// Every node starts at (0,0). Only a layout pass writes positions (see
// [Graph.SetPositions]) and only a search delta toggles [Node.Highlighted].
// A Graph is not safe for concurrent mutation; the session package owns it.
package jsongraph
