// Package search resolves dotted path queries against a JSON graph and
// computes the single-highlight delta for the match.
//
// Resolution is two explicit steps, each exported so it can be tested on
// its own:
//
//  1. [MatchLabel] finds the first node, in creation order, whose label
//     equals the query's final segment (case-insensitive). In [ModePath]
//     the preceding segments must also match the node's nearest ancestors,
//     so "address.landmark" no longer hits a top-level "landmark".
//     [ModeLastSegment] compares the final segment only.
//  2. [PreferLeaf] refines a match that has children to its first direct
//     value child, so "user.city" lands on the city's value rather than
//     the key node.
//
// [Resolve] runs both steps and returns a [Result] with the [Delta] to
// apply and the [Focus] point for re-centering a view. A miss is a normal
// outcome (Found == false), not an error.
//
// Array indexes may be written either way: "tags[0]" and "tags.0" are
// the same query.
package search
