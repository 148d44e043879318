// Package session owns the graph a user is looking at and the transitions
// between its states.
//
// A [Session] moves between three states:
//
//	Idle ──Generate──▶ HasGraph ──Search(found)──▶ Highlighted
//	  ▲                  │  ▲                         │
//	  └──────Clear───────┘  └────────Generate─────────┘
//
// Clear returns to Idle from any state. A search miss leaves the state
// alone and emits exactly one [Notice].
//
// # Generate
//
// Generate validates the text, parses it, builds a fresh graph and lays it
// out. Empty input is rejected with EMPTY_INPUT and changes nothing.
// Malformed JSON clears the current graph and returns INVALID_JSON.
//
// Layout is the only blocking step and runs without holding the session
// lock. Every Generate and Clear bumps a generation counter; a layout that
// finishes after a newer Generate or a Clear is discarded instead of
// overwriting newer state. A failed layout keeps the graph without
// positions and emits a warning notice; searches then report "not found"
// until a layout succeeds.
//
// # Stores
//
// [MemoryStore] keeps sessions for the HTTP server, keyed by UUID, and
// drops idle ones on [MemoryStore.Cleanup].
package session
