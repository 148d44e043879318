// Package jsonvalue defines the tagged JSON value consumed by the graph builder.
//
// A [Value] is exactly one of six variants:
//
//	Null, Bool, Number, String, Array, Object
//
// Objects keep their members in source order. The standard library decodes
// objects into Go maps, which lose that order, so [Parse] walks the token
// stream instead and builds [Value] directly. Insertion order is what makes
// node identifiers reproducible across runs.
//
// # Parsing
//
//	v, err := jsonvalue.Parse([]byte(`{"name": "APIWIZ", "tags": [1, 2]}`))
//	if errors.Is(err, errors.ErrCodeInvalidJSON) {
//	    // show errors.UserMessage(err)
//	}
//
// Numbers keep their literal text, so 1.0 stays "1.0" rather than "1".
// Duplicate object keys keep the position of the first occurrence and the
// value of the last, matching JSON.parse.
//
// Values are immutable once built and safe for concurrent reads.
package jsonvalue
