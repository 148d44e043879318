package search

import (
	"fmt"
	"strings"
)

// Mode selects how non-final query segments take part in matching.
type Mode int

const (
	// ModePath requires the query's segments to match the tail of the
	// node's ancestor label chain.
	ModePath Mode = iota
	// ModeLastSegment ignores everything but the final segment.
	ModeLastSegment
)

// String returns the flag spelling of m.
func (m Mode) String() string {
	switch m {
	case ModePath:
		return "path"
	case ModeLastSegment:
		return "segment"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode parses "path" or "segment". The empty string means ModePath.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "path":
		return ModePath, nil
	case "segment", "last", "last-segment":
		return ModeLastSegment, nil
	}
	return 0, fmt.Errorf("unknown search mode %q (want path or segment)", s)
}

// Segments splits a query into trimmed, non-empty path segments.
// Bracketed indexes are treated as segments: "a[0].b" -> [a 0 b].
func Segments(query string) []string {
	normalized := strings.NewReplacer("[", ".", "]", "").Replace(query)
	var segs []string
	for _, s := range strings.Split(normalized, ".") {
		if s = strings.TrimSpace(s); s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}
