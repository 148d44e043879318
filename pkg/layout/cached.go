package layout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/matzehuels/jsongraph/pkg/cache"
	"github.com/matzehuels/jsongraph/pkg/jsongraph"
	"github.com/matzehuels/jsongraph/pkg/observability"
)

const cacheKeyType = "layout"

// CachedEngine serves layouts from a cache and fills it on a miss.
type CachedEngine struct {
	inner Engine
	cache cache.Cache
	keyer cache.Keyer
	ttl   time.Duration
}

// Cached wraps inner. A nil cache disables caching; a nil keyer uses the
// default keyer.
func Cached(inner Engine, c cache.Cache, keyer cache.Keyer, ttl time.Duration) *CachedEngine {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	return &CachedEngine{inner: inner, cache: c, keyer: keyer, ttl: ttl}
}

// Name returns the wrapped engine's name.
func (e *CachedEngine) Name() string { return e.inner.Name() }

// Layout implements [Engine]. Cache read and write failures fall back to
// computing the layout; only engine errors are returned.
func (e *CachedEngine) Layout(ctx context.Context, g *jsongraph.Graph, d Directives) (Positions, error) {
	d = d.WithDefaults()
	key := e.Key(g, d)

	if data, hit, err := e.cache.Get(ctx, key); err == nil && hit {
		pos, err := decodePositions(data, g)
		if err == nil {
			observability.Cache().OnCacheHit(ctx, cacheKeyType)
			return pos, nil
		}
		// Drop the entry so the fresh layout below replaces it.
		_ = e.cache.Delete(ctx, key)
	}
	observability.Cache().OnCacheMiss(ctx, cacheKeyType)

	pos, err := e.inner.Layout(ctx, g, d)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(pos); err == nil {
		if e.cache.Set(ctx, key, data, e.ttl) == nil {
			observability.Cache().OnCacheSet(ctx, cacheKeyType, len(data))
		}
	}
	return pos, nil
}

// Key returns the cache key for laying out g with d.
func (e *CachedEngine) Key(g *jsongraph.Graph, d Directives) string {
	return e.keyer.LayoutKey(Fingerprint(g), cache.LayoutKeyOpts{
		Engine:       e.inner.Name(),
		Direction:    string(d.Direction),
		LayerSpacing: d.LayerSpacing,
		NodeSpacing:  d.NodeSpacing,
		NodeWidth:    d.NodeWidth,
		NodeHeight:   d.NodeHeight,
	})
}

// Fingerprint hashes the parts of g that influence a layout: node ids,
// kinds and labels, and edges in order. Positions and highlight do not
// take part.
func Fingerprint(g *jsongraph.Graph) string {
	var buf bytes.Buffer
	for _, n := range g.Nodes() {
		fmt.Fprintf(&buf, "n%q %d %q\n", n.ID, n.Kind, n.Label)
	}
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "e%q %q\n", e.Source, e.Target)
	}
	return cache.Hash(buf.Bytes())
}

// decodePositions reads a cached entry, rejecting entries that do not place
// every node of g with cache.ErrCorrupt.
func decodePositions(data []byte, g *jsongraph.Graph) (Positions, error) {
	var pos Positions
	if err := json.Unmarshal(data, &pos); err != nil {
		return nil, fmt.Errorf("%w: %v", cache.ErrCorrupt, err)
	}
	if !covers(pos, g) {
		return nil, fmt.Errorf("%w: %d positions for %d nodes", cache.ErrCorrupt, len(pos), g.NodeCount())
	}
	return pos, nil
}

func covers(pos Positions, g *jsongraph.Graph) bool {
	if len(pos) != g.NodeCount() {
		return false
	}
	for _, n := range g.Nodes() {
		if _, ok := pos[n.ID]; !ok {
			return false
		}
	}
	return true
}
