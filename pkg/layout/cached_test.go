package layout

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/jsongraph/pkg/cache"
	"github.com/matzehuels/jsongraph/pkg/jsongraph"
)

type countingEngine struct {
	calls atomic.Int32
	err   error
}

func (e *countingEngine) Name() string { return "counting" }

func (e *countingEngine) Layout(ctx context.Context, g *jsongraph.Graph, d Directives) (Positions, error) {
	e.calls.Add(1)
	if e.err != nil {
		return nil, e.err
	}
	return NewLayered().Layout(ctx, g, d)
}

func TestCachedHit(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	inner := &countingEngine{}
	e := Cached(inner, fc, nil, time.Hour)
	g := build(t, `{"a": [1, 2], "b": {"c": null}}`)

	first, err := e.Layout(ctx, g, DefaultDirectives())
	if err != nil {
		t.Fatal(err)
	}
	second, err := e.Layout(ctx, build(t, `{"a": [1, 2], "b": {"c": null}}`), DefaultDirectives())
	if err != nil {
		t.Fatal(err)
	}
	if inner.calls.Load() != 1 {
		t.Errorf("inner called %d times, want 1", inner.calls.Load())
	}
	for id, p := range first {
		if second[id] != p {
			t.Errorf("cached position for %s = %+v, want %+v", id, second[id], p)
		}
	}
	if e.Name() != "counting" {
		t.Errorf("Name() = %q", e.Name())
	}
}

func TestCachedKeyDependsOnDirectives(t *testing.T) {
	e := Cached(NewLayered(), nil, nil, 0)
	g := build(t, `[1]`)
	d := DefaultDirectives()
	right := d
	right.Direction = DirectionRight
	if e.Key(g, d) == e.Key(g, right) {
		t.Error("direction should change the key")
	}
	if e.Key(g, d) == e.Key(build(t, `[2]`), d) {
		t.Error("labels should change the key")
	}
}

func TestCachedPropagatesEngineError(t *testing.T) {
	boom := errors.New("boom")
	e := Cached(&countingEngine{err: boom}, cache.NewNullCache(), nil, 0)
	if _, err := e.Layout(context.Background(), build(t, `1`), DefaultDirectives()); !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
}

func TestCachedIgnoresStaleEntry(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	inner := &countingEngine{}
	e := Cached(inner, fc, nil, 0)
	g := build(t, `{"a": 1}`)

	if err := fc.Set(ctx, e.Key(g, DefaultDirectives()), []byte(`{"1":{"x":0,"y":0}}`), 0); err != nil {
		t.Fatal(err)
	}
	pos, err := e.Layout(ctx, g, DefaultDirectives())
	if err != nil {
		t.Fatal(err)
	}
	if len(pos) != 3 || inner.calls.Load() != 1 {
		t.Errorf("partial cache entry should be recomputed: %d positions, %d calls", len(pos), inner.calls.Load())
	}
}

func TestFingerprintIgnoresPositions(t *testing.T) {
	g := build(t, `{"a": 1}`)
	before := Fingerprint(g)
	g.SetPositions(map[string]jsongraph.Position{"1": {X: 5}})
	if Fingerprint(g) != before {
		t.Error("positions should not affect the fingerprint")
	}
}

func TestCachedReplacesCorruptEntry(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	inner := &countingEngine{}
	e := Cached(inner, fc, nil, time.Hour)
	g := build(t, `{"a": 1}`)
	key := e.Key(g, DefaultDirectives())

	if err := fc.Set(ctx, key, []byte(`{"1": {"x": 0, "y": 0}}`), time.Hour); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Layout(ctx, g, DefaultDirectives()); err != nil {
		t.Fatal(err)
	}
	if inner.calls.Load() != 1 {
		t.Fatalf("a partial entry should force a fresh layout, inner called %d times", inner.calls.Load())
	}

	data, hit, err := fc.Get(ctx, key)
	if err != nil || !hit {
		t.Fatalf("fresh layout not stored (hit=%v err=%v)", hit, err)
	}
	if _, err := decodePositions(data, g); err != nil {
		t.Errorf("stored entry still corrupt: %v", err)
	}
}

func TestDecodePositionsCorrupt(t *testing.T) {
	g := build(t, `[1]`)
	for _, data := range []string{`not json`, `{}`} {
		if _, err := decodePositions([]byte(data), g); !errors.Is(err, cache.ErrCorrupt) {
			t.Errorf("decodePositions(%q) = %v, want ErrCorrupt", data, err)
		}
	}
}
