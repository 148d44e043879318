package session

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/jsongraph/pkg/errors"
	"github.com/matzehuels/jsongraph/pkg/jsongraph"
	"github.com/matzehuels/jsongraph/pkg/jsonvalue"
	"github.com/matzehuels/jsongraph/pkg/layout"
	"github.com/matzehuels/jsongraph/pkg/observability"
	"github.com/matzehuels/jsongraph/pkg/search"
)

// State is the position of a Session in its state machine.
type State int

const (
	StateIdle State = iota
	StateHasGraph
	StateHighlighted
)

func (s State) String() string {
	switch s {
	case StateHasGraph:
		return "has_graph"
	case StateHighlighted:
		return "highlighted"
	}
	return "idle"
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *State) UnmarshalText(b []byte) error {
	switch string(b) {
	case "idle":
		*s = StateIdle
	case "has_graph":
		*s = StateHasGraph
	case "highlighted":
		*s = StateHighlighted
	default:
		return fmt.Errorf("unknown session state %q", b)
	}
	return nil
}

// Options configures a Session. Zero fields take defaults: the layered
// engine, default directives, path search, a discarding logger and no
// notifier.
type Options struct {
	Engine     layout.Engine
	Directives layout.Directives
	Search     search.Options
	Logger     *log.Logger
	Notifier   Notifier
}

// Session holds one graph and serializes every change to it.
type Session struct {
	id         string
	engine     layout.Engine
	searchOpts search.Options
	logger     *log.Logger
	notifier   Notifier
	created    time.Time

	mu         sync.Mutex
	directives layout.Directives
	state      State
	graph      *jsongraph.Graph
	input      string
	generation uint64
	laidOut    bool
	lastActive time.Time
}

// New returns an idle session with a random UUID.
func New(opts Options) *Session {
	return NewWithID(uuid.NewString(), opts)
}

// NewWithID returns an idle session with the given id.
func NewWithID(id string, opts Options) *Session {
	if opts.Engine == nil {
		opts.Engine = layout.NewLayered()
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Notifier == nil {
		opts.Notifier = nopNotifier{}
	}
	d := opts.Directives.WithDefaults()
	if opts.Search.NodeWidth == 0 {
		opts.Search.NodeWidth = d.NodeWidth
	}
	if opts.Search.NodeHeight == 0 {
		opts.Search.NodeHeight = d.NodeHeight
	}
	now := time.Now()
	return &Session{
		id:         id,
		engine:     opts.Engine,
		searchOpts: opts.Search,
		logger:     opts.Logger.With("session", shortID(id)),
		notifier:   opts.Notifier,
		created:    now,
		directives: d,
		lastActive: now,
	}
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Created returns when the session was created.
func (s *Session) Created() time.Time { return s.created }

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastActive returns the time of the last Generate, Search or Clear.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// GenerateResult describes one Generate or Relayout call.
type GenerateResult struct {
	Generation uint64
	Stats      jsongraph.Stats
	// LaidOut reports whether positions were applied.
	LaidOut bool
	// Stale is set when a newer Generate or Clear superseded this call
	// before its layout finished; nothing was applied.
	Stale bool
	// LayoutErr holds the recovered layout failure, if any.
	LayoutErr error
	Elapsed   time.Duration
	Notices   []Notice
}

// Generate replaces the session graph with one built from text.
//
// EMPTY_INPUT leaves the session untouched. INVALID_JSON clears it. Layout
// failures are not returned as errors; see GenerateResult.LayoutErr.
func (s *Session) Generate(ctx context.Context, text string) (GenerateResult, error) {
	start := time.Now()
	var res GenerateResult

	if err := errors.ValidateInput(text); err != nil {
		res.Notices = append(res.Notices, s.emit(LevelError, err))
		return res, err
	}

	v, err := jsonvalue.ParseString(text)
	observability.Pipeline().OnParse(ctx, len(text), time.Since(start), err)
	if err != nil {
		s.mu.Lock()
		s.reset()
		res.Generation = s.generation
		s.mu.Unlock()

		s.logger.Debug("parse failed", "error", err)
		res.Notices = append(res.Notices, s.emit(LevelError, err))
		return res, err
	}

	buildStart := time.Now()
	g := jsongraph.Build(v)
	res.Stats = jsongraph.ComputeStats(g)
	observability.Pipeline().OnBuild(ctx, res.Stats.Nodes, res.Stats.Edges, time.Since(buildStart))

	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.graph = g
	s.input = text
	s.state = StateHasGraph
	s.laidOut = false
	s.lastActive = time.Now()
	d := s.directives
	s.mu.Unlock()

	res.Generation = gen
	s.logger.Debug("graph built", "generation", gen, "nodes", res.Stats.Nodes, "edges", res.Stats.Edges)

	s.layout(ctx, gen, g, d, &res)
	res.Elapsed = time.Since(start)
	return res, nil
}

// Relayout lays the current graph out again with d, keeping any highlight.
// It returns NOT_FOUND when there is no graph.
func (s *Session) Relayout(ctx context.Context, d layout.Directives) (GenerateResult, error) {
	start := time.Now()
	var res GenerateResult
	if err := d.Validate(); err != nil {
		return res, err
	}
	d = d.WithDefaults()

	s.mu.Lock()
	if s.graph == nil {
		s.mu.Unlock()
		return res, errors.New(errors.ErrCodeNotFound, "no graph to lay out")
	}
	s.generation++
	gen := s.generation
	g := s.graph
	s.directives = d
	s.lastActive = time.Now()
	res.Stats = jsongraph.ComputeStats(g)
	s.mu.Unlock()

	res.Generation = gen
	s.layout(ctx, gen, g, d, &res)
	res.Elapsed = time.Since(start)
	return res, nil
}

// layout runs the engine without the lock and applies the result only if
// gen is still current.
func (s *Session) layout(ctx context.Context, gen uint64, g *jsongraph.Graph, d layout.Directives, res *GenerateResult) {
	name := s.engine.Name()
	observability.Pipeline().OnLayoutStart(ctx, name, g.NodeCount())
	start := time.Now()
	pos, err := s.engine.Layout(ctx, g, d)
	observability.Pipeline().OnLayoutComplete(ctx, name, time.Since(start), err)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		res.Stale = true
		observability.Pipeline().OnLayoutDiscarded(ctx, name)
		s.logger.Debug("discarding stale layout", "generation", gen, "current", s.generation)
		return
	}
	if err != nil {
		res.LayoutErr = err
		s.laidOut = false
		s.logger.Warn("layout failed", "engine", name, "error", err)
		res.Notices = append(res.Notices, s.emitLocked(LevelWarning, errors.Wrap(errors.ErrCodeLayout, err,
			"Layout failed; the graph is shown without positions")))
		return
	}
	g.SetPositions(pos)
	s.laidOut = true
	res.LaidOut = true
	s.logger.Debug("layout applied", "engine", name, "generation", gen, "elapsed", time.Since(start))
}

// SearchResult is the outcome of Search. Node and Match are copies taken
// after the highlight was applied.
type SearchResult struct {
	search.Result
	Notices []Notice
}

// Search highlights the node matching query. A miss, including a search
// in Idle or before any successful layout, emits one notice and changes
// nothing. A blank query is a silent no-op. Only malformed queries
// (control characters, excessive length) return an error.
func (s *Session) Search(ctx context.Context, query string) (SearchResult, error) {
	start := time.Now()
	var res SearchResult
	res.Query = query

	if strings.TrimSpace(query) != "" {
		if err := errors.ValidateQuery(query); err != nil {
			res.Notices = append(res.Notices, s.emit(LevelError, err))
			return res, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActive = time.Now()

	if s.graph != nil && s.laidOut {
		res.Result = search.Resolve(s.graph, query, s.searchOpts)
	} else {
		res.Segments = search.Segments(query)
	}
	observability.Pipeline().OnSearch(ctx, s.searchOpts.Mode.String(), res.Found, time.Since(start))

	if !res.Found {
		if len(res.Segments) > 0 {
			res.Notices = append(res.Notices, s.emitLocked(LevelWarning,
				errors.New(errors.ErrCodeNotFound, "No match found for %q", strings.TrimSpace(query))))
		}
		return res, nil
	}

	search.Apply(s.graph, res.Delta)
	s.state = StateHighlighted
	res.Node = copyNode(res.Node)
	res.Match = copyNode(res.Match)
	s.logger.Debug("search matched", "query", query, "node", res.Node.ID, "label", res.Node.Label)
	return res, nil
}

// Clear empties the session. Any layout still running is discarded when it
// returns. Clear is idempotent.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
	s.input = ""
	s.logger.Debug("cleared", "generation", s.generation)
}

// reset drops the graph and starts a new generation. Callers hold mu.
func (s *Session) reset() {
	s.generation++
	s.graph = nil
	s.state = StateIdle
	s.laidOut = false
	s.lastActive = time.Now()
}

// Snapshot is a consistent copy of session state.
type Snapshot struct {
	ID         string
	State      State
	Generation uint64
	LaidOut    bool
	Input      string
	Directives layout.Directives
	// Graph is a deep copy, or nil in Idle.
	Graph *jsongraph.Graph
}

// Snapshot copies the current state. The graph may be inspected freely.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		ID:         s.id,
		State:      s.state,
		Generation: s.generation,
		LaidOut:    s.laidOut,
		Input:      s.input,
		Directives: s.directives,
	}
	if s.graph != nil {
		snap.Graph = s.graph.Clone()
	}
	return snap
}

func (s *Session) emit(level Level, err error) Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.emitLocked(level, err)
}

func (s *Session) emitLocked(level Level, err error) Notice {
	n := Notice{
		Level:   level,
		Code:    errors.GetCode(err),
		Message: errors.UserMessage(err),
		Time:    time.Now(),
	}
	s.notifier.Notify(n)
	return n
}

func copyNode(n *jsongraph.Node) *jsongraph.Node {
	if n == nil {
		return nil
	}
	c := *n
	return &c
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
