package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/matzehuels/jsongraph/pkg/buildinfo"
	"github.com/matzehuels/jsongraph/pkg/errors"
	"github.com/matzehuels/jsongraph/pkg/graph"
	"github.com/matzehuels/jsongraph/pkg/jsongraph"
	"github.com/matzehuels/jsongraph/pkg/layout"
	"github.com/matzehuels/jsongraph/pkg/render"
	"github.com/matzehuels/jsongraph/pkg/search"
	"github.com/matzehuels/jsongraph/pkg/session"
)

type sessionResponse struct {
	ID         string        `json:"id"`
	State      session.State `json:"state"`
	Generation uint64        `json:"generation"`
	LaidOut    bool          `json:"laid_out"`
}

type generateResponse struct {
	Generation uint64           `json:"generation"`
	Stats      graph.Stats      `json:"stats"`
	LaidOut    bool             `json:"laid_out"`
	Stale      bool             `json:"stale,omitempty"`
	ElapsedMS  int64            `json:"elapsed_ms"`
	Notices    []session.Notice `json:"notices"`
	Graph      graph.Document   `json:"graph"`
}

type searchRequest struct {
	Query string `json:"query"`
}

type searchResponse struct {
	Query   string           `json:"query"`
	Found   bool             `json:"found"`
	NodeID  string           `json:"node_id,omitempty"`
	Label   string           `json:"label,omitempty"`
	Path    []string         `json:"path,omitempty"`
	Focus   *search.Focus    `json:"focus,omitempty"`
	Cleared []string         `json:"cleared,omitempty"`
	Notices []session.Notice `json:"notices"`
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.store.Len(),
	})
}

func (s *Server) version(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) sample(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, session.Sample())
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Create(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.logger.Info("session created", "id", sess.ID(), "live", s.store.Len())
	w.Header().Set("Location", "/api/v1/sessions/"+sess.ID())
	writeJSON(w, http.StatusCreated, describe(sess))
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, describe(sessionFrom(r)))
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	if err := s.store.Delete(r.Context(), sess.ID()); err != nil {
		writeError(w, r, err)
		return
	}
	s.logger.Info("session deleted", "id", sess.ID(), "live", s.store.Len())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) generate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body"))
		return
	}

	ctx, cancel := s.layoutContext(r.Context())
	defer cancel()

	sess := sessionFrom(r)
	res, err := sess.Generate(ctx, string(body))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if res.LayoutErr != nil && ctx.Err() == context.DeadlineExceeded {
		writeError(w, r, errors.Wrap(errors.ErrCodeTimeout, res.LayoutErr, "layout timed out after %s", s.timeout))
		return
	}

	snap := sess.Snapshot()
	doc := s.document(snap)
	writeJSON(w, http.StatusOK, generateResponse{
		Generation: res.Generation,
		Stats:      toStats(res.Stats),
		LaidOut:    res.LaidOut,
		Stale:      res.Stale,
		ElapsedMS:  res.Elapsed.Milliseconds(),
		Notices:    nonNil(res.Notices),
		Graph:      doc,
	})
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err := dec.Decode(&req); err != nil {
		writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid search request"))
		return
	}

	res, err := sessionFrom(r).Search(r.Context(), req.Query)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := searchResponse{
		Query:   req.Query,
		Found:   res.Found,
		Path:    res.Path,
		Notices: nonNil(res.Notices),
	}
	if res.Found {
		out.NodeID = res.Node.ID
		out.Label = res.Node.Label
		focus := res.Focus
		out.Focus = &focus
		out.Cleared = res.Delta.Cleared
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) clear(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	sess.Clear()
	writeJSON(w, http.StatusOK, describe(sess))
}

func (s *Server) relayout(w http.ResponseWriter, r *http.Request) {
	var d layout.Directives
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&d); err != nil && err != io.EOF {
		writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid layout directives"))
		return
	}
	dir, err := layout.ParseDirection(string(d.Direction))
	if err != nil {
		writeError(w, r, err)
		return
	}
	d.Direction = dir

	ctx, cancel := s.layoutContext(r.Context())
	defer cancel()

	sess := sessionFrom(r)
	res, err := sess.Relayout(ctx, d)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, generateResponse{
		Generation: res.Generation,
		Stats:      toStats(res.Stats),
		LaidOut:    res.LaidOut,
		Stale:      res.Stale,
		ElapsedMS:  res.Elapsed.Milliseconds(),
		Notices:    nonNil(res.Notices),
		Graph:      s.document(sess.Snapshot()),
	})
}

func (s *Server) graph(w http.ResponseWriter, r *http.Request) {
	doc := s.document(sessionFrom(r).Snapshot())
	switch strings.ToLower(r.URL.Query().Get("format")) {
	case "", "json":
		writeJSON(w, http.StatusOK, doc)
	case "yaml", "yml":
		w.Header().Set("Content-Type", "application/yaml")
		if err := graph.WriteYAML(doc, w); err != nil {
			s.logger.Error("write yaml", "error", err)
		}
	default:
		writeError(w, r, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q (want json or yaml)", r.URL.Query().Get("format")))
	}
}

func (s *Server) graphSVG(w http.ResponseWriter, r *http.Request) {
	snap := sessionFrom(r).Snapshot()
	if snap.Graph.IsEmpty() {
		writeError(w, r, notFound("session has no graph"))
		return
	}
	dot := render.ToDOT(snap.Graph, render.Options{
		Directives: snap.Directives,
		Pinned:     snap.LaidOut,
		Palette:    s.palette,
	})
	svg, err := render.RenderSVG(r.Context(), dot, snap.LaidOut)
	if err != nil {
		s.logger.Error("render svg", "session", snap.ID, "error", err)
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(svg)
}

func (s *Server) layoutContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *Server) document(snap session.Snapshot) graph.Document {
	return graph.From(snap.Graph, graph.Options{
		Directives: snap.Directives,
		Palette:    s.palette,
		Stats:      true,
	})
}

func describe(sess *session.Session) sessionResponse {
	snap := sess.Snapshot()
	return sessionResponse{
		ID:         snap.ID,
		State:      snap.State,
		Generation: snap.Generation,
		LaidOut:    snap.LaidOut,
	}
}

func toStats(st jsongraph.Stats) graph.Stats {
	return graph.Stats{
		Nodes:      st.Nodes,
		Edges:      st.Edges,
		Containers: st.Containers,
		Values:     st.Values,
		MaxDepth:   st.MaxDepth,
	}
}

func nonNil(n []session.Notice) []session.Notice {
	if n == nil {
		return []session.Notice{}
	}
	return n
}
