package layout

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/jsongraph/pkg/jsongraph"
)

const pointsPerInch = 72.0

// formatPlain is Graphviz's line-oriented text output.
const formatPlain graphviz.Format = "plain"

// Graphviz lays out graphs with the dot engine.
type Graphviz struct{}

// NewGraphviz returns a Graphviz engine.
func NewGraphviz() *Graphviz { return &Graphviz{} }

// Name implements [Engine].
func (e *Graphviz) Name() string { return EngineGraphviz }

// Layout implements [Engine].
func (e *Graphviz) Layout(ctx context.Context, g *jsongraph.Graph, d Directives) (Positions, error) {
	if err := checkContext(ctx); err != nil {
		return nil, layoutErr(e.Name(), err)
	}
	if err := Validate(g); err != nil {
		return nil, layoutErr(e.Name(), err)
	}
	if g.IsEmpty() {
		return Positions{}, nil
	}
	d = d.WithDefaults()

	out, err := runDot(ctx, ToDOT(g, d))
	if err != nil {
		return nil, layoutErr(e.Name(), err)
	}
	pos, err := ParsePlain(out, d)
	if err != nil {
		return nil, layoutErr(e.Name(), err)
	}
	if len(pos) != g.NodeCount() {
		return nil, layoutErr(e.Name(), fmt.Errorf("graphviz placed %d of %d nodes", len(pos), g.NodeCount()))
	}
	return pos, nil
}

func runDot(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	graph, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer graph.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, formatPlain, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

// ToDOT emits the structure of g as DOT with fixed-size, unlabeled boxes.
// Only geometry matters here; see the render package for styled output.
func ToDOT(g *jsongraph.Graph, d Directives) string {
	d = d.WithDefaults()
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", d.Direction.RankDir())
	fmt.Fprintf(&buf, "  ranksep=%s;\n", inches(d.LayerSpacing))
	fmt.Fprintf(&buf, "  nodesep=%s;\n", inches(d.NodeSpacing))
	fmt.Fprintf(&buf, "  node [shape=box, fixedsize=true, width=%s, height=%s, label=\"\"];\n",
		inches(d.NodeWidth), inches(d.NodeHeight))
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		fmt.Fprintf(&buf, "  %q;\n", n.ID)
	}
	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.Source, e.Target)
	}
	buf.WriteString("}\n")
	return buf.String()
}

func inches(px float64) string {
	return strconv.FormatFloat(px/pointsPerInch, 'f', 4, 64)
}

// ParsePlain reads node centers from Graphviz "plain" output and converts
// them to top-left corners in points, with y growing downward.
//
// The format is line oriented:
//
//	graph scale width height
//	node name x y width height label style shape color fillcolor
//	edge tail head n x1 y1 ... style color
//	stop
func ParsePlain(data []byte, d Directives) (Positions, error) {
	d = d.WithDefaults()
	pos := Positions{}
	height := -1.0

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "graph":
			if len(fields) < 4 {
				return nil, fmt.Errorf("malformed graph line %q", sc.Text())
			}
			h, err := strconv.ParseFloat(fields[3], 64)
			if err != nil {
				return nil, fmt.Errorf("graph height: %w", err)
			}
			height = h
		case "node":
			if height < 0 {
				return nil, fmt.Errorf("node line before graph line")
			}
			if len(fields) < 4 {
				return nil, fmt.Errorf("malformed node line %q", sc.Text())
			}
			x, err := strconv.ParseFloat(fields[2], 64)
			if err != nil {
				return nil, fmt.Errorf("node x: %w", err)
			}
			y, err := strconv.ParseFloat(fields[3], 64)
			if err != nil {
				return nil, fmt.Errorf("node y: %w", err)
			}
			pos[unquote(fields[1])] = jsongraph.Position{
				X: x*pointsPerInch - d.NodeWidth/2,
				Y: (height-y)*pointsPerInch - d.NodeHeight/2,
			}
		case "stop":
			return pos, nil
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return pos, nil
}

func unquote(s string) string {
	if u, err := strconv.Unquote(s); err == nil {
		return u
	}
	return s
}
