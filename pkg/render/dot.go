package render

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/jsongraph/pkg/jsongraph"
	"github.com/matzehuels/jsongraph/pkg/layout"
)

// Options configures DOT generation.
type Options struct {
	// Directives supply node size, spacing and direction.
	Directives layout.Directives
	// Pinned fixes every node at its current Position.
	Pinned bool
	// Palette overrides DefaultPalette when non-zero.
	Palette *Palette
}

func (o Options) palette() Palette {
	if o.Palette != nil {
		return *o.Palette
	}
	return DefaultPalette()
}

// ToDOT converts g to styled Graphviz DOT.
func ToDOT(g *jsongraph.Graph, opts Options) string {
	d := opts.Directives.WithDefaults()
	pal := opts.palette()

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", d.Direction.RankDir())
	buf.WriteString("  bgcolor=\"transparent\";\n")
	fmt.Fprintf(&buf, "  ranksep=%s;\n", inches(d.LayerSpacing))
	fmt.Fprintf(&buf, "  nodesep=%s;\n", inches(d.NodeSpacing))
	if opts.Pinned {
		buf.WriteString("  inputscale=72;\n")
		buf.WriteString("  splines=true;\n")
	}
	fmt.Fprintf(&buf, "  node [shape=box, style=\"rounded,filled\", fixedsize=true, width=%s, height=%s, fontname=\"Helvetica-Bold\", fontsize=14];\n",
		inches(d.NodeWidth), inches(d.NodeHeight))
	fmt.Fprintf(&buf, "  edge [color=%q, arrowsize=0.7];\n", pal.Edge)
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(n, pal, d, opts.Pinned), ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		attrs := ""
		if e.Container {
			attrs = " [style=dashed]"
		}
		fmt.Fprintf(&buf, "  %q -> %q%s;\n", e.Source, e.Target, attrs)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n *jsongraph.Node, pal Palette, d layout.Directives, pinned bool) []string {
	s := pal.StyleFor(n)
	attrs := []string{
		fmt.Sprintf("label=%q", truncate(n.Label, 24)),
		fmt.Sprintf("fillcolor=%q", s.Background),
		fmt.Sprintf("fontcolor=%q", s.Color),
	}
	if s.Border != "" {
		attrs = append(attrs, fmt.Sprintf("color=%q", borderColor(s)))
	} else {
		attrs = append(attrs, fmt.Sprintf("color=%q", s.Background))
	}
	if n.Highlighted {
		attrs = append(attrs, "penwidth=2")
	}
	if len([]rune(n.Label)) > 24 {
		attrs = append(attrs, fmt.Sprintf("tooltip=%q", n.Label))
	}
	if pinned {
		// Graphviz puts y upward and anchors at the center.
		x := n.Position.X + d.NodeWidth/2
		y := -(n.Position.Y + d.NodeHeight/2)
		attrs = append(attrs, fmt.Sprintf("pos=\"%s,%s!\"", ftoa(x), ftoa(y)))
	}
	return attrs
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func inches(px float64) string {
	return strconv.FormatFloat(px/72, 'f', 4, 64)
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
