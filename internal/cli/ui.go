package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/jsongraph/pkg/jsongraph"
	"github.com/matzehuels/jsongraph/pkg/render"
	"github.com/matzehuels/jsongraph/pkg/session"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // primary actions
	colorGreen  = lipgloss.Color("35")  // success
	colorYellow = lipgloss.Color("220") // warnings
	colorRed    = lipgloss.Color("167") // errors
	colorWhite  = lipgloss.Color("255") // values
	colorGray   = lipgloss.Color("245") // secondary text
	colorDim    = lipgloss.Color("240") // muted text
)

// Node colors follow the diagram palette so the terminal matches the SVG.
var (
	pal              = render.DefaultPalette()
	colorContainer   = lipgloss.Color(pal.ContainerFill)
	colorValue       = lipgloss.Color(pal.ValueFill)
	colorHighlighted = lipgloss.Color(pal.HighlightFill)
)

// =============================================================================
// Styles
// =============================================================================

var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue     = lipgloss.NewStyle().Foreground(colorWhite)
	StyleSuccess   = lipgloss.NewStyle().Foreground(colorGreen)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorYellow)
	StyleError     = lipgloss.NewStyle().Foreground(colorRed)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleContainer   = lipgloss.NewStyle().Foreground(colorContainer)
	styleKey         = lipgloss.NewStyle().Foreground(colorContainer).Bold(true)
	stylePrimitive   = lipgloss.NewStyle().Foreground(colorValue)
	styleHighlighted = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(colorHighlighted).Bold(true)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printError(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

func printWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line.
func printDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written output path.
func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(w io.Writer, key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Fprintln(w, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// printNotice logs a session notice at its level.
func printNotice(l *log.Logger, n session.Notice) {
	switch n.Level {
	case session.LevelError:
		l.Error(n.Message, "code", n.Code)
	case session.LevelWarning:
		l.Warn(n.Message, "code", n.Code)
	default:
		l.Info(n.Message)
	}
}

// =============================================================================
// Graph Display
// =============================================================================

// printStats prints graph statistics on a single line.
func printStats(w io.Writer, st jsongraph.Stats, elapsed string) {
	parts := []string{
		fmt.Sprintf("%d nodes", st.Nodes),
		fmt.Sprintf("%d edges", st.Edges),
		fmt.Sprintf("depth %d", st.MaxDepth),
	}
	if elapsed != "" {
		parts = append(parts, elapsed)
	}
	for i := range parts {
		parts[i] = StyleDim.Render(parts[i])
	}
	fmt.Fprintln(w, "  "+strings.Join(parts, StyleDim.Render(" · ")))
}

// nodeStyle picks the terminal style for n.
func nodeStyle(n *jsongraph.Node) lipgloss.Style {
	switch {
	case n.Highlighted:
		return styleHighlighted
	case n.Kind == jsongraph.KindPrimitive:
		return stylePrimitive
	case n.Kind == jsongraph.KindKey:
		return styleKey
	}
	return styleContainer
}

// treeLine is one row of the outline and the node ids it shows.
type treeLine struct {
	text string
	ids  []string
}

// treeLines draws g as an indented outline. Key nodes are folded onto one
// line with their value: "name: APIWIZ".
func treeLines(g *jsongraph.Graph) []treeLine {
	if g.IsEmpty() {
		return nil
	}
	var lines []treeLine
	var walk func(id, prefix string, last, root bool)
	walk = func(id, prefix string, last, root bool) {
		n, _ := g.Node(id)
		branch, next := "├─ ", prefix+"│  "
		if last {
			branch, next = "└─ ", prefix+"   "
		}
		if root {
			branch, next = "", ""
		}

		ids := []string{n.ID}
		text := nodeStyle(n).Render(n.Label)
		children := g.Children(id)
		switch {
		case n.Kind == jsongraph.KindKey && len(children) == 1:
			v, _ := g.Node(children[0])
			text += StyleDim.Render(": ") + nodeStyle(v).Render(v.Label)
			ids = append(ids, v.ID)
			children = nil
		case n.Kind == jsongraph.KindArray:
			text += StyleDim.Render(fmt.Sprintf(" [%d]", len(children)))
		case n.Kind == jsongraph.KindObject:
			text += StyleDim.Render(fmt.Sprintf(" {%d}", len(children)))
		}
		lines = append(lines, treeLine{text: StyleDim.Render(prefix+branch) + text, ids: ids})

		for i, c := range children {
			walk(c, next, i == len(children)-1, false)
		}
	}
	walk(g.Root().ID, "", true, true)
	return lines
}

// renderTree joins treeLines, or returns a placeholder for an empty graph.
func renderTree(g *jsongraph.Graph) string {
	lines := treeLines(g)
	if len(lines) == 0 {
		return StyleDim.Render("(empty)")
	}
	texts := make([]string, len(lines))
	for i, l := range lines {
		texts[i] = l.text
	}
	return strings.Join(texts, "\n")
}

// statsTable renders stats as a small two-column table.
func statsTable(st jsongraph.Stats) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Nodes", "Edges", "Containers", "Values", "Depth").
		Row(
			fmt.Sprint(st.Nodes),
			fmt.Sprint(st.Edges),
			fmt.Sprint(st.Containers),
			fmt.Sprint(st.Values),
			fmt.Sprint(st.MaxDepth),
		).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle.Padding(0, 1)
			}
			return StyleValue.Padding(0, 1)
		}).
		Render()
}
