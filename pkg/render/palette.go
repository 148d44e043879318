package render

import "github.com/matzehuels/jsongraph/pkg/jsongraph"

// Palette holds the colors used for each node role.
type Palette struct {
	ContainerFill   string
	ContainerBorder string
	ContainerText   string
	ValueFill       string
	ValueText       string
	HighlightFill   string
	HighlightBorder string
	HighlightText   string
	Edge            string
}

// DefaultPalette returns the standard colors.
func DefaultPalette() Palette {
	return Palette{
		ContainerFill:   "#8ED1FC",
		ContainerBorder: "#3B82F6",
		ContainerText:   "#FFFFFF",
		ValueFill:       "#FFB86C",
		ValueText:       "#000000",
		HighlightFill:   "#FACC15",
		HighlightBorder: "#CA8A04",
		HighlightText:   "#000000",
		Edge:            "#64748B",
	}
}

// Style is the visual treatment of one node.
type Style struct {
	Background   string  `json:"background" yaml:"background"`
	Color        string  `json:"color" yaml:"color"`
	Border       string  `json:"border,omitempty" yaml:"border,omitempty"`
	BorderRadius int     `json:"borderRadius" yaml:"border_radius"`
	Padding      int     `json:"padding" yaml:"padding"`
	FontWeight   int     `json:"fontWeight" yaml:"font_weight"`
	FontSize     string  `json:"fontSize" yaml:"font_size"`
	Width        float64 `json:"width,omitempty" yaml:"width,omitempty"`
	Height       float64 `json:"height,omitempty" yaml:"height,omitempty"`
}

// StyleFor returns the style of n under p. Value nodes use tighter padding
// and no border.
func (p Palette) StyleFor(n *jsongraph.Node) Style {
	s := Style{
		Background:   p.ContainerFill,
		Color:        p.ContainerText,
		Border:       "1px solid " + p.ContainerBorder,
		BorderRadius: 8,
		Padding:      10,
		FontWeight:   700,
		FontSize:     "16px",
	}
	if n.Kind == jsongraph.KindPrimitive {
		s.Background = p.ValueFill
		s.Color = p.ValueText
		s.Border = ""
		s.Padding = 8
	}
	if n.Highlighted {
		s.Background = p.HighlightFill
		s.Color = p.HighlightText
		s.Border = "2px solid " + p.HighlightBorder
	}
	return s
}

// borderColor extracts the color from a CSS border shorthand.
func borderColor(s Style) string {
	for i := len(s.Border) - 1; i >= 0; i-- {
		if s.Border[i] == ' ' {
			return s.Border[i+1:]
		}
	}
	return s.Border
}
