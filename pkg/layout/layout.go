package layout

import (
	"context"
	"fmt"
	"strings"

	"github.com/matzehuels/jsongraph/pkg/errors"
	"github.com/matzehuels/jsongraph/pkg/jsongraph"
)

// Direction is the axis along which layers advance.
type Direction string

const (
	DirectionDown  Direction = "down"
	DirectionRight Direction = "right"
	DirectionUp    Direction = "up"
	DirectionLeft  Direction = "left"
)

// ParseDirection accepts the four direction names plus the Graphviz rankdir
// spellings TB, LR, BT and RL. The empty string means DirectionDown.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "down", "tb":
		return DirectionDown, nil
	case "right", "lr":
		return DirectionRight, nil
	case "up", "bt":
		return DirectionUp, nil
	case "left", "rl":
		return DirectionLeft, nil
	}
	return "", errors.New(errors.ErrCodeInvalidDirection, "unknown direction %q (want down, right, up or left)", s)
}

// Horizontal reports whether layers advance along the x axis.
func (d Direction) Horizontal() bool { return d == DirectionRight || d == DirectionLeft }

// RankDir returns the Graphviz rankdir for d.
func (d Direction) RankDir() string {
	switch d {
	case DirectionRight:
		return "LR"
	case DirectionUp:
		return "BT"
	case DirectionLeft:
		return "RL"
	}
	return "TB"
}

// Directives configures an engine. Spacings and sizes are in pixels.
type Directives struct {
	Direction    Direction `json:"direction" toml:"direction"`
	LayerSpacing float64   `json:"layer_spacing" toml:"layer_spacing"`
	NodeSpacing  float64   `json:"node_spacing" toml:"node_spacing"`
	NodeWidth    float64   `json:"node_width" toml:"node_width"`
	NodeHeight   float64   `json:"node_height" toml:"node_height"`
}

// DefaultDirectives returns a top-to-bottom layout with 100px between
// layers, 80px between siblings and 150x50 nodes.
func DefaultDirectives() Directives {
	return Directives{
		Direction:    DirectionDown,
		LayerSpacing: 100,
		NodeSpacing:  80,
		NodeWidth:    150,
		NodeHeight:   50,
	}
}

// WithDefaults fills zero fields from [DefaultDirectives].
func (d Directives) WithDefaults() Directives {
	def := DefaultDirectives()
	if d.Direction == "" {
		d.Direction = def.Direction
	}
	if d.LayerSpacing <= 0 {
		d.LayerSpacing = def.LayerSpacing
	}
	if d.NodeSpacing <= 0 {
		d.NodeSpacing = def.NodeSpacing
	}
	if d.NodeWidth <= 0 {
		d.NodeWidth = def.NodeWidth
	}
	if d.NodeHeight <= 0 {
		d.NodeHeight = def.NodeHeight
	}
	return d
}

// Validate checks the direction and rejects negative sizes.
func (d Directives) Validate() error {
	if _, err := ParseDirection(string(d.Direction)); err != nil {
		return err
	}
	if d.LayerSpacing < 0 || d.NodeSpacing < 0 || d.NodeWidth < 0 || d.NodeHeight < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "layout spacing and node size must not be negative")
	}
	return nil
}

// Positions maps node ids to top-left corners.
type Positions map[string]jsongraph.Position

// Bounds returns the width and height covered by p given the node size.
func (p Positions) Bounds(d Directives) (width, height float64) {
	for _, pos := range p {
		width = max(width, pos.X+d.NodeWidth)
		height = max(height, pos.Y+d.NodeHeight)
	}
	return width, height
}

// Engine computes node positions.
type Engine interface {
	// Name identifies the engine in logs, metrics and cache keys.
	Name() string
	// Layout returns a position for every node of g.
	Layout(ctx context.Context, g *jsongraph.Graph, d Directives) (Positions, error)
}

// Engine names accepted by [NewEngine].
const (
	EngineLayered  = "layered"
	EngineGraphviz = "graphviz"
)

// NewEngine returns the engine registered under name.
func NewEngine(name string) (Engine, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", EngineLayered:
		return NewLayered(), nil
	case EngineGraphviz, "dot":
		return NewGraphviz(), nil
	}
	return nil, errors.New(errors.ErrCodeInvalidEngine, "unknown layout engine %q (want %s or %s)", name, EngineLayered, EngineGraphviz)
}

// Apply lays g out with e and writes the positions into g.
func Apply(ctx context.Context, e Engine, g *jsongraph.Graph, d Directives) error {
	pos, err := e.Layout(ctx, g, d)
	if err != nil {
		return err
	}
	g.SetPositions(pos)
	return nil
}

func layoutErr(engine string, err error) error {
	if errors.GetCode(err) == errors.ErrCodeLayout {
		return err
	}
	return errors.Wrap(errors.ErrCodeLayout, err, "%s layout failed", engine)
}

func checkContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("layout canceled: %w", err)
	}
	return nil
}
