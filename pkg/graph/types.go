package graph

import (
	"github.com/matzehuels/jsongraph/pkg/jsongraph"
	"github.com/matzehuels/jsongraph/pkg/render"
)

// React Flow node types.
const (
	NodeTypeInput   = "input"
	NodeTypeDefault = "default"
	NodeTypeOutput  = "output"
)

// EdgeTypeSmoothStep is the edge routing style used for every edge.
const EdgeTypeSmoothStep = "smoothstep"

// Document is a serialized graph plus the frame it was laid out in.
type Document struct {
	Nodes     []Node  `json:"nodes" yaml:"nodes"`
	Edges     []Edge  `json:"edges" yaml:"edges"`
	Direction string  `json:"direction,omitempty" yaml:"direction,omitempty"`
	Width     float64 `json:"width,omitempty" yaml:"width,omitempty"`
	Height    float64 `json:"height,omitempty" yaml:"height,omitempty"`
	Highlight string  `json:"highlight,omitempty" yaml:"highlight,omitempty"`
	Stats     *Stats  `json:"stats,omitempty" yaml:"stats,omitempty"`
}

// Node is one serialized node.
type Node struct {
	ID          string             `json:"id" yaml:"id"`
	Type        string             `json:"type" yaml:"type"`
	Data        NodeData           `json:"data" yaml:"data"`
	Position    jsongraph.Position `json:"position" yaml:"position"`
	Kind        string             `json:"kind" yaml:"kind"`
	Scalar      string             `json:"scalar,omitempty" yaml:"scalar,omitempty"`
	Highlighted bool               `json:"highlighted,omitempty" yaml:"highlighted,omitempty"`
	Style       *render.Style      `json:"style,omitempty" yaml:"style,omitempty"`
}

// NodeData carries the display label.
type NodeData struct {
	Label string `json:"label" yaml:"label"`
}

// Edge is one serialized edge.
type Edge struct {
	ID       string `json:"id" yaml:"id"`
	Source   string `json:"source" yaml:"source"`
	Target   string `json:"target" yaml:"target"`
	Animated bool   `json:"animated,omitempty" yaml:"animated,omitempty"`
	Type     string `json:"type" yaml:"type"`
}

// Stats summarizes the graph for clients that show counts.
type Stats struct {
	Nodes      int `json:"nodes" yaml:"nodes"`
	Edges      int `json:"edges" yaml:"edges"`
	Containers int `json:"containers" yaml:"containers"`
	Values     int `json:"values" yaml:"values"`
	MaxDepth   int `json:"max_depth" yaml:"max_depth"`
}
