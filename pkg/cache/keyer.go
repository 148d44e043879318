package cache

// Keyer builds cache keys for the values jsongraph stores.
type Keyer interface {
	// LayoutKey addresses the positions computed for a graph.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string
}

// LayoutKeyOpts holds every input besides the graph that changes a layout.
type LayoutKeyOpts struct {
	Engine       string  `json:"engine"`
	Direction    string  `json:"direction"`
	LayerSpacing float64 `json:"layer_spacing"`
	NodeSpacing  float64 `json:"node_spacing"`
	NodeWidth    float64 `json:"node_width"`
	NodeHeight   float64 `json:"node_height"`
}

// DefaultKeyer hashes key options with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey implements [Keyer].
func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}
