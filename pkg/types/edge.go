package types

// DefaultEdgeType is the edge type tag used when none is specified.
const DefaultEdgeType = "default"

// Edge is a relationship between two nodes. Both endpoints must exist at
// creation time; dangling references after a node deletion are tolerated
// transiently and cleaned up by the layer issuing the delete.
type Edge struct {
	EdgeID       string         // UUID, immutable after creation.
	Source       string         // Source node ID.
	Target       string         // Target node ID.
	SourceHandle string         // Optional source handle identifier.
	TargetHandle string         // Optional target handle identifier.
	Type         string         // Edge type (default, straight, step, ...).
	Label        string         // Optional display label.
	Animated     bool           // Whether the edge renders animated.
	Data         map[string]any // Edge-specific payload.
}

// NewEdge constructs an edge with the default type tag.
func NewEdge(id, source, target string) *Edge {
	return &Edge{
		EdgeID: id,
		Source: source,
		Target: target,
		Type:   DefaultEdgeType,
		Data:   make(map[string]any),
	}
}

// Clone returns a deep copy of the edge. The Data map is copied one level
// deep; nested values are shared.
func (e *Edge) Clone() *Edge {
	cp := *e
	cp.Data = make(map[string]any, len(e.Data))
	for k, v := range e.Data {
		cp.Data[k] = v
	}
	return &cp
}
