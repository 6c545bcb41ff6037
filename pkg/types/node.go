package types

// NodeTypeGroup is the type tag of container nodes. Groups and their
// children never participate in collision resolution or placement probes.
const NodeTypeGroup = "group"

// Default dimensions substituted when a node carries no explicit size.
const (
	DefaultNodeWidth  = 200.0
	DefaultNodeHeight = 100.0
)

// Kind classifies a node for layout purposes. It is resolved once when the
// node is constructed or reparented, never re-derived per collision check.
type Kind int

const (
	// KindFree is a free-floating node: it moves during collision
	// resolution and constrains placement probes.
	KindFree Kind = iota
	// KindGroup is a container node; its children are positioned
	// relative to it.
	KindGroup
	// KindChild is a node owned by a group; its position is
	// parent-relative, not a free point in world space.
	KindChild
)

// Node is a positioned entity on the canvas.
type Node struct {
	NodeID   string         // UUID, immutable after creation.
	Type     string         // Type tag (note, image, link, group, ...).
	Position Point          // Top-left corner in world space.
	Width    float64        // Declared width; 0 means "use default".
	Height   float64        // Declared height; 0 means "use default".
	ZIndex   int            // Stacking order.
	ParentID string         // Owning group, empty for free nodes.
	Data     map[string]any // Type-specific payload.

	kind Kind
}

// NewNode constructs a node and resolves its layout kind from the type tag
// and parent reference.
func NewNode(id, nodeType string, position Point) *Node {
	n := &Node{
		NodeID:   id,
		Type:     nodeType,
		Position: position,
		ZIndex:   1,
		Data:     make(map[string]any),
	}
	n.resolveKind()
	return n
}

// resolveKind recomputes the layout kind. Called on construction and on
// reparenting.
func (n *Node) resolveKind() {
	switch {
	case n.Type == NodeTypeGroup:
		n.kind = KindGroup
	case n.ParentID != "":
		n.kind = KindChild
	default:
		n.kind = KindFree
	}
}

// Kind returns the layout kind resolved at construction.
func (n *Node) Kind() Kind {
	return n.kind
}

// SetParent reparents the node and re-resolves its kind.
func (n *Node) SetParent(parentID string) {
	n.ParentID = parentID
	n.resolveKind()
}

// ParticipatesInCollision reports whether the node moves during overlap
// resolution and constrains placement probes. Only free nodes participate;
// groups and children are skipped entirely.
func (n *Node) ParticipatesInCollision() bool {
	return n.kind == KindFree
}

// Bounds returns the node's bounding box, substituting the default size
// when no explicit dimensions are set.
func (n *Node) Bounds() Rect {
	w := n.Width
	if w <= 0 {
		w = DefaultNodeWidth
	}
	h := n.Height
	if h <= 0 {
		h = DefaultNodeHeight
	}
	return Rect{X: n.Position.X, Y: n.Position.Y, Width: w, Height: h}
}

// Clone returns a deep copy of the node. The Data map is copied one level
// deep; nested values are shared.
func (n *Node) Clone() *Node {
	cp := *n
	cp.Data = make(map[string]any, len(n.Data))
	for k, v := range n.Data {
		cp.Data[k] = v
	}
	return &cp
}
