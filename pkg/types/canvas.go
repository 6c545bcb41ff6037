package types

// SchemaVersion is the on-disk format version written to canvas metadata.
const SchemaVersion = "2.0.0"

// CanvasMeta is the canvas descriptor stored in .mosaic/meta.json.
type CanvasMeta struct {
	ID          string   `json:"id"`
	VaultID     string   `json:"vault_id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
	Version     string   `json:"version"`
}

// NewCanvasMeta constructs canvas metadata with creation timestamps and the
// current schema version.
func NewCanvasMeta(id, vaultID, name string) *CanvasMeta {
	now := NowISO()
	return &CanvasMeta{
		ID:        id,
		VaultID:   vaultID,
		Name:      name,
		Tags:      []string{},
		CreatedAt: now,
		UpdatedAt: now,
		Version:   SchemaVersion,
	}
}

// Touch updates the modification timestamp.
func (m *CanvasMeta) Touch() {
	m.UpdatedAt = NowISO()
}

// AddTag appends a tag if not already present.
func (m *CanvasMeta) AddTag(tag string) {
	for _, t := range m.Tags {
		if t == tag {
			return
		}
	}
	m.Tags = append(m.Tags, tag)
	m.Touch()
}

// RemoveTag deletes a tag if present.
func (m *CanvasMeta) RemoveTag(tag string) {
	for i, t := range m.Tags {
		if t == tag {
			m.Tags = append(m.Tags[:i], m.Tags[i+1:]...)
			m.Touch()
			return
		}
	}
}

// CanvasUIState is the per-canvas UI state stored in .mosaic/state.json.
// It is presentation state, never consulted by the core's queries.
type CanvasUIState struct {
	Viewport      Viewport `json:"viewport"`
	SelectedNodes []string `json:"selected_nodes"`
	SelectedEdges []string `json:"selected_edges"`
	CanvasMode    string   `json:"canvas_mode"`
	UpdatedAt     string   `json:"updated_at"`
}

// DefaultCanvasUIState returns the UI state for a freshly opened canvas.
func DefaultCanvasUIState() CanvasUIState {
	return CanvasUIState{
		Viewport:      DefaultViewport(),
		SelectedNodes: []string{},
		SelectedEdges: []string{},
		CanvasMode:    "select",
	}
}

// Touch updates the modification timestamp.
func (s *CanvasUIState) Touch() {
	s.UpdatedAt = NowISO()
}
