package types

import "time"

// Manifest is the summary index persisted as workspace.json. It records
// node and edge identities plus workspace-level metadata; full entity
// content lives in the per-entity files under nodes/ and edges/.
type Manifest struct {
	Metadata ManifestMeta            `json:"metadata"`
	Nodes    map[string]ManifestNode `json:"nodes"`
	Edges    map[string]ManifestEdge `json:"edges"`
}

// ManifestNode is the per-node summary record: identity and type only.
type ManifestNode struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// ManifestEdge is the per-edge presence marker.
type ManifestEdge struct {
	ID string `json:"id"`
}

// ManifestMeta holds workspace-level metadata.
type ManifestMeta struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
	Viewport    Viewport `json:"viewport"`
	Settings    Settings `json:"settings"`
}

// Viewport is the persisted camera state.
type Viewport struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Zoom float64 `json:"zoom"`
}

// DefaultViewport returns the origin viewport at zoom 1.
func DefaultViewport() Viewport {
	return Viewport{X: 0, Y: 0, Zoom: 1}
}

// Settings holds workspace display and autosave preferences.
type Settings struct {
	GridSize         uint   `json:"grid_size"`
	SnapToGrid       bool   `json:"snap_to_grid"`
	ShowMinimap      bool   `json:"show_minimap"`
	AutoSave         bool   `json:"auto_save"`
	AutoSaveInterval uint   `json:"auto_save_interval"`
	Theme            string `json:"theme"`
	DefaultNodeColor string `json:"default_node_color"`
	DefaultEdgeColor string `json:"default_edge_color"`
}

// DefaultSettings returns the workspace settings applied to new canvases.
func DefaultSettings() Settings {
	return Settings{
		GridSize:         20,
		SnapToGrid:       true,
		ShowMinimap:      true,
		AutoSave:         true,
		AutoSaveInterval: 1000,
		Theme:            "dark",
		DefaultNodeColor: "#1e1e1e",
		DefaultEdgeColor: "#555555",
	}
}

// NewManifest returns an empty manifest for a freshly created workspace.
func NewManifest(name string) *Manifest {
	now := NowISO()
	return &Manifest{
		Metadata: ManifestMeta{
			Name:      name,
			CreatedAt: now,
			UpdatedAt: now,
			Viewport:  DefaultViewport(),
			Settings:  DefaultSettings(),
		},
		Nodes: make(map[string]ManifestNode),
		Edges: make(map[string]ManifestEdge),
	}
}

// Touch updates the manifest's modification timestamp.
func (m *Manifest) Touch() {
	m.Metadata.UpdatedAt = NowISO()
}

// NowISO returns the current UTC time in RFC 3339 format, the timestamp
// representation used across all persisted documents.
func NowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}
