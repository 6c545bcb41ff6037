// JSON record structures for the per-entity file layout and the legacy
// single-snapshot document. These mirror the on-disk formats exactly; the
// layout is a compatibility contract.
package workspace

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/mosaicflow/mosaic/pkg/types"
)

// contentKey is the Data key holding a node's primary payload. It is
// persisted to the content file; every other Data key lives in
// properties.json.
const contentKey = "content"

// Content kinds recorded in properties.json. The content file itself is
// format-free (raw text or JSON), so the kind disambiguates decoding:
// without it a note whose text happens to be valid JSON ("123", "[1,2]")
// would change type across a persist/reload cycle. Documents written by
// earlier releases carry no kind and fall back to sniffing.
const (
	contentKindText = "text"
	contentKindJSON = "json"
)

// propertiesJSON represents nodes/{id}/data/properties.json.
type propertiesJSON struct {
	ID          string         `json:"id"`
	Type        string         `json:"type"`
	Position    types.Point    `json:"position"`
	Width       float64        `json:"width,omitempty"`
	Height      float64        `json:"height,omitempty"`
	ZIndex      int            `json:"zIndex"`
	ParentID    string         `json:"parentId,omitempty"`
	ContentKind string         `json:"contentKind,omitempty"`
	Data        map[string]any `json:"data,omitempty"`
}

// edgeJSON represents edges/{id}/joined.json. The edge id is the folder
// name and is not repeated inside the document.
type edgeJSON struct {
	Source       string         `json:"source"`
	Target       string         `json:"target"`
	SourceHandle string         `json:"sourceHandle,omitempty"`
	TargetHandle string         `json:"targetHandle,omitempty"`
	Label        string         `json:"label,omitempty"`
	Type         string         `json:"type"`
	Animated     bool           `json:"animated"`
	Data         map[string]any `json:"data"`
}

// nodeProperties builds the properties document for a node: everything
// except the primary payload.
func nodeProperties(n *types.Node) propertiesJSON {
	rest := make(map[string]any, len(n.Data))
	for k, v := range n.Data {
		if k == contentKey {
			continue
		}
		rest[k] = v
	}
	if len(rest) == 0 {
		rest = nil
	}
	return propertiesJSON{
		ID:          n.NodeID,
		Type:        n.Type,
		Position:    n.Position,
		Width:       n.Width,
		Height:      n.Height,
		ZIndex:      n.ZIndex,
		ParentID:    n.ParentID,
		ContentKind: contentKind(n.Data[contentKey]),
		Data:        rest,
	}
}

// applyProperties copies a properties document onto a node.
func applyProperties(n *types.Node, p propertiesJSON) {
	n.Type = p.Type
	n.Position = p.Position
	n.Width = p.Width
	n.Height = p.Height
	n.ZIndex = p.ZIndex
	for k, v := range p.Data {
		n.Data[k] = v
	}
	n.SetParent(p.ParentID)
}

// edgeRecord builds the joined.json document for an edge.
func edgeRecord(e *types.Edge) edgeJSON {
	data := e.Data
	if data == nil {
		data = map[string]any{}
	}
	return edgeJSON{
		Source:       e.Source,
		Target:       e.Target,
		SourceHandle: e.SourceHandle,
		TargetHandle: e.TargetHandle,
		Label:        e.Label,
		Type:         e.Type,
		Animated:     e.Animated,
		Data:         data,
	}
}

// applyEdgeRecord copies a joined.json document onto an edge.
func applyEdgeRecord(e *types.Edge, rec edgeJSON) {
	e.Source = rec.Source
	e.Target = rec.Target
	e.SourceHandle = rec.SourceHandle
	e.TargetHandle = rec.TargetHandle
	e.Label = rec.Label
	e.Type = rec.Type
	e.Animated = rec.Animated
	if rec.Data != nil {
		e.Data = rec.Data
	}
}

// contentKind classifies a payload for the properties document.
func contentKind(v any) string {
	switch v.(type) {
	case nil:
		return ""
	case string:
		return contentKindText
	default:
		return contentKindJSON
	}
}

// encodeContent serializes a node's primary payload for the content file.
// String payloads are written raw (the format of text, URL and code nodes);
// anything else is JSON-encoded.
func encodeContent(v any) ([]byte, error) {
	switch c := v.(type) {
	case nil:
		return nil, nil
	case string:
		return []byte(c), nil
	default:
		data, err := json.Marshal(c)
		if err != nil {
			return nil, fmt.Errorf("marshaling content: %w", err)
		}
		return data, nil
	}
}

// decodeContent reverses encodeContent, dispatching on the kind recorded
// in properties.json. An empty kind means the document predates the kind
// field; those fall back to sniffing (valid JSON that is not a bare string
// decodes to its value, everything else is the raw payload string).
func decodeContent(data []byte, kind string) any {
	if len(data) == 0 {
		return ""
	}
	switch kind {
	case contentKindText:
		return string(data)
	case contentKindJSON:
		var v any
		if err := json.Unmarshal(bytes.TrimSpace(data), &v); err == nil {
			return v
		}
		// Content file corrupt; keep the bytes rather than lose them.
		return string(data)
	}
	trimmed := bytes.TrimSpace(data)
	if json.Valid(trimmed) && trimmed[0] != '"' {
		var v any
		if err := json.Unmarshal(trimmed, &v); err == nil {
			if _, isString := v.(string); !isString {
				return v
			}
		}
	}
	return string(data)
}

// Legacy single-snapshot document structures (the v2.0.0 workspace.json
// written by earlier releases, with full node/edge arrays inline). Field
// names are snake_case in the legacy format.

type legacyDocument struct {
	Version  string          `json:"version"`
	Nodes    []legacyNode    `json:"nodes"`
	Edges    []legacyEdge    `json:"edges"`
	Settings *types.Settings `json:"settings"`
}

type legacyNode struct {
	ID       string         `json:"id"`
	Type     string         `json:"type"`
	Position types.Point    `json:"position"`
	Width    float64        `json:"width"`
	Height   float64        `json:"height"`
	ZIndex   int            `json:"z_index"`
	ParentID string         `json:"parent_id"`
	Data     map[string]any `json:"data"`
}

type legacyEdge struct {
	ID           string         `json:"id"`
	Source       string         `json:"source"`
	Target       string         `json:"target"`
	SourceHandle string         `json:"source_handle"`
	TargetHandle string         `json:"target_handle"`
	EdgeType     string         `json:"edge_type"`
	Label        string         `json:"label"`
	Animated     bool           `json:"animated"`
	Data         map[string]any `json:"data"`
}

// isLegacyManifest reports whether a workspace.json document is the legacy
// single-snapshot shape: its "nodes" field is an array rather than the
// manifest's id-keyed object.
func isLegacyManifest(raw []byte) bool {
	var probe struct {
		Nodes json.RawMessage `json:"nodes"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return false
	}
	trimmed := bytes.TrimSpace(probe.Nodes)
	return len(trimmed) > 0 && trimmed[0] == '['
}
