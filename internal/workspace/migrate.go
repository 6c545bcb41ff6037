package workspace

import (
	"encoding/json"
	"fmt"

	"github.com/mosaicflow/mosaic/pkg/types"
)

// migrateLegacy converts the legacy single-snapshot workspace.json (full
// node and edge arrays inline) into the per-entity layout. Entity files
// are written first and the manifest last, so an interrupted migration
// leaves the legacy document in place and reruns cleanly on the next open.
func (ws *Workspace) migrateLegacy(raw []byte) error {
	var doc legacyDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("parsing legacy workspace document: %w", err)
	}

	ws.log.Info().
		Int("nodes", len(doc.Nodes)).
		Int("edges", len(doc.Edges)).
		Msg("migrating legacy workspace to per-entity layout")

	if err := ws.paths.CreateAll(); err != nil {
		return fmt.Errorf("creating workspace layout: %w", err)
	}

	manifest := types.NewManifest(ws.defaultMetaName())
	if doc.Settings != nil {
		manifest.Metadata.Settings = *doc.Settings
	}

	for _, ln := range doc.Nodes {
		n := types.NewNode(ln.ID, ln.Type, ln.Position)
		n.Width = ln.Width
		n.Height = ln.Height
		if ln.ZIndex != 0 {
			n.ZIndex = ln.ZIndex
		}
		for k, v := range ln.Data {
			n.Data[k] = v
		}
		if ln.ParentID != "" {
			n.SetParent(ln.ParentID)
		}

		content, err := encodeContent(n.Data[contentKey])
		if err != nil {
			return fmt.Errorf("migrating node %s: %w", ln.ID, err)
		}
		if err := ws.store.writeNodeNow(ln.ID, content, nodeProperties(n)); err != nil {
			return fmt.Errorf("migrating node %s: %w", ln.ID, err)
		}

		ws.nodes[ln.ID] = n
		manifest.Nodes[ln.ID] = types.ManifestNode{ID: ln.ID, Type: ln.Type}
	}

	for _, le := range doc.Edges {
		e := types.NewEdge(le.ID, le.Source, le.Target)
		e.SourceHandle = le.SourceHandle
		e.TargetHandle = le.TargetHandle
		e.Label = le.Label
		e.Animated = le.Animated
		if le.EdgeType != "" {
			e.Type = le.EdgeType
		}
		for k, v := range le.Data {
			e.Data[k] = v
		}

		if err := ws.store.writeEdgeNow(le.ID, edgeRecord(e)); err != nil {
			return fmt.Errorf("migrating edge %s: %w", le.ID, err)
		}

		ws.edges[le.ID] = e
		manifest.Edges[le.ID] = types.ManifestEdge{ID: le.ID}
	}

	ws.manifest = manifest
	if err := ws.store.writeManifestNow(ws.manifestBytes()); err != nil {
		return err
	}
	return nil
}
