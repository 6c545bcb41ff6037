package workspace

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/mosaicflow/mosaic/pkg/types"
)

// load reconstructs the in-memory entity set from disk. The manifest is
// authoritative for which entities exist; per-entity files supply their
// content. Missing or unparsable per-entity files degrade to defaults
// rather than failing the load, so a partially damaged workspace still
// opens with whatever could be read.
func (ws *Workspace) load() error {
	raw, err := os.ReadFile(ws.paths.Manifest)
	if err != nil {
		return fmt.Errorf("reading manifest: %w", err)
	}

	if isLegacyManifest(raw) {
		if err := ws.migrateLegacy(raw); err != nil {
			return err
		}
		ws.index.Rebuild(ws.nodeSlice())
		return ws.loadMeta()
	}

	var manifest types.Manifest
	if err := json.Unmarshal(raw, &manifest); err != nil {
		return fmt.Errorf("parsing manifest: %w", err)
	}
	if manifest.Nodes == nil {
		manifest.Nodes = make(map[string]types.ManifestNode)
	}
	if manifest.Edges == nil {
		manifest.Edges = make(map[string]types.ManifestEdge)
	}
	ws.manifest = &manifest

	for id, entry := range manifest.Nodes {
		n, err := ws.loadNode(id, entry)
		if err != nil {
			return err
		}
		ws.nodes[id] = n
	}

	for id := range manifest.Edges {
		e, err := ws.loadEdge(id)
		if err != nil {
			return err
		}
		if e == nil {
			// Manifest references an edge with no usable record on disk.
			// Drop it from the session; the entry is cleaned up on the
			// next manifest write.
			ws.log.Warn().Str("edge", id).Msg("edge record missing or unreadable, dropping")
			delete(ws.manifest.Edges, id)
			continue
		}
		ws.edges[id] = e
	}

	ws.index.Rebuild(ws.nodeSlice())
	return ws.loadMeta()
}

// loadNode reconstructs one node from its files. A missing or unparsable
// properties file yields a default-geometry node of the manifest's type;
// missing content yields an empty payload.
func (ws *Workspace) loadNode(id string, entry types.ManifestNode) (*types.Node, error) {
	n := types.NewNode(id, entry.Type, types.Point{})

	var props propertiesJSON
	kind := ""
	err := readJSONFile(ws.paths.NodeProperties(id), &props)
	switch {
	case err == nil:
		applyProperties(n, props)
		kind = props.ContentKind
	case os.IsNotExist(err):
		ws.log.Warn().Str("node", id).Msg("properties file missing, using defaults")
	case errors.Is(err, errMalformed):
		ws.log.Warn().Str("node", id).Err(err).Msg("properties file unreadable, using defaults")
	default:
		return nil, fmt.Errorf("loading node %s: %w", id, err)
	}

	content, err := os.ReadFile(ws.paths.NodeContent(id))
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading node %s content: %w", id, err)
	}
	if len(content) > 0 {
		n.Data[contentKey] = decodeContent(content, kind)
	}
	return n, nil
}

// loadEdge reconstructs one edge from its record, or returns nil when the
// record is missing or unparsable. Unlike nodes, edges carry nothing
// recoverable in the manifest, so they are dropped rather than defaulted.
func (ws *Workspace) loadEdge(id string) (*types.Edge, error) {
	var rec edgeJSON
	err := readJSONFile(ws.paths.EdgeJoined(id), &rec)
	switch {
	case err == nil:
		e := types.NewEdge(id, rec.Source, rec.Target)
		applyEdgeRecord(e, rec)
		return e, nil
	case os.IsNotExist(err), errors.Is(err, errMalformed):
		return nil, nil
	default:
		return nil, fmt.Errorf("loading edge %s: %w", id, err)
	}
}

// loadMeta reads the canvas descriptor, synthesizing one from the
// directory name when absent (workspaces created by older releases carry
// no descriptor) or unparsable.
func (ws *Workspace) loadMeta() error {
	var meta types.CanvasMeta
	err := readJSONFile(ws.paths.Meta, &meta)
	if err == nil {
		ws.meta = &meta
		return nil
	}
	if !os.IsNotExist(err) && !errors.Is(err, errMalformed) {
		return fmt.Errorf("loading canvas meta: %w", err)
	}
	if errors.Is(err, errMalformed) {
		ws.log.Warn().Err(err).Msg("canvas meta unreadable, regenerating")
	}
	ws.meta = types.NewCanvasMeta(uuid.NewString(), "", ws.defaultMetaName())
	if werr := writeJSONFile(ws.paths.Meta, ws.meta); werr != nil {
		return fmt.Errorf("writing canvas meta: %w", werr)
	}
	return nil
}
