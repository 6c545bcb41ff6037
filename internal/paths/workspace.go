package paths

import (
	"os"
	"path/filepath"
)

// Workspace layout file and directory names. The layout is part of the
// persistence contract and must be reproduced exactly:
//
//	workspace.json                  manifest
//	nodes/{id}/data/content         primary payload
//	nodes/{id}/data/properties.json geometry, style, metadata
//	edges/{id}/joined.json          edge record
//	.mosaic/meta.json               canvas descriptor
//	.mosaic/state.json              UI state
const (
	ManifestFile   = "workspace.json"
	NodesDirName   = "nodes"
	EdgesDirName   = "edges"
	MetaDirName    = ".mosaic"
	MetaFile       = "meta.json"
	StateFile      = "state.json"
	ContentFile    = "content"
	PropertiesFile = "properties.json"
	JoinedFile     = "joined.json"
)

// Workspace holds the resolved paths of one workspace directory.
type Workspace struct {
	Root     string
	Manifest string
	Nodes    string
	Edges    string
	MetaDir  string
	Meta     string
	State    string
}

// ForWorkspace resolves the standard paths under a workspace root.
func ForWorkspace(root string) Workspace {
	metaDir := filepath.Join(root, MetaDirName)
	return Workspace{
		Root:     root,
		Manifest: filepath.Join(root, ManifestFile),
		Nodes:    filepath.Join(root, NodesDirName),
		Edges:    filepath.Join(root, EdgesDirName),
		MetaDir:  metaDir,
		Meta:     filepath.Join(metaDir, MetaFile),
		State:    filepath.Join(metaDir, StateFile),
	}
}

// NodeDir returns the directory holding one node's files.
func (w Workspace) NodeDir(id string) string {
	return filepath.Join(w.Nodes, id)
}

// NodeContent returns the path of a node's primary payload file.
func (w Workspace) NodeContent(id string) string {
	return filepath.Join(w.Nodes, id, "data", ContentFile)
}

// NodeProperties returns the path of a node's properties document.
func (w Workspace) NodeProperties(id string) string {
	return filepath.Join(w.Nodes, id, "data", PropertiesFile)
}

// EdgeDir returns the directory holding one edge's files.
func (w Workspace) EdgeDir(id string) string {
	return filepath.Join(w.Edges, id)
}

// EdgeJoined returns the path of an edge's record document.
func (w Workspace) EdgeJoined(id string) string {
	return filepath.Join(w.Edges, id, JoinedFile)
}

// CreateAll creates the workspace directory skeleton.
func (w Workspace) CreateAll() error {
	for _, dir := range []string{w.Root, w.Nodes, w.Edges, w.MetaDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}

// HasManifest reports whether a workspace.json exists under the root.
// The document may still be in the legacy single-snapshot shape; the
// workspace loader inspects it to decide whether migration is needed.
func (w Workspace) HasManifest() bool {
	_, err := os.Stat(w.Manifest)
	return err == nil
}

// HasEntityLayout reports whether the per-entity folder structure exists.
func (w Workspace) HasEntityLayout() bool {
	info, err := os.Stat(w.Nodes)
	return err == nil && info.IsDir()
}
