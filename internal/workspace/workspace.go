// Package workspace implements the canvas core: the canonical in-memory
// entity set, the spatial index kept over it, collision-aware placement,
// and the write-behind persistence of every entity to its own files with a
// summary manifest.
//
// All mutation and queries execute synchronously on the caller's control
// flow; debounce timers are the only asynchronous element, and they touch
// nothing but the file system.
// See docs/ARCHITECTURE.md § Workspace Core.
package workspace

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mosaicflow/mosaic/internal/layout"
	"github.com/mosaicflow/mosaic/internal/paths"
	"github.com/mosaicflow/mosaic/internal/spatial"
	"github.com/mosaicflow/mosaic/pkg/types"
)

// Options configures a workspace. The zero value selects the default
// debounce windows and a no-op logger.
type Options struct {
	// ContentDebounce is the write-behind window for content fields.
	// Defaults to DefaultContentDebounce (300ms).
	ContentDebounce time.Duration

	// GeometryDebounce is the write-behind window for geometry, edge and
	// manifest-metadata fields. Defaults to DefaultGeometryDebounce (100ms).
	GeometryDebounce time.Duration

	// Logger receives persistence failures and lifecycle events.
	Logger *zerolog.Logger
}

func (o *Options) logger() zerolog.Logger {
	if o != nil && o.Logger != nil {
		return *o.Logger
	}
	return zerolog.Nop()
}

// Workspace owns one canvas: the canonical node and edge sets, the spatial
// index over them, and the persistence store mirroring them to disk. It is
// the single writer for its directory; concurrent open instances of the
// same workspace are unsupported.
type Workspace struct {
	mu    sync.Mutex
	paths paths.Workspace
	log   zerolog.Logger
	store *store

	manifest *types.Manifest
	meta     *types.CanvasMeta
	nodes    map[string]*types.Node
	edges    map[string]*types.Edge

	index      *spatial.Index
	indexDirty bool

	closed bool
}

// NodeOptions carries optional parameters for CreateNode.
type NodeOptions struct {
	ID            string  // Explicit id; a UUID is allocated when empty.
	Width, Height float64 // Explicit size; 0 keeps the default.
	ZIndex        int     // Stacking order; 0 keeps the default of 1.
	ParentID      string  // Owning group; must exist and be a group.
	AvoidOverlap  bool    // Probe for a free position before placing.
}

// EdgeOptions carries optional parameters for AddEdge.
type EdgeOptions struct {
	ID           string
	SourceHandle string
	TargetHandle string
	Type         string // Defaults to types.DefaultEdgeType.
	Label        string
	Animated     bool
	Data         map[string]any
}

// GeometryPatch is a partial update of a node's geometry and property
// fields. Nil members are left untouched.
type GeometryPatch struct {
	Position *types.Point
	Width    *float64
	Height   *float64
	ZIndex   *int
	ParentID *string
}

// EdgePatch is a partial update of an edge's attributes. Nil members are
// left untouched; Data keys are merged.
type EdgePatch struct {
	SourceHandle *string
	TargetHandle *string
	Type         *string
	Label        *string
	Animated     *bool
	Data         map[string]any
}

// Create initializes a new workspace directory: the skeleton, an empty
// manifest, the canvas descriptor, and the default UI state.
func Create(root, name string, opts *Options) (*Workspace, error) {
	p := paths.ForWorkspace(root)
	if err := p.CreateAll(); err != nil {
		return nil, fmt.Errorf("creating workspace layout: %w", err)
	}

	ws := &Workspace{
		paths:    p,
		log:      opts.logger(),
		manifest: types.NewManifest(name),
		meta:     types.NewCanvasMeta(uuid.NewString(), "", name),
		nodes:    make(map[string]*types.Node),
		edges:    make(map[string]*types.Edge),
		index:    spatial.New(types.Rect{}),
	}
	ws.store = newStore(p, optContent(opts), optGeometry(opts), ws.log)

	if err := ws.store.writeManifestNow(ws.manifestBytes()); err != nil {
		return nil, err
	}
	if err := writeJSONFile(p.Meta, ws.meta); err != nil {
		return nil, fmt.Errorf("writing canvas meta: %w", err)
	}
	state := types.DefaultCanvasUIState()
	state.Touch()
	if err := writeJSONFile(p.State, state); err != nil {
		return nil, fmt.Errorf("writing canvas state: %w", err)
	}

	ws.index.Rebuild(nil)
	return ws, nil
}

// Open loads an existing workspace, migrating a legacy single-snapshot
// document into the per-entity layout on first load.
func Open(root string, opts *Options) (*Workspace, error) {
	p := paths.ForWorkspace(root)
	if !p.HasManifest() {
		return nil, fmt.Errorf("%s: %w", root, types.ErrNotAWorkspace)
	}

	ws := &Workspace{
		paths: p,
		log:   opts.logger(),
		nodes: make(map[string]*types.Node),
		edges: make(map[string]*types.Edge),
		index: spatial.New(types.Rect{}),
	}
	ws.store = newStore(p, optContent(opts), optGeometry(opts), ws.log)

	if err := ws.load(); err != nil {
		return nil, err
	}
	return ws, nil
}

func optContent(opts *Options) time.Duration {
	if opts != nil {
		return opts.ContentDebounce
	}
	return 0
}

func optGeometry(opts *Options) time.Duration {
	if opts != nil {
		return opts.GeometryDebounce
	}
	return 0
}

// Root returns the workspace directory.
func (ws *Workspace) Root() string {
	return ws.paths.Root
}

// Meta returns a copy of the canvas descriptor.
func (ws *Workspace) Meta() types.CanvasMeta {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return *ws.meta
}

// Manifest returns a copy of the current manifest metadata.
func (ws *Workspace) ManifestMeta() types.ManifestMeta {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return ws.manifest.Metadata
}

// CreateNode allocates a node, places it (collision-aware when requested),
// establishes its file presence immediately, and registers it in the
// manifest. Duplicate ids are rejected before any file write.
func (ws *Workspace) CreateNode(nodeType string, pos types.Point, data map[string]any, opts *NodeOptions) (*types.Node, error) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	if ws.closed {
		return nil, types.ErrWorkspaceClosed
	}

	if opts == nil {
		opts = &NodeOptions{}
	}
	id := opts.ID
	if id == "" {
		id = uuid.NewString()
	} else if !validID(id) {
		return nil, fmt.Errorf("node %q: %w", id, types.ErrInvalidID)
	}
	if _, exists := ws.nodes[id]; exists {
		return nil, fmt.Errorf("node %s: %w", id, types.ErrDuplicateID)
	}
	if opts.ParentID != "" {
		parent, ok := ws.nodes[opts.ParentID]
		if !ok || parent.Kind() != types.KindGroup {
			return nil, fmt.Errorf("node %s parent %s: %w", id, opts.ParentID, types.ErrParentNotFound)
		}
	}

	if opts.AvoidOverlap && opts.ParentID == "" && nodeType != types.NodeTypeGroup {
		existing := ws.nodeSlice()
		pos = layout.FindFreePosition(pos, opts.Width, opts.Height, existing, layout.DefaultMargin)
	}

	n := types.NewNode(id, nodeType, pos)
	n.Width = opts.Width
	n.Height = opts.Height
	if opts.ZIndex != 0 {
		n.ZIndex = opts.ZIndex
	}
	if opts.ParentID != "" {
		n.SetParent(opts.ParentID)
	}
	for k, v := range data {
		n.Data[k] = v
	}

	ws.nodes[id] = n
	ws.index.Insert(n)

	content, err := encodeContent(n.Data[contentKey])
	if err != nil {
		return n, err
	}
	if err := ws.store.writeNodeNow(id, content, nodeProperties(n)); err != nil {
		return n, err
	}

	ws.manifest.Nodes[id] = types.ManifestNode{ID: id, Type: nodeType}
	ws.manifest.Touch()
	if err := ws.store.writeManifestNow(ws.manifestBytes()); err != nil {
		return n, err
	}
	return n, nil
}

// UpdateNodeGeometry applies a partial geometry patch in memory and
// schedules a debounced properties write.
func (ws *Workspace) UpdateNodeGeometry(id string, patch GeometryPatch) error {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	if ws.closed {
		return types.ErrWorkspaceClosed
	}
	n, ok := ws.nodes[id]
	if !ok {
		return fmt.Errorf("node %s: %w", id, types.ErrNotFound)
	}

	if patch.ParentID != nil && *patch.ParentID != "" {
		parent, ok := ws.nodes[*patch.ParentID]
		if !ok || parent.Kind() != types.KindGroup {
			return fmt.Errorf("node %s parent %s: %w", id, *patch.ParentID, types.ErrParentNotFound)
		}
	}

	if patch.Position != nil {
		n.Position = *patch.Position
	}
	if patch.Width != nil {
		n.Width = *patch.Width
	}
	if patch.Height != nil {
		n.Height = *patch.Height
	}
	if patch.ZIndex != nil {
		n.ZIndex = *patch.ZIndex
	}
	if patch.ParentID != nil {
		n.SetParent(*patch.ParentID)
	}

	ws.indexDirty = true
	ws.store.scheduleNodeProperties(id, nodeProperties(n))
	return nil
}

// UpdateNodeContent merges a partial data patch in memory and schedules
// debounced writes: the primary payload through the content window, any
// other data keys through the shorter properties window.
func (ws *Workspace) UpdateNodeContent(id string, patch map[string]any) error {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	if ws.closed {
		return types.ErrWorkspaceClosed
	}
	n, ok := ws.nodes[id]
	if !ok {
		return fmt.Errorf("node %s: %w", id, types.ErrNotFound)
	}

	prevKind := contentKind(n.Data[contentKey])

	contentTouched := false
	othersTouched := false
	for k, v := range patch {
		n.Data[k] = v
		if k == contentKey {
			contentTouched = true
		} else {
			othersTouched = true
		}
	}

	if contentTouched {
		payload, err := encodeContent(n.Data[contentKey])
		if err != nil {
			return err
		}
		ws.store.scheduleNodeContent(id, payload)
		// The properties document records the content kind; rewrite it
		// when the payload changes shape so decoding stays unambiguous.
		if contentKind(n.Data[contentKey]) != prevKind {
			othersTouched = true
		}
	}
	if othersTouched {
		ws.store.scheduleNodeProperties(id, nodeProperties(n))
	}
	return nil
}

// DeleteNode destroys a node: pending writes are canceled, its files are
// removed, the manifest entry is dropped, and dependent edges are deleted
// in the same logical operation. The cancel-files-manifest order
// guarantees a crash mid-deletion never leaves a valid manifest reference
// to a half-deleted entity.
func (ws *Workspace) DeleteNode(id string) error {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return ws.deleteNodeLocked(id)
}

// DeleteNodes destroys multiple nodes, continuing past per-node I/O
// failures and reporting them joined.
func (ws *Workspace) DeleteNodes(ids []string) error {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	var errs []error
	for _, id := range ids {
		if err := ws.deleteNodeLocked(id); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (ws *Workspace) deleteNodeLocked(id string) error {
	if ws.closed {
		return types.ErrWorkspaceClosed
	}
	if _, ok := ws.nodes[id]; !ok {
		return fmt.Errorf("node %s: %w", id, types.ErrNotFound)
	}

	var errs []error
	if err := ws.store.removeNode(id); err != nil {
		errs = append(errs, err)
	}
	delete(ws.nodes, id)
	delete(ws.manifest.Nodes, id)
	ws.indexDirty = true

	// Dependent edges go in the same logical operation.
	for eid, e := range ws.edges {
		if e.Source != id && e.Target != id {
			continue
		}
		if err := ws.store.removeEdge(eid); err != nil {
			errs = append(errs, err)
		}
		delete(ws.edges, eid)
		delete(ws.manifest.Edges, eid)
	}

	ws.manifest.Touch()
	if err := ws.store.writeManifestNow(ws.manifestBytes()); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// AddEdge creates an edge between two existing nodes, writes its record
// immediately, and registers it in the manifest.
func (ws *Workspace) AddEdge(source, target string, opts *EdgeOptions) (*types.Edge, error) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	if ws.closed {
		return nil, types.ErrWorkspaceClosed
	}
	if _, ok := ws.nodes[source]; !ok {
		return nil, fmt.Errorf("edge source %s: %w", source, types.ErrEndpointMissing)
	}
	if _, ok := ws.nodes[target]; !ok {
		return nil, fmt.Errorf("edge target %s: %w", target, types.ErrEndpointMissing)
	}

	if opts == nil {
		opts = &EdgeOptions{}
	}
	id := opts.ID
	if id == "" {
		id = uuid.NewString()
	} else if !validID(id) {
		return nil, fmt.Errorf("edge %q: %w", id, types.ErrInvalidID)
	}
	if _, exists := ws.edges[id]; exists {
		return nil, fmt.Errorf("edge %s: %w", id, types.ErrDuplicateID)
	}

	e := types.NewEdge(id, source, target)
	e.SourceHandle = opts.SourceHandle
	e.TargetHandle = opts.TargetHandle
	e.Label = opts.Label
	e.Animated = opts.Animated
	if opts.Type != "" {
		e.Type = opts.Type
	}
	for k, v := range opts.Data {
		e.Data[k] = v
	}

	ws.edges[id] = e
	if err := ws.store.writeEdgeNow(id, edgeRecord(e)); err != nil {
		return e, err
	}

	ws.manifest.Edges[id] = types.ManifestEdge{ID: id}
	ws.manifest.Touch()
	if err := ws.store.writeManifestNow(ws.manifestBytes()); err != nil {
		return e, err
	}
	return e, nil
}

// UpdateEdge applies a partial patch and schedules a debounced record
// write.
func (ws *Workspace) UpdateEdge(id string, patch EdgePatch) error {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	if ws.closed {
		return types.ErrWorkspaceClosed
	}
	e, ok := ws.edges[id]
	if !ok {
		return fmt.Errorf("edge %s: %w", id, types.ErrNotFound)
	}

	if patch.SourceHandle != nil {
		e.SourceHandle = *patch.SourceHandle
	}
	if patch.TargetHandle != nil {
		e.TargetHandle = *patch.TargetHandle
	}
	if patch.Type != nil {
		e.Type = *patch.Type
	}
	if patch.Label != nil {
		e.Label = *patch.Label
	}
	if patch.Animated != nil {
		e.Animated = *patch.Animated
	}
	for k, v := range patch.Data {
		e.Data[k] = v
	}

	ws.store.scheduleEdge(id, edgeRecord(e))
	return nil
}

// DeleteEdge destroys an edge: pending write canceled, files removed,
// manifest entry dropped.
func (ws *Workspace) DeleteEdge(id string) error {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	if ws.closed {
		return types.ErrWorkspaceClosed
	}
	if _, ok := ws.edges[id]; !ok {
		return fmt.Errorf("edge %s: %w", id, types.ErrNotFound)
	}

	var errs []error
	if err := ws.store.removeEdge(id); err != nil {
		errs = append(errs, err)
	}
	delete(ws.edges, id)
	delete(ws.manifest.Edges, id)
	ws.manifest.Touch()
	if err := ws.store.writeManifestNow(ws.manifestBytes()); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Node returns the node with the given id.
func (ws *Workspace) Node(id string) (*types.Node, bool) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	n, ok := ws.nodes[id]
	return n, ok
}

// Edge returns the edge with the given id.
func (ws *Workspace) Edge(id string) (*types.Edge, bool) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	e, ok := ws.edges[id]
	return e, ok
}

// Nodes returns the current node set. The returned nodes are the canonical
// instances; callers mutate them only through the Update methods.
func (ws *Workspace) Nodes() []*types.Node {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return ws.nodeSlice()
}

// Edges returns the current edge set.
func (ws *Workspace) Edges() []*types.Edge {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	out := make([]*types.Edge, 0, len(ws.edges))
	for _, e := range ws.edges {
		out = append(out, e)
	}
	return out
}

func (ws *Workspace) nodeSlice() []*types.Node {
	out := make([]*types.Node, 0, len(ws.nodes))
	for _, n := range ws.nodes {
		out = append(out, n)
	}
	return out
}

// QueryViewport returns the nodes whose bounding boxes intersect the
// viewport. The query reads only the in-memory set and the spatial index;
// it never touches disk. A stale index is refreshed by a full rebuild,
// trading rebuild cost for correctness after bulk geometry changes.
func (ws *Workspace) QueryViewport(viewport types.Rect) []*types.Node {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	if ws.indexDirty {
		ws.index.Rebuild(ws.nodeSlice())
		ws.indexDirty = false
	}
	return ws.index.Query(viewport)
}

// ResolveOverlaps relaxes overlaps among free-floating nodes using the
// default margin and fraction, writes the moved positions back into the
// canonical set, and schedules their persistence. Returns the changed
// nodes. Invoked after bulk geometry changes such as paste or group
// expansion.
func (ws *Workspace) ResolveOverlaps() []*types.Node {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	if ws.closed {
		return nil
	}

	changed := layout.ResolveOverlaps(ws.nodeSlice(), layout.DefaultMargin,
		layout.DefaultMaxIterations, layout.DefaultOverlapFraction)
	for _, c := range changed {
		n := ws.nodes[c.NodeID]
		n.Position = c.Position
		ws.store.scheduleNodeProperties(n.NodeID, nodeProperties(n))
	}
	if len(changed) > 0 {
		ws.indexDirty = true
	}
	return changed
}

// SetViewport persists the camera state into the manifest metadata through
// the short debounce window.
func (ws *Workspace) SetViewport(v types.Viewport) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.manifest.Metadata.Viewport = v
	ws.manifest.Touch()
	ws.store.scheduleManifest(ws.manifestBytes())
}

// UpdateSettings persists workspace settings through the short debounce
// window.
func (ws *Workspace) UpdateSettings(s types.Settings) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.manifest.Metadata.Settings = s
	ws.manifest.Touch()
	ws.store.scheduleManifest(ws.manifestBytes())
}

// Rename updates the workspace display name in both the manifest and the
// canvas descriptor, synchronously.
func (ws *Workspace) Rename(name string) error {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	if ws.closed {
		return types.ErrWorkspaceClosed
	}
	ws.manifest.Metadata.Name = name
	ws.manifest.Touch()
	ws.meta.Name = name
	ws.meta.Touch()

	if err := ws.store.writeManifestNow(ws.manifestBytes()); err != nil {
		return err
	}
	if err := writeJSONFile(ws.paths.Meta, ws.meta); err != nil {
		return fmt.Errorf("writing canvas meta: %w", err)
	}
	return nil
}

// SetDescription updates the workspace description in both the manifest
// and the canvas descriptor, synchronously.
func (ws *Workspace) SetDescription(desc string) error {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	if ws.closed {
		return types.ErrWorkspaceClosed
	}
	ws.manifest.Metadata.Description = desc
	ws.manifest.Touch()
	ws.meta.Description = desc
	ws.meta.Touch()

	if err := ws.store.writeManifestNow(ws.manifestBytes()); err != nil {
		return err
	}
	if err := writeJSONFile(ws.paths.Meta, ws.meta); err != nil {
		return fmt.Errorf("writing canvas meta: %w", err)
	}
	return nil
}

// Tag adds a tag to the canvas descriptor and persists it.
func (ws *Workspace) Tag(tag string) error {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	if ws.closed {
		return types.ErrWorkspaceClosed
	}
	ws.meta.AddTag(tag)
	if err := writeJSONFile(ws.paths.Meta, ws.meta); err != nil {
		return fmt.Errorf("writing canvas meta: %w", err)
	}
	return nil
}

// Untag removes a tag from the canvas descriptor and persists it.
func (ws *Workspace) Untag(tag string) error {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	if ws.closed {
		return types.ErrWorkspaceClosed
	}
	ws.meta.RemoveTag(tag)
	if err := writeJSONFile(ws.paths.Meta, ws.meta); err != nil {
		return fmt.Errorf("writing canvas meta: %w", err)
	}
	return nil
}

// LoadUIState reads the canvas UI state, returning defaults when the file
// is missing or unreadable.
func (ws *Workspace) LoadUIState() types.CanvasUIState {
	var state types.CanvasUIState
	if err := readJSONFile(ws.paths.State, &state); err != nil {
		return types.DefaultCanvasUIState()
	}
	return state
}

// SaveUIState persists the canvas UI state synchronously.
func (ws *Workspace) SaveUIState(state types.CanvasUIState) error {
	state.Touch()
	if err := writeJSONFile(ws.paths.State, state); err != nil {
		return fmt.Errorf("writing canvas state: %w", err)
	}
	return nil
}

// FlushAll synchronously executes every pending debounced write. Called on
// teardown and workspace switches so no edit is lost on navigation away
// from a canvas.
func (ws *Workspace) FlushAll() error {
	return ws.store.flushAll()
}

// Close flushes all pending writes and marks the workspace closed.
// Idempotent.
func (ws *Workspace) Close() error {
	ws.mu.Lock()
	if ws.closed {
		ws.mu.Unlock()
		return nil
	}
	ws.closed = true
	ws.mu.Unlock()
	return ws.store.flushAll()
}

// manifestBytes snapshots the manifest as the indented JSON document
// written to workspace.json. Callers hold ws.mu.
func (ws *Workspace) manifestBytes() []byte {
	data, err := json.MarshalIndent(ws.manifest, "", "  ")
	if err != nil {
		// The manifest contains only marshalable types.
		ws.log.Error().Err(err).Msg("manifest marshal failed")
		return []byte("{}")
	}
	return data
}

// defaultMetaName derives a display name from the workspace directory when
// no canvas descriptor exists.
func (ws *Workspace) defaultMetaName() string {
	return filepath.Base(ws.paths.Root)
}

// validID rejects caller-supplied ids that cannot serve as a directory
// name under nodes/ or edges/.
func validID(id string) bool {
	if strings.TrimSpace(id) == "" {
		return false
	}
	return !strings.ContainsAny(id, `/\`) && id != "." && id != ".."
}
