// The entity persistence store: a write-behind mirror of the in-memory
// entity set onto one file-system location per entity.
//
// Writes are grouped into field categories with independent debounce
// windows. Content fields change in keystroke bursts and use the longer
// window; geometry and edge records drive layout persistence during drag
// gestures and use the shorter one. Structural events (create, delete)
// bypass debouncing entirely so the manifest never references an entity
// whose file does not exist.
// See docs/ARCHITECTURE.md § Entity Persistence Store.
package workspace

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mosaicflow/mosaic/internal/paths"
)

// Default debounce windows. These are part of the observable persistence
// contract; change them only through Options.
const (
	DefaultContentDebounce  = 300 * time.Millisecond
	DefaultGeometryDebounce = 100 * time.Millisecond
)

// category is a debounced write class. Each (entity id, category) pair has
// at most one pending timer at any time.
type category int

const (
	catContent category = iota
	catProperties
	catEdge
	catManifest
)

// timerKey addresses one pending write in the registry.
type timerKey struct {
	id  string
	cat category
}

// pendingWrite couples a scheduled timer with the write closure capturing
// the entity state at schedule time. Rescheduling replaces the whole
// record, so the last scheduled state wins.
type pendingWrite struct {
	timer *time.Timer
	write func() error
}

// store owns the debounce timer registry and all file I/O for one
// workspace. The file system is treated as exclusively owned: there is no
// cross-process coordination.
type store struct {
	paths         paths.Workspace
	contentDelay  time.Duration
	geometryDelay time.Duration
	log           zerolog.Logger

	mu      sync.Mutex
	pending map[timerKey]*pendingWrite
}

func newStore(p paths.Workspace, contentDelay, geometryDelay time.Duration, log zerolog.Logger) *store {
	if contentDelay <= 0 {
		contentDelay = DefaultContentDebounce
	}
	if geometryDelay <= 0 {
		geometryDelay = DefaultGeometryDebounce
	}
	return &store{
		paths:         p,
		contentDelay:  contentDelay,
		geometryDelay: geometryDelay,
		log:           log,
		pending:       make(map[timerKey]*pendingWrite),
	}
}

// schedule coalesces a write: an existing timer for the same key is
// canceled and replaced, so N rapid edits within the window produce
// exactly one file write reflecting the last edit.
func (s *store) schedule(key timerKey, delay time.Duration, write func() error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.pending[key]; ok {
		prev.timer.Stop()
	}
	pw := &pendingWrite{write: write}
	pw.timer = time.AfterFunc(delay, func() { s.fire(key, pw) })
	s.pending[key] = pw
}

// fire executes a debounce timer's write unless it has been superseded or
// canceled since the timer was armed.
func (s *store) fire(key timerKey, pw *pendingWrite) {
	s.mu.Lock()
	if s.pending[key] != pw {
		s.mu.Unlock()
		return
	}
	delete(s.pending, key)
	s.mu.Unlock()

	if err := pw.write(); err != nil {
		// Never fatal: the in-memory state stays valid and the next
		// debounced write retries the file.
		s.log.Error().Err(err).Str("entity", key.id).Msg("debounced write failed")
	}
}

// cancel removes any pending timers for the given keys. Used by deletion,
// which must cancel before removing files so a stale debounced write can
// never resurrect a deleted entity.
func (s *store) cancel(keys ...timerKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		if pw, ok := s.pending[key]; ok {
			pw.timer.Stop()
			delete(s.pending, key)
		}
	}
}

// cancelNode drops all pending writes for a node id.
func (s *store) cancelNode(id string) {
	s.cancel(timerKey{id: id, cat: catContent}, timerKey{id: id, cat: catProperties})
}

// flushAll synchronously executes every pending write. Guarantees no edit
// is lost on teardown or workspace switch. Write order across entities is
// unspecified (independent files).
func (s *store) flushAll() error {
	s.mu.Lock()
	writes := make([]*pendingWrite, 0, len(s.pending))
	for key, pw := range s.pending {
		pw.timer.Stop()
		writes = append(writes, pw)
		delete(s.pending, key)
	}
	s.mu.Unlock()

	var errs []error
	for _, pw := range writes {
		if err := pw.write(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// pendingCount reports the number of armed timers. Used by tests.
func (s *store) pendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Debounced write paths. Payloads are serialized at schedule time so the
// closure carries an immutable snapshot.

func (s *store) scheduleNodeContent(id string, payload []byte) {
	path := s.paths.NodeContent(id)
	s.schedule(timerKey{id: id, cat: catContent}, s.contentDelay, func() error {
		return writeFileAtomic(path, payload)
	})
}

func (s *store) scheduleNodeProperties(id string, doc propertiesJSON) {
	path := s.paths.NodeProperties(id)
	s.schedule(timerKey{id: id, cat: catProperties}, s.geometryDelay, func() error {
		return writeJSONFile(path, doc)
	})
}

func (s *store) scheduleEdge(id string, rec edgeJSON) {
	path := s.paths.EdgeJoined(id)
	s.schedule(timerKey{id: id, cat: catEdge}, s.geometryDelay, func() error {
		return writeJSONFile(path, rec)
	})
}

func (s *store) scheduleManifest(doc []byte) {
	s.schedule(timerKey{cat: catManifest}, s.geometryDelay, func() error {
		return writeFileAtomic(s.paths.Manifest, doc)
	})
}

// Immediate write paths for structural events.

// writeNodeNow establishes a node's file presence: content and properties
// in one synchronous step.
func (s *store) writeNodeNow(id string, content []byte, doc propertiesJSON) error {
	if err := writeFileAtomic(s.paths.NodeContent(id), content); err != nil {
		return fmt.Errorf("writing node %s content: %w", id, err)
	}
	if err := writeJSONFile(s.paths.NodeProperties(id), doc); err != nil {
		return fmt.Errorf("writing node %s properties: %w", id, err)
	}
	return nil
}

func (s *store) writeEdgeNow(id string, rec edgeJSON) error {
	if err := writeJSONFile(s.paths.EdgeJoined(id), rec); err != nil {
		return fmt.Errorf("writing edge %s: %w", id, err)
	}
	return nil
}

func (s *store) writeManifestNow(doc []byte) error {
	if err := writeFileAtomic(s.paths.Manifest, doc); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// removeNode cancels the node's pending timers, then removes its files.
// The order closes the race where a stale debounced write recreates the
// file after deletion.
func (s *store) removeNode(id string) error {
	s.cancelNode(id)
	if err := os.RemoveAll(s.paths.NodeDir(id)); err != nil {
		return fmt.Errorf("removing node %s: %w", id, err)
	}
	return nil
}

// removeEdge cancels the edge's pending timer, then removes its files.
func (s *store) removeEdge(id string) error {
	s.cancel(timerKey{id: id, cat: catEdge})
	if err := os.RemoveAll(s.paths.EdgeDir(id)); err != nil {
		return fmt.Errorf("removing edge %s: %w", id, err)
	}
	return nil
}
