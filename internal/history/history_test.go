package history

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestTrackAndRecent(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Track("/vault/alpha", "Alpha"))
	require.NoError(t, s.Track("/vault/beta", "Beta"))

	entries, err := s.Recent(10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	paths := []string{entries[0].Path, entries[1].Path}
	assert.Contains(t, paths, "/vault/alpha")
	assert.Contains(t, paths, "/vault/beta")
	for _, e := range entries {
		assert.Equal(t, 1, e.OpenCount)
		assert.NotEmpty(t, e.LastOpenedAt)
	}
}

func TestTrackBumpsOpenCount(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Track("/vault/alpha", "Alpha"))
	require.NoError(t, s.Track("/vault/alpha", "Alpha Renamed"))
	require.NoError(t, s.Track("/vault/alpha", "Alpha Renamed"))

	entries, err := s.Recent(0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 3, entries[0].OpenCount)
	assert.Equal(t, "Alpha Renamed", entries[0].Name)
}

func TestRecentLimit(t *testing.T) {
	s := newTestStore(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Track(fmt.Sprintf("/vault/ws-%d", i), "ws"))
	}

	entries, err := s.Recent(3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestRemove(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Track("/vault/alpha", "Alpha"))
	require.NoError(t, s.Remove("/vault/alpha"))
	require.NoError(t, s.Remove("/vault/never-tracked"))

	entries, err := s.Recent(0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestOpenIsReentrant(t *testing.T) {
	dir := t.TempDir()

	s1, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s1.Track("/vault/alpha", "Alpha"))
	require.NoError(t, s1.Close())
	require.NoError(t, s1.Close()) // idempotent

	s2, err := Open(dir)
	require.NoError(t, err)
	defer s2.Close()

	entries, err := s2.Recent(0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "/vault/alpha", entries[0].Path)
}
