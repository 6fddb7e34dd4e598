package history

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	linehistory "github.com/robottwo/bishline/pkg/history"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndRecent(t *testing.T) {
	store := openStore(t)
	assert.Len(t, store.SessionID(), 36)

	for _, line := range []string{"ls", "cd /tmp", "make test"} {
		entry, err := store.Record(line)
		require.NoError(t, err)
		assert.Equal(t, store.SessionID(), entry.SessionID)
		assert.NotZero(t, entry.ID)
	}

	entries, err := store.Recent(2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "cd /tmp", entries[0].Line, "oldest first")
	assert.Equal(t, "make test", entries[1].Line)
}

func TestSessionsShareTheDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	first, err := Open(path)
	require.NoError(t, err)
	_, err = first.Record("echo one")
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(path)
	require.NoError(t, err)
	defer second.Close()
	assert.NotEqual(t, first.SessionID(), second.SessionID())

	entries, err := second.Recent(10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "echo one", entries[0].Line)
	assert.Equal(t, first.SessionID(), entries[0].SessionID)
}

func TestRecentByPrefix(t *testing.T) {
	store := openStore(t)
	for _, line := range []string{"git status", "go test", "git log", "100% done", "1000 files"} {
		_, err := store.Record(line)
		require.NoError(t, err)
	}

	entries, err := store.RecentByPrefix("git", 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "git log", entries[0].Line, "newest first")

	entries, err = store.RecentByPrefix("100%", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1, "% is matched literally")
	assert.Equal(t, "100% done", entries[0].Line)
}

func TestDeleteAndReset(t *testing.T) {
	store := openStore(t)
	entry, err := store.Record("oops")
	require.NoError(t, err)
	_, err = store.Record("keep")
	require.NoError(t, err)

	require.NoError(t, store.Delete(entry.ID))
	assert.Error(t, store.Delete(entry.ID))

	entries, err := store.Recent(10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "keep", entries[0].Line)

	require.NoError(t, store.Reset())
	entries, err = store.Recent(10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLoadInto(t *testing.T) {
	store := openStore(t)
	for _, line := range []string{"a", "b", "c"} {
		_, err := store.Record(line)
		require.NoError(t, err)
	}

	h := linehistory.NewMemory()
	n, err := store.LoadInto(h, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, h.Len())
	assert.Equal(t, "b", h.Get(0))
	assert.Equal(t, "c", h.Get(1))
	assert.Equal(t, 2, h.Index(), "the cursor is past the newest entry")
}
