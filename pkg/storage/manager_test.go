package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"followdiff/pkg/errors"
	"followdiff/pkg/snapshot"
)

func snapAt(handle string, at time.Time) *snapshot.Snapshot {
	return snapshot.New(snapshot.Member{Handle: handle, ID: 1}, nil, nil, at)
}

func TestNewManagerCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")

	manager, err := NewManager(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, manager.Dir())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNewManagerFailsOnFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	_, err := NewManager(filepath.Join(file, "sub"))
	assert.True(t, errors.IsType(err, errors.ErrorTypeFilesystem))
}

func TestSaveAndList(t *testing.T) {
	manager, err := NewManager(t.TempDir())
	require.NoError(t, err)

	base := time.Date(2024, time.January, 10, 8, 0, 0, 0, time.Local)
	// Saved out of order on purpose; List sorts by capture time
	for _, offset := range []time.Duration{2 * time.Hour, 0, 26 * time.Hour} {
		_, err := manager.Save(snapAt("alice", base.Add(offset)))
		require.NoError(t, err)
	}
	_, err = manager.Save(snapAt("bob", base))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(manager.Dir(), "notes.txt"), []byte("x"), 0644))

	entries, err := manager.List("alice")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.True(t, entries[0].CapturedAt.Equal(base))
	assert.True(t, entries[1].CapturedAt.Equal(base.Add(2*time.Hour)))
	assert.True(t, entries[2].CapturedAt.Equal(base.Add(26*time.Hour)))
	for _, e := range entries {
		assert.Equal(t, "alice", e.Handle)
	}

	withAt, err := manager.List("@alice")
	require.NoError(t, err)
	assert.Equal(t, entries, withAt)

	all, err := manager.List("")
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestLatest(t *testing.T) {
	manager, err := NewManager(t.TempDir())
	require.NoError(t, err)

	base := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.Local)
	for i := 0; i < 3; i++ {
		_, err := manager.Save(snapAt("alice", base.Add(time.Duration(i)*time.Minute)))
		require.NoError(t, err)
	}

	latest, err := manager.Latest("alice", 2)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.True(t, latest[0].CapturedAt.Equal(base.Add(time.Minute)))
	assert.True(t, latest[1].CapturedAt.Equal(base.Add(2*time.Minute)))

	_, err = manager.Latest("bob", 2)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeNotFound))
	assert.Contains(t, err.Error(), "found 0")
}
