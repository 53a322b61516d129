package storage

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"followdiff/pkg/errors"
	"followdiff/pkg/snapshot"
)

// Entry describes one snapshot file found in the snapshot directory
type Entry struct {
	Path       string
	Handle     string
	CapturedAt time.Time
}

// Manager owns the snapshot directory
type Manager struct {
	snapshotDir string
}

// NewManager creates a new storage manager, creating the directory if needed
func NewManager(snapshotDir string) (*Manager, error) {
	if err := os.MkdirAll(snapshotDir, 0755); err != nil {
		return nil, errors.WithPath(errors.ErrorTypeFilesystem, snapshotDir, err, "failed to create snapshot directory")
	}

	return &Manager{snapshotDir: snapshotDir}, nil
}

// Save writes a snapshot into the managed directory and returns its path
func (m *Manager) Save(snap *snapshot.Snapshot) (string, error) {
	return snapshot.Write(m.snapshotDir, snap)
}

// List returns the snapshots of handle ordered from oldest to newest. An
// empty handle lists every snapshot. A single leading "@" is ignored.
func (m *Manager) List(handle string) ([]Entry, error) {
	handle = strings.TrimPrefix(handle, "@")

	dirEntries, err := os.ReadDir(m.snapshotDir)
	if err != nil {
		return nil, errors.WithPath(errors.ErrorTypeFilesystem, m.snapshotDir, err, "failed to read snapshot directory")
	}

	var entries []Entry
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		h, at, ok := snapshot.ParseFileName(de.Name())
		if !ok || (handle != "" && h != handle) {
			continue
		}
		entries = append(entries, Entry{
			Path:       filepath.Join(m.snapshotDir, de.Name()),
			Handle:     h,
			CapturedAt: at,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].CapturedAt.Equal(entries[j].CapturedAt) {
			return entries[i].CapturedAt.Before(entries[j].CapturedAt)
		}
		return entries[i].Path < entries[j].Path
	})

	return entries, nil
}

// Latest returns the n most recent snapshots of handle, oldest first. It
// fails with a not-found error if fewer than n exist.
func (m *Manager) Latest(handle string, n int) ([]Entry, error) {
	entries, err := m.List(handle)
	if err != nil {
		return nil, err
	}
	if len(entries) < n {
		return nil, errors.Newf(errors.ErrorTypeNotFound,
			"need %d snapshots of @%s in %s, found %d", n, strings.TrimPrefix(handle, "@"), m.snapshotDir, len(entries))
	}
	return entries[len(entries)-n:], nil
}

// Dir returns the snapshot directory path
func (m *Manager) Dir() string {
	return m.snapshotDir
}

