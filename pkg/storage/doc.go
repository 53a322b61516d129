// Package storage manages the directory that holds snapshot files.
//
// The Manager creates the directory on construction, saves snapshots into it
// through the atomic snapshot writer, and lists existing snapshots of a
// handle by the capture time encoded in their file names.
//
// Usage:
//
//	manager, err := storage.NewManager("data")
//	if err != nil {
//	    return err
//	}
//	latest, err := manager.Latest("alice", 2)
//	if err != nil {
//	    return err
//	}
//	result, err := diff.Compare(latest[0].Path, latest[1].Path)
package storage
