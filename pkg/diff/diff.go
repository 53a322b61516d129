// Package diff compares two snapshots of the same account and reports which
// followers and followings were gained or lost between them.
package diff

import (
	"fmt"

	"followdiff/pkg/snapshot"
)

// Result holds the four membership changes between an old and a new snapshot
type Result struct {
	OldPath string
	NewPath string

	Unfollows    HandleSet // followers in old, not in new
	NewFollowers HandleSet // followers in new, not in old
	Unfollowing  HandleSet // following in old, not in new
	NewFollowing HandleSet // following in new, not in old

	// Warnings lists count attributes that disagree with the entries found
	Warnings []string
}

// Empty reports whether nothing changed
func (r *Result) Empty() bool {
	return r.Unfollows.Len() == 0 && r.NewFollowers.Len() == 0 &&
		r.Unfollowing.Len() == 0 && r.NewFollowing.Len() == 0
}

// Compare loads two snapshot files and diffs them. If either file cannot be
// loaded the error names that file and no result is returned.
func Compare(oldPath, newPath string) (*Result, error) {
	oldDoc, err := snapshot.Load(oldPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load old snapshot: %w", err)
	}
	newDoc, err := snapshot.Load(newPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load new snapshot: %w", err)
	}

	return CompareDocuments(oldDoc, newDoc), nil
}

// CompareDocuments diffs two loaded snapshot documents
func CompareDocuments(oldDoc, newDoc *snapshot.Document) *Result {
	r := compareSets(
		NewHandleSet(oldDoc.Followers.ScreenNames()...),
		NewHandleSet(oldDoc.Following.ScreenNames()...),
		NewHandleSet(newDoc.Followers.ScreenNames()...),
		NewHandleSet(newDoc.Following.ScreenNames()...),
	)
	r.OldPath = oldDoc.Path
	r.NewPath = newDoc.Path
	for _, doc := range []*snapshot.Document{oldDoc, newDoc} {
		if err := doc.CheckCounts(); err != nil {
			r.Warnings = append(r.Warnings, fmt.Sprintf("%s: %v", doc.Path, err))
		}
	}
	return r
}

// CompareSnapshots diffs two in-memory snapshots using the screen names they
// would be stored under
func CompareSnapshots(oldSnap, newSnap *snapshot.Snapshot) *Result {
	return compareSets(
		memberSet(oldSnap.Followers),
		memberSet(oldSnap.Following),
		memberSet(newSnap.Followers),
		memberSet(newSnap.Following),
	)
}

func memberSet(members []snapshot.Member) HandleSet {
	s := make(HandleSet, len(members))
	for _, m := range members {
		s.Add(snapshot.ScreenName(m.Handle))
	}
	return s
}

func compareSets(oldFollowers, oldFollowing, newFollowers, newFollowing HandleSet) *Result {
	return &Result{
		Unfollows:    oldFollowers.Difference(newFollowers),
		NewFollowers: newFollowers.Difference(oldFollowers),
		Unfollowing:  oldFollowing.Difference(newFollowing),
		NewFollowing: newFollowing.Difference(oldFollowing),
	}
}
