package snapshot

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Extension is the file extension of every snapshot file
const Extension = ".xml"

// Member is one account as captured from the provider
type Member struct {
	Handle string
	ID     int64
}

// Snapshot is a point-in-time capture of a subject's followers and following.
// Member order is the order the provider returned them in.
type Snapshot struct {
	Subject    Member
	CapturedAt time.Time
	Followers  []Member
	Following  []Member
}

// New builds a snapshot. The member slices are copied so later changes by the
// caller do not leak into the capture.
func New(subject Member, followers, following []Member, capturedAt time.Time) *Snapshot {
	return &Snapshot{
		Subject:    subject,
		CapturedAt: capturedAt,
		Followers:  append([]Member(nil), followers...),
		Following:  append([]Member(nil), following...),
	}
}

// FileName returns the snapshot's base file name
func (s *Snapshot) FileName() string {
	return FileName(s.Subject.Handle, s.CapturedAt)
}

// ScreenName returns the value stored in a <screen_name> element for handle
func ScreenName(handle string) string {
	return "@" + handle
}

// FileName builds `<handle>__<d>_<m>_<y>__<H>_<M>_<S>.xml` with unpadded numbers
func FileName(handle string, t time.Time) string {
	return fmt.Sprintf("%s__%d_%d_%d__%d_%d_%d%s",
		handle,
		t.Day(), int(t.Month()), t.Year(),
		t.Hour(), t.Minute(), t.Second(),
		Extension,
	)
}

var fileNamePattern = regexp.MustCompile(`^(.+)__(\d{1,2})_(\d{1,2})_(\d{4})__(\d{1,2})_(\d{1,2})_(\d{1,2})\.xml$`)

// ParseFileName extracts the handle and capture time from a snapshot file
// name. The time is interpreted in the local zone, which is the zone the
// writer formats in.
func ParseFileName(name string) (handle string, capturedAt time.Time, ok bool) {
	m := fileNamePattern.FindStringSubmatch(name)
	if m == nil {
		return "", time.Time{}, false
	}

	n := make([]int, 6)
	for i := range n {
		v, err := strconv.Atoi(m[i+2])
		if err != nil {
			return "", time.Time{}, false
		}
		n[i] = v
	}
	day, month, year, hour, minute, second := n[0], n[1], n[2], n[3], n[4], n[5]
	if month < 1 || month > 12 || day < 1 || day > 31 || hour > 23 || minute > 59 || second > 59 {
		return "", time.Time{}, false
	}

	return m[1], time.Date(year, time.Month(month), day, hour, minute, second, 0, time.Local), true
}
