package snapshot

import (
	"encoding/xml"
	stderrors "errors"
	"fmt"
	"os"

	"followdiff/pkg/errors"
)

// Block names as they appear in the document
const (
	BlockFollowers = "followers"
	BlockFollowing = "following"
)

// MissingBlockError reports a snapshot document without one of its blocks
type MissingBlockError struct {
	Path  string
	Block string
}

func (e *MissingBlockError) Error() string {
	return fmt.Sprintf("snapshot %s has no <%s> block", e.Path, e.Block)
}

// Entry is one <user> element of a block, with the screen name as stored
type Entry struct {
	ScreenName string
	ID         int64
}

// Block is a loaded followers or following block
type Block struct {
	Name     string
	Declared int
	Entries  []Entry
}

// ScreenNames returns the stored screen names in document order
func (b Block) ScreenNames() []string {
	names := make([]string, len(b.Entries))
	for i, e := range b.Entries {
		names[i] = e.ScreenName
	}
	return names
}

// Document is a snapshot file as read back from disk. Screen names keep their
// stored form, including the leading "@".
type Document struct {
	Path       string
	ScreenName string
	ID         int64
	Followers  Block
	Following  Block
}

// CheckCounts reports blocks whose count attribute differs from the number of
// entries. Files edited by hand may disagree; readers treat this as a warning.
func (d *Document) CheckCounts() error {
	var errs []error
	for _, b := range []Block{d.Followers, d.Following} {
		if b.Declared != len(b.Entries) {
			errs = append(errs, fmt.Errorf("<%s> declares count=%d but holds %d entries", b.Name, b.Declared, len(b.Entries)))
		}
	}
	return stderrors.Join(errs...)
}

// Load reads and validates a snapshot file
func Load(path string) (*Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.WithPath(errors.ErrorTypeFilesystem, path, err, "failed to open snapshot")
	}
	defer file.Close()

	var raw xmlDocument
	if err := xml.NewDecoder(file).Decode(&raw); err != nil {
		return nil, errors.WithPath(errors.ErrorTypeParsing, path, err, "malformed snapshot")
	}

	doc := &Document{
		Path:       path,
		ScreenName: raw.ScreenName,
		ID:         raw.ID,
	}

	if doc.Followers, err = loadBlock(path, BlockFollowers, raw.Followers); err != nil {
		return nil, err
	}
	if doc.Following, err = loadBlock(path, BlockFollowing, raw.Following); err != nil {
		return nil, err
	}

	return doc, nil
}

func loadBlock(path, name string, raw *xmlBlock) (Block, error) {
	if raw == nil {
		return Block{}, errors.Wrap(errors.ErrorTypeStructural, &MissingBlockError{Path: path, Block: name}, "invalid snapshot")
	}

	block := Block{
		Name:     name,
		Declared: raw.Count,
		Entries:  make([]Entry, 0, len(raw.Users)),
	}
	for i, u := range raw.Users {
		if u.ScreenName == nil {
			return Block{}, errors.WithPath(errors.ErrorTypeStructural, path, nil,
				fmt.Sprintf("entry %d of <%s> has no <screen_name>", i+1, name))
		}
		block.Entries = append(block.Entries, Entry{ScreenName: *u.ScreenName, ID: u.ID})
	}
	return block, nil
}
