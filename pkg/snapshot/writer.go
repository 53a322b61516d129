package snapshot

import (
	"encoding/xml"
	"io"
	"os"
	"path/filepath"

	"followdiff/pkg/errors"
)

// xmlDocument mirrors the on-disk layout. Blocks are pointers so a missing
// block can be told apart from an empty one.
type xmlDocument struct {
	XMLName    xml.Name  `xml:"user"`
	ScreenName string    `xml:"screen_name"`
	ID         int64     `xml:"id"`
	Followers  *xmlBlock `xml:"followers"`
	Following  *xmlBlock `xml:"following"`
}

type xmlBlock struct {
	Count int       `xml:"count,attr"`
	Users []xmlUser `xml:"user"`
}

type xmlUser struct {
	ScreenName *string `xml:"screen_name"`
	ID         int64   `xml:"id"`
}

func newXMLBlock(members []Member) *xmlBlock {
	block := &xmlBlock{
		Count: len(members),
		Users: make([]xmlUser, len(members)),
	}
	for i, m := range members {
		name := ScreenName(m.Handle)
		block.Users[i] = xmlUser{ScreenName: &name, ID: m.ID}
	}
	return block
}

// Encode writes the XML document for s to w
func Encode(w io.Writer, s *Snapshot) error {
	doc := xmlDocument{
		ScreenName: ScreenName(s.Subject.Handle),
		ID:         s.Subject.ID,
		Followers:  newXMLBlock(s.Followers),
		Following:  newXMLBlock(s.Following),
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "    ")
	if err := enc.Encode(doc); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// Write serialises s into dir and returns the path of the new file. The file
// is written to a temporary sibling and renamed into place, so a failed write
// leaves nothing behind. An existing file with the same name is replaced.
func Write(dir string, s *Snapshot) (string, error) {
	if s == nil || s.Subject.Handle == "" {
		return "", errors.New(errors.ErrorTypeValidation, "snapshot subject handle is empty")
	}

	info, err := os.Stat(dir)
	if err != nil {
		return "", errors.WithPath(errors.ErrorTypeFilesystem, dir, err, "snapshot directory is not accessible")
	}
	if !info.IsDir() {
		return "", errors.WithPath(errors.ErrorTypeFilesystem, dir, nil, "snapshot destination is not a directory")
	}

	path := filepath.Join(dir, s.FileName())
	tempPath := path + ".tmp"

	file, err := os.Create(tempPath)
	if err != nil {
		return "", errors.WithPath(errors.ErrorTypeFilesystem, tempPath, err, "failed to create snapshot file")
	}

	if err := Encode(file, s); err != nil {
		file.Close()
		os.Remove(tempPath)
		return "", errors.WithPath(errors.ErrorTypeFilesystem, tempPath, err, "failed to encode snapshot")
	}

	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tempPath)
		return "", errors.WithPath(errors.ErrorTypeFilesystem, tempPath, err, "failed to sync snapshot file")
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return "", errors.WithPath(errors.ErrorTypeFilesystem, tempPath, err, "failed to close snapshot file")
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return "", errors.WithPath(errors.ErrorTypeFilesystem, path, err, "failed to move snapshot into place")
	}

	return path, nil
}
