package snapshot

import (
	"bytes"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"followdiff/pkg/errors"
)

var captured = time.Date(2024, time.March, 5, 9, 7, 1, 0, time.Local)

func members(handles ...string) []Member {
	out := make([]Member, len(handles))
	for i, h := range handles {
		out[i] = Member{Handle: h, ID: int64(100 + i)}
	}
	return out
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "bob__5_3_2024__9_7_1.xml", FileName("bob", captured))

	late := time.Date(2023, time.December, 31, 23, 59, 58, 0, time.Local)
	assert.Equal(t, "alice__31_12_2023__23_59_58.xml", FileName("alice", late))
}

func TestParseFileName(t *testing.T) {
	handle, at, ok := ParseFileName("bob__5_3_2024__9_7_1.xml")
	require.True(t, ok)
	assert.Equal(t, "bob", handle)
	assert.True(t, at.Equal(captured))

	handle, _, ok = ParseFileName("some__user__1_1_2020__0_0_0.xml")
	require.True(t, ok)
	assert.Equal(t, "some__user", handle)

	for _, name := range []string{"bob.xml", "bob__5_13_2024__9_7_1.xml", "bob__5_3_2024__9_7_1.xml.tmp", "notes.txt"} {
		_, _, ok := ParseFileName(name)
		assert.False(t, ok, name)
	}
}

func TestWriteLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	snap := New(Member{Handle: "alice", ID: 1}, members("bob", "carol", "dan"), members("erin"), captured)

	path, err := Write(dir, snap)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "alice__5_3_2024__9_7_1.xml"), path)

	doc, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "@alice", doc.ScreenName)
	assert.Equal(t, int64(1), doc.ID)
	assert.Equal(t, []string{"@bob", "@carol", "@dan"}, doc.Followers.ScreenNames())
	assert.Equal(t, []string{"@erin"}, doc.Following.ScreenNames())
	assert.Equal(t, 3, doc.Followers.Declared)
	assert.Equal(t, 1, doc.Following.Declared)
	assert.Equal(t, int64(101), doc.Followers.Entries[1].ID)
	assert.NoError(t, doc.CheckCounts())
}

func TestWriteEmptyBlocks(t *testing.T) {
	path, err := Write(t.TempDir(), New(Member{Handle: "loner", ID: 9}, nil, nil, captured))
	require.NoError(t, err)

	doc, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, doc.Followers.Entries)
	assert.Empty(t, doc.Following.Entries)
	assert.Equal(t, 0, doc.Followers.Declared)
}

func TestEncodeLayout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, New(Member{Handle: "alice", ID: 1}, members("bob"), nil, captured)))

	out := buf.String()
	assert.True(t, len(out) > 0 && out[len(out)-1] == '\n')
	assert.Contains(t, out, `<?xml version="1.0" encoding="UTF-8"?>`)
	assert.Contains(t, out, "\n    <screen_name>@alice</screen_name>\n")
	assert.Contains(t, out, `<followers count="1">`)
	assert.Contains(t, out, "\n            <screen_name>@bob</screen_name>\n")
	assert.Contains(t, out, `<following count="0">`)
}

func TestWriteEscapesText(t *testing.T) {
	path, err := Write(t.TempDir(), New(Member{Handle: "alice", ID: 1}, members("a<b&c"), nil, captured))
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "@a&lt;b&amp;c")

	doc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"@a<b&c"}, doc.Followers.ScreenNames())
}

func TestWriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	_, err := Write(dir, New(Member{Handle: "alice", ID: 1}, members("bob"), nil, captured))
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ".xml", filepath.Ext(entries[0].Name()))
}

func TestWriteSameSecondOverwrites(t *testing.T) {
	dir := t.TempDir()
	first, err := Write(dir, New(Member{Handle: "alice", ID: 1}, members("bob"), nil, captured))
	require.NoError(t, err)
	second, err := Write(dir, New(Member{Handle: "alice", ID: 1}, members("carol"), nil, captured))
	require.NoError(t, err)
	assert.Equal(t, first, second)

	doc, err := Load(second)
	require.NoError(t, err)
	assert.Equal(t, []string{"@carol"}, doc.Followers.ScreenNames())
}

func TestWriteErrors(t *testing.T) {
	_, err := Write(t.TempDir(), New(Member{}, nil, nil, captured))
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))

	missing := filepath.Join(t.TempDir(), "nope")
	_, err = Write(missing, New(Member{Handle: "alice"}, nil, nil, captured))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeFilesystem))
	assert.Contains(t, err.Error(), missing)
	_, statErr := os.Stat(missing)
	assert.True(t, os.IsNotExist(statErr))

	file := writeFile(t, "plain", "x")
	_, err = Write(file, New(Member{Handle: "alice"}, nil, nil, captured))
	assert.True(t, errors.IsType(err, errors.ErrorTypeFilesystem))
}

func TestNewCopiesMembers(t *testing.T) {
	followers := members("bob")
	snap := New(Member{Handle: "alice"}, followers, nil, captured)
	followers[0].Handle = "mallory"
	assert.Equal(t, "bob", snap.Followers[0].Handle)
}

func TestLoadMissingBlock(t *testing.T) {
	path := writeFile(t, "old.xml", `<?xml version="1.0" encoding="UTF-8"?>
<user>
    <screen_name>@alice</screen_name>
    <id>1</id>
    <followers count="0"></followers>
</user>
`)

	doc, err := Load(path)
	require.Error(t, err)
	assert.Nil(t, doc)
	assert.True(t, errors.IsType(err, errors.ErrorTypeStructural))

	var missing *MissingBlockError
	require.True(t, stderrors.As(err, &missing))
	assert.Equal(t, path, missing.Path)
	assert.Equal(t, BlockFollowing, missing.Block)
	assert.Contains(t, err.Error(), "<following>")
}

func TestLoadEntryWithoutScreenName(t *testing.T) {
	path := writeFile(t, "bad.xml", `<user><screen_name>@a</screen_name><id>1</id>
<followers count="1"><user><id>2</id></user></followers>
<following count="0"></following></user>`)

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeStructural))
	assert.Contains(t, err.Error(), "entry 1 of <followers>")
}

func TestLoadMalformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"truncated", `<user><screen_name>@a</screen_name><followers count="1">`},
		{"wrong root", `<account><followers/><following/></account>`},
		{"empty", ``},
		{"non numeric id", `<user><id>abc</id><followers/><following/></user>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "x.xml", tt.content)
			_, err := Load(path)
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeParsing))
			assert.Contains(t, err.Error(), path)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "gone.xml"))
	assert.True(t, errors.IsType(err, errors.ErrorTypeFilesystem))
	assert.True(t, stderrors.Is(err, os.ErrNotExist))
}

func TestCheckCounts(t *testing.T) {
	path := writeFile(t, "edited.xml", `<user><screen_name>@a</screen_name><id>1</id>
<followers count="3"><user><screen_name>@b</screen_name><id>2</id></user></followers>
<following count="0"></following></user>`)

	doc, err := Load(path)
	require.NoError(t, err)
	err = doc.CheckCounts()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "<followers> declares count=3 but holds 1 entries")
}
