package menu

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"followdiff/pkg/diff"
	"followdiff/pkg/errors"
	"followdiff/pkg/logger"
	"followdiff/pkg/snapshot"
)

type recordingDownloader struct {
	inputs []string
	path   string
	err    error
}

func (r *recordingDownloader) Download(ctx context.Context, input string) (string, error) {
	r.inputs = append(r.inputs, input)
	return r.path, r.err
}

func run(t *testing.T, script string, d Downloader, opts ...Option) (string, *Menu) {
	t.Helper()
	var out bytes.Buffer
	m := New(strings.NewReader(script), &out, d, logger.NewTestLogger(), opts...)
	require.NoError(t, m.Run(context.Background()))
	assert.Equal(t, Exit, m.State())
	return out.String(), m
}

func writeSnapshot(t *testing.T, dir string, second int, followers ...string) string {
	t.Helper()
	var members []snapshot.Member
	for i, h := range followers {
		members = append(members, snapshot.Member{Handle: h, ID: int64(i)})
	}
	at := time.Date(2024, time.July, 1, 10, 0, second, 0, time.Local)
	path, err := snapshot.Write(dir, snapshot.New(snapshot.Member{Handle: "me", ID: 1}, members, nil, at))
	require.NoError(t, err)
	return path
}

func TestExitOption(t *testing.T) {
	out, _ := run(t, "3\n", &recordingDownloader{})

	assert.True(t, strings.HasPrefix(out, "SELECT AN OPTION:\n  [1] Download the last contacts for\n  [2] Compare 2 .xml files\n  [3] Exit\nOption: "))
	assert.Equal(t, 1, strings.Count(out, "SELECT AN OPTION:"))
}

func TestEOFExits(t *testing.T) {
	out, _ := run(t, "", &recordingDownloader{})
	assert.Equal(t, 1, strings.Count(out, "Option: "))
}

func TestMalformedInputReturnsToMainMenu(t *testing.T) {
	out, _ := run(t, "abc\n7\n 3 \n", &recordingDownloader{})

	assert.Contains(t, out, "\nIncorrect format.\n")
	assert.Contains(t, out, "\nIncorrect option.\n")
	assert.Equal(t, 3, strings.Count(out, "SELECT AN OPTION:"))
	assert.Equal(t, 3, strings.Count(out, separator))
}

func TestDownloadPassesRawInput(t *testing.T) {
	d := &recordingDownloader{path: "data/alice__1_1_2024__0_0_0.xml"}
	out, _ := run(t, "1\n@alice\n3\n", d)

	assert.Equal(t, []string{"@alice"}, d.inputs)
	assert.Contains(t, out, "Enter username (or ENTER to exit): ")
	assert.Contains(t, out, "Snapshot saved to data/alice__1_1_2024__0_0_0.xml")
}

func TestDownloadKeepsWhitespace(t *testing.T) {
	d := &recordingDownloader{path: "x"}
	run(t, "1\n alice\r\n3\n", d)
	assert.Equal(t, []string{" alice"}, d.inputs)
}

func TestDownloadSkipsEmptyHandle(t *testing.T) {
	d := &recordingDownloader{}
	out, _ := run(t, "1\n\n1\n@\n3\n", d)

	assert.Empty(t, d.inputs)
	assert.Equal(t, 3, strings.Count(out, "SELECT AN OPTION:"))
}

func TestDownloadErrorReturnsToMenu(t *testing.T) {
	d := &recordingDownloader{err: errors.New(errors.ErrorTypeRateLimit, "Rate limit exceeded")}
	out, _ := run(t, "1\nalice\n3\n", d)

	assert.Contains(t, out, "Download failed: rate_limit error: Rate limit exceeded")
	assert.Contains(t, out, "try again later")
	assert.Equal(t, 2, strings.Count(out, "SELECT AN OPTION:"))
}

func TestCompareFilesNotFound(t *testing.T) {
	dir := t.TempDir()
	existing := writeSnapshot(t, dir, 1, "a")
	called := false
	comparer := func(oldPath, newPath string) (*diff.Result, error) {
		called = true
		return nil, nil
	}

	out, _ := run(t, "2\n"+existing+"\n"+filepath.Join(dir, "missing.xml")+"\n2\n"+dir+"\n"+existing+"\n3\n",
		&recordingDownloader{}, WithComparer(comparer))

	assert.False(t, called)
	assert.Equal(t, 2, strings.Count(out, "\nFiles not found.\n"))
}

func TestCompareRendersReport(t *testing.T) {
	dir := t.TempDir()
	oldPath := writeSnapshot(t, dir, 1, "alice", "bob")
	newPath := writeSnapshot(t, dir, 2, "alice", "erin")

	out, _ := run(t, "2\n"+oldPath+"\n"+newPath+"\n3\n", &recordingDownloader{})

	assert.Contains(t, out, "********* UNFOLLOWS *********\n*****************************\n@bob\n")
	assert.Contains(t, out, "******* NEW FOLLOWERS *******\n*****************************\n@erin\n")
}

func TestCompareStructuralErrorReturnsToMenu(t *testing.T) {
	dir := t.TempDir()
	good := writeSnapshot(t, dir, 1, "alice")
	bad := filepath.Join(dir, "bad.xml")
	require.NoError(t, os.WriteFile(bad, []byte(`<user><followers count="0"></followers></user>`), 0644))

	out, _ := run(t, "2\n"+good+"\n"+bad+"\n3\n", &recordingDownloader{})

	assert.Contains(t, out, "Comparison failed")
	assert.Contains(t, out, "<following>")
	assert.NotContains(t, out, "UNFOLLOWS")
}

func TestEOFDuringPromptExits(t *testing.T) {
	out, m := run(t, "2\nonly-old.xml\n", &recordingDownloader{})
	assert.Equal(t, Exit, m.State())
	assert.Contains(t, out, "Enter the path of the new .xml file: ")
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := New(strings.NewReader("3\n"), &bytes.Buffer{}, &recordingDownloader{}, nil)
	assert.ErrorIs(t, m.Run(ctx), context.Canceled)
	assert.Equal(t, MainMenu, m.State())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "main_menu", MainMenu.String())
	assert.Equal(t, "exit", Exit.String())
	assert.Equal(t, "state(9)", State(9).String())
}
