package ui

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColorToggle(t *testing.T) {
	t.Cleanup(func() { SetColorEnabled(true) })

	assert.Equal(t, "\033[31mboom\033[0m", Red("boom"))

	SetColorEnabled(false)
	assert.Equal(t, "boom", Red("boom"))
}

func TestPrintHelpers(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetColorEnabled(false)
	t.Cleanup(func() {
		SetOutput(os.Stdout)
		SetColorEnabled(true)
	})

	PrintError("Download failed", errors.New("rate limit"))
	PrintSuccess("Snapshot saved")
	PrintInfo("Snapshot dir", "data")
	PrintWarning("count mismatch")
	PrintHighlight("done")

	assert.Equal(t, "Download failed: rate limit\nSnapshot saved\nSnapshot dir: data\ncount mismatch\ndone\n", buf.String())
}
