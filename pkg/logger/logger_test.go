package logger

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"followdiff/pkg/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.LoggingConfig
		wantErr bool
	}{
		{name: "info level", cfg: &config.LoggingConfig{Level: "info"}},
		{name: "disabled", cfg: &config.LoggingConfig{Level: "disabled"}},
		{name: "invalid level", cfg: &config.LoggingConfig{Level: "loud"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, l)
		})
	}
}

func TestNewWithRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "followdiff.log")
	l, err := New(&config.LoggingConfig{Level: "info", File: path, MaxSize: 1, MaxBackups: 1})
	require.NoError(t, err)

	l.WithField("handle", "alice").Info("file output")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"handle":"alice"`)
	assert.Contains(t, string(data), "file output")
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected zerolog.Level
		wantErr  bool
	}{
		{"debug", zerolog.DebugLevel, false},
		{"INFO", zerolog.InfoLevel, false},
		{"warning", zerolog.WarnLevel, false},
		{"error", zerolog.ErrorLevel, false},
		{"disabled", zerolog.Disabled, false},
		{"fatal", zerolog.InfoLevel, true},
		{"", zerolog.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			level, err := parseLogLevel(tt.level)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, level)
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, zerolog.WarnLevel)

	l.Info("hidden")
	l.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestFieldChaining(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, zerolog.DebugLevel)

	l.WithField("field1", "value1").
		WithFields(map[string]interface{}{"field2": 2, "field3": true}).
		InfoWithFields("chained fields", map[string]interface{}{"field4": time.Second})

	out := buf.String()
	assert.Contains(t, out, "chained fields")
	assert.Contains(t, out, `"field1":"value1"`)
	assert.Contains(t, out, `"field2":2`)
	assert.Contains(t, out, `"field3":true`)
	assert.Contains(t, out, `"app":"followdiff"`)
}

func TestChildDoesNotLeakFields(t *testing.T) {
	var buf bytes.Buffer
	parent := NewWithWriter(&buf, zerolog.DebugLevel)

	_ = parent.WithField("child", "only")
	parent.Info("parent message")

	assert.NotContains(t, buf.String(), "child")
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, zerolog.DebugLevel)

	assert.Same(t, l, l.WithError(nil))

	l.WithError(errors.New("boom")).Error("failed")
	assert.Contains(t, buf.String(), `"error":"boom"`)
}

func TestLogRequestLevels(t *testing.T) {
	tl := NewTestLogger()

	LogRequest(tl, "GET", "/followers/list.json", 200, time.Millisecond)
	LogRequest(tl, "GET", "/users/show.json", 404, time.Millisecond)
	LogRequest(tl, "GET", "/friends/list.json", 503, time.Millisecond)

	msgs := tl.GetMessages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "DEBUG", msgs[0].Level)
	assert.Equal(t, "WARN", msgs[1].Level)
	assert.Equal(t, "ERROR", msgs[2].Level)
	assert.Equal(t, "/users/show.json", msgs[1].Fields["endpoint"])
}

func TestTestLoggerCapturesContext(t *testing.T) {
	tl := NewTestLogger()
	err := errors.New("denied")

	tl.WithField("handle", "bob").WithError(err).Warn("lookup failed")

	warns := tl.GetMessagesByLevel("WARN")
	require.Len(t, warns, 1)
	assert.Equal(t, "bob", warns[0].Fields["handle"])
	assert.Equal(t, err, warns[0].Error)
	assert.True(t, tl.HasMessage("lookup failed"))
	assert.False(t, tl.HasError())

	tl.Clear()
	assert.Empty(t, tl.GetMessages())
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	l.WithField("k", "v").WithError(errors.New("x")).Error("ignored")
	assert.NotNil(t, l.GetZerolog())
}
