package logger

import (
	"time"

	"github.com/rs/zerolog"
)

// LogRequest logs one finished API request at a level matching its status
func LogRequest(l Logger, method, endpoint string, statusCode int, duration time.Duration) {
	fields := map[string]interface{}{
		"method":      method,
		"endpoint":    endpoint,
		"status_code": statusCode,
		"duration":    duration,
	}

	switch {
	case statusCode >= 500:
		l.ErrorWithFields("API request server error", fields)
	case statusCode >= 400:
		l.WarnWithFields("API request client error", fields)
	default:
		l.DebugWithFields("API request completed", fields)
	}
}

// LogRateLimit logs a rate limit rejection from the API
func LogRateLimit(l Logger, endpoint string, reset time.Time) {
	fields := map[string]interface{}{
		"endpoint": endpoint,
		"action":   "rate_limited",
	}
	if !reset.IsZero() {
		fields["reset_at"] = reset.Format(time.RFC3339)
	}
	l.WarnWithFields("Rate limit reached", fields)
}

// LogSnapshot logs a completed snapshot write
func LogSnapshot(l Logger, handle, path string, followers, following int) {
	l.InfoWithFields("Snapshot written", map[string]interface{}{
		"handle":    handle,
		"path":      path,
		"followers": followers,
		"following": following,
	})
}

// NewNopLogger creates a no-operation logger
func NewNopLogger() Logger {
	return &nopLogger{}
}

type nopLogger struct{}

func (n *nopLogger) Debug(msg string)                                          {}
func (n *nopLogger) Info(msg string)                                           {}
func (n *nopLogger) Warn(msg string)                                           {}
func (n *nopLogger) Error(msg string)                                          {}
func (n *nopLogger) WithField(key string, value interface{}) Logger            { return n }
func (n *nopLogger) WithFields(fields map[string]interface{}) Logger           { return n }
func (n *nopLogger) WithError(err error) Logger                                { return n }
func (n *nopLogger) DebugWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) InfoWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) WarnWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) ErrorWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) GetZerolog() *zerolog.Logger {
	nop := zerolog.Nop()
	return &nop
}
