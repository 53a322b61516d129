// Package logger provides the structured logging interface used across followdiff.
//
// It wraps zerolog and adds:
// - a colored console writer on stderr
// - optional size-rotated file output through lumberjack
// - child loggers carrying fields
// - TestLogger and a no-op logger for tests
//
// Basic Usage:
//
//	log, err := logger.New(&cfg.Logging)
//	if err != nil {
//	    return err
//	}
//	log.WithField("handle", "alice").Info("Downloading contacts")
//
// The File, MaxSize, MaxBackups, MaxAge and Compress options of
// config.LoggingConfig map directly onto lumberjack.Logger.
package logger
