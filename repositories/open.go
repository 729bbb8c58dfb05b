package repositories

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
)

// badgerLogger routes Badger's own logging into slog so it never writes to
// the terminal the TUI is drawing on.
type badgerLogger struct {
	log *slog.Logger
}

func (l badgerLogger) Errorf(format string, args ...any) {
	l.log.Error(fmt.Sprintf(format, args...), "component", "badger")
}

func (l badgerLogger) Warningf(format string, args ...any) {
	l.log.Warn(fmt.Sprintf(format, args...), "component", "badger")
}

func (l badgerLogger) Infof(format string, args ...any) {
	l.log.Debug(fmt.Sprintf(format, args...), "component", "badger")
}

func (l badgerLogger) Debugf(format string, args ...any) {
	l.log.Debug(fmt.Sprintf(format, args...), "component", "badger")
}

func buildBadgerOpts(dir string, log *slog.Logger) badger.Options {
	options := badger.DefaultOptions(filepath.Join(dir, "badger")).
		WithLogger(badgerLogger{log: log})

	if log.Enabled(context.Background(), slog.LevelDebug) {
		options = options.WithLoggingLevel(badger.DEBUG)
	} else {
		options = options.WithLoggingLevel(badger.WARNING)
	}
	return options
}

// OpenHistory opens the transcript store and its search index under dir.
// The returned close function releases both.
func OpenHistory(dir string, log *slog.Logger) (*badger.DB, *bluge.Writer, func(), error) {
	db, err := badger.Open(buildBadgerOpts(dir, log))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("database opening failed: %w", err)
	}

	writer, err := bluge.OpenWriter(bluge.DefaultConfig(filepath.Join(dir, "bluge")))
	if err != nil {
		_ = db.Close()
		return nil, nil, nil, fmt.Errorf("failed to open bluge writer: %w", err)
	}

	closeAll := func() {
		log.Debug("Closing Bluge...")
		_ = writer.Close()
		log.Debug("Closing BadgerDB...")
		_ = db.Close()
	}
	return db, writer, closeAll, nil
}

// OpenStoreReadOnly opens the transcript store under dir without taking the
// directory lock, so it can be inspected while docchat is running.
func OpenStoreReadOnly(dir string, log *slog.Logger) (*badger.DB, error) {
	options := buildBadgerOpts(dir, log).
		WithReadOnly(true).
		WithBypassLockGuard(true)

	db, err := badger.Open(options)
	if err != nil {
		return nil, fmt.Errorf("read-only opening failed: %w", err)
	}
	return db, nil
}
