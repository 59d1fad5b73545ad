// Package logfile provides the append-only log sink kept in the mod root.
package logfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// DefaultLimit is the size above which an existing log is discarded at
// start.
const DefaultLimit int64 = 5 * 1024 * 1024

// HeaderFormat is written as the first line of every session.
const HeaderFormat = "========== SpeechMod Log Started at %s =========="

// File is a log sink safe for concurrent writers.
type File struct {
	mu        sync.Mutex
	f         *os.File
	path      string
	truncated bool
}

// Open opens path for appending. An existing file larger than limit is
// removed first. A limit <= 0 uses DefaultLimit.
func Open(path string, limit int64) (*File, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil { //nolint:gosec
		return nil, fmt.Errorf("unable to create log directory: %w", err)
	}

	var truncated bool
	info, err := os.Stat(path)
	switch {
	case err == nil && info.Size() > limit:
		if err := os.Remove(path); err != nil {
			return nil, fmt.Errorf("unable to remove oversized log: %w", err)
		}
		truncated = true
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("unable to stat log file: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("unable to open log file: %w", err)
	}

	lf := &File{f: f, path: path, truncated: truncated}
	header := fmt.Sprintf(HeaderFormat, time.Now().Format(time.DateTime)) + "\n"
	if _, err := lf.Write([]byte(header)); err != nil {
		_ = f.Close()
		return nil, err
	}
	return lf, nil
}

// Write appends p to the file.
func (l *File) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.f == nil {
		return 0, fs.ErrClosed
	}
	return l.f.Write(p)
}

// Path returns the file location.
func (l *File) Path() string { return l.path }

// Truncated reports whether a previous oversized log was discarded.
func (l *File) Truncated() bool { return l.truncated }

// Close flushes and closes the file. Later writes fail with fs.ErrClosed.
func (l *File) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.f == nil {
		return nil
	}
	err := l.f.Close()
	l.f = nil
	return err
}
