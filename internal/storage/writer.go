package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// LineWriter appends formatted log lines to a single day-stamped file.
// The file name is fixed from the startup clock for the whole process
// lifetime; there is no rollover at midnight.
type LineWriter struct {
	path string
	mu   sync.Mutex
}

// NewLineWriter creates dir if missing and computes the log file path
// once, as <dir>/<prefix>_<YYYYMMDD>.log using the date of now.
func NewLineWriter(dir, prefix string, now time.Time) (*LineWriter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	name := fmt.Sprintf("%s_%s.log", prefix, now.Format("20060102"))
	return &LineWriter{path: filepath.Join(dir, name)}, nil
}

// Path returns the absolute path of the log file. The file itself is
// created lazily on first Append.
func (w *LineWriter) Path() (string, error) {
	return filepath.Abs(w.path)
}

// Append writes one line plus a trailing newline. The file is opened in
// append-create mode and closed again per call; the mutex serializes
// concurrent requests so no two lines interleave.
func (w *LineWriter) Append(line string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	if _, err := f.Write([]byte(line + "\n")); err != nil {
		f.Close()
		return fmt.Errorf("append log line: %w", err)
	}
	return f.Close()
}
