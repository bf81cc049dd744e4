package journal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// #region writer

// Writer appends JSON values to a file, one object per line. Lines are
// written whole so a crashed run leaves at most one torn trailing line.
type Writer struct {
	path string
	f    *os.File
}

// NewWriter opens path for appending, creating parent directories as
// needed.
func NewWriter(path string) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}
	return &Writer{path: path, f: f}, nil
}

// Write marshals v and appends it as one line.
func (w *Writer) Write(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}
	b = append(b, '\n')
	if _, err := w.f.Write(b); err != nil {
		return fmt.Errorf("append %s: %w", w.path, err)
	}
	return nil
}

// Path returns the file this writer appends to.
func (w *Writer) Path() string { return w.path }

// Close flushes and closes the underlying file.
func (w *Writer) Close() error {
	return w.f.Close()
}

// #endregion writer
