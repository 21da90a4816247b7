package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"continuum/internal/faults"
)

// JSONFile is a single JSON document persisted at a fixed path.
type JSONFile[T any] struct {
	path string
}

// NewJSONFile returns a handle for the document at path.
func NewJSONFile[T any](path string) *JSONFile[T] {
	return &JSONFile[T]{path: path}
}

// Path returns the document location.
func (f *JSONFile[T]) Path() string {
	return f.path
}

// Load reads the document. When the file is absent, empty, or malformed the
// value produced by fallback is returned instead and the result says why.
func (f *JSONFile[T]) Load(fallback func() T) (T, LoadResult) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fallback(), LoadResult{Status: StatusMissing}
		}
		return fallback(), LoadResult{
			Status:     StatusDegraded,
			Err:        faults.Wrap(faults.ErrStorage, "store", "load", f.path, err),
			ReadFailed: true,
		}
	}
	if len(data) == 0 {
		return fallback(), LoadResult{Status: StatusMissing}
	}

	value := fallback()
	if err := json.Unmarshal(data, &value); err != nil {
		return fallback(), LoadResult{
			Status: StatusDegraded,
			Err:    faults.Wrap(faults.ErrStorage, "store", "decode", f.path, err),
		}
	}
	return value, LoadResult{Status: StatusLoaded}
}

// Save replaces the document with value, creating parent directories first.
// The value is written to a uniquely named temp file in the same directory
// and renamed into place, so concurrent savers never share a temp file and
// readers see either the old or the new document.
func (f *JSONFile[T]) Save(value T) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return faults.Wrap(faults.ErrStorage, "store", "encode", f.path, err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return faults.Wrap(faults.ErrStorage, "store", "save", "create directory", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.path)+".tmp-*")
	if err != nil {
		return faults.Wrap(faults.ErrStorage, "store", "save", "create temp file", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return faults.Wrap(faults.ErrStorage, "store", "save", "write temp file", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		return faults.Wrap(faults.ErrStorage, "store", "save", "chmod temp file", err)
	}
	if err := tmp.Sync(); err != nil {
		return faults.Wrap(faults.ErrStorage, "store", "save", "sync temp file", err)
	}
	if err := tmp.Close(); err != nil {
		return faults.Wrap(faults.ErrStorage, "store", "save", "close temp file", err)
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		return faults.Wrap(faults.ErrStorage, "store", "save", fmt.Sprintf("replace %s", f.path), err)
	}
	committed = true
	return nil
}
