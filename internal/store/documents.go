package store

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"continuum/internal/faults"
)

// Document is a file in a continuity directory.
type Document struct {
	Name    string
	Path    string
	ModTime time.Time
}

// Age returns how long ago the document was modified relative to now.
func (d Document) Age(now time.Time) time.Duration {
	return now.Sub(d.ModTime)
}

// Pattern recognizes document file names by prefix and suffix.
type Pattern struct {
	Prefix string
	Suffix string
}

// Match reports whether name carries both the prefix and the suffix.
func (p Pattern) Match(name string) bool {
	if !strings.HasPrefix(name, p.Prefix) || !strings.HasSuffix(name, p.Suffix) {
		return false
	}
	return len(name) >= len(p.Prefix)+len(p.Suffix)
}

// ListDocuments returns the regular files in dir whose names match pattern.
// An absent directory yields no documents and StatusMissing.
func ListDocuments(dir string, pattern Pattern) ([]Document, LoadResult) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, LoadResult{Status: StatusMissing}
		}
		return nil, LoadResult{
			Status: StatusDegraded,
			Err:    faults.Wrap(faults.ErrStorage, "store", "list documents", dir, err),
		}
	}

	docs := make([]Document, 0, len(entries))
	var firstErr error
	for _, entry := range entries {
		if entry.IsDir() || !pattern.Match(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			// Removed between ReadDir and Info.
			if firstErr == nil && !errors.Is(err, fs.ErrNotExist) {
				firstErr = err
			}
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}
		docs = append(docs, Document{
			Name:    entry.Name(),
			Path:    filepath.Join(dir, entry.Name()),
			ModTime: info.ModTime(),
		})
	}
	if firstErr != nil {
		return docs, LoadResult{
			Status: StatusDegraded,
			Err:    faults.Wrap(faults.ErrStorage, "store", "stat document", dir, firstErr),
		}
	}
	return docs, LoadResult{Status: StatusLoaded}
}

// ReadDocument returns the body of a document.
func ReadDocument(doc Document) (string, error) {
	data, err := os.ReadFile(doc.Path)
	if err != nil {
		return "", faults.Wrap(faults.ErrStorage, "store", "read document", doc.Path, err)
	}
	return string(data), nil
}
