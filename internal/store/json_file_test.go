package store_test

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"continuum/internal/faults"
	"continuum/internal/store"
)

type sample struct {
	Version string   `json:"version"`
	Items   []string `json:"items"`
}

func defaultSample() sample {
	return sample{Version: "1.0", Items: []string{}}
}

func TestJSONFileLoadMissingUsesDefault(t *testing.T) {
	file := store.NewJSONFile[sample](filepath.Join(t.TempDir(), "absent.json"))
	value, result := file.Load(defaultSample)
	if result.Status != store.StatusMissing {
		t.Fatalf("expected missing status, got %s", result.Status)
	}
	if result.Err != nil {
		t.Fatalf("expected no error for missing file, got %v", result.Err)
	}
	if value.Version != "1.0" || len(value.Items) != 0 {
		t.Fatalf("expected default value, got %+v", value)
	}
}

func TestJSONFileLoadCorruptIsDegraded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.json")
	if err := os.WriteFile(path, []byte(`{"version": "2.0", "items": [`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	file := store.NewJSONFile[sample](path)
	value, result := file.Load(defaultSample)
	if !result.Degraded() {
		t.Fatalf("expected degraded status, got %s", result.Status)
	}
	if !errors.Is(result.Err, faults.ErrStorage) {
		t.Fatalf("expected storage error, got %v", result.Err)
	}
	if value.Version != "1.0" {
		t.Fatalf("expected default after corrupt load, got %+v", value)
	}
	if result.ReadFailed {
		t.Fatal("a decode failure must not be reported as a read failure")
	}
}

func TestJSONFileLoadUnreadableMarksReadFailed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	if err := os.Mkdir(path, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	_, result := store.NewJSONFile[sample](path).Load(defaultSample)
	if !result.Degraded() || !result.ReadFailed {
		t.Fatalf("expected degraded read failure, got %+v", result)
	}
	if !errors.Is(result.Err, faults.ErrStorage) {
		t.Fatalf("expected storage error, got %v", result.Err)
	}
}

func TestJSONFileSaveCreatesDirectoriesAndRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "doc.json")
	file := store.NewJSONFile[sample](path)
	want := sample{Version: "1.0", Items: []string{"a", "b"}}
	if err := file.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if leftovers, _ := filepath.Glob(filepath.Join(filepath.Dir(path), ".doc.json.tmp-*")); len(leftovers) != 0 {
		t.Fatalf("expected temp file to be renamed away, found %v", leftovers)
	}

	got, result := file.Load(defaultSample)
	if result.Status != store.StatusLoaded {
		t.Fatalf("expected loaded status, got %s (%v)", result.Status, result.Err)
	}
	if got.Version != want.Version || len(got.Items) != 2 || got.Items[0] != "a" || got.Items[1] != "b" {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, want)
	}
}

func TestJSONFileSaveReplacesWholeDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	file := store.NewJSONFile[sample](path)
	if err := file.Save(sample{Version: "1.0", Items: []string{"a", "b", "c"}}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := file.Save(sample{Version: "1.0", Items: []string{"z"}}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, _ := file.Load(defaultSample)
	if len(got.Items) != 1 || got.Items[0] != "z" {
		t.Fatalf("expected full replacement, got %+v", got)
	}
}

func TestJSONFileSaveFailureIsStorageError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("file"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	file := store.NewJSONFile[sample](filepath.Join(blocker, "doc.json"))
	err := file.Save(defaultSample())
	if !errors.Is(err, faults.ErrStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
}

func TestJSONFileConcurrentSavesNeverCollide(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json")
	file := store.NewJSONFile[sample](path)

	const writers = 16
	const rounds = 20
	var wg sync.WaitGroup
	errs := make(chan error, writers*rounds)
	for w := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for r := range rounds {
				if err := file.Save(sample{Version: "1.0", Items: []string{fmt.Sprintf("w%d-r%d", w, r)}}); err != nil {
					errs <- err
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent save failed: %v", err)
	}

	got, result := file.Load(defaultSample)
	if result.Status != store.StatusLoaded || len(got.Items) != 1 {
		t.Fatalf("expected one intact document, got %+v (%s, %v)", got, result.Status, result.Err)
	}
	if leftovers, _ := filepath.Glob(filepath.Join(dir, ".doc.json.tmp-*")); len(leftovers) != 0 {
		t.Fatalf("expected no temp files left behind, found %v", leftovers)
	}
}
