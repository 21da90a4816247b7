package freshness_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"continuum/internal/freshness"
	"continuum/internal/store"
)

var now = time.Date(2026, 5, 12, 15, 0, 0, 0, time.UTC)

func doc(name string, age time.Duration) store.Document {
	return store.Document{Name: name, Path: "/tmp/" + name, ModTime: now.Add(-age)}
}

func names(docs []store.Document) []string {
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.Name)
	}
	return out
}

func TestFilterAppliesCeilingAndOrdersFreshestFirst(t *testing.T) {
	docs := []store.Document{
		doc("old", 30*time.Hour),
		doc("two-hours", 2*time.Hour),
		doc("ten-minutes", 10*time.Minute),
		doc("exact", 24*time.Hour),
	}
	got := names(freshness.Filter(docs, now, 24*time.Hour, 0))
	want := []string{"ten-minutes", "two-hours"}
	if len(got) != len(want) {
		t.Fatalf("Filter = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Filter = %v, want %v", got, want)
		}
	}
}

func TestFilterLimit(t *testing.T) {
	docs := []store.Document{doc("a", time.Hour), doc("b", 2*time.Hour), doc("c", 3*time.Hour)}
	got := names(freshness.Filter(docs, now, freshness.NoCeiling, 2))
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("unexpected limited result: %v", got)
	}
}

func TestFilterNoCeilingKeepsEverything(t *testing.T) {
	docs := []store.Document{doc("ancient", 400*24*time.Hour), doc("new", time.Minute)}
	got := names(freshness.Filter(docs, now, freshness.NoCeiling, 0))
	if len(got) != 2 || got[0] != "new" {
		t.Fatalf("unexpected result: %v", got)
	}
}

func TestFilterTiesOrderByName(t *testing.T) {
	docs := []store.Document{doc("b", time.Hour), doc("a", time.Hour)}
	got := names(freshness.Filter(docs, now, freshness.NoCeiling, 0))
	if got[0] != "a" || got[1] != "b" {
		t.Fatalf("expected name tiebreak, got %v", got)
	}
}

func TestFilterIsPure(t *testing.T) {
	docs := []store.Document{doc("b", 2*time.Hour), doc("a", time.Hour)}
	_ = freshness.Filter(docs, now, freshness.NoCeiling, 0)
	if docs[0].Name != "b" {
		t.Fatal("expected input slice to be left untouched")
	}
}

func TestScanMissingDirectoryIsEmpty(t *testing.T) {
	docs, result := freshness.Scan(filepath.Join(t.TempDir(), "nope"), store.Pattern{Prefix: "x", Suffix: ".md"}, now, time.Hour, 0)
	if len(docs) != 0 || result.Err != nil {
		t.Fatalf("expected empty result, got %v (%v)", docs, result.Err)
	}
}

func TestFreshestReadsModTimes(t *testing.T) {
	dir := t.TempDir()
	write := func(name string, age time.Duration) {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		mod := now.Add(-age)
		if err := os.Chtimes(path, mod, mod); err != nil {
			t.Fatalf("chtimes: %v", err)
		}
	}
	write("CONTINUITY_old.md", 3*time.Hour)
	write("CONTINUITY_new.md", 20*time.Minute)

	pattern := store.Pattern{Prefix: "CONTINUITY_", Suffix: ".md"}
	got, ok, _ := freshness.Freshest(dir, pattern, now, 24*time.Hour)
	if !ok || got.Name != "CONTINUITY_new.md" {
		t.Fatalf("unexpected freshest: %+v ok=%v", got, ok)
	}
	if _, ok, _ := freshness.Freshest(dir, pattern, now, 10*time.Minute); ok {
		t.Fatal("expected nothing under a 10 minute ceiling")
	}
}

func TestStale(t *testing.T) {
	docs := []store.Document{doc("keep", 6*24*time.Hour), doc("drop", 8*24*time.Hour)}
	got := names(freshness.Stale(docs, now, 7*24*time.Hour))
	if len(got) != 1 || got[0] != "drop" {
		t.Fatalf("unexpected stale set: %v", got)
	}
}
