package artifacts

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"continuum/internal/faults"
)

func openTestIndex(t *testing.T) *Index {
	t.Helper()
	now := time.Date(2026, 5, 2, 9, 0, 0, 0, time.UTC)
	index, err := Open(context.Background(), filepath.Join(t.TempDir(), "state", "artifacts.db"),
		WithClock(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = index.Close() })
	return index
}

func TestUpsertAndGet(t *testing.T) {
	index := openTestIndex(t)
	ctx := context.Background()
	mod := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

	if _, err := index.Upsert(ctx, Parse("h.md", KindHandoff, handoffBody, mod)); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	got, err := index.Get(ctx, "h.md")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "Payment retries" || got.Kind != KindHandoff || got.Completion != 80 {
		t.Fatalf("unexpected artifact %+v", got)
	}
	if !got.ModifiedAt.Equal(mod) || len(got.Keywords) != 4 {
		t.Fatalf("unexpected stored fields %+v", got)
	}

	updated := got
	updated.Title = "Payment retries v2"
	if _, err := index.Upsert(ctx, updated); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	count, err := index.Count(ctx)
	if err != nil || count != 1 {
		t.Fatalf("Count = %d, %v; want 1", count, err)
	}
	got, _ = index.Get(ctx, "h.md")
	if got.Title != "Payment retries v2" {
		t.Fatalf("expected replaced title, got %q", got.Title)
	}
}

func TestDelete(t *testing.T) {
	index := openTestIndex(t)
	ctx := context.Background()
	if _, err := index.Upsert(ctx, Artifact{Path: "p.md", Kind: KindPlan, Title: "x"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	removed, err := index.Delete(ctx, "p.md")
	if err != nil || !removed {
		t.Fatalf("Delete = %v, %v", removed, err)
	}
	removed, err = index.Delete(ctx, "p.md")
	if err != nil || removed {
		t.Fatalf("second Delete = %v, %v", removed, err)
	}
	if _, err := index.Get(ctx, "p.md"); !errors.Is(err, faults.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSearchMatchesAllTermsNewestFirst(t *testing.T) {
	index := openTestIndex(t)
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	fixtures := []Artifact{
		{Path: "a.md", Kind: KindHandoff, Title: "Auth refactor", Keywords: []string{"oauth", "tokens"}, ModifiedAt: base},
		{Path: "b.md", Kind: KindHandoff, Title: "Token cache", Summary: "Cache OAuth tokens", ModifiedAt: base.Add(time.Hour)},
		{Path: "c.md", Kind: KindPlan, Title: "Billing", Summary: "Invoices", ModifiedAt: base.Add(2 * time.Hour)},
	}
	for _, a := range fixtures {
		if _, err := index.Upsert(ctx, a); err != nil {
			t.Fatalf("Upsert: %v", err)
		}
	}

	results, err := index.Search(ctx, []string{"OAUTH", "tokens"}, 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 || results[0].Path != "b.md" || results[1].Path != "a.md" {
		t.Fatalf("unexpected results %+v", results)
	}

	all, err := index.Search(ctx, nil, 2)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(all) != 2 || all[0].Path != "c.md" {
		t.Fatalf("expected limit and newest-first ordering, got %+v", all)
	}

	none, err := index.Search(ctx, []string{"100%"}, 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected escaped wildcard to match nothing, got %+v", none)
	}
}

func TestUpsertRequiresPath(t *testing.T) {
	index := openTestIndex(t)
	if _, err := index.Upsert(context.Background(), Artifact{}); !errors.Is(err, faults.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestReopenKeepsSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "artifacts.db")
	ctx := context.Background()
	first, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := first.Upsert(ctx, Artifact{Path: "x.md", Kind: KindPlan, Title: "x"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	_ = first.Close()

	second, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()
	if count, _ := second.Count(ctx); count != 1 {
		t.Fatalf("expected persisted artifact, got %d", count)
	}
}
