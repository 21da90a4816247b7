package artifacts

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const handoffBody = `# Handoff - Payment retries

**Outcome**: ✅ SUCCEEDED
**Completion**: [80%]

## 📋 Executive Summary
Added exponential backoff to the payment client.

## 🔍 Search Keywords
payments, retry backoff, go, stripe

## Next Steps
1. Ship it
`

func TestClassify(t *testing.T) {
	root := t.TempDir()
	handoffs := filepath.Join(root, "thoughts", "shared", "handoffs")
	plans := filepath.Join(root, "thoughts", "shared", "plans")

	cases := []struct {
		path string
		kind Kind
		ok   bool
	}{
		{filepath.Join(handoffs, "handoff-1.md"), KindHandoff, true},
		{filepath.Join(handoffs, "nested", "handoff-2.MD"), KindHandoff, true},
		{filepath.Join(plans, "plan.md"), KindPlan, true},
		{filepath.Join(plans, "plan.txt"), "", false},
		{filepath.Join(root, "README.md"), "", false},
		{handoffs + ".md", "", false},
	}
	for _, tc := range cases {
		kind, ok := Classify(tc.path, handoffs, plans)
		if kind != tc.kind || ok != tc.ok {
			t.Fatalf("Classify(%s) = %q, %v; want %q, %v", tc.path, kind, ok, tc.kind, tc.ok)
		}
	}
}

func TestParseHandoff(t *testing.T) {
	mod := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	artifact := Parse("h.md", KindHandoff, handoffBody, mod)

	if artifact.Title != "Payment retries" || artifact.Outcome != "SUCCEEDED" || artifact.Completion != 80 {
		t.Fatalf("unexpected artifact %+v", artifact)
	}
	if artifact.Summary != "Added exponential backoff to the payment client." {
		t.Fatalf("unexpected summary %q", artifact.Summary)
	}
	want := []string{"payments", "retry", "backoff", "stripe"}
	if strings.Join(artifact.Keywords, "|") != strings.Join(want, "|") {
		t.Fatalf("unexpected keywords %v", artifact.Keywords)
	}
	if !artifact.ModifiedAt.Equal(mod) {
		t.Fatalf("unexpected mod time %s", artifact.ModifiedAt)
	}
}

func TestParsePlan(t *testing.T) {
	body := "# Implementation Plan - Search index\n\n**Outcome**: FAILED\n\n## Executive Summary\n" +
		strings.Repeat("x", 600) + "\n"
	artifact := Parse("p.md", KindPlan, body, time.Time{})
	if artifact.Title != "Search index" {
		t.Fatalf("unexpected title %q", artifact.Title)
	}
	if artifact.Outcome != "" || artifact.Completion != 0 {
		t.Fatalf("plans carry no outcome, got %+v", artifact)
	}
	if len(artifact.Summary) != summaryLimit {
		t.Fatalf("expected summary clipped to %d, got %d", summaryLimit, len(artifact.Summary))
	}
	if len(artifact.Keywords) != 0 {
		t.Fatalf("expected no keywords, got %v", artifact.Keywords)
	}
}

func TestParseUnknownTitle(t *testing.T) {
	artifact := Parse("x.md", KindHandoff, "just text", time.Time{})
	if artifact.Title != "Unknown" || artifact.Outcome != "" {
		t.Fatalf("unexpected artifact %+v", artifact)
	}
}
