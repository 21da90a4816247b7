package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// WriteDocument writes body to path, creating parent directories, and sets
// the modification time to modTime.
func WriteDocument(t testing.TB, path, body string, modTime time.Time) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	if err := os.Chtimes(path, modTime, modTime); err != nil {
		t.Fatalf("chtimes %s: %v", path, err)
	}
	return path
}

// LedgerBody renders a ledger with the recognized section headers.
func LedgerBody(goal string, completed []string, focus string, nextSteps []string) string {
	var b strings.Builder
	b.WriteString("# Continuity Ledger\n\n")
	fmt.Fprintf(&b, "## 🎯 Goal\n%s\n\n", goal)
	b.WriteString("## ✅ Completed Work\n")
	for _, item := range completed {
		fmt.Fprintf(&b, "- %s\n", item)
	}
	fmt.Fprintf(&b, "\n## 🎯 Current Focus\n%s\n\n", focus)
	b.WriteString("## 📋 Next Steps\n")
	for i, step := range nextSteps {
		fmt.Fprintf(&b, "%d. **%s**\n", i+1, step)
	}
	return b.String()
}

// HandoffBody renders a handoff with title, outcome, completion, summary,
// and numbered next steps.
func HandoffBody(title, outcome string, completion int, summary string, nextSteps []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Handoff - %s\n\n", title)
	fmt.Fprintf(&b, "**Outcome**: ✅ %s\n", outcome)
	fmt.Fprintf(&b, "**Completion**: [%d%%]\n\n", completion)
	fmt.Fprintf(&b, "## 📋 Executive Summary\n%s\n\n", summary)
	b.WriteString("## 📋 Next Steps\n")
	for i, step := range nextSteps {
		fmt.Fprintf(&b, "%d. %s\n", i+1, step)
	}
	return b.String()
}
