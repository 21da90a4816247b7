package preflight

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLookupTools(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	if err := os.WriteFile(present, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	statuses := LookupTools(
		Tool{Name: "Present", Command: present},
		Tool{Name: "Missing", Command: "clearly-not-present-binary", Optional: true},
		Tool{Name: "Blank", Command: "  "},
	)
	if len(statuses) != 3 {
		t.Fatalf("expected 3 statuses, got %d", len(statuses))
	}
	if !statuses[0].Available || statuses[0].Detail != present {
		t.Fatalf("expected resolved path, got %#v", statuses[0])
	}
	if statuses[1].Available || statuses[1].Detail != `binary "clearly-not-present-binary" not found` {
		t.Fatalf("unexpected status for missing binary: %#v", statuses[1])
	}
	if statuses[2].Available || statuses[2].Detail != "command not configured" || statuses[2].Command != "" {
		t.Fatalf("unexpected status for blank command: %#v", statuses[2])
	}
}
