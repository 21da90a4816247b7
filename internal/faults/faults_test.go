package faults_test

import (
	"errors"
	"strings"
	"testing"

	"continuum/internal/faults"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("disk full")
	err := faults.Wrap(faults.ErrStorage, "review", "save", "write queue", base)
	if !errors.Is(err, faults.ErrStorage) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"review", "save", "write queue", "disk full"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := faults.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, faults.ErrStorage) {
		t.Fatalf("expected storage marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "operation failed") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}

func TestKindAndExitCode(t *testing.T) {
	cases := []struct {
		err  error
		kind string
		code int
	}{
		{nil, "", 0},
		{faults.Wrap(faults.ErrValidation, "review", "add", "task is required", nil), "validation", 1},
		{faults.Wrap(faults.ErrNotFound, "review", "approve", "review-1", nil), "not_found", 1},
		{faults.Wrap(faults.ErrStorage, "review", "save", "", errors.New("io")), "storage", 1},
		{errors.New("unknown command"), "internal", 1},
	}
	for _, tc := range cases {
		if got := faults.Kind(tc.err); got != tc.kind {
			t.Fatalf("Kind(%v) = %q, want %q", tc.err, got, tc.kind)
		}
		if got := faults.ExitCode(tc.err); got != tc.code {
			t.Fatalf("ExitCode(%v) = %d, want %d", tc.err, got, tc.code)
		}
	}
}
