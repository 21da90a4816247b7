package validate

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// maxWarningLines caps how much unrelated compiler output is surfaced.
const maxWarningLines = 5

var (
	commandContext = exec.CommandContext
	lookPath       = exec.LookPath
)

// Result describes one validation run.
type Result struct {
	Skipped  bool
	Passed   bool
	Errors   []string
	Warnings []string
}

// Blocked reports whether the edit should be refused.
func (r Result) Blocked() bool {
	return !r.Skipped && !r.Passed
}

// TypeScript checks a project with the TypeScript compiler in no-emit mode.
type TypeScript struct {
	binary string
	dir    string
}

// Option configures the TypeScript checker.
type Option func(*TypeScript)

// WithBinary overrides the compiler executable.
func WithBinary(binary string) Option {
	return func(t *TypeScript) {
		if strings.TrimSpace(binary) != "" {
			t.binary = strings.TrimSpace(binary)
		}
	}
}

// NewTypeScript returns a checker that runs the compiler in dir.
func NewTypeScript(dir string, opts ...Option) *TypeScript {
	t := &TypeScript{binary: "tsc", dir: dir}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Binary returns the configured compiler executable.
func (t *TypeScript) Binary() string {
	return t.binary
}

// IsTypeScriptFile reports whether path names a .ts or .tsx source.
func IsTypeScriptFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts", ".tsx":
		return true
	default:
		return false
	}
}

// Check compiles the project and attributes diagnostics to filePath. Lines
// naming the file fail the check; diagnostics elsewhere pass with at most a
// few warning lines. A missing compiler yields a skipped result.
func (t *TypeScript) Check(ctx context.Context, filePath string) (Result, error) {
	if _, err := lookPath(t.binary); err != nil {
		return Result{Skipped: true, Passed: true}, nil
	}

	cmd := commandContext(ctx, t.binary, "--noEmit", "--pretty", "false") //nolint:gosec
	cmd.Dir = t.dir
	output, err := cmd.CombinedOutput()
	if err == nil {
		return Result{Passed: true}, nil
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return Result{}, fmt.Errorf("run %s: %w", t.binary, err)
	}

	lines := splitLines(string(output))
	if matches := linesMentioning(lines, filePath, t.dir); len(matches) > 0 {
		return Result{Errors: matches}, nil
	}
	if len(lines) > maxWarningLines {
		lines = lines[:maxWarningLines]
	}
	return Result{Passed: true, Warnings: lines}, nil
}

// linesMentioning matches the path as given and, when it is absolute, as
// the compiler prints it relative to the project directory.
func linesMentioning(lines []string, filePath, dir string) []string {
	needles := []string{filePath}
	if filepath.IsAbs(filePath) && dir != "" {
		if rel, err := filepath.Rel(dir, filePath); err == nil && !strings.HasPrefix(rel, "..") {
			needles = append(needles, rel)
		}
	}

	var out []string
	for _, line := range lines {
		for _, needle := range needles {
			if needle != "" && strings.Contains(line, needle) {
				out = append(out, line)
				break
			}
		}
	}
	return out
}

func splitLines(output string) []string {
	var out []string
	for _, line := range strings.Split(output, "\n") {
		if trimmed := strings.TrimRight(line, "\r "); strings.TrimSpace(trimmed) != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
