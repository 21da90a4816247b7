package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"continuum/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config rooted at a unique temp directory with every
// path resolved beneath it. It applies any provided options in order.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Root = base
	cfgVal.Paths = config.Paths{
		StateDir:        filepath.Join(base, ".continuum"),
		LedgersDir:      filepath.Join(base, "thoughts", "ledgers"),
		HandoffsDir:     filepath.Join(base, "thoughts", "shared", "handoffs"),
		PlansDir:        filepath.Join(base, "thoughts", "shared", "plans"),
		QueueFile:       filepath.Join(base, "thoughts", "shared", "review-queue.json"),
		SessionState:    filepath.Join(base, ".continuum", "session-state.json"),
		CodebaseMap:     filepath.Join(base, ".continuum", "codebase-map.json"),
		ArtifactIndexDB: filepath.Join(base, ".continuum", "artifacts.db"),
		LogDir:          filepath.Join(base, ".continuum", "logs"),
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithConfig applies an arbitrary mutation to the test config.
func WithConfig(mutate func(*config.Config)) ConfigOption {
	return func(b *configBuilder) {
		mutate(b.cfg)
	}
}

// WithStubbedBinary writes an executable shell script named name and
// prepends its directory to PATH for the duration of the test.
func WithStubbedBinary(name, script string) ConfigOption {
	return func(b *configBuilder) {
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		if script == "" {
			script = "#!/bin/sh\nexit 0\n"
		}
		target := filepath.Join(binDir, name)
		if err := os.WriteFile(target, []byte(script), 0o755); err != nil {
			b.t.Fatalf("write stub %s: %v", name, err)
		}
		b.t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
	}
}

// WithEmptyPath points PATH at an empty directory so no external binaries
// resolve.
func WithEmptyPath() ConfigOption {
	return func(b *configBuilder) {
		empty := filepath.Join(b.baseDir, "empty-bin")
		if err := os.MkdirAll(empty, 0o755); err != nil {
			b.t.Fatalf("mkdir empty bin dir: %v", err)
		}
		b.t.Setenv("PATH", empty)
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return cfg.Root
}
