package hooks_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"continuum/internal/artifacts"
	"continuum/internal/codemap"
	"continuum/internal/config"
	"continuum/internal/hooks"
	"continuum/internal/session"
	"continuum/internal/testsupport"
)

var hookNow = time.Date(2026, 6, 3, 14, 0, 0, 0, time.Local)

func newRunner(t *testing.T, opts ...testsupport.ConfigOption) (*hooks.Runner, *config.Config) {
	t.Helper()
	cfg := testsupport.NewConfig(t, opts...)
	ids := 0
	runner := hooks.New(cfg, nil,
		hooks.WithClock(func() time.Time { return hookNow }),
		hooks.WithSessionIDGenerator(func() string {
			ids++
			return "session-test-" + string(rune('0'+ids))
		}),
	)
	return runner, cfg
}

func requireContains(t *testing.T, report, want string) {
	t.Helper()
	if !strings.Contains(report, want) {
		t.Fatalf("expected report to contain %q, got:\n%s", want, report)
	}
}

func writeHandoff(t *testing.T, cfg *config.Config, name string, age time.Duration) string {
	t.Helper()
	body := testsupport.HandoffBody("Queue hardening", "SUCCEEDED", 90, "Locked the queue file.", []string{"ship"})
	return testsupport.WriteDocument(t, filepath.Join(cfg.Paths.HandoffsDir, name), body, hookNow.Add(-age))
}

func writeLedger(t *testing.T, cfg *config.Config, name string, age time.Duration) string {
	t.Helper()
	body := testsupport.LedgerBody("Harden the review queue", []string{"locking"}, "Tests", []string{"docs"})
	return testsupport.WriteDocument(t, filepath.Join(cfg.Paths.LedgersDir, name), body, hookNow.Add(-age))
}

func writeSessionCost(t *testing.T, cfg *config.Config, cost string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(cfg.Paths.SessionState), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	body := `{"version":"1","session_cost_dollars":` + cost + `,"sessions":[]}`
	if err := os.WriteFile(cfg.Paths.SessionState, []byte(body), 0o644); err != nil {
		t.Fatalf("write session state: %v", err)
	}
}

func TestPreCompactAllowsWithRecentHandoff(t *testing.T) {
	runner, cfg := newRunner(t)
	writeHandoff(t, cfg, "handoff-recent.md", 30*time.Minute)

	d := runner.PreCompact(context.Background())
	if d.Blocked || d.ExitCode() != 0 {
		t.Fatalf("expected compaction allowed, got %+v", d)
	}
	requireContains(t, d.Report, "handoff-recent.md")
}

func TestPreCompactBlocksWithStaleHandoff(t *testing.T) {
	runner, cfg := newRunner(t)
	writeHandoff(t, cfg, "handoff-old.md", 2*time.Hour)

	d := runner.PreCompact(context.Background())
	if !d.Blocked || !d.Enforced || d.ExitCode() != 1 {
		t.Fatalf("expected enforced compaction block, got %+v", d)
	}
	requireContains(t, d.Report, "COMPACTION BLOCKED")
	requireContains(t, d.Report, "Create a handoff document")
}

func TestPreCompactRecommendsLedgerUpdate(t *testing.T) {
	runner, cfg := newRunner(t)
	writeLedger(t, cfg, "CONTINUITY_main.md", 3*24*time.Hour)

	d := runner.PreCompact(context.Background())
	if !d.Blocked {
		t.Fatalf("expected block without handoff, got %+v", d)
	}
	requireContains(t, d.Report, "Update your current ledger")
	requireContains(t, d.Report, "CONTINUITY_main.md")
}

func TestPreCompactDisabledAllows(t *testing.T) {
	runner, _ := newRunner(t, testsupport.WithConfig(func(c *config.Config) {
		c.PreCompact.BlockCompaction = false
	}))
	if d := runner.PreCompact(context.Background()); d.Blocked {
		t.Fatalf("expected allow when blocking disabled, got %+v", d)
	}
}

func TestPreToolUseBlocksTypeScriptErrors(t *testing.T) {
	runner, cfg := newRunner(t, testsupport.WithStubbedBinary("tsc", `#!/bin/sh
echo "src/app.ts(1,7): error TS2322: Type 'number' is not assignable to type 'string'."
exit 2
`))
	target := filepath.Join(cfg.Root, "src", "app.ts")

	d := runner.PreToolUse(context.Background(), hooks.ToolEvent{Tool: "Edit", FilePath: target})
	if !d.Blocked || d.Enforced || d.ExitCode() != 0 {
		t.Fatalf("expected advisory block with exit 0, got %+v", d)
	}
	requireContains(t, d.Report, "EDIT BLOCKED")
	requireContains(t, d.Report, "TS2322")
}

func TestPreToolUseAllowsWhenCompilerMissing(t *testing.T) {
	runner, _ := newRunner(t, testsupport.WithEmptyPath())
	d := runner.PreToolUse(context.Background(), hooks.ToolEvent{Tool: "Edit", FilePath: "src/app.ts"})
	if d.Blocked {
		t.Fatalf("expected allow without compiler, got %+v", d)
	}
}

func TestPreToolUseIgnoresNonTypeScript(t *testing.T) {
	runner, _ := newRunner(t, testsupport.WithStubbedBinary("tsc", "#!/bin/sh\necho 'main.go: error'\nexit 2\n"))
	d := runner.PreToolUse(context.Background(), hooks.ToolEvent{Tool: "Edit", FilePath: "main.go"})
	if d.Blocked || d.Report != "" {
		t.Fatalf("expected silent allow, got %+v", d)
	}
}

func TestPreToolUseBudget(t *testing.T) {
	enableBudget := testsupport.WithConfig(func(c *config.Config) {
		c.PreToolUse.BudgetCheck = true
		c.PreToolUse.TypeScriptValidation = false
	})

	t.Run("exceeded", func(t *testing.T) {
		runner, cfg := newRunner(t, enableBudget)
		writeSessionCost(t, cfg, "50.0")
		d := runner.PreToolUse(context.Background(), hooks.ToolEvent{Tool: "Write", FilePath: "a.go"})
		if !d.Blocked || d.ExitCode() != 0 {
			t.Fatalf("expected advisory budget block, got %+v", d)
		}
		requireContains(t, d.Report, "Budget Exceeded")
	})

	t.Run("warning", func(t *testing.T) {
		runner, cfg := newRunner(t, enableBudget)
		writeSessionCost(t, cfg, "47.5")
		d := runner.PreToolUse(context.Background(), hooks.ToolEvent{Tool: "Write", FilePath: "a.go"})
		if d.Blocked {
			t.Fatalf("expected allow, got %+v", d)
		}
		requireContains(t, d.Report, "$2.50 remaining (5% of budget)")
	})

	t.Run("missing state", func(t *testing.T) {
		runner, _ := newRunner(t, enableBudget)
		d := runner.PreToolUse(context.Background(), hooks.ToolEvent{Tool: "Write", FilePath: "a.go"})
		if d.Blocked || d.Report != "" {
			t.Fatalf("expected silent allow, got %+v", d)
		}
	})
}

func TestPreToolUseDisabled(t *testing.T) {
	runner, _ := newRunner(t, testsupport.WithConfig(func(c *config.Config) {
		c.PreToolUse.Enabled = false
	}))
	if d := runner.PreToolUse(context.Background(), hooks.ToolEvent{FilePath: "x.ts"}); d.Blocked {
		t.Fatalf("expected allow, got %+v", d)
	}
}

func TestPostToolUseTracksFiles(t *testing.T) {
	runner, cfg := newRunner(t)
	ctx := context.Background()

	d := runner.PostToolUse(ctx, hooks.ToolEvent{Tool: "Write", FilePath: "src/app.ts", Operation: "created"})
	if d.Blocked {
		t.Fatalf("post-tool-use must never block: %+v", d)
	}
	requireContains(t, d.Report, "Codebase map tracked: app.ts")

	doc, _ := codemap.NewTracker(cfg.Paths.CodebaseMap, nil).Snapshot()
	entry, ok := doc.Files["src/app.ts"]
	if !ok {
		t.Fatalf("expected src/app.ts tracked, got %+v", doc.Files)
	}
	if entry.ModifiedBy != codemap.DefaultAgent || entry.Operation != codemap.OperationCreated {
		t.Fatalf("unexpected entry %+v", entry)
	}

	runner.PostToolUse(ctx, hooks.ToolEvent{Tool: "Bash", FilePath: "src/app.ts", Operation: "deleted"})
	doc, _ = codemap.NewTracker(cfg.Paths.CodebaseMap, nil).Snapshot()
	if doc.TotalFiles != 0 {
		t.Fatalf("expected deleted file pruned, got %+v", doc.Files)
	}
}

func TestPostToolUseIndexesHandoffs(t *testing.T) {
	runner, cfg := newRunner(t)
	ctx := context.Background()
	path := writeHandoff(t, cfg, "handoff-queue.md", time.Minute)

	d := runner.PostToolUse(ctx, hooks.ToolEvent{Tool: "Write", FilePath: path, Operation: "created", Agent: "@writer"})
	requireContains(t, d.Report, "Artifact indexed: handoff-queue.md")

	index, err := artifacts.Open(ctx, cfg.Paths.ArtifactIndexDB)
	if err != nil {
		t.Fatalf("open index: %v", err)
	}
	defer index.Close()
	results, err := index.Search(ctx, []string{"hardening"}, 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].Title != "Queue hardening" || results[0].Outcome != "SUCCEEDED" {
		t.Fatalf("unexpected search results %+v", results)
	}

	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}
	runner.PostToolUse(ctx, hooks.ToolEvent{Tool: "Bash", FilePath: path, Operation: "deleted"})
	if count, _ := index.Count(ctx); count != 0 {
		t.Fatalf("expected artifact removed from index, got %d", count)
	}
}

func TestPostToolUseWithoutPathIsNoop(t *testing.T) {
	runner, cfg := newRunner(t)
	d := runner.PostToolUse(context.Background(), hooks.ToolEvent{Tool: "Bash"})
	if d.Blocked || d.Report != "" {
		t.Fatalf("expected no-op, got %+v", d)
	}
	if _, err := os.Stat(cfg.Paths.CodebaseMap); !os.IsNotExist(err) {
		t.Fatalf("expected no codebase map written, stat err=%v", err)
	}
}

func TestSessionStartFreshStart(t *testing.T) {
	runner, cfg := newRunner(t)
	d := runner.SessionStart(context.Background())
	if d.Blocked {
		t.Fatalf("session start must never block: %+v", d)
	}
	requireContains(t, d.Report, "NEW SESSION")

	state, _ := session.NewTracker(cfg.Paths.SessionState, nil).Load()
	if state.CurrentSessionID != "session-test-1" || state.LastSessionStart == nil {
		t.Fatalf("expected session start recorded, got %+v", state)
	}
}

func TestSessionStartRestoresLedgerAndHandoff(t *testing.T) {
	runner, cfg := newRunner(t)
	writeLedger(t, cfg, "CONTINUITY_main.md", 2*time.Hour)
	writeHandoff(t, cfg, "handoff-yesterday.md", 20*time.Hour)

	d := runner.SessionStart(context.Background())
	requireContains(t, d.Report, "CONTINUITY RESTORED")
	requireContains(t, d.Report, "CONTINUITY_main.md")
	requireContains(t, d.Report, "Last Updated: 2 hours ago")
	requireContains(t, d.Report, "Progress: 1 items completed, 1 steps remaining")
	requireContains(t, d.Report, "handoff-yesterday.md")
	requireContains(t, d.Report, "SUCCEEDED (90% complete)")
}

func TestSessionStartQuietWhenWelcomeDisabled(t *testing.T) {
	runner, _ := newRunner(t, testsupport.WithConfig(func(c *config.Config) {
		c.Continuity.ShowWelcome = false
	}))
	if d := runner.SessionStart(context.Background()); d.Report != "" {
		t.Fatalf("expected empty report, got:\n%s", d.Report)
	}
}

func TestSessionEndPromptsForHandoff(t *testing.T) {
	runner, _ := newRunner(t)
	d := runner.SessionEnd(context.Background())
	if d.Blocked {
		t.Fatalf("session end must never block: %+v", d)
	}
	requireContains(t, d.Report, "NO HANDOFF CREATED")
}

func TestSessionEndAcknowledgesRecentHandoff(t *testing.T) {
	runner, cfg := newRunner(t)
	writeHandoff(t, cfg, "handoff-today.md", 90*time.Minute)
	d := runner.SessionEnd(context.Background())
	requireContains(t, d.Report, "Handoff on record: handoff-today.md")
}

func TestSessionEndCleansLedgersAndRecordsSession(t *testing.T) {
	runner, cfg := newRunner(t)
	ctx := context.Background()
	old := writeLedger(t, cfg, "CONTINUITY_old.md", 8*24*time.Hour)
	current := writeLedger(t, cfg, "CONTINUITY_current.md", time.Hour)

	runner.SessionStart(ctx)
	d := runner.SessionEnd(ctx)
	requireContains(t, d.Report, "Cleaned up 1 old ledger(s)")

	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Fatalf("expected old ledger removed, stat err=%v", err)
	}
	if _, err := os.Stat(current); err != nil {
		t.Fatalf("expected current ledger kept: %v", err)
	}

	state, _ := session.NewTracker(cfg.Paths.SessionState, nil).Load()
	if len(state.Sessions) != 1 || state.Sessions[0].SessionID != "session-test-1" {
		t.Fatalf("expected one closed session, got %+v", state.Sessions)
	}
	if state.CurrentSessionID != "" {
		t.Fatalf("expected current session cleared, got %q", state.CurrentSessionID)
	}
}

func TestSessionEndDisabled(t *testing.T) {
	runner, cfg := newRunner(t, testsupport.WithConfig(func(c *config.Config) {
		c.SessionEnd.Enabled = false
	}))
	if d := runner.SessionEnd(context.Background()); d.Report != "" || d.Blocked {
		t.Fatalf("expected no-op, got %+v", d)
	}
	if _, err := os.Stat(cfg.Paths.SessionState); !os.IsNotExist(err) {
		t.Fatalf("expected no session state written, stat err=%v", err)
	}
}
