package hooks

import (
	"context"
	"path/filepath"

	"continuum/internal/continuity"
	"continuum/internal/logging"
	"continuum/internal/session"
)

// SessionEnd prompts for a handoff when none was written recently, prunes
// old ledgers and logs, and closes the session record. It never blocks.
func (r *Runner) SessionEnd(context.Context) Decision {
	logger := r.hookLogger("session_end")
	gate := r.cfg.SessionEnd
	if !gate.Enabled {
		return allow("hook disabled", "")
	}

	out := &report{}
	selector := continuity.NewSelector(r.cfg, logger, continuity.WithClock(r.now))

	if gate.PromptForHandoff {
		if doc, ok := selector.RecentHandoff(r.cfg.HandoffPromptWindow()); ok {
			out.blank()
			out.line("✓ Handoff on record: %s", doc.Name)
			out.line("  Your work is preserved!")
			out.blank()
		} else {
			out.banner("⚠️  SESSION ENDING - NO HANDOFF CREATED")
			out.line("💡 Create a handoff in %s to preserve your work across sessions.", r.relative(r.cfg.Paths.HandoffsDir))
			out.blank()
			out.line("📝 A good handoff includes:")
			out.line("  • What was completed")
			out.line("  • What worked and what didn't")
			out.line("  • Key decisions made")
			out.line("  • Next steps")
			out.line("  • Known issues")
			out.blank()
			out.line(heavyRule)
		}
	}

	if gate.CleanupOldLedgers {
		if removed := selector.CleanupLedgers(); len(removed) > 0 {
			out.line("✓ Cleaned up %d old ledger(s)", len(removed))
		}
	}

	tracker := session.NewTracker(r.cfg.Paths.SessionState, logger,
		session.WithClock(r.now), session.WithIDGenerator(r.newID))
	if _, err := tracker.OnSessionEnd(); err != nil {
		logging.WarnWithContext(logger, "session end not recorded", "session_end_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check permissions on the state directory"),
			logging.String(logging.FieldImpact, "session history is missing this session"),
		)
	}

	logging.CleanupOldLogs(logger, r.now(), r.cfg.Logging.RetentionDays, logging.RetentionTarget{
		Dir:     r.cfg.Paths.LogDir,
		Pattern: "*.log",
		Exclude: []string{filepath.Clean(r.cfg.DebugLogPath())},
	})

	d := allow("session closed", out.String())
	r.logDecision(logger, "session_end", d)
	return d
}
