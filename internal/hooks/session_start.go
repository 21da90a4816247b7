package hooks

import (
	"context"
	"time"

	"continuum/internal/continuity"
	"continuum/internal/logging"
	"continuum/internal/session"
)

const reportFieldLimit = 60

// SessionStart opens a session record and restores the freshest ledger and
// handoff into a console report. It never blocks.
func (r *Runner) SessionStart(context.Context) Decision {
	logger := r.hookLogger("session_start")

	tracker := session.NewTracker(r.cfg.Paths.SessionState, logger,
		session.WithClock(r.now), session.WithIDGenerator(r.newID))
	start, err := tracker.OnSessionStart()
	if err != nil {
		logging.WarnWithContext(logger, "session start not recorded", "session_start_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check permissions on the state directory"),
			logging.String(logging.FieldImpact, "session duration is not tracked"),
		)
	}
	logger = logging.WithSessionID(logger, start.SessionID)

	selector := continuity.NewSelector(r.cfg, logger, continuity.WithClock(r.now))
	restored := selector.Restore(start.PreviousStart)

	out := &report{}
	if r.cfg.Continuity.ShowWelcome {
		if restored.FreshStart() {
			renderFreshStart(out, r.relative(r.cfg.Paths.LedgersDir))
		} else {
			renderRestored(out, restored, r.now())
		}
	}

	reason := "fresh start"
	if !restored.FreshStart() {
		reason = "continuity restored"
	}
	d := allow(reason, out.String())
	r.logDecision(logger, "session_start", d)
	return d
}

func renderRestored(out *report, restored continuity.Restoration, now time.Time) {
	out.banner("🔄  CONTINUITY RESTORED")
	if ledger := restored.Ledger; ledger != nil {
		out.line("📋 CURRENT SESSION LEDGER:")
		out.line("   File: %s", ledger.File)
		out.line("   Last Updated: %s", relativeAge(ledger.ModTime, now))
		out.line("   Goal: %s", firstLine(ledger.Goal, reportFieldLimit))
		out.line("   Progress: %d items completed, %d steps remaining", ledger.CompletedCount, ledger.RemainingSteps)
		out.line("   Current Focus: %s", firstLine(ledger.CurrentFocus, reportFieldLimit))
		out.blank()
	}
	if handoff := restored.Handoff; handoff != nil {
		out.line("📦 LATEST HANDOFF:")
		out.line("   File: %s", handoff.File)
		out.line("   Title: %s", handoff.Title)
		out.line("   Status: %s %s (%d%% complete)", outcomeMarker(handoff.Outcome), handoff.Outcome, handoff.Completion)
		out.line("   Created: %s", relativeAge(handoff.ModTime, now))
		out.line("   Summary: %s", firstLine(handoff.Summary, reportFieldLimit))
		if handoff.NextSteps > 0 {
			out.line("   Next Steps: %d tasks defined", handoff.NextSteps)
		}
		out.blank()
	}
	out.line(lightRule)
	out.line("💡 TIPS:")
	out.line("   • Update the ledger as work progresses")
	out.line("   • Write a handoff before ending the session")
	out.line(`   • Search past work: continuum search "keywords"`)
	out.line(heavyRule)
}

func renderFreshStart(out *report, ledgersDir string) {
	out.banner("🚀  NEW SESSION")
	out.line("No continuity state found. Starting fresh!")
	out.blank()
	out.line("💡 CREATE YOUR FIRST LEDGER:")
	out.line("   Write one under %s to track goals, progress and next steps.", ledgersDir)
	out.blank()
	out.line(heavyRule)
}
