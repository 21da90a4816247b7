package hooks

import (
	"context"

	"continuum/internal/continuity"
)

// PreCompact refuses context compaction unless a handoff was written
// recently enough to preserve the session's work losslessly.
func (r *Runner) PreCompact(context.Context) Decision {
	logger := r.hookLogger("pre_compact")
	selector := continuity.NewSelector(r.cfg, logger, continuity.WithClock(r.now))
	verdict := selector.CheckCompaction()

	out := &report{}
	if verdict.Allowed {
		if verdict.RecentHandoff != nil {
			out.blank()
			out.line("✓ Recent handoff detected")
			out.line("  %s", verdict.RecentHandoff.Name)
			out.line("  Compaction allowed")
			out.blank()
			out.line("⚠️  RECOMMENDATION: clear the context instead of compacting")
			out.line("   A cleared context reloads the continuity state without summarization loss")
			out.blank()
		}
		d := allow(verdict.Reason, out.String())
		r.logDecision(logger, "pre_compact", d)
		return d
	}

	out.blank()
	out.line("🚫 " + heavyRule)
	out.line("   COMPACTION BLOCKED")
	out.line(heavyRule)
	out.blank()
	out.line("❌ Compaction loses information through summarization.")
	out.blank()
	out.section("RECOMMENDED WORKFLOW:")
	if verdict.CurrentLedger != nil {
		out.line("1. Update your current ledger:")
		out.line("   %s", verdict.CurrentLedger.Name)
		out.blank()
		out.line("2. Clear context (the ledger reloads automatically)")
		out.blank()
	} else {
		out.line("1. Create a handoff document in %s", r.relative(r.cfg.Paths.HandoffsDir))
		out.blank()
		out.line("2. Clear context (the handoff reloads on the next session)")
		out.blank()
	}
	if r.cfg.PreCompact.AllowOverride {
		out.section("OVERRIDE (not recommended):")
		out.line("  Set pre_compact.block_compaction = false")
		out.blank()
	}
	out.line(heavyRule)

	d := enforce(verdict.Reason, out.String())
	r.logDecision(logger, "pre_compact", d)
	return d
}
