package continuity

import (
	"continuum/internal/logging"
	"continuum/internal/store"
)

// CompactionDecision is the verdict of the compaction gate.
type CompactionDecision struct {
	Allowed bool
	Reason  string
	// RecentHandoff is set when a handoff inside the window allowed compaction.
	RecentHandoff *store.Document
	// CurrentLedger is the newest ledger, used to tailor the block report.
	CurrentLedger *store.Document
}

// CheckCompaction allows context compaction only when a handoff was written
// within the configured window. Disabling the gate, its blocking, or the
// handoff requirement allows compaction unconditionally.
func (s *Selector) CheckCompaction() CompactionDecision {
	gate := s.cfg.PreCompact
	var decision CompactionDecision

	switch {
	case !gate.Enabled:
		decision = CompactionDecision{Allowed: true, Reason: "compaction gate disabled"}
	case !gate.BlockCompaction:
		decision = CompactionDecision{Allowed: true, Reason: "compaction blocking disabled"}
	case !gate.RequireHandoff:
		decision = CompactionDecision{Allowed: true, Reason: "handoff not required"}
	default:
		if doc, ok := s.RecentHandoff(s.cfg.CompactionWindow()); ok {
			decision = CompactionDecision{Allowed: true, Reason: "recent handoff exists", RecentHandoff: &doc}
		} else {
			decision = CompactionDecision{Reason: "no recent handoff"}
		}
	}

	if ledger, ok := s.CurrentLedger(); ok {
		decision.CurrentLedger = &ledger
	}

	result := "allow"
	if !decision.Allowed {
		result = "block"
	}
	s.logger.Info("compaction gate evaluated",
		logging.Args(append(logging.DecisionAttrs("compaction_gate", result, decision.Reason),
			logging.String(logging.FieldEventType, "compaction_gate"),
			logging.Duration("window", s.cfg.CompactionWindow()),
		)...)...,
	)
	return decision
}
