package continuity

import (
	"log/slog"
	"time"

	"continuum/internal/config"
	"continuum/internal/freshness"
	"continuum/internal/logging"
	"continuum/internal/session"
	"continuum/internal/store"
)

// Restoration is the payload surfaced at session start.
type Restoration struct {
	Ledger  *LedgerExcerpt
	Handoff *HandoffExcerpt
	// HandoffConsidered reports whether the day-boundary rule allowed a
	// handoff lookup at all.
	HandoffConsidered bool
	// StaleHandoff is the newest handoff when it was rejected for age.
	StaleHandoff *store.Document
	// Issues collects best-effort read failures that did not stop selection.
	Issues []error
}

// FreshStart reports whether nothing was restored.
func (r Restoration) FreshStart() bool {
	return r.Ledger == nil && r.Handoff == nil
}

// Selector picks continuity documents using the configured layout and windows.
type Selector struct {
	cfg    *config.Config
	logger *slog.Logger
	now    func() time.Time
}

// Option customizes a Selector.
type Option func(*Selector)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Selector) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSelector builds a selector for cfg.
func NewSelector(cfg *config.Config, logger *slog.Logger, opts ...Option) *Selector {
	s := &Selector{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "continuity"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LedgerPattern recognizes ledger file names.
func (s *Selector) LedgerPattern() store.Pattern {
	return store.Pattern{Prefix: s.cfg.Continuity.LedgerPrefix, Suffix: s.cfg.Continuity.DocumentExtension}
}

// HandoffPattern recognizes handoff file names.
func (s *Selector) HandoffPattern() store.Pattern {
	return store.Pattern{Prefix: s.cfg.Continuity.HandoffPrefix, Suffix: s.cfg.Continuity.DocumentExtension}
}

// Restore selects the ledger and handoff to surface. previousStart is the
// session start recorded before the current one; nil counts as a new day.
//
// A fresh ledger (under the ledger ceiling) is always considered when ledger
// auto-load is on. A handoff is only considered on a new calendar day or when
// no ledger was loaded; the newest handoff is then taken regardless of age and
// rejected if it is older than the handoff ceiling.
func (s *Selector) Restore(previousStart *time.Time) Restoration {
	now := s.now()
	var out Restoration

	if s.cfg.Continuity.AutoLoadLedger {
		doc, ok, result := freshness.Freshest(s.cfg.Paths.LedgersDir, s.LedgerPattern(), now, s.cfg.LedgerMaxAge())
		out.noteIssue(result)
		if ok {
			if body, err := store.ReadDocument(doc); err != nil {
				out.Issues = append(out.Issues, err)
			} else {
				excerpt := ExcerptLedger(doc, body)
				out.Ledger = &excerpt
			}
		}
	}

	if s.cfg.Continuity.AutoLoadHandoff && (session.IsNewDay(previousStart, now) || out.Ledger == nil) {
		out.HandoffConsidered = true
		doc, ok, result := freshness.Freshest(s.cfg.Paths.HandoffsDir, s.HandoffPattern(), now, freshness.NoCeiling)
		out.noteIssue(result)
		if ok {
			if doc.Age(now) > s.cfg.HandoffMaxAge() {
				stale := doc
				out.StaleHandoff = &stale
			} else if body, err := store.ReadDocument(doc); err != nil {
				out.Issues = append(out.Issues, err)
			} else {
				excerpt := ExcerptHandoff(doc, body)
				out.Handoff = &excerpt
			}
		}
	}

	for _, issue := range out.Issues {
		logging.WarnWithContext(s.logger, "continuity document unreadable", "continuity_read_degraded",
			logging.Error(issue),
			logging.String(logging.FieldErrorHint, "check permissions on the ledgers and handoffs directories"),
			logging.String(logging.FieldImpact, "context restoration skipped the unreadable document"),
		)
	}
	attrs := []logging.Attr{
		logging.String(logging.FieldEventType, "continuity_selected"),
		logging.Bool("fresh_start", out.FreshStart()),
		logging.Bool("handoff_considered", out.HandoffConsidered),
	}
	if out.Ledger != nil {
		attrs = append(attrs, logging.String("ledger", out.Ledger.File))
	}
	if out.Handoff != nil {
		attrs = append(attrs, logging.String("handoff", out.Handoff.File))
	}
	if out.StaleHandoff != nil {
		attrs = append(attrs, logging.String("stale_handoff", out.StaleHandoff.Name))
	}
	s.logger.Info("continuity selection complete", logging.Args(attrs...)...)
	return out
}

// RecentHandoff returns the newest handoff modified within window.
func (s *Selector) RecentHandoff(window time.Duration) (store.Document, bool) {
	doc, ok, result := freshness.Freshest(s.cfg.Paths.HandoffsDir, s.HandoffPattern(), s.now(), window)
	if result.Degraded() {
		logging.WarnWithContext(s.logger, "handoff directory unreadable", "handoff_lookup_degraded",
			logging.Error(result.Err),
			logging.String(logging.FieldImpact, "recent handoffs may be missed"),
		)
	}
	return doc, ok
}

// CurrentLedger returns the newest ledger regardless of age.
func (s *Selector) CurrentLedger() (store.Document, bool) {
	doc, ok, _ := freshness.Freshest(s.cfg.Paths.LedgersDir, s.LedgerPattern(), s.now(), freshness.NoCeiling)
	return doc, ok
}

func (r *Restoration) noteIssue(result store.LoadResult) {
	if result.Degraded() && result.Err != nil {
		r.Issues = append(r.Issues, result.Err)
	}
}
