package continuity

import (
	"errors"
	"io/fs"
	"os"

	"continuum/internal/freshness"
	"continuum/internal/logging"
	"continuum/internal/store"
)

// CleanupLedgers deletes ledgers older than the configured retention and
// returns the names removed. Individual delete failures are logged and
// skipped.
func (s *Selector) CleanupLedgers() []string {
	docs, result := store.ListDocuments(s.cfg.Paths.LedgersDir, s.LedgerPattern())
	if result.Degraded() {
		logging.WarnWithContext(s.logger, "ledger directory unreadable; cleanup skipped", "ledger_cleanup_degraded",
			logging.Error(result.Err),
			logging.String(logging.FieldImpact, "old ledgers remain on disk"),
		)
	}

	var removed []string
	for _, doc := range freshness.Stale(docs, s.now(), s.cfg.LedgerRetention()) {
		if err := os.Remove(doc.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			logging.WarnWithContext(s.logger, "ledger delete failed; file remains", "ledger_cleanup_failed",
				logging.String(logging.FieldPath, doc.Path),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check permissions on the ledgers directory"),
				logging.String(logging.FieldImpact, "old ledger remains on disk"),
			)
			continue
		}
		removed = append(removed, doc.Name)
		s.logger.Debug("ledger removed",
			logging.String(logging.FieldEventType, "ledger_removed"),
			logging.String(logging.FieldPath, doc.Path),
		)
	}
	return removed
}
