package review

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"slices"
	"strings"
	"time"

	"continuum/internal/faults"
	"continuum/internal/logging"
	"continuum/internal/store"
)

// Engine owns the review queue document.
type Engine struct {
	file    *store.JSONFile[Store]
	lock    *fileLock
	logger  *slog.Logger
	now     func() time.Time
	newID   func(time.Time) string
	lockTTL time.Duration
}

// Option customizes an Engine.
type Option func(*Engine)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithIDGenerator overrides item identifier generation.
func WithIDGenerator(newID func(time.Time) string) Option {
	return func(e *Engine) {
		if newID != nil {
			e.newID = newID
		}
	}
}

// WithLocking serializes each read-modify-write cycle behind an advisory
// lock file next to the queue document.
func WithLocking(enabled bool) Option {
	return func(e *Engine) {
		if enabled {
			e.lock = newFileLock(e.file.Path() + ".lock")
		} else {
			e.lock = nil
		}
	}
}

// NewEngine returns an engine persisting to path.
func NewEngine(path string, logger *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		file:    store.NewJSONFile[Store](path),
		logger:  logging.NewComponentLogger(logger, "review"),
		now:     time.Now,
		newID:   generateID,
		lockTTL: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// generateID builds "review-<unix millis>-<3 random digits>". It is not
// collision-free under high-frequency concurrent use.
func generateID(now time.Time) string {
	return fmt.Sprintf("review-%d-%03d", now.UnixMilli(), rand.IntN(1000))
}

// Now reports the engine clock.
func (e *Engine) Now() time.Time {
	return e.now()
}

// Path returns the queue document location.
func (e *Engine) Path() string {
	return e.file.Path()
}

// Snapshot loads the current queue document without modifying it.
func (e *Engine) Snapshot() (Store, store.LoadResult) {
	doc, result := e.file.Load(emptyStore)
	if result.Degraded() {
		logging.WarnWithContext(e.logger, "review queue unreadable; using empty queue", "review_queue_degraded",
			logging.String(logging.FieldPath, e.file.Path()),
			logging.Error(result.Err),
			logging.String(logging.FieldErrorHint, "inspect or restore the review queue file"),
			logging.String(logging.FieldImpact, "the next write replaces the unreadable queue"),
		)
	}
	normalizeStore(&doc)
	return doc, result
}

// Add validates req, appends the new item, and re-sorts the pending set by
// priority with ties kept in insertion order.
func (e *Engine) Add(ctx context.Context, req AddRequest) (Item, error) {
	item, err := e.buildItem(req)
	if err != nil {
		return Item{}, err
	}

	err = e.mutate(ctx, "add", func(doc *Store) error {
		item.CreatedAt = e.now()
		item.ID = e.newID(item.CreatedAt)
		doc.Pending = append(doc.Pending, item)
		doc.Statistics.TotalQueued++
		sortPending(doc.Pending)
		return nil
	})
	if err != nil {
		return Item{}, err
	}

	e.logger.Info("review item queued",
		logging.String(logging.FieldEventType, "review_item_queued"),
		logging.String(logging.FieldItemID, item.ID),
		logging.String("priority", string(item.Priority)),
		logging.String("type", item.Type),
		logging.Int("confidence", item.ConfidenceScore),
	)
	return item, nil
}

// Approve moves the pending item id to the history as approved and updates
// the wait-time statistics.
func (e *Engine) Approve(ctx context.Context, id, notes string) (HistoryEntry, error) {
	var entry HistoryEntry
	err := e.mutate(ctx, "approve", func(doc *Store) error {
		item, err := takePending(doc, id)
		if err != nil {
			return err
		}
		decided := e.now()
		entry = HistoryEntry{
			Item:            item,
			ApprovedAt:      &decided,
			WaitTimeMinutes: waitMinutes(item.CreatedAt, decided),
			Notes:           strings.TrimSpace(notes),
		}
		entry.Status = StatusApproved
		doc.History = append(doc.History, entry)

		doc.Statistics.TotalApproved++
		doc.Statistics.AverageWaitTimeMinutes = approvedMean(doc.History)
		doc.Statistics.LongestWaitTimeMinutes = max(doc.Statistics.LongestWaitTimeMinutes, entry.WaitTimeMinutes)
		return nil
	})
	if err != nil {
		return HistoryEntry{}, err
	}

	e.logger.Info("review item approved",
		logging.String(logging.FieldEventType, "review_item_approved"),
		logging.String(logging.FieldItemID, id),
		logging.Int("wait_minutes", entry.WaitTimeMinutes),
	)
	return entry, nil
}

// Reject moves the pending item id to the history as rejected. Wait-time
// statistics track approvals only and are left unchanged.
func (e *Engine) Reject(ctx context.Context, id, reason string) (HistoryEntry, error) {
	var entry HistoryEntry
	err := e.mutate(ctx, "reject", func(doc *Store) error {
		item, err := takePending(doc, id)
		if err != nil {
			return err
		}
		decided := e.now()
		entry = HistoryEntry{
			Item:            item,
			RejectedAt:      &decided,
			WaitTimeMinutes: waitMinutes(item.CreatedAt, decided),
			RejectionReason: strings.TrimSpace(reason),
		}
		entry.Status = StatusRejected
		doc.History = append(doc.History, entry)
		doc.Statistics.TotalRejected++
		return nil
	})
	if err != nil {
		return HistoryEntry{}, err
	}

	e.logger.Info("review item rejected",
		logging.String(logging.FieldEventType, "review_item_rejected"),
		logging.String(logging.FieldItemID, id),
	)
	return entry, nil
}

// List returns the pending items in stored priority order.
func (e *Engine) List(context.Context) ([]Item, error) {
	doc, _ := e.Snapshot()
	return doc.Pending, nil
}

// CleanHistory deletes history entries decided more than maxAgeDays ago and
// returns how many were removed. Zero days means the default retention.
func (e *Engine) CleanHistory(ctx context.Context, maxAgeDays int) (int, error) {
	if maxAgeDays < 0 {
		return 0, faults.Wrap(faults.ErrValidation, "review", "clean", "days must not be negative", nil)
	}
	if maxAgeDays == 0 {
		maxAgeDays = DefaultHistoryRetentionDays
	}

	removed := 0
	err := e.mutate(ctx, "clean", func(doc *Store) error {
		cutoff := e.now().AddDate(0, 0, -maxAgeDays)
		kept := doc.History[:0]
		for _, entry := range doc.History {
			if entry.DecisionTime().After(cutoff) {
				kept = append(kept, entry)
			}
		}
		removed = len(doc.History) - len(kept)
		doc.History = kept
		return nil
	})
	if err != nil {
		return 0, err
	}

	e.logger.Info("review history cleaned",
		logging.String(logging.FieldEventType, "review_history_cleaned"),
		logging.Int("removed", removed),
		logging.Int("max_age_days", maxAgeDays),
	)
	return removed, nil
}

// mutate runs fn against a freshly loaded document and persists the result.
// When fn fails, or the existing file cannot be read, nothing is written. A
// corrupt file counts as empty and is replaced.
func (e *Engine) mutate(ctx context.Context, operation string, fn func(*Store) error) error {
	if e.lock != nil {
		release, err := e.lock.acquire(ctx, e.lockTTL)
		if err != nil {
			return faults.Wrap(faults.ErrStorage, "review", operation, "acquire queue lock", err)
		}
		defer release()
	}

	doc, result := e.Snapshot()
	if result.ReadFailed {
		return faults.Wrap(faults.ErrStorage, "review", operation, "queue file unreadable; refusing to overwrite it", result.Err)
	}
	if err := fn(&doc); err != nil {
		return err
	}
	doc.LastUpdated = e.now()
	if err := e.file.Save(doc); err != nil {
		logging.ErrorWithContext(e.logger, "review queue write failed", "review_queue_write_failed",
			logging.String("operation", operation),
			logging.String(logging.FieldPath, e.file.Path()),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check permissions on the queue directory"),
		)
		return err
	}
	return nil
}

func (e *Engine) buildItem(req AddRequest) (Item, error) {
	task := strings.TrimSpace(req.Task)
	if task == "" {
		return Item{}, faults.Wrap(faults.ErrValidation, "review", "add", "task description is required", nil)
	}
	priority, err := ParsePriority(req.Priority)
	if err != nil {
		return Item{}, err
	}
	confidence := defaultConfidence
	if req.Confidence != nil {
		confidence = *req.Confidence
	}
	if confidence < 0 || confidence > 100 {
		return Item{}, faults.Wrap(faults.ErrValidation, "review", "add", fmt.Sprintf("confidence %d outside 0-100", confidence), nil)
	}
	itemType := strings.ToLower(strings.TrimSpace(req.Type))
	if itemType == "" {
		itemType = defaultType
	}
	estimate := strings.TrimSpace(req.EstimatedReviewTime)
	if estimate == "" {
		estimate = defaultEstimatedReviewTime
	}
	return Item{
		Priority:            priority,
		Type:                itemType,
		Task:                task,
		ConfidenceScore:     confidence,
		PlanFile:            strings.TrimSpace(req.PlanFile),
		UncertaintyReasons:  cleanList(req.UncertaintyReasons),
		BlockedTasks:        cleanList(req.BlockedTasks),
		EstimatedReviewTime: estimate,
		Status:              StatusPending,
	}, nil
}

func takePending(doc *Store, id string) (Item, error) {
	idx := slices.IndexFunc(doc.Pending, func(item Item) bool { return item.ID == id })
	if idx < 0 {
		return Item{}, faults.Wrap(faults.ErrNotFound, "review", "lookup", fmt.Sprintf("task %s not found in queue", id), nil)
	}
	item := doc.Pending[idx]
	doc.Pending = slices.Delete(doc.Pending, idx, idx+1)
	return item, nil
}

func sortPending(items []Item) {
	slices.SortStableFunc(items, func(a, b Item) int {
		return a.Priority.Rank() - b.Priority.Rank()
	})
}

func waitMinutes(created, decided time.Time) int {
	return int(math.Round(decided.Sub(created).Minutes()))
}

func approvedMean(history []HistoryEntry) float64 {
	total, count := 0, 0
	for _, entry := range history {
		if entry.Status == StatusApproved {
			total += entry.WaitTimeMinutes
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return float64(total) / float64(count)
}

func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeStore(doc *Store) {
	if doc.Version == "" {
		doc.Version = StoreVersion
	}
	if doc.Pending == nil {
		doc.Pending = []Item{}
	}
	if doc.History == nil {
		doc.History = []HistoryEntry{}
	}
	for i := range doc.Pending {
		if doc.Pending[i].UncertaintyReasons == nil {
			doc.Pending[i].UncertaintyReasons = []string{}
		}
		if doc.Pending[i].BlockedTasks == nil {
			doc.Pending[i].BlockedTasks = []string{}
		}
	}
}
