// Package codemap records which project files were touched, by whom, and
// how, in a JSON document that survives across sessions.
package codemap

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"continuum/internal/faults"
	"continuum/internal/logging"
	"continuum/internal/store"
)

// MapVersion is written into every codebase map document.
const MapVersion = "2.0"

// DefaultAgent is attributed when the caller names none.
const DefaultAgent = "@chief"

// Operation is the kind of change applied to a file.
type Operation string

const (
	OperationCreated  Operation = "created"
	OperationModified Operation = "modified"
	OperationDeleted  Operation = "deleted"
)

// ParseOperation maps user input to an Operation. Empty input means
// modified.
func ParseOperation(value string) (Operation, error) {
	switch op := Operation(strings.ToLower(strings.TrimSpace(value))); op {
	case "":
		return OperationModified, nil
	case OperationCreated, OperationModified, OperationDeleted:
		return op, nil
	default:
		return "", faults.Wrap(faults.ErrValidation, "codemap", "parse operation",
			fmt.Sprintf("unknown operation %q (want created, modified or deleted)", value), nil)
	}
}

// Entry is the tracking record for one file.
type Entry struct {
	LastModified time.Time `json:"last_modified"`
	ModifiedBy   string    `json:"modified_by"`
	Operation    Operation `json:"operation"`
	TrackedAt    time.Time `json:"tracked_at"`
}

// Map is the persisted codebase map.
type Map struct {
	Version      string           `json:"version"`
	LastFullScan time.Time        `json:"last_full_scan"`
	LastUpdated  time.Time        `json:"last_updated"`
	TotalFiles   int              `json:"total_files"`
	Files        map[string]Entry `json:"files"`
}

// Tracker updates the codebase map document.
type Tracker struct {
	file   *store.JSONFile[Map]
	logger *slog.Logger
	now    func() time.Time
}

// Option customizes a Tracker.
type Option func(*Tracker)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

// NewTracker returns a tracker persisting to path.
func NewTracker(path string, logger *slog.Logger, opts ...Option) *Tracker {
	t := &Tracker{
		file:   store.NewJSONFile[Map](path),
		logger: logging.NewComponentLogger(logger, "codemap"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Snapshot loads the map without modifying it.
func (t *Tracker) Snapshot() (Map, store.LoadResult) {
	doc, result := t.file.Load(func() Map {
		return Map{Version: MapVersion, LastFullScan: t.now(), Files: map[string]Entry{}}
	})
	if result.Degraded() {
		logging.WarnWithContext(t.logger, "codebase map unreadable; starting a new map", "codemap_degraded",
			logging.String(logging.FieldPath, t.file.Path()),
			logging.Error(result.Err),
			logging.String(logging.FieldErrorHint, "delete the codebase map to silence this warning"),
			logging.String(logging.FieldImpact, "previous tracking history is replaced on the next write"),
		)
	}
	if doc.Files == nil {
		doc.Files = map[string]Entry{}
	}
	return doc, result
}

// Record applies op to path and persists the map. Deleting removes the
// entry; any other operation keeps the first tracked_at timestamp.
func (t *Tracker) Record(path string, op Operation, agent string) (Map, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Map{}, faults.Wrap(faults.ErrValidation, "codemap", "record", "file path is required", nil)
	}
	if op == "" {
		op = OperationModified
	}
	agent = strings.TrimSpace(agent)
	if agent == "" {
		agent = DefaultAgent
	}

	doc, _ := t.Snapshot()
	now := t.now()
	if op == OperationDeleted {
		delete(doc.Files, path)
	} else {
		entry := doc.Files[path]
		if entry.TrackedAt.IsZero() {
			entry.TrackedAt = now
		}
		entry.LastModified = now
		entry.ModifiedBy = agent
		entry.Operation = op
		doc.Files[path] = entry
	}
	doc.LastUpdated = now
	doc.TotalFiles = len(doc.Files)

	if err := t.file.Save(doc); err != nil {
		return Map{}, err
	}
	t.logger.Debug("codebase map updated",
		logging.String(logging.FieldEventType, "codemap_updated"),
		logging.String(logging.FieldPath, path),
		logging.String("operation", string(op)),
		logging.String("agent", agent),
		logging.Int("total_files", doc.TotalFiles),
	)
	return doc, nil
}
