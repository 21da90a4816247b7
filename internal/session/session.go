// Package session records agent session start and end markers together with a
// bounded rolling history of completed sessions.
package session

import (
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"continuum/internal/logging"
	"continuum/internal/store"
)

// MaxSessions bounds the rolling history; the oldest records are evicted first.
const MaxSessions = 50

const stateVersion = "1"

// Record is a completed session.
type Record struct {
	SessionID       string    `json:"session_id"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	DurationMinutes int       `json:"duration_minutes"`
}

// State is the persisted session-state document.
type State struct {
	Version            string     `json:"version"`
	CurrentSessionID   string     `json:"current_session_id,omitempty"`
	LastSessionStart   *time.Time `json:"last_session_start,omitempty"`
	LastSessionEnd     *time.Time `json:"last_session_end,omitempty"`
	LastUpdated        *time.Time `json:"last_updated,omitempty"`
	SessionCostDollars *float64   `json:"session_cost_dollars,omitempty"`
	Sessions           []Record   `json:"sessions"`
}

func emptyState() State {
	return State{Version: stateVersion, Sessions: []Record{}}
}

// Start describes a newly opened session.
type Start struct {
	SessionID string
	StartedAt time.Time
	// PreviousStart is the start marker recorded before this session, if any.
	PreviousStart *time.Time
}

// Tracker owns the session-state document.
type Tracker struct {
	file   *store.JSONFile[State]
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
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

// WithIDGenerator overrides session identifier generation.
func WithIDGenerator(newID func() string) Option {
	return func(t *Tracker) {
		if newID != nil {
			t.newID = newID
		}
	}
}

// NewTracker returns a tracker persisting to path.
func NewTracker(path string, logger *slog.Logger, opts ...Option) *Tracker {
	t := &Tracker{
		file:   store.NewJSONFile[State](path),
		logger: logging.NewComponentLogger(logger, "session"),
		now:    time.Now,
		newID:  func() string { return "session-" + uuid.NewString() },
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Load returns the persisted state, or an empty state when it is missing or
// unreadable.
func (t *Tracker) Load() (State, store.LoadResult) {
	state, result := t.file.Load(emptyState)
	if result.Degraded() {
		logging.WarnWithContext(t.logger, "session state unreadable; starting from empty state", "session_state_degraded",
			logging.String(logging.FieldPath, t.file.Path()),
			logging.Error(result.Err),
			logging.String(logging.FieldErrorHint, "inspect or delete the session state file"),
			logging.String(logging.FieldImpact, "previous session history is ignored"),
		)
	}
	if state.Sessions == nil {
		state.Sessions = []Record{}
	}
	return state, result
}

// OnSessionStart opens a new session and persists the start marker. The
// returned Start carries the previous start marker so callers can apply
// day-boundary rules.
func (t *Tracker) OnSessionStart() (Start, error) {
	state, _ := t.Load()
	now := t.now()

	start := Start{
		SessionID:     t.newID(),
		StartedAt:     now,
		PreviousStart: state.LastSessionStart,
	}

	state.CurrentSessionID = start.SessionID
	state.LastSessionStart = &now
	state.LastUpdated = &now
	if err := t.file.Save(state); err != nil {
		return start, err
	}

	t.logger.Info("session started",
		logging.String(logging.FieldEventType, "session_started"),
		logging.String(logging.FieldSessionID, start.SessionID),
	)
	return start, nil
}

// OnSessionEnd closes the active session, appends it to the history, and
// evicts the oldest records beyond MaxSessions.
func (t *Tracker) OnSessionEnd() (Record, error) {
	state, _ := t.Load()
	now := t.now()

	record := Record{
		SessionID: state.CurrentSessionID,
		StartTime: now,
		EndTime:   now,
	}
	if record.SessionID == "" {
		record.SessionID = t.newID()
	}
	if state.LastSessionStart != nil {
		record.StartTime = *state.LastSessionStart
		record.DurationMinutes = int(math.Round(now.Sub(*state.LastSessionStart).Minutes()))
	}

	state.Sessions = append(state.Sessions, record)
	if overflow := len(state.Sessions) - MaxSessions; overflow > 0 {
		state.Sessions = append([]Record(nil), state.Sessions[overflow:]...)
	}
	state.LastSessionEnd = &now
	state.LastUpdated = &now
	state.CurrentSessionID = ""

	if err := t.file.Save(state); err != nil {
		return record, err
	}

	t.logger.Info("session ended",
		logging.String(logging.FieldEventType, "session_ended"),
		logging.String(logging.FieldSessionID, record.SessionID),
		logging.Int("duration_minutes", record.DurationMinutes),
		logging.Int("history_size", len(state.Sessions)),
	)
	return record, nil
}

// IsNewDay reports whether previous falls on a different local calendar day
// than now. A missing previous start counts as a new day.
func IsNewDay(previous *time.Time, now time.Time) bool {
	if previous == nil {
		return true
	}
	py, pm, pd := previous.In(now.Location()).Date()
	ny, nm, nd := now.Date()
	return py != ny || pm != nm || pd != nd
}
