package session_test

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"continuum/internal/faults"
	"continuum/internal/session"
	"continuum/internal/store"
)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func newTracker(t *testing.T, c *clock) (*session.Tracker, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state", "session-state.json")
	counter := 0
	tracker := session.NewTracker(path, nil,
		session.WithClock(c.Now),
		session.WithIDGenerator(func() string {
			counter++
			return fmt.Sprintf("session-%d", counter)
		}),
	)
	return tracker, path
}

func TestStartThenEndRecordsDuration(t *testing.T) {
	c := &clock{now: time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)}
	tracker, _ := newTracker(t, c)

	start, err := tracker.OnSessionStart()
	if err != nil {
		t.Fatalf("OnSessionStart: %v", err)
	}
	if start.SessionID != "session-1" {
		t.Fatalf("unexpected session id %q", start.SessionID)
	}
	if start.PreviousStart != nil {
		t.Fatalf("expected no previous start, got %v", start.PreviousStart)
	}

	c.now = c.now.Add(95*time.Minute + 40*time.Second)
	record, err := tracker.OnSessionEnd()
	if err != nil {
		t.Fatalf("OnSessionEnd: %v", err)
	}
	if record.SessionID != "session-1" {
		t.Fatalf("expected ended session to reuse id, got %q", record.SessionID)
	}
	if record.DurationMinutes != 96 {
		t.Fatalf("expected rounded duration 96, got %d", record.DurationMinutes)
	}

	state, result := tracker.Load()
	if result.Status != store.StatusLoaded {
		t.Fatalf("expected loaded state, got %s", result.Status)
	}
	if state.CurrentSessionID != "" {
		t.Fatalf("expected active session cleared, got %q", state.CurrentSessionID)
	}
	if state.LastSessionEnd == nil || !state.LastSessionEnd.Equal(c.now) {
		t.Fatalf("unexpected last session end %v", state.LastSessionEnd)
	}
	if len(state.Sessions) != 1 {
		t.Fatalf("expected one session record, got %d", len(state.Sessions))
	}
}

func TestStartReportsPreviousStart(t *testing.T) {
	first := time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)
	c := &clock{now: first}
	tracker, _ := newTracker(t, c)
	if _, err := tracker.OnSessionStart(); err != nil {
		t.Fatalf("OnSessionStart: %v", err)
	}
	c.now = first.Add(3 * time.Hour)
	start, err := tracker.OnSessionStart()
	if err != nil {
		t.Fatalf("OnSessionStart: %v", err)
	}
	if start.PreviousStart == nil || !start.PreviousStart.Equal(first) {
		t.Fatalf("expected previous start %v, got %v", first, start.PreviousStart)
	}
}

func TestEndWithoutStartRecordsZeroDuration(t *testing.T) {
	c := &clock{now: time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)}
	tracker, _ := newTracker(t, c)
	record, err := tracker.OnSessionEnd()
	if err != nil {
		t.Fatalf("OnSessionEnd: %v", err)
	}
	if record.DurationMinutes != 0 || record.SessionID == "" {
		t.Fatalf("unexpected record %+v", record)
	}
}

func TestHistoryCappedAtFifty(t *testing.T) {
	c := &clock{now: time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)}
	tracker, _ := newTracker(t, c)
	for i := 0; i < session.MaxSessions+5; i++ {
		if _, err := tracker.OnSessionStart(); err != nil {
			t.Fatalf("OnSessionStart: %v", err)
		}
		c.now = c.now.Add(time.Minute)
		if _, err := tracker.OnSessionEnd(); err != nil {
			t.Fatalf("OnSessionEnd: %v", err)
		}
	}

	state, _ := tracker.Load()
	if len(state.Sessions) != session.MaxSessions {
		t.Fatalf("expected %d sessions, got %d", session.MaxSessions, len(state.Sessions))
	}
	// Each cycle consumes one id; the first five were evicted.
	if state.Sessions[0].SessionID != "session-6" {
		t.Fatalf("expected oldest surviving session-6, got %q", state.Sessions[0].SessionID)
	}
	if state.Sessions[len(state.Sessions)-1].SessionID != "session-55" {
		t.Fatalf("expected newest session-55, got %q", state.Sessions[len(state.Sessions)-1].SessionID)
	}
}

func TestCorruptStateIsDegradedNotFatal(t *testing.T) {
	c := &clock{now: time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)}
	tracker, path := newTracker(t, c)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, result := tracker.Load(); !result.Degraded() {
		t.Fatalf("expected degraded load, got %s", result.Status)
	}
	if _, err := tracker.OnSessionStart(); err != nil {
		t.Fatalf("expected start to recover from corrupt state, got %v", err)
	}
	state, result := tracker.Load()
	if result.Status != store.StatusLoaded || state.CurrentSessionID != "session-1" {
		t.Fatalf("expected rewritten state, got %+v (%s)", state, result.Status)
	}
}

func TestSaveFailureSurfacesStorageError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	tracker := session.NewTracker(filepath.Join(blocker, "session-state.json"), nil)
	_, err := tracker.OnSessionStart()
	if !errors.Is(err, faults.ErrStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
}

func TestDefaultIDsArePrefixed(t *testing.T) {
	tracker := session.NewTracker(filepath.Join(t.TempDir(), "s.json"), nil)
	start, err := tracker.OnSessionStart()
	if err != nil {
		t.Fatalf("OnSessionStart: %v", err)
	}
	if !strings.HasPrefix(start.SessionID, "session-") || len(start.SessionID) != len("session-")+36 {
		t.Fatalf("unexpected generated id %q", start.SessionID)
	}
}

func TestIsNewDay(t *testing.T) {
	loc := time.FixedZone("test", 2*60*60)
	now := time.Date(2026, 4, 2, 1, 0, 0, 0, loc)
	sameDay := time.Date(2026, 4, 2, 0, 30, 0, 0, loc)
	yesterday := time.Date(2026, 4, 1, 23, 30, 0, 0, loc)

	if session.IsNewDay(&sameDay, now) {
		t.Fatal("expected same local day")
	}
	if !session.IsNewDay(&yesterday, now) {
		t.Fatal("expected new day across local midnight")
	}
	// 2026-04-01 22:45 UTC is 00:45 on 2026-04-02 in loc.
	utcPrev := time.Date(2026, 4, 1, 22, 45, 0, 0, time.UTC)
	if session.IsNewDay(&utcPrev, now) {
		t.Fatal("expected comparison in now's location")
	}
	if !session.IsNewDay(nil, now) {
		t.Fatal("expected missing previous start to count as new day")
	}
}
