package review

import (
	"fmt"
	"strings"
	"time"

	"continuum/internal/faults"
)

// Priority orders pending items.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Priorities lists the recognized priorities in rank order.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// Rank returns the sort rank; lower ranks are reviewed first. Unrecognized
// priorities sort after low.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// ParsePriority normalizes a priority name. Empty means medium.
func ParsePriority(value string) (Priority, error) {
	normalized := Priority(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return PriorityMedium, nil
	}
	for _, p := range Priorities {
		if normalized == p {
			return p, nil
		}
	}
	return "", faults.Wrap(faults.ErrValidation, "review", "parse priority", fmt.Sprintf("unknown priority %q (want high, medium, or low)", value), nil)
}

// Status is the lifecycle state of a queue record.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Item is a request awaiting a human decision.
type Item struct {
	ID                  string    `json:"id"`
	Priority            Priority  `json:"priority"`
	Type                string    `json:"type"`
	Task                string    `json:"task"`
	ConfidenceScore     int       `json:"confidenceScore"`
	CreatedAt           time.Time `json:"createdAt"`
	PlanFile            string    `json:"planFile,omitempty"`
	UncertaintyReasons  []string  `json:"uncertaintyReasons"`
	BlockedTasks        []string  `json:"blockedTasks"`
	EstimatedReviewTime string    `json:"estimatedReviewTime,omitempty"`
	Status              Status    `json:"status"`
}

// HistoryEntry is a decided item. Entries are never modified after they are
// appended; retention cleanup may delete them.
type HistoryEntry struct {
	Item
	ApprovedAt      *time.Time `json:"approvedAt,omitempty"`
	RejectedAt      *time.Time `json:"rejectedAt,omitempty"`
	WaitTimeMinutes int        `json:"waitTimeMinutes"`
	Notes           string     `json:"notes,omitempty"`
	RejectionReason string     `json:"rejectionReason,omitempty"`
}

// DecisionTime returns the approval or rejection time, falling back to the
// creation time.
func (h HistoryEntry) DecisionTime() time.Time {
	switch {
	case h.ApprovedAt != nil:
		return *h.ApprovedAt
	case h.RejectedAt != nil:
		return *h.RejectedAt
	default:
		return h.CreatedAt
	}
}

// Statistics are running counters maintained across operations.
type Statistics struct {
	TotalQueued            int     `json:"totalQueued"`
	TotalApproved          int     `json:"totalApproved"`
	TotalRejected          int     `json:"totalRejected"`
	AverageWaitTimeMinutes float64 `json:"averageWaitTimeMinutes"`
	LongestWaitTimeMinutes int     `json:"longestWaitTimeMinutes"`
}

// Store is the persisted queue document.
type Store struct {
	Version     string         `json:"version"`
	LastUpdated time.Time      `json:"lastUpdated"`
	Pending     []Item         `json:"queue"`
	Statistics  Statistics     `json:"statistics"`
	History     []HistoryEntry `json:"history"`
}

// StoreVersion tags documents written by this package.
const StoreVersion = "1.0"

func emptyStore() Store {
	return Store{
		Version: StoreVersion,
		Pending: []Item{},
		History: []HistoryEntry{},
	}
}

// AddRequest carries the fields for a new queue item. Zero values take the
// defaults: type "general", priority medium, a "15 min" review estimate, and
// a confidence of 50 when Confidence is nil.
type AddRequest struct {
	Task                string
	Type                string
	Priority            string
	Confidence          *int
	PlanFile            string
	UncertaintyReasons  []string
	BlockedTasks        []string
	EstimatedReviewTime string
}

const (
	defaultType                = "general"
	defaultConfidence          = 50
	defaultEstimatedReviewTime = "15 min"
	// DefaultHistoryRetentionDays applies when CleanHistory gets zero days.
	DefaultHistoryRetentionDays = 30
)
