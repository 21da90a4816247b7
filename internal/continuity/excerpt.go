package continuity

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"continuum/internal/store"
)

const (
	// NotSpecified stands in for a ledger section that is absent.
	NotSpecified = "Not specified"
	// NotAvailable stands in for a missing handoff summary.
	NotAvailable = "Not available"
	// UnknownTitle stands in for a handoff without a recognizable title.
	UnknownTitle = "Unknown"

	goalLimit    = 200
	focusLimit   = 100
	summaryLimit = 200
)

// Outcome is the recorded result of the session a handoff describes.
type Outcome string

const (
	OutcomeSucceeded Outcome = "SUCCEEDED"
	OutcomePartial   Outcome = "PARTIAL"
	OutcomeFailed    Outcome = "FAILED"
	OutcomeUnknown   Outcome = "UNKNOWN"
)

// LedgerExcerpt summarizes a ledger for restoration.
type LedgerExcerpt struct {
	File           string
	ModTime        time.Time
	Goal           string
	CompletedCount int
	CurrentFocus   string
	RemainingSteps int
}

// HandoffExcerpt summarizes a handoff for restoration.
type HandoffExcerpt struct {
	File       string
	ModTime    time.Time
	Title      string
	Outcome    Outcome
	Completion int
	Summary    string
	NextSteps  int
}

// ExcerptLedger extracts goal, completed count, current focus, and remaining
// steps from a ledger body. Absent sections yield placeholders.
func ExcerptLedger(doc store.Document, body string) LedgerExcerpt {
	parsed := Parse(body)

	excerpt := LedgerExcerpt{
		File:         doc.Name,
		ModTime:      doc.ModTime,
		Goal:         truncate(parsed.Section("Goal").Or(NotSpecified), goalLimit),
		CurrentFocus: truncate(parsed.Section("Current Focus").Or(NotSpecified), focusLimit),
	}
	if completed := parsed.Section("Completed Work"); completed.Found {
		excerpt.CompletedCount = len(nonEmptyLines(completed.Value))
	}
	if next := parsed.Section("Next Steps"); next.Found {
		for _, line := range nonEmptyLines(next.Value) {
			if strings.Contains(line, "**") {
				excerpt.RemainingSteps++
			}
		}
	}
	return excerpt
}

// ExcerptHandoff extracts title, outcome, completion, summary, and next-step
// count from a handoff body.
func ExcerptHandoff(doc store.Document, body string) HandoffExcerpt {
	parsed := Parse(body)

	excerpt := HandoffExcerpt{
		File:       doc.Name,
		ModTime:    doc.ModTime,
		Title:      HandoffTitle(parsed).Or(UnknownTitle),
		Outcome:    parseOutcome(parsed.Label("Outcome")),
		Completion: parseCompletion(parsed.Label("Completion")),
		Summary:    truncate(parsed.Section("Executive Summary").Or(NotAvailable), summaryLimit),
	}
	if next := parsed.Section("Next Steps"); next.Found {
		for _, line := range nonEmptyLines(next.Value) {
			if isNumberedItem(line) {
				excerpt.NextSteps++
			}
		}
	}
	return excerpt
}

// HandoffTitle returns the text after "Handoff - " in the level-one heading.
func HandoffTitle(doc Document) Field {
	return titleAfter(doc, "Handoff")
}

// PlanTitle returns the text after "Implementation Plan - " in the level-one heading.
func PlanTitle(doc Document) Field {
	return titleAfter(doc, "Implementation Plan")
}

func titleAfter(doc Document, kind string) Field {
	heading := doc.Heading()
	if !heading.Found {
		return Field{}
	}
	rest, ok := strings.CutPrefix(heading.Value, kind)
	if !ok {
		return Field{}
	}
	rest = strings.TrimLeft(rest, " ")
	rest, ok = strings.CutPrefix(rest, "-")
	if !ok {
		return Field{}
	}
	title := strings.TrimSpace(rest)
	return Field{Value: title, Found: title != ""}
}

// ParseOutcome exposes outcome parsing for artifact indexing.
func ParseOutcome(doc Document) Outcome {
	return parseOutcome(doc.Label("Outcome"))
}

// ParseCompletion exposes completion parsing for artifact indexing.
func ParseCompletion(doc Document) int {
	return parseCompletion(doc.Label("Completion"))
}

func parseOutcome(label Field) Outcome {
	if !label.Found {
		return OutcomeUnknown
	}
	upper := strings.ToUpper(label.Value)
	best, bestIdx := OutcomeUnknown, -1
	for _, candidate := range []Outcome{OutcomeSucceeded, OutcomePartial, OutcomeFailed} {
		idx := strings.Index(upper, string(candidate))
		if idx >= 0 && (bestIdx < 0 || idx < bestIdx) {
			best, bestIdx = candidate, idx
		}
	}
	return best
}

// parseCompletion reads "N%" or "[N%" at the start of the label value.
func parseCompletion(label Field) int {
	if !label.Found {
		return 0
	}
	value := strings.TrimPrefix(label.Value, "[")
	end := strings.IndexFunc(value, func(r rune) bool { return !unicode.IsDigit(r) })
	if end <= 0 || value[end] != '%' {
		return 0
	}
	n, err := strconv.Atoi(value[:end])
	if err != nil {
		return 0
	}
	return n
}

func isNumberedItem(line string) bool {
	line = strings.TrimSpace(line)
	end := strings.IndexFunc(line, func(r rune) bool { return !unicode.IsDigit(r) })
	return end > 0 && line[end] == '.'
}
