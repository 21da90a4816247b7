package artifacts

import (
	"path/filepath"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"continuum/internal/continuity"
)

const (
	summaryLimit     = 500
	minKeywordLength = 3
)

// Kind distinguishes handoffs from plans.
type Kind string

const (
	KindHandoff Kind = "handoff"
	KindPlan    Kind = "plan"
)

// Artifact is the indexed metadata of one markdown document.
type Artifact struct {
	Path       string    `json:"path"`
	Kind       Kind      `json:"kind"`
	Title      string    `json:"title"`
	Outcome    string    `json:"outcome,omitempty"`
	Completion int       `json:"completion,omitempty"`
	Summary    string    `json:"summary"`
	Keywords   []string  `json:"keywords"`
	ModifiedAt time.Time `json:"modifiedAt"`
	IndexedAt  time.Time `json:"indexedAt"`
}

// Classify reports which artifact kind path belongs to. Only markdown files
// inside the handoffs or plans directory qualify.
func Classify(path, handoffsDir, plansDir string) (Kind, bool) {
	if !strings.EqualFold(filepath.Ext(path), ".md") {
		return "", false
	}
	switch {
	case within(path, handoffsDir):
		return KindHandoff, true
	case within(path, plansDir):
		return KindPlan, true
	default:
		return "", false
	}
}

func within(path, dir string) bool {
	if strings.TrimSpace(dir) == "" {
		return false
	}
	rel, err := filepath.Rel(filepath.Clean(dir), filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel != "." && !strings.HasPrefix(rel, "..")
}

// Parse extracts artifact metadata from a document body.
func Parse(path string, kind Kind, body string, modTime time.Time) Artifact {
	doc := continuity.Parse(body)

	title := continuity.HandoffTitle(doc)
	if !title.Found {
		title = continuity.PlanTitle(doc)
	}

	artifact := Artifact{
		Path:       path,
		Kind:       kind,
		Title:      title.Or(continuity.UnknownTitle),
		Summary:    clip(doc.Section("Executive Summary").Value, summaryLimit),
		Keywords:   Keywords(doc.Section("Search Keywords").Value),
		ModifiedAt: modTime,
	}
	if kind == KindHandoff {
		if outcome := continuity.ParseOutcome(doc); outcome != continuity.OutcomeUnknown {
			artifact.Outcome = string(outcome)
		}
		artifact.Completion = continuity.ParseCompletion(doc)
	}
	return artifact
}

// Keywords splits a keyword section on commas and whitespace, dropping
// words shorter than three characters.
func Keywords(section string) []string {
	fields := strings.FieldsFunc(section, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	out := make([]string, 0, len(fields))
	for _, field := range fields {
		if utf8.RuneCountInString(field) >= minKeywordLength {
			out = append(out, field)
		}
	}
	return out
}

func clip(s string, n int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
