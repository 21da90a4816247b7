package hooks

import (
	"fmt"
	"strings"
	"time"

	"continuum/internal/continuity"
)

const (
	heavyRule = "═══════════════════════════════════════════════════════════════"
	lightRule = "───────────────────────────────────────────────────────────────"
)

// report accumulates console lines.
type report struct {
	lines []string
}

func (r *report) line(format string, args ...any) {
	if len(args) == 0 {
		r.lines = append(r.lines, format)
		return
	}
	r.lines = append(r.lines, fmt.Sprintf(format, args...))
}

func (r *report) blank() {
	r.lines = append(r.lines, "")
}

func (r *report) banner(title string) {
	r.blank()
	r.line(heavyRule)
	r.line(title)
	r.line(heavyRule)
	r.blank()
}

func (r *report) section(title string) {
	r.line(lightRule)
	r.line(title)
	r.line(lightRule)
	r.blank()
}

func (r *report) String() string {
	if len(r.lines) == 0 {
		return ""
	}
	return strings.Join(r.lines, "\n") + "\n"
}

// relativeAge renders how long ago t was, in whole minutes, hours or days.
func relativeAge(t, now time.Time) string {
	age := now.Sub(t)
	minutes := int(age / time.Minute)
	hours := minutes / 60
	days := hours / 24
	switch {
	case minutes < 1:
		return "just now"
	case minutes < 60:
		return plural(minutes, "minute") + " ago"
	case hours < 24:
		return plural(hours, "hour") + " ago"
	default:
		return plural(days, "day") + " ago"
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

func outcomeMarker(outcome continuity.Outcome) string {
	switch outcome {
	case continuity.OutcomeSucceeded:
		return "✅"
	case continuity.OutcomePartial:
		return "⏳"
	default:
		return "❌"
	}
}

// firstLine returns the first line of s clipped to n runes.
func firstLine(s string, n int) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)
	if runes := []rune(s); len(runes) > n {
		return string(runes[:n]) + "..."
	}
	return s
}
