package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"continuum/internal/review"
)

var labelCaser = cases.Title(language.Und)

func titleLabel(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "-"
	}
	return labelCaser.String(value)
}

func priorityIcon(p review.Priority) string {
	switch p {
	case review.PriorityHigh:
		return "🔴"
	case review.PriorityMedium:
		return "🟡"
	case review.PriorityLow:
		return "🟢"
	default:
		return "⚪"
	}
}

// formatMinutes renders minute counts as "N min" below an hour and "Hh Mm" from
// there on.
func formatMinutes(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

func formatAverage(minutes float64) string {
	return formatMinutes(int(math.Round(minutes)))
}

func waitingSince(created, now time.Time) string {
	minutes := int(now.Sub(created) / time.Minute)
	if minutes < 0 {
		minutes = 0
	}
	return formatMinutes(minutes)
}

func renderQueue(items []review.Item, now time.Time) string {
	var b strings.Builder
	if len(items) == 0 {
		b.WriteString("HUMAN REVIEW QUEUE - EMPTY\n\n")
		b.WriteString("No tasks awaiting review.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "HUMAN REVIEW QUEUE - %d %s pending\n\n", len(items), pluralize(len(items), "task", "tasks"))

	rows := make([][]string, 0, len(items))
	for i, item := range items {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			priorityIcon(item.Priority) + " " + titleLabel(string(item.Priority)),
			item.ID,
			titleLabel(item.Type),
			item.Task,
			fmt.Sprintf("%d%%", item.ConfidenceScore),
			waitingSince(item.CreatedAt, now),
			item.EstimatedReviewTime,
		})
	}
	b.WriteString(renderTable([]column{
		{header: "#", right: true},
		{header: "Priority"},
		{header: "ID"},
		{header: "Type"},
		{header: "Task", maxWidth: 48},
		{header: "Confidence", right: true},
		{header: "Waiting", right: true},
		{header: "Estimate"},
	}, rows))
	b.WriteString("\n")

	for _, item := range items {
		if len(item.UncertaintyReasons) == 0 && item.PlanFile == "" && len(item.BlockedTasks) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s\n", item.ID)
		for _, reason := range item.UncertaintyReasons {
			fmt.Fprintf(&b, "  - %s\n", reason)
		}
		if item.PlanFile != "" {
			fmt.Fprintf(&b, "  Plan: %s\n", item.PlanFile)
		}
		if len(item.BlockedTasks) > 0 {
			fmt.Fprintf(&b, "  Blocks: %s\n", strings.Join(item.BlockedTasks, ", "))
		}
	}

	b.WriteString("\nApprove: continuum approve <id> [notes]\n")
	b.WriteString("Reject:  continuum reject <id> [reason]\n")
	return b.String()
}

func renderStats(report review.Report) string {
	var b strings.Builder
	b.WriteString("REVIEW QUEUE STATISTICS\n\n")
	fmt.Fprintf(&b, "  Pending:        %d\n", report.Pending)
	fmt.Fprintf(&b, "  Total queued:   %d\n", report.TotalQueued)
	fmt.Fprintf(&b, "  Approved:       %d\n", report.TotalApproved)
	fmt.Fprintf(&b, "  Rejected:       %d\n", report.TotalRejected)
	fmt.Fprintf(&b, "  Average wait:   %s\n", formatAverage(report.AverageWaitTimeMinutes))
	fmt.Fprintf(&b, "  Longest wait:   %s\n", formatMinutes(report.LongestWaitTimeMinutes))
	fmt.Fprintf(&b, "  Approval rate:  %d%%\n", int(math.Round(report.ApprovalRate*100)))

	if report.Pending == 0 {
		return b.String()
	}

	b.WriteString("\nPending by priority:\n")
	rows := make([][]string, 0, len(review.Priorities))
	for _, p := range review.Priorities {
		rows = append(rows, []string{priorityIcon(p) + " " + titleLabel(string(p)), strconv.Itoa(report.ByPriority[p])})
	}
	b.WriteString(renderTable([]column{{header: "Priority"}, {header: "Count", right: true}}, rows))
	b.WriteString("\n")

	b.WriteString("\nPending by type:\n")
	rows = rows[:0]
	for _, tc := range report.ByType {
		rows = append(rows, []string{titleLabel(tc.Type), strconv.Itoa(tc.Count)})
	}
	b.WriteString(renderTable([]column{{header: "Type"}, {header: "Count", right: true}}, rows))
	b.WriteString("\n")
	return b.String()
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
