package review

import (
	"context"
	"sort"
)

// TypeCount is the number of pending items of one type.
type TypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// Report is the statistics view returned by Stats. ApprovalRate is
// TotalApproved / TotalQueued, or 0 for an empty queue.
type Report struct {
	Statistics
	Pending      int              `json:"pending"`
	ApprovalRate float64          `json:"approvalRate"`
	ByPriority   map[Priority]int `json:"byPriority"`
	ByType       []TypeCount      `json:"byType"`
}

// Stats summarizes the running counters and the pending set.
func (e *Engine) Stats(context.Context) (Report, error) {
	doc, _ := e.Snapshot()
	return BuildReport(doc), nil
}

// BuildReport derives a Report from a queue document.
func BuildReport(doc Store) Report {
	report := Report{
		Statistics: doc.Statistics,
		Pending:    len(doc.Pending),
		ByPriority: make(map[Priority]int),
		ByType:     []TypeCount{},
	}
	if doc.Statistics.TotalQueued > 0 {
		report.ApprovalRate = float64(doc.Statistics.TotalApproved) / float64(doc.Statistics.TotalQueued)
	}

	types := make(map[string]int)
	for _, item := range doc.Pending {
		report.ByPriority[item.Priority]++
		types[item.Type]++
	}
	for name, count := range types {
		report.ByType = append(report.ByType, TypeCount{Type: name, Count: count})
	}
	sort.Slice(report.ByType, func(i, j int) bool {
		if report.ByType[i].Count != report.ByType[j].Count {
			return report.ByType[i].Count > report.ByType[j].Count
		}
		return report.ByType[i].Type < report.ByType[j].Type
	})
	return report
}
