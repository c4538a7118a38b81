// Package report holds client-side handling of generated reports: CEL-based
// row filtering and the status roll-ups shown on the reports dashboard.
package report

import "sort"

// Row is one row of a generated report. Reports are schema-less on the wire;
// the column set depends on the report type.
type Row map[string]any

// Summary is a status roll-up over a report, e.g. total/pending/approved for
// the applications report.
type Summary struct {
	Total    int
	ByStatus map[string]int
}

// Summarize counts rows per "status" column value. Rows without a string
// status only count toward the total.
func Summarize(rows []Row) Summary {
	s := Summary{ByStatus: make(map[string]int)}
	for _, row := range rows {
		s.Total++
		if status, ok := row["status"].(string); ok && status != "" {
			s.ByStatus[status]++
		}
	}
	return s
}

// Statuses returns the status keys in stable alphabetical order.
func (s Summary) Statuses() []string {
	keys := make([]string, 0, len(s.ByStatus))
	for k := range s.ByStatus {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
