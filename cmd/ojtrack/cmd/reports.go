package cmd

import (
	"fmt"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/ojtrack/ojtrack/internal/adapter/outbound/api"
	"github.com/ojtrack/ojtrack/internal/domain/report"
	"github.com/ojtrack/ojtrack/internal/domain/session"
)

var (
	reportRange  string
	reportStatus string
	reportFilter string
)

var reportsCmd = &cobra.Command{
	Use:   "reports <type>",
	Short: "Generate and filter reports (admin)",
	Long: `Generate a report server-side and render it as a table. Type is one
of: applications, partners, students.

Rows can be filtered client-side with a CEL expression over the "row"
map. Column names follow the report's JSON keys.

Examples:
  ojtrack reports applications --range month
  ojtrack reports applications --status Pending
  ojtrack reports applications --filter 'row.status == "Approved" && int(row.requiredHours) >= 300'
  ojtrack reports partners --filter 'row.status == "active"'`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"applications", "partners", "students"},
	RunE:      runReports,
}

func init() {
	reportsCmd.Flags().StringVar(&reportRange, "range", "all", "date range: all, month, or semester")
	reportsCmd.Flags().StringVar(&reportStatus, "status", "", "restrict to one status server-side")
	reportsCmd.Flags().StringVar(&reportFilter, "filter", "", "CEL row filter, e.g. 'row.status == \"Pending\"'")
	rootCmd.AddCommand(reportsCmd)
}

func runReports(cmd *cobra.Command, args []string) error {
	// Compile the filter before any network round trip so a typo fails fast.
	var filter *report.Filter
	if reportFilter != "" {
		var err error
		filter, err = report.NewFilter(reportFilter)
		if err != nil {
			return err
		}
	}

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	if _, err := a.requireRole(session.RoleAdmin); err != nil {
		return err
	}

	var rows []report.Row
	err = withSpinner("generating report", func() error {
		rows, err = a.client.Report(cmd.Context(), api.ReportRequest{
			Type:      args[0],
			DateRange: reportRange,
			Status:    reportStatus,
		})
		return err
	})
	if err != nil {
		return presentError(err)
	}

	fetched := len(rows)
	if filter != nil {
		rows, err = filter.Apply(cmd.Context(), rows)
		if err != nil {
			return err
		}
	}

	renderReport(rows)

	if filter != nil {
		fmt.Printf("%d of %d row(s) matched the filter\n", len(rows), fetched)
	}
	summary := report.Summarize(rows)
	fmt.Printf("Total: %d", summary.Total)
	for _, status := range summary.Statuses() {
		fmt.Printf("  %s: %d", colorStatus(status), summary.ByStatus[status])
	}
	fmt.Println()
	return nil
}

// renderReport prints schema-less rows with a stable column order: the union
// of keys across rows, alphabetical, status last.
func renderReport(rows []report.Row) {
	if len(rows) == 0 {
		fmt.Println("No rows.")
		return
	}

	columns := reportColumns(rows)

	header := make(table.Row, 0, len(columns))
	for _, c := range columns {
		header = append(header, c)
	}

	out := make([]table.Row, 0, len(rows))
	for _, row := range rows {
		tr := make(table.Row, 0, len(columns))
		for _, c := range columns {
			v, ok := row[c]
			if !ok || v == nil {
				tr = append(tr, "-")
				continue
			}
			if c == "status" {
				tr = append(tr, colorStatus(fmt.Sprint(v)))
				continue
			}
			tr = append(tr, fmt.Sprint(v))
		}
		out = append(out, tr)
	}
	renderTable(header, out)
}

func reportColumns(rows []report.Row) []string {
	seen := make(map[string]bool)
	var columns []string
	for _, row := range rows {
		for k := range row {
			if !seen[k] {
				seen[k] = true
				columns = append(columns, k)
			}
		}
	}
	sort.Strings(columns)

	// Status reads best as the last column.
	for i, c := range columns {
		if c == "status" {
			columns = append(append(columns[:i], columns[i+1:]...), "status")
			break
		}
	}
	return columns
}
