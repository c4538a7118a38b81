package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ojtrack/ojtrack/internal/adapter/outbound/api"
	"github.com/ojtrack/ojtrack/internal/domain/session"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show your OJT progress (student)",
	RunE:  runProgress,
}

func init() {
	rootCmd.AddCommand(progressCmd)
}

func runProgress(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	if _, err := a.requireRole(session.RoleStudent); err != nil {
		return err
	}

	var p *api.Progress
	err = withSpinner("fetching progress", func() error {
		p, err = a.client.Progress(cmd.Context())
		return err
	})
	if err != nil {
		return presentError(err)
	}

	fmt.Printf("Status:    %s\n", colorStatus(p.Status))
	if p.PartnerName != "" {
		fmt.Printf("Placement: %s\n", p.PartnerName)
	}
	if p.StartDate != "" || p.EndDate != "" {
		fmt.Printf("Period:    %s to %s\n", dash(p.StartDate), dash(p.EndDate))
	}
	fmt.Printf("Hours:     %d / %d\n", p.CompletedHours, p.RequiredHours)
	fmt.Printf("Progress:  %s %d%%\n", progressBar(p.Percentage()), p.Percentage())
	return nil
}

// progressBar renders a 20-cell completion bar.
func progressBar(pct int) string {
	const width = 20
	filled := pct * width / 100
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}
