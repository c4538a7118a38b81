package cmd

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/ojtrack/ojtrack/internal/adapter/outbound/api"
	"github.com/ojtrack/ojtrack/internal/domain/session"
)

var (
	applicationsCreateFlags api.SubmitApplicationRequest

	reviewStatus    string
	reviewPartnerID string
	reviewStart     string
	reviewEnd       string
	reviewHours     int
	reviewRemarks   string
)

var applicationsCmd = &cobra.Command{
	Use:   "applications",
	Short: "Manage OJT applications (admin)",
}

var applicationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all OJT applications",
	RunE:  runApplicationsList,
}

var applicationsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "File an application on a student's behalf",
	RunE:  runApplicationsCreate,
}

var applicationsReviewCmd = &cobra.Command{
	Use:   "review <id>",
	Short: "Approve or reject an application",
	Long: `Set the review outcome for an application. Approval assigns the
partner placement; fields left out are cleared on the server.

Examples:
  ojtrack applications review 17 --status Approved --partner-id 3 \
    --start 2026-09-01 --end 2026-12-12 --hours 486

  ojtrack applications review 18 --status Rejected --remarks "incomplete documents"`,
	Args: cobra.ExactArgs(1),
	RunE: runApplicationsReview,
}

func init() {
	applicationsCreateCmd.Flags().StringVar(&applicationsCreateFlags.PreferredCompany, "company", "", "preferred company")
	applicationsCreateCmd.Flags().StringVar(&applicationsCreateFlags.StartDate, "start", "", "preferred start date (YYYY-MM-DD)")
	applicationsCreateCmd.Flags().StringVar(&applicationsCreateFlags.EndDate, "end", "", "preferred end date (YYYY-MM-DD)")
	applicationsCreateCmd.Flags().StringVar(&applicationsCreateFlags.Remarks, "remarks", "", "free-form remarks")

	applicationsReviewCmd.Flags().StringVar(&reviewStatus, "status", "", "Pending, Approved, or Rejected")
	applicationsReviewCmd.Flags().StringVar(&reviewPartnerID, "partner-id", "", "assigned partner company")
	applicationsReviewCmd.Flags().StringVar(&reviewStart, "start", "", "placement start date (YYYY-MM-DD)")
	applicationsReviewCmd.Flags().StringVar(&reviewEnd, "end", "", "placement end date (YYYY-MM-DD)")
	applicationsReviewCmd.Flags().IntVar(&reviewHours, "hours", 0, "required OJT hours")
	applicationsReviewCmd.Flags().StringVar(&reviewRemarks, "remarks", "", "reviewer remarks")
	_ = applicationsReviewCmd.MarkFlagRequired("status")

	applicationsCmd.AddCommand(applicationsListCmd, applicationsCreateCmd, applicationsReviewCmd)
	rootCmd.AddCommand(applicationsCmd)
}

func runApplicationsList(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	if _, err := a.requireRole(session.RoleAdmin); err != nil {
		return err
	}

	var apps []api.Application
	err = withSpinner("fetching applications", func() error {
		apps, err = a.client.ListApplications(cmd.Context())
		return err
	})
	if err != nil {
		return presentError(err)
	}

	rows := make([]table.Row, 0, len(apps))
	for _, app := range apps {
		rows = append(rows, table.Row{
			app.ID, app.StudentName, dash(app.Program), dash(app.ApplicationDate),
			dash(app.PartnerName), colorStatus(app.Status),
		})
	}
	renderTable(table.Row{"ID", "Student", "Program", "Applied", "Partner", "Status"}, rows)
	fmt.Printf("%d application(s)\n", len(apps))
	return nil
}

func runApplicationsCreate(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	if _, err := a.requireRole(session.RoleAdmin); err != nil {
		return err
	}

	err = withSpinner("creating application", func() error {
		return a.client.CreateApplication(cmd.Context(), applicationsCreateFlags)
	})
	if err != nil {
		return presentError(err)
	}
	fmt.Println("Application created.")
	return nil
}

func runApplicationsReview(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	if _, err := a.requireRole(session.RoleAdmin); err != nil {
		return err
	}

	switch reviewStatus {
	case api.StatusPending, api.StatusApproved, api.StatusRejected:
	default:
		return fmt.Errorf("--status must be %s, %s, or %s",
			api.StatusPending, api.StatusApproved, api.StatusRejected)
	}

	// Only flags the user set travel as values; the rest go as explicit
	// nulls so the server clears stale placement data.
	req := api.ReviewApplicationRequest{Status: reviewStatus}
	if cmd.Flags().Changed("partner-id") {
		req.PartnerID = &reviewPartnerID
	}
	if cmd.Flags().Changed("start") {
		req.StartDate = &reviewStart
	}
	if cmd.Flags().Changed("end") {
		req.EndDate = &reviewEnd
	}
	if cmd.Flags().Changed("hours") {
		req.RequiredHours = &reviewHours
	}
	if cmd.Flags().Changed("remarks") {
		req.Remarks = &reviewRemarks
	}

	err = withSpinner("submitting review", func() error {
		return a.client.ReviewApplication(cmd.Context(), args[0], req)
	})
	if err != nil {
		return presentError(err)
	}
	fmt.Printf("Application %s marked %s.\n", args[0], colorStatus(reviewStatus))
	return nil
}
