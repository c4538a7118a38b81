package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ojtrack/ojtrack/internal/adapter/outbound/api"
	"github.com/ojtrack/ojtrack/internal/domain/session"
)

var submitFlags api.SubmitApplicationRequest

var applicationCmd = &cobra.Command{
	Use:   "application",
	Short: "View or submit your OJT application (student)",
}

var applicationShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show your application and its review status",
	RunE:  runApplicationShow,
}

var applicationSubmitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit your OJT application",
	Long: `Submit your OJT application for review.

Example:
  ojtrack application submit --company "Acme Software Inc." \
    --start 2026-09-01 --end 2026-12-12`,
	RunE: runApplicationSubmit,
}

func init() {
	applicationSubmitCmd.Flags().StringVar(&submitFlags.PreferredCompany, "company", "", "preferred company")
	applicationSubmitCmd.Flags().StringVar(&submitFlags.StartDate, "start", "", "preferred start date (YYYY-MM-DD)")
	applicationSubmitCmd.Flags().StringVar(&submitFlags.EndDate, "end", "", "preferred end date (YYYY-MM-DD)")
	applicationSubmitCmd.Flags().StringVar(&submitFlags.Remarks, "remarks", "", "free-form remarks")
	_ = applicationSubmitCmd.MarkFlagRequired("company")
	applicationCmd.AddCommand(applicationShowCmd, applicationSubmitCmd)
	rootCmd.AddCommand(applicationCmd)
}

func runApplicationShow(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	if _, err := a.requireRole(session.RoleStudent); err != nil {
		return err
	}

	var app *api.StudentApplication
	err = withSpinner("fetching application", func() error {
		app, err = a.client.MyApplication(cmd.Context())
		return err
	})
	if err != nil {
		return presentError(err)
	}

	if app.ID == "" && app.Status == "" {
		fmt.Println("No application on file. Run 'ojtrack application submit' to file one.")
		return nil
	}

	fmt.Printf("Status:            %s\n", colorStatus(app.Status))
	fmt.Printf("Preferred company: %s\n", dash(app.PreferredCompany))
	fmt.Printf("Start date:        %s\n", dash(app.StartDate))
	fmt.Printf("End date:          %s\n", dash(app.EndDate))
	if app.Remarks != "" {
		fmt.Printf("Remarks:           %s\n", app.Remarks)
	}
	return nil
}

func runApplicationSubmit(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	if _, err := a.requireRole(session.RoleStudent); err != nil {
		return err
	}

	err = withSpinner("submitting application", func() error {
		return a.client.SubmitApplication(cmd.Context(), submitFlags)
	})
	if err != nil {
		return presentError(err)
	}
	fmt.Println("Application submitted. Track it with 'ojtrack application show'.")
	return nil
}
