package cmd

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/ojtrack/ojtrack/internal/adapter/outbound/api"
	"github.com/ojtrack/ojtrack/internal/domain/session"
)

var partnerFlags api.CreatePartnerRequest

var partnersCmd = &cobra.Command{
	Use:   "partners",
	Short: "Manage partner companies (admin)",
}

var partnersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all partner companies",
	RunE:  runPartnersList,
}

var partnersCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Add a partner company",
	Long: `Add a host company that accepts trainees.

Example:
  ojtrack partners create --name "Acme Software Inc." \
    --address "12 Rizal Ave, Makati" --contact "J. Santos" \
    --email hr@acme.example --phone "+63 2 8123 4567"`,
	RunE: runPartnersCreate,
}

func init() {
	partnersCreateCmd.Flags().StringVar(&partnerFlags.PartnerName, "name", "", "company name")
	partnersCreateCmd.Flags().StringVar(&partnerFlags.Address, "address", "", "company address")
	partnersCreateCmd.Flags().StringVar(&partnerFlags.Phone, "phone", "", "contact number")
	partnersCreateCmd.Flags().StringVar(&partnerFlags.Email, "email", "", "contact email")
	partnersCreateCmd.Flags().StringVar(&partnerFlags.ContactPerson, "contact", "", "contact person")
	partnersCreateCmd.Flags().StringVar(&partnerFlags.Status, "status", "active", "partner status (active|inactive)")
	_ = partnersCreateCmd.MarkFlagRequired("name")
	partnersCmd.AddCommand(partnersListCmd, partnersCreateCmd)
	rootCmd.AddCommand(partnersCmd)
}

func runPartnersList(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	if _, err := a.requireRole(session.RoleAdmin); err != nil {
		return err
	}

	var partners []api.Partner
	err = withSpinner("fetching partners", func() error {
		partners, err = a.client.ListPartners(cmd.Context())
		return err
	})
	if err != nil {
		return presentError(err)
	}

	rows := make([]table.Row, 0, len(partners))
	for _, p := range partners {
		rows = append(rows, table.Row{
			p.PartnerName, dash(p.ContactPerson), dash(p.Email), dash(p.Phone), colorStatus(p.Status),
		})
	}
	renderTable(table.Row{"Partner", "Contact", "Email", "Phone", "Status"}, rows)
	fmt.Printf("%d partner(s)\n", len(partners))
	return nil
}

func runPartnersCreate(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	if _, err := a.requireRole(session.RoleAdmin); err != nil {
		return err
	}

	err = withSpinner("creating partner", func() error {
		return a.client.CreatePartner(cmd.Context(), partnerFlags)
	})
	if err != nil {
		return presentError(err)
	}
	fmt.Printf("Partner %q created.\n", partnerFlags.PartnerName)
	return nil
}
