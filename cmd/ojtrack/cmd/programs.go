package cmd

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/ojtrack/ojtrack/internal/adapter/outbound/api"
	"github.com/ojtrack/ojtrack/internal/domain/session"
)

var programFlags api.CreateProgramRequest

var programsCmd = &cobra.Command{
	Use:   "programs",
	Short: "Manage OJT programs (admin)",
}

var programsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all OJT programs",
	RunE:  runProgramsList,
}

var programsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Add a program offering",
	Long: `Add a program offering students can apply under.

Example:
  ojtrack programs create --name "BS Information Technology" \
    --description "486-hour industry immersion"`,
	RunE: runProgramsCreate,
}

func init() {
	programsCreateCmd.Flags().StringVar(&programFlags.ProgramName, "name", "", "program name")
	programsCreateCmd.Flags().StringVar(&programFlags.Description, "description", "", "short description")
	_ = programsCreateCmd.MarkFlagRequired("name")
	programsCmd.AddCommand(programsListCmd, programsCreateCmd)
	rootCmd.AddCommand(programsCmd)
}

func runProgramsList(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	if _, err := a.requireRole(session.RoleAdmin); err != nil {
		return err
	}

	var programs []api.Program
	err = withSpinner("fetching programs", func() error {
		programs, err = a.client.ListPrograms(cmd.Context())
		return err
	})
	if err != nil {
		return presentError(err)
	}

	rows := make([]table.Row, 0, len(programs))
	for _, p := range programs {
		rows = append(rows, table.Row{p.ID, p.ProgramName, dash(p.Description)})
	}
	renderTable(table.Row{"ID", "Program", "Description"}, rows)
	fmt.Printf("%d program(s)\n", len(programs))
	return nil
}

func runProgramsCreate(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	if _, err := a.requireRole(session.RoleAdmin); err != nil {
		return err
	}

	err = withSpinner("creating program", func() error {
		return a.client.CreateProgram(cmd.Context(), programFlags)
	})
	if err != nil {
		return presentError(err)
	}
	fmt.Printf("Program %q created.\n", programFlags.ProgramName)
	return nil
}
