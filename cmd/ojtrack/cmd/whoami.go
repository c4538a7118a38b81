package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	Long:  `Print the logged-in user and where the session is stored.`,
	RunE:  runWhoami,
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

func runWhoami(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}

	s, err := a.requireSession()
	if err != nil {
		return err
	}

	fmt.Printf("Name:        %s\n", s.User.Name)
	fmt.Printf("Email:       %s\n", s.User.Email)
	fmt.Printf("Role:        %s\n", s.User.Role)
	fmt.Printf("Credentials: %s\n", a.store.Path())
	return nil
}
