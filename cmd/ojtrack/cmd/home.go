package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ojtrack/ojtrack/internal/domain/route"
)

var homeCmd = &cobra.Command{
	Use:   "home",
	Short: "Show your landing screen and menu",
	Long: `Resolve the screen the current session lands on and print the
navigation menu for your role.

With no session this points at the login screen. A stored session whose
role this client does not recognize is cleared, since there would be
nothing to show for it.`,
	RunE: runHome,
}

func init() {
	rootCmd.AddCommand(homeCmd)
}

func runHome(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}

	s := a.session.Current()
	target, err := route.Resolve(a.session.IsLoading(), s.User)
	if err != nil {
		if errors.Is(err, route.ErrUnknownRole) {
			role := s.User.Role
			a.session.ForceLogout()
			return fmt.Errorf("stored session has unsupported role %q; session cleared, please log in again", role)
		}
		return err
	}

	if target == route.RouteLogin {
		fmt.Println("Landing screen: login")
		fmt.Println("\nRun 'ojtrack login <email>' to sign in.")
		return nil
	}

	fmt.Printf("Landing screen: %s\n", target)
	fmt.Printf("\nMenu for %s:\n", s.User.Role)
	for _, item := range route.MenuFor(s.User.Role) {
		fmt.Printf("  %-20s %s\n", item.Route, item.Label)
	}
	return nil
}
