package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear the session",
	Long: `Sign out of the OJT server and remove the local credential file.

The server is told to invalidate the token first, best effort: if the
server is unreachable or already rejects the token, the local session is
cleared anyway. Logout never fails.`,
	RunE: runLogout,
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

func runLogout(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}

	if !a.session.Current().Present() {
		fmt.Fprintln(os.Stderr, "Not logged in.")
		return nil
	}

	_ = withSpinner("signing out", func() error {
		a.session.Logout(cmd.Context())
		return nil
	})

	fmt.Println("Logged out.")
	return nil
}
