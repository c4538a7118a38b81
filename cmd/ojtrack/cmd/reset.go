package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ojtrack/ojtrack/internal/config"
)

var resetForce bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Remove the local credential file",
	Long: `Remove the credential file without contacting the server.

Unlike 'ojtrack logout' this does not invalidate the token server-side.
Use it when the stored file is corrupt or the server is gone for good.

Examples:
  # Interactive confirmation
  ojtrack reset

  # No prompt
  ojtrack reset --force`,
	RunE: runReset,
}

func init() {
	resetCmd.Flags().BoolVar(&resetForce, "force", false, "Skip confirmation prompt")
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, args []string) error {
	// Resolve the path without wiring the whole app: reset must work even
	// when the config is incomplete or the stored file is unreadable.
	path := credentialsPath
	if path == "" {
		if cfg, err := config.LoadConfig(); err == nil {
			path = cfg.Credentials.Path
		} else {
			path = config.DefaultCredentialsPath()
		}
	}

	targets := []string{path, path + ".lock"}
	var existing []string
	for _, t := range targets {
		if _, err := os.Stat(t); err == nil {
			existing = append(existing, t)
		}
	}

	if len(existing) == 0 {
		fmt.Fprintln(os.Stderr, "Nothing to reset — no credential file found.")
		return nil
	}

	fmt.Fprintln(os.Stderr, "The following will be removed:")
	for _, t := range existing {
		fmt.Fprintf(os.Stderr, "  - %s\n", t)
	}

	if !resetForce {
		fmt.Fprint(os.Stderr, "\nProceed? [y/N] ")
		var answer string
		fmt.Scanln(&answer) //nolint:errcheck // interactive prompt, error irrelevant
		if answer != "y" && answer != "Y" {
			fmt.Fprintln(os.Stderr, "Aborted.")
			return nil
		}
	}

	var failures int
	for _, t := range existing {
		if err := os.Remove(t); err != nil {
			fmt.Fprintf(os.Stderr, "  ERROR removing %s: %v\n", t, err)
			failures++
		} else {
			fmt.Fprintf(os.Stderr, "  Removed %s\n", t)
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d file(s) could not be removed", failures)
	}

	fmt.Fprintln(os.Stderr, "\nReset complete.")
	return nil
}
