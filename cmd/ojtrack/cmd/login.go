package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ojtrack/ojtrack/internal/domain/route"
	"github.com/ojtrack/ojtrack/internal/domain/session"
)

var loginPassword string

var loginCmd = &cobra.Command{
	Use:   "login [email]",
	Short: "Sign in and persist the session",
	Long: `Sign in to the OJT server. On success the bearer token and your user
record are stored in the credential file, so subsequent commands run
authenticated until you log out.

The password is read from the --password flag or, when omitted, from a
prompt on standard input.

Examples:
  ojtrack login coordinator@uni.edu
  ojtrack login student@uni.edu --password s3cret`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "password (prompted when omitted)")
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}

	if s := a.session.Current(); s.Present() {
		fmt.Fprintf(os.Stderr, "Already logged in as %s. Run 'ojtrack logout' first to switch accounts.\n", s.User.Email)
		return nil
	}

	email := ""
	if len(args) == 1 {
		email = args[0]
	} else {
		email, err = promptLine("Email: ")
		if err != nil {
			return err
		}
	}

	password := loginPassword
	if password == "" {
		password, err = promptLine("Password: ")
		if err != nil {
			return err
		}
	}

	err = withSpinner("signing in", func() error {
		return a.session.Login(cmd.Context(), email, password)
	})
	if err != nil {
		if errors.Is(err, session.ErrLoginInProgress) {
			return errors.New("another login is still in progress")
		}
		return presentError(err)
	}

	user := a.session.Current().User
	fmt.Printf("Logged in as %s (%s)\n", user.Email, user.Role)

	// Tell the user where they land. An unknown role means this client has
	// no screens for the account; keep no session for it.
	target, err := route.Resolve(a.session.IsLoading(), user)
	if err != nil {
		a.session.Logout(cmd.Context())
		return fmt.Errorf("this account's role %q is not supported by this client; logged out", user.Role)
	}
	fmt.Printf("Landing screen: %s\n", target)
	return nil
}

func promptLine(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
