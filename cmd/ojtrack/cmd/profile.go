package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ojtrack/ojtrack/internal/adapter/outbound/api"
)

var (
	profileUpdateFlags api.UpdateProfileRequest

	passwdCurrent string
	passwdNew     string
	passwdConfirm string

	deletePassword string
	deleteForce    bool
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "View and edit your profile",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show your profile",
	RunE:  runProfileShow,
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update your name and email",
	RunE:  runProfileUpdate,
}

var profilePasswdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Change your password",
	Long: `Change the account password. The server verifies the current
password and that the confirmation matches.`,
	RunE: runProfilePasswd,
}

var profileDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete your account",
	Long: `Permanently delete the account after password confirmation. The
local session is cleared on success.`,
	RunE: runProfileDelete,
}

func init() {
	profileUpdateCmd.Flags().StringVar(&profileUpdateFlags.Name, "name", "", "full name")
	profileUpdateCmd.Flags().StringVar(&profileUpdateFlags.Email, "email", "", "login email")

	profilePasswdCmd.Flags().StringVar(&passwdCurrent, "current", "", "current password (prompted when omitted)")
	profilePasswdCmd.Flags().StringVar(&passwdNew, "new", "", "new password (prompted when omitted)")
	profilePasswdCmd.Flags().StringVar(&passwdConfirm, "confirm", "", "new password again (prompted when omitted)")

	profileDeleteCmd.Flags().StringVar(&deletePassword, "password", "", "current password (prompted when omitted)")
	profileDeleteCmd.Flags().BoolVar(&deleteForce, "force", false, "Skip confirmation prompt")

	profileCmd.AddCommand(profileShowCmd, profileUpdateCmd, profilePasswdCmd, profileDeleteCmd)
	rootCmd.AddCommand(profileCmd)
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	if _, err := a.requireSession(); err != nil {
		return err
	}

	var p *api.Profile
	err = withSpinner("fetching profile", func() error {
		p, err = a.client.Profile(cmd.Context())
		return err
	})
	if err != nil {
		return presentError(err)
	}

	fmt.Printf("Name:       %s\n", p.Name)
	fmt.Printf("Email:      %s\n", p.Email)
	fmt.Printf("Role:       %s\n", p.Role)
	fmt.Printf("Contact:    %s\n", dash(p.ContactNumber))
	fmt.Printf("Department: %s\n", dash(p.Department))
	fmt.Printf("Joined:     %s\n", dash(p.JoinDate))
	return nil
}

func runProfileUpdate(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	s, err := a.requireSession()
	if err != nil {
		return err
	}

	// Unset flags keep their current values, so a name-only edit does not
	// blank the email.
	req := profileUpdateFlags
	if req.Name == "" {
		req.Name = s.User.Name
	}
	if req.Email == "" {
		req.Email = s.User.Email
	}

	err = withSpinner("updating profile", func() error {
		return a.client.UpdateProfile(cmd.Context(), req)
	})
	if err != nil {
		return presentError(err)
	}
	fmt.Println("Profile updated. Changes apply on next login.")
	return nil
}

func runProfilePasswd(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	if _, err := a.requireSession(); err != nil {
		return err
	}

	current, newPw, confirm := passwdCurrent, passwdNew, passwdConfirm
	if current == "" {
		if current, err = promptLine("Current password: "); err != nil {
			return err
		}
	}
	if newPw == "" {
		if newPw, err = promptLine("New password: "); err != nil {
			return err
		}
	}
	if confirm == "" {
		if confirm, err = promptLine("New password (again): "); err != nil {
			return err
		}
	}

	err = withSpinner("changing password", func() error {
		return a.client.ChangePassword(cmd.Context(), api.ChangePasswordRequest{
			CurrentPassword:      current,
			Password:             newPw,
			PasswordConfirmation: confirm,
		})
	})
	if err != nil {
		return presentError(err)
	}
	fmt.Println("Password changed.")
	return nil
}

func runProfileDelete(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	s, err := a.requireSession()
	if err != nil {
		return err
	}

	if !deleteForce {
		answer, err := promptLine(fmt.Sprintf("Permanently delete the account %s? [y/N] ", s.User.Email))
		if err != nil {
			return err
		}
		if answer != "y" && answer != "Y" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	password := deletePassword
	if password == "" {
		if password, err = promptLine("Password: "); err != nil {
			return err
		}
	}

	err = withSpinner("deleting account", func() error {
		return a.client.DeleteProfile(cmd.Context(), password)
	})
	if err != nil {
		return presentError(err)
	}

	// The account is gone; the stored token is dead weight.
	a.session.ForceLogout()
	fmt.Println("Account deleted.")
	return nil
}
