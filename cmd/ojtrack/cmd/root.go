// Package cmd provides the CLI commands for OJTrack.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ojtrack/ojtrack/internal/config"
)

var cfgFile string
var credentialsPath string
var verbose bool

var rootCmd = &cobra.Command{
	Use:   "ojtrack",
	Short: "OJTrack - On-the-Job Training management client",
	Long: `OJTrack is a command-line client for an OJT (On-the-Job Training)
management system. Administrators manage students, programs, partner
companies, applications, and reports; students track their own application
and progress.

Quick start:
  1. Point the client at your server: ojtrack config init --api-url https://ojt.example.edu
  2. Sign in: ojtrack login you@example.edu
  3. See where you land: ojtrack home

Configuration:
  Config is loaded from ojtrack.yaml in the current directory,
  $HOME/.ojtrack/, or /etc/ojtrack/.

  Environment variables can override config values with the OJTRACK_ prefix.
  Example: OJTRACK_API_URL=https://ojt.example.edu

Commands:
  login        Sign in and persist the session
  logout       Sign out and clear the session
  whoami       Show the current session
  home         Show your landing screen and menu
  students     Manage students (admin)
  programs     Manage OJT programs (admin)
  partners     Manage partner companies (admin)
  applications Manage OJT applications (admin)
  application  View or submit your application (student)
  progress     Show your OJT progress (student)
  reports      Generate and filter reports (admin)
  profile      View and edit your profile
  reset        Remove the local credential file
  version      Print version information`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./ojtrack.yaml)")
	rootCmd.PersistentFlags().StringVar(&credentialsPath, "credentials", "", "credentials file (default: ~/.ojtrack/credentials.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

func initConfig() {
	config.InitViper(cfgFile)
}
