package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ojtrack/ojtrack/internal/config"
)

var (
	configInitAPIURL string
	configInitForce  bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage client configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter ojtrack.yaml",
	Long: `Write a starter configuration file to ~/.ojtrack/ojtrack.yaml
(or the path given with --config).

Examples:
  ojtrack config init --api-url https://ojt.example.edu`,
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Print the configuration after merging file, environment, and
defaults, plus where it came from.`,
	RunE: runConfigShow,
}

func init() {
	configInitCmd.Flags().StringVar(&configInitAPIURL, "api-url", "", "API base URL (required)")
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "Overwrite an existing config file")
	_ = configInitCmd.MarkFlagRequired("api-url")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	target := cfgFile
	if target == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("cannot resolve home directory: %w", err)
		}
		target = filepath.Join(home, ".ojtrack", "ojtrack.yaml")
	}

	if _, err := os.Stat(target); err == nil && !configInitForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", target)
	}

	cfg := &config.ClientConfig{}
	cfg.API.URL = configInitAPIURL
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Printf("Wrote %s\n", target)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	if credentialsPath != "" {
		cfg.Credentials.Path = credentialsPath
	}

	if used := config.ConfigFileUsed(); used != "" {
		fmt.Printf("# config file: %s\n", used)
	} else {
		fmt.Println("# no config file found (defaults + environment)")
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	os.Stdout.Write(data)
	return nil
}
