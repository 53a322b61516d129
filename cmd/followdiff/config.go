package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"followdiff/pkg/config"
	"followdiff/pkg/ui"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage followdiff configuration files.

Configuration is loaded from, highest priority first:
  - Command line flags
  - Environment variables (FOLLOWDIFF_*)
  - .env files (./.env and ~/.followdiff.env)
  - Configuration file
  - Default values`,
}

// configInitCmd writes an example configuration file
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file is created as '.followdiff.yaml' in the current directory unless a
different path is given with --config.`,
	Run: runConfigInit,
}

// configShowCmd prints the effective configuration
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Show the effective configuration after merging every source.

Credentials are masked.`,
	Run: runConfigShow,
}

// configValidateCmd checks the configuration
var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration",
	Long: `Validate the configuration for syntax errors and invalid values.

This command checks:
  - YAML syntax
  - Value ranges and formats
  - Snapshot and log directory accessibility
  - Presence of API credentials (warning only)`,
	Run: runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
}

// exampleConfig returns the default configuration with placeholder credentials
func exampleConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Twitter.APIKey = "YOUR_API_KEY"
	cfg.Twitter.APISecretKey = "YOUR_API_SECRET_KEY"
	cfg.Twitter.AccessToken = "YOUR_ACCESS_TOKEN"
	cfg.Twitter.AccessTokenSecret = "YOUR_ACCESS_TOKEN_SECRET"
	return cfg
}

func runConfigInit(cmd *cobra.Command, args []string) {
	configPath := configFile
	if configPath == "" {
		configPath = ".followdiff.yaml"
	}

	if _, err := os.Stat(configPath); err == nil {
		ui.PrintError("Configuration file already exists", configPath)
		fmt.Println("\nTo overwrite, first remove the existing file:")
		fmt.Printf("  rm %s\n", configPath)
		os.Exit(1)
	}

	if err := exampleConfig().Save(configPath); err != nil {
		ui.PrintError("Failed to create configuration file", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess("Configuration file created: " + configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("1. Replace the YOUR_* placeholders with your API credentials,")
	fmt.Println("   or store them with 'followdiff auth login'")
	fmt.Println("2. Run 'followdiff config validate' to check the configuration")
	fmt.Println("3. Capture a snapshot with 'followdiff download <handle>'")
}

func runConfigShow(cmd *cobra.Command, args []string) {
	cfg := loadConfig(nil)

	displayCfg := cfg.Masked()
	data, err := yaml.Marshal(&displayCfg)
	if err != nil {
		ui.PrintError("Failed to format configuration", err.Error())
		os.Exit(1)
	}

	ui.PrintHighlight("Current Configuration")
	fmt.Println()
	fmt.Print(string(data))

	fmt.Println("\nConfiguration sources (in order of priority):")
	fmt.Println("1. Command line flags")
	fmt.Printf("2. Environment variables (%s*)\n", config.EnvPrefix)
	fmt.Println("3. .env files")
	if path := effectiveConfigFile(); path != "" {
		fmt.Printf("4. Configuration file: %s\n", path)
	} else {
		fmt.Println("4. Configuration file: (none found)")
	}
	fmt.Println("5. Default values")
}

func runConfigValidate(cmd *cobra.Command, args []string) {
	path := effectiveConfigFile()
	if path == "" {
		ui.PrintWarning("No configuration file found; validating defaults and environment")
	} else {
		ui.PrintInfo("Validating configuration", path)
	}

	cfg, err := config.Load(path, globalFlags())
	if err != nil {
		ui.PrintError("Configuration validation failed", err.Error())
		os.Exit(1)
	}

	problems, warnings := checkEnvironment(cfg)

	if len(problems) > 0 {
		ui.PrintError("Configuration has errors:")
		for _, p := range problems {
			fmt.Printf("  - %s\n", p)
		}
		os.Exit(1)
	}

	if len(warnings) > 0 {
		ui.PrintWarning("Configuration warnings:")
		for _, w := range warnings {
			fmt.Printf("  - %s\n", w)
		}
		fmt.Println()
	}

	ui.PrintSuccess("Configuration is valid")

	fmt.Println("\nConfiguration summary:")
	fmt.Printf("  Snapshot directory: %s\n", cfg.Output.SnapshotDir)
	fmt.Printf("  Report format: %s\n", cfg.Output.Format)
	fmt.Printf("  Rate limit: %d requests/minute (burst %d)\n", cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.BurstSize)
	fmt.Printf("  API base URL: %s\n", cfg.Twitter.BaseURL)
	fmt.Printf("  Log level: %s\n", cfg.Logging.Level)
}

// checkEnvironment reports directories that cannot be created as problems and
// missing credentials as warnings
func checkEnvironment(cfg *config.Config) (problems, warnings []string) {
	if err := cfg.ValidateCredentials(); err != nil {
		warnings = append(warnings, "API credentials not configured; downloads will use stored credentials from 'followdiff auth login'")
	}

	if err := os.MkdirAll(cfg.Output.SnapshotDir, 0755); err != nil {
		problems = append(problems, fmt.Sprintf("Cannot create snapshot directory: %v", err))
	}

	if cfg.Logging.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Logging.File), 0755); err != nil {
			problems = append(problems, fmt.Sprintf("Cannot create log directory: %v", err))
		}
	}

	return problems, warnings
}

func effectiveConfigFile() string {
	if configFile != "" {
		return configFile
	}
	return config.FindConfigFile()
}
