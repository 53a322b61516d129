package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"followdiff/pkg/config"
	"followdiff/pkg/logger"
	"followdiff/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile  string
	logLevel    string
	snapshotDir string
	accountName string
	noColor     bool
	noLogo      bool
)

// rootCmd runs the interactive menu when called without a subcommand
var rootCmd = &cobra.Command{
	Use:   "followdiff",
	Short: "Snapshot Twitter followers and following, then compare snapshots",
	Long: `followdiff downloads the followers and following of a Twitter account into a
timestamped .xml snapshot and reports who unfollowed, who followed, whom the
account stopped following and whom it started following between two snapshots.

Run without a command to open the interactive menu.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor || os.Getenv("NO_COLOR") != "" {
			ui.SetColorEnabled(false)
		}

		if !noLogo && (!cmd.HasParent() || cmd.Name() == "menu") {
			ui.PrintLogo()
		}
	},
	Args: cobra.NoArgs,
	Run:  runMenu,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is ./.followdiff.yaml or ~/.config/followdiff/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error, disabled)")
	rootCmd.PersistentFlags().StringVarP(&snapshotDir, "snapshot-dir", "d", "", "directory holding .xml snapshots (default \"data\")")
	rootCmd.PersistentFlags().StringVarP(&accountName, "account", "a", "", "stored credentials to use (see 'followdiff auth list')")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&noLogo, "no-logo", false, "do not print the banner")

	rootCmd.SetVersionTemplate(`followdiff {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// globalFlags collects the persistent flags that override configuration
func globalFlags() map[string]interface{} {
	flags := make(map[string]interface{})
	if snapshotDir != "" {
		flags["snapshot-dir"] = snapshotDir
	}
	if logLevel != "" {
		flags["log-level"] = logLevel
	}
	return flags
}

// loadConfig loads the layered configuration, merges extra command flags and
// initializes the global logger. It exits on failure.
func loadConfig(extra map[string]interface{}) *config.Config {
	flags := globalFlags()
	for k, v := range extra {
		flags[k] = v
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		ui.PrintError("Failed to initialize logger", err.Error())
		os.Exit(1)
	}
	logger.GetLogger().WithFields(map[string]interface{}{
		"version":      version,
		"snapshot_dir": cfg.Output.SnapshotDir,
	}).Debug("configuration loaded")

	return cfg
}
