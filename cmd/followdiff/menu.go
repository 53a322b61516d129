package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"followdiff/internal/menu"
	"followdiff/pkg/contacts"
	"followdiff/pkg/logger"
	"followdiff/pkg/ui"
)

var menuFormat string

// menuCmd opens the interactive menu; it is also the root command's default
var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Open the interactive menu",
	Long: `Open the line-based interactive menu:

  [1] Download the last contacts for a user into the snapshot directory
  [2] Compare 2 .xml snapshot files
  [3] Exit

Credentials are only needed for option 1 and are looked up when it is chosen.`,
	Args: cobra.NoArgs,
	Run:  runMenu,
}

func init() {
	rootCmd.AddCommand(menuCmd)
	menuCmd.Flags().StringVarP(&menuFormat, "format", "f", "", "report format after a comparison (text, json, yaml)")
}

func runMenu(cmd *cobra.Command, args []string) {
	flags := map[string]interface{}{}
	if menuFormat != "" {
		flags["format"] = menuFormat
	}
	cfg := loadConfig(flags)
	log := logger.GetLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	downloader := &lazyDownloader{build: func() (*contacts.Downloader, error) {
		return newDownloader(cfg, credentialManager(), log, printProgress)
	}}

	m := menu.New(os.Stdin, os.Stdout, downloader, log, menu.WithFormat(cfg.Output.Format))
	if err := m.Run(ctx); err != nil {
		ui.PrintWarning("Interrupted")
		log.WithError(err).Debug("menu stopped")
	}
}
