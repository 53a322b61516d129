package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"followdiff/pkg/errors"
	"followdiff/pkg/logger"
	"followdiff/pkg/ui"
)

var (
	requestsPerMinute int
	quietProgress     bool
)

// downloadCmd captures one snapshot without the menu
var downloadCmd = &cobra.Command{
	Use:   "download <handle>",
	Short: "Download followers and following of a user into a snapshot",
	Long: `Download the followers and following of a Twitter user and write them to
<snapshot-dir>/<handle>__<day>_<month>_<year>__<hour>_<minute>_<second>.xml.

A single leading @ is ignored. Nothing is written if any API call fails.`,
	Example: `  followdiff download jack
  followdiff download @jack --snapshot-dir ~/snapshots --account work`,
	Args: cobra.ExactArgs(1),
	Run:  runDownload,
}

func init() {
	rootCmd.AddCommand(downloadCmd)
	downloadCmd.Flags().IntVar(&requestsPerMinute, "requests-per-minute", 0, "client-side API request rate (default from config)")
	downloadCmd.Flags().BoolVarP(&quietProgress, "quiet", "q", false, "print only the snapshot path")
}

func runDownload(cmd *cobra.Command, args []string) {
	flags := map[string]interface{}{}
	if requestsPerMinute > 0 {
		flags["requests-per-minute"] = requestsPerMinute
	}
	cfg := loadConfig(flags)
	log := logger.GetLogger()

	progress := printProgress
	if quietProgress {
		progress = func(string) {}
	}

	d, err := newDownloader(cfg, credentialManager(), log, progress)
	if err != nil {
		ui.PrintError("Failed to initialize downloader", err.Error())
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	path, err := d.Download(ctx, args[0])
	if err != nil {
		log.WithError(err).WithField("input", args[0]).Error("Download failed")
		ui.PrintError("Download failed", err.Error())
		if errors.IsTransient(errors.TypeOf(err)) {
			ui.PrintWarning("This may be temporary; try again later.")
		}
		os.Exit(1)
	}

	if quietProgress {
		fmt.Println(path)
		return
	}
	ui.PrintSuccess("Snapshot saved to " + path)
}
