package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"followdiff/pkg/storage"
	"followdiff/pkg/ui"
)

// listCmd shows the snapshots in the snapshot directory
var listCmd = &cobra.Command{
	Use:   "list [handle]",
	Short: "List stored snapshots",
	Long: `List the snapshots in the snapshot directory, oldest first, optionally only those of one handle.

Snapshot times are local wall-clock times without a UTC offset. Two snapshots
taken during the hour that repeats when daylight saving time ends can be
listed in the wrong order.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) {
	cfg := loadConfig(nil)

	var handle string
	if len(args) > 0 {
		handle = args[0]
	}

	store, err := storage.NewManager(cfg.Output.SnapshotDir)
	if err != nil {
		ui.PrintError("Failed to open snapshot directory", err.Error())
		os.Exit(1)
	}

	entries, err := store.List(handle)
	if err != nil {
		ui.PrintError("Failed to list snapshots", err.Error())
		os.Exit(1)
	}

	if len(entries) == 0 {
		ui.PrintInfo("No snapshots found", store.Dir())
		return
	}

	printEntries(entries)
}

func printEntries(entries []storage.Entry) {
	for _, e := range entries {
		fmt.Printf("%s  %-20s %s\n", e.CapturedAt.Format("2006-01-02 15:04:05"), "@"+e.Handle, e.Path)
	}
}
