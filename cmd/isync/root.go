package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "isync",
	Short: "Synchronize an item collection with a directory on disk",
	Long: `isync keeps an ordered item collection and a directory in sync,
bidirectionally: a file that appears on disk becomes an item, an item
written to the collection becomes a file.

Each synchronized tab is configured with a directory in the settings file
(see 'isync config'). Run 'isync sync' for a one-shot reconciliation or
'isync watch' to keep a tab synchronized for as long as the process runs.`,
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: "sync", Title: "Synchronization:"},
		&cobra.Group{ID: "config", Title: "Configuration:"},
	)
	rootCmd.PersistentFlags().String("settings", defaultSettingsPath(), "path to the TOML settings file")
	rootCmd.PersistentFlags().Int("debounce-ms", 2000, "filesystem debounce delay in milliseconds before a direction-R pass runs (env ISYNC_DEBOUNCE_MS)")
}
