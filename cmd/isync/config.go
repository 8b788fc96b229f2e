package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/copyq/itemsync/internal/config"
	"github.com/copyq/itemsync/internal/ui"
)

var configCmd = &cobra.Command{
	Use:     "config",
	GroupID: "config",
	Short:   "Inspect or edit sync_tabs (format_settings is not edited here)",
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured sync tabs",
	Run: func(cmd *cobra.Command, args []string) {
		settings, _ := loadSettings(cmd)
		if len(settings.SyncTabs) == 0 {
			fmt.Println("No tabs configured.")
			return
		}
		for tab, dir := range settings.SyncTabs {
			fmt.Printf("%s -> %s\n", ui.RenderAccent(tab), dir)
		}
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <tab> <directory>",
	Short: "Configure a tab to sync with a directory",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		settings, settingsPath := loadSettings(cmd)
		if settings.SyncTabs == nil {
			settings.SyncTabs = make(map[string]string)
		}
		settings.SyncTabs[args[0]] = args[1]
		if err := config.Save(settingsPath, settings); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving settings: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%s %s -> %s\n", ui.RenderPass("✓"), args[0], args[1])
	},
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset <tab>",
	Short: "Remove a tab's sync configuration, leaving its files on disk",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		settings, settingsPath := loadSettings(cmd)
		delete(settings.SyncTabs, args[0])
		if err := config.Save(settingsPath, settings); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving settings: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%s %s unconfigured\n", ui.RenderPass("✓"), args[0])
	},
}

func init() {
	configCmd.AddCommand(configListCmd, configSetCmd, configUnsetCmd)
	rootCmd.AddCommand(configCmd)
}
