package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/copyq/itemsync/internal/hashindex"
	"github.com/copyq/itemsync/internal/scanner"
	"github.com/copyq/itemsync/internal/ui"
)

var removeCmd = &cobra.Command{
	Use:     "remove <tab> <basename>",
	GroupID: "sync",
	Short:   "Remove an item's underlying files from a synced directory",
	Long: `Delete every file belonging to <basename> in the tab's synchronized
directory. Prompts for confirmation unless --yes is given, matching the
"remove items with underlying files?" confirmation the host collection asks
before letting the synchronizer touch disk.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		tabName, base := args[0], args[1]
		settings, settingsPath := loadSettings(cmd)

		dir, ok := settings.SyncTabs[tabName]
		if !ok || dir == "" {
			fmt.Fprintf(os.Stderr, "Error: tab %q is not configured to sync\n", tabName)
			os.Exit(1)
		}

		buckets, err := scanner.Scan(dir, settings.Registry())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error scanning %s: %v\n", dir, err)
			os.Exit(1)
		}
		var files []string
		for _, b := range buckets {
			if b.BaseName != base {
				continue
			}
			for _, f := range b.Files {
				files = append(files, f.Path)
			}
		}
		if len(files) == 0 {
			fmt.Fprintf(os.Stderr, "No files found for basename %q in %s\n", base, dir)
			os.Exit(1)
		}

		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			confirmed := true
			prompt := huh.NewConfirm().
				Title(fmt.Sprintf("Delete %d file(s) for %q?", len(files), base)).
				Affirmative("Yes").
				Negative("No").
				Value(&confirmed)
			if err := prompt.Run(); err != nil {
				fmt.Fprintf(os.Stderr, "Error reading confirmation: %v\n", err)
				os.Exit(1)
			}
			if !confirmed {
				fmt.Println("Aborted.")
				return
			}
		}

		idx, err := hashindex.Open(filepath.Join(filepath.Dir(settingsPath), tabName+".hashes.db"))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening hash cache: %v\n", err)
			os.Exit(1)
		}
		defer idx.Close()

		ctx := context.Background()
		for _, path := range files {
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				fmt.Fprintf(os.Stderr, "Error removing %s: %v\n", path, err)
				os.Exit(1)
			}
			_ = idx.Forget(ctx, path)
		}

		fmt.Printf("%s Removed %d file(s) for %q\n", ui.RenderPass("✓"), len(files), base)
	},
}

func init() {
	removeCmd.Flags().Bool("yes", false, "skip the confirmation prompt")
	rootCmd.AddCommand(removeCmd)
}
