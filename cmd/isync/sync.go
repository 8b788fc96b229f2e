package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/copyq/itemsync/internal/collection"
	"github.com/copyq/itemsync/internal/hashindex"
	"github.com/copyq/itemsync/internal/materializer"
	"github.com/copyq/itemsync/internal/ui"
)

var syncCmd = &cobra.Command{
	Use:     "sync <tab>",
	GroupID: "sync",
	Short:   "Run one reconciliation pass for a tab",
	Long: `Run a single Direction R (disk -> collection) pass followed by a
Direction W (collection -> disk) normalization pass for the tab named in
sync_tabs, then report the item count and payload size. It does not write
the tab's manifest.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		tabName := args[0]
		settings, settingsPath := loadSettings(cmd)

		dir, ok := settings.SyncTabs[tabName]
		if !ok || dir == "" {
			fmt.Fprintf(os.Stderr, "Error: tab %q is not configured to sync (see 'isync config set')\n", tabName)
			os.Exit(1)
		}

		idx, err := hashindex.Open(filepath.Join(filepath.Dir(settingsPath), tabName+".hashes.db"))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening hash cache: %v\n", err)
			os.Exit(1)
		}
		defer idx.Close()

		reg := settings.Registry()
		mat := materializer.New(reg, idx)
		model := collection.New(tabName, 0)

		if err := mat.ReadDirectory(dir, model); err != nil {
			fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", dir, err)
			os.Exit(1)
		}

		affected := make([]int, model.Len())
		for i := range affected {
			affected[i] = i
		}
		if len(affected) > 0 {
			if err := mat.WriteRows(context.Background(), dir, model, affected, make(map[collection.RowID]string)); err != nil {
				fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", dir, err)
				os.Exit(1)
			}
		}

		var totalBytes uint64
		for i := 0; i < model.Len(); i++ {
			if it := model.Data(i); it != nil {
				for _, payload := range it.Payload {
					totalBytes += uint64(len(payload))
				}
			}
		}

		fmt.Printf("%s Synced %q: %d item(s), %s in %s\n",
			ui.RenderPass("✓"), tabName, model.Len(), humanize.Bytes(totalBytes), dir)
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
