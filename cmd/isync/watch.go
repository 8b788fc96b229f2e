package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/copyq/itemsync/internal/applog"
	"github.com/copyq/itemsync/internal/collection"
	"github.com/copyq/itemsync/internal/hashindex"
	"github.com/copyq/itemsync/internal/ui"
	"github.com/copyq/itemsync/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:     "watch <tab>",
	GroupID: "sync",
	Short:   "Keep a tab synchronized until interrupted",
	Long: `Start a FileWatcher bound to the tab named in sync_tabs and keep it
running, applying Direction R on filesystem changes and Direction W on
collection changes, until the process receives an interrupt.

Diagnostics are written through a rotating log file rather than stderr,
since this command is expected to run for long stretches.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		tabName := args[0]
		settings, settingsPath := loadSettings(cmd)

		dir, ok := settings.SyncTabs[tabName]
		if !ok || dir == "" {
			fmt.Fprintf(os.Stderr, "Error: tab %q is not configured to sync\n", tabName)
			os.Exit(1)
		}

		logPath := filepath.Join(filepath.Dir(settingsPath), tabName+".log")
		logger := applog.New(applog.Config{Prefix: "[isync] ", FilePath: logPath})

		idx, err := hashindex.Open(filepath.Join(filepath.Dir(settingsPath), tabName+".hashes.db"))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening hash cache: %v\n", err)
			os.Exit(1)
		}
		defer idx.Close()

		model := collection.New(tabName, 0)
		debounce := time.Duration(settings.DebounceMS) * time.Millisecond
		w, err := watcher.New(dir, model, settings.Registry(), idx, logger, debounce)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating watcher: %v\n", err)
			os.Exit(1)
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		if err := w.Start(ctx, nil); err != nil {
			fmt.Fprintf(os.Stderr, "Error starting watcher: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("%s Watching %q (%s). Log: %s. Press Ctrl+C to stop.\n",
			ui.RenderAccent("watching"), tabName, dir, logPath)

		<-ctx.Done()
		w.Stop()
		fmt.Println("\nStopped.")
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
