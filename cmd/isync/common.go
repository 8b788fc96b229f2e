package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/copyq/itemsync/internal/applog"
	"github.com/copyq/itemsync/internal/config"
)

func defaultSettingsPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "isync", "settings.toml")
	}
	return "isync.toml"
}

func loadSettings(cmd *cobra.Command) (config.Settings, string) {
	path, _ := cmd.Flags().GetString("settings")
	s, err := config.Load(path, cmd.Flags())
	if err != nil {
		log.Fatalf("loading settings: %v", err)
	}
	return s, path
}

func newLogger(prefix string) *log.Logger {
	return applog.New(applog.DefaultConfig(prefix))
}

func manifestPath(settingsPath, tabName string) string {
	return filepath.Join(filepath.Dir(settingsPath), tabName+".manifest")
}
