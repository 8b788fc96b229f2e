// Package config loads and persists the two application settings named in
// SPEC_FULL.md §6: sync_tabs (tab name -> directory) and format_settings
// (the user's extension/MIME overrides). It uses github.com/spf13/viper for
// loading with flag/environment override precedence and
// github.com/BurntSushi/toml for the on-disk format, the same pairing the
// teacher declares for its own settings layer.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/copyq/itemsync/internal/format"
)

// FormatEntry is the on-disk shape of one format_settings row.
type FormatEntry struct {
	Formats  []string `toml:"formats"`
	ItemMime string   `toml:"item_mime"`
	Icon     string   `toml:"icon"`
}

// Settings is the decoded application configuration.
type Settings struct {
	SyncTabs       map[string]string `toml:"sync_tabs"`
	FormatSettings []FormatEntry     `toml:"format_settings"`

	// DebounceMS overrides the watcher's default 2000ms debounce;
	// surfaced only through viper (flag/env), never written to the TOML
	// file, so a CLI invocation can tune it without touching persisted
	// settings.
	DebounceMS int `toml:"-"`
}

// Load reads path (if present) as TOML into a Settings, then layers on any
// ISYNC_* environment variable or bound flag overrides via viper. A missing
// file is not an error; Load then returns Settings with an empty, non-nil
// SyncTabs map, no format settings, and the resolved DebounceMS.
func Load(path string, flags *pflag.FlagSet) (Settings, error) {
	var s Settings
	if data, err := os.ReadFile(path); err == nil {
		if _, err := toml.Decode(string(data), &s); err != nil {
			return Settings{}, fmt.Errorf("config: decode %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return Settings{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	v := viper.New()
	v.SetEnvPrefix("ISYNC")
	v.AutomaticEnv()
	if flags != nil {
		if f := flags.Lookup("debounce-ms"); f != nil {
			_ = v.BindPFlag("debounce_ms", f)
		}
	}
	v.SetDefault("debounce_ms", 2000)
	s.DebounceMS = v.GetInt("debounce_ms")

	if s.SyncTabs == nil {
		s.SyncTabs = make(map[string]string)
	}
	return s, nil
}

// Save writes s to path as TOML, overwriting any existing file. It creates
// path's parent directory if necessary.
func Save(path string, s Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("config: create %s: %w", path, err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(s); err != nil {
		return fmt.Errorf("config: encode %s: %w", path, err)
	}
	return nil
}

// Registry builds a *format.Registry from the decoded format_settings list.
func (s Settings) Registry() *format.Registry {
	user := make([]format.Format, 0, len(s.FormatSettings))
	for _, e := range s.FormatSettings {
		user = append(user, format.Format{
			Extensions: e.Formats,
			ItemMime:   e.ItemMime,
			Icon:       e.Icon,
		})
	}
	return format.NewRegistry(user)
}
