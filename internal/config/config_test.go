package config

import (
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
)

func TestLoadMissingFileReturnsEmptySettings(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "missing.toml"), nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.SyncTabs == nil {
		t.Fatal("expected a non-nil, empty SyncTabs map")
	}
	if len(s.SyncTabs) != 0 {
		t.Fatalf("expected empty SyncTabs, got %v", s.SyncTabs)
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.toml")
	s := Settings{
		SyncTabs: map[string]string{"clipboard": "/home/user/clip"},
		FormatSettings: []FormatEntry{
			{Formats: []string{".note"}, ItemMime: "text/plain", Icon: "sticky-note"},
		},
	}

	if err := Save(path, s); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.SyncTabs["clipboard"] != "/home/user/clip" {
		t.Fatalf("got sync_tabs %v", got.SyncTabs)
	}
	if len(got.FormatSettings) != 1 || got.FormatSettings[0].ItemMime != "text/plain" {
		t.Fatalf("got format_settings %v", got.FormatSettings)
	}
}

func TestLoadDebounceMSDefaultsTo2000(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "missing.toml"), nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.DebounceMS != 2000 {
		t.Fatalf("got DebounceMS %d, want 2000", s.DebounceMS)
	}
}

func TestLoadDebounceMSHonorsFlagOverride(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("debounce-ms", 2000, "")
	if err := flags.Set("debounce-ms", "500"); err != nil {
		t.Fatal(err)
	}

	s, err := Load(filepath.Join(t.TempDir(), "missing.toml"), flags)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.DebounceMS != 500 {
		t.Fatalf("got DebounceMS %d, want 500", s.DebounceMS)
	}
}

func TestRegistryBuildsFromFormatSettings(t *testing.T) {
	s := Settings{
		FormatSettings: []FormatEntry{
			{Formats: []string{"note"}, ItemMime: "text/plain"},
		},
	}
	reg := s.Registry()
	ext, ok := reg.ByFormat("text/plain")
	if !ok || ext != ".note" {
		t.Fatalf("got (%q, %v), want (\".note\", true)", ext, ok)
	}
}
