package applog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewWithoutFilePathUsesPrefix(t *testing.T) {
	logger := New(DefaultConfig("[isync] "))
	if logger.Prefix() != "[isync] " {
		t.Fatalf("got prefix %q, want %q", logger.Prefix(), "[isync] ")
	}
}

func TestNewWithFilePathRotatesToDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "watch.log")

	logger := New(Config{Prefix: "[isync] ", FilePath: path})
	logger.Println("hello")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected log file at %s: %v", path, err)
	}
	if len(data) == 0 {
		t.Fatal("expected non-empty log output")
	}
}
