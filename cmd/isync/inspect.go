package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/copyq/itemsync/internal/manifest"
	"github.com/copyq/itemsync/internal/scanner"
)

// inspectReport is the structured dump isync inspect produces, supplementing
// the distilled spec with the kind of state-visibility the original's
// settings dialog gave a user, per SPEC_FULL.md §10.7.
type inspectReport struct {
	Tab         string   `json:"tab" yaml:"tab"`
	Directory   string   `json:"directory" yaml:"directory"`
	SavedFiles  []string `json:"saved_files" yaml:"saved_files"`
	BaseNames   []string `json:"base_names" yaml:"base_names"`
	ManifestErr string   `json:"manifest_error,omitempty" yaml:"manifest_error,omitempty"`
}

var inspectCmd = &cobra.Command{
	Use:     "inspect <tab>",
	GroupID: "config",
	Short:   "Dump manifest and on-disk bucket state for a tab",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		tabName := args[0]
		settings, settingsPath := loadSettings(cmd)
		dir := settings.SyncTabs[tabName]

		report := inspectReport{Tab: tabName, Directory: dir}

		if raw, err := os.ReadFile(manifestPath(settingsPath, tabName)); err == nil {
			if m, err := manifest.Decode(raw); err != nil {
				report.ManifestErr = err.Error()
			} else {
				report.SavedFiles = m.SavedFiles
			}
		}

		if dir != "" {
			if buckets, err := scanner.Scan(dir, settings.Registry()); err == nil {
				report.BaseNames = scanner.SortedNames(buckets)
			}
		}

		outFormat, _ := cmd.Flags().GetString("format")
		switch outFormat {
		case "yaml":
			enc := yaml.NewEncoder(os.Stdout)
			defer enc.Close()
			_ = enc.Encode(report)
		case "json":
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			_ = enc.Encode(report)
		default:
			printTable(report)
		}
	},
}

func printTable(r inspectReport) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 2, 2, ' ', 0)
	fmt.Fprintf(tw, "tab:\t%s\n", r.Tab)
	fmt.Fprintf(tw, "directory:\t%s\n", r.Directory)
	if r.ManifestErr != "" {
		fmt.Fprintf(tw, "manifest:\t%s\n", r.ManifestErr)
	} else {
		fmt.Fprintf(tw, "saved files:\t%d\n", len(r.SavedFiles))
	}
	fmt.Fprintf(tw, "basenames on disk:\t%d\n", len(r.BaseNames))
	_ = tw.Flush()
	for _, b := range r.BaseNames {
		fmt.Printf("  %s\n", b)
	}
}

func init() {
	inspectCmd.Flags().String("format", "table", "output format: table, yaml, or json")
	rootCmd.AddCommand(inspectCmd)
}
