// Command isync is the CLI front end for the file-to-collection
// synchronizer: one-shot sync, a long-running watch loop, settings
// management, and tab inspection.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
