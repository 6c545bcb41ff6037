// Package main provides the mosaic CLI, a command-line companion to the
// canvas core: it creates, inspects, migrates and repairs workspace
// directories.
// See docs/ARCHITECTURE.md § CLI.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUserError)
	}
}
