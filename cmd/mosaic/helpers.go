// Shared helpers for mosaic CLI commands.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mosaicflow/mosaic/internal/history"
	"github.com/mosaicflow/mosaic/internal/workspace"
)

// openWorkspace opens the workspace at dir and records it in the recents
// history. History failures are not fatal to the command.
func openWorkspace(dir string) (*workspace.Workspace, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}

	ws, err := workspace.Open(abs, &workspace.Options{Logger: &cliLog})
	if err != nil {
		return nil, err
	}

	trackRecent(abs, ws.ManifestMeta().Name)
	return ws, nil
}

// trackRecent records a workspace visit in the history database.
func trackRecent(path, name string) {
	configDir, err := resolveConfigDir()
	if err != nil {
		cliLog.Warn().Err(err).Msg("history tracking skipped")
		return
	}
	store, err := history.Open(configDir)
	if err != nil {
		cliLog.Warn().Err(err).Msg("history tracking skipped")
		return
	}
	defer store.Close()

	if err := store.Track(path, name); err != nil {
		cliLog.Warn().Err(err).Msg("history tracking failed")
	}
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

// fail prints an error to stderr and exits with the given code.
func fail(code int, prefix string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", prefix, err)
	os.Exit(code)
}
