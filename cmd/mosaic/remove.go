// Remove command deletes a workspace directory.
package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mosaicflow/mosaic/internal/history"
	"github.com/mosaicflow/mosaic/internal/workspace"
)

var removeCmd = &cobra.Command{
	Use:   "remove <dir>",
	Short: "Delete a workspace directory",
	Long: `Remove deletes a workspace directory and drops it from the recents
list. Directories without a workspace manifest are refused.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := filepath.Abs(args[0])
		if err != nil {
			fail(exitUserError, "remove", err)
		}

		if err := workspace.Delete(dir); err != nil {
			fail(exitUserError, "remove", err)
		}

		if configDir, err := resolveConfigDir(); err == nil {
			if store, err := history.Open(configDir); err == nil {
				if err := store.Remove(dir); err != nil {
					cliLog.Warn().Err(err).Msg("history cleanup failed")
				}
				store.Close()
			}
		}

		fmt.Println("Removed", dir)
		return nil
	},
}
