// Recent command lists recently opened workspaces.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mosaicflow/mosaic/internal/history"
)

var recentLimit int

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List recently opened workspaces",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := resolveConfigDir()
		if err != nil {
			fail(exitSysError, "recent", err)
		}
		store, err := history.Open(configDir)
		if err != nil {
			fail(exitSysError, "recent", err)
		}
		defer store.Close()

		limit := recentLimit
		if limit == 0 && cliConfig != nil {
			limit = cliConfig.GetInt(cfgKeyRecentsLimit)
		}

		entries, err := store.Recent(limit)
		if err != nil {
			fail(exitSysError, "recent", err)
		}

		if flagJSON {
			if entries == nil {
				entries = []history.Entry{}
			}
			return printJSON(entries)
		}

		if len(entries) == 0 {
			fmt.Println("No recent workspaces")
			return nil
		}
		for _, e := range entries {
			fmt.Printf("%s  %s  (opened %d times, last %s)\n",
				e.Name, e.Path, e.OpenCount, e.LastOpenedAt)
		}
		return nil
	},
}

func init() {
	recentCmd.Flags().IntVar(&recentLimit, "limit", 0, "maximum entries to show (default: from config)")
}
