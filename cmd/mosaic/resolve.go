// Resolve command runs overlap resolution over a workspace.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <dir>",
	Short: "Resolve node overlaps and persist the moved positions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace(args[0])
		if err != nil {
			fail(exitUserError, "resolve", err)
		}
		defer ws.Close()

		changed := ws.ResolveOverlaps()
		if err := ws.FlushAll(); err != nil {
			fail(exitSysError, "resolve", err)
		}

		if flagJSON {
			ids := make([]string, 0, len(changed))
			for _, n := range changed {
				ids = append(ids, n.NodeID)
			}
			return printJSON(map[string]any{"moved": ids})
		}
		fmt.Printf("Moved %d nodes\n", len(changed))
		return nil
	},
}
