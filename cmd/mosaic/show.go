// Show command prints a workspace summary.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <dir>",
	Short: "Print a workspace summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace(args[0])
		if err != nil {
			fail(exitUserError, "show", err)
		}
		defer ws.Close()

		meta := ws.ManifestMeta()
		nodes := ws.Nodes()
		edges := ws.Edges()

		if flagJSON {
			return printJSON(map[string]any{
				"path":     ws.Root(),
				"metadata": meta,
				"nodes":    len(nodes),
				"edges":    len(edges),
			})
		}

		fmt.Println("Workspace:", meta.Name)
		fmt.Println("  path:      ", ws.Root())
		fmt.Println("  created:   ", meta.CreatedAt)
		fmt.Println("  updated:   ", meta.UpdatedAt)
		fmt.Printf("  nodes:      %d\n", len(nodes))
		fmt.Printf("  edges:      %d\n", len(edges))
		fmt.Printf("  viewport:   x=%.1f y=%.1f zoom=%.2f\n",
			meta.Viewport.X, meta.Viewport.Y, meta.Viewport.Zoom)
		return nil
	},
}
