// New command creates a workspace inside the vault directory.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mosaicflow/mosaic/internal/workspace"
)

var newVaultDir string

var newCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Create a workspace in the vault directory",
	Long: `New creates a workspace named after the given display name inside
the vault directory, sanitizing the folder name and suffixing it on
collision (name, name_1, ...).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vaultDir, err := resolveVaultDir(newVaultDir)
		if err != nil {
			fail(exitSysError, "new", err)
		}

		ws, err := workspace.CreateIn(vaultDir, args[0], &workspace.Options{Logger: &cliLog})
		if err != nil {
			fail(exitSysError, "new", err)
		}
		defer ws.Close()

		trackRecent(ws.Root(), args[0])

		if flagJSON {
			return printJSON(map[string]string{"path": ws.Root(), "name": args[0]})
		}
		fmt.Println("Workspace created")
		fmt.Println("  path:", ws.Root())
		fmt.Println("  name:", args[0])
		return nil
	},
}

func init() {
	newCmd.Flags().StringVar(&newVaultDir, "vault-dir", "", "vault directory to create the workspace in")
}
