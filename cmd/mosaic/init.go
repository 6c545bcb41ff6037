// Init command for the mosaic CLI.
package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mosaicflow/mosaic/internal/paths"
	"github.com/mosaicflow/mosaic/internal/workspace"
)

var initName string

var initCmd = &cobra.Command{
	Use:   "init <dir>",
	Short: "Create a new workspace directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := filepath.Abs(args[0])
		if err != nil {
			fail(exitUserError, "init", err)
		}

		name := initName
		if name == "" {
			name = filepath.Base(dir)
		}
		name = paths.SanitizeName(name)

		ws, err := workspace.Create(dir, name, &workspace.Options{Logger: &cliLog})
		if err != nil {
			fail(exitSysError, "init", err)
		}
		defer ws.Close()

		trackRecent(dir, name)

		if flagJSON {
			return printJSON(map[string]string{"path": dir, "name": name})
		}
		fmt.Println("Workspace created")
		fmt.Println("  path:", dir)
		fmt.Println("  name:", name)
		return nil
	},
}

func init() {
	initCmd.Flags().StringVar(&initName, "name", "", "workspace display name (default: directory name)")
}
