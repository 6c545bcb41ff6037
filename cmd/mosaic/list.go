// List command scans the vault directory for workspaces.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mosaicflow/mosaic/internal/paths"
)

var listVaultDir string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List workspaces in the vault directory",
	Long: `List scans the vault directory for subdirectories containing a
workspace manifest. The vault directory follows the precedence chain:
--vault-dir flag > config.yaml vault_dir > MOSAIC_DATA_DIR env > default.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		vaultDir, err := resolveVaultDir(listVaultDir)
		if err != nil {
			fail(exitSysError, "list", err)
		}

		entries, err := os.ReadDir(vaultDir)
		if err != nil {
			if os.IsNotExist(err) {
				if flagJSON {
					return printJSON([]string{})
				}
				fmt.Println("No workspaces in", vaultDir)
				return nil
			}
			fail(exitSysError, "list", err)
		}

		var found []string
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			dir := filepath.Join(vaultDir, e.Name())
			if paths.ForWorkspace(dir).HasManifest() {
				found = append(found, dir)
			}
		}

		if flagJSON {
			if found == nil {
				found = []string{}
			}
			return printJSON(found)
		}
		if len(found) == 0 {
			fmt.Println("No workspaces in", vaultDir)
			return nil
		}
		for _, dir := range found {
			fmt.Println(dir)
		}
		return nil
	},
}

// resolveVaultDir returns the vault directory following the precedence
// chain: flag > config.yaml vault_dir > MOSAIC_DATA_DIR env > default.
func resolveVaultDir(flag string) (string, error) {
	configured := ""
	if cliConfig != nil {
		configured = cliConfig.GetString(cfgKeyVaultDir)
	}
	return paths.ResolveDataDir(flag, configured)
}

func init() {
	listCmd.Flags().StringVar(&listVaultDir, "vault-dir", "", "directory scanned for workspaces")
}
