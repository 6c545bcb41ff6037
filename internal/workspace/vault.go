// Vault-level operations: creating workspaces by display name inside a
// vault directory and deleting workspace directories.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mosaicflow/mosaic/internal/paths"
	"github.com/mosaicflow/mosaic/pkg/types"
)

// CreateIn creates a workspace inside vaultDir, deriving the folder name
// from the display name. Unsafe characters are sanitized and a colliding
// folder name gets a numeric suffix (name, name_1, name_2, ...).
func CreateIn(vaultDir, name string, opts *Options) (*Workspace, error) {
	folder := paths.SanitizeName(name)
	if folder == "" {
		folder = "canvas"
	}

	root := filepath.Join(vaultDir, folder)
	for i := 1; ; i++ {
		_, err := os.Stat(root)
		if os.IsNotExist(err) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("probing %s: %w", root, err)
		}
		root = filepath.Join(vaultDir, fmt.Sprintf("%s_%d", folder, i))
	}

	return Create(root, name, opts)
}

// Delete removes a workspace directory and everything under it. Refuses
// directories that carry no manifest, so a mistyped path cannot delete
// arbitrary data.
func Delete(root string) error {
	p := paths.ForWorkspace(root)
	if !p.HasManifest() {
		return fmt.Errorf("%s: %w", root, types.ErrNotAWorkspace)
	}
	if err := os.RemoveAll(root); err != nil {
		return fmt.Errorf("deleting workspace %s: %w", root, err)
	}
	return nil
}
