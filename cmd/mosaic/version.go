// Version command for the mosaic CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mosaicflow/mosaic/pkg/mosaic"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the mosaic version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("mosaic", mosaic.Version)
	},
}
