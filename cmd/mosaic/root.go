// Root command for the mosaic CLI.
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mosaicflow/mosaic/internal/paths"
	"github.com/mosaicflow/mosaic/pkg/mosaic"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Global flag values.
var (
	flagConfigDir string
	flagJSON      bool
	flagVerbose   bool
)

// cliLog is the logger handed to workspaces opened by commands. Quiet by
// default; --verbose raises it to debug on stderr.
var cliLog zerolog.Logger = zerolog.Nop()

var rootCmd = &cobra.Command{
	Use:     "mosaic",
	Short:   "Mosaic manages 2D canvas workspaces",
	Long:    "Mosaic is a local-first canvas workspace tool.\nIt creates, inspects, migrates and repairs workspace directories.",
	Version: mosaic.Version,
	// Do not print usage on errors returned by subcommands.
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if flagVerbose {
			cliLog = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
				Level(zerolog.DebugLevel).With().Timestamp().Logger()
		}

		configDir, err := resolveConfigDir()
		if err != nil {
			return err
		}
		_, err = loadConfig(configDir)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: platform config dir)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "log workspace activity to stderr")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(recentCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(resolveCmd)
}

// resolveConfigDir returns the configuration directory following the
// precedence chain: --config-dir flag > MOSAIC_CONFIG_DIR env > default.
func resolveConfigDir() (string, error) {
	return paths.ResolveConfigDir(flagConfigDir)
}
