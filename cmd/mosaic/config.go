// Config loading for the mosaic CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	// Config keys.
	cfgKeyVaultDir     = "vault_dir"
	cfgKeyRecentsLimit = "recents_limit"

	defaultRecentsLimit = 10
)

// defaultConfigYAML is written to config.yaml on first run.
const defaultConfigYAML = `# Mosaic CLI configuration

# Directory scanned for workspaces by default (optional)
# vault_dir:

# Number of entries shown by "mosaic recent"
recents_limit: 10
`

// loadConfig reads config.yaml from the resolved config directory using
// Viper, creating the directory and a default file on first run. A missing
// config.yaml is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyRecentsLimit, defaultRecentsLimit)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cliConfig = v
	return v, nil
}

// cliConfig holds the loaded configuration for subcommands.
var cliConfig *viper.Viper

// ensureDefaultConfigFile creates a default config.yaml if the file does
// not exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
