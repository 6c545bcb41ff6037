// Package paths resolves configuration and data directory locations and
// defines the on-disk layout of a Mosaic workspace.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"unicode"
)

// CWD-relative directory names used when no override is active.
const (
	DefaultConfigDirName = ".mosaic"
	DefaultDataDirName   = ".mosaic-data"
)

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "MOSAIC_CONFIG_DIR"
	EnvDataDir   = "MOSAIC_DATA_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/mosaic (fallback ~/.config/mosaic)
// macOS:   ~/Library/Application Support/mosaic
// Windows: %APPDATA%/mosaic
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "mosaic"), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", "mosaic"), nil
	default:
		// macOS and Windows use os.UserConfigDir which returns
		// ~/Library/Application Support on macOS and %APPDATA% on Windows.
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, "mosaic"), nil
	}
}

// DefaultDataDir returns the platform-specific default data directory.
//
// Linux:   $XDG_DATA_HOME/mosaic (fallback ~/.local/share/mosaic)
// macOS:   ~/Library/Application Support/mosaic
// Windows: %APPDATA%/mosaic
func DefaultDataDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			return filepath.Join(xdg, "mosaic"), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".local", "share", "mosaic"), nil
	default:
		// macOS and Windows: same as config dir.
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, "mosaic"), nil
	}
}

// ResolveConfigDir returns the configuration directory following the precedence
// chain: flag > MOSAIC_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory following the precedence chain:
// flag > configYAMLValue > MOSAIC_DATA_DIR env > DefaultDataDir().
//
// The CWD-relative default ($(CWD)/.mosaic-data) is preserved as the primary
// mode when no override is active.
func ResolveDataDir(flag, configYAMLValue string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configYAMLValue != "" {
		return filepath.Abs(configYAMLValue)
	}
	if env := os.Getenv(EnvDataDir); env != "" {
		return filepath.Abs(env)
	}
	// CWD-relative default preserves current behavior.
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}

// SanitizeName maps a display name to a folder-safe name: alphanumerics,
// dashes, underscores and spaces pass through, everything else becomes an
// underscore, and surrounding whitespace is trimmed.
func SanitizeName(name string) string {
	var b strings.Builder
	for _, c := range name {
		if unicode.IsLetter(c) || unicode.IsDigit(c) || c == '-' || c == '_' || c == ' ' {
			b.WriteRune(c)
		} else {
			b.WriteRune('_')
		}
	}
	return strings.TrimSpace(b.String())
}
