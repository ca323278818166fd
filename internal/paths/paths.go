// Package paths resolves configuration and data directory locations for
// the medimeld CLI.
package paths

import (
	"os"
	"path/filepath"
)

// DefaultDataDirName is the CWD-relative data directory used when no
// override is active.
const DefaultDataDirName = ".medimeld-db"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "MEDIMELD_CONFIG_DIR"
	EnvDataDir   = "MEDIMELD_DATA_DIR"
)

// DefaultConfigDir returns the platform default configuration directory:
// a "medimeld" subdirectory of os.UserConfigDir, so $XDG_CONFIG_HOME (with
// the ~/.config fallback) on Linux, ~/Library/Application Support on
// macOS, %AppData% on Windows.
func DefaultConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "medimeld"), nil
}

// ResolveConfigDir returns the configuration directory following the
// precedence chain: flag > MEDIMELD_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory following the precedence
// chain: flag > config.yaml data_dir > MEDIMELD_DATA_DIR env >
// $(CWD)/.medimeld-db.
//
// The CWD-relative default keeps a server's database next to its working
// directory unless the operator opts into a shared location.
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
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}
