// Init command: create configuration and data directories and materialize
// the storage schema.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/medimeld/medimeld/internal/sqlite"
	"github.com/medimeld/medimeld/pkg/types"
)

// configFile holds the structure written to config.yaml.
type configFile struct {
	ListenAddr string `yaml:"listen_addr"`
	DataDir    string `yaml:"data_dir,omitempty"`
	LogFile    string `yaml:"log_file,omitempty"`
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize medimeld storage",
	Long:  "Create the configuration directory, a default config.yaml, and the note database. Safe to run repeatedly.",
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	configDir, err := resolveConfigDir()
	if err != nil {
		return err
	}
	dataDir, err := resolveDataDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	configPath := filepath.Join(configDir, configFileExt)
	if err := writeConfigIfMissing(configPath, dataDir); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	// Attach then detach to create the database file and schema.
	store := sqlite.NewStore(newLogger(""))
	if err := store.Attach(types.Config{DataDir: dataDir}); err != nil {
		return fmt.Errorf("initialize storage: %w", err)
	}
	if err := store.Detach(); err != nil {
		return fmt.Errorf("finalize storage: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "MediMeld storage initialized successfully")
	return nil
}

// writeConfigIfMissing creates config.yaml with default values if the
// file does not exist. If it already exists, the function returns nil.
func writeConfigIfMissing(path, dataDir string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	cfg := configFile{
		ListenAddr: types.DefaultListenAddr,
		DataDir:    dataDir,
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}
