// Root command and shared directory resolution for the medimeld CLI.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/medimeld/medimeld/internal/paths"
	"github.com/medimeld/medimeld/internal/sqlite"
	"github.com/medimeld/medimeld/pkg/types"
)

const version = "0.1.0"

// Global flag values.
var (
	flagConfigDir string
	flagDataDir   string
)

// Values loaded from config.yaml by PersistentPreRunE so all subcommands
// can use them.
var (
	configDataDir    string
	configListenAddr string
	configLogFile    string
)

var rootCmd = &cobra.Command{
	Use:     "medimeld",
	Short:   "MediMeld reconciles offline clinical notes into a central store",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Version and push do not touch local storage or config.
		if cmd.Name() == "version" || cmd.Name() == "push" {
			return nil
		}

		configDir, err := resolveConfigDir()
		if err != nil {
			return err
		}

		cfg, err := loadConfig(configDir)
		if err != nil {
			return err
		}

		configDataDir = cfg.GetString(cfgKeyDataDir)
		configListenAddr = cfg.GetString(cfgKeyListenAddr)
		configLogFile = cfg.GetString(cfgKeyLogFile)
		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: platform config dir)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default: $(CWD)/.medimeld-db)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(pendingCmd)
	rootCmd.AddCommand(ackCmd)
	rootCmd.AddCommand(pushCmd)
}

// resolveConfigDir follows: --config-dir flag > MEDIMELD_CONFIG_DIR env >
// platform default.
func resolveConfigDir() (string, error) {
	return paths.ResolveConfigDir(flagConfigDir)
}

// resolveDataDir follows: --data-dir flag > config.yaml data_dir >
// MEDIMELD_DATA_DIR env > $(CWD)/.medimeld-db.
func resolveDataDir() (string, error) {
	return paths.ResolveDataDir(flagDataDir, configDataDir)
}

// attachStore resolves the data directory and attaches a store to it.
// The caller must defer store.Detach().
func attachStore(logger *slog.Logger) (*sqlite.Store, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, err
	}

	store := sqlite.NewStore(logger)
	if err := store.Attach(types.Config{DataDir: dataDir}); err != nil {
		return nil, err
	}
	return store, nil
}

// newLogger builds the process logger. With a log file configured, output
// goes to a size-rotated file as JSON; otherwise text to stderr.
func newLogger(logFile string) *slog.Logger {
	if logFile == "" {
		return slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	return slog.New(slog.NewJSONHandler(&lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    50, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}, nil))
}
