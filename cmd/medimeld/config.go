// Config loading for the medimeld CLI.
package main

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/medimeld/medimeld/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyDataDir    = "data_dir"
	cfgKeyListenAddr = "listen_addr"
	cfgKeyLogFile    = "log_file"
)

// loadConfig reads config.yaml from the resolved config directory using
// Viper. A missing config.yaml is not an error; the init command writes
// the default one.
func loadConfig(configDir string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgKeyListenAddr, types.DefaultListenAddr)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	return v, nil
}
