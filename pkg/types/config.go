package types

import "errors"

// DefaultListenAddr is the address the HTTP API binds when none is configured.
const DefaultListenAddr = ":8000"

// DefaultListLimit caps List results when the caller passes no limit.
const DefaultListLimit = 100

// Config holds the parameters for Store.Attach and the serve command.
type Config struct {
	// DataDir is where medimeld.db lives. Empty means the current directory.
	DataDir string `json:"data_dir" yaml:"data_dir"`
	// ListenAddr is the HTTP bind address for serve.
	ListenAddr string `json:"listen_addr" yaml:"listen_addr"`
	// LogFile, when set, routes logs to a rotating file instead of stderr.
	LogFile string `json:"log_file" yaml:"log_file"`
}

// ErrListenAddrEmpty is returned by Validate when serve has no bind address.
var ErrListenAddrEmpty = errors.New("listen address must not be empty")

// Validate checks that the Config is usable for serving. Storage-only
// callers may attach with a zero Config.
func (c Config) Validate() error {
	if c.ListenAddr == "" {
		return ErrListenAddrEmpty
	}
	return nil
}
