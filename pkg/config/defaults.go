package config

import (
	"os"
	"path/filepath"
)

const (
	// DefaultDirPerm is the default permissions used when creating directories.
	DefaultDirPerm = 0750

	// DefaultDataDir is the default directory for data files (e.g. database).
	DefaultDataDir = "data"

	// DefaultLogLevel is the default log level for the application
	DefaultLogLevel = "info"

	// DefaultMaxNonFinalizedBlocks is the default bound on imported blocks
	// waiting for finalization.
	DefaultMaxNonFinalizedBlocks = 256
)

// DefaultRootDir returns the default root directory for the header store.
func DefaultRootDir() string {
	return DefaultRootDirWithName(".headerstore")
}

// DefaultRootDirWithName returns a root directory under the user home with
// the given application name.
func DefaultRootDirWithName(appName string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, appName)
}

// DefaultConfig keeps default values of Config
var DefaultConfig = Config{
	RootDir: DefaultRootDir(),
	DBPath:  DefaultDataDir,
	ChainID: "",
	Store: StoreConfig{
		MaxNonFinalizedBlocks: DefaultMaxNonFinalizedBlocks,
	},
	Log: LogConfig{
		Level:  DefaultLogLevel,
		Format: "",
		Trace:  false,
	},
}
