package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Base configuration flags

	// FlagRootDir is a flag for specifying the root directory
	FlagRootDir = "home"
	// FlagDBPath is a flag for specifying the database path
	FlagDBPath = "headerstore.db_path"
	// FlagChainID is a flag for specifying the chain ID
	FlagChainID = "chain_id"

	// Store configuration flags

	// FlagMaxNonFinalizedBlocks is a flag for limiting how many imported
	// blocks may wait for finalization
	FlagMaxNonFinalizedBlocks = "headerstore.store.max_non_finalized_blocks"

	// Logging configuration flags

	// FlagLogLevel is a flag for specifying the log level
	FlagLogLevel = "headerstore.log.level"
	// FlagLogFormat is a flag for specifying the log format
	FlagLogFormat = "headerstore.log.format"
	// FlagLogTrace is a flag for enabling stack traces in error logs
	FlagLogTrace = "headerstore.log.trace"
)

// Config stores the header store configuration.
type Config struct {
	// Base configuration
	RootDir string `mapstructure:"-" yaml:"-" comment:"Root directory where header store files are located"`
	DBPath  string `mapstructure:"db_path" yaml:"db_path" comment:"Path inside the root directory where the database is located"`
	ChainID string `mapstructure:"chain_id" yaml:"chain_id" comment:"Chain ID of the tracked chain"`

	// Store specific configuration
	Store StoreConfig `mapstructure:"store" yaml:"store"`

	// Logging configuration
	Log LogConfig `mapstructure:"log" yaml:"log"`
}

// StoreConfig contains the chain store configuration parameters.
type StoreConfig struct {
	MaxNonFinalizedBlocks uint64 `mapstructure:"max_non_finalized_blocks" yaml:"max_non_finalized_blocks" comment:"Maximum number of imported blocks waiting for finalization. Imports beyond this limit are rejected until older blocks are finalized."`
}

// LogConfig contains all logging configuration parameters
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level" comment:"Log level (debug, info, warn, error)"`
	Format string `mapstructure:"format" yaml:"format" comment:"Log format (text, json)"`
	Trace  bool   `mapstructure:"trace" yaml:"trace" comment:"Enable stack traces in error logs"`
}

// Validate checks the configuration for values that can never work.
func (c Config) Validate() error {
	var errs error
	if c.ChainID == "" {
		errs = multierror.Append(errs, errors.New("chain_id cannot be empty"))
	}
	if c.DBPath == "" {
		errs = multierror.Append(errs, errors.New("db_path cannot be empty"))
	}
	if c.Store.MaxNonFinalizedBlocks == 0 {
		errs = multierror.Append(errs, errors.New("store.max_non_finalized_blocks must be positive"))
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		errs = multierror.Append(errs, fmt.Errorf("unknown log level: %q", c.Log.Level))
	}
	return errs
}

// AddGlobalFlags registers the basic configuration flags that are common across applications
func AddGlobalFlags(cmd *cobra.Command, appName string) {
	cmd.PersistentFlags().String(FlagLogLevel, DefaultConfig.Log.Level, "Set the log level (debug, info, warn, error)")
	cmd.PersistentFlags().String(FlagLogFormat, DefaultConfig.Log.Format, "Set the log format (text, json)")
	cmd.PersistentFlags().Bool(FlagLogTrace, DefaultConfig.Log.Trace, "Enable stack traces in error logs")
	cmd.PersistentFlags().String(FlagRootDir, DefaultRootDirWithName(appName), "Root directory for application data")
}

// AddFlags adds header store configuration options to a cobra Command.
func AddFlags(cmd *cobra.Command) {
	def := DefaultConfig

	cmd.Flags().String(FlagDBPath, def.DBPath, "path for the store database")
	cmd.Flags().String(FlagChainID, def.ChainID, "chain ID")
	cmd.Flags().Uint64(FlagMaxNonFinalizedBlocks, def.Store.MaxNonFinalizedBlocks, "maximum imported blocks waiting for finalization")
}

// Load builds the configuration in the following order of precedence:
// 1. DefaultConfig (lowest priority)
// 2. YAML configuration file
// 3. Command line flags (highest priority)
func Load(cmd *cobra.Command, home string) (Config, error) {
	// A fresh Viper instance avoids conflicts with any global Viper
	v := viper.New()

	config := DefaultConfig
	setDefaultsInViper(v, config)

	// Resolve the root directory from flags first so the config file search
	// paths are correct
	rootDirFromFlag, _ := cmd.Flags().GetString(FlagRootDir)
	if rootDirFromFlag != "" {
		config.RootDir = rootDirFromFlag
	}

	v.SetConfigName(ConfigBaseName)
	v.SetConfigType(ConfigExtension)
	if home != "" {
		v.AddConfigPath(home)
	}
	if config.RootDir != "" && config.RootDir != home {
		v.AddConfigPath(config.RootDir)
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFound) {
			return config, fmt.Errorf("error reading YAML configuration: %w", err)
		}
		// No config file is fine, defaults and flags still apply
	}

	var flagErrs error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		flagName := strings.TrimPrefix(f.Name, "headerstore.")
		if err := v.BindPFlag(flagName, f); err != nil {
			flagErrs = multierror.Append(flagErrs, err)
		}
	})
	if flagErrs != nil {
		return config, fmt.Errorf("unable to bind flags: %w", flagErrs)
	}

	if err := v.Unmarshal(&config, func(c *mapstructure.DecoderConfig) {
		c.TagName = "mapstructure"
		c.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return config, fmt.Errorf("unable to decode configuration: %w", err)
	}

	return config, nil
}

// DBDir returns the absolute path of the store database directory.
func (c Config) DBDir() string {
	if filepath.IsAbs(c.DBPath) {
		return c.DBPath
	}
	return filepath.Join(c.RootDir, c.DBPath)
}

// setDefaultsInViper registers every leaf config value as a Viper default so
// values absent from the YAML file and flags keep their defaults.
func setDefaultsInViper(v *viper.Viper, config Config) {
	v.SetDefault("db_path", config.DBPath)
	v.SetDefault("chain_id", config.ChainID)
	v.SetDefault("store.max_non_finalized_blocks", config.Store.MaxNonFinalizedBlocks)
	v.SetDefault("log.level", config.Log.Level)
	v.SetDefault("log.format", config.Log.Format)
	v.SetDefault("log.trace", config.Log.Trace)
}
