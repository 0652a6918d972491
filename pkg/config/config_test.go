package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	def := DefaultConfig
	assert.Equal(t, "data", def.DBPath)
	assert.Equal(t, "", def.ChainID)
	assert.Equal(t, uint64(DefaultMaxNonFinalizedBlocks), def.Store.MaxNonFinalizedBlocks)
	assert.Equal(t, "info", def.Log.Level)
	assert.Equal(t, "", def.Log.Format)
	assert.Equal(t, false, def.Log.Trace)
}

func TestAddFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	AddGlobalFlags(cmd, "test")
	AddFlags(cmd)

	flags := cmd.Flags()
	persistentFlags := cmd.PersistentFlags()

	assertFlagValue(t, flags, FlagDBPath, DefaultConfig.DBPath)
	assertFlagValue(t, flags, FlagChainID, DefaultConfig.ChainID)
	assertFlagValue(t, flags, FlagMaxNonFinalizedBlocks, DefaultConfig.Store.MaxNonFinalizedBlocks)

	assertFlagValue(t, persistentFlags, FlagLogLevel, DefaultConfig.Log.Level)
	assertFlagValue(t, persistentFlags, FlagLogFormat, DefaultConfig.Log.Format)
	assertFlagValue(t, persistentFlags, FlagLogTrace, DefaultConfig.Log.Trace)
}

func TestLoadPrecedence(t *testing.T) {
	home := t.TempDir()

	yamlContent := `
chain_id: yaml-chain
store:
  max_non_finalized_blocks: 64
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(home, ConfigFileName), []byte(yamlContent), 0o600))

	t.Run("yaml overrides defaults", func(t *testing.T) {
		cmd := &cobra.Command{Use: "test"}
		AddGlobalFlags(cmd, "test")
		AddFlags(cmd)
		require.NoError(t, cmd.PersistentFlags().Set(FlagRootDir, home))

		cfg, err := Load(cmd, home)
		require.NoError(t, err)
		assert.Equal(t, "yaml-chain", cfg.ChainID)
		assert.Equal(t, uint64(64), cfg.Store.MaxNonFinalizedBlocks)
		assert.Equal(t, "debug", cfg.Log.Level)
		// untouched values keep their defaults
		assert.Equal(t, DefaultConfig.DBPath, cfg.DBPath)
	})

	t.Run("flags override yaml", func(t *testing.T) {
		cmd := &cobra.Command{Use: "test"}
		AddGlobalFlags(cmd, "test")
		AddFlags(cmd)
		require.NoError(t, cmd.PersistentFlags().Set(FlagRootDir, home))
		require.NoError(t, cmd.Flags().Set(FlagChainID, "flag-chain"))
		require.NoError(t, cmd.Flags().Set(FlagMaxNonFinalizedBlocks, "16"))

		cfg, err := Load(cmd, home)
		require.NoError(t, err)
		assert.Equal(t, "flag-chain", cfg.ChainID)
		assert.Equal(t, uint64(16), cfg.Store.MaxNonFinalizedBlocks)
	})
}

func TestLoadWithoutConfigFile(t *testing.T) {
	home := t.TempDir()

	cmd := &cobra.Command{Use: "test"}
	AddGlobalFlags(cmd, "test")
	AddFlags(cmd)
	require.NoError(t, cmd.PersistentFlags().Set(FlagRootDir, home))

	cfg, err := Load(cmd, home)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig.DBPath, cfg.DBPath)
	assert.Equal(t, DefaultConfig.Store.MaxNonFinalizedBlocks, cfg.Store.MaxNonFinalizedBlocks)
}

func TestValidate(t *testing.T) {
	valid := DefaultConfig
	valid.ChainID = "test-chain"
	require.NoError(t, valid.Validate())

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty chain id", func(c *Config) { c.ChainID = "" }},
		{"empty db path", func(c *Config) { c.DBPath = "" }},
		{"zero backlog limit", func(c *Config) { c.Store.MaxNonFinalizedBlocks = 0 }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestWriteReadYamlRoundTrip(t *testing.T) {
	home := t.TempDir()

	cfg := DefaultConfig
	cfg.RootDir = home
	cfg.ChainID = "roundtrip-chain"
	cfg.Store.MaxNonFinalizedBlocks = 32
	require.NoError(t, WriteYaml(cfg))

	got, err := ReadYaml(home)
	require.NoError(t, err)
	assert.Equal(t, "roundtrip-chain", got.ChainID)
	assert.Equal(t, uint64(32), got.Store.MaxNonFinalizedBlocks)
	assert.Equal(t, home, got.RootDir)
}

func TestDBDir(t *testing.T) {
	cfg := Config{RootDir: "/tmp/hs", DBPath: "data"}
	assert.Equal(t, filepath.Join("/tmp/hs", "data"), cfg.DBDir())

	cfg.DBPath = "/var/lib/hs"
	assert.Equal(t, "/var/lib/hs", cfg.DBDir())
}

func assertFlagValue(t *testing.T, flags *pflag.FlagSet, name string, expectedValue any) {
	t.Helper()
	flag := flags.Lookup(name)
	require.NotNil(t, flag, "flag %s not registered", name)
	assert.Equal(t, fmt.Sprintf("%v", expectedValue), flag.DefValue, "flag %s default", name)
}
