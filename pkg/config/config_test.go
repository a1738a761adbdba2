package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/michaelliao/eth-smt/pkg/core/storage/dbconfig"
	"github.com/stretchr/testify/require"
)

func TestLoadSampleConfig(t *testing.T) {
	cfg, err := LoadFile(filepath.Join("..", "..", "config", "smt.yml"))
	require.NoError(t, err)
	app := cfg.ApplicationConfiguration
	require.Equal(t, dbconfig.LevelDB, app.DBConfiguration.Type)
	require.Equal(t, "./data/smt", app.DBConfiguration.LevelDBOptions.DataDirectoryPath)
	require.Equal(t, "info", app.LogLevel)
	require.True(t, app.Trie.Compress)
	require.Equal(t, 4096, app.Trie.CacheSize)
	require.False(t, app.Prometheus.Enabled)
	require.Equal(t, []string{":2112"}, app.Prometheus.Addresses)
}

func TestLoadFile(t *testing.T) {
	write := func(t *testing.T, data string) string {
		p := filepath.Join(t.TempDir(), "smt.yml")
		require.NoError(t, os.WriteFile(p, []byte(data), 0o644))
		return p
	}

	t.Run("missing", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yml"))
		require.ErrorIs(t, err, ErrNoConfig)
	})
	t.Run("defaults", func(t *testing.T) {
		cfg, err := LoadFile(write(t, "ApplicationConfiguration:\n  LogLevel: debug\n"))
		require.NoError(t, err)
		require.Equal(t, dbconfig.InMemoryDB, cfg.ApplicationConfiguration.DBConfiguration.Type)
		require.Equal(t, DefaultCacheSize, cfg.ApplicationConfiguration.Trie.CacheSize)
		require.False(t, cfg.ApplicationConfiguration.Trie.Compress)
	})
	t.Run("boltdb", func(t *testing.T) {
		cfg, err := LoadFile(write(t, `ApplicationConfiguration:
  DBConfiguration:
    Type: boltdb
    BoltDBOptions:
      FilePath: ./smt.bolt
  Trie:
    CacheSize: 0
`))
		require.NoError(t, err)
		require.Equal(t, "./smt.bolt", cfg.ApplicationConfiguration.DBConfiguration.BoltDBOptions.FilePath)
		require.Equal(t, 0, cfg.ApplicationConfiguration.Trie.CacheSize)
	})
	t.Run("unknown field", func(t *testing.T) {
		_, err := LoadFile(write(t, "ApplicationConfiguration:\n  Unknown: 1\n"))
		require.Error(t, err)
	})
	t.Run("bad DB type", func(t *testing.T) {
		_, err := LoadFile(write(t, "ApplicationConfiguration:\n  DBConfiguration:\n    Type: redis\n"))
		require.Error(t, err)
	})
	t.Run("negative cache", func(t *testing.T) {
		_, err := LoadFile(write(t, "ApplicationConfiguration:\n  Trie:\n    CacheSize: -1\n"))
		require.Error(t, err)
	})
	t.Run("prometheus without addresses", func(t *testing.T) {
		_, err := LoadFile(write(t, "ApplicationConfiguration:\n  Prometheus:\n    Enabled: true\n"))
		require.Error(t, err)
	})
}
