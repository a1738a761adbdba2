package config

import (
	"errors"
	"fmt"

	"github.com/michaelliao/eth-smt/pkg/core/storage/dbconfig"
)

// ApplicationConfiguration config specific to the tool.
type ApplicationConfiguration struct {
	LogLevel        string                   `yaml:"LogLevel"`
	LogPath         string                   `yaml:"LogPath"`
	DBConfiguration dbconfig.DBConfiguration `yaml:"DBConfiguration"`
	Pprof           BasicService             `yaml:"Pprof"`
	Prometheus      BasicService             `yaml:"Prometheus"`
	Trie            TrieConfiguration        `yaml:"Trie"`
}

// TrieConfiguration contains persistent trie store settings.
type TrieConfiguration struct {
	// CacheSize is the number of decoded records kept in memory, 0 disables
	// the cache.
	CacheSize int `yaml:"CacheSize"`
	// Compress enables lz4 compression of stored records.
	Compress bool `yaml:"Compress"`
}

// Validate checks ApplicationConfiguration for internal consistency and returns
// an error if any invalid settings are found.
func (a *ApplicationConfiguration) Validate() error {
	switch a.DBConfiguration.Type {
	case dbconfig.InMemoryDB, dbconfig.LevelDB, dbconfig.BoltDB:
	default:
		return fmt.Errorf("invalid DBConfiguration.Type: %q", a.DBConfiguration.Type)
	}
	if a.Trie.CacheSize < 0 {
		return errors.New("negative Trie.CacheSize")
	}
	for name, s := range map[string]BasicService{"Pprof": a.Pprof, "Prometheus": a.Prometheus} {
		if s.Enabled && len(s.Addresses) == 0 {
			return fmt.Errorf("no addresses specified for the enabled %s service", name)
		}
	}
	return nil
}
