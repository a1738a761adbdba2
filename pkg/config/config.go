package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/michaelliao/eth-smt/pkg/core/storage/dbconfig"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is the default path to the config file.
	DefaultConfigPath = "./config/smt.yml"
	// DefaultCacheSize is the default number of decoded trie records cached
	// by the persistent store.
	DefaultCacheSize = 4096
)

// Version is the version of the tool, set at build time.
var Version string

// ErrNoConfig is returned when the config file doesn't exist.
var ErrNoConfig = errors.New("config doesn't exist")

// Config top level struct representing the config for the tool.
type Config struct {
	ApplicationConfiguration ApplicationConfiguration `yaml:"ApplicationConfiguration"`
}

// Load attempts to load the config from the default path.
func Load() (Config, error) {
	return LoadFile(DefaultConfigPath)
}

// LoadFile loads config from the provided path. Unknown fields are
// rejected.
func LoadFile(configPath string) (Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return Config{}, fmt.Errorf("%w: '%s'", ErrNoConfig, configPath)
	}

	configData, err := os.ReadFile(configPath)
	if err != nil {
		return Config{}, fmt.Errorf("unable to read config: %w", err)
	}

	config := Config{
		ApplicationConfiguration: ApplicationConfiguration{
			DBConfiguration: dbconfig.DBConfiguration{
				Type: dbconfig.InMemoryDB,
			},
			Trie: TrieConfiguration{
				CacheSize: DefaultCacheSize,
			},
		},
	}
	decoder := yaml.NewDecoder(bytes.NewReader(configData))
	decoder.KnownFields(true)
	err = decoder.Decode(&config)
	if err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}

	err = config.ApplicationConfiguration.Validate()
	if err != nil {
		return Config{}, err
	}
	return config, nil
}
