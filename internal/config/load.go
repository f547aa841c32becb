package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ConfigFileName is the name of the bacc configuration file.
const ConfigFileName = "bacc.toml"

// FindConfigFile walks up from the given directory to find bacc.toml.
// Returns the absolute path to the config file, or an empty string if not found.
func FindConfigFile(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// LoadFromFile parses the TOML file at the given path and returns the
// configuration and TOML metadata. The metadata can be used to detect
// unknown keys via MetaData.Undecoded().
func LoadFromFile(path string) (*Config, toml.MetaData, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, md, fmt.Errorf("loading config %s: %w", path, err)
	}
	return &cfg, md, nil
}

// Discover loads the configuration file for a command run. An explicit path
// must exist; otherwise bacc.toml is searched for upwards from dir. When no
// file is found the returned config and metadata are nil and path is empty.
func Discover(dir, explicit string) (cfg *Config, md *toml.MetaData, path string, err error) {
	path = explicit
	if path == "" {
		path, err = FindConfigFile(dir)
		if err != nil {
			return nil, nil, "", err
		}
		if path == "" {
			return nil, nil, "", nil
		}
	}

	cfg, meta, err := LoadFromFile(path)
	if err != nil {
		return nil, nil, path, err
	}
	if abs, absErr := filepath.Abs(path); absErr == nil {
		path = abs
	}
	return cfg, &meta, path, nil
}
