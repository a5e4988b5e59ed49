// Package dispatchcfg implements loading of a typedfn.yaml
// configuration file via gopkg.in/yaml.v3.
//
// A config file is entirely optional: its absence only means the
// engine falls back to registry.Default's built-in settings and the
// assembler's own defaults.
package dispatchcfg

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level typedfn.yaml configuration.
type Config struct {
	// FastPathPrefix is the number of leading arity-≤2 defs the
	// assembler specializes. It is parsed here only: neither
	// cmd/typedfn nor cmd/typedfnd passes it to the assembler, whose
	// hosted callables use dispatch.DefaultFastPathPrefix.
	FastPathPrefix int `yaml:"fastPathPrefix,omitempty"`

	// Ignore lists type names to strip from every param during
	// signature normalization.
	Ignore []string `yaml:"ignore,omitempty"`

	// Listen is the gRPC daemon's bind address (cmd/typedfnd).
	Listen string `yaml:"listen,omitempty"`

	// Cache configures the signature-set cache (internal/sigcache).
	Cache CacheConfig `yaml:"cache,omitempty"`
}

// CacheConfig configures the SQLite-backed signature-set cache.
type CacheConfig struct {
	Path string `yaml:"path,omitempty"`
}

// Load parses the typedfn.yaml file at path. A missing file is not an
// error: Load returns a zero Config and a nil error so callers can
// unconditionally apply defaults on top of it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &cfg, nil
}
