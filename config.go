package keystore

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// FileConfig mirrors the optional keystore section of a deployment's yaml
// config. Zero fields fall back to defaults; the passphrase never lives in
// the file and arrives only via environment.
type FileConfig struct {
	Path            string `yaml:"path"`
	CacheSize       int    `yaml:"cacheSize"`
	VerifyCacheSize int    `yaml:"verifyCacheSize"`
	Metrics         bool   `yaml:"metrics"`

	Passphrase string `yaml:"-"`
}

func DefaultConfig() FileConfig {
	return FileConfig{
		Path:            DefaultPath,
		CacheSize:       DefaultCacheSize,
		VerifyCacheSize: DefaultCacheSize,
	}
}

// LoadConfig reads a yaml config from configPath, merges it over the
// defaults, and applies environment overrides. An empty configPath skips the
// file and yields defaults plus environment.
func LoadConfig(configPath string) (FileConfig, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return cfg, fmt.Errorf("read config %q: %w", configPath, err)
		}
		var parsed FileConfig
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			return cfg, fmt.Errorf("parse config %q: %w", configPath, err)
		}
		Merge(&cfg, parsed)
	}

	ApplyEnvOverrides(&cfg)
	return cfg, nil
}

func Merge(dst *FileConfig, src FileConfig) {
	if src.Path != "" {
		dst.Path = src.Path
	}
	if src.CacheSize > 0 {
		dst.CacheSize = src.CacheSize
	}
	if src.VerifyCacheSize > 0 {
		dst.VerifyCacheSize = src.VerifyCacheSize
	}
	if src.Metrics {
		dst.Metrics = true
	}
}

func ApplyEnvOverrides(cfg *FileConfig) {
	if v := os.Getenv("KEYSTORE_PATH"); v != "" {
		cfg.Path = v
	}
	if v := os.Getenv("KEYSTORE_CACHE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.CacheSize = n
		}
	}
	if v := os.Getenv("KEYSTORE_PASSPHRASE"); v != "" {
		cfg.Passphrase = v
	}
}

// Options converts the config into constructor options. Metrics registration
// stays with the caller, which owns the registry.
func (c FileConfig) Options() Options {
	return Options{
		Path:       c.Path,
		CacheSize:  c.CacheSize,
		Passphrase: c.Passphrase,
	}
}
