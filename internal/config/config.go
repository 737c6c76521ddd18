// # internal/config/config.go
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Root    string  `toml:"root"`
	Exclude Exclude `toml:"exclude"`
	Watch   Watch   `toml:"watch"`
	Store   Store   `toml:"store"`
	Metrics Metrics `toml:"metrics"`
	Tracing Tracing `toml:"tracing"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
}

type Store struct {
	Path string `toml:"path"`
}

type Metrics struct {
	Addr string `toml:"addr"`
}

type Tracing struct {
	Enabled  bool   `toml:"enabled"`
	Endpoint string `toml:"endpoint"`
}

// DefaultExcludeDirs covers dependency and build output directories that
// should never be indexed.
var DefaultExcludeDirs = []string{
	"node_modules",
	"dist",
	"build",
	"out",
	"coverage",
	".git",
	".next",
	"vendor",
}

func Default() *Config {
	return &Config{
		Root: ".",
		Exclude: Exclude{
			Dirs: append([]string(nil), DefaultExcludeDirs...),
		},
		Watch: Watch{Debounce: 500 * time.Millisecond},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, err
	}

	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if cfg.Root == "" {
		cfg.Root = "."
	}
	if len(cfg.Exclude.Dirs) == 0 {
		cfg.Exclude.Dirs = append([]string(nil), DefaultExcludeDirs...)
	}

	return cfg, nil
}
