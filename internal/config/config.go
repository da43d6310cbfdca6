package config

import (
	"errors"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Pool  PoolConfig  `yaml:"pool"`
	BFS   BFSConfig   `yaml:"bfs"`
	Graph GraphConfig `yaml:"graph"`
	Log   LogConfig   `yaml:"log"`
}

type PoolConfig struct {
	Workers int `yaml:"workers"` // 0 means GOMAXPROCS
}

type BFSConfig struct {
	Source     uint32 `yaml:"source"`
	Undirected bool   `yaml:"undirected"`
}

type GraphConfig struct {
	Path     string `yaml:"path"`      // whitespace edge list
	SQLite   string `yaml:"sqlite"`    // database file, used when Path is empty
	Table    string `yaml:"table"`
	MaxNodes int    `yaml:"max_nodes"` // 0 keeps the loader's default limit
}

type LogConfig struct {
	Development bool   `yaml:"development"`
	Level       string `yaml:"level"` // debug, info, warn, error
}

const (
	DefaultTable = "edges"
	DefaultLevel = "info"
)

func defaults() *Config {
	return &Config{
		Graph: GraphConfig{Table: DefaultTable},
		Log:   LogConfig{Level: DefaultLevel},
	}
}

// Load returns the defaults overlaid with the YAML file at path.
// An empty path looks for configs/bfs.yaml and bfs.yaml and falls back to the defaults
// when neither exists; any other read error is returned.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path == "" {
		for _, p := range []string{"configs/bfs.yaml", "bfs.yaml"} {
			data, err := os.ReadFile(p)
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			if err != nil {
				return cfg, err
			}
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return cfg, err
			}
			break
		}
		applyDefaults(cfg)
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return cfg, err
	}
	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Pool.Workers < 0 {
		cfg.Pool.Workers = 0
	}
	if cfg.Graph.MaxNodes < 0 {
		cfg.Graph.MaxNodes = 0
	}
	if cfg.Graph.Table == "" {
		cfg.Graph.Table = DefaultTable
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLevel
	}
}
