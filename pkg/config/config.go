// Package config loads the node's JSON configuration file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

const (
	defaultHTTPPort   = 8796
	defaultListenAddr = "/ip4/0.0.0.0/tcp/0"
)

// Logs configures the zerolog writer.
type Logs struct {
	Level string `json:"level,omitempty"`
	Dir   string `json:"dir,omitempty"`
}

// Config is the node's full startup configuration, loaded from a JSON file.
type Config struct {
	HTTPPort int    `json:"http_port,omitempty"`
	Address  string `json:"address,omitempty"`
	Logs     Logs   `json:"logs,omitempty"`

	// Secret is the base58-encoded ed25519 private key identifying this
	// node both as a validator wallet and as a libp2p peer.
	Secret string `json:"secret"`

	StoragePath string   `json:"storage_path,omitempty"`
	Nodes       []string `json:"nodes,omitempty"`
}

// Load reads and parses a config file at path, filling in documented
// defaults for every optional field. Secret is the only required field;
// its absence is a configuration error and aborts node startup.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if cfg.Secret == "" {
		return Config{}, fmt.Errorf("config: secret is required")
	}
	if cfg.HTTPPort == 0 {
		cfg.HTTPPort = defaultHTTPPort
	}
	if cfg.Address == "" {
		cfg.Address = defaultListenAddr
	}
	return cfg, nil
}
