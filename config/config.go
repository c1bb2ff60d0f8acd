// Package config loads graph-canvas configuration from TOML files and
// GRAPHCANVAS_* environment variables.
package config

import (
	"fmt"
)

// Config is the root configuration for the canvas shell and the graph
// server.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	Client  ClientConfig  `mapstructure:"client"`
	Canvas  CanvasConfig  `mapstructure:"canvas"`
}

// ServerConfig configures the graph server process.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// StorageConfig selects and configures the server's persistence backend.
type StorageConfig struct {
	// Backend is one of "memory", "jsonfile", or "sqlite".
	Backend string `mapstructure:"backend"`
	Path    string `mapstructure:"path"`
}

// ClientConfig configures the shell's connection to the graph server.
type ClientConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// CanvasConfig configures interaction behavior of the canvas itself.
type CanvasConfig struct {
	EnableEdgeCreate bool   `mapstructure:"enable_edge_create"`
	EnableRewire     bool   `mapstructure:"enable_rewire"`
	EnableDelete     bool   `mapstructure:"enable_delete"`
	HistoryLimit     int    `mapstructure:"history_limit"`
	SessionPath      string `mapstructure:"session_path"`
}

// String returns a short description for logs.
func (c *Config) String() string {
	return fmt.Sprintf("Config{Server: %s, Storage: %s:%s, Client: %s}",
		c.Server.Addr, c.Storage.Backend, c.Storage.Path, c.Client.BaseURL)
}
