package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	World     WorldConfig     `toml:"world"`
	Input     InputConfig     `toml:"input"`
	Render    RenderConfig    `toml:"render"`
	Network   NetworkConfig   `toml:"network"`
	Scripting ScriptingConfig `toml:"scripting"`
	Logging   LoggingConfig   `toml:"logging"`
}

type WorldConfig struct {
	Width    int    `toml:"width"`
	Height   int    `toml:"height"`
	MinWalls int    `toml:"min_walls"`
	MaxWalls int    `toml:"max_walls"`
	Seed     int64  `toml:"seed"` // 0 = seed from the clock
	Player   string `toml:"player"`
}

type InputConfig struct {
	Throttle  time.Duration `toml:"throttle"`
	Keymap    string        `toml:"keymap"`
	QueueSize int           `toml:"queue_size"` // per-branch signal buffer
}

type RenderConfig struct {
	TickRate time.Duration `toml:"tick_rate"`
}

type NetworkConfig struct {
	Enabled           bool          `toml:"enabled"`
	BindAddress       string        `toml:"bind_address"`
	MaxSessions       int           `toml:"max_sessions"` // concurrent controllers of the one player
	InQueueSize       int           `toml:"in_queue_size"`
	OutQueueSize      int           `toml:"out_queue_size"`
	MaxSignalsPerTick int           `toml:"max_signals_per_tick"`
	WriteTimeout      time.Duration `toml:"write_timeout"`
	ReadTimeout       time.Duration `toml:"read_timeout"`
}

type ScriptingConfig struct {
	Bootstrap string `toml:"bootstrap"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects settings the game cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.World.Width <= 0 || c.World.Height <= 0:
		return fmt.Errorf("world size %dx%d must be positive", c.World.Width, c.World.Height)
	case c.World.MinWalls < 0 || c.World.MinWalls > c.World.MaxWalls:
		return fmt.Errorf("wall range [%d, %d] is invalid", c.World.MinWalls, c.World.MaxWalls)
	case c.Input.Throttle <= 0:
		return fmt.Errorf("input throttle must be positive, got %s", c.Input.Throttle)
	case c.Input.QueueSize <= 0:
		return fmt.Errorf("input queue size must be positive, got %d", c.Input.QueueSize)
	case c.Render.TickRate <= 0:
		return fmt.Errorf("render tick rate must be positive, got %s", c.Render.TickRate)
	case c.Network.Enabled && (c.Network.ReadTimeout <= 0 || c.Network.WriteTimeout <= 0):
		return fmt.Errorf("network timeouts must be positive")
	case c.Network.Enabled && (c.Network.InQueueSize <= 0 || c.Network.MaxSignalsPerTick <= 0):
		return fmt.Errorf("network queue sizes must be positive")
	case c.Network.Enabled && c.Network.MaxSessions <= 0:
		return fmt.Errorf("network max sessions must be positive, got %d", c.Network.MaxSessions)
	}
	return nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return defaults()
}

func defaults() *Config {
	return &Config{
		World: WorldConfig{
			Width:    32,
			Height:   32,
			MinWalls: 10,
			MaxWalls: 19,
			Player:   "crusoe",
		},
		Input: InputConfig{
			Throttle:  100 * time.Millisecond,
			Keymap:    "data/yaml/keymap.yaml",
			QueueSize: 64,
		},
		Render: RenderConfig{
			TickRate: 17 * time.Millisecond,
		},
		Network: NetworkConfig{
			Enabled:           true,
			BindAddress:       "127.0.0.1:7070",
			MaxSessions:       1,
			InQueueSize:       64,
			OutQueueSize:      8,
			MaxSignalsPerTick: 16,
			WriteTimeout:      10 * time.Second,
			ReadTimeout:       60 * time.Second,
		},
		Scripting: ScriptingConfig{
			Bootstrap: "scripts/bootstrap.lua",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
