// Package config provides YAML-based configuration loading for the
// Threes player, server and tools.
package config

import (
	"fmt"
	"time"

	"github.com/vovakirdan/tui-threes/internal/games/threes"
)

// Config is the full application configuration.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Save    SaveConfig    `yaml:"save"`
	Game    GameConfig    `yaml:"game"`
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
}

// StorageConfig locates the score and memory database.
type StorageConfig struct {
	DBPath string `yaml:"db_path"`
	Cart   string `yaml:"cart"` // memory image used by local play
}

// SaveConfig controls when sessions write their memory image.
type SaveConfig struct {
	Policy string `yaml:"policy"` // "spawn", "move" or "manual"
}

// GameConfig holds simulation settings.
type GameConfig struct {
	Seed       int64 `yaml:"seed"`        // 0 seeds from the clock
	TickRate   int   `yaml:"tick_rate"`   // ticks per second
	ShakeTicks int   `yaml:"shake_ticks"` // negative disables the shake
}

// ServerConfig holds the SSH and websocket listener settings.
type ServerConfig struct {
	SSHAddr     string        `yaml:"ssh_addr"`
	HostKey     string        `yaml:"host_key"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
	WSAddr      string        `yaml:"ws_addr"`
}

// LogConfig sets the log verbosity.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// SavePolicy returns the parsed save policy.
func (c Config) SavePolicy() (threes.SavePolicy, error) {
	return threes.ParseSavePolicy(c.Save.Policy)
}

// Seed returns the configured seed, or the current time when unset.
func (c Config) Seed() int64 {
	if c.Game.Seed != 0 {
		return c.Game.Seed
	}
	return time.Now().UnixNano()
}

// Validate checks the configuration for values the game cannot run with.
func (c Config) Validate() error {
	if c.Storage.DBPath == "" {
		return fmt.Errorf("config: storage.db_path is required")
	}
	if c.Game.TickRate <= 0 || c.Game.TickRate > 240 {
		return fmt.Errorf("config: game.tick_rate must be in 1..240, got %d", c.Game.TickRate)
	}
	if _, err := c.SavePolicy(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Server.IdleTimeout < 0 {
		return fmt.Errorf("config: server.idle_timeout must not be negative")
	}
	return nil
}
