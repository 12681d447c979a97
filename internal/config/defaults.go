package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/threes.yaml
var defaultYAML []byte

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Storage: StorageConfig{
			DBPath: "~/.threes/threes.db",
			Cart:   "default",
		},
		Save: SaveConfig{
			Policy: "spawn",
		},
		Game: GameConfig{
			TickRate:   30,
			ShakeTicks: 10,
		},
		Server: ServerConfig{
			SSHAddr:     ":2222",
			HostKey:     ".ssh/threes_ed25519",
			IdleTimeout: 10 * time.Minute,
			WSAddr:      ":8080",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
