// Package config holds the settings of the game binary. Every flag default
// can be overridden through an environment variable.
package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/brensch/tilesnake/game"
	"github.com/brensch/tilesnake/logging"
	"github.com/brensch/tilesnake/score"
)

type Config struct {
	BoardSize    int
	TileSize     int
	StartX       int
	StartY       int
	TickInterval time.Duration
	Reward       int

	HighScoreKey string
	Store        string // memory, file or sqlite
	StorePath    string

	HistoryDir string
	LogPath    string
	LogLevel   string
	PrettyLogs bool

	SpectateAddr string
	Autopilot    bool
	Seed         int64
}

// DefaultConfig returns the classic 20x20 board with a 300ms tick.
func DefaultConfig() Config {
	return Config{
		BoardSize:    400,
		TileSize:     20,
		StartX:       10,
		StartY:       10,
		TickInterval: 300 * time.Millisecond,
		Reward:       10,
		HighScoreKey: score.DefaultKey,
		Store:        "file",
		StorePath:    filepath.Join(dataDir(), "highscore.log"),
		LogLevel:     "info",
	}
}

func dataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "tilesnake")
	}
	return "tilesnake-data"
}

// RegisterFlags binds c to fs. Values already in c, after environment
// overrides, become the flag defaults.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.BoardSize, "board-size", EnvIntOrDefault("SNAKE_BOARD_SIZE", c.BoardSize), "Board size in pixels")
	fs.IntVar(&c.TileSize, "tile-size", EnvIntOrDefault("SNAKE_TILE_SIZE", c.TileSize), "Tile size in pixels")
	fs.IntVar(&c.StartX, "start-x", EnvIntOrDefault("SNAKE_START_X", c.StartX), "Starting tile column")
	fs.IntVar(&c.StartY, "start-y", EnvIntOrDefault("SNAKE_START_Y", c.StartY), "Starting tile row")
	fs.DurationVar(&c.TickInterval, "tick", EnvDurationOrDefault("SNAKE_TICK", c.TickInterval), "Interval between game ticks")
	fs.IntVar(&c.Reward, "reward", EnvIntOrDefault("SNAKE_REWARD", c.Reward), "Points per food eaten")
	fs.StringVar(&c.HighScoreKey, "highscore-key", EnvOrDefault("SNAKE_HIGHSCORE_KEY", c.HighScoreKey), "Key the high score is stored under")
	fs.StringVar(&c.Store, "store", EnvOrDefault("SNAKE_STORE", c.Store), "High score store: memory, file or sqlite")
	fs.StringVar(&c.StorePath, "store-path", EnvOrDefault("SNAKE_STORE_PATH", c.StorePath), "Path of the high score store")
	fs.StringVar(&c.HistoryDir, "history-dir", EnvOrDefault("SNAKE_HISTORY_DIR", c.HistoryDir), "Directory for per-game parquet archives (empty disables)")
	fs.StringVar(&c.LogPath, "log-path", EnvOrDefault("SNAKE_LOG", c.LogPath), "Log file (empty discards logs)")
	fs.StringVar(&c.LogLevel, "log-level", EnvOrDefault("SNAKE_LOG_LEVEL", c.LogLevel), "Log level: debug, info, warn, error")
	fs.BoolVar(&c.PrettyLogs, "pretty-logs", EnvBoolOrDefault("SNAKE_PRETTY_LOGS", c.PrettyLogs), "Indent JSON log records")
	fs.StringVar(&c.SpectateAddr, "spectate", EnvOrDefault("SNAKE_SPECTATE", c.SpectateAddr), "HTTP address serving live websocket frames (empty disables)")
	fs.BoolVar(&c.Autopilot, "autopilot", EnvBoolOrDefault("SNAKE_AUTOPILOT", c.Autopilot), "Let the built-in autopilot steer")
	fs.Int64Var(&c.Seed, "seed", EnvInt64OrDefault("SNAKE_SEED", c.Seed), "Food RNG seed (0 picks one from the clock)")
}

// Grid builds the tile grid described by c.
func (c Config) Grid() (game.Grid, error) {
	return game.NewGrid(c.BoardSize, c.TileSize)
}

func (c Config) Start() game.Point {
	return game.Point{X: c.StartX, Y: c.StartY}
}

// Validate reports the first setting that cannot produce a playable game.
func (c Config) Validate() error {
	grid, err := c.Grid()
	if err != nil {
		return fmt.Errorf("board: %w", err)
	}
	if !grid.InBounds(c.Start()) {
		return fmt.Errorf("start tile %v outside %dx%d board", c.Start(), grid.TileCount, grid.TileCount)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("tick interval must be positive, got %s", c.TickInterval)
	}
	if c.Reward <= 0 {
		return fmt.Errorf("reward must be positive, got %d", c.Reward)
	}
	switch c.Store {
	case "memory":
	case "file", "sqlite":
		if c.StorePath == "" {
			return fmt.Errorf("store %q needs -store-path", c.Store)
		}
	default:
		return fmt.Errorf("unknown store %q", c.Store)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}
