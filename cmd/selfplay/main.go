package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/brensch/tilesnake/config"
	"github.com/brensch/tilesnake/logging"
	"github.com/brensch/tilesnake/rules"
	"github.com/brensch/tilesnake/score"
	"github.com/brensch/tilesnake/selfplay"
)

func main() {
	cfg := config.DefaultConfig()
	cfg.Store = "memory"
	cfg.HistoryDir = "data/selfplay"
	cfg.RegisterFlags(flag.CommandLine)
	workers := flag.Int("workers", config.EnvIntOrDefault("SNAKE_WORKERS", 8), "Number of self-play workers")
	maxGames := flag.Int64("max-games", config.EnvInt64OrDefault("SNAKE_MAX_GAMES", 0), "If > 0, stop after this many games (across all workers)")
	maxTicks := flag.Int("max-ticks", config.EnvIntOrDefault("SNAKE_MAX_TICKS", 20000), "Abort a game after this many ticks (0 = never)")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}
	grid, _ := cfg.Grid()

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Invalid log level: %v", err)
	}
	var logger *slog.Logger
	if cfg.LogPath == "" {
		logger = slog.New(logging.NewJSONHandler(os.Stderr, cfg.PrettyLogs, &slog.HandlerOptions{Level: level}))
	} else {
		l, closer, err := logging.Open(cfg.LogPath, level, cfg.PrettyLogs)
		if err != nil {
			log.Fatalf("Failed to open log: %v", err)
		}
		defer closer.Close()
		logger = l
	}

	kv, kvCloser, err := score.OpenKV(cfg.Store, cfg.StorePath)
	if err != nil {
		log.Fatalf("Failed to open score store: %v", err)
	}
	defer kvCloser.Close()
	scores := score.NewSyncStore(score.Load(logger, kv, cfg.HighScoreKey))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool := selfplay.NewPool(selfplay.PoolConfig{
		Workers:  *workers,
		MaxGames: *maxGames,
		MaxTicks: *maxTicks,
		Seed:     cfg.Seed,
		Rules: rules.Config{
			Grid:   grid,
			Start:  cfg.Start(),
			Reward: cfg.Reward,
			Logger: logger,
		},
		Scores:     scores,
		HistoryDir: cfg.HistoryDir,
		Logger:     logger,
	})

	log.Printf("Starting self-play with %d workers on a %dx%d board", *workers, grid.TileCount, grid.TileCount)
	log.Printf("  History Dir: %s", cfg.HistoryDir)

	updates := make(chan selfplay.GameResult, *workers)
	done := make(chan error, 1)
	go func() {
		done <- pool.Run(ctx, updates)
	}()

	startTime := time.Now()
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case err := <-done:
			if err != nil {
				log.Fatalf("Self-play failed: %v", err)
			}
			log.Printf("Shutdown complete (games=%d moves=%d best=%d high=%d)", pool.Games(), pool.Moves(), pool.Best(), scores.High())
			return
		case res := <-updates:
			log.Printf("Worker %d: score %d, length %d, ticks %d, %s", res.WorkerID, res.Score, res.Length, res.Ticks, res.Cause)
		case <-ticker.C:
			secs := time.Since(startTime).Seconds()
			log.Printf("Stats: Games/s: %.2f, Moves/s: %.2f, Best: %d", float64(pool.Games())/secs, float64(pool.Moves())/secs, pool.Best())
		}
	}
}
