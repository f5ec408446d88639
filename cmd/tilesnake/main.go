package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/brensch/tilesnake/config"
	"github.com/brensch/tilesnake/history"
	"github.com/brensch/tilesnake/logging"
	"github.com/brensch/tilesnake/rules"
	"github.com/brensch/tilesnake/score"
	"github.com/brensch/tilesnake/spectate"
	"github.com/brensch/tilesnake/tui"
)

func main() {
	cfg := config.DefaultConfig()
	cfg.RegisterFlags(flag.CommandLine)
	flag.Parse()

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "tilesnake: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	grid, err := cfg.Grid()
	if err != nil {
		return err
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger, logCloser, err := logging.Open(cfg.LogPath, level, cfg.PrettyLogs)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	kv, kvCloser, err := score.OpenKV(cfg.Store, cfg.StorePath)
	if err != nil {
		return err
	}
	defer kvCloser.Close()
	scores := score.Load(logger, kv, cfg.HighScoreKey)

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	machine, err := rules.NewMachine(rules.Config{
		Grid:   grid,
		Start:  cfg.Start(),
		Reward: cfg.Reward,
		Logger: logger,
	}, rand.New(rand.NewSource(seed)), scores)
	if err != nil {
		return err
	}

	logger.Info("starting",
		slog.Int("tiles", grid.TileCount),
		slog.Duration("tick", cfg.TickInterval),
		slog.String("store", cfg.Store),
		slog.Int("high_score", scores.High()),
		slog.Int64("seed", seed),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.HistoryDir != "" {
		source := "human"
		if cfg.Autopilot {
			source = "autopilot"
		}
		rec, err := history.NewRecorder(cfg.HistoryDir, source, logger)
		if err != nil {
			return fmt.Errorf("history: %w", err)
		}
		defer rec.Close()
		machine.Subscribe(rec)
	}

	if cfg.SpectateAddr != "" {
		hub := spectate.NewHub()
		hub.Observe(machine.Frame())
		machine.Subscribe(hub)
		go func() {
			if err := spectate.Serve(ctx, cfg.SpectateAddr, hub, logger); err != nil {
				logger.Error("spectator server stopped", "addr", cfg.SpectateAddr, "err", err)
			}
		}()
		logger.Info("spectator server listening", "addr", cfg.SpectateAddr)
	}

	p := tea.NewProgram(tui.New(machine, tui.Options{
		TickInterval: cfg.TickInterval,
		Autopilot:    cfg.Autopilot,
	}), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return err
	}

	logger.Info("exiting", "high_score", scores.High())
	return nil
}
