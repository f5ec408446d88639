package selfplay

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/brensch/tilesnake/history"
	"github.com/brensch/tilesnake/rules"
)

type PoolConfig struct {
	Workers  int
	MaxGames int64 // stop after this many games across all workers; 0 runs until cancelled
	MaxTicks int
	Seed     int64 // 0 seeds from the clock

	Rules  rules.Config
	Scores rules.HighScorer // must be safe for concurrent use

	// HistoryDir enables one history.Recorder per worker.
	HistoryDir string
	Logger     *slog.Logger
}

// Pool runs autopilot games on several goroutines.
type Pool struct {
	cfg    PoolConfig
	logger *slog.Logger

	games atomic.Int64
	moves atomic.Int64
	best  atomic.Int64
}

func NewPool(cfg PoolConfig) *Pool {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Pool{cfg: cfg, logger: logger}
}

func (p *Pool) Games() int64 { return p.games.Load() }
func (p *Pool) Moves() int64 { return p.moves.Load() }
func (p *Pool) Best() int64  { return p.best.Load() }

// Run blocks until ctx is cancelled or MaxGames games have finished.
// Results are offered to updates without blocking; updates may be nil.
func (p *Pool) Run(ctx context.Context, updates chan<- GameResult) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	seed := p.cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	var wg sync.WaitGroup
	errs := make(chan error, p.cfg.Workers)
	for i := 0; i < p.cfg.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			if err := p.worker(ctx, cancel, workerID, seed+int64(workerID)*1000003, updates); err != nil {
				errs <- err
				cancel()
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	return <-errs
}

func (p *Pool) worker(ctx context.Context, cancel context.CancelFunc, workerID int, seed int64, updates chan<- GameResult) error {
	logger := p.logger.With("worker", workerID)
	rng := rand.New(rand.NewSource(seed))

	var opts GameOptions
	opts.MaxTicks = p.cfg.MaxTicks
	opts.OnStep = func() { p.moves.Add(1) }
	if p.cfg.HistoryDir != "" {
		rec, err := history.NewRecorder(p.cfg.HistoryDir, "selfplay", logger)
		if err != nil {
			return err
		}
		defer rec.Close()
		opts.Observers = append(opts.Observers, rec)
	}

	logger.Debug("worker started", "seed", seed)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		res, err := PlayGame(ctx, workerID, p.cfg.Rules, rng, p.cfg.Scores, opts)
		if err != nil {
			return err
		}
		if !res.Completed {
			logger.Info("game aborted", "game_id", res.GameID, "ticks", res.Ticks, "score", res.Score)
			continue
		}

		for {
			best := p.best.Load()
			if int64(res.Score) <= best || p.best.CompareAndSwap(best, int64(res.Score)) {
				break
			}
		}
		total := p.games.Add(1)
		logger.Debug("game finished", "game_id", res.GameID, "score", res.Score, "cause", res.Cause.String(), "total", total)
		if p.cfg.MaxGames > 0 && total >= p.cfg.MaxGames {
			cancel()
		}

		if updates != nil {
			select {
			case updates <- res:
			default:
			}
		}
	}
}
