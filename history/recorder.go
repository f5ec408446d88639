package history

import (
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/brensch/tilesnake/game"
)

// Recorder buffers the frames of the current game and hands finished games
// to a background writer. Observe must be called from a single goroutine
// (the one driving the machine); Close must be called after the last
// Observe.
type Recorder struct {
	dir    string
	source string
	logger *slog.Logger

	gameID    string
	startedNs int64
	rows      []TurnRow

	writes  chan []TurnRow
	done    chan struct{}
	once    sync.Once
	written atomic.Int64
	failed  atomic.Int64
}

func NewRecorder(dir, source string, logger *slog.Logger) (*Recorder, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	r := &Recorder{
		dir:    dir,
		source: source,
		logger: logger,
		writes: make(chan []TurnRow, 16),
		done:   make(chan struct{}),
	}
	go r.writerLoop()
	return r, nil
}

// Observe records f. Idle frames close out any game in progress; a
// GameOver frame completes the current game.
func (r *Recorder) Observe(f game.Frame) {
	if f.GameID != r.gameID || f.Phase == game.Idle {
		r.flush()
		r.gameID = f.GameID
	}
	if f.Phase == game.Idle {
		return
	}
	if len(r.rows) == 0 {
		r.startedNs = time.Now().UnixNano()
	}
	r.rows = append(r.rows, FrameToRow(f, r.startedNs, r.source))
	if f.Phase == game.GameOver {
		r.flush()
	}
}

func (r *Recorder) flush() {
	if len(r.rows) == 0 {
		return
	}
	rows := r.rows
	r.rows = nil
	r.writes <- rows
}

func (r *Recorder) writerLoop() {
	defer close(r.done)
	for rows := range r.writes {
		path, err := WriteGameParquetAtomic(r.dir, rows)
		if err != nil {
			r.failed.Add(1)
			r.logger.Error("history write failed", "game_id", rows[0].GameID, "rows", len(rows), "err", err)
			continue
		}
		r.written.Add(1)
		r.logger.Info("history written", "game_id", rows[0].GameID, "rows", len(rows), "path", path)
	}
}

// Written is the number of game files written so far.
func (r *Recorder) Written() int64 {
	return r.written.Load()
}

// Close writes any game in progress and waits for the writer to drain.
func (r *Recorder) Close() error {
	r.once.Do(func() {
		r.flush()
		close(r.writes)
	})
	<-r.done
	return nil
}
