// Package selfplay runs autopilot games without a terminal, for soak
// testing the rules and filling the history archive.
package selfplay

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/brensch/tilesnake/autopilot"
	"github.com/brensch/tilesnake/game"
	"github.com/brensch/tilesnake/rules"
)

// GameResult summarizes one finished or aborted game.
type GameResult struct {
	WorkerID  int
	GameID    string
	Score     int
	Length    int
	Ticks     int
	Cause     game.Cause
	Completed bool
}

type GameOptions struct {
	// MaxTicks aborts a game that runs this long. Zero means no cap.
	MaxTicks int
	// Observers are subscribed to the game's machine.
	Observers []rules.Observer
	// OnStep is called after every tick.
	OnStep func()
}

// PlayGame plays one autopilot game to GameOver. It stops early, with
// Completed false, when ctx is cancelled or MaxTicks is reached.
func PlayGame(ctx context.Context, workerID int, cfg rules.Config, rng *rand.Rand, scores rules.HighScorer, opts GameOptions) (GameResult, error) {
	m, err := rules.NewMachine(cfg, rng, scores)
	if err != nil {
		return GameResult{WorkerID: workerID}, fmt.Errorf("new machine: %w", err)
	}
	for _, o := range opts.Observers {
		m.Subscribe(o)
	}

	// The idle frame lets observers see the fresh board.
	for _, o := range opts.Observers {
		o.Observe(m.Frame())
	}

	for m.Phase() != game.GameOver {
		select {
		case <-ctx.Done():
			return result(workerID, m), nil
		default:
		}
		if opts.MaxTicks > 0 && m.State().Tick >= opts.MaxTicks {
			break
		}

		st := m.State()
		m.Command(autopilot.Choose(st, m.Grid()))
		m.Step()
		if opts.OnStep != nil {
			opts.OnStep()
		}
	}
	return result(workerID, m), nil
}

func result(workerID int, m *rules.Machine) GameResult {
	st := m.State()
	return GameResult{
		WorkerID:  workerID,
		GameID:    st.GameID,
		Score:     st.Score,
		Length:    st.Snake.Len(),
		Ticks:     st.Tick,
		Cause:     st.Cause,
		Completed: st.Phase == game.GameOver,
	}
}
