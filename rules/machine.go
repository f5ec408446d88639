// Package rules implements the single-player snake state machine.
//
// A Machine owns one game.State. Input calls Command, the tick driver calls
// Step and the restart trigger calls Restart. None of these block, and a
// Machine must only be used from one goroutine at a time; the caller
// serializes input and ticks (a bubbletea Update loop or a self-play worker).
package rules

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/brensch/tilesnake/game"
	"github.com/google/uuid"
)

// DefaultReward is the score added for each food eaten.
const DefaultReward = 10

// HighScorer tracks the persisted best score.
type HighScorer interface {
	High() int
	Record(score int) bool
}

// Observer receives a snapshot after every visible state change.
type Observer interface {
	Observe(f game.Frame)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(f game.Frame)

func (fn ObserverFunc) Observe(f game.Frame) { fn(f) }

// Config is the fixed setup of a machine.
type Config struct {
	Grid   game.Grid
	Start  game.Point
	Reward int
	Logger *slog.Logger
}

type Machine struct {
	cfg       Config
	rng       *rand.Rand
	scores    HighScorer
	observers []Observer
	logger    *slog.Logger

	state       game.State
	loopStarted bool
}

// NewMachine returns a machine in Idle with the snake on cfg.Start.
func NewMachine(cfg Config, rng *rand.Rand, scores HighScorer) (*Machine, error) {
	if !cfg.Grid.InBounds(cfg.Start) {
		return nil, fmt.Errorf("start tile %v outside %dx%d board", cfg.Start, cfg.Grid.TileCount, cfg.Grid.TileCount)
	}
	if cfg.Reward < 0 {
		return nil, fmt.Errorf("negative reward %d", cfg.Reward)
	}
	if cfg.Reward == 0 {
		cfg.Reward = DefaultReward
	}
	if rng == nil {
		return nil, fmt.Errorf("rng is required")
	}
	if scores == nil {
		return nil, fmt.Errorf("score store is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	m := &Machine{
		cfg:    cfg,
		rng:    rng,
		scores: scores,
		logger: logger,
	}
	m.reset()
	return m, nil
}

// Subscribe registers o for every future frame.
func (m *Machine) Subscribe(o Observer) {
	m.observers = append(m.observers, o)
}

func (m *Machine) Grid() game.Grid {
	return m.cfg.Grid
}

// Phase is the current state machine position.
func (m *Machine) Phase() game.Phase {
	return m.state.Phase
}

// State returns a deep copy of the current state.
func (m *Machine) State() *game.State {
	return m.state.Clone()
}

// Frame returns a snapshot of the current state.
func (m *Machine) Frame() game.Frame {
	return m.state.Snapshot(m.cfg.Grid)
}

// StartLoop reports whether the tick driver still has to be armed.
// It returns true exactly once per machine, so restarting never creates a
// second timer.
func (m *Machine) StartLoop() bool {
	if m.loopStarted {
		return false
	}
	m.loopStarted = true
	return true
}

// Step advances the game by one tick. It is a no-op outside Running and
// reports whether anything moved.
func (m *Machine) Step() bool {
	s := &m.state
	if s.Phase != game.Running {
		return false
	}

	s.Tick++
	s.Heading = s.Pending
	head := s.Snake.Advance(s.Heading)

	if s.Food != nil && head == *s.Food {
		s.Score += m.cfg.Reward
		if m.scores.Record(s.Score) {
			m.logger.Debug("new high score", "game_id", s.GameID, "score", s.Score)
		}
		s.High = m.scores.High()
		m.placeFood()
	} else {
		s.Snake.DropTail()
	}

	if s.Phase == game.Running {
		switch {
		case !m.cfg.Grid.InBounds(head):
			m.end(EventCollide, game.CauseWall)
		case s.Snake.SelfCollision():
			m.end(EventCollide, game.CauseSelf)
		}
	}

	m.notify()
	return true
}

// Restart puts the machine back in Idle with a fresh snake, whatever phase
// it is in. The high score survives.
func (m *Machine) Restart() {
	if _, ok := Next(m.state.Phase, EventRestart); !ok {
		return
	}
	if m.state.Phase == game.Running {
		m.logger.Info("game abandoned", "game_id", m.state.GameID, "score", m.state.Score, "ticks", m.state.Tick)
	}
	m.reset()
	m.notify()
}

func (m *Machine) reset() {
	m.state = game.State{
		GameID: uuid.NewString(),
		Phase:  game.Idle,
		Snake:  game.NewSnake(m.cfg.Start),
		High:   m.scores.High(),
	}
}

// start is the entry action of Idle -> Running.
func (m *Machine) start() {
	if !m.fire(EventStart) {
		return
	}
	m.logger.Info("game started", "game_id", m.state.GameID, "direction", m.state.Pending.String())
	m.placeFood()
	m.notify()
}

// placeFood spawns food or ends the game when the interior is full.
func (m *Machine) placeFood() {
	p, ok := game.SpawnFood(m.rng, m.cfg.Grid, m.state.Snake)
	if !ok {
		m.state.Food = nil
		m.end(EventFill, game.CauseBoardFull)
		return
	}
	m.state.Food = &p
}

func (m *Machine) end(ev Event, cause game.Cause) {
	if !m.fire(ev) {
		return
	}
	m.state.Cause = cause
	m.logger.Info("game over",
		"game_id", m.state.GameID,
		"cause", cause.String(),
		"score", m.state.Score,
		"length", m.state.Snake.Len(),
		"ticks", m.state.Tick,
	)
}

func (m *Machine) fire(ev Event) bool {
	to, ok := Next(m.state.Phase, ev)
	if !ok {
		m.logger.Warn("rejected transition", "phase", m.state.Phase.String(), "event", ev.String())
		return false
	}
	m.state.Phase = to
	return true
}

func (m *Machine) notify() {
	if len(m.observers) == 0 {
		return
	}
	f := m.state.Snapshot(m.cfg.Grid)
	for _, o := range m.observers {
		o.Observe(f)
	}
}
