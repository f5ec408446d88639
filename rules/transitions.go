package rules

import "github.com/brensch/tilesnake/game"

// Event drives a phase change.
type Event int

const (
	// EventStart is the first accepted direction of a game.
	EventStart Event = iota
	// EventCollide is a wall or self collision after a move.
	EventCollide
	// EventFill is a board with no free interior tile left for food.
	EventFill
	// EventRestart is the explicit restart command.
	EventRestart
)

func (e Event) String() string {
	switch e {
	case EventStart:
		return "start"
	case EventCollide:
		return "collide"
	case EventFill:
		return "fill"
	case EventRestart:
		return "restart"
	default:
		return "unknown"
	}
}

type transitionKey struct {
	from game.Phase
	ev   Event
}

// transitions is the full table of legal phase changes. Anything missing is
// rejected by Next.
var transitions = map[transitionKey]game.Phase{
	{game.Idle, EventStart}:       game.Running,
	{game.Running, EventCollide}:  game.GameOver,
	{game.Running, EventFill}:     game.GameOver,
	{game.Idle, EventRestart}:     game.Idle,
	{game.Running, EventRestart}:  game.Idle,
	{game.GameOver, EventRestart}: game.Idle,
}

// Next returns the phase reached by firing ev in phase from.
func Next(from game.Phase, ev Event) (game.Phase, bool) {
	to, ok := transitions[transitionKey{from, ev}]
	return to, ok
}
