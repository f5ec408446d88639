package rules

import "github.com/brensch/tilesnake/game"

// Command buffers a directional command for the next tick.
//
// The request is compared with the direction actually travelled on the last
// tick, not with the pending one, so two quick turns cannot reverse the
// snake onto its own neck. Only the latest accepted command is kept.
// In Idle an accepted command also starts the game.
func (m *Machine) Command(d game.Direction) bool {
	if !d.Valid() {
		return false
	}
	s := &m.state
	if s.Phase == game.GameOver {
		return false
	}
	if d == s.Heading.Opposite() {
		return false
	}

	s.Pending = d
	if s.Phase == game.Idle {
		m.start()
	}
	return true
}
