package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/brensch/tilesnake/game"
)

// KeyDirection maps arrow keys, wasd and hjkl to a direction.
func KeyDirection(msg tea.KeyMsg) (game.Direction, bool) {
	switch msg.String() {
	case "up", "w", "k":
		return game.Up, true
	case "down", "s", "j":
		return game.Down, true
	case "left", "a", "h":
		return game.Left, true
	case "right", "d", "l":
		return game.Right, true
	}
	return game.None, false
}

func isQuit(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return true
	}
	return false
}

func isRestart(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "r", "enter":
		return true
	}
	return false
}
