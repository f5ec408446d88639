// Package autopilot picks moves for the snake without a player. It drives
// the TUI attract mode and the self-play workers.
package autopilot

import (
	"github.com/brensch/tilesnake/game"
)

// SafeDirections returns the directions that do not reverse onto the neck
// and do not hit a wall or the body on the next tick. The tail tile counts
// as free unless the move eats, since the tail moves away.
func SafeDirections(s *game.State, grid game.Grid) []game.Direction {
	var out []game.Direction
	for _, d := range game.Directions {
		if isSafe(s, grid, d) {
			out = append(out, d)
		}
	}
	return out
}

func isSafe(s *game.State, grid game.Grid, d game.Direction) bool {
	if s.Heading != game.None && d == s.Heading.Opposite() {
		return false
	}
	body := s.Snake.Body
	if len(body) == 0 {
		return false
	}
	next := body[0].Add(d)
	if !grid.InBounds(next) {
		return false
	}
	eats := s.Food != nil && *s.Food == next
	limit := len(body)
	if !eats {
		limit--
	}
	for i := 1; i < limit; i++ {
		if body[i] == next {
			return false
		}
	}
	return true
}

// Choose picks the next direction. Safe moves whose reachable area can hold
// the snake are preferred, then the one closest to food. Ties go to the
// order of game.Directions. With no safe move it keeps the current heading.
func Choose(s *game.State, grid game.Grid) game.Direction {
	safe := SafeDirections(s, grid)
	if len(safe) == 0 {
		if s.Heading == game.None {
			return game.Up
		}
		return s.Heading
	}

	best := game.None
	bestRoomy := false
	bestDist := 0
	bestArea := -1
	for _, d := range safe {
		next := s.Snake.Head().Add(d)
		area := reachable(s, grid, next)
		roomy := area >= s.Snake.Len()
		dist := distance(s, next)

		better := false
		switch {
		case best == game.None:
			better = true
		case roomy != bestRoomy:
			better = roomy
		case roomy:
			better = dist < bestDist
		default:
			better = area > bestArea
		}
		if better {
			best, bestRoomy, bestDist, bestArea = d, roomy, dist, area
		}
	}
	return best
}

func distance(s *game.State, p game.Point) int {
	if s.Food == nil {
		return 0
	}
	return abs(p.X-s.Food.X) + abs(p.Y-s.Food.Y)
}

// reachable counts tiles reachable from start, treating the current body
// except the tail as blocked.
func reachable(s *game.State, grid game.Grid, start game.Point) int {
	blocked := make(map[game.Point]bool, len(s.Snake.Body))
	for i, p := range s.Snake.Body {
		if i == len(s.Snake.Body)-1 && i > 0 {
			break
		}
		blocked[p] = true
	}
	seen := map[game.Point]bool{start: true}
	queue := []game.Point{start}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		for _, d := range game.Directions {
			q := p.Add(d)
			if !grid.InBounds(q) || blocked[q] || seen[q] {
				continue
			}
			seen[q] = true
			queue = append(queue, q)
		}
	}
	return len(seen)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
