// food.go implements food placement.

package game

import (
	"math/rand"
)

// MaxSpawnAttempts bounds rejection sampling before SpawnFood falls back to
// scanning the interior for free tiles.
func MaxSpawnAttempts(grid Grid) int {
	return 4 * grid.InteriorCells()
}

// SpawnFood picks a uniformly random interior tile not covered by the snake.
// The outermost ring of tiles never receives food.
// It returns false only when every interior tile is occupied.
func SpawnFood(rng *rand.Rand, grid Grid, snake Snake) (Point, bool) {
	side := grid.TileCount - 2
	if side <= 0 {
		return Point{}, false
	}

	for i := 0; i < MaxSpawnAttempts(grid); i++ {
		p := Point{
			X: rng.Intn(side) + 1,
			Y: rng.Intn(side) + 1,
		}
		if !snake.Occupies(p) {
			return p, true
		}
	}

	// Nearly full board: sample from the free tiles directly.
	occupied := make(map[Point]struct{}, len(snake.Body))
	for _, p := range snake.Body {
		occupied[p] = struct{}{}
	}
	free := make([]Point, 0, grid.InteriorCells())
	for y := 1; y <= side; y++ {
		for x := 1; x <= side; x++ {
			p := Point{X: x, Y: y}
			if _, ok := occupied[p]; ok {
				continue
			}
			free = append(free, p)
		}
	}
	if len(free) == 0 {
		return Point{}, false
	}
	return free[rng.Intn(len(free))], true
}
