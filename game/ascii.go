// ascii.go - plain text board rendering for logs, tests and the spectator CLI.

package game

import (
	"fmt"
	"strings"
)

// RenderASCII draws a frame as rows of characters:
// '.' empty, 'O' head, 'o' body, '*' food. Off-board segments are skipped.
func RenderASCII(f Frame) string {
	n := f.Width
	if n <= 0 {
		return ""
	}
	grid := make([][]byte, n)
	for y := range grid {
		grid[y] = make([]byte, n)
		for x := range grid[y] {
			grid[y][x] = '.'
		}
	}

	inBounds := func(p Point) bool {
		return p.X >= 0 && p.X < n && p.Y >= 0 && p.Y < n
	}

	if f.Food != nil && inBounds(*f.Food) {
		grid[f.Food.Y][f.Food.X] = '*'
	}
	// Draw tail to head so the head wins on overlap.
	for i := len(f.Body) - 1; i >= 0; i-- {
		p := f.Body[i]
		if !inBounds(p) {
			continue
		}
		if i == 0 {
			grid[p.Y][p.X] = 'O'
		} else {
			grid[p.Y][p.X] = 'o'
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "tick=%d phase=%s score=%d high=%d\n", f.Tick, f.Phase, f.Score, f.High)
	for y := 0; y < n; y++ {
		sb.Write(grid[y])
		sb.WriteByte('\n')
	}
	return sb.String()
}
