package game

import "fmt"

// Grid is the square tile space of the board.
type Grid struct {
	TileCount int
}

// NewGrid derives the tile count from a board size in pixels and a tile size.
// The board needs at least a 3x3 grid so food has an interior to spawn in.
func NewGrid(boardSize, tileSize int) (Grid, error) {
	if tileSize <= 0 {
		return Grid{}, fmt.Errorf("invalid tile size %d", tileSize)
	}
	n := boardSize / tileSize
	if n < 3 {
		return Grid{}, fmt.Errorf("board %d with tile %d gives %d tiles, need at least 3", boardSize, tileSize, n)
	}
	return Grid{TileCount: n}, nil
}

// InBounds reports whether p lies on the board.
func (g Grid) InBounds(p Point) bool {
	return p.X >= 0 && p.X < g.TileCount && p.Y >= 0 && p.Y < g.TileCount
}

// InInterior reports whether p lies inside the outermost ring of tiles.
func (g Grid) InInterior(p Point) bool {
	return p.X >= 1 && p.X <= g.TileCount-2 && p.Y >= 1 && p.Y <= g.TileCount-2
}

// InteriorCells is the number of tiles food can spawn on.
func (g Grid) InteriorCells() int {
	side := g.TileCount - 2
	if side <= 0 {
		return 0
	}
	return side * side
}
