// Package game defines the core types of a single-player snake game.
//
// These types represent the board, the snake and the food, plus the
// snapshot handed to renderers and recorders. Nothing here knows about
// timers or input; the rules package drives the transitions.
package game

// Point is a tile coordinate.
// Coordinates follow screen conventions: (0,0) is top-left and Y grows down.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns p moved by the delta of d.
func (p Point) Add(d Direction) Point {
	dx, dy := d.Delta()
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Phase is the state machine position of a game.
type Phase int

const (
	Idle Phase = iota
	Running
	GameOver
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case GameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Cause records why a game ended.
type Cause int

const (
	CauseNone Cause = iota
	CauseWall
	CauseSelf
	// CauseBoardFull means the snake covers every interior tile, so no food
	// can be placed. It is the only way to win.
	CauseBoardFull
)

func (c Cause) String() string {
	switch c {
	case CauseNone:
		return "none"
	case CauseWall:
		return "wall"
	case CauseSelf:
		return "self"
	case CauseBoardFull:
		return "board_full"
	default:
		return "unknown"
	}
}

// State is the complete mutable state of one game session.
// Pending is set by input; Heading is the direction actually travelled on
// the last tick.
type State struct {
	GameID  string
	Tick    int
	Phase   Phase
	Snake   Snake
	Food    *Point
	Pending Direction
	Heading Direction
	Score   int
	High    int
	Cause   Cause
}

// Frame is an immutable snapshot of a State.
type Frame struct {
	GameID  string    `json:"game_id"`
	Tick    int       `json:"tick"`
	Phase   Phase     `json:"phase"`
	Width   int       `json:"width"`
	Body    []Point   `json:"body"`
	Food    *Point    `json:"food,omitempty"`
	Heading Direction `json:"heading"`
	Score   int       `json:"score"`
	High    int       `json:"high"`
	Cause   Cause     `json:"cause"`
}

// Snapshot deep-copies s into a Frame for a board of the given grid.
func (s *State) Snapshot(grid Grid) Frame {
	f := Frame{
		GameID:  s.GameID,
		Tick:    s.Tick,
		Phase:   s.Phase,
		Width:   grid.TileCount,
		Heading: s.Heading,
		Score:   s.Score,
		High:    s.High,
		Cause:   s.Cause,
	}
	f.Body = make([]Point, len(s.Snake.Body))
	copy(f.Body, s.Snake.Body)
	if s.Food != nil {
		food := *s.Food
		f.Food = &food
	}
	return f
}

// Head returns the first body segment of the frame.
func (f Frame) Head() Point {
	return f.Body[0]
}

// Clone performs a deep copy of the state.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	out := *s
	out.Snake = s.Snake.Clone()
	if s.Food != nil {
		food := *s.Food
		out.Food = &food
	}
	return &out
}
