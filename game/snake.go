package game

// Snake is an ordered body, head first.
type Snake struct {
	Body []Point
}

func NewSnake(start Point) Snake {
	return Snake{Body: []Point{start}}
}

func (s Snake) Head() Point {
	return s.Body[0]
}

func (s Snake) Len() int {
	return len(s.Body)
}

// Advance inserts a new head one step in direction d and returns it.
// The tail is kept; callers drop it when the snake did not eat.
func (s *Snake) Advance(d Direction) Point {
	head := s.Head().Add(d)
	s.Body = append(s.Body, Point{})
	copy(s.Body[1:], s.Body)
	s.Body[0] = head
	return head
}

// DropTail removes the last segment. A single-segment snake is left alone.
func (s *Snake) DropTail() {
	if len(s.Body) > 1 {
		s.Body = s.Body[:len(s.Body)-1]
	}
}

// Occupies reports whether any segment is at p.
func (s Snake) Occupies(p Point) bool {
	for _, bp := range s.Body {
		if bp == p {
			return true
		}
	}
	return false
}

// SelfCollision reports whether the head overlaps any other segment.
func (s Snake) SelfCollision() bool {
	head := s.Head()
	for _, bp := range s.Body[1:] {
		if bp == head {
			return true
		}
	}
	return false
}

func (s Snake) Clone() Snake {
	body := make([]Point, len(s.Body))
	copy(body, s.Body)
	return Snake{Body: body}
}
