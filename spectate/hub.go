// Package spectate streams live game frames to websocket viewers.
package spectate

import (
	"sync"

	"github.com/brensch/tilesnake/game"
)

const viewerBuffer = 8

// Hub fans frames out to viewers. A viewer that falls behind loses frames
// rather than slowing the game down. Hub is safe for concurrent use.
type Hub struct {
	mu      sync.Mutex
	latest  *game.Frame
	viewers map[chan game.Frame]struct{}
	dropped uint64
}

func NewHub() *Hub {
	return &Hub{viewers: make(map[chan game.Frame]struct{})}
}

// Observe publishes f to every viewer.
func (h *Hub) Observe(f game.Frame) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.latest = &f
	for ch := range h.viewers {
		select {
		case ch <- f:
		default:
			h.dropped++
		}
	}
}

// Subscribe returns a channel of frames, primed with the latest frame if
// there is one, and a function that unsubscribes and closes it.
func (h *Hub) Subscribe() (<-chan game.Frame, func()) {
	ch := make(chan game.Frame, viewerBuffer)
	h.mu.Lock()
	if h.latest != nil {
		ch <- *h.latest
	}
	h.viewers[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.viewers, ch)
			h.mu.Unlock()
			close(ch)
		})
	}
}

// Viewers is the number of connected viewers.
func (h *Hub) Viewers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.viewers)
}

// Dropped counts frames skipped for slow viewers.
func (h *Hub) Dropped() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dropped
}
