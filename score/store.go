// Package score tracks the current best score and persists it through a
// key-value store.
package score

import (
	"log/slog"
	"strconv"
	"strings"
)

// DefaultKey is the key the high score is stored under.
const DefaultKey = "snakeHighScore"

// Store holds the high score loaded at startup and writes through on every
// improvement. It is not safe for concurrent use.
type Store struct {
	kv     KV
	key    string
	high   int
	logger *slog.Logger
}

// Load reads the persisted high score. Missing, unreadable, malformed or
// negative values all load as 0; read errors are logged, never returned.
func Load(logger *slog.Logger, kv KV, key string) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if key == "" {
		key = DefaultKey
	}
	s := &Store{kv: kv, key: key, logger: logger}

	raw, ok, err := kv.Get(key)
	switch {
	case err != nil:
		logger.Warn("high score read failed", "key", key, "err", err)
	case !ok:
	default:
		s.high = parseScore(raw)
	}
	return s
}

func parseScore(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// High returns the best score seen so far.
func (s *Store) High() int {
	return s.high
}

// Record raises the high score to current if it is better and persists it.
// It reports whether the high score changed. A failed write is logged and
// the in-memory value still advances.
func (s *Store) Record(current int) bool {
	if current <= s.high {
		return false
	}
	s.high = current
	if err := s.kv.Set(s.key, strconv.Itoa(current)); err != nil {
		s.logger.Error("high score write failed", "key", s.key, "score", current, "err", err)
	}
	return true
}
