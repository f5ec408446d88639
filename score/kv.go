package score

import (
	"fmt"
	"io"
	"sync"
)

// KV is a persistent string key-value store.
// Get reports ok=false for a missing key; err is reserved for IO failures.
type KV interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}

// MemoryKV is a process-local KV, used when persistence is disabled and in tests.
type MemoryKV struct {
	mu sync.RWMutex
	m  map[string]string
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{m: make(map[string]string)}
}

func (kv *MemoryKV) Get(key string) (string, bool, error) {
	kv.mu.RLock()
	defer kv.mu.RUnlock()
	v, ok := kv.m[key]
	return v, ok, nil
}

func (kv *MemoryKV) Set(key, value string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	kv.m[key] = value
	return nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// OpenKV opens the backend named by kind: "memory", "file" or "sqlite".
// The returned closer releases the backend and is never nil.
func OpenKV(kind, path string) (KV, io.Closer, error) {
	switch kind {
	case "memory", "":
		return NewMemoryKV(), nopCloser{}, nil
	case "file":
		kv, err := OpenFileKV(path)
		if err != nil {
			return nil, nil, err
		}
		return kv, kv, nil
	case "sqlite":
		kv, err := OpenSQLiteKV(path)
		if err != nil {
			return nil, nil, err
		}
		return kv, kv, nil
	default:
		return nil, nil, fmt.Errorf("unknown store %q", kind)
	}
}
