package score

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileKV is a KV backed by an append-only log file with one
// "<key>\t<value>" record per line. The last record for a key wins.
//
// On open we replay the file into memory; on Set we append and fsync.
// Lines without a tab (for example a partial line from a crash) are ignored.
type FileKV struct {
	mu     sync.RWMutex
	path   string
	file   *os.File
	values map[string]string
}

func OpenFileKV(path string) (*FileKV, error) {
	if path == "" {
		return nil, fmt.Errorf("kv path is required")
	}

	values := make(map[string]string)

	// Best-effort load existing records.
	if f, err := os.Open(path); err == nil {
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			key, value, ok := strings.Cut(scanner.Text(), "\t")
			if !ok || key == "" {
				continue
			}
			values[key] = value
		}
		_ = f.Close()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create kv dir: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open kv file: %w", err)
	}

	return &FileKV{
		path:   path,
		file:   file,
		values: values,
	}, nil
}

func (kv *FileKV) Close() error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	if kv.file == nil {
		return nil
	}
	err := kv.file.Close()
	kv.file = nil
	return err
}

func (kv *FileKV) Get(key string) (string, bool, error) {
	kv.mu.RLock()
	defer kv.mu.RUnlock()
	v, ok := kv.values[key]
	return v, ok, nil
}

func (kv *FileKV) Set(key, value string) error {
	if key == "" || strings.ContainsAny(key, "\t\n") {
		return fmt.Errorf("invalid key %q", key)
	}
	if strings.Contains(value, "\n") {
		return fmt.Errorf("value for %q contains a newline", key)
	}

	kv.mu.Lock()
	defer kv.mu.Unlock()

	if kv.file == nil {
		return fmt.Errorf("kv file is closed")
	}
	if _, err := kv.file.WriteString(key + "\t" + value + "\n"); err != nil {
		return fmt.Errorf("append kv: %w", err)
	}
	if err := kv.file.Sync(); err != nil {
		return fmt.Errorf("sync kv: %w", err)
	}
	kv.values[key] = value
	return nil
}
