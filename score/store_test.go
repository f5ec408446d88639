package score

import (
	"errors"
	"path/filepath"
	"testing"
)

type failingKV struct {
	getErr error
	setErr error
	sets   int
}

func (f *failingKV) Get(string) (string, bool, error) { return "", false, f.getErr }

func (f *failingKV) Set(string, string) error {
	f.sets++
	return f.setErr
}

func TestLoad_DefaultsToZero(t *testing.T) {
	cases := map[string]KV{
		"absent":     NewMemoryKV(),
		"read error": &failingKV{getErr: errors.New("disk gone")},
	}
	for name, kv := range cases {
		if got := Load(nil, kv, DefaultKey).High(); got != 0 {
			t.Fatalf("%s: high=%d want=0", name, got)
		}
	}

	for _, raw := range []string{"", "abc", "-30", "12.5"} {
		kv := NewMemoryKV()
		_ = kv.Set(DefaultKey, raw)
		if got := Load(nil, kv, DefaultKey).High(); got != 0 {
			t.Fatalf("raw=%q high=%d want=0", raw, got)
		}
	}
}

func TestLoad_ReadsPersistedValue(t *testing.T) {
	kv := NewMemoryKV()
	_ = kv.Set(DefaultKey, " 120\n")
	if got := Load(nil, kv, DefaultKey).High(); got != 120 {
		t.Fatalf("high=%d want=120", got)
	}
}

func TestRecord_OnlyRaisesAndPersists(t *testing.T) {
	kv := NewMemoryKV()
	s := Load(nil, kv, DefaultKey)

	if !s.Record(30) {
		t.Fatalf("Record(30)=false want=true")
	}
	if s.Record(20) || s.Record(30) {
		t.Fatalf("Record accepted a score that is not higher")
	}
	if s.High() != 30 {
		t.Fatalf("high=%d want=30", s.High())
	}
	raw, ok, _ := kv.Get(DefaultKey)
	if !ok || raw != "30" {
		t.Fatalf("persisted=%q,%v want=30", raw, ok)
	}
}

func TestRecord_WriteFailureStillAdvances(t *testing.T) {
	kv := &failingKV{setErr: errors.New("read-only")}
	s := Load(nil, kv, DefaultKey)
	if !s.Record(10) || s.High() != 10 {
		t.Fatalf("high=%d want=10", s.High())
	}
	if kv.sets != 1 {
		t.Fatalf("sets=%d want=1", kv.sets)
	}
}

func TestFileKV_ReplaysLastValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "scores.log")

	kv, err := OpenFileKV(path)
	if err != nil {
		t.Fatalf("OpenFileKV: %v", err)
	}
	s := Load(nil, kv, DefaultKey)
	s.Record(10)
	s.Record(40)
	if err := kv.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	kv, err = OpenFileKV(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer kv.Close()
	if got := Load(nil, kv, DefaultKey).High(); got != 40 {
		t.Fatalf("high after reopen=%d want=40", got)
	}
}

func TestFileKV_RejectsBadRecords(t *testing.T) {
	kv, err := OpenFileKV(filepath.Join(t.TempDir(), "kv.log"))
	if err != nil {
		t.Fatalf("OpenFileKV: %v", err)
	}
	defer kv.Close()
	if err := kv.Set("a\tb", "1"); err == nil {
		t.Fatalf("Set accepted a key with a tab")
	}
	if err := kv.Set("a", "1\n2"); err == nil {
		t.Fatalf("Set accepted a value with a newline")
	}
}

func TestSQLiteKV_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.db")
	kv, err := OpenSQLiteKV(path)
	if err != nil {
		t.Fatalf("OpenSQLiteKV: %v", err)
	}
	if _, ok, err := kv.Get(DefaultKey); err != nil || ok {
		t.Fatalf("Get on empty db ok=%v err=%v", ok, err)
	}
	if err := kv.Set(DefaultKey, "50"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := kv.Set(DefaultKey, "70"); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	kv.Close()

	kv, err = OpenSQLiteKV(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer kv.Close()
	if got := Load(nil, kv, DefaultKey).High(); got != 70 {
		t.Fatalf("high=%d want=70", got)
	}
}

func TestOpenKV_UnknownKind(t *testing.T) {
	if _, _, err := OpenKV("redis", ""); err == nil {
		t.Fatalf("OpenKV accepted unknown backend")
	}
}
