package store

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/swamp-dev/eunoia/internal/config"
)

type record struct {
	ID   string    `json:"id"`
	When time.Time `json:"when"`
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openTestSQLite(t *testing.T) *SQLite {
	t.Helper()
	s, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("opening test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func backends(t *testing.T) map[string]KV {
	t.Helper()
	f, err := OpenFile(t.TempDir())
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	kvs := map[string]KV{
		"memory": NewMemory(),
		"file":   f,
		"sqlite": openTestSQLite(t),
	}
	if addr := os.Getenv("EUNOIA_TEST_REDIS_ADDR"); addr != "" {
		r, err := OpenRedis(context.Background(), RedisOptions{Addr: addr, DB: 15})
		if err != nil {
			t.Fatalf("OpenRedis: %v", err)
		}
		t.Cleanup(func() { r.Close() })
		kvs["redis"] = r
	}
	return kvs
}

func TestKVContract(t *testing.T) {
	ctx := context.Background()
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			key := "user/test-" + name + "/tasks"
			t.Cleanup(func() { kv.Remove(ctx, key) })

			if _, ok, err := kv.Get(ctx, key); err != nil || ok {
				t.Fatalf("Get on missing key = ok %v, err %v", ok, err)
			}

			if err := kv.Set(ctx, key, []byte(`[1]`)); err != nil {
				t.Fatalf("Set: %v", err)
			}
			if err := kv.Set(ctx, key, []byte(`[1,2]`)); err != nil {
				t.Fatalf("Set overwrite: %v", err)
			}
			got, ok, err := kv.Get(ctx, key)
			if err != nil || !ok {
				t.Fatalf("Get = ok %v, err %v", ok, err)
			}
			if !bytes.Equal(got, []byte(`[1,2]`)) {
				t.Errorf("expected [1,2], got %s", got)
			}

			if err := kv.Remove(ctx, key); err != nil {
				t.Fatalf("Remove: %v", err)
			}
			if err := kv.Remove(ctx, key); err != nil {
				t.Errorf("second Remove should be a no-op, got %v", err)
			}
			if _, ok, _ := kv.Get(ctx, key); ok {
				t.Error("expected key to be gone after Remove")
			}
		})
	}
}

func TestSchemaVersion(t *testing.T) {
	s := openTestSQLite(t)
	var version int
	err := s.db.QueryRow("SELECT MAX(version) FROM schema_version").Scan(&version)
	if err != nil {
		t.Fatalf("querying schema version: %v", err)
	}
	if version != currentSchemaVersion {
		t.Errorf("expected schema version %d, got %d", currentSchemaVersion, version)
	}
}

func TestSQLiteReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "eunoia.db")

	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if err := s.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	s.Close()

	s, err = OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopening: %v", err)
	}
	defer s.Close()
	got, ok, err := s.Get(ctx, "k")
	if err != nil || !ok || string(got) != "v" {
		t.Errorf("expected persisted value v, got %q ok=%v err=%v", got, ok, err)
	}
}

func TestFileRejectsEscapingKeys(t *testing.T) {
	f, err := OpenFile(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := f.Set(context.Background(), "../outside", []byte("x")); err == nil {
		t.Error("expected error for key outside data directory")
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	ctx := context.Background()
	b := NewBucket(NewMemory(), "user/ada", quietLogger())

	when := time.Date(2024, 3, 1, 9, 30, 15, 123_000_000, time.UTC)
	if err := SaveList(ctx, b, KeyTasks, []record{{ID: "r1", When: when}}); err != nil {
		t.Fatalf("SaveList: %v", err)
	}

	got, err := LoadList[record](ctx, b, KeyTasks)
	if err != nil {
		t.Fatalf("LoadList: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 record, got %d", len(got))
	}
	if !got[0].When.Equal(when) {
		t.Errorf("expected %s, got %s", when, got[0].When)
	}
	if got[0].When.UnixMilli() != when.UnixMilli() {
		t.Errorf("millisecond mismatch: %d vs %d", got[0].When.UnixMilli(), when.UnixMilli())
	}
}

func TestLoadListMissingKey(t *testing.T) {
	b := NewBucket(NewMemory(), "user/ada", quietLogger())
	got, err := LoadList[record](context.Background(), b, KeyNotes)
	if err != nil {
		t.Fatalf("LoadList: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil list, got %v", got)
	}
}

func TestLoadListMalformedClearsSlot(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	kv.Set(ctx, "user/ada/"+KeyExpenses, []byte(`{not json`))

	var logs bytes.Buffer
	b := NewBucket(kv, "user/ada", slog.New(slog.NewTextHandler(&logs, nil)))

	got, err := LoadList[record](ctx, b, KeyExpenses)
	if err != nil {
		t.Fatalf("LoadList: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty list, got %v", got)
	}
	if _, ok, _ := kv.Get(ctx, "user/ada/"+KeyExpenses); ok {
		t.Error("expected malformed slot to be removed")
	}
	if !bytes.Contains(logs.Bytes(), []byte("discarding malformed storage slot")) {
		t.Errorf("expected warning in logs, got %q", logs.String())
	}
}

func TestSaveListNilWritesEmptyArray(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	b := NewBucket(kv, "sample", quietLogger())
	if err := SaveList[record](ctx, b, KeyGoals, nil); err != nil {
		t.Fatalf("SaveList: %v", err)
	}
	got, _, _ := kv.Get(ctx, "sample/"+KeyGoals)
	if string(got) != "[]" {
		t.Errorf("expected [], got %s", got)
	}
}

func TestScopeValidate(t *testing.T) {
	tests := []struct {
		name    string
		scope   Scope
		wantErr bool
	}{
		{"sample", Sample(), false},
		{"user", User("ada"), false},
		{"user without id", User(""), true},
		{"user with slash", User("a/b"), true},
		{"user dotdot", User(".."), true},
		{"unknown mode", Scope{Mode: "guest"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.scope.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidScope) {
				t.Errorf("expected ErrInvalidScope, got %v", err)
			}
		})
	}
}

func TestStoreScopeIsolation(t *testing.T) {
	ctx := context.Background()
	seeded := 0
	s := New(NewMemory(),
		WithLogger(quietLogger()),
		WithSampleSeeder(func(ctx context.Context, b *Bucket) error {
			seeded++
			return SaveList(ctx, b, KeyTasks, []record{{ID: "demo"}})
		}),
	)

	ada, err := s.Bucket(ctx, User("ada"))
	if err != nil {
		t.Fatalf("Bucket(ada): %v", err)
	}
	SaveList(ctx, ada, KeyTasks, []record{{ID: "ada-1"}})

	bob, _ := s.Bucket(ctx, User("bob"))
	if got, _ := LoadList[record](ctx, bob, KeyTasks); len(got) != 0 {
		t.Errorf("expected bob to see no tasks, got %v", got)
	}

	for i := 0; i < 2; i++ {
		sample, err := s.Bucket(ctx, Sample())
		if err != nil {
			t.Fatalf("Bucket(sample): %v", err)
		}
		got, _ := LoadList[record](ctx, sample, KeyTasks)
		if len(got) != 1 || got[0].ID != "demo" {
			t.Errorf("expected demo task, got %v", got)
		}
	}
	if seeded != 1 {
		t.Errorf("expected sample seeded once, got %d", seeded)
	}

	if _, err := s.Bucket(ctx, User("")); !errors.Is(err, ErrInvalidScope) {
		t.Errorf("expected ErrInvalidScope, got %v", err)
	}
}

func TestOpenBackend(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		name    string
		cfg     config.StorageConfig
		wantErr bool
	}{
		{"memory", config.StorageConfig{Backend: "memory"}, false},
		{"file", config.StorageConfig{Backend: "file", Path: filepath.Join(dir, "files")}, false},
		{"sqlite dir", config.StorageConfig{Backend: "sqlite", Path: filepath.Join(dir, "db")}, false},
		{"sqlite memory", config.StorageConfig{Backend: "sqlite", Path: ":memory:"}, false},
		{"unknown", config.StorageConfig{Backend: "tape"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv, err := OpenBackend(ctx, tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("OpenBackend() error = %v, wantErr %v", err, tt.wantErr)
			}
			if kv != nil {
				kv.Close()
			}
		})
	}
}
