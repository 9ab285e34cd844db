// Package store provides the key-value persistence layer for eunoia records.
//
// Every record kind is kept as one JSON array under a fixed key. Callers load the
// whole list, mutate it, and save the whole list back; there is no partial write
// and no locking across operations, so concurrent writers race and the last
// write wins.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// Storage keys, one per record kind.
const (
	KeyTasks          = "tasks"
	KeyCalendarEvents = "calendarEvents"
	KeyExpenses       = "expenses"
	KeyNotes          = "notes"
	KeyGoals          = "goals"
	KeyHabits         = "habits"
	KeyReminders      = "reminders"
	KeyDailyLogs      = "dailyLogs"
	KeyGratitudeLogs  = "gratitudeLogs"
	KeyReframingLogs  = "reframingLogs"
)

// Keys lists every record key.
var Keys = []string{
	KeyTasks, KeyCalendarEvents, KeyExpenses, KeyNotes, KeyGoals,
	KeyHabits, KeyReminders, KeyDailyLogs, KeyGratitudeLogs, KeyReframingLogs,
}

// KV is a string-keyed blob store.
type KV interface {
	// Get returns the value under key and whether it exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set overwrites the value under key.
	Set(ctx context.Context, key string, value []byte) error
	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
	Close() error
}

// ErrInvalidScope is returned for a scope that cannot be routed.
var ErrInvalidScope = errors.New("invalid storage scope")

// Mode selects between the demo dataset and live per-user data.
type Mode string

const (
	ModeSample Mode = "sample"
	ModeUser   Mode = "user"
)

// Scope is the storage context threaded through every service call.
type Scope struct {
	Mode   Mode   `json:"mode"`
	UserID string `json:"userId,omitempty"`
}

// Sample returns the scope of the demo dataset.
func Sample() Scope { return Scope{Mode: ModeSample} }

// User returns the live scope for a user id.
func User(id string) Scope { return Scope{Mode: ModeUser, UserID: id} }

// Validate checks that the scope names a routable namespace.
func (s Scope) Validate() error {
	switch s.Mode {
	case ModeSample:
		return nil
	case ModeUser:
		if s.UserID == "" {
			return fmt.Errorf("%w: user mode requires a user id", ErrInvalidScope)
		}
		if strings.ContainsAny(s.UserID, `/\:`) || s.UserID == "." || s.UserID == ".." {
			return fmt.Errorf("%w: user id %q contains reserved characters", ErrInvalidScope, s.UserID)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidScope, s.Mode)
	}
}

// Namespace is the key prefix owned by the scope.
func (s Scope) Namespace() string {
	if s.Mode == ModeSample {
		return "sample"
	}
	return "user/" + s.UserID
}

// Seeder fills a fresh sample KV with the demo dataset.
type Seeder func(ctx context.Context, b *Bucket) error

// Store routes scopes to their backing KV.
type Store struct {
	user   KV
	logger *slog.Logger

	seed     Seeder
	mu       sync.Mutex
	sample   KV
	seededOK bool
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for storage diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithSampleSeeder sets the function that populates sample mode on first use.
func WithSampleSeeder(seed Seeder) Option {
	return func(s *Store) { s.seed = seed }
}

// New creates a Store whose user scopes live in kv.
func New(kv KV, opts ...Option) *Store {
	s := &Store{user: kv, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close releases the user backend. The sample backend is in memory.
func (s *Store) Close() error {
	return s.user.Close()
}

// Bucket returns the view of the store owned by scope.
func (s *Store) Bucket(ctx context.Context, scope Scope) (*Bucket, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if scope.Mode == ModeUser {
		return &Bucket{kv: s.user, ns: scope.Namespace(), logger: s.logger}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sample == nil {
		s.sample = NewMemory()
	}
	b := &Bucket{kv: s.sample, ns: scope.Namespace(), logger: s.logger}
	if !s.seededOK && s.seed != nil {
		if err := s.seed(ctx, b); err != nil {
			return nil, fmt.Errorf("seeding sample data: %w", err)
		}
		s.logger.Debug("seeded sample dataset")
	}
	s.seededOK = true
	return b, nil
}

// Bucket is a KV bound to one scope's namespace.
type Bucket struct {
	kv     KV
	ns     string
	logger *slog.Logger
}

// NewBucket binds kv to a namespace directly, bypassing scope routing.
func NewBucket(kv KV, namespace string, logger *slog.Logger) *Bucket {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bucket{kv: kv, ns: namespace, logger: logger}
}

func (b *Bucket) key(k string) string {
	return b.ns + "/" + k
}

// Clear removes key from the bucket.
func (b *Bucket) Clear(ctx context.Context, key string) error {
	return b.kv.Remove(ctx, b.key(key))
}

// LoadList reads the JSON array stored under key.
//
// A missing key yields an empty list. A malformed value is logged, removed, and
// also yields an empty list; only backend failures are returned as errors.
func LoadList[T any](ctx context.Context, b *Bucket, key string) ([]T, error) {
	data, ok, err := b.kv.Get(ctx, b.key(key))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}
	if !ok || len(data) == 0 {
		return []T{}, nil
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		b.logger.Warn("discarding malformed storage slot", "key", b.key(key), "error", err)
		if rmErr := b.kv.Remove(ctx, b.key(key)); rmErr != nil {
			b.logger.Warn("clearing malformed storage slot", "key", b.key(key), "error", rmErr)
		}
		return []T{}, nil
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// SaveList overwrites key with items encoded as a JSON array.
func SaveList[T any](ctx context.Context, b *Bucket, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	if err := b.kv.Set(ctx, b.key(key), data); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}
