// Package service implements the per-kind record services over the key-value store.
//
// Each operation loads the whole list for the caller's scope, mutates it in
// memory and saves it back.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/swamp-dev/eunoia/internal/clock"
	"github.com/swamp-dev/eunoia/internal/model"
	"github.com/swamp-dev/eunoia/internal/store"
)

var (
	// ErrNotFound is returned when an id does not name a stored record.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyCompleted is returned when a habit was already completed today.
	ErrAlreadyCompleted = errors.New("already completed today")
	// ErrInvalidInput is returned for records that violate a field constraint.
	ErrInvalidInput = errors.New("invalid input")
)

// StreakPolicy decides what a missed period does to a habit streak.
type StreakPolicy string

const (
	// StreakKeep never resets a streak.
	StreakKeep StreakPolicy = "keep"
	// StreakReset restarts the streak at 1 after a missed period.
	StreakReset StreakPolicy = "reset"
)

// PastReminderPolicy decides what listing upcoming reminders does to past ones.
type PastReminderPolicy string

const (
	// PastHide leaves past reminders stored but out of the listing.
	PastHide PastReminderPolicy = "hide"
	// PastPurge deletes past reminders while listing.
	PastPurge PastReminderPolicy = "purge"
)

// Options configures the services.
type Options struct {
	Clock        clock.Clock
	StreakPolicy StreakPolicy
	PastPolicy   PastReminderPolicy
	Logger       *slog.Logger
	// NewID generates record ids. Defaults to random UUIDs.
	NewID func() string
}

// Services bundles one service per record kind.
type Services struct {
	Tasks     *TaskService
	Events    *EventService
	Expenses  *ExpenseService
	Notes     *NoteService
	Goals     *GoalService
	Habits    *HabitService
	Reminders *ReminderService
	Logs      *LogService
	Gratitude *GratitudeService
	Reframing *ReframingService
}

// New builds the services over st.
func New(st *store.Store, opts Options) *Services {
	if opts.Clock == nil {
		opts.Clock = clock.System{}
	}
	if opts.StreakPolicy == "" {
		opts.StreakPolicy = StreakKeep
	}
	if opts.PastPolicy == "" {
		opts.PastPolicy = PastHide
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}

	b := base{clock: opts.Clock, newID: opts.NewID, logger: opts.Logger}
	return &Services{
		Tasks:     &TaskService{base: b, c: newCollection(st, store.KeyTasks, func(t *model.Task) string { return t.ID })},
		Events:    &EventService{base: b, c: newCollection(st, store.KeyCalendarEvents, func(e *model.CalendarEvent) string { return e.ID })},
		Expenses:  &ExpenseService{base: b, c: newCollection(st, store.KeyExpenses, func(e *model.Expense) string { return e.ID })},
		Notes:     &NoteService{base: b, c: newCollection(st, store.KeyNotes, func(n *model.Note) string { return n.ID })},
		Goals:     &GoalService{base: b, c: newCollection(st, store.KeyGoals, func(g *model.Goal) string { return g.ID })},
		Habits:    &HabitService{base: b, policy: opts.StreakPolicy, c: newCollection(st, store.KeyHabits, func(h *model.Habit) string { return h.ID })},
		Reminders: &ReminderService{base: b, policy: opts.PastPolicy, c: newCollection(st, store.KeyReminders, func(r *model.Reminder) string { return r.ID })},
		Logs:      &LogService{base: b, c: newCollection(st, store.KeyDailyLogs, func(e *model.LogEntry) string { return e.ID })},
		Gratitude: &GratitudeService{base: b, c: newCollection(st, store.KeyGratitudeLogs, func(g *model.GratitudeLog) string { return g.ID })},
		Reframing: &ReframingService{base: b, c: newCollection(st, store.KeyReframingLogs, func(r *model.ReframingLog) string { return r.ID })},
	}
}

type base struct {
	clock  clock.Clock
	newID  func() string
	logger *slog.Logger
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func requireTitle(kind, title string) error {
	if strings.TrimSpace(title) == "" {
		return invalid("%s title is required", kind)
	}
	return nil
}

// merge overwrites *dst with src unless src is the zero value, so an update
// only touches the fields the caller supplied.
func merge[T comparable](dst *T, src T) {
	var zero T
	if src != zero {
		*dst = src
	}
}

func mergeTime(dst *time.Time, src time.Time) {
	if !src.IsZero() {
		*dst = src
	}
}

func mergePtr[T any](dst **T, src *T) {
	if src != nil {
		*dst = src
	}
}

// collection is the load-all / mutate / save-all cycle shared by every kind.
type collection[T any] struct {
	st   *store.Store
	key  string
	idOf func(*T) string
}

func newCollection[T any](st *store.Store, key string, idOf func(*T) string) *collection[T] {
	return &collection[T]{st: st, key: key, idOf: idOf}
}

func (c *collection[T]) load(ctx context.Context, scope store.Scope) (*store.Bucket, []T, error) {
	b, err := c.st.Bucket(ctx, scope)
	if err != nil {
		return nil, nil, err
	}
	items, err := store.LoadList[T](ctx, b, c.key)
	if err != nil {
		return nil, nil, err
	}
	return b, items, nil
}

func (c *collection[T]) all(ctx context.Context, scope store.Scope) ([]T, error) {
	_, items, err := c.load(ctx, scope)
	return items, err
}

func (c *collection[T]) get(ctx context.Context, scope store.Scope, id string) (T, bool, error) {
	var zero T
	_, items, err := c.load(ctx, scope)
	if err != nil {
		return zero, false, err
	}
	for i := range items {
		if c.idOf(&items[i]) == id {
			return items[i], true, nil
		}
	}
	return zero, false, nil
}

// prepend stores item at the head of the list.
func (c *collection[T]) prepend(ctx context.Context, scope store.Scope, item T) error {
	b, items, err := c.load(ctx, scope)
	if err != nil {
		return err
	}
	items = append([]T{item}, items...)
	return store.SaveList(ctx, b, c.key, items)
}

// mutate applies fn to the record with id and saves the list. When the id is
// absent it returns found=false without writing. An error from fn aborts the write.
func (c *collection[T]) mutate(ctx context.Context, scope store.Scope, id string, fn func(*T) error) (T, bool, error) {
	var zero T
	b, items, err := c.load(ctx, scope)
	if err != nil {
		return zero, false, err
	}
	for i := range items {
		if c.idOf(&items[i]) != id {
			continue
		}
		if err := fn(&items[i]); err != nil {
			return items[i], true, err
		}
		if err := store.SaveList(ctx, b, c.key, items); err != nil {
			return zero, true, err
		}
		return items[i], true, nil
	}
	return zero, false, nil
}

// remove deletes the record with id. It writes only when something was removed.
func (c *collection[T]) remove(ctx context.Context, scope store.Scope, id string) (bool, error) {
	b, items, err := c.load(ctx, scope)
	if err != nil {
		return false, err
	}
	kept := items[:0]
	removed := false
	for i := range items {
		if c.idOf(&items[i]) == id {
			removed = true
			continue
		}
		kept = append(kept, items[i])
	}
	if !removed {
		return false, nil
	}
	if err := store.SaveList(ctx, b, c.key, kept); err != nil {
		return false, err
	}
	return true, nil
}

// replaceAll overwrites the whole list.
func (c *collection[T]) replaceAll(ctx context.Context, scope store.Scope, items []T) error {
	b, err := c.st.Bucket(ctx, scope)
	if err != nil {
		return err
	}
	return store.SaveList(ctx, b, c.key, items)
}
