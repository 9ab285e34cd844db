package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/swamp-dev/eunoia/internal/aggregate"
	"github.com/swamp-dev/eunoia/internal/model"
	"github.com/swamp-dev/eunoia/internal/store"
)

// LogService manages daily log and diary entries.
type LogService struct {
	base
	c *collection[model.LogEntry]
}

// List returns log entries, most recent date first.
func (s *LogService) List(ctx context.Context, scope store.Scope) ([]model.LogEntry, error) {
	entries, err := s.c.all(ctx, scope)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.After(entries[j].Date)
	})
	return entries, nil
}

// InRange returns entries dated within [start, end], most recent first.
func (s *LogService) InRange(ctx context.Context, scope store.Scope, start, end time.Time) ([]model.LogEntry, error) {
	entries, err := s.List(ctx, scope)
	if err != nil {
		return nil, err
	}
	return aggregate.FilterInRange(entries, start, end, func(e model.LogEntry) time.Time { return e.Date }), nil
}

// Add stores a new entry. A zero date means now; an out-of-range focus level is dropped.
func (s *LogService) Add(ctx context.Context, scope store.Scope, draft model.LogEntry) (model.LogEntry, error) {
	if draft.Date.IsZero() {
		draft.Date = s.clock.Now()
	}
	if err := validateLog(&draft); err != nil {
		return model.LogEntry{}, err
	}
	draft.ID = s.newID()
	if err := s.c.prepend(ctx, scope, draft); err != nil {
		return model.LogEntry{}, err
	}
	return draft, nil
}

// Update merges the supplied fields of e into an entry.
func (s *LogService) Update(ctx context.Context, scope store.Scope, e model.LogEntry) (model.LogEntry, error) {
	out, ok, err := s.c.mutate(ctx, scope, e.ID, func(cur *model.LogEntry) error {
		mergeTime(&cur.Date, e.Date)
		merge(&cur.Activity, e.Activity)
		merge(&cur.Mood, e.Mood)
		merge(&cur.Notes, e.Notes)
		merge(&cur.DiaryEntry, e.DiaryEntry)
		mergePtr(&cur.FocusLevel, e.FocusLevel)
		return validateLog(cur)
	})
	if err != nil {
		return model.LogEntry{}, err
	}
	if !ok {
		return model.LogEntry{}, notFound("log entry", e.ID)
	}
	return out, nil
}

// Delete removes an entry and reports whether it existed.
func (s *LogService) Delete(ctx context.Context, scope store.Scope, id string) (bool, error) {
	return s.c.remove(ctx, scope, id)
}

func validateLog(e *model.LogEntry) error {
	if strings.TrimSpace(e.Activity) == "" {
		return invalid("log activity is required")
	}
	if e.Date.IsZero() {
		return invalid("log date is required")
	}
	if e.Mood != "" && !e.Mood.Valid() {
		return invalid("unknown mood %q", e.Mood)
	}
	e.NormalizeFocus()
	return nil
}
