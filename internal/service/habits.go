package service

import (
	"context"
	"sort"
	"time"

	"github.com/swamp-dev/eunoia/internal/clock"
	"github.com/swamp-dev/eunoia/internal/model"
	"github.com/swamp-dev/eunoia/internal/store"
)

// HabitService manages habits and their streaks.
type HabitService struct {
	base
	policy StreakPolicy
	c      *collection[model.Habit]
}

// List returns habits, most recently updated first.
func (s *HabitService) List(ctx context.Context, scope store.Scope) ([]model.Habit, error) {
	habits, err := s.c.all(ctx, scope)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(habits, func(i, j int) bool {
		return habits[i].UpdatedAt.After(habits[j].UpdatedAt)
	})
	return habits, nil
}

// Add stores a new habit with a zero streak. Frequency defaults to Daily.
func (s *HabitService) Add(ctx context.Context, scope store.Scope, draft model.Habit) (model.Habit, error) {
	if draft.Frequency == "" {
		draft.Frequency = model.Daily
	}
	if err := validateHabit(&draft); err != nil {
		return model.Habit{}, err
	}
	now := s.clock.Now()
	draft.ID = s.newID()
	draft.Streak = 0
	draft.LastCompleted = nil
	draft.CreatedAt = now
	draft.UpdatedAt = now
	if err := s.c.prepend(ctx, scope, draft); err != nil {
		return model.Habit{}, err
	}
	return draft, nil
}

// Update merges a new title or frequency into a habit and bumps UpdatedAt.
// Streak and completion history only change through MarkComplete.
func (s *HabitService) Update(ctx context.Context, scope store.Scope, h model.Habit) (model.Habit, error) {
	out, ok, err := s.c.mutate(ctx, scope, h.ID, func(cur *model.Habit) error {
		merge(&cur.Title, h.Title)
		merge(&cur.Frequency, h.Frequency)
		if err := validateHabit(cur); err != nil {
			return err
		}
		cur.UpdatedAt = s.clock.Now()
		return nil
	})
	if err != nil {
		return model.Habit{}, err
	}
	if !ok {
		return model.Habit{}, notFound("habit", h.ID)
	}
	return out, nil
}

// Delete removes a habit and reports whether it existed.
func (s *HabitService) Delete(ctx context.Context, scope store.Scope, id string) (bool, error) {
	return s.c.remove(ctx, scope, id)
}

// MarkComplete records a completion for today.
//
// A second call on the same calendar day returns the unchanged habit together
// with ErrAlreadyCompleted and writes nothing.
func (s *HabitService) MarkComplete(ctx context.Context, scope store.Scope, id string) (model.Habit, error) {
	now := s.clock.Now()
	out, ok, err := s.c.mutate(ctx, scope, id, func(cur *model.Habit) error {
		if cur.LastCompleted != nil && clock.SameDay(now, *cur.LastCompleted) {
			return ErrAlreadyCompleted
		}
		if s.policy == StreakReset && cur.LastCompleted != nil && missedPeriod(cur.Frequency, *cur.LastCompleted, now) {
			cur.Streak = 1
		} else {
			cur.Streak++
		}
		cur.LastCompleted = &now
		cur.UpdatedAt = now
		return nil
	})
	if !ok && err == nil {
		return model.Habit{}, notFound("habit", id)
	}
	return out, err
}

// missedPeriod reports whether at least one full period for freq passed
// between last and now without a completion.
func missedPeriod(freq model.Frequency, last, now time.Time) bool {
	switch freq {
	case model.Weekly:
		return clock.DaysBetween(last, now) > 7
	case model.Monthly:
		ly, lm, _ := last.In(now.Location()).Date()
		ny, nm, _ := now.Date()
		return (ny*12+int(nm))-(ly*12+int(lm)) > 1
	default:
		return clock.DaysBetween(last, now) > 1
	}
}

func validateHabit(h *model.Habit) error {
	if err := requireTitle("habit", h.Title); err != nil {
		return err
	}
	if !h.Frequency.Valid() {
		return invalid("unknown habit frequency %q", h.Frequency)
	}
	return nil
}
