package service

import (
	"context"
	"sort"

	"github.com/swamp-dev/eunoia/internal/model"
	"github.com/swamp-dev/eunoia/internal/store"
)

// ReminderService manages reminders.
type ReminderService struct {
	base
	policy PastReminderPolicy
	c      *collection[model.Reminder]
}

// List returns every stored reminder, past ones included, soonest first.
func (s *ReminderService) List(ctx context.Context, scope store.Scope) ([]model.Reminder, error) {
	reminders, err := s.c.all(ctx, scope)
	if err != nil {
		return nil, err
	}
	sortReminders(reminders)
	return reminders, nil
}

// Upcoming returns reminders at or after now, soonest first.
//
// Under PastHide, past reminders stay in storage. Under PastPurge they are
// deleted as a side effect.
func (s *ReminderService) Upcoming(ctx context.Context, scope store.Scope) ([]model.Reminder, error) {
	reminders, err := s.c.all(ctx, scope)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	upcoming := make([]model.Reminder, 0, len(reminders))
	for _, r := range reminders {
		if !r.DateTime.Before(now) {
			upcoming = append(upcoming, r)
		}
	}

	if s.policy == PastPurge && len(upcoming) < len(reminders) {
		kept := append([]model.Reminder(nil), upcoming...)
		if err := s.c.replaceAll(ctx, scope, kept); err != nil {
			return nil, err
		}
		s.logger.Debug("purged past reminders", "count", len(reminders)-len(upcoming))
	}

	sortReminders(upcoming)
	return upcoming, nil
}

// Add stores a new reminder.
func (s *ReminderService) Add(ctx context.Context, scope store.Scope, draft model.Reminder) (model.Reminder, error) {
	if err := validateReminder(&draft); err != nil {
		return model.Reminder{}, err
	}
	draft.ID = s.newID()
	if err := s.c.prepend(ctx, scope, draft); err != nil {
		return model.Reminder{}, err
	}
	return draft, nil
}

// Update merges the supplied fields of r into a reminder.
func (s *ReminderService) Update(ctx context.Context, scope store.Scope, r model.Reminder) (model.Reminder, error) {
	out, ok, err := s.c.mutate(ctx, scope, r.ID, func(cur *model.Reminder) error {
		merge(&cur.Title, r.Title)
		mergeTime(&cur.DateTime, r.DateTime)
		merge(&cur.Description, r.Description)
		return validateReminder(cur)
	})
	if err != nil {
		return model.Reminder{}, err
	}
	if !ok {
		return model.Reminder{}, notFound("reminder", r.ID)
	}
	return out, nil
}

// Delete removes a reminder and reports whether it existed.
func (s *ReminderService) Delete(ctx context.Context, scope store.Scope, id string) (bool, error) {
	return s.c.remove(ctx, scope, id)
}

func validateReminder(r *model.Reminder) error {
	if err := requireTitle("reminder", r.Title); err != nil {
		return err
	}
	if r.DateTime.IsZero() {
		return invalid("reminder date-time is required")
	}
	return nil
}

func sortReminders(reminders []model.Reminder) {
	sort.SliceStable(reminders, func(i, j int) bool {
		return reminders[i].DateTime.Before(reminders[j].DateTime)
	})
}
