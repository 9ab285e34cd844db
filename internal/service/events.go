package service

import (
	"context"
	"sort"
	"time"

	"github.com/swamp-dev/eunoia/internal/aggregate"
	"github.com/swamp-dev/eunoia/internal/model"
	"github.com/swamp-dev/eunoia/internal/store"
)

// EventService manages calendar events.
type EventService struct {
	base
	c *collection[model.CalendarEvent]
}

// List returns events, latest start first.
func (s *EventService) List(ctx context.Context, scope store.Scope) ([]model.CalendarEvent, error) {
	events, err := s.c.all(ctx, scope)
	if err != nil {
		return nil, err
	}
	sortEvents(events)
	return events, nil
}

// InRange returns events starting within [start, end], latest first.
func (s *EventService) InRange(ctx context.Context, scope store.Scope, start, end time.Time) ([]model.CalendarEvent, error) {
	events, err := s.List(ctx, scope)
	if err != nil {
		return nil, err
	}
	return aggregate.FilterInRange(events, start, end, func(e model.CalendarEvent) time.Time { return e.Start }), nil
}

// Add stores a new event. End must not precede Start.
func (s *EventService) Add(ctx context.Context, scope store.Scope, draft model.CalendarEvent) (model.CalendarEvent, error) {
	if err := validateEvent(&draft); err != nil {
		return model.CalendarEvent{}, err
	}
	draft.ID = s.newID()
	if err := s.c.prepend(ctx, scope, draft); err != nil {
		return model.CalendarEvent{}, err
	}
	return draft, nil
}

// Update merges the supplied fields of e into an existing event. The merged
// event must still end at or after its start.
func (s *EventService) Update(ctx context.Context, scope store.Scope, e model.CalendarEvent) (model.CalendarEvent, error) {
	out, ok, err := s.c.mutate(ctx, scope, e.ID, func(cur *model.CalendarEvent) error {
		merge(&cur.Title, e.Title)
		mergeTime(&cur.Start, e.Start)
		mergeTime(&cur.End, e.End)
		merge(&cur.Description, e.Description)
		return validateEvent(cur)
	})
	if err != nil {
		return model.CalendarEvent{}, err
	}
	if !ok {
		return model.CalendarEvent{}, notFound("event", e.ID)
	}
	return out, nil
}

// Delete removes an event and reports whether it existed.
func (s *EventService) Delete(ctx context.Context, scope store.Scope, id string) (bool, error) {
	return s.c.remove(ctx, scope, id)
}

func validateEvent(e *model.CalendarEvent) error {
	if err := requireTitle("event", e.Title); err != nil {
		return err
	}
	if e.Start.IsZero() || e.End.IsZero() {
		return invalid("event start and end are required")
	}
	if e.End.Before(e.Start) {
		return invalid("event end %s is before start %s", e.End.Format(time.RFC3339), e.Start.Format(time.RFC3339))
	}
	return nil
}

func sortEvents(events []model.CalendarEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Start.After(events[j].Start)
	})
}
