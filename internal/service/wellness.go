package service

import (
	"context"
	"sort"
	"strings"

	"github.com/swamp-dev/eunoia/internal/model"
	"github.com/swamp-dev/eunoia/internal/store"
)

// GratitudeService manages gratitude exercise entries.
type GratitudeService struct {
	base
	c *collection[model.GratitudeLog]
}

// List returns gratitude entries, newest first.
func (s *GratitudeService) List(ctx context.Context, scope store.Scope) ([]model.GratitudeLog, error) {
	logs, err := s.c.all(ctx, scope)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(logs, func(i, j int) bool {
		return logs[i].Timestamp.After(logs[j].Timestamp)
	})
	return logs, nil
}

// Add stores a new gratitude entry stamped with the current time.
func (s *GratitudeService) Add(ctx context.Context, scope store.Scope, draft model.GratitudeLog) (model.GratitudeLog, error) {
	if strings.TrimSpace(draft.Text) == "" {
		return model.GratitudeLog{}, invalid("gratitude text is required")
	}
	draft.ID = s.newID()
	draft.Timestamp = s.clock.Now()
	if err := s.c.prepend(ctx, scope, draft); err != nil {
		return model.GratitudeLog{}, err
	}
	return draft, nil
}

// Update replaces the text of a gratitude entry when a non-blank one is given.
func (s *GratitudeService) Update(ctx context.Context, scope store.Scope, g model.GratitudeLog) (model.GratitudeLog, error) {
	out, ok, err := s.c.mutate(ctx, scope, g.ID, func(cur *model.GratitudeLog) error {
		merge(&cur.Text, g.Text)
		if strings.TrimSpace(cur.Text) == "" {
			return invalid("gratitude text is required")
		}
		return nil
	})
	if err != nil {
		return model.GratitudeLog{}, err
	}
	if !ok {
		return model.GratitudeLog{}, notFound("gratitude log", g.ID)
	}
	return out, nil
}

// Delete removes a gratitude entry and reports whether it existed.
func (s *GratitudeService) Delete(ctx context.Context, scope store.Scope, id string) (bool, error) {
	return s.c.remove(ctx, scope, id)
}

// ReframingService manages cognitive reframing entries.
type ReframingService struct {
	base
	c *collection[model.ReframingLog]
}

// List returns reframing entries, newest first.
func (s *ReframingService) List(ctx context.Context, scope store.Scope) ([]model.ReframingLog, error) {
	logs, err := s.c.all(ctx, scope)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(logs, func(i, j int) bool {
		return logs[i].Timestamp.After(logs[j].Timestamp)
	})
	return logs, nil
}

// Add stores a new reframing entry stamped with the current time.
func (s *ReframingService) Add(ctx context.Context, scope store.Scope, draft model.ReframingLog) (model.ReframingLog, error) {
	if err := validateReframing(&draft); err != nil {
		return model.ReframingLog{}, err
	}
	draft.ID = s.newID()
	draft.Timestamp = s.clock.Now()
	if err := s.c.prepend(ctx, scope, draft); err != nil {
		return model.ReframingLog{}, err
	}
	return draft, nil
}

// Update merges either half of the thought pair into a reframing entry.
func (s *ReframingService) Update(ctx context.Context, scope store.Scope, r model.ReframingLog) (model.ReframingLog, error) {
	out, ok, err := s.c.mutate(ctx, scope, r.ID, func(cur *model.ReframingLog) error {
		merge(&cur.NegativeThought, r.NegativeThought)
		merge(&cur.PositiveReframing, r.PositiveReframing)
		return validateReframing(cur)
	})
	if err != nil {
		return model.ReframingLog{}, err
	}
	if !ok {
		return model.ReframingLog{}, notFound("reframing log", r.ID)
	}
	return out, nil
}

// Delete removes a reframing entry and reports whether it existed.
func (s *ReframingService) Delete(ctx context.Context, scope store.Scope, id string) (bool, error) {
	return s.c.remove(ctx, scope, id)
}

func validateReframing(r *model.ReframingLog) error {
	if strings.TrimSpace(r.NegativeThought) == "" || strings.TrimSpace(r.PositiveReframing) == "" {
		return invalid("reframing needs both a negative thought and a positive reframing")
	}
	return nil
}
