package service

import (
	"context"
	"sort"

	"github.com/swamp-dev/eunoia/internal/model"
	"github.com/swamp-dev/eunoia/internal/store"
)

// GoalService manages goals.
type GoalService struct {
	base
	c *collection[model.Goal]
}

// List returns goals, most recently updated first.
func (s *GoalService) List(ctx context.Context, scope store.Scope) ([]model.Goal, error) {
	goals, err := s.c.all(ctx, scope)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(goals, func(i, j int) bool {
		return goals[i].UpdatedAt.After(goals[j].UpdatedAt)
	})
	return goals, nil
}

// Add stores a new goal. Status defaults to NotStarted.
func (s *GoalService) Add(ctx context.Context, scope store.Scope, draft model.Goal) (model.Goal, error) {
	if draft.Status == "" {
		draft.Status = model.GoalNotStarted
	}
	if err := validateGoal(&draft); err != nil {
		return model.Goal{}, err
	}
	now := s.clock.Now()
	draft.ID = s.newID()
	draft.CreatedAt = now
	draft.UpdatedAt = now
	if err := s.c.prepend(ctx, scope, draft); err != nil {
		return model.Goal{}, err
	}
	return draft, nil
}

// Update merges the supplied fields of g into a goal and bumps UpdatedAt.
func (s *GoalService) Update(ctx context.Context, scope store.Scope, g model.Goal) (model.Goal, error) {
	out, ok, err := s.c.mutate(ctx, scope, g.ID, func(cur *model.Goal) error {
		merge(&cur.Title, g.Title)
		merge(&cur.Description, g.Description)
		merge(&cur.Status, g.Status)
		mergePtr(&cur.TargetDate, g.TargetDate)
		if err := validateGoal(cur); err != nil {
			return err
		}
		cur.UpdatedAt = s.clock.Now()
		return nil
	})
	if err != nil {
		return model.Goal{}, err
	}
	if !ok {
		return model.Goal{}, notFound("goal", g.ID)
	}
	return out, nil
}

// SetStatus moves a goal to status.
func (s *GoalService) SetStatus(ctx context.Context, scope store.Scope, id string, status model.GoalStatus) (model.Goal, error) {
	if !status.Valid() {
		return model.Goal{}, invalid("unknown goal status %q", status)
	}
	out, ok, err := s.c.mutate(ctx, scope, id, func(cur *model.Goal) error {
		cur.Status = status
		cur.UpdatedAt = s.clock.Now()
		return nil
	})
	if err != nil {
		return model.Goal{}, err
	}
	if !ok {
		return model.Goal{}, notFound("goal", id)
	}
	return out, nil
}

// Delete removes a goal and reports whether it existed.
func (s *GoalService) Delete(ctx context.Context, scope store.Scope, id string) (bool, error) {
	return s.c.remove(ctx, scope, id)
}

func validateGoal(g *model.Goal) error {
	if err := requireTitle("goal", g.Title); err != nil {
		return err
	}
	if !g.Status.Valid() {
		return invalid("unknown goal status %q", g.Status)
	}
	return nil
}
