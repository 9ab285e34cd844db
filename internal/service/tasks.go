package service

import (
	"context"

	"github.com/swamp-dev/eunoia/internal/model"
	"github.com/swamp-dev/eunoia/internal/store"
)

// TaskService manages tasks.
type TaskService struct {
	base
	c *collection[model.Task]
}

// List returns tasks in stored order, newest first.
func (s *TaskService) List(ctx context.Context, scope store.Scope) ([]model.Task, error) {
	return s.c.all(ctx, scope)
}

// Get returns one task.
func (s *TaskService) Get(ctx context.Context, scope store.Scope, id string) (model.Task, error) {
	t, ok, err := s.c.get(ctx, scope, id)
	if err != nil {
		return model.Task{}, err
	}
	if !ok {
		return model.Task{}, notFound("task", id)
	}
	return t, nil
}

// Add stores a new task. Status defaults to Pending.
func (s *TaskService) Add(ctx context.Context, scope store.Scope, draft model.Task) (model.Task, error) {
	if draft.Status == "" {
		draft.Status = model.TaskPending
	}
	if err := validateTask(&draft); err != nil {
		return model.Task{}, err
	}
	now := s.clock.Now()
	draft.ID = s.newID()
	draft.CreatedAt = &now
	if err := s.c.prepend(ctx, scope, draft); err != nil {
		return model.Task{}, err
	}
	return draft, nil
}

// Update merges the supplied fields of t into an existing task.
// Zero-valued fields keep their stored value.
func (s *TaskService) Update(ctx context.Context, scope store.Scope, t model.Task) (model.Task, error) {
	out, ok, err := s.c.mutate(ctx, scope, t.ID, func(cur *model.Task) error {
		merge(&cur.Title, t.Title)
		merge(&cur.Description, t.Description)
		mergePtr(&cur.DueDate, t.DueDate)
		merge(&cur.Status, t.Status)
		return validateTask(cur)
	})
	if err != nil {
		return model.Task{}, err
	}
	if !ok {
		return model.Task{}, notFound("task", t.ID)
	}
	return out, nil
}

// Delete removes a task and reports whether it existed.
func (s *TaskService) Delete(ctx context.Context, scope store.Scope, id string) (bool, error) {
	return s.c.remove(ctx, scope, id)
}

// ToggleStatus flips Completed to Pending, and anything else to Completed.
// An InProgress task therefore never returns to InProgress by toggling.
func (s *TaskService) ToggleStatus(ctx context.Context, scope store.Scope, id string) (model.Task, error) {
	out, ok, err := s.c.mutate(ctx, scope, id, func(cur *model.Task) error {
		if cur.Status == model.TaskCompleted {
			cur.Status = model.TaskPending
		} else {
			cur.Status = model.TaskCompleted
		}
		return nil
	})
	if err != nil {
		return model.Task{}, err
	}
	if !ok {
		return model.Task{}, notFound("task", id)
	}
	return out, nil
}

func validateTask(t *model.Task) error {
	if err := requireTitle("task", t.Title); err != nil {
		return err
	}
	if !t.Status.Valid() {
		return invalid("unknown task status %q", t.Status)
	}
	return nil
}
