package service

import (
	"context"
	"sort"

	"github.com/swamp-dev/eunoia/internal/model"
	"github.com/swamp-dev/eunoia/internal/store"
)

// NoteService manages notes.
type NoteService struct {
	base
	c *collection[model.Note]
}

// List returns notes, most recently updated first.
func (s *NoteService) List(ctx context.Context, scope store.Scope) ([]model.Note, error) {
	notes, err := s.c.all(ctx, scope)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].UpdatedAt.After(notes[j].UpdatedAt)
	})
	return notes, nil
}

// Add stores a new note.
func (s *NoteService) Add(ctx context.Context, scope store.Scope, draft model.Note) (model.Note, error) {
	if err := requireTitle("note", draft.Title); err != nil {
		return model.Note{}, err
	}
	now := s.clock.Now()
	draft.ID = s.newID()
	draft.CreatedAt = now
	draft.UpdatedAt = now
	if err := s.c.prepend(ctx, scope, draft); err != nil {
		return model.Note{}, err
	}
	return draft, nil
}

// Update merges the non-empty title and content into the note and bumps UpdatedAt.
func (s *NoteService) Update(ctx context.Context, scope store.Scope, n model.Note) (model.Note, error) {
	out, ok, err := s.c.mutate(ctx, scope, n.ID, func(cur *model.Note) error {
		merge(&cur.Title, n.Title)
		merge(&cur.Content, n.Content)
		if err := requireTitle("note", cur.Title); err != nil {
			return err
		}
		cur.UpdatedAt = s.clock.Now()
		return nil
	})
	if err != nil {
		return model.Note{}, err
	}
	if !ok {
		return model.Note{}, notFound("note", n.ID)
	}
	return out, nil
}

// Delete removes a note and reports whether it existed.
func (s *NoteService) Delete(ctx context.Context, scope store.Scope, id string) (bool, error) {
	return s.c.remove(ctx, scope, id)
}
