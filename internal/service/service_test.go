package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/swamp-dev/eunoia/internal/clock"
	"github.com/swamp-dev/eunoia/internal/model"
	"github.com/swamp-dev/eunoia/internal/store"
)

var (
	ctx = context.Background()
	ada = store.User("ada")
)

type fixture struct {
	kv    *store.Memory
	clock *clock.Fixed
	svc   *Services
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	kv := store.NewMemory()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st := store.New(kv, store.WithLogger(logger))
	c := clock.NewFixed(time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC))

	n := 0
	opts.Clock = c
	opts.Logger = logger
	opts.NewID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	return &fixture{kv: kv, clock: c, svc: New(st, opts)}
}

func (f *fixture) raw(t *testing.T, key string) []byte {
	t.Helper()
	v, _, err := f.kv.Get(ctx, ada.Namespace()+"/"+key)
	if err != nil {
		t.Fatalf("reading raw %s: %v", key, err)
	}
	return v
}

func intPtr(v int) *int { return &v }

func TestAddThenListAddsOneRecord(t *testing.T) {
	f := newFixture(t, Options{})
	s := f.svc
	due := time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC)

	if _, err := s.Tasks.Add(ctx, ada, model.Task{Title: "Existing"}); err != nil {
		t.Fatalf("seeding task: %v", err)
	}
	before, _ := s.Tasks.List(ctx, ada)

	added, err := s.Tasks.Add(ctx, ada, model.Task{ID: "ignored", Title: "Write report", Description: "Q2", DueDate: &due})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if added.ID == "" || added.ID == "ignored" {
		t.Errorf("expected a newly assigned id, got %q", added.ID)
	}
	if added.CreatedAt == nil || !added.CreatedAt.Equal(f.clock.Now()) {
		t.Errorf("expected createdAt to be set from the clock, got %v", added.CreatedAt)
	}

	after, err := s.Tasks.List(ctx, ada)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(after) != len(before)+1 {
		t.Fatalf("expected %d tasks, got %d", len(before)+1, len(after))
	}
	got := after[0]
	if got.ID != added.ID || got.Title != "Write report" || got.Description != "Q2" ||
		got.Status != model.TaskPending || got.DueDate == nil || !got.DueDate.Equal(due) {
		t.Errorf("unexpected stored task %+v", got)
	}
}

func TestAddAllKinds(t *testing.T) {
	f := newFixture(t, Options{})
	s := f.svc
	now := f.clock.Now()

	tests := []struct {
		name string
		add  func() (string, error)
		list func() (int, error)
	}{
		{"event", func() (string, error) {
			e, err := s.Events.Add(ctx, ada, model.CalendarEvent{Title: "Standup", Start: now, End: now.Add(15 * time.Minute)})
			return e.ID, err
		}, func() (int, error) { l, err := s.Events.List(ctx, ada); return len(l), err }},
		{"expense", func() (string, error) {
			e, err := s.Expenses.Add(ctx, ada, model.Expense{Description: "Lunch", Amount: 12.5, Category: "Food"})
			return e.ID, err
		}, func() (int, error) { l, err := s.Expenses.List(ctx, ada); return len(l), err }},
		{"note", func() (string, error) {
			n, err := s.Notes.Add(ctx, ada, model.Note{Title: "Ideas", Content: "..."})
			return n.ID, err
		}, func() (int, error) { l, err := s.Notes.List(ctx, ada); return len(l), err }},
		{"goal", func() (string, error) {
			g, err := s.Goals.Add(ctx, ada, model.Goal{Title: "Run 10k"})
			return g.ID, err
		}, func() (int, error) { l, err := s.Goals.List(ctx, ada); return len(l), err }},
		{"habit", func() (string, error) {
			h, err := s.Habits.Add(ctx, ada, model.Habit{Title: "Meditate"})
			return h.ID, err
		}, func() (int, error) { l, err := s.Habits.List(ctx, ada); return len(l), err }},
		{"reminder", func() (string, error) {
			r, err := s.Reminders.Add(ctx, ada, model.Reminder{Title: "Call mom", DateTime: now.Add(time.Hour)})
			return r.ID, err
		}, func() (int, error) { l, err := s.Reminders.List(ctx, ada); return len(l), err }},
		{"log", func() (string, error) {
			e, err := s.Logs.Add(ctx, ada, model.LogEntry{Activity: "Deep work", Mood: model.MoodProductive})
			return e.ID, err
		}, func() (int, error) { l, err := s.Logs.List(ctx, ada); return len(l), err }},
		{"gratitude", func() (string, error) {
			g, err := s.Gratitude.Add(ctx, ada, model.GratitudeLog{Text: "Sunny morning"})
			return g.ID, err
		}, func() (int, error) { l, err := s.Gratitude.List(ctx, ada); return len(l), err }},
		{"reframing", func() (string, error) {
			r, err := s.Reframing.Add(ctx, ada, model.ReframingLog{NegativeThought: "I failed", PositiveReframing: "I learned"})
			return r.ID, err
		}, func() (int, error) { l, err := s.Reframing.List(ctx, ada); return len(l), err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := tt.add()
			if err != nil {
				t.Fatalf("Add: %v", err)
			}
			if id == "" {
				t.Error("expected id to be assigned")
			}
			n, err := tt.list()
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if n != 1 {
				t.Errorf("expected 1 record, got %d", n)
			}
		})
	}
}

func TestUnknownIDLeavesStorageUnchanged(t *testing.T) {
	f := newFixture(t, Options{})
	s := f.svc
	s.Tasks.Add(ctx, ada, model.Task{Title: "Keep me"})
	s.Notes.Add(ctx, ada, model.Note{Title: "Keep me"})
	s.Habits.Add(ctx, ada, model.Habit{Title: "Keep me"})

	tasksBefore := f.raw(t, store.KeyTasks)
	notesBefore := f.raw(t, store.KeyNotes)
	habitsBefore := f.raw(t, store.KeyHabits)

	if _, err := s.Tasks.Update(ctx, ada, model.Task{ID: "missing", Title: "x", Status: model.TaskPending}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Tasks.Update: expected ErrNotFound, got %v", err)
	}
	if _, err := s.Tasks.ToggleStatus(ctx, ada, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Tasks.ToggleStatus: expected ErrNotFound, got %v", err)
	}
	if ok, err := s.Tasks.Delete(ctx, ada, "missing"); ok || err != nil {
		t.Errorf("Tasks.Delete: expected false, nil; got %v, %v", ok, err)
	}
	if _, err := s.Notes.Update(ctx, ada, model.Note{ID: "missing", Title: "x"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Notes.Update: expected ErrNotFound, got %v", err)
	}
	if ok, _ := s.Notes.Delete(ctx, ada, "missing"); ok {
		t.Error("Notes.Delete: expected false")
	}
	if _, err := s.Habits.MarkComplete(ctx, ada, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Habits.MarkComplete: expected ErrNotFound, got %v", err)
	}

	if !bytes.Equal(tasksBefore, f.raw(t, store.KeyTasks)) {
		t.Error("tasks changed after no-op")
	}
	if !bytes.Equal(notesBefore, f.raw(t, store.KeyNotes)) {
		t.Error("notes changed after no-op")
	}
	if !bytes.Equal(habitsBefore, f.raw(t, store.KeyHabits)) {
		t.Error("habits changed after no-op")
	}
}

func TestDeleteRemovesRecord(t *testing.T) {
	f := newFixture(t, Options{})
	e, _ := f.svc.Expenses.Add(ctx, ada, model.Expense{Description: "Taxi", Amount: 20, Category: "Transport"})

	ok, err := f.svc.Expenses.Delete(ctx, ada, e.ID)
	if err != nil || !ok {
		t.Fatalf("Delete = %v, %v; want true, nil", ok, err)
	}
	list, _ := f.svc.Expenses.List(ctx, ada)
	if len(list) != 0 {
		t.Errorf("expected no expenses, got %d", len(list))
	}
}

func TestToggleStatus(t *testing.T) {
	f := newFixture(t, Options{})
	s := f.svc.Tasks

	pending, _ := s.Add(ctx, ada, model.Task{Title: "Pending task"})
	got, _ := s.ToggleStatus(ctx, ada, pending.ID)
	if got.Status != model.TaskCompleted {
		t.Errorf("expected Completed after first toggle, got %s", got.Status)
	}
	got, _ = s.ToggleStatus(ctx, ada, pending.ID)
	if got.Status != model.TaskPending {
		t.Errorf("expected Pending after second toggle, got %s", got.Status)
	}

	inProgress, _ := s.Add(ctx, ada, model.Task{Title: "Busy", Status: model.TaskInProgress})
	got, _ = s.ToggleStatus(ctx, ada, inProgress.ID)
	if got.Status != model.TaskCompleted {
		t.Errorf("expected InProgress to toggle to Completed, got %s", got.Status)
	}
	got, _ = s.ToggleStatus(ctx, ada, inProgress.ID)
	if got.Status != model.TaskPending {
		t.Errorf("expected Completed to toggle to Pending, never back to InProgress; got %s", got.Status)
	}
}

func TestMarkCompleteSameDay(t *testing.T) {
	f := newFixture(t, Options{})
	h, _ := f.svc.Habits.Add(ctx, ada, model.Habit{Title: "Read"})

	got, err := f.svc.Habits.MarkComplete(ctx, ada, h.ID)
	if err != nil {
		t.Fatalf("first MarkComplete: %v", err)
	}
	if got.Streak != 1 {
		t.Errorf("expected streak 1, got %d", got.Streak)
	}
	stored := f.raw(t, store.KeyHabits)

	f.clock.Advance(3 * time.Hour)
	got, err = f.svc.Habits.MarkComplete(ctx, ada, h.ID)
	if !errors.Is(err, ErrAlreadyCompleted) {
		t.Fatalf("expected ErrAlreadyCompleted, got %v", err)
	}
	if got.Streak != 1 {
		t.Errorf("expected streak to stay 1, got %d", got.Streak)
	}
	if !bytes.Equal(stored, f.raw(t, store.KeyHabits)) {
		t.Error("expected no write for a repeated completion")
	}
}

func TestStreakPolicies(t *testing.T) {
	tests := []struct {
		name      string
		policy    StreakPolicy
		frequency model.Frequency
		gaps      []time.Duration
		want      int
	}{
		{"keep ignores missed day", StreakKeep, model.Daily, []time.Duration{24 * time.Hour, 48 * time.Hour}, 3},
		{"reset after missed day", StreakReset, model.Daily, []time.Duration{24 * time.Hour, 48 * time.Hour}, 1},
		{"reset keeps consecutive days", StreakReset, model.Daily, []time.Duration{24 * time.Hour, 24 * time.Hour}, 3},
		{"weekly within a week", StreakReset, model.Weekly, []time.Duration{6 * 24 * time.Hour}, 2},
		{"weekly missed week", StreakReset, model.Weekly, []time.Duration{9 * 24 * time.Hour}, 1},
		{"monthly next month", StreakReset, model.Monthly, []time.Duration{30 * 24 * time.Hour}, 2},
		{"monthly skipped month", StreakReset, model.Monthly, []time.Duration{62 * 24 * time.Hour}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, Options{StreakPolicy: tt.policy})
			h, _ := f.svc.Habits.Add(ctx, ada, model.Habit{Title: "Habit", Frequency: tt.frequency})
			if _, err := f.svc.Habits.MarkComplete(ctx, ada, h.ID); err != nil {
				t.Fatalf("MarkComplete: %v", err)
			}

			var got model.Habit
			for _, gap := range tt.gaps {
				f.clock.Advance(gap)
				var err error
				got, err = f.svc.Habits.MarkComplete(ctx, ada, h.ID)
				if err != nil {
					t.Fatalf("MarkComplete: %v", err)
				}
			}
			if got.Streak != tt.want {
				t.Errorf("expected streak %d, got %d", tt.want, got.Streak)
			}
		})
	}
}

func TestEventRejectsEndBeforeStart(t *testing.T) {
	f := newFixture(t, Options{})
	now := f.clock.Now()

	_, err := f.svc.Events.Add(ctx, ada, model.CalendarEvent{Title: "Backwards", Start: now, End: now.Add(-time.Minute)})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	e, err := f.svc.Events.Add(ctx, ada, model.CalendarEvent{Title: "Instant", Start: now, End: now})
	if err != nil {
		t.Fatalf("zero-length event should be accepted: %v", err)
	}
	e.End = now.Add(-time.Hour)
	if _, err := f.svc.Events.Update(ctx, ada, e); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput on update, got %v", err)
	}
}

func TestExpenseRejectsNegativeAmount(t *testing.T) {
	f := newFixture(t, Options{})
	_, err := f.svc.Expenses.Add(ctx, ada, model.Expense{Description: "Refund", Amount: -5, Category: "Food"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestLogFocusLevelDiscarded(t *testing.T) {
	f := newFixture(t, Options{})
	tests := []struct {
		name  string
		focus *int
		want  *int
	}{
		{"in range", intPtr(4), intPtr(4)},
		{"too high", intPtr(9), nil},
		{"too low", intPtr(0), nil},
		{"absent", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := f.svc.Logs.Add(ctx, ada, model.LogEntry{Activity: "Coding", FocusLevel: tt.focus})
			if err != nil {
				t.Fatalf("Add: %v", err)
			}
			switch {
			case tt.want == nil && e.FocusLevel != nil:
				t.Errorf("expected focus discarded, got %d", *e.FocusLevel)
			case tt.want != nil && (e.FocusLevel == nil || *e.FocusLevel != *tt.want):
				t.Errorf("expected focus %d, got %v", *tt.want, e.FocusLevel)
			}
		})
	}

	if _, err := f.svc.Logs.Add(ctx, ada, model.LogEntry{Activity: "x", Mood: "Elated"}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for unknown mood, got %v", err)
	}
}

func TestNoteUpdateBumpsUpdatedAtAndSorts(t *testing.T) {
	f := newFixture(t, Options{})
	first, _ := f.svc.Notes.Add(ctx, ada, model.Note{Title: "First"})
	f.clock.Advance(time.Minute)
	second, _ := f.svc.Notes.Add(ctx, ada, model.Note{Title: "Second"})

	f.clock.Advance(time.Minute)
	first.Content = "edited"
	updated, err := f.svc.Notes.Update(ctx, ada, first)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !updated.UpdatedAt.After(updated.CreatedAt) {
		t.Errorf("expected updatedAt to be bumped, got created %s updated %s", updated.CreatedAt, updated.UpdatedAt)
	}

	notes, _ := f.svc.Notes.List(ctx, ada)
	if notes[0].ID != first.ID || notes[1].ID != second.ID {
		t.Errorf("expected most recently updated first, got %s, %s", notes[0].Title, notes[1].Title)
	}
}

func TestUpdateMergesSuppliedFields(t *testing.T) {
	f := newFixture(t, Options{})
	s := f.svc
	now := f.clock.Now()
	due := now.Add(48 * time.Hour)

	tests := []struct {
		name  string
		check func(t *testing.T)
	}{
		{"note keeps content", func(t *testing.T) {
			n, _ := s.Notes.Add(ctx, ada, model.Note{Title: "a", Content: "keep me"})
			got, err := s.Notes.Update(ctx, ada, model.Note{ID: n.ID, Title: "b"})
			if err != nil || got.Title != "b" || got.Content != "keep me" {
				t.Errorf("got %+v, %v", got, err)
			}
		}},
		{"task keeps status and due date", func(t *testing.T) {
			tk, _ := s.Tasks.Add(ctx, ada, model.Task{Title: "t", Description: "d", DueDate: &due, Status: model.TaskInProgress})
			got, err := s.Tasks.Update(ctx, ada, model.Task{ID: tk.ID, Title: "t2"})
			if err != nil || got.Title != "t2" || got.Status != model.TaskInProgress || got.Description != "d" || got.DueDate == nil {
				t.Errorf("got %+v, %v", got, err)
			}
		}},
		{"event keeps times", func(t *testing.T) {
			e, _ := s.Events.Add(ctx, ada, model.CalendarEvent{Title: "e", Start: now, End: now.Add(time.Hour)})
			got, err := s.Events.Update(ctx, ada, model.CalendarEvent{ID: e.ID, Description: "room 4"})
			if err != nil || got.Title != "e" || !got.Start.Equal(now) || got.Description != "room 4" {
				t.Errorf("got %+v, %v", got, err)
			}
		}},
		{"expense keeps amount", func(t *testing.T) {
			e, _ := s.Expenses.Add(ctx, ada, model.Expense{Description: "Lunch", Amount: 12.5, Category: "Food"})
			got, err := s.Expenses.Update(ctx, ada, model.Expense{ID: e.ID, Category: "Dining"})
			if err != nil || got.Amount != 12.5 || got.Description != "Lunch" || got.Category != "Dining" {
				t.Errorf("got %+v, %v", got, err)
			}
		}},
		{"goal keeps status", func(t *testing.T) {
			g, _ := s.Goals.Add(ctx, ada, model.Goal{Title: "g", Status: model.GoalOnHold})
			got, err := s.Goals.Update(ctx, ada, model.Goal{ID: g.ID, Description: "why"})
			if err != nil || got.Status != model.GoalOnHold || got.Title != "g" || got.Description != "why" {
				t.Errorf("got %+v, %v", got, err)
			}
		}},
		{"habit keeps frequency", func(t *testing.T) {
			h, _ := s.Habits.Add(ctx, ada, model.Habit{Title: "h", Frequency: model.Weekly})
			got, err := s.Habits.Update(ctx, ada, model.Habit{ID: h.ID, Title: "h2"})
			if err != nil || got.Frequency != model.Weekly || got.Title != "h2" {
				t.Errorf("got %+v, %v", got, err)
			}
		}},
		{"reminder keeps date-time", func(t *testing.T) {
			r, _ := s.Reminders.Add(ctx, ada, model.Reminder{Title: "r", DateTime: due})
			got, err := s.Reminders.Update(ctx, ada, model.Reminder{ID: r.ID, Title: "r2"})
			if err != nil || !got.DateTime.Equal(due) || got.Title != "r2" {
				t.Errorf("got %+v, %v", got, err)
			}
		}},
		{"log keeps mood and focus", func(t *testing.T) {
			e, _ := s.Logs.Add(ctx, ada, model.LogEntry{Activity: "Coding", Mood: model.MoodCalm, FocusLevel: intPtr(3)})
			got, err := s.Logs.Update(ctx, ada, model.LogEntry{ID: e.ID, DiaryEntry: "good day"})
			if err != nil || got.Mood != model.MoodCalm || got.FocusLevel == nil || *got.FocusLevel != 3 || got.Activity != "Coding" {
				t.Errorf("got %+v, %v", got, err)
			}
		}},
		{"gratitude keeps text when blank", func(t *testing.T) {
			g, _ := s.Gratitude.Add(ctx, ada, model.GratitudeLog{Text: "sunshine"})
			got, err := s.Gratitude.Update(ctx, ada, model.GratitudeLog{ID: g.ID})
			if err != nil || got.Text != "sunshine" {
				t.Errorf("got %+v, %v", got, err)
			}
		}},
		{"reframing keeps negative thought", func(t *testing.T) {
			r, _ := s.Reframing.Add(ctx, ada, model.ReframingLog{NegativeThought: "I failed", PositiveReframing: "I learned"})
			got, err := s.Reframing.Update(ctx, ada, model.ReframingLog{ID: r.ID, PositiveReframing: "I grew"})
			if err != nil || got.NegativeThought != "I failed" || got.PositiveReframing != "I grew" {
				t.Errorf("got %+v, %v", got, err)
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, tt.check)
	}
}

func TestUpdateValidatesMergedRecord(t *testing.T) {
	f := newFixture(t, Options{})
	tk, _ := f.svc.Tasks.Add(ctx, ada, model.Task{Title: "t"})
	before := f.raw(t, store.KeyTasks)

	if _, err := f.svc.Tasks.Update(ctx, ada, model.Task{ID: tk.ID, Status: "Done"}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
	if !bytes.Equal(before, f.raw(t, store.KeyTasks)) {
		t.Error("tasks changed after rejected update")
	}
}

func TestGoalSetStatus(t *testing.T) {
	f := newFixture(t, Options{})
	g, _ := f.svc.Goals.Add(ctx, ada, model.Goal{Title: "Learn Go"})
	if g.Status != model.GoalNotStarted {
		t.Errorf("expected default NotStarted, got %s", g.Status)
	}
	got, err := f.svc.Goals.SetStatus(ctx, ada, g.ID, model.GoalAchieved)
	if err != nil || got.Status != model.GoalAchieved {
		t.Errorf("SetStatus = %s, %v", got.Status, err)
	}
	if _, err := f.svc.Goals.SetStatus(ctx, ada, g.ID, "Abandoned"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRemindersPastPolicy(t *testing.T) {
	for _, policy := range []PastReminderPolicy{PastHide, PastPurge} {
		t.Run(string(policy), func(t *testing.T) {
			f := newFixture(t, Options{PastPolicy: policy})
			now := f.clock.Now()
			s := f.svc.Reminders
			s.Add(ctx, ada, model.Reminder{Title: "Later", DateTime: now.Add(2 * time.Hour)})
			s.Add(ctx, ada, model.Reminder{Title: "Past", DateTime: now.Add(-time.Hour)})
			s.Add(ctx, ada, model.Reminder{Title: "Soon", DateTime: now.Add(time.Hour)})
			s.Add(ctx, ada, model.Reminder{Title: "Now", DateTime: now})

			upcoming, err := s.Upcoming(ctx, ada)
			if err != nil {
				t.Fatalf("Upcoming: %v", err)
			}
			if len(upcoming) != 3 {
				t.Fatalf("expected 3 upcoming, got %d", len(upcoming))
			}
			if upcoming[0].Title != "Now" || upcoming[1].Title != "Soon" || upcoming[2].Title != "Later" {
				t.Errorf("expected ascending order, got %s, %s, %s", upcoming[0].Title, upcoming[1].Title, upcoming[2].Title)
			}

			all, _ := s.List(ctx, ada)
			wantStored := 4
			if policy == PastPurge {
				wantStored = 3
			}
			if len(all) != wantStored {
				t.Errorf("expected %d stored reminders under %s, got %d", wantStored, policy, len(all))
			}
		})
	}
}

func TestInRangeQueries(t *testing.T) {
	f := newFixture(t, Options{})
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		f.svc.Expenses.Add(ctx, ada, model.Expense{Description: "x", Amount: 1, Category: "Misc", Date: base.AddDate(0, 0, i)})
	}

	got, err := f.svc.Expenses.InRange(ctx, ada, base.AddDate(0, 0, 1), base.AddDate(0, 0, 3))
	if err != nil {
		t.Fatalf("InRange: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 expenses, got %d", len(got))
	}
	if !got[0].Date.After(got[2].Date) {
		t.Error("expected most recent first")
	}
}

func TestScopesAreIsolated(t *testing.T) {
	f := newFixture(t, Options{})
	f.svc.Tasks.Add(ctx, ada, model.Task{Title: "Ada's"})

	bob, err := f.svc.Tasks.List(ctx, store.User("bob"))
	if err != nil {
		t.Fatalf("List(bob): %v", err)
	}
	if len(bob) != 0 {
		t.Errorf("expected bob to have no tasks, got %d", len(bob))
	}

	if _, err := f.svc.Tasks.List(ctx, store.User("")); !errors.Is(err, store.ErrInvalidScope) {
		t.Errorf("expected ErrInvalidScope, got %v", err)
	}
}
