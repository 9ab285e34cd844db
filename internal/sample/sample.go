// Package sample builds the demo dataset served in sample mode.
//
// All dates are relative to the clock at seeding time so the dataset always
// covers the last two weeks and every report has enough data to run.
package sample

import (
	"context"
	"fmt"
	"time"

	"github.com/swamp-dev/eunoia/internal/clock"
	"github.com/swamp-dev/eunoia/internal/model"
	"github.com/swamp-dev/eunoia/internal/store"
)

// Dataset is the full demo content, one slice per record kind.
type Dataset struct {
	Tasks     []model.Task
	Events    []model.CalendarEvent
	Expenses  []model.Expense
	Notes     []model.Note
	Goals     []model.Goal
	Habits    []model.Habit
	Reminders []model.Reminder
	Logs      []model.LogEntry
	Gratitude []model.GratitudeLog
	Reframing []model.ReframingLog
}

// Seeder returns a store.Seeder that writes Build(c.Now()) into the sample bucket.
func Seeder(c clock.Clock) store.Seeder {
	return func(ctx context.Context, b *store.Bucket) error {
		return Write(ctx, b, Build(c.Now()))
	}
}

// Write saves every slice of d under its storage key.
func Write(ctx context.Context, b *store.Bucket, d Dataset) error {
	writes := []struct {
		key  string
		save func() error
	}{
		{store.KeyTasks, func() error { return store.SaveList(ctx, b, store.KeyTasks, d.Tasks) }},
		{store.KeyCalendarEvents, func() error { return store.SaveList(ctx, b, store.KeyCalendarEvents, d.Events) }},
		{store.KeyExpenses, func() error { return store.SaveList(ctx, b, store.KeyExpenses, d.Expenses) }},
		{store.KeyNotes, func() error { return store.SaveList(ctx, b, store.KeyNotes, d.Notes) }},
		{store.KeyGoals, func() error { return store.SaveList(ctx, b, store.KeyGoals, d.Goals) }},
		{store.KeyHabits, func() error { return store.SaveList(ctx, b, store.KeyHabits, d.Habits) }},
		{store.KeyReminders, func() error { return store.SaveList(ctx, b, store.KeyReminders, d.Reminders) }},
		{store.KeyDailyLogs, func() error { return store.SaveList(ctx, b, store.KeyDailyLogs, d.Logs) }},
		{store.KeyGratitudeLogs, func() error { return store.SaveList(ctx, b, store.KeyGratitudeLogs, d.Gratitude) }},
		{store.KeyReframingLogs, func() error { return store.SaveList(ctx, b, store.KeyReframingLogs, d.Reframing) }},
	}
	for _, w := range writes {
		if err := w.save(); err != nil {
			return fmt.Errorf("writing sample %s: %w", w.key, err)
		}
	}
	return nil
}

// Build returns the demo dataset anchored at now.
func Build(now time.Time) Dataset {
	today := clock.StartOfDay(now)
	day := func(offset, hour, minute int) time.Time {
		return today.AddDate(0, 0, offset).Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
	}
	ptr := func(t time.Time) *time.Time { return &t }
	focus := func(v int) *int { return &v }

	return Dataset{
		Tasks: []model.Task{
			{ID: "sample-task-1", Title: "Finish quarterly report", Description: "Draft the numbers section", DueDate: ptr(day(1, 17, 0)), Status: model.TaskInProgress, CreatedAt: ptr(day(-6, 9, 0))},
			{ID: "sample-task-2", Title: "Book dentist appointment", DueDate: ptr(day(-2, 12, 0)), Status: model.TaskPending, CreatedAt: ptr(day(-8, 10, 0))},
			{ID: "sample-task-3", Title: "Review pull requests", Status: model.TaskCompleted, DueDate: ptr(day(-1, 18, 0)), CreatedAt: ptr(day(-3, 9, 30))},
			{ID: "sample-task-4", Title: "Plan weekend hike", Status: model.TaskPending, DueDate: ptr(day(4, 9, 0)), CreatedAt: ptr(day(-2, 20, 0))},
			{ID: "sample-task-5", Title: "Renew library books", Status: model.TaskCompleted, DueDate: ptr(day(-4, 12, 0)), CreatedAt: ptr(day(-10, 8, 0))},
			{ID: "sample-task-6", Title: "Call the bank", Status: model.TaskPending, DueDate: ptr(day(-5, 15, 0)), CreatedAt: ptr(day(-9, 11, 0))},
		},
		Events: []model.CalendarEvent{
			{ID: "sample-event-1", Title: "Team standup", Start: day(0, 9, 30), End: day(0, 9, 45)},
			{ID: "sample-event-2", Title: "Design review", Start: day(-1, 14, 0), End: day(-1, 15, 0), Description: "New onboarding flow"},
			{ID: "sample-event-3", Title: "Yoga class", Start: day(-2, 18, 30), End: day(-2, 19, 30)},
			{ID: "sample-event-4", Title: "1:1 with manager", Start: day(-3, 11, 0), End: day(-3, 11, 30)},
			{ID: "sample-event-5", Title: "Dinner with friends", Start: day(-5, 19, 0), End: day(-5, 21, 30)},
			{ID: "sample-event-6", Title: "Sprint planning", Start: day(2, 10, 0), End: day(2, 11, 30)},
		},
		Expenses: []model.Expense{
			{ID: "sample-expense-1", Description: "Groceries", Amount: 54.20, Date: day(0, 18, 0), Category: "Food"},
			{ID: "sample-expense-2", Description: "Metro card top-up", Amount: 30.00, Date: day(-1, 8, 0), Category: "Transport"},
			{ID: "sample-expense-3", Description: "Lunch with team", Amount: 18.75, Date: day(-2, 13, 0), Category: "Food"},
			{ID: "sample-expense-4", Description: "Streaming subscription", Amount: 12.99, Date: day(-3, 7, 0), Category: "Entertainment"},
			{ID: "sample-expense-5", Description: "Taxi home", Amount: 22.40, Date: day(-4, 23, 0), Category: "Transport"},
			{ID: "sample-expense-6", Description: "Coffee beans", Amount: 16.50, Date: day(-5, 10, 0), Category: "Food"},
			{ID: "sample-expense-7", Description: "Electricity bill", Amount: 68.10, Date: day(-6, 9, 0), Category: "Utilities"},
			{ID: "sample-expense-8", Description: "Paperback novel", Amount: 14.00, Date: day(-9, 16, 0), Category: "Books"},
		},
		Notes: []model.Note{
			{ID: "sample-note-1", Title: "Project ideas", Content: "Habit tracker widget; budget export to CSV.", CreatedAt: day(-7, 21, 0), UpdatedAt: day(-1, 22, 0)},
			{ID: "sample-note-2", Title: "Books to read", Content: "Deep Work, Atomic Habits, The Overstory.", CreatedAt: day(-12, 20, 0), UpdatedAt: day(-12, 20, 0)},
		},
		Goals: []model.Goal{
			{ID: "sample-goal-1", Title: "Run a 10k", Description: "Three runs a week", Status: model.GoalInProgress, TargetDate: ptr(day(60, 0, 0)), CreatedAt: day(-30, 9, 0), UpdatedAt: day(-2, 9, 0)},
			{ID: "sample-goal-2", Title: "Save an emergency fund", Status: model.GoalNotStarted, TargetDate: ptr(day(180, 0, 0)), CreatedAt: day(-14, 9, 0), UpdatedAt: day(-14, 9, 0)},
		},
		Habits: []model.Habit{
			{ID: "sample-habit-1", Title: "Meditate 10 minutes", Frequency: model.Daily, Streak: 4, LastCompleted: ptr(day(-1, 7, 30)), CreatedAt: day(-20, 7, 0), UpdatedAt: day(-1, 7, 30)},
			{ID: "sample-habit-2", Title: "Weekly review", Frequency: model.Weekly, Streak: 2, LastCompleted: ptr(day(-6, 19, 0)), CreatedAt: day(-21, 19, 0), UpdatedAt: day(-6, 19, 0)},
			{ID: "sample-habit-3", Title: "Drink water", Frequency: model.Daily, CreatedAt: day(-3, 8, 0), UpdatedAt: day(-3, 8, 0)},
		},
		Reminders: []model.Reminder{
			{ID: "sample-reminder-1", Title: "Pay rent", DateTime: day(3, 9, 0)},
			{ID: "sample-reminder-2", Title: "Water the plants", DateTime: day(1, 8, 0), Description: "Balcony and kitchen"},
			{ID: "sample-reminder-3", Title: "Submit expense report", DateTime: day(-1, 17, 0)},
		},
		Logs: []model.LogEntry{
			{ID: "sample-log-1", Date: day(0, 12, 0), Activity: "Deep work on report", Mood: model.MoodProductive, FocusLevel: focus(4), DiaryEntry: "Got the numbers section done. Feeling proud of the progress."},
			{ID: "sample-log-2", Date: day(-1, 20, 0), Activity: "Design review", Mood: model.MoodStressed, FocusLevel: focus(3), DiaryEntry: "Long meeting, a bit overwhelmed by the feedback list."},
			{ID: "sample-log-3", Date: day(-2, 21, 0), Activity: "Yoga", Mood: model.MoodCalm, FocusLevel: focus(4), Notes: "Evening class"},
			{ID: "sample-log-4", Date: day(-3, 19, 0), Activity: "Catching up on email", Mood: model.MoodTired, FocusLevel: focus(2), DiaryEntry: "Tired after a late night. Inbox felt endless."},
			{ID: "sample-log-5", Date: day(-4, 18, 0), Activity: "Pairing session", Mood: model.MoodHappy, FocusLevel: focus(5), DiaryEntry: "Great session, grateful for a patient teammate."},
			{ID: "sample-log-6", Date: day(-5, 22, 0), Activity: "Dinner with friends", Mood: model.MoodExcited, DiaryEntry: "Lovely evening, happy to reconnect."},
			{ID: "sample-log-7", Date: day(-6, 17, 0), Activity: "Bills and admin", Mood: model.MoodAnxious, FocusLevel: focus(2), DiaryEntry: "Anxious about the electricity bill going up."},
			{ID: "sample-log-8", Date: day(-8, 16, 0), Activity: "Reading", Mood: model.MoodNeutral, FocusLevel: focus(3)},
		},
		Gratitude: []model.GratitudeLog{
			{ID: "sample-gratitude-1", Timestamp: day(0, 7, 45), Text: "A quiet morning coffee."},
			{ID: "sample-gratitude-2", Timestamp: day(-2, 22, 0), Text: "My yoga instructor's patience."},
			{ID: "sample-gratitude-3", Timestamp: day(-5, 23, 0), Text: "Friends who make time for me."},
		},
		Reframing: []model.ReframingLog{
			{ID: "sample-reframing-1", Timestamp: day(-1, 21, 0), NegativeThought: "The review showed my design is bad.", PositiveReframing: "The review gave me a clear list of improvements."},
			{ID: "sample-reframing-2", Timestamp: day(-6, 18, 0), NegativeThought: "I can't keep up with bills.", PositiveReframing: "I noticed the increase early and can plan for it."},
		},
	}
}
