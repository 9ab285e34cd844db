// Package model defines the record kinds tracked by eunoia.
package model

import "time"

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

const (
	TaskPending    TaskStatus = "Pending"
	TaskInProgress TaskStatus = "InProgress"
	TaskCompleted  TaskStatus = "Completed"
)

// Valid reports whether s is a known task status.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskPending, TaskInProgress, TaskCompleted:
		return true
	}
	return false
}

// Task is a to-do item.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Status      TaskStatus `json:"status"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
}

// Overdue reports whether the task is unfinished and past its due date.
func (t *Task) Overdue(now time.Time) bool {
	return t.Status != TaskCompleted && t.DueDate != nil && t.DueDate.Before(now)
}

// CalendarEvent is a scheduled block of time.
type CalendarEvent struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Description string    `json:"description,omitempty"`
}

// Expense is a single spending record.
type Expense struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Date        time.Time `json:"date"`
	Category    string    `json:"category"`
}

// Note is a free-form text note.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// GoalStatus represents the progress state of a goal.
type GoalStatus string

const (
	GoalNotStarted GoalStatus = "NotStarted"
	GoalInProgress GoalStatus = "InProgress"
	GoalAchieved   GoalStatus = "Achieved"
	GoalOnHold     GoalStatus = "OnHold"
)

// Valid reports whether s is a known goal status.
func (s GoalStatus) Valid() bool {
	switch s {
	case GoalNotStarted, GoalInProgress, GoalAchieved, GoalOnHold:
		return true
	}
	return false
}

// Goal is a longer-term objective.
type Goal struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      GoalStatus `json:"status"`
	TargetDate  *time.Time `json:"targetDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Frequency is how often a habit is meant to be performed.
type Frequency string

const (
	Daily   Frequency = "Daily"
	Weekly  Frequency = "Weekly"
	Monthly Frequency = "Monthly"
)

// Valid reports whether f is a known frequency.
func (f Frequency) Valid() bool {
	switch f {
	case Daily, Weekly, Monthly:
		return true
	}
	return false
}

// Habit is a recurring practice with a completion streak.
type Habit struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Frequency     Frequency  `json:"frequency"`
	Streak        int        `json:"streak"`
	LastCompleted *time.Time `json:"lastCompleted,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// Reminder is a dated prompt for the user.
type Reminder struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	DateTime    time.Time `json:"dateTime"`
	Description string    `json:"description,omitempty"`
}

// Mood is one of a fixed set of mood labels.
type Mood string

const (
	MoodHappy      Mood = "Happy"
	MoodExcited    Mood = "Excited"
	MoodGrateful   Mood = "Grateful"
	MoodCalm       Mood = "Calm"
	MoodProductive Mood = "Productive"
	MoodNeutral    Mood = "Neutral"
	MoodTired      Mood = "Tired"
	MoodSad        Mood = "Sad"
	MoodAnxious    Mood = "Anxious"
	MoodStressed   Mood = "Stressed"
	MoodAngry      Mood = "Angry"
)

// Moods lists every mood label in display order.
var Moods = []Mood{
	MoodHappy, MoodExcited, MoodGrateful, MoodCalm, MoodProductive, MoodNeutral,
	MoodTired, MoodSad, MoodAnxious, MoodStressed, MoodAngry,
}

// Valid reports whether m is a known mood.
func (m Mood) Valid() bool {
	for _, known := range Moods {
		if m == known {
			return true
		}
	}
	return false
}

// Negative reports whether m counts toward the negative-mood ratio.
func (m Mood) Negative() bool {
	switch m {
	case MoodTired, MoodSad, MoodAnxious, MoodStressed, MoodAngry:
		return true
	}
	return false
}

const (
	MinFocusLevel = 1
	MaxFocusLevel = 5
)

// LogEntry is a daily log / diary record.
type LogEntry struct {
	ID         string    `json:"id"`
	Date       time.Time `json:"date"`
	Activity   string    `json:"activity"`
	Mood       Mood      `json:"mood,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	DiaryEntry string    `json:"diaryEntry,omitempty"`
	FocusLevel *int      `json:"focusLevel,omitempty"`
}

// NormalizeFocus discards an out-of-range focus level.
func (e *LogEntry) NormalizeFocus() {
	if e.FocusLevel != nil && (*e.FocusLevel < MinFocusLevel || *e.FocusLevel > MaxFocusLevel) {
		e.FocusLevel = nil
	}
}

// GratitudeLog is a gratitude exercise entry.
type GratitudeLog struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Text      string    `json:"text"`
}

// ReframingLog is a cognitive reframing exercise entry.
type ReframingLog struct {
	ID                string    `json:"id"`
	Timestamp         time.Time `json:"timestamp"`
	NegativeThought   string    `json:"negativeThought"`
	PositiveReframing string    `json:"positiveReframing"`
}
