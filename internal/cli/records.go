package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/swamp-dev/eunoia/internal/model"
)

const dateLayout = "2006-01-02"

// withApp opens the app for the duration of fn.
func withApp(fn func(ctx context.Context, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(ctx, a, args)
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// parseTime accepts RFC 3339 timestamps, "2006-01-02 15:04" and plain dates in local time.
func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range []string{"2006-01-02 15:04", dateLayout} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q (use YYYY-MM-DD, \"YYYY-MM-DD HH:MM\" or RFC 3339)", s)
}

func optionalTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := parseTime(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// listCmd builds a "list" subcommand that prints items as JSON or one line each.
func listCmd[T any](short string, list func(context.Context, *app) ([]T, error), line func(T) string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: short,
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app, _ []string) error {
			items, err := list(ctx, a)
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(items)
			}
			if len(items) == 0 {
				fmt.Println("Nothing recorded yet.")
				return nil
			}
			for _, it := range items {
				fmt.Println(line(it))
			}
			return nil
		}),
	}
}

func deleteCmd(kind string, del func(context.Context, *app, string) (bool, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a " + kind,
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			found, err := del(ctx, a, args[0])
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("%s %s not found", kind, args[0])
			}
			fmt.Printf("✓ Deleted %s %s\n", kind, args[0])
			return nil
		}),
	}
}

func printCreated(kind, id string, v any) error {
	if jsonOut {
		return printJSON(v)
	}
	fmt.Printf("✓ Added %s %s\n", kind, id)
	return nil
}

func addRecordCommands(root *cobra.Command) {
	root.AddCommand(
		tasksCmd(),
		eventsCmd(),
		expensesCmd(),
		notesCmd(),
		goalsCmd(),
		habitsCmd(),
		remindersCmd(),
		logsCmd(),
		gratitudeCmd(),
		reframingCmd(),
	)
}

func tasksCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "tasks", Short: "Manage tasks"}

	var due, desc string
	add := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			dueDate, err := optionalTime(due)
			if err != nil {
				return err
			}
			t, err := a.records.Tasks.Add(ctx, a.scope(), model.Task{
				Title:       strings.Join(args, " "),
				Description: desc,
				DueDate:     dueDate,
			})
			if err != nil {
				return err
			}
			return printCreated("task", t.ID, t)
		}),
	}
	add.Flags().StringVar(&due, "due", "", "due date")
	add.Flags().StringVarP(&desc, "description", "d", "", "description")

	toggle := &cobra.Command{
		Use:   "toggle <id>",
		Short: "Flip a task between Pending and Completed",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			t, err := a.records.Tasks.ToggleStatus(ctx, a.scope(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%s %s is now %s\n", statusIcon(t.Status), t.Title, t.Status)
			return nil
		}),
	}

	cmd.AddCommand(add, toggle,
		listCmd("List tasks", func(ctx context.Context, a *app) ([]model.Task, error) {
			return a.records.Tasks.List(ctx, a.scope())
		}, func(t model.Task) string {
			line := fmt.Sprintf("%s %-36s %s", statusIcon(t.Status), t.ID, truncate(t.Title, 50))
			if t.DueDate != nil {
				line += "  due " + t.DueDate.Local().Format(dateLayout)
			}
			return line
		}),
		deleteCmd("task", func(ctx context.Context, a *app, id string) (bool, error) {
			return a.records.Tasks.Delete(ctx, a.scope(), id)
		}),
	)
	return cmd
}

func eventsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "events", Short: "Manage calendar events"}

	var start, end, desc string
	add := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a calendar event",
		Args:  cobra.MinimumNArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			s, err := parseTime(start)
			if err != nil {
				return err
			}
			e := s.Add(time.Hour)
			if end != "" {
				if e, err = parseTime(end); err != nil {
					return err
				}
			}
			ev, err := a.records.Events.Add(ctx, a.scope(), model.CalendarEvent{
				Title:       strings.Join(args, " "),
				Start:       s,
				End:         e,
				Description: desc,
			})
			if err != nil {
				return err
			}
			return printCreated("event", ev.ID, ev)
		}),
	}
	add.Flags().StringVar(&start, "start", "", "start time (required)")
	add.Flags().StringVar(&end, "end", "", "end time (default start + 1h)")
	add.Flags().StringVarP(&desc, "description", "d", "", "description")
	_ = add.MarkFlagRequired("start")

	cmd.AddCommand(add,
		listCmd("List calendar events", func(ctx context.Context, a *app) ([]model.CalendarEvent, error) {
			return a.records.Events.List(ctx, a.scope())
		}, func(e model.CalendarEvent) string {
			return fmt.Sprintf("%s-%s  %s",
				e.Start.Local().Format("2006-01-02 15:04"), e.End.Local().Format("15:04"), truncate(e.Title, 50))
		}),
		deleteCmd("event", func(ctx context.Context, a *app, id string) (bool, error) {
			return a.records.Events.Delete(ctx, a.scope(), id)
		}),
	)
	return cmd
}

func expensesCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "expenses", Short: "Manage expenses"}

	var amount float64
	var category, date string
	add := &cobra.Command{
		Use:   "add <description>",
		Short: "Record an expense",
		Args:  cobra.MinimumNArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			when := time.Now()
			if date != "" {
				var err error
				if when, err = parseTime(date); err != nil {
					return err
				}
			}
			e, err := a.records.Expenses.Add(ctx, a.scope(), model.Expense{
				Description: strings.Join(args, " "),
				Amount:      amount,
				Date:        when,
				Category:    category,
			})
			if err != nil {
				return err
			}
			return printCreated("expense", e.ID, e)
		}),
	}
	add.Flags().Float64VarP(&amount, "amount", "a", 0, "amount spent (required)")
	add.Flags().StringVarP(&category, "category", "c", "Other", "category")
	add.Flags().StringVar(&date, "date", "", "date (default now)")
	_ = add.MarkFlagRequired("amount")

	cmd.AddCommand(add,
		listCmd("List expenses", func(ctx context.Context, a *app) ([]model.Expense, error) {
			return a.records.Expenses.List(ctx, a.scope())
		}, func(e model.Expense) string {
			return fmt.Sprintf("%s  %10.2f  %-14s %s",
				e.Date.Local().Format(dateLayout), e.Amount, truncate(e.Category, 14), truncate(e.Description, 40))
		}),
		deleteCmd("expense", func(ctx context.Context, a *app, id string) (bool, error) {
			return a.records.Expenses.Delete(ctx, a.scope(), id)
		}),
	)
	return cmd
}

func notesCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "notes", Short: "Manage notes"}

	var content string
	add := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a note",
		Args:  cobra.MinimumNArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			n, err := a.records.Notes.Add(ctx, a.scope(), model.Note{Title: strings.Join(args, " "), Content: content})
			if err != nil {
				return err
			}
			return printCreated("note", n.ID, n)
		}),
	}
	add.Flags().StringVar(&content, "content", "", "note body")

	cmd.AddCommand(add,
		listCmd("List notes, most recently updated first", func(ctx context.Context, a *app) ([]model.Note, error) {
			return a.records.Notes.List(ctx, a.scope())
		}, func(n model.Note) string {
			return fmt.Sprintf("%s  %s", n.UpdatedAt.Local().Format(dateLayout), truncate(n.Title, 60))
		}),
		deleteCmd("note", func(ctx context.Context, a *app, id string) (bool, error) {
			return a.records.Notes.Delete(ctx, a.scope(), id)
		}),
	)
	return cmd
}

func goalsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "goals", Short: "Manage goals"}

	var target, desc string
	add := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a goal",
		Args:  cobra.MinimumNArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			targetDate, err := optionalTime(target)
			if err != nil {
				return err
			}
			g, err := a.records.Goals.Add(ctx, a.scope(), model.Goal{
				Title:       strings.Join(args, " "),
				Description: desc,
				TargetDate:  targetDate,
			})
			if err != nil {
				return err
			}
			return printCreated("goal", g.ID, g)
		}),
	}
	add.Flags().StringVar(&target, "target", "", "target date")
	add.Flags().StringVarP(&desc, "description", "d", "", "description")

	status := &cobra.Command{
		Use:       "status <id> <NotStarted|InProgress|Achieved|OnHold>",
		Short:     "Set a goal's status",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{string(model.GoalNotStarted), string(model.GoalInProgress), string(model.GoalAchieved), string(model.GoalOnHold)},
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			g, err := a.records.Goals.SetStatus(ctx, a.scope(), args[0], model.GoalStatus(args[1]))
			if err != nil {
				return err
			}
			fmt.Printf("✓ %s is now %s\n", g.Title, g.Status)
			return nil
		}),
	}

	cmd.AddCommand(add, status,
		listCmd("List goals", func(ctx context.Context, a *app) ([]model.Goal, error) {
			return a.records.Goals.List(ctx, a.scope())
		}, func(g model.Goal) string {
			return fmt.Sprintf("%-12s %-36s %s", g.Status, g.ID, truncate(g.Title, 40))
		}),
		deleteCmd("goal", func(ctx context.Context, a *app, id string) (bool, error) {
			return a.records.Goals.Delete(ctx, a.scope(), id)
		}),
	)
	return cmd
}

func habitsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "habits", Short: "Manage habits"}

	var frequency string
	add := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a habit",
		Args:  cobra.MinimumNArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			h, err := a.records.Habits.Add(ctx, a.scope(), model.Habit{
				Title:     strings.Join(args, " "),
				Frequency: model.Frequency(frequency),
			})
			if err != nil {
				return err
			}
			return printCreated("habit", h.ID, h)
		}),
	}
	add.Flags().StringVar(&frequency, "frequency", string(model.Daily), "Daily, Weekly or Monthly")

	complete := &cobra.Command{
		Use:   "complete <id>",
		Short: "Mark a habit done for today",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			h, err := a.records.Habits.MarkComplete(ctx, a.scope(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("✓ %s: streak %d\n", h.Title, h.Streak)
			return nil
		}),
	}

	cmd.AddCommand(add, complete,
		listCmd("List habits", func(ctx context.Context, a *app) ([]model.Habit, error) {
			return a.records.Habits.List(ctx, a.scope())
		}, func(h model.Habit) string {
			return fmt.Sprintf("%-8s %3d  %-36s %s", h.Frequency, h.Streak, h.ID, truncate(h.Title, 40))
		}),
		deleteCmd("habit", func(ctx context.Context, a *app, id string) (bool, error) {
			return a.records.Habits.Delete(ctx, a.scope(), id)
		}),
	)
	return cmd
}

func remindersCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "reminders", Short: "Manage reminders"}

	var at, desc string
	add := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a reminder",
		Args:  cobra.MinimumNArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			when, err := parseTime(at)
			if err != nil {
				return err
			}
			r, err := a.records.Reminders.Add(ctx, a.scope(), model.Reminder{
				Title:       strings.Join(args, " "),
				DateTime:    when,
				Description: desc,
			})
			if err != nil {
				return err
			}
			return printCreated("reminder", r.ID, r)
		}),
	}
	add.Flags().StringVar(&at, "at", "", "reminder time (required)")
	add.Flags().StringVarP(&desc, "description", "d", "", "description")
	_ = add.MarkFlagRequired("at")

	line := func(r model.Reminder) string {
		return fmt.Sprintf("%s  %s", r.DateTime.Local().Format("2006-01-02 15:04"), truncate(r.Title, 60))
	}
	upcoming := listCmd("List reminders that are still ahead", func(ctx context.Context, a *app) ([]model.Reminder, error) {
		return a.records.Reminders.Upcoming(ctx, a.scope())
	}, line)
	upcoming.Use = "upcoming"

	cmd.AddCommand(add, upcoming,
		listCmd("List all stored reminders", func(ctx context.Context, a *app) ([]model.Reminder, error) {
			return a.records.Reminders.List(ctx, a.scope())
		}, line),
		deleteCmd("reminder", func(ctx context.Context, a *app, id string) (bool, error) {
			return a.records.Reminders.Delete(ctx, a.scope(), id)
		}),
	)
	return cmd
}

func logsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "logs", Short: "Manage daily logs and diary entries"}

	var mood, notes, diary, date string
	var focus int
	add := &cobra.Command{
		Use:   "add <activity>",
		Short: "Add a daily log entry",
		Args:  cobra.MinimumNArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			entry := model.LogEntry{
				Activity:   strings.Join(args, " "),
				Mood:       model.Mood(mood),
				Notes:      notes,
				DiaryEntry: diary,
			}
			if date != "" {
				when, err := parseTime(date)
				if err != nil {
					return err
				}
				entry.Date = when
			}
			if focus != 0 {
				entry.FocusLevel = &focus
			}
			e, err := a.records.Logs.Add(ctx, a.scope(), entry)
			if err != nil {
				return err
			}
			return printCreated("log", e.ID, e)
		}),
	}
	add.Flags().StringVarP(&mood, "mood", "m", "", "mood label, e.g. Happy or Stressed")
	add.Flags().IntVar(&focus, "focus", 0, "focus level 1-5")
	add.Flags().StringVar(&notes, "notes", "", "short notes")
	add.Flags().StringVar(&diary, "diary", "", "diary entry")
	add.Flags().StringVar(&date, "date", "", "date (default now)")

	cmd.AddCommand(add,
		listCmd("List log entries", func(ctx context.Context, a *app) ([]model.LogEntry, error) {
			return a.records.Logs.List(ctx, a.scope())
		}, func(e model.LogEntry) string {
			mood := string(e.Mood)
			if mood == "" {
				mood = "-"
			}
			return fmt.Sprintf("%s  %-10s %s", e.Date.Local().Format(dateLayout), mood, truncate(e.Activity, 50))
		}),
		deleteCmd("log", func(ctx context.Context, a *app, id string) (bool, error) {
			return a.records.Logs.Delete(ctx, a.scope(), id)
		}),
	)
	return cmd
}

func gratitudeCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "gratitude", Short: "Manage gratitude entries"}

	add := &cobra.Command{
		Use:   "add <text>",
		Short: "Write a gratitude entry",
		Args:  cobra.MinimumNArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			g, err := a.records.Gratitude.Add(ctx, a.scope(), model.GratitudeLog{Text: strings.Join(args, " ")})
			if err != nil {
				return err
			}
			return printCreated("gratitude entry", g.ID, g)
		}),
	}

	cmd.AddCommand(add,
		listCmd("List gratitude entries", func(ctx context.Context, a *app) ([]model.GratitudeLog, error) {
			return a.records.Gratitude.List(ctx, a.scope())
		}, func(g model.GratitudeLog) string {
			return fmt.Sprintf("%s  %s", g.Timestamp.Local().Format(dateLayout), truncate(g.Text, 60))
		}),
		deleteCmd("gratitude entry", func(ctx context.Context, a *app, id string) (bool, error) {
			return a.records.Gratitude.Delete(ctx, a.scope(), id)
		}),
	)
	return cmd
}

func reframingCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "reframing", Short: "Manage thought reframing entries"}

	var reframe string
	add := &cobra.Command{
		Use:   "add <negative thought>",
		Short: "Write a reframing entry",
		Args:  cobra.MinimumNArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			r, err := a.records.Reframing.Add(ctx, a.scope(), model.ReframingLog{
				NegativeThought:   strings.Join(args, " "),
				PositiveReframing: reframe,
			})
			if err != nil {
				return err
			}
			return printCreated("reframing entry", r.ID, r)
		}),
	}
	add.Flags().StringVar(&reframe, "reframe", "", "the positive reframing (required)")
	_ = add.MarkFlagRequired("reframe")

	cmd.AddCommand(add,
		listCmd("List reframing entries", func(ctx context.Context, a *app) ([]model.ReframingLog, error) {
			return a.records.Reframing.List(ctx, a.scope())
		}, func(r model.ReframingLog) string {
			return fmt.Sprintf("%s  %s -> %s", r.Timestamp.Local().Format(dateLayout),
				truncate(r.NegativeThought, 30), truncate(r.PositiveReframing, 30))
		}),
		deleteCmd("reframing entry", func(ctx context.Context, a *app, id string) (bool, error) {
			return a.records.Reframing.Delete(ctx, a.scope(), id)
		}),
	)
	return cmd
}
