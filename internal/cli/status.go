package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/swamp-dev/eunoia/internal/clock"
	"github.com/swamp-dev/eunoia/internal/model"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show today's overview",
	Long: `Status displays an overview of the current scope.

It shows:
- Task completion percentage and counts
- Habit streaks and whether each was done today
- Upcoming reminders

Examples:
  eunoia status
  eunoia status --mode sample
  eunoia status --json`,
	RunE: runStatus,
}

// overview is the data behind the status screen.
type overview struct {
	Scope      string           `json:"scope"`
	Tasks      taskCounts       `json:"tasks"`
	Habits     []model.Habit    `json:"habits"`
	DoneToday  map[string]bool  `json:"doneToday"`
	Reminders  []model.Reminder `json:"upcomingReminders"`
	Completion float64          `json:"completion"`
}

type taskCounts struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	InProgress int `json:"inProgress"`
	Pending    int `json:"pending"`
	Overdue    int `json:"overdue"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	scope := a.scope()
	tasks, err := a.records.Tasks.List(ctx, scope)
	if err != nil {
		return err
	}
	habits, err := a.records.Habits.List(ctx, scope)
	if err != nil {
		return err
	}
	reminders, err := a.records.Reminders.Upcoming(ctx, scope)
	if err != nil {
		return err
	}

	ov := buildOverview(tasks, habits, reminders, clock.System{})
	ov.Scope = scope.Namespace()

	if jsonOut {
		return printJSON(ov)
	}
	printStatusText(ov)
	return nil
}

func buildOverview(tasks []model.Task, habits []model.Habit, reminders []model.Reminder, c clock.Clock) overview {
	now := c.Now()
	ov := overview{Habits: habits, DoneToday: make(map[string]bool, len(habits)), Reminders: reminders}
	for i := range tasks {
		ov.Tasks.Total++
		switch tasks[i].Status {
		case model.TaskCompleted:
			ov.Tasks.Completed++
		case model.TaskInProgress:
			ov.Tasks.InProgress++
		default:
			ov.Tasks.Pending++
		}
		if tasks[i].Overdue(now) {
			ov.Tasks.Overdue++
		}
	}
	if ov.Tasks.Total > 0 {
		ov.Completion = 100 * float64(ov.Tasks.Completed) / float64(ov.Tasks.Total)
	}
	for _, h := range habits {
		ov.DoneToday[h.ID] = h.LastCompleted != nil && clock.SameDay(*h.LastCompleted, now)
	}
	return ov
}

func printStatusText(ov overview) {
	fmt.Printf("╔══════════════════════════════════════════════════════════════╗\n")
	fmt.Printf("║  EUNOIA STATUS                                               ║\n")
	fmt.Printf("╠══════════════════════════════════════════════════════════════╣\n")
	fmt.Printf("║  Scope: %-53s ║\n", ov.Scope)
	fmt.Printf("╠══════════════════════════════════════════════════════════════╣\n")

	progressBar := renderProgressBar(ov.Completion, 40)
	fmt.Printf("║  Tasks: %s %5.1f%%    ║\n", progressBar, ov.Completion)
	fmt.Printf("║    ✓ Completed:   %3d                                        ║\n", ov.Tasks.Completed)
	fmt.Printf("║    ▶ In Progress: %3d                                        ║\n", ov.Tasks.InProgress)
	fmt.Printf("║    ○ Pending:     %3d                                        ║\n", ov.Tasks.Pending)
	fmt.Printf("║    ! Overdue:     %3d                                        ║\n", ov.Tasks.Overdue)
	fmt.Printf("╠══════════════════════════════════════════════════════════════╣\n")

	if len(ov.Habits) > 0 {
		fmt.Printf("║  Habits:                                                     ║\n")
		for _, h := range ov.Habits {
			icon := "○"
			if ov.DoneToday[h.ID] {
				icon = "✓"
			}
			fmt.Printf("║    %s %-44s %3d day(s)  ║\n", icon, truncate(h.Title, 44), h.Streak)
		}
	} else {
		fmt.Printf("║  No habits yet. Run 'eunoia habits add' to create one.       ║\n")
	}

	fmt.Printf("╠══════════════════════════════════════════════════════════════╣\n")

	if len(ov.Reminders) > 0 {
		fmt.Printf("║  Upcoming:                                                   ║\n")
		for i, r := range ov.Reminders {
			if i == 5 {
				break
			}
			when := r.DateTime.Local().Format("Jan 02 15:04")
			fmt.Printf("║    %s  %-42s ║\n", when, truncate(r.Title, 42))
		}
	} else {
		fmt.Printf("║  No upcoming reminders.                                      ║\n")
	}

	fmt.Printf("╚══════════════════════════════════════════════════════════════╝\n")
}

func renderProgressBar(percent float64, width int) string {
	filled := int(percent / 100.0 * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return "[" + bar + "]"
}

func statusIcon(status model.TaskStatus) string {
	switch status {
	case model.TaskCompleted:
		return "✓"
	case model.TaskInProgress:
		return "▶"
	default:
		return "○"
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
