package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/swamp-dev/eunoia/internal/aggregate"
	"github.com/swamp-dev/eunoia/internal/gateway"
	"github.com/swamp-dev/eunoia/internal/model"
)

// MinProductivityPoints is the fewest tasks, events and logs analysed together.
const MinProductivityPoints = 5

// WeekdayCount is the activity recorded on one weekday.
type WeekdayCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// ProductivityInput is the aggregate sent to the model.
type ProductivityInput struct {
	StartDate         string         `json:"startDate"`
	EndDate           string         `json:"endDate"`
	Days              int            `json:"days"`
	TasksTotal        int            `json:"tasksTotal"`
	TasksCompleted    int            `json:"tasksCompleted"`
	TasksOverdue      int            `json:"tasksOverdue"`
	CompletionRate    float64        `json:"completionRate"`
	EventsCount       int            `json:"eventsCount"`
	EventsPerDay      float64        `json:"eventsPerDay"`
	AvgFocus          float64        `json:"avgFocus"`
	FocusSamples      int            `json:"focusSamples"`
	ActivityByWeekday []WeekdayCount `json:"activityByWeekday"`
	Points            int            `json:"points"`
}

// ProductivityReport describes work patterns over a window.
type ProductivityReport struct {
	ProductivityScore int      `json:"productivityScore"`
	Summary           string   `json:"summary"`
	PeakDays          []string `json:"peakDays"`
	Patterns          []string `json:"patterns"`
	Recommendations   []string `json:"recommendations"`
	Source            Source   `json:"source"`
}

// ProductivitySchema is the reply shape requested from the model.
var ProductivitySchema = gateway.Schema{Fields: []gateway.Field{
	{Name: "productivityScore", Type: gateway.TypeInteger, Required: true, Min: gateway.Bound(0), Max: gateway.Bound(100)},
	{Name: "summary", Type: gateway.TypeString, Required: true, Description: "two or three sentence overview"},
	{Name: "peakDays", Type: gateway.TypeStringList, Required: true},
	{Name: "patterns", Type: gateway.TypeStringList, Required: true},
	{Name: "recommendations", Type: gateway.TypeStringList, Required: true},
}}

// BuildProductivityInput aggregates tasks, events and logs inside w.
func BuildProductivityInput(w Window, a Activity, now time.Time) ProductivityInput {
	tasks := w.tasks(a.Tasks)
	events := w.events(a.Events)
	logs := w.logs(a.Logs)
	days := w.Days()

	in := ProductivityInput{
		StartDate:   w.Start.Format(dateLayout),
		EndDate:     w.End.Format(dateLayout),
		Days:        days,
		TasksTotal:  len(tasks),
		EventsCount: len(events),
		Points:      len(tasks) + len(events) + len(logs),
	}
	for i := range tasks {
		if tasks[i].Status == model.TaskCompleted {
			in.TasksCompleted++
		}
		if tasks[i].Overdue(now) {
			in.TasksOverdue++
		}
	}
	if in.TasksTotal > 0 {
		in.CompletionRate = aggregate.Round2(100 * float64(in.TasksCompleted) / float64(in.TasksTotal))
	}
	in.EventsPerDay = aggregate.Round2(aggregate.Average(float64(len(events)), days))
	avg, n := aggregate.AverageFocus(logs)
	in.AvgFocus, in.FocusSamples = aggregate.Round2(avg), n

	byDay := aggregate.CountByWeekday(events, func(e model.CalendarEvent) time.Time { return e.Start })
	for wd, c := range aggregate.CountByWeekday(logs, func(l model.LogEntry) time.Time { return l.Date }) {
		byDay[wd] += c
	}
	for _, t := range tasks {
		if t.Status == model.TaskCompleted {
			d, _ := taskDate(t)
			byDay[d.Weekday()]++
		}
	}
	in.ActivityByWeekday = make([]WeekdayCount, 0, 7)
	for wd := time.Monday; ; wd = (wd + 1) % 7 {
		in.ActivityByWeekday = append(in.ActivityByWeekday, WeekdayCount{Day: wd.String(), Count: byDay[wd]})
		if wd == time.Sunday {
			break
		}
	}
	return in
}

// ProductivityRequest builds the gateway request for in.
func ProductivityRequest(in ProductivityInput) gateway.Request {
	var sb strings.Builder

	sb.WriteString("You are a productivity coach. Identify work patterns in the activity summary below.\n\n")
	sb.WriteString(fmt.Sprintf("Period: %s to %s (%d days).\n\n", in.StartDate, in.EndDate, in.Days))
	sb.WriteString("Consider:\n")
	sb.WriteString("1. Task completion rate and overdue tasks\n")
	sb.WriteString("2. Meeting load per day\n")
	sb.WriteString("3. Self-reported focus (1-5)\n")
	sb.WriteString("4. Which weekdays carry the most activity\n\n")
	sb.WriteString("peakDays are weekday names. Recommendations must be concrete and achievable within a week.")

	return gateway.Request{
		Feature:      string(FeatureProductivity),
		Instructions: sb.String(),
		Input:        in,
		Schema:       ProductivitySchema,
	}
}

// Productivity runs the productivity pattern flow over pre-loaded records.
func (e *Engine) Productivity(ctx context.Context, start, end string, a Activity) (*ProductivityReport, error) {
	w, err := e.Window(start, end)
	if err != nil {
		return nil, err
	}
	return e.productivity(ctx, w, a), nil
}

func (e *Engine) productivity(ctx context.Context, w Window, a Activity) *ProductivityReport {
	in := BuildProductivityInput(w, a, e.clock.Now())
	if in.Points < MinProductivityPoints {
		return &ProductivityReport{
			Summary: fmt.Sprintf("Only %d tasks, events and logs between %s and %s. Record at least %d to see patterns.",
				in.Points, in.StartDate, in.EndDate, MinProductivityPoints),
			PeakDays:        []string{},
			Patterns:        []string{},
			Recommendations: []string{},
			Source:          SourceInsufficient,
		}
	}

	out, ok := ask[ProductivityReport](ctx, e, ProductivityRequest(in))
	if !ok {
		return ProductivityFallback(in)
	}
	out.PeakDays = orEmpty(out.PeakDays)
	out.Patterns = orEmpty(out.Patterns)
	out.Recommendations = orEmpty(out.Recommendations)
	out.Source = SourceModel
	return &out
}

// ProductivityFallback scores completion and focus from the aggregates alone.
func ProductivityFallback(in ProductivityInput) *ProductivityReport {
	focusPct := in.AvgFocus / float64(model.MaxFocusLevel) * 100
	var score float64
	switch {
	case in.TasksTotal > 0 && in.FocusSamples > 0:
		score = 0.6*in.CompletionRate + 0.4*focusPct
	case in.TasksTotal > 0:
		score = in.CompletionRate
	case in.FocusSamples > 0:
		score = focusPct
	default:
		score = 50
	}

	r := &ProductivityReport{
		ProductivityScore: clampScore(score),
		Summary: fmt.Sprintf("Between %s and %s you completed %d of %d tasks and attended %d events.",
			in.StartDate, in.EndDate, in.TasksCompleted, in.TasksTotal, in.EventsCount),
		PeakDays:        peakDays(in.ActivityByWeekday),
		Patterns:        []string{},
		Recommendations: []string{},
		Source:          SourceFallback,
	}

	if in.TasksTotal > 0 {
		r.Patterns = append(r.Patterns, fmt.Sprintf("Task completion rate was %.0f%%.", in.CompletionRate))
	}
	if in.FocusSamples > 0 {
		r.Patterns = append(r.Patterns, fmt.Sprintf("Average focus was %.1f/5 across %d logs.", in.AvgFocus, in.FocusSamples))
	}
	r.Patterns = append(r.Patterns, fmt.Sprintf("You averaged %.1f events per day.", in.EventsPerDay))

	if in.TasksOverdue > 0 {
		r.Recommendations = append(r.Recommendations, fmt.Sprintf("Clear or reschedule the %d overdue task(s).", in.TasksOverdue))
	}
	if in.FocusSamples > 0 && in.AvgFocus < 3 {
		r.Recommendations = append(r.Recommendations, "Block one distraction-free hour on your calendar each day.")
	}
	if in.EventsPerDay > 4 {
		r.Recommendations = append(r.Recommendations, "Decline or shorten meetings that do not need you.")
	}
	if len(r.Recommendations) == 0 {
		r.Recommendations = append(r.Recommendations, "Keep your current rhythm and plan tomorrow's top task tonight.")
	}
	return r
}

// peakDays returns up to two weekdays with the most activity.
func peakDays(counts []WeekdayCount) []string {
	out := []string{}
	best := make([]WeekdayCount, 0, 2)
	for _, c := range counts {
		if c.Count == 0 {
			continue
		}
		switch {
		case len(best) < 2:
			best = append(best, c)
		case c.Count > best[1].Count:
			best[1] = c
		}
		if len(best) == 2 && best[1].Count > best[0].Count {
			best[0], best[1] = best[1], best[0]
		}
	}
	for _, b := range best {
		out = append(out, b.Day)
	}
	return out
}
