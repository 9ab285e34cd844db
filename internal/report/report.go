// Package report builds the AI-assisted analyses over a user's records.
//
// Every flow aggregates the records in a date window, short-circuits when there
// is too little data, asks the gateway for a structured reply and falls back to
// rule-based results when the model fails. Callers always get a fully
// populated report; only malformed input is returned as an error.
package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/swamp-dev/eunoia/internal/aggregate"
	"github.com/swamp-dev/eunoia/internal/clock"
	"github.com/swamp-dev/eunoia/internal/gateway"
	"github.com/swamp-dev/eunoia/internal/model"
)

// ErrInvalidInput is returned for malformed or inverted date ranges.
var ErrInvalidInput = errors.New("invalid report input")

// Source records where a report's content came from.
type Source string

const (
	SourceModel        Source = "model"
	SourceFallback     Source = "fallback"
	SourceInsufficient Source = "insufficient_data"
)

// Feature names a report flow.
type Feature string

const (
	FeatureExpense      Feature = "expense"
	FeatureSentiment    Feature = "sentiment"
	FeatureProductivity Feature = "productivity"
	FeatureBurnout      Feature = "burnout"
)

// Features lists every report flow.
var Features = []Feature{FeatureExpense, FeatureSentiment, FeatureProductivity, FeatureBurnout}

// ParseFeature maps a name to a Feature.
func ParseFeature(name string) (Feature, error) {
	for _, f := range Features {
		if string(f) == strings.ToLower(name) {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: unknown report %q", ErrInvalidInput, name)
}

const dateLayout = "2006-01-02"

// Window is an inclusive date range.
type Window struct {
	Start time.Time
	End   time.Time
}

// Days is the number of calendar days the window touches, at least 1.
func (w Window) Days() int {
	return aggregate.DaysInclusive(w.Start, w.End)
}

// Contains reports whether t lies inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// ParseWindow parses ISO-8601 start and end values in loc.
//
// Both RFC 3339 timestamps and plain dates are accepted. A plain end date
// covers the whole of that day.
func ParseWindow(start, end string, loc *time.Location) (Window, error) {
	s, _, err := parseDate(start, loc)
	if err != nil {
		return Window{}, fmt.Errorf("%w: start date: %v", ErrInvalidInput, err)
	}
	e, dateOnly, err := parseDate(end, loc)
	if err != nil {
		return Window{}, fmt.Errorf("%w: end date: %v", ErrInvalidInput, err)
	}
	if dateOnly {
		e = e.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	if e.Before(s) {
		return Window{}, fmt.Errorf("%w: end date %s is before start date %s", ErrInvalidInput, end, start)
	}
	return Window{Start: s, End: e}, nil
}

func parseDate(v string, loc *time.Location) (time.Time, bool, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, false, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
		return t, false, nil
	}
	t, err := time.ParseInLocation(dateLayout, v, loc)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%q is not an ISO-8601 date", v)
	}
	return t, true, nil
}

// Engine runs report flows against a gateway.
type Engine struct {
	gw     gateway.Gateway
	clock  clock.Clock
	logger *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the time source used for overdue checks and date parsing.
func WithClock(c clock.Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// NewEngine creates an engine that asks gw for completions.
func NewEngine(gw gateway.Gateway, opts ...Option) *Engine {
	e := &Engine{gw: gw, clock: clock.System{}, logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Window parses a date range in the engine's local time.
func (e *Engine) Window(start, end string) (Window, error) {
	return ParseWindow(start, end, e.clock.Now().Location())
}

// ask decodes a model reply for req. A false result means the caller must fall back.
func ask[T any](ctx context.Context, e *Engine, req gateway.Request) (T, bool) {
	started := time.Now()
	out, err := gateway.Decode[T](ctx, e.gw, req)
	if err != nil {
		e.logger.Warn("model call failed, using fallback",
			"feature", req.Feature, "gateway", e.gw.Name(), "error", err)
		return out, false
	}
	e.logger.Info("model report ready",
		"feature", req.Feature, "gateway", e.gw.Name(), "duration", time.Since(started))
	return out, true
}

// Activity is the record set the task-oriented reports read.
type Activity struct {
	Tasks  []model.Task
	Events []model.CalendarEvent
	Logs   []model.LogEntry
}

// taskDate places a task in time: its due date, else its creation time.
func taskDate(t model.Task) (time.Time, bool) {
	if t.DueDate != nil {
		return *t.DueDate, true
	}
	if t.CreatedAt != nil {
		return *t.CreatedAt, true
	}
	return time.Time{}, false
}

func (w Window) tasks(all []model.Task) []model.Task {
	out := make([]model.Task, 0, len(all))
	for _, t := range all {
		if d, ok := taskDate(t); ok && w.Contains(d) {
			out = append(out, t)
		}
	}
	return out
}

func (w Window) events(all []model.CalendarEvent) []model.CalendarEvent {
	return aggregate.FilterInRange(all, w.Start, w.End, func(e model.CalendarEvent) time.Time { return e.Start })
}

func (w Window) logs(all []model.LogEntry) []model.LogEntry {
	return aggregate.FilterInRange(all, w.Start, w.End, func(l model.LogEntry) time.Time { return l.Date })
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func clampScore(v float64) int {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return int(v + 0.5)
}
