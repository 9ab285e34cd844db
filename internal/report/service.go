package report

import (
	"context"
	"fmt"

	"github.com/swamp-dev/eunoia/internal/service"
	"github.com/swamp-dev/eunoia/internal/store"
)

// Service loads a scope's records and runs report flows over them.
type Service struct {
	records *service.Services
	engine  *Engine
}

// NewService creates a report service.
func NewService(records *service.Services, engine *Engine) *Service {
	return &Service{records: records, engine: engine}
}

// Expense runs the expense report for scope.
func (s *Service) Expense(ctx context.Context, scope store.Scope, start, end string) (*ExpenseReport, error) {
	w, err := s.engine.Window(start, end)
	if err != nil {
		return nil, err
	}
	expenses, err := s.records.Expenses.InRange(ctx, scope, w.Start, w.End)
	if err != nil {
		return nil, fmt.Errorf("loading expenses: %w", err)
	}
	return s.engine.expense(ctx, w, expenses), nil
}

// Sentiment runs the sentiment report for scope.
func (s *Service) Sentiment(ctx context.Context, scope store.Scope, start, end string) (*SentimentReport, error) {
	w, err := s.engine.Window(start, end)
	if err != nil {
		return nil, err
	}
	logs, err := s.records.Logs.InRange(ctx, scope, w.Start, w.End)
	if err != nil {
		return nil, fmt.Errorf("loading logs: %w", err)
	}
	return s.engine.sentiment(ctx, w, logs), nil
}

// Productivity runs the productivity report for scope.
func (s *Service) Productivity(ctx context.Context, scope store.Scope, start, end string) (*ProductivityReport, error) {
	w, err := s.engine.Window(start, end)
	if err != nil {
		return nil, err
	}
	a, err := s.activity(ctx, scope, w)
	if err != nil {
		return nil, err
	}
	return s.engine.productivity(ctx, w, a), nil
}

// Burnout runs the burnout report for scope.
func (s *Service) Burnout(ctx context.Context, scope store.Scope, start, end string) (*BurnoutReport, error) {
	w, err := s.engine.Window(start, end)
	if err != nil {
		return nil, err
	}
	a, err := s.activity(ctx, scope, w)
	if err != nil {
		return nil, err
	}
	return s.engine.burnout(ctx, w, a), nil
}

// Run dispatches to the flow named by feature.
func (s *Service) Run(ctx context.Context, scope store.Scope, feature Feature, start, end string) (any, error) {
	switch feature {
	case FeatureExpense:
		return s.Expense(ctx, scope, start, end)
	case FeatureSentiment:
		return s.Sentiment(ctx, scope, start, end)
	case FeatureProductivity:
		return s.Productivity(ctx, scope, start, end)
	case FeatureBurnout:
		return s.Burnout(ctx, scope, start, end)
	default:
		return nil, fmt.Errorf("%w: unknown report %q", ErrInvalidInput, feature)
	}
}

// activity loads every task, since the backlog is not bounded by the window.
func (s *Service) activity(ctx context.Context, scope store.Scope, w Window) (Activity, error) {
	tasks, err := s.records.Tasks.List(ctx, scope)
	if err != nil {
		return Activity{}, fmt.Errorf("loading tasks: %w", err)
	}
	events, err := s.records.Events.InRange(ctx, scope, w.Start, w.End)
	if err != nil {
		return Activity{}, fmt.Errorf("loading events: %w", err)
	}
	logs, err := s.records.Logs.InRange(ctx, scope, w.Start, w.End)
	if err != nil {
		return Activity{}, fmt.Errorf("loading logs: %w", err)
	}
	return Activity{Tasks: tasks, Events: events, Logs: logs}, nil
}
