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

// MinExpenses is the fewest expenses an expense report will analyse.
const MinExpenses = 3

// ExpenseInput is the aggregate sent to the model.
type ExpenseInput struct {
	StartDate         string                    `json:"startDate"`
	EndDate           string                    `json:"endDate"`
	Days              int                       `json:"days"`
	ExpenseCount      int                       `json:"expenseCount"`
	TotalSpent        float64                   `json:"totalSpent"`
	AverageDailySpend float64                   `json:"averageDailySpend"`
	TopCategories     []aggregate.CategoryShare `json:"topCategories"`
}

// ExpenseReport summarises spending over a window.
type ExpenseReport struct {
	Summary           string                    `json:"summary"`
	TotalSpent        float64                   `json:"totalSpent"`
	AverageDailySpend float64                   `json:"averageDailySpend"`
	TopCategories     []aggregate.CategoryShare `json:"topCategories"`
	Insights          []string                  `json:"insights"`
	Suggestions       []string                  `json:"suggestions"`
	Source            Source                    `json:"source"`
}

// ExpenseSchema is the reply shape requested from the model.
var ExpenseSchema = gateway.Schema{Fields: []gateway.Field{
	{Name: "summary", Type: gateway.TypeString, Required: true, Description: "two or three sentence overview"},
	{Name: "totalSpent", Type: gateway.TypeNumber, Required: true, Min: gateway.Bound(0)},
	{Name: "averageDailySpend", Type: gateway.TypeNumber, Required: true, Min: gateway.Bound(0)},
	{Name: "topCategories", Type: gateway.TypeObjectList, Required: true, Fields: []gateway.Field{
		{Name: "category", Type: gateway.TypeString, Required: true},
		{Name: "amount", Type: gateway.TypeNumber, Required: true, Min: gateway.Bound(0)},
		{Name: "percentage", Type: gateway.TypeNumber, Required: true, Min: gateway.Bound(0), Max: gateway.Bound(100)},
	}},
	{Name: "insights", Type: gateway.TypeStringList, Required: true},
	{Name: "suggestions", Type: gateway.TypeStringList, Required: true},
}}

// BuildExpenseInput aggregates the expenses that fall inside w.
func BuildExpenseInput(w Window, expenses []model.Expense) ExpenseInput {
	inRange := aggregate.FilterInRange(expenses, w.Start, w.End, func(e model.Expense) time.Time { return e.Date })
	amount := func(e model.Expense) float64 { return e.Amount }
	total := aggregate.Sum(inRange, amount)
	days := w.Days()

	top := aggregate.GroupAndRank(inRange, func(e model.Expense) string { return e.Category }, amount, 5)
	for i := range top {
		top[i].Amount = aggregate.Round2(top[i].Amount)
		top[i].Percentage = aggregate.Round2(top[i].Percentage)
	}

	return ExpenseInput{
		StartDate:         w.Start.Format(dateLayout),
		EndDate:           w.End.Format(dateLayout),
		Days:              days,
		ExpenseCount:      len(inRange),
		TotalSpent:        aggregate.Round2(total),
		AverageDailySpend: aggregate.Round2(aggregate.Average(total, days)),
		TopCategories:     top,
	}
}

// ExpenseRequest builds the gateway request for in.
func ExpenseRequest(in ExpenseInput) gateway.Request {
	var sb strings.Builder

	sb.WriteString("You are a personal finance assistant. Analyse the spending summary below.\n\n")
	sb.WriteString(fmt.Sprintf("Period: %s to %s (%d days, %d expenses).\n\n", in.StartDate, in.EndDate, in.Days, in.ExpenseCount))
	sb.WriteString("Focus on:\n")
	sb.WriteString("1. Where most of the money went\n")
	sb.WriteString("2. Unusual concentration in one category\n")
	sb.WriteString("3. Practical, specific ways to spend less\n\n")
	sb.WriteString("Use the totals exactly as given. Keep insights and suggestions to one sentence each.")

	return gateway.Request{
		Feature:      string(FeatureExpense),
		Instructions: sb.String(),
		Input:        in,
		Schema:       ExpenseSchema,
	}
}

// Expense runs the expense trend flow over pre-loaded expenses.
func (e *Engine) Expense(ctx context.Context, start, end string, expenses []model.Expense) (*ExpenseReport, error) {
	w, err := e.Window(start, end)
	if err != nil {
		return nil, err
	}
	return e.expense(ctx, w, expenses), nil
}

func (e *Engine) expense(ctx context.Context, w Window, expenses []model.Expense) *ExpenseReport {
	in := BuildExpenseInput(w, expenses)
	if in.ExpenseCount < MinExpenses {
		return insufficientExpense(in)
	}

	out, ok := ask[ExpenseReport](ctx, e, ExpenseRequest(in))
	if !ok {
		return ExpenseFallback(in)
	}
	// Figures always come from the aggregates; the model supplies the prose.
	out.TotalSpent = in.TotalSpent
	out.AverageDailySpend = in.AverageDailySpend
	out.TopCategories = orEmpty(in.TopCategories)
	out.Insights = orEmpty(out.Insights)
	out.Suggestions = orEmpty(out.Suggestions)
	out.Source = SourceModel
	return &out
}

func insufficientExpense(in ExpenseInput) *ExpenseReport {
	return &ExpenseReport{
		Summary: fmt.Sprintf("Only %d expense(s) recorded between %s and %s. Add at least %d to see spending trends.",
			in.ExpenseCount, in.StartDate, in.EndDate, MinExpenses),
		TotalSpent:        in.TotalSpent,
		AverageDailySpend: in.AverageDailySpend,
		TopCategories:     orEmpty(in.TopCategories),
		Insights:          []string{},
		Suggestions:       []string{},
		Source:            SourceInsufficient,
	}
}

// ExpenseFallback derives an expense report from the aggregates alone.
func ExpenseFallback(in ExpenseInput) *ExpenseReport {
	r := &ExpenseReport{
		Summary: fmt.Sprintf("You spent %.2f across %d expenses between %s and %s, about %.2f per day.",
			in.TotalSpent, in.ExpenseCount, in.StartDate, in.EndDate, in.AverageDailySpend),
		TotalSpent:        in.TotalSpent,
		AverageDailySpend: in.AverageDailySpend,
		TopCategories:     orEmpty(in.TopCategories),
		Insights:          []string{},
		Suggestions:       []string{},
		Source:            SourceFallback,
	}

	for _, c := range in.TopCategories {
		r.Insights = append(r.Insights, fmt.Sprintf("%s accounted for %.2f (%.1f%% of spending).", c.Category, c.Amount, c.Percentage))
	}

	if len(in.TopCategories) > 0 && in.TopCategories[0].Percentage > 40 {
		top := in.TopCategories[0]
		r.Suggestions = append(r.Suggestions,
			fmt.Sprintf("%s makes up %.1f%% of your spending; consider setting a budget for it.", top.Category, top.Percentage))
	}
	r.Suggestions = append(r.Suggestions, "Review recurring costs and cancel anything you no longer use.")
	return r
}
