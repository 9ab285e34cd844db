package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/swamp-dev/eunoia/internal/report"
)

var (
	reportStart string
	reportEnd   string
	reportDays  int
)

var reportCmd = &cobra.Command{
	Use:       "report <expense|sentiment|productivity|burnout>",
	Short:     "Generate an AI-assisted report",
	ValidArgs: []string{"expense", "sentiment", "productivity", "burnout"},
	Long: `Report aggregates the records in a date window and asks the AI gateway
to interpret them. When the gateway is unavailable or replies with
something unusable, a locally computed report is printed instead.

The window defaults to the last 7 days including today.

Examples:
  eunoia report expense
  eunoia report sentiment --start 2024-06-01 --end 2024-06-30
  eunoia report burnout --days 14 --mode sample --json`,
	Args: cobra.ExactArgs(1),
	RunE: withApp(runReport),
}

func init() {
	reportCmd.Flags().StringVar(&reportStart, "start", "", "window start date (YYYY-MM-DD)")
	reportCmd.Flags().StringVar(&reportEnd, "end", "", "window end date (YYYY-MM-DD)")
	reportCmd.Flags().IntVar(&reportDays, "days", 7, "window length when --start is omitted")
}

func runReport(ctx context.Context, a *app, args []string) error {
	feature, err := report.ParseFeature(args[0])
	if err != nil {
		return err
	}
	start, end := reportWindow(time.Now(), reportStart, reportEnd, reportDays)

	logger.Debug("running report", "feature", feature, "start", start, "end", end)
	out, err := a.reports.Run(ctx, a.scope(), feature, start, end)
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(out)
	}
	printReport(out)
	return nil
}

// reportWindow fills in missing window bounds relative to now.
func reportWindow(now time.Time, start, end string, days int) (string, string) {
	if end == "" {
		end = now.Format(dateLayout)
	}
	if start == "" {
		if days < 1 {
			days = 1
		}
		if e, err := time.ParseInLocation(dateLayout, end, now.Location()); err == nil {
			start = e.AddDate(0, 0, -(days - 1)).Format(dateLayout)
		} else {
			start = end
		}
	}
	return start, end
}

func printReport(out any) {
	switch r := out.(type) {
	case *report.ExpenseReport:
		fmt.Printf("Expense report (%s)\n\n", r.Source)
		fmt.Printf("  Total spent:   %10.2f\n", r.TotalSpent)
		fmt.Printf("  Daily average: %10.2f\n\n", r.AverageDailySpend)
		for _, c := range r.TopCategories {
			fmt.Printf("  %-14s %s %5.1f%%  %10.2f\n", truncate(c.Category, 14), renderProgressBar(c.Percentage, 20), c.Percentage, c.Amount)
		}
		printProse(r.Summary, "Insights", r.Insights, "Suggestions", r.Suggestions)

	case *report.SentimentReport:
		fmt.Printf("Sentiment report (%s)\n\n", r.Source)
		fmt.Printf("  Overall: %s  %s %d/100\n", r.OverallSentiment, renderProgressBar(float64(r.SentimentScore), 20), r.SentimentScore)
		if len(r.DominantMoods) > 0 {
			fmt.Printf("  Dominant moods: %s\n", strings.Join(r.DominantMoods, ", "))
		}
		if len(r.Keywords) > 0 {
			fmt.Printf("  Keywords: %s\n", strings.Join(r.Keywords, ", "))
		}
		printProse(r.TrendSummary, "Suggestions", r.Suggestions, "", nil)

	case *report.ProductivityReport:
		fmt.Printf("Productivity report (%s)\n\n", r.Source)
		fmt.Printf("  Score: %s %d/100\n", renderProgressBar(float64(r.ProductivityScore), 20), r.ProductivityScore)
		if len(r.PeakDays) > 0 {
			fmt.Printf("  Peak days: %s\n", strings.Join(r.PeakDays, ", "))
		}
		printProse(r.Summary, "Patterns", r.Patterns, "Recommendations", r.Recommendations)

	case *report.BurnoutReport:
		fmt.Printf("Burnout risk report (%s)\n\n", r.Source)
		fmt.Printf("  Risk: %s  %s %d/100\n", r.RiskLevel, renderProgressBar(float64(r.RiskScore), 20), r.RiskScore)
		printProse(r.AssessmentSummary, "Contributing factors", r.ContributingFactors, "Recommendations", r.Recommendations)

	default:
		_ = printJSON(out)
	}
}

func printProse(summary, firstTitle string, first []string, secondTitle string, second []string) {
	fmt.Printf("\n%s\n", summary)
	for _, section := range []struct {
		title string
		items []string
	}{{firstTitle, first}, {secondTitle, second}} {
		if len(section.items) == 0 {
			continue
		}
		fmt.Printf("\n%s:\n", section.title)
		for _, it := range section.items {
			fmt.Printf("  • %s\n", it)
		}
	}
}
