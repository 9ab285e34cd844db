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

const (
	// MinBurnoutPoints is the fewest activity points analysed over a multi-day window.
	MinBurnoutPoints = 5
	// burnoutShortWindow is the longest window, in days, exempt from MinBurnoutPoints.
	burnoutShortWindow = 2

	overdueThreshold       = 5
	negativeRatioThreshold = 1.0 / 3
)

// Risk levels.
const (
	RiskLow      = "Low"
	RiskModerate = "Moderate"
	RiskHigh     = "High"
)

// BurnoutInput is the aggregate sent to the model.
type BurnoutInput struct {
	StartDate         string  `json:"startDate"`
	EndDate           string  `json:"endDate"`
	Days              int     `json:"days"`
	OverdueTasks      int     `json:"overdueTasks"`
	PendingTasks      int     `json:"pendingTasks"`
	EventsPerDay      float64 `json:"eventsPerDay"`
	NegativeMoodRatio float64 `json:"negativeMoodRatio"`
	StressKeywordHits int     `json:"stressKeywordHits"`
	AvgFocus          float64 `json:"avgFocus"`
	FocusSamples      int     `json:"focusSamples"`
	ActivityPoints    int     `json:"activityPoints"`
}

// BurnoutReport is a burnout risk assessment.
type BurnoutReport struct {
	RiskLevel           string   `json:"riskLevel"`
	RiskScore           int      `json:"riskScore"`
	AssessmentSummary   string   `json:"assessmentSummary"`
	ContributingFactors []string `json:"contributingFactors"`
	Recommendations     []string `json:"recommendations"`
	Source              Source   `json:"source"`
}

// BurnoutSchema is the reply shape requested from the model.
var BurnoutSchema = gateway.Schema{Fields: []gateway.Field{
	{Name: "riskLevel", Type: gateway.TypeString, Required: true, Enum: []string{RiskLow, RiskModerate, RiskHigh}},
	{Name: "riskScore", Type: gateway.TypeInteger, Required: true, Min: gateway.Bound(0), Max: gateway.Bound(100)},
	{Name: "assessmentSummary", Type: gateway.TypeString, Required: true, Description: "two or three sentence assessment"},
	{Name: "contributingFactors", Type: gateway.TypeStringList, Required: true},
	{Name: "recommendations", Type: gateway.TypeStringList, Required: true},
}}

// BuildBurnoutInput aggregates workload and mood signals.
//
// Overdue and pending counts cover the whole backlog as of now; every other
// figure is limited to w.
func BuildBurnoutInput(w Window, a Activity, now time.Time) BurnoutInput {
	tasks := w.tasks(a.Tasks)
	events := w.events(a.Events)
	logs := w.logs(a.Logs)
	days := w.Days()

	in := BurnoutInput{
		StartDate:      w.Start.Format(dateLayout),
		EndDate:        w.End.Format(dateLayout),
		Days:           days,
		EventsPerDay:   aggregate.Round2(aggregate.Average(float64(len(events)), days)),
		ActivityPoints: len(tasks) + len(events) + len(logs),
	}
	for i := range a.Tasks {
		if a.Tasks[i].Status != model.TaskCompleted {
			in.PendingTasks++
		}
		if a.Tasks[i].Overdue(now) {
			in.OverdueTasks++
		}
	}

	// Unrounded so the fallback threshold compares the exact share.
	in.NegativeMoodRatio = aggregate.NegativeMoodRatio(logs)

	texts := make([]string, 0, len(logs))
	for _, l := range logs {
		texts = append(texts, l.DiaryEntry+" "+l.Notes)
	}
	in.StressKeywordHits = aggregate.TotalHits(aggregate.CountKeywords(texts, aggregate.StressKeywords))

	avg, n := aggregate.AverageFocus(logs)
	in.AvgFocus, in.FocusSamples = aggregate.Round2(avg), n
	return in
}

// BurnoutRequest builds the gateway request for in.
func BurnoutRequest(in BurnoutInput) gateway.Request {
	var sb strings.Builder

	sb.WriteString("You are a workplace wellbeing assistant. Assess burnout risk from the signals below.\n\n")
	sb.WriteString(fmt.Sprintf("Period: %s to %s (%d days).\n\n", in.StartDate, in.EndDate, in.Days))
	sb.WriteString("Signals:\n")
	sb.WriteString("- overdueTasks and pendingTasks describe backlog pressure\n")
	sb.WriteString("- eventsPerDay describes meeting load\n")
	sb.WriteString("- negativeMoodRatio is the share of logged moods that were negative (0-1)\n")
	sb.WriteString("- stressKeywordHits counts stress words in diary entries\n")
	sb.WriteString("- avgFocus is self-reported focus on a 1-5 scale (0 when not recorded)\n\n")
	sb.WriteString("riskScore is 0 (no risk) to 100 (severe). Do not give medical advice; ")
	sb.WriteString("recommend professional support if risk is High.")

	return gateway.Request{
		Feature:      string(FeatureBurnout),
		Instructions: sb.String(),
		Input:        in,
		Schema:       BurnoutSchema,
	}
}

// Burnout runs the burnout risk flow over pre-loaded records.
func (e *Engine) Burnout(ctx context.Context, start, end string, a Activity) (*BurnoutReport, error) {
	w, err := e.Window(start, end)
	if err != nil {
		return nil, err
	}
	return e.burnout(ctx, w, a), nil
}

func (e *Engine) burnout(ctx context.Context, w Window, a Activity) *BurnoutReport {
	in := BuildBurnoutInput(w, a, e.clock.Now())
	if in.ActivityPoints < MinBurnoutPoints && in.Days > burnoutShortWindow {
		return &BurnoutReport{
			RiskLevel: RiskLow,
			RiskScore: 0,
			AssessmentSummary: fmt.Sprintf("Not enough activity between %s and %s to assess burnout risk (%d of %d data points).",
				in.StartDate, in.EndDate, in.ActivityPoints, MinBurnoutPoints),
			ContributingFactors: []string{},
			Recommendations:     []string{"Log your tasks, events and moods for a few days, then check again."},
			Source:              SourceInsufficient,
		}
	}

	out, ok := ask[BurnoutReport](ctx, e, BurnoutRequest(in))
	if !ok {
		return BurnoutFallback(in)
	}
	out.RiskScore = clampScore(riskBand(out.RiskLevel, float64(out.RiskScore)))
	out.ContributingFactors = orEmpty(out.ContributingFactors)
	out.Recommendations = orEmpty(out.Recommendations)
	out.Source = SourceModel
	return &out
}

// BurnoutFallback applies fixed thresholds to the aggregates.
//
// Moderate when overdue tasks exceed 5 or more than a third of moods were
// negative; High when both hold; otherwise Low.
func BurnoutFallback(in BurnoutInput) *BurnoutReport {
	overloaded := in.OverdueTasks > overdueThreshold
	lowMood := in.NegativeMoodRatio > negativeRatioThreshold

	r := &BurnoutReport{
		ContributingFactors: []string{},
		Recommendations:     []string{},
		Source:              SourceFallback,
	}

	switch {
	case overloaded && lowMood:
		r.RiskLevel = RiskHigh
	case overloaded || lowMood:
		r.RiskLevel = RiskModerate
	default:
		r.RiskLevel = RiskLow
	}

	score := 10 + 4*float64(min(in.OverdueTasks, 10)) + 40*in.NegativeMoodRatio + 2*float64(min(in.StressKeywordHits, 10))
	r.RiskScore = clampScore(riskBand(r.RiskLevel, score))

	if overloaded {
		r.ContributingFactors = append(r.ContributingFactors, fmt.Sprintf("%d overdue tasks", in.OverdueTasks))
		r.Recommendations = append(r.Recommendations, "Pick the three most important overdue tasks and reschedule or drop the rest.")
	}
	if lowMood {
		r.ContributingFactors = append(r.ContributingFactors,
			fmt.Sprintf("%.0f%% of logged moods were negative", in.NegativeMoodRatio*100))
		r.Recommendations = append(r.Recommendations, "Plan one restorative activity each day this week.")
	}
	if in.StressKeywordHits > 0 {
		r.ContributingFactors = append(r.ContributingFactors, fmt.Sprintf("%d stress mentions in diary entries", in.StressKeywordHits))
	}
	if in.EventsPerDay > 5 {
		r.ContributingFactors = append(r.ContributingFactors, fmt.Sprintf("%.1f events per day", in.EventsPerDay))
		r.Recommendations = append(r.Recommendations, "Protect at least one meeting-free block each day.")
	}
	if r.RiskLevel == RiskHigh {
		r.Recommendations = append(r.Recommendations, "Consider talking to someone you trust or a professional about your workload.")
	}
	if len(r.Recommendations) == 0 {
		r.Recommendations = append(r.Recommendations, "Your workload looks sustainable; keep regular breaks in your routine.")
	}

	r.AssessmentSummary = fmt.Sprintf("%s burnout risk between %s and %s: %d overdue and %d pending tasks, %.0f%% negative moods.",
		r.RiskLevel, in.StartDate, in.EndDate, in.OverdueTasks, in.PendingTasks, in.NegativeMoodRatio*100)
	return r
}

// riskBand moves score into the range for level: High 70-100, Moderate 40-69,
// Low 0-39.
func riskBand(level string, score float64) float64 {
	switch level {
	case RiskHigh:
		return max(score, 70)
	case RiskModerate:
		return min(max(score, 40), 69)
	default:
		return min(score, 39)
	}
}
