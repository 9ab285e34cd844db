// Package aggregate provides pure date-range aggregation helpers used by report flows.
package aggregate

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/swamp-dev/eunoia/internal/clock"
	"github.com/swamp-dev/eunoia/internal/model"
)

// FilterInRange returns the items whose date lies in [start, end].
func FilterInRange[T any](items []T, start, end time.Time, dateOf func(T) time.Time) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		d := dateOf(it)
		if !d.Before(start) && !d.After(end) {
			out = append(out, it)
		}
	}
	return out
}

// Sum adds up amountOf over items.
func Sum[T any](items []T, amountOf func(T) float64) float64 {
	var total float64
	for _, it := range items {
		total += amountOf(it)
	}
	return total
}

// DaysInclusive counts the calendar days from start to end, both ends included.
// The result is at least 1.
func DaysInclusive(start, end time.Time) int {
	s := clock.StartOfDay(start)
	e := clock.StartOfDay(end.In(start.Location()))
	days := 0
	for d := s; !d.After(e); d = d.AddDate(0, 0, 1) {
		days++
	}
	return max(1, days)
}

// Average divides total by days, treating fewer than one day as one.
func Average(total float64, days int) float64 {
	return total / float64(max(1, days))
}

// CategoryShare is one ranked category with its share of the total.
type CategoryShare struct {
	Category   string  `json:"category"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

// GroupAndRank sums amountOf per category and returns the topN categories by
// amount, largest first. Ties keep first-encounter order. topN <= 0 returns all.
func GroupAndRank[T any](items []T, categoryOf func(T) string, amountOf func(T) float64, topN int) []CategoryShare {
	index := make(map[string]int)
	groups := []CategoryShare{}
	var total float64
	for _, it := range items {
		cat := categoryOf(it)
		amt := amountOf(it)
		total += amt
		i, ok := index[cat]
		if !ok {
			i = len(groups)
			index[cat] = i
			groups = append(groups, CategoryShare{Category: cat})
		}
		groups[i].Amount += amt
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Amount > groups[j].Amount
	})

	for i := range groups {
		if total > 0 {
			groups[i].Percentage = groups[i].Amount / total * 100
		}
	}

	if topN > 0 && len(groups) > topN {
		groups = groups[:topN]
	}
	return groups
}

// Keyword sets scanned in diary-style text.
var (
	StressKeywords = []string{
		"overwhelmed", "exhausted", "burnt out", "burned out",
		"stressed", "tired", "anxious", "can't cope",
	}
	PositiveKeywords = []string{
		"grateful", "happy", "calm", "proud", "excited",
	}
)

// CountKeywords counts, per keyword, how many texts contain it (case-insensitive).
// Keywords with no hits are omitted.
func CountKeywords(texts []string, keywords []string) map[string]int {
	counts := make(map[string]int)
	for _, text := range texts {
		lower := strings.ToLower(text)
		for _, kw := range keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				counts[kw]++
			}
		}
	}
	return counts
}

// TotalHits sums a keyword count map.
func TotalHits(counts map[string]int) int {
	n := 0
	for _, c := range counts {
		n += c
	}
	return n
}

// CountMoods tallies the moods recorded in entries. Entries without a mood are skipped.
func CountMoods(entries []model.LogEntry) map[model.Mood]int {
	counts := make(map[model.Mood]int)
	for _, e := range entries {
		if e.Mood != "" {
			counts[e.Mood]++
		}
	}
	return counts
}

// NegativeMoodRatio is the share of mood-bearing entries with a negative mood.
func NegativeMoodRatio(entries []model.LogEntry) float64 {
	var total, negative int
	for _, e := range entries {
		if e.Mood == "" {
			continue
		}
		total++
		if e.Mood.Negative() {
			negative++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(negative) / float64(total)
}

// AverageFocus averages the focus levels present in entries.
// It returns 0 and 0 samples when no entry records focus.
func AverageFocus(entries []model.LogEntry) (float64, int) {
	var sum, n int
	for _, e := range entries {
		if e.FocusLevel != nil {
			sum += *e.FocusLevel
			n++
		}
	}
	if n == 0 {
		return 0, 0
	}
	return float64(sum) / float64(n), n
}

// CountByWeekday tallies items by the weekday of their date.
func CountByWeekday[T any](items []T, dateOf func(T) time.Time) map[time.Weekday]int {
	counts := make(map[time.Weekday]int)
	for _, it := range items {
		counts[dateOf(it).Weekday()]++
	}
	return counts
}

// RankedCount is a label with its count.
type RankedCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// RankCounts orders a count map by count descending, then label ascending.
func RankCounts[K ~string](counts map[K]int) []RankedCount {
	out := make([]RankedCount, 0, len(counts))
	for k, c := range counts {
		out = append(out, RankedCount{Label: string(k), Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// Round2 rounds v to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
