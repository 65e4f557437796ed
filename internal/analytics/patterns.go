// Package analytics derives dashboard figures from stored pattern events and
// sessions. Every function is pure.
package analytics

import (
	"math"
	"time"

	"familycoach/internal/models"
)

// ComputePatternAnalytics aggregates events, which must be in ascending
// chronological order (oldest first).
func ComputePatternAnalytics(events []models.PatternEvent, timeframe models.Timeframe) models.PatternAnalytics {
	byPattern := make(map[models.Pattern][]models.PatternEvent, len(models.AllPatterns))
	for _, e := range events {
		byPattern[e.Pattern] = append(byPattern[e.Pattern], e)
	}

	total := len(events)
	result := models.PatternAnalytics{
		TotalEvents:      total,
		PatternBreakdown: make(map[models.Pattern]models.PatternBreakdown, len(models.AllPatterns)),
		Insights:         make([]models.PatternInsight, 0, len(models.AllPatterns)),
		Timeframe:        timeframe,
	}

	for _, p := range models.AllPatterns {
		list := byPattern[p]
		count := len(list)
		avg := averageConfidence(list)

		breakdown := models.PatternBreakdown{Count: count, AvgConfidence: avg}
		if total > 0 && count > 0 {
			breakdown.Percentage = roundInt(float64(count) / float64(total) * 100)
		}
		result.PatternBreakdown[p] = breakdown

		trend := Trend(list)
		result.Insights = append(result.Insights, models.PatternInsight{
			Pattern:       p,
			Frequency:     count,
			AvgConfidence: avg,
			Trend:         trend,
			LastSeen:      lastSeen(list),
			Suggestions:   Suggestions(p, count, trend),
		})
	}

	return result
}

// Trend bisects a single pattern's events by index, in the order given, and
// compares the sizes of the two halves. It is a frequency-shift heuristic,
// not a statistical test. Because the second half is never the smaller one,
// an index split yields stable for even counts and increasing for odd counts
// from three to nine.
func Trend(events []models.PatternEvent) models.Trend {
	if len(events) < 2 {
		return models.TrendStable
	}

	mid := len(events) / 2
	first := float64(mid)
	second := float64(len(events) - mid)

	switch {
	case second > first*1.2:
		return models.TrendIncreasing
	case second < first*0.8:
		return models.TrendDecreasing
	default:
		return models.TrendStable
	}
}

// TimeframeStart returns the earliest creation time included in a timeframe
func TimeframeStart(timeframe models.Timeframe, now time.Time) time.Time {
	switch timeframe {
	case models.TimeframeWeek:
		return now.AddDate(0, 0, -7)
	case models.TimeframeQuarter:
		return now.AddDate(0, -3, 0)
	default:
		return now.AddDate(0, -1, 0)
	}
}

func averageConfidence(events []models.PatternEvent) int {
	if len(events) == 0 {
		return 0
	}
	sum := 0
	for _, e := range events {
		sum += e.Confidence
	}
	return roundInt(float64(sum) / float64(len(events)))
}

// lastSeen is the newest event, the last one under ascending order
func lastSeen(events []models.PatternEvent) *time.Time {
	if len(events) == 0 {
		return nil
	}
	t := events[len(events)-1].CreatedAt
	return &t
}

// roundInt rounds half away from zero
func roundInt(f float64) int {
	return int(math.Round(f))
}
