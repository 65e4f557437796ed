package analytics

import (
	"testing"
	"time"

	"familycoach/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func event(p models.Pattern, confidence int, day int) models.PatternEvent {
	return models.PatternEvent{
		Pattern:    p,
		Confidence: confidence,
		CreatedAt:  t0.AddDate(0, 0, day),
	}
}

func TestComputePatternAnalyticsEmpty(t *testing.T) {
	got := ComputePatternAnalytics(nil, models.TimeframeMonth)

	assert.Equal(t, 0, got.TotalEvents)
	assert.Equal(t, models.TimeframeMonth, got.Timeframe)
	require.Len(t, got.PatternBreakdown, 3)
	for _, p := range models.AllPatterns {
		assert.Equal(t, models.PatternBreakdown{}, got.PatternBreakdown[p])
	}

	require.Len(t, got.Insights, 3)
	for i, insight := range got.Insights {
		assert.Equal(t, models.AllPatterns[i], insight.Pattern)
		assert.Equal(t, 0, insight.Frequency)
		assert.Equal(t, 0, insight.AvgConfidence)
		assert.Equal(t, models.TrendStable, insight.Trend)
		assert.Nil(t, insight.LastSeen)
	}
}

func TestComputePatternAnalyticsSinglePattern(t *testing.T) {
	events := []models.PatternEvent{
		event(models.PatternPerfectionParalysis, 5, 0),
		event(models.PatternPerfectionParalysis, 3, 1),
	}

	got := ComputePatternAnalytics(events, models.TimeframeWeek)

	assert.Equal(t, 2, got.TotalEvents)
	assert.Equal(t, models.PatternBreakdown{Count: 2, Percentage: 100, AvgConfidence: 4},
		got.PatternBreakdown[models.PatternPerfectionParalysis])
	assert.Equal(t, models.PatternBreakdown{}, got.PatternBreakdown[models.PatternAvoidanceLoop])

	insight := got.Insights[2]
	assert.Equal(t, models.PatternPerfectionParalysis, insight.Pattern)
	assert.Equal(t, 2, insight.Frequency)
	assert.Equal(t, 4, insight.AvgConfidence)
	require.NotNil(t, insight.LastSeen)
	assert.Equal(t, t0.AddDate(0, 0, 1), *insight.LastSeen)
}

func TestComputePatternAnalyticsPercentagesRoundIndependently(t *testing.T) {
	events := []models.PatternEvent{
		event(models.PatternAvoidanceLoop, 1, 0),
		event(models.PatternImpulsivityOverrun, 2, 1),
		event(models.PatternPerfectionParalysis, 4, 2),
	}

	got := ComputePatternAnalytics(events, models.TimeframeQuarter)

	sum := 0
	for _, p := range models.AllPatterns {
		assert.Equal(t, 33, got.PatternBreakdown[p].Percentage)
		sum += got.PatternBreakdown[p].Percentage
	}
	assert.Equal(t, 99, sum)
}

func TestComputePatternAnalyticsRoundsConfidenceHalfUp(t *testing.T) {
	events := []models.PatternEvent{
		event(models.PatternAvoidanceLoop, 2, 0),
		event(models.PatternAvoidanceLoop, 3, 1),
	}

	got := ComputePatternAnalytics(events, models.TimeframeMonth)
	assert.Equal(t, 3, got.PatternBreakdown[models.PatternAvoidanceLoop].AvgConfidence)
}

func TestComputePatternAnalyticsLastSeenIsNewest(t *testing.T) {
	events := []models.PatternEvent{
		event(models.PatternAvoidanceLoop, 2, 0),
		event(models.PatternImpulsivityOverrun, 2, 3),
		event(models.PatternAvoidanceLoop, 4, 5),
		event(models.PatternImpulsivityOverrun, 1, 6),
	}

	got := ComputePatternAnalytics(events, models.TimeframeMonth)

	require.NotNil(t, got.Insights[0].LastSeen)
	assert.Equal(t, t0.AddDate(0, 0, 5), *got.Insights[0].LastSeen)
	require.NotNil(t, got.Insights[1].LastSeen)
	assert.Equal(t, t0.AddDate(0, 0, 6), *got.Insights[1].LastSeen)
	assert.Nil(t, got.Insights[2].LastSeen)
}

func TestTrend(t *testing.T) {
	tests := []struct {
		n    int
		want models.Trend
	}{
		{0, models.TrendStable},
		{1, models.TrendStable},
		{2, models.TrendStable},
		{3, models.TrendIncreasing},
		{4, models.TrendStable},
		{5, models.TrendIncreasing},
		{6, models.TrendStable},
	}

	for _, tt := range tests {
		events := make([]models.PatternEvent, tt.n)
		for i := range events {
			events[i] = event(models.PatternAvoidanceLoop, 3, i)
		}
		assert.Equal(t, tt.want, Trend(events), "n=%d", tt.n)
	}
}

func TestTimeframeStart(t *testing.T) {
	now := time.Date(2026, 5, 31, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2026, 5, 24, 12, 0, 0, 0, time.UTC), TimeframeStart(models.TimeframeWeek, now))
	assert.Equal(t, time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC), TimeframeStart(models.TimeframeMonth, now))
	assert.Equal(t, time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC), TimeframeStart(models.TimeframeQuarter, now))
	assert.Equal(t, TimeframeStart(models.TimeframeMonth, now), TimeframeStart("", now))
}

func TestSuggestions(t *testing.T) {
	stable := Suggestions(models.PatternAvoidanceLoop, 2, models.TrendStable)
	assert.Len(t, stable, 2)

	rising := Suggestions(models.PatternAvoidanceLoop, 3, models.TrendIncreasing)
	assert.Len(t, rising, 3)
	assert.Contains(t, rising, "Consider scheduling regular check-ins to maintain momentum")

	frequent := Suggestions(models.PatternPerfectionParalysis, 6, models.TrendStable)
	assert.Contains(t, frequent, "Consider discussing these patterns with a professional")
}
