package analytics

import (
	"familycoach/internal/models"
)

// SummarizeSessions builds the parent session overview. Sessions keep the
// order given.
func SummarizeSessions(details []models.SessionDetail) models.SessionOverview {
	overview := models.SessionOverview{
		Sessions: make([]models.SessionSummary, 0, len(details)),
		Trends: models.SessionTrends{
			PatternFrequency: make(map[models.Pattern]int, len(models.AllPatterns)),
		},
	}
	for _, p := range models.AllPatterns {
		overview.Trends.PatternFrequency[p] = 0
	}

	var completedActions, totalActions int
	for _, d := range details {
		summary := models.SessionSummary{
			ID:             d.Session.ID,
			ChildID:        d.Session.ChildID,
			ChildName:      d.ChildName,
			ChildAgeRange:  d.ChildAgeRange,
			Status:         d.Session.Status,
			StartedAt:      d.Session.StartedAt,
			EndedAt:        d.Session.EndedAt,
			Summary:        d.Session.Summary,
			ActionProgress: ActionProgress(d.Actions),
			Patterns:       make(map[models.Pattern]int),
			PatternCount:   len(d.Events),
		}
		for _, e := range d.Events {
			summary.Patterns[e.Pattern]++
			overview.Trends.PatternFrequency[e.Pattern]++
		}

		completedActions += summary.ActionProgress.Completed
		totalActions += summary.ActionProgress.Total
		if d.Session.Status == models.SessionCompleted {
			overview.Trends.CompletedSessions++
		}
		overview.Sessions = append(overview.Sessions, summary)
	}

	overview.Trends.TotalSessions = len(details)
	if totalActions > 0 {
		overview.Trends.OverallCompletionRate = roundInt(float64(completedActions) / float64(totalActions) * 100)
	}
	return overview
}

// ActionProgress counts completed offline actions
func ActionProgress(actions []models.OfflineAction) models.ActionProgress {
	progress := models.ActionProgress{Total: len(actions)}
	for _, a := range actions {
		if a.Completed {
			progress.Completed++
		}
	}
	if progress.Total > 0 {
		progress.CompletionRate = roundInt(float64(progress.Completed) / float64(progress.Total) * 100)
	}
	return progress
}
