package aggregate

import (
	"slices"
	"time"

	"questTally/services/achievement"
	"questTally/services/progress"
	"questTally/set"
)

// buildRollup derives a rollup from the complete award history for one
// (user, achievement) pair. It is a pure function of its inputs: the same
// history always produces an identical rollup, tracking sets included
// (they are sorted before being returned).
//
// Points are threshold-aware: each award contributes the template's base
// points plus the incremental points of every upgrade tier its count
// reached. The system this replaces summed raw counts in its batch
// recalculation while the live path used real point values; both paths
// share this helper here so they cannot diverge.
func buildRollup(userID, achievementID string, awards []progress.PlayerSessionAchievement, template achievement.GlobalAchievement) UserGlobalAchievement {
	var (
		totalCount  int64
		totalPoints int64
		firstEarned time.Time
		lastEarned  time.Time
		lastSession string
	)
	campaigns := set.New[string]()
	sessions := set.New[string]()

	for _, award := range awards {
		totalCount += award.Count
		totalPoints += progress.PointsForCount(template, award.Count)
		campaigns.Add(award.CampaignID)
		sessions.Add(award.SessionID)

		if firstEarned.IsZero() || award.EarnedAt.Before(firstEarned) {
			firstEarned = award.EarnedAt
		}
		if award.EarnedAt.After(lastEarned) {
			lastEarned = award.EarnedAt
			lastSession = award.SessionID
		}
	}

	campaignsEarnedIn := campaigns.ToSlice()
	sessionsEarnedIn := sessions.ToSlice()
	slices.Sort(campaignsEarnedIn)
	slices.Sort(sessionsEarnedIn)

	return UserGlobalAchievement{
		ID:                  achievementID,
		UserID:              userID,
		GlobalAchievementID: achievementID,
		AchievementName:     template.Name,
		TotalCount:          totalCount,
		TotalPoints:         totalPoints,
		CurrentLevel:        progress.DeriveLevel(totalCount, template.Upgrades),
		FirstEarnedAt:       firstEarned,
		LastEarnedAt:        lastEarned,
		CampaignsEarnedIn:   campaignsEarnedIn,
		SessionsEarnedIn:    sessionsEarnedIn,
		LastSessionEarnedIn: lastSession,
	}
}

// appendSorted adds a value to a sorted slice unless it is already present.
// Tracking sets are kept sorted so incremental bumps and full recomputes
// produce identical documents.
func appendSorted(values []string, value string) []string {
	i, found := slices.BinarySearch(values, value)
	if found {
		return values
	}
	return slices.Insert(values, i, value)
}

// groupByAchievement splits an award history by achievement id.
func groupByAchievement(awards []progress.PlayerSessionAchievement) map[string][]progress.PlayerSessionAchievement {
	groups := make(map[string][]progress.PlayerSessionAchievement)
	for _, award := range awards {
		groups[award.GlobalAchievementID] = append(groups[award.GlobalAchievementID], award)
	}
	return groups
}
