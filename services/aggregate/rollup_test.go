package aggregate

import (
	"reflect"
	"testing"
	"time"

	"questTally/services/achievement"
	"questTally/services/progress"
)

func slayerTemplate() achievement.GlobalAchievement {
	return achievement.GlobalAchievement{
		ID:         "ach-slayer",
		Name:       "Monster Slayer",
		BasePoints: 10,
		Upgrades: []achievement.AchievementUpgrade{
			{ID: "u1", Name: "Veteran", RequiredCount: 5, Points: 25},
			{ID: "u2", Name: "Legendary", RequiredCount: 20, Points: 100},
		},
	}
}

func award(session, campaign string, count int64, earnedAt time.Time) progress.PlayerSessionAchievement {
	return progress.PlayerSessionAchievement{
		SessionID:           session,
		CampaignID:          campaign,
		PlayerID:            "user-1",
		GlobalAchievementID: "ach-slayer",
		Count:               count,
		Points:              progress.PointsForCount(slayerTemplate(), count),
		EarnedAt:            earnedAt,
	}
}

func TestBuildRollup(t *testing.T) {
	base := time.Date(2025, time.March, 1, 19, 0, 0, 0, time.UTC)
	awards := []progress.PlayerSessionAchievement{
		award("sess-2", "camp-1", 3, base.Add(48*time.Hour)),
		award("sess-1", "camp-1", 2, base),
		award("sess-9", "camp-2", 20, base.Add(24*time.Hour)),
	}

	rollup := buildRollup("user-1", "ach-slayer", awards, slayerTemplate())

	if rollup.TotalCount != 25 {
		t.Errorf("TotalCount = %d, want 25", rollup.TotalCount)
	}
	// 3 → 10, 2 → 10, 20 → 135
	if rollup.TotalPoints != 155 {
		t.Errorf("TotalPoints = %d, want 155", rollup.TotalPoints)
	}
	if rollup.CurrentLevel != 2 {
		t.Errorf("CurrentLevel = %d, want 2", rollup.CurrentLevel)
	}
	if !rollup.FirstEarnedAt.Equal(base) {
		t.Errorf("FirstEarnedAt = %v, want %v", rollup.FirstEarnedAt, base)
	}
	if !rollup.LastEarnedAt.Equal(base.Add(48 * time.Hour)) {
		t.Errorf("LastEarnedAt = %v, want %v", rollup.LastEarnedAt, base.Add(48*time.Hour))
	}
	if rollup.LastSessionEarnedIn != "sess-2" {
		t.Errorf("LastSessionEarnedIn = %q, want %q", rollup.LastSessionEarnedIn, "sess-2")
	}
	if want := []string{"camp-1", "camp-2"}; !reflect.DeepEqual(rollup.CampaignsEarnedIn, want) {
		t.Errorf("CampaignsEarnedIn = %v, want %v", rollup.CampaignsEarnedIn, want)
	}
	if want := []string{"sess-1", "sess-2", "sess-9"}; !reflect.DeepEqual(rollup.SessionsEarnedIn, want) {
		t.Errorf("SessionsEarnedIn = %v, want %v", rollup.SessionsEarnedIn, want)
	}
}

// Recomputing from the same history must yield an identical document, award
// order included, or reconciliation would thrash storage on every run.
func TestBuildRollupIdempotent(t *testing.T) {
	base := time.Date(2025, time.March, 1, 19, 0, 0, 0, time.UTC)
	awards := []progress.PlayerSessionAchievement{
		award("sess-3", "camp-2", 1, base.Add(2*time.Hour)),
		award("sess-1", "camp-1", 5, base),
		award("sess-2", "camp-1", 2, base.Add(time.Hour)),
	}

	first := buildRollup("user-1", "ach-slayer", awards, slayerTemplate())

	shuffled := []progress.PlayerSessionAchievement{awards[1], awards[2], awards[0]}
	second := buildRollup("user-1", "ach-slayer", shuffled, slayerTemplate())

	if !reflect.DeepEqual(first, second) {
		t.Errorf("rollup differs across award orderings:\n%+v\n%+v", first, second)
	}
}

func TestBuildRollupEmptyHistory(t *testing.T) {
	rollup := buildRollup("user-1", "ach-slayer", nil, slayerTemplate())
	if rollup.TotalCount != 0 || rollup.TotalPoints != 0 || rollup.CurrentLevel != 0 {
		t.Errorf("empty history rollup = %+v, want zeros", rollup)
	}
}

func TestAppendSorted(t *testing.T) {
	values := appendSorted(nil, "b")
	values = appendSorted(values, "a")
	values = appendSorted(values, "c")
	values = appendSorted(values, "b")

	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(values, want) {
		t.Errorf("appendSorted = %v, want %v", values, want)
	}
}

func TestStatsFromHistory(t *testing.T) {
	base := time.Date(2025, time.March, 1, 19, 0, 0, 0, time.UTC)
	other := award("sess-1", "camp-1", 1, base)
	other.GlobalAchievementID = "ach-other"
	other.Points = 50

	awards := []progress.PlayerSessionAchievement{
		award("sess-1", "camp-1", 2, base),
		award("sess-2", "camp-2", 5, base.Add(time.Hour)),
		other,
	}

	stats := statsFromHistory(awards)
	if stats.TotalAchievements != 3 {
		t.Errorf("TotalAchievements = %d, want 3", stats.TotalAchievements)
	}
	if stats.UniqueAchievements != 2 {
		t.Errorf("UniqueAchievements = %d, want 2", stats.UniqueAchievements)
	}
	// 2 → 10, 5 → 35, plus the flat 50
	if stats.TotalPoints != 95 {
		t.Errorf("TotalPoints = %d, want 95", stats.TotalPoints)
	}
	if stats.CampaignsPlayed != 2 {
		t.Errorf("CampaignsPlayed = %d, want 2", stats.CampaignsPlayed)
	}
	if stats.SessionsPlayed != 2 {
		t.Errorf("SessionsPlayed = %d, want 2", stats.SessionsPlayed)
	}
}

func TestStatsFromEmptyHistory(t *testing.T) {
	stats := statsFromHistory(nil)
	if stats != (UserStats{}) {
		t.Errorf("stats = %+v, want zero value", stats)
	}
}
