package leaderboard

import (
	"time"

	"questTally/services/progress"
	"questTally/set"
)

// periodStart returns the cutoff for a period relative to now: the start of
// the calendar month for monthly, the most recent Monday for weekly, and the
// zero time for all-time.
func periodStart(period string, now time.Time) time.Time {
	switch period {
	case PeriodMonthly:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	case PeriodWeekly:
		daysSinceMonday := (int(now.Weekday()) + 6) % 7
		monday := now.AddDate(0, 0, -daysSinceMonday)
		return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, now.Location())
	default:
		return time.Time{}
	}
}

// entryTotals is the windowed summary of an award history.
type entryTotals struct {
	TotalPoints        int64
	TotalAchievements  int
	UniqueAchievements int
}

// windowTotals sums the awards earned at or after the cutoff. A zero cutoff
// counts everything.
func windowTotals(awards []progress.PlayerSessionAchievement, cutoff time.Time) entryTotals {
	achievements := set.New[string]()
	totals := entryTotals{}
	for _, award := range awards {
		if !cutoff.IsZero() && award.EarnedAt.Before(cutoff) {
			continue
		}
		totals.TotalPoints += award.Points
		totals.TotalAchievements++
		achievements.Add(award.GlobalAchievementID)
	}
	totals.UniqueAchievements = achievements.Size()
	return totals
}

// assignRanks numbers the entries 1..n in place. Ranks are relative to the
// page the entries came from, not the whole board.
func assignRanks(entries []LeaderboardEntry) []LeaderboardEntry {
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}
