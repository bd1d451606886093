package leaderboard

import (
	"testing"
	"time"

	"questTally/services/progress"
)

func TestAssignRanks(t *testing.T) {
	entries := []LeaderboardEntry{
		{UserID: "a", TotalPoints: 30},
		{UserID: "b", TotalPoints: 20},
		{UserID: "c", TotalPoints: 10},
	}
	ranked := assignRanks(entries)
	for i, want := range []int{1, 2, 3} {
		if ranked[i].Rank != want {
			t.Errorf("entry %d rank = %d, want %d", i, ranked[i].Rank, want)
		}
	}

	t.Run("empty board", func(t *testing.T) {
		if got := assignRanks(nil); len(got) != 0 {
			t.Errorf("assignRanks(nil) = %v, want empty", got)
		}
	})
}

func TestPeriodStart(t *testing.T) {
	// A Wednesday.
	now := time.Date(2025, time.March, 12, 15, 30, 0, 0, time.UTC)

	t.Run("all-time has no cutoff", func(t *testing.T) {
		if got := periodStart(PeriodAllTime, now); !got.IsZero() {
			t.Errorf("periodStart = %v, want zero time", got)
		}
	})

	t.Run("monthly starts on the first", func(t *testing.T) {
		want := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
		if got := periodStart(PeriodMonthly, now); !got.Equal(want) {
			t.Errorf("periodStart = %v, want %v", got, want)
		}
	})

	t.Run("weekly starts on Monday", func(t *testing.T) {
		want := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
		if got := periodStart(PeriodWeekly, now); !got.Equal(want) {
			t.Errorf("periodStart = %v, want %v", got, want)
		}
	})

	t.Run("weekly on a Sunday reaches back six days", func(t *testing.T) {
		sunday := time.Date(2025, time.March, 16, 9, 0, 0, 0, time.UTC)
		want := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
		if got := periodStart(PeriodWeekly, sunday); !got.Equal(want) {
			t.Errorf("periodStart = %v, want %v", got, want)
		}
	})
}

func TestWindowTotals(t *testing.T) {
	cutoff := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	awards := []progress.PlayerSessionAchievement{
		{GlobalAchievementID: "ach-1", Points: 10, EarnedAt: cutoff.Add(-time.Hour)},
		{GlobalAchievementID: "ach-1", Points: 20, EarnedAt: cutoff},
		{GlobalAchievementID: "ach-2", Points: 35, EarnedAt: cutoff.Add(48 * time.Hour)},
	}

	t.Run("cutoff excludes older awards", func(t *testing.T) {
		totals := windowTotals(awards, cutoff)
		if totals.TotalPoints != 55 {
			t.Errorf("TotalPoints = %d, want 55", totals.TotalPoints)
		}
		if totals.TotalAchievements != 2 {
			t.Errorf("TotalAchievements = %d, want 2", totals.TotalAchievements)
		}
		if totals.UniqueAchievements != 2 {
			t.Errorf("UniqueAchievements = %d, want 2", totals.UniqueAchievements)
		}
	})

	t.Run("zero cutoff counts everything", func(t *testing.T) {
		totals := windowTotals(awards, time.Time{})
		if totals.TotalPoints != 65 {
			t.Errorf("TotalPoints = %d, want 65", totals.TotalPoints)
		}
		if totals.TotalAchievements != 3 {
			t.Errorf("TotalAchievements = %d, want 3", totals.TotalAchievements)
		}
	})
}

func TestValidatePeriod(t *testing.T) {
	for _, period := range []string{PeriodAllTime, PeriodMonthly, PeriodWeekly} {
		if err := validatePeriod(period); err != nil {
			t.Errorf("validatePeriod(%q) = %v, want nil", period, err)
		}
	}
	if err := validatePeriod("yearly"); err != ErrUnknownPeriod {
		t.Errorf("validatePeriod(%q) = %v, want ErrUnknownPeriod", "yearly", err)
	}
}
