package progress

import "questTally/services/achievement"

// DeriveLevel returns the highest 1-based upgrade tier whose threshold the
// count has reached, or 0 when no tier qualifies. Upgrades are sorted
// ascending by RequiredCount, so the scan runs from the top tier down and
// stops at the first satisfied threshold. Lists are tiny; no need for a
// binary search here.
func DeriveLevel(count int64, upgrades []achievement.AchievementUpgrade) int {
	for i := len(upgrades) - 1; i >= 0; i-- {
		if count >= upgrades[i].RequiredCount {
			return i + 1
		}
	}
	return 0
}

// applyDelta applies a signed delta to a counter, flooring at zero.
func applyDelta(count, delta int64) int64 {
	result := count + delta
	if result < 0 {
		return 0
	}
	return result
}

// PointsForCount returns the points a counter is worth: the base points plus
// the incremental points of every reached upgrade tier. A zero count is
// worth nothing.
func PointsForCount(a achievement.GlobalAchievement, count int64) int64 {
	if count <= 0 {
		return 0
	}
	total := a.BasePoints
	level := DeriveLevel(count, a.Upgrades)
	for i := 0; i < level; i++ {
		total += a.Upgrades[i].Points
	}
	return total
}
