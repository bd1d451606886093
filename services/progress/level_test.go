package progress

import (
	"testing"

	"questTally/services/achievement"
)

func slayerTemplate() achievement.GlobalAchievement {
	return achievement.GlobalAchievement{
		ID:         "ach-1",
		Name:       "Monster Slayer",
		BasePoints: 10,
		Upgrades: []achievement.AchievementUpgrade{
			{ID: "u1", Name: "Veteran", RequiredCount: 5, Points: 25},
			{ID: "u2", Name: "Legendary", RequiredCount: 20, Points: 100},
		},
	}
}

func TestDeriveLevel(t *testing.T) {
	upgrades := slayerTemplate().Upgrades

	tests := []struct {
		name  string
		count int64
		want  int
	}{
		{"zero count", 0, 0},
		{"below first threshold", 4, 0},
		{"at first threshold", 5, 1},
		{"between thresholds", 19, 1},
		{"at second threshold", 20, 2},
		{"far beyond top threshold", 1000, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveLevel(tt.count, upgrades); got != tt.want {
				t.Errorf("DeriveLevel(%d) = %d, want %d", tt.count, got, tt.want)
			}
		})
	}

	t.Run("no upgrades is always level 0", func(t *testing.T) {
		if got := DeriveLevel(100, nil); got != 0 {
			t.Errorf("DeriveLevel(100, nil) = %d, want 0", got)
		}
	})

	t.Run("non-decreasing as count increases", func(t *testing.T) {
		prev := 0
		for count := int64(0); count <= 30; count++ {
			level := DeriveLevel(count, upgrades)
			if level < prev {
				t.Fatalf("level decreased from %d to %d at count %d", prev, level, count)
			}
			prev = level
		}
	})
}

func TestApplyDelta(t *testing.T) {
	tests := []struct {
		name  string
		count int64
		delta int64
		want  int64
	}{
		{"simple increment", 4, 1, 5},
		{"large increment", 0, 50, 50},
		{"simple decrement", 5, -2, 3},
		{"decrement to zero", 5, -5, 0},
		{"decrement past zero floors", 5, -10, 0},
		{"decrement from zero stays zero", 0, -1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := applyDelta(tt.count, tt.delta); got != tt.want {
				t.Errorf("applyDelta(%d, %d) = %d, want %d", tt.count, tt.delta, got, tt.want)
			}
		})
	}
}

func TestPointsForCount(t *testing.T) {
	template := slayerTemplate()

	tests := []struct {
		name  string
		count int64
		want  int64
	}{
		{"zero count is worth nothing", 0, 0},
		{"base tier", 1, 10},
		{"first upgrade reached", 5, 35},
		{"second upgrade reached", 20, 135},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PointsForCount(template, tt.count); got != tt.want {
				t.Errorf("PointsForCount(%d) = %d, want %d", tt.count, got, tt.want)
			}
		})
	}
}

// Five +1 increments reach level 1; a decrement of 10 floors the counter
// back to zero and level 0.
func TestIncrementDecrementScenario(t *testing.T) {
	template := slayerTemplate()

	count := int64(0)
	for i := 0; i < 5; i++ {
		count = applyDelta(count, 1)
	}
	if count != 5 {
		t.Fatalf("count after five increments = %d, want 5", count)
	}
	if level := DeriveLevel(count, template.Upgrades); level != 1 {
		t.Fatalf("level at count 5 = %d, want 1", level)
	}

	count = applyDelta(count, -10)
	if count != 0 {
		t.Fatalf("count after decrement = %d, want 0", count)
	}
	if level := DeriveLevel(count, template.Upgrades); level != 0 {
		t.Fatalf("level at count 0 = %d, want 0", level)
	}
}
