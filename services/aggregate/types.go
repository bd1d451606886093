package aggregate

import "time"

// UserGlobalAchievement is the per-(user, achievement) rollup across every
// campaign and session. It is derived entirely from the session award
// history; recomputing it is idempotent.
type UserGlobalAchievement struct {
	ID                  string    `firestore:"id" json:"id"`
	UserID              string    `firestore:"userId" json:"userId"`
	GlobalAchievementID string    `firestore:"globalAchievementId" json:"globalAchievementId"`
	AchievementName     string    `firestore:"achievementName" json:"achievementName"`
	TotalCount          int64     `firestore:"totalCount" json:"totalCount"`
	TotalPoints         int64     `firestore:"totalPoints" json:"totalPoints"`
	CurrentLevel        int       `firestore:"currentLevel" json:"currentLevel"`
	FirstEarnedAt       time.Time `firestore:"firstEarnedAt" json:"firstEarnedAt"`
	LastEarnedAt        time.Time `firestore:"lastEarnedAt" json:"lastEarnedAt"`
	CampaignsEarnedIn   []string  `firestore:"campaignsEarnedIn" json:"campaignsEarnedIn"`
	SessionsEarnedIn    []string  `firestore:"sessionsEarnedIn" json:"sessionsEarnedIn"`
	LastSessionEarnedIn string    `firestore:"lastSessionEarnedIn" json:"lastSessionEarnedIn"`
}

// UserStats is the cross-achievement summary for one user.
type UserStats struct {
	TotalPoints        int64 `json:"totalPoints"`
	TotalAchievements  int   `json:"totalAchievements"`
	UniqueAchievements int   `json:"uniqueAchievements"`
	CampaignsPlayed    int   `json:"campaignsPlayed"`
	SessionsPlayed     int   `json:"sessionsPlayed"`
}
