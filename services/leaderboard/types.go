package leaderboard

import "time"

const (
	PeriodAllTime = "all-time"
	PeriodMonthly = "monthly"
	PeriodWeekly  = "weekly"
)

// LeaderboardEntry is one user's standing within a period. Entries live at
// leaderboard/{period}/entries/{userId}; Rank is derived at read time from
// the entry's position in the ordered page, never stored.
type LeaderboardEntry struct {
	ID                 string    `firestore:"id" json:"id"`
	Period             string    `firestore:"period" json:"period"`
	UserID             string    `firestore:"userId" json:"userId"`
	Username           string    `firestore:"username" json:"username"`
	DisplayName        string    `firestore:"displayName" json:"displayName"`
	TotalPoints        int64     `firestore:"totalPoints" json:"totalPoints"`
	TotalAchievements  int       `firestore:"totalAchievements" json:"totalAchievements"`
	UniqueAchievements int       `firestore:"uniqueAchievements" json:"uniqueAchievements"`
	Rank               int       `firestore:"-" json:"rank"`
	UpdatedAt          time.Time `firestore:"updatedAt" json:"updatedAt"`
}

// LeaderboardSnapshot is an immutable capture of the top of a leaderboard.
type LeaderboardSnapshot struct {
	ID            string             `firestore:"id" json:"id"`
	Period        string             `firestore:"period" json:"period"`
	TakenAt       time.Time          `firestore:"takenAt" json:"takenAt"`
	Entries       []LeaderboardEntry `firestore:"entries" json:"entries"`
	ArchiveObject string             `firestore:"archiveObject,omitempty" json:"archiveObject,omitempty"`
}

// LeaderboardStats summarizes a period's leaderboard.
type LeaderboardStats struct {
	Period        string            `json:"period"`
	TotalPlayers  int               `json:"totalPlayers"`
	TotalPoints   int64             `json:"totalPoints"`
	AveragePoints float64           `json:"averagePoints"`
	TopEntry      *LeaderboardEntry `json:"topEntry,omitempty"`
}

// Comparison puts two users' standings side by side.
type Comparison struct {
	Period      string            `json:"period"`
	A           *LeaderboardEntry `json:"a"`
	B           *LeaderboardEntry `json:"b"`
	PointsDelta int64             `json:"pointsDelta"`
}
