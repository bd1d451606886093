package progress

import "time"

// PlayerAchievement is a campaign-scoped progress counter, keyed by
// (playerId, globalAchievementId, campaignId). Count never goes negative;
// CurrentLevel is always re-derived from Count against the template's
// upgrade thresholds.
type PlayerAchievement struct {
	ID                  string    `firestore:"id" json:"id"`
	PlayerID            string    `firestore:"playerId" json:"playerId"`
	GlobalAchievementID string    `firestore:"globalAchievementId" json:"globalAchievementId"`
	CampaignID          string    `firestore:"campaignId" json:"campaignId"`
	Count               int64     `firestore:"count" json:"count"`
	CurrentLevel        int       `firestore:"currentLevel" json:"currentLevel"`
	AssignedBy          string    `firestore:"assignedBy,omitempty" json:"assignedBy,omitempty"`
	LastUpdated         time.Time `firestore:"lastUpdated" json:"lastUpdated"`
}

// PlayerSessionAchievement is one session-scoped award. Repeated awards for
// the same (session, player, achievement) create new documents; the award
// history is append-only.
type PlayerSessionAchievement struct {
	ID                  string    `firestore:"id" json:"id"`
	SessionID           string    `firestore:"sessionId" json:"sessionId"`
	CampaignID          string    `firestore:"campaignId" json:"campaignId"`
	PlayerID            string    `firestore:"playerId" json:"playerId"`
	GlobalAchievementID string    `firestore:"globalAchievementId" json:"globalAchievementId"`
	Count               int64     `firestore:"count" json:"count"`
	CurrentLevel        int       `firestore:"currentLevel" json:"currentLevel"`
	Points              int64     `firestore:"points" json:"points"`
	EarnedAt            time.Time `firestore:"earnedAt" json:"earnedAt"`
	AssignedBy          string    `firestore:"assignedBy" json:"assignedBy"`
}

// SessionAssignment links a global achievement to a session it can be
// awarded in.
type SessionAssignment struct {
	ID                  string    `firestore:"id" json:"id"`
	SessionID           string    `firestore:"sessionId" json:"sessionId"`
	CampaignID          string    `firestore:"campaignId" json:"campaignId"`
	GlobalAchievementID string    `firestore:"globalAchievementId" json:"globalAchievementId"`
	AssignedBy          string    `firestore:"assignedBy" json:"assignedBy"`
	AssignedAt          time.Time `firestore:"assignedAt" json:"assignedAt"`
	IsActive            bool      `firestore:"isActive" json:"isActive"`
}
