package campaign

import "time"

// CampaignPlayer is one member of a campaign roster. A userId may appear
// more than once (re-joining under a new character is permitted); character
// names are unique within a campaign, case-insensitively.
type CampaignPlayer struct {
	UserID        string    `firestore:"userId" json:"userId"`
	CharacterName string    `firestore:"characterName" json:"characterName"`
	JoinedAt      time.Time `firestore:"joinedAt" json:"joinedAt"`
}

// Campaign is a DM-owned container of players and sessions. TotalSessions
// is a monotonic counter used to assign session numbers; it is decremented
// on session deletion but existing numbers are never reused.
type Campaign struct {
	ID                   string           `firestore:"id" json:"id"`
	Name                 string           `firestore:"name" json:"name"`
	Description          string           `firestore:"description" json:"description"`
	DMID                 string           `firestore:"dmId" json:"dmId"`
	DMName               string           `firestore:"dmName" json:"dmName"`
	IsActive             bool             `firestore:"isActive" json:"isActive"`
	Players              []CampaignPlayer `firestore:"players" json:"players"`
	AssignedAchievements []string         `firestore:"assignedAchievements" json:"assignedAchievements"`
	TotalSessions        int64            `firestore:"totalSessions" json:"totalSessions"`
	LastSessionDate      *time.Time       `firestore:"lastSessionDate,omitempty" json:"lastSessionDate,omitempty"`
	CreatedAt            time.Time        `firestore:"createdAt" json:"createdAt"`
}
