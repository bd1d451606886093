package achievement

import "time"

// AchievementUpgrade is one tier above the base achievement. Upgrades are
// stored sorted ascending by RequiredCount; the slice index order is the
// level order.
type AchievementUpgrade struct {
	ID            string `firestore:"id" json:"id"`
	Name          string `firestore:"name" json:"name"`
	Description   string `firestore:"description" json:"description"`
	RequiredCount int64  `firestore:"requiredCount" json:"requiredCount"`
	Points        int64  `firestore:"points" json:"points"`
}

// GlobalAchievement is a reusable achievement template. BasePoints and the
// base name/description apply at level 0; each upgrade defines the next
// level's threshold and incremental point value.
type GlobalAchievement struct {
	ID          string               `firestore:"id" json:"id"`
	Name        string               `firestore:"name" json:"name"`
	Description string               `firestore:"description" json:"description"`
	BasePoints  int64                `firestore:"basePoints" json:"basePoints"`
	Upgrades    []AchievementUpgrade `firestore:"upgrades" json:"upgrades"`
	CreatedBy   string               `firestore:"createdBy" json:"createdBy"`
	IsPublic    bool                 `firestore:"isPublic" json:"isPublic"`
	CreatedAt   time.Time            `firestore:"createdAt" json:"createdAt"`
}

// CampaignAssignment links a global achievement to a campaign it can be
// earned in.
type CampaignAssignment struct {
	ID                  string    `firestore:"id" json:"id"`
	GlobalAchievementID string    `firestore:"globalAchievementId" json:"globalAchievementId"`
	CampaignID          string    `firestore:"campaignId" json:"campaignId"`
	AssignedBy          string    `firestore:"assignedBy" json:"assignedBy"`
	AssignedAt          time.Time `firestore:"assignedAt" json:"assignedAt"`
}

// UpgradeInput is one upgrade tier in a CreateInput.
type UpgradeInput struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	RequiredCount int64  `json:"requiredCount"`
	Points        int64  `json:"points"`
}

// CreateInput is the payload for creating a global achievement. IsPublic
// defaults to true when nil.
type CreateInput struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	BasePoints  int64          `json:"basePoints"`
	Upgrades    []UpgradeInput `json:"upgrades"`
	CreatedBy   string         `json:"createdBy"`
	IsPublic    *bool          `json:"isPublic,omitempty"`
}
