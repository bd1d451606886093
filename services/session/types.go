package session

import "time"

// Status is freely transitionable by the DM. Any status may be overwritten
// with any other; there is no transition table.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// SessionPlayer is one roster entry with attendance.
type SessionPlayer struct {
	UserID        string    `firestore:"userId" json:"userId"`
	CharacterName string    `firestore:"characterName" json:"characterName"`
	Attended      bool      `firestore:"attended" json:"attended"`
	JoinedAt      time.Time `firestore:"joinedAt" json:"joinedAt"`
}

// Session is one play session within a campaign. SessionNumber is assigned
// at creation and never reused, even after deletion; gaps in the sequence
// are expected.
type Session struct {
	ID                   string          `firestore:"id" json:"id"`
	CampaignID           string          `firestore:"campaignId" json:"campaignId"`
	SessionNumber        int64           `firestore:"sessionNumber" json:"sessionNumber"`
	SessionDate          time.Time       `firestore:"sessionDate" json:"sessionDate"`
	DMID                 string          `firestore:"dmId" json:"dmId"`
	Status               Status          `firestore:"status" json:"status"`
	Players              []SessionPlayer `firestore:"players" json:"players"`
	AssignedAchievements []string        `firestore:"assignedAchievements" json:"assignedAchievements"`
	Notes                string          `firestore:"notes,omitempty" json:"notes,omitempty"`
	Duration             int64           `firestore:"duration,omitempty" json:"duration,omitempty"`
	CreatedAt            time.Time       `firestore:"createdAt" json:"createdAt"`
	UpdatedAt            time.Time       `firestore:"updatedAt" json:"updatedAt"`
}

// CreateInput is the payload for creating a session.
type CreateInput struct {
	CampaignID  string    `json:"campaignId"`
	SessionDate time.Time `json:"sessionDate"`
	DMID        string    `json:"dmId"`
	Notes       string    `json:"notes,omitempty"`
	Duration    int64     `json:"duration,omitempty"`
}

// UpdateInput carries optional partial updates. Nil fields are left
// untouched; the structs tags drive the Firestore field map.
type UpdateInput struct {
	Notes       *string    `structs:"notes,omitempty" json:"notes,omitempty"`
	Duration    *int64     `structs:"duration,omitempty" json:"duration,omitempty"`
	SessionDate *time.Time `structs:"sessionDate,omitempty" json:"sessionDate,omitempty"`
}
