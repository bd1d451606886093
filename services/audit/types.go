package audit

import "time"

// Log is one append-only audit record. Old/new values are stored as
// free-form maps since every resource type passes through here.
type Log struct {
	ID           string         `firestore:"id" json:"id"`
	UserID       string         `firestore:"userId" json:"userId"`
	Username     string         `firestore:"username" json:"username"`
	Action       string         `firestore:"action" json:"action"`
	ResourceType string         `firestore:"resourceType" json:"resourceType"`
	ResourceID   string         `firestore:"resourceId" json:"resourceId"`
	OldValue     map[string]any `firestore:"oldValue,omitempty" json:"oldValue,omitempty"`
	NewValue     map[string]any `firestore:"newValue,omitempty" json:"newValue,omitempty"`
	Metadata     map[string]any `firestore:"metadata,omitempty" json:"metadata,omitempty"`
	Timestamp    time.Time      `firestore:"timestamp" json:"timestamp"`
}

// Event is the caller-facing payload for Record.
type Event struct {
	UserID       string
	Username     string
	Action       string
	ResourceType string
	ResourceID   string
	OldValue     map[string]any
	NewValue     map[string]any
	Metadata     map[string]any
}

// Filters narrows List results. Zero values are ignored.
type Filters struct {
	UserID       string
	Action       string
	ResourceType string
	ResourceID   string
	StartDate    time.Time
	EndDate      time.Time
	Limit        int
}

// Campaign actions
const (
	ActionCreateCampaign = "create_campaign"
	ActionUpdateCampaign = "update_campaign"
	ActionJoinCampaign   = "join_campaign"
	ActionLeaveCampaign  = "leave_campaign"
)

// Session actions
const (
	ActionCreateSession = "create_session"
	ActionUpdateSession = "update_session"
	ActionDeleteSession = "delete_session"
)

// Achievement actions
const (
	ActionCreateAchievement = "create_achievement"
	ActionAssignAchievement = "assign_achievement"
	ActionAwardAchievement  = "award_achievement"
	ActionUpdateAchievement = "update_achievement"
)

// User and leaderboard actions
const (
	ActionCreateUser          = "create_user"
	ActionUpdateUserStats     = "update_user_stats"
	ActionUpdateLeaderboard   = "update_leaderboard"
	ActionLeaderboardSnapshot = "generate_leaderboard_snapshot"
)

// Resource types
const (
	ResourceCampaign    = "campaign"
	ResourceSession     = "session"
	ResourceAchievement = "achievement"
	ResourceUser        = "user"
	ResourceLeaderboard = "leaderboard"
)
