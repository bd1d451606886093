package user

import "time"

// User is a registered account. The document id matches the auth provider's
// uid so token subjects map straight to documents. TotalGlobalPoints and
// TotalGlobalAchievements are denormalized from the award history; the
// aggregate service owns keeping them fresh.
type User struct {
	ID                      string    `firestore:"id" json:"id"`
	Username                string    `firestore:"username" json:"username"`
	DisplayName             string    `firestore:"displayName" json:"displayName"`
	Email                   string    `firestore:"email" json:"email"`
	AvatarURL               string    `firestore:"avatarUrl,omitempty" json:"avatarUrl,omitempty"`
	TotalGlobalPoints       int64     `firestore:"totalGlobalPoints" json:"totalGlobalPoints"`
	TotalGlobalAchievements int64     `firestore:"totalGlobalAchievements" json:"totalGlobalAchievements"`
	CreatedAt               time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt               time.Time `firestore:"updatedAt" json:"updatedAt"`
}

// SearchUserResult is one hit from the user search index.
type SearchUserResult struct {
	ObjectID    string `json:"objectID"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
}
