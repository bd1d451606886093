package campaign

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"questTally/services/audit"
	"questTally/utils"
)

var NotFound = errors.New("campaign not found")
var ErrDuplicateCharacterName = errors.New("character name is already taken in this campaign")
var ErrEmptyName = errors.New("campaign name must not be empty")
var ErrEmptyDescription = errors.New("campaign description must not be empty")

// Service manages campaigns: the DM-owned containers that sessions and
// progress records are scoped to.
type Service interface {
	Create(ctx context.Context, name, description, dmID, dmName string) (*Campaign, error)

	// GetAll returns active campaigns, newest first.
	GetAll(ctx context.Context) ([]Campaign, error)

	// GetByID returns the campaign, or (nil, nil) when it does not exist.
	GetByID(ctx context.Context, id string) (*Campaign, error)

	// MustGet returns the campaign or NotFound when it does not exist.
	MustGet(ctx context.Context, id string) (*Campaign, error)

	// Join appends a player to the campaign roster. Character names that
	// collide case-insensitively with an existing player are rejected with
	// ErrDuplicateCharacterName. Joining twice with distinct names creates
	// two roster entries.
	Join(ctx context.Context, campaignID, userID, characterName, username string) error

	// RecordSessionCreated bumps the campaign's session counter and last
	// session date after a session has been persisted.
	RecordSessionCreated(ctx context.Context, campaignID string, sessionDate time.Time) error

	// RecordSessionDeleted decrements the session counter. Session numbers
	// already handed out are never reused.
	RecordSessionDeleted(ctx context.Context, campaignID string) error
}

const collection = "campaigns"

type service struct {
	db    *firestore.Client
	audit audit.Service
}

var _ Service = (*service)(nil)

func NewService(db *firestore.Client, auditService audit.Service) Service {
	return &service{
		db:    db,
		audit: auditService,
	}
}

func (s *service) Create(ctx context.Context, name, description, dmID, dmName string) (*Campaign, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyName
	}
	if strings.TrimSpace(description) == "" {
		return nil, ErrEmptyDescription
	}

	ref := s.db.Collection(collection).NewDoc()
	result := Campaign{
		ID:                   ref.ID,
		Name:                 name,
		Description:          description,
		DMID:                 dmID,
		DMName:               dmName,
		IsActive:             true,
		Players:              []CampaignPlayer{},
		AssignedAchievements: []string{},
		TotalSessions:        0,
		CreatedAt:            time.Now(),
	}
	if _, err := ref.Set(ctx, result); err != nil {
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}

	s.audit.Record(ctx, audit.Event{
		UserID:       dmID,
		Username:     dmName,
		Action:       audit.ActionCreateCampaign,
		ResourceType: audit.ResourceCampaign,
		ResourceID:   ref.ID,
		NewValue:     map[string]any{"name": name, "dmId": dmID},
	})

	return &result, nil
}

func (s *service) GetAll(ctx context.Context) ([]Campaign, error) {
	docs, err := s.db.Collection(collection).
		Where("isActive", "==", true).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch campaigns: %w", err)
	}
	return utils.GetAllToStructs[Campaign](docs)
}

func (s *service) GetByID(ctx context.Context, id string) (*Campaign, error) {
	doc, err := s.db.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch campaign: %w", err)
	}
	result := Campaign{}
	if err := doc.DataTo(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *service) MustGet(ctx context.Context, id string) (*Campaign, error) {
	result, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, NotFound
	}
	return result, nil
}

func (s *service) Join(ctx context.Context, campaignID, userID, characterName, username string) error {
	c, err := s.MustGet(ctx, campaignID)
	if err != nil {
		return err
	}
	if hasCharacterName(c.Players, characterName) {
		return ErrDuplicateCharacterName
	}

	player := CampaignPlayer{
		UserID:        userID,
		CharacterName: characterName,
		JoinedAt:      time.Now(),
	}
	_, err = s.db.Collection(collection).Doc(campaignID).Update(ctx, []firestore.Update{
		{Path: "players", Value: firestore.ArrayUnion(player)},
	})
	if err != nil {
		return fmt.Errorf("failed to join campaign: %w", err)
	}

	s.audit.Record(ctx, audit.Event{
		UserID:       userID,
		Username:     username,
		Action:       audit.ActionJoinCampaign,
		ResourceType: audit.ResourceCampaign,
		ResourceID:   campaignID,
		NewValue:     map[string]any{"characterName": characterName},
		Metadata:     map[string]any{"campaignId": campaignID},
	})

	return nil
}

func (s *service) RecordSessionCreated(ctx context.Context, campaignID string, sessionDate time.Time) error {
	_, err := s.db.Collection(collection).Doc(campaignID).Update(ctx, []firestore.Update{
		{Path: "totalSessions", Value: firestore.Increment(1)},
		{Path: "lastSessionDate", Value: sessionDate},
	})
	if err != nil {
		return fmt.Errorf("failed to update campaign session count: %w", err)
	}
	return nil
}

func (s *service) RecordSessionDeleted(ctx context.Context, campaignID string) error {
	_, err := s.db.Collection(collection).Doc(campaignID).Update(ctx, []firestore.Update{
		{Path: "totalSessions", Value: firestore.Increment(-1)},
	})
	if err != nil {
		return fmt.Errorf("failed to update campaign session count: %w", err)
	}
	return nil
}

// hasCharacterName reports whether name collides case-insensitively with an
// existing roster entry.
func hasCharacterName(players []CampaignPlayer, name string) bool {
	for _, p := range players {
		if strings.EqualFold(p.CharacterName, name) {
			return true
		}
	}
	return false
}
