package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/fatih/structs"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"questTally/services/audit"
	"questTally/services/campaign"
	"questTally/utils"
)

var NotFound = errors.New("session not found")

// Service manages play sessions and the per-campaign session numbering
// sequence.
type Service interface {
	// Create persists a new session with the next session number, then bumps
	// the campaign's session counter. The two writes are not atomic; a crash
	// in between leaves the counter stale relative to the session documents.
	Create(ctx context.Context, input CreateInput, userID, username string) (*Session, error)

	// GetByID returns the session, or (nil, nil) when it does not exist.
	GetByID(ctx context.Context, id string) (*Session, error)

	// MustGet returns the session or NotFound when it does not exist.
	MustGet(ctx context.Context, id string) (*Session, error)

	// GetAllByCampaign returns a campaign's sessions ordered by session
	// number ascending.
	GetAllByCampaign(ctx context.Context, campaignID string) ([]Session, error)

	// SetStatus overwrites the session status unconditionally. Any
	// transition is accepted.
	SetStatus(ctx context.Context, sessionID string, newStatus Status, userID, username string) error

	// Update applies a partial update of notes, duration, or date.
	Update(ctx context.Context, sessionID string, input UpdateInput, userID, username string) error

	// AddPlayer upserts a roster entry keyed by userId.
	AddPlayer(ctx context.Context, sessionID string, player SessionPlayer, userID, username string) error

	// RemovePlayer drops a roster entry. Removing an absent player is a
	// no-op.
	RemovePlayer(ctx context.Context, sessionID, playerID, userID, username string) error

	// Delete removes the session document and decrements the campaign's
	// session counter. Remaining sessions keep their numbers.
	Delete(ctx context.Context, sessionID, userID, username string) error
}

const collection = "sessions"

type service struct {
	db              *firestore.Client
	campaignService campaign.Service
	audit           audit.Service
}

var _ Service = (*service)(nil)

func NewService(db *firestore.Client, campaignService campaign.Service, auditService audit.Service) Service {
	return &service{
		db:              db,
		campaignService: campaignService,
		audit:           auditService,
	}
}

func (s *service) Create(ctx context.Context, input CreateInput, userID, username string) (*Session, error) {
	c, err := s.campaignService.MustGet(ctx, input.CampaignID)
	if err != nil {
		return nil, err
	}

	highest, err := s.highestSessionNumber(ctx, input.CampaignID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	ref := s.db.Collection(collection).NewDoc()
	result := Session{
		ID:                   ref.ID,
		CampaignID:           input.CampaignID,
		SessionNumber:        nextSessionNumber(c.TotalSessions, highest),
		SessionDate:          input.SessionDate,
		DMID:                 input.DMID,
		Status:               StatusScheduled,
		Players:              []SessionPlayer{},
		AssignedAchievements: []string{},
		Notes:                input.Notes,
		Duration:             input.Duration,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if _, err := ref.Set(ctx, result); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	if err := s.campaignService.RecordSessionCreated(ctx, input.CampaignID, input.SessionDate); err != nil {
		// The session document exists but the counter write failed; report
		// failure rather than silently continuing (no idempotency keys).
		return nil, err
	}

	s.audit.Record(ctx, audit.Event{
		UserID:       userID,
		Username:     username,
		Action:       audit.ActionCreateSession,
		ResourceType: audit.ResourceSession,
		ResourceID:   ref.ID,
		NewValue:     map[string]any{"campaignId": input.CampaignID, "sessionNumber": result.SessionNumber},
		Metadata:     map[string]any{"campaignId": input.CampaignID},
	})

	return &result, nil
}

// nextSessionNumber picks the next number from whichever is further along:
// the campaign counter or the highest number already handed out. The counter
// alone is not enough because it is decremented on deletion while numbers
// are never reused.
func nextSessionNumber(totalSessions, highestExisting int64) int64 {
	if highestExisting > totalSessions {
		return highestExisting + 1
	}
	return totalSessions + 1
}

func (s *service) highestSessionNumber(ctx context.Context, campaignID string) (int64, error) {
	iter := s.db.Collection(collection).
		Where("campaignId", "==", campaignID).
		OrderBy("sessionNumber", firestore.Desc).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if errors.Is(err, iterator.Done) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to fetch latest session: %w", err)
	}
	latest := Session{}
	if err := doc.DataTo(&latest); err != nil {
		return 0, err
	}
	return latest.SessionNumber, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Session, error) {
	doc, err := s.db.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch session: %w", err)
	}
	result := Session{}
	if err := doc.DataTo(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *service) MustGet(ctx context.Context, id string) (*Session, error) {
	result, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, NotFound
	}
	return result, nil
}

func (s *service) GetAllByCampaign(ctx context.Context, campaignID string) ([]Session, error) {
	docs, err := s.db.Collection(collection).
		Where("campaignId", "==", campaignID).
		OrderBy("sessionNumber", firestore.Asc).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch campaign sessions: %w", err)
	}
	return utils.GetAllToStructs[Session](docs)
}

func (s *service) SetStatus(ctx context.Context, sessionID string, newStatus Status, userID, username string) error {
	existing, err := s.MustGet(ctx, sessionID)
	if err != nil {
		return err
	}

	_, err = s.db.Collection(collection).Doc(sessionID).Set(ctx, map[string]any{
		"status":    newStatus,
		"updatedAt": time.Now(),
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("failed to update session status: %w", err)
	}

	s.audit.Record(ctx, audit.Event{
		UserID:       userID,
		Username:     username,
		Action:       audit.ActionUpdateSession,
		ResourceType: audit.ResourceSession,
		ResourceID:   sessionID,
		OldValue:     map[string]any{"status": existing.Status},
		NewValue:     map[string]any{"status": newStatus},
		Metadata:     map[string]any{"sessionId": sessionID},
	})

	return nil
}

func (s *service) Update(ctx context.Context, sessionID string, input UpdateInput, userID, username string) error {
	existing, err := s.MustGet(ctx, sessionID)
	if err != nil {
		return err
	}

	fields := structs.Map(input)
	if len(fields) == 0 {
		slog.Info("session update with no fields, skipping", "sessionId", sessionID)
		return nil
	}
	fields["updatedAt"] = time.Now()

	_, err = s.db.Collection(collection).Doc(sessionID).Set(ctx, fields, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	s.audit.Record(ctx, audit.Event{
		UserID:       userID,
		Username:     username,
		Action:       audit.ActionUpdateSession,
		ResourceType: audit.ResourceSession,
		ResourceID:   sessionID,
		OldValue:     map[string]any{"notes": existing.Notes, "duration": existing.Duration},
		NewValue:     fields,
		Metadata:     map[string]any{"sessionId": sessionID},
	})

	return nil
}

func (s *service) AddPlayer(ctx context.Context, sessionID string, player SessionPlayer, userID, username string) error {
	existing, err := s.MustGet(ctx, sessionID)
	if err != nil {
		return err
	}
	player.JoinedAt = time.Now()

	players := upsertPlayer(existing.Players, player)
	_, err = s.db.Collection(collection).Doc(sessionID).Set(ctx, map[string]any{
		"players":   players,
		"updatedAt": time.Now(),
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("failed to add player to session: %w", err)
	}

	s.audit.Record(ctx, audit.Event{
		UserID:       userID,
		Username:     username,
		Action:       audit.ActionUpdateSession,
		ResourceType: audit.ResourceSession,
		ResourceID:   sessionID,
		NewValue:     map[string]any{"playerAdded": player.UserID},
		Metadata:     map[string]any{"sessionId": sessionID, "playerId": player.UserID},
	})

	return nil
}

func (s *service) RemovePlayer(ctx context.Context, sessionID, playerID, userID, username string) error {
	existing, err := s.MustGet(ctx, sessionID)
	if err != nil {
		return err
	}

	players := make([]SessionPlayer, 0, len(existing.Players))
	for _, p := range existing.Players {
		if p.UserID != playerID {
			players = append(players, p)
		}
	}

	_, err = s.db.Collection(collection).Doc(sessionID).Set(ctx, map[string]any{
		"players":   players,
		"updatedAt": time.Now(),
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("failed to remove player from session: %w", err)
	}

	s.audit.Record(ctx, audit.Event{
		UserID:       userID,
		Username:     username,
		Action:       audit.ActionUpdateSession,
		ResourceType: audit.ResourceSession,
		ResourceID:   sessionID,
		OldValue:     map[string]any{"playerRemoved": playerID},
		Metadata:     map[string]any{"sessionId": sessionID, "playerId": playerID},
	})

	return nil
}

func (s *service) Delete(ctx context.Context, sessionID, userID, username string) error {
	existing, err := s.MustGet(ctx, sessionID)
	if err != nil {
		return err
	}

	if _, err := s.db.Collection(collection).Doc(sessionID).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	if err := s.campaignService.RecordSessionDeleted(ctx, existing.CampaignID); err != nil {
		return err
	}

	s.audit.Record(ctx, audit.Event{
		UserID:       userID,
		Username:     username,
		Action:       audit.ActionDeleteSession,
		ResourceType: audit.ResourceSession,
		ResourceID:   sessionID,
		OldValue:     map[string]any{"campaignId": existing.CampaignID, "sessionNumber": existing.SessionNumber},
		Metadata:     map[string]any{"campaignId": existing.CampaignID},
	})

	return nil
}

// upsertPlayer replaces the roster entry for the player's userId or appends
// a new one.
func upsertPlayer(players []SessionPlayer, player SessionPlayer) []SessionPlayer {
	for i, p := range players {
		if p.UserID == player.UserID {
			updated := make([]SessionPlayer, len(players))
			copy(updated, players)
			updated[i] = player
			return updated
		}
	}
	return append(players, player)
}
