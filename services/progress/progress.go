package progress

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"questTally/services/achievement"
	"questTally/services/audit"
	"questTally/services/session"
	"questTally/utils"
)

var NotFound = errors.New("progress record not found")
var ErrInvalidDelta = errors.New("delta must be positive")
var ErrAlreadyAssigned = errors.New("player already has this achievement")

// Service is the progress ledger: per-(player, achievement, scope) counters
// with derived levels, plus the append-only session award history.
type Service interface {
	// Increment adds delta to a player's campaign-scoped counter, creating
	// the record on first use. Counter updates run in a transaction so
	// concurrent increments cannot lose an update.
	Increment(ctx context.Context, playerID, achievementID, campaignID string, delta int64, username string) (*PlayerAchievement, error)

	// Decrement subtracts delta, flooring at zero. Decrementing an absent
	// record is a no-op and returns (nil, nil).
	Decrement(ctx context.Context, playerID, achievementID, campaignID string, delta int64, username string) (*PlayerAchievement, error)

	// AssignToPlayer creates a zero-count campaign-scoped record so the
	// achievement shows up for the player before any progress is made.
	// Returns ErrAlreadyAssigned when a record already exists.
	AssignToPlayer(ctx context.Context, playerID, achievementID, campaignID, assignedBy, username string) error

	// Award creates a new session-scoped award with an absolute count.
	// Repeated awards for the same key create duplicate records. Fails with
	// session.NotFound or achievement.NotFound for dangling references.
	Award(ctx context.Context, sessionID, playerID, achievementID string, count int64, awardedBy, username string) (*PlayerSessionAchievement, error)

	// UpdateAward rewrites an existing award's count and re-derives its
	// level and points.
	UpdateAward(ctx context.Context, awardID string, newCount int64, userID, username string) error

	// AssignToSession links an achievement to a session it can be awarded
	// in.
	AssignToSession(ctx context.Context, sessionID, achievementID, userID, username string) (string, error)

	// SessionAssignments returns the achievements assigned to a session,
	// joined with template data.
	SessionAssignments(ctx context.Context, sessionID string) ([]achievement.GlobalAchievement, error)

	// PlayerCampaignProgress returns a player's campaign-scoped counters.
	PlayerCampaignProgress(ctx context.Context, playerID, campaignID string) ([]PlayerAchievement, error)

	// SessionProgress returns a player's awards within one session.
	SessionProgress(ctx context.Context, sessionID, playerID string) ([]PlayerSessionAchievement, error)

	// CampaignHistory returns all awards across a campaign, newest first.
	CampaignHistory(ctx context.Context, campaignID string) ([]PlayerSessionAchievement, error)

	// UserHistory returns every award a user has ever earned, newest first.
	// This is the input the global aggregator recomputes from.
	UserHistory(ctx context.Context, userID string) ([]PlayerSessionAchievement, error)
}

const (
	campaignCollection    = "playerAchievements"
	sessionCollection     = "playerSessionAchievements"
	assignmentsCollection = "sessionAchievements"
	sessionsCollection    = "sessions"
)

type service struct {
	db                 *firestore.Client
	achievementService achievement.Service
	sessionService     session.Service
	audit              audit.Service
}

var _ Service = (*service)(nil)

func NewService(db *firestore.Client, achievementService achievement.Service, sessionService session.Service, auditService audit.Service) Service {
	return &service{
		db:                 db,
		achievementService: achievementService,
		sessionService:     sessionService,
		audit:              auditService,
	}
}

func (s *service) Increment(ctx context.Context, playerID, achievementID, campaignID string, delta int64, username string) (*PlayerAchievement, error) {
	if delta <= 0 {
		return nil, ErrInvalidDelta
	}
	return s.adjust(ctx, playerID, achievementID, campaignID, delta, username)
}

func (s *service) Decrement(ctx context.Context, playerID, achievementID, campaignID string, delta int64, username string) (*PlayerAchievement, error) {
	if delta <= 0 {
		return nil, ErrInvalidDelta
	}
	return s.adjust(ctx, playerID, achievementID, campaignID, -delta, username)
}

// adjust applies a signed delta to the campaign-scoped counter inside a
// transaction. The template is immutable once referenced, so it is fetched
// outside the transaction.
func (s *service) adjust(ctx context.Context, playerID, achievementID, campaignID string, delta int64, username string) (*PlayerAchievement, error) {
	template, err := s.achievementService.MustGet(ctx, achievementID)
	if err != nil {
		return nil, err
	}

	var result *PlayerAchievement
	err = s.db.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		query := s.db.Collection(campaignCollection).
			Where("playerId", "==", playerID).
			Where("globalAchievementId", "==", achievementID).
			Where("campaignId", "==", campaignID).
			Limit(1)
		docs, err := tx.Documents(query).GetAll()
		if err != nil {
			return err
		}

		now := time.Now()
		if len(docs) == 0 {
			if delta < 0 {
				// Decrement on an absent record fabricates nothing.
				result = nil
				return nil
			}
			ref := s.db.Collection(campaignCollection).NewDoc()
			record := PlayerAchievement{
				ID:                  ref.ID,
				PlayerID:            playerID,
				GlobalAchievementID: achievementID,
				CampaignID:          campaignID,
				Count:               delta,
				CurrentLevel:        DeriveLevel(delta, template.Upgrades),
				LastUpdated:         now,
			}
			result = &record
			return tx.Set(ref, record)
		}

		record := PlayerAchievement{}
		if err := docs[0].DataTo(&record); err != nil {
			return err
		}
		newCount := applyDelta(record.Count, delta)
		record.Count = newCount
		record.CurrentLevel = DeriveLevel(newCount, template.Upgrades)
		record.LastUpdated = now
		result = &record
		return tx.Update(docs[0].Ref, []firestore.Update{
			{Path: "count", Value: record.Count},
			{Path: "currentLevel", Value: record.CurrentLevel},
			{Path: "lastUpdated", Value: record.LastUpdated},
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to adjust progress: %w", err)
	}
	if result == nil {
		return nil, nil
	}

	s.audit.Record(ctx, audit.Event{
		UserID:       playerID,
		Username:     username,
		Action:       audit.ActionUpdateAchievement,
		ResourceType: audit.ResourceAchievement,
		ResourceID:   result.ID,
		NewValue:     map[string]any{"count": result.Count, "currentLevel": result.CurrentLevel},
		Metadata:     map[string]any{"campaignId": campaignID, "playerId": playerID, "globalAchievementId": achievementID},
	})

	return result, nil
}

func (s *service) AssignToPlayer(ctx context.Context, playerID, achievementID, campaignID, assignedBy, username string) error {
	if _, err := s.achievementService.MustGet(ctx, achievementID); err != nil {
		return err
	}

	iter := s.db.Collection(campaignCollection).
		Where("playerId", "==", playerID).
		Where("globalAchievementId", "==", achievementID).
		Where("campaignId", "==", campaignID).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()
	_, err := iter.Next()
	if err == nil {
		return ErrAlreadyAssigned
	}
	if !errors.Is(err, iterator.Done) {
		return fmt.Errorf("failed to check existing progress: %w", err)
	}

	ref := s.db.Collection(campaignCollection).NewDoc()
	record := PlayerAchievement{
		ID:                  ref.ID,
		PlayerID:            playerID,
		GlobalAchievementID: achievementID,
		CampaignID:          campaignID,
		Count:               0,
		CurrentLevel:        0,
		AssignedBy:          assignedBy,
		LastUpdated:         time.Now(),
	}
	if _, err := ref.Set(ctx, record); err != nil {
		return fmt.Errorf("failed to assign achievement to player: %w", err)
	}

	s.audit.Record(ctx, audit.Event{
		UserID:       assignedBy,
		Username:     username,
		Action:       audit.ActionAssignAchievement,
		ResourceType: audit.ResourceAchievement,
		ResourceID:   ref.ID,
		NewValue:     map[string]any{"playerId": playerID, "globalAchievementId": achievementID},
		Metadata:     map[string]any{"campaignId": campaignID, "playerId": playerID},
	})

	return nil
}

func (s *service) Award(ctx context.Context, sessionID, playerID, achievementID string, count int64, awardedBy, username string) (*PlayerSessionAchievement, error) {
	sess, err := s.sessionService.MustGet(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	template, err := s.achievementService.MustGet(ctx, achievementID)
	if err != nil {
		return nil, err
	}

	ref := s.db.Collection(sessionCollection).NewDoc()
	award := PlayerSessionAchievement{
		ID:                  ref.ID,
		SessionID:           sessionID,
		CampaignID:          sess.CampaignID,
		PlayerID:            playerID,
		GlobalAchievementID: achievementID,
		Count:               count,
		CurrentLevel:        DeriveLevel(count, template.Upgrades),
		Points:              PointsForCount(*template, count),
		EarnedAt:            time.Now(),
		AssignedBy:          awardedBy,
	}
	if _, err := ref.Set(ctx, award); err != nil {
		return nil, fmt.Errorf("failed to award session achievement: %w", err)
	}

	s.audit.Record(ctx, audit.Event{
		UserID:       awardedBy,
		Username:     username,
		Action:       audit.ActionAwardAchievement,
		ResourceType: audit.ResourceAchievement,
		ResourceID:   ref.ID,
		NewValue:     map[string]any{"count": award.Count, "currentLevel": award.CurrentLevel, "points": award.Points},
		Metadata:     map[string]any{"sessionId": sessionID, "playerId": playerID, "globalAchievementId": achievementID},
	})

	return &award, nil
}

func (s *service) UpdateAward(ctx context.Context, awardID string, newCount int64, userID, username string) error {
	doc, err := s.db.Collection(sessionCollection).Doc(awardID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return NotFound
		}
		return fmt.Errorf("failed to fetch award: %w", err)
	}
	award := PlayerSessionAchievement{}
	if err := doc.DataTo(&award); err != nil {
		return err
	}

	template, err := s.achievementService.MustGet(ctx, award.GlobalAchievementID)
	if err != nil {
		return err
	}

	newLevel := DeriveLevel(newCount, template.Upgrades)
	newPoints := PointsForCount(*template, newCount)
	_, err = doc.Ref.Update(ctx, []firestore.Update{
		{Path: "count", Value: newCount},
		{Path: "currentLevel", Value: newLevel},
		{Path: "points", Value: newPoints},
		{Path: "earnedAt", Value: time.Now()},
	})
	if err != nil {
		return fmt.Errorf("failed to update award: %w", err)
	}

	s.audit.Record(ctx, audit.Event{
		UserID:       userID,
		Username:     username,
		Action:       audit.ActionUpdateAchievement,
		ResourceType: audit.ResourceAchievement,
		ResourceID:   awardID,
		OldValue:     map[string]any{"count": award.Count, "currentLevel": award.CurrentLevel},
		NewValue:     map[string]any{"count": newCount, "currentLevel": newLevel},
		Metadata:     map[string]any{"sessionId": award.SessionID, "playerId": award.PlayerID, "globalAchievementId": award.GlobalAchievementID},
	})

	return nil
}

func (s *service) AssignToSession(ctx context.Context, sessionID, achievementID, userID, username string) (string, error) {
	sess, err := s.sessionService.MustGet(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if _, err := s.achievementService.MustGet(ctx, achievementID); err != nil {
		return "", err
	}

	ref := s.db.Collection(assignmentsCollection).NewDoc()
	assignment := SessionAssignment{
		ID:                  ref.ID,
		SessionID:           sessionID,
		CampaignID:          sess.CampaignID,
		GlobalAchievementID: achievementID,
		AssignedBy:          userID,
		AssignedAt:          time.Now(),
		IsActive:            true,
	}
	if _, err := ref.Set(ctx, assignment); err != nil {
		return "", fmt.Errorf("failed to assign achievement to session: %w", err)
	}

	_, err = s.db.Collection(sessionsCollection).Doc(sessionID).Update(ctx, []firestore.Update{
		{Path: "assignedAchievements", Value: firestore.ArrayUnion(achievementID)},
	})
	if err != nil {
		return "", fmt.Errorf("failed to update session assignments: %w", err)
	}

	s.audit.Record(ctx, audit.Event{
		UserID:       userID,
		Username:     username,
		Action:       audit.ActionAssignAchievement,
		ResourceType: audit.ResourceAchievement,
		ResourceID:   ref.ID,
		NewValue:     map[string]any{"sessionId": sessionID, "globalAchievementId": achievementID},
		Metadata:     map[string]any{"sessionId": sessionID, "globalAchievementId": achievementID},
	})

	return ref.ID, nil
}

func (s *service) SessionAssignments(ctx context.Context, sessionID string) ([]achievement.GlobalAchievement, error) {
	docs, err := s.db.Collection(assignmentsCollection).
		Where("sessionId", "==", sessionID).
		Where("isActive", "==", true).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch session assignments: %w", err)
	}
	assignments, err := utils.GetAllToStructs[SessionAssignment](docs)
	if err != nil {
		return nil, err
	}

	results := make([]achievement.GlobalAchievement, 0, len(assignments))
	for _, assignment := range assignments {
		a, err := s.achievementService.GetByID(ctx, assignment.GlobalAchievementID)
		if err != nil {
			return nil, err
		}
		if a == nil {
			continue
		}
		results = append(results, *a)
	}
	return results, nil
}

func (s *service) PlayerCampaignProgress(ctx context.Context, playerID, campaignID string) ([]PlayerAchievement, error) {
	docs, err := s.db.Collection(campaignCollection).
		Where("playerId", "==", playerID).
		Where("campaignId", "==", campaignID).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch player progress: %w", err)
	}
	return utils.GetAllToStructs[PlayerAchievement](docs)
}

func (s *service) SessionProgress(ctx context.Context, sessionID, playerID string) ([]PlayerSessionAchievement, error) {
	docs, err := s.db.Collection(sessionCollection).
		Where("sessionId", "==", sessionID).
		Where("playerId", "==", playerID).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch session progress: %w", err)
	}
	return utils.GetAllToStructs[PlayerSessionAchievement](docs)
}

func (s *service) CampaignHistory(ctx context.Context, campaignID string) ([]PlayerSessionAchievement, error) {
	docs, err := s.db.Collection(sessionCollection).
		Where("campaignId", "==", campaignID).
		OrderBy("earnedAt", firestore.Desc).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch campaign history: %w", err)
	}
	return utils.GetAllToStructs[PlayerSessionAchievement](docs)
}

func (s *service) UserHistory(ctx context.Context, userID string) ([]PlayerSessionAchievement, error) {
	docs, err := s.db.Collection(sessionCollection).
		Where("playerId", "==", userID).
		OrderBy("earnedAt", firestore.Desc).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user history: %w", err)
	}
	return utils.GetAllToStructs[PlayerSessionAchievement](docs)
}
