package aggregate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"questTally/services/achievement"
	"questTally/services/audit"
	"questTally/services/progress"
	"questTally/set"
	"questTally/utils"
)

// Service maintains the cross-campaign rollups that power user profiles and
// the leaderboard. Rollups are pure derivations of the session award history:
// Bump keeps them fresh on the hot path, Recompute and RecalculateAll rebuild
// them from scratch when they drift.
type Service interface {
	// Bump folds one freshly earned award into the user's rollup and bumps
	// the denormalized totals on the user document. The rollup write and the
	// user totals land in a single batch.
	Bump(ctx context.Context, award progress.PlayerSessionAchievement) (*UserGlobalAchievement, error)

	// Recompute rebuilds one (user, achievement) rollup from the full award
	// history, overwriting whatever is stored.
	Recompute(ctx context.Context, userID, achievementID string) (*UserGlobalAchievement, error)

	// RecalculateAll rebuilds every rollup a user has from the full award
	// history. Awards referencing a deleted achievement template are skipped.
	RecalculateAll(ctx context.Context, userID string) ([]UserGlobalAchievement, error)

	// Progress returns one rollup, or nil when the user has never earned
	// the achievement.
	Progress(ctx context.Context, userID, achievementID string) (*UserGlobalAchievement, error)

	// UserAchievements returns a user's rollups, most recently earned first.
	UserAchievements(ctx context.Context, userID string) ([]UserGlobalAchievement, error)

	// Stats summarizes a user's entire award history.
	Stats(ctx context.Context, userID string) (*UserStats, error)

	// SyncUserTotals recomputes the denormalized totals on the user document
	// from the award history. Bump keeps them fresh incrementally; this is
	// the reconciliation path for when they drift.
	SyncUserTotals(ctx context.Context, userID string) (*UserStats, error)
}

const (
	usersCollection   = "users"
	rollupsCollection = "globalAchievements"
)

type service struct {
	db                 *firestore.Client
	progressService    progress.Service
	achievementService achievement.Service
	audit              audit.Service
}

var _ Service = (*service)(nil)

func NewService(db *firestore.Client, progressService progress.Service, achievementService achievement.Service, auditService audit.Service) Service {
	return &service{
		db:                 db,
		progressService:    progressService,
		achievementService: achievementService,
		audit:              auditService,
	}
}

func (s *service) rollupRef(userID, achievementID string) *firestore.DocumentRef {
	return s.db.Collection(usersCollection).Doc(userID).Collection(rollupsCollection).Doc(achievementID)
}

func (s *service) Bump(ctx context.Context, award progress.PlayerSessionAchievement) (*UserGlobalAchievement, error) {
	template, err := s.achievementService.MustGet(ctx, award.GlobalAchievementID)
	if err != nil {
		return nil, err
	}

	ref := s.rollupRef(award.PlayerID, award.GlobalAchievementID)
	doc, err := ref.Get(ctx)
	if err != nil && status.Code(err) != codes.NotFound {
		return nil, fmt.Errorf("failed to fetch rollup: %w", err)
	}

	var rollup UserGlobalAchievement
	if doc != nil && doc.Exists() {
		if err := doc.DataTo(&rollup); err != nil {
			return nil, fmt.Errorf("failed to read rollup: %w", err)
		}
	} else {
		rollup = UserGlobalAchievement{
			ID:                  award.GlobalAchievementID,
			UserID:              award.PlayerID,
			GlobalAchievementID: award.GlobalAchievementID,
			FirstEarnedAt:       award.EarnedAt,
		}
	}
	rollup.AchievementName = template.Name

	rollup.TotalCount += award.Count
	rollup.TotalPoints += award.Points
	rollup.CurrentLevel = progress.DeriveLevel(rollup.TotalCount, template.Upgrades)
	if award.EarnedAt.After(rollup.LastEarnedAt) {
		rollup.LastEarnedAt = award.EarnedAt
		rollup.LastSessionEarnedIn = award.SessionID
	}
	rollup.CampaignsEarnedIn = appendSorted(rollup.CampaignsEarnedIn, award.CampaignID)
	rollup.SessionsEarnedIn = appendSorted(rollup.SessionsEarnedIn, award.SessionID)

	batch := s.db.Batch()
	batch.Set(ref, rollup)
	batch.Set(s.db.Collection(usersCollection).Doc(award.PlayerID), map[string]any{
		"totalGlobalPoints":       firestore.Increment(award.Points),
		"totalGlobalAchievements": firestore.Increment(1),
		"updatedAt":               time.Now(),
	}, firestore.MergeAll)
	if _, err := batch.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit rollup: %w", err)
	}

	s.audit.Record(ctx, audit.Event{
		UserID:       award.PlayerID,
		Action:       audit.ActionUpdateUserStats,
		ResourceType: audit.ResourceUser,
		ResourceID:   award.PlayerID,
		NewValue:     map[string]any{"totalCount": rollup.TotalCount, "totalPoints": rollup.TotalPoints, "currentLevel": rollup.CurrentLevel},
		Metadata:     map[string]any{"globalAchievementId": award.GlobalAchievementID, "sessionId": award.SessionID},
	})

	return &rollup, nil
}

func (s *service) Recompute(ctx context.Context, userID, achievementID string) (*UserGlobalAchievement, error) {
	template, err := s.achievementService.MustGet(ctx, achievementID)
	if err != nil {
		return nil, err
	}

	history, err := s.progressService.UserHistory(ctx, userID)
	if err != nil {
		return nil, err
	}
	awards := make([]progress.PlayerSessionAchievement, 0, len(history))
	for _, award := range history {
		if award.GlobalAchievementID == achievementID {
			awards = append(awards, award)
		}
	}

	rollup := buildRollup(userID, achievementID, awards, *template)
	if _, err := s.rollupRef(userID, achievementID).Set(ctx, rollup); err != nil {
		return nil, fmt.Errorf("failed to store rollup: %w", err)
	}
	return &rollup, nil
}

func (s *service) RecalculateAll(ctx context.Context, userID string) ([]UserGlobalAchievement, error) {
	history, err := s.progressService.UserHistory(ctx, userID)
	if err != nil {
		return nil, err
	}

	batch := s.db.Batch()
	results := make([]UserGlobalAchievement, 0)
	for achievementID, awards := range groupByAchievement(history) {
		template, err := s.achievementService.GetByID(ctx, achievementID)
		if err != nil {
			return nil, err
		}
		if template == nil {
			slog.Warn("skipping awards for missing achievement template",
				"userID", userID, "globalAchievementID", achievementID)
			continue
		}
		rollup := buildRollup(userID, achievementID, awards, *template)
		batch.Set(s.rollupRef(userID, achievementID), rollup)
		results = append(results, rollup)
	}
	if len(results) > 0 {
		if _, err := batch.Commit(ctx); err != nil {
			return nil, fmt.Errorf("failed to commit rollups: %w", err)
		}
	}

	s.audit.Record(ctx, audit.Event{
		UserID:       userID,
		Action:       audit.ActionUpdateUserStats,
		ResourceType: audit.ResourceUser,
		ResourceID:   userID,
		Metadata:     map[string]any{"recalculated": len(results)},
	})

	return results, nil
}

func (s *service) Progress(ctx context.Context, userID, achievementID string) (*UserGlobalAchievement, error) {
	doc, err := s.rollupRef(userID, achievementID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch rollup: %w", err)
	}
	rollup := UserGlobalAchievement{}
	if err := doc.DataTo(&rollup); err != nil {
		return nil, fmt.Errorf("failed to read rollup: %w", err)
	}
	return &rollup, nil
}

func (s *service) UserAchievements(ctx context.Context, userID string) ([]UserGlobalAchievement, error) {
	docs, err := s.db.Collection(usersCollection).Doc(userID).Collection(rollupsCollection).
		OrderBy("lastEarnedAt", firestore.Desc).
		Documents(ctx).
		GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rollups: %w", err)
	}
	return utils.GetAllToStructs[UserGlobalAchievement](docs)
}

func (s *service) Stats(ctx context.Context, userID string) (*UserStats, error) {
	history, err := s.progressService.UserHistory(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats := statsFromHistory(history)
	return &stats, nil
}

func (s *service) SyncUserTotals(ctx context.Context, userID string) (*UserStats, error) {
	stats, err := s.Stats(ctx, userID)
	if err != nil {
		return nil, err
	}

	_, err = s.db.Collection(usersCollection).Doc(userID).Set(ctx, map[string]any{
		"totalGlobalPoints":       stats.TotalPoints,
		"totalGlobalAchievements": stats.TotalAchievements,
		"updatedAt":               time.Now(),
	}, firestore.MergeAll)
	if err != nil {
		return nil, fmt.Errorf("failed to sync user totals: %w", err)
	}

	s.audit.Record(ctx, audit.Event{
		UserID:       userID,
		Action:       audit.ActionUpdateUserStats,
		ResourceType: audit.ResourceUser,
		ResourceID:   userID,
		NewValue:     map[string]any{"totalGlobalPoints": stats.TotalPoints, "totalGlobalAchievements": stats.TotalAchievements},
	})

	return stats, nil
}

// statsFromHistory summarizes an award history. Points come from the value
// stored on each award, which was threshold-aware when it was written.
func statsFromHistory(awards []progress.PlayerSessionAchievement) UserStats {
	achievements := set.New[string]()
	campaigns := set.New[string]()
	sessions := set.New[string]()

	stats := UserStats{TotalAchievements: len(awards)}
	for _, award := range awards {
		stats.TotalPoints += award.Points
		achievements.Add(award.GlobalAchievementID)
		campaigns.Add(award.CampaignID)
		sessions.Add(award.SessionID)
	}
	stats.UniqueAchievements = achievements.Size()
	stats.CampaignsPlayed = campaigns.Size()
	stats.SessionsPlayed = sessions.Size()
	return stats
}
