package leaderboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog/log"

	"questTally/clients/gcp"
	"questTally/services/audit"
	"questTally/services/progress"
	"questTally/services/user"
	"questTally/utils"
)

// Service maintains per-period leaderboards derived from the award history.
// Boards are recomputed, never incrementally patched: RefreshEntry rebuilds
// one user's standing from scratch and RefreshAll sweeps every user, so a
// missed refresh heals on the next run.
type Service interface {
	// RefreshEntry rebuilds one user's entry for a period from the award
	// history.
	RefreshEntry(ctx context.Context, period, userID string) (*LeaderboardEntry, error)

	// RefreshAll rebuilds every user's entry for a period. One user's
	// failure does not stop the sweep.
	RefreshAll(ctx context.Context, period string) error

	// List returns a page of the board ordered by points, with unique
	// achievements breaking ties. Ranks are relative to the page.
	List(ctx context.Context, period string, limit, offset int) ([]LeaderboardEntry, error)

	// UserRank returns a user's entry with its absolute rank, or nil when
	// the user is not on the board.
	UserRank(ctx context.Context, period, userID string) (*LeaderboardEntry, error)

	// TakeSnapshot captures the top of the board into an immutable document
	// and, when an archive bucket is configured, mirrors it to object
	// storage.
	TakeSnapshot(ctx context.Context, period string, limit int) (*LeaderboardSnapshot, error)

	// GetSnapshots returns a period's snapshots, newest first.
	GetSnapshots(ctx context.Context, period string, limit int) ([]LeaderboardSnapshot, error)

	// Stats summarizes a period's board.
	Stats(ctx context.Context, period string) (*LeaderboardStats, error)

	// Compare puts two users' standings side by side.
	Compare(ctx context.Context, period, userAID, userBID string) (*Comparison, error)
}

const (
	boardCollection     = "leaderboard"
	entriesCollection   = "entries"
	snapshotsCollection = "leaderboardSnapshots"

	defaultPageSize = 25
	maxPageSize     = 100
)

var ErrUnknownPeriod = errors.New("unknown leaderboard period")

type service struct {
	db              *firestore.Client
	progressService progress.Service
	userService     user.Service
	audit           audit.Service
	archiveBucket   string
}

var _ Service = (*service)(nil)

// NewService builds the leaderboard service. archiveBucket may be empty, in
// which case snapshots are not mirrored to object storage.
func NewService(db *firestore.Client, progressService progress.Service, userService user.Service, auditService audit.Service, archiveBucket string) Service {
	return &service{
		db:              db,
		progressService: progressService,
		userService:     userService,
		audit:           auditService,
		archiveBucket:   archiveBucket,
	}
}

func validatePeriod(period string) error {
	switch period {
	case PeriodAllTime, PeriodMonthly, PeriodWeekly:
		return nil
	}
	return ErrUnknownPeriod
}

func (s *service) entryRef(period, userID string) *firestore.DocumentRef {
	return s.db.Collection(boardCollection).Doc(period).Collection(entriesCollection).Doc(userID)
}

func (s *service) RefreshEntry(ctx context.Context, period, userID string) (*LeaderboardEntry, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}
	u, err := s.userService.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	history, err := s.progressService.UserHistory(ctx, userID)
	if err != nil {
		return nil, err
	}

	totals := windowTotals(history, periodStart(period, time.Now()))
	entry := LeaderboardEntry{
		ID:                 u.ID,
		Period:             period,
		UserID:             u.ID,
		Username:           u.Username,
		DisplayName:        u.DisplayName,
		TotalPoints:        totals.TotalPoints,
		TotalAchievements:  totals.TotalAchievements,
		UniqueAchievements: totals.UniqueAchievements,
		UpdatedAt:          time.Now(),
	}
	if _, err := s.entryRef(period, u.ID).Set(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to store leaderboard entry: %w", err)
	}
	return &entry, nil
}

func (s *service) RefreshAll(ctx context.Context, period string) error {
	if err := validatePeriod(period); err != nil {
		return err
	}
	users, err := s.userService.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	refreshed := 0
	failed := 0
	for _, u := range users {
		if _, err := s.RefreshEntry(ctx, period, u.ID); err != nil {
			log.Error().Err(err).Str("userID", u.ID).Str("period", period).Msg("failed to refresh leaderboard entry")
			failed++
			continue
		}
		refreshed++
	}
	log.Info().Str("period", period).Int("refreshed", refreshed).Int("failed", failed).Msg("leaderboard refresh complete")

	s.audit.Record(ctx, audit.Event{
		Action:       audit.ActionUpdateLeaderboard,
		ResourceType: audit.ResourceLeaderboard,
		ResourceID:   period,
		Metadata:     map[string]any{"refreshed": refreshed, "failed": failed},
	})

	if failed > 0 {
		return fmt.Errorf("leaderboard refresh finished with %d failures", failed)
	}
	return nil
}

func (s *service) List(ctx context.Context, period string, limit, offset int) ([]LeaderboardEntry, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	docs, err := s.db.Collection(boardCollection).Doc(period).Collection(entriesCollection).
		OrderBy("totalPoints", firestore.Desc).
		OrderBy("uniqueAchievements", firestore.Desc).
		Offset(offset).
		Limit(limit).
		Documents(ctx).
		GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch leaderboard: %w", err)
	}
	entries, err := utils.GetAllToStructs[LeaderboardEntry](docs)
	if err != nil {
		return nil, err
	}
	return assignRanks(entries), nil
}

func (s *service) UserRank(ctx context.Context, period, userID string) (*LeaderboardEntry, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}
	// Full ordered scan. Boards are small enough that a linear walk beats
	// maintaining stored ranks that go stale on every refresh.
	docs, err := s.db.Collection(boardCollection).Doc(period).Collection(entriesCollection).
		OrderBy("totalPoints", firestore.Desc).
		OrderBy("uniqueAchievements", firestore.Desc).
		Documents(ctx).
		GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch leaderboard: %w", err)
	}
	entries, err := utils.GetAllToStructs[LeaderboardEntry](docs)
	if err != nil {
		return nil, err
	}
	for i, entry := range entries {
		if entry.UserID == userID {
			entry.Rank = i + 1
			return &entry, nil
		}
	}
	return nil, nil
}

func (s *service) TakeSnapshot(ctx context.Context, period string, limit int) (*LeaderboardSnapshot, error) {
	entries, err := s.List(ctx, period, limit, 0)
	if err != nil {
		return nil, err
	}

	ref := s.db.Collection(snapshotsCollection).NewDoc()
	snapshot := LeaderboardSnapshot{
		ID:      ref.ID,
		Period:  period,
		TakenAt: time.Now(),
		Entries: entries,
	}

	if s.archiveBucket != "" {
		object := fmt.Sprintf("leaderboards/%s/%s.json", period, ref.ID)
		data, err := json.Marshal(snapshot)
		if err != nil {
			return nil, fmt.Errorf("failed to encode snapshot: %w", err)
		}
		if err := gcp.UploadObject(ctx, s.archiveBucket, object, bytes.NewReader(data)); err != nil {
			// The Firestore document is the source of truth; a failed
			// archive upload is not fatal.
			log.Error().Err(err).Str("object", object).Msg("failed to archive leaderboard snapshot")
		} else {
			snapshot.ArchiveObject = object
		}
	}

	if _, err := ref.Set(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("failed to store snapshot: %w", err)
	}

	s.audit.Record(ctx, audit.Event{
		Action:       audit.ActionLeaderboardSnapshot,
		ResourceType: audit.ResourceLeaderboard,
		ResourceID:   ref.ID,
		Metadata:     map[string]any{"period": period, "entries": len(entries)},
	})

	return &snapshot, nil
}

func (s *service) GetSnapshots(ctx context.Context, period string, limit int) ([]LeaderboardSnapshot, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	docs, err := s.db.Collection(snapshotsCollection).
		Where("period", "==", period).
		OrderBy("takenAt", firestore.Desc).
		Limit(limit).
		Documents(ctx).
		GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch snapshots: %w", err)
	}
	return utils.GetAllToStructs[LeaderboardSnapshot](docs)
}

func (s *service) Stats(ctx context.Context, period string) (*LeaderboardStats, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}
	docs, err := s.db.Collection(boardCollection).Doc(period).Collection(entriesCollection).
		OrderBy("totalPoints", firestore.Desc).
		OrderBy("uniqueAchievements", firestore.Desc).
		Documents(ctx).
		GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch leaderboard: %w", err)
	}
	entries, err := utils.GetAllToStructs[LeaderboardEntry](docs)
	if err != nil {
		return nil, err
	}

	stats := LeaderboardStats{
		Period:       period,
		TotalPlayers: len(entries),
	}
	for _, entry := range entries {
		stats.TotalPoints += entry.TotalPoints
	}
	if len(entries) > 0 {
		stats.AveragePoints = float64(stats.TotalPoints) / float64(len(entries))
		top := entries[0]
		top.Rank = 1
		stats.TopEntry = &top
	}
	return &stats, nil
}

func (s *service) Compare(ctx context.Context, period, userAID, userBID string) (*Comparison, error) {
	a, err := s.UserRank(ctx, period, userAID)
	if err != nil {
		return nil, err
	}
	b, err := s.UserRank(ctx, period, userBID)
	if err != nil {
		return nil, err
	}

	comparison := Comparison{Period: period, A: a, B: b}
	if a != nil && b != nil {
		comparison.PointsDelta = a.TotalPoints - b.TotalPoints
	}
	return &comparison, nil
}
