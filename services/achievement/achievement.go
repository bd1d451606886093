package achievement

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"questTally/services/audit"
	"questTally/utils"
)

var NotFound = errors.New("achievement not found")
var ErrAlreadyAssigned = errors.New("achievement is already assigned to this campaign")

// Service is the achievement catalog: global achievement templates and
// their campaign assignments.
type Service interface {
	// Create validates and persists a new global achievement, assigning
	// synthetic ids to its upgrades.
	Create(ctx context.Context, input CreateInput, username string) (*GlobalAchievement, error)

	// GetAll returns public achievements, newest first. If userID is
	// non-empty the user's private achievements are included.
	GetAll(ctx context.Context, userID string) ([]GlobalAchievement, error)

	// GetByID returns the achievement, or (nil, nil) when it does not
	// exist. Absence is a valid empty state here, not an error.
	GetByID(ctx context.Context, id string) (*GlobalAchievement, error)

	// MustGet returns the achievement or NotFound when it does not exist.
	// Used by paths where a dangling reference is an error.
	MustGet(ctx context.Context, id string) (*GlobalAchievement, error)

	// AssignToCampaign makes an achievement usable within a campaign.
	// Returns ErrAlreadyAssigned on a duplicate assignment.
	AssignToCampaign(ctx context.Context, achievementID, campaignID, assignedBy, username string) error

	// CampaignAssignments returns the achievements assigned to a campaign,
	// joined with their template data. Assignments whose template has been
	// removed are skipped.
	CampaignAssignments(ctx context.Context, campaignID string) ([]GlobalAchievement, error)
}

const (
	collection            = "globalAchievements"
	assignmentsCollection = "campaignAchievements"
	campaignsCollection   = "campaigns"
)

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

func (s *service) Create(ctx context.Context, input CreateInput, username string) (*GlobalAchievement, error) {
	if err := Validate(input); err != nil {
		return nil, err
	}

	now := time.Now()
	upgrades := make([]AchievementUpgrade, 0, len(input.Upgrades))
	for i, u := range input.Upgrades {
		upgrades = append(upgrades, AchievementUpgrade{
			ID:            fmt.Sprintf("upgrade_%d_%d", now.UnixMilli(), i),
			Name:          u.Name,
			Description:   u.Description,
			RequiredCount: u.RequiredCount,
			Points:        u.Points,
		})
	}

	isPublic := true
	if input.IsPublic != nil {
		isPublic = *input.IsPublic
	}

	ref := s.db.Collection(collection).NewDoc()
	result := GlobalAchievement{
		ID:          ref.ID,
		Name:        input.Name,
		Description: input.Description,
		BasePoints:  input.BasePoints,
		Upgrades:    upgrades,
		CreatedBy:   input.CreatedBy,
		IsPublic:    isPublic,
		CreatedAt:   now,
	}
	if _, err := ref.Set(ctx, result); err != nil {
		return nil, fmt.Errorf("failed to create achievement: %w", err)
	}

	s.audit.Record(ctx, audit.Event{
		UserID:       input.CreatedBy,
		Username:     username,
		Action:       audit.ActionCreateAchievement,
		ResourceType: audit.ResourceAchievement,
		ResourceID:   ref.ID,
		NewValue:     map[string]any{"name": result.Name, "basePoints": result.BasePoints, "upgrades": len(upgrades)},
	})

	return &result, nil
}

func (s *service) GetAll(ctx context.Context, userID string) ([]GlobalAchievement, error) {
	docs, err := s.db.Collection(collection).
		Where("isPublic", "==", true).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch achievements: %w", err)
	}
	results, err := utils.GetAllToStructs[GlobalAchievement](docs)
	if err != nil {
		return nil, err
	}

	if userID != "" {
		privateDocs, err := s.db.Collection(collection).
			Where("createdBy", "==", userID).
			Where("isPublic", "==", false).
			Documents(ctx).GetAll()
		if err != nil {
			return nil, fmt.Errorf("failed to fetch private achievements: %w", err)
		}
		private, err := utils.GetAllToStructs[GlobalAchievement](privateDocs)
		if err != nil {
			return nil, err
		}
		results = append(results, private...)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})
	return results, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*GlobalAchievement, error) {
	doc, err := s.db.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch achievement: %w", err)
	}
	result := GlobalAchievement{}
	if err := doc.DataTo(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *service) MustGet(ctx context.Context, id string) (*GlobalAchievement, error) {
	result, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, NotFound
	}
	return result, nil
}

func (s *service) AssignToCampaign(ctx context.Context, achievementID, campaignID, assignedBy, username string) error {
	if _, err := s.MustGet(ctx, achievementID); err != nil {
		return err
	}

	iter := s.db.Collection(assignmentsCollection).
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
		return fmt.Errorf("failed to check existing assignment: %w", err)
	}

	ref := s.db.Collection(assignmentsCollection).NewDoc()
	assignment := CampaignAssignment{
		ID:                  ref.ID,
		GlobalAchievementID: achievementID,
		CampaignID:          campaignID,
		AssignedBy:          assignedBy,
		AssignedAt:          time.Now(),
	}
	if _, err := ref.Set(ctx, assignment); err != nil {
		return fmt.Errorf("failed to create campaign assignment: %w", err)
	}

	_, err = s.db.Collection(campaignsCollection).Doc(campaignID).Update(ctx, []firestore.Update{
		{Path: "assignedAchievements", Value: firestore.ArrayUnion(achievementID)},
	})
	if err != nil {
		return fmt.Errorf("failed to update campaign assignments: %w", err)
	}

	s.audit.Record(ctx, audit.Event{
		UserID:       assignedBy,
		Username:     username,
		Action:       audit.ActionAssignAchievement,
		ResourceType: audit.ResourceAchievement,
		ResourceID:   ref.ID,
		NewValue:     map[string]any{"globalAchievementId": achievementID, "campaignId": campaignID},
		Metadata:     map[string]any{"campaignId": campaignID},
	})

	return nil
}

func (s *service) CampaignAssignments(ctx context.Context, campaignID string) ([]GlobalAchievement, error) {
	docs, err := s.db.Collection(assignmentsCollection).
		Where("campaignId", "==", campaignID).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch campaign assignments: %w", err)
	}
	assignments, err := utils.GetAllToStructs[CampaignAssignment](docs)
	if err != nil {
		return nil, err
	}

	results := make([]GlobalAchievement, 0, len(assignments))
	for _, assignment := range assignments {
		a, err := s.GetByID(ctx, assignment.GlobalAchievementID)
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
