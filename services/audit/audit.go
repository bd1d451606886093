package audit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/firestore"
	"questTally/utils"
)

// Service is the append-only audit log. Writes from mutating operations are
// fire-and-forget: use Record for the best-effort path.
type Service interface {
	// Record writes an audit log entry and never returns an error. Failures
	// are logged and swallowed so an audit outage cannot block or roll back
	// the operation being audited.
	Record(ctx context.Context, event Event)

	// Write writes an audit log entry and reports failure to the caller.
	Write(ctx context.Context, event Event) (string, error)

	List(ctx context.Context, filters Filters) ([]Log, error)
	UserHistory(ctx context.Context, userID string, limit int) ([]Log, error)
	ResourceHistory(ctx context.Context, resourceType, resourceID string, limit int) ([]Log, error)
	Recent(ctx context.Context) ([]Log, error)
}

const (
	collection  = "auditLogs"
	recentLimit = 100
)

type service struct {
	db *firestore.Client
}

var _ Service = (*service)(nil)

func NewService(db *firestore.Client) Service {
	return &service{
		db: db,
	}
}

func (s *service) Record(ctx context.Context, event Event) {
	if _, err := s.Write(ctx, event); err != nil {
		slog.With("error", err.Error(), "action", event.Action).Warn("failed to write audit log")
	}
}

func (s *service) Write(ctx context.Context, event Event) (string, error) {
	ref := s.db.Collection(collection).NewDoc()
	entry := Log{
		ID:           ref.ID,
		UserID:       event.UserID,
		Username:     event.Username,
		Action:       event.Action,
		ResourceType: event.ResourceType,
		ResourceID:   event.ResourceID,
		OldValue:     event.OldValue,
		NewValue:     event.NewValue,
		Metadata:     event.Metadata,
		Timestamp:    time.Now(),
	}
	if _, err := ref.Set(ctx, entry); err != nil {
		return "", fmt.Errorf("failed to write audit log: %w", err)
	}
	return ref.ID, nil
}

func (s *service) List(ctx context.Context, filters Filters) ([]Log, error) {
	q := s.db.Collection(collection).OrderBy("timestamp", firestore.Desc)

	if filters.UserID != "" {
		q = q.Where("userId", "==", filters.UserID)
	}
	if filters.Action != "" {
		q = q.Where("action", "==", filters.Action)
	}
	if filters.ResourceType != "" {
		q = q.Where("resourceType", "==", filters.ResourceType)
	}
	if filters.ResourceID != "" {
		q = q.Where("resourceId", "==", filters.ResourceID)
	}
	if !filters.StartDate.IsZero() {
		q = q.Where("timestamp", ">=", filters.StartDate)
	}
	if !filters.EndDate.IsZero() {
		q = q.Where("timestamp", "<=", filters.EndDate)
	}
	if filters.Limit > 0 {
		q = q.Limit(filters.Limit)
	}

	docs, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch audit logs: %w", err)
	}
	return utils.GetAllToStructs[Log](docs)
}

func (s *service) UserHistory(ctx context.Context, userID string, limit int) ([]Log, error) {
	return s.List(ctx, Filters{UserID: userID, Limit: limit})
}

func (s *service) ResourceHistory(ctx context.Context, resourceType, resourceID string, limit int) ([]Log, error) {
	return s.List(ctx, Filters{ResourceType: resourceType, ResourceID: resourceID, Limit: limit})
}

func (s *service) Recent(ctx context.Context) ([]Log, error) {
	return s.List(ctx, Filters{Limit: recentLimit})
}
