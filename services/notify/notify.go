package notify

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/net/context"
)

// Service pushes campaign events to a Discord webhook. Notifications are
// best-effort: every method swallows failures after logging them, so a dead
// webhook never breaks the request that triggered it.
type Service interface {
	SessionCreated(ctx context.Context, campaignName string, sessionNumber int64, sessionDate time.Time)
	AchievementAwarded(ctx context.Context, playerName, achievementName string, points int64)
	LevelReached(ctx context.Context, playerName, achievementName string, level int)
}

type service struct {
	http       *resty.Client
	webhookURL string
}

var _ Service = (*service)(nil)

// NewService builds the notifier. webhookURL may be empty, in which case
// every notification is a no-op.
func NewService(client *resty.Client, webhookURL string) Service {
	return &service{
		http:       client,
		webhookURL: webhookURL,
	}
}

type webhookPayload struct {
	Content string `json:"content"`
}

func (s *service) SessionCreated(ctx context.Context, campaignName string, sessionNumber int64, sessionDate time.Time) {
	s.post(ctx, fmt.Sprintf("**%s**: session %d scheduled for %s", campaignName, sessionNumber, sessionDate.Format("Jan 2, 2006")))
}

func (s *service) AchievementAwarded(ctx context.Context, playerName, achievementName string, points int64) {
	s.post(ctx, fmt.Sprintf("**%s** earned **%s** (+%d points)", playerName, achievementName, points))
}

func (s *service) LevelReached(ctx context.Context, playerName, achievementName string, level int) {
	s.post(ctx, fmt.Sprintf("**%s** reached level %d on **%s**", playerName, level, achievementName))
}

func (s *service) post(ctx context.Context, content string) {
	if s.webhookURL == "" {
		return
	}
	resp, err := s.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(webhookPayload{Content: content}).
		Post(s.webhookURL)
	if err != nil {
		slog.With("error", err.Error()).Warn("failed to send discord notification")
		return
	}
	if resp.IsError() {
		slog.With("status", resp.StatusCode()).Warn("discord webhook rejected notification")
	}
}
