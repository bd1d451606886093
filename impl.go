package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"questTally/services/achievement"
	"questTally/services/aggregate"
	"questTally/services/audit"
	"questTally/services/campaign"
	"questTally/services/leaderboard"
	"questTally/services/notify"
	"questTally/services/progress"
	"questTally/services/session"
	"questTally/services/user"
	"questTally/validator"
)

type Server struct {
	CampaignService    campaign.Service
	SessionService     session.Service
	AchievementService achievement.Service
	ProgressService    progress.Service
	AggregateService   aggregate.Service
	LeaderboardService leaderboard.Service
	UserService        user.Service
	AuditService       audit.Service
	NotifyService      notify.Service
}

func NewServer(
	campaignService campaign.Service,
	sessionService session.Service,
	achievementService achievement.Service,
	progressService progress.Service,
	aggregateService aggregate.Service,
	leaderboardService leaderboard.Service,
	userService user.Service,
	auditService audit.Service,
	notifyService notify.Service,
) Server {
	return Server{
		CampaignService:    campaignService,
		SessionService:     sessionService,
		AchievementService: achievementService,
		ProgressService:    progressService,
		AggregateService:   aggregateService,
		LeaderboardService: leaderboardService,
		UserService:        userService,
		AuditService:       auditService,
		NotifyService:      notifyService,
	}
}

// RegisterRoutes wires every endpoint onto the router. authed routes require
// a verified bearer token.
func (s Server) RegisterRoutes(r *gin.Engine, v *validator.Validator) {
	r.GET("/ping", s.Ping)

	authed := r.Group("/", v.Middleware())

	authed.POST("/campaigns", s.CreateCampaign)
	authed.GET("/campaigns", s.ListCampaigns)
	authed.GET("/campaigns/:campaignId", s.GetCampaign)
	authed.POST("/campaigns/:campaignId/join", s.JoinCampaign)
	authed.GET("/campaigns/:campaignId/sessions", s.ListCampaignSessions)
	authed.GET("/campaigns/:campaignId/achievements", s.ListCampaignAchievements)
	authed.POST("/campaigns/:campaignId/achievements", s.AssignAchievementToCampaign)
	authed.GET("/campaigns/:campaignId/history", s.CampaignHistory)
	authed.GET("/campaigns/:campaignId/players/:playerId/progress", s.PlayerCampaignProgress)

	authed.POST("/sessions", s.CreateSession)
	authed.GET("/sessions/:sessionId", s.GetSession)
	authed.PATCH("/sessions/:sessionId", s.UpdateSession)
	authed.DELETE("/sessions/:sessionId", s.DeleteSession)
	authed.PUT("/sessions/:sessionId/status", s.SetSessionStatus)
	authed.POST("/sessions/:sessionId/players", s.AddSessionPlayer)
	authed.DELETE("/sessions/:sessionId/players/:playerId", s.RemoveSessionPlayer)
	authed.POST("/sessions/:sessionId/achievements", s.AssignAchievementToSession)
	authed.GET("/sessions/:sessionId/achievements", s.ListSessionAchievements)
	authed.POST("/sessions/:sessionId/awards", s.AwardAchievement)
	authed.GET("/sessions/:sessionId/players/:playerId/progress", s.SessionProgress)

	authed.POST("/achievements", s.CreateAchievement)
	authed.GET("/achievements", s.ListAchievements)
	authed.GET("/achievements/:achievementId", s.GetAchievement)

	authed.POST("/progress/increment", s.IncrementProgress)
	authed.POST("/progress/decrement", s.DecrementProgress)
	authed.POST("/progress/assign", s.AssignAchievementToPlayer)
	authed.PATCH("/awards/:awardId", s.UpdateAward)

	authed.POST("/users", s.CreateUser)
	authed.GET("/users/search", s.SearchUsers)
	authed.GET("/users/:userId", s.GetUser)
	authed.PATCH("/users/:userId", s.UpdateUserProfile)
	authed.GET("/users/:userId/achievements", s.UserAchievements)
	authed.GET("/users/:userId/achievements/:achievementId", s.UserAchievementProgress)
	authed.GET("/users/:userId/stats", s.UserStats)
	authed.GET("/users/:userId/history", s.UserHistory)
	authed.POST("/users/:userId/recalculate", s.RecalculateUser)

	authed.GET("/leaderboard/:period", s.Leaderboard)
	authed.GET("/leaderboard/:period/users/:userId", s.LeaderboardRank)
	authed.GET("/leaderboard/:period/stats", s.LeaderboardStats)
	authed.GET("/leaderboard/:period/compare", s.LeaderboardCompare)
	authed.POST("/leaderboard/:period/refresh", s.RefreshLeaderboard)
	authed.POST("/leaderboard/:period/snapshots", s.TakeLeaderboardSnapshot)
	authed.GET("/leaderboard/:period/snapshots", s.ListLeaderboardSnapshots)

	authed.GET("/audit", s.ListAuditLogs)
	authed.GET("/audit/recent", s.RecentAuditLogs)
}

func (s Server) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ping": "pong"})
}

// handleError maps service errors onto HTTP statuses. Unrecognized errors
// are logged and surfaced as a 500 without leaking internals.
func handleError(c *gin.Context, err error) {
	var validationErr *achievement.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message, "field": validationErr.Field})
	case errors.Is(err, campaign.ErrEmptyName),
		errors.Is(err, campaign.ErrEmptyDescription),
		errors.Is(err, progress.ErrInvalidDelta),
		errors.Is(err, leaderboard.ErrUnknownPeriod):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, campaign.NotFound),
		errors.Is(err, session.NotFound),
		errors.Is(err, achievement.NotFound),
		errors.Is(err, progress.NotFound),
		errors.Is(err, user.NotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, campaign.ErrDuplicateCharacterName),
		errors.Is(err, achievement.ErrAlreadyAssigned),
		errors.Is(err, progress.ErrAlreadyAssigned),
		errors.Is(err, user.ErrDuplicateUsername):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		slog.With("error", err.Error(), "path", c.FullPath()).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func caller(c *gin.Context) *validator.Access {
	access, ok := validator.AccessFromGin(c)
	if !ok {
		return &validator.Access{}
	}
	return access
}

// Campaigns

type createCampaignRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s Server) CreateCampaign(c *gin.Context) {
	var req createCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	access := caller(c)
	result, err := s.CampaignService.Create(c.Request.Context(), req.Name, req.Description, access.UserID, access.Username)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (s Server) ListCampaigns(c *gin.Context) {
	campaigns, err := s.CampaignService.GetAll(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, campaigns)
}

func (s Server) GetCampaign(c *gin.Context) {
	result, err := s.CampaignService.MustGet(c.Request.Context(), c.Param("campaignId"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type joinCampaignRequest struct {
	CharacterName string `json:"characterName"`
}

func (s Server) JoinCampaign(c *gin.Context) {
	var req joinCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	access := caller(c)
	err := s.CampaignService.Join(c.Request.Context(), c.Param("campaignId"), access.UserID, req.CharacterName, access.Username)
	if err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s Server) ListCampaignSessions(c *gin.Context) {
	sessions, err := s.SessionService.GetAllByCampaign(c.Request.Context(), c.Param("campaignId"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

func (s Server) ListCampaignAchievements(c *gin.Context) {
	achievements, err := s.AchievementService.CampaignAssignments(c.Request.Context(), c.Param("campaignId"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, achievements)
}

type assignAchievementRequest struct {
	GlobalAchievementID string `json:"globalAchievementId"`
}

func (s Server) AssignAchievementToCampaign(c *gin.Context) {
	var req assignAchievementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	access := caller(c)
	err := s.AchievementService.AssignToCampaign(c.Request.Context(), req.GlobalAchievementID, c.Param("campaignId"), access.UserID, access.Username)
	if err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s Server) CampaignHistory(c *gin.Context) {
	history, err := s.ProgressService.CampaignHistory(c.Request.Context(), c.Param("campaignId"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

func (s Server) PlayerCampaignProgress(c *gin.Context) {
	records, err := s.ProgressService.PlayerCampaignProgress(c.Request.Context(), c.Param("playerId"), c.Param("campaignId"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// Sessions

func (s Server) CreateSession(c *gin.Context) {
	var input session.CreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	access := caller(c)
	result, err := s.SessionService.Create(c.Request.Context(), input, access.UserID, access.Username)
	if err != nil {
		handleError(c, err)
		return
	}

	if cmp, err := s.CampaignService.GetByID(c.Request.Context(), result.CampaignID); err == nil && cmp != nil {
		s.NotifyService.SessionCreated(c.Request.Context(), cmp.Name, result.SessionNumber, result.SessionDate)
	}

	c.JSON(http.StatusCreated, result)
}

func (s Server) GetSession(c *gin.Context) {
	result, err := s.SessionService.MustGet(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s Server) UpdateSession(c *gin.Context) {
	var input session.UpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	access := caller(c)
	if err := s.SessionService.Update(c.Request.Context(), c.Param("sessionId"), input, access.UserID, access.Username); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s Server) DeleteSession(c *gin.Context) {
	access := caller(c)
	if err := s.SessionService.Delete(c.Request.Context(), c.Param("sessionId"), access.UserID, access.Username); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type setStatusRequest struct {
	Status session.Status `json:"status"`
}

func (s Server) SetSessionStatus(c *gin.Context) {
	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	access := caller(c)
	if err := s.SessionService.SetStatus(c.Request.Context(), c.Param("sessionId"), req.Status, access.UserID, access.Username); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s Server) AddSessionPlayer(c *gin.Context) {
	var player session.SessionPlayer
	if err := c.ShouldBindJSON(&player); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	access := caller(c)
	if err := s.SessionService.AddPlayer(c.Request.Context(), c.Param("sessionId"), player, access.UserID, access.Username); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s Server) RemoveSessionPlayer(c *gin.Context) {
	access := caller(c)
	if err := s.SessionService.RemovePlayer(c.Request.Context(), c.Param("sessionId"), c.Param("playerId"), access.UserID, access.Username); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s Server) AssignAchievementToSession(c *gin.Context) {
	var req assignAchievementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	access := caller(c)
	id, err := s.ProgressService.AssignToSession(c.Request.Context(), c.Param("sessionId"), req.GlobalAchievementID, access.UserID, access.Username)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (s Server) ListSessionAchievements(c *gin.Context) {
	achievements, err := s.ProgressService.SessionAssignments(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, achievements)
}

type awardRequest struct {
	PlayerID            string `json:"playerId"`
	GlobalAchievementID string `json:"globalAchievementId"`
	Count               int64  `json:"count"`
}

// AwardAchievement records a session award, folds it into the player's
// global rollup, and pushes a notification. The award itself is the only
// write that can fail the request; a rollup or notification failure is
// logged and repaired later by recalculation.
func (s Server) AwardAchievement(c *gin.Context) {
	var req awardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	access := caller(c)
	ctx := c.Request.Context()

	award, err := s.ProgressService.Award(ctx, c.Param("sessionId"), req.PlayerID, req.GlobalAchievementID, req.Count, access.UserID, access.Username)
	if err != nil {
		handleError(c, err)
		return
	}

	rollup, err := s.AggregateService.Bump(ctx, *award)
	if err != nil {
		slog.With("error", err.Error(), "awardID", award.ID).Error("failed to update global rollup")
	}

	if template, err := s.AchievementService.GetByID(ctx, req.GlobalAchievementID); err == nil && template != nil {
		s.NotifyService.AchievementAwarded(ctx, req.PlayerID, template.Name, award.Points)
		if rollup != nil && rollup.CurrentLevel > 0 {
			s.NotifyService.LevelReached(ctx, req.PlayerID, template.Name, rollup.CurrentLevel)
		}
	}

	c.JSON(http.StatusCreated, award)
}

func (s Server) SessionProgress(c *gin.Context) {
	awards, err := s.ProgressService.SessionProgress(c.Request.Context(), c.Param("sessionId"), c.Param("playerId"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, awards)
}

// Achievements

func (s Server) CreateAchievement(c *gin.Context) {
	var input achievement.CreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	access := caller(c)
	if input.CreatedBy == "" {
		input.CreatedBy = access.UserID
	}
	result, err := s.AchievementService.Create(c.Request.Context(), input, access.Username)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (s Server) ListAchievements(c *gin.Context) {
	access := caller(c)
	achievements, err := s.AchievementService.GetAll(c.Request.Context(), access.UserID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, achievements)
}

func (s Server) GetAchievement(c *gin.Context) {
	result, err := s.AchievementService.MustGet(c.Request.Context(), c.Param("achievementId"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Progress

type progressRequest struct {
	PlayerID            string `json:"playerId"`
	GlobalAchievementID string `json:"globalAchievementId"`
	CampaignID          string `json:"campaignId"`
	Delta               int64  `json:"delta"`
}

func (s Server) IncrementProgress(c *gin.Context) {
	s.adjustProgress(c, s.ProgressService.Increment)
}

func (s Server) DecrementProgress(c *gin.Context) {
	s.adjustProgress(c, s.ProgressService.Decrement)
}

func (s Server) adjustProgress(c *gin.Context, adjust func(ctx context.Context, playerID, achievementID, campaignID string, delta int64, username string) (*progress.PlayerAchievement, error)) {
	var req progressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	access := caller(c)
	record, err := adjust(c.Request.Context(), req.PlayerID, req.GlobalAchievementID, req.CampaignID, req.Delta, access.Username)
	if err != nil {
		handleError(c, err)
		return
	}
	if record == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (s Server) AssignAchievementToPlayer(c *gin.Context) {
	var req progressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	access := caller(c)
	err := s.ProgressService.AssignToPlayer(c.Request.Context(), req.PlayerID, req.GlobalAchievementID, req.CampaignID, access.UserID, access.Username)
	if err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type updateAwardRequest struct {
	Count int64 `json:"count"`
}

func (s Server) UpdateAward(c *gin.Context) {
	var req updateAwardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	access := caller(c)
	if err := s.ProgressService.UpdateAward(c.Request.Context(), c.Param("awardId"), req.Count, access.UserID, access.Username); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Users

type createUserRequest struct {
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

func (s Server) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	access := caller(c)
	result, err := s.UserService.CreateUser(c.Request.Context(), &user.User{
		ID:          access.UserID,
		Username:    req.Username,
		DisplayName: req.DisplayName,
		Email:       req.Email,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (s Server) GetUser(c *gin.Context) {
	result, err := s.UserService.GetUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type updateProfileRequest struct {
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl"`
}

func (s Server) UpdateUserProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := s.UserService.UpdateProfile(c.Request.Context(), c.Param("userId"), req.DisplayName, req.AvatarURL); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s Server) SearchUsers(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing query parameter q"})
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	results, err := s.UserService.Search(c.Request.Context(), query, page)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

func (s Server) UserAchievements(c *gin.Context) {
	rollups, err := s.AggregateService.UserAchievements(c.Request.Context(), c.Param("userId"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, rollups)
}

func (s Server) UserAchievementProgress(c *gin.Context) {
	rollup, err := s.AggregateService.Progress(c.Request.Context(), c.Param("userId"), c.Param("achievementId"))
	if err != nil {
		handleError(c, err)
		return
	}
	if rollup == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no progress for this achievement"})
		return
	}
	c.JSON(http.StatusOK, rollup)
}

func (s Server) UserStats(c *gin.Context) {
	stats, err := s.AggregateService.Stats(c.Request.Context(), c.Param("userId"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s Server) UserHistory(c *gin.Context) {
	history, err := s.ProgressService.UserHistory(c.Request.Context(), c.Param("userId"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

// RecalculateUser rebuilds every rollup from the award history and
// reconciles the denormalized user totals.
func (s Server) RecalculateUser(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.Param("userId")

	rollups, err := s.AggregateService.RecalculateAll(ctx, userID)
	if err != nil {
		handleError(c, err)
		return
	}
	stats, err := s.AggregateService.SyncUserTotals(ctx, userID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rollups": rollups, "stats": stats})
}

// Leaderboard

func (s Server) Leaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	entries, err := s.LeaderboardService.List(c.Request.Context(), c.Param("period"), limit, offset)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (s Server) LeaderboardRank(c *gin.Context) {
	entry, err := s.LeaderboardService.UserRank(c.Request.Context(), c.Param("period"), c.Param("userId"))
	if err != nil {
		handleError(c, err)
		return
	}
	if entry == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user is not on the leaderboard"})
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (s Server) LeaderboardStats(c *gin.Context) {
	stats, err := s.LeaderboardService.Stats(c.Request.Context(), c.Param("period"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s Server) LeaderboardCompare(c *gin.Context) {
	userA := c.Query("userA")
	userB := c.Query("userB")
	if userA == "" || userB == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userA and userB are required"})
		return
	}
	comparison, err := s.LeaderboardService.Compare(c.Request.Context(), c.Param("period"), userA, userB)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, comparison)
}

func (s Server) RefreshLeaderboard(c *gin.Context) {
	if err := s.LeaderboardService.RefreshAll(c.Request.Context(), c.Param("period")); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s Server) TakeLeaderboardSnapshot(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	snapshot, err := s.LeaderboardService.TakeSnapshot(c.Request.Context(), c.Param("period"), limit)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, snapshot)
}

func (s Server) ListLeaderboardSnapshots(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	snapshots, err := s.LeaderboardService.GetSnapshots(c.Request.Context(), c.Param("period"), limit)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshots)
}

// Audit

func (s Server) ListAuditLogs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	filters := audit.Filters{
		UserID:       c.Query("userId"),
		Action:       c.Query("action"),
		ResourceType: c.Query("resourceType"),
		ResourceID:   c.Query("resourceId"),
		Limit:        limit,
	}
	logs, err := s.AuditService.List(c.Request.Context(), filters)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

func (s Server) RecentAuditLogs(c *gin.Context) {
	logs, err := s.AuditService.Recent(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}
