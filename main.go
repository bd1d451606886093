package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"

	"github.com/algolia/algoliasearch-client-go/v4/algolia/search"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-resty/resty/v2"

	"questTally/clients/gcp"
	"questTally/envvars"
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

func main() {
	ctx := context.Background()
	env := envvars.GetEvn()

	db := gcp.CreateFirestore(ctx, env.ProjectID)
	defer db.Close()

	searchClient, err := search.NewClient(env.AlgoliaAppID, env.AlgoliaAPIKey)
	if err != nil {
		log.Fatalf("Failed to create search client: %v", err)
	}

	auditService := audit.NewService(db)
	achievementService := achievement.NewService(db, auditService)
	campaignService := campaign.NewService(db, auditService)
	sessionService := session.NewService(db, campaignService, auditService)
	progressService := progress.NewService(db, achievementService, sessionService, auditService)
	aggregateService := aggregate.NewService(db, progressService, achievementService, auditService)
	userService := user.NewUserService(db, searchClient, auditService)
	leaderboardService := leaderboard.NewService(db, progressService, userService, auditService, env.SnapshotBucket)
	notifyService := notify.NewService(resty.New(), env.DiscordWebhookURL)

	server := NewServer(
		campaignService,
		sessionService,
		achievementService,
		progressService,
		aggregateService,
		leaderboardService,
		userService,
		auditService,
		notifyService,
	)

	if envvars.IsProd(env) {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(cors.Default())

	v := validator.New(ctx, env.ProjectID)
	server.RegisterRoutes(r, v)

	s := &http.Server{
		Handler: r,
		Addr:    "0.0.0.0:8080",
	}

	slog.Info("Starting HTTP server on port 8080")
	log.Fatal(s.ListenAndServe())
}
