package envvars

import (
	"log"
	"os"
)

const (
	GCPProjectID      = "GCP_PROJECT_ID"
	Environment       = "ENVIRONMENT"
	AlgoliaAppID      = "ALGOLIA_APP_ID"
	AlgoliaAPIKey     = "ALGOLIA_API_KEY"
	DiscordWebhookURL = "DISCORD_WEBHOOK_URL"
	SnapshotBucket    = "SNAPSHOT_BUCKET"
)

const (
	DevEnv        = "dev"
	ProductionEnv = "production"
)

type Env struct {
	ProjectID         string
	Environment       string
	AlgoliaAppID      string
	AlgoliaAPIKey     string
	DiscordWebhookURL string
	SnapshotBucket    string
}

func GetEvn() Env {
	projectID, ok := os.LookupEnv(GCPProjectID)
	if !ok {
		log.Fatalf("%s required", GCPProjectID)
	}
	environment, ok := os.LookupEnv(Environment)
	if !ok {
		environment = DevEnv
	}
	return Env{
		ProjectID:         projectID,
		Environment:       environment,
		AlgoliaAppID:      os.Getenv(AlgoliaAppID),
		AlgoliaAPIKey:     os.Getenv(AlgoliaAPIKey),
		DiscordWebhookURL: os.Getenv(DiscordWebhookURL),
		SnapshotBucket:    os.Getenv(SnapshotBucket),
	}
}

func IsProd(e Env) bool {
	return e.Environment == ProductionEnv
}

func IsDev(e Env) bool {
	return e.Environment == DevEnv
}
