package envvars

import (
	"os"
	"reflect"
	"testing"
)

func TestGetEvn(t *testing.T) {
	// Backup and defer restore of environment variables
	backup := os.Environ()
	defer func() {
		os.Clearenv()
		for _, env := range backup {
			pair := splitEnv(env)
			os.Setenv(pair[0], pair[1])
		}
	}()

	t.Run("all env vars set", func(t *testing.T) {
		os.Clearenv()
		os.Setenv(GCPProjectID, "test-project")
		os.Setenv(Environment, "production")
		os.Setenv(AlgoliaAppID, "test_app_id")
		os.Setenv(AlgoliaAPIKey, "test_algolia_key")
		os.Setenv(DiscordWebhookURL, "https://discord.test/webhook")
		os.Setenv(SnapshotBucket, "test-bucket")

		expected := Env{
			ProjectID:         "test-project",
			Environment:       ProductionEnv,
			AlgoliaAppID:      "test_app_id",
			AlgoliaAPIKey:     "test_algolia_key",
			DiscordWebhookURL: "https://discord.test/webhook",
			SnapshotBucket:    "test-bucket",
		}

		if got := GetEvn(); !reflect.DeepEqual(got, expected) {
			t.Errorf("GetEvn() = %v, want %v", got, expected)
		}
	})

	t.Run("environment defaults to dev", func(t *testing.T) {
		os.Clearenv()
		os.Setenv(GCPProjectID, "test-project")

		got := GetEvn()
		if got.Environment != DevEnv {
			t.Errorf("Expected environment to default to dev, got %s", got.Environment)
		}
	})

	t.Run("optional vars default to empty", func(t *testing.T) {
		os.Clearenv()
		os.Setenv(GCPProjectID, "test-project")

		got := GetEvn()
		if got.DiscordWebhookURL != "" || got.SnapshotBucket != "" {
			t.Errorf("Expected optional vars to be empty, got %v", got)
		}
	})
}

func TestIsProd(t *testing.T) {
	tests := []struct {
		name string
		env  Env
		want bool
	}{
		{"production env", Env{Environment: ProductionEnv}, true},
		{"dev env", Env{Environment: DevEnv}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsProd(tt.env); got != tt.want {
				t.Errorf("IsProd() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsDev(t *testing.T) {
	tests := []struct {
		name string
		env  Env
		want bool
	}{
		{"production env", Env{Environment: ProductionEnv}, false},
		{"dev env", Env{Environment: DevEnv}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDev(tt.env); got != tt.want {
				t.Errorf("IsDev() = %v, want %v", got, tt.want)
			}
		})
	}
}

func splitEnv(env string) []string {
	for i := 0; i < len(env); i++ {
		if env[i] == '=' {
			return []string{env[:i], env[i+1:]}
		}
	}
	return []string{"", ""}
}
