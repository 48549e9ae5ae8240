package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(
		WithoutSystemEnv(),
		WithEnvFile(""),
		WithEnvMap(map[string]string{
			"API_FIRESTORE_PROJECT_ID": "docfield-local",
		}),
	)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Fatalf("unexpected port %q", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Fatalf("unexpected read timeout %s", cfg.Server.ReadTimeout)
	}
	if cfg.PubSub.ProjectID != "docfield-local" {
		t.Fatalf("pubsub project should default to firestore project, got %q", cfg.PubSub.ProjectID)
	}
	if cfg.PubSub.OrderReceivedTopic != "order-received" {
		t.Fatalf("unexpected topic %q", cfg.PubSub.OrderReceivedTopic)
	}
	if cfg.Links.BasePath != "/api/v1" {
		t.Fatalf("unexpected base path %q", cfg.Links.BasePath)
	}
}

func TestLoadMissingProject(t *testing.T) {
	_, err := Load(WithoutSystemEnv(), WithEnvFile(""))
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	fields := validation.Fields()
	found := false
	for _, field := range fields {
		if field == "Firestore.ProjectID" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected Firestore.ProjectID in %v", fields)
	}
}

func TestLoadEnvMapOverridesDotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	contents := "API_SERVER_PORT=9090\nAPI_FIRESTORE_PROJECT_ID=from-dotenv\n"
	if err := os.WriteFile(envFile, []byte(contents), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	cfg, err := Load(
		WithoutSystemEnv(),
		WithEnvFile(envFile),
		WithEnvMap(map[string]string{
			"API_FIRESTORE_PROJECT_ID": "from-map",
		}),
	)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Fatalf("dotenv port not applied, got %q", cfg.Server.Port)
	}
	if cfg.Firestore.ProjectID != "from-map" {
		t.Fatalf("env map should win over dotenv, got %q", cfg.Firestore.ProjectID)
	}
}

func TestLoadInvalidBasePath(t *testing.T) {
	_, err := Load(
		WithoutSystemEnv(),
		WithEnvFile(""),
		WithEnvMap(map[string]string{
			"API_FIRESTORE_PROJECT_ID": "docfield-local",
			"API_LINKS_BASE_PATH":      "api/v1",
		}),
	)
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}
