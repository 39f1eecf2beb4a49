package config

import (
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		configPathEnv, databaseDSNEnv,
		naverClientIDEnv, naverClientSecretEnv, newsAPIKeyEnv,
		embeddingsAPIKeyEnv, classifierAPIKeyEnv,
		webexBotTokenEnv, webexRoomIDEnv,
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	if cfg.Pipeline.FirstDedupThreshold != 0.85 {
		t.Fatalf("unexpected first threshold: %v", cfg.Pipeline.FirstDedupThreshold)
	}
	if cfg.Pipeline.SecondDedupThreshold != 0.90 {
		t.Fatalf("unexpected second threshold: %v", cfg.Pipeline.SecondDedupThreshold)
	}
	if len(cfg.Pipeline.Keywords) == 0 {
		t.Fatalf("expected default keywords")
	}
	if cfg.Scheduler.Hour != 6 || cfg.Scheduler.Minute != 0 {
		t.Fatalf("unexpected schedule: %d:%d", cfg.Scheduler.Hour, cfg.Scheduler.Minute)
	}
	if cfg.Scheduler.Location().String() != "UTC" {
		t.Fatalf("unexpected timezone: %s", cfg.Scheduler.Location())
	}
	if cfg.Pipeline.RunTimeout().Minutes() != 30 {
		t.Fatalf("unexpected run timeout: %v", cfg.Pipeline.RunTimeout())
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
logging:
  level: debug
scheduler:
  hour: 7
  minute: 30
  timezone: Asia/Seoul
pipeline:
  firstDedupThreshold: 0.8
  secondDedupThreshold: 0.92
  keywords:
    - "AI"
sources:
  naver:
    clientId: file-client-id
classifier:
  model: gpt-4.1-mini
`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	t.Setenv(configPathEnv, path)
	t.Setenv(naverClientSecretEnv, "env-secret")
	t.Setenv(classifierAPIKeyEnv, "env-api-key")

	cfg := Load()

	if cfg.Logging.Level != "debug" {
		t.Fatalf("file override not applied: %s", cfg.Logging.Level)
	}
	if cfg.Scheduler.Hour != 7 || cfg.Scheduler.Minute != 30 {
		t.Fatalf("schedule override not applied: %d:%d", cfg.Scheduler.Hour, cfg.Scheduler.Minute)
	}
	if cfg.Scheduler.Location().String() != "Asia/Seoul" {
		t.Fatalf("timezone not bound: %s", cfg.Scheduler.Location())
	}
	if cfg.Pipeline.FirstDedupThreshold != 0.8 || cfg.Pipeline.SecondDedupThreshold != 0.92 {
		t.Fatalf("thresholds not applied: %+v", cfg.Pipeline)
	}
	if len(cfg.Pipeline.Keywords) != 1 || cfg.Pipeline.Keywords[0] != "AI" {
		t.Fatalf("keywords not applied: %v", cfg.Pipeline.Keywords)
	}

	// File sets the id, environment supplies the secret.
	if cfg.Sources.Naver.ClientID != "file-client-id" {
		t.Fatalf("naver client id not applied: %s", cfg.Sources.Naver.ClientID)
	}
	if cfg.Sources.Naver.ClientSecret != "env-secret" {
		t.Fatalf("env secret not applied: %s", cfg.Sources.Naver.ClientSecret)
	}
	if cfg.Classifier.APIKey != "env-api-key" {
		t.Fatalf("env api key not applied: %s", cfg.Classifier.APIKey)
	}

	// Untouched sections keep their defaults.
	if cfg.Pipeline.MaxConcurrent != 8 {
		t.Fatalf("default lost in merge: %d", cfg.Pipeline.MaxConcurrent)
	}
	if cfg.Sources.NewsAPI.Endpoint == "" {
		t.Fatalf("default newsapi endpoint lost in merge")
	}
}

func TestLoadUnknownTimezoneRevertsToUTC(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := "scheduler:\n  timezone: Mars/Olympus\n"
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv(configPathEnv, path)

	cfg := Load()
	if cfg.Scheduler.Location().String() != "UTC" {
		t.Fatalf("expected UTC fallback, got %s", cfg.Scheduler.Location())
	}
}
