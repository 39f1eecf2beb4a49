package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone = "UTC"

	configPathEnv        = "NEWSINTEL_CONFIG"
	databaseDSNEnv       = "DATABASE_DSN"
	naverClientIDEnv     = "NAVER_CLIENT_ID"
	naverClientSecretEnv = "NAVER_CLIENT_SECRET"
	newsAPIKeyEnv        = "NEWSAPI_KEY"
	embeddingsAPIKeyEnv  = "EMBEDDINGS_API_KEY"
	classifierAPIKeyEnv  = "CLASSIFIER_API_KEY"
	webexBotTokenEnv     = "WEBEX_BOT_TOKEN"
	webexRoomIDEnv       = "WEBEX_ROOM_ID"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging    LoggingConfig    `yaml:"logging"`
	Database   DatabaseConfig   `yaml:"database"`
	Scheduler  SchedulerConfig  `yaml:"scheduler"`
	Pipeline   PipelineConfig   `yaml:"pipeline"`
	Sources    SourcesConfig    `yaml:"sources"`
	Embeddings EmbeddingsConfig `yaml:"embeddings"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Webex      WebexConfig      `yaml:"webex"`
}

// LoggingConfig controls slog construction.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DatabaseConfig describes the Postgres run archive connection.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// SchedulerConfig defines when the daily run fires.
type SchedulerConfig struct {
	Hour     int            `yaml:"hour"`
	Minute   int            `yaml:"minute"`
	Timezone string         `yaml:"timezone"`
	location *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// PipelineConfig carries the dedup thresholds and run-level knobs.
type PipelineConfig struct {
	FirstDedupThreshold  float64  `yaml:"firstDedupThreshold"`
	SecondDedupThreshold float64  `yaml:"secondDedupThreshold"`
	Keywords             []string `yaml:"keywords"`
	MaxPerSource         int      `yaml:"maxPerSource"`
	LeadSentences        int      `yaml:"leadSentences"`
	MaxConcurrent        int      `yaml:"maxConcurrent"`
	RunTimeoutMinutes    int      `yaml:"runTimeoutMinutes"`
}

// RunTimeout converts the configured minutes to a duration; zero disables
// the run-level deadline.
func (p PipelineConfig) RunTimeout() time.Duration {
	return time.Duration(p.RunTimeoutMinutes) * time.Minute
}

// SourcesConfig groups the upstream news providers.
type SourcesConfig struct {
	Naver   NaverConfig   `yaml:"naver"`
	NewsAPI NewsAPIConfig `yaml:"newsapi"`
}

// NaverConfig wires the Naver News search API credentials.
type NaverConfig struct {
	ClientID     string `yaml:"clientId"`
	ClientSecret string `yaml:"clientSecret"`
	Endpoint     string `yaml:"endpoint"`
}

// NewsAPIConfig wires the NewsAPI.org credentials.
type NewsAPIConfig struct {
	APIKey   string `yaml:"apiKey"`
	Endpoint string `yaml:"endpoint"`
	Language string `yaml:"language"`
}

// EmbeddingsConfig describes the embedding provider.
type EmbeddingsConfig struct {
	Endpoint  string `yaml:"endpoint"`
	Model     string `yaml:"model"`
	APIKey    string `yaml:"apiKey"`
	Dimension int    `yaml:"dimension"`
}

// ClassifierConfig defines how to contact the chat-completion API used for
// classification, validation, context analysis, and message formatting.
type ClassifierConfig struct {
	Endpoint          string `yaml:"endpoint"`
	Model             string `yaml:"model"`
	APIKey            string `yaml:"apiKey"`
	RequestsPerMinute int    `yaml:"requestsPerMinute"`
}

// WebexConfig wires the notification channel.
type WebexConfig struct {
	BotToken string `yaml:"botToken"`
	RoomID   string `yaml:"roomId"`
	APIBase  string `yaml:"apiBase"`
}

// Load reads YAML configuration (if present) and applies environment
// overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	if len(cfg.Pipeline.Keywords) == 0 {
		cfg.Pipeline.Keywords = defaultConfig().Pipeline.Keywords
	}

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(naverClientIDEnv); v != "" {
		c.Sources.Naver.ClientID = v
	}
	if v := os.Getenv(naverClientSecretEnv); v != "" {
		c.Sources.Naver.ClientSecret = v
	}
	if v := os.Getenv(newsAPIKeyEnv); v != "" {
		c.Sources.NewsAPI.APIKey = v
	}

	if v := os.Getenv(embeddingsAPIKeyEnv); v != "" {
		c.Embeddings.APIKey = v
	}
	if v := os.Getenv(classifierAPIKeyEnv); v != "" {
		c.Classifier.APIKey = v
	}

	if v := os.Getenv(webexBotTokenEnv); v != "" {
		c.Webex.BotToken = v
	}
	if v := os.Getenv(webexRoomIDEnv); v != "" {
		c.Webex.RoomID = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	if override.Database.DSN != "" {
		base.Database = override.Database
	}

	if override.Scheduler.Hour != 0 || override.Scheduler.Minute != 0 {
		base.Scheduler.Hour = override.Scheduler.Hour
		base.Scheduler.Minute = override.Scheduler.Minute
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	if override.Pipeline.FirstDedupThreshold > 0 {
		base.Pipeline.FirstDedupThreshold = override.Pipeline.FirstDedupThreshold
	}
	if override.Pipeline.SecondDedupThreshold > 0 {
		base.Pipeline.SecondDedupThreshold = override.Pipeline.SecondDedupThreshold
	}
	if len(override.Pipeline.Keywords) > 0 {
		base.Pipeline.Keywords = override.Pipeline.Keywords
	}
	if override.Pipeline.MaxPerSource > 0 {
		base.Pipeline.MaxPerSource = override.Pipeline.MaxPerSource
	}
	if override.Pipeline.LeadSentences > 0 {
		base.Pipeline.LeadSentences = override.Pipeline.LeadSentences
	}
	if override.Pipeline.MaxConcurrent > 0 {
		base.Pipeline.MaxConcurrent = override.Pipeline.MaxConcurrent
	}
	if override.Pipeline.RunTimeoutMinutes > 0 {
		base.Pipeline.RunTimeoutMinutes = override.Pipeline.RunTimeoutMinutes
	}

	if override.Sources.Naver.ClientID != "" {
		base.Sources.Naver.ClientID = override.Sources.Naver.ClientID
	}
	if override.Sources.Naver.ClientSecret != "" {
		base.Sources.Naver.ClientSecret = override.Sources.Naver.ClientSecret
	}
	if override.Sources.Naver.Endpoint != "" {
		base.Sources.Naver.Endpoint = override.Sources.Naver.Endpoint
	}
	if override.Sources.NewsAPI.APIKey != "" {
		base.Sources.NewsAPI.APIKey = override.Sources.NewsAPI.APIKey
	}
	if override.Sources.NewsAPI.Endpoint != "" {
		base.Sources.NewsAPI.Endpoint = override.Sources.NewsAPI.Endpoint
	}
	if override.Sources.NewsAPI.Language != "" {
		base.Sources.NewsAPI.Language = override.Sources.NewsAPI.Language
	}

	if override.Embeddings.Endpoint != "" {
		base.Embeddings.Endpoint = override.Embeddings.Endpoint
	}
	if override.Embeddings.Model != "" {
		base.Embeddings.Model = override.Embeddings.Model
	}
	if override.Embeddings.APIKey != "" {
		base.Embeddings.APIKey = override.Embeddings.APIKey
	}
	if override.Embeddings.Dimension > 0 {
		base.Embeddings.Dimension = override.Embeddings.Dimension
	}

	if override.Classifier.Endpoint != "" {
		base.Classifier.Endpoint = override.Classifier.Endpoint
	}
	if override.Classifier.Model != "" {
		base.Classifier.Model = override.Classifier.Model
	}
	if override.Classifier.APIKey != "" {
		base.Classifier.APIKey = override.Classifier.APIKey
	}
	if override.Classifier.RequestsPerMinute > 0 {
		base.Classifier.RequestsPerMinute = override.Classifier.RequestsPerMinute
	}

	if override.Webex.BotToken != "" {
		base.Webex.BotToken = override.Webex.BotToken
	}
	if override.Webex.RoomID != "" {
		base.Webex.RoomID = override.Webex.RoomID
	}
	if override.Webex.APIBase != "" {
		base.Webex.APIBase = override.Webex.APIBase
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging:  LoggingConfig{Level: "info", Format: "text"},
		Database: DatabaseConfig{DSN: ""},
		Scheduler: SchedulerConfig{
			Hour:     6,
			Minute:   0,
			Timezone: defaultTimezone,
			location: tz,
		},
		Pipeline: PipelineConfig{
			FirstDedupThreshold:  0.85,
			SecondDedupThreshold: 0.90,
			Keywords: []string{
				"generative AI",
				"AI advertising",
				"AI marketing",
				"AI regulation",
				"AI personalization",
			},
			MaxPerSource:      100,
			LeadSentences:     3,
			MaxConcurrent:     8,
			RunTimeoutMinutes: 30,
		},
		Sources: SourcesConfig{
			Naver: NaverConfig{
				Endpoint: "https://openapi.naver.com/v1/search/news.json",
			},
			NewsAPI: NewsAPIConfig{
				Endpoint: "https://newsapi.org/v2/everything",
				Language: "en",
			},
		},
		Embeddings: EmbeddingsConfig{
			Endpoint:  "https://ml.example.org/embeddings",
			Model:     "text-embedding-004",
			Dimension: 768,
		},
		Classifier: ClassifierConfig{
			Endpoint:          "https://api.openai.com/v1/chat/completions",
			Model:             "gpt-4o-mini",
			RequestsPerMinute: 60,
		},
		Webex: WebexConfig{
			APIBase: "https://webexapis.com/v1",
		},
	}
}
