package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"NewsIntel/internal/config"
	"NewsIntel/internal/infrastructure/embedding"
	"NewsIntel/internal/infrastructure/extractor"
	"NewsIntel/internal/infrastructure/llm"
	"NewsIntel/internal/infrastructure/newsapi"
	"NewsIntel/internal/infrastructure/scheduler"
	"NewsIntel/internal/infrastructure/storage"
	"NewsIntel/internal/infrastructure/webex"
	"NewsIntel/internal/logging"
	"NewsIntel/internal/ports"
	"NewsIntel/internal/similarity"
	"NewsIntel/internal/source"
	"NewsIntel/internal/usecase"
)

// Application wires configuration to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	pipeline *usecase.Pipeline
	db       *sql.DB
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	registry := source.NewRegistry()
	if cfg.Sources.Naver.ClientID != "" {
		registry.Register(newsapi.NewNaverClient(cfg.Sources.Naver,
			cfg.Pipeline.LeadSentences, nil,
			baseLogger.With("component", "source.naver")))
	}
	if cfg.Sources.NewsAPI.APIKey != "" {
		registry.Register(newsapi.NewNewsAPIClient(cfg.Sources.NewsAPI,
			cfg.Pipeline.LeadSentences, nil))
	}
	if len(registry.Names()) == 0 {
		return nil, ports.ErrNoSourcesConfigured
	}

	multiSource := newsapi.NewMultiSource(registry, cfg.Pipeline.Keywords,
		cfg.Pipeline.MaxPerSource, cfg.Scheduler.Location(),
		baseLogger.With("component", "source"))

	var repository ports.RunRepository
	var db *sql.DB
	if cfg.Database.DSN != "" {
		var err error
		db, err = sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		repository = storage.NewPostgresRepository(db)
	}

	var notifier ports.Notifier
	if cfg.Webex.BotToken != "" && cfg.Webex.RoomID != "" {
		notifier = webex.NewNotifier(cfg.Webex, baseLogger.With("component", "webex"))
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:     multiSource,
		Extractor:  extractor.New(nil, 0),
		Similarity: similarity.NewEngine(embedding.NewClient(cfg.Embeddings)),
		Classifier: llm.NewClient(cfg.Classifier),
		Notifier:   notifier,
		Repository: repository,
		Logger:     baseLogger.With("component", "pipeline"),
	}, usecase.Options{
		FirstDedupThreshold:  cfg.Pipeline.FirstDedupThreshold,
		SecondDedupThreshold: cfg.Pipeline.SecondDedupThreshold,
		MaxConcurrent:        cfg.Pipeline.MaxConcurrent,
		RunTimeout:           cfg.Pipeline.RunTimeout(),
	})

	return &Application{
		cfg:      cfg,
		logger:   baseLogger,
		pipeline: pipeline,
		db:       db,
	}, nil
}

// RunOnce executes a single pipeline run over yesterday's window.
func (a *Application) RunOnce(ctx context.Context) error {
	defer a.close()

	day := time.Now().In(a.cfg.Scheduler.Location()).AddDate(0, 0, -1)
	_, _, err := a.pipeline.Run(ctx, day)
	return err
}

// RunScheduled starts the daily scheduler and blocks until interrupted.
func (a *Application) RunScheduled(ctx context.Context) error {
	defer a.close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	driver := scheduler.NewDailyScheduler(a.cfg.Scheduler.Hour,
		a.cfg.Scheduler.Minute, a.cfg.Scheduler.Location())
	sched := usecase.NewScheduler(driver, a.pipeline)

	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	a.logger.Info("scheduler started",
		"hour", a.cfg.Scheduler.Hour, "minute", a.cfg.Scheduler.Minute,
		"timezone", a.cfg.Scheduler.Timezone)

	<-ctx.Done()
	return sched.Stop(context.Background())
}

func (a *Application) close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}
