package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/anwarji786/EnglishLearningApp/internal/config"
	"github.com/anwarji786/EnglishLearningApp/internal/domain/srs"
	"github.com/anwarji786/EnglishLearningApp/internal/events"
	"github.com/anwarji786/EnglishLearningApp/internal/platform/gemini"
	"github.com/anwarji786/EnglishLearningApp/internal/platform/postgres"
	"github.com/anwarji786/EnglishLearningApp/internal/service/auth"
	"github.com/anwarji786/EnglishLearningApp/internal/service/review"
	"github.com/anwarji786/EnglishLearningApp/internal/service/story"
	"github.com/anwarji786/EnglishLearningApp/internal/store"
	"github.com/anwarji786/EnglishLearningApp/internal/task"
)

// application holds the wired dependencies for the server process.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	learnerStore     store.LearnerStore
	itemStore        store.ItemStore
	reviewStateStore store.ReviewStateStore
	storyStore       store.StoryStore

	jwtService       auth.JWTService
	passwordService  *auth.BcryptPasswordService
	reviewService    review.ReviewService
	storyService     story.StoryService
	taskRunner       *task.TaskRunner
	generationActive bool
}

// openDatabase opens and verifies the PostgreSQL connection pool.
func openDatabase(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("failed to close database after ping failure", "error", closeErr)
		}
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

// newApplication wires the stores, services, and background task machinery.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	app.learnerStore = postgres.NewPostgresLearnerStore(db, logger)
	app.itemStore = postgres.NewPostgresItemStore(db, logger)
	app.reviewStateStore = postgres.NewPostgresReviewStateStore(db, logger)
	app.storyStore = postgres.NewPostgresStoryStore(db, logger)
	taskStore := postgres.NewPostgresTaskStore(db, logger)

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("creating JWT service: %w", err)
	}
	app.jwtService = jwtService
	app.passwordService = auth.NewBcryptPasswordService(cfg.Auth.BCryptCost)

	scheduler := srs.NewServiceWithParams(srs.NewParams(cfg.Scheduler))
	runTx := store.NewDBTxRunner(db)

	app.reviewService, err = review.NewReviewService(
		app.reviewStateStore, app.itemStore, scheduler, runTx, logger)
	if err != nil {
		return nil, fmt.Errorf("creating review service: %w", err)
	}

	emitter := events.NewInMemoryEventEmitter(logger)

	app.storyService, err = story.NewStoryService(app.storyStore, app.itemStore, emitter, logger)
	if err != nil {
		return nil, fmt.Errorf("creating story service: %w", err)
	}

	app.taskRunner = task.NewTaskRunner(taskStore, task.TaskRunnerConfig{
		WorkerCount:  cfg.Task.WorkerCount,
		QueueSize:    cfg.Task.QueueSize,
		StuckTaskAge: time.Duration(cfg.Task.StuckTaskAgeMinutes) * time.Minute,
	}, logger)

	// Story generation runs only when a Gemini API key is configured;
	// everything else works without it.
	if cfg.LLM.GeminiAPIKey != "" {
		if err := app.wireGeneration(cfg, logger, scheduler, runTx, emitter); err != nil {
			return nil, err
		}
		app.generationActive = true
	} else {
		logger.Warn("no Gemini API key configured; story generation is disabled")
	}

	return app, nil
}

// wireGeneration connects the Gemini generator, story processor, and task
// factory to the event and task machinery.
func (app *application) wireGeneration(
	cfg *config.Config,
	logger *slog.Logger,
	scheduler srs.Service,
	runTx store.TxRunner,
	emitter *events.InMemoryEventEmitter,
) error {
	generator, err := gemini.NewGeminiGenerator(context.Background(), logger, cfg.LLM)
	if err != nil {
		return fmt.Errorf("creating generator: %w", err)
	}

	processor, err := story.NewProcessor(
		app.storyStore, app.itemStore, app.reviewStateStore, scheduler, runTx, logger)
	if err != nil {
		return fmt.Errorf("creating story processor: %w", err)
	}

	factory := task.NewStoryGenerationTaskFactory(processor, generator, processor, logger)
	app.taskRunner.RegisterFactory(task.TaskTypeStoryGeneration, factory)

	handler := task.NewStoryTaskEventHandler(factory, app.taskRunner, logger)
	emitter.RegisterHandler(handler)

	return nil
}

// cleanup releases resources during shutdown.
func (app *application) cleanup() {
	if app.taskRunner != nil {
		app.taskRunner.Stop()
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database", "error", err)
		}
	}
}
