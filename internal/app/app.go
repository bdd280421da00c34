package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"RecipeImageScanner/internal/config"
	"RecipeImageScanner/internal/domain"
	"RecipeImageScanner/internal/infrastructure/browser"
	"RecipeImageScanner/internal/infrastructure/mealdb"
	"RecipeImageScanner/internal/infrastructure/storage"
	"RecipeImageScanner/internal/infrastructure/telegram"
	"RecipeImageScanner/internal/infrastructure/websearch"
	"RecipeImageScanner/internal/logging"
	"RecipeImageScanner/internal/match"
	"RecipeImageScanner/internal/ports"
	"RecipeImageScanner/internal/report"
	"RecipeImageScanner/internal/resolve"
	"RecipeImageScanner/internal/source"
	"RecipeImageScanner/internal/usecase"
	"RecipeImageScanner/internal/validate"
)

// Application wires configs to the backfill batch and owns the external
// resources (database, browser session) for its lifetime.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	db       *sql.DB
	store    ports.RecipeStore
	renderer *browser.Renderer
	sources  []source.Source
	notifier ports.Notifier
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	db, err := storage.Open(cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("connect store: %w", err)
	}
	store := storage.NewPostgresStore(db)

	renderer := browser.New(browser.Config{
		Headless:   cfg.Browser.Headless,
		UserAgent:  cfg.Browser.UserAgent,
		NavTimeout: cfg.Browser.NavTimeout(),
		Settle:     cfg.Browser.Settle(),
	})

	checker := validate.NewChecker(&http.Client{Timeout: cfg.Validation.Timeout()}, cfg.Browser.UserAgent)
	selector := match.NewSelector(baseLogger.With("component", "selector"))
	resolver := resolve.New(renderer, checker, baseLogger.With("component", "resolver"))

	registry := source.NewRegistry()
	registry.Register(websearch.New(
		renderer,
		selector,
		resolver,
		cfg.Search.SiteURL,
		cfg.Search.CardSelector,
		baseLogger.With("component", "source.web"),
	))
	registry.Register(mealdb.New(
		cfg.Search.MealDBURL,
		nil,
		checker,
		baseLogger.With("component", "source.mealdb"),
	))

	sources := make([]source.Source, 0, len(cfg.Search.Sources))
	for _, name := range cfg.Search.Sources {
		src, err := registry.Resolve(name)
		if err != nil {
			renderer.Close()
			_ = db.Close()
			return nil, fmt.Errorf("configure sources: %w", err)
		}
		sources = append(sources, src)
	}

	var notifier ports.Notifier
	if cfg.Notifications.Telegram.BotToken != "" {
		notifier = telegram.NewNotifier(
			cfg.Notifications.Telegram.BotToken,
			cfg.Notifications.Telegram.ChatID,
		)
	}

	return &Application{
		cfg:      cfg,
		logger:   baseLogger,
		db:       db,
		store:    store,
		renderer: renderer,
		sources:  sources,
		notifier: notifier,
	}, nil
}

// Run executes one backfill batch over every stored recipe lacking an image.
func (a *Application) Run(ctx context.Context) error {
	defer a.Close()

	assigned, err := a.store.AssignedImageURLs(ctx)
	if err != nil {
		return fmt.Errorf("load assigned urls: %w", err)
	}
	used := domain.NewImageSet(assigned...)

	titles, err := a.store.MissingImageTitles(ctx, a.cfg.Batch.Limit)
	if err != nil {
		return fmt.Errorf("list missing titles: %w", err)
	}

	a.logger.Info("batch start", "recipes", len(titles), "assigned_urls", used.Len())
	if len(titles) == 0 {
		a.logger.Info("all recipes already have images")
		return nil
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Store:   a.store,
		Sources: a.sources,
		Used:    used,
		Logger:  a.logger.With("component", "pipeline"),
	})

	recorder := report.NewRecorder()
	runner := usecase.NewRunner(pipeline, recorder, a.cfg.Batch.Delay(), a.logger.With("component", "runner"))
	runner.Run(ctx, titles)

	summary := recorder.Summary()
	fmt.Fprintln(os.Stdout, summary)

	if a.notifier != nil {
		if err := a.notifier.PublishSummary(ctx, summary); err != nil {
			a.logger.Warn("publish summary failed", "error", err)
		}
	}

	return nil
}

// Close releases the browser session and the database connection.
func (a *Application) Close() {
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}
