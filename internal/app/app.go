package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/khrees2412/predicta/internal/ai"
	"github.com/khrees2412/predicta/internal/config"
	"github.com/khrees2412/predicta/internal/database"
	"github.com/khrees2412/predicta/internal/fetch"
	"github.com/khrees2412/predicta/internal/logger"
	"github.com/khrees2412/predicta/internal/matcher"
	"github.com/khrees2412/predicta/internal/scorer"
)

// App is the dependency container for the CLI application
type App struct {
	DB     *sql.DB
	Config *config.Config
	Logger *zap.Logger
	Scorer *scorer.Scorer
	// Embedder is nil when no embedding provider is configured
	Embedder *ai.Embedder
	Fetcher  *fetch.Fetcher
}

// NewApp initializes and returns a new App instance
func NewApp(ctx context.Context) (*App, error) {
	// Initialize config
	if err := config.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize config: %w", err)
	}
	return New(ctx, config.AppConfig)
}

// New wires the container from an already loaded configuration
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	log, err := logger.FromLevel(cfg.LogJSON, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	if err := database.Initialize(cfg.DBPath); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	s := scorer.New(cfg.ModelPath, log)
	if err := s.Load(); err != nil {
		// A corrupt artifact should not block job and candidate management.
		log.Warn("could not load ranking model", zap.Error(err))
	}

	// Create HTTP client with timeout
	httpClient := &http.Client{
		Timeout: 30 * time.Second,
	}

	embedder, err := ai.NewEmbedder(embedderOptions(cfg), httpClient, log)
	switch {
	case errors.Is(err, ai.ErrDisabled):
		embedder = nil
	case err != nil:
		log.Warn("semantic similarity disabled", zap.Error(err))
		embedder = nil
	}

	return &App{
		DB:       database.DB,
		Config:   cfg,
		Logger:   log,
		Scorer:   s,
		Embedder: embedder,
		Fetcher:  fetch.New(log),
	}, nil
}

// embedderOptions maps configuration to embedding client options. The OpenAI
// key is only handed to the openai provider.
func embedderOptions(cfg *config.Config) ai.Options {
	opts := ai.Options{
		Provider:  cfg.EmbeddingProvider,
		BaseURL:   cfg.EmbeddingURL,
		Model:     cfg.EmbeddingModel,
		RateLimit: cfg.EmbeddingRateLimit,
	}
	if strings.EqualFold(strings.TrimSpace(cfg.EmbeddingProvider), ai.ProviderOpenAI) {
		opts.APIKey = cfg.OpenAIKey
		// embedding_url defaults to a local sbert server; openai uses its own host.
		opts.BaseURL = ""
	}
	return opts
}

// RankOptions returns the ranking options for a job under this configuration
func (a *App) RankOptions(removeStopwords, anonymizePII bool) matcher.Options {
	return matcher.Options{
		RemoveStopwords:   removeStopwords,
		AnonymizePII:      anonymizePII,
		ParallelThreshold: a.Config.ParallelThreshold,
	}
}

// Semantic returns the embedder as a matcher.SemanticScorer, or nil when
// semantic similarity is not configured
func (a *App) Semantic() matcher.SemanticScorer {
	if a.Embedder == nil {
		return nil
	}
	return a.Embedder
}

// Close closes all resources
func (a *App) Close() error {
	if a.Logger != nil {
		_ = a.Logger.Sync()
	}
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
