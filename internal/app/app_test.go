package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khrees2412/predicta/internal/config"
	"github.com/khrees2412/predicta/internal/scorer"
)

func testConfig(t *testing.T) *config.Config {
	dir := t.TempDir()
	return &config.Config{
		DBPath:            filepath.Join(dir, "predicta.db"),
		ModelPath:         filepath.Join(dir, "model.json"),
		RemoveStopwords:   true,
		AnonymizePII:      true,
		EmbeddingProvider: "none",
		LogLevel:          "info",
		ParallelThreshold: 16,
	}
}

func TestNew_WiresContainer(t *testing.T) {
	a, err := New(context.Background(), testConfig(t))
	require.NoError(t, err)
	defer a.Close()

	require.NotNil(t, a.DB)
	assert.NoError(t, a.DB.Ping())
	assert.NotNil(t, a.Logger)
	assert.NotNil(t, a.Fetcher)
	assert.Nil(t, a.Embedder)
	assert.Nil(t, a.Semantic())
	assert.False(t, a.Scorer.HasModel())

	_, err = a.Scorer.Predict(scorer.FeatureVector{})
	assert.ErrorIs(t, err, scorer.ErrModelUnavailable)

	opts := a.RankOptions(false, true)
	assert.False(t, opts.RemoveStopwords)
	assert.True(t, opts.AnonymizePII)
	assert.Equal(t, 16, opts.ParallelThreshold)
}

func TestNew_EmbedderConfigured(t *testing.T) {
	cfg := testConfig(t)
	cfg.EmbeddingProvider = "sbert"
	cfg.EmbeddingURL = "http://127.0.0.1:8001"

	a, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer a.Close()

	require.NotNil(t, a.Embedder)
	assert.Equal(t, "sbert", a.Embedder.Provider())
	assert.NotNil(t, a.Semantic())
}

func TestNew_MisconfiguredEmbedderIsSkipped(t *testing.T) {
	cfg := testConfig(t)
	cfg.EmbeddingProvider = "openai"

	a, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer a.Close()
	assert.Nil(t, a.Embedder)
}

func TestEmbedderOptions_KeyOnlyForOpenAI(t *testing.T) {
	cfg := testConfig(t)
	cfg.OpenAIKey = "sk-secret"
	cfg.EmbeddingURL = "http://127.0.0.1:8001"

	for _, provider := range []string{"sbert", "ollama", "none"} {
		cfg.EmbeddingProvider = provider
		opts := embedderOptions(cfg)
		assert.Empty(t, opts.APIKey, provider)
		assert.Equal(t, "http://127.0.0.1:8001", opts.BaseURL, provider)
	}

	cfg.EmbeddingProvider = "openai"
	opts := embedderOptions(cfg)
	assert.Equal(t, "sk-secret", opts.APIKey)
	assert.Empty(t, opts.BaseURL, "openai uses its own endpoint")
}

func TestContextRoundTrip(t *testing.T) {
	assert.Nil(t, GetAppFromContext(context.Background()))

	a := &App{}
	ctx := SetAppInContext(context.Background(), a)
	assert.Same(t, a, GetAppFromContext(ctx))
}
