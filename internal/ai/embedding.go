// Package ai talks to external embedding services to measure semantic
// similarity between a job description and a résumé.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/khrees2412/predicta/internal/vectorspace"
)

// Supported embedding providers
const (
	ProviderNone   = "none"
	ProviderSBERT  = "sbert"
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

const (
	defaultOpenAIURL = "https://api.openai.com"
	maxResponseBytes = 8 << 20
)

// ErrDisabled is returned by NewEmbedder when no provider is configured
var ErrDisabled = errors.New("embedding provider disabled")

// Options configure an Embedder
type Options struct {
	Provider string
	BaseURL  string
	Model    string
	APIKey   string
	// RateLimit is requests per second; <= 0 means unlimited
	RateLimit float64
}

// Embedder turns texts into dense vectors through an external service
type Embedder struct {
	opts    Options
	client  *http.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewEmbedder validates opts and returns a client for the configured provider
func NewEmbedder(opts Options, client *http.Client, logger *zap.Logger) (*Embedder, error) {
	opts.Provider = strings.ToLower(strings.TrimSpace(opts.Provider))
	switch opts.Provider {
	case "", ProviderNone:
		return nil, ErrDisabled
	case ProviderSBERT, ProviderOllama:
		if opts.BaseURL == "" {
			return nil, fmt.Errorf("embedding_url is required for provider %s", opts.Provider)
		}
		// Self-hosted servers never receive the OpenAI key.
		opts.APIKey = ""
	case ProviderOpenAI:
		if opts.APIKey == "" {
			return nil, fmt.Errorf("OpenAI API key not configured. Run: predicta config set --key openai_key --value YOUR_KEY")
		}
		if opts.BaseURL == "" {
			opts.BaseURL = defaultOpenAIURL
		}
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", opts.Provider)
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")

	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}

	return &Embedder{
		opts:    opts,
		client:  client,
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger.With(zap.String("embedding_provider", opts.Provider), zap.String("embedding_model", opts.Model)),
	}, nil
}

// Provider returns the configured provider name
func (e *Embedder) Provider() string {
	return e.opts.Provider
}

// Similarity returns the cosine similarity of the embeddings of a and b
func (e *Embedder) Similarity(ctx context.Context, a, b string) (float64, error) {
	vecs, err := e.Embed(ctx, []string{a, b})
	if err != nil {
		return 0, err
	}
	if len(vecs[0]) != len(vecs[1]) {
		return 0, fmt.Errorf("%s returned embeddings of different dimensions (%d and %d)", e.opts.Provider, len(vecs[0]), len(vecs[1]))
	}
	return vectorspace.Cosine(vecs[0], vecs[1]), nil
}

// Embed returns one vector per text, in order
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return [][]float64{}, nil
	}

	var (
		vecs [][]float64
		err  error
	)
	switch e.opts.Provider {
	case ProviderSBERT:
		vecs, err = e.embedWithSBERT(ctx, texts)
	case ProviderOllama:
		vecs, err = e.embedWithOllama(ctx, texts)
	case ProviderOpenAI:
		vecs, err = e.embedWithOpenAI(ctx, texts)
	}
	if err != nil {
		return nil, err
	}
	if len(vecs) != len(texts) {
		return nil, fmt.Errorf("%s returned %d embeddings for %d texts", e.opts.Provider, len(vecs), len(texts))
	}

	e.logger.Debug("embedded texts", zap.Int("count", len(texts)))
	return vecs, nil
}

// embedWithSBERT calls a sentence-transformers server: POST /embed {"texts": [...]}
func (e *Embedder) embedWithSBERT(ctx context.Context, texts []string) ([][]float64, error) {
	var result struct {
		Embeddings [][]float64 `json:"embeddings"`
		Model      string      `json:"model"`
	}
	if err := e.post(ctx, "/embed", map[string]interface{}{"texts": texts}, &result); err != nil {
		return nil, fmt.Errorf("sbert embed: %w", err)
	}
	if strings.HasSuffix(result.Model, "-fallback") {
		e.logger.Warn("embedding server returned fallback embeddings", zap.String("model", result.Model))
	}
	return result.Embeddings, nil
}

// embedWithOllama calls POST /api/embeddings once per text
func (e *Embedder) embedWithOllama(ctx context.Context, texts []string) ([][]float64, error) {
	model := e.opts.Model
	if model == "" {
		model = "nomic-embed-text"
	}

	vecs := make([][]float64, 0, len(texts))
	for _, text := range texts {
		var result struct {
			Embedding []float64 `json:"embedding"`
		}
		reqBody := map[string]interface{}{
			"model":  model,
			"prompt": text,
		}
		if err := e.post(ctx, "/api/embeddings", reqBody, &result); err != nil {
			return nil, fmt.Errorf("ollama embed: %w", err)
		}
		vecs = append(vecs, result.Embedding)
	}
	return vecs, nil
}

// embedWithOpenAI calls POST /v1/embeddings
func (e *Embedder) embedWithOpenAI(ctx context.Context, texts []string) ([][]float64, error) {
	model := e.opts.Model
	if model == "" {
		model = "text-embedding-3-small"
	}

	var result struct {
		Data []struct {
			Index     int       `json:"index"`
			Embedding []float64 `json:"embedding"`
		} `json:"data"`
	}
	reqBody := map[string]interface{}{
		"model": model,
		"input": texts,
	}
	if err := e.post(ctx, "/v1/embeddings", reqBody, &result); err != nil {
		return nil, fmt.Errorf("openai embed: %w", err)
	}

	vecs := make([][]float64, len(result.Data))
	for _, d := range result.Data {
		if d.Index < 0 || d.Index >= len(vecs) {
			return nil, fmt.Errorf("openai embed: unexpected index %d", d.Index)
		}
		vecs[d.Index] = d.Embedding
	}
	return vecs, nil
}

func (e *Embedder) post(ctx context.Context, path string, reqBody interface{}, out interface{}) error {
	if err := e.limiter.Wait(ctx); err != nil {
		return err
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.opts.BaseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if e.opts.Provider == ProviderOpenAI {
		req.Header.Set("Authorization", "Bearer "+e.opts.APIKey)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
