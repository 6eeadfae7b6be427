package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmbedder(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
		isOff   bool
	}{
		{name: "none disables", opts: Options{Provider: "none"}, wantErr: true, isOff: true},
		{name: "empty disables", opts: Options{}, wantErr: true, isOff: true},
		{name: "sbert needs url", opts: Options{Provider: "sbert"}, wantErr: true},
		{name: "openai needs key", opts: Options{Provider: "openai"}, wantErr: true},
		{name: "unknown provider", opts: Options{Provider: "bedrock", BaseURL: "http://x"}, wantErr: true},
		{name: "sbert ok", opts: Options{Provider: "SBERT", BaseURL: "http://localhost:8001/"}},
		{name: "openai ok", opts: Options{Provider: "openai", APIKey: "sk-test"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := NewEmbedder(tt.opts, nil, nil)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.isOff, err == ErrDisabled)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, e)
		})
	}
}

func TestEmbedder_SBERT(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embed", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var body struct {
			Texts []string `json:"texts"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Texts, 2)

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"embeddings": [][]float64{{1, 0}, {1, 1}},
			"dim":        2,
			"model":      "all-MiniLM-L6-v2",
		})
	}))
	defer srv.Close()

	e, err := NewEmbedder(Options{Provider: ProviderSBERT, BaseURL: srv.URL}, srv.Client(), nil)
	require.NoError(t, err)

	sim, err := e.Similarity(context.Background(), "python developer", "django engineer")
	require.NoError(t, err)
	assert.InDelta(t, 0.7071, sim, 1e-4)
}

func TestEmbedder_Ollama(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/api/embeddings", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "nomic-embed-text", body["model"])

		_ = json.NewEncoder(w).Encode(map[string]interface{}{"embedding": []float64{0.5, 0.5}})
	}))
	defer srv.Close()

	e, err := NewEmbedder(Options{Provider: ProviderOllama, BaseURL: srv.URL}, srv.Client(), nil)
	require.NoError(t, err)

	vecs, err := e.Embed(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Len(t, vecs, 3)
	assert.Equal(t, 3, calls)
}

func TestEmbedder_OpenAIOrdersByIndex(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{
				{"index": 1, "embedding": []float64{0, 1}},
				{"index": 0, "embedding": []float64{1, 0}},
			},
		})
	}))
	defer srv.Close()

	e, err := NewEmbedder(Options{Provider: ProviderOpenAI, BaseURL: srv.URL, APIKey: "sk-test"}, srv.Client(), nil)
	require.NoError(t, err)

	vecs, err := e.Embed(context.Background(), []string{"first", "second"})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 0}, {0, 1}}, vecs)
}

func TestEmbedder_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Field 'texts' must be a list", http.StatusBadRequest)
	}))
	defer srv.Close()

	e, err := NewEmbedder(Options{Provider: ProviderSBERT, BaseURL: srv.URL}, srv.Client(), nil)
	require.NoError(t, err)

	_, err = e.Similarity(context.Background(), "a", "b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 400")
}

func TestEmbedder_CountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"embeddings": [][]float64{{1}}})
	}))
	defer srv.Close()

	e, err := NewEmbedder(Options{Provider: ProviderSBERT, BaseURL: srv.URL}, srv.Client(), nil)
	require.NoError(t, err)

	_, err = e.Embed(context.Background(), []string{"a", "b"})
	assert.Error(t, err)
}

func TestEmbedder_CanceledContext(t *testing.T) {
	e, err := NewEmbedder(Options{Provider: ProviderSBERT, BaseURL: "http://127.0.0.1:1", RateLimit: 0.001}, nil, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = e.Embed(ctx, []string{"a"})
	assert.Error(t, err)
}

func TestEmbedder_SelfHostedProvidersNeverSendAPIKey(t *testing.T) {
	for _, provider := range []string{ProviderSBERT, ProviderOllama} {
		t.Run(provider, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Empty(t, r.Header.Get("Authorization"))
				_ = json.NewEncoder(w).Encode(map[string]interface{}{
					"embeddings": [][]float64{{1, 0}},
					"embedding":  []float64{1, 0},
				})
			}))
			defer srv.Close()

			e, err := NewEmbedder(Options{Provider: provider, BaseURL: srv.URL, APIKey: "sk-secret"}, srv.Client(), nil)
			require.NoError(t, err)

			_, err = e.Embed(context.Background(), []string{"a"})
			require.NoError(t, err)
		})
	}
}

func TestEmbedder_SimilarityDimensionMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"embeddings": [][]float64{{1, 0, 0}, {1, 0}},
		})
	}))
	defer srv.Close()

	e, err := NewEmbedder(Options{Provider: ProviderSBERT, BaseURL: srv.URL}, srv.Client(), nil)
	require.NoError(t, err)

	_, err = e.Similarity(context.Background(), "a", "b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "different dimensions")
}
