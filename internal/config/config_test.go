package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) string {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	dir := t.TempDir()
	require.NoError(t, InitializeIn(dir))
	return dir
}

func TestInitializeIn_CreatesDefaults(t *testing.T) {
	dir := setup(t)

	info, err := os.Stat(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	require.NotNil(t, AppConfig)
	assert.Equal(t, filepath.Join(dir, "predicta.db"), AppConfig.DBPath)
	assert.Equal(t, filepath.Join(dir, "model.json"), AppConfig.ModelPath)
	assert.True(t, AppConfig.RemoveStopwords)
	assert.True(t, AppConfig.AnonymizePII)
	assert.Equal(t, "none", AppConfig.EmbeddingProvider)
	assert.Equal(t, "http://127.0.0.1:8001", AppConfig.EmbeddingURL)
	assert.Equal(t, 5.0, AppConfig.EmbeddingRateLimit)
	assert.Equal(t, 64, AppConfig.ParallelThreshold)
	assert.Equal(t, filepath.Join(dir, "config.yaml"), GetConfigPath())
}

func TestSet_PersistsAndReloads(t *testing.T) {
	dir := setup(t)

	require.NoError(t, Set("remove_stopwords", "false"))
	require.NoError(t, Set("parallel_threshold", "8"))
	require.NoError(t, Set("embedding_provider", "sbert"))
	assert.Equal(t, "sbert", Get("embedding_provider"))

	viper.Reset()
	require.NoError(t, InitializeIn(dir))
	assert.False(t, AppConfig.RemoveStopwords)
	assert.Equal(t, 8, AppConfig.ParallelThreshold)
	assert.Equal(t, "sbert", AppConfig.EmbeddingProvider)
}

func TestSet_Rejects(t *testing.T) {
	setup(t)

	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "unknown key", key: "ai_provider", value: "openai"},
		{name: "bad bool", key: "anonymize_pii", value: "maybe"},
		{name: "non-positive int", key: "parallel_threshold", value: "0"},
		{name: "negative rate", key: "embedding_rate_limit", value: "-1"},
		{name: "unknown provider", key: "embedding_provider", value: "gpt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, Set(tt.key, tt.value))
		})
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("PREDICTA_LOG_LEVEL", "debug")
	setup(t)
	assert.Equal(t, "debug", AppConfig.LogLevel)
}

func TestKeysAndSecrets(t *testing.T) {
	k := Keys()
	assert.Contains(t, k, "db_path")
	assert.IsIncreasing(t, k)
	assert.True(t, IsSecret("openai_key"))
	assert.False(t, IsSecret("embedding_model"))
}
