package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	DBPath          string `mapstructure:"db_path"`
	ModelPath       string `mapstructure:"model_path"`
	RemoveStopwords bool   `mapstructure:"remove_stopwords"`
	AnonymizePII    bool   `mapstructure:"anonymize_pii"`
	// Semantic similarity backend: sbert, ollama, openai or none
	EmbeddingProvider  string  `mapstructure:"embedding_provider"`
	EmbeddingURL       string  `mapstructure:"embedding_url"`
	EmbeddingModel     string  `mapstructure:"embedding_model"`
	EmbeddingRateLimit float64 `mapstructure:"embedding_rate_limit"`
	OpenAIKey          string  `mapstructure:"openai_key"`
	LogLevel           string  `mapstructure:"log_level"`
	LogJSON            bool    `mapstructure:"log_json"`
	ParallelThreshold  int     `mapstructure:"parallel_threshold"`
}

const (
	dirName  = ".predicta"
	fileName = "config.yaml"
)

var AppConfig *Config

// kind is the value type of a settable key.
type kind int

const (
	kindString kind = iota
	kindBool
	kindInt
	kindFloat
)

var keys = map[string]kind{
	"db_path":              kindString,
	"model_path":           kindString,
	"remove_stopwords":     kindBool,
	"anonymize_pii":        kindBool,
	"embedding_provider":   kindString,
	"embedding_url":        kindString,
	"embedding_model":      kindString,
	"embedding_rate_limit": kindFloat,
	"openai_key":           kindString,
	"log_level":            kindString,
	"log_json":             kindBool,
	"parallel_threshold":   kindInt,
}

var providers = map[string]bool{"none": true, "sbert": true, "ollama": true, "openai": true}

// Initialize loads or creates the configuration file under the user's home
func Initialize() error {
	dir, err := defaultDir()
	if err != nil {
		return err
	}
	return InitializeIn(dir)
}

// InitializeIn loads or creates config.yaml inside dir. Data files default to
// the same directory.
func InitializeIn(configDir string) error {
	configFile := filepath.Join(configDir, fileName)

	// Create config directory if it doesn't exist
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Create default config if it doesn't exist
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		if err := createDefaultConfig(configFile); err != nil {
			return err
		}
	}

	viper.SetConfigFile(configFile)
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("PREDICTA")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("db_path", filepath.Join(configDir, "predicta.db"))
	viper.SetDefault("model_path", filepath.Join(configDir, "model.json"))
	viper.SetDefault("remove_stopwords", true)
	viper.SetDefault("anonymize_pii", true)
	viper.SetDefault("embedding_provider", "none")
	viper.SetDefault("embedding_url", "http://127.0.0.1:8001")
	viper.SetDefault("embedding_model", "all-MiniLM-L6-v2")
	viper.SetDefault("embedding_rate_limit", 5.0)
	viper.SetDefault("openai_key", "")
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_json", false)
	viper.SetDefault("parallel_threshold", 64)

	// Read config
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	// Unmarshal into struct
	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.DBPath = expandHome(cfg.DBPath)
	cfg.ModelPath = expandHome(cfg.ModelPath)
	AppConfig = cfg

	return nil
}

// createDefaultConfig creates a default config file
func createDefaultConfig(path string) error {
	defaultConfig := `# Predicta Configuration
# Storage (defaults to files next to this config)
# db_path: ~/.predicta/predicta.db
# model_path: ~/.predicta/model.json

# Preprocessing defaults for new jobs
remove_stopwords: true
anonymize_pii: true

# Semantic similarity: none, sbert, ollama, openai
embedding_provider: none
embedding_url: http://127.0.0.1:8001
embedding_model: all-MiniLM-L6-v2
embedding_rate_limit: 5

# API Keys (keep this file secure!)
openai_key: ""

# Logging: info or debug
log_level: info
log_json: false

# Candidate count above which ranking runs in parallel
parallel_threshold: 64
`
	return os.WriteFile(path, []byte(defaultConfig), 0600)
}

// Set validates and updates a configuration value
func Set(key, value string) error {
	k, ok := keys[key]
	if !ok {
		return fmt.Errorf("unknown config key %q (valid: %s)", key, strings.Join(Keys(), ", "))
	}

	var v any = value
	switch k {
	case kindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s expects true or false: %w", key, err)
		}
		v = b
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("%s expects a positive integer, got %q", key, value)
		}
		v = n
	case kindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 {
			return fmt.Errorf("%s expects a non-negative number, got %q", key, value)
		}
		v = f
	}
	if key == "embedding_provider" && !providers[value] {
		return fmt.Errorf("embedding_provider must be one of none, sbert, ollama, openai")
	}

	viper.Set(key, v)
	return viper.WriteConfig()
}

// Get retrieves a configuration value
func Get(key string) string {
	return viper.GetString(key)
}

// Keys returns the settable configuration keys in sorted order.
func Keys() []string {
	out := make([]string, 0, len(keys))
	for k := range keys {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// IsSecret reports whether a key should be masked when displayed.
func IsSecret(key string) bool {
	return strings.HasSuffix(key, "_key")
}

// GetConfigPath returns the path to the config file
func GetConfigPath() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	dir, _ := defaultDir()
	return filepath.Join(dir, fileName)
}

func defaultDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, dirName), nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
