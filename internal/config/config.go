package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds application configuration for the game server, the hint
// analyzer and the operator CLI.
type Config struct {
	ServerPort   string `yaml:"server_port"`
	AnalyzerPort string `yaml:"analyzer_port"`

	DatabaseType string `yaml:"database_type"`
	DatabasePath string `yaml:"database_path"`
	DatabaseURL  string `yaml:"database_url"`

	SessionStore           string        `yaml:"session_store"`
	SessionTTL             time.Duration `yaml:"session_ttl"`
	SessionCleanupInterval time.Duration `yaml:"session_cleanup_interval"`
	RedisURL               string        `yaml:"redis_url"`

	HintAnalyzerURL      string        `yaml:"hint_analyzer_url"`
	HintDirectURL        string        `yaml:"hint_direct_url"`
	HintPrimaryTimeout   time.Duration `yaml:"hint_primary_timeout"`
	HintSecondaryTimeout time.Duration `yaml:"hint_secondary_timeout"`
	HintBearerToken      string        `yaml:"hint_bearer_token"`
	HintSigningKey       string        `yaml:"hint_signing_key"`
	HintAPIKey           string        `yaml:"hint_api_key"`
	HintOAuthTokenURL    string        `yaml:"hint_oauth_token_url"`
	HintOAuthClientID    string        `yaml:"hint_oauth_client_id"`
	HintOAuthSecret      string        `yaml:"hint_oauth_client_secret"`

	AnalyzerSigningKey  string `yaml:"analyzer_signing_key"`
	AnalyzerAPIKeyHash  string `yaml:"analyzer_api_key_hash"`
	AnalyzerPublicURL   string `yaml:"analyzer_public_url"`
	AnalyzerCatalogFile string `yaml:"analyzer_catalog_file"`

	BlockedWordsURL string `yaml:"blocked_words_url"`

	MatchShortWordMax int `yaml:"match_short_word_max"`
	MatchShortEdits   int `yaml:"match_short_edits"`
	MatchLongEdits    int `yaml:"match_long_edits"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Load reads configuration from an optional YAML file named by CONFIG_FILE,
// then applies environment variable overrides and defaults.
func Load() (*Config, error) {
	cfg := newConfig()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		fileCfg, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
	}

	applyEnv(cfg)
	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile parses a YAML config file, expanding ${VAR} references.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the operator
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	data = []byte(expandEnvVars(string(data)))

	cfg := newConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// newConfig presets the fields where zero is a meaningful setting, so an
// explicit 0 from the file or environment survives applyDefaults.
func newConfig() *Config {
	return &Config{
		MatchShortWordMax: 5,
		MatchShortEdits:   1,
		MatchLongEdits:    2,
	}
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars expands ${VAR} patterns in the string.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[2 : len(match)-1])
	})
}

func applyEnv(cfg *Config) {
	cfg.ServerPort = getEnv("SERVER_PORT", getEnv("PORT", cfg.ServerPort))
	cfg.AnalyzerPort = getEnv("ANALYZER_PORT", cfg.AnalyzerPort)

	cfg.DatabaseType = getEnv("DATABASE_TYPE", cfg.DatabaseType)
	cfg.DatabasePath = getEnv("DATABASE_PATH", cfg.DatabasePath)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)

	cfg.SessionStore = getEnv("SESSION_STORE", cfg.SessionStore)
	cfg.SessionTTL = getEnvDuration("SESSION_TTL", cfg.SessionTTL)
	cfg.SessionCleanupInterval = getEnvDuration("SESSION_CLEANUP_INTERVAL", cfg.SessionCleanupInterval)
	cfg.RedisURL = getEnv("REDIS_URL", cfg.RedisURL)

	cfg.HintAnalyzerURL = getEnv("HINT_ANALYZER_URL", cfg.HintAnalyzerURL)
	cfg.HintDirectURL = getEnv("HINT_DIRECT_URL", cfg.HintDirectURL)
	cfg.HintPrimaryTimeout = getEnvDuration("HINT_PRIMARY_TIMEOUT", cfg.HintPrimaryTimeout)
	cfg.HintSecondaryTimeout = getEnvDuration("HINT_SECONDARY_TIMEOUT", cfg.HintSecondaryTimeout)
	cfg.HintBearerToken = getEnv("HINT_BEARER_TOKEN", cfg.HintBearerToken)
	cfg.HintSigningKey = getEnv("HINT_SIGNING_KEY", cfg.HintSigningKey)
	cfg.HintAPIKey = getEnv("HINT_API_KEY", cfg.HintAPIKey)
	cfg.HintOAuthTokenURL = getEnv("HINT_OAUTH_TOKEN_URL", cfg.HintOAuthTokenURL)
	cfg.HintOAuthClientID = getEnv("HINT_OAUTH_CLIENT_ID", cfg.HintOAuthClientID)
	cfg.HintOAuthSecret = getEnv("HINT_OAUTH_CLIENT_SECRET", cfg.HintOAuthSecret)

	cfg.AnalyzerSigningKey = getEnv("ANALYZER_SIGNING_KEY", cfg.AnalyzerSigningKey)
	cfg.AnalyzerAPIKeyHash = getEnv("ANALYZER_API_KEY_HASH", cfg.AnalyzerAPIKeyHash)
	cfg.AnalyzerPublicURL = getEnv("ANALYZER_PUBLIC_URL", cfg.AnalyzerPublicURL)
	cfg.AnalyzerCatalogFile = getEnv("ANALYZER_CATALOG_FILE", cfg.AnalyzerCatalogFile)

	cfg.BlockedWordsURL = getEnv("BLOCKED_WORDS_URL", cfg.BlockedWordsURL)

	cfg.MatchShortWordMax = getEnvInt("MATCH_SHORT_WORD_MAX", cfg.MatchShortWordMax)
	cfg.MatchShortEdits = getEnvInt("MATCH_SHORT_EDITS", cfg.MatchShortEdits)
	cfg.MatchLongEdits = getEnvInt("MATCH_LONG_EDITS", cfg.MatchLongEdits)

	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("LOG_FORMAT", cfg.LogFormat)
}

// applyDefaults fills unset fields whose zero value is never meaningful.
func applyDefaults(cfg *Config) {
	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}
	if cfg.AnalyzerPort == "" {
		cfg.AnalyzerPort = "8090"
	}
	if cfg.DatabaseType == "" {
		cfg.DatabaseType = "sqlite"
	}
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = "./data/synonymseeker.db"
	}
	if cfg.SessionStore == "" {
		cfg.SessionStore = "memory"
	}
	if cfg.SessionTTL == 0 {
		cfg.SessionTTL = 2 * time.Hour
	}
	if cfg.SessionCleanupInterval == 0 {
		cfg.SessionCleanupInterval = 10 * time.Minute
	}
	if cfg.HintPrimaryTimeout == 0 {
		cfg.HintPrimaryTimeout = 30 * time.Second
	}
	if cfg.HintSecondaryTimeout == 0 {
		cfg.HintSecondaryTimeout = 30 * time.Second
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var errs []string

	switch strings.ToLower(c.DatabaseType) {
	case "sqlite", "sqlite3":
	case "postgres", "postgresql", "mysql":
		if c.DatabaseURL == "" {
			errs = append(errs, "DATABASE_URL is required for "+c.DatabaseType)
		}
	default:
		errs = append(errs, "unsupported DATABASE_TYPE: "+c.DatabaseType)
	}

	switch c.SessionStore {
	case "memory":
	case "redis":
		if c.RedisURL == "" {
			errs = append(errs, "REDIS_URL is required when SESSION_STORE is redis")
		}
	default:
		errs = append(errs, "unsupported SESSION_STORE: "+c.SessionStore)
	}

	if c.HintPrimaryTimeout < 0 || c.HintSecondaryTimeout < 0 {
		errs = append(errs, "hint timeouts must be positive")
	}
	if c.HintOAuthTokenURL != "" && c.HintOAuthClientID == "" {
		errs = append(errs, "HINT_OAUTH_CLIENT_ID is required with HINT_OAUTH_TOKEN_URL")
	}
	if c.MatchShortWordMax < 0 || c.MatchShortEdits < 0 || c.MatchLongEdits < 0 {
		errs = append(errs, "match edit tolerances must not be negative")
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, "unsupported LOG_FORMAT: "+c.LogFormat)
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors: %s", strings.Join(errs, "; "))
	}
	return nil
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
