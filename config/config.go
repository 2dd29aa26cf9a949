package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/dagligdags/backend/internal/usecase"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Profiles  ProfilesConfig
	Deals     DealsConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Matching  MatchingConfig
	Log       LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ProfilesConfig selects where user profiles are stored
type ProfilesConfig struct {
	Backend     string `mapstructure:"backend"` // "file", "sqlite" or "postgres"
	Dir         string `mapstructure:"dir"`
	SQLitePath  string `mapstructure:"sqlite_path"`
	PostgresDSN string `mapstructure:"postgres_dsn"`
}

// DealsConfig selects where the current deals come from
type DealsConfig struct {
	Source     string `mapstructure:"source"` // "file" or "http"
	Dir        string `mapstructure:"dir"`
	FeedURL    string `mapstructure:"feed_url"`
	FeedAPIKey string `mapstructure:"feed_api_key"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute
}

// MatchingConfig tunes deal ranking
type MatchingConfig struct {
	MaxResults        int                `mapstructure:"max_results"`
	TransportPenalty  map[string]float64 `mapstructure:"transport_penalty"` // score per km
	LoyaltyMembership map[string]string  `mapstructure:"loyalty_membership"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile loads configuration like Load, reading the given file instead of searching
// for config.yaml when path is not empty
func LoadFile(path string) (*Config, error) {
	// A missing .env file is fine; the environment is used as is
	_ = godotenv.Load()

	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/dagligdags/")
	}

	// Environment variable settings, e.g. DAGLIGDAGS_PROFILES_BACKEND
	v.SetEnvPrefix("DAGLIGDAGS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	// Profile storage defaults
	v.SetDefault("profiles.backend", "file")
	v.SetDefault("profiles.dir", "data/users")
	v.SetDefault("profiles.sqlite_path", "data/profiles.db")
	v.SetDefault("profiles.postgres_dsn", "")

	// Deal source defaults
	v.SetDefault("deals.source", "file")
	v.SetDefault("deals.dir", "data/normalized")
	v.SetDefault("deals.feed_url", "")
	v.SetDefault("deals.feed_api_key", "")

	// Cache defaults
	v.SetDefault("cache.ttl", "15m")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)

	// Matching defaults
	defaults := usecase.DefaultScoreWeights()
	v.SetDefault("matching.max_results", usecase.DefaultMaxResults)
	v.SetDefault("matching.transport_penalty", defaults.DistancePenalties)
	v.SetDefault("matching.loyalty_membership", defaults.Memberships)

	v.SetDefault("log.level", "info")
}

// validate validates the configuration
func validate(config *Config) error {
	switch config.Profiles.Backend {
	case "file":
	case "sqlite":
		if config.Profiles.SQLitePath == "" {
			return fmt.Errorf("sqlite path is required when profile backend is 'sqlite'")
		}
	case "postgres":
		if config.Profiles.PostgresDSN == "" {
			return fmt.Errorf("postgres DSN is required when profile backend is 'postgres' (set DAGLIGDAGS_PROFILES_POSTGRES_DSN)")
		}
	default:
		return fmt.Errorf("profile backend must be 'file', 'sqlite' or 'postgres', got: %s", config.Profiles.Backend)
	}

	switch config.Deals.Source {
	case "file":
	case "http":
		if config.Deals.FeedURL == "" {
			return fmt.Errorf("feed URL is required when deal source is 'http' (set DAGLIGDAGS_DEALS_FEED_URL)")
		}
	default:
		return fmt.Errorf("deal source must be 'file' or 'http', got: %s", config.Deals.Source)
	}

	if config.Matching.MaxResults < 0 {
		return fmt.Errorf("matching max_results must not be negative, got: %d", config.Matching.MaxResults)
	}
	for mode, penalty := range config.Matching.TransportPenalty {
		if penalty < 0 {
			return fmt.Errorf("transport penalty for %s must not be negative, got: %v", mode, penalty)
		}
	}

	return nil
}

// ScoreWeights returns the default score weights with the configured
// transport penalties and loyalty memberships applied
func (m MatchingConfig) ScoreWeights() usecase.ScoreWeights {
	weights := usecase.DefaultScoreWeights()
	if len(m.TransportPenalty) > 0 {
		weights.DistancePenalties = m.TransportPenalty
	}
	if len(m.LoyaltyMembership) > 0 {
		weights.Memberships = m.LoyaltyMembership
	}
	return weights
}

// DealMatcherConfig returns the deal matcher settings
func (m MatchingConfig) DealMatcherConfig() usecase.DealMatcherConfig {
	return usecase.DealMatcherConfig{
		Weights:    m.ScoreWeights(),
		MaxResults: m.MaxResults,
	}
}
