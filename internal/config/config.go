// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Port                 string  `mapstructure:"PORT"`
	Env                  string  `mapstructure:"APP_ENV"`
	DBHost               string  `mapstructure:"DB_HOST"`
	DBPort               string  `mapstructure:"DB_PORT"`
	DBUser               string  `mapstructure:"DB_USER"`
	DBPassword           string  `mapstructure:"DB_PASSWORD"`
	DBName               string  `mapstructure:"DB_NAME"`
	DBSSLMode            string  `mapstructure:"DB_SSLMODE"`
	DBSchemaMode         string  `mapstructure:"DB_SCHEMA_MODE"`
	DBAutoMigrateUnsafe  bool    `mapstructure:"DB_AUTOMIGRATE_ALLOW_DESTRUCTIVE"`
	DBMaxOpenConns       int     `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBMaxIdleConns       int     `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBConnMaxLifetimeMin int     `mapstructure:"DB_CONN_MAX_LIFETIME_MINUTES"`
	RedisURL             string  `mapstructure:"REDIS_URL"`
	AllowedOrigins       string  `mapstructure:"ALLOWED_ORIGINS"`
	FeatureFlags         string  `mapstructure:"FEATURE_FLAGS"`
	DefaultActorName     string  `mapstructure:"DEFAULT_ACTOR_NAME"`
	MediaContentType     string  `mapstructure:"MEDIA_CONTENT_TYPE"`
	MediaCacheTTLSeconds int     `mapstructure:"MEDIA_CACHE_TTL_SECONDS"`
	BodyLimitMB          int     `mapstructure:"BODY_LIMIT_MB"`
	RateLimitPerMinute   int     `mapstructure:"RATE_LIMIT_PER_MINUTE"`
	TracingEnabled       bool    `mapstructure:"TRACING_ENABLED"`
	TracingExporter      string  `mapstructure:"TRACING_EXPORTER"`
	OTLPEndpoint         string  `mapstructure:"OTLP_ENDPOINT"`
	TracingSamplerRatio  float64 `mapstructure:"TRACING_SAMPLER_RATIO"`
}

// LoadConfig loads application configuration from .env, config files and environment variables.
func LoadConfig() (*Config, error) {
	// .env is optional; real environment variables always win.
	_ = godotenv.Load()

	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// The base file is optional.
	_ = viper.ReadInConfig()

	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	if env != "development" && env != "test" {
		viper.SetConfigName("config." + env)
		if err := viper.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("required profile-specific config 'config.%s.yml' not found: %w", env, err)
		}
		log.Printf("Loaded profile-specific configuration: config.%s.yml", env)
	}

	setDefaults(viper.GetViper())

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

const (
	fallbackActorName = "sergey"
	fallbackMediaType = "image/webp"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8000")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "user")
	v.SetDefault("DB_PASSWORD", "password")
	v.SetDefault("DB_NAME", "chirp")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_SCHEMA_MODE", "hybrid")
	v.SetDefault("DB_AUTOMIGRATE_ALLOW_DESTRUCTIVE", false)
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME_MINUTES", 5)
	v.SetDefault("REDIS_URL", "localhost:6379")
	v.SetDefault("ALLOWED_ORIGINS", "*")
	v.SetDefault("FEATURE_FLAGS", "")
	v.SetDefault("DEFAULT_ACTOR_NAME", fallbackActorName)
	v.SetDefault("MEDIA_CONTENT_TYPE", fallbackMediaType)
	v.SetDefault("MEDIA_CACHE_TTL_SECONDS", 600)
	v.SetDefault("BODY_LIMIT_MB", 10)
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 120)
	v.SetDefault("TRACING_ENABLED", false)
	v.SetDefault("TRACING_EXPORTER", "stdout")
	v.SetDefault("OTLP_ENDPOINT", "localhost:4318")
	v.SetDefault("TRACING_SAMPLER_RATIO", 1.0)
}

// IsProduction reports whether the configured environment is production.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Env))
	return env == "production" || env == "prod"
}

// ActorName returns the actor used when a request names none.
func (c *Config) ActorName() string {
	if name := strings.TrimSpace(c.DefaultActorName); name != "" {
		return name
	}
	return fallbackActorName
}

// MediaType returns the content type every media blob is served with.
func (c *Config) MediaType() string {
	if c.MediaContentType != "" {
		return c.MediaContentType
	}
	return fallbackMediaType
}

// MediaCacheTTL returns the media cache TTL as a duration.
func (c *Config) MediaCacheTTL() time.Duration {
	return time.Duration(c.MediaCacheTTLSeconds) * time.Second
}

// BodyLimitBytes returns the request body limit for the HTTP server.
func (c *Config) BodyLimitBytes() int {
	if c.BodyLimitMB <= 0 {
		return 10 * 1024 * 1024
	}
	return c.BodyLimitMB * 1024 * 1024
}

// RateLimitEnabled reports whether mutating requests are throttled.
// Development and test environments are never throttled.
func (c *Config) RateLimitEnabled() bool {
	if c.RateLimitPerMinute <= 0 {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(c.Env)) {
	case "", "development", "test", "stress":
		return false
	}
	return true
}

// Validate ensures that required configuration values are present and sane.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if strings.TrimSpace(c.DefaultActorName) == "" {
		return errors.New("DEFAULT_ACTOR_NAME is required")
	}
	if c.MediaContentType == "" {
		return errors.New("MEDIA_CONTENT_TYPE is required")
	}
	if c.TracingSamplerRatio < 0 || c.TracingSamplerRatio > 1 {
		return errors.New("TRACING_SAMPLER_RATIO must be between 0 and 1")
	}
	if c.DBMaxIdleConns > c.DBMaxOpenConns && c.DBMaxOpenConns > 0 {
		return errors.New("DB_MAX_IDLE_CONNS cannot exceed DB_MAX_OPEN_CONNS")
	}

	if c.IsProduction() {
		if c.DBPassword == "password" || c.DBPassword == "" {
			return errors.New("a strong DB_PASSWORD is required in production")
		}
		if c.DBSSLMode == "disable" || c.DBSSLMode == "" {
			log.Println("WARNING: DB_SSLMODE is 'disable' in production. It is highly recommended to use SSL for database connections.")
		}
		if c.AllowedOrigins == "*" {
			log.Println("WARNING: ALLOWED_ORIGINS is set to '*' in production. This is insecure.")
		}
	}

	return nil
}
