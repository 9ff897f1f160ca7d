package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Port            string   `envconfig:"PORT" default:"8080"`
	SiteURL         string   `envconfig:"SITE_URL" default:"http://localhost:8080"`
	AllowOrigins    []string `envconfig:"ALLOW_ORIGINS" default:"*"`
	LogLevel        string   `envconfig:"LOG_LEVEL" default:"info"`
	LogstashTCPAddr string   `envconfig:"LOGSTASH_TCP_ADDR"`
	LogstashLevel   string   `envconfig:"LOGSTASH_LEVEL"`

	DatabaseURL    string `envconfig:"DATABASE_URL" required:"true"`
	DatabaseDriver string `envconfig:"DATABASE_DRIVER" default:"pgx"`
	RunMigrations  bool   `envconfig:"RUN_MIGRATIONS" default:"false"`

	JWTSecret      string        `envconfig:"JWT_SECRET" required:"true"`
	AccessTokenTTL time.Duration `envconfig:"ACCESS_TOKEN_TTL" default:"15m"`
	SessionTTL     time.Duration `envconfig:"SESSION_TTL" default:"168h"`
	CookieSecure   bool          `envconfig:"COOKIE_SECURE" default:"false"`

	CompletionAPIKey  string `envconfig:"COMPLETION_API_KEY" required:"true"`
	CompletionBaseURL string `envconfig:"COMPLETION_BASE_URL"`
	CompletionModel   string `envconfig:"COMPLETION_MODEL"`

	MinIOEndpoint     string `envconfig:"MINIO_ENDPOINT" required:"true"`
	MinIOAccessKey    string `envconfig:"MINIO_ACCESS_KEY" required:"true"`
	MinIOSecretKey    string `envconfig:"MINIO_SECRET_KEY" required:"true"`
	MinIOUseSSL       bool   `envconfig:"MINIO_USE_SSL" default:"false"`
	MinIOBucketAvatar string `envconfig:"MINIO_BUCKET_AVATARS" default:"avatars"`
	MinIOPublicURL    string `envconfig:"MINIO_PUBLIC_URL"`

	AvatarMaxBytes  int64 `envconfig:"AVATAR_MAX_BYTES" default:"5242880"`
	AvatarMaxPixels int64 `envconfig:"AVATAR_MAX_PIXELS" default:"40000000"`
	AvatarSize      int   `envconfig:"AVATAR_SIZE" default:"256"`

	GoogleClientID     string `envconfig:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `envconfig:"GOOGLE_CLIENT_SECRET"`
	GitHubClientID     string `envconfig:"GITHUB_CLIENT_ID"`
	GitHubClientSecret string `envconfig:"GITHUB_CLIENT_SECRET"`
}

// Database is the subset needed by commands that only touch the store.
type Database struct {
	DatabaseURL    string `envconfig:"DATABASE_URL" required:"true"`
	DatabaseDriver string `envconfig:"DATABASE_DRIVER" default:"pgx"`
}

func Load() (*Config, error) {
	loadDotEnv()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg.SiteURL = strings.TrimRight(cfg.SiteURL, "/")
	cfg.AllowOrigins = trimAll(cfg.AllowOrigins)
	if cfg.AccessTokenTTL <= 0 {
		return nil, fmt.Errorf("load config: ACCESS_TOKEN_TTL must be positive")
	}
	if cfg.SessionTTL < cfg.AccessTokenTTL {
		return nil, fmt.Errorf("load config: SESSION_TTL must not be shorter than ACCESS_TOKEN_TTL")
	}
	return &cfg, nil
}

func LoadDatabase() (*Database, error) {
	loadDotEnv()

	var db Database
	if err := envconfig.Process("", &db); err != nil {
		return nil, fmt.Errorf("load database config: %w", err)
	}
	return &db, nil
}

// OAuthRedirectURL is where providers send the user back after consent.
func (c *Config) OAuthRedirectURL() string {
	return c.SiteURL + "/auth/callback"
}

func (c *Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

func (c *Config) GitHubEnabled() bool {
	return c.GitHubClientID != "" && c.GitHubClientSecret != ""
}

func loadDotEnv() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg(".env file not found")
	}
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
