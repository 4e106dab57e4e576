package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"local"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	DBMinConns  int32  `envconfig:"ND_DB_MIN_CONNS" default:"1"`
	DBMaxConns  int32  `envconfig:"ND_DB_MAX_CONNS" default:"8"`

	// Credentials protecting the write endpoints. When unset the POST
	// route is open, which is only acceptable for local development.
	APIUsername string `envconfig:"API_USERNAME" default:""`
	APIPassword string `envconfig:"API_PASSWORD" default:""`

	CORSAllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS" default:""`

	// Public site the feed and sitemap link back to.
	SiteBaseURL     string `envconfig:"SITE_BASE_URL" default:"http://localhost:4444"`
	FeedTitle       string `envconfig:"FEED_TITLE" default:"Newsdesk Tech News"`
	FeedDescription string `envconfig:"FEED_DESCRIPTION" default:"Automation-ready coverage across AI, cloud, security, devices, and developer experience."`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.DBMinConns < 0 {
		return fmt.Errorf("ND_DB_MIN_CONNS must be >= 0")
	}
	if c.DBMaxConns < 1 {
		return fmt.Errorf("ND_DB_MAX_CONNS must be >= 1")
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("ND_DB_MIN_CONNS (%d) cannot exceed ND_DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	if strings.TrimSpace(c.SiteBaseURL) == "" {
		return fmt.Errorf("SITE_BASE_URL is required")
	}
	if (strings.TrimSpace(c.APIUsername) == "") != (strings.TrimSpace(c.APIPassword) == "") {
		return fmt.Errorf("API_USERNAME and API_PASSWORD must be set together")
	}
	return nil
}

// WriteAuthConfigured reports whether the write endpoints are protected.
func (c *Config) WriteAuthConfigured() bool {
	return strings.TrimSpace(c.APIUsername) != "" && strings.TrimSpace(c.APIPassword) != ""
}

func (c *Config) CORSAllowedOriginsList() []string {
	if c == nil {
		return nil
	}

	parts := strings.Split(c.CORSAllowedOrigins, ",")
	origins := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin == "" {
			continue
		}
		if _, exists := seen[origin]; exists {
			continue
		}
		seen[origin] = struct{}{}
		origins = append(origins, origin)
	}
	return origins
}
