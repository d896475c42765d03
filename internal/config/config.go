// Package config loads application configuration from environment variables
// and commitcheck tool options from TOML files.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/ericfisherdev/commitcheck/internal/domain/model"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	GitHubToken  string
	ListenAddr   string
	DBPath       string
	PollInterval time.Duration
	URLTimeout   time.Duration
	PostComments bool

	// Default tool options for repositories without stored options.
	Pattern  string
	CheckURL string
	Message  string
}

// HasGitHubToken returns true when a GitHub token is configured.
func (c *Config) HasGitHubToken() bool {
	return c.GitHubToken != ""
}

// DefaultCheckConfig returns the tool options taken from the environment.
func (c *Config) DefaultCheckConfig() model.CheckConfig {
	return model.CheckConfig{
		Pattern:  c.Pattern,
		CheckURL: c.CheckURL,
		Message:  c.Message,
	}
}

// Load reads configuration from COMMITCHECK_ environment variables and
// returns a validated Config. The token is not required here; commands that
// talk to GitHub check HasGitHubToken themselves.
//
// Optional variables with defaults: COMMITCHECK_LISTEN_ADDR (127.0.0.1:8080),
// COMMITCHECK_DB_PATH (commitcheck.db), COMMITCHECK_POLL_INTERVAL (5m),
// COMMITCHECK_URL_TIMEOUT (10s), COMMITCHECK_POST_COMMENTS (true).
func Load() (*Config, error) {
	cfg := &Config{
		GitHubToken:  os.Getenv("COMMITCHECK_GITHUB_TOKEN"),
		ListenAddr:   "127.0.0.1:8080",
		DBPath:       "commitcheck.db",
		PollInterval: 5 * time.Minute,
		URLTimeout:   10 * time.Second,
		PostComments: true,
		Pattern:      os.Getenv("COMMITCHECK_PATTERN"),
		CheckURL:     os.Getenv("COMMITCHECK_CHECK_URL"),
		Message:      os.Getenv("COMMITCHECK_MESSAGE"),
	}

	if v, ok := os.LookupEnv("COMMITCHECK_LISTEN_ADDR"); ok {
		cfg.ListenAddr = v
	}

	if v, ok := os.LookupEnv("COMMITCHECK_DB_PATH"); ok {
		cfg.DBPath = v
	}

	var err error
	if cfg.PollInterval, err = durationEnv("COMMITCHECK_POLL_INTERVAL", cfg.PollInterval); err != nil {
		return nil, err
	}
	if cfg.URLTimeout, err = durationEnv("COMMITCHECK_URL_TIMEOUT", cfg.URLTimeout); err != nil {
		return nil, err
	}

	if v, ok := os.LookupEnv("COMMITCHECK_POST_COMMENTS"); ok {
		post, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("COMMITCHECK_POST_COMMENTS has invalid boolean %q: %w", v, err)
		}
		cfg.PostComments = post
	}

	return cfg, nil
}

// durationEnv parses a positive duration from key, returning def when unset.
func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def, nil
	}

	parsed, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s has invalid duration %q: %w", key, v, err)
	}
	if parsed <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %q", key, v)
	}

	return parsed, nil
}
