// Package config loads qwant-cli settings from an optional YAML file.
// Command-line flags and environment variables are layered on top by the CLI.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/raezil/qwant-go/qwant"
)

const (
	DefaultLocale  = "en_US"
	DefaultKind    = "web"
	DefaultTimeout = 30 * time.Second
	DefaultPages   = 1
)

// Strip modes for item text.
const (
	StripNone  = "none"
	StripRegex = "regex"
	StripHTML  = "html"
)

// Config holds every setting the CLI understands.
type Config struct {
	AppID     string        `yaml:"app_id"`
	Locale    string        `yaml:"locale"`
	Kind      string        `yaml:"kind"`
	Safe      bool          `yaml:"safe"`
	BaseURL   string        `yaml:"base_url"`
	UserAgent string        `yaml:"user_agent"`
	Timeout   time.Duration `yaml:"timeout"`
	RateLimit float64       `yaml:"rate_limit"`
	RateBurst int           `yaml:"rate_burst"`
	Pages     int           `yaml:"pages"`
	Strip     string        `yaml:"strip"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Locale:  DefaultLocale,
		Kind:    DefaultKind,
		Timeout: DefaultTimeout,
		Pages:   DefaultPages,
		Strip:   StripRegex,
	}
}

// Load reads path over the defaults. An empty path, or a path that does not
// exist, yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the settings that can be checked without a request.
func (c Config) Validate() error {
	if c.AppID == "" {
		return errors.New("app id is required (--app-id, QWANT_APP_ID or app_id in the config file)")
	}
	if _, err := qwant.ParseKind(c.Kind); err != nil {
		return err
	}
	if _, err := qwant.NormalizeLocale(c.Locale); err != nil {
		return err
	}
	if c.Pages < 1 {
		return fmt.Errorf("pages must be at least 1, got %d", c.Pages)
	}
	switch c.Strip {
	case StripNone, StripRegex, StripHTML:
	default:
		return fmt.Errorf("unknown strip mode %q (want %s, %s or %s)", c.Strip, StripNone, StripRegex, StripHTML)
	}
	return nil
}

// Request returns the search request for the given terms.
func (c Config) Request(query string) (qwant.SearchRequest, error) {
	kind, err := qwant.ParseKind(c.Kind)
	if err != nil {
		return qwant.SearchRequest{}, err
	}
	return qwant.SearchRequest{Query: query, Kind: kind, Safe: c.Safe, Locale: c.Locale}, nil
}

// ClientOptions translates the settings into qwant client options.
func (c Config) ClientOptions(logger *logrus.Logger) []qwant.Option {
	opts := []qwant.Option{qwant.WithLogger(logger)}
	if c.BaseURL != "" {
		opts = append(opts, qwant.WithBaseURL(c.BaseURL))
	}
	if c.UserAgent != "" {
		opts = append(opts, qwant.WithUserAgent(c.UserAgent))
	}
	if c.Timeout > 0 {
		opts = append(opts, qwant.WithTimeout(c.Timeout))
	}
	if c.RateLimit > 0 {
		opts = append(opts, qwant.WithRateLimit(c.RateLimit, c.RateBurst))
	}
	return opts
}

// Sanitizer returns the sanitizer for the strip mode, or nil for StripNone.
func (c Config) Sanitizer() qwant.Sanitizer {
	switch c.Strip {
	case StripRegex:
		return qwant.TagStripper{}
	case StripHTML:
		return qwant.NewPolicyStripper()
	default:
		return nil
	}
}
