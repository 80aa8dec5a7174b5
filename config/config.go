// Package config loads client configuration from defaults, an optional YAML
// file, and MACHIPOWER_-prefixed environment variables.
package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds everything the client needs to reach its collaborators.
type Config struct {
	// APIBaseURL is the REST gateway base URL.
	APIBaseURL string `koanf:"api_base_url"`

	// AWSRegion is the region hosting the identity provider and the
	// object store.
	AWSRegion string `koanf:"aws_region"`

	// CognitoClientID identifies the user pool app client.
	CognitoClientID string `koanf:"cognito_client_id"`

	// S3Bucket receives resume uploads.
	S3Bucket string `koanf:"s3_bucket"`

	// HTTPTimeoutSeconds bounds each gateway request. There is no custom
	// retry or backoff; a timed-out fetch is reported once.
	HTTPTimeoutSeconds int `koanf:"http_timeout_seconds"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		APIBaseURL:         "https://api.machipower.example.com/prod",
		AWSRegion:          "ap-southeast-2",
		HTTPTimeoutSeconds: 15,
	}
}

// Load builds a Config by layering defaults, an optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (Default())
//  2. file (YAML) if MACHIPOWER_CONFIG is set
//  3. env (prefix MACHIPOWER_)
func Load() (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv("MACHIPOWER_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// Environment variables: MACHIPOWER_API_BASE_URL, MACHIPOWER_S3_BUCKET, ...
	// Keys keep their underscores to match the koanf tags on the struct.
	envProvider := env.Provider("MACHIPOWER_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "machipower_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *Default()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	if cfg.APIBaseURL == "" {
		return nil, errors.New("api_base_url must not be empty")
	}
	if cfg.HTTPTimeoutSeconds <= 0 {
		return nil, errors.New("http_timeout_seconds must be positive")
	}
	return &cfg, nil
}

// HTTPTimeout returns the request timeout as a duration.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}
