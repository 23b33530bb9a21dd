//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package config loads runtime configuration from an optional YAML file
// with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/goccy/go-yaml"
)

// Defaults applied when neither file nor environment sets a value.
const (
	DefaultPollInterval = 30 * time.Second
	DefaultPollTimeout  = 48 * time.Hour
)

// Config holds every runtime setting of the benchmark runner.
type Config struct {
	// Content directories.
	PDFDir        string `yaml:"pdf_dir"`
	ImageDir      string `yaml:"image_dir"`
	SupplImageDir string `yaml:"suppl_image_dir"`
	PageDir       string `yaml:"page_dir"`

	// Output directories.
	ResultsDir string `yaml:"results_dir"`
	RunsDir    string `yaml:"runs_dir"`

	// Batch tuning. MaxBatchMB of 0 keeps the provider default.
	MaxBatchMB   int64         `yaml:"max_batch_mb"`
	PollInterval time.Duration `yaml:"-"`
	PollTimeout  time.Duration `yaml:"-"`

	// Credentials, normally supplied via environment.
	OpenAIAPIKey string `yaml:"openai_api_key"`
	GeminiAPIKey string `yaml:"gemini_api_key"`

	rawPollInterval string
	rawPollTimeout  string
}

// yaml durations arrive as strings so the parse error can name the field.
type fileConfig struct {
	Config       `yaml:",inline"`
	PollInterval string `yaml:"poll_interval"`
	PollTimeout  string `yaml:"poll_timeout"`
}

// Load reads the YAML file at path when it exists, applies environment
// overrides on top, and fills in defaults. An empty path skips the file.
func Load(path string) (*Config, error) {
	var fc fileConfig
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}
	cfg := fc.Config
	cfg.rawPollInterval = fc.PollInterval
	cfg.rawPollTimeout = fc.PollTimeout

	applyEnv(&cfg)
	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a config built purely from environment and defaults.
func Default() (*Config, error) {
	return Load("")
}

func applyEnv(cfg *Config) {
	setString := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setString(&cfg.PDFDir, "PDF_DIR")
	setString(&cfg.ImageDir, "IMAGE_DIR")
	setString(&cfg.SupplImageDir, "SUPPL_IMAGE_DIR")
	setString(&cfg.PageDir, "PAGE_DIR")
	setString(&cfg.ResultsDir, "RESULTS_DIR")
	setString(&cfg.RunsDir, "RUNS_DIR")
	setString(&cfg.OpenAIAPIKey, "OPENAI_API_KEY")
	setString(&cfg.GeminiAPIKey, "GEMINI_API_KEY")
	setString(&cfg.rawPollInterval, "POLL_INTERVAL")
	setString(&cfg.rawPollTimeout, "POLL_TIMEOUT")
	if v := os.Getenv("MAX_BATCH_MB"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.MaxBatchMB = n
		}
	}
}

func (c *Config) finalize() error {
	var err error
	if c.PollInterval, err = parseDuration("poll_interval", c.rawPollInterval, DefaultPollInterval); err != nil {
		return err
	}
	if c.PollTimeout, err = parseDuration("poll_timeout", c.rawPollTimeout, DefaultPollTimeout); err != nil {
		return err
	}
	if c.PDFDir == "" {
		c.PDFDir = "pdf"
	}
	if c.ImageDir == "" {
		c.ImageDir = "images"
	}
	if c.PageDir == "" {
		c.PageDir = "pages"
	}
	if c.ResultsDir == "" {
		c.ResultsDir = "results"
	}
	if c.RunsDir == "" {
		c.RunsDir = "runs"
	}
	return nil
}

// MaxChunkBytes returns the configured chunk budget in bytes, or 0 to keep
// the provider default.
func (c *Config) MaxChunkBytes() int64 {
	if c.MaxBatchMB <= 0 {
		return 0
	}
	return c.MaxBatchMB * 1024 * 1024
}

// APIKey returns the credential configured for a provider name.
func (c *Config) APIKey(providerName string) string {
	switch providerName {
	case "openai":
		return c.OpenAIAPIKey
	case "gemini":
		return c.GeminiAPIKey
	default:
		return ""
	}
}

func parseDuration(name, raw string, def time.Duration) (time.Duration, error) {
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", name, raw, err)
	}
	return d, nil
}
