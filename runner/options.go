//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package runner

import (
	"time"

	"github.com/da-luggas/prismm-bench/config"
)

// options contains configuration options for the runner.
type options struct {
	resultsDir    string
	runsDir       string
	pollInterval  time.Duration
	pollTimeout   time.Duration
	maxChunkBytes int64
}

var defaultOptions = options{
	resultsDir:   "results",
	runsDir:      "runs",
	pollInterval: config.DefaultPollInterval,
	pollTimeout:  config.DefaultPollTimeout,
}

// Option configures the runner.
type Option func(*options)

// WithResultsDir sets the directory results files are written to.
func WithResultsDir(dir string) Option {
	return func(o *options) {
		if dir != "" {
			o.resultsDir = dir
		}
	}
}

// WithRunsDir sets the directory run manifests are written to.
func WithRunsDir(dir string) Option {
	return func(o *options) {
		if dir != "" {
			o.runsDir = dir
		}
	}
}

// WithPollInterval sets the interval between status polls.
func WithPollInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.pollInterval = d
		}
	}
}

// WithPollTimeout sets the total time to wait for jobs to finish.
func WithPollTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.pollTimeout = d
		}
	}
}

// WithMaxChunkBytes overrides the provider chunk budget.
func WithMaxChunkBytes(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.maxChunkBytes = n
		}
	}
}
