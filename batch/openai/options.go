//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package openai

import "github.com/da-luggas/prismm-bench/batch"

const (
	// defaultMaxChunkMB keeps chunks conservatively below the 200 MB batch
	// input cap; size estimation is approximate.
	defaultMaxChunkMB = 190
	// defaultCompletionWindow is the batch completion window.
	defaultCompletionWindow = "24h"
)

// options contains configuration options for the OpenAI batch service.
type options struct {
	apiKey           string
	reasoning        batch.ReasoningLevel
	maxChunkBytes    int64
	completionWindow string
	metadata         map[string]string
	client           Client
}

var defaultOptions = options{
	reasoning:        batch.ReasoningHigh,
	maxChunkBytes:    defaultMaxChunkMB * 1024 * 1024,
	completionWindow: defaultCompletionWindow,
}

// Option configures the OpenAI batch service.
type Option func(*options)

// WithAPIKey sets the OpenAI API key.
func WithAPIKey(key string) Option {
	return func(o *options) {
		o.apiKey = key
	}
}

// WithReasoning sets the reasoning effort attached to every request.
// ReasoningOff omits the reasoning block.
func WithReasoning(level batch.ReasoningLevel) Option {
	return func(o *options) {
		o.reasoning = level
	}
}

// WithMaxChunkBytes overrides the chunk byte budget.
func WithMaxChunkBytes(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.maxChunkBytes = n
		}
	}
}

// WithCompletionWindow sets the batch completion window.
func WithCompletionWindow(window string) Option {
	return func(o *options) {
		if window != "" {
			o.completionWindow = window
		}
	}
}

// WithMetadata attaches metadata to created batch jobs.
func WithMetadata(md map[string]string) Option {
	return func(o *options) {
		o.metadata = md
	}
}

// WithClient injects a custom client, mainly for testing.
func WithClient(c Client) Option {
	return func(o *options) {
		o.client = c
	}
}
