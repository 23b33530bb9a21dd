//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package gemini

// defaultMaxChunkMB keeps chunks conservatively below the 2 GB batch input
// cap; size estimation is approximate.
const defaultMaxChunkMB = 1900

// options contains configuration options for the Gemini batch service.
type options struct {
	apiKey        string
	maxChunkBytes int64
	client        Client
}

var defaultOptions = options{
	maxChunkBytes: defaultMaxChunkMB * 1024 * 1024,
}

// Option configures the Gemini batch service.
type Option func(*options)

// WithAPIKey sets the Gemini API key.
func WithAPIKey(key string) Option {
	return func(o *options) {
		o.apiKey = key
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

// WithClient injects a custom client, mainly for testing.
func WithClient(c Client) Option {
	return func(o *options) {
		o.client = c
	}
}
