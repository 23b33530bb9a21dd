//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package provider provides a unified interface for constructing
// batch.Service instances from different providers.
package provider

import (
	"context"
	"fmt"
	"sync"

	"github.com/da-luggas/prismm-bench/batch"
	"github.com/da-luggas/prismm-bench/batch/gemini"
	"github.com/da-luggas/prismm-bench/batch/openai"
)

func init() {
	Register("openai", openaiFactory)
	Register("gemini", geminiFactory)
}

// Factory builds a batch.Service instance.
type Factory func(ctx context.Context, opts *Options) (batch.Service, error)

// Options contains resolved settings used when constructing provider-backed
// batch services.
type Options struct {
	Model         string               // Model is the concrete model identifier.
	APIKey        string               // APIKey holds the credential for the provider SDK.
	Reasoning     batch.ReasoningLevel // Reasoning is the requested reasoning effort.
	MaxChunkBytes int64                // MaxChunkBytes overrides the provider chunk budget when positive.
	Metadata      map[string]string    // Metadata is attached to created batch jobs where supported.
}

// Option configures how a service instance should be constructed.
type Option func(*Options)

// WithAPIKey sets the provider API key.
func WithAPIKey(key string) Option {
	return func(o *Options) {
		o.APIKey = key
	}
}

// WithReasoning sets the reasoning effort.
func WithReasoning(level batch.ReasoningLevel) Option {
	return func(o *Options) {
		o.Reasoning = level
	}
}

// WithMaxChunkBytes overrides the provider chunk budget.
func WithMaxChunkBytes(n int64) Option {
	return func(o *Options) {
		o.MaxChunkBytes = n
	}
}

// WithMetadata attaches metadata to created batch jobs.
func WithMetadata(md map[string]string) Option {
	return func(o *Options) {
		o.Metadata = md
	}
}

var (
	factoriesMu sync.RWMutex               // factoriesMu guards factories access.
	factories   = make(map[string]Factory) // factories stores provider name to factory mappings.
)

// Register registers a factory by provider name.
func Register(name string, factory Factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	factories[name] = factory
}

// Get returns the factory by provider name.
func Get(name string) (Factory, bool) {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()
	factory, ok := factories[name]
	return factory, ok
}

// New constructs a batch.Service with the given provider name, model name
// and options.
func New(ctx context.Context, providerName, modelName string, opt ...Option) (batch.Service, error) {
	opts := &Options{Model: modelName}
	for _, o := range opt {
		o(opts)
	}
	factory, ok := Get(providerName)
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s", providerName)
	}
	return factory(ctx, opts)
}

// openaiFactory builds an OpenAI batch service using the resolved options.
func openaiFactory(_ context.Context, opts *Options) (batch.Service, error) {
	var res []openai.Option
	if opts.APIKey != "" {
		res = append(res, openai.WithAPIKey(opts.APIKey))
	}
	if opts.Reasoning != "" {
		res = append(res, openai.WithReasoning(opts.Reasoning))
	}
	if opts.MaxChunkBytes > 0 {
		res = append(res, openai.WithMaxChunkBytes(opts.MaxChunkBytes))
	}
	if len(opts.Metadata) > 0 {
		res = append(res, openai.WithMetadata(opts.Metadata))
	}
	return openai.New(opts.Model, res...), nil
}

// geminiFactory builds a Gemini batch service using the resolved options.
func geminiFactory(ctx context.Context, opts *Options) (batch.Service, error) {
	var res []gemini.Option
	if opts.APIKey != "" {
		res = append(res, gemini.WithAPIKey(opts.APIKey))
	}
	if opts.MaxChunkBytes > 0 {
		res = append(res, gemini.WithMaxChunkBytes(opts.MaxChunkBytes))
	}
	return gemini.New(ctx, opts.Model, res...)
}
