//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package gemini implements the batch Service on the Gemini batch API.
package gemini

import (
	"context"

	"google.golang.org/genai"
)

// Client is the narrow slice of the GenAI client the batch service needs.
type Client interface {
	Files() Files
	Batches() Batches
}

// Files provides access to the File API used for request upload and result
// download.
type Files interface {
	// UploadFromPath uploads a local file and returns its File API record.
	UploadFromPath(ctx context.Context, path string, config *genai.UploadFileConfig) (*genai.File, error)
	// Download returns the content of a File API file by name.
	Download(ctx context.Context, name string) ([]byte, error)
}

// Batches provides access to the batch job API.
type Batches interface {
	// Create creates a batch job reading its requests from src.
	Create(ctx context.Context, model string, src *genai.BatchJobSource, config *genai.CreateBatchJobConfig) (*genai.BatchJob, error)
	// Get returns the current state of a batch job by name.
	Get(ctx context.Context, name string) (*genai.BatchJob, error)
	// Cancel requests cancellation of a batch job.
	Cancel(ctx context.Context, name string) error
	// Delete removes a batch job.
	Delete(ctx context.Context, name string) error
}

// clientWrapper implements Client on a real genai.Client.
type clientWrapper struct {
	client *genai.Client
}

// Files implements Client.
func (c *clientWrapper) Files() Files {
	return &filesWrapper{files: c.client.Files}
}

// Batches implements Client.
func (c *clientWrapper) Batches() Batches {
	return &batchesWrapper{batches: c.client.Batches}
}

type filesWrapper struct {
	files *genai.Files
}

func (f *filesWrapper) UploadFromPath(ctx context.Context, path string, config *genai.UploadFileConfig) (*genai.File, error) {
	return f.files.UploadFromPath(ctx, path, config)
}

func (f *filesWrapper) Download(ctx context.Context, name string) ([]byte, error) {
	return f.files.Download(ctx, &genai.File{Name: name}, nil)
}

type batchesWrapper struct {
	batches *genai.Batches
}

func (b *batchesWrapper) Create(ctx context.Context, model string, src *genai.BatchJobSource, config *genai.CreateBatchJobConfig) (*genai.BatchJob, error) {
	return b.batches.Create(ctx, model, src, config)
}

func (b *batchesWrapper) Get(ctx context.Context, name string) (*genai.BatchJob, error) {
	return b.batches.Get(ctx, name, nil)
}

func (b *batchesWrapper) Cancel(ctx context.Context, name string) error {
	return b.batches.Cancel(ctx, name, nil)
}

func (b *batchesWrapper) Delete(ctx context.Context, name string) error {
	_, err := b.batches.Delete(ctx, name, nil)
	return err
}
