//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package openai implements the batch Service on the OpenAI batch API.
package openai

import (
	"context"
	"fmt"
	"io"
	"os"

	openaisdk "github.com/openai/openai-go"
)

// Client is the narrow slice of the OpenAI client the batch service needs.
type Client interface {
	Files() Files
	Batches() Batches
}

// Files provides upload, download and deletion of batch files.
type Files interface {
	// Upload uploads a local file with the batch purpose and returns its id.
	Upload(ctx context.Context, path string) (string, error)
	// Content returns the content of a file by id.
	Content(ctx context.Context, fileID string) ([]byte, error)
	// Delete removes a file by id.
	Delete(ctx context.Context, fileID string) error
}

// Batches provides access to the batch job API.
type Batches interface {
	// Create creates a batch job.
	Create(ctx context.Context, params openaisdk.BatchNewParams) (*openaisdk.Batch, error)
	// Get returns the current state of a batch job by id.
	Get(ctx context.Context, batchID string) (*openaisdk.Batch, error)
	// Cancel requests cancellation of a batch job.
	Cancel(ctx context.Context, batchID string) error
}

// clientWrapper implements Client on a real openaisdk.Client.
type clientWrapper struct {
	client openaisdk.Client
}

// Files implements Client.
func (c *clientWrapper) Files() Files {
	return &filesWrapper{client: c.client}
}

// Batches implements Client.
func (c *clientWrapper) Batches() Batches {
	return &batchesWrapper{client: c.client}
}

type filesWrapper struct {
	client openaisdk.Client
}

func (f *filesWrapper) Upload(ctx context.Context, path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open upload file: %w", err)
	}
	defer file.Close()
	fileObj, err := f.client.Files.New(ctx, openaisdk.FileNewParams{
		File:    file,
		Purpose: openaisdk.FilePurposeBatch,
	})
	if err != nil {
		return "", err
	}
	return fileObj.ID, nil
}

func (f *filesWrapper) Content(ctx context.Context, fileID string) ([]byte, error) {
	resp, err := f.client.Files.Content(ctx, fileID)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

func (f *filesWrapper) Delete(ctx context.Context, fileID string) error {
	_, err := f.client.Files.Delete(ctx, fileID)
	return err
}

type batchesWrapper struct {
	client openaisdk.Client
}

func (b *batchesWrapper) Create(ctx context.Context, params openaisdk.BatchNewParams) (*openaisdk.Batch, error) {
	return b.client.Batches.New(ctx, params)
}

func (b *batchesWrapper) Get(ctx context.Context, batchID string) (*openaisdk.Batch, error) {
	return b.client.Batches.Get(ctx, batchID)
}

func (b *batchesWrapper) Cancel(ctx context.Context, batchID string) error {
	_, err := b.client.Batches.Cancel(ctx, batchID)
	return err
}
