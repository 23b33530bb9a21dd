//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package batch

import (
	"context"
	"errors"
	"fmt"

	"github.com/da-luggas/prismm-bench/content"
)

// ErrJobNotReady indicates a fetch on a handle that has not reached the
// succeeded state.
var ErrJobNotReady = errors.New("batch job not ready")

// RemoteError wraps a transport or remote-API failure, carrying the provider
// name and the provider-reported status when one exists.
type RemoteError struct {
	Provider string
	Status   string
	Err      error
}

// Error implements the error interface.
func (e *RemoteError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("%s batch error (status %s): %v", e.Provider, e.Status, e.Err)
	}
	return fmt.Sprintf("%s batch error: %v", e.Provider, e.Err)
}

// Unwrap returns the underlying error.
func (e *RemoteError) Unwrap() error {
	return e.Err
}

// Raw is one decoded provider output line: the correlation key it carries and
// the first textual output of the response.
type Raw struct {
	Key  Key
	Text string
}

// Service is the provider boundary of the orchestrator. One Service instance
// is bound to a model and reused across all submissions and polls of a run;
// implementations must be safe for concurrent use.
type Service interface {
	// Provider returns the provider identifier.
	Provider() string
	// Encode maps generic content items into one provider wire-format request
	// tagged with the correlation key.
	Encode(key Key, items []content.Item) (Request, error)
	// Submit uploads the chunk as line-delimited JSON, creates a remote batch
	// job referencing the upload and returns a handle in the submitted state.
	Submit(ctx context.Context, chunk []Request) (*Handle, error)
	// Poll queries the remote job status and updates the handle. Observing
	// the succeeded state also resolves the handle's result reference.
	Poll(ctx context.Context, h *Handle) (State, error)
	// Fetch downloads and line-splits the job's result file. It fails with
	// ErrJobNotReady unless the handle is in the succeeded state.
	Fetch(ctx context.Context, h *Handle) ([][]byte, error)
	// Cancel requests cancellation of the remote job. Best effort.
	Cancel(ctx context.Context, h *Handle) error
	// Delete removes the remote job and its uploaded file. Best effort.
	Delete(ctx context.Context, h *Handle) error
	// DecodeLine extracts the correlation key and the first non-empty text
	// part of the first message-typed output item from a raw result line.
	DecodeLine(line []byte) (*Raw, error)
	// MaxChunkBytes is the chunk byte budget for this provider, kept
	// conservatively below the provider's hard payload limit.
	MaxChunkBytes() int64
}
