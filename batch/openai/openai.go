//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	openaisdk "github.com/openai/openai-go"
	openaiopt "github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/da-luggas/prismm-bench/batch"
	"github.com/da-luggas/prismm-bench/content"
	"github.com/da-luggas/prismm-bench/log"
)

const (
	// providerName identifies this service in registries and errors.
	providerName = "openai"
	// responsesEndpoint is the batch target endpoint.
	responsesEndpoint = "/v1/responses"
)

// Service implements batch.Service on the OpenAI batch API.
type Service struct {
	client           Client
	model            string
	reasoning        batch.ReasoningLevel
	maxChunkBytes    int64
	completionWindow string
	metadata         map[string]string
}

// New creates an OpenAI batch service bound to a model.
func New(model string, opt ...Option) *Service {
	o := defaultOptions
	for _, op := range opt {
		op(&o)
	}
	client := o.client
	if client == nil {
		var clientOpts []openaiopt.RequestOption
		if o.apiKey != "" {
			clientOpts = append(clientOpts, openaiopt.WithAPIKey(o.apiKey))
		}
		client = &clientWrapper{client: openaisdk.NewClient(clientOpts...)}
	}
	return &Service{
		client:           client,
		model:            model,
		reasoning:        o.reasoning,
		maxChunkBytes:    o.maxChunkBytes,
		completionWindow: o.completionWindow,
		metadata:         o.metadata,
	}
}

// Provider implements batch.Service.
func (s *Service) Provider() string { return providerName }

// MaxChunkBytes implements batch.Service.
func (s *Service) MaxChunkBytes() int64 { return s.maxChunkBytes }

// Wire format of one uploaded request line.
type requestLine struct {
	CustomID string      `json:"custom_id"`
	Method   string      `json:"method"`
	URL      string      `json:"url"`
	Body     requestBody `json:"body"`
}

type requestBody struct {
	Model     string         `json:"model"`
	Input     []inputMessage `json:"input"`
	Reasoning *reasoningSpec `json:"reasoning,omitempty"`
}

type inputMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type inputContent struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

type reasoningSpec struct {
	Effort string `json:"effort"`
}

// Wire format of one result line.
type resultLine struct {
	CustomID string `json:"custom_id"`
	Response *struct {
		Body struct {
			Output []struct {
				Type    string `json:"type"`
				Content []struct {
					Type string `json:"type"`
					Text string `json:"text"`
				} `json:"content"`
			} `json:"output"`
		} `json:"body"`
	} `json:"response"`
}

// Encode implements batch.Service.
func (s *Service) Encode(key batch.Key, items []content.Item) (batch.Request, error) {
	blocks := make([]inputContent, 0, len(items))
	for _, item := range items {
		if item.Kind == content.KindImage {
			blocks = append(blocks, inputContent{
				Type:     "input_image",
				ImageURL: "data:image/jpeg;base64," + item.Base64,
			})
			continue
		}
		blocks = append(blocks, inputContent{Type: "input_text", Text: item.Text})
	}
	body := requestBody{
		Model: s.model,
		Input: []inputMessage{
			{Role: "system", Content: content.SystemPrompt},
			{Role: "user", Content: blocks},
		},
	}
	if s.reasoning != "" && s.reasoning != batch.ReasoningOff {
		body.Reasoning = &reasoningSpec{Effort: string(s.reasoning)}
	}
	payload, err := json.Marshal(requestLine{
		CustomID: key.Encode(),
		Method:   "POST",
		URL:      responsesEndpoint,
		Body:     body,
	})
	if err != nil {
		return batch.Request{}, fmt.Errorf("encode openai request %s: %w", key.Encode(), err)
	}
	return batch.Request{Key: key, Payload: payload}, nil
}

// Submit implements batch.Service.
func (s *Service) Submit(ctx context.Context, chunk []batch.Request) (*batch.Handle, error) {
	path, cleanup, err := batch.WriteChunkFile(chunk)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	log.Infof("uploading batch (%d requests, ~%.2f MB) to openai",
		len(chunk), batch.MB(batch.TotalSize(chunk)))
	fileID, err := s.client.Files().Upload(ctx, path)
	if err != nil {
		return nil, &batch.RemoteError{Provider: providerName, Err: fmt.Errorf("upload: %w", err)}
	}

	params := openaisdk.BatchNewParams{
		InputFileID:      fileID,
		Endpoint:         openaisdk.BatchNewParamsEndpoint(responsesEndpoint),
		CompletionWindow: openaisdk.BatchNewParamsCompletionWindow(s.completionWindow),
	}
	if len(s.metadata) > 0 {
		params.Metadata = shared.Metadata(s.metadata)
	}
	job, err := s.client.Batches().Create(ctx, params)
	if err != nil {
		return nil, &batch.RemoteError{Provider: providerName, Err: fmt.Errorf("create job: %w", err)}
	}
	log.Infof("openai batch %s created, status %s", job.ID, job.Status)

	return &batch.Handle{
		UploadRef: fileID,
		JobRef:    job.ID,
		State:     batch.StateSubmitted,
		Requests:  len(chunk),
	}, nil
}

// Poll implements batch.Service.
func (s *Service) Poll(ctx context.Context, h *batch.Handle) (batch.State, error) {
	job, err := s.client.Batches().Get(ctx, h.JobRef)
	if err != nil {
		return h.State, &batch.RemoteError{Provider: providerName, Err: err}
	}
	state := mapStatus(string(job.Status))
	h.State = state
	if state == batch.StateSucceeded {
		if job.OutputFileID == "" {
			h.State = batch.StateFailed
			return h.State, &batch.RemoteError{
				Provider: providerName,
				Status:   string(job.Status),
				Err:      fmt.Errorf("batch %s completed without an output file", h.JobRef),
			}
		}
		h.ResultRef = job.OutputFileID
	}
	return h.State, nil
}

// Fetch implements batch.Service.
func (s *Service) Fetch(ctx context.Context, h *batch.Handle) ([][]byte, error) {
	if h.State != batch.StateSucceeded {
		return nil, fmt.Errorf("%w: batch %s is %s", batch.ErrJobNotReady, h.JobRef, h.State)
	}
	data, err := s.client.Files().Content(ctx, h.ResultRef)
	if err != nil {
		return nil, &batch.RemoteError{Provider: providerName, Err: fmt.Errorf("download results: %w", err)}
	}
	return splitLines(data), nil
}

// Cancel implements batch.Service.
func (s *Service) Cancel(ctx context.Context, h *batch.Handle) error {
	if err := s.client.Batches().Cancel(ctx, h.JobRef); err != nil {
		return &batch.RemoteError{Provider: providerName, Err: err}
	}
	return nil
}

// Delete implements batch.Service. OpenAI batches cannot be deleted; the
// uploaded input file is removed instead.
func (s *Service) Delete(ctx context.Context, h *batch.Handle) error {
	if err := s.client.Files().Delete(ctx, h.UploadRef); err != nil {
		return &batch.RemoteError{Provider: providerName, Err: err}
	}
	return nil
}

// DecodeLine implements batch.Service: the prediction is the first non-empty
// output_text content of the first message-typed output item.
func (s *Service) DecodeLine(line []byte) (*batch.Raw, error) {
	var res resultLine
	if err := json.Unmarshal(line, &res); err != nil {
		return nil, fmt.Errorf("decode openai result line: %w", err)
	}
	key, err := batch.DecodeKey(res.CustomID)
	if err != nil {
		return nil, err
	}
	raw := &batch.Raw{Key: key}
	if res.Response == nil {
		return raw, nil
	}
	for _, item := range res.Response.Body.Output {
		if item.Type != "message" {
			continue
		}
		for _, c := range item.Content {
			if c.Type == "output_text" && c.Text != "" {
				raw.Text = c.Text
				return raw, nil
			}
		}
		break
	}
	return raw, nil
}

// mapStatus translates OpenAI batch statuses into lifecycle states. Unknown
// non-terminal statuses are treated as still running.
func mapStatus(status string) batch.State {
	switch status {
	case "completed":
		return batch.StateSucceeded
	case "failed":
		return batch.StateFailed
	case "cancelled":
		return batch.StateCancelled
	case "expired":
		return batch.StateExpired
	case "validating":
		return batch.StateQueued
	default:
		return batch.StateRunning
	}
}

func splitLines(data []byte) [][]byte {
	var lines [][]byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if len(bytes.TrimSpace(line)) > 0 {
			lines = append(lines, line)
		}
	}
	return lines
}
