//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"google.golang.org/genai"

	"github.com/da-luggas/prismm-bench/batch"
	"github.com/da-luggas/prismm-bench/content"
	"github.com/da-luggas/prismm-bench/log"
)

// providerName identifies this service in registries and errors.
const providerName = "gemini"

// Service implements batch.Service on the Gemini batch API.
type Service struct {
	client        Client
	model         string
	maxChunkBytes int64
}

// New creates a Gemini batch service bound to a model.
func New(ctx context.Context, model string, opt ...Option) (*Service, error) {
	o := defaultOptions
	for _, op := range opt {
		op(&o)
	}
	client := o.client
	if client == nil {
		c, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  o.apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("create gemini client: %w", err)
		}
		client = &clientWrapper{client: c}
	}
	return &Service{
		client:        client,
		model:         model,
		maxChunkBytes: o.maxChunkBytes,
	}, nil
}

// Provider implements batch.Service.
func (s *Service) Provider() string { return providerName }

// MaxChunkBytes implements batch.Service.
func (s *Service) MaxChunkBytes() int64 { return s.maxChunkBytes }

// Wire format of one uploaded request line.
type requestLine struct {
	Key     string      `json:"key"`
	Request requestBody `json:"request"`
}

type requestBody struct {
	Contents          []wireContent `json:"contents"`
	SystemInstruction wireContent   `json:"system_instruction"`
	GenerationConfig  wireGenConfig `json:"generation_config"`
}

type wireContent struct {
	Parts []wirePart `json:"parts"`
	Role  string     `json:"role,omitempty"`
}

type wirePart struct {
	Text       string          `json:"text,omitempty"`
	InlineData *wireInlineData `json:"inline_data,omitempty"`
}

type wireInlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

type wireGenConfig struct {
	Temperature float64 `json:"temperature"`
}

// Wire format of one result line.
type resultLine struct {
	Key      string `json:"key"`
	Response *struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	} `json:"response"`
}

// Encode implements batch.Service.
func (s *Service) Encode(key batch.Key, items []content.Item) (batch.Request, error) {
	parts := make([]wirePart, 0, len(items))
	for _, item := range items {
		if item.Kind == content.KindImage {
			parts = append(parts, wirePart{
				InlineData: &wireInlineData{MIMEType: "image/jpeg", Data: item.Base64},
			})
			continue
		}
		parts = append(parts, wirePart{Text: item.Text})
	}
	line := requestLine{
		Key: key.Encode(),
		Request: requestBody{
			Contents: []wireContent{{Parts: parts, Role: "user"}},
			SystemInstruction: wireContent{
				Parts: []wirePart{{Text: content.SystemPrompt}},
			},
			GenerationConfig: wireGenConfig{Temperature: 0},
		},
	}
	payload, err := json.Marshal(line)
	if err != nil {
		return batch.Request{}, fmt.Errorf("encode gemini request %s: %w", key.Encode(), err)
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

	name := "batch-" + uuid.NewString()[:8]
	log.Infof("uploading %s (%d requests, ~%.2f MB) to gemini",
		name, len(chunk), batch.MB(batch.TotalSize(chunk)))
	uploaded, err := s.client.Files().UploadFromPath(ctx, path, &genai.UploadFileConfig{
		DisplayName: name + "-requests",
		MIMEType:    "application/jsonl",
	})
	if err != nil {
		return nil, &batch.RemoteError{Provider: providerName, Err: fmt.Errorf("upload: %w", err)}
	}

	job, err := s.client.Batches().Create(ctx, s.model, &genai.BatchJobSource{
		Format:   "jsonl",
		FileName: uploaded.Name,
	}, &genai.CreateBatchJobConfig{DisplayName: name + "-job"})
	if err != nil {
		return nil, &batch.RemoteError{Provider: providerName, Err: fmt.Errorf("create job: %w", err)}
	}
	log.Infof("gemini batch %s created, state %s", job.Name, job.State)

	return &batch.Handle{
		UploadRef: uploaded.Name,
		JobRef:    job.Name,
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
	state := mapState(string(job.State))
	h.State = state
	if state == batch.StateSucceeded {
		if job.Dest == nil || job.Dest.FileName == "" {
			h.State = batch.StateFailed
			return h.State, &batch.RemoteError{
				Provider: providerName,
				Status:   string(job.State),
				Err:      fmt.Errorf("job %s succeeded without an output file", h.JobRef),
			}
		}
		h.ResultRef = job.Dest.FileName
	}
	return h.State, nil
}

// Fetch implements batch.Service.
func (s *Service) Fetch(ctx context.Context, h *batch.Handle) ([][]byte, error) {
	if h.State != batch.StateSucceeded {
		return nil, fmt.Errorf("%w: job %s is %s", batch.ErrJobNotReady, h.JobRef, h.State)
	}
	data, err := s.client.Files().Download(ctx, h.ResultRef)
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

// Delete implements batch.Service.
func (s *Service) Delete(ctx context.Context, h *batch.Handle) error {
	if err := s.client.Batches().Delete(ctx, h.JobRef); err != nil {
		return &batch.RemoteError{Provider: providerName, Err: err}
	}
	return nil
}

// DecodeLine implements batch.Service: the prediction is the first non-empty
// text part of the first candidate.
func (s *Service) DecodeLine(line []byte) (*batch.Raw, error) {
	var res resultLine
	if err := json.Unmarshal(line, &res); err != nil {
		return nil, fmt.Errorf("decode gemini result line: %w", err)
	}
	key, err := batch.DecodeKey(res.Key)
	if err != nil {
		return nil, err
	}
	raw := &batch.Raw{Key: key}
	if res.Response != nil && len(res.Response.Candidates) > 0 {
		for _, part := range res.Response.Candidates[0].Content.Parts {
			if part.Text != "" {
				raw.Text = part.Text
				break
			}
		}
	}
	return raw, nil
}

// mapState translates Gemini job states into lifecycle states. Unknown
// non-terminal states are treated as still running.
func mapState(state string) batch.State {
	switch state {
	case "JOB_STATE_SUCCEEDED":
		return batch.StateSucceeded
	case "JOB_STATE_FAILED":
		return batch.StateFailed
	case "JOB_STATE_CANCELLED":
		return batch.StateCancelled
	case "JOB_STATE_EXPIRED":
		return batch.StateExpired
	case "JOB_STATE_PENDING", "JOB_STATE_QUEUED":
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
