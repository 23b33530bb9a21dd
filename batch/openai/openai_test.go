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
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"

	openaisdk "github.com/openai/openai-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/da-luggas/prismm-bench/batch"
	"github.com/da-luggas/prismm-bench/content"
)

type fakeFiles struct {
	uploaded  string
	uploadErr error
	contents  map[string][]byte
	deleted   []string
}

func (f *fakeFiles) Upload(ctx context.Context, path string) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	if _, err := os.Stat(path); err != nil {
		return "", err
	}
	f.uploaded = path
	return "file-upload-1", nil
}

func (f *fakeFiles) Content(ctx context.Context, fileID string) ([]byte, error) {
	data, ok := f.contents[fileID]
	if !ok {
		return nil, errors.New("no such file")
	}
	return data, nil
}

func (f *fakeFiles) Delete(ctx context.Context, fileID string) error {
	f.deleted = append(f.deleted, fileID)
	return nil
}

type fakeBatches struct {
	batch        *openaisdk.Batch
	createParams openaisdk.BatchNewParams
	cancelled    []string
}

func (b *fakeBatches) Create(ctx context.Context, params openaisdk.BatchNewParams) (*openaisdk.Batch, error) {
	b.createParams = params
	return b.batch, nil
}

func (b *fakeBatches) Get(ctx context.Context, batchID string) (*openaisdk.Batch, error) {
	return b.batch, nil
}

func (b *fakeBatches) Cancel(ctx context.Context, batchID string) error {
	b.cancelled = append(b.cancelled, batchID)
	return nil
}

type fakeClient struct {
	files   *fakeFiles
	batches *fakeBatches
}

func (c *fakeClient) Files() Files     { return c.files }
func (c *fakeClient) Batches() Batches { return c.batches }

func sampleKey() batch.Key {
	return batch.Key{ID: "p1", Idx: 0, QuestionType: "default", CorrectLetter: "A"}
}

func TestEncode(t *testing.T) {
	svc := New("gpt-5", WithClient(&fakeClient{}))
	req, err := svc.Encode(sampleKey(), []content.Item{
		content.ImageItem("SU1H"),
		content.TextItem("Which statement is inconsistent?"),
	})
	require.NoError(t, err)

	var line struct {
		CustomID string `json:"custom_id"`
		Method   string `json:"method"`
		URL      string `json:"url"`
		Body     struct {
			Model string `json:"model"`
			Input []struct {
				Role    string          `json:"role"`
				Content json.RawMessage `json:"content"`
			} `json:"input"`
			Reasoning *struct {
				Effort string `json:"effort"`
			} `json:"reasoning"`
		} `json:"body"`
	}
	require.NoError(t, json.Unmarshal(req.Payload, &line))

	assert.Equal(t, "p1_0_default_A_False_False_False", line.CustomID)
	assert.Equal(t, "POST", line.Method)
	assert.Equal(t, "/v1/responses", line.URL)
	assert.Equal(t, "gpt-5", line.Body.Model)
	require.Len(t, line.Body.Input, 2)
	assert.Equal(t, "system", line.Body.Input[0].Role)
	assert.Equal(t, "user", line.Body.Input[1].Role)
	require.NotNil(t, line.Body.Reasoning)
	assert.Equal(t, "high", line.Body.Reasoning.Effort)

	var blocks []struct {
		Type     string `json:"type"`
		Text     string `json:"text"`
		ImageURL string `json:"image_url"`
	}
	require.NoError(t, json.Unmarshal(line.Body.Input[1].Content, &blocks))
	require.Len(t, blocks, 2)
	assert.Equal(t, "input_image", blocks[0].Type)
	assert.Equal(t, "data:image/jpeg;base64,SU1H", blocks[0].ImageURL)
	assert.Equal(t, "input_text", blocks[1].Type)
}

func TestEncodeReasoningOff(t *testing.T) {
	svc := New("gpt-4o", WithClient(&fakeClient{}), WithReasoning(batch.ReasoningOff))
	req, err := svc.Encode(sampleKey(), []content.Item{content.TextItem("q")})
	require.NoError(t, err)

	var line struct {
		Body struct {
			Reasoning json.RawMessage `json:"reasoning"`
		} `json:"body"`
	}
	require.NoError(t, json.Unmarshal(req.Payload, &line))
	assert.Nil(t, line.Body.Reasoning)
}

func TestSubmit(t *testing.T) {
	fc := &fakeClient{
		files:   &fakeFiles{},
		batches: &fakeBatches{batch: &openaisdk.Batch{ID: "batch-1", Status: "validating"}},
	}
	svc := New("gpt-5", WithClient(fc), WithMetadata(map[string]string{"suite": "mcq"}))

	req, err := svc.Encode(sampleKey(), []content.Item{content.TextItem("q")})
	require.NoError(t, err)

	h, err := svc.Submit(context.Background(), []batch.Request{req})
	require.NoError(t, err)
	assert.Equal(t, "file-upload-1", h.UploadRef)
	assert.Equal(t, "batch-1", h.JobRef)
	assert.Equal(t, batch.StateSubmitted, h.State)
	assert.Equal(t, "file-upload-1", fc.batches.createParams.InputFileID)
	// The temp upload file is cleaned up after submission.
	_, statErr := os.Stat(fc.files.uploaded)
	assert.True(t, os.IsNotExist(statErr))
}

func TestSubmitUploadError(t *testing.T) {
	fc := &fakeClient{files: &fakeFiles{uploadErr: errors.New("too large")}, batches: &fakeBatches{}}
	svc := New("gpt-5", WithClient(fc))

	req, err := svc.Encode(sampleKey(), []content.Item{content.TextItem("q")})
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), []batch.Request{req})
	var remote *batch.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, "openai", remote.Provider)
}

func TestPollStatusMapping(t *testing.T) {
	tests := []struct {
		status string
		want   batch.State
	}{
		{"validating", batch.StateQueued},
		{"in_progress", batch.StateRunning},
		{"finalizing", batch.StateRunning},
		{"failed", batch.StateFailed},
		{"cancelled", batch.StateCancelled},
		{"expired", batch.StateExpired},
	}
	for _, tt := range tests {
		fc := &fakeClient{batches: &fakeBatches{batch: &openaisdk.Batch{
			ID:     "batch-1",
			Status: openaisdk.BatchStatus(tt.status),
		}}}
		svc := New("gpt-5", WithClient(fc))
		h := &batch.Handle{JobRef: "batch-1", State: batch.StateSubmitted}

		state, err := svc.Poll(context.Background(), h)
		require.NoError(t, err)
		assert.Equal(t, tt.want, state, "status %s", tt.status)
	}
}

func TestPollCompletedResolvesResultRef(t *testing.T) {
	fc := &fakeClient{batches: &fakeBatches{batch: &openaisdk.Batch{
		ID:           "batch-1",
		Status:       "completed",
		OutputFileID: "file-results-1",
	}}}
	svc := New("gpt-5", WithClient(fc))
	h := &batch.Handle{JobRef: "batch-1", State: batch.StateRunning}

	state, err := svc.Poll(context.Background(), h)
	require.NoError(t, err)
	assert.Equal(t, batch.StateSucceeded, state)
	assert.Equal(t, "file-results-1", h.ResultRef)
}

func TestPollCompletedWithoutOutputFails(t *testing.T) {
	fc := &fakeClient{batches: &fakeBatches{batch: &openaisdk.Batch{ID: "batch-1", Status: "completed"}}}
	svc := New("gpt-5", WithClient(fc))
	h := &batch.Handle{JobRef: "batch-1", State: batch.StateRunning}

	state, err := svc.Poll(context.Background(), h)
	assert.Error(t, err)
	assert.Equal(t, batch.StateFailed, state)
}

func TestFetchNotReady(t *testing.T) {
	svc := New("gpt-5", WithClient(&fakeClient{}))
	h := &batch.Handle{JobRef: "batch-1", State: batch.StateRunning}

	_, err := svc.Fetch(context.Background(), h)
	assert.ErrorIs(t, err, batch.ErrJobNotReady)
}

func TestFetch(t *testing.T) {
	fc := &fakeClient{files: &fakeFiles{contents: map[string][]byte{
		"file-results-1": []byte("{\"custom_id\":\"a\"}\n{\"custom_id\":\"b\"}\n"),
	}}}
	svc := New("gpt-5", WithClient(fc))
	h := &batch.Handle{JobRef: "batch-1", ResultRef: "file-results-1", State: batch.StateSucceeded}

	lines, err := svc.Fetch(context.Background(), h)
	require.NoError(t, err)
	assert.Len(t, lines, 2)
}

func TestDelete(t *testing.T) {
	fc := &fakeClient{files: &fakeFiles{}}
	svc := New("gpt-5", WithClient(fc))
	h := &batch.Handle{UploadRef: "file-upload-1", JobRef: "batch-1"}

	require.NoError(t, svc.Delete(context.Background(), h))
	assert.Equal(t, []string{"file-upload-1"}, fc.files.deleted)
}

func TestDecodeLine(t *testing.T) {
	svc := New("gpt-5", WithClient(&fakeClient{}))
	line := []byte(`{
		"custom_id": "p1_0_default_A_False_False_False",
		"response": {"body": {"output": [
			{"type": "reasoning", "content": []},
			{"type": "message", "content": [{"type": "output_text", "text": "A"}]}
		]}}
	}`)

	raw, err := svc.DecodeLine(line)
	require.NoError(t, err)
	assert.Equal(t, sampleKey(), raw.Key)
	assert.Equal(t, "A", raw.Text)
}

func TestDecodeLineNoResponse(t *testing.T) {
	svc := New("gpt-5", WithClient(&fakeClient{}))
	raw, err := svc.DecodeLine([]byte(`{"custom_id": "p1_0_default_A_False_False_False"}`))
	require.NoError(t, err)
	assert.Empty(t, raw.Text)
}

func TestDecodeLineBadKey(t *testing.T) {
	svc := New("gpt-5", WithClient(&fakeClient{}))
	_, err := svc.DecodeLine([]byte(`{"custom_id": "garbage"}`))
	assert.Error(t, err)
}
