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
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/da-luggas/prismm-bench/annotation"
	"github.com/da-luggas/prismm-bench/batch"
	"github.com/da-luggas/prismm-bench/content"
	"github.com/da-luggas/prismm-bench/docstore"
	"github.com/da-luggas/prismm-bench/result"
)

// stubStore satisfies docstore.Store for runs that only use text parts.
type stubStore struct{}

func (stubStore) PartImage(string) (string, error)      { return docstore.Placeholder(), nil }
func (stubStore) PageImage(string, int) (string, error) { return docstore.Placeholder(), nil }
func (stubStore) DocImages(string) ([]string, error)    { return []string{docstore.Placeholder()}, nil }
func (stubStore) PageCount(string) (int, error)         { return 1, nil }

// memService is an in-memory batch.Service: jobs succeed one poll after
// submission and echo each request's correct letter as the prediction.
type memService struct {
	mu          sync.Mutex
	payloadSize int
	maxChunk    int64
	jobs        map[string][]batch.Request
	polled      map[string]bool
	submitErrOn int // 1-based chunk index that fails to submit, 0 for none
	submissions int
}

func newMemService(payloadSize int, maxChunk int64) *memService {
	return &memService{
		payloadSize: payloadSize,
		maxChunk:    maxChunk,
		jobs:        map[string][]batch.Request{},
		polled:      map[string]bool{},
	}
}

type memLine struct {
	Key  string `json:"key"`
	Text string `json:"text"`
	Pad  string `json:"pad,omitempty"`
}

func (s *memService) Provider() string     { return "mem" }
func (s *memService) MaxChunkBytes() int64 { return s.maxChunk }

func (s *memService) Encode(key batch.Key, items []content.Item) (batch.Request, error) {
	line := memLine{Key: key.Encode(), Text: key.CorrectLetter}
	payload, err := json.Marshal(line)
	if err != nil {
		return batch.Request{}, err
	}
	if pad := s.payloadSize - len(payload); pad > 0 {
		line.Pad = strings.Repeat("x", pad)
		if payload, err = json.Marshal(line); err != nil {
			return batch.Request{}, err
		}
	}
	return batch.Request{Key: key, Payload: payload}, nil
}

func (s *memService) Submit(ctx context.Context, chunk []batch.Request) (*batch.Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submissions++
	if s.submitErrOn == s.submissions {
		return nil, errors.New("submit rejected")
	}
	ref := fmt.Sprintf("job-%d", s.submissions)
	s.jobs[ref] = chunk
	return &batch.Handle{
		UploadRef: ref + "-upload",
		JobRef:    ref,
		State:     batch.StateSubmitted,
		Requests:  len(chunk),
	}, nil
}

func (s *memService) Poll(ctx context.Context, h *batch.Handle) (batch.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.polled[h.JobRef] {
		s.polled[h.JobRef] = true
		h.State = batch.StateRunning
		return h.State, nil
	}
	h.State = batch.StateSucceeded
	h.ResultRef = h.JobRef + "-results"
	return h.State, nil
}

func (s *memService) Fetch(ctx context.Context, h *batch.Handle) ([][]byte, error) {
	if h.State != batch.StateSucceeded {
		return nil, batch.ErrJobNotReady
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	chunk := s.jobs[strings.TrimSuffix(h.ResultRef, "-results")]
	var lines [][]byte
	for _, req := range chunk {
		line, err := json.Marshal(memLine{Key: req.Key.Encode(), Text: req.Key.CorrectLetter})
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func (s *memService) Cancel(ctx context.Context, h *batch.Handle) error { return nil }
func (s *memService) Delete(ctx context.Context, h *batch.Handle) error { return nil }

func (s *memService) DecodeLine(line []byte) (*batch.Raw, error) {
	var l memLine
	if err := json.Unmarshal(line, &l); err != nil {
		return nil, err
	}
	key, err := batch.DecodeKey(l.Key)
	if err != nil {
		return nil, err
	}
	return &batch.Raw{Key: key, Text: l.Text}, nil
}

// syntheticSet builds docs documents with entriesPerDoc annotations each,
// using only text parts so no image store is needed.
func syntheticSet(docs, entriesPerDoc int) annotation.Set {
	set := annotation.Set{}
	for d := 0; d < docs; d++ {
		id := fmt.Sprintf("paper-%04d", d)
		var entries []annotation.Entry
		for e := 0; e < entriesPerDoc; e++ {
			entries = append(entries, annotation.Entry{
				Parts: []annotation.Part{
					{Type: annotation.PartText, Page: 1, Content: fmt.Sprintf("claim %d of %s", e, id)},
				},
				MCQ: annotation.MCQ{
					Default: annotation.MCQItem{
						Question:  "Which statement is inconsistent?",
						Correct:   "the claim",
						Incorrect: []string{"the figure"},
						Letters:   []string{"A", "B"},
					},
				},
			})
		}
		set[id] = entries
	}
	return set
}

func newTestRunner(t *testing.T, svc batch.Service, set annotation.Set) *Runner {
	t.Helper()
	return New(svc, content.NewBuilder(stubStore{}), set,
		WithResultsDir(t.TempDir()),
		WithRunsDir(t.TempDir()),
		WithPollInterval(5*time.Millisecond),
		WithPollTimeout(10*time.Second),
	)
}

func TestRunEndToEnd(t *testing.T) {
	// 2500 requests of ~1 KB against a ~1.9 MB budget must split into two
	// chunks and still reconcile to exactly 2500 records.
	svc := newMemService(1024, 1900*1024)
	set := syntheticSet(250, 10)
	r := newTestRunner(t, svc, set)

	path, err := r.Run(context.Background(), Spec{
		Provider:     "mem",
		Model:        "test-model",
		QuestionType: annotation.TypeDefault,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, svc.submissions)

	scored, err := result.LoadFile(path)
	require.NoError(t, err)
	require.Len(t, scored, 2500)

	seen := map[string]bool{}
	for _, s := range scored {
		key := fmt.Sprintf("%s/%d", s.ID, s.Idx)
		assert.False(t, seen[key], "duplicate record %s", key)
		seen[key] = true
		require.NotNil(t, s.Prediction)
		assert.True(t, s.IsCorrect)
	}
}

func TestPrepareForcesModesOffForPartPair(t *testing.T) {
	set := annotation.Set{
		"paper-0000": {{
			MCQ: annotation.MCQ{
				PartPair: &annotation.MCQItem{
					Question:  "the ablation table",
					Correct:   "the loss curve",
					Incorrect: []string{"the title"},
					Letters:   []string{"A", "B"},
				},
			},
		}},
	}
	svc := newMemService(0, 1<<20)
	r := newTestRunner(t, svc, set)

	requests, err := r.Prepare(Spec{
		Model:        "test-model",
		QuestionType: annotation.TypePartPair,
		WholePage:    true,
		WholeDoc:     true,
	})
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.False(t, requests[0].Key.WholePage)
	assert.False(t, requests[0].Key.WholeDoc)
}

func TestPrepareSkipsEntriesWithoutPartPair(t *testing.T) {
	set := syntheticSet(2, 1)
	svc := newMemService(0, 1<<20)
	r := newTestRunner(t, svc, set)

	requests, err := r.Prepare(Spec{Model: "m", QuestionType: annotation.TypePartPair})
	require.NoError(t, err)
	assert.Empty(t, requests)
}

func TestSubmitChunkFailureIsolation(t *testing.T) {
	svc := newMemService(1024, 103*1024) // ~102 requests per chunk
	svc.submitErrOn = 2
	set := syntheticSet(30, 10)
	r := newTestRunner(t, svc, set)

	m, err := r.Submit(context.Background(), Spec{Model: "m", QuestionType: annotation.TypeDefault})
	require.NoError(t, err)
	require.Len(t, m.Handles, 3)
	assert.Equal(t, batch.StateFailed, m.Handles[1].State)
	assert.NotEmpty(t, m.Handles[0].JobRef)
	assert.NotEmpty(t, m.Handles[2].JobRef)
}

func TestManifestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	m := &Manifest{
		RunID:        "run-1",
		Provider:     "mem",
		Model:        "test-model",
		QuestionType: "default",
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
		Handles: []*batch.Handle{
			{JobRef: "job-1", State: batch.StateRunning, Requests: 10},
		},
		Keys: []string{"p1_0_default_A_False_False_False"},
	}

	_, err := SaveManifest(dir, m)
	require.NoError(t, err)

	loaded, err := LoadManifest(dir, "run-1")
	require.NoError(t, err)
	assert.Equal(t, m, loaded)

	keys, err := loaded.ExpectedKeys()
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.Equal(t, "p1", keys[0].ID)
}

func TestFetchSkipsUnsucceededHandles(t *testing.T) {
	svc := newMemService(0, 1<<20)
	set := syntheticSet(1, 2)
	r := newTestRunner(t, svc, set)

	m, err := r.Submit(context.Background(), Spec{Model: "m", QuestionType: annotation.TypeDefault})
	require.NoError(t, err)
	// Leave the job in its submitted state and fetch anyway: every expected
	// key must still be accounted for, with nil predictions.
	path, err := r.Fetch(context.Background(), m)
	require.NoError(t, err)

	scored, err := result.LoadFile(path)
	require.NoError(t, err)
	require.Len(t, scored, 2)
	for _, s := range scored {
		assert.Nil(t, s.Prediction)
	}
}
