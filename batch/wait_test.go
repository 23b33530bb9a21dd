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
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/da-luggas/prismm-bench/content"
)

// pollService reaches the target state for each job after a fixed number of
// polls. Jobs with a negative threshold never finish.
type pollService struct {
	mu        sync.Mutex
	polls     map[string]int
	threshold map[string]int
	target    map[string]State
	pollErr   map[string]error
}

func newPollService() *pollService {
	return &pollService{
		polls:     map[string]int{},
		threshold: map[string]int{},
		target:    map[string]State{},
		pollErr:   map[string]error{},
	}
}

func (s *pollService) job(ref string, after int, target State) *Handle {
	s.threshold[ref] = after
	s.target[ref] = target
	return &Handle{JobRef: ref, State: StateSubmitted}
}

func (s *pollService) Provider() string     { return "fake" }
func (s *pollService) MaxChunkBytes() int64 { return 1 << 20 }
func (s *pollService) Encode(key Key, items []content.Item) (Request, error) {
	return Request{Key: key}, nil
}
func (s *pollService) Submit(ctx context.Context, chunk []Request) (*Handle, error) {
	return nil, errors.New("not implemented")
}
func (s *pollService) Fetch(ctx context.Context, h *Handle) ([][]byte, error) {
	return nil, errors.New("not implemented")
}
func (s *pollService) Cancel(ctx context.Context, h *Handle) error { return nil }
func (s *pollService) Delete(ctx context.Context, h *Handle) error { return nil }
func (s *pollService) DecodeLine(line []byte) (*Raw, error) {
	return nil, errors.New("not implemented")
}

func (s *pollService) Poll(ctx context.Context, h *Handle) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.pollErr[h.JobRef]; err != nil {
		return h.State, err
	}
	s.polls[h.JobRef]++
	after := s.threshold[h.JobRef]
	if after >= 0 && s.polls[h.JobRef] > after {
		h.State = s.target[h.JobRef]
	} else {
		h.State = StateRunning
	}
	return h.State, nil
}

func (s *pollService) pollCount(ref string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.polls[ref]
}

func TestWaitUntilTerminalAllFinish(t *testing.T) {
	svc := newPollService()
	handles := []*Handle{
		svc.job("job-0", 0, StateSucceeded),
		svc.job("job-1", 2, StateSucceeded),
		svc.job("job-2", 1, StateFailed),
	}

	states, done := WaitUntilTerminal(context.Background(), svc, handles, 5*time.Second, 10*time.Millisecond)
	require.True(t, done)
	assert.Equal(t, []State{StateSucceeded, StateSucceeded, StateFailed}, states)
}

func TestWaitUntilTerminalDeadline(t *testing.T) {
	svc := newPollService()
	handles := []*Handle{
		svc.job("fast", 0, StateSucceeded),
		svc.job("stuck", -1, StateSucceeded),
	}

	start := time.Now()
	states, done := WaitUntilTerminal(context.Background(), svc, handles, time.Second, 100*time.Millisecond)
	elapsed := time.Since(start)

	assert.False(t, done)
	assert.Less(t, elapsed, 2*time.Second)
	require.Len(t, states, 2)
	assert.Equal(t, StateSucceeded, states[0])
	assert.False(t, states[1].Terminal())
	// The stuck job keeps being polled until the deadline.
	assert.Greater(t, svc.pollCount("stuck"), 1)
}

func TestWaitUntilTerminalContextCancelled(t *testing.T) {
	svc := newPollService()
	handles := []*Handle{svc.job("stuck", -1, StateSucceeded)}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()
	_, done := WaitUntilTerminal(ctx, svc, handles, time.Minute, 10*time.Millisecond)
	assert.False(t, done)
}

func TestWaitUntilTerminalPollErrorsDoNotAbortSiblings(t *testing.T) {
	svc := newPollService()
	handles := []*Handle{
		svc.job("ok", 1, StateSucceeded),
		svc.job("broken", 0, StateSucceeded),
	}
	svc.pollErr["broken"] = fmt.Errorf("transport down")

	states, done := WaitUntilTerminal(context.Background(), svc, handles, 500*time.Millisecond, 10*time.Millisecond)
	assert.False(t, done)
	assert.Equal(t, StateSucceeded, states[0])
}
