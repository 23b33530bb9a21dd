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
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/da-luggas/prismm-bench/log"
)

// defaultPollConcurrency bounds how many handles are polled at once.
const defaultPollConcurrency = 8

// WaitUntilTerminal polls every handle on the given interval until all reach
// a terminal state or the timeout elapses. It returns the last observed state
// per handle and whether all handles finished. On deadline the partial state
// set is returned without error; the caller decides how to treat unfinished
// jobs. Poll failures are logged per handle and never stop sibling handles.
func WaitUntilTerminal(
	ctx context.Context,
	svc Service,
	handles []*Handle,
	timeout time.Duration,
	interval time.Duration,
) ([]State, bool) {
	deadline := time.Now().Add(timeout)

	size := defaultPollConcurrency
	if len(handles) < size {
		size = len(handles)
	}
	var pool *ants.Pool
	if size > 0 {
		p, err := ants.NewPool(size)
		if err != nil {
			log.Warnf("create poll pool: %v; polling sequentially", err)
		} else {
			pool = p
			defer pool.Release()
		}
	}

	for {
		pollOnce(ctx, svc, handles, pool)

		if allTerminal(handles) {
			return states(handles), true
		}
		if ctx.Err() != nil {
			log.Warnf("polling stopped: %v", ctx.Err())
			return states(handles), false
		}
		if !time.Now().Add(interval).Before(deadline) {
			log.Warnf("poll timeout after %s with %d unfinished job(s)", timeout, unfinished(handles))
			return states(handles), false
		}

		select {
		case <-ctx.Done():
			return states(handles), false
		case <-time.After(interval):
		}
	}
}

// pollOnce polls all non-terminal handles, concurrently when a pool is
// available. Each handle's poll is independent.
func pollOnce(ctx context.Context, svc Service, handles []*Handle, pool *ants.Pool) {
	var wg sync.WaitGroup
	for _, h := range handles {
		if h.State.Terminal() {
			continue
		}
		h := h
		poll := func() {
			defer wg.Done()
			if _, err := svc.Poll(ctx, h); err != nil {
				log.Errorf("poll job %s: %v", h.JobRef, err)
			}
		}
		wg.Add(1)
		if pool != nil {
			if err := pool.Submit(poll); err == nil {
				continue
			}
			// Pool rejected the task; run inline.
		}
		poll()
	}
	wg.Wait()
}

func allTerminal(handles []*Handle) bool {
	for _, h := range handles {
		if !h.State.Terminal() {
			return false
		}
	}
	return true
}

func unfinished(handles []*Handle) int {
	n := 0
	for _, h := range handles {
		if !h.State.Terminal() {
			n++
		}
	}
	return n
}

func states(handles []*Handle) []State {
	out := make([]State, len(handles))
	for i, h := range handles {
		out[i] = h.State
	}
	return out
}
