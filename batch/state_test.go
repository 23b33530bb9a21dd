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
	"bufio"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateTerminal(t *testing.T) {
	terminal := []State{StateSucceeded, StateFailed, StateCancelled, StateExpired}
	for _, s := range terminal {
		assert.True(t, s.Terminal(), "state %s", s)
	}
	running := []State{StateCreated, StateUploading, StateSubmitted, StateQueued, StateRunning}
	for _, s := range running {
		assert.False(t, s.Terminal(), "state %s", s)
	}
}

func TestWriteChunkFile(t *testing.T) {
	chunk := []Request{
		{Payload: []byte(`{"key":"a"}`)},
		{Payload: []byte(`{"key":"b"}`)},
	}

	path, cleanup, err := WriteChunkFile(chunk)
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	f.Close()
	require.NoError(t, scanner.Err())
	assert.Equal(t, []string{`{"key":"a"}`, `{"key":"b"}`}, lines)

	cleanup()
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
