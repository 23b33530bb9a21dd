//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		model         string
		wantReasoning bool
	}{
		{"deepseek-reasoner", true},
		{"DeepSeek-R1-Distill-Qwen-32B", true},
		{"qwq-32b", true},
		{"gpt-5", false},
		{"gemini-2.5-pro", false},
		{"", false},
	}
	for _, tt := range tests {
		p := Lookup(tt.model)
		assert.Equal(t, tt.wantReasoning, p.Reasoning, "model %q", tt.model)
		if tt.wantReasoning {
			assert.Equal(t, "</think>", p.ThinkEnd)
		}
	}
}

func TestLookupLongestPrefixWins(t *testing.T) {
	Register("custom", Profile{Reasoning: false})
	Register("custom-think", Profile{Reasoning: true, ThinkStart: "<r>", ThinkEnd: "</r>"})

	assert.False(t, Lookup("custom-base").Reasoning)
	assert.True(t, Lookup("custom-think-v2").Reasoning)
}
