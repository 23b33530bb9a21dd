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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyEncode(t *testing.T) {
	key := Key{
		ID:            "2301.00001",
		Idx:           3,
		QuestionType:  "binary_consistent",
		CorrectLetter: "B",
		WholePage:     true,
	}
	assert.Equal(t, "2301.00001_3_binary-consistent_B_True_False_False", key.Encode())
}

func TestKeyRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		key  Key
	}{
		{
			name: "default",
			key:  Key{ID: "2301.00001", Idx: 0, QuestionType: "default", CorrectLetter: "A"},
		},
		{
			name: "underscored question type",
			key:  Key{ID: "p1", Idx: 7, QuestionType: "binary_inconsistent", CorrectLetter: "D", WholeDoc: true},
		},
		{
			name: "underscored id",
			key:  Key{ID: "doc_with_under_scores", Idx: 12, QuestionType: "part_pair", CorrectLetter: "C", WithoutContext: true},
		},
		{
			name: "all flags",
			key:  Key{ID: "x", Idx: 1, QuestionType: "edit", CorrectLetter: "B", WholePage: true, WholeDoc: true, WithoutContext: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded, err := DecodeKey(tt.key.Encode())
			require.NoError(t, err)
			assert.Equal(t, tt.key, decoded)
		})
	}
}

func TestDecodeKeyLegacySixField(t *testing.T) {
	// The older form omits the whole-document flag.
	key, err := DecodeKey("paper_01_2_default-natural_A_True_False")
	require.NoError(t, err)
	assert.Equal(t, Key{
		ID:            "paper_01",
		Idx:           2,
		QuestionType:  "default_natural",
		CorrectLetter: "A",
		WholePage:     true,
	}, key)
}

func TestDecodeKeyErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{name: "too few fields", in: "a_b_c"},
		{name: "non numeric idx", in: "id_x_default_A_True_False_False"},
		{name: "bad boolean", in: "id_0_default_A_True_False_Maybe"},
		{name: "empty", in: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeKey(tt.in)
			assert.Error(t, err)
		})
	}
}
