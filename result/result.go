//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package result reconciles raw batch outputs with the expected answers
// and persists scored result files.
package result

import (
	"strings"

	"github.com/da-luggas/prismm-bench/batch"
	"github.com/da-luggas/prismm-bench/log"
	"github.com/da-luggas/prismm-bench/profile"
)

// normalizeCutset is trimmed from both ends of a raw prediction before
// comparison.
const normalizeCutset = "'.\" )"

// Scored is one reconciled evaluation record.
type Scored struct {
	ID            string  `json:"id"`
	Idx           int     `json:"idx"`
	QuestionType  string  `json:"question_type"`
	CorrectLetter string  `json:"correct_letter"`
	Prediction    *string `json:"prediction"`
	IsCorrect     bool    `json:"is_correct"`
	Reasoning     string  `json:"reasoning,omitempty"`
}

// Normalize canonicalizes a raw prediction: surrounding whitespace and
// quote/punctuation characters are trimmed and the remainder upper-cased.
func Normalize(text string) string {
	text = strings.TrimSpace(text)
	text = strings.Trim(text, normalizeCutset)
	return strings.ToUpper(strings.TrimSpace(text))
}

// Reconcile matches raw outputs against the expected request keys and
// scores each one.
//
// Every expected key yields exactly one record: keys with no matching raw
// output get a nil Prediction, so record counts stay auditable against the
// request count. Raw outputs whose key was never expected are logged and
// kept. When prof has inline reasoning delimiters, the text before the
// first end delimiter is retained as Reasoning and only the remainder is
// scored.
func Reconcile(raws []*batch.Raw, expected []batch.Key, prof profile.Profile) []Scored {
	byKey := make(map[string]*batch.Raw, len(raws))
	for _, raw := range raws {
		byKey[raw.Key.Encode()] = raw
	}

	scored := make([]Scored, 0, len(expected))
	seen := make(map[string]bool, len(expected))
	for _, key := range expected {
		encoded := key.Encode()
		seen[encoded] = true
		raw, ok := byKey[encoded]
		if !ok {
			log.Warnf("no output for request %s", encoded)
			scored = append(scored, Scored{
				ID:            key.ID,
				Idx:           key.Idx,
				QuestionType:  key.QuestionType,
				CorrectLetter: key.CorrectLetter,
			})
			continue
		}
		scored = append(scored, score(raw, prof))
	}
	for _, raw := range raws {
		if seen[raw.Key.Encode()] {
			continue
		}
		log.Warnf("unexpected output for request %s", raw.Key.Encode())
		scored = append(scored, score(raw, prof))
	}
	return scored
}

func score(raw *batch.Raw, prof profile.Profile) Scored {
	text := raw.Text
	s := Scored{
		ID:            raw.Key.ID,
		Idx:           raw.Key.Idx,
		QuestionType:  raw.Key.QuestionType,
		CorrectLetter: raw.Key.CorrectLetter,
	}
	if prof.Reasoning && prof.ThinkEnd != "" {
		if before, after, found := strings.Cut(text, prof.ThinkEnd); found {
			s.Reasoning = strings.TrimSpace(strings.Replace(before, prof.ThinkStart, "", 1))
			text = after
		}
	}
	prediction := Normalize(text)
	s.Prediction = &prediction
	s.IsCorrect = prediction == raw.Key.CorrectLetter
	return s
}
