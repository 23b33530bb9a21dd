//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package annotation defines the inconsistency annotation records consumed by
// the evaluation orchestrator and the multiple-choice question bundles
// attached to them.
package annotation

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Question type identifiers.
const (
	TypeDefault            = "default"
	TypeBinaryConsistent   = "binary_consistent"
	TypeBinaryInconsistent = "binary_inconsistent"
	TypeEdit               = "edit"
	TypeDefaultNatural     = "default_natural"
	TypePartPair           = "part_pair"
)

// Part type identifiers.
const (
	PartImage = "image"
	PartText  = "text"
)

// BBox is a relative bounding box of an image part within its page.
type BBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Part is one inconsistency-relevant fragment of a source document, either an
// image region or a text span. The Type field selects which of the remaining
// fields are meaningful.
type Part struct {
	Type string `json:"type"`
	Page int    `json:"page"`
	// Image parts.
	ImageID string `json:"image_id,omitempty"`
	BBox    *BBox  `json:"bbox,omitempty"`
	// Text parts.
	Content string `json:"content,omitempty"`
	Line    int    `json:"line,omitempty"`
}

// MCQItem is one multiple-choice variant of an annotation. Letters assigns
// option letters in presentation order; Letters[0] labels the correct option
// before the display re-sort.
type MCQItem struct {
	Question  string   `json:"question"`
	Correct   string   `json:"correct"`
	Incorrect []string `json:"incorrect"`
	Letters   []string `json:"letters"`
}

// Valid reports whether the item is populated consistently.
func (m *MCQItem) Valid() bool {
	return m != nil && m.Question != "" && m.Correct != "" &&
		len(m.Letters) == len(m.Incorrect)+1
}

// MCQ bundles the question variants generated for one annotation. PartPair is
// optional; the other variants are always present.
type MCQ struct {
	Default            MCQItem  `json:"default"`
	BinaryConsistent   MCQItem  `json:"binary_consistent"`
	BinaryInconsistent MCQItem  `json:"binary_inconsistent"`
	Edit               MCQItem  `json:"edit"`
	DefaultNatural     MCQItem  `json:"default_natural"`
	PartPair           *MCQItem `json:"part_pair,omitempty"`
}

// Entry is one evaluation unit: the inconsistency parts plus the question
// bundle derived from them.
type Entry struct {
	Parts       []Part `json:"inconsistency_parts"`
	ReviewText  string `json:"review_text"`
	Category    string `json:"category"`
	Description string `json:"description"`
	MCQ         MCQ    `json:"mcq"`
}

// Item resolves the MCQ variant for the given question type. For part_pair it
// returns nil without error when the entry carries no part-pair question;
// callers skip such entries.
func (e *Entry) Item(questionType string) (*MCQItem, error) {
	switch questionType {
	case TypeDefault:
		return &e.MCQ.Default, nil
	case TypeBinaryConsistent:
		return &e.MCQ.BinaryConsistent, nil
	case TypeBinaryInconsistent:
		return &e.MCQ.BinaryInconsistent, nil
	case TypeEdit:
		return &e.MCQ.Edit, nil
	case TypeDefaultNatural:
		return &e.MCQ.DefaultNatural, nil
	case TypePartPair:
		return e.MCQ.PartPair, nil
	default:
		return nil, fmt.Errorf("unknown question type: %s", questionType)
	}
}

// Set maps a document id to the annotations recorded for that document.
type Set map[string][]Entry

// Load reads an annotation set from a JSON file.
func Load(path string) (Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read annotation file: %w", err)
	}
	var set Set
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("decode annotation file %s: %w", path, err)
	}
	return set, nil
}

// Keyed is one annotation together with its document id and position within
// that document's annotation list.
type Keyed struct {
	ID    string
	Idx   int
	Entry *Entry
}

// Iterate returns the annotations relevant for the given question type in
// deterministic order: document ids sorted lexicographically, entries in file
// order. Entries without a part-pair question are skipped when part_pair is
// requested.
func (s Set) Iterate(questionType string) []Keyed {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var out []Keyed
	for _, id := range ids {
		entries := s[id]
		for idx := range entries {
			entry := &entries[idx]
			if questionType == TypePartPair && !entry.MCQ.PartPair.Valid() {
				continue
			}
			out = append(out, Keyed{ID: id, Idx: idx, Entry: entry})
		}
	}
	return out
}
