//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package result

import "fmt"

// MissingPairError reports a record in the first binary result set with no
// counterpart in the second.
type MissingPairError struct {
	ID  string
	Idx int
}

// Error implements the error interface.
func (e *MissingPairError) Error() string {
	return fmt.Sprintf("missing counterpart for (%s, %d) in second result set", e.ID, e.Idx)
}

// MergeBinary combines two independently scored binary evaluation runs
// into one four-option equivalent, keyed by (id, idx).
//
// The merged prediction and correct letter are the concatenations in call
// order, and the merged record is correct only when both halves match
// positionally. Records carry no question type or reasoning; those fields
// are not meaningful across the two source runs.
func MergeBinary(first, second []Scored) ([]Scored, error) {
	type pairKey struct {
		id  string
		idx int
	}
	lookup := make(map[pairKey]Scored, len(second))
	for _, s := range second {
		lookup[pairKey{s.ID, s.Idx}] = s
	}

	merged := make([]Scored, 0, len(first))
	for _, a := range first {
		b, ok := lookup[pairKey{a.ID, a.Idx}]
		if !ok {
			return nil, &MissingPairError{ID: a.ID, Idx: a.Idx}
		}
		prediction := predictionOf(a) + predictionOf(b)
		correct := a.CorrectLetter + b.CorrectLetter
		merged = append(merged, Scored{
			ID:            a.ID,
			Idx:           a.Idx,
			CorrectLetter: correct,
			Prediction:    &prediction,
			IsCorrect:     prediction == correct,
		})
	}
	return merged, nil
}

func predictionOf(s Scored) string {
	if s.Prediction == nil {
		return ""
	}
	return *s.Prediction
}
