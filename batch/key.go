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
	"fmt"
	"strconv"
	"strings"
)

// Key correlates a provider output line back to its originating evaluation
// item. It travels through the provider as an opaque string.
type Key struct {
	ID             string
	Idx            int
	QuestionType   string
	CorrectLetter  string
	WholePage      bool
	WholeDoc       bool
	WithoutContext bool
}

// Encode serializes the key as the underscore-joined wire form. The question
// type has its underscores replaced with hyphens so the join stays
// unambiguous; booleans serialize as the literals "True"/"False".
func (k Key) Encode() string {
	return strings.Join([]string{
		k.ID,
		strconv.Itoa(k.Idx),
		strings.ReplaceAll(k.QuestionType, "_", "-"),
		k.CorrectLetter,
		formatBool(k.WholePage),
		formatBool(k.WholeDoc),
		formatBool(k.WithoutContext),
	}, "_")
}

// DecodeKey parses both the current 7-field form and the legacy 6-field form
// that predates the whole-document flag. Parsing is anchored at the end of
// the string: the trailing fixed fields are consumed right to left and
// whatever remains joins back into the id, so ids containing underscores
// round-trip.
func DecodeKey(s string) (Key, error) {
	parts := strings.Split(s, "_")
	if len(parts) < 6 {
		return Key{}, fmt.Errorf("correlation key %q: want at least 6 fields, got %d", s, len(parts))
	}
	n := len(parts)

	var k Key
	var err error
	// In the 7-field form parts[n-3] is the whole-page boolean; in the
	// legacy form that position holds the correct letter, which is never a
	// boolean literal.
	if isBoolLiteral(parts[n-3]) {
		if k.WithoutContext, err = parseBool(parts[n-1]); err != nil {
			return Key{}, keyFieldError(s, err)
		}
		if k.WholeDoc, err = parseBool(parts[n-2]); err != nil {
			return Key{}, keyFieldError(s, err)
		}
		if k.WholePage, err = parseBool(parts[n-3]); err != nil {
			return Key{}, keyFieldError(s, err)
		}
		k.CorrectLetter = parts[n-4]
		k.QuestionType = strings.ReplaceAll(parts[n-5], "-", "_")
		if k.Idx, err = strconv.Atoi(parts[n-6]); err != nil {
			return Key{}, keyFieldError(s, err)
		}
		k.ID = strings.Join(parts[:n-6], "_")
	} else {
		if k.WithoutContext, err = parseBool(parts[n-1]); err != nil {
			return Key{}, keyFieldError(s, err)
		}
		if k.WholePage, err = parseBool(parts[n-2]); err != nil {
			return Key{}, keyFieldError(s, err)
		}
		k.CorrectLetter = parts[n-3]
		k.QuestionType = strings.ReplaceAll(parts[n-4], "-", "_")
		if k.Idx, err = strconv.Atoi(parts[n-5]); err != nil {
			return Key{}, keyFieldError(s, err)
		}
		k.ID = strings.Join(parts[:n-5], "_")
	}
	if k.ID == "" {
		return Key{}, fmt.Errorf("correlation key %q: empty id", s)
	}
	return k, nil
}

func keyFieldError(key string, err error) error {
	return fmt.Errorf("correlation key %q: %w", key, err)
}

func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

func isBoolLiteral(s string) bool {
	return s == "True" || s == "False"
}

func parseBool(s string) (bool, error) {
	switch s {
	case "True":
		return true, nil
	case "False":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean field %q", s)
	}
}
