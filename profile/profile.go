//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package profile maps model identifiers to response-handling traits such
// as inline reasoning delimiters.
package profile

import (
	"strings"
	"sync"
)

// Profile describes how responses of a model family should be
// post-processed.
type Profile struct {
	// Reasoning reports whether the model emits an inline reasoning trace
	// before its answer.
	Reasoning bool
	// ThinkStart and ThinkEnd delimit the reasoning trace when Reasoning
	// is true.
	ThinkStart string
	ThinkEnd   string
}

var (
	profilesMu sync.RWMutex
	profiles   = map[string]Profile{}
)

func init() {
	Register("deepseek-reasoner", Profile{Reasoning: true, ThinkStart: "<think>", ThinkEnd: "</think>"})
	Register("deepseek-r1", Profile{Reasoning: true, ThinkStart: "<think>", ThinkEnd: "</think>"})
	Register("qwq", Profile{Reasoning: true, ThinkStart: "<think>", ThinkEnd: "</think>"})
}

// Register associates a model prefix with a profile. Lookups match the
// longest registered prefix, so families can be registered once.
func Register(modelPrefix string, p Profile) {
	profilesMu.Lock()
	defer profilesMu.Unlock()
	profiles[strings.ToLower(modelPrefix)] = p
}

// Lookup returns the profile for a model identifier. Models without a
// registered prefix get the zero profile: no inline reasoning trace.
func Lookup(model string) Profile {
	profilesMu.RLock()
	defer profilesMu.RUnlock()
	model = strings.ToLower(model)
	var (
		best    Profile
		bestLen = -1
	)
	for prefix, p := range profiles {
		if strings.HasPrefix(model, prefix) && len(prefix) > bestLen {
			best, bestLen = p, len(prefix)
		}
	}
	if bestLen < 0 {
		return Profile{}
	}
	return best
}
