//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package runner

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/da-luggas/prismm-bench/batch"
)

// Manifest records one submitted run so its jobs can be polled, fetched or
// cancelled from a later invocation.
type Manifest struct {
	RunID          string          `json:"run_id"`
	Provider       string          `json:"provider"`
	Model          string          `json:"model"`
	QuestionType   string          `json:"question_type"`
	WholePage      bool            `json:"whole_page"`
	WholeDoc       bool            `json:"whole_doc"`
	WithoutContext bool            `json:"without_context"`
	CreatedAt      time.Time       `json:"created_at"`
	Handles        []*batch.Handle `json:"handles"`
	// Keys holds every submitted correlation key so reconciliation can
	// audit fetched results against the request set.
	Keys []string `json:"keys"`
}

// ExpectedKeys decodes the manifest's correlation keys.
func (m *Manifest) ExpectedKeys() ([]batch.Key, error) {
	keys := make([]batch.Key, 0, len(m.Keys))
	for _, encoded := range m.Keys {
		key, err := batch.DecodeKey(encoded)
		if err != nil {
			return nil, fmt.Errorf("manifest %s: %w", m.RunID, err)
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// SaveManifest writes the manifest to dir/{runID}.json atomically.
func SaveManifest(dir string, m *Manifest) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create runs dir: %w", err)
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal manifest: %w", err)
	}
	path := filepath.Join(dir, m.RunID+".json")
	tmp, err := os.CreateTemp(dir, ".run-*.json")
	if err != nil {
		return "", fmt.Errorf("create temp manifest: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("close manifest: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("rename manifest: %w", err)
	}
	return path, nil
}

// LoadManifest reads a manifest by run id from dir.
func LoadManifest(dir, runID string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, runID+".json"))
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", runID, err)
	}
	return &m, nil
}
