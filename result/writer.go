//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package result

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MergedFilename is the file name used for merged binary results, written
// next to the two source files.
const MergedFilename = "merged_results.json"

// Filename derives the results file name from the run parameters. Slashes
// and underscores in the model identifier become hyphens so the name stays
// a single path element.
func Filename(model, questionType string, wholePage, wholeDoc, withoutContext bool) string {
	model = strings.NewReplacer("/", "-", "_", "-").Replace(model)
	name := model + "_" + strings.ReplaceAll(questionType, "_", "-")
	if wholePage {
		name += "-fullpage"
	}
	if wholeDoc {
		name += "-wholedoc"
	}
	if withoutContext {
		name += "-without-context"
	}
	return name + ".json"
}

// Writer persists scored result files under a base directory.
type Writer struct {
	dir string
}

// NewWriter creates a writer rooted at dir.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// Write persists the scored records for one run and returns the file path.
func (w *Writer) Write(scored []Scored, model, questionType string, wholePage, wholeDoc, withoutContext bool) (string, error) {
	path := filepath.Join(w.dir, Filename(model, questionType, wholePage, wholeDoc, withoutContext))
	if err := WriteFile(path, scored); err != nil {
		return "", err
	}
	return path, nil
}

// WriteFile atomically writes scored records as an indented JSON array.
// The data lands in a temp file in the target directory first and is
// renamed into place, so readers never observe a partial file.
func WriteFile(path string, scored []Scored) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create results dir: %w", err)
	}
	data, err := json.MarshalIndent(scored, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".results-*.json")
	if err != nil {
		return fmt.Errorf("create temp results file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write results: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close results file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename results file: %w", err)
	}
	return nil
}

// LoadFile reads a scored result file written by WriteFile.
func LoadFile(path string) ([]Scored, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read results file: %w", err)
	}
	var scored []Scored
	if err := json.Unmarshal(data, &scored); err != nil {
		return nil, fmt.Errorf("parse results file %s: %w", path, err)
	}
	return scored, nil
}
