//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package runner coordinates a full evaluation run: it renders every
// annotation into requests, packs them into size-bounded chunks, drives the
// batch jobs to completion and reconciles the fetched outputs into a scored
// results file.
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/da-luggas/prismm-bench/annotation"
	"github.com/da-luggas/prismm-bench/batch"
	"github.com/da-luggas/prismm-bench/content"
	"github.com/da-luggas/prismm-bench/log"
	"github.com/da-luggas/prismm-bench/profile"
	"github.com/da-luggas/prismm-bench/result"
)

// Spec describes one evaluation run.
type Spec struct {
	Provider       string
	Model          string
	QuestionType   string
	WholePage      bool
	WholeDoc       bool
	WithoutContext bool
}

// normalized returns the spec with unsupported mode combinations forced
// off. part_pair supplies its own reference content, so page and document
// context are dropped with a warning instead of failing the run.
func (s Spec) normalized() Spec {
	if s.QuestionType == annotation.TypePartPair {
		if s.WholePage {
			log.Warn("whole page forced off: not supported for part_pair")
			s.WholePage = false
		}
		if s.WholeDoc {
			log.Warn("whole doc forced off: not supported for part_pair")
			s.WholeDoc = false
		}
	}
	return s
}

// Runner drives evaluation runs against one provider service.
type Runner struct {
	svc         batch.Service
	builder     *content.Builder
	annotations annotation.Set

	resultsDir    string
	runsDir       string
	pollInterval  time.Duration
	pollTimeout   time.Duration
	maxChunkBytes int64
}

// New creates a runner. The service determines the provider and model; the
// builder resolves annotation parts into content blocks.
func New(svc batch.Service, builder *content.Builder, annotations annotation.Set, opt ...Option) *Runner {
	o := defaultOptions
	for _, op := range opt {
		op(&o)
	}
	maxChunk := o.maxChunkBytes
	if maxChunk <= 0 {
		maxChunk = svc.MaxChunkBytes()
	}
	return &Runner{
		svc:           svc,
		builder:       builder,
		annotations:   annotations,
		resultsDir:    o.resultsDir,
		runsDir:       o.runsDir,
		pollInterval:  o.pollInterval,
		pollTimeout:   o.pollTimeout,
		maxChunkBytes: maxChunk,
	}
}

// Prepare renders every relevant annotation into an encoded request. Entries
// the builder reports as empty are skipped; a hard build error aborts the
// run since it indicates an unsupported mode, not missing content.
func (r *Runner) Prepare(spec Spec) ([]batch.Request, error) {
	spec = spec.normalized()
	mode := content.Mode{
		WholePage:      spec.WholePage,
		WholeDoc:       spec.WholeDoc,
		WithoutContext: spec.WithoutContext,
	}

	var requests []batch.Request
	for _, keyed := range r.annotations.Iterate(spec.QuestionType) {
		items, correctLetter, err := r.builder.Build(keyed.Entry, keyed.ID, spec.QuestionType, mode)
		if err != nil {
			return nil, fmt.Errorf("build %s[%d]: %w", keyed.ID, keyed.Idx, err)
		}
		if len(items) == 0 {
			continue
		}
		key := batch.Key{
			ID:             keyed.ID,
			Idx:            keyed.Idx,
			QuestionType:   spec.QuestionType,
			CorrectLetter:  correctLetter,
			WholePage:      spec.WholePage,
			WholeDoc:       spec.WholeDoc,
			WithoutContext: spec.WithoutContext,
		}
		req, err := r.svc.Encode(key, items)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, nil
}

// Submit prepares, chunks and submits a run, persisting its manifest so
// jobs can be tracked across invocations. A chunk whose submission fails
// does not abort the remaining chunks; the error count is reported once
// every chunk has been attempted.
func (r *Runner) Submit(ctx context.Context, spec Spec) (*Manifest, error) {
	spec = spec.normalized()
	requests, err := r.Prepare(spec)
	if err != nil {
		return nil, err
	}
	if len(requests) == 0 {
		return nil, fmt.Errorf("no requests produced for question type %s", spec.QuestionType)
	}

	chunks := batch.Split(requests, r.maxChunkBytes)
	log.Infof("submitting %d requests in %d chunk(s)", len(requests), len(chunks))

	m := &Manifest{
		RunID:          uuid.NewString(),
		Provider:       r.svc.Provider(),
		Model:          spec.Model,
		QuestionType:   spec.QuestionType,
		WholePage:      spec.WholePage,
		WholeDoc:       spec.WholeDoc,
		WithoutContext: spec.WithoutContext,
		CreatedAt:      time.Now().UTC(),
	}
	for _, req := range requests {
		m.Keys = append(m.Keys, req.Key.Encode())
	}

	var failed int
	for i, chunk := range chunks {
		handle, err := r.svc.Submit(ctx, chunk)
		if err != nil {
			log.Errorf("submit chunk %d/%d: %v", i+1, len(chunks), err)
			failed++
			m.Handles = append(m.Handles, &batch.Handle{
				State:    batch.StateFailed,
				Requests: len(chunk),
			})
			continue
		}
		m.Handles = append(m.Handles, handle)
	}

	path, err := SaveManifest(r.runsDir, m)
	if err != nil {
		return nil, err
	}
	log.Infof("run %s recorded at %s", m.RunID, path)
	if failed == len(chunks) {
		return m, fmt.Errorf("all %d chunk submissions failed", failed)
	}
	if failed > 0 {
		log.Warnf("%d of %d chunk submissions failed", failed, len(chunks))
	}
	return m, nil
}

// Wait polls the run's jobs until all are terminal or the poll timeout
// elapses, then persists the updated handle states. It reports whether
// every job finished.
func (r *Runner) Wait(ctx context.Context, m *Manifest) (bool, error) {
	_, done := batch.WaitUntilTerminal(ctx, r.svc, m.Handles, r.pollTimeout, r.pollInterval)
	if _, err := SaveManifest(r.runsDir, m); err != nil {
		return done, err
	}
	return done, nil
}

// Fetch downloads and decodes the outputs of every succeeded job,
// reconciles them against the run's expected keys and writes the scored
// results file. Fetch failures on individual jobs are logged and reduce
// the reconciled set rather than aborting the run; a results-file write
// failure is fatal.
func (r *Runner) Fetch(ctx context.Context, m *Manifest) (string, error) {
	var raws []*batch.Raw
	for _, h := range m.Handles {
		if h.State != batch.StateSucceeded {
			log.Warnf("job %s is %s; skipping fetch", h.JobRef, h.State)
			continue
		}
		lines, err := r.svc.Fetch(ctx, h)
		if err != nil {
			log.Errorf("fetch job %s: %v", h.JobRef, err)
			continue
		}
		for _, line := range lines {
			raw, err := r.svc.DecodeLine(line)
			if err != nil {
				log.Warnf("job %s: %v", h.JobRef, err)
				continue
			}
			raws = append(raws, raw)
		}
	}

	expected, err := m.ExpectedKeys()
	if err != nil {
		return "", err
	}
	scored := result.Reconcile(raws, expected, profile.Lookup(m.Model))

	writer := result.NewWriter(r.resultsDir)
	path, err := writer.Write(scored, m.Model, m.QuestionType, m.WholePage, m.WholeDoc, m.WithoutContext)
	if err != nil {
		return "", err
	}
	log.Infof("wrote %d results to %s", len(scored), path)
	return path, nil
}

// Cancel requests cancellation of every non-terminal job in the run.
// Failures are logged per handle; the sweep always covers every handle.
func (r *Runner) Cancel(ctx context.Context, m *Manifest) error {
	for _, h := range m.Handles {
		if h.State.Terminal() {
			continue
		}
		if err := r.svc.Cancel(ctx, h); err != nil {
			log.Errorf("cancel job %s: %v", h.JobRef, err)
		}
	}
	_, err := SaveManifest(r.runsDir, m)
	return err
}

// Delete removes the remote artifacts of every job in the run. Failures
// are logged per handle.
func (r *Runner) Delete(ctx context.Context, m *Manifest) {
	for _, h := range m.Handles {
		if err := r.svc.Delete(ctx, h); err != nil {
			log.Errorf("delete job %s: %v", h.JobRef, err)
		}
	}
}

// Run executes a complete evaluation: submit, wait until terminal, fetch
// and write results. Jobs still unfinished at the poll deadline are
// treated as errors.
func (r *Runner) Run(ctx context.Context, spec Spec) (string, error) {
	m, err := r.Submit(ctx, spec)
	if err != nil {
		return "", err
	}
	done, err := r.Wait(ctx, m)
	if err != nil {
		return "", err
	}
	if !done {
		return "", errors.New("poll deadline elapsed before all jobs finished; " +
			"use the wait and fetch commands with run id " + m.RunID)
	}
	return r.Fetch(ctx, m)
}
