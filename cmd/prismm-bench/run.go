//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/da-luggas/prismm-bench/annotation"
	"github.com/da-luggas/prismm-bench/batch"
	"github.com/da-luggas/prismm-bench/batch/provider"
	"github.com/da-luggas/prismm-bench/config"
	"github.com/da-luggas/prismm-bench/content"
	"github.com/da-luggas/prismm-bench/docstore"
	"github.com/da-luggas/prismm-bench/runner"
)

// runFlags holds everything needed to describe one evaluation run.
type runFlags struct {
	provider       string
	model          string
	annotations    string
	questionType   string
	wholePage      bool
	wholeDoc       bool
	withoutContext bool
	reasoning      string
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.provider, "provider", "openai", "batch provider (openai, gemini)")
	cmd.Flags().StringVar(&f.model, "model", "", "model identifier")
	cmd.Flags().StringVar(&f.annotations, "annotations", "annotations.json", "path to the annotation file")
	cmd.Flags().StringVar(&f.questionType, "question-type", annotation.TypeDefault, "question type to evaluate")
	cmd.Flags().BoolVar(&f.wholePage, "whole-page", false, "replace cropped parts with full page renders")
	cmd.Flags().BoolVar(&f.wholeDoc, "whole-doc", false, "prepend the whole document as tiled images")
	cmd.Flags().BoolVar(&f.withoutContext, "without-context", false, "omit all reference content")
	cmd.Flags().StringVar(&f.reasoning, "reasoning", string(batch.ReasoningHigh), "reasoning effort (off, minimal, low, medium, high)")
	cmd.MarkFlagRequired("model")
}

func (f *runFlags) spec() runner.Spec {
	return runner.Spec{
		Provider:       f.provider,
		Model:          f.model,
		QuestionType:   f.questionType,
		WholePage:      f.wholePage,
		WholeDoc:       f.wholeDoc,
		WithoutContext: f.withoutContext,
	}
}

// buildRunner wires a fully configured runner for a new run.
func buildRunner(cmd *cobra.Command, cfg *config.Config, f *runFlags) (*runner.Runner, error) {
	annotations, err := annotation.Load(f.annotations)
	if err != nil {
		return nil, err
	}
	store := docstore.NewFS(
		docstore.WithPDFDir(cfg.PDFDir),
		docstore.WithImageDir(cfg.ImageDir),
		docstore.WithSupplImageDir(cfg.SupplImageDir),
		docstore.WithPageDir(cfg.PageDir),
	)
	svc, err := provider.New(cmd.Context(), f.provider, f.model,
		provider.WithAPIKey(cfg.APIKey(f.provider)),
		provider.WithReasoning(batch.ReasoningLevel(f.reasoning)),
		provider.WithMaxChunkBytes(cfg.MaxChunkBytes()),
	)
	if err != nil {
		return nil, err
	}
	return runner.New(svc, content.NewBuilder(store), annotations,
		runner.WithResultsDir(cfg.ResultsDir),
		runner.WithRunsDir(cfg.RunsDir),
		runner.WithPollInterval(cfg.PollInterval),
		runner.WithPollTimeout(cfg.PollTimeout),
		runner.WithMaxChunkBytes(cfg.MaxChunkBytes()),
	), nil
}

func newRunCmd() *cobra.Command {
	var flags runFlags
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Submit an evaluation, wait for completion and write results",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			r, err := buildRunner(cmd, cfg, &flags)
			if err != nil {
				return err
			}
			path, err := r.Run(cmd.Context(), flags.spec())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newSubmitCmd() *cobra.Command {
	var flags runFlags
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit an evaluation and print its run id without waiting",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			r, err := buildRunner(cmd, cfg, &flags)
			if err != nil {
				return err
			}
			m, err := r.Submit(cmd.Context(), flags.spec())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), m.RunID)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}
