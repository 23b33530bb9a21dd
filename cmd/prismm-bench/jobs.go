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

	"github.com/da-luggas/prismm-bench/batch/provider"
	"github.com/da-luggas/prismm-bench/config"
	"github.com/da-luggas/prismm-bench/runner"
)

// loadRun resolves a run id into its manifest and a runner bound to the
// provider the run was submitted with.
func loadRun(cmd *cobra.Command, cfg *config.Config, runID string) (*runner.Runner, *runner.Manifest, error) {
	m, err := runner.LoadManifest(cfg.RunsDir, runID)
	if err != nil {
		return nil, nil, err
	}
	svc, err := provider.New(cmd.Context(), m.Provider, m.Model,
		provider.WithAPIKey(cfg.APIKey(m.Provider)),
		provider.WithMaxChunkBytes(cfg.MaxChunkBytes()),
	)
	if err != nil {
		return nil, nil, err
	}
	r := runner.New(svc, nil, nil,
		runner.WithResultsDir(cfg.ResultsDir),
		runner.WithRunsDir(cfg.RunsDir),
		runner.WithPollInterval(cfg.PollInterval),
		runner.WithPollTimeout(cfg.PollTimeout),
	)
	return r, m, nil
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <run-id>",
		Short: "Print the current state of every job in a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			m, err := runner.LoadManifest(cfg.RunsDir, args[0])
			if err != nil {
				return err
			}
			for i, h := range m.Handles {
				fmt.Fprintf(cmd.OutOrStdout(), "chunk %d: job=%s state=%s requests=%d\n",
					i+1, h.JobRef, h.State, h.Requests)
			}
			return nil
		},
	}
}

func newWaitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "wait <run-id>",
		Short: "Poll a run's jobs until all are terminal or the timeout elapses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			r, m, err := loadRun(cmd, cfg, args[0])
			if err != nil {
				return err
			}
			done, err := r.Wait(cmd.Context(), m)
			if err != nil {
				return err
			}
			if !done {
				return fmt.Errorf("run %s has unfinished jobs after the poll timeout", m.RunID)
			}
			return nil
		},
	}
}

func newFetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch <run-id>",
		Short: "Fetch results of a finished run and write the scored file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			r, m, err := loadRun(cmd, cfg, args[0])
			if err != nil {
				return err
			}
			path, err := r.Fetch(cmd.Context(), m)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func newCancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <run-id>",
		Short: "Cancel every non-terminal job in a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			r, m, err := loadRun(cmd, cfg, args[0])
			if err != nil {
				return err
			}
			return r.Cancel(cmd.Context(), m)
		},
	}
}
