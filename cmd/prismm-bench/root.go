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
	"github.com/spf13/cobra"

	"github.com/da-luggas/prismm-bench/config"
	"github.com/da-luggas/prismm-bench/log"
)

var (
	flagConfig   string
	flagLogLevel string
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "prismm-bench",
		Short:         "Batch evaluation of multimodal models on the inconsistency benchmark",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.SetLevel(flagLogLevel)
		},
	}
	root.PersistentFlags().StringVar(&flagConfig, "config", "", "path to YAML config file")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", log.LevelInfo, "log level (debug, info, warn, error)")

	root.AddCommand(
		newRunCmd(),
		newSubmitCmd(),
		newStatusCmd(),
		newWaitCmd(),
		newFetchCmd(),
		newCancelCmd(),
		newMergeCmd(),
	)
	return root
}

func loadConfig() (*config.Config, error) {
	return config.Load(flagConfig)
}
