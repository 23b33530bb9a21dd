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
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/da-luggas/prismm-bench/result"
)

func newMergeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "merge <binary-results-1> <binary-results-2>",
		Short: "Merge two binary evaluation result files into one four-option equivalent",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if filepath.Dir(args[0]) != filepath.Dir(args[1]) {
				return fmt.Errorf("binary result files must be in the same directory")
			}
			first, err := result.LoadFile(args[0])
			if err != nil {
				return err
			}
			second, err := result.LoadFile(args[1])
			if err != nil {
				return err
			}
			merged, err := result.MergeBinary(first, second)
			if err != nil {
				return err
			}
			path := filepath.Join(filepath.Dir(args[0]), result.MergedFilename)
			if err := result.WriteFile(path, merged); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}
