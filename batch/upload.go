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
	"os"
)

// WriteChunkFile writes a chunk to a temporary file in the line-delimited
// upload format, one encoded request per line. The caller removes the file
// after upload via the returned cleanup function.
func WriteChunkFile(chunk []Request) (string, func(), error) {
	f, err := os.CreateTemp("", "batch-*.jsonl")
	if err != nil {
		return "", nil, fmt.Errorf("create upload file: %w", err)
	}
	for _, req := range chunk {
		if _, err := f.Write(append(req.Payload, '\n')); err != nil {
			f.Close()
			os.Remove(f.Name())
			return "", nil, fmt.Errorf("write upload file: %w", err)
		}
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", nil, fmt.Errorf("close upload file: %w", err)
	}
	name := f.Name()
	return name, func() { os.Remove(name) }, nil
}
