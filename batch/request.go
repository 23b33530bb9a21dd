//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package batch packs encoded evaluation requests into size-bounded chunks
// and drives each chunk through the asynchronous batch job lifecycle of a
// remote provider.
package batch

import "encoding/json"

const bytesPerMB = 1024 * 1024

// Request is one provider wire-format request object tagged with its
// correlation key. Payload is the exact line written to the upload file.
type Request struct {
	Key     Key
	Payload json.RawMessage
}

// Size returns the estimated serialized size of the request in bytes. The
// estimate is the JSON line length, not the provider's final wire size, which
// is why batch budgets stay conservatively below the provider caps.
func (r Request) Size() int {
	return len(r.Payload)
}

// TotalSize returns the summed estimated size of the requests in bytes.
func TotalSize(requests []Request) int64 {
	var total int64
	for _, r := range requests {
		total += int64(r.Size())
	}
	return total
}

// MB converts a byte count to megabytes for logging and budget comparison.
func MB(bytes int64) float64 {
	return float64(bytes) / bytesPerMB
}
