//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package batch

import "github.com/da-luggas/prismm-bench/log"

// Split greedily packs requests into the fewest ordered chunks whose
// estimated serialized size stays within maxBytes. Input order is preserved
// within and across chunks. A single request larger than maxBytes is never
// split; it becomes its own oversized chunk, which the provider may still
// reject.
func Split(requests []Request, maxBytes int64) [][]Request {
	var chunks [][]Request
	var current []Request
	var currentSize int64

	for _, req := range requests {
		size := int64(req.Size())
		if size > maxBytes {
			log.Warnf("request %s (~%.2f MB) exceeds the %.2f MB chunk budget; submitting as its own chunk",
				req.Key.Encode(), MB(size), MB(maxBytes))
		}
		if len(current) > 0 && currentSize+size > maxBytes {
			chunks = append(chunks, current)
			current = []Request{req}
			currentSize = size
			continue
		}
		current = append(current, req)
		currentSize += size
	}
	if len(current) > 0 {
		chunks = append(chunks, current)
	}
	return chunks
}
