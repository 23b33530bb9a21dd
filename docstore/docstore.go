//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package docstore resolves the reference content attached to annotations:
// pre-cropped part images, rendered document pages and tiled whole-document
// views, all delivered as base64 JPEG suitable for provider payloads.
package docstore

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"sync"
)

// ErrMissingReference indicates a part references an image or page that
// cannot be resolved from the configured directories.
var ErrMissingReference = errors.New("missing reference content")

// Store resolves annotation reference content.
type Store interface {
	// PartImage returns the pre-cropped part image with the given stable id.
	PartImage(imageID string) (string, error)
	// PageImage returns the rendered page of a document (1-based page number).
	PageImage(docID string, page int) (string, error)
	// DocImages returns the whole document as a bounded number of grid-tiled
	// page images.
	DocImages(docID string) ([]string, error)
	// PageCount returns the number of pages of a document.
	PageCount(docID string) (int, error)
}

var (
	placeholderOnce sync.Once
	placeholderB64  string
)

// Placeholder returns a 1x1 white JPEG used in place of content that could
// not be resolved, so a single broken reference does not abort a run.
func Placeholder() string {
	placeholderOnce.Do(func() {
		img := image.NewRGBA(image.Rect(0, 0, 1, 1))
		img.Set(0, 0, color.White)
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, nil); err != nil {
			// A 1x1 RGBA encode cannot fail with the stdlib encoder.
			panic(fmt.Sprintf("encode placeholder: %v", err))
		}
		placeholderB64 = base64.StdEncoding.EncodeToString(buf.Bytes())
	})
	return placeholderB64
}
