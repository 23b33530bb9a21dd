//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package content renders annotations into provider-agnostic sequences of
// text and image blocks. It is the only boundary between annotation data and
// the provider request encoders.
package content

import "errors"

// Item kinds.
const (
	KindText  = "text"
	KindImage = "image"
)

// ErrUnsupportedMode indicates an incompatible combination of context mode
// and question type.
var ErrUnsupportedMode = errors.New("unsupported context mode")

// Item is one generic content block. Exactly one of Text or Base64 is set,
// selected by Kind.
type Item struct {
	Kind   string `json:"kind"`
	Text   string `json:"text,omitempty"`
	Base64 string `json:"base64,omitempty"`
}

// TextItem creates a text block.
func TextItem(text string) Item {
	return Item{Kind: KindText, Text: text}
}

// ImageItem creates an image block from base64 JPEG data.
func ImageItem(b64 string) Item {
	return Item{Kind: KindImage, Base64: b64}
}

// Mode selects what surrounding material accompanies a question. The zero
// value is the default mode: individual part crops plus the question.
type Mode struct {
	// WholePage replaces each part with the rendered page containing it.
	WholePage bool
	// WholeDoc replaces all parts with tiled images of the entire document.
	WholeDoc bool
	// WithoutContext drops all part-derived blocks.
	WithoutContext bool
}
