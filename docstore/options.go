//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package docstore

const (
	// defaultMaxImages bounds how many tiled images a whole document becomes.
	defaultMaxImages = 5
	// defaultColumns is the page grid width within one tiled image.
	defaultColumns = 3
)

// options contains configuration options for the filesystem store.
type options struct {
	pdfDir        string
	imageDir      string
	supplImageDir string
	pageDir       string
	maxImages     int
	columns       int
}

var defaultOptions = options{
	pdfDir:        "pdf",
	imageDir:      "images",
	supplImageDir: "suppl_images",
	pageDir:       "pages",
	maxImages:     defaultMaxImages,
	columns:       defaultColumns,
}

// Option configures the filesystem store.
type Option func(*options)

// WithPDFDir sets the source PDF directory.
func WithPDFDir(dir string) Option {
	return func(o *options) {
		o.pdfDir = dir
	}
}

// WithImageDir sets the part crop image directory.
func WithImageDir(dir string) Option {
	return func(o *options) {
		o.imageDir = dir
	}
}

// WithSupplImageDir sets the supplementary-material image directory.
func WithSupplImageDir(dir string) Option {
	return func(o *options) {
		o.supplImageDir = dir
	}
}

// WithPageDir sets the rendered page directory.
func WithPageDir(dir string) Option {
	return func(o *options) {
		o.pageDir = dir
	}
}

// WithMaxImages sets the maximum number of tiled whole-document images.
func WithMaxImages(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxImages = n
		}
	}
}

// WithColumns sets the page grid width within one tiled image.
func WithColumns(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.columns = n
		}
	}
}
