//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package docstore

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	_ "image/png" // rendered pages and part crops are stored as PNG
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// supplSegments is the minimum number of underscore-separated id segments
// that marks a supplementary-material image id.
const supplSegments = 4

// fsStore implements Store on top of pre-rendered image directories plus the
// source PDFs.
type fsStore struct {
	opts options
}

// NewFS creates a filesystem-backed Store. Part crops are read from the image
// directories, rendered pages from the page directory, and page counts fall
// back to the source PDF when no rendered pages exist.
func NewFS(opt ...Option) Store {
	opts := defaultOptions
	for _, o := range opt {
		o(&opts)
	}
	return &fsStore{opts: opts}
}

// PartImage implements Store.
func (s *fsStore) PartImage(imageID string) (string, error) {
	dir := s.opts.imageDir
	if len(strings.Split(imageID, "_")) >= supplSegments {
		dir = s.opts.supplImageDir
	}
	return encodeFileJPEG(filepath.Join(dir, imageID+".png"))
}

// PageImage implements Store.
func (s *fsStore) PageImage(docID string, page int) (string, error) {
	return encodeFileJPEG(s.pagePath(docID, page))
}

// DocImages implements Store. Rendered pages are grouped into contiguous runs
// of ceil(pages/maxImages) and each run is tiled into one grid image, so the
// whole document never costs more than maxImages images.
func (s *fsStore) DocImages(docID string) ([]string, error) {
	pages, err := s.pageImages(docID)
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		// Distinguish "not rendered yet" from "unknown document" using the
		// source PDF.
		if n, err := s.PageCount(docID); err == nil {
			return nil, fmt.Errorf("%w: %s has %d pages but none rendered", ErrMissingReference, docID, n)
		}
		return nil, fmt.Errorf("%w: no rendered pages for %s", ErrMissingReference, docID)
	}
	perTile := (len(pages) + s.opts.maxImages - 1) / s.opts.maxImages
	var out []string
	for i := 0; i < len(pages); i += perTile {
		end := i + perTile
		if end > len(pages) {
			end = len(pages)
		}
		tiled := tile(pages[i:end], s.opts.columns)
		b64, err := encodeJPEG(tiled)
		if err != nil {
			return nil, err
		}
		out = append(out, b64)
		if len(out) >= s.opts.maxImages {
			break
		}
	}
	return out, nil
}

// PageCount implements Store. The rendered page directory is authoritative;
// when a document has not been rendered the source PDF is consulted.
func (s *fsStore) PageCount(docID string) (int, error) {
	if n := len(s.pageNumbers(docID)); n > 0 {
		return n, nil
	}
	path := filepath.Join(s.opts.pdfDir, docID+".pdf")
	f, reader, err := pdf.Open(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrMissingReference, path, err)
	}
	defer f.Close()
	return reader.NumPage(), nil
}

func (s *fsStore) pagePath(docID string, page int) string {
	return filepath.Join(s.opts.pageDir, docID, fmt.Sprintf("page_%d.png", page))
}

// pageNumbers lists the rendered page numbers of a document in ascending
// order.
func (s *fsStore) pageNumbers(docID string) []int {
	entries, err := os.ReadDir(filepath.Join(s.opts.pageDir, docID))
	if err != nil {
		return nil
	}
	var pages []int
	for _, e := range entries {
		var n int
		if _, err := fmt.Sscanf(e.Name(), "page_%d.png", &n); err == nil {
			pages = append(pages, n)
		}
	}
	sort.Ints(pages)
	return pages
}

func (s *fsStore) pageImages(docID string) ([]image.Image, error) {
	var imgs []image.Image
	for _, n := range s.pageNumbers(docID) {
		img, err := decodeFile(s.pagePath(docID, n))
		if err != nil {
			return nil, err
		}
		imgs = append(imgs, img)
	}
	return imgs, nil
}

// tile lays images out on a white grid, columns per row. All pages of one
// document render at the same size, so the first image fixes the cell
// dimensions.
func tile(imgs []image.Image, columns int) image.Image {
	if columns < 1 {
		columns = 1
	}
	cellW := imgs[0].Bounds().Dx()
	cellH := imgs[0].Bounds().Dy()
	rows := (len(imgs) + columns - 1) / columns
	width := cellW * columns
	if len(imgs) < columns {
		width = cellW * len(imgs)
	}
	canvas := image.NewRGBA(image.Rect(0, 0, width, cellH*rows))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)
	for i, img := range imgs {
		x := (i % columns) * cellW
		y := (i / columns) * cellH
		r := image.Rect(x, y, x+cellW, y+cellH)
		draw.Draw(canvas, r, img, img.Bounds().Min, draw.Src)
	}
	return canvas
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingReference, path)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMissingReference, path, err)
	}
	return img, nil
}

func encodeFileJPEG(path string) (string, error) {
	img, err := decodeFile(path)
	if err != nil {
		return "", err
	}
	return encodeJPEG(img)
}

func encodeJPEG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		return "", fmt.Errorf("encode jpeg: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
