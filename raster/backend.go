// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package raster

import (
	"fmt"
	"image"
	"strconv"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/layers"
	intImage "github.com/gogpu/layers/internal/image"
)

// ErrUnsupportedFormat is returned by Encode for unknown output formats.
var ErrUnsupportedFormat = intImage.ErrUnsupportedFormat

// Backend is the pure Go implementation of layers.Backend.
//
// Encode accepts up to two arguments: an output format given as a media
// type or short name ("image/png", "jpeg", "bmp", "tiff"; PNG when absent)
// and, for JPEG, a quality from 1 to 100.
type Backend struct {
	// Interpolator resamples images whenever a draw scales. Nil selects
	// nearest neighbour.
	Interpolator xdraw.Interpolator
}

var _ layers.Backend[*Canvas] = Backend{}

// NewSurface returns a transparent canvas.
func (b Backend) NewSurface(width, height int) *Canvas {
	return NewCanvas(width, height, WithInterpolator(b.Interpolator))
}

// Image returns a snapshot of the canvas.
func (Backend) Image(c *Canvas) image.Image {
	return c.Snapshot()
}

// Encode serializes the canvas.
func (Backend) Encode(c *Canvas, args ...string) ([]byte, error) {
	var formatArg string
	if len(args) > 0 {
		formatArg = args[0]
	}
	format, err := intImage.ParseFormat(formatArg)
	if err != nil {
		return nil, fmt.Errorf("raster: %w", err)
	}

	quality := 0
	if len(args) > 1 {
		if q, err := strconv.Atoi(args[1]); err == nil {
			quality = q
		}
	}

	data, err := c.buf.EncodeToBytes(format, quality)
	if err != nil {
		return nil, fmt.Errorf("raster: %w", err)
	}
	return data, nil
}

// NewStore creates a layer store backed by the default raster Backend.
func NewStore(opts ...layers.Option) (*layers.Store[*Canvas], error) {
	return layers.New[*Canvas](Backend{}, opts...)
}
