// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package raster is a pure Go backend for the layers package.
//
// Surfaces are straight-alpha RGBA canvases. Blend modes follow the canvas
// 2D globalCompositeOperation names (Porter-Duff operators plus multiply,
// screen, overlay, darken and lighten); scaling uses golang.org/x/image/draw.
package raster

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/layers"
	intImage "github.com/gogpu/layers/internal/image"
)

// Canvas is a CPU surface holding straight-alpha RGBA pixels.
//
// Canvas implements layers.Surface. Like a canvas 2D context it carries a
// current blend mode that applies to every subsequent draw.
//
// Example:
//
//	c := raster.NewCanvas(800, 600)
//	c.Fill(color.White)
//	c.SetBlendMode("multiply")
//	c.DrawImage(img, img.Bounds(), c.Bounds())
type Canvas struct {
	buf    *intImage.ImageBuf
	mode   string
	op     intImage.CompositeOp
	interp xdraw.Interpolator
}

var _ layers.Surface = (*Canvas)(nil)

// CanvasOption configures a Canvas.
type CanvasOption func(*Canvas)

// WithInterpolator sets the resampler used when DrawImage scales.
// The default is nearest neighbour, which keeps hard edges exact.
func WithInterpolator(i xdraw.Interpolator) CanvasOption {
	return func(c *Canvas) {
		if i != nil {
			c.interp = i
		}
	}
}

// NewCanvas creates a transparent canvas. Non-positive dimensions are
// clamped to 1.
func NewCanvas(width, height int, opts ...CanvasOption) *Canvas {
	buf, _ := intImage.NewImageBuf(max(width, 1), max(height, 1))
	c := &Canvas{
		buf:    buf,
		mode:   layers.DefaultBlendMode,
		op:     intImage.OpSourceOver,
		interp: xdraw.NearestNeighbor,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Width returns the canvas width.
func (c *Canvas) Width() int {
	return c.buf.Width()
}

// Height returns the canvas height.
func (c *Canvas) Height() int {
	return c.buf.Height()
}

// Bounds returns the canvas rectangle, anchored at the origin.
func (c *Canvas) Bounds() image.Rectangle {
	return image.Rect(0, 0, c.buf.Width(), c.buf.Height())
}

// SetBlendMode sets the composite operation for subsequent draws. Names
// are matched ignoring case; unknown names draw as source-over.
func (c *Canvas) SetBlendMode(mode string) {
	c.mode = mode
	c.op = lookupBlendMode(mode)
}

// BlendMode returns the mode last passed to SetBlendMode.
func (c *Canvas) BlendMode() string {
	return c.mode
}

// DrawImage scales the sr region of img into dr and composites it with the
// current blend mode. Regions outside the canvas are clipped.
func (c *Canvas) DrawImage(img image.Image, sr, dr image.Rectangle) {
	sr = sr.Canon()
	dr = dr.Canon()
	if img == nil || sr.Empty() || dr.Empty() {
		return
	}

	scaled := image.NewNRGBA(image.Rect(0, 0, dr.Dx(), dr.Dy()))
	c.interp.Scale(scaled, scaled.Bounds(), img, sr, xdraw.Src, nil)

	src, err := intImage.FromStdImage(scaled)
	if err != nil {
		return
	}
	intImage.Composite(c.buf, src, dr.Min.X, dr.Min.Y, c.op)
}

// Fill replaces every pixel with col, ignoring the blend mode.
func (c *Canvas) Fill(col color.Color) {
	n := color.NRGBAModel.Convert(col).(color.NRGBA)
	c.buf.Fill(n.R, n.G, n.B, n.A)
}

// FillRect paints r with col using the current blend mode.
func (c *Canvas) FillRect(r image.Rectangle, col color.Color) {
	r = r.Canon().Intersect(c.Bounds())
	if r.Empty() {
		return
	}
	n := color.NRGBAModel.Convert(col).(color.NRGBA)
	src := intImage.GetFromDefault(r.Dx(), r.Dy())
	if src == nil {
		return
	}
	defer intImage.PutToDefault(src)
	src.Fill(n.R, n.G, n.B, n.A)
	intImage.Composite(c.buf, src, r.Min.X, r.Min.Y, c.op)
}

// Clear makes every pixel transparent.
func (c *Canvas) Clear() {
	c.buf.Clear()
}

// At returns the pixel at (x, y). Points outside the canvas are transparent.
func (c *Canvas) At(x, y int) color.NRGBA {
	r, g, b, a := c.buf.GetRGBA(x, y)
	return color.NRGBA{R: r, G: g, B: b, A: a}
}

// Set writes one pixel, ignoring the blend mode.
func (c *Canvas) Set(x, y int, col color.Color) {
	n := color.NRGBAModel.Convert(col).(color.NRGBA)
	_ = c.buf.SetRGBA(x, y, n.R, n.G, n.B, n.A)
}

// Snapshot returns a copy of the canvas contents.
func (c *Canvas) Snapshot() *image.NRGBA {
	return c.buf.ToStdImage()
}

// Pixels returns the raw straight-alpha RGBA bytes, row-major. The slice is
// the canvas's own storage.
func (c *Canvas) Pixels() []byte {
	return c.buf.Data()
}
