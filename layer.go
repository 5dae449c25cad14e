// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layers

import "image"

// Surface is a drawable supplied by a rendering backend.
//
// The store never touches pixels itself: it only asks a surface for its size,
// sets its current blend mode, and asks it to draw an image into itself. The
// blend mode is interpreted by the backend; the store passes layer blend
// mode strings through unchanged.
//
// Surfaces are NOT thread-safe from the store's point of view. Each store
// and its surfaces should be used from a single goroutine.
type Surface interface {
	// Width returns the surface width in pixels.
	Width() int

	// Height returns the surface height in pixels.
	Height() int

	// SetBlendMode sets the composite operation used by subsequent DrawImage
	// calls, e.g. "source-over" or "multiply".
	SetBlendMode(mode string)

	// DrawImage draws the sr region of img scaled into the dr region of the
	// surface, using the current blend mode.
	DrawImage(img image.Image, sr, dr image.Rectangle)
}

// Backend provides the capabilities the store delegates to a renderer:
// surface allocation, surface to image conversion, and serialization.
type Backend[S Surface] interface {
	// NewSurface allocates a blank surface of the given size.
	NewSurface(width, height int) S

	// Image returns a drawable image of the surface contents.
	Image(s S) image.Image

	// Encode serializes the surface. args carry backend specific format
	// options such as a mime type.
	Encode(s S, args ...string) ([]byte, error)
}

// BackendFuncs adapts plain functions to the Backend interface.
// NewSurface and Image are required; a nil Encode makes export operations
// fail with ErrNoEncoder.
type BackendFuncs[S Surface] struct {
	NewSurfaceFunc func(width, height int) S
	ImageFunc      func(s S) image.Image
	EncodeFunc     func(s S, args ...string) ([]byte, error)
}

// NewSurface calls f.NewSurfaceFunc.
func (f BackendFuncs[S]) NewSurface(width, height int) S {
	return f.NewSurfaceFunc(width, height)
}

// Image calls f.ImageFunc.
func (f BackendFuncs[S]) Image(s S) image.Image {
	return f.ImageFunc(s)
}

// Encode calls f.EncodeFunc, or returns ErrNoEncoder when it is nil.
func (f BackendFuncs[S]) Encode(s S, args ...string) ([]byte, error) {
	if f.EncodeFunc == nil {
		return nil, ErrNoEncoder
	}
	return f.EncodeFunc(s, args...)
}

// validate reports missing required functions.
func (f BackendFuncs[S]) validate() error {
	if f.NewSurfaceFunc == nil {
		return ErrNoSurfaceFunc
	}
	if f.ImageFunc == nil {
		return ErrNoImageFunc
	}
	return nil
}

// Layer is a named surface in a Store plus its compositing metadata.
//
// The name is owned by the store: it is unique within the store and changes
// only through Store operations. BlendMode and Hidden may be set freely by
// the caller and are read at merge and export time.
type Layer[S Surface] struct {
	// Surface is the layer's drawable.
	Surface S

	// BlendMode is the composite operation used when this layer is drawn
	// onto the layers below it.
	BlendMode string

	// Hidden layers are skipped when merging and exporting.
	Hidden bool

	name string
}

// NewLayer wraps a surface with default metadata. The name is assigned when
// the layer is added to a store.
func NewLayer[S Surface](s S) *Layer[S] {
	return &Layer[S]{Surface: s, BlendMode: DefaultBlendMode}
}

// Name returns the layer's name within its store.
func (l *Layer[S]) Name() string {
	return l.name
}

// Width returns the width of the underlying surface.
func (l *Layer[S]) Width() int {
	return l.Surface.Width()
}

// Height returns the height of the underlying surface.
func (l *Layer[S]) Height() int {
	return l.Surface.Height()
}

// bounds returns the full surface rectangle.
func (l *Layer[S]) bounds() image.Rectangle {
	return image.Rect(0, 0, l.Width(), l.Height())
}
