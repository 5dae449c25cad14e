// Package image provides the RGBA pixel buffer and composite operators used
// by the software raster backend.
//
// Buffers store straight (non-premultiplied) 8-bit RGBA, row-major, with no
// padding between rows. Composite operators follow the canvas 2D naming
// (source-over, destination-in, multiply, ...) so that layer blend modes can
// be passed through unchanged.
package image

import (
	"errors"
	"image"
	"image/color"
)

// Common errors for image operations.
var (
	// ErrInvalidDimensions is returned when width or height is non-positive.
	ErrInvalidDimensions = errors.New("image: invalid dimensions")

	// ErrOutOfBounds is returned when pixel coordinates are outside image bounds.
	ErrOutOfBounds = errors.New("image: coordinates out of bounds")

	// ErrSizeMismatch is returned when two buffers must share dimensions but do not.
	ErrSizeMismatch = errors.New("image: buffer sizes differ")
)

// bytesPerPixel is fixed: every buffer is RGBA8.
const bytesPerPixel = 4

// ImageBuf is a straight-alpha RGBA8 pixel buffer.
//
// Thread safety: ImageBuf is not safe for concurrent writes. Reads may run
// concurrently as long as no goroutine writes.
type ImageBuf struct {
	data   []byte
	width  int
	height int
}

// NewImageBuf creates a transparent buffer with the given dimensions.
func NewImageBuf(width, height int) (*ImageBuf, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	return &ImageBuf{
		data:   make([]byte, width*height*bytesPerPixel),
		width:  width,
		height: height,
	}, nil
}

// Clone creates a deep copy of the buffer.
func (b *ImageBuf) Clone() *ImageBuf {
	data := make([]byte, len(b.data))
	copy(data, b.data)
	return &ImageBuf{data: data, width: b.width, height: b.height}
}

// CopyFrom overwrites b with the pixels of src. Both buffers must have the
// same dimensions.
func (b *ImageBuf) CopyFrom(src *ImageBuf) error {
	if src.width != b.width || src.height != b.height {
		return ErrSizeMismatch
	}
	copy(b.data, src.data)
	return nil
}

// Width returns the image width in pixels.
func (b *ImageBuf) Width() int {
	return b.width
}

// Height returns the image height in pixels.
func (b *ImageBuf) Height() int {
	return b.height
}

// Bounds returns the image dimensions as (width, height).
func (b *ImageBuf) Bounds() (int, int) {
	return b.width, b.height
}

// Data returns the raw pixel data slice. Modifying it modifies the image.
func (b *ImageBuf) Data() []byte {
	return b.data
}

// PixelOffset returns the byte offset of pixel (x, y) in the data slice.
// Returns -1 if coordinates are out of bounds.
func (b *ImageBuf) PixelOffset(x, y int) int {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return -1
	}
	return (y*b.width + x) * bytesPerPixel
}

// GetRGBA returns the color at (x, y) as (r, g, b, a) in 0-255 range.
// Returns (0,0,0,0) if coordinates are out of bounds.
func (b *ImageBuf) GetRGBA(x, y int) (r, g, bl, a uint8) {
	off := b.PixelOffset(x, y)
	if off < 0 {
		return 0, 0, 0, 0
	}
	p := b.data[off : off+bytesPerPixel : off+bytesPerPixel]
	return p[0], p[1], p[2], p[3]
}

// SetRGBA sets the color at (x, y).
// Returns ErrOutOfBounds if coordinates are outside image bounds.
func (b *ImageBuf) SetRGBA(x, y int, r, g, bl, a uint8) error {
	off := b.PixelOffset(x, y)
	if off < 0 {
		return ErrOutOfBounds
	}
	b.data[off] = r
	b.data[off+1] = g
	b.data[off+2] = bl
	b.data[off+3] = a
	return nil
}

// Clear sets all pixels to transparent black.
func (b *ImageBuf) Clear() {
	clear(b.data)
}

// Fill sets all pixels to the given color.
func (b *ImageBuf) Fill(r, g, bl, a uint8) {
	b.FillRect(0, 0, b.width, b.height, r, g, bl, a)
}

// FillRect sets the pixels of the rectangle [x, x+w) x [y, y+h) to the
// given color. The rectangle is clipped to the buffer.
func (b *ImageBuf) FillRect(x, y, w, h int, r, g, bl, a uint8) {
	x0, y0 := max(x, 0), max(y, 0)
	x1, y1 := min(x+w, b.width), min(y+h, b.height)
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			off := (py*b.width + px) * bytesPerPixel
			b.data[off] = r
			b.data[off+1] = g
			b.data[off+2] = bl
			b.data[off+3] = a
		}
	}
}

// ToStdImage returns a copy of the buffer as *image.NRGBA.
func (b *ImageBuf) ToStdImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.width, b.height))
	copy(img.Pix, b.data)
	return img
}

// FromStdImage creates a buffer from any image.Image.
// Returns ErrInvalidDimensions for empty images.
func FromStdImage(img image.Image) (*ImageBuf, error) {
	bounds := img.Bounds()
	buf, err := NewImageBuf(bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, err
	}

	if nrgba, ok := img.(*image.NRGBA); ok {
		rowLen := buf.width * bytesPerPixel
		for y := range buf.height {
			src := nrgba.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			copy(buf.data[y*rowLen:(y+1)*rowLen], nrgba.Pix[src:src+rowLen])
		}
		return buf, nil
	}

	for y := range buf.height {
		for x := range buf.width {
			c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			_ = buf.SetRGBA(x, y, c.R, c.G, c.B, c.A)
		}
	}
	return buf, nil
}
