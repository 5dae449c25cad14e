package image

import (
	"bytes"
	"errors"
	"fmt"
	"image/jpeg"
	"image/png"
	"io"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// ErrUnsupportedFormat is returned when the output format is not supported.
var ErrUnsupportedFormat = errors.New("image: unsupported format")

// EncodeFormat identifies an output encoding.
type EncodeFormat uint8

const (
	// FormatPNG is lossless PNG (the default).
	FormatPNG EncodeFormat = iota

	// FormatJPEG is lossy JPEG; alpha is discarded.
	FormatJPEG

	// FormatBMP is uncompressed BMP.
	FormatBMP

	// FormatTIFF is deflate-compressed TIFF.
	FormatTIFF
)

// DefaultJPEGQuality is used when no quality is given.
const DefaultJPEGQuality = 92

// MIMEType returns the media type for the format.
func (f EncodeFormat) MIMEType() string {
	switch f {
	case FormatJPEG:
		return "image/jpeg"
	case FormatBMP:
		return "image/bmp"
	case FormatTIFF:
		return "image/tiff"
	default:
		return "image/png"
	}
}

// ParseFormat maps a media type ("image/png") or short name ("png", "jpg")
// to an EncodeFormat. The empty string selects PNG.
func ParseFormat(s string) (EncodeFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "png", "image/png":
		return FormatPNG, nil
	case "jpg", "jpeg", "image/jpeg", "image/jpg":
		return FormatJPEG, nil
	case "bmp", "image/bmp":
		return FormatBMP, nil
	case "tif", "tiff", "image/tiff":
		return FormatTIFF, nil
	default:
		return FormatPNG, fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// Encode writes b to w in the given format. quality applies to JPEG only
// and is clamped to [1, 100]; zero selects DefaultJPEGQuality.
func (b *ImageBuf) Encode(w io.Writer, format EncodeFormat, quality int) error {
	img := b.ToStdImage()

	var err error
	switch format {
	case FormatPNG:
		err = png.Encode(w, img)
	case FormatJPEG:
		if quality == 0 {
			quality = DefaultJPEGQuality
		}
		quality = max(1, min(100, quality))
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	case FormatBMP:
		err = bmp.Encode(w, img)
	case FormatTIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return ErrUnsupportedFormat
	}
	if err != nil {
		return fmt.Errorf("image: encode %s: %w", format.MIMEType(), err)
	}
	return nil
}

// EncodeToBytes encodes the buffer and returns the bytes.
func (b *ImageBuf) EncodeToBytes(format EncodeFormat, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := b.Encode(&buf, format, quality); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
