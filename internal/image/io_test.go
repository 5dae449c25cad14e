package image

import (
	"bytes"
	"errors"
	"image/png"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    EncodeFormat
		wantErr bool
	}{
		{"", FormatPNG, false},
		{"image/png", FormatPNG, false},
		{"JPG", FormatJPEG, false},
		{"image/jpeg", FormatJPEG, false},
		{"bmp", FormatBMP, false},
		{"image/tiff", FormatTIFF, false},
		{"image/webp", FormatPNG, true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("ParseFormat(%q) error = %v, want ErrUnsupportedFormat", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestEncodeDecodes(t *testing.T) {
	buf, _ := NewImageBuf(3, 2)
	buf.Fill(10, 200, 30, 255)

	tests := []struct {
		format EncodeFormat
		decode func([]byte) error
	}{
		{FormatPNG, func(b []byte) error { _, err := png.Decode(bytes.NewReader(b)); return err }},
		{FormatBMP, func(b []byte) error { _, err := bmp.Decode(bytes.NewReader(b)); return err }},
		{FormatTIFF, func(b []byte) error { _, err := tiff.Decode(bytes.NewReader(b)); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.format.MIMEType(), func(t *testing.T) {
			data, err := buf.EncodeToBytes(tt.format, 0)
			if err != nil {
				t.Fatalf("EncodeToBytes() = %v", err)
			}
			if err := tt.decode(data); err != nil {
				t.Errorf("decode = %v", err)
			}
		})
	}
}

func TestEncodeJPEGHeader(t *testing.T) {
	buf, _ := NewImageBuf(2, 2)
	data, err := buf.EncodeToBytes(FormatJPEG, 500)
	if err != nil {
		t.Fatalf("EncodeToBytes(JPEG) = %v", err)
	}
	if len(data) < 2 || data[0] != 0xFF || data[1] != 0xD8 {
		t.Errorf("JPEG output missing SOI marker")
	}
}

func TestEncodePNGPixels(t *testing.T) {
	buf, _ := NewImageBuf(1, 1)
	buf.Fill(1, 2, 3, 255)

	data, err := buf.EncodeToBytes(FormatPNG, 0)
	if err != nil {
		t.Fatalf("EncodeToBytes() = %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode() = %v", err)
	}
	r, g, b, _ := img.At(0, 0).RGBA()
	if r>>8 != 1 || g>>8 != 2 || b>>8 != 3 {
		t.Errorf("decoded pixel = (%d, %d, %d), want (1, 2, 3)", r>>8, g>>8, b>>8)
	}
}
