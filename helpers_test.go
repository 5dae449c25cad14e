package layers

import (
	"fmt"
	"image"
	"image/color"
	"testing"
)

// drawCall records one DrawImage on a fakeSurface.
type drawCall struct {
	src  *fakeSurface
	sr   image.Rectangle
	dr   image.Rectangle
	mode string
}

// fakeSurface records blend mode changes and draws instead of rasterizing.
type fakeSurface struct {
	id    int
	w, h  int
	mode  string
	modes []string
	draws []drawCall
}

func (s *fakeSurface) Width() int  { return s.w }
func (s *fakeSurface) Height() int { return s.h }

func (s *fakeSurface) SetBlendMode(mode string) {
	s.mode = mode
	s.modes = append(s.modes, mode)
}

func (s *fakeSurface) DrawImage(img image.Image, sr, dr image.Rectangle) {
	var src *fakeSurface
	if si, ok := img.(surfaceImage); ok {
		src = si.s
	}
	s.draws = append(s.draws, drawCall{src: src, sr: sr, dr: dr, mode: s.mode})
}

// surfaceImage is the image a fakeBackend hands out for a surface.
type surfaceImage struct {
	s *fakeSurface
}

func (i surfaceImage) ColorModel() color.Model { return color.NRGBAModel }
func (i surfaceImage) Bounds() image.Rectangle { return image.Rect(0, 0, i.s.w, i.s.h) }
func (i surfaceImage) At(int, int) color.Color { return color.NRGBA{} }

// fakeBackend allocates fakeSurfaces and records export calls.
type fakeBackend struct {
	created []*fakeSurface
	encoded []*fakeSurface
	args    [][]string
	err     error
}

func (b *fakeBackend) NewSurface(width, height int) *fakeSurface {
	s := &fakeSurface{id: len(b.created) + 1, w: width, h: height, mode: DefaultBlendMode}
	b.created = append(b.created, s)
	return s
}

func (b *fakeBackend) Image(s *fakeSurface) image.Image {
	return surfaceImage{s: s}
}

func (b *fakeBackend) Encode(s *fakeSurface, args ...string) ([]byte, error) {
	b.encoded = append(b.encoded, s)
	b.args = append(b.args, args)
	if b.err != nil {
		return nil, b.err
	}
	return []byte(fmt.Sprintf("%dx%d", s.w, s.h)), nil
}

// newTestStore returns a store over a fakeBackend.
func newTestStore(t *testing.T, opts ...Option) (*Store[*fakeSurface], *fakeBackend) {
	t.Helper()
	b := &fakeBackend{}
	st, err := New[*fakeSurface](b, opts...)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	return st, b
}

// addAll adds layers with the given names at the end.
func addAll(st *Store[*fakeSurface], names ...string) {
	for _, n := range names {
		st.Add(n, End)
	}
}

// checkConsistent verifies unique names and that the index mirrors the
// sequence exactly.
func checkConsistent(t *testing.T, st *Store[*fakeSurface]) {
	t.Helper()
	if len(st.index) != len(st.layers) {
		t.Fatalf("index has %d entries, sequence has %d layers", len(st.index), len(st.layers))
	}
	seen := make(map[string]bool)
	for i, l := range st.layers {
		if seen[l.name] {
			t.Fatalf("duplicate name %q", l.name)
		}
		seen[l.name] = true
		if got, ok := st.index[l.name]; !ok || got != i {
			t.Fatalf("index[%q] = %d, %v, want %d", l.name, got, ok, i)
		}
		if got, ok := st.Get(l.name); !ok || got != l {
			t.Fatalf("Get(%q) does not return the layer at %d", l.name, i)
		}
	}
}

// equalNames compares two name lists.
func equalNames(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
