package layers

import (
	"encoding/base64"
	"image"
	"strings"
)

// Merge collapses the named layers into the first of them.
//
// Names that do not resolve are ignored, and a repeated name counts once.
// The first remaining name is the base: it keeps its position, and every
// other named layer is drawn onto it in the given order, scaled to the
// base's size, then removed from the store. Hidden layers are removed
// without being drawn. Each layer is drawn with force as the blend mode
// when force is non-empty, otherwise with its own BlendMode. Afterwards the
// base surface's blend mode is reset to the base layer's BlendMode.
//
// Merge returns the base layer, or false when names is nil or no name
// resolved.
func (s *Store[S]) Merge(names []string, force string) (*Layer[S], bool) {
	if names == nil {
		return nil, false
	}

	var set []*Layer[S]
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		l, ok := s.Get(name)
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		set = append(set, l)
	}
	if len(set) == 0 {
		return nil, false
	}

	base := set[0]
	s.composite(base.Surface, base.bounds(), set[1:], force)
	base.Surface.SetBlendMode(base.BlendMode)

	collapsed := make([]string, 0, len(set)-1)
	drop := make(map[*Layer[S]]bool, len(set)-1)
	for _, l := range set[1:] {
		drop[l] = true
		collapsed = append(collapsed, l.name)
	}
	kept := make([]*Layer[S], 0, len(s.layers)-len(drop))
	for _, l := range s.layers {
		if !drop[l] {
			kept = append(kept, l)
		}
	}
	s.setLayers(kept)

	Logger().Debug("layers: layers merged", "base", base.name, "collapsed", collapsed, "force", force)
	for _, name := range collapsed {
		s.emit(Event[S]{Kind: EventRemove, Name: name})
	}
	return base, true
}

// Encode composites every visible layer, bottom to top, onto a fresh
// surface of the store's size and serializes it with the backend. args are
// passed to the backend unchanged (for example a mime type). The store is
// not modified.
func (s *Store[S]) Encode(args ...string) ([]byte, error) {
	data, err := s.backend.Encode(s.flatten(), args...)
	if err != nil {
		Logger().Warn("layers: encode failed", "args", args, "err", err)
		return nil, err
	}
	return data, nil
}

// DataURL returns the flattened stack as a "data:" URL. args are passed to
// the backend as in Encode; the first one, if present and non-empty, names
// the URL's media type, which otherwise is "image/png". Short format names
// such as "jpeg" or "jpg" become "image/jpeg".
func (s *Store[S]) DataURL(args ...string) (string, error) {
	data, err := s.Encode(args...)
	if err != nil {
		return "", err
	}

	mime := "image/png"
	if len(args) > 0 && args[0] != "" {
		mime = mediaType(args[0])
	}

	var sb strings.Builder
	sb.Grow(len("data:;base64,") + len(mime) + base64.StdEncoding.EncodedLen(len(data)))
	sb.WriteString("data:")
	sb.WriteString(mime)
	sb.WriteString(";base64,")
	sb.WriteString(base64.StdEncoding.EncodeToString(data))
	return sb.String(), nil
}

// mediaType expands a short image format name to a media type. Values that
// already contain a slash are returned unchanged.
func mediaType(format string) string {
	if strings.Contains(format, "/") {
		return format
	}
	switch f := strings.ToLower(format); f {
	case "jpg":
		return "image/jpeg"
	case "tif":
		return "image/tiff"
	default:
		return "image/" + f
	}
}

// flatten draws all layers onto a new unnamed scratch layer and returns its
// surface.
func (s *Store[S]) flatten() S {
	scratch := NewLayer(s.backend.NewSurface(s.width, s.height))
	s.composite(scratch.Surface, scratch.bounds(), s.layers, "")
	scratch.Surface.SetBlendMode(scratch.BlendMode)
	return scratch.Surface
}

// composite draws each visible layer onto dst, scaled to dr.
func (s *Store[S]) composite(dst S, dr image.Rectangle, ls []*Layer[S], force string) {
	for _, l := range ls {
		if l.Hidden {
			continue
		}
		mode := l.BlendMode
		if force != "" {
			mode = force
		}
		dst.SetBlendMode(mode)
		dst.DrawImage(s.backend.Image(l.Surface), l.bounds(), dr)
	}
}

// Resize replaces every layer's surface with a new surface of the given
// size holding the old contents scaled to fit. src optionally gives the
// source rectangle as sx, sy, sw, sh; missing values default to 0, 0 and
// each layer's own width and height. Names, positions and metadata are
// kept, each new surface is left in its layer's blend mode, and the store's
// size becomes width x height.
//
// Non-positive width or height leaves the store unchanged.
func (s *Store[S]) Resize(width, height int, src ...int) {
	if width <= 0 || height <= 0 {
		return
	}

	dr := image.Rect(0, 0, width, height)
	for _, l := range s.layers {
		sx, sy, sw, sh := 0, 0, l.Width(), l.Height()
		if len(src) > 0 {
			sx = src[0]
		}
		if len(src) > 1 {
			sy = src[1]
		}
		if len(src) > 2 {
			sw = src[2]
		}
		if len(src) > 3 {
			sh = src[3]
		}

		surf := s.backend.NewSurface(width, height)
		surf.DrawImage(s.backend.Image(l.Surface), image.Rect(sx, sy, sx+sw, sy+sh), dr)
		surf.SetBlendMode(l.BlendMode)
		l.Surface = surf
	}
	s.width, s.height = width, height

	Logger().Debug("layers: layers resized", "width", width, "height", height, "count", len(s.layers))
}
