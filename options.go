package layers

// Defaults applied by New.
const (
	// DefaultWidth is the surface width used when no size option is given.
	DefaultWidth = 200

	// DefaultHeight is the surface height used when no size option is given.
	DefaultHeight = 200

	// DefaultBlendMode is the blend mode assigned to synthesized layers.
	DefaultBlendMode = "source-over"

	// DefaultLayerName is the name callers use for layers created without one.
	DefaultLayerName = "unnamed"
)

// Option configures a Store during creation.
// Use functional options to customize Store behavior.
//
// Example:
//
//	// Default 200x200 surfaces
//	st, err := layers.New(backend)
//
//	// Custom size and a shallow copy strategy for Duplicate
//	st, err := layers.New(backend,
//	    layers.WithSize(800, 600),
//	    layers.WithCopyFunc(func(l *layers.Layer[*raster.Canvas]) *layers.Layer[*raster.Canvas] {
//	        return &layers.Layer[*raster.Canvas]{Surface: l.Surface, BlendMode: l.BlendMode, Hidden: l.Hidden}
//	    }),
//	)
type Option func(*storeOptions)

// storeOptions holds optional configuration for Store creation.
type storeOptions struct {
	width    int
	height   int
	copyFunc any // CopyFunc[S], checked in New
}

// defaultOptions returns the default store options.
func defaultOptions() storeOptions {
	return storeOptions{
		width:  DefaultWidth,
		height: DefaultHeight,
	}
}

// WithSize sets the size of surfaces synthesized by Add and of the scratch
// surface used for export. Non-positive values keep the default.
func WithSize(width, height int) Option {
	return func(o *storeOptions) {
		if width > 0 {
			o.width = width
		}
		if height > 0 {
			o.height = height
		}
	}
}

// CopyFunc produces the copy made by Duplicate. It may return an alias of
// the original layer; the store then trades copy independence for speed.
type CopyFunc[S Surface] func(origin *Layer[S]) *Layer[S]

// WithCopyFunc replaces the default pixel copy used by Duplicate.
// The function's surface type must match the store's, otherwise New fails
// with ErrCopyFuncType.
func WithCopyFunc[S Surface](fn CopyFunc[S]) Option {
	return func(o *storeOptions) {
		if fn != nil {
			o.copyFunc = fn
		}
	}
}
