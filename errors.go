package layers

import "errors"

// Configuration errors returned by New.
var (
	// ErrNoBackend is returned when New is called with a nil backend.
	ErrNoBackend = errors.New("layers: backend is nil")

	// ErrNoSurfaceFunc is returned when a BackendFuncs has no NewSurface func.
	ErrNoSurfaceFunc = errors.New("layers: create surface function is undefined")

	// ErrNoImageFunc is returned when a BackendFuncs has no Image func.
	ErrNoImageFunc = errors.New("layers: create image function is undefined")
)

// ErrNoEncoder is returned by export operations when the backend cannot
// serialize surfaces.
var ErrNoEncoder = errors.New("layers: encode function is undefined")

// ErrCopyFuncType is returned by New when WithCopyFunc was given a function
// for a different surface type than the store's.
var ErrCopyFuncType = errors.New("layers: copy function surface type does not match store")
