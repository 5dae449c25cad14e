// Package layers provides an image-editor style layer stack over
// caller-supplied drawing surfaces.
//
// # Overview
//
// A Store holds an ordered list of named layers. Layers can be added at a
// position, looked up, renamed, reordered, duplicated, merged into one
// another, and flattened into an encoded image. Names are kept unique by
// appending or incrementing a bracketed counter: adding "sky" twice yields
// "sky" and "sky[1]".
//
// The package owns no pixel format. Surface allocation, drawing and
// encoding are delegated to a Backend; the raster sub-package provides a
// pure Go implementation.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/layers"
//	    "github.com/gogpu/layers/raster"
//	)
//
//	st, err := raster.NewStore(layers.WithSize(512, 512))
//	if err != nil { ... }
//
//	bg := st.Add("background", layers.End)
//	bg.Surface.Fill(color.White)
//
//	ink := st.Add("ink", layers.End)
//	ink.BlendMode = "multiply"
//
//	st.Merge([]string{"background", "ink"}, "")
//	png, err := st.Encode("image/png")
//
// # Ordering
//
// The first layer is the bottom of the stack. Merge and Encode composite
// layers in sequence order, skipping hidden ones.
//
// # Notifications
//
// Listeners registered with Store.On are called synchronously at the end of
// each structural change (add, remove, move, rename, replace).
//
// # Logging
//
// The package is silent by default; see SetLogger.
package layers

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
