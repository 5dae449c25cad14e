// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layers

import "slices"

// Store is an ordered stack of uniquely named layers.
//
// The first layer is the bottom of the stack: merge and export composite
// layers in sequence order. Every name in the store is unique, and the
// name index always mirrors the current sequence; each mutating operation
// rebuilds both together before returning.
//
// Operations never fail for everyday misuse. Unknown names, nil slices and
// out-of-range anchors fall back to a safe default (append at the end, skip
// the item, or report not found) instead of returning errors.
//
// Thread safety: Store is not safe for concurrent access. External
// synchronization is required if multiple goroutines use the same store.
type Store[S Surface] struct {
	backend  Backend[S]
	copyFunc CopyFunc[S]
	width    int
	height   int

	layers []*Layer[S]
	index  map[string]int

	listeners map[EventKind][]listener[S]
	nextID    uint64
}

// New creates an empty store that allocates, converts and exports surfaces
// through backend.
//
// New fails only for configuration errors: a nil backend, a BackendFuncs
// without NewSurfaceFunc or ImageFunc, or a copy function whose surface
// type differs from S.
func New[S Surface](backend Backend[S], opts ...Option) (*Store[S], error) {
	switch b := any(backend).(type) {
	case nil:
		return nil, ErrNoBackend
	case BackendFuncs[S]:
		if err := b.validate(); err != nil {
			return nil, err
		}
	case *BackendFuncs[S]:
		if b == nil {
			return nil, ErrNoBackend
		}
		if err := b.validate(); err != nil {
			return nil, err
		}
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	s := &Store[S]{
		backend:   backend,
		width:     o.width,
		height:    o.height,
		index:     make(map[string]int),
		listeners: make(map[EventKind][]listener[S]),
	}
	if o.copyFunc != nil {
		fn, ok := o.copyFunc.(CopyFunc[S])
		if !ok {
			return nil, ErrCopyFuncType
		}
		s.copyFunc = fn
	}
	return s, nil
}

// Size returns the size used for synthesized and scratch surfaces.
func (s *Store[S]) Size() (width, height int) {
	return s.width, s.height
}

// Len returns the number of layers.
func (s *Store[S]) Len() int {
	return len(s.layers)
}

// Add creates a blank layer of the store's size and inserts it at the
// anchor. The name is made unique first, so the returned layer's Name may
// carry a "[n]" suffix. Synthesized layers use DefaultBlendMode and are
// visible.
func (s *Store[S]) Add(name string, at Anchor) *Layer[S] {
	return s.AddLayer(name, at, nil)
}

// AddLayer inserts l under a unique variant of name at the anchor. Only the
// layer's name is changed; its surface, blend mode and visibility are kept.
// A nil l behaves like Add. If l is already in the store, a new layer
// sharing its surface is inserted instead and returned.
func (s *Store[S]) AddLayer(name string, at Anchor, l *Layer[S]) *Layer[S] {
	name = s.AvailableName(name)
	switch {
	case l == nil:
		l = NewLayer(s.backend.NewSurface(s.width, s.height))
	case s.contains(l):
		l = &Layer[S]{Surface: l.Surface, BlendMode: l.BlendMode, Hidden: l.Hidden}
	}
	l.name = name

	pos, ok := s.resolve(at)
	if ok {
		s.insertAfter(pos, l)
	} else {
		s.layers = append(s.layers, l)
		s.index[name] = len(s.layers) - 1
	}

	Logger().Debug("layers: layer added", "name", name, "anchor", at.String(), "position", s.index[name])
	s.emit(Event[S]{Kind: EventAdd, Layer: l, Name: name})
	return l
}

// contains reports whether l itself is registered.
func (s *Store[S]) contains(l *Layer[S]) bool {
	i, ok := s.index[l.name]
	return ok && s.layers[i] == l
}

// insertAfter places l right after position pos and rebuilds the index.
func (s *Store[S]) insertAfter(pos int, l *Layer[S]) {
	next := make([]*Layer[S], 0, len(s.layers)+1)
	next = append(next, s.layers[:pos+1]...)
	next = append(next, l)
	next = append(next, s.layers[pos+1:]...)
	s.setLayers(next)
}

// Get returns the layer with the given name.
func (s *Store[S]) Get(name string) (*Layer[S], bool) {
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.layers[i], true
}

// Index returns the position of the named layer, counting from the bottom.
func (s *Store[S]) Index(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

// Remove deletes the named layer. Layers above it move down by one
// position. Remove reports whether a layer was removed.
func (s *Store[S]) Remove(name string) bool {
	i, ok := s.index[name]
	if !ok {
		return false
	}

	s.layers = slices.Delete(s.layers, i, i+1)
	delete(s.index, name)
	for j := i; j < len(s.layers); j++ {
		s.index[s.layers[j].name] = j
	}

	Logger().Debug("layers: layer removed", "name", name, "position", i)
	s.emit(Event[S]{Kind: EventRemove, Name: name})
	return true
}

// Rename gives the target layer a unique variant of newName and returns the
// name actually assigned. The target's current name does not count as a
// collision, so renaming a layer to its own name keeps it.
func (s *Store[S]) Rename(target, newName string) (string, bool) {
	i, ok := s.index[target]
	if !ok {
		return "", false
	}

	delete(s.index, target)
	resolved := s.AvailableName(newName)
	s.index[resolved] = i
	l := s.layers[i]
	l.name = resolved

	Logger().Debug("layers: layer renamed", "from", target, "to", resolved)
	s.emit(Event[S]{Kind: EventRename, Layer: l, Name: resolved, OldName: target})
	return resolved, true
}

// Move reorders the store to exactly the named layers, in the given order.
// Names that do not resolve, and repeats of a name already placed, are
// skipped. Layers whose names are missing from names are dropped from the
// store. A nil slice leaves the store unchanged.
func (s *Store[S]) Move(names []string) {
	if names == nil {
		return
	}

	next := make([]*Layer[S], 0, len(names))
	placed := make(map[string]bool, len(names))
	for _, name := range names {
		l, ok := s.Get(name)
		if !ok || placed[name] {
			continue
		}
		placed[name] = true
		next = append(next, l)
	}
	s.setLayers(next)

	Logger().Debug("layers: layers moved", "names", s.Names())
	s.emit(Event[S]{Kind: EventMove, Layers: s.layers})
}

// Duplicate copies the origin layer under a unique variant of its own name
// and inserts the copy right after it.
func (s *Store[S]) Duplicate(origin string) (*Layer[S], bool) {
	return s.DuplicateAs(origin, origin)
}

// DuplicateAs copies the origin layer under a unique variant of name and
// inserts the copy right after the origin.
//
// Without WithCopyFunc the copy is independent: a new surface of the
// origin's size receives the origin's pixels, and blend mode and visibility
// are copied by value.
func (s *Store[S]) DuplicateAs(origin, name string) (*Layer[S], bool) {
	src, ok := s.Get(origin)
	if !ok {
		return nil, false
	}

	var dup *Layer[S]
	if s.copyFunc != nil {
		dup = s.copyFunc(src)
	} else {
		dup = s.copyLayer(src)
	}
	return s.AddLayer(name, After(origin), dup), true
}

// copyLayer makes a pixel copy of l on a fresh surface.
func (s *Store[S]) copyLayer(l *Layer[S]) *Layer[S] {
	w, h := l.Width(), l.Height()
	if w <= 0 {
		w = s.width
	}
	if h <= 0 {
		h = s.height
	}

	surf := s.backend.NewSurface(w, h)
	r := l.bounds()
	surf.SetBlendMode("copy")
	surf.DrawImage(s.backend.Image(l.Surface), r, r)
	surf.SetBlendMode(l.BlendMode)

	return &Layer[S]{Surface: surf, BlendMode: l.BlendMode, Hidden: l.Hidden}
}

// All returns the layers from bottom to top. The slice is the store's own;
// callers must not modify it.
func (s *Store[S]) All() []*Layer[S] {
	return s.layers
}

// ReplaceAll replaces the whole stack with ls, bottom to top. Nil entries
// are skipped, and a layer whose name repeats an earlier one receives a
// unique variant of it. A nil slice leaves the store unchanged.
func (s *Store[S]) ReplaceAll(ls []*Layer[S]) {
	if ls == nil {
		return
	}

	next := make([]*Layer[S], 0, len(ls))
	index := make(map[string]int, len(ls))
	for _, l := range ls {
		if l == nil {
			continue
		}
		l.name = nextFree(index, l.name)
		index[l.name] = len(next)
		next = append(next, l)
	}
	s.layers = next
	s.index = index

	Logger().Debug("layers: layers replaced", "count", len(next))
	s.emit(Event[S]{Kind: EventSet, Layers: s.layers})
}

// Names returns the layer names from bottom to top.
func (s *Store[S]) Names() []string {
	names := make([]string, len(s.layers))
	for i, l := range s.layers {
		names[i] = l.name
	}
	return names
}

// setLayers installs a new sequence and rebuilds the index from it.
func (s *Store[S]) setLayers(ls []*Layer[S]) {
	index := make(map[string]int, len(ls))
	for i, l := range ls {
		index[l.name] = i
	}
	s.layers = ls
	s.index = index
}
