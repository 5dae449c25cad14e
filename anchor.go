package layers

import "fmt"

type anchorKind uint8

const (
	anchorEnd anchorKind = iota
	anchorIndex
	anchorName
)

// Anchor is the insertion point for Add and AddLayer. The zero value is End.
type Anchor struct {
	kind  anchorKind
	index int
	name  string
}

// End appends the new layer after every existing layer.
var End = Anchor{}

// AfterIndex inserts the new layer right after position i.
//
// Only positions strictly before the last one are accepted (0 <= i < Len()-1,
// which needs at least two layers); any other position appends at the end.
// Inserting "after the last layer" therefore goes through the append path.
func AfterIndex(i int) Anchor {
	return Anchor{kind: anchorIndex, index: i}
}

// After inserts the new layer right after the layer with the given name.
// An unknown name appends at the end.
func After(name string) Anchor {
	return Anchor{kind: anchorName, name: name}
}

// String implements fmt.Stringer.
func (a Anchor) String() string {
	switch a.kind {
	case anchorIndex:
		return fmt.Sprintf("after #%d", a.index)
	case anchorName:
		return fmt.Sprintf("after %q", a.name)
	default:
		return "end"
	}
}

// resolve returns the position the anchor points at, or false when the
// layer should be appended.
func (s *Store[S]) resolve(a Anchor) (int, bool) {
	switch a.kind {
	case anchorIndex:
		n := len(s.layers)
		if n >= 2 && a.index >= 0 && a.index < n-1 {
			return a.index, true
		}
	case anchorName:
		if i, ok := s.index[a.name]; ok {
			return i, true
		}
	}
	return 0, false
}
