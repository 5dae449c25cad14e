package raster

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/gogpu/layers"
	intImage "github.com/gogpu/layers/internal/image"
)

// aliases maps alternative spellings to canvas operator names.
var aliases = map[string]string{
	"normal": "source-over",
	"over":   "source-over",
	"src":    "copy",
	"plus":   "lighter",
	"add":    "lighter",
}

// normalizeBlendMode folds case, trims spaces and resolves aliases, so
// "Multiply" and "MULTIPLY" match. A Caser is stateful, hence one per call.
func normalizeBlendMode(name string) string {
	n := cases.Fold().String(strings.TrimSpace(name))
	if a, ok := aliases[n]; ok {
		return a
	}
	return n
}

// lookupBlendMode maps a blend mode name to a composite operator. Unknown
// names fall back to source-over.
func lookupBlendMode(name string) intImage.CompositeOp {
	op, ok := intImage.LookupOp(normalizeBlendMode(name))
	if !ok {
		layers.Logger().Debug("raster: unknown blend mode, using source-over", "mode", name)
	}
	return op
}

// KnownBlendMode reports whether name is a blend mode the raster backend
// implements, ignoring case.
func KnownBlendMode(name string) bool {
	_, ok := intImage.LookupOp(normalizeBlendMode(name))
	return ok
}

// BlendModes returns the canonical names of all supported blend modes.
func BlendModes() []string {
	var names []string
	for op := intImage.OpSourceOver; ; op++ {
		name := op.String()
		if name == "unknown" {
			return names
		}
		names = append(names, name)
	}
}
