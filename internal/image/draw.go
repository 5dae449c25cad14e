package image

import "math"

// CompositeOp defines how source pixels are combined with destination pixels.
// The set mirrors the canvas 2D globalCompositeOperation values.
type CompositeOp uint8

const (
	// OpSourceOver draws the source over the destination (the default).
	OpSourceOver CompositeOp = iota

	// OpCopy replaces the destination with the source.
	OpCopy

	// OpSourceIn keeps the source only where the destination is opaque.
	OpSourceIn

	// OpSourceOut keeps the source only where the destination is transparent.
	OpSourceOut

	// OpSourceAtop draws the source only where the destination is opaque.
	OpSourceAtop

	// OpDestinationOver draws the destination over the source.
	OpDestinationOver

	// OpDestinationIn keeps the destination where the source is opaque.
	OpDestinationIn

	// OpDestinationOut keeps the destination where the source is transparent.
	OpDestinationOut

	// OpDestinationAtop keeps the destination only where the source is opaque
	// and draws the source behind it.
	OpDestinationAtop

	// OpXor keeps source and destination where they do not overlap.
	OpXor

	// OpLighter adds source and destination.
	OpLighter

	// OpMultiply multiplies source and destination colors.
	// Result is always darker or equal. Formula: dst * src
	OpMultiply

	// OpScreen performs inverse multiply for lighter results.
	// Formula: 1 - (1-dst) * (1-src)
	OpScreen

	// OpOverlay multiplies dark destination areas and screens bright ones.
	OpOverlay

	// OpDarken keeps the darker of source and destination per channel.
	OpDarken

	// OpLighten keeps the lighter of source and destination per channel.
	OpLighten

	opCount
)

var opNames = [opCount]string{
	OpSourceOver:      "source-over",
	OpCopy:            "copy",
	OpSourceIn:        "source-in",
	OpSourceOut:       "source-out",
	OpSourceAtop:      "source-atop",
	OpDestinationOver: "destination-over",
	OpDestinationIn:   "destination-in",
	OpDestinationOut:  "destination-out",
	OpDestinationAtop: "destination-atop",
	OpXor:             "xor",
	OpLighter:         "lighter",
	OpMultiply:        "multiply",
	OpScreen:          "screen",
	OpOverlay:         "overlay",
	OpDarken:          "darken",
	OpLighten:         "lighten",
}

// String returns the canvas name of the operator.
func (op CompositeOp) String() string {
	if op >= opCount {
		return "unknown"
	}
	return opNames[op]
}

// LookupOp returns the operator with the given canvas name.
// Names are matched exactly; callers fold case beforehand.
func LookupOp(name string) (CompositeOp, bool) {
	for op, n := range opNames {
		if n == name {
			return CompositeOp(op), true
		}
	}
	return OpSourceOver, false
}

// isBlend reports whether op is a separable blend mode composited with
// source-over coverage.
func (op CompositeOp) isBlend() bool {
	return op >= OpMultiply && op < opCount
}

// factors returns the Porter-Duff fractions (Fa, Fb) for the source and
// destination given their alphas.
func (op CompositeOp) factors(as, ab float64) (fa, fb float64) {
	switch op {
	case OpCopy:
		return 1, 0
	case OpSourceIn:
		return ab, 0
	case OpSourceOut:
		return 1 - ab, 0
	case OpSourceAtop:
		return ab, 1 - as
	case OpDestinationOver:
		return 1 - ab, 1
	case OpDestinationIn:
		return 0, as
	case OpDestinationOut:
		return 0, 1 - as
	case OpDestinationAtop:
		return 1 - ab, as
	case OpXor:
		return 1 - ab, 1 - as
	case OpLighter:
		return 1, 1
	default:
		return 1, 1 - as
	}
}

// Composite draws src onto dst with its top-left corner at (x, y) using op.
// Pixels of src falling outside dst are ignored. dst is modified in place.
func Composite(dst, src *ImageBuf, x, y int, op CompositeOp) {
	x0, y0 := max(x, 0), max(y, 0)
	x1, y1 := min(x+src.width, dst.width), min(y+src.height, dst.height)
	if x0 >= x1 || y0 >= y1 {
		return
	}

	for dy := y0; dy < y1; dy++ {
		for dx := x0; dx < x1; dx++ {
			sOff := ((dy-y)*src.width + (dx - x)) * bytesPerPixel
			dOff := (dy*dst.width + dx) * bytesPerPixel
			s := src.data[sOff : sOff+bytesPerPixel : sOff+bytesPerPixel]
			d := dst.data[dOff : dOff+bytesPerPixel : dOff+bytesPerPixel]
			d[0], d[1], d[2], d[3] = compositePixel(s[0], s[1], s[2], s[3], d[0], d[1], d[2], d[3], op)
		}
	}
}

// compositePixel combines one straight-alpha source pixel with one
// destination pixel.
func compositePixel(sr, sg, sb, sa, dr, dg, db, da uint8, op CompositeOp) (r, g, b, a uint8) {
	// Fast paths for the common cases.
	switch {
	case op == OpCopy:
		return sr, sg, sb, sa
	case op == OpSourceOver && sa == 255:
		return sr, sg, sb, 255
	case op == OpSourceOver && sa == 0:
		return dr, dg, db, da
	}

	as := float64(sa) / 255
	ab := float64(da) / 255
	cs := [3]float64{float64(sr) / 255, float64(sg) / 255, float64(sb) / 255}
	cb := [3]float64{float64(dr) / 255, float64(dg) / 255, float64(db) / 255}

	if op.isBlend() {
		// Mix the blended color into the source by backdrop coverage, then
		// composite with source-over.
		for i := range cs {
			cs[i] = (1-ab)*cs[i] + ab*blendChannel(cb[i], cs[i], op)
		}
	}

	fa, fb := op.factors(as, ab)
	ao := as*fa + ab*fb
	if ao <= 0 {
		return 0, 0, 0, 0
	}
	ao = math.Min(ao, 1)

	var co [3]uint8
	for i := range cs {
		c := (as*fa*cs[i] + ab*fb*cb[i]) / ao
		co[i] = to8(c)
	}
	return co[0], co[1], co[2], to8(ao)
}

// blendChannel applies a separable blend function B(cb, cs).
func blendChannel(cb, cs float64, op CompositeOp) float64 {
	switch op {
	case OpMultiply:
		return cb * cs
	case OpScreen:
		return cb + cs - cb*cs
	case OpOverlay:
		// Overlay is hard-light with the layers swapped.
		if cb <= 0.5 {
			return cs * 2 * cb
		}
		d := 2*cb - 1
		return cs + d - cs*d
	case OpDarken:
		return math.Min(cb, cs)
	case OpLighten:
		return math.Max(cb, cs)
	default:
		return cs
	}
}

// to8 converts a [0, 1] channel value to a rounded byte.
func to8(v float64) uint8 {
	v = math.Max(0, math.Min(1, v))
	return uint8(v*255 + 0.5)
}
