package resample

import (
	"fmt"
	"math"

	"github.com/srlehn/boxscale/internal/consts"
	"github.com/srlehn/boxscale/internal/errors"
)

// spillTolerance bounds the floating point overshoot of a footprint past the
// last target cell.
const spillTolerance = 1e-9

// ValidateScale reports ErrInvalidScale unless 0 < scale < 1.
// NaN and infinities are rejected.
func ValidateScale(scale float64) error {
	if !(scale > 0 && scale < 1) {
		return errors.WrapPrefix(consts.ErrInvalidScale, fmt.Sprintf(`scale %v`, scale), 0)
	}
	return nil
}

// TargetDims returns the dimensions of an image of width x height downscaled
// by scale. Both are rounded up, so a valid input never yields 0.
func TargetDims(width, height int, scale float64) (int, int) {
	return targetLen(width, scale), targetLen(height, scale)
}

func targetLen(n int, scale float64) int { return int(math.Ceil(float64(n) * scale)) }

// FitScale returns the largest scale at which a width x height image fits
// into maxWidth x maxHeight, and whether a downscale is needed at all.
// Non-positive maxima default to 250x300.
func FitScale(width, height, maxWidth, maxHeight int) (float64, bool) {
	if width <= 0 || height <= 0 {
		return 1, false
	}
	if maxWidth <= 0 {
		maxWidth = consts.DefaultMaxWidth
	}
	if maxHeight <= 0 {
		maxHeight = consts.DefaultMaxHeight
	}
	scale := 1.
	if width > maxWidth {
		scale = float64(maxWidth) / float64(width)
	}
	if height > maxHeight {
		if s := float64(maxHeight) / float64(height); s < scale {
			scale = s
		}
	}
	if scale >= 1 {
		return 1, false
	}
	// ceil(n*scale) may land one past the maximum
	for scale > 0 && (targetLen(width, scale) > maxWidth || targetLen(height, scale) > maxHeight) {
		scale = math.Nextafter(scale, 0)
	}
	return scale, true
}

// span is the projection of one source pixel onto one target axis:
// the interval [s*scale, s*scale+scale).
type span struct {
	cell  int     // target cell holding the start of the interval
	cross bool    // the interval reaches into cell+1
	w     float64 // length inside cell
	nw    float64 // length inside cell+1
}

// project computes the span of source index s on an axis of cells target cells.
func project(s int, scale float64, cells int) span {
	t := float64(s) * scale
	c := int(t)
	if int(t+scale) == c {
		return span{cell: c, w: scale}
	}
	nw := t + scale - float64(c) - 1
	if c+1 >= cells {
		// the last source pixel ends on the image border, anything more
		// than rounding noise means the target size is wrong
		if nw > spillTolerance {
			panic(errors.Errorf(`resample: source %d spills %v into cell %d of %d`, s, nw, c+1, cells))
		}
		return span{cell: c, w: scale}
	}
	return span{
		cell:  c,
		cross: true,
		w:     float64(c+1) - t,
		nw:    nw,
	}
}

func projectAxis(n int, scale float64, cells int) []span {
	spans := make([]span, n)
	for i := range spans {
		spans[i] = project(i, scale, cells)
	}
	return spans
}

type cellWeight struct {
	x, y int
	w    float64
}

// footprint splits a source pixel into up to four weighted target cells.
// The weights sum to scale*scale.
func footprint(x, y span) ([4]cellWeight, int) {
	var cws [4]cellWeight
	cws[0] = cellWeight{x: x.cell, y: y.cell, w: x.w * y.w}
	n := 1
	if x.cross {
		cws[n] = cellWeight{x: x.cell + 1, y: y.cell, w: x.nw * y.w}
		n++
	}
	if y.cross {
		cws[n] = cellWeight{x: x.cell, y: y.cell + 1, w: x.w * y.nw}
		n++
	}
	if x.cross && y.cross {
		cws[n] = cellWeight{x: x.cell + 1, y: y.cell + 1, w: x.nw * y.nw}
		n++
	}
	return cws, n
}
