package resample

import (
	"math"

	"github.com/srlehn/boxscale/internal/errors"
)

// accumulator holds the weighted channel sums of a single Resize call.
// It is never shared between calls.
type accumulator struct {
	width  int
	height int
	sums   []float64
}

func newAccumulator(width, height int) *accumulator {
	return &accumulator{
		width:  width,
		height: height,
		sums:   make([]float64, channels*width*height),
	}
}

// offset maps (x, y, channel) to its index in sums.
// Out of range coordinates are a bug in the footprint geometry and panic.
func (a *accumulator) offset(x, y, ch int) int {
	if x < 0 || x >= a.width || y < 0 || y >= a.height || ch < 0 || ch >= channels {
		panic(errors.Errorf(`resample: accumulator access (%d,%d,%d) outside %dx%d`, x, y, ch, a.width, a.height))
	}
	return channels*(y*a.width+x) + ch
}

// add adds all channels of px weighted by w to cell (x, y).
func (a *accumulator) add(x, y int, px *[channels]float64, w float64) {
	o := a.offset(x, y, 0)
	s := a.sums[o : o+channels : o+channels]
	s[0] += px[0] * w
	s[1] += px[1] * w
	s[2] += px[2] * w
	s[3] += px[3] * w
}

// coverage is the fraction of a target cell covered by source pixels along
// one axis. Only the last cell can be partially covered.
func coverage(cell, cells, srcLen int, scale float64) float64 {
	if cell < cells-1 {
		return 1
	}
	c := float64(srcLen)*scale - float64(cell)
	if c <= 0 || c > 1 {
		return 1
	}
	return c
}

// pixelBuffer rounds the sums up into an 8-bit buffer.
func (a *accumulator) pixelBuffer(r *Resampler, srcW, srcH int, scale float64) *PixelBuffer {
	dst := &PixelBuffer{
		Width:  a.width,
		Height: a.height,
		Pix:    make([]byte, len(a.sums)),
	}
	for y := 0; y < a.height; y++ {
		covY := 1.0
		if r.normalizeEdges {
			covY = coverage(y, a.height, srcH, scale)
		}
		for x := 0; x < a.width; x++ {
			norm := 1.0
			if r.normalizeEdges {
				norm = coverage(x, a.width, srcW, scale) * covY
			}
			o := a.offset(x, y, 0)
			s := a.sums[o : o+channels : o+channels]
			d := dst.Pix[o : o+channels : o+channels]
			alpha := s[3] / norm
			d[3] = toByte(alpha)
			if r.premultiplyAlpha {
				if alpha <= 0 {
					d[0], d[1], d[2] = 0, 0, 0
					continue
				}
				// coverage cancels out of the ratio
				d[0] = toByte(s[0] * 255 / s[3])
				d[1] = toByte(s[1] * 255 / s[3])
				d[2] = toByte(s[2] * 255 / s[3])
				continue
			}
			d[0] = toByte(s[0] / norm)
			d[1] = toByte(s[1] / norm)
			d[2] = toByte(s[2] / norm)
		}
	}
	return dst
}

// toByte rounds up and clamps to [0,255].
func toByte(v float64) byte {
	v = math.Ceil(v)
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return byte(v)
}
