// Package resample downscales RGBA pixel buffers with an area-weighted box
// filter.
//
// Every source pixel is projected into target space, where it covers a
// scale x scale square. Its channels are added to the one, two or four target
// cells that square overlaps, weighted by the overlapping area, and the sums
// are rounded up to 8 bit. The weights of a source pixel always add up to
// scale*scale, so no normalization pass is needed.
//
// Target sizes are rounded up, so the last column and row are usually only
// partly covered by source pixels. By default those cells are left as
// accumulated: a uniform image keeps its color in fully covered cells but
// fades towards transparent black along the right and bottom edge.
// NormalizeEdges divides edge cells by their coverage, which keeps uniform
// images uniform everywhere.
package resample

import (
	"github.com/srlehn/boxscale/internal/consts"
	"github.com/srlehn/boxscale/internal/errors"
)

var (
	ErrInvalidScale = consts.ErrInvalidScale
	ErrInvalidImage = consts.ErrInvalidImage
)

// Resampler holds the accumulation settings. The zero value weights all four
// channels independently (straight alpha) and leaves partially covered edge
// pixels unnormalized. A Resampler is immutable and may be shared between
// goroutines.
type Resampler struct {
	premultiplyAlpha bool
	normalizeEdges   bool
}

// New returns a Resampler configured by opts.
func New(opts ...Option) (*Resampler, error) {
	r := &Resampler{}
	if err := Options(opts).ApplyOption(r); err != nil {
		return nil, err
	}
	return r, nil
}

var defaultResampler = &Resampler{}

// Resize downscales src with the default Resampler.
func Resize(src *PixelBuffer, scale float64) (*PixelBuffer, error) {
	return defaultResampler.Resize(src, scale)
}

// Resize returns a new buffer of ceil(src.Width*scale) x ceil(src.Height*scale).
// src is not modified and the result does not alias it.
func (r *Resampler) Resize(src *PixelBuffer, scale float64) (*PixelBuffer, error) {
	if r == nil {
		return nil, errors.NilReceiver()
	}
	if err := ValidateScale(scale); err != nil {
		return nil, err
	}
	if err := src.Validate(); err != nil {
		return nil, err
	}
	tw, th := TargetDims(src.Width, src.Height, scale)
	acc := newAccumulator(tw, th)

	xSpans := projectAxis(src.Width, scale, tw)
	var px [channels]float64
	for sy := 0; sy < src.Height; sy++ {
		ySpan := project(sy, scale, th)
		row := src.Pix[src.Offset(0, sy):src.Offset(0, sy+1)]
		for sx, xSpan := range xSpans {
			p := row[channels*sx : channels*sx+channels : channels*sx+channels]
			px[0], px[1], px[2], px[3] = float64(p[0]), float64(p[1]), float64(p[2]), float64(p[3])
			if r.premultiplyAlpha {
				a := px[3] / 255
				px[0], px[1], px[2] = px[0]*a, px[1]*a, px[2]*a
			}
			cws, n := footprint(xSpan, ySpan)
			for _, cw := range cws[:n] {
				acc.add(cw.x, cw.y, &px, cw.w)
			}
		}
	}
	return acc.pixelBuffer(r, src.Width, src.Height, scale), nil
}
