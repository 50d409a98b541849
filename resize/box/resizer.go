// Package box provides the area-weighted box filter as a resize.Resizer.
package box

import (
	"image"

	"github.com/srlehn/boxscale/internal/consts"
	"github.com/srlehn/boxscale/internal/errors"
	"github.com/srlehn/boxscale/resample"
	"github.com/srlehn/boxscale/resize"
)

func init() {
	resize.Register(Default())
	if rsz, err := New(`box-premultiplied`, resample.PremultiplyAlpha(true)); err == nil {
		resize.Register(rsz)
	}
	if rsz, err := New(`box-normalized`, resample.NormalizeEdges(true)); err == nil {
		resize.Register(rsz)
	}
}

// Resizer uses "github.com/srlehn/boxscale/resample"
type Resizer struct {
	name      string
	resampler *resample.Resampler
}

var _ resize.Resizer = (*Resizer)(nil)

// Default returns the box resizer with straight alpha and unnormalized edges.
func Default() *Resizer {
	return &Resizer{name: consts.ResizerDefaultName, resampler: &resample.Resampler{}}
}

// New returns a box resizer registered under name with resampler options.
func New(name string, opts ...resample.Option) (*Resizer, error) {
	rs, err := resample.New(opts...)
	if err != nil {
		return nil, err
	}
	if len(name) == 0 {
		name = consts.ResizerDefaultName
	}
	return &Resizer{name: name, resampler: rs}, nil
}

func (r *Resizer) Name() string { return r.name }

// Resize returns a *image.NRGBA.
func (r *Resizer) Resize(img image.Image, scale float64) (image.Image, error) {
	if r == nil || r.resampler == nil {
		return nil, errors.NilReceiver()
	}
	if img == nil {
		return nil, errors.New(consts.ErrNilImage)
	}
	// reject before copying the source
	if err := resample.ValidateScale(scale); err != nil {
		return nil, err
	}
	src, err := resample.FromImage(img)
	if err != nil {
		return nil, err
	}
	dst, err := r.resampler.Resize(src, scale)
	if err != nil {
		return nil, err
	}
	return dst.Image(), nil
}
