package resample

import (
	"github.com/srlehn/boxscale/internal/errors"
)

type Option interface {
	ApplyOption(r *Resampler) error
}

var _ Option = (OptFunc)(nil)

type OptFunc func(*Resampler) error

func (o OptFunc) ApplyOption(r *Resampler) error { return o(r) }

var _ Option = (Options)(nil)

type Options []Option

func (o Options) ApplyOption(r *Resampler) error {
	for _, opt := range o {
		if opt == nil {
			continue
		}
		if err := opt.ApplyOption(r); err != nil {
			return errors.New(err)
		}
	}
	return nil
}

// PremultiplyAlpha weights color channels by alpha while accumulating.
// Disabled, alpha is summed like any other channel, which can fringe colors
// at transparent edges.
func PremultiplyAlpha(enable bool) Option {
	return OptFunc(func(r *Resampler) error { r.premultiplyAlpha = enable; return nil })
}

// NormalizeEdges divides the partially covered last column and row by their
// coverage instead of leaving them darker.
func NormalizeEdges(enable bool) Option {
	return OptFunc(func(r *Resampler) error { r.normalizeEdges = enable; return nil })
}
