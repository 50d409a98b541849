package rez

import (
	"image"

	"github.com/bamiaux/rez"

	"github.com/srlehn/boxscale/internal/consts"
	"github.com/srlehn/boxscale/internal/errors"
	"github.com/srlehn/boxscale/resize"
)

func init() { resize.Register(&Resizer{}) }

// Resizer uses "github.com/bamiaux/rez"
type Resizer struct{}

var _ resize.Resizer = (*Resizer)(nil)

func (r *Resizer) Name() string { return `rez-bilinear` }

// Resize ...
func (r *Resizer) Resize(img image.Image, scale float64) (image.Image, error) {
	if img == nil {
		return nil, errors.New(consts.ErrNilImage)
	}
	size, err := resize.TargetSize(img.Bounds(), scale)
	if err != nil {
		return nil, err
	}
	// rez wants input and output of the same pixel layout
	src := resize.ToNRGBA(img)
	if src == nil {
		return nil, errors.New(consts.ErrNilImage)
	}
	m := image.NewNRGBA(image.Rectangle{Max: size})
	if err := rez.Convert(m, src, rez.NewBilinearFilter()); err != nil {
		return nil, errors.New(err)
	}
	return m, nil
}
