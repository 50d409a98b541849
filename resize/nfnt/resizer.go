package nfnt

import (
	"image"

	"github.com/nfnt/resize"

	"github.com/srlehn/boxscale/internal/consts"
	"github.com/srlehn/boxscale/internal/errors"
	rsz "github.com/srlehn/boxscale/resize"
)

func init() {
	rsz.Register(&Resizer{name: `nfnt-bilinear`, interp: resize.Bilinear})
	rsz.Register(&Resizer{name: `nfnt-lanczos`, interp: resize.Lanczos3})
}

// Resizer uses "github.com/nfnt/resize"
type Resizer struct {
	name   string
	interp resize.InterpolationFunction
}

var _ rsz.Resizer = (*Resizer)(nil)

func (r *Resizer) Name() string { return r.name }

// Resize ...
func (r *Resizer) Resize(img image.Image, scale float64) (image.Image, error) {
	if img == nil {
		return nil, errors.New(consts.ErrNilImage)
	}
	size, err := rsz.TargetSize(img.Bounds(), scale)
	if err != nil {
		return nil, err
	}
	m := resize.Resize(uint(size.X), uint(size.Y), img, r.interp)
	return m, nil
}
