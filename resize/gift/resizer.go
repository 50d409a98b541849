package gift

import (
	"image"

	"github.com/disintegration/gift"

	"github.com/srlehn/boxscale/internal/consts"
	"github.com/srlehn/boxscale/internal/errors"
	"github.com/srlehn/boxscale/resize"
)

func init() {
	resize.Register(&Resizer{name: `gift-box`, resampling: gift.BoxResampling})
	resize.Register(&Resizer{name: `gift-lanczos`, resampling: gift.LanczosResampling})
}

// Resizer uses "github.com/disintegration/gift"
type Resizer struct {
	name       string
	resampling gift.Resampling
}

var _ resize.Resizer = (*Resizer)(nil)

func (r *Resizer) Name() string { return r.name }

// Resize ...
func (r *Resizer) Resize(img image.Image, scale float64) (image.Image, error) {
	if img == nil {
		return nil, errors.New(consts.ErrNilImage)
	}
	size, err := resize.TargetSize(img.Bounds(), scale)
	if err != nil {
		return nil, err
	}
	g := gift.New(gift.Resize(size.X, size.Y, r.resampling))
	m := image.NewNRGBA(g.Bounds(img.Bounds()))
	g.SetParallelization(true)
	g.Draw(m, img)
	return m, nil
}
