package imaging

import (
	"image"

	"github.com/disintegration/imaging"

	"github.com/srlehn/boxscale/internal/consts"
	"github.com/srlehn/boxscale/internal/errors"
	"github.com/srlehn/boxscale/resize"
)

func init() {
	resize.Register(&Resizer{name: `imaging-box`, filter: imaging.Box})
	resize.Register(&Resizer{name: `imaging-lanczos`, filter: imaging.Lanczos})
}

// Resizer uses "github.com/disintegration/imaging"
type Resizer struct {
	name   string
	filter imaging.ResampleFilter
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
	return imaging.Resize(img, size.X, size.Y, r.filter), nil
}
