package bild

import (
	"image"

	"github.com/anthonynsimon/bild/transform"

	"github.com/srlehn/boxscale/internal/consts"
	"github.com/srlehn/boxscale/internal/errors"
	"github.com/srlehn/boxscale/resize"
)

func init() {
	resize.Register(&Resizer{name: `bild-box`, filter: transform.Box})
	resize.Register(&Resizer{name: `bild-lanczos`, filter: transform.Lanczos})
}

// Resizer uses "github.com/anthonynsimon/bild/transform"
type Resizer struct {
	name   string
	filter transform.ResampleFilter
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
	m := transform.Resize(img, size.X, size.Y, r.filter)
	return m, nil
}
