// Seam Carving for Content-Aware Image Resizing
package caire

import (
	"image"

	"github.com/esimov/caire"

	"github.com/srlehn/boxscale/internal/consts"
	"github.com/srlehn/boxscale/internal/errors"
	"github.com/srlehn/boxscale/resize"
)

func init() { resize.Register(&Resizer{}) }

// Resizer removes low energy seams instead of averaging pixels.
// Content keeps its proportions, so it is no drop-in for the box filter.
type Resizer struct{}

var _ resize.Resizer = (*Resizer)(nil)

func (r *Resizer) Name() string { return `caire` }

func (r *Resizer) Resize(img image.Image, scale float64) (image.Image, error) {
	if img == nil {
		return nil, errors.New(consts.ErrNilImage)
	}
	size, err := resize.TargetSize(img.Bounds(), scale)
	if err != nil {
		return nil, err
	}
	p := &caire.Processor{
		BlurRadius:     1, // or ie. 4
		SobelThreshold: 4, // or ie. 2
		NewWidth:       size.X,
		NewHeight:      size.Y,
		ShapeType:      "circle",
	}
	nimg := resize.ToNRGBA(img)
	if nimg == nil {
		return nil, errors.New(consts.ErrNilImage)
	}
	m, err := p.Resize(nimg)
	if err != nil {
		return nil, errors.New(err)
	}
	return m, nil
}
