// Package xdraw provides resizer implementations using golang.org/x/image/draw.
// ApproxBiLinear is recommended for balanced speed/quality scaling.
package xdraw

import (
	"image"

	"golang.org/x/image/draw"

	"github.com/srlehn/boxscale/internal/consts"
	"github.com/srlehn/boxscale/internal/errors"
	"github.com/srlehn/boxscale/resize"
)

func init() {
	for _, rsz := range []resize.Resizer{NearestNeighbor(), ApproxBiLinear(), BiLinear(), CatmullRom()} {
		resize.Register(rsz)
	}
}

// resizer uses "golang.org/x/image/draw"
type resizer struct {
	name   string
	scaler draw.Scaler
}

var _ resize.Resizer = (*resizer)(nil)

// NearestNeighbor creates a new resizer without any interpolation (fastest, aliased).
func NearestNeighbor() resize.Resizer {
	return &resizer{name: `xdraw-nearest-neighbor`, scaler: draw.NearestNeighbor}
}

// ApproxBiLinear creates a new resizer with ApproxBiLinear scaling (balanced speed/quality).
func ApproxBiLinear() resize.Resizer {
	return &resizer{name: `xdraw-approx-bilinear`, scaler: draw.ApproxBiLinear}
}

// BiLinear creates a new resizer with BiLinear scaling (higher quality, slower).
func BiLinear() resize.Resizer {
	return &resizer{name: `xdraw-bilinear`, scaler: draw.BiLinear}
}

// CatmullRom creates a new resizer with CatmullRom scaling (highest quality, slowest).
func CatmullRom() resize.Resizer {
	return &resizer{name: `xdraw-catmull-rom`, scaler: draw.CatmullRom}
}

func (r *resizer) Name() string { return r.name }

// Resize scales an image by scale using the configured scaler.
func (r *resizer) Resize(img image.Image, scale float64) (image.Image, error) {
	if img == nil {
		return nil, errors.New(consts.ErrNilImage)
	}
	size, err := resize.TargetSize(img.Bounds(), scale)
	if err != nil {
		return nil, err
	}
	dst := image.NewNRGBA(image.Rect(0, 0, size.X, size.Y))
	r.scaler.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst, nil
}
