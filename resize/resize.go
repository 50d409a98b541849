// Package resize defines the Resizer interface shared by the box filter and
// the third-party scalers, and a registry to look them up by name.
package resize

import (
	"image"
	"sort"
	"strings"
	"sync"

	"github.com/iancoleman/strcase"

	"github.com/srlehn/boxscale/internal/consts"
	"github.com/srlehn/boxscale/internal/errors"
	"github.com/srlehn/boxscale/resample"
)

var ErrUnknownResizer = consts.ErrUnknownResizer

// Resizer downscales images by a factor in (0,1)
type Resizer interface {
	Name() string
	Resize(img image.Image, scale float64) (image.Image, error)
}

// TargetSize validates scale and returns the output size every Resizer must
// produce for an image with the given bounds.
func TargetSize(bounds image.Rectangle, scale float64) (image.Point, error) {
	if err := resample.ValidateScale(scale); err != nil {
		return image.Point{}, err
	}
	if bounds.Empty() {
		return image.Point{}, errors.WrapPrefix(consts.ErrInvalidImage, `empty bounds`, 0)
	}
	w, h := resample.TargetDims(bounds.Dx(), bounds.Dy(), scale)
	return image.Point{X: w, Y: h}, nil
}

// ToNRGBA returns img if it already is a *image.NRGBA at the origin,
// otherwise a converted copy.
func ToNRGBA(img image.Image) *image.NRGBA {
	if m, ok := img.(*image.NRGBA); ok && m.Rect.Min == (image.Point{}) {
		return m
	}
	buf, err := resample.FromImage(img)
	if err != nil {
		return nil
	}
	return buf.Image()
}

var (
	resizersMu         sync.RWMutex
	resizersRegistered = make(map[string]Resizer)
)

// NormalizeName maps names like "CatmullRom" or " xdraw_bilinear" to the
// kebab-case registry key.
func NormalizeName(name string) string { return strcase.ToKebab(strings.TrimSpace(name)) }

// Register adds rsz to the registry, replacing a resizer of the same name.
func Register(rsz Resizer) {
	if rsz == nil {
		return
	}
	resizersMu.Lock()
	defer resizersMu.Unlock()
	resizersRegistered[NormalizeName(rsz.Name())] = rsz
}

// Get ...
func Get(name string) (Resizer, error) {
	resizersMu.RLock()
	defer resizersMu.RUnlock()
	rsz, ok := resizersRegistered[NormalizeName(name)]
	if !ok {
		return nil, errors.WrapPrefix(ErrUnknownResizer, `"`+name+`"`, 0)
	}
	return rsz, nil
}

// Names returns the sorted names of all registered resizers.
func Names() []string {
	resizersMu.RLock()
	defer resizersMu.RUnlock()
	names := make([]string, 0, len(resizersRegistered))
	for name := range resizersRegistered {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
