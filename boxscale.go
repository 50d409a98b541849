// Package boxscale downscales images with an area-weighted box filter.
//
// The package level functions use a shared Processor with the default
// settings: the box filter, output in the input format and fitting into
// 250x300 pixels. See the process package for more control.
package boxscale

import (
	"context"
	"image"
	"sync"

	"github.com/srlehn/boxscale/codec"
	"github.com/srlehn/boxscale/process"
	"github.com/srlehn/boxscale/resample"
	"github.com/srlehn/boxscale/resize/rdefault"
)

var (
	ErrInvalidScale      = resample.ErrInvalidScale
	ErrUnsupportedFormat = codec.ErrUnsupportedFormat
)

var (
	// chosen defaults
	DefaultConfig = process.Options{
		process.SetResizer(rdefault.Resizer()),
		process.SetEncoder(&codec.MultiEncoder{JPEGQuality: codec.DefaultJPEGQuality}),
	}
)

var (
	procActive *process.Processor
	procErr    error
	procOnce   sync.Once
)

// Processor returns the shared default processor.
func Processor() (*process.Processor, error) {
	procOnce.Do(func() {
		procActive, procErr = process.New(DefaultConfig)
	})
	return procActive, procErr
}

// Resize downscales img by scale in (0,1).
func Resize(img image.Image, scale float64) (image.Image, error) {
	p, err := Processor()
	if err != nil {
		return nil, err
	}
	return p.Scale(img, scale)
}

// ResizeBytes decodes an encoded image and downscales it. For use with
// "embed", etc.
func ResizeBytes(imgBytes []byte, scale float64) (image.Image, error) {
	img, _, err := codec.DecodeBytes(imgBytes)
	if err != nil {
		return nil, err
	}
	return Resize(img, scale)
}

// Fit downscales img to fit into maxWidth x maxHeight, returning img itself
// with scale 1 if it already fits. Non-positive bounds select 250x300.
func Fit(img image.Image, maxWidth, maxHeight int) (image.Image, float64, error) {
	p, err := Processor()
	if err != nil {
		return nil, 0, err
	}
	return p.Fit(img, maxWidth, maxHeight)
}

// FitScale ...
func FitScale(width, height, maxWidth, maxHeight int) (float64, bool) {
	return resample.FitScale(width, height, maxWidth, maxHeight)
}

// ResizeFile downscales the image file src by scale and writes it to dst,
// encoded by the extension of dst.
func ResizeFile(src, dst string, scale float64) error {
	p, err := Processor()
	if err != nil {
		return err
	}
	_, err = p.File(context.Background(), src, dst, process.Request{Scale: scale})
	return err
}

// FitFile is ResizeFile fitting into maxWidth x maxHeight.
func FitFile(src, dst string, maxWidth, maxHeight int) error {
	p, err := Processor()
	if err != nil {
		return err
	}
	_, err = p.File(context.Background(), src, dst, process.Request{MaxWidth: maxWidth, MaxHeight: maxHeight})
	return err
}
