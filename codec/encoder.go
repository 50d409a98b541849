package codec

import (
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/srlehn/boxscale/internal/errors"
)

// DefaultJPEGQuality is used when MultiEncoder.JPEGQuality is out of range.
const DefaultJPEGQuality = 90

type Encoder interface {
	Encode(w io.Writer, img image.Image, fileExt string) error
}

var _ Encoder = (*MultiEncoder)(nil)

// MultiEncoder encodes by file extension.
type MultiEncoder struct {
	JPEGQuality int
}

func (e *MultiEncoder) Encode(w io.Writer, img image.Image, fileExt string) error {
	if w == nil || img == nil {
		return errors.NilParam()
	}
	fmtStr := Ext(fileExt)
	if len(fmtStr) == 0 {
		return errors.WrapPrefix(ErrUnsupportedFormat, `no file format specified`, 0)
	}
	var err error
	switch fmtStr {
	case `bmp`:
		err = bmp.Encode(w, img)
	case `gif`:
		err = gif.Encode(w, img, nil)
	case `png`:
		err = png.Encode(w, img)
	case `tif`, `tiff`:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.LZW, Predictor: true})
	case `jpg`, `jpeg`:
		q := DefaultJPEGQuality
		if e != nil && e.JPEGQuality > 0 && e.JPEGQuality <= 100 {
			q = e.JPEGQuality
		}
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: q})
	default:
		return errors.WrapPrefix(ErrUnsupportedFormat, `cannot encode "`+fmtStr+`"`, 0)
	}
	if err != nil {
		return errors.New(err)
	}
	return nil
}

// IsEncodable reports whether MultiEncoder can write the extension of name.
func IsEncodable(name string) bool {
	switch Ext(name) {
	case `bmp`, `gif`, `png`, `tif`, `tiff`, `jpg`, `jpeg`:
		return true
	}
	return false
}

// OutputExt maps a decoded format name (as returned by image.Decode) to the
// extension to write it back with. Formats without an encoder become png.
func OutputExt(format string) string {
	switch ext := Ext(format); ext {
	case `jpeg`:
		return `jpg`
	case ``:
		return `png`
	default:
		if IsEncodable(ext) {
			return ext
		}
		return `png`
	}
}
