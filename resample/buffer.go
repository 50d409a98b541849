package resample

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/srlehn/boxscale/internal/consts"
	"github.com/srlehn/boxscale/internal/errors"
)

// channels per pixel: R, G, B, A
const channels = 4

// PixelBuffer is a tightly packed, row-major 8-bit RGBA image with straight
// (non-premultiplied) alpha. Its layout is that of image.NRGBA.Pix with a
// stride of 4*Width.
type PixelBuffer struct {
	Width  int
	Height int
	Pix    []byte
}

// NewPixelBuffer allocates a zeroed buffer of the given dimensions.
func NewPixelBuffer(width, height int) (*PixelBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.WrapPrefix(consts.ErrInvalidImage, fmt.Sprintf(`dimensions %dx%d`, width, height), 0)
	}
	return &PixelBuffer{
		Width:  width,
		Height: height,
		Pix:    make([]byte, channels*width*height),
	}, nil
}

// Validate checks the dimensions and the buffer length.
func (b *PixelBuffer) Validate() error {
	if b == nil {
		return errors.WrapPrefix(consts.ErrInvalidImage, `nil pixel buffer`, 0)
	}
	if b.Width <= 0 || b.Height <= 0 {
		return errors.WrapPrefix(consts.ErrInvalidImage, fmt.Sprintf(`dimensions %dx%d`, b.Width, b.Height), 0)
	}
	if want := channels * b.Width * b.Height; len(b.Pix) != want {
		return errors.WrapPrefix(consts.ErrInvalidImage, fmt.Sprintf(`buffer length %d, expected %d for %dx%d`, len(b.Pix), want, b.Width, b.Height), 0)
	}
	return nil
}

// Offset returns the index of the red channel of pixel (x, y).
func (b *PixelBuffer) Offset(x, y int) int { return channels * (y*b.Width + x) }

// At returns the pixel at (x, y).
func (b *PixelBuffer) At(x, y int) color.NRGBA {
	o := b.Offset(x, y)
	s := b.Pix[o : o+channels : o+channels]
	return color.NRGBA{R: s[0], G: s[1], B: s[2], A: s[3]}
}

// Set stores c at (x, y).
func (b *PixelBuffer) Set(x, y int, c color.NRGBA) {
	o := b.Offset(x, y)
	s := b.Pix[o : o+channels : o+channels]
	s[0], s[1], s[2], s[3] = c.R, c.G, c.B, c.A
}

// Image wraps the buffer without copying. Modifications are shared.
func (b *PixelBuffer) Image() *image.NRGBA {
	if b == nil {
		return nil
	}
	return &image.NRGBA{
		Pix:    b.Pix,
		Stride: channels * b.Width,
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}
}

// FromImage copies img into a new PixelBuffer, converting to straight RGBA.
func FromImage(img image.Image) (*PixelBuffer, error) {
	if img == nil {
		return nil, errors.New(consts.ErrNilImage)
	}
	bounds := img.Bounds()
	buf, err := NewPixelBuffer(bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, err
	}
	if m, ok := img.(*image.NRGBA); ok {
		rowLen := channels * buf.Width
		for y := 0; y < buf.Height; y++ {
			o := m.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			copy(buf.Pix[y*rowLen:(y+1)*rowLen], m.Pix[o:o+rowLen])
		}
		return buf, nil
	}
	dst := buf.Image()
	draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)
	return buf, nil
}
