// Package codec decodes and encodes the container formats around the
// resampler. It is the only place that knows about file formats.
package codec

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder

	"github.com/srlehn/boxscale/internal/consts"
	"github.com/srlehn/boxscale/internal/errors"
)

var (
	ErrUnsupportedFormat = consts.ErrUnsupportedFormat
	ErrImageTooLarge     = consts.ErrImageTooLarge
)

// mime types of the registered decoders
var decodableMIMEs = []string{
	`image/png`,
	`image/jpeg`,
	`image/gif`,
	`image/bmp`,
	`image/tiff`,
	`image/webp`,
}

var decodableExts = map[string]struct{}{
	`png`: {}, `jpg`: {}, `jpeg`: {}, `gif`: {}, `bmp`: {}, `tif`: {}, `tiff`: {}, `webp`: {},
}

// Decode reads an image in any registered format.
func Decode(r io.Reader) (image.Image, string, error) {
	if r == nil {
		return nil, ``, errors.NilParam()
	}
	img, format, err := image.Decode(r)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, ``, errors.WrapPrefix(ErrUnsupportedFormat, err.Error(), 0)
		}
		return nil, ``, errors.New(err)
	}
	return img, format, nil
}

// DecodeBytes is Decode for in-memory files. It sniffs the content first
// so that non-images fail with ErrUnsupportedFormat before any decoding.
func DecodeBytes(b []byte) (image.Image, string, error) {
	if mime, ok := Sniff(b); !ok {
		return nil, ``, errors.WrapPrefix(ErrUnsupportedFormat, `content type `+mime, 0)
	}
	return Decode(bytes.NewReader(b))
}

// DecodeConfigBytes reads only the header of an in-memory image.
func DecodeConfigBytes(b []byte) (image.Config, string, error) {
	if mime, ok := Sniff(b); !ok {
		return image.Config{}, ``, errors.WrapPrefix(ErrUnsupportedFormat, `content type `+mime, 0)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(b))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return image.Config{}, ``, errors.WrapPrefix(ErrUnsupportedFormat, err.Error(), 0)
		}
		return image.Config{}, ``, errors.New(err)
	}
	return cfg, format, nil
}

// DecodeBytesLimited is DecodeBytes refusing images with more than maxPixels
// pixels before their pixel data is allocated. A non-positive maxPixels
// disables the check.
func DecodeBytesLimited(b []byte, maxPixels int64) (image.Image, string, error) {
	cfg, _, err := DecodeConfigBytes(b)
	if err != nil {
		return nil, ``, err
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, ``, errors.WrapPrefix(consts.ErrInvalidImage, fmt.Sprintf(`%dx%d`, cfg.Width, cfg.Height), 0)
	}
	if maxPixels > 0 && int64(cfg.Width)*int64(cfg.Height) > maxPixels {
		return nil, ``, errors.WrapPrefix(ErrImageTooLarge, fmt.Sprintf(`%dx%d exceeds %d pixels`, cfg.Width, cfg.Height, maxPixels), 0)
	}
	return Decode(bytes.NewReader(b))
}

// DecodeFile opens and decodes the image at path.
func DecodeFile(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ``, errors.New(err)
	}
	defer f.Close()
	return Decode(f)
}

// Sniff detects the content type of b and reports whether a decoder for it
// is registered.
func Sniff(b []byte) (string, bool) {
	m := mimetype.Detect(b)
	for _, mime := range decodableMIMEs {
		if m.Is(mime) {
			return m.String(), true
		}
	}
	return m.String(), false
}

// Ext returns the lower case extension of a file name or format name
// without the leading dot. "photo.JPG", ".jpg" and "JPG" all yield "jpg".
func Ext(name string) string {
	// allow passing whole filename
	parts := strings.Split(name, `.`)
	return strings.ToLower(strings.TrimSpace(parts[len(parts)-1]))
}

// IsDecodable reports whether the extension of name belongs to a registered
// decoder.
func IsDecodable(name string) bool {
	_, ok := decodableExts[Ext(name)]
	return ok
}
