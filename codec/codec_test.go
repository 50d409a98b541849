package codec_test

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srlehn/boxscale/codec"
	"github.com/srlehn/boxscale/internal/testutil"
)

func testImage() *image.NRGBA {
	m := image.NewNRGBA(image.Rect(0, 0, 5, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 5; x++ {
			m.SetNRGBA(x, y, color.NRGBA{uint8(40 * x), uint8(80 * y), 7, 255})
		}
	}
	return m
}

func TestEncodeDecode(t *testing.T) {
	enc := &codec.MultiEncoder{JPEGQuality: 95}
	for _, ext := range []string{`png`, `.jpg`, `out.JPEG`, `gif`, `bmp`, `tiff`} {
		t.Run(ext, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, enc.Encode(&buf, testImage(), ext))
			mime, ok := codec.Sniff(buf.Bytes())
			assert.True(t, ok, mime)
			img, _, err := codec.DecodeBytes(buf.Bytes())
			require.NoError(t, err)
			assert.Equal(t, image.Pt(5, 3), img.Bounds().Size())
		})
	}
	var buf bytes.Buffer
	require.NoError(t, enc.Encode(&buf, testImage(), `png`))
	img, format, err := codec.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, `png`, format)
	assert.Equal(t, testImage().NRGBAAt(4, 2), color.NRGBAModel.Convert(img.At(4, 2)))
}

func TestEncodeUnsupported(t *testing.T) {
	enc := &codec.MultiEncoder{}
	var buf bytes.Buffer
	assert.ErrorIs(t, enc.Encode(&buf, testImage(), `webp`), codec.ErrUnsupportedFormat)
	assert.ErrorIs(t, enc.Encode(&buf, testImage(), ``), codec.ErrUnsupportedFormat)
	assert.Error(t, enc.Encode(&buf, nil, `png`))
	assert.Zero(t, buf.Len())
}

func TestDecodeRejectsNonImages(t *testing.T) {
	_, _, err := codec.DecodeBytes([]byte("hello, not an image\n"))
	assert.ErrorIs(t, err, codec.ErrUnsupportedFormat)
	_, _, err = codec.Decode(bytes.NewReader([]byte("GIF89a but truncated")))
	assert.Error(t, err)
	mime, ok := codec.Sniff([]byte(`{"json": true}`))
	assert.False(t, ok)
	assert.Contains(t, mime, `json`)
}

func TestDecodeBytesLimited(t *testing.T) {
	cfg, format, err := codec.DecodeConfigBytes(testutil.ForgedPNG(t, 40000, 30000))
	require.NoError(t, err)
	assert.Equal(t, `png`, format)
	assert.Equal(t, 40000, cfg.Width)
	assert.Equal(t, 30000, cfg.Height)

	_, _, err = codec.DecodeBytesLimited(testutil.ForgedPNG(t, 40000, 30000), 40_000_000)
	assert.ErrorIs(t, err, codec.ErrImageTooLarge)

	b := testutil.PNG(t, testImage())
	_, _, err = codec.DecodeBytesLimited(b, 14)
	assert.ErrorIs(t, err, codec.ErrImageTooLarge)
	img, _, err := codec.DecodeBytesLimited(b, 15)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 5, 3), img.Bounds())
	img, _, err = codec.DecodeBytesLimited(b, 0)
	require.NoError(t, err)
	assert.Equal(t, 5, img.Bounds().Dx())

	_, _, err = codec.DecodeBytesLimited([]byte("plain text"), 100)
	assert.ErrorIs(t, err, codec.ErrUnsupportedFormat)
}

func TestDecodeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), `in.png`)
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, (&codec.MultiEncoder{}).Encode(f, testImage(), path))
	require.NoError(t, f.Close())
	img, format, err := codec.DecodeFile(path)
	require.NoError(t, err)
	assert.Equal(t, `png`, format)
	assert.Equal(t, 5, img.Bounds().Dx())

	_, _, err = codec.DecodeFile(filepath.Join(t.TempDir(), `missing.png`))
	assert.Error(t, err)
}

func TestExt(t *testing.T) {
	assert.Equal(t, `jpg`, codec.Ext(`photo.JPG`))
	assert.Equal(t, `jpg`, codec.Ext(`.jpg`))
	assert.Equal(t, `png`, codec.Ext(`PNG`))
	assert.Equal(t, `gz`, codec.Ext(`a.tar.gz`))
	assert.True(t, codec.IsDecodable(`x.webp`))
	assert.False(t, codec.IsDecodable(`x.txt`))
	assert.False(t, codec.IsEncodable(`x.webp`))
	assert.Equal(t, `jpg`, codec.OutputExt(`jpeg`))
	assert.Equal(t, `png`, codec.OutputExt(`webp`))
	assert.Equal(t, `gif`, codec.OutputExt(`gif`))
}
