package boxscale_test

import (
	"image"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srlehn/boxscale"
	"github.com/srlehn/boxscale/codec"
	"github.com/srlehn/boxscale/internal/testutil"
)

func TestResize(t *testing.T) {
	m, err := boxscale.Resize(testutil.Gradient(10, 10), 0.3)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(3, 3), m.Bounds().Size())

	_, err = boxscale.Resize(testutil.Gradient(10, 10), 1)
	assert.ErrorIs(t, err, boxscale.ErrInvalidScale)
}

func TestResizeBytes(t *testing.T) {
	m, err := boxscale.ResizeBytes(testutil.PNG(t, testutil.Gradient(8, 4)), 0.5)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(4, 2), m.Bounds().Size())

	_, err = boxscale.ResizeBytes([]byte(`plain text`), 0.5)
	assert.ErrorIs(t, err, codec.ErrUnsupportedFormat)
}

func TestFit(t *testing.T) {
	m, scale, err := boxscale.Fit(testutil.Gradient(1000, 500), 0, 0)
	require.NoError(t, err)
	assert.Less(t, scale, 1.0)
	assert.LessOrEqual(t, m.Bounds().Dx(), 250)
	assert.LessOrEqual(t, m.Bounds().Dy(), 300)

	scale, ok := boxscale.FitScale(100, 100, 250, 300)
	assert.False(t, ok)
	assert.Equal(t, 1.0, scale)
}

func TestFiles(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, `src.png`)
	testutil.WritePNG(t, src, testutil.Gradient(600, 600))

	dst := filepath.Join(dir, `half.jpg`)
	require.NoError(t, boxscale.ResizeFile(src, dst, 0.5))
	img, format, err := codec.DecodeFile(dst)
	require.NoError(t, err)
	assert.Equal(t, `jpeg`, format)
	assert.Equal(t, image.Pt(300, 300), img.Bounds().Size())

	dst = filepath.Join(dir, `fit.png`)
	require.NoError(t, boxscale.FitFile(src, dst, 0, 0))
	img, _, err = codec.DecodeFile(dst)
	require.NoError(t, err)
	assert.LessOrEqual(t, img.Bounds().Dx(), 250)
}
