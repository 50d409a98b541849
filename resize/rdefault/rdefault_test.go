package rdefault_test

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srlehn/boxscale/internal/testutil"
	"github.com/srlehn/boxscale/resize"
	"github.com/srlehn/boxscale/resize/rdefault"
)

func TestNamesRegistered(t *testing.T) {
	names := rdefault.Names()
	for _, want := range []string{
		`box`, `box-premultiplied`, `box-normalized`,
		`xdraw-nearest-neighbor`, `xdraw-approx-bilinear`, `xdraw-bilinear`, `xdraw-catmull-rom`,
		`gift-box`, `gift-lanczos`,
		`imaging-box`, `imaging-lanczos`,
		`nfnt-bilinear`, `nfnt-lanczos`,
		`bild-box`, `bild-lanczos`,
		`rez-bilinear`, `caire`,
	} {
		assert.Contains(t, names, want)
	}
	assert.IsIncreasing(t, names)
}

func TestGet(t *testing.T) {
	for _, name := range []string{``, `default`, `box`, ` box `} {
		rsz, err := rdefault.Get(name)
		require.NoError(t, err, "name %q", name)
		assert.Equal(t, `box`, rsz.Name())
	}
	rsz, err := rdefault.Get(`xdraw_catmull_rom`)
	require.NoError(t, err)
	assert.Equal(t, `xdraw-catmull-rom`, rsz.Name())

	_, err = rdefault.Get(`no-such-scaler`)
	assert.ErrorIs(t, err, resize.ErrUnknownResizer)
}

func TestBackendsAgreeOnSizeAndUniformColor(t *testing.T) {
	src := testutil.Circle(64, 48, false)
	want := testutil.NRGBAAt(src, 0, 0)
	for _, name := range rdefault.Names() {
		if name == `caire` {
			continue // seam carving keeps no geometry to compare
		}
		t.Run(name, func(t *testing.T) {
			rsz, err := rdefault.Get(name)
			require.NoError(t, err)
			m, err := rsz.Resize(src, 0.5)
			require.NoError(t, err)
			require.Equal(t, image.Pt(32, 24), m.Bounds().Size())
			for y := 1; y < 23; y++ {
				for x := 1; x < 31; x++ {
					got := testutil.NRGBAAt(m, x, y)
					if !assert.LessOrEqual(t, testutil.MaxDiff(want, got), 2, "pixel (%d,%d): %v", x, y, got) {
						return
					}
				}
			}
		})
	}
}

func TestBackendsRejectInvalidScale(t *testing.T) {
	src := testutil.Circle(8, 8, false)
	for _, name := range rdefault.Names() {
		rsz, err := rdefault.Get(name)
		require.NoError(t, err)
		for _, scale := range []float64{0, 1, 2, -1} {
			_, err := rsz.Resize(src, scale)
			assert.Error(t, err, "%s at %v", name, scale)
		}
		_, err = rsz.Resize(nil, 0.5)
		assert.Error(t, err, name)
	}
}

func TestBoxMatchesImagingBoxAtHalf(t *testing.T) {
	src := testutil.Circle(80, 60, true)
	box, err := rdefault.Get(`box`)
	require.NoError(t, err)
	ref, err := rdefault.Get(`imaging-box`)
	require.NoError(t, err)
	a, err := box.Resize(src, 0.5)
	require.NoError(t, err)
	b, err := ref.Resize(src, 0.5)
	require.NoError(t, err)
	require.Equal(t, a.Bounds().Size(), b.Bounds().Size())
	// both average exact 2x2 blocks and only differ in rounding
	for y := 0; y < 30; y++ {
		for x := 0; x < 40; x++ {
			pa, pb := testutil.NRGBAAt(a, x, y), testutil.NRGBAAt(b, x, y)
			require.LessOrEqual(t, testutil.MaxDiff(pa, pb), 1, "pixel (%d,%d): %v vs %v", x, y, pa, pb)
		}
	}
}
