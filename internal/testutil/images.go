// Package testutil draws and encodes fixture images for tests.
package testutil

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"os"
	"testing"

	"github.com/fogleman/gg"
)

// Uniform is a w x h image filled with c.
func Uniform(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// Gradient varies red along x and green along y.
func Gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 255 / max(w-1, 1)), G: uint8(y * 255 / max(h-1, 1)), B: 128, A: 255})
		}
	}
	return img
}

// Circle is a green disc on a crimson background, or only the background.
func Circle(w, h int, disc bool) image.Image {
	dc := gg.NewContext(w, h)
	dc.SetRGB255(200, 40, 90)
	dc.Clear()
	if disc {
		dc.SetRGB255(20, 220, 60)
		dc.DrawCircle(float64(w)/2, float64(h)/2, float64(min(w, h))/3)
		dc.Fill()
	}
	return dc.Image()
}

func PNG(tb testing.TB, img image.Image) []byte {
	tb.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		tb.Fatal(err)
	}
	return buf.Bytes()
}

// ForgedPNG is a valid 1x1 PNG whose header claims w x h pixels.
func ForgedPNG(tb testing.TB, w, h uint32) []byte {
	tb.Helper()
	b := PNG(tb, Uniform(1, 1, color.NRGBA{A: 255}))
	// signature, chunk length, "IHDR", width, height
	if string(b[12:16]) != `IHDR` {
		tb.Fatal(`IHDR is not the first chunk`)
	}
	binary.BigEndian.PutUint32(b[16:20], w)
	binary.BigEndian.PutUint32(b[20:24], h)
	binary.BigEndian.PutUint32(b[29:33], crc32.ChecksumIEEE(b[12:29]))
	return b
}

func WritePNG(tb testing.TB, path string, img image.Image) {
	tb.Helper()
	if err := os.WriteFile(path, PNG(tb, img), 0o644); err != nil {
		tb.Fatal(err)
	}
}

// NRGBAAt reads a pixel relative to the bounds origin.
func NRGBAAt(img image.Image, x, y int) color.NRGBA {
	b := img.Bounds()
	return color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
}

// MaxDiff is the largest channel difference.
func MaxDiff(a, b color.NRGBA) int {
	diff := func(a, b uint8) int {
		if a > b {
			return int(a - b)
		}
		return int(b - a)
	}
	return max(diff(a.R, b.R), diff(a.G, b.G), diff(a.B, b.B), diff(a.A, b.A))
}
