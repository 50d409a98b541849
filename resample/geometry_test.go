package resample

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFootprintEnergy(t *testing.T) {
	var seen [2][2]bool
	for _, scale := range []float64{0.5, 0.37, 0.3, 0.61, 0.999, 0.01, 1. / 3} {
		n := 40
		cells := targetLen(n, scale)
		spans := projectAxis(n, scale, cells)
		for _, x := range spans {
			for _, y := range spans {
				cws, cnt := footprint(x, y)
				var sum float64
				for _, cw := range cws[:cnt] {
					assert.GreaterOrEqual(t, cw.w, 0.)
					sum += cw.w
				}
				assert.InDelta(t, scale*scale, sum, 1e-12, "scale %v, spans %+v %+v", scale, x, y)
				seen[b2i(x.cross)][b2i(y.cross)] = true
			}
		}
	}
	assert.Equal(t, [2][2]bool{{true, true}, {true, true}}, seen, "not every crossing case was exercised")
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

func TestFootprintCases(t *testing.T) {
	scale := 0.4
	noCross := project(0, scale, 2) // [0, 0.4)
	cross := project(2, scale, 2)   // [0.8, 1.2)
	require.False(t, noCross.cross)
	require.True(t, cross.cross)
	assert.InDelta(t, 0.2, cross.w, 1e-12)
	assert.InDelta(t, 0.2, cross.nw, 1e-12)

	tests := []struct {
		name string
		x, y span
		want []cellWeight
	}{
		{"none", noCross, noCross, []cellWeight{{0, 0, scale * scale}}},
		{"x", cross, noCross, []cellWeight{{0, 0, 0.2 * scale}, {1, 0, 0.2 * scale}}},
		{"y", noCross, cross, []cellWeight{{0, 0, 0.2 * scale}, {0, 1, 0.2 * scale}}},
		{"both", cross, cross, []cellWeight{{0, 0, 0.04}, {1, 0, 0.04}, {0, 1, 0.04}, {1, 1, 0.04}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cws, n := footprint(tt.x, tt.y)
			require.Equal(t, len(tt.want), n)
			for i, want := range tt.want {
				assert.Equal(t, want.x, cws[i].x)
				assert.Equal(t, want.y, cws[i].y)
				assert.InDelta(t, want.w, cws[i].w, 1e-12)
			}
		})
	}
}

func TestProjectLastCell(t *testing.T) {
	// [0.5, 1.0) ends exactly on the border of a single cell
	s := project(1, 0.5, 1)
	assert.False(t, s.cross)
	assert.Equal(t, 0, s.cell)
	assert.Equal(t, 0.5, s.w)

	// the same footprint before another cell crosses with zero weight
	s = project(1, 0.5, 2)
	assert.True(t, s.cross)
	assert.Equal(t, 0.5, s.w)
	assert.Equal(t, 0., s.nw)
}

func TestProjectPanicsOnSpill(t *testing.T) {
	// [0.75, 1.5) cannot fit into a single cell
	assert.Panics(t, func() { project(1, 0.75, 1) })
}

func TestAccumulatorOffset(t *testing.T) {
	a := newAccumulator(3, 2)
	assert.Equal(t, 0, a.offset(0, 0, 0))
	assert.Equal(t, 7, a.offset(1, 0, 3))
	assert.Equal(t, 4*(1*3+2)+2, a.offset(2, 1, 2))
	assert.Panics(t, func() { a.offset(3, 0, 0) })
	assert.Panics(t, func() { a.offset(0, 2, 0) })
	assert.Panics(t, func() { a.offset(0, 0, 4) })
	assert.Panics(t, func() { a.offset(-1, 0, 0) })
}

func TestToByte(t *testing.T) {
	assert.Equal(t, byte(0), toByte(-3))
	assert.Equal(t, byte(0), toByte(0))
	assert.Equal(t, byte(1), toByte(0.0001))
	assert.Equal(t, byte(128), toByte(127.5))
	assert.Equal(t, byte(255), toByte(254.2))
	assert.Equal(t, byte(255), toByte(300))
}
