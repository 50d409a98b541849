package watch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const testDelay = 20 * time.Millisecond

func receive(t *testing.T, d *debouncer) firing {
	t.Helper()
	select {
	case f := <-d.fired:
		return f
	case <-time.After(time.Second):
		t.Fatal(`no delivery`)
		return firing{}
	}
}

func assertQuiet(t *testing.T, d *debouncer) {
	t.Helper()
	select {
	case f := <-d.fired:
		assert.False(t, d.done(f), `unexpected delivery of %s`, f.name)
	case <-time.After(5 * testDelay):
	}
}

func TestDebounceCoalesces(t *testing.T) {
	d := newDebouncer(testDelay)
	defer d.stop()
	d.touch(`a.png`)
	time.Sleep(testDelay / 4)
	d.touch(`a.png`)
	d.touch(`b.png`)

	got := map[string]int{}
	for len(got) < 2 {
		if f := receive(t, d); d.done(f) {
			got[f.name]++
		}
	}
	assert.Equal(t, map[string]int{`a.png`: 1, `b.png`: 1}, got)
	assertQuiet(t, d)
}

func TestDebounceTouchAfterFire(t *testing.T) {
	d := newDebouncer(testDelay)
	defer d.stop()
	d.touch(`a.png`)
	// the timer fires and blocks on the unbuffered channel
	time.Sleep(5 * testDelay)
	d.touch(`a.png`)

	var accepted int
	for range 2 {
		if d.done(receive(t, d)) {
			accepted++
		}
	}
	assert.Equal(t, 1, accepted)
	assertQuiet(t, d)
}

func TestDebounceCancel(t *testing.T) {
	d := newDebouncer(testDelay)
	defer d.stop()
	d.touch(`a.png`)
	d.cancel(`a.png`)
	assertQuiet(t, d)

	// a delivery already pending when cancelled is stale
	d.touch(`b.png`)
	time.Sleep(5 * testDelay)
	d.cancel(`b.png`)
	assert.False(t, d.done(receive(t, d)))
}

func TestDebounceStopReleases(t *testing.T) {
	d := newDebouncer(testDelay)
	d.touch(`a.png`)
	time.Sleep(5 * testDelay)
	d.stop()
	assert.Empty(t, d.pending)
}
