package watch

import (
	"time"
)

// debouncer delays a name until no touch for it arrived within delay.
// It is owned by a single goroutine except for the timer callbacks, which
// only send on fired.
type debouncer struct {
	delay   time.Duration
	pending map[string]*debounceEntry
	fired   chan firing
	quit    chan struct{}
}

type debounceEntry struct {
	timer *time.Timer
}

type firing struct {
	name  string
	entry *debounceEntry
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{
		delay:   delay,
		pending: make(map[string]*debounceEntry),
		fired:   make(chan firing),
		quit:    make(chan struct{}),
	}
}

// touch (re)starts the delay for name. A timer that already fired is not
// reset: its send may be blocked on fired, and resetting would deliver the
// name twice. It is replaced instead and its delivery is dropped by done.
func (d *debouncer) touch(name string) {
	if e, ok := d.pending[name]; ok && e.timer.Stop() {
		e.timer.Reset(d.delay)
		return
	}
	e := &debounceEntry{}
	e.timer = time.AfterFunc(d.delay, func() {
		select {
		case d.fired <- firing{name: name, entry: e}:
		case <-d.quit:
		}
	})
	d.pending[name] = e
}

func (d *debouncer) cancel(name string) {
	if e, ok := d.pending[name]; ok {
		e.timer.Stop()
		delete(d.pending, name)
	}
}

// done reports whether f is the current timer of its name and forgets it.
func (d *debouncer) done(f firing) bool {
	if e, ok := d.pending[f.name]; !ok || e != f.entry {
		return false
	}
	delete(d.pending, f.name)
	return true
}

// stop cancels all timers and releases blocked deliveries. The debouncer
// must not be used afterwards.
func (d *debouncer) stop() {
	close(d.quit)
	for name, e := range d.pending {
		e.timer.Stop()
		delete(d.pending, name)
	}
}
