package watch

import (
	"log/slog"
	"time"

	"github.com/srlehn/boxscale/internal/errors"
	"github.com/srlehn/boxscale/process"
)

type Option interface {
	ApplyOption(w *Watcher) error
}

var _ Option = (OptFunc)(nil)

type OptFunc func(*Watcher) error

func (o OptFunc) ApplyOption(w *Watcher) error { return o(w) }

// SetDebounce sets how long a file must stay quiet before it is processed.
func SetDebounce(d time.Duration) Option {
	return OptFunc(func(w *Watcher) error {
		if d < 0 {
			return errors.Errorf(`negative debounce %s`, d)
		}
		w.debounce = d
		return nil
	})
}

// SetRequest sets the scale or bounds for every file.
func SetRequest(req process.Request) Option {
	return OptFunc(func(w *Watcher) error { w.req = req; return nil })
}

// SetCallback is called after each file, also for failures.
func SetCallback(fn func(Event)) Option {
	return OptFunc(func(w *Watcher) error { w.onEvent = fn; return nil })
}

func SetSLogger(h slog.Handler, enable bool) Option {
	return OptFunc(func(w *Watcher) error {
		if enable {
			if h == nil {
				w.logger = slog.Default()
			} else {
				w.logger = slog.New(h)
			}
		} else {
			w.logger = nil
		}
		return nil
	})
}
