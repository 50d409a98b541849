// Package watch downscales images dropped into a directory.
package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/srlehn/boxscale/codec"
	"github.com/srlehn/boxscale/internal/errors"
	"github.com/srlehn/boxscale/internal/logx"
	"github.com/srlehn/boxscale/process"
)

const DefaultDebounce = 500 * time.Millisecond

// Event reports one processed file.
type Event struct {
	Src    string
	Result process.Result
	Err    error
}

type Watcher struct {
	proc     *process.Processor
	inDir    string
	outDir   string
	debounce time.Duration
	req      process.Request
	onEvent  func(Event)
	logger   *slog.Logger
}

var _ logx.LoggerProvider = (*Watcher)(nil)

// New watches inDir and writes into outDir, which must differ from inDir.
func New(proc *process.Processor, inDir, outDir string, opts ...Option) (*Watcher, error) {
	if proc == nil {
		return nil, errors.NilParam()
	}
	if len(inDir) == 0 || len(outDir) == 0 {
		return nil, errors.New(`input and output directory required`)
	}
	absIn, err := filepath.Abs(inDir)
	if err != nil {
		return nil, errors.New(err)
	}
	absOut, err := filepath.Abs(outDir)
	if err != nil {
		return nil, errors.New(err)
	}
	if absIn == absOut {
		return nil, errors.Errorf(`output directory %s is the watched directory`, outDir)
	}
	w := &Watcher{
		proc:     proc,
		inDir:    absIn,
		outDir:   absOut,
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.ApplyOption(w); err != nil {
			return nil, errors.New(err)
		}
	}
	return w, nil
}

func (w *Watcher) Logger() *slog.Logger {
	if w == nil {
		return nil
	}
	return w.logger
}

// Run blocks until ctx is done. Files are processed one at a time once no
// further event for them arrived within the debounce interval.
func (w *Watcher) Run(ctx context.Context) error {
	if w == nil {
		return errors.NilReceiver()
	}
	if err := os.MkdirAll(w.outDir, 0o755); err != nil {
		return errors.New(err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.New(err)
	}
	defer fsw.Close()
	if err := fsw.Add(w.inDir); err != nil {
		return errors.WrapPrefix(err, `watch `+w.inDir, 0)
	}
	logx.Info(`watching`, w, `dir`, w.inDir, `out`, w.outDir, `debounce`, w.debounce)

	deb := newDebouncer(w.debounce)
	defer deb.stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
				deb.cancel(ev.Name)
				continue
			}
			if !(ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write)) || !isCandidate(ev.Name) {
				continue
			}
			deb.touch(ev.Name)
		case f := <-deb.fired:
			if deb.done(f) {
				w.handle(ctx, f.name)
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logx.Warn(`watcher error`, w, `err`, err)
		}
	}
}

// isCandidate skips hidden files (editor and upload temporaries) and
// anything without a decoder.
func isCandidate(name string) bool {
	base := filepath.Base(name)
	if strings.HasPrefix(base, `.`) {
		return false
	}
	return codec.IsDecodable(base)
}

func (w *Watcher) handle(ctx context.Context, name string) {
	fi, err := os.Stat(name)
	if err != nil || !fi.Mode().IsRegular() {
		return
	}
	res, err := w.proc.File(ctx, name, w.outDir, w.req)
	if err != nil {
		logx.IsErr(err, w, slog.LevelError, `src`, name)
	} else {
		logx.Debug(`processed`, w, `src`, name, `dst`, res.Dst)
	}
	if w.onEvent != nil {
		w.onEvent(Event{Src: name, Result: res, Err: err})
	}
}
