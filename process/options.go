package process

import (
	"log/slog"

	"github.com/srlehn/boxscale/codec"
	"github.com/srlehn/boxscale/internal/errors"
	"github.com/srlehn/boxscale/resize"
	"github.com/srlehn/boxscale/resize/rdefault"
)

type Option interface {
	ApplyOption(p *Processor) error
}

var _ Option = (OptFunc)(nil)

type OptFunc func(*Processor) error

func (o OptFunc) ApplyOption(p *Processor) error { return o(p) }

var _ Option = (Options)(nil)

type Options []Option

func (o Options) ApplyOption(p *Processor) error { return p.SetOptions([]Option(o)...) }

func (p *Processor) SetOptions(opts ...Option) error {
	if p == nil {
		return errors.NilReceiver()
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.ApplyOption(p); err != nil {
			return errors.New(err)
		}
	}
	return nil
}

func SetResizer(rsz resize.Resizer) Option {
	return OptFunc(func(p *Processor) error {
		if rsz == nil {
			return errors.NilParam()
		}
		p.resizer = rsz
		return nil
	})
}

// SetResizerName selects a registered resizer, the box filter for an empty name.
func SetResizerName(name string) Option {
	return OptFunc(func(p *Processor) error {
		rsz, err := rdefault.Get(name)
		if err != nil {
			return err
		}
		p.resizer = rsz
		return nil
	})
}

func SetEncoder(enc codec.Encoder) Option {
	return OptFunc(func(p *Processor) error {
		if enc == nil {
			return errors.NilParam()
		}
		p.encoder = enc
		return nil
	})
}

// SetMaxSize sets the bounds images are fit into when no scale is requested.
// Non-positive values keep the defaults.
func SetMaxSize(width, height int) Option {
	return OptFunc(func(p *Processor) error {
		if width > 0 {
			p.maxWidth = width
		}
		if height > 0 {
			p.maxHeight = height
		}
		return nil
	})
}

// SetFormat forces the output format. Empty keeps the input format where
// an encoder exists.
func SetFormat(format string) Option {
	return OptFunc(func(p *Processor) error {
		if len(format) == 0 {
			p.format = ``
			return nil
		}
		if !codec.IsEncodable(format) {
			return errors.WrapPrefix(codec.ErrUnsupportedFormat, `output format "`+format+`"`, 0)
		}
		p.format = codec.OutputExt(format)
		return nil
	})
}

func SetSLogger(h slog.Handler, enable bool) Option {
	return OptFunc(func(p *Processor) error {
		if enable {
			if h == nil {
				p.logger = slog.Default()
			} else {
				p.logger = slog.New(h)
			}
		} else {
			p.logger = nil
		}
		return nil
	})
}
