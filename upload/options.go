package upload

import (
	"log/slog"

	"github.com/srlehn/boxscale/internal/errors"
)

type Option interface {
	ApplyOption(s *Server) error
}

var _ Option = (OptFunc)(nil)

type OptFunc func(*Server) error

func (o OptFunc) ApplyOption(s *Server) error { return o(s) }

func (s *Server) SetOptions(opts ...Option) error {
	if s == nil {
		return errors.NilReceiver()
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.ApplyOption(s); err != nil {
			return errors.New(err)
		}
	}
	return nil
}

// SetAddr sets the listen address used by ListenAndServe.
func SetAddr(addr string) Option {
	return OptFunc(func(s *Server) error { s.addr = addr; return nil })
}

// SetOutputDir sets the directory uploaded images are written to.
func SetOutputDir(dir string) Option {
	return OptFunc(func(s *Server) error {
		if len(dir) == 0 {
			return errors.New(`empty output directory`)
		}
		s.outDir = dir
		return nil
	})
}

// SetStaticDir serves dir at "/". Empty disables static files.
func SetStaticDir(dir string) Option {
	return OptFunc(func(s *Server) error { s.staticDir = dir; return nil })
}

// SetMaxUploadBytes limits the size of a whole upload request.
func SetMaxUploadBytes(n int64) Option {
	return OptFunc(func(s *Server) error {
		if n <= 0 {
			return errors.Errorf(`upload size limit must be positive, got %d`, n)
		}
		s.maxBytes = n
		return nil
	})
}

// SetMaxFiles limits the number of images per request.
func SetMaxFiles(n int) Option {
	return OptFunc(func(s *Server) error {
		if n <= 0 {
			return errors.Errorf(`file limit must be positive, got %d`, n)
		}
		s.maxFiles = n
		return nil
	})
}

// SetMaxPixels limits the width times height of a decoded image. Larger
// images are rejected from their header alone.
func SetMaxPixels(n int64) Option {
	return OptFunc(func(s *Server) error {
		if n <= 0 {
			return errors.Errorf(`pixel limit must be positive, got %d`, n)
		}
		s.maxPixels = n
		return nil
	})
}

func SetSLogger(h slog.Handler, enable bool) Option {
	return OptFunc(func(s *Server) error {
		if enable {
			if h == nil {
				s.logger = slog.Default()
			} else {
				s.logger = slog.New(h)
			}
		} else {
			s.logger = nil
		}
		return nil
	})
}

// setNameFunc replaces the random file name generator.
func setNameFunc(fn func() string) Option {
	return OptFunc(func(s *Server) error {
		if fn == nil {
			return errors.NilParam()
		}
		s.newName = fn
		return nil
	})
}
