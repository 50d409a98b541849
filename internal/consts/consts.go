package consts

import (
	"errors"
)

var (
	ErrNilReceiver       = errors.New(`nil receiver`)
	ErrNilParam          = errors.New(`nil parameter`)
	ErrNilImage          = errors.New(`nil image`)
	ErrInvalidScale      = errors.New(`invalid scale: must be finite and strictly between 0 and 1`)
	ErrInvalidImage      = errors.New(`invalid image`)
	ErrUnsupportedFormat = errors.New(`unsupported image format`)
	ErrUnknownResizer    = errors.New(`unknown resizer`)
	ErrOutputCollision   = errors.New(`sources map to the same output file`)
	ErrImageTooLarge     = errors.New(`image dimensions exceed the limit`)
)

const (
	LibraryName = `boxscale`

	ResizerDefaultName = `box`

	// defaults of the upload form directive
	DefaultMaxWidth  = 250
	DefaultMaxHeight = 300

	// decoded pixels accepted from untrusted input, 8000x5000
	DefaultMaxPixels = 40_000_000
)
