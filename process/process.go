// Package process runs images through decoding, downscaling and encoding.
package process

import (
	"context"
	"image"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/srlehn/boxscale/codec"
	"github.com/srlehn/boxscale/internal/consts"
	"github.com/srlehn/boxscale/internal/errors"
	"github.com/srlehn/boxscale/internal/logx"
	"github.com/srlehn/boxscale/resample"
	"github.com/srlehn/boxscale/resize"
	"github.com/srlehn/boxscale/resize/rdefault"
)

// Processor is safe for concurrent use once configured.
type Processor struct {
	resizer   resize.Resizer
	encoder   codec.Encoder
	maxWidth  int
	maxHeight int
	format    string
	logger    *slog.Logger
}

var _ logx.LoggerProvider = (*Processor)(nil)

// New returns a Processor using the box filter, fitting into 250x300 and
// keeping the input format, configured further by opts.
func New(opts ...Option) (*Processor, error) {
	p := &Processor{
		resizer:   rdefault.Resizer(),
		encoder:   &codec.MultiEncoder{},
		maxWidth:  consts.DefaultMaxWidth,
		maxHeight: consts.DefaultMaxHeight,
	}
	if err := p.SetOptions(opts...); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Processor) Logger() *slog.Logger {
	if p == nil {
		return nil
	}
	return p.logger
}

// Resizer ...
func (p *Processor) Resizer() resize.Resizer { return p.resizer }

// Request selects how an image is downscaled: by Scale, or when Scale is 0,
// by fitting it into MaxWidth x MaxHeight (processor defaults for zeros).
type Request struct {
	Scale     float64
	MaxWidth  int
	MaxHeight int
}

// Result describes one processed image.
type Result struct {
	Src     string
	Dst     string
	SrcSize image.Point
	DstSize image.Point
	Scale   float64
	Resized bool
}

// Scale downscales img by scale.
func (p *Processor) Scale(img image.Image, scale float64) (image.Image, error) {
	if p == nil {
		return nil, errors.NilReceiver()
	}
	if img == nil {
		return nil, errors.New(consts.ErrNilImage)
	}
	return logx.TimeIt2(func() (image.Image, error) {
		return p.resizer.Resize(img, scale)
	}, `resize`, p, `resizer`, p.resizer.Name(), `scale`, scale, `size`, img.Bounds().Size())
}

// Fit downscales img to fit into maxWidth x maxHeight. Images that already
// fit are returned unchanged with scale 1.
func (p *Processor) Fit(img image.Image, maxWidth, maxHeight int) (image.Image, float64, error) {
	if p == nil {
		return nil, 0, errors.NilReceiver()
	}
	if img == nil {
		return nil, 0, errors.New(consts.ErrNilImage)
	}
	if maxWidth <= 0 {
		maxWidth = p.maxWidth
	}
	if maxHeight <= 0 {
		maxHeight = p.maxHeight
	}
	size := img.Bounds().Size()
	scale, ok := resample.FitScale(size.X, size.Y, maxWidth, maxHeight)
	if !ok {
		return img, 1, nil
	}
	m, err := p.Scale(img, scale)
	if err != nil {
		return nil, 0, err
	}
	return m, scale, nil
}

// Apply downscales img as requested.
func (p *Processor) Apply(img image.Image, req Request) (image.Image, Result, error) {
	if p == nil {
		return nil, Result{}, errors.NilReceiver()
	}
	if img == nil {
		return nil, Result{}, errors.New(consts.ErrNilImage)
	}
	res := Result{SrcSize: img.Bounds().Size()}
	var (
		m   image.Image
		err error
	)
	if req.Scale != 0 {
		m, err = p.Scale(img, req.Scale)
		res.Scale = req.Scale
	} else {
		m, res.Scale, err = p.Fit(img, req.MaxWidth, req.MaxHeight)
	}
	if err != nil {
		return nil, Result{}, err
	}
	res.DstSize = m.Bounds().Size()
	res.Resized = res.Scale < 1
	return m, res, nil
}

// OutputExt is the extension images decoded from format are written with.
func (p *Processor) OutputExt(format string) string {
	if p != nil && len(p.format) > 0 {
		return p.format
	}
	return codec.OutputExt(format)
}

// Encode writes img to w in the format of ext.
func (p *Processor) Encode(w io.Writer, img image.Image, ext string) error {
	if p == nil {
		return errors.NilReceiver()
	}
	return p.encoder.Encode(w, img, ext)
}

// WriteFile downscales an already decoded image and writes it to dst.
// The extension of dst selects the encoder.
func (p *Processor) WriteFile(img image.Image, dst string, req Request) (Result, error) {
	m, res, err := p.Apply(img, req)
	if err != nil {
		return Result{}, err
	}
	res.Dst = dst
	if err := p.writeFile(m, dst); err != nil {
		return Result{}, err
	}
	logx.Info(`image written`, p, `dst`, dst, `from`, res.SrcSize, `to`, res.DstSize, `scale`, res.Scale)
	return res, nil
}

func (p *Processor) writeFile(img image.Image, dst string) (err error) {
	f, err := os.Create(dst)
	if err != nil {
		return errors.New(err)
	}
	defer func() {
		if errClose := f.Close(); errClose != nil && err == nil {
			err = errors.New(errClose)
		}
		if err != nil {
			_ = os.Remove(dst)
		}
	}()
	return p.Encode(f, img, filepath.Ext(dst))
}

// File decodes src, downscales it and writes it to dst. If dst is an
// existing directory, the file keeps its base name there with the output
// extension.
func (p *Processor) File(ctx context.Context, src, dst string, req Request) (Result, error) {
	if p == nil {
		return Result{}, errors.NilReceiver()
	}
	if err := ctx.Err(); err != nil {
		return Result{}, errors.New(err)
	}
	img, format, err := codec.DecodeFile(src)
	if err != nil {
		return Result{}, errors.WrapPrefix(err, src, 0)
	}
	if fi, err := os.Stat(dst); err == nil && fi.IsDir() {
		dst = filepath.Join(dst, outputName(src, p.OutputExt(format)))
	}
	if filepath.Clean(dst) == filepath.Clean(src) {
		return Result{}, errors.Errorf(`refusing to overwrite source %s`, src)
	}
	res, err := p.WriteFile(img, dst, req)
	if err != nil {
		return Result{}, errors.WrapPrefix(err, src, 0)
	}
	res.Src = src
	return res, nil
}

func outputName(src, ext string) string { return outputStem(src) + `.` + ext }

func outputStem(src string) string {
	base := filepath.Base(src)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// checkOutputNames compares stems since the output extension is only known
// after decoding.
func checkOutputNames(srcs []string) error {
	seen := make(map[string]string, len(srcs))
	for _, src := range srcs {
		stem := outputStem(src)
		if prev, ok := seen[stem]; ok {
			return errors.WrapPrefix(ErrOutputCollision, prev+` and `+src, 0)
		}
		seen[stem] = src
	}
	return nil
}

// ErrOutputCollision is returned by Files for sources sharing a base name.
var ErrOutputCollision = consts.ErrOutputCollision

// Files processes srcs into the directory dstDir with at most workers images
// in flight. Results are in the order of srcs. The first error cancels the
// images not yet started. Sources whose names only differ in directory or
// extension would overwrite each other and are rejected before any work.
func (p *Processor) Files(ctx context.Context, srcs []string, dstDir string, req Request, workers int) ([]Result, error) {
	if p == nil {
		return nil, errors.NilReceiver()
	}
	fi, err := os.Stat(dstDir)
	if err != nil {
		return nil, errors.New(err)
	}
	if !fi.IsDir() {
		return nil, errors.Errorf(`%s is not a directory`, dstDir)
	}
	if err := checkOutputNames(srcs); err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = 1
	}
	results := make([]Result, len(srcs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, src := range srcs {
		g.Go(func() error {
			res, err := p.File(ctx, src, dstDir, req)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
