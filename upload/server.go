// Package upload serves an HTTP endpoint that downscales uploaded images and
// stores them under random names.
package upload

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/srlehn/boxscale/codec"
	"github.com/srlehn/boxscale/internal/consts"
	"github.com/srlehn/boxscale/internal/errors"
	"github.com/srlehn/boxscale/internal/logx"
	"github.com/srlehn/boxscale/process"
)

const (
	// form fields holding the files
	FieldImage  = `image`
	FieldImages = `images`

	// form fields overriding the processor bounds
	FieldMaxWidth  = `max_width`
	FieldMaxHeight = `max_height`

	defaultMaxBytes = 32 << 20
	defaultMaxFiles = 16
	// multipart parts beyond this are spooled to disk
	maxFormMemory = 8 << 20

	shutdownTimeout = 5 * time.Second
)

type Server struct {
	proc      *process.Processor
	addr      string
	outDir    string
	staticDir string
	maxBytes  int64
	maxFiles  int
	maxPixels int64
	newName   func() string
	logger    *slog.Logger
}

var _ logx.LoggerProvider = (*Server)(nil)

func New(proc *process.Processor, opts ...Option) (*Server, error) {
	if proc == nil {
		return nil, errors.NilParam()
	}
	s := &Server{
		proc:      proc,
		addr:      `:5000`,
		outDir:    `public/images`,
		staticDir: `public`,
		maxBytes:  defaultMaxBytes,
		maxFiles:  defaultMaxFiles,
		maxPixels: consts.DefaultMaxPixels,
		newName:   func() string { return uuid.New().String() },
	}
	if err := s.SetOptions(opts...); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Server) Logger() *slog.Logger {
	if s == nil {
		return nil
	}
	return s.logger
}

// Handler routes POST /upload, GET /health and the static directory.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(`POST /upload`, s.handleUpload)
	mux.HandleFunc(`GET /health`, s.handleHealth)
	if len(s.staticDir) > 0 {
		mux.Handle(`GET /`, http.FileServer(http.Dir(s.staticDir)))
	}
	return mux
}

// ListenAndServe serves on the configured address until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.NilReceiver()
	}
	var lc net.ListenConfig
	l, err := lc.Listen(ctx, `tcp`, s.addr)
	if err != nil {
		return errors.New(err)
	}
	return s.Serve(ctx, l)
}

// Serve accepts connections on l until ctx is done, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	if s == nil {
		return errors.NilReceiver()
	}
	if l == nil {
		return errors.NilParam()
	}
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	errChan := make(chan error, 1)
	go func() { errChan <- srv.Serve(l) }()
	logx.Info(`upload server listening`, s, `addr`, l.Addr().String(), `out`, s.outDir)

	select {
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.New(err)
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.New(err)
	}
	if err := <-errChan; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.New(err)
	}
	logx.Info(`upload server stopped`, s)
	return nil
}

type uploadedFile struct {
	Name   string  `json:"name"`
	URL    string  `json:"url,omitempty"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Scale  float64 `json:"scale"`
}

type uploadResponse struct {
	Message string         `json:"message"`
	Files   []uploadedFile `json:"files,omitempty"`
}

// httpError carries the status an upload failure is reported with.
type httpError struct {
	status int
	err    error
}

func (e *httpError) Error() string { return e.err.Error() }
func (e *httpError) Unwrap() error { return e.err }

func statusErr(status int, err error) error { return &httpError{status: status, err: err} }

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		`status`:  `ok`,
		`resizer`: s.proc.Resizer().Name(),
	})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	files, err := s.upload(w, r)
	if err != nil {
		status := http.StatusInternalServerError
		var he *httpError
		if errors.As(err, &he) {
			status = he.status
		}
		msg := err.Error()
		if status == http.StatusInternalServerError {
			logx.IsErr(err, s, slog.LevelError, `remote`, r.RemoteAddr)
			msg = http.StatusText(status)
		} else {
			logx.Debug(`upload rejected`, s, `status`, status, `err`, msg)
		}
		writeJSON(w, status, uploadResponse{Message: msg})
		return
	}
	writeJSON(w, http.StatusOK, uploadResponse{Message: `images uploaded.`, Files: files})
}

func (s *Server) upload(w http.ResponseWriter, r *http.Request) (_ []uploadedFile, err error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBytes)
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return nil, statusErr(http.StatusRequestEntityTooLarge, errors.Errorf(`upload exceeds %s`, humanize.IBytes(uint64(mbe.Limit))))
		}
		return nil, statusErr(http.StatusBadRequest, err)
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	// can be a single image or multiple images
	headers := r.MultipartForm.File[FieldImage]
	if len(headers) == 0 {
		headers = r.MultipartForm.File[FieldImages]
	}
	if len(headers) == 0 {
		return nil, statusErr(http.StatusBadRequest, errors.Errorf(`no file in form field %q or %q`, FieldImage, FieldImages))
	}
	if len(headers) > s.maxFiles {
		return nil, statusErr(http.StatusBadRequest, errors.Errorf(`%d files exceed the limit of %d`, len(headers), s.maxFiles))
	}
	req, err := requestFromForm(r)
	if err != nil {
		return nil, statusErr(http.StatusBadRequest, err)
	}
	if err := os.MkdirAll(s.outDir, 0o755); err != nil {
		return nil, errors.New(err)
	}

	var written []string
	defer func() {
		if err == nil {
			return
		}
		for _, p := range written {
			_ = os.Remove(p)
		}
	}()
	files := make([]uploadedFile, 0, len(headers))
	for _, fh := range headers {
		f, dst, err := s.store(fh, req)
		if err != nil {
			return nil, err
		}
		written = append(written, dst)
		files = append(files, f)
	}
	return files, nil
}

func requestFromForm(r *http.Request) (process.Request, error) {
	var req process.Request
	for _, field := range []struct {
		name string
		val  *int
	}{
		{FieldMaxWidth, &req.MaxWidth},
		{FieldMaxHeight, &req.MaxHeight},
	} {
		v := strings.TrimSpace(r.FormValue(field.name))
		if len(v) == 0 {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return req, errors.Errorf(`%s: expected a positive integer, got %q`, field.name, v)
		}
		*field.val = n
	}
	return req, nil
}

func (s *Server) store(fh *multipart.FileHeader, req process.Request) (uploadedFile, string, error) {
	f, err := fh.Open()
	if err != nil {
		return uploadedFile{}, ``, errors.New(err)
	}
	b, err := io.ReadAll(f)
	_ = f.Close()
	if err != nil {
		return uploadedFile{}, ``, errors.New(err)
	}
	if mime, ok := codec.Sniff(b); !ok {
		return uploadedFile{}, ``, statusErr(http.StatusUnsupportedMediaType, errors.Errorf(`%s: unsupported content type %s`, fh.Filename, mime))
	}
	// header dimensions are checked before the pixel buffer is allocated
	img, format, err := codec.DecodeBytesLimited(b, s.maxPixels)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, codec.ErrImageTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		return uploadedFile{}, ``, statusErr(status, errors.WrapPrefix(err, fh.Filename, 0))
	}

	name := s.newName() + `.` + s.proc.OutputExt(format)
	dst := filepath.Join(s.outDir, name)
	res, err := s.proc.WriteFile(img, dst, req)
	if err != nil {
		return uploadedFile{}, ``, err
	}
	logx.Info(`image uploaded`, s,
		`name`, fh.Filename, `size`, humanize.IBytes(uint64(fh.Size)), `stored`, name,
		`from`, res.SrcSize, `to`, res.DstSize)
	return uploadedFile{
		Name:   name,
		URL:    s.url(dst),
		Width:  res.DstSize.X,
		Height: res.DstSize.Y,
		Scale:  res.Scale,
	}, dst, nil
}

// url is the path dst is served under, if it lies in the static directory.
func (s *Server) url(dst string) string {
	if len(s.staticDir) == 0 {
		return ``
	}
	rel, err := filepath.Rel(s.staticDir, dst)
	if err != nil || rel == `..` || strings.HasPrefix(rel, `..`+string(filepath.Separator)) {
		return ``
	}
	return path.Join(`/`, filepath.ToSlash(rel))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(`Content-Type`, `application/json`)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
