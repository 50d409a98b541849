// Package config loads the YAML configuration shared by the CLI, the upload
// server and the drop-folder watcher.
package config

import (
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/srlehn/boxscale/codec"
	"github.com/srlehn/boxscale/internal/consts"
	"github.com/srlehn/boxscale/internal/errors"
	"github.com/srlehn/boxscale/process"
	"github.com/srlehn/boxscale/resample"
	"github.com/srlehn/boxscale/resize"
	"github.com/srlehn/boxscale/resize/box"
	"github.com/srlehn/boxscale/resize/rdefault"
)

// EnvPort overrides Server.Port when set.
const EnvPort = `PORT`

type Config struct {
	Resize ResizeConfig `yaml:"resize"`
	Output OutputConfig `yaml:"output"`
	Server ServerConfig `yaml:"server"`
	Watch  WatchConfig  `yaml:"watch"`
}

type ResizeConfig struct {
	MaxWidth         int    `yaml:"max_width"`
	MaxHeight        int    `yaml:"max_height"`
	Backend          string `yaml:"backend"`
	PremultiplyAlpha bool   `yaml:"premultiply_alpha"`
	NormalizeEdges   bool   `yaml:"normalize_edges"`
}

type OutputConfig struct {
	Dir string `yaml:"dir"`
	// Format is an extension like "jpg". Empty keeps the input format.
	Format      string `yaml:"format"`
	JPEGQuality int    `yaml:"jpeg_quality"`
}

type ServerConfig struct {
	Host           string     `yaml:"host"`
	Port           int        `yaml:"port"`
	StaticDir      string     `yaml:"static_dir"`
	MaxUploadBytes ByteSize   `yaml:"max_upload_bytes"`
	MaxFiles       int        `yaml:"max_files"`
	MaxPixels      PixelCount `yaml:"max_pixels"` // width times height of an upload
}

// Addr is the listen address.
func (s ServerConfig) Addr() string {
	return s.Host + `:` + strconv.Itoa(s.Port)
}

type WatchConfig struct {
	Dir      string        `yaml:"dir"`
	Debounce time.Duration `yaml:"debounce"`
}

// ByteSize reads human readable sizes like "32 MiB" or "10MB".
type ByteSize uint64

var (
	_ yaml.Unmarshaler = (*ByteSize)(nil)
	_ yaml.Marshaler   = ByteSize(0)
)

func (b *ByteSize) UnmarshalYAML(value *yaml.Node) error {
	n, err := humanize.ParseBytes(value.Value)
	if err != nil {
		return errors.WrapPrefix(err, `line `+strconv.Itoa(value.Line), 0)
	}
	*b = ByteSize(n)
	return nil
}

func (b ByteSize) MarshalYAML() (any, error) { return b.String(), nil }

func (b ByteSize) String() string { return humanize.IBytes(uint64(b)) }

// PixelCount reads counts with SI prefixes like "40M" or "12 k".
type PixelCount uint64

var (
	_ yaml.Unmarshaler = (*PixelCount)(nil)
	_ yaml.Marshaler   = PixelCount(0)
)

func (p *PixelCount) UnmarshalYAML(value *yaml.Node) error {
	// same suffix table as byte sizes: "k", "M", "G"
	n, err := humanize.ParseBytes(value.Value)
	if err != nil {
		return errors.WrapPrefix(err, `line `+strconv.Itoa(value.Line), 0)
	}
	*p = PixelCount(n)
	return nil
}

func (p PixelCount) MarshalYAML() (any, error) { return p.String(), nil }

func (p PixelCount) String() string { return strings.TrimSpace(humanize.SI(float64(p), ``)) }

// Default mirrors the original upload demo: fit into 250x300, serve ./public
// on port 5000 and write to ./public/images.
func Default() *Config {
	return &Config{
		Resize: ResizeConfig{
			MaxWidth:  consts.DefaultMaxWidth,
			MaxHeight: consts.DefaultMaxHeight,
			Backend:   consts.ResizerDefaultName,
		},
		Output: OutputConfig{
			Dir:         `public/images`,
			JPEGQuality: codec.DefaultJPEGQuality,
		},
		Server: ServerConfig{
			Port:           5000,
			StaticDir:      `public`,
			MaxUploadBytes: 32 * humanize.MiByte,
			MaxFiles:       16,
			MaxPixels:      consts.DefaultMaxPixels,
		},
		Watch: WatchConfig{
			Debounce: 500 * time.Millisecond,
		},
	}
}

// Load reads path over the defaults and applies the environment. An empty
// path yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if len(path) > 0 {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.WrapPrefix(err, `read config`, 0)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.WrapPrefix(err, `parse config `+path, 0)
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.WrapPrefix(err, `invalid config`, 0)
	}
	return cfg, nil
}

// ApplyEnv overrides values from the environment.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if c == nil {
		return errors.NilReceiver()
	}
	if lookup == nil {
		return errors.NilParam()
	}
	if v, ok := lookup(EnvPort); ok && len(strings.TrimSpace(v)) > 0 {
		port, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return errors.WrapPrefix(err, EnvPort, 0)
		}
		c.Server.Port = port
	}
	return nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.NilReceiver()
	}
	var errs []error
	if c.Resize.MaxWidth <= 0 || c.Resize.MaxHeight <= 0 {
		errs = append(errs, errors.Errorf(`resize: max_width and max_height must be positive`))
	}
	if _, err := c.Resizer(); err != nil {
		errs = append(errs, err)
	}
	if len(c.Output.Format) > 0 && !codec.IsEncodable(c.Output.Format) {
		errs = append(errs, errors.WrapPrefix(codec.ErrUnsupportedFormat, `output.format "`+c.Output.Format+`"`, 0))
	}
	if c.Output.JPEGQuality < 0 || c.Output.JPEGQuality > 100 {
		errs = append(errs, errors.Errorf(`output: jpeg_quality %d out of range 0..100`, c.Output.JPEGQuality))
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, errors.Errorf(`server: port %d out of range`, c.Server.Port))
	}
	if c.Server.MaxUploadBytes == 0 {
		errs = append(errs, errors.Errorf(`server: max_upload_bytes must be positive`))
	}
	if c.Server.MaxPixels == 0 || c.Server.MaxPixels > math.MaxInt64 {
		errs = append(errs, errors.Errorf(`server: max_pixels must be positive`))
	}
	if c.Server.MaxFiles <= 0 {
		errs = append(errs, errors.Errorf(`server: max_files must be positive`))
	}
	if c.Watch.Debounce < 0 {
		errs = append(errs, errors.Errorf(`watch: negative debounce %s`, c.Watch.Debounce))
	}
	return errors.Join(errs...)
}

// Resizer builds the configured backend. The alpha and edge options only
// apply to the box filter.
func (c *Config) Resizer() (resize.Resizer, error) {
	if c == nil {
		return nil, errors.NilReceiver()
	}
	var opts []resample.Option
	if c.Resize.PremultiplyAlpha {
		opts = append(opts, resample.PremultiplyAlpha(true))
	}
	if c.Resize.NormalizeEdges {
		opts = append(opts, resample.NormalizeEdges(true))
	}
	name := resize.NormalizeName(c.Resize.Backend)
	if len(name) == 0 || name == consts.ResizerDefaultName {
		if len(opts) == 0 {
			return rdefault.Resizer(), nil
		}
		return box.New(consts.ResizerDefaultName, opts...)
	}
	if len(opts) > 0 {
		return nil, errors.Errorf(`resize: premultiply_alpha and normalize_edges require the %s backend, not %q`, consts.ResizerDefaultName, name)
	}
	return rdefault.Get(name)
}

// ProcessorOptions configures a process.Processor.
func (c *Config) ProcessorOptions() ([]process.Option, error) {
	if c == nil {
		return nil, errors.NilReceiver()
	}
	rsz, err := c.Resizer()
	if err != nil {
		return nil, err
	}
	return []process.Option{
		process.SetResizer(rsz),
		process.SetEncoder(&codec.MultiEncoder{JPEGQuality: c.Output.JPEGQuality}),
		process.SetMaxSize(c.Resize.MaxWidth, c.Resize.MaxHeight),
		process.SetFormat(c.Output.Format),
	}, nil
}
