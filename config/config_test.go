package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/srlehn/boxscale/config"
	"github.com/srlehn/boxscale/internal/consts"
	"github.com/srlehn/boxscale/process"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), `boxscale.yaml`)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 250, cfg.Resize.MaxWidth)
	assert.Equal(t, 300, cfg.Resize.MaxHeight)
	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, `:5000`, cfg.Server.Addr())
	assert.Equal(t, config.ByteSize(32<<20), cfg.Server.MaxUploadBytes)
	assert.Equal(t, config.PixelCount(40_000_000), cfg.Server.MaxPixels)
	assert.Equal(t, 500*time.Millisecond, cfg.Watch.Debounce)

	rsz, err := cfg.Resizer()
	require.NoError(t, err)
	assert.Equal(t, consts.ResizerDefaultName, rsz.Name())
}

func TestLoad(t *testing.T) {
	t.Setenv(config.EnvPort, ``)
	path := writeConfig(t, `
resize:
  max_width: 640
  backend: xdraw_catmull_rom
output:
  dir: out
  format: jpg
  jpeg_quality: 75
server:
  host: 127.0.0.1
  max_upload_bytes: 10 MB
  max_pixels: 12M
watch:
  dir: in
  debounce: 2s
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 640, cfg.Resize.MaxWidth)
	// unset values keep their defaults
	assert.Equal(t, 300, cfg.Resize.MaxHeight)
	assert.Equal(t, `out`, cfg.Output.Dir)
	assert.Equal(t, 75, cfg.Output.JPEGQuality)
	assert.Equal(t, `127.0.0.1:5000`, cfg.Server.Addr())
	assert.Equal(t, config.ByteSize(10_000_000), cfg.Server.MaxUploadBytes)
	assert.Equal(t, config.PixelCount(12_000_000), cfg.Server.MaxPixels)
	assert.Equal(t, 2*time.Second, cfg.Watch.Debounce)

	rsz, err := cfg.Resizer()
	require.NoError(t, err)
	assert.Equal(t, `xdraw-catmull-rom`, rsz.Name())

	opts, err := cfg.ProcessorOptions()
	require.NoError(t, err)
	p, err := process.New(opts...)
	require.NoError(t, err)
	assert.Equal(t, `jpg`, p.OutputExt(`png`))
}

func TestLoadEmptyPath(t *testing.T) {
	t.Setenv(config.EnvPort, `8081`)
	cfg, err := config.Load(``)
	require.NoError(t, err)
	assert.Equal(t, 8081, cfg.Server.Port)
}

func TestLoadErrors(t *testing.T) {
	t.Setenv(config.EnvPort, ``)

	_, err := config.Load(filepath.Join(t.TempDir(), `missing.yaml`))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = config.Load(writeConfig(t, "resize: [\n"))
	assert.Error(t, err)

	_, err = config.Load(writeConfig(t, "server:\n  max_upload_bytes: lots\n"))
	assert.Error(t, err)

	_, err = config.Load(writeConfig(t, "server:\n  max_pixels: many\n"))
	assert.Error(t, err)

	_, err = config.Load(writeConfig(t, "resize:\n  backend: nope\n"))
	assert.ErrorIs(t, err, consts.ErrUnknownResizer)

	t.Setenv(config.EnvPort, `http`)
	_, err = config.Load(``)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := map[string]func(*config.Config){
		`max width`:      func(c *config.Config) { c.Resize.MaxWidth = 0 },
		`format`:         func(c *config.Config) { c.Output.Format = `xcf` },
		`jpeg quality`:   func(c *config.Config) { c.Output.JPEGQuality = 101 },
		`port`:           func(c *config.Config) { c.Server.Port = 70000 },
		`upload size`:    func(c *config.Config) { c.Server.MaxUploadBytes = 0 },
		`max pixels`:     func(c *config.Config) { c.Server.MaxPixels = 0 },
		`max files`:      func(c *config.Config) { c.Server.MaxFiles = 0 },
		`debounce`:       func(c *config.Config) { c.Watch.Debounce = -time.Second },
		`box only flags`: func(c *config.Config) { c.Resize.Backend = `gift-box`; c.Resize.NormalizeEdges = true },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := config.Default()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestBoxOptions(t *testing.T) {
	cfg := config.Default()
	cfg.Resize.PremultiplyAlpha = true
	cfg.Resize.NormalizeEdges = true
	rsz, err := cfg.Resizer()
	require.NoError(t, err)
	assert.Equal(t, consts.ResizerDefaultName, rsz.Name())
}

func TestByteSizeRoundTrip(t *testing.T) {
	out, err := yaml.Marshal(struct {
		Size config.ByteSize `yaml:"size"`
	}{Size: 32 << 20})
	require.NoError(t, err)
	assert.Equal(t, "size: 32 MiB\n", string(out))
}

func TestPixelCount(t *testing.T) {
	var v struct {
		Pixels config.PixelCount `yaml:"pixels"`
	}
	for in, want := range map[string]config.PixelCount{
		`40M`:      40_000_000,
		`2.5 M`:    2_500_000,
		`640k`:     640_000,
		`12345678`: 12_345_678,
	} {
		require.NoError(t, yaml.Unmarshal([]byte(`pixels: `+in), &v), in)
		assert.Equal(t, want, v.Pixels, in)
	}

	v.Pixels = 40_000_000
	out, err := yaml.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, "pixels: 40 M\n", string(out))
}
