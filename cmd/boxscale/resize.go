package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/srlehn/boxscale/internal/errors"
	"github.com/srlehn/boxscale/process"
)

func init() {
	resizeCmd.Flags().Float64Var(&resizeScale, `scale`, 0, `scale factor in (0,1), fit into the maximum size if unset`)
	resizeCmd.Flags().IntVar(&resizeMaxWidth, `max-width`, 0, `maximum width when fitting (config resize.max_width)`)
	resizeCmd.Flags().IntVar(&resizeMaxHeight, `max-height`, 0, `maximum height when fitting (config resize.max_height)`)
	resizeCmd.Flags().StringVarP(&resizeOut, `out`, `o`, ``, `output file or directory (config output.dir)`)
	resizeCmd.Flags().StringVarP(&resizeBackend, `backend`, `b`, ``, `resizer backend, see "backends"`)
	resizeCmd.Flags().StringVarP(&resizeFormat, `format`, `f`, ``, `output format, keeps the input format if unset`)
	resizeCmd.Flags().BoolVar(&resizePremultiply, `premultiply`, false, `weight colors by alpha (box backend)`)
	resizeCmd.Flags().BoolVar(&resizeNormalizeEdges, `normalize-edges`, false, `normalize partially covered edge pixels (box backend)`)
	resizeCmd.Flags().IntVarP(&resizeJobs, `jobs`, `j`, runtime.NumCPU(), `images processed in parallel`)
	resizeCmd.Flags().BoolVar(&resizePreview, `preview`, false, `print results as sixel graphics`)
	rootCmd.AddCommand(resizeCmd)
}

var resizeCmd = &cobra.Command{
	Use:   resizeCmdStr,
	Short: `downscale image files`,
	Long: `Downscale image files.

` + resizeUsageStr + `

With --scale every image is scaled by that factor, otherwise images are fit
into the maximum size and images that already fit are written unchanged.
A single source may be written to a file path, several sources need an
output directory.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		run(resizeFunc(cmd, args))
	},
}

var (
	resizeScale          float64
	resizeMaxWidth       int
	resizeMaxHeight      int
	resizeOut            string
	resizeBackend        string
	resizeFormat         string
	resizePremultiply    bool
	resizeNormalizeEdges bool
	resizeJobs           int
	resizePreview        bool

	resizeCmdStr   = "resize"
	resizeUsageStr = `usage: ` + os.Args[0] + ` ` + resizeCmdStr + ` [--scale <s>|--max-width <w> --max-height <h>] [-o <out>] <src>...`
)

func resizeFunc(cmd *cobra.Command, args []string) func(context.Context, *env) error {
	return func(ctx context.Context, e *env) error {
		flags := cmd.Flags()
		if flags.Changed(`backend`) {
			e.cfg.Resize.Backend = resizeBackend
		}
		if flags.Changed(`premultiply`) {
			e.cfg.Resize.PremultiplyAlpha = resizePremultiply
		}
		if flags.Changed(`normalize-edges`) {
			e.cfg.Resize.NormalizeEdges = resizeNormalizeEdges
		}
		if flags.Changed(`format`) {
			e.cfg.Output.Format = resizeFormat
		}
		if flags.Changed(`out`) {
			e.cfg.Output.Dir = resizeOut
		}
		if err := e.cfg.Validate(); err != nil {
			return err
		}
		opts, err := e.cfg.ProcessorOptions()
		if err != nil {
			return err
		}
		proc, err := process.New(append(opts, process.SetSLogger(e.logHandler, e.logEnabled))...)
		if err != nil {
			return err
		}
		req := process.Request{
			Scale:     resizeScale,
			MaxWidth:  resizeMaxWidth,
			MaxHeight: resizeMaxHeight,
		}

		out := e.cfg.Output.Dir
		var results []process.Result
		if len(args) == 1 && len(filepath.Ext(out)) > 0 {
			// single file to file
			if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
				return errors.New(err)
			}
			res, err := proc.File(ctx, args[0], out, req)
			if err != nil {
				return err
			}
			results = append(results, res)
		} else {
			if err := os.MkdirAll(out, 0o755); err != nil {
				return errors.New(err)
			}
			results, err = proc.Files(ctx, args, out, req, resizeJobs)
			if err != nil {
				return err
			}
		}

		for _, res := range results {
			if resizePreview {
				if err := previewFile(os.Stdout, res.Dst); err != nil {
					return err
				}
				fmt.Println()
			}
			fmt.Printf("%s -> %s (%dx%d -> %dx%d, scale %.4g)\n",
				res.Src, res.Dst, res.SrcSize.X, res.SrcSize.Y, res.DstSize.X, res.DstSize.Y, res.Scale)
		}
		return nil
	}
}
