package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/srlehn/boxscale/internal/errors"
	"github.com/srlehn/boxscale/process"
	"github.com/srlehn/boxscale/watch"
)

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, `debounce`, 0, `quiet time before a file is processed (config watch.debounce)`)
	watchCmd.Flags().Float64Var(&watchScale, `scale`, 0, `scale factor in (0,1), fit into the maximum size if unset`)
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   watchCmdStr,
	Short: `downscale images dropped into a directory`,
	Long: `Downscale images dropped into a directory.

` + watchUsageStr + `

The directories default to the configured watch.dir and output.dir.`,
	Args: cobra.MaximumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		run(watchFunc(cmd, args))
	},
}

var (
	watchDebounce time.Duration
	watchScale    float64

	watchCmdStr   = "watch"
	watchUsageStr = `usage: ` + os.Args[0] + ` ` + watchCmdStr + ` [<inDir> [<outDir>]]`
)

func watchFunc(cmd *cobra.Command, args []string) func(context.Context, *env) error {
	return func(ctx context.Context, e *env) error {
		if len(args) > 0 {
			e.cfg.Watch.Dir = args[0]
		}
		if len(args) > 1 {
			e.cfg.Output.Dir = args[1]
		}
		if cmd.Flags().Changed(`debounce`) {
			e.cfg.Watch.Debounce = watchDebounce
		}
		if len(e.cfg.Watch.Dir) == 0 {
			return errors.New(watchUsageStr)
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
		w, err := watch.New(proc, e.cfg.Watch.Dir, e.cfg.Output.Dir,
			watch.SetDebounce(e.cfg.Watch.Debounce),
			watch.SetRequest(process.Request{Scale: watchScale}),
			watch.SetSLogger(e.logHandler, e.logEnabled),
			watch.SetCallback(func(ev watch.Event) {
				if ev.Err == nil {
					fmt.Printf("%s -> %s\n", ev.Src, ev.Result.Dst)
				}
			}),
		)
		if err != nil {
			return err
		}
		return w.Run(ctx)
	}
}
