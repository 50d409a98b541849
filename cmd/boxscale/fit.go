package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/srlehn/boxscale/internal/errors"
	"github.com/srlehn/boxscale/resample"
)

func init() { rootCmd.AddCommand(fitCmd) }

var fitCmd = &cobra.Command{
	Use:   fitCmdStr,
	Short: `compute the scale fitting an image into a maximum size`,
	Long: `Compute the scale fitting an image into a maximum size.

` + fitUsageStr + `

The maximum size defaults to the configured resize.max_width and
resize.max_height. Prints the scale and the resulting size. A scale of 1
means the image already fits.`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		run(fitFunc(cmd, args))
	},
}

var (
	fitCmdStr   = "fit"
	fitUsageStr = `usage: ` + os.Args[0] + ` ` + fitCmdStr + ` <srcSize(<w>x<h>)> [<maxSize(<w>x<h>)>]`
)

func fitFunc(cmd *cobra.Command, args []string) func(context.Context, *env) error {
	return func(ctx context.Context, e *env) error {
		w, h, err := splitSize(args[0])
		if err != nil {
			return err
		}
		maxW, maxH := e.cfg.Resize.MaxWidth, e.cfg.Resize.MaxHeight
		if len(args) == 2 {
			maxW, maxH, err = splitSize(args[1])
			if err != nil {
				return err
			}
		}
		scale, ok := resample.FitScale(w, h, maxW, maxH)
		if !ok {
			fmt.Printf("1 %dx%d\n", w, h)
			return nil
		}
		tw, th := resample.TargetDims(w, h, scale)
		fmt.Printf("%v %dx%d\n", scale, tw, th)
		return nil
	}
}

// splitSize parses "<w>x<h>" with positive sides.
func splitSize(s string) (w, h int, _ error) {
	parts := strings.SplitN(strings.ToLower(s), `x`, 2)
	if len(parts) != 2 {
		return 0, 0, errors.Errorf(`size %q not "<w>x<h>"`, s)
	}
	w, errW := strconv.Atoi(parts[0])
	h, errH := strconv.Atoi(parts[1])
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return 0, 0, errors.Errorf(`size %q not "<w>x<h>" with positive sides`, s)
	}
	return w, h, nil
}
