package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/srlehn/boxscale/config"
	"github.com/srlehn/boxscale/internal/errors"
)

var rootCmd = &cobra.Command{
	Use:              filepath.Base(os.Args[0]),
	Short:            "boxscale downscales images with an area-weighted box filter",
	Long:             "boxscale downscales images with an area-weighted box filter",
	SilenceUsage:     true,
	SilenceErrors:    true,
	TraverseChildren: true,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	cobra.EnablePrefixMatching = true
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, `debug`, `d`, false, `debug errors`)
	rootCmd.PersistentFlags().BoolVarP(&silentFlag, `silent`, `s`, false, `silence errors and logs`)
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, `verbose`, `v`, false, `log at debug level`)
	rootCmd.PersistentFlags().StringVarP(&logFileFlag, `log-file`, `l`, ``, `log file (JSON)`)
	rootCmd.PersistentFlags().StringVarP(&configFlag, `config`, `c`, ``, `YAML config file`)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var (
	debugFlag   bool
	silentFlag  bool
	verboseFlag bool
	logFileFlag string
	configFlag  string
)

// env is what every subcommand gets from the root flags.
type env struct {
	cfg        *config.Config
	logHandler slog.Handler
	logEnabled bool
}

func run(fn func(ctx context.Context, e *env) error) {
	var exitCode int
	defer func() { os.Exit(exitCode) }()
	err := func() error {
		if fn == nil {
			return errors.NilParam()
		}
		cfg, err := config.Load(configFlag)
		if err != nil {
			return err
		}
		h, closeLog, err := logHandler()
		if err != nil {
			return err
		}
		defer closeLog()
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return fn(ctx, &env{cfg: cfg, logHandler: h, logEnabled: h != nil})
	}()
	if err != nil {
		exitCode = 1
		if !silentFlag {
			if stackFramer, ok := err.(interface{ ErrorStack() string }); debugFlag && ok {
				fmt.Fprintln(os.Stderr, "\n"+stackFramer.ErrorStack())
			} else {
				fmt.Fprintln(os.Stderr, err.Error())
			}
		}
	}
}

// logHandler writes text to stderr, or JSON to the log file if one is set.
// A nil handler means logging is off.
func logHandler() (slog.Handler, func(), error) {
	noop := func() {}
	if silentFlag && len(logFileFlag) == 0 {
		return nil, noop, nil
	}
	level := slog.LevelInfo
	if verboseFlag || debugFlag {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level, AddSource: debugFlag}
	if len(logFileFlag) > 0 {
		f, err := os.OpenFile(logFileFlag, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, noop, errors.New(err)
		}
		return slog.NewJSONHandler(f, opts), func() { _ = f.Close() }, nil
	}
	return slog.NewTextHandler(os.Stderr, opts), noop, nil
}
