package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/srlehn/boxscale/process"
	"github.com/srlehn/boxscale/upload"
)

func init() {
	serveCmd.Flags().StringVar(&serveHost, `host`, ``, `listen host (config server.host)`)
	serveCmd.Flags().IntVarP(&servePort, `port`, `p`, 0, `listen port (config server.port, env PORT)`)
	serveCmd.Flags().StringVar(&serveStatic, `static`, ``, `static directory served at / (config server.static_dir)`)
	serveCmd.Flags().StringVarP(&serveOut, `out`, `o`, ``, `upload directory (config output.dir)`)
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   `serve`,
	Short: `run the upload server`,
	Long: `Run the upload server.

POST /upload takes multipart files in the field "image" or "images", fits
them into the maximum size (form fields max_width and max_height override
it) and stores them under random names in the upload directory.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		run(serveFunc(cmd))
	},
}

var (
	serveHost   string
	servePort   int
	serveStatic string
	serveOut    string
)

func serveFunc(cmd *cobra.Command) func(context.Context, *env) error {
	return func(ctx context.Context, e *env) error {
		flags := cmd.Flags()
		if flags.Changed(`host`) {
			e.cfg.Server.Host = serveHost
		}
		if flags.Changed(`port`) {
			e.cfg.Server.Port = servePort
		}
		if flags.Changed(`static`) {
			e.cfg.Server.StaticDir = serveStatic
		}
		if flags.Changed(`out`) {
			e.cfg.Output.Dir = serveOut
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
		staticDir := e.cfg.Server.StaticDir
		if len(staticDir) > 0 {
			if _, err := os.Stat(staticDir); err != nil {
				// uploads work without static files
				staticDir = ``
			}
		}
		srv, err := upload.New(proc,
			upload.SetAddr(e.cfg.Server.Addr()),
			upload.SetStaticDir(staticDir),
			upload.SetOutputDir(e.cfg.Output.Dir),
			upload.SetMaxUploadBytes(int64(e.cfg.Server.MaxUploadBytes)),
			upload.SetMaxFiles(e.cfg.Server.MaxFiles),
			upload.SetMaxPixels(int64(e.cfg.Server.MaxPixels)),
			upload.SetSLogger(e.logHandler, e.logEnabled),
		)
		if err != nil {
			return err
		}
		return srv.ListenAndServe(ctx)
	}
}
