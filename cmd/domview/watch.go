package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/domview/internal/ui"
	"github.com/dgallion1/domview/internal/watch"
	"github.com/spf13/cobra"
)

func watchCmd() *cobra.Command {
	var opts renderOptions
	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-render a document to SVG whenever it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.output == "" || opts.output == "-" {
				return errors.New("watch needs an output file (-o)")
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log := newLogger()

			rerender := func(path string) {
				start := time.Now()
				n, err := renderFile(cfg, path, opts, log)
				stamp := ui.Subtle.Sprint(time.Now().Format("15:04:05"))
				if err != nil {
					ui.Bad.Fprintf(os.Stderr, "%s ✗ %v\n", stamp, err)
					return
				}
				ui.Good.Fprintf(os.Stderr, "%s ✓ ", stamp)
				ui.Subtle.Fprintf(os.Stderr, "%d nodes in %s\n", n, time.Since(start).Round(time.Millisecond))
			}

			w, err := watch.New(args[0], rerender, watch.WithOnError(func(err error) {
				ui.Warn.Fprintf(os.Stderr, "watch: %v\n", err)
			}))
			if err != nil {
				return err
			}

			ui.Banner("watching " + args[0])
			rerender(args[0])
			w.Start()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			<-ctx.Done()
			return w.Stop()
		},
	}
	addRenderFlags(cmd, &opts)
	return cmd
}
