package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/dgallion1/domview/internal/api"
	"github.com/dgallion1/domview/internal/ui"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the interactive viewer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = port
			}

			ui.Banner("interactive viewer")
			fmt.Printf("  Listening on %s\n", ui.Info.Sprintf("http://localhost:%s", cfg.Port))
			if cfg.Debug {
				fmt.Printf("  %s\n", ui.Warn.Sprint("Debug mode is on"))
			}
			fmt.Println()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return api.Run(ctx, cfg, newLogger())
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides config)")
	return cmd
}
