package main

import (
	"fmt"
	"os"

	"github.com/dgallion1/domview/internal/status"
	"github.com/dgallion1/domview/internal/ui"
	"github.com/dgallion1/domview/internal/viewer"
	"github.com/spf13/cobra"
)

func renderCmd() *cobra.Command {
	var opts renderOptions
	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render a document's DOM tree to SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			n, err := renderFile(cfg, args[0], opts, newLogger())
			if err != nil {
				return err
			}
			if opts.output != "" && opts.output != "-" {
				ui.Status(os.Stderr, status.Message{
					Text:     fmt.Sprintf("%s: %d nodes → %s", viewer.MsgRendered, n, opts.output),
					Severity: status.Success,
				})
			}
			return nil
		},
	}
	addRenderFlags(cmd, &opts)
	return cmd
}

func addRenderFlags(cmd *cobra.Command, opts *renderOptions) {
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output SVG file (default stdout)")
	cmd.Flags().StringVarP(&opts.layout, "layout", "l", "", "Layout: vertical, horizontal or radial")
	cmd.Flags().Float64Var(&opts.distance, "distance", 0, "Node distance (default from config)")
}
