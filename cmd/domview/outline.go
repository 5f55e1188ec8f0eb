package main

import (
	"fmt"

	"github.com/dgallion1/domview/internal/domtree"
	"github.com/dgallion1/domview/internal/inspect"
	"github.com/dgallion1/domview/internal/ui"
	"github.com/spf13/cobra"
)

func outlineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "outline <file>",
		Short: "Print the DOM tree as an indented outline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			tree, err := loadTree(cfg, args[0], newLogger())
			if err != nil {
				return err
			}

			fmt.Print(inspect.Outline(tree, cfg.Node.MaxTextLength))
			fmt.Println(ui.Subtle.Sprintf("%d nodes, depth %d", domtree.Count(tree), domtree.Depth(tree)))
			return nil
		},
	}
}
