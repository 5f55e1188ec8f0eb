package main

import (
	"fmt"
	"strconv"

	"github.com/dgallion1/domview/internal/domtree"
	"github.com/dgallion1/domview/internal/examples"
	"github.com/dgallion1/domview/internal/parser"
	"github.com/dgallion1/domview/internal/ui"
	"github.com/spf13/cobra"
)

func examplesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "examples [name]",
		Short: "List the built-in examples or print one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				markup, err := examples.Get(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), markup)
				return nil
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			builder := parser.NewBuilder(parser.OptionsFrom(cfg), newLogger())

			ui.Banner("examples")
			var rows [][]string
			for _, name := range examples.Names() {
				markup, err := examples.Get(name)
				if err != nil {
					return err
				}
				nodes := "-"
				if tree, err := builder.Build(markup); err == nil {
					nodes = strconv.Itoa(domtree.Count(tree))
				}
				rows = append(rows, []string{name, strconv.Itoa(len(markup)), nodes})
			}
			ui.Table(cmd.OutOrStdout(), []string{"NAME", "BYTES", "NODES"}, rows)
			return nil
		},
	}
}
