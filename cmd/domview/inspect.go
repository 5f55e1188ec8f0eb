package main

import (
	"fmt"
	"strings"

	"github.com/dgallion1/domview/internal/domtree"
	"github.com/dgallion1/domview/internal/inspect"
	"github.com/dgallion1/domview/internal/ui"
	"github.com/spf13/cobra"
)

func inspectCmd() *cobra.Command {
	var id int
	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Show the details of one node",
		Long:  "Show the details of one node. Node IDs are the numbers printed by `domview outline`.",
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

			node := domtree.Find(tree, id)
			if node == nil {
				return fmt.Errorf("no node with id %d (tree has %d nodes)", id, domtree.Count(tree))
			}
			detail, err := inspect.Format(node)
			if err != nil {
				return err
			}

			fmt.Println(ui.Brand.Sprint(detail.Title))
			fmt.Println()
			for _, line := range strings.Split(detail.Body, "\n") {
				fmt.Println("  " + ui.Info.Sprint(line))
			}
			fmt.Println()

			rows := make([][]string, 0, len(detail.Properties))
			for _, p := range detail.Properties {
				value := strings.ReplaceAll(p.Value, "\n", "; ")
				rows = append(rows, []string{p.Name, value})
			}
			ui.Table(cmd.OutOrStdout(), []string{"PROPERTY", "VALUE"}, rows)
			return nil
		},
	}
	cmd.Flags().IntVar(&id, "id", 1, "Node ID")
	return cmd
}
