package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgallion1/domview/internal/config"
	"github.com/dgallion1/domview/internal/domtree"
	"github.com/dgallion1/domview/internal/layout"
	"github.com/dgallion1/domview/internal/parser"
	"github.com/dgallion1/domview/internal/render"
	"github.com/dgallion1/domview/internal/source"
)

// loadTree reads a document of any supported format and builds its tree.
func loadTree(cfg config.Config, path string, log *slog.Logger) (*domtree.TreeNode, error) {
	markup, err := source.LoadFile(path)
	if err != nil {
		return nil, err
	}
	tree, err := parser.NewBuilder(parser.OptionsFrom(cfg), log).Build(markup)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tree, nil
}

// renderOptions are the drawing flags shared by render and watch.
type renderOptions struct {
	output   string
	layout   string
	distance float64
}

func (o renderOptions) view(cfg config.Config) (render.ViewConfig, error) {
	view := render.DefaultView(cfg)
	if o.layout != "" {
		mode, err := layout.ParseMode(o.layout)
		if err != nil {
			return view, err
		}
		view.Layout = mode
	}
	if o.distance > 0 {
		view.NodeDistance = o.distance
	}
	return view, nil
}

// renderFile draws the document at path and writes SVG to the output file,
// or stdout when no output is set. It returns the number of drawn nodes.
func renderFile(cfg config.Config, path string, opts renderOptions, log *slog.Logger) (int, error) {
	tree, err := loadTree(cfg, path, log)
	if err != nil {
		return 0, err
	}
	view, err := opts.view(cfg)
	if err != nil {
		return 0, err
	}

	r := render.New(render.OptionsFrom(cfg), view, log)
	scene, err := r.Render(tree, view)
	if err != nil {
		return 0, err
	}

	if opts.output == "" || opts.output == "-" {
		if err := scene.WriteSVG(os.Stdout); err != nil {
			return 0, fmt.Errorf("write svg: %w", err)
		}
		return len(scene.Nodes), nil
	}
	if err := writeSVGFile(scene, opts.output); err != nil {
		return 0, err
	}
	return len(scene.Nodes), nil
}

// writeSVGFile writes the scene to path. Flush and close failures are
// reported like write failures.
func writeSVGFile(scene *render.Scene, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	if err := scene.WriteSVG(bw); err != nil {
		f.Close()
		return fmt.Errorf("write svg: %w", err)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("write svg: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
