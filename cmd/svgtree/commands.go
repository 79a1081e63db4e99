package main

import (
	"fmt"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/benoitkugler/svgtree/svgpdf"
	"github.com/benoitkugler/svgtree/svgraster"
	"github.com/benoitkugler/svgtree/svgtree"
)

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info FILE",
		Short: "Print a summary of the resolved tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := a.parse(args[0])
			if err != nil {
				return err
			}
			return writeInfo(cmd.OutOrStdout(), tree)
		},
	}
}

func writeInfo(w io.Writer, tree *svgtree.Tree) error {
	var groups, paths, images, texts int
	for _, node := range tree.Root.Descendants() {
		switch node.Kind.(type) {
		case *svgtree.Group:
			groups++
		case *svgtree.Path:
			paths++
		case *svgtree.Image:
			images++
		case *svgtree.Text:
			texts++
		}
	}
	vb := tree.ViewBox.Rect
	_, err := fmt.Fprintf(w, "size: %gx%g\nview box: %g %g %g %g\ngroups: %d\npaths: %d\nimages: %d\ntexts: %d\n",
		tree.Size.W, tree.Size.H, vb.X, vb.Y, vb.W, vb.H, groups, paths, images, texts)
	if err != nil {
		return err
	}
	if bbox, ok := tree.Root.CalculateBbox(); ok {
		_, err = fmt.Fprintf(w, "bounding box: %g %g %g %g\n", bbox.X, bbox.Y, bbox.W, bbox.H)
	}
	return err
}

// outputPath defaults to the input path with the given extension.
func outputPath(output, input, ext string) string {
	if output != "" {
		return output
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + ext
}

func newRenderCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "render FILE",
		Short: "Rasterize the tree into a PNG image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := a.parse(args[0])
			if err != nil {
				return err
			}
			w, h := renderSize(tree.Size, a.cfg.Render.Width, a.cfg.Render.Height)
			img := svgraster.RasterTree(tree, w, h, a.logger)

			path := outputPath(output, args[0], ".png")
			f, err := os.Create(path)
			if err != nil {
				return err
			}
			if err := png.Encode(f, img); err != nil {
				f.Close()
				return fmt.Errorf("encoding %s: %w", path, err)
			}
			a.logger.Info("image written", zap.String("path", path), zap.Int("width", w), zap.Int("height", h))
			return f.Close()
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default is the input file with a .png extension)")
	cmd.Flags().Int("width", 0, "output width in pixels (default from the document)")
	cmd.Flags().Int("height", 0, "output height in pixels (default from the document)")
	bindFlag(a.v, "render.width", cmd.Flags().Lookup("width"))
	bindFlag(a.v, "render.height", cmd.Flags().Lookup("height"))
	return cmd
}

// renderSize fills a missing dimension keeping the aspect ratio.
func renderSize(size svgtree.Size, w, h int) (int, int) {
	switch {
	case w == 0 && h == 0:
		return int(math.Ceil(size.W)), int(math.Ceil(size.H))
	case w == 0:
		return int(math.Ceil(float64(h) * size.W / size.H)), h
	case h == 0:
		return w, int(math.Ceil(float64(w) * size.H / size.W))
	}
	return w, h
}

func newPDFCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "pdf FILE",
		Short: "Write the tree into a one page PDF document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := a.parse(args[0])
			if err != nil {
				return err
			}
			path := outputPath(output, args[0], ".pdf")
			f, err := os.Create(path)
			if err != nil {
				return err
			}
			if err := svgpdf.WriteTree(tree, f, a.logger); err != nil {
				f.Close()
				return fmt.Errorf("writing %s: %w", path, err)
			}
			a.logger.Info("document written", zap.String("path", path))
			return f.Close()
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default is the input file with a .pdf extension)")
	return cmd
}
