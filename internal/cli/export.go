package cli

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dashgrid/pkg/dashboard"
	"github.com/matzehuels/dashgrid/pkg/errors"
	"github.com/matzehuels/dashgrid/pkg/render"
	"github.com/matzehuels/dashgrid/pkg/widget"
)

// Export formats.
const (
	formatJSON = "json"
	formatDOT  = "dot"
	formatSVG  = "svg"
	formatPDF  = "pdf"
	formatPNG  = "png"
)

var exportFormats = []string{formatJSON, formatDOT, formatSVG, formatPDF, formatPNG}

// exportOpts holds the command-line flags for the export command.
type exportOpts struct {
	format string  // output format
	output string  // output file, stdout when empty
	width  float64 // container width in pixels (dot, svg, pdf, png)
	scale  float64 // png resolution factor
}

// exportCommand creates the "export" command.
func (c *CLI) exportCommand() *cobra.Command {
	opts := exportOpts{
		format: formatJSON,
		width:  render.DefaultWidth,
		scale:  2,
	}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the layout as JSON, DOT, SVG, PDF or PNG",
		Long: `Write the layout as JSON, DOT, SVG, PDF or PNG.

JSON is the persisted snapshot format. The graphical formats draw every
widget at its pixel position for a container of the given width; PDF and
PNG additionally require rsvg-convert (librsvg).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(exportFormats, opts.format) {
				return errors.New(errors.ErrCodeInvalidInput, "unknown format %q (want json, dot, svg, pdf or png)", opts.format)
			}
			return c.withSession(cmd.Context(), func(s *session) error {
				prog := newProgress(c.Logger)
				data, err := exportLayout(cmd.Context(), s.store, s.cfg.Catalog(), opts)
				if err != nil {
					return err
				}
				if opts.output == "" {
					_, err := cmd.OutOrStdout().Write(data)
					return err
				}
				if err := os.WriteFile(opts.output, data, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", opts.output, err)
				}
				prog.done(fmt.Sprintf("Exported %s", opts.format))
				printFile(opts.output)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: json (default), dot, svg, pdf, png")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().Float64Var(&opts.width, "width", opts.width, "container width in pixels")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "png resolution factor")

	return cmd
}

// exportLayout renders the store's layout in opts.format.
func exportLayout(ctx context.Context, store *dashboard.Store, catalog *widget.Catalog, opts exportOpts) ([]byte, error) {
	if opts.format == formatJSON {
		return dashboard.EncodeSnapshot(store.Snapshot())
	}

	dot := render.DOT(store.Instances(), store.Spec(), render.DOTOptions{
		Width:  opts.width,
		Titles: titles(catalog),
	})
	if opts.format == formatDOT {
		return []byte(dot), nil
	}

	svg, err := render.SVG(ctx, dot)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render layout")
	}
	switch opts.format {
	case formatPDF:
		return render.ToPDF(ctx, svg)
	case formatPNG:
		return render.ToPNG(ctx, svg, opts.scale)
	default:
		return svg, nil
	}
}

// titles maps each catalog kind to its display title.
func titles(catalog *widget.Catalog) map[string]string {
	out := make(map[string]string)
	for _, k := range catalog.Kinds() {
		out[k.Name] = k.Title
	}
	return out
}
