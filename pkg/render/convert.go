package render

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"
	"strings"

	"github.com/matzehuels/dashgrid/pkg/errors"
)

// converter is the external tool that rasterises SVG.
const converter = "rsvg-convert"

// ToPDF converts an exported layout SVG to PDF.
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return convertSVG(ctx, svg, "pdf")
}

// ToPNG converts an exported layout SVG to PNG. A zoom of 2 doubles the
// pixel size of every widget.
func ToPNG(ctx context.Context, svg []byte, zoom float64) ([]byte, error) {
	if zoom <= 0 {
		zoom = 1
	}
	return convertSVG(ctx, svg, "png", "--zoom", strconv.FormatFloat(zoom, 'f', 2, 64))
}

func convertSVG(ctx context.Context, svg []byte, format string, extra ...string) ([]byte, error) {
	path, err := exec.LookPath(converter)
	if err != nil {
		return nil, errors.New(errors.ErrCodeUnsupported,
			"%s export needs %s (librsvg): brew install librsvg, or apt install librsvg2-bin", format, converter)
	}

	cmd := exec.CommandContext(ctx, path, append([]string{"--format", format}, extra...)...)
	cmd.Stdin = bytes.NewReader(svg)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "%s: %s", converter, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}
