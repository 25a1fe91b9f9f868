package render

import (
	"image/color"
	"io"

	"github.com/matzehuels/forcegraph/pkg/canvas"
	"github.com/matzehuels/forcegraph/pkg/graph"
)

// Background is the color exported frames are flattened onto.
var Background color.Color = color.White

// EncodePNG draws the current state onto fresh rasters of the given size
// and writes the flattened frame as PNG.
func EncodePNG(w io.Writer, r *Renderer, width, height int, alpha float64, selected *graph.Node) error {
	primary, overlay := canvas.NewRaster(width, height), canvas.NewRaster(width, height)
	r.With(primary, overlay).Draw(alpha, selected)
	return canvas.Composite(Background, primary, overlay).EncodePNG(w)
}

// EncodeSVG draws the current state onto fresh vector surfaces and returns
// the flattened SVG document.
func EncodeSVG(r *Renderer, width, height int, alpha float64, selected *graph.Node) []byte {
	primary, overlay := canvas.NewVector(width, height), canvas.NewVector(width, height)
	r.With(primary, overlay).Draw(alpha, selected)
	return canvas.CompositeSVG(Background, primary, overlay)
}
