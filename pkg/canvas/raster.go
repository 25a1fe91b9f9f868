package canvas

import (
	"image"
	"image/color"
	"io"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// Raster is a bitmap [Surface] backed by a gg context. The surface starts
// transparent.
type Raster struct {
	dc   *gg.Context
	face font.Face
}

// NewRaster allocates a transparent raster of the given size.
func NewRaster(width, height int) *Raster {
	r := &Raster{dc: gg.NewContext(width, height), face: basicfont.Face7x13}
	r.dc.SetFontFace(r.face)
	r.dc.SetLineWidth(1)
	return r
}

// SetFontFace replaces the label font.
func (r *Raster) SetFontFace(f font.Face) {
	r.face = f
	r.dc.SetFontFace(f)
}

func (r *Raster) Size() (int, int) { return r.dc.Width(), r.dc.Height() }

func (r *Raster) Clear() {
	r.dc.SetRGBA(0, 0, 0, 0)
	r.dc.Clear()
}

func (r *Raster) Line(x1, y1, x2, y2 float64, c color.Color, alpha float64) {
	r.dc.SetColor(withAlpha(c, alpha))
	r.dc.DrawLine(x1, y1, x2, y2)
	r.dc.Stroke()
}

func (r *Raster) Circle(x, y, radius float64, c color.Color) {
	r.dc.SetColor(c)
	r.dc.DrawCircle(x, y, radius)
	r.dc.Fill()
}

func (r *Raster) Text(s string, x, y float64, c color.Color) {
	r.dc.SetColor(c)
	r.dc.DrawString(s, x, y)
}

// Image returns the underlying bitmap.
func (r *Raster) Image() image.Image { return r.dc.Image() }

// EncodePNG writes the surface as PNG.
func (r *Raster) EncodePNG(w io.Writer) error { return r.dc.EncodePNG(w) }

// Composite flattens layers, in order, over a background color. A nil
// background leaves the result transparent. All layers are drawn at the
// origin; the result has the size of the first layer.
func Composite(bg color.Color, layers ...*Raster) *Raster {
	if len(layers) == 0 {
		return NewRaster(0, 0)
	}
	w, h := layers[0].Size()
	out := NewRaster(w, h)
	if bg != nil {
		out.dc.SetColor(bg)
		out.dc.Clear()
	}
	for _, l := range layers {
		out.dc.DrawImage(l.Image(), 0, 0)
	}
	return out
}
