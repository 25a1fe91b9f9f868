package canvas

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Surface is an immediate-mode 2D drawing target.
type Surface interface {
	// Size returns the surface dimensions in pixels.
	Size() (width, height int)
	// Clear erases everything drawn so far.
	Clear()
	// Line strokes a segment with the given color and opacity.
	Line(x1, y1, x2, y2 float64, c color.Color, alpha float64)
	// Circle fills a disc centred on (x, y).
	Circle(x, y, r float64, c color.Color)
	// Text draws s with its baseline starting at (x, y).
	Text(s string, x, y float64, c color.Color)
}

// Black is the label color.
var Black color.Color = color.Black

// hex formats c as #rrggbb.
func hex(c color.Color) string {
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return "#000000"
	}
	return cf.Hex()
}

// withAlpha returns c with its opacity multiplied by alpha.
func withAlpha(c color.Color, alpha float64) color.Color {
	alpha = min(max(alpha, 0), 1)
	r, g, b, a := c.RGBA()
	k := alpha
	return color.RGBA64{
		R: uint16(float64(r) * k),
		G: uint16(float64(g) * k),
		B: uint16(float64(b) * k),
		A: uint16(float64(a) * k),
	}
}

func fmtFloat(v float64) string { return fmt.Sprintf("%.2f", v) }
