package canvas

import (
	"bytes"
	"fmt"
	"html"
	"image/color"
	"io"
	"strings"
)

// OpKind identifies a recorded drawing operation.
type OpKind int

const (
	OpLine OpKind = iota
	OpCircle
	OpText
)

func (k OpKind) String() string {
	switch k {
	case OpLine:
		return "line"
	case OpCircle:
		return "circle"
	case OpText:
		return "text"
	}
	return "unknown"
}

// Op is one recorded drawing operation. Fields not used by the kind are
// zero: lines use X1..Y2 and Alpha, circles X1, Y1 and R, text X1, Y1 and
// Text.
type Op struct {
	Kind           OpKind
	X1, Y1, X2, Y2 float64
	R              float64
	Alpha          float64
	Color          color.Color
	Text           string
}

// Vector is a [Surface] that records operations instead of rasterizing
// them. Clear discards the recording.
type Vector struct {
	width, height int
	ops           []Op
}

// NewVector creates an empty recording surface.
func NewVector(width, height int) *Vector {
	return &Vector{width: width, height: height}
}

func (v *Vector) Size() (int, int) { return v.width, v.height }

func (v *Vector) Clear() { v.ops = v.ops[:0] }

func (v *Vector) Line(x1, y1, x2, y2 float64, c color.Color, alpha float64) {
	v.ops = append(v.ops, Op{Kind: OpLine, X1: x1, Y1: y1, X2: x2, Y2: y2, Color: c, Alpha: alpha})
}

func (v *Vector) Circle(x, y, r float64, c color.Color) {
	v.ops = append(v.ops, Op{Kind: OpCircle, X1: x, Y1: y, R: r, Color: c, Alpha: 1})
}

func (v *Vector) Text(s string, x, y float64, c color.Color) {
	v.ops = append(v.ops, Op{Kind: OpText, X1: x, Y1: y, Text: s, Color: c, Alpha: 1})
}

// Ops returns the recorded operations in drawing order.
func (v *Vector) Ops() []Op { return v.ops }

// Count returns how many operations of kind k were recorded.
func (v *Vector) Count(k OpKind) int {
	n := 0
	for _, op := range v.ops {
		if op.Kind == k {
			n++
		}
	}
	return n
}

// WriteSVG writes the recording as a standalone SVG document.
func (v *Vector) WriteSVG(w io.Writer) error {
	_, err := w.Write(CompositeSVG(nil, v))
	return err
}

// CompositeSVG serializes layers, in order, into one SVG document over an
// optional background color.
func CompositeSVG(bg color.Color, layers ...*Vector) []byte {
	var w, h int
	if len(layers) > 0 {
		w, h = layers[0].Size()
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n", w, h, w, h)
	if bg != nil {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", hex(bg))
	}
	for i, l := range layers {
		fmt.Fprintf(&buf, `  <g id="layer-%d">`+"\n", i)
		for _, op := range l.ops {
			writeOp(&buf, op)
		}
		buf.WriteString("  </g>\n")
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// xmlText escapes s for character data, replacing invalid UTF-8 and
// dropping code points XML 1.0 does not allow.
func xmlText(s string) string {
	s = strings.ToValidUTF8(s, "\uFFFD")
	s = strings.Map(func(r rune) rune {
		if (r < 0x20 && r != '\t' && r != '\n' && r != '\r') || r == 0xFFFE || r == 0xFFFF {
			return -1
		}
		return r
	}, s)
	return html.EscapeString(s)
}

func writeOp(buf *bytes.Buffer, op Op) {
	switch op.Kind {
	case OpLine:
		fmt.Fprintf(buf, `    <line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-opacity="%s"/>`+"\n",
			fmtFloat(op.X1), fmtFloat(op.Y1), fmtFloat(op.X2), fmtFloat(op.Y2), hex(op.Color), fmtFloat(op.Alpha))
	case OpCircle:
		fmt.Fprintf(buf, `    <circle cx="%s" cy="%s" r="%s" fill="%s"/>`+"\n",
			fmtFloat(op.X1), fmtFloat(op.Y1), fmtFloat(op.R), hex(op.Color))
	case OpText:
		fmt.Fprintf(buf, `    <text x="%s" y="%s" fill="%s" font-family="monospace" font-size="12">%s</text>`+"\n",
			fmtFloat(op.X1), fmtFloat(op.Y1), hex(op.Color), xmlText(op.Text))
	}
}
