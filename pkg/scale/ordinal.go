package scale

import (
	"image/color"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
)

// Category20 is the twenty-color categorical palette used for clusters.
var Category20 = []string{
	"#1f77b4", "#aec7e8", "#ff7f0e", "#ffbb78", "#2ca02c",
	"#98df8a", "#d62728", "#ff9896", "#9467bd", "#c5b0d5",
	"#8c564b", "#c49c94", "#e377c2", "#f7b6d2", "#7f7f7f",
	"#c7c7c7", "#bcbd22", "#dbdb8d", "#17becf", "#9edae5",
}

// Ordinal assigns palette colors to keys in first-seen order, cycling when
// the palette is exhausted. The same key always maps to the same color.
// It is safe for concurrent use.
type Ordinal struct {
	mu      sync.Mutex
	palette []colorful.Color
	index   map[string]int
	keys    []string
}

// NewOrdinal creates an ordinal scale over a palette of hex colors.
// Invalid hex entries fall back to black.
func NewOrdinal(hexes []string) *Ordinal {
	palette := make([]colorful.Color, len(hexes))
	for i, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			c = colorful.Color{}
		}
		palette[i] = c
	}
	return &Ordinal{palette: palette, index: make(map[string]int)}
}

// NewCategory20 creates an ordinal scale over [Category20].
func NewCategory20() *Ordinal {
	return NewOrdinal(Category20)
}

// Color returns the color for key, assigning the next palette slot to
// previously unseen keys.
func (s *Ordinal) Color(key string) color.Color {
	return s.colorful(key)
}

// Hex returns the color for key as a "#rrggbb" string.
func (s *Ordinal) Hex(key string) string {
	return s.colorful(key).Hex()
}

// Domain returns the keys seen so far, in assignment order.
func (s *Ordinal) Domain() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.keys...)
}

func (s *Ordinal) colorful(key string) colorful.Color {
	if len(s.palette) == 0 {
		return colorful.Color{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[key]
	if !ok {
		i = len(s.keys)
		s.index[key] = i
		s.keys = append(s.keys, key)
	}
	return s.palette[i%len(s.palette)]
}
