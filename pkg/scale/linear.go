package scale

// Linear maps a continuous domain [D0, D1] onto a range [R0, R1].
//
// Out-of-domain inputs are clamped to the range. A degenerate domain
// (D0 == D1) maps every input to the range midpoint.
type Linear struct {
	D0, D1 float64
	R0, R1 float64
}

// NewLinear creates a linear scale with domain [0, 1] and the given range.
func NewLinear(r0, r1 float64) *Linear {
	return &Linear{D0: 0, D1: 1, R0: r0, R1: r1}
}

// Domain sets the input extent.
func (s *Linear) Domain(d0, d1 float64) *Linear {
	s.D0, s.D1 = d0, d1
	return s
}

// Range sets the output extent.
func (s *Linear) Range(r0, r1 float64) *Linear {
	s.R0, s.R1 = r0, r1
	return s
}

// Map returns the range value for v.
func (s *Linear) Map(v float64) float64 {
	if s.D1 == s.D0 {
		return (s.R0 + s.R1) / 2
	}
	t := (v - s.D0) / (s.D1 - s.D0)
	t = max(0, min(1, t))
	return s.R0 + t*(s.R1-s.R0)
}

// Extent returns the minimum and maximum of values, or (0, 0) if empty.
func Extent(values []float64) (lo, hi float64) {
	for i, v := range values {
		if i == 0 {
			lo, hi = v, v
			continue
		}
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return lo, hi
}
