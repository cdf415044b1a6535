package native

import "math"

// svf is a zero-delay-feedback state variable filter, one per channel.
type svf struct {
	g, k         float32
	ic1eq, ic2eq float32

	rate, cutoff, q float64
}

func (s *svf) tune(rate, cutoff, q float64) {
	if rate == s.rate && cutoff == s.cutoff && q == s.q {
		return
	}
	s.rate, s.cutoff, s.q = rate, cutoff, q

	nyquist := rate * 0.49
	if cutoff > nyquist {
		cutoff = nyquist
	}
	if cutoff < 1 {
		cutoff = 1
	}
	if q < 0.01 {
		q = 0.01
	}
	s.g = float32(math.Tan(math.Pi * cutoff / rate))
	s.k = float32(1 / q)
}

func (s *svf) lowpass(buf []float32) {
	g, k := s.g, s.k
	a1 := 1 / (1 + g*(g+k))
	a2 := g * a1
	a3 := g * a2

	ic1eq, ic2eq := s.ic1eq, s.ic2eq
	for i, x := range buf {
		v3 := x - ic2eq
		v1 := a1*ic1eq + a2*v3
		v2 := ic2eq + a2*ic1eq + a3*v3
		ic1eq = 2*v1 - ic1eq
		ic2eq = 2*v2 - ic2eq
		buf[i] = v2
	}
	s.ic1eq, s.ic2eq = ic1eq, ic2eq
}

// lookahead delays a channel by a fixed number of samples. It is the source of
// the latency the program declares in its metadata.
type lookahead struct {
	buf []float32
	pos int
}

func newLookahead(samples int) *lookahead {
	return &lookahead{buf: make([]float32, samples)}
}

func (l *lookahead) process(buf []float32) {
	if len(l.buf) == 0 {
		return
	}
	for i, x := range buf {
		buf[i] = l.buf[l.pos]
		l.buf[l.pos] = x
		l.pos++
		if l.pos == len(l.buf) {
			l.pos = 0
		}
	}
}
