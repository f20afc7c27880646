package chart

import (
	"math"
)

// linear maps a numeric domain onto a pixel range.
type linear struct {
	d0, d1 float64
	r0, r1 float64
}

func (s linear) at(v float64) float64 {
	if s.d1 == s.d0 {
		return (s.r0 + s.r1) / 2
	}
	return s.r0 + (v-s.d0)/(s.d1-s.d0)*(s.r1-s.r0)
}

// nice extends the domain outward to round tick boundaries.
func (s linear) nice(count int) linear {
	step := tickStep(s.d0, s.d1, count)
	if step == 0 {
		return s
	}
	s.d0 = math.Floor(s.d0/step) * step
	s.d1 = math.Ceil(s.d1/step) * step
	return s
}

func (s linear) ticks(count int) []float64 {
	step := tickStep(s.d0, s.d1, count)
	if step == 0 {
		return []float64{s.d0}
	}
	var out []float64
	for i := math.Ceil(s.d0 / step); i*step <= s.d1+step*1e-9; i++ {
		out = append(out, i*step)
	}
	return out
}

// tickStep picks a 1, 2 or 5 times power-of-ten step giving about count ticks.
func tickStep(start, stop float64, count int) float64 {
	span := math.Abs(stop - start)
	if span == 0 || count <= 0 {
		return 0
	}
	raw := span / float64(count)
	power := math.Floor(math.Log10(raw))
	base := math.Pow(10, power)
	f := raw / base
	switch {
	case f >= math.Sqrt(50):
		f = 10
	case f >= math.Sqrt(10):
		f = 5
	case f >= math.Sqrt(2):
		f = 2
	default:
		f = 1
	}
	return f * base
}

// band splits a pixel range into n equal bands separated by padding.
type band struct {
	n       int
	r0, r1  float64
	padding float64
	step    float64
	bw      float64
	start   float64
}

func newBand(n int, r0, r1, padding float64) band {
	b := band{n: n, r0: r0, r1: r1, padding: padding}
	if n == 0 {
		return b
	}
	// Inner and outer padding are equal, bands centered in the range.
	b.step = (r1 - r0) / math.Max(1, float64(n)-padding+2*padding)
	b.bw = b.step * (1 - padding)
	b.start = r0 + (r1-r0-b.step*(float64(n)-padding))/2
	return b
}

func (b band) at(i int) float64    { return b.start + b.step*float64(i) }
func (b band) bandwidth() float64 { return b.bw }
