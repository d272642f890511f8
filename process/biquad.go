package process

import "math"

// biquadCoeffs holds one normalized second-order section (a0 = 1).
// The difference equation follows Direct Form II Transposed:
//
//	y  = b0*x + d0
//	d0 = b1*x - a1*y + d1
//	d1 = b2*x - a2*y
type biquadCoeffs struct {
	b0, b1, b2 float64
	a1, a2     float64
}

// applyCascade runs the section cascade over buf in place, forward only.
func applyCascade(buf []float64, sections []biquadCoeffs) {
	for _, c := range sections {
		var d0, d1 float64

		for i, x := range buf {
			y := c.b0*x + d0
			d0 = c.b1*x - c.a1*y + d1
			d1 = c.b2*x - c.a2*y
			buf[i] = y
		}
	}
}

// applyCascadeZeroPhase filters forward, then time-reversed, cancelling
// the cascade's phase delay at the cost of squaring its magnitude
// response.
func applyCascadeZeroPhase(buf []float64, sections []biquadCoeffs) {
	applyCascade(buf, sections)
	reverse(buf)
	applyCascade(buf, sections)
	reverse(buf)
}

func reverse(buf []float64) {
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
}

// butterworthQs returns the section Q values of an order-n Butterworth
// filter. n must be even: the cascade is built from second-order sections
// only.
func butterworthQs(n int) []float64 {
	qs := make([]float64, n/2)
	for k := range qs {
		theta := float64(2*k+1) * math.Pi / float64(2*n)
		qs[k] = 1 / (2 * math.Sin(theta))
	}

	return qs
}

// lowpassSections designs an order-n Butterworth low-pass at cutoff Hz as
// cascaded RBJ sections.
func lowpassSections(cutoff, sampleRate float64, n int) []biquadCoeffs {
	qs := butterworthQs(n)
	out := make([]biquadCoeffs, len(qs))

	w0 := 2 * math.Pi * cutoff / sampleRate
	sinW, cosW := math.Sincos(w0)

	for i, q := range qs {
		alpha := sinW / (2 * q)
		a0 := 1 + alpha

		out[i] = biquadCoeffs{
			b0: (1 - cosW) / 2 / a0,
			b1: (1 - cosW) / a0,
			b2: (1 - cosW) / 2 / a0,
			a1: -2 * cosW / a0,
			a2: (1 - alpha) / a0,
		}
	}

	return out
}

// highpassSections designs an order-n Butterworth high-pass at cutoff Hz.
func highpassSections(cutoff, sampleRate float64, n int) []biquadCoeffs {
	qs := butterworthQs(n)
	out := make([]biquadCoeffs, len(qs))

	w0 := 2 * math.Pi * cutoff / sampleRate
	sinW, cosW := math.Sincos(w0)

	for i, q := range qs {
		alpha := sinW / (2 * q)
		a0 := 1 + alpha

		out[i] = biquadCoeffs{
			b0: (1 + cosW) / 2 / a0,
			b1: -(1 + cosW) / a0,
			b2: (1 + cosW) / 2 / a0,
			a1: -2 * cosW / a0,
			a2: (1 - alpha) / a0,
		}
	}

	return out
}
