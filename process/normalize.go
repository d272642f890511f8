package process

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Normalize scales x so its peak absolute amplitude is 1. An all-zero
// trace is returned unchanged. The input is not modified.
func Normalize(x []float64) []float64 {
	out := make([]float64, len(x))

	peak := vecmath.MaxAbs(x)
	if peak == 0 {
		copy(out, x)
		return out
	}

	vecmath.ScaleBlock(out, x, 1/peak)

	return out
}

// demean removes the mean in place.
func demean(x []float64, mean float64) {
	for i := range x {
		x[i] -= mean
	}
}

// taper applies a cosine (Hann-edged) taper to the first and last
// fraction*len(x) samples in place, suppressing filter edge transients.
func taper(x []float64, fraction float64) {
	n := len(x)

	m := int(float64(n) * fraction)
	if m < 1 {
		return
	}

	for i := 0; i < m && i < n; i++ {
		w := 0.5 * (1 - math.Cos(math.Pi*float64(i)/float64(m)))
		x[i] *= w
		x[n-1-i] *= w
	}
}
