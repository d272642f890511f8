package waveform

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Stats summarizes one trace for run diagnostics.
type Stats struct {
	Length int
	Mean   float64
	RMS    float64
	Peak   float64 // max absolute amplitude
}

// Stats computes trace statistics in a single pass.
func (st *Station) Stats() Stats {
	n := len(st.Samples)
	if n == 0 {
		return Stats{}
	}

	var sumSq, peak float64
	for _, x := range st.Samples {
		sumSq += x * x
		if a := math.Abs(x); a > peak {
			peak = a
		}
	}

	return Stats{
		Length: n,
		Mean:   stat.Mean(st.Samples, nil),
		RMS:    math.Sqrt(sumSq / float64(n)),
		Peak:   peak,
	}
}
