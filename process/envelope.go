package process

import (
	"fmt"

	algofft "github.com/cwbudde/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// Envelope returns the amplitude envelope of x: the magnitude of the
// analytic signal, computed by zeroing the negative-frequency half of the
// spectrum. The envelope makes travel-time alignment robust to waveform
// phase differences across stations. The input is not modified.
func Envelope(x []float64) ([]float64, error) {
	n := len(x)
	if n == 0 {
		return nil, nil
	}

	fftSize := nextPowerOf2(n)

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("process: envelope plan: %w", err)
	}

	in := make([]complex128, fftSize)
	for i, v := range x {
		in[i] = complex(v, 0)
	}

	spec := make([]complex128, fftSize)
	if err := plan.Forward(spec, in); err != nil {
		return nil, fmt.Errorf("process: envelope forward FFT: %w", err)
	}

	// Analytic signal: keep DC and Nyquist, double the positive
	// frequencies, zero the negative ones.
	half := fftSize / 2
	for k := 1; k < half; k++ {
		spec[k] *= 2
	}
	for k := half + 1; k < fftSize; k++ {
		spec[k] = 0
	}

	analytic := make([]complex128, fftSize)
	if err := plan.Inverse(analytic, spec); err != nil {
		return nil, fmt.Errorf("process: envelope inverse FFT: %w", err)
	}

	re := make([]float64, n)
	im := make([]float64, n)
	for i := 0; i < n; i++ {
		re[i] = real(analytic[i])
		im[i] = imag(analytic[i])
	}

	env := make([]float64, n)
	vecmath.Magnitude(env, re, im)

	return env, nil
}

func nextPowerOf2(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}

	return size
}
