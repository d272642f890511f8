package process

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidDecimation is returned when the target rate does not divide
// the sample rate into an integer factor.
var ErrInvalidDecimation = errors.New("process: target rate must divide the sample rate")

// decimateGuard is the anti-alias cutoff as a fraction of the target
// Nyquist frequency.
const decimateGuard = 0.8

// Decimate reduces the sample rate to target Hz by low-pass filtering and
// keeping every factor-th sample, where factor = sampleRate/target must
// be a whole number. A target equal to the sample rate returns an
// unfiltered copy. The input is not modified.
func Decimate(x []float64, sampleRate, target float64, order int) ([]float64, error) {
	if target <= 0 || sampleRate <= 0 {
		return nil, fmt.Errorf("%w: target %g at rate %g", ErrInvalidDecimation, target, sampleRate)
	}

	ratio := sampleRate / target
	factor := int(math.Round(ratio))
	if factor < 1 || math.Abs(ratio-float64(factor)) > 1e-9 {
		return nil, fmt.Errorf("%w: rate %g / target %g = %g", ErrInvalidDecimation, sampleRate, target, ratio)
	}

	if factor == 1 {
		out := make([]float64, len(x))
		copy(out, x)
		return out, nil
	}

	// Anti-alias before selection; zero-phase so arrival times survive.
	cutoff := decimateGuard * target / 2
	filtered, err := Lowpass(x, sampleRate, cutoff, order, true)
	if err != nil {
		return nil, err
	}

	out := make([]float64, 0, (len(x)+factor-1)/factor)
	for i := 0; i < len(filtered); i += factor {
		out = append(out, filtered[i])
	}

	return out, nil
}
