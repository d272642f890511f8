package process

import (
	"errors"
	"fmt"
)

// ErrInvalidWindow is returned for non-positive smoothing or AGC windows.
var ErrInvalidWindow = errors.New("process: window length must be positive")

// Smooth applies a centered moving average of win samples. The window
// shrinks at the trace edges so the output keeps the input length. The
// input is not modified.
func Smooth(x []float64, win int) ([]float64, error) {
	if win <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidWindow, win)
	}

	n := len(x)
	out := make([]float64, n)
	if n == 0 {
		return out, nil
	}

	// Prefix sums: cum[i] = sum of x[:i].
	cum := make([]float64, n+1)
	for i, v := range x {
		cum[i+1] = cum[i] + v
	}

	half := win / 2
	for i := range out {
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half
		if hi > n-1 {
			hi = n - 1
		}

		out[i] = (cum[hi+1] - cum[lo]) / float64(hi-lo+1)
	}

	return out, nil
}
