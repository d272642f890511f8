package process

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrUnknownAGCMethod is returned by ParseAGCMethod for unrecognized names.
var ErrUnknownAGCMethod = errors.New("process: unknown AGC method")

// AGCMethod selects the gain-window style of automatic gain control.
type AGCMethod int

const (
	// AGCGismo divides each sample by the mean absolute amplitude of a
	// window centered on it.
	AGCGismo AGCMethod = iota
	// AGCWalker divides each sample by the mean absolute amplitude of the
	// trailing window ending at it.
	AGCWalker
)

func (m AGCMethod) String() string {
	switch m {
	case AGCGismo:
		return "gismo"
	case AGCWalker:
		return "walker"
	default:
		return fmt.Sprintf("AGCMethod(%d)", int(m))
	}
}

// ParseAGCMethod converts a configuration string into an AGCMethod.
func ParseAGCMethod(s string) (AGCMethod, error) {
	switch strings.ToLower(s) {
	case "gismo":
		return AGCGismo, nil
	case "walker":
		return AGCWalker, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownAGCMethod, s)
	}
}

// AGCOptions configures automatic gain control.
type AGCOptions struct {
	WinSec float64 // gain window duration [s]
	Method AGCMethod
}

// agcFloor guards against division by a vanishing gain estimate. Samples
// whose window gain falls below it are zeroed instead of amplified.
const agcFloor = 1e-30

// AGC equalizes the signal envelope over a sliding window so quiet and
// loud sections contribute comparably to the stack. The input is not
// modified.
func AGC(x []float64, sampleRate float64, opt AGCOptions) ([]float64, error) {
	if opt.WinSec <= 0 || sampleRate <= 0 {
		return nil, fmt.Errorf("%w: window %g s at rate %g", ErrInvalidWindow, opt.WinSec, sampleRate)
	}
	if opt.Method != AGCGismo && opt.Method != AGCWalker {
		return nil, fmt.Errorf("%w: %v", ErrUnknownAGCMethod, opt.Method)
	}

	win := int(math.Round(opt.WinSec * sampleRate))
	if win < 1 {
		win = 1
	}

	n := len(x)
	out := make([]float64, n)
	if n == 0 {
		return out, nil
	}

	// Prefix sums of |x| drive both window styles.
	cum := make([]float64, n+1)
	for i, v := range x {
		cum[i+1] = cum[i] + math.Abs(v)
	}

	half := win / 2
	for i := range out {
		var lo, hi int

		if opt.Method == AGCGismo {
			lo, hi = i-half, i+half
		} else {
			lo, hi = i-win+1, i
		}

		if lo < 0 {
			lo = 0
		}
		if hi > n-1 {
			hi = n - 1
		}

		gain := (cum[hi+1] - cum[lo]) / float64(hi-lo+1)
		if gain < agcFloor {
			out[i] = 0
			continue
		}

		out[i] = x[i] / gain
	}

	return out, nil
}
