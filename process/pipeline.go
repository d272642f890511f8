package process

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/arraykit/backproject/waveform"
)

// Defaults applied by Run when the corresponding Option is zero.
const (
	DefaultOrder         = 4
	DefaultTaperFraction = 0.05
)

// Options selects and configures the conditioning stages. Zero-valued
// stages are skipped.
type Options struct {
	// Band-pass corners [Hz]. Both must be set to enable filtering.
	FreqMin float64
	FreqMax float64
	// Order of each Butterworth cascade; even, defaults to DefaultOrder.
	Order int
	// ZeroPhase runs filters forward and reversed.
	ZeroPhase bool
	// TaperFraction of the trace length tapered at each end before
	// filtering; defaults to DefaultTaperFraction. Negative disables.
	TaperFraction float64
	// Envelope replaces each trace with its amplitude envelope.
	Envelope bool
	// SmoothSec applies a centered moving average of this duration.
	SmoothSec float64
	// DecimateTo resamples to this rate [Hz]; must divide the input rate.
	DecimateTo float64
	// AGC enables automatic gain control when non-nil.
	AGC *AGCOptions
	// Normalize scales each trace to unit peak amplitude.
	Normalize bool
}

// Run conditions every station in the set and returns a new set; the
// input is never modified. The output satisfies the stacking engine's
// precondition when Envelope and Normalize are enabled: uniformly
// sampled, non-negative, peak-normalized traces.
func Run(set *waveform.Set, opt Options) (*waveform.Set, error) {
	order := opt.Order
	if order == 0 {
		order = DefaultOrder
	}

	taperFrac := opt.TaperFraction
	if taperFrac == 0 {
		taperFrac = DefaultTaperFraction
	}

	out := make([]waveform.Station, len(set.Stations))

	for i := range set.Stations {
		st := set.Stations[i]

		x := make([]float64, len(st.Samples))
		copy(x, st.Samples)

		demean(x, stat.Mean(x, nil))

		if taperFrac > 0 {
			taper(x, taperFrac)
		}

		var err error

		if opt.FreqMin > 0 && opt.FreqMax > 0 {
			x, err = Bandpass(x, st.SampleRate, opt.FreqMin, opt.FreqMax, order, opt.ZeroPhase)
			if err != nil {
				return nil, fmt.Errorf("station %s: %w", st.ID, err)
			}
		}

		if opt.Envelope {
			x, err = Envelope(x)
			if err != nil {
				return nil, fmt.Errorf("station %s: %w", st.ID, err)
			}
		}

		rate := st.SampleRate

		if opt.SmoothSec > 0 {
			win := int(math.Round(opt.SmoothSec * rate))
			x, err = Smooth(x, win)
			if err != nil {
				return nil, fmt.Errorf("station %s: %w", st.ID, err)
			}
		}

		if opt.DecimateTo > 0 && opt.DecimateTo != rate {
			x, err = Decimate(x, rate, opt.DecimateTo, order)
			if err != nil {
				return nil, fmt.Errorf("station %s: %w", st.ID, err)
			}
			rate = opt.DecimateTo
		}

		if opt.AGC != nil {
			x, err = AGC(x, rate, *opt.AGC)
			if err != nil {
				return nil, fmt.Errorf("station %s: %w", st.ID, err)
			}
		}

		if opt.Normalize {
			x = Normalize(x)
		}

		st.SampleRate = rate
		st.Samples = x
		out[i] = st
	}

	return waveform.NewSet(out)
}
