package process

import (
	"errors"
	"fmt"
)

// Errors returned by filtering stages.
var (
	ErrInvalidCorner = errors.New("process: corner frequencies must satisfy 0 < min < max < Nyquist")
	ErrOddOrder      = errors.New("process: filter order must be positive and even")
)

// Bandpass applies an order-n Butterworth band-pass between freqMin and
// freqMax Hz, realized as a high-pass/low-pass cascade of second-order
// sections. With zeroPhase the cascade runs forward and reversed,
// doubling the effective order and removing phase delay. The input is
// not modified.
func Bandpass(x []float64, sampleRate, freqMin, freqMax float64, order int, zeroPhase bool) ([]float64, error) {
	if err := checkBand(sampleRate, freqMin, freqMax); err != nil {
		return nil, err
	}
	if order <= 0 || order%2 != 0 {
		return nil, fmt.Errorf("%w: got %d", ErrOddOrder, order)
	}

	sections := highpassSections(freqMin, sampleRate, order)
	sections = append(sections, lowpassSections(freqMax, sampleRate, order)...)

	out := make([]float64, len(x))
	copy(out, x)

	if zeroPhase {
		applyCascadeZeroPhase(out, sections)
	} else {
		applyCascade(out, sections)
	}

	return out, nil
}

// Lowpass applies an order-n Butterworth low-pass at cutoff Hz. The input
// is not modified.
func Lowpass(x []float64, sampleRate, cutoff float64, order int, zeroPhase bool) ([]float64, error) {
	if sampleRate <= 0 || cutoff <= 0 || cutoff >= sampleRate/2 {
		return nil, fmt.Errorf("%w: cutoff %g at rate %g", ErrInvalidCorner, cutoff, sampleRate)
	}
	if order <= 0 || order%2 != 0 {
		return nil, fmt.Errorf("%w: got %d", ErrOddOrder, order)
	}

	out := make([]float64, len(x))
	copy(out, x)

	sections := lowpassSections(cutoff, sampleRate, order)
	if zeroPhase {
		applyCascadeZeroPhase(out, sections)
	} else {
		applyCascade(out, sections)
	}

	return out, nil
}

func checkBand(sampleRate, freqMin, freqMax float64) error {
	if sampleRate <= 0 || freqMin <= 0 || freqMax <= freqMin || freqMax >= sampleRate/2 {
		return fmt.Errorf("%w: band [%g, %g] at rate %g", ErrInvalidCorner, freqMin, freqMax, sampleRate)
	}

	return nil
}
