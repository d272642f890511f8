package waveform

import (
	"errors"
	"fmt"
	"time"
)

// Errors returned by set validation.
var (
	ErrInconsistentSet = errors.New("waveform: stations have mismatched sampling or time base")
	ErrEmptyStation    = errors.New("waveform: station has no samples")
	ErrInvalidRate     = errors.New("waveform: sample rate must be positive")
)

// Station is one sensor: identity, position, and its preprocessed trace.
type Station struct {
	ID        string
	Lon       float64 // [deg]
	Lat       float64 // [deg]
	Elevation float64 // [m]; carried for completeness, unused by the travel-time model

	SampleRate float64 // [Hz]
	Start      time.Time
	Samples    []float64
}

// Set is the station collection for a single run. All stations share one
// sample rate, start time, and trace length; NewSet enforces this so the
// engine never discovers a mismatch mid-loop.
type Set struct {
	Stations []Station
}

// NewSet validates the uniform-sampling invariant and returns the set.
func NewSet(stations []Station) (*Set, error) {
	s := &Set{Stations: stations}
	if len(stations) == 0 {
		return s, nil // emptiness is the engine's ErrNoData concern
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

// Validate checks every station against the first one.
func (s *Set) Validate() error {
	if len(s.Stations) == 0 {
		return nil
	}

	ref := &s.Stations[0]
	if ref.SampleRate <= 0 {
		return fmt.Errorf("station %s: %w: got %g", ref.ID, ErrInvalidRate, ref.SampleRate)
	}
	if len(ref.Samples) == 0 {
		return fmt.Errorf("station %s: %w", ref.ID, ErrEmptyStation)
	}

	for i := 1; i < len(s.Stations); i++ {
		st := &s.Stations[i]

		switch {
		case st.SampleRate != ref.SampleRate:
			return fmt.Errorf("station %s: sample rate %g != %g: %w",
				st.ID, st.SampleRate, ref.SampleRate, ErrInconsistentSet)
		case !st.Start.Equal(ref.Start):
			return fmt.Errorf("station %s: start %s != %s: %w",
				st.ID, st.Start.Format(time.RFC3339Nano), ref.Start.Format(time.RFC3339Nano),
				ErrInconsistentSet)
		case len(st.Samples) != len(ref.Samples):
			return fmt.Errorf("station %s: length %d != %d: %w",
				st.ID, len(st.Samples), len(ref.Samples), ErrInconsistentSet)
		case len(st.Samples) == 0:
			return fmt.Errorf("station %s: %w", st.ID, ErrEmptyStation)
		}
	}

	return nil
}

// SampleRate returns the common sample rate, or 0 for an empty set.
func (s *Set) SampleRate() float64 {
	if len(s.Stations) == 0 {
		return 0
	}

	return s.Stations[0].SampleRate
}

// Start returns the common start time.
func (s *Set) Start() time.Time {
	if len(s.Stations) == 0 {
		return time.Time{}
	}

	return s.Stations[0].Start
}

// NumSamples returns the common trace length.
func (s *Set) NumSamples() int {
	if len(s.Stations) == 0 {
		return 0
	}

	return len(s.Stations[0].Samples)
}
