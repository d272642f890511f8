package process

import (
	"errors"
	"testing"

	"github.com/arraykit/backproject/internal/testutil"
)

func TestBandpassPassesInBandSine(t *testing.T) {
	const fs = 100.0

	in := testutil.Sine(5, fs, 1, 4000)

	out, err := Bandpass(in, fs, 1, 10, 4, false)
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireFinite(t, out)

	// Steady-state RMS of an in-band sine stays close to the input RMS.
	inRMS := testutil.RMS(in[2000:])
	outRMS := testutil.RMS(out[2000:])
	if outRMS < 0.9*inRMS {
		t.Errorf("in-band RMS: got %g, want >= %g", outRMS, 0.9*inRMS)
	}
}

func TestBandpassRejectsOutOfBandSine(t *testing.T) {
	const fs = 100.0

	in := testutil.Sine(40, fs, 1, 4000)

	out, err := Bandpass(in, fs, 1, 10, 4, false)
	if err != nil {
		t.Fatal(err)
	}

	// 40 Hz is two octaves above the 10 Hz corner: an order-4 low-pass
	// leaves almost nothing.
	inRMS := testutil.RMS(in[2000:])
	outRMS := testutil.RMS(out[2000:])
	if outRMS > 0.05*inRMS {
		t.Errorf("out-of-band RMS: got %g, want <= %g", outRMS, 0.05*inRMS)
	}
}

func TestBandpassRemovesDC(t *testing.T) {
	const fs = 100.0

	out, err := Bandpass(testutil.DC(1, 4000), fs, 1, 10, 4, false)
	if err != nil {
		t.Fatal(err)
	}

	if rms := testutil.RMS(out[2000:]); rms > 0.01 {
		t.Errorf("DC leakage RMS: got %g, want ~0", rms)
	}
}

func TestBandpassZeroPhaseKeepsPeakPosition(t *testing.T) {
	const fs = 100.0

	in := testutil.GaussianPulse(2000, 1000, 20)

	out, err := Bandpass(in, fs, 0.5, 10, 4, true)
	if err != nil {
		t.Fatal(err)
	}

	peak := 0
	for i, v := range out {
		if v > out[peak] {
			peak = i
		}
	}

	// Forward-reverse filtering cancels group delay; the pulse peak must
	// stay put to within a few samples.
	if peak < 995 || peak > 1005 {
		t.Errorf("peak moved to %d, want ~1000", peak)
	}
}

func TestBandpassDoesNotMutateInput(t *testing.T) {
	in := testutil.Sine(5, 100, 1, 256)
	ref := make([]float64, len(in))
	copy(ref, in)

	if _, err := Bandpass(in, 100, 1, 10, 4, false); err != nil {
		t.Fatal(err)
	}

	testutil.RequireSliceNearlyEqual(t, in, ref, 0)
}

func TestBandpassRejectsBadParameters(t *testing.T) {
	sig := testutil.Ones(64)

	tests := []struct {
		name             string
		fs, fmin, fmax   float64
		order            int
		want             error
	}{
		{"zero min", 100, 0, 10, 4, ErrInvalidCorner},
		{"inverted corners", 100, 10, 5, 4, ErrInvalidCorner},
		{"max above nyquist", 100, 1, 60, 4, ErrInvalidCorner},
		{"odd order", 100, 1, 10, 3, ErrOddOrder},
		{"zero order", 100, 1, 10, 0, ErrOddOrder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Bandpass(sig, tt.fs, tt.fmin, tt.fmax, tt.order, false); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLowpassPassesDC(t *testing.T) {
	out, err := Lowpass(testutil.DC(1, 2000), 100, 10, 4, true)
	if err != nil {
		t.Fatal(err)
	}

	// DC gain of a Butterworth low-pass is unity; check away from the
	// edge transients.
	mid := out[800:1200]
	testutil.RequireSliceNearlyEqual(t, mid, testutil.Ones(len(mid)), 0.02)
}
