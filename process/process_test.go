package process

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/arraykit/backproject/internal/testutil"
	"github.com/arraykit/backproject/waveform"
)

func TestSmoothPreservesConstant(t *testing.T) {
	out, err := Smooth(testutil.DC(2.5, 100), 9)
	if err != nil {
		t.Fatal(err)
	}

	testutil.RequireSliceNearlyEqual(t, out, testutil.DC(2.5, 100), 1e-12)
}

func TestSmoothSpreadsImpulse(t *testing.T) {
	out, err := Smooth(testutil.Impulse(11, 5), 3)
	if err != nil {
		t.Fatal(err)
	}

	want := make([]float64, 11)
	want[4], want[5], want[6] = 1.0/3, 1.0/3, 1.0/3
	testutil.RequireSliceNearlyEqual(t, out, want, 1e-12)
}

func TestSmoothRejectsBadWindow(t *testing.T) {
	if _, err := Smooth(testutil.Ones(10), 0); !errors.Is(err, ErrInvalidWindow) {
		t.Errorf("got %v, want ErrInvalidWindow", err)
	}
}

func TestAGCEqualizesConstantEnvelope(t *testing.T) {
	// An alternating +-A signal has constant mean absolute amplitude A in
	// every window, so both methods reduce it to unit amplitude.
	n := 200
	in := make([]float64, n)
	for i := range in {
		if i%2 == 0 {
			in[i] = 5
		} else {
			in[i] = -5
		}
	}

	for _, method := range []AGCMethod{AGCGismo, AGCWalker} {
		out, err := AGC(in, 10, AGCOptions{WinSec: 2, Method: method})
		if err != nil {
			t.Fatalf("%v: %v", method, err)
		}

		for i, v := range out {
			if math.Abs(math.Abs(v)-1) > 1e-12 {
				t.Fatalf("%v: index %d: |out| = %g, want 1", method, i, math.Abs(v))
			}
		}
	}
}

func TestAGCZeroSignal(t *testing.T) {
	out, err := AGC(make([]float64, 50), 10, AGCOptions{WinSec: 1, Method: AGCGismo})
	if err != nil {
		t.Fatal(err)
	}

	testutil.RequireSliceNearlyEqual(t, out, make([]float64, 50), 0)
}

func TestAGCRejectsBadOptions(t *testing.T) {
	if _, err := AGC(testutil.Ones(10), 10, AGCOptions{WinSec: 0, Method: AGCGismo}); !errors.Is(err, ErrInvalidWindow) {
		t.Errorf("got %v, want ErrInvalidWindow", err)
	}
	if _, err := AGC(testutil.Ones(10), 10, AGCOptions{WinSec: 1, Method: AGCMethod(9)}); !errors.Is(err, ErrUnknownAGCMethod) {
		t.Errorf("got %v, want ErrUnknownAGCMethod", err)
	}
}

func TestParseAGCMethod(t *testing.T) {
	if m, err := ParseAGCMethod("GISMO"); err != nil || m != AGCGismo {
		t.Errorf("gismo: got %v, %v", m, err)
	}
	if m, err := ParseAGCMethod("walker"); err != nil || m != AGCWalker {
		t.Errorf("walker: got %v, %v", m, err)
	}
	if _, err := ParseAGCMethod("median"); !errors.Is(err, ErrUnknownAGCMethod) {
		t.Errorf("got %v, want ErrUnknownAGCMethod", err)
	}
}

func TestDecimatePreservesDC(t *testing.T) {
	out, err := Decimate(testutil.DC(1, 4000), 40, 10, 4)
	if err != nil {
		t.Fatal(err)
	}

	if len(out) != 1000 {
		t.Fatalf("length: got %d, want 1000", len(out))
	}

	mid := out[400:600]
	testutil.RequireSliceNearlyEqual(t, mid, testutil.Ones(len(mid)), 0.02)
}

func TestDecimateSameRateCopies(t *testing.T) {
	in := testutil.Sine(1, 20, 1, 100)

	out, err := Decimate(in, 20, 20, 4)
	if err != nil {
		t.Fatal(err)
	}

	testutil.RequireSliceNearlyEqual(t, out, in, 0)

	out[0] = 99
	if in[0] == 99 {
		t.Error("Decimate must return a copy")
	}
}

func TestDecimateRejectsNonIntegerFactor(t *testing.T) {
	if _, err := Decimate(testutil.Ones(100), 40, 9, 4); !errors.Is(err, ErrInvalidDecimation) {
		t.Errorf("got %v, want ErrInvalidDecimation", err)
	}
	if _, err := Decimate(testutil.Ones(100), 40, 0, 4); !errors.Is(err, ErrInvalidDecimation) {
		t.Errorf("got %v, want ErrInvalidDecimation", err)
	}
}

func TestNormalizeUnitPeak(t *testing.T) {
	out := Normalize([]float64{0.5, -2, 1})

	want := []float64{0.25, -1, 0.5}
	testutil.RequireSliceNearlyEqual(t, out, want, 1e-12)
}

func TestNormalizeZeroSignal(t *testing.T) {
	out := Normalize(make([]float64, 10))
	testutil.RequireSliceNearlyEqual(t, out, make([]float64, 10), 0)
}

func testSet(t *testing.T, n int, rate float64) *waveform.Set {
	t.Helper()

	start := time.Date(2019, 6, 20, 23, 55, 0, 0, time.UTC)
	mk := func(id string, samples []float64) waveform.Station {
		return waveform.Station{ID: id, Lon: -153, Lat: 60, SampleRate: rate, Start: start, Samples: samples}
	}

	set, err := waveform.NewSet([]waveform.Station{
		mk("HOM", testutil.Sine(2, rate, 1, n)),
		mk("M22K", testutil.Sine(2, rate, 0.5, n)),
	})
	if err != nil {
		t.Fatal(err)
	}

	return set
}

func TestRunProducesEngineReadyTraces(t *testing.T) {
	set := testSet(t, 4096, 64)

	out, err := Run(set, Options{
		FreqMin:   0.5,
		FreqMax:   8,
		ZeroPhase: true,
		Envelope:  true,
		SmoothSec: 0.25,
		Normalize: true,
	})
	if err != nil {
		t.Fatal(err)
	}

	if len(out.Stations) != 2 {
		t.Fatalf("stations: got %d, want 2", len(out.Stations))
	}

	for _, st := range out.Stations {
		testutil.RequireNonNegative(t, st.Samples)
		testutil.RequireFinite(t, st.Samples)

		if s := st.Stats(); math.Abs(s.Peak-1) > 1e-9 {
			t.Errorf("station %s: peak %g, want 1", st.ID, s.Peak)
		}
	}
}

func TestRunDecimationUpdatesRate(t *testing.T) {
	set := testSet(t, 4000, 40)

	out, err := Run(set, Options{DecimateTo: 10})
	if err != nil {
		t.Fatal(err)
	}

	if out.SampleRate() != 10 {
		t.Errorf("rate: got %g, want 10", out.SampleRate())
	}
	if out.NumSamples() != 1000 {
		t.Errorf("samples: got %d, want 1000", out.NumSamples())
	}
}

func TestRunDoesNotMutateInput(t *testing.T) {
	set := testSet(t, 1024, 64)
	ref := make([]float64, 1024)
	copy(ref, set.Stations[0].Samples)

	if _, err := Run(set, Options{Envelope: true, Normalize: true}); err != nil {
		t.Fatal(err)
	}

	testutil.RequireSliceNearlyEqual(t, set.Stations[0].Samples, ref, 0)
}

func TestRunReportsStationInError(t *testing.T) {
	set := testSet(t, 1000, 40)

	_, err := Run(set, Options{DecimateTo: 9})
	if err == nil || !errors.Is(err, ErrInvalidDecimation) {
		t.Fatalf("got %v, want ErrInvalidDecimation", err)
	}
}
