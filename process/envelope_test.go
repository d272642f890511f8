package process

import (
	"testing"

	"github.com/arraykit/backproject/internal/testutil"
)

func TestEnvelopeOfSineIsAmplitude(t *testing.T) {
	// 32 whole cycles in 1024 samples: the padded FFT sees a periodic
	// signal and the analytic envelope is exact.
	const (
		fs  = 64.0
		n   = 1024
		amp = 0.75
	)

	in := testutil.Sine(2, fs, amp, n)

	env, err := Envelope(in)
	if err != nil {
		t.Fatal(err)
	}

	testutil.RequireSliceNearlyEqual(t, env, testutil.DC(amp, n), 1e-6)
}

func TestEnvelopeIsNonNegative(t *testing.T) {
	in := testutil.Noise(42, 1, 1000)

	env, err := Envelope(in)
	if err != nil {
		t.Fatal(err)
	}

	testutil.RequireNonNegative(t, env)
	testutil.RequireFinite(t, env)
	if len(env) != len(in) {
		t.Errorf("length: got %d, want %d", len(env), len(in))
	}
}

func TestEnvelopeBoundsSignal(t *testing.T) {
	in := testutil.Sine(3, 64, 1, 1024)

	env, err := Envelope(in)
	if err != nil {
		t.Fatal(err)
	}

	for i := range in {
		if env[i] < in[i]-1e-9 {
			t.Fatalf("index %d: envelope %g below signal %g", i, env[i], in[i])
		}
	}
}

func TestEnvelopeEmptyInput(t *testing.T) {
	env, err := Envelope(nil)
	if err != nil {
		t.Fatal(err)
	}
	if env != nil {
		t.Errorf("got %v, want nil", env)
	}
}
