// Package process conditions raw station traces into the uniform,
// non-negative, amplitude-normalized waveforms the stacking engine
// requires.
//
// The pipeline stages, in order: demean, cosine taper, Butterworth
// band-pass, analytic-signal envelope, moving-average smoothing,
// integer-factor decimation, automatic gain control, and peak
// normalization. Every stage is also exported on its own for callers that
// condition traces elsewhere and only need part of the chain.
//
// # Usage
//
//	out, err := process.Run(set, process.Options{
//	    FreqMin: 0.5, FreqMax: 2,
//	    Envelope:  true,
//	    SmoothSec: 120,
//	    Normalize: true,
//	})
//
// Run never mutates its input set; stations are conditioned on copies.
package process
