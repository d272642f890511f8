// Package stack implements the grid-search stacking engine: delay-and-sum
// back-projection of array waveforms over candidate source locations and
// propagation celerities.
//
// For every (cell, celerity) pair the engine time-aligns each station's
// trace by its modeled travel time and combines the aligned samples into
// one stacked series, filling a 4-D [Volume] indexed by (x, y, time,
// celerity). [Locate] then reads the volume's global maximum back out as
// a source [Estimate].
//
// The Nx*Ny*C work units are independent: each writes a disjoint time row
// of the volume, so the engine fans them out over a worker pool without
// locking, and the resulting volume is bit-identical regardless of
// execution order. Cancellation is cooperative and checked between work
// units; a cancelled search returns [ErrCancelled], never a partial
// volume.
//
// # Usage
//
//	s := &stack.Search{Grid: g, Celerities: []float64{295, 300, 305}, Method: stack.MethodSum}
//	vol, err := s.Run(ctx, set)
//	if err != nil {
//	    return err
//	}
//	est, err := stack.Locate(vol)
package stack
