package stack

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync"

	"github.com/cwbudde/algo-vecmath"

	"github.com/arraykit/backproject/grid"
	"github.com/arraykit/backproject/traveltime"
	"github.com/arraykit/backproject/waveform"
)

// Search configures one grid-search stacking run.
type Search struct {
	Grid       *grid.Grid
	Celerities []float64 // candidate propagation speeds [m/s], distinct
	Method     Method

	// Workers caps the worker pool; <= 0 means one per CPU.
	Workers int
}

// Run validates the inputs, stacks every (cell, celerity) hypothesis,
// and returns the 4-D volume. All validation happens before any stacking
// starts; the first failure inside the parallel phase aborts the whole
// search with the offending cell and celerity in the error. Input
// waveforms are never modified.
//
// Precondition: traces are amplitude-normalized and non-negative
// (envelope/AGC output). The engine does not verify this.
func (s *Search) Run(ctx context.Context, set *waveform.Set) (*Volume, error) {
	if set == nil || len(set.Stations) == 0 {
		return nil, ErrNoData
	}

	if err := set.Validate(); err != nil {
		return nil, err
	}

	if err := s.validate(); err != nil {
		return nil, err
	}

	lons := make([]float64, len(set.Stations))
	lats := make([]float64, len(set.Stations))
	for i := range set.Stations {
		lons[i] = set.Stations[i].Lon
		lats[i] = set.Stations[i].Lat
	}

	model, err := traveltime.NewModel(s.Grid, lons, lats)
	if err != nil {
		return nil, err
	}

	vol := newVolume(s.Grid, s.Celerities, s.Method, set.SampleRate(), set.Start(), set.NumSamples())

	if err := s.stack(ctx, set, model, vol); err != nil {
		return nil, err
	}

	return vol, nil
}

// validate checks the search parameters. Station validation is separate
// so ErrNoData precedes everything else.
func (s *Search) validate() error {
	if s.Grid == nil || s.Grid.NumCells() == 0 || len(s.Celerities) == 0 {
		return ErrInvalidInput
	}

	if s.Method != MethodSum && s.Method != MethodProduct {
		return fmt.Errorf("%w: %v", ErrUnknownMethod, s.Method)
	}

	seen := make(map[float64]bool, len(s.Celerities))
	for _, c := range s.Celerities {
		if c <= 0 {
			return fmt.Errorf("%w: got %g", traveltime.ErrInvalidCelerity, c)
		}
		if seen[c] {
			return fmt.Errorf("%w: duplicate celerity %g", ErrInvalidInput, c)
		}
		seen[c] = true
	}

	return nil
}

// stack fans the Nx*Ny*C work units out over the worker pool. Each unit
// owns one disjoint volume row, so workers write without locks and the
// result is independent of scheduling order.
func (s *Search) stack(ctx context.Context, set *waveform.Set, model *traveltime.Model, vol *Volume) error {
	workers := s.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	units := vol.nx * vol.ny * vol.nc
	if workers > units {
		workers = units
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan int)

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)

	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			shifts := make([]int, len(set.Stations))

			for unit := range jobs {
				if err := s.stackUnit(set, model, vol, unit, shifts); err != nil {
					fail(err)
					return
				}
			}
		}()
	}

	// Feed units; cancellation is checked between units, never mid-unit.
feed:
	for unit := 0; unit < units; unit++ {
		select {
		case jobs <- unit:
		case <-runCtx.Done():
			break feed
		}
	}
	close(jobs)

	wg.Wait()

	if firstErr != nil {
		return firstErr
	}

	if err := ctx.Err(); err != nil {
		// Cancelled by the caller: the volume is incomplete and must not
		// escape.
		return fmt.Errorf("%w: %v", ErrCancelled, err)
	}

	return nil
}

// stackUnit computes one (cell, celerity) row of the volume.
//
// Each station's trace is advanced by its travel time, expressed as an
// integer sample shift (rounded half away from zero). The output row is
// only filled where every shifted station still has recorded data; the
// remainder stays 0 so incomplete coverage can never win the global
// maximum.
func (s *Search) stackUnit(set *waveform.Set, model *traveltime.Model, vol *Volume, unit int, shifts []int) error {
	ic := unit / (vol.nx * vol.ny)
	rem := unit % (vol.nx * vol.ny)
	iy := rem / vol.nx
	ix := rem % vol.nx

	cell := s.Grid.Cell(ix, iy)
	celerity := s.Celerities[ic]

	maxShift := 0
	for i := range set.Stations {
		tt, err := model.Time(cell, i, celerity)
		if err != nil {
			return fmt.Errorf("stack: cell (%d, %d) celerity %g: %w", ix, iy, celerity, err)
		}

		shifts[i] = int(math.Round(tt * vol.sampleRate))
		if shifts[i] > maxShift {
			maxShift = shifts[i]
		}
	}

	valid := vol.nt - maxShift
	if valid <= 0 {
		// No instant where all stations have data; the row stays 0.
		return nil
	}

	row := vol.row(ix, iy, ic)[:valid]

	switch s.Method {
	case MethodSum:
		for i := range set.Stations {
			n := shifts[i]
			vecmath.AddBlockInPlace(row, set.Stations[i].Samples[n:n+valid])
		}
	case MethodProduct:
		copy(row, set.Stations[0].Samples[shifts[0]:shifts[0]+valid])
		for i := 1; i < len(set.Stations); i++ {
			n := shifts[i]
			vecmath.MulBlockInPlace(row, set.Stations[i].Samples[n:n+valid])
		}
	}

	return nil
}
