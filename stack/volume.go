package stack

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/arraykit/backproject/grid"
)

// Errors returned by the stacking engine and peak locator.
var (
	ErrNoData        = errors.New("stack: no station waveforms supplied")
	ErrInvalidInput  = errors.New("stack: grid and celerity list must be non-empty with distinct celerities")
	ErrEmptyVolume   = errors.New("stack: volume has a zero-length axis")
	ErrCancelled     = errors.New("stack: search cancelled")
	ErrUnknownMethod = errors.New("stack: unknown stack method")
)

// Method selects how aligned per-station samples are combined.
type Method int

const (
	// MethodSum adds amplitudes across stations: linear and robust.
	MethodSum Method = iota
	// MethodProduct multiplies amplitudes across stations: multiplicative
	// coincidence detection, sharper but sensitive to near-zero values.
	MethodProduct
)

func (m Method) String() string {
	switch m {
	case MethodSum:
		return "sum"
	case MethodProduct:
		return "product"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// ParseMethod converts a configuration string into a Method.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(s) {
	case "sum":
		return MethodSum, nil
	case "product":
		return MethodProduct, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMethod, s)
	}
}

// Volume is the 4-D stack output: one real value per (x, y, time,
// celerity) hypothesis, plus the metadata needed to interpret and invert
// it. The metadata is fixed at construction; treat a Volume as immutable
// once the engine returns it.
//
// Memory layout is [celerity][y][x][time], so a flat scan visits
// hypotheses in ascending (celerity, y, x, time) order. The peak
// locator's tie-break rule relies on this.
type Volume struct {
	grid       *grid.Grid
	celerities []float64
	method     Method
	sampleRate float64
	start      time.Time

	nx, ny, nt, nc int
	data           []float64
}

func newVolume(g *grid.Grid, celerities []float64, method Method, sampleRate float64, start time.Time, nt int) *Volume {
	v := &Volume{
		grid:       g,
		celerities: append([]float64(nil), celerities...),
		method:     method,
		sampleRate: sampleRate,
		start:      start,
		nx:         g.Nx(),
		ny:         g.Ny(),
		nt:         nt,
		nc:         len(celerities),
	}
	v.data = make([]float64, v.nx*v.ny*v.nt*v.nc)

	return v
}

// Grid returns the search grid the volume was computed over.
func (v *Volume) Grid() *grid.Grid { return v.grid }

// Celerities returns a copy of the celerity axis [m/s].
func (v *Volume) Celerities() []float64 {
	return append([]float64(nil), v.celerities...)
}

// Method returns the stack method used.
func (v *Volume) Method() Method { return v.method }

// SampleRate returns the time axis sample rate [Hz].
func (v *Volume) SampleRate() float64 { return v.sampleRate }

// Start returns the absolute time of time index 0.
func (v *Volume) Start() time.Time { return v.start }

// Dims returns the axis lengths (nx, ny, nt, nc).
func (v *Volume) Dims() (nx, ny, nt, nc int) {
	return v.nx, v.ny, v.nt, v.nc
}

// At returns the stack value at (x-index, y-index, time-index,
// celerity-index).
func (v *Volume) At(ix, iy, it, ic int) float64 {
	return v.data[v.offset(ix, iy, ic)+it]
}

// Data returns the flat backing array in [celerity][y][x][time] order.
// Callers must treat it as read-only.
func (v *Volume) Data() []float64 { return v.data }

// offset returns the index of time sample 0 for one (cell, celerity) row.
func (v *Volume) offset(ix, iy, ic int) int {
	return ((ic*v.ny+iy)*v.nx + ix) * v.nt
}

// row returns the writable time series for one (cell, celerity) pair.
func (v *Volume) row(ix, iy, ic int) []float64 {
	off := v.offset(ix, iy, ic)
	return v.data[off : off+v.nt]
}
