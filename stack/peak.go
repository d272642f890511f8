package stack

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/arraykit/backproject/grid"
)

// Estimate is the source hypothesis at a volume's global maximum:
// location, origin-window time, celerity, and the maximizing stack value.
// Immutable once produced.
type Estimate struct {
	Lon      float64 // [deg]
	Lat      float64 // [deg]
	Time     time.Time
	Celerity float64 // [m/s]
	Value    float64

	// Winning volume indices, for provenance and plotting.
	XIndex, YIndex, TimeIndex, CelerityIndex int
}

// Locate scans the volume for its global maximum and returns the
// corresponding source estimate.
//
// Ties are broken deterministically: the volume's flat layout is
// [celerity][y][x][time] and the first maximum in flat order wins, i.e.
// the smallest (celerity-index, y-index, x-index, time-index)
// lexicographically. Projected-grid cells are converted back to
// geographic coordinates with the projector recorded at grid-build time.
func Locate(v *Volume) (Estimate, error) {
	if v == nil || v.nx == 0 || v.ny == 0 || v.nt == 0 || v.nc == 0 {
		return Estimate{}, ErrEmptyVolume
	}

	flat := floats.MaxIdx(v.data)

	it := flat % v.nt
	rest := flat / v.nt
	ix := rest % v.nx
	rest /= v.nx
	iy := rest % v.ny
	ic := rest / v.ny

	cell := v.grid.Cell(ix, iy)

	lon, lat := cell.X, cell.Y
	if v.grid.Mode == grid.ModeProjected {
		var err error
		lon, lat, err = v.grid.Proj.Inverse(cell.X, cell.Y)
		if err != nil {
			return Estimate{}, fmt.Errorf("stack: de-projecting cell (%d, %d): %w", ix, iy, err)
		}
	}

	offset := time.Duration(float64(it) / v.sampleRate * float64(time.Second))

	return Estimate{
		Lon:           lon,
		Lat:           lat,
		Time:          v.start.Add(offset),
		Celerity:      v.celerities[ic],
		Value:         v.data[flat],
		XIndex:        ix,
		YIndex:        iy,
		TimeIndex:     it,
		CelerityIndex: ic,
	}, nil
}
