// Package traveltime computes propagation delays between grid cells and
// stations under homogeneous, isotropic propagation at constant celerity.
//
// The model is deliberately the simplest physically valid one: straight
// line distance divided by celerity, with the distance metric matching
// the grid's coordinate mode (planar Euclidean for projected grids,
// great-circle for geographic ones). There is no terrain or refraction
// correction.
package traveltime

import (
	"errors"
	"fmt"
	"math"

	"github.com/arraykit/backproject/geo"
	"github.com/arraykit/backproject/grid"
)

// ErrInvalidCelerity is returned for non-positive propagation speeds.
var ErrInvalidCelerity = errors.New("traveltime: celerity must be positive")

// Model computes cell-to-station travel times for one grid and one
// station geometry. Station positions are converted into the grid's
// coordinate system once, at construction, so projection failures surface
// eagerly and the per-cell path stays allocation free.
type Model struct {
	g  *grid.Grid
	sx []float64 // station x: easting [m] or lon [deg]
	sy []float64 // station y: northing [m] or lat [deg]
}

// NewModel projects the station positions into the grid's coordinate
// system. lons and lats are index-aligned station coordinates in degrees.
func NewModel(g *grid.Grid, lons, lats []float64) (*Model, error) {
	if len(lons) != len(lats) {
		return nil, fmt.Errorf("traveltime: %d lons vs %d lats", len(lons), len(lats))
	}

	m := &Model{g: g, sx: make([]float64, len(lons)), sy: make([]float64, len(lats))}

	for i := range lons {
		if g.Mode == grid.ModeProjected {
			x, y, err := g.Proj.Forward(lons[i], lats[i])
			if err != nil {
				return nil, fmt.Errorf("traveltime: station %d: %w", i, err)
			}
			m.sx[i], m.sy[i] = x, y
			continue
		}

		m.sx[i], m.sy[i] = lons[i], lats[i]
	}

	return m, nil
}

// NumStations returns the number of stations in the model.
func (m *Model) NumStations() int { return len(m.sx) }

// Distance returns the cell-to-station distance in metres.
func (m *Model) Distance(c grid.Cell, station int) float64 {
	if m.g.Mode == grid.ModeProjected {
		return math.Hypot(c.X-m.sx[station], c.Y-m.sy[station])
	}

	return geo.Distance(c.X, c.Y, m.sx[station], m.sy[station])
}

// Time returns the propagation delay in seconds from the cell to the
// station at the given celerity [m/s].
func (m *Model) Time(c grid.Cell, station int, celerity float64) (float64, error) {
	if celerity <= 0 {
		return 0, fmt.Errorf("%w: got %g", ErrInvalidCelerity, celerity)
	}

	return m.Distance(c, station) / celerity, nil
}
