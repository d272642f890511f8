package grid

import (
	"errors"
	"fmt"
	"math"

	"github.com/arraykit/backproject/geo"
)

// Errors returned by grid construction.
var (
	ErrInvalidSpacing = errors.New("grid: spacing must be positive")
	ErrInvalidRadius  = errors.New("grid: radius must be at least the spacing")
)

// Mode tags the coordinate system a grid's cells are expressed in.
type Mode int

const (
	// ModeGeographic cells carry (lon, lat) in degrees.
	ModeGeographic Mode = iota
	// ModeProjected cells carry UTM (easting, northing) in metres.
	ModeProjected
)

func (m Mode) String() string {
	switch m {
	case ModeGeographic:
		return "geographic"
	case ModeProjected:
		return "projected"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Cell is a single lattice node. X and Y are lon/lat degrees in
// geographic mode and UTM metres in projected mode.
type Cell struct {
	I, J int // x- and y-lattice indices
	X, Y float64
}

// Config describes the grid to build.
type Config struct {
	CenterLon float64 // [deg]
	CenterLat float64 // [deg]
	XRadius   float64 // east-west half-extent: degrees (geographic) or metres (projected)
	YRadius   float64 // north-south half-extent, same units
	Spacing   float64 // lattice spacing, same units
	Projected bool
}

// Validate checks the Config for degenerate inputs.
func (c *Config) Validate() error {
	if c.Spacing <= 0 {
		return fmt.Errorf("%w: got %g", ErrInvalidSpacing, c.Spacing)
	}

	if c.XRadius < c.Spacing || c.YRadius < c.Spacing {
		return fmt.Errorf("%w: radii (%g, %g), spacing %g",
			ErrInvalidRadius, c.XRadius, c.YRadius, c.Spacing)
	}

	return nil
}

// Grid is an immutable regular lattice of candidate source locations.
type Grid struct {
	Mode      Mode
	CenterLon float64
	CenterLat float64
	Spacing   float64

	// Xs and Ys are the ascending axis coordinates; the lattice is their
	// cartesian product.
	Xs []float64
	Ys []float64

	// Proj is the projection used to build a projected grid, recorded so
	// the peak locator inverts with the same parameters. Nil in
	// geographic mode.
	Proj *geo.Projector
}

// Build generates the lattice described by cfg.
func Build(cfg Config) (*Grid, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	g := &Grid{
		Mode:      ModeGeographic,
		CenterLon: cfg.CenterLon,
		CenterLat: cfg.CenterLat,
		Spacing:   cfg.Spacing,
	}

	cx, cy := cfg.CenterLon, cfg.CenterLat

	if cfg.Projected {
		p, err := geo.NewProjector(cfg.CenterLon, cfg.CenterLat)
		if err != nil {
			return nil, fmt.Errorf("grid: %w", err)
		}

		cx, cy, err = p.Forward(cfg.CenterLon, cfg.CenterLat)
		if err != nil {
			return nil, fmt.Errorf("grid: %w", err)
		}

		g.Mode = ModeProjected
		g.Proj = p
	}

	g.Xs = axis(cx, cfg.XRadius, cfg.Spacing)
	g.Ys = axis(cy, cfg.YRadius, cfg.Spacing)

	return g, nil
}

// axis steps symmetrically about center. Steps that would overshoot the
// radius are dropped, so endpoints appear exactly when radius is an
// integer multiple of spacing.
func axis(center, radius, spacing float64) []float64 {
	n := int(math.Floor(radius/spacing + 1e-9))
	out := make([]float64, 0, 2*n+1)

	for k := -n; k <= n; k++ {
		out = append(out, center+float64(k)*spacing)
	}

	return out
}

// Nx returns the number of lattice columns.
func (g *Grid) Nx() int { return len(g.Xs) }

// Ny returns the number of lattice rows.
func (g *Grid) Ny() int { return len(g.Ys) }

// NumCells returns the total cell count.
func (g *Grid) NumCells() int { return g.Nx() * g.Ny() }

// Cell returns the lattice node at x-index i, y-index j.
func (g *Grid) Cell(i, j int) Cell {
	return Cell{I: i, J: j, X: g.Xs[i], Y: g.Ys[j]}
}

// Cells returns every cell in row-major order: y ascending, then x
// ascending. The ordering is deterministic and matches the stack volume
// layout.
func (g *Grid) Cells() []Cell {
	out := make([]Cell, 0, g.NumCells())
	for j := range g.Ys {
		for i := range g.Xs {
			out = append(out, g.Cell(i, j))
		}
	}

	return out
}
