// Package grid builds the regular 2-D lattice of candidate source
// locations searched by the stacking engine.
//
// A [Grid] is generated from a geographic center point, per-axis radii,
// and a spacing, in one of two modes: geographic (cell coordinates in
// degrees) or projected (cell coordinates in UTM metres, with the chosen
// projection recorded on the grid so the eventual maximum can be
// de-projected with identical parameters).
//
// Cells step from center-radius to center+radius on each axis, inclusive
// of both endpoints when the radius is an exact multiple of the spacing;
// a trailing sub-spacing remainder is dropped so the lattice stays
// uniform. Cell ordering is row-major, y ascending then x ascending, and
// is stable across runs.
package grid
