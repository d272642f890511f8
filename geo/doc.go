// Package geo converts between geographic and local planar coordinates.
//
// A [Projector] maps (lon, lat) pairs to UTM easting/northing metres under
// the zone selected from a reference point, and back. The zone and
// hemisphere are fixed at construction so that a later inverse conversion
// (for example, de-projecting a grid-search maximum) uses exactly the
// parameters that were used when the grid was built.
//
// # Usage
//
// Build a projector from the grid center, then project and invert:
//
//	p, _ := geo.NewProjector(-153.09, 60.03)
//	x, y, _ := p.Forward(-153.09, 60.03)
//	lon, lat, _ := p.Inverse(x, y)
//
// The package also provides [Distance], the great-circle distance used by
// travel-time computation on geographic (unprojected) grids.
package geo
