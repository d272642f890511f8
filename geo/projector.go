package geo

import (
	"errors"
	"fmt"
	"math"
)

// Errors returned by projection functions.
var (
	ErrLatitudeRange  = errors.New("geo: latitude outside the [-80, 84] degree UTM domain")
	ErrLongitudeRange = errors.New("geo: longitude outside [-180, 180] degrees")
	ErrZoneDomain     = errors.New("geo: point too far from the projection zone meridian")
)

// WGS84 ellipsoid and UTM constants.
const (
	wgs84A = 6378137.0           // semi-major axis [m]
	wgs84F = 1 / 298.257223563   // flattening
	utmK0  = 0.9996              // central meridian scale factor
	utmFE  = 500000.0            // false easting [m]
	utmFN  = 10000000.0          // false northing, southern hemisphere [m]

	// Longitudes farther than this from the zone's central meridian are
	// rejected: the series expansion degrades and the search grid should
	// never span that far anyway.
	maxMeridianDist = 9.0 // [deg]
)

var (
	wgs84E2  = wgs84F * (2 - wgs84F)       // first eccentricity squared
	wgs84Ep2 = wgs84E2 / (1 - wgs84E2)     // second eccentricity squared
	wgs84E1  = (1 - math.Sqrt(1-wgs84E2)) / (1 + math.Sqrt(1-wgs84E2))
)

// Projector converts between geographic (lon, lat) coordinates and UTM
// easting/northing metres. The zone and hemisphere are chosen once from a
// reference point and reused for every conversion, forward and inverse.
type Projector struct {
	Zone     int  // UTM zone number, 1..60
	Southern bool // true if the reference point is in the southern hemisphere
}

// NewProjector selects the UTM zone containing the reference point.
func NewProjector(lon, lat float64) (*Projector, error) {
	if err := checkGeographic(lon, lat); err != nil {
		return nil, fmt.Errorf("reference point (%.4f, %.4f): %w", lon, lat, err)
	}

	zone := int(math.Floor((lon+180)/6)) + 1
	if zone > 60 {
		zone = 60 // lon == +180 wraps into the last zone
	}

	return &Projector{Zone: zone, Southern: lat < 0}, nil
}

// CentralMeridian returns the zone's central meridian in degrees.
func (p *Projector) CentralMeridian() float64 {
	return float64(p.Zone-1)*6 - 180 + 3
}

// Forward projects a geographic point to UTM easting/northing metres.
func (p *Projector) Forward(lon, lat float64) (x, y float64, err error) {
	if err := p.checkDomain(lon, lat); err != nil {
		return 0, 0, err
	}

	phi := lat * math.Pi / 180
	dLam := (lon - p.CentralMeridian()) * math.Pi / 180

	sinPhi, cosPhi := math.Sincos(phi)
	tanPhi := sinPhi / cosPhi

	nu := wgs84A / math.Sqrt(1-wgs84E2*sinPhi*sinPhi)
	t := tanPhi * tanPhi
	c := wgs84Ep2 * cosPhi * cosPhi
	a := cosPhi * dLam

	m := meridianArc(phi)

	a2 := a * a
	a3 := a2 * a
	a4 := a3 * a
	a5 := a4 * a
	a6 := a5 * a

	x = utmK0*nu*(a+(1-t+c)*a3/6+(5-18*t+t*t+72*c-58*wgs84Ep2)*a5/120) + utmFE
	y = utmK0 * (m + nu*tanPhi*(a2/2+(5-t+9*c+4*c*c)*a4/24+
		(61-58*t+t*t+600*c-330*wgs84Ep2)*a6/720))

	if p.Southern {
		y += utmFN
	}

	return x, y, nil
}

// Inverse converts UTM easting/northing metres back to a geographic point.
// It uses the zone and hemisphere recorded at construction.
func (p *Projector) Inverse(x, y float64) (lon, lat float64, err error) {
	e := x - utmFE
	n := y
	if p.Southern {
		n -= utmFN
	}

	// Footpoint latitude.
	m := n / utmK0
	mu := m / (wgs84A * (1 - wgs84E2/4 - 3*wgs84E2*wgs84E2/64 - 5*wgs84E2*wgs84E2*wgs84E2/256))

	e1 := wgs84E1
	phi1 := mu +
		(3*e1/2-27*e1*e1*e1/32)*math.Sin(2*mu) +
		(21*e1*e1/16-55*e1*e1*e1*e1/32)*math.Sin(4*mu) +
		(151*e1*e1*e1/96)*math.Sin(6*mu) +
		(1097*e1*e1*e1*e1/512)*math.Sin(8*mu)

	sinPhi1, cosPhi1 := math.Sincos(phi1)
	tanPhi1 := sinPhi1 / cosPhi1

	s2 := sinPhi1 * sinPhi1
	c1 := wgs84Ep2 * cosPhi1 * cosPhi1
	t1 := tanPhi1 * tanPhi1
	nu1 := wgs84A / math.Sqrt(1-wgs84E2*s2)
	rho1 := wgs84A * (1 - wgs84E2) / math.Pow(1-wgs84E2*s2, 1.5)
	d := e / (nu1 * utmK0)

	d2 := d * d
	d3 := d2 * d
	d4 := d3 * d
	d5 := d4 * d
	d6 := d5 * d

	phi := phi1 - (nu1*tanPhi1/rho1)*(d2/2-
		(5+3*t1+10*c1-4*c1*c1-9*wgs84Ep2)*d4/24+
		(61+90*t1+298*c1+45*t1*t1-252*wgs84Ep2-3*c1*c1)*d6/720)

	dLam := (d - (1+2*t1+c1)*d3/6 +
		(5-2*c1+28*t1-3*c1*c1+8*wgs84Ep2+24*t1*t1)*d5/120) / cosPhi1

	lat = phi * 180 / math.Pi
	lon = p.CentralMeridian() + dLam*180/math.Pi

	if err := p.checkDomain(lon, lat); err != nil {
		return 0, 0, err
	}

	return lon, lat, nil
}

func (p *Projector) checkDomain(lon, lat float64) error {
	if err := checkGeographic(lon, lat); err != nil {
		return fmt.Errorf("point (%.4f, %.4f): %w", lon, lat, err)
	}

	if math.Abs(lon-p.CentralMeridian()) > maxMeridianDist {
		return fmt.Errorf("point (%.4f, %.4f) in zone %d: %w", lon, lat, p.Zone, ErrZoneDomain)
	}

	return nil
}

func checkGeographic(lon, lat float64) error {
	if lat < -80 || lat > 84 {
		return ErrLatitudeRange
	}

	if lon < -180 || lon > 180 {
		return ErrLongitudeRange
	}

	return nil
}

// meridianArc returns the ellipsoidal meridian arc length from the equator
// to latitude phi (radians).
func meridianArc(phi float64) float64 {
	e2 := wgs84E2
	e4 := e2 * e2
	e6 := e4 * e2

	return wgs84A * ((1-e2/4-3*e4/64-5*e6/256)*phi -
		(3*e2/8+3*e4/32+45*e6/1024)*math.Sin(2*phi) +
		(15*e4/256+45*e6/1024)*math.Sin(4*phi) -
		(35*e6/3072)*math.Sin(6*phi))
}
