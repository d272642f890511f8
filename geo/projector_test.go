package geo

import (
	"errors"
	"math"
	"testing"
)

func TestNewProjectorZoneSelection(t *testing.T) {
	tests := []struct {
		name     string
		lon, lat float64
		zone     int
		southern bool
	}{
		{"alaska", -153.0918, 60.0319, 5, false},
		{"greenwich", 0.5, 51.5, 31, false},
		{"vanuatu", 169.447, -19.532, 59, true},
		{"west edge", -180, 10, 1, false},
		{"east edge", 180, 10, 60, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProjector(tt.lon, tt.lat)
			if err != nil {
				t.Fatalf("NewProjector: %v", err)
			}
			if p.Zone != tt.zone {
				t.Errorf("zone: got %d, want %d", p.Zone, tt.zone)
			}
			if p.Southern != tt.southern {
				t.Errorf("southern: got %v, want %v", p.Southern, tt.southern)
			}
		})
	}
}

func TestNewProjectorRejectsOutOfDomain(t *testing.T) {
	if _, err := NewProjector(0, 85); !errors.Is(err, ErrLatitudeRange) {
		t.Errorf("lat 85: got %v, want ErrLatitudeRange", err)
	}
	if _, err := NewProjector(0, -81); !errors.Is(err, ErrLatitudeRange) {
		t.Errorf("lat -81: got %v, want ErrLatitudeRange", err)
	}
	if _, err := NewProjector(181, 0); !errors.Is(err, ErrLongitudeRange) {
		t.Errorf("lon 181: got %v, want ErrLongitudeRange", err)
	}
}

func TestForwardRejectsFarFromMeridian(t *testing.T) {
	p, err := NewProjector(-153, 60)
	if err != nil {
		t.Fatal(err)
	}

	// Zone 5 central meridian is -153; a point 20 degrees away belongs to
	// a different zone entirely.
	if _, _, err := p.Forward(-133, 60); !errors.Is(err, ErrZoneDomain) {
		t.Errorf("got %v, want ErrZoneDomain", err)
	}
}

func TestForwardKnownPoint(t *testing.T) {
	// The zone central meridian at the equator must project to the false
	// easting with zero northing.
	p, err := NewProjector(-153, 0.0001)
	if err != nil {
		t.Fatal(err)
	}

	x, y, err := p.Forward(-153, 0)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(x-500000) > 1e-6 {
		t.Errorf("easting: got %f, want 500000", x)
	}
	if math.Abs(y) > 1e-6 {
		t.Errorf("northing: got %f, want 0", y)
	}
}

func TestForwardInverseRoundTrip(t *testing.T) {
	points := []struct {
		name     string
		lon, lat float64
	}{
		{"grid center", -153.0918, 60.0319},
		{"offset northeast", -152.5, 60.5},
		{"offset southwest", -153.9, 59.4},
		{"southern hemisphere", 169.447, -19.532},
	}

	for _, pt := range points {
		t.Run(pt.name, func(t *testing.T) {
			p, err := NewProjector(pt.lon, pt.lat)
			if err != nil {
				t.Fatal(err)
			}

			x, y, err := p.Forward(pt.lon, pt.lat)
			if err != nil {
				t.Fatal(err)
			}

			lon, lat, err := p.Inverse(x, y)
			if err != nil {
				t.Fatal(err)
			}

			// Round-trip error must be negligible relative to any
			// realistic grid spacing (1e-9 deg is well under 1 mm).
			if math.Abs(lon-pt.lon) > 1e-8 || math.Abs(lat-pt.lat) > 1e-8 {
				t.Errorf("round trip: got (%.10f, %.10f), want (%.10f, %.10f)",
					lon, lat, pt.lon, pt.lat)
			}
		})
	}
}

func TestForwardMetricScale(t *testing.T) {
	// One degree of latitude is roughly 111 km of northing anywhere.
	p, err := NewProjector(-153, 60)
	if err != nil {
		t.Fatal(err)
	}

	_, y1, err := p.Forward(-153, 60)
	if err != nil {
		t.Fatal(err)
	}
	_, y2, err := p.Forward(-153, 61)
	if err != nil {
		t.Fatal(err)
	}

	d := y2 - y1
	if d < 110e3 || d > 112.5e3 {
		t.Errorf("1 degree latitude spans %f m, want ~111 km", d)
	}
}

func TestDistance(t *testing.T) {
	tests := []struct {
		name                   string
		lon1, lat1, lon2, lat2 float64
		want                   float64 // metres
		tol                    float64
	}{
		{"zero", 10, 20, 10, 20, 0, 1e-9},
		{"one degree latitude", 0, 0, 0, 1, 111194.9, 1.0},
		{"one degree longitude at 60N", -153, 60, -152, 60, 55597.5, 60.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.lon1, tt.lat1, tt.lon2, tt.lat2)
			if math.Abs(got-tt.want) > tt.tol {
				t.Errorf("got %f, want %f (tol %f)", got, tt.want, tt.tol)
			}
		})
	}
}

func TestDistanceSymmetric(t *testing.T) {
	a := Distance(-153.1, 60.0, -152.2, 59.1)
	b := Distance(-152.2, 59.1, -153.1, 60.0)
	if a != b {
		t.Errorf("distance not symmetric: %f vs %f", a, b)
	}
}
