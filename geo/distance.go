package geo

import "math"

// earthRadius is the mean Earth radius [m] used for great-circle distances.
const earthRadius = 6371000.0

// Distance returns the great-circle (haversine) distance in metres between
// two geographic points.
func Distance(lon1, lat1, lon2, lat2 float64) float64 {
	const deg = math.Pi / 180

	phi1 := lat1 * deg
	phi2 := lat2 * deg
	dPhi := (lat2 - lat1) * deg
	dLam := (lon2 - lon1) * deg

	sinPhi := math.Sin(dPhi / 2)
	sinLam := math.Sin(dLam / 2)

	h := sinPhi*sinPhi + math.Cos(phi1)*math.Cos(phi2)*sinLam*sinLam

	return 2 * earthRadius * math.Asin(math.Min(1, math.Sqrt(h)))
}
