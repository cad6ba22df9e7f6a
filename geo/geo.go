// Package geo holds the pure distance and time-window arithmetic used by the
// check-in engine. Nothing here touches storage.
package geo

import (
	"math"
	"time"
)

// EarthRadiusMeters is the fixed radius used for great-circle distances.
const EarthRadiusMeters = 6371000

// Coordinate is a latitude/longitude pair in degrees.
type Coordinate struct {
	Latitude  float64
	Longitude float64
}

// Valid reports whether both components are finite numbers. Callers must
// reject invalid coordinates before computing distances; there is no
// zero-distance fallback.
func (c Coordinate) Valid() bool {
	return !math.IsNaN(c.Latitude) && !math.IsInf(c.Latitude, 0) &&
		!math.IsNaN(c.Longitude) && !math.IsInf(c.Longitude, 0)
}

// DistanceMeters returns the haversine great-circle distance between a and b.
func DistanceMeters(a, b Coordinate) float64 {
	phi1 := a.Latitude * math.Pi / 180
	phi2 := b.Latitude * math.Pi / 180
	deltaPhi := (b.Latitude - a.Latitude) * math.Pi / 180
	deltaLambda := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(deltaPhi/2)*math.Sin(deltaPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*
			math.Sin(deltaLambda/2)*math.Sin(deltaLambda/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusMeters * c
}

// WindowContains reports whether now falls inside the check-in window
// [start-lead, start+grace]. Both bounds are inclusive.
func WindowContains(now, start time.Time, leadMinutes, graceMinutes int) bool {
	open := start.Add(-time.Duration(leadMinutes) * time.Minute)
	close := start.Add(time.Duration(graceMinutes) * time.Minute)
	return !now.Before(open) && !now.After(close)
}
