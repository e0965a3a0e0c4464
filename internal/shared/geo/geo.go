package geo

import (
	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
)

// DistanceMeters is the great-circle distance between two lon/lat points.
func DistanceMeters(a, b orb.Point) float64 {
	return orbgeo.DistanceHaversine(a, b)
}

// Within reports whether p lies at most radius metres from center.
func Within(p, center orb.Point, radius float64) bool {
	return DistanceMeters(p, center) <= radius
}

// AnyWithin reports whether any of points lies within radius metres of center.
func AnyWithin(points []orb.Point, center orb.Point, radius float64) bool {
	for _, p := range points {
		if Within(p, center, radius) {
			return true
		}
	}
	return false
}
