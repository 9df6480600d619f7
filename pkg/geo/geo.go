// Package geo holds the small amount of spherical geometry the search path needs.
package geo

import (
	"fmt"
	"math"
)

// EarthRadiusKm is the mean Earth radius used by Haversine.
const EarthRadiusKm = 6371.0

// Point is a WGS84 coordinate pair.
type Point struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// Validate checks that the point lies within the valid coordinate ranges.
func (p Point) Validate() error {
	if math.IsNaN(p.Latitude) || p.Latitude < -90 || p.Latitude > 90 {
		return fmt.Errorf("latitude %v out of range [-90, 90]", p.Latitude)
	}
	if math.IsNaN(p.Longitude) || p.Longitude < -180 || p.Longitude > 180 {
		return fmt.Errorf("longitude %v out of range [-180, 180]", p.Longitude)
	}
	return nil
}

// ToRadians converts degrees to radians.
func ToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// Haversine returns the great-circle distance between two points in kilometers.
func Haversine(from, to Point) float64 {
	dLat := ToRadians(to.Latitude - from.Latitude)
	dLon := ToRadians(to.Longitude - from.Longitude)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(ToRadians(from.Latitude))*math.Cos(ToRadians(to.Latitude))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

// Round1 rounds to one decimal place, half away from zero.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// KmToRadians converts a surface distance to the angular radius used by $centerSphere.
func KmToRadians(km float64) float64 {
	return km / EarthRadiusKm
}
