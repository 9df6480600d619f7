package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversine_KnownDistances(t *testing.T) {
	rockville := Point{Latitude: 39.084, Longitude: -77.1528}
	dc := Point{Latitude: 38.9072, Longitude: -77.0369}

	assert.Equal(t, 0.0, Haversine(rockville, rockville))
	assert.InDelta(t, 22.2, Haversine(rockville, dc), 0.5)
	assert.InDelta(t, Haversine(rockville, dc), Haversine(dc, rockville), 1e-9)

	// One degree of latitude along a meridian.
	assert.InDelta(t, 111.19, Haversine(Point{0, 0}, Point{1, 0}), 0.01)
}

func TestHaversine_Antipodes(t *testing.T) {
	d := Haversine(Point{0, 0}, Point{0, 180})
	assert.InDelta(t, math.Pi*EarthRadiusKm, d, 1e-6)
}

func TestRound1(t *testing.T) {
	assert.Equal(t, 2.4, Round1(2.44))
	assert.Equal(t, 2.5, Round1(2.45))
	assert.Equal(t, 0.0, Round1(0.04))
	assert.Equal(t, 50.0, Round1(49.96))
}

func TestPointValidate(t *testing.T) {
	assert.NoError(t, Point{Latitude: 90, Longitude: -180}.Validate())
	assert.Error(t, Point{Latitude: 90.1, Longitude: 0}.Validate())
	assert.Error(t, Point{Latitude: 0, Longitude: 180.5}.Validate())
	assert.Error(t, Point{Latitude: math.NaN(), Longitude: 0}.Validate())
}

func TestToRadians(t *testing.T) {
	assert.InDelta(t, math.Pi, ToRadians(180), 1e-12)
	assert.InDelta(t, 50.0/EarthRadiusKm, KmToRadians(50), 1e-12)
}
