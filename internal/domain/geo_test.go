package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	colombo  = Coordinate{Lat: 6.9271, Lon: 79.8612}
	kandy    = Coordinate{Lat: 7.2906, Lon: 80.6337}
	hanwella = Coordinate{Lat: 6.9090, Lon: 80.0830}
)

func TestDistanceKm_IdenticalPoints(t *testing.T) {
	for _, p := range []Coordinate{colombo, kandy, {Lat: 0, Lon: 0}, {Lat: -89.9, Lon: 179.9}} {
		assert.Zero(t, DistanceKm(p, p))
	}
}

func TestDistanceKm_Symmetric(t *testing.T) {
	assert.Equal(t, DistanceKm(colombo, kandy), DistanceKm(kandy, colombo))
	assert.Equal(t, DistanceKm(colombo, hanwella), DistanceKm(hanwella, colombo))
}

func TestDistanceKm_KnownDistances(t *testing.T) {
	// Colombo to Kandy is roughly 94 km great-circle.
	assert.InDelta(t, 94, DistanceKm(colombo, kandy), 3)

	// One degree of latitude on a 6371 km sphere is ~111.19 km.
	assert.InDelta(t, 111.19, DistanceKm(Coordinate{Lat: 6, Lon: 80}, Coordinate{Lat: 7, Lon: 80}), 0.1)
}

func TestDistanceKm_NaNPropagates(t *testing.T) {
	d := DistanceKm(Coordinate{Lat: math.NaN(), Lon: 80}, colombo)
	assert.True(t, math.IsNaN(d))
}
