// Package geo estimates distance and travel time between two locations.
package geo

import (
	"context"
	"math"

	"snaplink/pkg/model"
	"snaplink/pkg/scheduling"
)

const earthRadiusKm = 6371

// HaversineProvider estimates travel from straight-line distance and a fixed
// average speed. It never fails and needs no network.
type HaversineProvider struct {
	speedKmh float64
}

func NewHaversineProvider(averageSpeedKmh float64) *HaversineProvider {
	return &HaversineProvider{speedKmh: averageSpeedKmh}
}

func (p *HaversineProvider) DistanceAndTravelTime(_ context.Context, from, to model.Location) (scheduling.TravelEstimate, error) {
	km := Haversine(from.Latitude, from.Longitude, to.Latitude, to.Longitude)
	return scheduling.TravelEstimate{
		DistanceKm: km,
		Minutes:    scheduling.TravelMinutes(km, p.speedKmh),
	}, nil
}

// Haversine returns the great-circle distance in km between two lat/lon points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}
